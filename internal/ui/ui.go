package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	InputView ViewState = iota
	BuildView
	ResultView
)

const (
	artistsField = iota
	sizeField
)

// maxLogLines is how many progress messages the build view keeps on screen.
const maxLogLines = 6

// Options carries the defaults a TUI session starts from.
type Options struct {
	Request    tasks.BuildRequest // Sampling defaults; Names and TargetSize come from the prompt
	OutputPath string             // Export destination for the save key
	Format     string             // Export format for the save key
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       tasks.Generator
	opts         Options
	width        int
	height       int
	inputs       []textinput.Model
	focus        int
	inputErr     string
	spinner      spinner.Model
	progressChan <-chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	log          []string
	result       *tasks.BuildResult
	tracks       list.Model
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine tasks.Generator, opts Options) *Model {
	if opts.Request.TargetSize <= 0 {
		opts.Request.TargetSize = tasks.DefaultTargetSize
	}

	artists := textinput.New()
	artists.Placeholder = "Radiohead, Portishead, Massive Attack"
	artists.Prompt = "Artists (comma-separated): "
	artists.CharLimit = 512
	artists.Width = 60
	artists.Focus()

	size := textinput.New()
	size.Placeholder = strconv.Itoa(opts.Request.TargetSize)
	size.Prompt = "How many songs? "
	size.CharLimit = 4
	size.Width = 8

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.ok

	return &Model{
		ctx:     ctx,
		view:    InputView,
		engine:  engine,
		opts:    opts,
		width:   80,
		height:  24,
		inputs:  []textinput.Model{artists, size},
		spinner: sp,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the cursor blinking in the artist prompt.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == ResultView {
			m.tracks.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case BuildView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != BuildView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateComponents(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.progress = update
		m.log = append(m.log, update.Message)
		if len(m.log) > maxLogLines {
			m.log = m.log[len(m.log)-maxLogLines:]
		}
		return m, m.waitForProgress()

	case MsgBuildComplete:
		done := msg.data.(buildResult)
		m.result = done.result
		m.err = done.err
		m.view = ResultView
		m.progressChan = nil
		if done.result != nil {
			m.tracks = list.New(trackItems(done.result.Tracks), list.NewDefaultDelegate(), 0, 0)
			m.tracks.Title = fmt.Sprintf("Generated playlist (%d tracks)", len(done.result.Tracks))
			m.tracks.SetSize(m.width-4, m.height-8)
		}
		return m, nil

	case MsgExportComplete:
		done := msg.data.(exportResult)
		if done.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Save failed: %v", done.err))
		} else {
			m.status = styles.ok.Render(fmt.Sprintf("Saved to %s", done.path))
		}
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case InputView:
		return m.renderInput()
	case BuildView:
		return m.renderBuild()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.setFocus((m.focus + 1) % len(m.inputs))
		return m, nil
	case "enter":
		if m.focus == artistsField {
			m.setFocus(sizeField)
			return m, nil
		}

		req, err := m.request()
		if err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.inputErr = ""
		return m, m.startBuild(req)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.result != nil && m.tracks.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.tracks, cmd = m.tracks.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r", "esc":
		m.reset()
		return m, textinput.Blink
	case "s":
		if m.result != nil {
			m.status = "Saving..."
			return m, m.export()
		}
		return m, nil
	}

	if m.result == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case InputView:
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	case ResultView:
		if m.result != nil {
			m.tracks, cmd = m.tracks.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *Model) reset() {
	m.view = InputView
	m.result = nil
	m.err = nil
	m.status = ""
	m.log = nil
	m.progress = tasks.ProgressUpdate{}
	m.setFocus(artistsField)
}

// request builds a [tasks.BuildRequest] from the prompt fields.
func (m *Model) request() (tasks.BuildRequest, error) {
	req := m.opts.Request
	req.Names = tasks.SplitNames(m.inputs[artistsField].Value())
	if len(req.Names) == 0 {
		return req, fmt.Errorf("enter at least one artist")
	}

	if raw := strings.TrimSpace(m.inputs[sizeField].Value()); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return req, fmt.Errorf("size must be a positive number, got %q", raw)
		}
		req.TargetSize = size
	}
	return req, nil
}

// startBuild runs the build in a command and relays progress from the engine's channel.
func (m *Model) startBuild(req tasks.BuildRequest) tea.Cmd {
	m.view = BuildView
	m.log = nil
	progressChan := make(chan tasks.ProgressUpdate, 50)
	m.progressChan = progressChan

	build := func() tea.Msg {
		result, err := m.engine.Build(m.ctx, req, progressChan)
		close(progressChan)
		return buildCompleteMsg(result, err)
	}

	return tea.Batch(m.spinner.Tick, build, m.waitForProgress())
}

// waitForProgress reads one update from the running build; Update re-arms it after each one.
func (m *Model) waitForProgress() tea.Cmd {
	progressChan := m.progressChan
	if progressChan == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-progressChan
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) export() tea.Cmd {
	result, path, format := m.result, m.opts.OutputPath, m.opts.Format
	return func() tea.Msg {
		err := m.engine.Export(result, path, format, nil)
		return exportCompleteMsg(path, err)
	}
}

func (m *Model) renderInput() string {
	title := styles.title.Render("Playlist Generator")

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if m.inputErr != "" {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(m.inputErr))
		b.WriteString("\n")
	}

	limit := m.opts.Request.MaxArtists
	if limit <= 0 {
		limit = tasks.MaxArtists
	}
	b.WriteString("\n")
	b.WriteString(styles.help.Render(fmt.Sprintf("Up to %d artists are used.", limit)))

	helpKeys := []key.Binding{m.keys.next, m.keys.enter, m.keys.back}
	return fmt.Sprintf("%s\n\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderBuild() string {
	title := styles.title.Render("Building Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.ResolveArtists:
		phase = fmt.Sprintf("Resolving artists (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.BuildPools:
		phase = fmt.Sprintf("Sampling discographies (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.AssemblePlaylist:
		phase = "Assembling playlist..."
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s %s\n\n%s", title, m.spinner.View(), phase, strings.Join(m.log, "\n"))
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s",
			styles.err.Render(fmt.Sprintf("Build failed: %v", m.err)),
			m.help.ShortHelpView(helpKeys),
		)
	}
	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	var notes []string
	if len(m.result.NotFound) > 0 {
		notes = append(notes, styles.warn.Render("Artists not found: "+strings.Join(m.result.NotFound, ", ")))
	}
	if len(m.result.Truncated) > 0 {
		notes = append(notes, styles.warn.Render("Skipped (too many artists): "+strings.Join(m.result.Truncated, ", ")))
	}
	if m.status != "" {
		notes = append(notes, m.status)
	}

	helpKeys = []key.Binding{m.keys.up, m.keys.down, m.keys.save, m.keys.restart, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", m.tracks.View(), strings.Join(notes, "\n"), m.help.ShortHelpView(helpKeys))
}
