package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Danpaek111/spotipy-playlist-generator/internal/models"
	"github.com/Danpaek111/spotipy-playlist-generator/internal/shared"
)

var _ models.Repository[*models.PersistedArtist] = (*ArtistRepository)(nil)

const artistColumns = `id, sequence, query, artist_id, name, popularity, created_at, updated_at, deleted_at`

// ArtistRepository implements models.Repository[*models.PersistedArtist] for artist resolution caching.
//
// At most one live row exists per normalized query.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Create inserts a new [models.PersistedArtist] into the database with generated ID and sequence
func (r *ArtistRepository) Create(entry *models.PersistedArtist) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "artists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO artists (id, sequence, query, artist_id, name, popularity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	artist := entry.Artist()
	_, err = r.db.Exec(query,
		id,
		sequence,
		entry.Query(),
		artist.ID,
		artist.Name,
		artist.Popularity,
		entry.CreatedAt(),
		entry.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}

	entry.SetID(id)
	entry.SetSequence(sequence)
	return nil
}

// Get retrieves a cache entry by ID, excluding soft-deleted entries
func (r *ArtistRepository) Get(id string) (*models.PersistedArtist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE id = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, id))
}

// GetByQuery retrieves the live cache entry for a normalized query
func (r *ArtistRepository) GetByQuery(q string) (*models.PersistedArtist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE query = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, q))
}

// Update points an existing entry at a different artist
func (r *ArtistRepository) Update(entry *models.PersistedArtist) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	artist := entry.Artist()

	query := `
		UPDATE artists
		SET artist_id = ?, name = ?, popularity = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, artist.ID, artist.Name, artist.Popularity, now, entry.ID())
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}
	if err := requireRow(result, entry.ID()); err != nil {
		return err
	}

	entry.SetUpdatedAt(now)
	return nil
}

// Delete soft-deletes a cache entry by ID
func (r *ArtistRepository) Delete(id string) error {
	query := `
		UPDATE artists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}
	return requireRow(result, id)
}

// Purge permanently removes every entry, deleted or not, and returns how many rows were removed
func (r *ArtistRepository) Purge() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM artists`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge artists: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

// List retrieves all live entries matching the given criteria ("artist_id", "query") in sequence order
func (r *ArtistRepository) List(criteria map[string]any) ([]*models.PersistedArtist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE deleted_at IS NULL`
	args := []any{}

	if artistID, ok := criteria["artist_id"].(string); ok && artistID != "" {
		query += " AND artist_id = ?"
		args = append(args, artistID)
	}

	if q, ok := criteria["query"].(string); ok && q != "" {
		query += " AND query = ?"
		args = append(args, q)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	entries := []*models.PersistedArtist{}
	for rows.Next() {
		entry, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scan reads one row from a [sql.Row] or [sql.Rows] into a [models.PersistedArtist]
func (r *ArtistRepository) scan(row scanner) (*models.PersistedArtist, error) {
	var (
		id        string
		sequence  int
		q         string
		artist    models.Artist
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &q, &artist.ID, &artist.Name, &artist.Popularity, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: artist", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}

	entry := models.NewPersistedArtist(sequence, q, artist)
	entry.SetID(id)
	entry.SetCreatedAt(createdAt)
	entry.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		entry.SetDeletedAt(&deletedAt.Time)
	}

	return entry, nil
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: artist %s not found or already deleted", shared.ErrNotFound, id)
	}
	return nil
}
