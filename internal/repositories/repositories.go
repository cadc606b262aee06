// package repositories provides persistence layer implementations for cached model types.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// NextSequence increments and returns the counter kept in "{table}_sequence".
//
// A single UPDATE ... RETURNING keeps the increment atomic without an explicit transaction.
func NextSequence(db *sql.DB, table string) (int, error) {
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)

	var sequence int
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("sequence for %s is not initialized", table)
		}
		return 0, fmt.Errorf("failed to increment %s sequence: %w", table, err)
	}
	return sequence, nil
}
