package database

import (
	"fmt"
)

// SeenBackend persists seen post IDs in sqlite, ordered by insertion position.
type SeenBackend struct {
	db *DB
}

func NewSeenBackend(db *DB) *SeenBackend {
	return &SeenBackend{db: db}
}

func (b *SeenBackend) Load() ([]string, error) {
	rows, err := b.db.Query("SELECT id FROM seen_ids ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query seen ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan seen id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seen ids: %w", err)
	}

	return ids, nil
}

// Save replaces the stored set with ids, keeping their order as positions.
func (b *SeenBackend) Save(ids []string) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM seen_ids"); err != nil {
		return fmt.Errorf("failed to clear seen ids: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO seen_ids (id, position) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.Exec(id, i); err != nil {
			return fmt.Errorf("failed to insert seen id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seen ids: %w", err)
	}

	return nil
}
