package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindMatch returns the concept of the longest pattern contained in raw,
// newest first on ties.
func (s *Store) FindMatch(ctx context.Context, raw string) (string, error) {
	query := `
		SELECT concept
		FROM concept_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var concept string

	err := s.db.QueryRowContext(ctx, query, raw).Scan(&concept)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding concept match: %w", err)
	}

	return concept, nil
}

func (s *Store) CreateMapping(ctx context.Context, rawPattern, concept string) error {
	query := `
		INSERT INTO concept_mappings (raw_pattern, concept, created_at)
		VALUES ($1, $2, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, rawPattern, concept); err != nil {
		return fmt.Errorf("creating concept mapping: %w", err)
	}

	return nil
}
