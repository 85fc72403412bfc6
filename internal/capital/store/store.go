package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/capital"
	"github.com/MrJamesThe3rd/washrent/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetInitialCapital(ctx context.Context) (*capital.InitialCapital, error) {
	query := `
		SELECT id, cash, wallet_a, wallet_b, date, author, created_at
		FROM initial_capital
		LIMIT 1
	`

	var ic capital.InitialCapital

	err := s.db.QueryRowContext(ctx, query).Scan(
		&ic.ID, &ic.Amounts.Cash, &ic.Amounts.WalletA, &ic.Amounts.WalletB,
		&ic.Date, &ic.Author, &ic.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, capital.ErrNoInitialCapital
		}

		return nil, fmt.Errorf("getting initial capital: %w", err)
	}

	return &ic, nil
}

// CreateInitialCapital relies on the unique singleton column: a second insert
// is a no-op that returns no row, which maps to ErrAlreadyExists.
func (s *Store) CreateInitialCapital(ctx context.Context, ic *capital.InitialCapital) error {
	query := `
		INSERT INTO initial_capital (singleton, cash, wallet_a, wallet_b, date, author, created_at)
		VALUES (TRUE, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (singleton) DO NOTHING
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		ic.Amounts.Cash,
		ic.Amounts.WalletA,
		ic.Amounts.WalletB,
		ic.Date,
		ic.Author,
	).Scan(&ic.ID, &ic.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || database.IsUniqueViolation(err) {
			return capital.ErrAlreadyExists
		}

		return fmt.Errorf("creating initial capital: %w", err)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, kind, cash, wallet_a, wallet_b, concept, notes, date, author, created_at, deleted_at
func scanMovement(s scanner) (*capital.Movement, error) {
	var m capital.Movement

	var kind string

	var notes sql.NullString

	if err := s.Scan(
		&m.ID, &kind, &m.Amounts.Cash, &m.Amounts.WalletA, &m.Amounts.WalletB,
		&m.Concept, &notes, &m.Date, &m.Author, &m.CreatedAt, &m.DeletedAt,
	); err != nil {
		return nil, err
	}

	m.Kind = capital.Kind(kind)
	m.Notes = notes.String

	return &m, nil
}

const selectMovementColumns = `
	id, kind, cash, wallet_a, wallet_b, concept, notes, date, author, created_at, deleted_at
`

func (s *Store) CreateMovement(ctx context.Context, m *capital.Movement) error {
	query := `
		INSERT INTO capital_movements (kind, cash, wallet_a, wallet_b, concept, notes, date, author, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		m.Kind,
		m.Amounts.Cash,
		m.Amounts.WalletA,
		m.Amounts.WalletB,
		m.Concept,
		m.Notes,
		m.Date,
		m.Author,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating capital movement: %w", err)
	}

	return nil
}

func (s *Store) GetMovement(ctx context.Context, id uuid.UUID) (*capital.Movement, error) {
	query := `SELECT ` + selectMovementColumns + `
		FROM capital_movements
		WHERE id = $1 AND deleted_at IS NULL`

	m, err := scanMovement(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, capital.ErrNotFound
		}

		return nil, fmt.Errorf("getting capital movement: %w", err)
	}

	return m, nil
}

func (s *Store) ListMovements(ctx context.Context) ([]*capital.Movement, error) {
	query := `SELECT ` + selectMovementColumns + `
		FROM capital_movements
		WHERE deleted_at IS NULL
		ORDER BY date ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing capital movements: %w", err)
	}
	defer rows.Close()

	var movements []*capital.Movement

	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning capital movement: %w", err)
		}

		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating capital movements: %w", err)
	}

	return movements, nil
}

func (s *Store) DeleteMovement(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE capital_movements
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting capital movement: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting capital movement: %w", err)
	}

	if n == 0 {
		return capital.ErrNotFound
	}

	return nil
}
