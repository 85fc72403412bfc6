package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

type Store struct {
	db  *sql.DB
	loc *time.Location
}

// New builds the store. loc is the zone duplicate detection counts days in.
func New(db *sql.DB, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}

	return &Store{db: db, loc: loc}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, concept, amount, date, channel, description, author, created_at, deleted_at
func scanExpense(s scanner) (*expense.Expense, error) {
	var e expense.Expense

	var channel string

	var desc sql.NullString

	if err := s.Scan(
		&e.ID, &e.Concept, &e.Amount, &e.Date, &channel, &desc, &e.Author, &e.CreatedAt, &e.DeletedAt,
	); err != nil {
		return nil, err
	}

	e.Channel = money.Channel(channel)
	e.Description = desc.String

	return &e, nil
}

const selectExpenseColumns = `
	id, concept, amount, date, channel, description, author, created_at, deleted_at
`

const insertExpense = `
	INSERT INTO expenses (concept, amount, date, channel, description, author, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING id, created_at
`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func createExpense(ctx context.Context, db execer, e *expense.Expense) error {
	err := db.QueryRowContext(ctx, insertExpense,
		e.Concept,
		e.Amount,
		e.Date,
		e.Channel,
		e.Description,
		e.Author,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	return createExpense(ctx, s.db, e)
}

// filterClause appends the ListFilter conditions on column to query.
func filterClause(query, column string, filter expense.ListFilter) (string, []any) {
	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND %s >= $%d", column, argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND %s <= $%d", column, argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Channel != nil {
		query += fmt.Sprintf(" AND channel = $%d", argIdx)

		args = append(args, *filter.Channel)
	}

	return query + " ORDER BY " + column + " ASC", args
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	query, args := filterClause(`SELECT `+selectExpenseColumns+`
		FROM expenses
		WHERE deleted_at IS NULL`, "date", filter)

	return listExpenses(ctx, s.db, query, args...)
}

func listExpenses(ctx context.Context, db execer, query string, args ...any) ([]*expense.Expense, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return expenses, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return s.softDelete(ctx, "expenses", id)
}

func (s *Store) softDelete(ctx context.Context, table string, id uuid.UUID) error {
	query := `UPDATE ` + table + `
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}

	if n == 0 {
		return expense.ErrNotFound
	}

	return nil
}

// Expected column order: id, equipment, description, cost, channel, estimated_at, completed_at, author, created_at, deleted_at
func scanMaintenance(s scanner) (*expense.Maintenance, error) {
	var m expense.Maintenance

	var channel string

	var desc sql.NullString

	if err := s.Scan(
		&m.ID, &m.Equipment, &desc, &m.Cost, &channel, &m.EstimatedAt, &m.CompletedAt,
		&m.Author, &m.CreatedAt, &m.DeletedAt,
	); err != nil {
		return nil, err
	}

	m.Channel = money.Channel(channel)
	m.Description = desc.String

	return &m, nil
}

const selectMaintenanceColumns = `
	id, equipment, description, cost, channel, estimated_at, completed_at, author, created_at, deleted_at
`

func (s *Store) CreateMaintenance(ctx context.Context, m *expense.Maintenance) error {
	query := `
		INSERT INTO maintenance_expenses (equipment, description, cost, channel, estimated_at, completed_at, author, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		m.Equipment,
		m.Description,
		m.Cost,
		m.Channel,
		m.EstimatedAt,
		m.CompletedAt,
		m.Author,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating maintenance: %w", err)
	}

	return nil
}

func (s *Store) ListMaintenance(ctx context.Context, filter expense.ListFilter) ([]*expense.Maintenance, error) {
	query, args := filterClause(`SELECT `+selectMaintenanceColumns+`
		FROM maintenance_expenses
		WHERE deleted_at IS NULL`, "created_at", filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing maintenance: %w", err)
	}
	defer rows.Close()

	var jobs []*expense.Maintenance

	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning maintenance: %w", err)
		}

		jobs = append(jobs, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating maintenance: %w", err)
	}

	return jobs, nil
}

func (s *Store) DeleteMaintenance(ctx context.Context, id uuid.UUID) error {
	return s.softDelete(ctx, "maintenance_expenses", id)
}

func importLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte("expenses"))
	h.Write([]byte{0})
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx  *sql.Tx
	loc *time.Location
}

// BeginImport opens a transaction holding an advisory lock on the batch's
// date range so overlapping imports serialize.
func (s *Store) BeginImport(ctx context.Context, minDate, maxDate time.Time) (expense.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(minDate, maxDate)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx, loc: s.loc}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindDuplicates(ctx context.Context, params []expense.CreateParams) ([]*expense.Expense, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date    string
		Amount  int64
		Concept string
	}

	minDate := params[0].Date
	maxDate := params[0].Date
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}

		keySet[lookupKey{
			Date:    p.Date.In(itx.loc).Format(time.DateOnly),
			Amount:  p.Amount,
			Concept: strings.ToLower(p.Concept),
		}] = struct{}{}
	}

	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE deleted_at IS NULL AND date >= $1 AND date <= $2
		ORDER BY date ASC`

	from, to := dayBounds(minDate, maxDate, itx.loc)

	candidates, err := listExpenses(ctx, itx.tx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}

	var duplicates []*expense.Expense

	for _, e := range candidates {
		k := lookupKey{
			Date:    e.Date.In(itx.loc).Format(time.DateOnly),
			Amount:  e.Amount,
			Concept: strings.ToLower(e.Concept),
		}

		if _, found := keySet[k]; found {
			duplicates = append(duplicates, e)
		}
	}

	return duplicates, nil
}

// dayBounds widens [minDate, maxDate] to whole calendar days in loc.
func dayBounds(minDate, maxDate time.Time, loc *time.Location) (time.Time, time.Time) {
	minDate, maxDate = minDate.In(loc), maxDate.In(loc)

	from := time.Date(minDate.Year(), minDate.Month(), minDate.Day(), 0, 0, 0, 0, loc)
	to := time.Date(maxDate.Year(), maxDate.Month(), maxDate.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)

	return from, to
}

func (itx *importTx) CreateExpenses(ctx context.Context, expenses []*expense.Expense) error {
	for _, e := range expenses {
		if err := createExpense(ctx, itx.tx, e); err != nil {
			return err
		}
	}

	return nil
}
