package expense

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/money"
	"github.com/MrJamesThe3rd/washrent/internal/solvency"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	CreateMaintenance(ctx context.Context, job *Maintenance) error
	ListMaintenance(ctx context.Context, filter ListFilter) ([]*Maintenance, error)
	DeleteMaintenance(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	// FindDuplicates returns live expenses on the same calendar day, with the
	// same amount and concept, as any of params.
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Expense, error)
	CreateExpenses(ctx context.Context, expenses []*Expense) error
	Commit() error
	Rollback() error
}

// BalanceReader yields the current per-channel balances. It must fail rather
// than report zeros when the books cannot be read.
type BalanceReader interface {
	Balances(ctx context.Context) (money.Balances, error)
}

// Invalidator is told whenever derived views of the books become stale.
type Invalidator interface {
	Bump(ctx context.Context) error
}

type Service struct {
	repo     Repository
	balances BalanceReader
	cache    Invalidator
	loc      *time.Location
}

type Option func(*Service)

// WithLocation sets the zone calendar days are counted in when matching
// imported rows against expenses on file. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService builds the expense service. cache may be nil.
func NewService(repo Repository, balances BalanceReader, cache Invalidator, opts ...Option) *Service {
	s := &Service{repo: repo, balances: balances, cache: cache, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Concept     string
	Amount      int64
	Date        time.Time
	Channel     money.Channel
	Description string
	Author      string
}

type CreateMaintenanceParams struct {
	Equipment   string
	Description string
	Cost        int64
	Channel     money.Channel
	EstimatedAt *time.Time
	CompletedAt *time.Time
	Author      string
}

// ListFilter bounds expenses by Date and maintenance jobs by CreatedAt.
// Nil fields are open.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Channel   *money.Channel
}

func validate(concept string, amount int64, ch money.Channel, author string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if !ch.Valid() {
		return fmt.Errorf("%w: %q", money.ErrUnknownChannel, ch)
	}

	if concept == "" {
		return ErrMissingConcept
	}

	if author == "" {
		return ErrMissingAuthor
	}

	return nil
}

// gate fails with ErrInsufficientFunds when any channel in need is not
// covered by the current balances.
func (s *Service) gate(ctx context.Context, need money.Balances) error {
	b, err := s.balances.Balances(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBalancesUnavailable, err)
	}

	for _, ch := range money.Channels {
		amount := need.Get(ch)
		if amount == 0 {
			continue
		}

		ok, err := solvency.Check(b, amount, ch)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%w: %s has %s, needs %s",
				ErrInsufficientFunds, ch.Label(), money.Format(b.Get(ch)), money.Format(amount))
		}
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	concept := strings.TrimSpace(params.Concept)
	author := strings.TrimSpace(params.Author)

	if err := validate(concept, params.Amount, params.Channel, author); err != nil {
		return nil, err
	}

	var need money.Balances
	need.Credit(params.Channel, params.Amount)

	if err := s.gate(ctx, need); err != nil {
		return nil, err
	}

	e := &Expense{
		Concept:     concept,
		Amount:      params.Amount,
		Date:        params.Date,
		Channel:     params.Channel,
		Description: strings.TrimSpace(params.Description),
		Author:      author,
	}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	return e, nil
}

func (s *Service) CreateMaintenance(ctx context.Context, params CreateMaintenanceParams) (*Maintenance, error) {
	equipment := strings.TrimSpace(params.Equipment)
	if equipment == "" {
		return nil, ErrMissingEquipment
	}

	author := strings.TrimSpace(params.Author)

	if err := validate(equipment, params.Cost, params.Channel, author); err != nil {
		return nil, err
	}

	var need money.Balances
	need.Credit(params.Channel, params.Cost)

	if err := s.gate(ctx, need); err != nil {
		return nil, err
	}

	m := &Maintenance{
		Equipment:   equipment,
		Description: strings.TrimSpace(params.Description),
		Cost:        params.Cost,
		Channel:     params.Channel,
		EstimatedAt: params.EstimatedAt,
		CompletedAt: params.CompletedAt,
		Author:      author,
	}
	if err := s.repo.CreateMaintenance(ctx, m); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	return m, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, filter)
}

func (s *Service) ListMaintenance(ctx context.Context, filter ListFilter) ([]*Maintenance, error) {
	return s.repo.ListMaintenance(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)

	return nil
}

func (s *Service) DeleteMaintenance(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteMaintenance(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)

	return nil
}

type ImportResult struct {
	Imported  []*Expense
	New       []CreateParams
	Conflicts []Conflict
}

// Conflict pairs an incoming row with an expense already on file for the same
// day, amount and concept.
type Conflict struct {
	Incoming CreateParams
	Existing *Expense
}

// ImportBatch writes a batch of expenses atomically. Rows matching existing
// expenses are reported as conflicts and nothing is written. Otherwise the
// per-channel sum of the batch must pass the solvency gate.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	var need money.Balances

	for i := range params {
		params[i].Concept = strings.TrimSpace(params[i].Concept)
		params[i].Author = strings.TrimSpace(params[i].Author)

		p := params[i]
		if err := validate(p.Concept, p.Amount, p.Channel, p.Author); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		need.Credit(p.Channel, p.Amount)
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Expense, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.Date, d.Amount, d.Concept, s.loc)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[keyOf(p.Date, p.Amount, p.Concept, s.loc)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	if err := s.gate(ctx, need); err != nil {
		return nil, err
	}

	expenses := paramsToExpenses(newParams)
	if err := itx.CreateExpenses(ctx, expenses); err != nil {
		return nil, fmt.Errorf("create expenses: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	s.invalidate(ctx)

	return &ImportResult{Imported: expenses}, nil
}

type dupKey struct {
	Date    string
	Amount  int64
	Concept string
}

// keyOf compares days in loc. Stored dates come back in the driver's zone,
// imported ones in the configured one.
func keyOf(date time.Time, amount int64, concept string, loc *time.Location) dupKey {
	return dupKey{
		Date:    date.In(loc).Format(time.DateOnly),
		Amount:  amount,
		Concept: strings.ToLower(concept),
	}
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func paramsToExpenses(params []CreateParams) []*Expense {
	expenses := make([]*Expense, len(params))
	for i, p := range params {
		expenses[i] = &Expense{
			Concept:     p.Concept,
			Amount:      p.Amount,
			Date:        p.Date,
			Channel:     p.Channel,
			Description: strings.TrimSpace(p.Description),
			Author:      p.Author,
		}
	}

	return expenses
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Bump(ctx); err != nil {
		slog.Warn("failed to invalidate ledger cache", "error", err)
	}
}
