package capital

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=capital
type Repository interface {
	// GetInitialCapital returns ErrNoInitialCapital when no record exists.
	GetInitialCapital(ctx context.Context) (*InitialCapital, error)
	// CreateInitialCapital must insert conditionally and return ErrAlreadyExists
	// if another record got there first.
	CreateInitialCapital(ctx context.Context, ic *InitialCapital) error

	CreateMovement(ctx context.Context, mv *Movement) error
	GetMovement(ctx context.Context, id uuid.UUID) (*Movement, error)
	ListMovements(ctx context.Context) ([]*Movement, error)
	DeleteMovement(ctx context.Context, id uuid.UUID) error
}

// Invalidator is told whenever derived views of the books become stale.
type Invalidator interface {
	Bump(ctx context.Context) error
}

type Service struct {
	repo  Repository
	cache Invalidator
}

// NewService builds the capital service. cache may be nil.
func NewService(repo Repository, cache Invalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

type CreateInitialParams struct {
	Amounts money.Split
	Date    time.Time
	Author  string
}

type CreateMovementParams struct {
	Kind    Kind
	Amounts money.Split
	Concept string
	Notes   string
	Date    time.Time
	Author  string
}

func validateAmounts(s money.Split) error {
	if s.IsZero() || s.HasNegative() {
		return ErrInvalidAmounts
	}

	return nil
}

// CreateInitialCapital records the opening balance. Once one is on file every
// further call fails with ErrAlreadyExists, whatever its params.
func (s *Service) CreateInitialCapital(ctx context.Context, params CreateInitialParams) (*InitialCapital, error) {
	existing, err := s.InitialCapital(ctx)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, ErrAlreadyExists
	}

	if err := validateAmounts(params.Amounts); err != nil {
		return nil, err
	}

	author := strings.TrimSpace(params.Author)
	if author == "" {
		return nil, ErrMissingAuthor
	}

	ic := &InitialCapital{
		Amounts: params.Amounts,
		Date:    params.Date,
		Author:  author,
	}
	if err := s.repo.CreateInitialCapital(ctx, ic); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	return ic, nil
}

// InitialCapital returns the opening balance, or nil when none was recorded.
func (s *Service) InitialCapital(ctx context.Context) (*InitialCapital, error) {
	ic, err := s.repo.GetInitialCapital(ctx)
	if err != nil {
		if errors.Is(err, ErrNoInitialCapital) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting initial capital: %w", err)
	}

	return ic, nil
}

// CreateMovement records an injection or withdrawal. Withdrawals are not
// checked against the available balance.
func (s *Service) CreateMovement(ctx context.Context, params CreateMovementParams) (*Movement, error) {
	if !params.Kind.Valid() {
		return nil, ErrInvalidKind
	}

	if err := validateAmounts(params.Amounts); err != nil {
		return nil, err
	}

	concept := strings.TrimSpace(params.Concept)
	if concept == "" {
		return nil, ErrEmptyConcept
	}

	author := strings.TrimSpace(params.Author)
	if author == "" {
		return nil, ErrMissingAuthor
	}

	m := &Movement{
		Kind:    params.Kind,
		Amounts: params.Amounts,
		Concept: concept,
		Notes:   strings.TrimSpace(params.Notes),
		Date:    params.Date,
		Author:  author,
	}
	if err := s.repo.CreateMovement(ctx, m); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	return m, nil
}

func (s *Service) GetMovement(ctx context.Context, id uuid.UUID) (*Movement, error) {
	return s.repo.GetMovement(ctx, id)
}

func (s *Service) ListMovements(ctx context.Context) ([]*Movement, error) {
	return s.repo.ListMovements(ctx)
}

// DeleteMovement removes a movement. Balances are always derived, so the
// effect disappears on the next read.
func (s *Service) DeleteMovement(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteMovement(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)

	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Bump(ctx); err != nil {
		slog.Warn("failed to invalidate ledger cache", "error", err)
	}
}
