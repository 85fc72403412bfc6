package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=order
type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	CreatePayment(ctx context.Context, p *Payment) error
	ListPayments(ctx context.Context, filter PaymentFilter) ([]*PaymentRecord, error)
}

// Invalidator is told whenever derived views of the books become stale.
type Invalidator interface {
	Bump(ctx context.Context) error
}

type Service struct {
	repo  Repository
	cache Invalidator
}

func NewService(repo Repository, cache Invalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

type CreateParams struct {
	ClientName  string
	ClientPhone string
	Plan        string
	Total       int64
	StartDate   time.Time
}

type ListFilter struct {
	Status *Status
}

// PaymentFilter selects payments by PaidAt. Nil bounds are open.
type PaymentFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

type AddPaymentParams struct {
	Amount    int64
	Channel   money.Channel
	PaidAt    time.Time
	Reference string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Order, error) {
	client := strings.TrimSpace(params.ClientName)
	if client == "" {
		return nil, ErrMissingClient
	}

	plan := strings.TrimSpace(params.Plan)
	if plan == "" {
		return nil, ErrMissingPlan
	}

	if params.Total < 0 {
		return nil, ErrInvalidAmount
	}

	o := &Order{
		ClientName:  client,
		ClientPhone: strings.TrimSpace(params.ClientPhone),
		Plan:        plan,
		Total:       params.Total,
		Status:      StatusActive,
		StartDate:   params.StartDate,
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	return s.repo.ListOrders(ctx, filter)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

// AddPayment appends a payment to the order's history.
func (s *Service) AddPayment(ctx context.Context, orderID uuid.UUID, params AddPaymentParams) (*Payment, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if !params.Channel.Valid() {
		return nil, fmt.Errorf("%w: %q", money.ErrUnknownChannel, params.Channel)
	}

	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}

	p := &Payment{
		OrderID:   orderID,
		Amount:    params.Amount,
		Channel:   params.Channel,
		PaidAt:    params.PaidAt,
		Reference: strings.TrimSpace(params.Reference),
	}
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			slog.Warn("failed to invalidate ledger cache", "error", err)
		}
	}

	return p, nil
}

// ListPayments returns payments with their order context, ordered by PaidAt.
func (s *Service) ListPayments(ctx context.Context, filter PaymentFilter) ([]*PaymentRecord, error) {
	return s.repo.ListPayments(ctx, filter)
}
