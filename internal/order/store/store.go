package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/money"
	"github.com/MrJamesThe3rd/washrent/internal/order"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectOrderColumns = `
	id, client_name, client_phone, plan, total, status, start_date, created_at, updated_at
`

func scanOrder(s scanner) (*order.Order, error) {
	var o order.Order

	var status string

	var phone sql.NullString

	if err := s.Scan(
		&o.ID, &o.ClientName, &phone, &o.Plan, &o.Total, &status, &o.StartDate, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	o.Status = order.Status(status)
	o.ClientPhone = phone.String

	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO orders (client_name, client_phone, plan, total, status, start_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		o.ClientName,
		o.ClientPhone,
		o.Plan,
		o.Total,
		o.Status,
		o.StartDate,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating order: %w", err)
	}

	return nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("getting order: %w", err)
	}

	payments, err := s.paymentsForOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	o.Payments = payments

	return o, nil
}

func (s *Store) paymentsForOrder(ctx context.Context, orderID uuid.UUID) ([]order.Payment, error) {
	query := `
		SELECT id, order_id, amount, channel, paid_at, reference, created_at
		FROM order_payments
		WHERE order_id = $1
		ORDER BY paid_at ASC`

	rows, err := s.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing order payments: %w", err)
	}
	defer rows.Close()

	var payments []order.Payment

	for rows.Next() {
		var p order.Payment

		var channel string

		var ref sql.NullString

		if err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &channel, &p.PaidAt, &ref, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order payment: %w", err)
		}

		p.Channel = money.Channel(channel)
		p.Reference = ref.String
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order payments: %w", err)
	}

	return payments, nil
}

func (s *Store) ListOrders(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders`

	var args []any

	if filter.Status != nil {
		query += " WHERE status = $1"

		args = append(args, *filter.Status)
	}

	query += " ORDER BY start_date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	return orders, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return order.ErrNotFound
	}

	return nil
}

func (s *Store) CreatePayment(ctx context.Context, p *order.Payment) error {
	query := `
		INSERT INTO order_payments (order_id, amount, channel, paid_at, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.OrderID,
		p.Amount,
		p.Channel,
		p.PaidAt,
		p.Reference,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating order payment: %w", err)
	}

	return nil
}

func (s *Store) ListPayments(ctx context.Context, filter order.PaymentFilter) ([]*order.PaymentRecord, error) {
	query := `
		SELECT p.id, p.order_id, p.amount, p.channel, p.paid_at, p.reference, p.created_at,
			o.client_name, o.plan
		FROM order_payments p
		JOIN orders o ON o.id = p.order_id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND p.paid_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND p.paid_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY p.paid_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var records []*order.PaymentRecord

	for rows.Next() {
		var r order.PaymentRecord

		var channel string

		var ref sql.NullString

		if err := rows.Scan(
			&r.ID, &r.OrderID, &r.Amount, &channel, &r.PaidAt, &ref, &r.CreatedAt,
			&r.ClientName, &r.Plan,
		); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		r.Channel = money.Channel(channel)
		r.Reference = ref.String
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}

	return records, nil
}
