package expense_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

var day = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

func TestService_Create(t *testing.T) {
	type args struct {
		params expense.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		balances  money.Balances
		balErr    error
		setupMock func(m *expense.MockRepository)
		wantErr   error
	}

	funded := money.Balances{Cash: 70000, WalletA: 50000}

	tests := []testCase{
		{
			name:     "Success",
			args:     args{params: expense.CreateParams{Concept: " detergente ", Amount: 30000, Channel: money.ChannelCash, Date: day, Author: "ana"}},
			balances: funded,
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *expense.Expense) error {
						assert.Equal(t, "detergente", e.Concept)
						e.ID = uuid.New()

						return nil
					})
			},
		},
		{
			name:     "ExactBalance",
			args:     args{params: expense.CreateParams{Concept: "repuesto", Amount: 50000, Channel: money.ChannelWalletA, Date: day, Author: "ana"}},
			balances: funded,
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:     "InsufficientFunds",
			args:     args{params: expense.CreateParams{Concept: "repuesto", Amount: 80000, Channel: money.ChannelCash, Date: day, Author: "ana"}},
			balances: funded,
			wantErr:  expense.ErrInsufficientFunds,
		},
		{
			name:     "EmptyChannel",
			args:     args{params: expense.CreateParams{Concept: "repuesto", Amount: 1, Channel: money.ChannelWalletB, Date: day, Author: "ana"}},
			balances: funded,
			wantErr:  expense.ErrInsufficientFunds,
		},
		{
			name:    "BalancesUnavailable",
			args:    args{params: expense.CreateParams{Concept: "repuesto", Amount: 100, Channel: money.ChannelCash, Date: day, Author: "ana"}},
			balErr:  errors.New("connection refused"),
			wantErr: expense.ErrBalancesUnavailable,
		},
		{
			name:    "ZeroAmount",
			args:    args{params: expense.CreateParams{Concept: "repuesto", Channel: money.ChannelCash, Author: "ana"}},
			wantErr: expense.ErrInvalidAmount,
		},
		{
			name:    "UnknownChannel",
			args:    args{params: expense.CreateParams{Concept: "repuesto", Amount: 10, Channel: "card", Author: "ana"}},
			wantErr: money.ErrUnknownChannel,
		},
		{
			name:    "BlankConcept",
			args:    args{params: expense.CreateParams{Concept: "  ", Amount: 10, Channel: money.ChannelCash, Author: "ana"}},
			wantErr: expense.ErrMissingConcept,
		},
		{
			name:    "MissingAuthor",
			args:    args{params: expense.CreateParams{Concept: "repuesto", Amount: 10, Channel: money.ChannelCash}},
			wantErr: expense.ErrMissingAuthor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			reader := expense.NewMockBalanceReader(ctrl)
			reader.EXPECT().Balances(gomock.Any()).Return(tt.balances, tt.balErr).AnyTimes()

			svc := expense.NewService(repo, reader, nil)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.args.params.Amount, got.Amount)
		})
	}
}

func TestService_CreateMaintenance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	reader := expense.NewMockBalanceReader(ctrl)
	cache := expense.NewMockInvalidator(ctrl)
	svc := expense.NewService(repo, reader, cache)

	reader.EXPECT().Balances(gomock.Any()).Return(money.Balances{WalletB: 20000}, nil).Times(2)
	repo.EXPECT().CreateMaintenance(gomock.Any(), gomock.Any()).Return(nil)
	cache.EXPECT().Bump(gomock.Any()).Return(errors.New("redis down"))

	m, err := svc.CreateMaintenance(context.Background(), expense.CreateMaintenanceParams{
		Equipment: "Lavadora LG 18kg",
		Cost:      20000,
		Channel:   money.ChannelWalletB,
		Author:    "ana",
	})
	require.NoError(t, err, "a failed cache bump must not fail the write")
	assert.Equal(t, "Lavadora LG 18kg", m.Equipment)

	_, err = svc.CreateMaintenance(context.Background(), expense.CreateMaintenanceParams{
		Equipment: "Lavadora LG 18kg",
		Cost:      20001,
		Channel:   money.ChannelWalletB,
		Author:    "ana",
	})
	assert.ErrorIs(t, err, expense.ErrInsufficientFunds)

	_, err = svc.CreateMaintenance(context.Background(), expense.CreateMaintenanceParams{Cost: 1, Channel: money.ChannelCash, Author: "ana"})
	assert.ErrorIs(t, err, expense.ErrMissingEquipment)
}

func TestService_ImportBatch(t *testing.T) {
	rows := []expense.CreateParams{
		{Concept: "Detergente", Amount: 20000, Channel: money.ChannelCash, Date: day, Author: "ana"},
		{Concept: "Transporte", Amount: 30000, Channel: money.ChannelCash, Date: day.AddDate(0, 0, 1), Author: "ana"},
		{Concept: "Recarga", Amount: 10000, Channel: money.ChannelWalletA, Date: day, Author: "ana"},
	}

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := expense.NewMockRepository(ctrl)
		itx := expense.NewMockImportTx(ctrl)
		reader := expense.NewMockBalanceReader(ctrl)

		repo.EXPECT().BeginImport(gomock.Any(), day, day.AddDate(0, 0, 1)).Return(itx, nil)
		itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return(nil, nil)
		reader.EXPECT().Balances(gomock.Any()).Return(money.Balances{Cash: 50000, WalletA: 10000}, nil)
		itx.EXPECT().CreateExpenses(gomock.Any(), gomock.Len(3)).Return(nil)
		itx.EXPECT().Commit().Return(nil)
		itx.EXPECT().Rollback().Return(nil)

		svc := expense.NewService(repo, reader, nil)
		res, err := svc.ImportBatch(context.Background(), append([]expense.CreateParams(nil), rows...))
		require.NoError(t, err)
		assert.Len(t, res.Imported, 3)
	})

	t.Run("BatchSumExceedsChannel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := expense.NewMockRepository(ctrl)
		itx := expense.NewMockImportTx(ctrl)
		reader := expense.NewMockBalanceReader(ctrl)

		repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(itx, nil)
		itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return(nil, nil)
		// Each cash row fits on its own, the pair does not.
		reader.EXPECT().Balances(gomock.Any()).Return(money.Balances{Cash: 40000, WalletA: 10000}, nil)
		itx.EXPECT().Rollback().Return(nil)

		svc := expense.NewService(repo, reader, nil)
		_, err := svc.ImportBatch(context.Background(), append([]expense.CreateParams(nil), rows...))
		assert.ErrorIs(t, err, expense.ErrInsufficientFunds)
	})

	t.Run("Conflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := expense.NewMockRepository(ctrl)
		itx := expense.NewMockImportTx(ctrl)
		reader := expense.NewMockBalanceReader(ctrl)

		existing := &expense.Expense{ID: uuid.New(), Concept: "detergente", Amount: 20000, Date: day}

		repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(itx, nil)
		itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return([]*expense.Expense{existing}, nil)
		itx.EXPECT().Rollback().Return(nil)

		svc := expense.NewService(repo, reader, nil)
		res, err := svc.ImportBatch(context.Background(), append([]expense.CreateParams(nil), rows...))
		require.NoError(t, err)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, existing, res.Conflicts[0].Existing)
		assert.Len(t, res.New, 2)
		assert.Empty(t, res.Imported)
	})

	t.Run("ConflictCountsDaysInLocation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		bogota := time.FixedZone("COT", -5*60*60)

		repo := expense.NewMockRepository(ctrl)
		itx := expense.NewMockImportTx(ctrl)
		reader := expense.NewMockBalanceReader(ctrl)

		incoming := expense.CreateParams{
			Concept: "Detergente", Amount: 20000, Channel: money.ChannelCash,
			Date: time.Date(2024, 3, 1, 0, 0, 0, 0, bogota), Author: "ana",
		}
		// 22:00 on March 1st in Bogota, read back from the database in UTC.
		existing := &expense.Expense{ID: uuid.New(), Concept: "detergente", Amount: 20000, Date: time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC)}

		repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(itx, nil)
		itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return([]*expense.Expense{existing}, nil)
		itx.EXPECT().Rollback().Return(nil)

		svc := expense.NewService(repo, reader, nil, expense.WithLocation(bogota))
		res, err := svc.ImportBatch(context.Background(), []expense.CreateParams{incoming})
		require.NoError(t, err)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, existing, res.Conflicts[0].Existing)
		assert.Empty(t, res.New)
	})

	t.Run("InvalidRow", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := expense.NewService(expense.NewMockRepository(ctrl), expense.NewMockBalanceReader(ctrl), nil)
		bad := append([]expense.CreateParams(nil), rows...)
		bad[1].Amount = 0

		_, err := svc.ImportBatch(context.Background(), bad)
		assert.ErrorIs(t, err, expense.ErrInvalidAmount)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("Empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := expense.NewService(expense.NewMockRepository(ctrl), expense.NewMockBalanceReader(ctrl), nil)
		res, err := svc.ImportBatch(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, res.Imported)
	})
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	cache := expense.NewMockInvalidator(ctrl)
	svc := expense.NewService(repo, expense.NewMockBalanceReader(ctrl), cache)

	id := uuid.New()

	repo.EXPECT().DeleteExpense(gomock.Any(), id).Return(nil)
	cache.EXPECT().Bump(gomock.Any()).Return(nil)
	assert.NoError(t, svc.Delete(context.Background(), id))

	repo.EXPECT().DeleteExpense(gomock.Any(), id).Return(expense.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), id), expense.ErrNotFound)
}
