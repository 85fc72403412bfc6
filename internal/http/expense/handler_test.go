package expense

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/http/auth"
	"github.com/MrJamesThe3rd/washrent/internal/importer"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

type fixture struct {
	repo   *expense.MockRepository
	reader *expense.MockBalanceReader
	itx    *expense.MockImportTx
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:   expense.NewMockRepository(ctrl),
		reader: expense.NewMockBalanceReader(ctrl),
		itx:    expense.NewMockImportTx(ctrl),
	}

	h := NewHandler(expense.NewService(f.repo, f.reader, nil), importer.NewService(time.UTC, nil), time.UTC)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithOperator(r.Context(), "ana")))
		})
	})
	r.Route("/expenses", h.Routes)
	r.Route("/maintenance", h.MaintenanceRoutes)
	f.router = r

	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestCreate(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		balances   money.Balances
		balErr     error
		wantRead   bool
		wantWrite  bool
		wantStatus int
	}

	tests := []testCase{
		{
			name:       "Created",
			body:       `{"concept":"Detergente","amount":3000000,"channel":"efectivo"}`,
			balances:   money.Balances{Cash: 7000000},
			wantRead:   true,
			wantWrite:  true,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "InsufficientFunds",
			body:       `{"concept":"Repuesto","amount":8000000,"channel":"cash"}`,
			balances:   money.Balances{Cash: 7000000, WalletA: 9000000},
			wantRead:   true,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "BalancesUnavailable",
			body:       `{"concept":"Repuesto","amount":100,"channel":"cash"}`,
			balErr:     errors.New("timeout"),
			wantRead:   true,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "UnknownChannel",
			body:       `{"concept":"Repuesto","amount":100,"channel":"paypal"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ZeroAmount",
			body:       `{"concept":"Repuesto","amount":0,"channel":"cash"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "BlankConcept",
			body:       `{"concept":"  ","amount":100,"channel":"cash"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.wantRead {
				f.reader.EXPECT().Balances(gomock.Any()).Return(tt.balances, tt.balErr)
			}

			if tt.wantWrite {
				f.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			}

			rec := f.do(httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateMaintenance(t *testing.T) {
	f := newFixture(t)
	f.reader.EXPECT().Balances(gomock.Any()).Return(money.Balances{WalletB: 5000000}, nil)
	f.repo.EXPECT().CreateMaintenance(gomock.Any(), gomock.Any()).Return(nil)

	body := `{"equipment":"Lavadora 3","cost":2000000,"channel":"daviplata"}`
	rec := f.do(httptest.NewRequest(http.MethodPost, "/maintenance", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp maintenanceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, money.ChannelWalletB, resp.Channel)
	assert.Equal(t, "ana", resp.Author)
}

func TestList_Filter(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().ListExpenses(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, filter expense.ListFilter) ([]*expense.Expense, error) {
			require.NotNil(t, filter.StartDate)
			require.NotNil(t, filter.Channel)
			assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *filter.StartDate)
			assert.Equal(t, money.ChannelWalletA, *filter.Channel)

			return []*expense.Expense{{ID: uuid.New(), Concept: "Gas", Amount: 100, Channel: money.ChannelWalletA}}, nil
		})

	rec := f.do(httptest.NewRequest(http.MethodGet, "/expenses?start=2026-03-01&end=2026-03-31&channel=nequi", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 1)
}

func uploadRequest(t *testing.T, csv string) *http.Request {
	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "gastos.csv")
	require.NoError(t, err)

	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/expenses/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

const planilla = "Fecha;Concepto;Valor;Medio;Descripcion\n05/03/2026;Detergente;30.000;Efectivo;\n"

func TestImport(t *testing.T) {
	t.Run("Imported", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(f.itx, nil)
		f.itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return(nil, nil)
		f.reader.EXPECT().Balances(gomock.Any()).Return(money.Balances{Cash: 7000000}, nil)
		f.itx.EXPECT().CreateExpenses(gomock.Any(), gomock.Len(1)).Return(nil)
		f.itx.EXPECT().Commit().Return(nil)
		f.itx.EXPECT().Rollback().Return(nil)

		rec := f.do(uploadRequest(t, planilla))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp importSuccessResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Imported)
		assert.Equal(t, "ana", resp.Expenses[0].Author)
	})

	t.Run("Conflict", func(t *testing.T) {
		f := newFixture(t)
		existing := &expense.Expense{
			ID: uuid.New(), Concept: "Detergente", Amount: 3000000, Channel: money.ChannelCash,
			Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		}
		f.repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(f.itx, nil)
		f.itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return([]*expense.Expense{existing}, nil)
		f.itx.EXPECT().Rollback().Return(nil)

		rec := f.do(uploadRequest(t, planilla))
		require.Equal(t, http.StatusConflict, rec.Code)

		var resp importConflictResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Len(t, resp.Conflicts, 1)
		assert.Empty(t, resp.New)
	})

	t.Run("MissingFile", func(t *testing.T) {
		f := newFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/expenses/import", strings.NewReader(""))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

		rec := f.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestConfirmImport_Empty(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/expenses/import/confirm", strings.NewReader(`{"params":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
