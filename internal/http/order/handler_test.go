package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/washrent/internal/money"
	"github.com/MrJamesThe3rd/washrent/internal/order"
)

func newServer(t *testing.T) (*order.MockRepository, *order.MockInvalidator, http.Handler) {
	ctrl := gomock.NewController(t)
	repo := order.NewMockRepository(ctrl)
	cache := order.NewMockInvalidator(ctrl)

	r := chi.NewRouter()
	r.Route("/orders", NewHandler(order.NewService(repo, cache)).Routes)

	return repo, cache, r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	return rec
}

func TestGet(t *testing.T) {
	repo, _, h := newServer(t)
	id := uuid.New()

	repo.EXPECT().GetOrder(gomock.Any(), id).Return(&order.Order{
		ID:         id,
		ClientName: "Marta",
		Plan:       "Semanal",
		Total:      12000000,
		Status:     order.StatusActive,
		Payments: []order.Payment{
			{ID: uuid.New(), Amount: 5000000, Channel: money.ChannelWalletA},
		},
	}, nil)

	rec := do(h, http.MethodGet, "/orders/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(5000000), resp.Paid)
	assert.Equal(t, int64(7000000), resp.Outstanding)
	assert.Len(t, resp.Payments, 1)
}

func TestCreate(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		expectRepo bool
		wantStatus int
	}

	tests := []testCase{
		{name: "Created", body: `{"client_name":"Marta","plan":"Semanal","total":12000000}`, expectRepo: true, wantStatus: http.StatusCreated},
		{name: "MissingPlan", body: `{"client_name":"Marta","total":1}`, wantStatus: http.StatusBadRequest},
		{name: "NegativeTotal", body: `{"client_name":"Marta","plan":"x","total":-1}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, h := newServer(t)
			if tt.expectRepo {
				repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil)
			}

			rec := do(h, http.MethodPost, "/orders", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestAddPayment(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		orderErr   error
		lookup     bool
		write      bool
		wantStatus int
	}

	tests := []testCase{
		{name: "Recorded", body: `{"amount":5000000,"channel":"nequi"}`, lookup: true, write: true, wantStatus: http.StatusCreated},
		{name: "UnknownOrder", body: `{"amount":5000000,"channel":"cash"}`, lookup: true, orderErr: order.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "UnknownChannel", body: `{"amount":5000000,"channel":"card"}`, wantStatus: http.StatusBadRequest},
		{name: "ZeroAmount", body: `{"amount":0,"channel":"cash"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, cache, h := newServer(t)
			id := uuid.New()

			if tt.lookup {
				repo.EXPECT().GetOrder(gomock.Any(), id).Return(&order.Order{ID: id}, tt.orderErr)
			}

			if tt.write {
				repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(nil)
				cache.EXPECT().Bump(gomock.Any()).Return(nil)
			}

			rec := do(h, http.MethodPost, "/orders/"+id.String()+"/payments", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusCreated {
				return
			}

			var resp paymentResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, money.ChannelWalletA, resp.Channel)
			assert.False(t, resp.PaidAt.IsZero())
		})
	}
}

func TestList_InvalidStatus(t *testing.T) {
	_, _, h := newServer(t)

	rec := do(h, http.MethodGet, "/orders?status=lost", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
