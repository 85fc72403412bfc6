package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/washrent/internal/http/capital"
	"github.com/MrJamesThe3rd/washrent/internal/http/expense"
	"github.com/MrJamesThe3rd/washrent/internal/http/ledger"
	"github.com/MrJamesThe3rd/washrent/internal/http/matching"
	"github.com/MrJamesThe3rd/washrent/internal/http/order"
	"github.com/MrJamesThe3rd/washrent/internal/observability"
)

func newRouter(secret string) http.Handler {
	return New(Options{
		Timeout:   time.Second,
		RateLimit: 100,
		Origins:   []string{"*"},
		JWTSecret: []byte(secret),
		Metrics:   observability.NewMetrics(),
	}, Handlers{
		Capital:  capital.NewHandler(nil),
		Ledger:   ledger.NewHandler(nil, nil, nil, time.UTC),
		Expense:  expense.NewHandler(nil, nil, time.UTC),
		Order:    order.NewHandler(nil),
		Matching: matching.NewHandler(nil),
	})
}

func TestRouter(t *testing.T) {
	type testCase struct {
		name       string
		secret     string
		method     string
		path       string
		wantStatus int
	}

	tests := []testCase{
		{name: "Health", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK},
		{name: "Metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "NoToken", secret: "s3cret", method: http.MethodGet, path: "/api/v1/capital/movements", wantStatus: http.StatusUnauthorized},
		{name: "UnknownRoute", method: http.MethodGet, path: "/api/v1/nothing", wantStatus: http.StatusNotFound},
		{name: "BadMovementID", method: http.MethodDelete, path: "/api/v1/capital/movements/abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(tt.secret).ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		})
	}
}
