// Package httpx holds the response, decoding and error-mapping helpers
// shared by the API handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/washrent/internal/capital"
	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/ledger"
	"github.com/MrJamesThe3rd/washrent/internal/matching"
	"github.com/MrJamesThe3rd/washrent/internal/money"
	"github.com/MrJamesThe3rd/washrent/internal/order"
	"github.com/MrJamesThe3rd/washrent/internal/solvency"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Decode reads a JSON body into dst and runs its validate tags.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	return nil
}

var (
	badRequest = []error{
		capital.ErrInvalidAmounts,
		capital.ErrEmptyConcept,
		capital.ErrInvalidKind,
		capital.ErrMissingAuthor,
		expense.ErrInvalidAmount,
		expense.ErrMissingConcept,
		expense.ErrMissingEquipment,
		expense.ErrMissingAuthor,
		order.ErrInvalidAmount,
		order.ErrInvalidStatus,
		order.ErrMissingClient,
		order.ErrMissingPlan,
		money.ErrUnknownChannel,
		solvency.ErrNonPositiveAmount,
		matching.ErrEmptyMapping,
	}
	notFound = []error{
		capital.ErrNotFound,
		capital.ErrNoInitialCapital,
		expense.ErrNotFound,
		order.ErrNotFound,
	}
	unavailable = []error{
		ledger.ErrSourceUnavailable,
		expense.ErrBalancesUnavailable,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}

	return false
}

// Status maps a service error to its HTTP status code.
func Status(err error) int {
	switch {
	case isAny(err, unavailable):
		return http.StatusServiceUnavailable
	case isAny(err, notFound):
		return http.StatusNotFound
	case errors.Is(err, capital.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, expense.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case isAny(err, badRequest):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Error writes err with the status Status picks for it. Validation failures
// tell the operator that nothing changed; source failures ask for a retry.
func Error(w http.ResponseWriter, err error) {
	status := Status(err)

	switch status {
	case http.StatusServiceUnavailable:
		http.Error(w, "could not load data, try again: "+err.Error(), status)
	case http.StatusInternalServerError:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", status)
	default:
		http.Error(w, "nothing changed: "+err.Error(), status)
	}
}

// Window reads the start and end query parameters as calendar days in loc.
// end covers its whole day. Both default to the current month.
func Window(r *http.Request, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	now = now.In(loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	endDay := start.AddDate(0, 1, -1)

	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
		}

		start = t
	}

	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
		}

		endDay = t
	}

	end := endDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end date is before start date")
	}

	return start, end, nil
}

// DateOr returns t, or now when t is zero.
func DateOr(t time.Time, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}

	return t
}
