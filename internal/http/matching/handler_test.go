package matching

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/washrent/internal/matching"
)

func newServer(t *testing.T) (*matching.MockRepository, http.Handler) {
	repo := matching.NewMockRepository(gomock.NewController(t))

	r := chi.NewRouter()
	r.Route("/matching", NewHandler(matching.NewService(repo)).Routes)

	return repo, r
}

func TestSuggest(t *testing.T) {
	repo, h := newServer(t)
	repo.EXPECT().FindMatch(gomock.Any(), "COMPRA FERRETERIA").Return("Repuestos", nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matching/suggest?raw=COMPRA+FERRETERIA", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp suggestResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Repuestos", resp.Concept)
}

func TestLearn(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		expectRepo bool
		wantStatus int
	}

	tests := []testCase{
		{name: "Learned", body: `{"raw_pattern":"ferreteria","concept":"Repuestos"}`, expectRepo: true, wantStatus: http.StatusCreated},
		{name: "MissingConcept", body: `{"raw_pattern":"ferreteria"}`, wantStatus: http.StatusBadRequest},
		{name: "BlankPattern", body: `{"raw_pattern":"  ","concept":"Repuestos"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, h := newServer(t)
			if tt.expectRepo {
				repo.EXPECT().CreateMapping(gomock.Any(), "ferreteria", "Repuestos").Return(nil)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/matching", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
