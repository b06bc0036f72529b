package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/pitch-api/internal/api/shared"
	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/mocks"
	"github.com/careerforge/pitch-api/internal/service"
)

// withUser injects an authenticated user the way the auth middleware
// would.
func withUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newDraftRouter(t *testing.T, drafts *mocks.MemoryDraftStore, userID uuid.UUID) http.Handler {
	t.Helper()

	svc, err := service.NewDraftService(drafts)
	require.NoError(t, err)
	h := NewDraftHandler(svc, nil)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(withUser(userID))
		r.Post("/api/pitches", h.Create)
		r.Get("/api/pitches/{id}", h.Get)
		r.Put("/api/pitches/{id}", h.Update)
		r.Delete("/api/pitches/{id}", h.Delete)
	})
	return r
}

func TestCreateDraft(t *testing.T) {
	t.Parallel()

	drafts := mocks.NewMemoryDraftStore()
	userID := uuid.New()
	router := newDraftRouter(t, drafts, userID)

	body := `{"role":"Backend Engineer","examples":[{"situation":"Outage","result":"Recovered"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/pitches", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp DraftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "Backend Engineer", resp.Role)
	require.Len(t, resp.Examples, 1)
	assert.Equal(t, "Outage", resp.Examples[0].Situation)

	// Persisted under the authenticated user.
	stored := drafts.Draft(resp.ID)
	require.NotNil(t, stored)
	assert.Equal(t, userID, stored.UserID)
}

func TestCreateDraftRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	router := newDraftRouter(t, mocks.NewMemoryDraftStore(), uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/pitches", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDraftRejectsTooManyExamples(t *testing.T) {
	t.Parallel()

	router := newDraftRouter(t, mocks.NewMemoryDraftStore(), uuid.New())

	payload := SaveDraftRequest{Examples: make([]StarExamplePayload, 6)}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/pitches", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDraft(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	draft, err := domain.NewDraft(userID, domain.PitchInput{Role: "Designer"})
	require.NoError(t, err)

	drafts := mocks.NewMemoryDraftStore().Seed(*draft)
	router := newDraftRouter(t, drafts, userID)

	req := httptest.NewRequest(http.MethodGet, "/api/pitches/"+draft.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DraftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, draft.ID, resp.ID)
	assert.Equal(t, "Designer", resp.Role)
}

func TestGetDraftNotFound(t *testing.T) {
	t.Parallel()

	router := newDraftRouter(t, mocks.NewMemoryDraftStore(), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/pitches/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDraftForbiddenForOtherUser(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	draft, err := domain.NewDraft(owner, domain.PitchInput{Role: "Designer"})
	require.NoError(t, err)

	// Authenticated as a different user.
	router := newDraftRouter(t, mocks.NewMemoryDraftStore().Seed(*draft), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/pitches/"+draft.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetDraftInvalidID(t *testing.T) {
	t.Parallel()

	router := newDraftRouter(t, mocks.NewMemoryDraftStore(), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/pitches/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateDraft(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	draft, err := domain.NewDraft(userID, domain.PitchInput{Role: "Engineer"})
	require.NoError(t, err)

	drafts := mocks.NewMemoryDraftStore().Seed(*draft)
	router := newDraftRouter(t, drafts, userID)

	body := `{"role":"Engineer","experience":"Ten years of infrastructure work"}`
	req := httptest.NewRequest(http.MethodPut, "/api/pitches/"+draft.ID.String(), bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ten years of infrastructure work", drafts.Draft(draft.ID).Input.Experience)
}

func TestDeleteDraft(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	draft, err := domain.NewDraft(userID, domain.PitchInput{Role: "Engineer"})
	require.NoError(t, err)

	drafts := mocks.NewMemoryDraftStore().Seed(*draft)
	router := newDraftRouter(t, drafts, userID)

	req := httptest.NewRequest(http.MethodDelete, "/api/pitches/"+draft.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, drafts.Draft(draft.ID))
}

func TestDraftEndpointsRequireAuth(t *testing.T) {
	t.Parallel()

	// No user-injecting middleware at all.
	svc, err := service.NewDraftService(mocks.NewMemoryDraftStore())
	require.NoError(t, err)
	h := NewDraftHandler(svc, nil)

	r := chi.NewRouter()
	r.Post("/api/pitches", h.Create)
	r.Get("/api/pitches/{id}", h.Get)

	req := httptest.NewRequest(http.MethodPost, "/api/pitches", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/pitches/"+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
