package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/pitch-api/internal/dispatch"
	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/events"
	"github.com/careerforge/pitch-api/internal/mocks"
	"github.com/careerforge/pitch-api/internal/reconcile"
	"github.com/careerforge/pitch-api/internal/service"
)

// generationFixture wires real dispatcher and reconciler over in-memory
// stores, the way cmd/server does against postgres.
type generationFixture struct {
	router   http.Handler
	userID   uuid.UUID
	drafts   *mocks.MemoryDraftStore
	tasks    *mocks.MemoryTaskStore
	provider *mocks.MockProvider
}

func newGenerationFixture(t *testing.T) *generationFixture {
	t.Helper()

	drafts := mocks.NewMemoryDraftStore()
	tasks := mocks.NewMemoryTaskStore()
	provider := &mocks.MockProvider{}
	notifier := events.NewCompletionNotifier(nil)

	dispatcher, err := dispatch.NewDispatcher(
		tasks, provider, "https://api.example.com/api/callbacks/generation", time.Second, nil)
	require.NoError(t, err)

	reconciler, err := reconcile.NewReconciler(tasks, notifier, nil)
	require.NoError(t, err)

	poller, err := reconcile.NewPoller(tasks, notifier, reconcile.PollerConfig{
		Interval:    10 * time.Millisecond,
		MaxAttempts: 5,
	}, nil)
	require.NoError(t, err)

	draftSvc, err := service.NewDraftService(drafts)
	require.NoError(t, err)

	h := NewGenerationHandler(draftSvc, dispatcher, reconciler, poller, nil)
	userID := uuid.New()

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(withUser(userID))
		r.Post("/api/pitches/{id}/generate", h.Generate)
		r.Get("/api/pitches/{id}/result", h.Result)
	})
	r.Post("/api/callbacks/generation", h.Callback)

	return &generationFixture{
		router:   r,
		userID:   userID,
		drafts:   drafts,
		tasks:    tasks,
		provider: provider,
	}
}

// seedDraft stores a draft for the fixture user and its matching task
// record, mirroring the shared pitches row in postgres.
func (f *generationFixture) seedDraft(t *testing.T) uuid.UUID {
	t.Helper()

	draft, err := domain.NewDraft(f.userID, domain.PitchInput{Role: "Engineer"})
	require.NoError(t, err)
	f.drafts.Seed(*draft)
	f.tasks.Seed(domain.TaskRecord{ID: draft.ID})
	return draft.ID
}

func decodeGeneration(t *testing.T, rec *httptest.ResponseRecorder) GenerationResponse {
	t.Helper()
	var resp GenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGenerateFreshDispatch(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)
	id := f.seedDraft(t)

	req := httptest.NewRequest(http.MethodPost, "/api/pitches/"+id.String()+"/generate", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, GenerationStatusDispatched, decodeGeneration(t, rec).Status)
	assert.Equal(t, 1, f.provider.Calls())

	// The correlation marker survived the dispatch.
	assert.NotNil(t, f.tasks.Record(id).CorrelationID)
}

func TestGenerateIdempotentWhenCompleted(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)
	id := f.seedDraft(t)
	corr := id
	f.tasks.Seed(domain.TaskRecord{ID: id, CorrelationID: &corr, ResultPayload: "The pitch"})

	req := httptest.NewRequest(http.MethodPost, "/api/pitches/"+id.String()+"/generate", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeGeneration(t, rec)
	assert.Equal(t, GenerationStatusCompleted, resp.Status)
	assert.Equal(t, "The pitch", resp.Result)
	assert.Equal(t, 0, f.provider.Calls(), "completed task must not re-dispatch")
}

func TestGenerateShortCircuitsInProgress(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)
	id := f.seedDraft(t)
	corr := id
	f.tasks.Seed(domain.TaskRecord{ID: id, CorrelationID: &corr})

	req := httptest.NewRequest(http.MethodPost, "/api/pitches/"+id.String()+"/generate", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, GenerationStatusInProgress, decodeGeneration(t, rec).Status)
	assert.Equal(t, 0, f.provider.Calls())
}

func TestGenerateProviderFailureAnswers502AndRollsBack(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)
	id := f.seedDraft(t)
	f.provider.Err = dispatch.ErrProviderRejected

	req := httptest.NewRequest(http.MethodPost, "/api/pitches/"+id.String()+"/generate", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Nil(t, f.tasks.Record(id).CorrelationID, "failed dispatch must roll back the marker")

	// The sanitized message leaks nothing internal.
	var errResp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "Generation service is unavailable, please try again", errResp.Error)

	// The user can retry after the failure.
	f.provider.Err = nil
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/pitches/"+id.String()+"/generate", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestGenerateUnknownPitch(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/pitches/"+uuid.NewString()+"/generate", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResultPending(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)
	id := f.seedDraft(t)

	req := httptest.NewRequest(http.MethodGet, "/api/pitches/"+id.String()+"/result", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeGeneration(t, rec)
	assert.Equal(t, GenerationStatusPending, resp.Status)
	assert.Empty(t, resp.Result)
}

func TestResultInProgressThenCompleted(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)
	id := f.seedDraft(t)
	corr := id
	f.tasks.Seed(domain.TaskRecord{ID: id, CorrelationID: &corr})

	req := httptest.NewRequest(http.MethodGet, "/api/pitches/"+id.String()+"/result", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, GenerationStatusInProgress, decodeGeneration(t, rec).Status)

	// The callback lands, the next poll observes the result.
	body := `{"task_id":"` + id.String() + `","result":"The finished pitch"}`
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/callbacks/generation", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pitches/"+id.String()+"/result", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeGeneration(t, rec)
	assert.Equal(t, GenerationStatusCompleted, resp.Status)
	assert.Equal(t, "The finished pitch", resp.Result)
}

func TestResultWaitBlocksUntilResult(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)
	id := f.seedDraft(t)

	// The result arrives while the wait is in flight.
	go func() {
		time.Sleep(20 * time.Millisecond)
		body := `{"task_id":"` + id.String() + `","result":"Late pitch"}`
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/callbacks/generation", bytes.NewBufferString(body)))
	}()

	req := httptest.NewRequest(http.MethodGet, "/api/pitches/"+id.String()+"/result?wait=true", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeGeneration(t, rec)
	assert.Equal(t, GenerationStatusCompleted, resp.Status)
	assert.Equal(t, "Late pitch", resp.Result)
}

func TestResultWaitTimesOut(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)
	id := f.seedDraft(t)

	req := httptest.NewRequest(http.MethodGet, "/api/pitches/"+id.String()+"/result?wait=true", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestCallbackUnknownTask(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)

	body := `{"task_id":"` + uuid.NewString() + `","result":"orphan"}`
	req := httptest.NewRequest(http.MethodPost, "/api/callbacks/generation", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallbackDuplicateIsNoOp(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)
	id := f.seedDraft(t)

	body := `{"task_id":"` + id.String() + `","result":"First"}`
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/callbacks/generation", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var first CallbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.True(t, first.Applied)

	// A duplicate (or racing stale) callback is acknowledged but ignored.
	body = `{"task_id":"` + id.String() + `","result":"Second"}`
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/callbacks/generation", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var second CallbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.False(t, second.Applied)

	assert.Equal(t, "First", f.tasks.Record(id).ResultPayload)
}

func TestCallbackRejectsEmptyResult(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)
	id := f.seedDraft(t)

	body := `{"task_id":"` + id.String() + `","result":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/callbacks/generation", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallbackRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/callbacks/generation", bytes.NewBufferString("{broken"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestGenerateAndPollScenario walks the full happy path: save a draft,
// trigger generation, poll while in progress, receive the callback, poll
// again and read the finished pitch.
func TestGenerateAndPollScenario(t *testing.T) {
	t.Parallel()

	f := newGenerationFixture(t)
	id := f.seedDraft(t)

	// Trigger.
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/pitches/"+id.String()+"/generate", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	// Poll: in progress.
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pitches/"+id.String()+"/result", nil))
	assert.Equal(t, GenerationStatusInProgress, decodeGeneration(t, rec).Status)

	// A second trigger while in flight is a safe no-op.
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/pitches/"+id.String()+"/generate", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.provider.Calls())

	// Provider calls back.
	body := `{"task_id":"` + id.String() + `","result":"I am an engineer who ships."}`
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/callbacks/generation", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	// Poll: completed.
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pitches/"+id.String()+"/result", nil))
	resp := decodeGeneration(t, rec)
	assert.Equal(t, GenerationStatusCompleted, resp.Status)
	assert.Equal(t, "I am an engineer who ships.", resp.Result)
}
