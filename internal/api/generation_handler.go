package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/careerforge/pitch-api/internal/api/middleware"
	"github.com/careerforge/pitch-api/internal/api/shared"
	"github.com/careerforge/pitch-api/internal/dispatch"
	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/careerforge/pitch-api/internal/service"
)

// GenerationDispatcher triggers generation for a draft. Satisfied by
// *dispatch.Dispatcher.
type GenerationDispatcher interface {
	Dispatch(ctx context.Context, taskID uuid.UUID, input domain.PitchInput) (*dispatch.Outcome, error)
}

// CompletionReconciler records and reads generation results. Satisfied
// by *reconcile.Reconciler.
type CompletionReconciler interface {
	Apply(ctx context.Context, taskID uuid.UUID, payload string) (bool, error)
	Result(ctx context.Context, taskID uuid.UUID) (*domain.TaskRecord, error)
}

// ResultAwaiter blocks until a result is available. Satisfied by
// *reconcile.Poller.
type ResultAwaiter interface {
	Await(ctx context.Context, taskID uuid.UUID) (string, error)
}

// GenerationHandler serves the generate trigger, the result poll
// endpoint, and the provider callback.
type GenerationHandler struct {
	drafts     service.DraftService
	dispatcher GenerationDispatcher
	reconciler CompletionReconciler
	awaiter    ResultAwaiter
	logger     *slog.Logger
}

// NewGenerationHandler creates a GenerationHandler.
func NewGenerationHandler(
	drafts service.DraftService,
	dispatcher GenerationDispatcher,
	reconciler CompletionReconciler,
	awaiter ResultAwaiter,
	log *slog.Logger,
) *GenerationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &GenerationHandler{
		drafts:     drafts,
		dispatcher: dispatcher,
		reconciler: reconciler,
		awaiter:    awaiter,
		logger:     log.With("component", "generation_handler"),
	}
}

// Generate handles POST /api/pitches/{id}/generate. A fresh dispatch
// answers 202; idempotency short-circuits answer 200 with the current
// status so retries are safe from the client's point of view.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	draft, err := h.drafts.Load(r.Context(), userID, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	outcome, err := h.dispatcher.Dispatch(r.Context(), draft.ID, draft.Input)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	switch outcome.Status {
	case dispatch.StatusCompleted:
		shared.RespondWithJSON(w, r, http.StatusOK, GenerationResponse{
			Status: GenerationStatusCompleted,
			Result: outcome.Result,
		})
	case dispatch.StatusInProgress:
		shared.RespondWithJSON(w, r, http.StatusOK, GenerationResponse{
			Status: GenerationStatusInProgress,
		})
	default:
		shared.RespondWithJSON(w, r, http.StatusAccepted, GenerationResponse{
			Status: GenerationStatusDispatched,
		})
	}
}

// Result handles GET /api/pitches/{id}/result. Plain reads answer
// immediately with the current status; ?wait=true blocks until the
// result arrives or the poll budget runs out.
func (h *GenerationHandler) Result(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if _, err := h.drafts.Load(r.Context(), userID, id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if r.URL.Query().Get("wait") == "true" && h.awaiter != nil {
		result, err := h.awaiter.Await(r.Context(), id)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r,
				MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, GenerationResponse{
			Status: GenerationStatusCompleted,
			Result: result,
		})
		return
	}

	rec, err := h.reconciler.Result(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	resp := GenerationResponse{Status: GenerationStatusPending}
	switch {
	case rec.Completed():
		resp = GenerationResponse{Status: GenerationStatusCompleted, Result: rec.ResultPayload}
	case rec.InProgress():
		resp = GenerationResponse{Status: GenerationStatusInProgress}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Callback handles POST /api/callbacks/generation, the provider's push
// path. It is not behind user auth; the task ID doubles as the shared
// secret. Duplicate callbacks answer 200 with applied=false.
func (h *GenerationHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var req GenerationCallbackRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	applied, err := h.reconciler.Apply(r.Context(), req.TaskID, req.Result)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CallbackResponse{Applied: applied})
}

func (h *GenerationHandler) requestIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User not authenticated")
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid pitch ID")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, id, true
}
