package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/careerforge/pitch-api/internal/api/middleware"
	"github.com/careerforge/pitch-api/internal/api/shared"
	"github.com/careerforge/pitch-api/internal/service"
)

// DraftHandler serves the draft CRUD endpoints.
type DraftHandler struct {
	drafts service.DraftService
	logger *slog.Logger
}

// NewDraftHandler creates a DraftHandler.
func NewDraftHandler(drafts service.DraftService, log *slog.Logger) *DraftHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DraftHandler{
		drafts: drafts,
		logger: log.With("component", "draft_handler"),
	}
}

// Create handles POST /api/pitches.
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req SaveDraftRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	id, err := h.drafts.Save(r.Context(), userID, nil, req.Input())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	draft, err := h.drafts.Load(r.Context(), userID, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewDraftResponse(draft))
}

// Get handles GET /api/pitches/{id}.
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	shared.RespondWithJSON(w, r, http.StatusOK, NewDraftResponse(draft))
}

// Update handles PUT /api/pitches/{id}. The wizard's auto-save and step
// transitions both land here.
func (h *DraftHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	var req SaveDraftRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	if _, err := h.drafts.Save(r.Context(), userID, &id, req.Input()); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	draft, err := h.drafts.Load(r.Context(), userID, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewDraftResponse(draft))
}

// Delete handles DELETE /api/pitches/{id}.
func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.drafts.Delete(r.Context(), userID, id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requestIDs extracts the authenticated user and the path's pitch ID,
// responding with the appropriate error when either is missing.
func (h *DraftHandler) requestIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
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
