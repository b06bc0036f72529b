package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/careerforge/pitch-api/internal/domain"
)

// StarExamplePayload is the wire form of a structured STAR example.
type StarExamplePayload struct {
	Situation string `json:"situation"`
	Task      string `json:"task"`
	Action    string `json:"action"`
	Result    string `json:"result"`
}

// SaveDraftRequest is the body for creating and updating drafts. All
// fields are optional; drafts are saved incrementally as the wizard
// progresses.
type SaveDraftRequest struct {
	Role       string               `json:"role"       validate:"max=500"`
	Experience string               `json:"experience" validate:"max=10000"`
	Guidance   string               `json:"guidance"   validate:"max=10000"`
	Examples   []StarExamplePayload `json:"examples"   validate:"max=5"`
}

// Input converts the request payload to the domain input.
func (r SaveDraftRequest) Input() domain.PitchInput {
	examples := make([]domain.StarExample, len(r.Examples))
	for i, ex := range r.Examples {
		examples[i] = domain.StarExample{
			Situation: ex.Situation,
			Task:      ex.Task,
			Action:    ex.Action,
			Result:    ex.Result,
		}
	}
	return domain.PitchInput{
		Role:       r.Role,
		Experience: r.Experience,
		Guidance:   r.Guidance,
		Examples:   examples,
	}
}

// DraftResponse is the wire form of a stored draft.
type DraftResponse struct {
	ID         uuid.UUID            `json:"id"`
	Role       string               `json:"role"`
	Experience string               `json:"experience"`
	Guidance   string               `json:"guidance"`
	Examples   []StarExamplePayload `json:"examples"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// NewDraftResponse converts a domain draft to its wire form.
func NewDraftResponse(draft *domain.Draft) DraftResponse {
	examples := make([]StarExamplePayload, len(draft.Input.Examples))
	for i, ex := range draft.Input.Examples {
		examples[i] = StarExamplePayload{
			Situation: ex.Situation,
			Task:      ex.Task,
			Action:    ex.Action,
			Result:    ex.Result,
		}
	}
	return DraftResponse{
		ID:         draft.ID,
		Role:       draft.Input.Role,
		Experience: draft.Input.Experience,
		Guidance:   draft.Input.Guidance,
		Examples:   examples,
		CreatedAt:  draft.CreatedAt,
		UpdatedAt:  draft.UpdatedAt,
	}
}

// Generation status values on the wire.
const (
	GenerationStatusPending    = "pending"
	GenerationStatusInProgress = "in_progress"
	GenerationStatusCompleted  = "completed"
	GenerationStatusDispatched = "dispatched"
)

// GenerationResponse is the body of the generate and result endpoints.
type GenerationResponse struct {
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
}

// GenerationCallbackRequest is the body the provider posts when a
// generation finishes. TaskID is the correlation ID echoed back from the
// submit request.
type GenerationCallbackRequest struct {
	TaskID uuid.UUID `json:"task_id" validate:"required"`
	Result string    `json:"result"  validate:"required"`
}

// CallbackResponse acknowledges a provider callback. Applied is false
// when the result had already been recorded through another path.
type CallbackResponse struct {
	Applied bool `json:"applied"`
}
