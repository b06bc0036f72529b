package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Draft-specific validation errors
var (
	// ErrDraftIDEmpty is returned when a draft ID is empty or nil.
	ErrDraftIDEmpty = errors.New("draft ID cannot be empty")

	// ErrDraftUserIDEmpty is returned when a draft's user ID is empty or nil.
	ErrDraftUserIDEmpty = errors.New("draft user ID cannot be empty")

	// ErrTooManyExamples is returned when a draft carries more structured
	// examples than the wizard supports.
	ErrTooManyExamples = errors.New("draft has too many structured examples")
)

// MaxExamples bounds how many structured examples a single draft may carry.
// The wizard derives its step count from this number, so an unbounded list
// would produce an unbounded step graph.
const MaxExamples = 5

// StarExample is one structured example in the situation/task/action/result
// format. All four fields are free text and may be empty while the draft is
// still being filled in.
type StarExample struct {
	Situation string `json:"situation"`
	Task      string `json:"task"`
	Action    string `json:"action"`
	Result    string `json:"result"`
}

// PitchInput is the full set of wizard inputs a generation request is built
// from. It is what the dispatcher sends to the external provider.
type PitchInput struct {
	Role       string        `json:"role"`
	Experience string        `json:"experience"`
	Guidance   string        `json:"guidance"`
	Examples   []StarExample `json:"examples"`
}

// Draft represents one pitch draft owned by a user. Drafts are created
// lazily on the wizard's first save and updated on every step transition
// and auto-save tick. The draft ID doubles as the task ID for the
// asynchronous generation lifecycle (see TaskRecord).
type Draft struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Input     PitchInput `json:"input"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewDraft creates a new Draft for the given user with the given wizard
// inputs. It generates a new UUID for the draft ID and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewDraft(userID uuid.UUID, input PitchInput) (*Draft, error) {
	draft := &Draft{
		ID:        uuid.New(),
		UserID:    userID,
		Input:     input,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	return draft, nil
}

// Validate checks if the Draft has valid data.
// Partially filled input fields are allowed; drafts are saved continuously
// while the user is still typing.
func (d *Draft) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDraftIDEmpty
	}

	if d.UserID == uuid.Nil {
		return ErrDraftUserIDEmpty
	}

	if len(d.Input.Examples) > MaxExamples {
		return ErrTooManyExamples
	}

	return nil
}

// Touch updates the UpdatedAt timestamp. Called by stores before writes.
func (d *Draft) Touch() {
	d.UpdatedAt = time.Now().UTC()
}
