package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/careerforge/pitch-api/internal/dispatch"
	"github.com/careerforge/pitch-api/internal/domain"
	"github.com/google/uuid"
)

// Common errors returned by the wizard package.
var (
	// ErrStepOutOfRange is returned when a jump target does not exist in
	// the current step graph.
	ErrStepOutOfRange = errors.New("step does not exist")

	// ErrStepNotCompleted is returned when a jump targets a step beyond
	// the completion high-water mark.
	ErrStepNotCompleted = errors.New("step has not been completed yet")

	// ErrExampleOutOfRange is returned when an example edit addresses an
	// example the draft does not have.
	ErrExampleOutOfRange = errors.New("example does not exist")
)

// DraftSaver is the Session's view of draft persistence. Save with a nil
// id creates a new draft and returns its id, which the session adopts as
// the task id for all subsequent dispatch and reconcile operations.
type DraftSaver interface {
	Save(ctx context.Context, id *uuid.UUID, input domain.PitchInput) (uuid.UUID, error)
}

// Dispatcher is the Session's view of the task dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, taskID uuid.UUID, input domain.PitchInput) (*dispatch.Outcome, error)
}

// ResultAwaiter is the Session's view of the pull completion path.
type ResultAwaiter interface {
	Await(ctx context.Context, taskID uuid.UUID) (string, error)
}

// Session drives one user's pass through the wizard. Steps are numbered
// 1..TotalSteps; the index and the completion high-water mark always stay
// inside that range, transitions clamp rather than overflow, and the step
// graph is recomputed from the example count on every change.
//
// Session is not safe for concurrent use; it models a single user's
// wizard, which is inherently sequential.
type Session struct {
	saver      DraftSaver
	dispatcher Dispatcher
	awaiter    ResultAwaiter
	logger     *slog.Logger

	draftID          *uuid.UUID
	input            domain.PitchInput
	stepIndex        int
	maxCompletedStep int
	result           string
}

// NewSession creates a Session positioned on the first step with the
// given number of structured examples.
func NewSession(
	saver DraftSaver,
	dispatcher Dispatcher,
	awaiter ResultAwaiter,
	exampleCount int,
	log *slog.Logger,
) (*Session, error) {
	if saver == nil {
		return nil, errors.New("draft saver cannot be nil")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Session{
		saver:            saver,
		dispatcher:       dispatcher,
		awaiter:          awaiter,
		logger:           log.With("component", "wizard_session"),
		input:            domain.PitchInput{Examples: make([]domain.StarExample, ClampExampleCount(exampleCount))},
		stepIndex:        1,
		maxCompletedStep: 1,
	}, nil
}

// Resume creates a Session over an existing draft, positioned on the
// first step with every step marked completed (the user already filled
// the draft in a previous session, so jump navigation is open).
func Resume(
	saver DraftSaver,
	dispatcher Dispatcher,
	awaiter ResultAwaiter,
	draft *domain.Draft,
	log *slog.Logger,
) (*Session, error) {
	s, err := NewSession(saver, dispatcher, awaiter, len(draft.Input.Examples), log)
	if err != nil {
		return nil, err
	}
	id := draft.ID
	s.draftID = &id
	s.input = draft.Input
	s.maxCompletedStep = s.TotalSteps()
	return s, nil
}

// StepIndex returns the current 1-based step index.
func (s *Session) StepIndex() int { return s.stepIndex }

// MaxCompletedStep returns the completion high-water mark.
func (s *Session) MaxCompletedStep() int { return s.maxCompletedStep }

// TotalSteps returns the size of the current step graph.
func (s *Session) TotalSteps() int { return TotalSteps(len(s.input.Examples)) }

// CurrentStep returns the step the session is on.
func (s *Session) CurrentStep() Step {
	return Steps(len(s.input.Examples))[s.stepIndex-1]
}

// DraftID returns the adopted draft id, or uuid.Nil before the first save.
func (s *Session) DraftID() uuid.UUID {
	if s.draftID == nil {
		return uuid.Nil
	}
	return *s.draftID
}

// Input returns the wizard inputs collected so far.
func (s *Session) Input() domain.PitchInput { return s.input }

// SetRole records the role input.
func (s *Session) SetRole(role string) { s.input.Role = role }

// SetExperience records the experience input.
func (s *Session) SetExperience(experience string) { s.input.Experience = experience }

// SetGuidance records the guidance input.
func (s *Session) SetGuidance(guidance string) { s.input.Guidance = guidance }

// SetExample records one structured example's fields.
func (s *Session) SetExample(example int, ex domain.StarExample) error {
	if example < 1 || example > len(s.input.Examples) {
		return ErrExampleOutOfRange
	}
	s.input.Examples[example-1] = ex
	return nil
}

// SetExampleCount resizes the structured example list, preserving
// existing entries that survive the resize. The step graph is recomputed
// and both the step index and the high-water mark are clamped so neither
// can reference a step that no longer exists. A shrink that removes the
// region containing the current step relocates the index to the last
// input step rather than the review step, so the user never lands on
// review uninvited.
func (s *Session) SetExampleCount(n int) {
	n = ClampExampleCount(n)

	onReview := s.stepIndex == s.TotalSteps()

	examples := make([]domain.StarExample, n)
	copy(examples, s.input.Examples)
	s.input.Examples = examples

	total := s.TotalSteps()
	switch {
	case onReview:
		s.stepIndex = total
	case s.stepIndex >= total:
		s.stepIndex = total - 1
	}
	if s.maxCompletedStep > total {
		s.maxCompletedStep = total
	}
	if s.maxCompletedStep < s.stepIndex {
		s.maxCompletedStep = s.stepIndex
	}
}

// Next advances to the following step. Every transition persists the
// draft first; the transition off the last input step additionally
// dispatches generation, and only advances to the review step once the
// dispatch has been accepted. On any error the session stays on the
// current step.
func (s *Session) Next(ctx context.Context) error {
	total := s.TotalSteps()
	if s.stepIndex >= total {
		// Already on review; clamp.
		return nil
	}

	if err := s.save(ctx); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	if s.stepIndex == total-1 {
		// Last input step: the draft is complete, hand it off. The save
		// above ran first, so a draft id is guaranteed to exist before it
		// is reused as the task id.
		outcome, err := s.dispatcher.Dispatch(ctx, *s.draftID, s.input)
		if err != nil {
			s.logger.Error("dispatch failed, staying on current step",
				"draft_id", s.draftID.String(),
				"error", err)
			return err
		}
		if outcome.Status == dispatch.StatusCompleted {
			s.result = outcome.Result
		}
	}

	s.stepIndex++
	if s.stepIndex > s.maxCompletedStep {
		s.maxCompletedStep = s.stepIndex
	}
	return nil
}

// Back moves to the previous step, clamping at the first. The draft is
// auto-saved on a best-effort basis; a failed save never blocks backward
// navigation.
func (s *Session) Back(ctx context.Context) {
	if err := s.save(ctx); err != nil {
		s.logger.Warn("auto-save failed during back navigation", "error", err)
	}
	if s.stepIndex > 1 {
		s.stepIndex--
	}
}

// JumpTo moves directly to a previously completed step, as from a
// progress indicator. Only steps at or below the high-water mark are
// reachable.
func (s *Session) JumpTo(step int) error {
	if step < 1 || step > s.TotalSteps() {
		return ErrStepOutOfRange
	}
	if step > s.maxCompletedStep {
		return ErrStepNotCompleted
	}
	s.stepIndex = step
	return nil
}

// AutoSave persists the draft; wired to the wizard's interval timer.
func (s *Session) AutoSave(ctx context.Context) error {
	return s.save(ctx)
}

// ReviewReady reports whether a generation result is available to render.
// Until it is, the review step shows a loading placeholder.
func (s *Session) ReviewReady() bool { return s.result != "" }

// Result returns the generation result observed so far.
func (s *Session) Result() string { return s.result }

// AwaitResult blocks until the generation result is available, driving
// the pull completion path. It returns the result already observed, if
// any, without polling.
func (s *Session) AwaitResult(ctx context.Context) (string, error) {
	if s.result != "" {
		return s.result, nil
	}
	if s.awaiter == nil {
		return "", errors.New("no result awaiter configured")
	}
	if s.draftID == nil {
		return "", errors.New("draft has not been saved yet")
	}

	result, err := s.awaiter.Await(ctx, *s.draftID)
	if err != nil {
		return "", err
	}
	s.result = result
	return result, nil
}

// save persists the draft, adopting the returned id on first save.
func (s *Session) save(ctx context.Context) error {
	id, err := s.saver.Save(ctx, s.draftID, s.input)
	if err != nil {
		return err
	}
	if s.draftID == nil {
		s.draftID = &id
		s.logger.Debug("adopted draft id", "draft_id", id.String())
	}
	return nil
}
