// Package wizard implements the pitch wizard's step state machine: the
// step graph derived from the number of structured examples, the
// next/back/jump transitions over it, and the single transition that
// hands a finished draft to the dispatcher.
package wizard

import "github.com/careerforge/pitch-api/internal/domain"

// StepKind identifies what a wizard step collects or shows.
type StepKind string

// Step kinds, in wizard order. The prologue collects the pitch framing,
// then each structured example contributes four sub-steps, then the
// terminal review step shows the generated result.
const (
	StepRole       StepKind = "role"
	StepExperience StepKind = "experience"
	StepGuidance   StepKind = "guidance"
	StepSituation  StepKind = "situation"
	StepTask       StepKind = "task"
	StepAction     StepKind = "action"
	StepResult     StepKind = "result"
	StepReview     StepKind = "review"
)

// PrologueSteps is the number of fixed steps before the example blocks.
const PrologueSteps = 3

// stepsPerExample is the number of sub-steps each structured example adds.
const stepsPerExample = 4

// Step is one node in the wizard's step graph.
type Step struct {
	// Index is the step's 1-based position.
	Index int

	// Kind is what the step collects or shows.
	Kind StepKind

	// Example is the 1-based example number for example sub-steps, and
	// zero for prologue and review steps.
	Example int
}

// ClampExampleCount forces an example count into the supported range.
func ClampExampleCount(n int) int {
	if n < 0 {
		return 0
	}
	if n > domain.MaxExamples {
		return domain.MaxExamples
	}
	return n
}

// TotalSteps returns the number of steps for the given example count:
// the fixed prologue, four sub-steps per example, and the review step.
func TotalSteps(exampleCount int) int {
	return PrologueSteps + stepsPerExample*ClampExampleCount(exampleCount) + 1
}

// Steps builds the full step graph for the given example count. It is a
// pure function: the graph is recomputed from scratch on every relevant
// input change rather than patched incrementally, which keeps index
// arithmetic out of the transition logic.
func Steps(exampleCount int) []Step {
	exampleCount = ClampExampleCount(exampleCount)

	steps := make([]Step, 0, TotalSteps(exampleCount))
	steps = append(steps,
		Step{Index: 1, Kind: StepRole},
		Step{Index: 2, Kind: StepExperience},
		Step{Index: 3, Kind: StepGuidance},
	)

	subKinds := []StepKind{StepSituation, StepTask, StepAction, StepResult}
	for example := 1; example <= exampleCount; example++ {
		for _, kind := range subKinds {
			steps = append(steps, Step{
				Index:   len(steps) + 1,
				Kind:    kind,
				Example: example,
			})
		}
	}

	steps = append(steps, Step{Index: len(steps) + 1, Kind: StepReview})
	return steps
}
