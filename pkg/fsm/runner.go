package fsm

import (
	"fmt"
	"strings"
)

// Runner steps a table interactively and records what happened.
type Runner struct {
	fsm     *FSM
	current string
	guards  map[string]bool
	history []Step
}

// Step records one step of execution.
type Step struct {
	FromState string
	Input     string
	Guards    []string // guards that held when the input arrived
	ToState   string
	Output    string
	Matched   bool // false when no transition applied
}

// NewRunner creates a runner positioned at the initial state of f.
func NewRunner(f *FSM) (*Runner, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid machine: %w", err)
	}
	return &Runner{
		fsm:     f,
		current: f.Initial,
		guards:  make(map[string]bool),
		history: make([]Step, 0),
	}, nil
}

// SetGuard sets whether the named guard holds for subsequent steps.
func (r *Runner) SetGuard(guard string, holds bool) {
	r.guards[guard] = holds
}

// CurrentState returns the current state.
func (r *Runner) CurrentState() string {
	return r.current
}

// Step processes one input. An input with no matching transition leaves
// the state unchanged and is recorded as unmatched; only inputs outside the
// alphabet are errors.
func (r *Runner) Step(input string) (output string, err error) {
	if r.fsm.InputIndex(input) < 0 {
		return "", fmt.Errorf("input %q not in alphabet of %s", input, r.fsm.Name)
	}

	from := r.current
	to, out, ok := r.fsm.Next(from, input, func(g string) bool { return r.guards[g] })
	if out != nil {
		output = *out
	}
	r.current = to

	var held []string
	for _, g := range r.fsm.Guards() {
		if r.guards[g] {
			held = append(held, g)
		}
	}
	r.history = append(r.history, Step{
		FromState: from,
		Input:     input,
		Guards:    held,
		ToState:   to,
		Output:    output,
		Matched:   ok,
	})
	return output, nil
}

// Run processes a sequence of inputs and returns all outputs.
func (r *Runner) Run(inputs []string) ([]string, error) {
	var outputs []string
	for _, input := range inputs {
		output, err := r.Step(input)
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, output)
	}
	return outputs, nil
}

// Reset returns the runner to the initial state and clears guards and history.
func (r *Runner) Reset() {
	r.current = r.fsm.Initial
	r.guards = make(map[string]bool)
	r.history = make([]Step, 0)
}

// History returns the execution history.
func (r *Runner) History() []Step {
	return r.history
}

// Status returns a status string for the current state.
func (r *Runner) Status() string {
	status := fmt.Sprintf("State: %s", r.current)
	var held []string
	for _, g := range r.fsm.Guards() {
		if r.guards[g] {
			held = append(held, g)
		}
	}
	if len(held) > 0 {
		status += " [" + strings.Join(held, ", ") + "]"
	}
	return status
}
