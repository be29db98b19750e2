// Package fsm provides the table types the action bar machines are built from.
//
// A table lists states, inputs and transitions. A transition may carry a
// guard name: it only fires when the caller reports that guard as holding.
// Tables are descriptions; the state itself is always held by the caller.
package fsm

import (
	"fmt"
	"strings"
)

// Transition represents a single table entry.
type Transition struct {
	From   string  `json:"from"`
	Input  string  `json:"input"`
	Guard  string  `json:"guard,omitempty"` // empty = unconditional
	To     string  `json:"to"`
	Output *string `json:"output,omitempty"`
}

// FSM is a Mealy transition table: outputs belong to transitions.
type FSM struct {
	Name           string       `json:"name,omitempty"`
	Description    string       `json:"description,omitempty"`
	States         []string     `json:"states"`
	Alphabet       []string     `json:"alphabet"`
	Initial        string       `json:"initial"`
	Transitions    []Transition `json:"transitions"`
	OutputAlphabet []string     `json:"output_alphabet,omitempty"`
}

// New creates an empty table.
func New(name string) *FSM {
	return &FSM{
		Name:           name,
		States:         make([]string, 0),
		Alphabet:       make([]string, 0),
		Transitions:    make([]Transition, 0),
		OutputAlphabet: make([]string, 0),
	}
}

// AddState adds a state. The first state added becomes the initial state.
func (f *FSM) AddState(name string) {
	if f.StateIndex(name) >= 0 {
		return
	}
	f.States = append(f.States, name)
	if f.Initial == "" {
		f.Initial = name
	}
}

// AddInput adds an input symbol to the alphabet.
func (f *FSM) AddInput(symbol string) {
	if f.InputIndex(symbol) >= 0 {
		return
	}
	f.Alphabet = append(f.Alphabet, symbol)
}

// AddOutput adds an output symbol to the output alphabet.
func (f *FSM) AddOutput(symbol string) {
	for _, s := range f.OutputAlphabet {
		if s == symbol {
			return
		}
	}
	f.OutputAlphabet = append(f.OutputAlphabet, symbol)
}

// On adds an unconditional transition without output.
func (f *FSM) On(from, input, to string) {
	f.AddTransition(Transition{From: from, Input: input, To: to})
}

// OnEmit adds an unconditional transition that emits output.
func (f *FSM) OnEmit(from, input, to, output string) {
	f.AddTransition(Transition{From: from, Input: input, To: to, Output: &output})
}

// OnGuard adds a transition that only fires while guard holds.
func (f *FSM) OnGuard(from, input, guard, to string) {
	f.AddTransition(Transition{From: from, Input: input, Guard: guard, To: to})
}

// AddTransition appends t, registering its states, input and output.
func (f *FSM) AddTransition(t Transition) {
	f.AddState(t.From)
	f.AddState(t.To)
	f.AddInput(t.Input)
	if t.Output != nil {
		f.AddOutput(*t.Output)
	}
	f.Transitions = append(f.Transitions, t)
}

// OnGuardEmit adds a guarded transition that emits output.
func (f *FSM) OnGuardEmit(from, input, guard, to, output string) {
	f.AddTransition(Transition{From: from, Input: input, Guard: guard, To: to, Output: &output})
}

// Validate checks that the table is well-formed and deterministic: for every
// state and input there is at most one unguarded transition, and guarded
// transitions on the same input use distinct guards.
func (f *FSM) Validate() error {
	if len(f.States) == 0 {
		return fmt.Errorf("machine %q has no states", f.Name)
	}
	if f.StateIndex(f.Initial) < 0 {
		return fmt.Errorf("machine %q: initial state %q not in states", f.Name, f.Initial)
	}

	seen := make(map[[3]string]int)
	for i, t := range f.Transitions {
		if f.StateIndex(t.From) < 0 {
			return fmt.Errorf("transition %d: from state %q not in states", i, t.From)
		}
		if f.StateIndex(t.To) < 0 {
			return fmt.Errorf("transition %d: to state %q not in states", i, t.To)
		}
		if f.InputIndex(t.Input) < 0 {
			return fmt.Errorf("transition %d: input %q not in alphabet", i, t.Input)
		}
		key := [3]string{t.From, t.Input, t.Guard}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("transition %d: nondeterministic with transition %d (%s on %q)", i, prev, t.From, t.Input)
		}
		seen[key] = i
	}
	return nil
}

// Next looks up the transition taken from state on input. Guarded
// transitions are tried first, in table order, using holds to evaluate their
// guard; an unguarded transition is the fallback. When nothing matches the
// machine stays where it is and ok is false.
//
// Next never mutates f, so it is safe to call from pure step functions.
func (f *FSM) Next(from, input string, holds func(guard string) bool) (to string, output *string, ok bool) {
	var fallback *Transition
	for i := range f.Transitions {
		t := &f.Transitions[i]
		if t.From != from || t.Input != input {
			continue
		}
		if t.Guard == "" {
			if fallback == nil {
				fallback = t
			}
			continue
		}
		if holds != nil && holds(t.Guard) {
			return t.To, t.Output, true
		}
	}
	if fallback != nil {
		return fallback.To, fallback.Output, true
	}
	return from, nil, false
}

// StateIndex returns the index of a state, or -1 if not found.
func (f *FSM) StateIndex(state string) int {
	for i, s := range f.States {
		if s == state {
			return i
		}
	}
	return -1
}

// InputIndex returns the index of an input, or -1 if not found.
func (f *FSM) InputIndex(input string) int {
	for i, a := range f.Alphabet {
		if a == input {
			return i
		}
	}
	return -1
}

// Guards returns the distinct guard names used by the table.
func (f *FSM) Guards() []string {
	var guards []string
	seen := make(map[string]bool)
	for _, t := range f.Transitions {
		if t.Guard != "" && !seen[t.Guard] {
			seen[t.Guard] = true
			guards = append(guards, t.Guard)
		}
	}
	return guards
}

// String returns a string representation of the table.
func (f *FSM) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("FSM: %s\n", f.Name))
	sb.WriteString(fmt.Sprintf("  States: %v\n", f.States))
	sb.WriteString(fmt.Sprintf("  Alphabet: %v\n", f.Alphabet))
	sb.WriteString(fmt.Sprintf("  Initial: %s\n", f.Initial))
	if guards := f.Guards(); len(guards) > 0 {
		sb.WriteString(fmt.Sprintf("  Guards: %v\n", guards))
	}
	sb.WriteString(fmt.Sprintf("  Transitions: %d\n", len(f.Transitions)))
	return sb.String()
}
