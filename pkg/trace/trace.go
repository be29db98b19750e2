// Package trace records the levels and outputs of an action bar step by step
// and exports the recording as JSON, a text table or a PNG waveform.
package trace

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/ha1tch/actionbar/pkg/actionbar"
)

// Step is one recorded propagation.
type Step struct {
	Index   int                `json:"index"`
	Event   string             `json:"event"`
	Levels  actionbar.Snapshot `json:"levels"`
	Outputs []string           `json:"outputs,omitempty"`
}

// Trace is a complete recording.
type Trace struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
	Steps   []Step    `json:"steps"`
}

// Signal is a named level read from a snapshot.
type Signal struct {
	Name string
	Read func(actionbar.Snapshot) bool
}

// Signals are the levels shown in tables and waveforms, top to bottom.
var Signals = []Signal{
	{"visible", func(s actionbar.Snapshot) bool { return s.Visible }},
	{"hovered", func(s actionbar.Snapshot) bool { return s.AnyHovered }},
	{"menu", func(s actionbar.Snapshot) bool { return s.MenuVisible }},
	{"dragging", func(s actionbar.Snapshot) bool { return s.Dragging }},
	{"reset_icon", func(s actionbar.Snapshot) bool { return s.ResetIconVisible }},
}

// Recorder builds a Trace.
type Recorder struct {
	trace Trace
}

// NewRecorder starts a recording called name.
func NewRecorder(name string) *Recorder {
	return &Recorder{trace: Trace{
		ID:      uuid.New(),
		Name:    name,
		Created: time.Now().UTC(),
	}}
}

// Record appends a step. The first step is usually the initial snapshot,
// recorded with an empty event.
func (r *Recorder) Record(event string, snap actionbar.Snapshot, outs []actionbar.Output) {
	step := Step{
		Index:  len(r.trace.Steps),
		Event:  event,
		Levels: snap,
	}
	for _, o := range outs {
		step.Outputs = append(step.Outputs, o.String())
	}
	r.trace.Steps = append(r.trace.Steps, step)
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int {
	return len(r.trace.Steps)
}

// Trace returns the recording so far.
func (r *Recorder) Trace() *Trace {
	t := r.trace
	t.Steps = append([]Step(nil), r.trace.Steps...)
	return &t
}

// WriteJSON writes t as indented JSON.
func WriteJSON(w io.Writer, t *Trace) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ReadJSON reads a trace written by WriteJSON.
func ReadJSON(r io.Reader) (*Trace, error) {
	var t Trace
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding trace: %w", err)
	}
	return &t, nil
}
