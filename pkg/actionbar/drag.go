package actionbar

import (
	"github.com/ha1tch/actionbar/pkg/debug"
	"github.com/ha1tch/actionbar/pkg/fsm"
)

// DragState is owned by the drag machine.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (d DragState) String() string {
	if d == Dragging {
		return stateDragging
	}
	return stateIdle
}

// DragMachine tracks whether the container follows the pointer. A press on
// the drag icon starts a session; the next global release ends it. A release
// without a session and a second press during one are ignored.
type DragMachine struct {
	table *fsm.FSM
}

// NewDragMachine creates the machine from DragTable.
func NewDragMachine() DragMachine {
	return DragMachine{table: DragTable()}
}

// Step applies ev to s.
func (m DragMachine) Step(s DragState, ev Event) (DragState, []Output) {
	var input string
	switch ev.Kind {
	case EventDragIconPressed:
		input = inputPress
	case EventPointerReleased:
		input = inputRelease
	default:
		return s, nil
	}

	to, out, ok := m.table.Next(s.String(), input, nil)
	if !ok || out == nil {
		return s, nil
	}
	debug.Log("drag: %s -> %s", s, to)
	next := Idle
	if to == stateDragging {
		next = Dragging
	}
	return next, []Output{{Kind: OutputDragState, Bool: next == Dragging}}
}
