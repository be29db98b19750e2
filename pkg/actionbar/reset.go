package actionbar

import "github.com/ha1tch/actionbar/pkg/fsm"

// ResetState is owned by the reset icon controller.
type ResetState struct {
	IconVisible bool
}

// ResetController derives the reset icon's visibility from drag transitions
// alone: the icon is offered exactly while a drag is in progress. Every press
// of the icon requests a reset of the container position.
type ResetController struct {
	table *fsm.FSM
}

// NewResetController creates the controller from ResetTable.
func NewResetController() ResetController {
	return ResetController{table: ResetTable()}
}

// Step applies ev to s. It consumes drag transitions, as produced by the
// drag machine, and reset icon presses.
func (c ResetController) Step(s ResetState, ev Event) (ResetState, []Output) {
	var input string
	switch ev.Kind {
	case eventDragState:
		input = inputDragEnded
		if ev.Bool {
			input = inputDragStarted
		}
	case EventResetIconPressed:
		input = inputResetPressed
	default:
		return s, nil
	}

	from := stateHidden
	if s.IconVisible {
		from = stateVisible
	}
	to, out, ok := c.table.Next(from, input, nil)
	if !ok || out == nil {
		return s, nil
	}

	switch *out {
	case outReset:
		return s, []Output{{Kind: OutputResetRequested}}
	default:
		s.IconVisible = to == stateVisible
		return s, []Output{{Kind: OutputResetIconVisible, Bool: s.IconVisible}}
	}
}
