package actionbar

import (
	"github.com/ha1tch/actionbar/pkg/debug"
	"github.com/ha1tch/actionbar/pkg/fsm"
	"github.com/ha1tch/actionbar/pkg/visualization"
)

// RelayState is owned by the input-type relay.
type RelayState struct {
	Visible bool

	// Pending is the latest input type received, visible or not.
	Pending    *visualization.InputType
	HasPending bool

	// Forwarded is the last value sent to the chooser.
	Forwarded    *visualization.InputType
	HasForwarded bool
}

// InputTypeRelay forwards set_vis_input_type to the chooser only while the
// bar is visible, and forwards the cached value once when the bar becomes
// visible. Both paths skip values equal to the last one forwarded, so the
// chooser does not rebuild its entry list for a hidden bar or for a repeat.
type InputTypeRelay struct {
	table *fsm.FSM
}

// NewInputTypeRelay creates the relay from RelayTable.
func NewInputTypeRelay() InputTypeRelay {
	return InputTypeRelay{table: RelayTable()}
}

// Step applies ev to s. It consumes set_vis_input_type and the visibility
// changes produced by the visibility machine.
func (r InputTypeRelay) Step(s RelayState, ev Event) (RelayState, []Output) {
	var input string
	switch ev.Kind {
	case EventSetVisInputType:
		s.Pending = cloneType(ev.Type)
		s.HasPending = true
		input = inputSetType
	case eventVisibility:
		input = inputBecameHidden
		if ev.Bool {
			input = inputBecameVisible
		}
	default:
		return s, nil
	}

	from := stateHidden
	if s.Visible {
		from = stateVisible
	}
	to, out, ok := r.table.Next(from, input, func(guard string) bool {
		return guard == guardChanged && s.HasPending &&
			(!s.HasForwarded || !visualization.TypeEqual(s.Pending, s.Forwarded))
	})
	if !ok {
		return s, nil
	}
	s.Visible = to == stateVisible
	if out == nil {
		return s, nil
	}

	s.Forwarded = cloneType(s.Pending)
	s.HasForwarded = true
	debug.Log("relay: forwarding %s", visualization.FormatType(s.Forwarded))
	return s, []Output{{Kind: OutputForwardInputType, Type: cloneType(s.Forwarded)}}
}
