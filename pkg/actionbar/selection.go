package actionbar

import (
	"github.com/ha1tch/actionbar/pkg/debug"
	"github.com/ha1tch/actionbar/pkg/fsm"
	"github.com/ha1tch/actionbar/pkg/visualization"
)

// SelectionState is owned by the selection mediator.
type SelectionState struct {
	Selected *visualization.Path
}

// SelectionMediator relays the chooser's chosen entries outward. The bar
// offers no way back to "nothing selected", so entries without a concrete
// path (the chooser emits those while it reinitialises) are swallowed.
// set_selected_visualization seeds the chooser and never echoes outward.
type SelectionMediator struct {
	table *fsm.FSM
}

// NewSelectionMediator creates the mediator from SelectionTable.
func NewSelectionMediator() SelectionMediator {
	return SelectionMediator{table: SelectionTable()}
}

// HasSelection reports whether p names a concrete visualization.
func HasSelection(p *visualization.Path) bool {
	return p != nil && !p.IsZero()
}

// Step applies ev to s.
func (m SelectionMediator) Step(s SelectionState, ev Event) (SelectionState, []Output) {
	var input string
	switch ev.Kind {
	case EventChosenEntry:
		input = inputChosen
	case EventSetSelectedVisualization:
		input = inputSetSelected
	default:
		return s, nil
	}

	from := stateUnset
	if s.Selected != nil {
		from = stateSet
	}
	_, out, ok := m.table.Next(from, input, func(guard string) bool {
		return guard == guardHasSelection && HasSelection(ev.Path)
	})
	if !ok || out == nil {
		debug.Log("selection: dropped %s", ev)
		return s, nil
	}

	switch *out {
	case outSelect:
		s.Selected = clonePath(ev.Path)
		return s, []Output{{Kind: OutputVisualisationSelection, Path: clonePath(ev.Path)}}
	default:
		s.Selected = nil
		if HasSelection(ev.Path) {
			s.Selected = clonePath(ev.Path)
		}
		return s, []Output{{Kind: OutputChooserSelected, Path: clonePath(s.Selected)}}
	}
}
