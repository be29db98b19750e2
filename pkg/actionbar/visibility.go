package actionbar

import (
	"github.com/ha1tch/actionbar/pkg/debug"
	"github.com/ha1tch/actionbar/pkg/fsm"
)

// Visibility is the bar's visible/hidden state.
type Visibility int

const (
	Hidden Visibility = iota
	Visible
)

func (v Visibility) String() string {
	if v == Visible {
		return stateVisible
	}
	return stateHidden
}

func visibilityOf(state string) Visibility {
	if state == stateVisible {
		return Visible
	}
	return Hidden
}

// VisibilityState is owned by the visibility machine.
type VisibilityState struct {
	Visibility  Visibility
	Hover       HoverSet
	MenuVisible bool
}

// VisibilityMachine decides whether the bar is visible.
//
// A hover enter or show command makes it visible. It hides on an explicit
// hide, on a hover leave that leaves nothing hovered while the chooser menu
// is closed, and on a menu close while nothing is hovered. Hover edges update
// the hover set before the table is consulted, so a leave is judged against
// the set without the leaving source. A leave from a source that was never
// entered leaves the counts alone but is still a leave edge.
type VisibilityMachine struct {
	table *fsm.FSM
}

// NewVisibilityMachine creates the machine from VisibilityTable.
func NewVisibilityMachine() VisibilityMachine {
	return VisibilityMachine{table: VisibilityTable()}
}

// Step applies ev to s. Events the machine does not consume leave s as is.
func (m VisibilityMachine) Step(s VisibilityState, ev Event) (VisibilityState, []Output) {
	var outs []Output
	var input string

	switch ev.Kind {
	case EventShowIcons:
		input = inputShow
	case EventHideIcons:
		input = inputHide
	case EventHoverEnter:
		s.Hover = s.Hover.Enter(ev.Source)
		outs = append(outs, Output{Kind: OutputMouseOver})
		input = inputHoverEnter
	case EventHoverLeave:
		hover, ok := s.Hover.Leave(ev.Source)
		debug.LogIf(!ok, "visibility: leave from %s without enter", ev.Source)
		s.Hover = hover
		outs = append(outs, Output{Kind: OutputMouseOut})
		input = inputHoverLeave
	case EventMenuVisible:
		s.MenuVisible = ev.Bool
		return s, nil
	case EventMenuClosed:
		s.MenuVisible = false
		input = inputMenuClosed
	default:
		return s, nil
	}

	from := s.Visibility.String()
	to, out, ok := m.table.Next(from, input, func(guard string) bool {
		switch guard {
		case guardIdle:
			return !s.Hover.Any() && !s.MenuVisible
		case guardUnhovered:
			return !s.Hover.Any()
		}
		return false
	})
	if !ok {
		return s, outs
	}

	s.Visibility = visibilityOf(to)
	if out != nil {
		debug.Log("visibility: %s -> %s on %s", from, to, ev)
		outs = append(outs, Output{Kind: OutputVisibilityChanged, Bool: s.Visibility == Visible})
	}
	// Hiding the bar always closes the chooser menu with it.
	if s.Visibility == Hidden && (from == stateVisible || s.MenuVisible) {
		outs = append(outs, Output{Kind: OutputHideSelectionMenu})
	}
	return s, outs
}
