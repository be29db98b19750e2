package actionbar

import "github.com/ha1tch/actionbar/pkg/fsm"

// State, input, guard and output names used by the machine tables.
const (
	stateHidden   = "hidden"
	stateVisible  = "visible"
	stateIdle     = "idle"
	stateDragging = "dragging"
	stateUnset    = "unset"
	stateSet      = "set"

	inputShow          = "show"
	inputHide          = "hide"
	inputHoverEnter    = "hover_enter"
	inputHoverLeave    = "hover_leave"
	inputMenuClosed    = "menu_closed"
	inputPress         = "drag_icon_pressed"
	inputRelease       = "pointer_released"
	inputDragStarted   = "drag_started"
	inputDragEnded     = "drag_ended"
	inputResetPressed  = "reset_icon_pressed"
	inputChosen        = "chosen_entry"
	inputSetSelected   = "set_selected"
	inputSetType       = "set_vis_input_type"
	inputBecameVisible = "became_visible"
	inputBecameHidden  = "became_hidden"

	// guardIdle: no source hovered and the chooser menu is closed.
	guardIdle = "idle"
	// guardUnhovered: no source hovered.
	guardUnhovered = "unhovered"
	// guardChanged: a pending input type differs from the last forwarded one.
	guardChanged = "changed"
	// guardHasSelection: the payload carries a concrete path.
	guardHasSelection = "has_selection"

	outShow    = "show"
	outHide    = "hide"
	outStart   = "drag_start"
	outEnd     = "drag_end"
	outReset   = "reset"
	outSelect  = "select"
	outRoute   = "route"
	outForward = "forward"
	outAttach  = "attach"
	outDetach  = "detach"
)

// VisibilityTable describes the visibility machine.
func VisibilityTable() *fsm.FSM {
	f := fsm.New("visibility")
	f.Description = "Bar visibility from hover sources, show/hide commands and the chooser menu"
	f.AddState(stateHidden)
	f.AddState(stateVisible)

	f.OnEmit(stateHidden, inputShow, stateVisible, outShow)
	f.On(stateVisible, inputShow, stateVisible)
	f.OnEmit(stateVisible, inputHide, stateHidden, outHide)
	f.On(stateHidden, inputHide, stateHidden)

	f.OnEmit(stateHidden, inputHoverEnter, stateVisible, outShow)
	f.On(stateVisible, inputHoverEnter, stateVisible)

	f.OnGuardEmit(stateVisible, inputHoverLeave, guardIdle, stateHidden, outHide)
	f.OnGuard(stateHidden, inputHoverLeave, guardIdle, stateHidden)

	f.OnGuardEmit(stateVisible, inputMenuClosed, guardUnhovered, stateHidden, outHide)
	f.OnGuard(stateHidden, inputMenuClosed, guardUnhovered, stateHidden)
	return f
}

// DragTable describes the drag machine.
func DragTable() *fsm.FSM {
	f := fsm.New("drag")
	f.Description = "Container drag state from the drag icon and the global pointer release"
	f.AddState(stateIdle)
	f.AddState(stateDragging)
	f.OnEmit(stateIdle, inputPress, stateDragging, outStart)
	// Release while idle and press while dragging have no entry: no-ops.
	f.OnEmit(stateDragging, inputRelease, stateIdle, outEnd)
	return f
}

// ResetTable describes the reset icon controller.
func ResetTable() *fsm.FSM {
	f := fsm.New("reset")
	f.Description = "Reset icon attachment mirrors the drag state; pressing it requests a reset"
	f.AddState(stateHidden)
	f.AddState(stateVisible)
	f.OnEmit(stateHidden, inputDragStarted, stateVisible, outAttach)
	f.OnEmit(stateVisible, inputDragEnded, stateHidden, outDetach)
	f.OnEmit(stateHidden, inputResetPressed, stateHidden, outReset)
	f.OnEmit(stateVisible, inputResetPressed, stateVisible, outReset)
	return f
}

// SelectionTable describes the selection mediator.
func SelectionTable() *fsm.FSM {
	f := fsm.New("selection")
	f.Description = "Forwards concrete chooser entries; set_selected only seeds the chooser"
	f.AddState(stateUnset)
	f.AddState(stateSet)
	for _, s := range []string{stateUnset, stateSet} {
		f.OnGuardEmit(s, inputChosen, guardHasSelection, stateSet, outSelect)
		f.On(s, inputChosen, s)
		f.OnGuardEmit(s, inputSetSelected, guardHasSelection, stateSet, outRoute)
		f.OnEmit(s, inputSetSelected, stateUnset, outRoute)
	}
	return f
}

// RelayTable describes the gated input-type relay.
func RelayTable() *fsm.FSM {
	f := fsm.New("relay")
	f.Description = "Forwards the input type while visible, and the cached one on show"
	f.AddState(stateHidden)
	f.AddState(stateVisible)
	f.On(stateHidden, inputSetType, stateHidden)
	f.OnGuardEmit(stateVisible, inputSetType, guardChanged, stateVisible, outForward)
	f.On(stateVisible, inputSetType, stateVisible)
	f.OnGuardEmit(stateHidden, inputBecameVisible, guardChanged, stateVisible, outForward)
	f.On(stateHidden, inputBecameVisible, stateVisible)
	f.On(stateVisible, inputBecameHidden, stateHidden)
	return f
}

// Tables returns every machine table in dependency order.
func Tables() []*fsm.FSM {
	return []*fsm.FSM{
		VisibilityTable(),
		DragTable(),
		ResetTable(),
		SelectionTable(),
		RelayTable(),
	}
}

// Table returns the machine table with the given name.
func Table(name string) (*fsm.FSM, bool) {
	for _, f := range Tables() {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}
