package actionbar

import (
	"fmt"

	"github.com/ha1tch/actionbar/pkg/visualization"
)

// OutputKind identifies something the bar emits.
type OutputKind int

const (
	// OutputVisibilityChanged reports is_visible after every change.
	OutputVisibilityChanged OutputKind = iota
	// OutputMouseOver is the fan-in of every hover enter edge.
	OutputMouseOver
	// OutputMouseOut is the fan-in of every hover leave edge.
	OutputMouseOut
	// OutputDragState reports container_drag_state after every change.
	OutputDragState
	// OutputResetIconVisible reports the reset icon level after every change.
	OutputResetIconVisible
	// OutputResetRequested is on_container_reset_position.
	OutputResetRequested
	// OutputVisualisationSelection carries a concrete chosen visualization.
	OutputVisualisationSelection

	// The remaining kinds are commands for the chooser.

	// OutputHideSelectionMenu asks the chooser to close its menu.
	OutputHideSelectionMenu
	// OutputForwardInputType is the chooser's set_vis_input_type.
	OutputForwardInputType
	// OutputChooserSelected is the chooser's set_selected.
	OutputChooserSelected
)

var outputNames = map[OutputKind]string{
	OutputVisibilityChanged:      "is_visible",
	OutputMouseOver:              "mouse_over",
	OutputMouseOut:               "mouse_out",
	OutputDragState:              "container_drag_state",
	OutputResetIconVisible:       "reset_icon_visible",
	OutputResetRequested:         "on_container_reset_position",
	OutputVisualisationSelection: "visualisation_selection",
	OutputHideSelectionMenu:      "chooser.hide_selection_menu",
	OutputForwardInputType:       "chooser.set_vis_input_type",
	OutputChooserSelected:        "chooser.set_selected",
}

func (k OutputKind) String() string {
	if name, ok := outputNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OutputKind(%d)", int(k))
}

// ForChooser reports whether outputs of this kind are commands routed to the
// nested chooser rather than outward signals.
func (k OutputKind) ForChooser() bool {
	return k >= OutputHideSelectionMenu
}

// Output is a single emission. Only the payload fields named by Kind are set.
type Output struct {
	Kind OutputKind
	Bool bool
	Path *visualization.Path
	Type *visualization.InputType
}

func (o Output) String() string {
	switch o.Kind {
	case OutputVisibilityChanged, OutputDragState, OutputResetIconVisible:
		return fmt.Sprintf("%s(%t)", o.Kind, o.Bool)
	case OutputVisualisationSelection, OutputChooserSelected:
		return fmt.Sprintf("%s(%s)", o.Kind, visualization.FormatPath(o.Path))
	case OutputForwardInputType:
		return fmt.Sprintf("%s(%s)", o.Kind, visualization.FormatType(o.Type))
	default:
		return o.Kind.String()
	}
}

// Listener receives every output the bar emits, in emission order.
type Listener interface {
	OnOutput(Output)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Output)

// OnOutput calls f(o).
func (f ListenerFunc) OnOutput(o Output) { f(o) }
