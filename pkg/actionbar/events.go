package actionbar

import (
	"fmt"

	"github.com/ha1tch/actionbar/pkg/visualization"
)

// EventKind identifies an input to the bar.
type EventKind int

const (
	// EventShowIcons forces the bar visible.
	// Source: show_icons command | Payload: none
	EventShowIcons EventKind = iota

	// EventHideIcons forces the bar hidden.
	// Source: hide_icons command | Payload: none
	EventHideIcons

	// EventSetSize resizes the bar and re-places icons and chooser.
	// Source: set_size command | Payload: Size
	EventSetSize

	// EventSetSelectedVisualization seeds the chooser's selected entry.
	// Source: set_selected_visualization command | Payload: Path (optional)
	EventSetSelectedVisualization

	// EventSetVisInputType reports the type of the node's value.
	// Source: set_vis_input_type command | Payload: Type (optional)
	EventSetVisInputType

	// EventHoverEnter marks a sub-region as hovered.
	// Source: pointer | Payload: Source
	EventHoverEnter

	// EventHoverLeave marks a sub-region as no longer hovered.
	// Source: pointer | Payload: Source
	EventHoverLeave

	// EventDragIconPressed is a primary button press on the drag icon.
	// Source: pointer
	EventDragIconPressed

	// EventPointerReleased is a primary button release anywhere.
	// Source: pointer (global)
	EventPointerReleased

	// EventResetIconPressed is a primary button press on the reset icon.
	// Source: pointer
	EventResetIconPressed

	// EventChosenEntry reports the chooser's chosen entry.
	// Source: chooser | Payload: Path (optional, nil = deselection)
	EventChosenEntry

	// EventMenuVisible reports the chooser menu level.
	// Source: chooser | Payload: Bool
	EventMenuVisible

	// EventMenuClosed reports that the chooser menu closed.
	// Source: chooser
	EventMenuClosed

	// eventVisibility carries visibility changes into the relay.
	eventVisibility

	// eventDragState carries drag transitions into the reset controller.
	eventDragState
)

var eventNames = map[EventKind]string{
	EventShowIcons:                "show_icons",
	EventHideIcons:                "hide_icons",
	EventSetSize:                  "set_size",
	EventSetSelectedVisualization: "set_selected_visualization",
	EventSetVisInputType:          "set_vis_input_type",
	EventHoverEnter:               "hover_enter",
	EventHoverLeave:               "hover_leave",
	EventDragIconPressed:          "drag_icon_pressed",
	EventPointerReleased:          "pointer_released",
	EventResetIconPressed:         "reset_icon_pressed",
	EventChosenEntry:              "chosen_entry",
	EventMenuVisible:              "menu_visible",
	EventMenuClosed:               "menu_closed",
	eventVisibility:               "visibility",
	eventDragState:                "drag_state",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind resolves an external event name such as "hover_enter".
func ParseEventKind(name string) (EventKind, bool) {
	for k, n := range eventNames {
		if n == name && k < eventVisibility {
			return k, true
		}
	}
	return 0, false
}

// phase orders events delivered in the same frame: hover edges and level
// updates are applied before edge events and commands are evaluated.
func (k EventKind) phase() int {
	switch k {
	case EventHoverEnter, EventHoverLeave, EventMenuVisible:
		return 0
	default:
		return 1
	}
}

// Event is a single input to the bar. Only the payload fields named by Kind
// are meaningful.
type Event struct {
	Kind   EventKind
	Source SourceID
	Bool   bool
	Size   Size
	Path   *visualization.Path
	Type   *visualization.InputType
}

func (e Event) String() string {
	switch e.Kind {
	case EventHoverEnter, EventHoverLeave:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Source)
	case EventMenuVisible, eventVisibility, eventDragState:
		return fmt.Sprintf("%s(%t)", e.Kind, e.Bool)
	case EventSetSize:
		return fmt.Sprintf("%s(%gx%g)", e.Kind, e.Size.Width, e.Size.Height)
	case EventChosenEntry, EventSetSelectedVisualization:
		return fmt.Sprintf("%s(%s)", e.Kind, visualization.FormatPath(e.Path))
	case EventSetVisInputType:
		return fmt.Sprintf("%s(%s)", e.Kind, visualization.FormatType(e.Type))
	default:
		return e.Kind.String()
	}
}

// ShowIcons builds a show_icons command.
func ShowIcons() Event { return Event{Kind: EventShowIcons} }

// HideIcons builds a hide_icons command.
func HideIcons() Event { return Event{Kind: EventHideIcons} }

// SetSize builds a set_size command.
func SetSize(width, height float64) Event {
	return Event{Kind: EventSetSize, Size: Size{Width: width, Height: height}}
}

// SetSelectedVisualization builds a set_selected_visualization command.
func SetSelectedVisualization(p *visualization.Path) Event {
	return Event{Kind: EventSetSelectedVisualization, Path: clonePath(p)}
}

// SetVisInputType builds a set_vis_input_type command.
func SetVisInputType(t *visualization.InputType) Event {
	return Event{Kind: EventSetVisInputType, Type: cloneType(t)}
}

// HoverEnter builds a pointer enter edge for src.
func HoverEnter(src SourceID) Event { return Event{Kind: EventHoverEnter, Source: src} }

// HoverLeave builds a pointer leave edge for src.
func HoverLeave(src SourceID) Event { return Event{Kind: EventHoverLeave, Source: src} }

// DragIconPressed builds a drag icon press.
func DragIconPressed() Event { return Event{Kind: EventDragIconPressed} }

// PointerReleased builds a global primary button release.
func PointerReleased() Event { return Event{Kind: EventPointerReleased} }

// ResetIconPressed builds a reset icon press.
func ResetIconPressed() Event { return Event{Kind: EventResetIconPressed} }

// ChosenEntry builds a chooser chosen_entry event.
func ChosenEntry(p *visualization.Path) Event {
	return Event{Kind: EventChosenEntry, Path: clonePath(p)}
}

// MenuVisible builds a chooser menu_visible level update.
func MenuVisible(visible bool) Event { return Event{Kind: EventMenuVisible, Bool: visible} }

// MenuClosed builds a chooser menu_closed edge.
func MenuClosed() Event { return Event{Kind: EventMenuClosed} }

func clonePath(p *visualization.Path) *visualization.Path {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneType(t *visualization.InputType) *visualization.InputType {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
