// Package actionbar implements the control state of a visualization action
// bar: the overlay that appears over a node while it is hovered and offers a
// visualization chooser plus drag and reset-position icons.
//
// Each concern is a separate machine with a pure Step function:
//
//	VisibilityMachine  hover sources, show/hide, chooser menu -> is_visible
//	DragMachine        drag icon press, global release -> container_drag_state
//	ResetController    drag transitions, reset icon press -> reset icon, reset request
//	SelectionMediator  chooser entries, set_selected_visualization -> visualisation_selection
//	InputTypeRelay     set_vis_input_type gated by is_visible -> chooser
//
// Bar composes them in dependency order and talks to the chooser and layout
// collaborators. It is not safe for concurrent use; give each goroutine its
// own Bar.
package actionbar

import (
	"sort"

	"github.com/ha1tch/actionbar/pkg/debug"
	"github.com/ha1tch/actionbar/pkg/visualization"
)

// Chooser is the nested visualization chooser as seen by the bar. Its own
// events come back through Dispatch (ChosenEntry, MenuVisible, MenuClosed,
// HoverEnter/HoverLeave with SourceChooser).
type Chooser interface {
	SetSelected(*visualization.Path)
	SetVisInputType(*visualization.InputType)
	HideSelectionMenu()
}

type nopChooser struct{}

func (nopChooser) SetSelected(*visualization.Path) {}
func (nopChooser) SetVisInputType(*visualization.InputType) {}
func (nopChooser) HideSelectionMenu() {}

// Option configures a Bar.
type Option func(*Bar)

// WithChooser sets the chooser collaborator.
func WithChooser(c Chooser) Option {
	return func(b *Bar) { b.chooser = c }
}

// WithLayout sets the layout collaborator.
func WithLayout(l Layout) Option {
	return func(b *Bar) { b.layout = l }
}

// WithListener adds a listener for every output.
func WithListener(l Listener) Option {
	return func(b *Bar) { b.listeners = append(b.listeners, l) }
}

// WithMetrics overrides DefaultMetrics.
func WithMetrics(m Metrics) Option {
	return func(b *Bar) { b.metrics = m }
}

// Bar is the composed action bar.
type Bar struct {
	visibility VisibilityMachine
	drag       DragMachine
	reset      ResetController
	selection  SelectionMediator
	relay      InputTypeRelay

	visState   VisibilityState
	dragState  DragState
	resetState ResetState
	selState   SelectionState
	relayState RelayState

	size    Size
	metrics Metrics

	chooser   Chooser
	layout    Layout
	listeners []Listener

	dispatching bool
	queue       []Event
}

// New creates a hidden, idle bar with nothing selected.
func New(opts ...Option) *Bar {
	b := &Bar{
		visibility: NewVisibilityMachine(),
		drag:       NewDragMachine(),
		reset:      NewResetController(),
		selection:  NewSelectionMediator(),
		relay:      NewInputTypeRelay(),
		metrics:    DefaultMetrics,
		chooser:    nopChooser{},
		layout:     NopLayout{},
	}
	for _, opt := range opts {
		opt(b)
	}
	applyArrangement(b.layout, Arrange(b.size, b.metrics))
	b.layout.SetAttached(false)
	b.layout.SetIconAttached(IconDrag, true)
	b.layout.SetIconAttached(IconReset, false)
	return b
}

// AddListener registers l for every subsequent output.
func (b *Bar) AddListener(l Listener) {
	b.listeners = append(b.listeners, l)
}

// Dispatch delivers one event and returns every output it produced.
//
// A call made while another Dispatch is running (a collaborator reacting to
// an output) is queued and processed once the current event has fully
// propagated; it returns nil and its outputs are returned by the outer call.
// If a listener or collaborator panics, events still queued are discarded.
func (b *Bar) Dispatch(ev Event) []Output {
	if b.dispatching {
		b.queue = append(b.queue, ev)
		return nil
	}
	b.dispatching = true
	defer func() {
		b.dispatching = false
		b.queue = nil
	}()

	var all []Output
	b.queue = append(b.queue, ev)
	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue = b.queue[1:]
		all = append(all, b.process(next)...)
	}
	return all
}

// Frame delivers events that happened in the same frame. Hover edges and
// level updates are applied before edge events and commands, so a hover
// enter and a menu close in one frame leave the bar visible.
func (b *Bar) Frame(events ...Event) []Output {
	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Kind.phase() < ordered[j].Kind.phase()
	})
	var all []Output
	for _, ev := range ordered {
		all = append(all, b.Dispatch(ev)...)
	}
	return all
}

func (b *Bar) process(ev Event) []Output {
	debug.Log("event %s", ev)
	var outs []Output

	switch ev.Kind {
	case EventSetSize:
		b.size = ev.Size
		applyArrangement(b.layout, Arrange(b.size, b.metrics))

	case EventShowIcons, EventHideIcons, EventHoverEnter, EventHoverLeave,
		EventMenuVisible, EventMenuClosed:
		var vouts []Output
		b.visState, vouts = b.visibility.Step(b.visState, ev)
		for _, o := range vouts {
			outs = append(outs, o)
			if o.Kind == OutputVisibilityChanged {
				var routs []Output
				b.relayState, routs = b.relay.Step(b.relayState, Event{Kind: eventVisibility, Bool: o.Bool})
				outs = append(outs, routs...)
			}
		}

	case EventDragIconPressed, EventPointerReleased:
		var douts []Output
		b.dragState, douts = b.drag.Step(b.dragState, ev)
		for _, o := range douts {
			outs = append(outs, o)
			var routs []Output
			b.resetState, routs = b.reset.Step(b.resetState, Event{Kind: eventDragState, Bool: o.Bool})
			outs = append(outs, routs...)
		}

	case EventResetIconPressed:
		b.resetState, outs = b.reset.Step(b.resetState, ev)

	case EventChosenEntry, EventSetSelectedVisualization:
		b.selState, outs = b.selection.Step(b.selState, ev)

	case EventSetVisInputType:
		b.relayState, outs = b.relay.Step(b.relayState, ev)
	}

	for _, o := range outs {
		b.emit(o)
	}
	return outs
}

func (b *Bar) emit(o Output) {
	switch o.Kind {
	case OutputVisibilityChanged:
		b.layout.SetAttached(o.Bool)
	case OutputResetIconVisible:
		b.layout.SetIconAttached(IconReset, o.Bool)
	case OutputHideSelectionMenu:
		b.chooser.HideSelectionMenu()
	case OutputForwardInputType:
		b.chooser.SetVisInputType(cloneType(o.Type))
	case OutputChooserSelected:
		b.chooser.SetSelected(clonePath(o.Path))
	}
	for _, l := range b.listeners {
		l.OnOutput(o)
	}
}

// SetSize resizes the bar and pushes a new arrangement to the layout.
func (b *Bar) SetSize(width, height float64) []Output {
	return b.Dispatch(SetSize(width, height))
}

// ShowIcons forces the bar visible.
func (b *Bar) ShowIcons() []Output { return b.Dispatch(ShowIcons()) }

// HideIcons forces the bar hidden.
func (b *Bar) HideIcons() []Output { return b.Dispatch(HideIcons()) }

// SetSelectedVisualization seeds the chooser's selection. Nil clears it.
func (b *Bar) SetSelectedVisualization(p *visualization.Path) []Output {
	return b.Dispatch(SetSelectedVisualization(p))
}

// SetVisInputType sets the input type, forwarded to the chooser only while
// the bar is visible.
func (b *Bar) SetVisInputType(t *visualization.InputType) []Output {
	return b.Dispatch(SetVisInputType(t))
}

// HoverEnter records the pointer entering src.
func (b *Bar) HoverEnter(src SourceID) []Output { return b.Dispatch(HoverEnter(src)) }

// HoverLeave records the pointer leaving src.
func (b *Bar) HoverLeave(src SourceID) []Output { return b.Dispatch(HoverLeave(src)) }

// DragIconPressed starts a drag.
func (b *Bar) DragIconPressed() []Output { return b.Dispatch(DragIconPressed()) }

// PointerReleased ends a drag.
func (b *Bar) PointerReleased() []Output { return b.Dispatch(PointerReleased()) }

// ResetIconPressed requests a reset of the container position.
func (b *Bar) ResetIconPressed() []Output { return b.Dispatch(ResetIconPressed()) }

// ChooserChosen delivers an entry chosen in the chooser.
func (b *Bar) ChooserChosen(p *visualization.Path) []Output { return b.Dispatch(ChosenEntry(p)) }

// ChooserMenuVisible delivers the chooser's menu level.
func (b *Bar) ChooserMenuVisible(visible bool) []Output { return b.Dispatch(MenuVisible(visible)) }

// ChooserMenuClosed delivers the chooser's menu close edge.
func (b *Bar) ChooserMenuClosed() []Output { return b.Dispatch(MenuClosed()) }

// Visible reports whether the bar is shown.
func (b *Bar) Visible() bool { return b.visState.Visibility == Visible }

// Dragging reports whether a drag is in progress.
func (b *Bar) Dragging() bool { return b.dragState == Dragging }

// ResetIconVisible reports whether the reset icon is attached.
func (b *Bar) ResetIconVisible() bool { return b.resetState.IconVisible }

// AnyHovered reports whether any hover source is hovered.
func (b *Bar) AnyHovered() bool { return b.visState.Hover.Any() }

// MenuVisible reports the chooser's last menu level.
func (b *Bar) MenuVisible() bool { return b.visState.MenuVisible }

// Hover returns the hover set.
func (b *Bar) Hover() HoverSet { return b.visState.Hover }

// Size returns the last size set.
func (b *Bar) Size() Size { return b.size }

// Arrangement returns the placements last pushed to the layout.
func (b *Bar) Arrangement() Arrangement { return Arrange(b.size, b.metrics) }

// Selected returns the last selection, or nil.
func (b *Bar) Selected() *visualization.Path { return clonePath(b.selState.Selected) }

// PendingInputType returns the latest set_vis_input_type payload and whether
// one has been received.
func (b *Bar) PendingInputType() (*visualization.InputType, bool) {
	return cloneType(b.relayState.Pending), b.relayState.HasPending
}

// Snapshot is a copy of the bar's observable levels.
type Snapshot struct {
	Visible          bool                     `json:"visible"`
	Dragging         bool                     `json:"dragging"`
	ResetIconVisible bool                     `json:"reset_icon_visible"`
	AnyHovered       bool                     `json:"any_hovered"`
	MenuVisible      bool                     `json:"menu_visible"`
	Selected         *visualization.Path      `json:"selected,omitempty"`
	PendingInputType *visualization.InputType `json:"pending_input_type,omitempty"`
}

// Snapshot returns the current levels.
func (b *Bar) Snapshot() Snapshot {
	pending, _ := b.PendingInputType()
	return Snapshot{
		Visible:          b.Visible(),
		Dragging:         b.Dragging(),
		ResetIconVisible: b.ResetIconVisible(),
		AnyHovered:       b.AnyHovered(),
		MenuVisible:      b.MenuVisible(),
		Selected:         b.Selected(),
		PendingInputType: pending,
	}
}
