package actionbar

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/ha1tch/actionbar/pkg/visualization"
)

var (
	propSources = []SourceID{SourceBar, SourceChooser, "icon"}
	propPaths   = []*visualization.Path{nil, {}, path("Table"), path("JSON"), {Project: "local", Name: "Chart"}}
	propTypes   = []*visualization.InputType{nil, typ("Text"), typ("Integer"), typ("Table")}
)

func drawEvent(t *rapid.T) Event {
	kind := rapid.SampledFrom([]EventKind{
		EventShowIcons, EventHideIcons, EventHoverEnter, EventHoverLeave,
		EventMenuVisible, EventMenuClosed, EventDragIconPressed, EventPointerReleased,
		EventResetIconPressed, EventChosenEntry, EventSetSelectedVisualization,
		EventSetVisInputType,
	}).Draw(t, "kind")

	switch kind {
	case EventHoverEnter, EventHoverLeave:
		return Event{Kind: kind, Source: rapid.SampledFrom(propSources).Draw(t, "source")}
	case EventMenuVisible:
		return MenuVisible(rapid.Bool().Draw(t, "menu"))
	case EventChosenEntry, EventSetSelectedVisualization:
		return Event{Kind: kind, Path: clonePath(rapid.SampledFrom(propPaths).Draw(t, "path"))}
	case EventSetVisInputType:
		return SetVisInputType(rapid.SampledFrom(propTypes).Draw(t, "type"))
	}
	return Event{Kind: kind}
}

// visibilityModel restates the visibility rules directly over counters.
type visibilityModel struct {
	counts  map[SourceID]int
	menu    bool
	visible bool
}

func (m *visibilityModel) any() bool {
	for _, n := range m.counts {
		if n > 0 {
			return true
		}
	}
	return false
}

func (m *visibilityModel) apply(ev Event) {
	switch ev.Kind {
	case EventShowIcons:
		m.visible = true
	case EventHideIcons:
		m.visible = false
	case EventHoverEnter:
		m.counts[ev.Source]++
		m.visible = true
	case EventHoverLeave:
		if m.counts[ev.Source] > 0 {
			m.counts[ev.Source]--
		}
		if !m.any() && !m.menu {
			m.visible = false
		}
	case EventMenuVisible:
		m.menu = ev.Bool
	case EventMenuClosed:
		m.menu = false
		if !m.any() {
			m.visible = false
		}
	}
}

func TestPropertyVisibilityMatchesModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := New()
		model := &visibilityModel{counts: map[SourceID]int{}}
		events := rapid.SliceOfN(rapid.Custom(drawEvent), 1, 60).Draw(t, "events")
		for i, ev := range events {
			b.Dispatch(ev)
			model.apply(ev)
			if b.Visible() != model.visible {
				t.Fatalf("step %d %s: visible = %v, model %v", i, ev, b.Visible(), model.visible)
			}
			if b.AnyHovered() != model.any() {
				t.Fatalf("step %d %s: any hovered = %v, model %v", i, ev, b.AnyHovered(), model.any())
			}
			if b.MenuVisible() != model.menu {
				t.Fatalf("step %d %s: menu = %v, model %v", i, ev, b.MenuVisible(), model.menu)
			}
		}
	})
}

func TestPropertyVisibilityChangesAlternate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := New()
		last := false
		events := rapid.SliceOfN(rapid.Custom(drawEvent), 1, 60).Draw(t, "events")
		for _, ev := range events {
			for _, o := range b.Dispatch(ev) {
				if o.Kind != OutputVisibilityChanged {
					continue
				}
				if o.Bool == last {
					t.Fatalf("is_visible repeated %v on %s", o.Bool, ev)
				}
				last = o.Bool
			}
		}
	})
}

func TestPropertyEveryResetPressRequestsReset(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := New()
		events := rapid.SliceOfN(rapid.Custom(drawEvent), 1, 60).Draw(t, "events")
		for i, ev := range events {
			resets := 0
			for _, o := range b.Dispatch(ev) {
				if o.Kind == OutputResetRequested {
					resets++
				}
			}
			want := 0
			if ev.Kind == EventResetIconPressed {
				want = 1
			}
			if resets != want {
				t.Fatalf("step %d %s: %d reset requests, want %d", i, ev, resets, want)
			}
		}
	})
}

func TestPropertyResetIconTracksDragging(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := New()
		presses, releases := 0, 0
		events := rapid.SliceOfN(rapid.Custom(drawEvent), 1, 60).Draw(t, "events")
		for i, ev := range events {
			for _, o := range b.Dispatch(ev) {
				if o.Kind != OutputDragState {
					continue
				}
				if o.Bool {
					presses++
				} else {
					releases++
				}
			}
			if b.ResetIconVisible() != b.Dragging() {
				t.Fatalf("step %d %s: reset icon %v, dragging %v", i, ev, b.ResetIconVisible(), b.Dragging())
			}
			if presses-releases != 0 && presses-releases != 1 {
				t.Fatalf("step %d: %d drag starts against %d ends", i, presses, releases)
			}
		}
	})
}

func TestPropertySelectionNeverEmpty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := New()
		events := rapid.SliceOfN(rapid.Custom(drawEvent), 1, 60).Draw(t, "events")
		for _, ev := range events {
			for _, o := range b.Dispatch(ev) {
				if o.Kind == OutputVisualisationSelection && !HasSelection(o.Path) {
					t.Fatalf("empty visualisation_selection after %s", ev)
				}
			}
		}
	})
}

func TestPropertyRelayForwardsOnlyWhileVisible(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := &recordingChooser{}
		b := New(WithChooser(c))
		events := rapid.SliceOfN(rapid.Custom(drawEvent), 1, 60).Draw(t, "events")
		for i, ev := range events {
			wasVisible := b.Visible()
			before := len(c.forwards)
			b.Dispatch(ev)
			sent := c.forwards[before:]

			if len(sent) > 1 {
				t.Fatalf("step %d %s: %d forwards in one propagation", i, ev, len(sent))
			}
			if len(sent) == 1 && !b.Visible() {
				t.Fatalf("step %d %s: forwarded while hidden", i, ev)
			}
			if len(sent) == 1 && before > 0 && visualization.TypeEqual(sent[0], c.forwards[before-1]) {
				t.Fatalf("step %d %s: repeated forward of %s", i, ev, visualization.FormatType(sent[0]))
			}
			if !wasVisible && b.Visible() {
				pending, ok := b.PendingInputType()
				stale := ok && (before == 0 || !visualization.TypeEqual(pending, c.forwards[before-1]))
				if stale != (len(sent) == 1) {
					t.Fatalf("step %d %s: became visible with pending %s, forwarded %d",
						i, ev, visualization.FormatType(pending), len(sent))
				}
			}
		}
	})
}
