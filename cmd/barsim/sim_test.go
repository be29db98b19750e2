package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/actionbar/pkg/actionbar"
	"github.com/ha1tch/actionbar/pkg/config"
	"github.com/ha1tch/actionbar/pkg/visualization"
)

// Screen 100x30 with the default 40x1 bar puts the node at (30,12)-(69,16)
// and the bar on row 11. The drag icon covers columns 31-33, the chooser
// columns 57-69.
func newTestSim(t *testing.T) *Sim {
	t.Helper()
	s := newSim(config.Default(), visualization.DefaultRegistry())
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(100, 30)
	s.screen = screen
	return s
}

func mouse(s *Sim, x, y int, buttons tcell.ButtonMask) {
	s.handleMouse(tcell.NewEventMouse(x, y, buttons, tcell.ModNone))
}

func key(s *Sim, r rune) bool {
	return s.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

func TestNodeHoverShowsBar(t *testing.T) {
	s := newTestSim(t)

	mouse(s, 50, 14, tcell.ButtonNone)
	if !s.bar.Visible() || !s.layout.attached {
		t.Fatal("hovering the node should show the bar")
	}

	mouse(s, 50, 11, tcell.ButtonNone)
	if !s.bar.Visible() {
		t.Error("moving from the node onto the bar should keep it visible")
	}
	if !s.bar.Hover().Hovered(actionbar.SourceBar) {
		t.Error("bar should be hovered")
	}

	mouse(s, 5, 25, tcell.ButtonNone)
	if s.bar.Visible() || s.layout.attached {
		t.Error("leaving the node and bar should hide the bar")
	}
}

func TestDragMovesNodeAndResetRestores(t *testing.T) {
	s := newTestSim(t)
	mouse(s, 50, 14, tcell.ButtonNone)
	mouse(s, 32, 11, tcell.ButtonNone)

	mouse(s, 32, 11, tcell.Button1)
	if !s.bar.Dragging() || !s.bar.ResetIconVisible() {
		t.Fatalf("press on drag icon: dragging=%t reset=%t", s.bar.Dragging(), s.bar.ResetIconVisible())
	}
	if !s.layout.iconAttached[actionbar.IconReset] {
		t.Error("reset icon should be attached while dragging")
	}

	mouse(s, 42, 13, tcell.Button1)
	if s.offX != 10 || s.offY != 2 {
		t.Errorf("offset = (%d,%d), want (10,2)", s.offX, s.offY)
	}
	if !s.bar.Visible() {
		t.Error("bar should follow the pointer and stay visible")
	}

	key(s, 'r')
	if s.offX != 0 || s.offY != 0 {
		t.Errorf("offset after reset = (%d,%d)", s.offX, s.offY)
	}

	mouse(s, 42, 13, tcell.ButtonNone)
	if s.bar.Dragging() || s.bar.ResetIconVisible() {
		t.Error("release should end the drag and hide the reset icon")
	}
	if s.layout.iconAttached[actionbar.IconReset] {
		t.Error("reset icon should be detached after the drag")
	}
}

func TestResetKeyRestoresPosition(t *testing.T) {
	s := newTestSim(t)
	s.offX, s.offY = 4, 4
	key(s, 'r')
	if s.offX != 0 || s.offY != 0 {
		t.Errorf("offset after reset = (%d,%d)", s.offX, s.offY)
	}
	if s.bar.ResetIconVisible() {
		t.Error("reset key should not attach the reset icon")
	}
	if s.message != "Position reset" {
		t.Errorf("message = %q", s.message)
	}
}

func TestChooserMenuPick(t *testing.T) {
	s := newTestSim(t)
	mouse(s, 50, 14, tcell.ButtonNone)
	mouse(s, 60, 11, tcell.ButtonNone)
	if !s.chooser.Hovered() {
		t.Fatal("chooser should be hovered")
	}

	mouse(s, 60, 11, tcell.Button1)
	if !s.chooser.MenuOpen() || !s.bar.MenuVisible() {
		t.Fatal("click on the chooser should open the menu")
	}

	// Onto the single menu entry, below the bar.
	mouse(s, 60, 13, tcell.ButtonNone)
	if !s.bar.Visible() {
		t.Error("bar should stay visible while the menu is hovered")
	}

	mouse(s, 60, 13, tcell.Button1)
	want := visualization.Builtin("JSON")
	if got := s.bar.Selected(); got == nil || *got != want {
		t.Errorf("selected = %s, want %s", visualization.FormatPath(got), want)
	}
	if s.chooser.MenuOpen() {
		t.Error("pick should close the menu")
	}
	if !s.bar.Visible() {
		t.Error("bar should stay visible while the chooser is hovered")
	}

	mouse(s, 5, 25, tcell.ButtonNone)
	if s.bar.Visible() {
		t.Error("bar should hide once nothing is hovered")
	}
}

func TestInputTypeKeyIsGated(t *testing.T) {
	s := newTestSim(t)

	key(s, 't')
	table := visualization.InputType("Standard.Table.Data.Table.Table")
	if s.cfg.Type != string(table) {
		t.Errorf("cfg.Type = %q", s.cfg.Type)
	}
	if s.chooser.InputType() != nil {
		t.Error("type should not reach the chooser while hidden")
	}

	mouse(s, 50, 14, tcell.ButtonNone)
	if !visualization.TypeEqual(s.chooser.InputType(), &table) {
		t.Errorf("chooser type = %s", visualization.FormatType(s.chooser.InputType()))
	}
	if n := len(s.chooser.Entries()); n != 5 {
		t.Errorf("entries = %d, want 5", n)
	}
}

func TestInputTypesFromRegistry(t *testing.T) {
	types := inputTypes(visualization.DefaultRegistry())
	if len(types) != 5 {
		t.Fatalf("types = %d, want none plus 4", len(types))
	}
	if types[0] != nil {
		t.Error("first type should be none")
	}
}

func TestResizeKeys(t *testing.T) {
	s := newTestSim(t)
	key(s, '+')
	if s.cfg.Bar.Width != 42 || s.bar.Size().Width != 42 {
		t.Errorf("width = %d / %v", s.cfg.Bar.Width, s.bar.Size().Width)
	}
	s.cfg.Bar.Width = 12
	key(s, '-')
	if s.cfg.Bar.Width != 12 {
		t.Error("width should not shrink below 12")
	}
}

func TestTraceRecordsInputs(t *testing.T) {
	s := newTestSim(t)
	before := s.rec.Len()
	mouse(s, 50, 14, tcell.ButtonNone)
	if s.rec.Len() != before+1 {
		t.Errorf("trace steps = %d, want %d", s.rec.Len(), before+1)
	}
	steps := s.rec.Trace().Steps
	last := steps[len(steps)-1]
	if last.Event != "show_icons" || !last.Levels.Visible {
		t.Errorf("last step = %+v", last)
	}
}

func TestDrawDoesNotPanic(t *testing.T) {
	s := newTestSim(t)
	mouse(s, 50, 14, tcell.ButtonNone)
	mouse(s, 60, 11, tcell.ButtonNone)
	mouse(s, 60, 11, tcell.Button1)
	s.draw()
	s.screen.Show()
}
