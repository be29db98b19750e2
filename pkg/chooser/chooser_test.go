package chooser

import (
	"testing"

	"github.com/ha1tch/actionbar/pkg/actionbar"
	"github.com/ha1tch/actionbar/pkg/visualization"
)

func wired() (*Chooser, *actionbar.Bar, *[]actionbar.Output) {
	c := New(visualization.DefaultRegistry())
	var outs []actionbar.Output
	b := actionbar.New(
		actionbar.WithChooser(c),
		actionbar.WithListener(actionbar.ListenerFunc(func(o actionbar.Output) {
			outs = append(outs, o)
		})),
	)
	c.Bind(b.Dispatch)
	return c, b, &outs
}

func selections(outs []actionbar.Output) []string {
	var got []string
	for _, o := range outs {
		if o.Kind == actionbar.OutputVisualisationSelection {
			got = append(got, o.Path.String())
		}
	}
	return got
}

func TestEntriesFollowInputType(t *testing.T) {
	c, b, _ := wired()
	if n := len(c.Entries()); n != 1 {
		t.Fatalf("initial entries = %d, want only JSON", n)
	}
	b.ShowIcons()
	b.SetVisInputType(visualization.InputType("Standard.Table.Data.Table.Table").Ptr())
	if n := len(c.Entries()); n != 5 {
		t.Errorf("table entries = %d, want 5", n)
	}
	if got := c.InputType(); got == nil || *got != "Standard.Table.Data.Table.Table" {
		t.Errorf("input type = %s", visualization.FormatType(got))
	}
}

func TestReinitialisationDoesNotDeselect(t *testing.T) {
	c, b, outs := wired()
	b.HoverEnter(actionbar.SourceBar)
	c.Toggle()
	if err := c.PickPath(visualization.Builtin("JSON")); err != nil {
		t.Fatal(err)
	}
	b.SetVisInputType(visualization.InputType("Standard.Base.Data.Vector.Vector").Ptr())

	if got := selections(*outs); len(got) != 1 || got[0] != "builtin/JSON" {
		t.Errorf("selections = %v, want [builtin/JSON]", got)
	}
	if sel := b.Selected(); sel == nil || sel.Name != "JSON" {
		t.Errorf("bar selection = %s", visualization.FormatPath(sel))
	}
}

func TestMenuKeepsBarOpenUntilClosed(t *testing.T) {
	c, b, _ := wired()
	b.HoverEnter(actionbar.SourceBar)
	c.Toggle()
	b.HoverLeave(actionbar.SourceBar)
	if !b.Visible() {
		t.Fatal("open menu should keep the bar visible")
	}
	c.Toggle()
	if b.Visible() {
		t.Error("closing the menu with nothing hovered should hide the bar")
	}
}

func TestPickWhileHoveredKeepsBar(t *testing.T) {
	c, b, _ := wired()
	b.HoverEnter(actionbar.SourceBar)
	c.SetHovered(true)
	b.HoverLeave(actionbar.SourceBar)
	c.Toggle()
	if err := c.Pick(0); err != nil {
		t.Fatal(err)
	}
	if !b.Visible() {
		t.Error("bar should stay visible while the chooser is hovered")
	}
	if c.MenuOpen() {
		t.Error("pick should close the menu")
	}
	c.SetHovered(false)
	if b.Visible() {
		t.Error("leaving the chooser should hide the bar")
	}
}

func TestHideClosesMenu(t *testing.T) {
	c, b, _ := wired()
	b.ShowIcons()
	c.Toggle()
	b.HideIcons()
	if c.MenuOpen() {
		t.Error("hide_selection_menu should close the menu")
	}
	if b.MenuVisible() {
		t.Error("bar should see the menu closed")
	}
}

func TestPickErrors(t *testing.T) {
	c := New(visualization.DefaultRegistry())
	if err := c.Pick(0); err == nil {
		t.Error("pick with closed menu should fail")
	}
	c.Toggle()
	if err := c.Pick(7); err == nil {
		t.Error("pick out of range should fail")
	}
	if err := c.PickPath(visualization.Builtin("Table")); err == nil {
		t.Error("pick of an entry not offered should fail")
	}
}

func TestSetSelectedFromBar(t *testing.T) {
	c, b, outs := wired()
	b.SetSelectedVisualization(visualization.Builtin("Table").Ptr())
	if sel := c.Selected(); sel == nil || sel.Name != "Table" {
		t.Errorf("chooser selection = %s", visualization.FormatPath(sel))
	}
	if got := selections(*outs); len(got) != 0 {
		t.Errorf("selections = %v, want none", got)
	}
}
