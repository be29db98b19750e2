// Package chooser is an in-process visualization chooser that satisfies the
// action bar's collaborator contract. It keeps a menu of registry entries
// valid for the current input type and reports its own events back through
// a sink, normally (*actionbar.Bar).Dispatch.
package chooser

import (
	"fmt"

	"github.com/ha1tch/actionbar/pkg/actionbar"
	"github.com/ha1tch/actionbar/pkg/debug"
	"github.com/ha1tch/actionbar/pkg/visualization"
)

// Sink receives events the chooser produces.
type Sink func(actionbar.Event) []actionbar.Output

// Chooser is the reference chooser.
type Chooser struct {
	registry  *visualization.Registry
	inputType *visualization.InputType
	entries   []visualization.Path
	selected  *visualization.Path
	menuOpen  bool
	hovered   bool
	sink      Sink
}

// New creates a chooser over reg with entries for any input type.
func New(reg *visualization.Registry) *Chooser {
	c := &Chooser{registry: reg}
	c.entries = reg.ValidFor(nil)
	return c
}

// Bind sets where chooser events are sent.
func (c *Chooser) Bind(sink Sink) {
	c.sink = sink
}

func (c *Chooser) send(ev actionbar.Event) {
	if c.sink == nil {
		return
	}
	c.sink(ev)
}

// SetSelected updates the highlighted entry. It does not emit anything.
func (c *Chooser) SetSelected(p *visualization.Path) {
	if p == nil {
		c.selected = nil
		return
	}
	sel := *p
	c.selected = &sel
}

// SetVisInputType rebuilds the entry list for t. Rebuilding resets the
// chooser's own selection, which it reports as an empty chosen entry.
func (c *Chooser) SetVisInputType(t *visualization.InputType) {
	if t != nil {
		v := *t
		t = &v
	}
	c.inputType = t
	c.entries = c.registry.ValidFor(t)
	debug.Log("chooser: %d entries for %s", len(c.entries), visualization.FormatType(t))
	c.send(actionbar.ChosenEntry(nil))
}

// HideSelectionMenu closes the menu if it is open.
func (c *Chooser) HideSelectionMenu() {
	if !c.menuOpen {
		return
	}
	c.closeMenu()
}

func (c *Chooser) closeMenu() {
	c.menuOpen = false
	c.send(actionbar.MenuVisible(false))
	c.send(actionbar.MenuClosed())
}

// Toggle opens or closes the menu, as a click on the chooser icon does.
func (c *Chooser) Toggle() {
	if c.menuOpen {
		c.closeMenu()
		return
	}
	c.menuOpen = true
	c.send(actionbar.MenuVisible(true))
}

// Pick chooses entry i of the open menu and closes it.
func (c *Chooser) Pick(i int) error {
	if !c.menuOpen {
		return fmt.Errorf("menu is closed")
	}
	if i < 0 || i >= len(c.entries) {
		return fmt.Errorf("entry %d out of range (have %d)", i, len(c.entries))
	}
	p := c.entries[i]
	c.selected = &p
	c.send(actionbar.ChosenEntry(&p))
	c.closeMenu()
	return nil
}

// PickPath chooses the entry named p.
func (c *Chooser) PickPath(p visualization.Path) error {
	for i, e := range c.entries {
		if e == p {
			return c.Pick(i)
		}
	}
	return fmt.Errorf("%s is not offered for input type %s", p, visualization.FormatType(c.inputType))
}

// SetHovered reports pointer enter and leave over the chooser and its menu.
func (c *Chooser) SetHovered(hovered bool) {
	if hovered == c.hovered {
		return
	}
	c.hovered = hovered
	if hovered {
		c.send(actionbar.HoverEnter(actionbar.SourceChooser))
	} else {
		c.send(actionbar.HoverLeave(actionbar.SourceChooser))
	}
}

// Entries returns the entries currently offered.
func (c *Chooser) Entries() []visualization.Path {
	return append([]visualization.Path(nil), c.entries...)
}

// Selected returns the highlighted entry, or nil.
func (c *Chooser) Selected() *visualization.Path {
	if c.selected == nil {
		return nil
	}
	p := *c.selected
	return &p
}

func (c *Chooser) MenuOpen() bool { return c.menuOpen }

func (c *Chooser) Hovered() bool { return c.hovered }

func (c *Chooser) InputType() *visualization.InputType { return c.inputType }
