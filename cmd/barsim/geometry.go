package main

import (
	"math"

	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/actionbar/pkg/actionbar"
)

// cellLayout is the bar's layout collaborator. It keeps the last
// arrangement and scene membership so the screen can be drawn from them.
type cellLayout struct {
	size         actionbar.Size
	icons        [2]actionbar.Placement
	iconAttached [2]bool
	chooser      actionbar.ChooserPlacement
	attached     bool
}

func (l *cellLayout) SetSize(s actionbar.Size) { l.size = s }

func (l *cellLayout) PlaceIcon(slot actionbar.IconSlot, p actionbar.Placement) {
	l.icons[slot] = p
}

func (l *cellLayout) PlaceChooser(p actionbar.ChooserPlacement) { l.chooser = p }

func (l *cellLayout) SetAttached(attached bool) { l.attached = attached }

func (l *cellLayout) SetIconAttached(slot actionbar.IconSlot, attached bool) {
	l.iconAttached[slot] = attached
}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

func (r rect) empty() bool {
	return r.w <= 0 || r.h <= 0
}

// nodeHeight is the height of the simulated node the bar belongs to.
const nodeHeight = 5

// geometry is the screen position of every hit region for one frame.
// Regions of detached items are empty.
type geometry struct {
	node    rect
	bar     rect
	icons   [2]rect
	chooser rect
	menu    rect
}

// cell converts a bar-relative coordinate to a screen column.
func cell(centre int, v float64) int {
	return centre + int(math.Round(v))
}

// layoutCells places the node at the centre of the screen, shifted by the
// drag offset, with the bar on the rows directly above it. menuWidth is
// zero when the chooser menu is closed.
func layoutCells(screenW, screenH int, l *cellLayout, offX, offY int, chooserWidth, menuWidth, menuRows int) geometry {
	var g geometry

	barW := int(math.Round(l.size.Width))
	barH := int(math.Round(l.size.Height))
	if barH < 1 {
		barH = 1
	}
	g.node = rect{
		x: (screenW-barW)/2 + offX,
		y: (screenH-nodeHeight)/2 + offY,
		w: barW,
		h: nodeHeight,
	}
	if !l.attached {
		return g
	}

	g.bar = rect{x: g.node.x, y: g.node.y - barH, w: barW, h: barH}
	centre := g.bar.x + barW/2

	for slot, p := range l.icons {
		if !l.iconAttached[slot] {
			continue
		}
		g.icons[slot] = rect{
			x: cell(centre, p.X),
			y: g.bar.y,
			w: int(math.Round(p.Size)),
			h: barH,
		}
	}

	right := cell(centre, l.chooser.X+l.chooser.IconSize/2)
	g.chooser = rect{x: right - chooserWidth, y: g.bar.y, w: chooserWidth, h: barH}

	if menuWidth > 0 {
		g.menu = rect{
			x: right - menuWidth,
			y: g.bar.y + barH + int(math.Round(l.chooser.MenuOffsetY)),
			w: menuWidth,
			h: menuRows + 2,
		}
	}
	return g
}

// menuEntryAt returns the entry index under (x, y), or -1.
func (g geometry) menuEntryAt(x, y, entries int) int {
	if g.menu.empty() || !g.menu.contains(x, y) {
		return -1
	}
	i := y - g.menu.y - 1
	if i < 0 || i >= entries || x == g.menu.x || x == g.menu.x+g.menu.w-1 {
		return -1
	}
	return i
}

// menuWidth fits the widest label plus borders and padding.
func menuWidth(labels []string) int {
	w := 12
	for _, l := range labels {
		if lw := runewidth.StringWidth(l) + 4; lw > w {
			w = lw
		}
	}
	return w
}
