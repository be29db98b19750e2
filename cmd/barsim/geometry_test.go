package main

import (
	"testing"

	"github.com/ha1tch/actionbar/pkg/actionbar"
)

func arrangedLayout(t *testing.T, show bool) *cellLayout {
	t.Helper()
	l := &cellLayout{}
	bar := actionbar.New(
		actionbar.WithLayout(l),
		actionbar.WithMetrics(actionbar.Metrics{IconSize: 3, CornerRadius: 1, MenuGap: 1}),
	)
	bar.SetSize(40, 1)
	if show {
		bar.ShowIcons()
	}
	return l
}

func TestLayoutCellsHidden(t *testing.T) {
	g := layoutCells(100, 30, arrangedLayout(t, false), 0, 0, 13, 0, 0)
	if g.node != (rect{30, 12, 40, nodeHeight}) {
		t.Errorf("node = %+v", g.node)
	}
	if !g.bar.empty() || !g.chooser.empty() || !g.icons[actionbar.IconDrag].empty() {
		t.Error("a detached bar should have no hit regions")
	}
}

func TestLayoutCellsVisible(t *testing.T) {
	g := layoutCells(100, 30, arrangedLayout(t, true), 2, -1, 13, 16, 3)

	tests := []struct {
		name string
		got  rect
		want rect
	}{
		{"node", g.node, rect{32, 11, 40, nodeHeight}},
		{"bar", g.bar, rect{32, 10, 40, 1}},
		{"drag", g.icons[actionbar.IconDrag], rect{33, 10, 3, 1}},
		{"chooser", g.chooser, rect{59, 10, 13, 1}},
		{"menu", g.menu, rect{56, 12, 16, 5}},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %+v, want %+v", tt.name, tt.got, tt.want)
		}
	}
	if !g.icons[actionbar.IconReset].empty() {
		t.Error("reset icon should be detached while not dragging")
	}
}

func TestMenuEntryAt(t *testing.T) {
	g := geometry{menu: rect{10, 5, 16, 4}}
	tests := []struct {
		x, y int
		want int
	}{
		{12, 6, 0},
		{12, 7, 1},
		{12, 5, -1}, // top border
		{12, 8, -1}, // bottom border
		{10, 6, -1}, // left border
		{25, 6, -1}, // right border
		{30, 6, -1}, // outside
	}
	for _, tt := range tests {
		if got := g.menuEntryAt(tt.x, tt.y, 2); got != tt.want {
			t.Errorf("menuEntryAt(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
	if got := (geometry{}).menuEntryAt(0, 0, 1); got != -1 {
		t.Errorf("closed menu hit = %d", got)
	}
}

func TestMenuWidth(t *testing.T) {
	if w := menuWidth([]string{"JSON"}); w != 12 {
		t.Errorf("short labels: %d, want minimum 12", w)
	}
	if w := menuWidth([]string{"builtin/Scatter Plot"}); w != 24 {
		t.Errorf("long label: %d, want 24", w)
	}
	if w := menuWidth([]string{"地図"}); w != 12 {
		t.Errorf("wide runes: %d", w)
	}
}
