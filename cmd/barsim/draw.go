package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/actionbar/pkg/actionbar"
	"github.com/ha1tch/actionbar/pkg/visualization"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleNode       = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleNodeHover  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBar        = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleIcon       = tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack)
	styleIconActive = tcell.StyleDefault.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite)
	styleChooser    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleMenu       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLevelOn    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleLevelOff   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (s *Sim) draw() {
	s.screen.Clear()
	w, h := s.screen.Size()
	g := s.geometry()

	s.drawLevels()
	s.drawLog(w)
	s.drawNode(g)
	if !g.bar.empty() {
		s.drawBar(g)
	}
	if !g.menu.empty() {
		s.drawMenu(g)
	}
	s.drawStatusBar(w, h)
}

func (s *Sim) drawNode(g geometry) {
	style := styleNode
	if s.overNode {
		style = styleNodeHover
	}
	s.drawBox(g.node.x, g.node.y, g.node.w, g.node.h, style)
	label := "node"
	if sel := s.bar.Selected(); sel != nil {
		label = sel.Name
	}
	label = runewidth.Truncate(label, g.node.w-4, "…")
	s.drawString(g.node.x+(g.node.w-runewidth.StringWidth(label))/2, g.node.y+g.node.h/2, label, style)
}

func (s *Sim) drawBar(g geometry) {
	for row := 0; row < g.bar.h; row++ {
		for col := 0; col < g.bar.w; col++ {
			s.screen.SetContent(g.bar.x+col, g.bar.y+row, ' ', nil, styleBar)
		}
	}

	glyphs := [2]rune{'✥', '↺'}
	for slot, r := range g.icons {
		if r.empty() {
			continue
		}
		style := styleIcon
		if actionbar.IconSlot(slot) == actionbar.IconDrag && s.bar.Dragging() {
			style = styleIconActive
		}
		for col := 0; col < r.w; col++ {
			s.screen.SetContent(r.x+col, r.y, ' ', nil, style)
		}
		s.screen.SetContent(r.x+r.w/2, r.y, glyphs[slot], nil, style)
	}

	label := "Vis"
	if sel := s.chooser.Selected(); sel != nil {
		label = sel.Name
	}
	label = runewidth.Truncate(label, g.chooser.w-3, "…")
	label = runewidth.FillRight(" "+label, g.chooser.w-2) + "▾ "
	s.drawString(g.chooser.x, g.chooser.y, label, styleChooser)
}

func (s *Sim) drawMenu(g geometry) {
	s.drawBox(g.menu.x, g.menu.y, g.menu.w, g.menu.h, styleDefault)
	selected := s.chooser.Selected()
	for i, label := range s.menuLabels() {
		style := styleMenu
		if selected != nil && label == selected.String() {
			style = styleMenuSel
		}
		text := runewidth.FillRight(" "+label, g.menu.w-2)
		s.drawString(g.menu.x+1, g.menu.y+1+i, text, style)
	}
}

// drawLevels shows the bar's levels in the top right corner.
func (s *Sim) drawLevels() {
	w, _ := s.screen.Size()
	snap := s.bar.Snapshot()
	levels := []struct {
		name string
		on   bool
	}{
		{"visible", snap.Visible},
		{"hovered", snap.AnyHovered},
		{"menu", snap.MenuVisible},
		{"dragging", snap.Dragging},
		{"reset_icon", snap.ResetIconVisible},
		{"menu_open", s.chooser.MenuOpen()},
	}
	x := w - 16
	s.drawString(x, 0, "Levels", styleSidebarH)
	for i, l := range levels {
		style, mark := styleLevelOff, "○"
		if l.on {
			style, mark = styleLevelOn, "●"
		}
		s.drawString(x, 1+i, mark+" "+l.name, style)
	}

	y := 2 + len(levels)
	pending := "none"
	if t, ok := s.bar.PendingInputType(); ok {
		pending = visualization.FormatType(t)
	}
	s.drawString(x, y, "type", styleSidebarH)
	s.drawString(x, y+1, runewidth.Truncate(pending, 15, "…"), styleSidebar)
	s.drawString(x, y+2, "selected", styleSidebarH)
	s.drawString(x, y+3, runewidth.Truncate(visualization.FormatPath(s.bar.Selected()), 15, "…"), styleSidebar)
}

// drawLog lists the most recent outputs in the top left corner.
func (s *Sim) drawLog(w int) {
	s.drawString(1, 0, "Outputs", styleSidebarH)
	width := w/2 - 2
	for i, line := range s.log {
		s.drawString(1, 1+i, runewidth.Truncate(line, width, "…"), styleSidebar)
	}
}

func (s *Sim) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		s.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	info := fmt.Sprintf("%d×%d  %d steps", s.cfg.Bar.Width, s.cfg.Bar.Height, s.rec.Len())
	s.drawString(1, y, info, styleStatus)

	if s.bar.Dragging() {
		mode := "DRAG"
		s.drawString(w/2-len(mode)/2, y, mode, styleStatus)
	}

	if s.message != "" {
		style := styleMsgInfo
		switch s.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		if flashes(s.messageType) && flashInverted(time.Now().UnixMilli()-s.messageFlashStart) {
			style = style.Reverse(true)
		}
		s.drawString(w-runewidth.StringWidth(s.message)-2, y, s.message, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		s.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	s.drawString(1, y, helpString(), styleHelp)
}

func helpString() string {
	return strings.Join([]string{
		"Mouse:Hover/Click",
		"R:Reset position",
		"T:Input type",
		"X:Clear selection",
		"+/-:Width",
		"Ctrl+S:Trace PNG",
		"Q:Quit",
	}, "  ")
}

func (s *Sim) drawBox(x, y, w, h int, style tcell.Style) {
	// Corners
	s.screen.SetContent(x, y, '┌', nil, styleBorder)
	s.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	s.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	s.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	// Horizontal borders
	for i := x + 1; i < x+w-1; i++ {
		s.screen.SetContent(i, y, '─', nil, styleBorder)
		s.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}

	// Vertical borders
	for i := y + 1; i < y+h-1; i++ {
		s.screen.SetContent(x, i, '│', nil, styleBorder)
		s.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	// Fill
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			s.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

// drawString advances by display width so wide runes keep their cells.
func (s *Sim) drawString(x, y int, str string, style tcell.Style) {
	for _, r := range str {
		s.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
