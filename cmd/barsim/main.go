// Command barsim is a terminal simulator for the action bar. Moving the
// mouse over the node shows the bar; the icons, chooser and menu respond to
// clicks the way they do in the node editor.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/actionbar/pkg/actionbar"
	"github.com/ha1tch/actionbar/pkg/chooser"
	"github.com/ha1tch/actionbar/pkg/config"
	"github.com/ha1tch/actionbar/pkg/debug"
	"github.com/ha1tch/actionbar/pkg/trace"
	"github.com/ha1tch/actionbar/pkg/visualization"
)

// Sim holds all simulator state.
type Sim struct {
	screen  tcell.Screen
	cfg     config.Config
	bar     *actionbar.Bar
	chooser *chooser.Chooser
	layout  *cellLayout
	types   []*visualization.InputType // cycle order for the input type key

	typeIdx int

	// Pointer state
	overNode    bool
	overBar     bool
	overChooser bool
	buttons     tcell.ButtonMask
	lastX       int
	lastY       int

	// Node offset from its home position
	offX, offY int

	rec     *trace.Recorder
	pending []actionbar.Output
	log     []string

	message           string
	messageType       MessageType
	messageFlashStart int64
}

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
)

const maxLogLines = 12

func main() {
	cfg, cfgErr := config.Load()
	if len(os.Args) > 1 {
		cfg.Registry = os.Args[1]
	}

	logFile := setupDebug(cfg)
	if logFile != nil {
		defer logFile.Close()
	}

	reg, err := visualization.LoadRegistry(cfg.Registry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", cfg.Registry, err)
		os.Exit(1)
	}

	sim := newSim(cfg, reg)
	if cfgErr != nil {
		sim.showMessage(fmt.Sprintf("Config: %v", cfgErr), MsgError)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.Clear()
	sim.screen = screen

	sim.run()

	screen.Fini()

	if err := config.Save(sim.cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
	}
}

// setupDebug sends debug output to a log file next to the config, since
// stderr is covered by the screen.
func setupDebug(cfg config.Config) *os.File {
	if !cfg.Debug && !debug.Enabled() {
		return nil
	}
	debug.SetEnabled(true)
	dir, err := config.Dir()
	if err == nil {
		err = os.MkdirAll(dir, 0755)
	}
	var f *os.File
	if err == nil {
		f, err = os.Create(filepath.Join(dir, "barsim.log"))
	}
	if err != nil {
		debug.SetOutput(io.Discard)
		return nil
	}
	debug.SetOutput(f)
	return f
}

func newSim(cfg config.Config, reg *visualization.Registry) *Sim {
	s := &Sim{
		cfg:     cfg,
		chooser: chooser.New(reg),
		layout:  &cellLayout{},
		rec:     trace.NewRecorder("barsim"),
		types:   inputTypes(reg),
	}
	s.bar = actionbar.New(
		actionbar.WithChooser(s.chooser),
		actionbar.WithLayout(s.layout),
		actionbar.WithMetrics(actionbar.Metrics{
			IconSize:     float64(cfg.Bar.IconSize),
			CornerRadius: float64(cfg.Bar.CornerRadius),
		}),
		actionbar.WithListener(actionbar.ListenerFunc(s.onOutput)),
	)
	s.chooser.Bind(s.bar.Dispatch)

	s.apply("set_size", func() {
		s.bar.SetSize(float64(cfg.Bar.Width), float64(cfg.Bar.Height))
	})
	if cfg.Type != "" {
		t := visualization.InputType(cfg.Type)
		for i, ty := range s.types {
			if visualization.TypeEqual(ty, &t) {
				s.typeIdx = i
			}
		}
		s.apply("set_vis_input_type", func() { s.bar.SetVisInputType(&t) })
	}
	return s
}

// inputTypes lists none followed by every distinct type in the registry.
func inputTypes(reg *visualization.Registry) []*visualization.InputType {
	types := []*visualization.InputType{nil}
	seen := make(map[visualization.InputType]bool)
	for _, def := range reg.Definitions() {
		if def.InputType == visualization.TypeAny || seen[def.InputType] {
			continue
		}
		seen[def.InputType] = true
		types = append(types, def.InputType.Ptr())
	}
	return types
}

func (s *Sim) onOutput(o actionbar.Output) {
	s.pending = append(s.pending, o)
	s.log = append(s.log, o.String())
	if len(s.log) > maxLogLines {
		s.log = s.log[len(s.log)-maxLogLines:]
	}
	if o.Kind == actionbar.OutputResetRequested {
		s.offX, s.offY = 0, 0
		s.showMessage("Position reset", MsgSuccess)
	}
}

// apply runs fn and records the outputs it produced as one trace step.
func (s *Sim) apply(label string, fn func()) {
	fn()
	s.rec.Record(label, s.bar.Snapshot(), s.pending)
	s.pending = nil
}

func (s *Sim) run() {
	// Refresh while a message is flashing
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if s.message != "" && s.messageFlashStart > 0 {
				elapsed := time.Now().UnixMilli() - s.messageFlashStart
				if elapsed >= 0 && elapsed < 700 {
					s.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	for {
		s.draw()
		s.screen.Show()

		ev := s.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			s.screen.Sync()
		case *tcell.EventKey:
			if s.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			s.handleMouse(ev)
		case *tcell.EventInterrupt:
			// Flash refresh
		}
	}
}

func (s *Sim) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyCtrlS:
		s.writeTrace()
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 't':
		s.typeIdx = (s.typeIdx + 1) % len(s.types)
		t := s.types[s.typeIdx]
		s.cfg.Type = ""
		if t != nil {
			s.cfg.Type = string(*t)
		}
		s.apply("set_vis_input_type", func() { s.bar.SetVisInputType(t) })
		s.showMessage("Input type: "+visualization.FormatType(t), MsgInfo)
	case 'r':
		// Stands in for a click on the reset icon.
		s.apply("reset_icon_pressed", func() { s.bar.ResetIconPressed() })
	case 'x':
		s.apply("set_selected_visualization", func() { s.bar.SetSelectedVisualization(nil) })
		s.showMessage("Selection cleared", MsgInfo)
	case '+':
		s.resize(2)
	case '-':
		s.resize(-2)
	}
	return false
}

func (s *Sim) resize(delta int) {
	w := s.cfg.Bar.Width + delta
	if w < 12 || w > 200 {
		return
	}
	s.cfg.Bar.Width = w
	s.apply("set_size", func() {
		s.bar.SetSize(float64(s.cfg.Bar.Width), float64(s.cfg.Bar.Height))
	})
	s.showMessage(fmt.Sprintf("Bar width %d", w), MsgInfo)
}

func (s *Sim) writeTrace() {
	dir := s.cfg.LastDir
	if dir == "" {
		dir, _ = os.Getwd()
	}
	name := filepath.Join(dir, fmt.Sprintf("barsim-%s.png", time.Now().Format("20060102-150405")))
	f, err := os.Create(name)
	if err != nil {
		s.showMessage(err.Error(), MsgError)
		return
	}
	err = trace.RenderPNG(s.rec.Trace(), f, trace.DefaultPNGOptions())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.showMessage(err.Error(), MsgError)
		return
	}
	s.cfg.LastDir = dir
	s.showMessage("Written: "+filepath.Base(name), MsgSuccess)
}

func (s *Sim) geometry() geometry {
	w, h := s.screen.Size()
	mw, rows := 0, 0
	if s.chooser.MenuOpen() {
		mw = menuWidth(s.menuLabels())
		rows = len(s.chooser.Entries())
	}
	return layoutCells(w, h, s.layout, s.offX, s.offY, s.chooserWidth(), mw, rows)
}

func (s *Sim) chooserWidth() int {
	w := s.cfg.Bar.Width / 3
	if w < 5 {
		w = 5
	}
	return w
}

func (s *Sim) menuLabels() []string {
	entries := s.chooser.Entries()
	labels := make([]string, len(entries))
	for i, p := range entries {
		labels[i] = p.String()
	}
	return labels
}

func (s *Sim) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons() & tcell.Button1
	pressed := buttons &^ s.buttons
	released := s.buttons &^ buttons
	s.buttons = buttons

	if s.bar.Dragging() {
		s.offX += x - s.lastX
		s.offY += y - s.lastY
	}
	s.lastX, s.lastY = x, y

	g := s.geometry()
	s.updateHover(g, x, y)

	if pressed&tcell.Button1 != 0 {
		s.press(g, x, y)
	}
	if released&tcell.Button1 != 0 && s.bar.Dragging() {
		s.apply("pointer_released", func() { s.bar.PointerReleased() })
	}
}

// updateHover turns pointer movement into node, bar and chooser hover
// edges. Edges seen in the same motion are delivered as one frame.
func (s *Sim) updateHover(g geometry, x, y int) {
	overBar := !g.bar.empty() && g.bar.contains(x, y)
	overMenu := !g.menu.empty() && g.menu.contains(x, y)
	overChooser := overMenu || (!g.chooser.empty() && g.chooser.contains(x, y))
	// The bar and its menu are children of the node.
	overNode := g.node.contains(x, y) || overBar || overMenu

	if overChooser != s.overChooser {
		s.overChooser = overChooser
		s.apply("chooser hover", func() { s.chooser.SetHovered(overChooser) })
	}

	var frame []actionbar.Event
	if overNode != s.overNode {
		s.overNode = overNode
		if overNode {
			frame = append(frame, actionbar.ShowIcons())
		} else {
			frame = append(frame, actionbar.HideIcons())
		}
	}
	if overBar != s.overBar {
		s.overBar = overBar
		if overBar {
			frame = append(frame, actionbar.HoverEnter(actionbar.SourceBar))
		} else {
			frame = append(frame, actionbar.HoverLeave(actionbar.SourceBar))
		}
	}
	if len(frame) > 0 {
		s.apply(frameLabel(frame), func() { s.bar.Frame(frame...) })
	}
}

func frameLabel(events []actionbar.Event) string {
	if len(events) == 1 {
		return events[0].String()
	}
	label := "frame"
	for _, ev := range events {
		label += " " + ev.String()
	}
	return label
}

func (s *Sim) press(g geometry, x, y int) {
	if s.chooser.MenuOpen() {
		entries := s.chooser.Entries()
		if i := g.menuEntryAt(x, y, len(entries)); i >= 0 {
			s.apply("pick", func() {
				if err := s.chooser.Pick(i); err != nil {
					s.showMessage(err.Error(), MsgError)
				}
			})
			s.showMessage("Selected "+entries[i].String(), MsgSuccess)
			return
		}
	}

	switch {
	case !g.icons[actionbar.IconDrag].empty() && g.icons[actionbar.IconDrag].contains(x, y):
		s.apply("drag_icon_pressed", func() { s.bar.DragIconPressed() })
	case !g.chooser.empty() && g.chooser.contains(x, y):
		s.apply("chooser toggle", func() { s.chooser.Toggle() })
	case s.chooser.MenuOpen() && !g.menu.contains(x, y):
		s.apply("chooser toggle", func() { s.chooser.Toggle() })
	}
}

func (s *Sim) showMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
	s.messageFlashStart = time.Now().UnixMilli()
	if s.screen != nil {
		s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// flashInverted reports whether a flashing message is drawn inverted after
// elapsed milliseconds: two inverted 125ms phases within the first 500ms.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

func flashes(msgType MessageType) bool {
	return msgType == MsgError || msgType == MsgSuccess
}
