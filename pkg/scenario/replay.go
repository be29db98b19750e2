package scenario

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ha1tch/actionbar/pkg/actionbar"
	"github.com/ha1tch/actionbar/pkg/chooser"
	"github.com/ha1tch/actionbar/pkg/debug"
	"github.com/ha1tch/actionbar/pkg/trace"
	"github.com/ha1tch/actionbar/pkg/visualization"
)

// Failure is a failed check or chooser action.
type Failure struct {
	Step    int // 1-based
	Label   string
	Message string
}

func (f Failure) String() string {
	return fmt.Sprintf("step %d (%s): %s", f.Step, f.Label, f.Message)
}

// Result is the outcome of a replay.
type Result struct {
	Scenario *Scenario
	Trace    *trace.Trace
	Failures []Failure
	Checks   int
}

// Passed reports whether every check held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Err returns nil when the replay passed, or an error wrapping
// ErrExpectationFailed.
func (r *Result) Err() error {
	if r.Passed() {
		return nil
	}
	return fmt.Errorf("%s: %d of %d checks failed, first at %s: %w",
		r.Scenario.Name, len(r.Failures), r.Checks, r.Failures[0], ErrExpectationFailed)
}

// Player applies steps to a bar wired to the reference chooser.
type Player struct {
	Bar     *actionbar.Bar
	Chooser *chooser.Chooser

	// window holds the outputs since the last expect step.
	window []actionbar.Output
}

// NewPlayer creates a hidden bar and a chooser over reg.
func NewPlayer(reg *visualization.Registry) *Player {
	p := &Player{Chooser: chooser.New(reg)}
	p.Bar = actionbar.New(
		actionbar.WithChooser(p.Chooser),
		actionbar.WithListener(actionbar.ListenerFunc(func(o actionbar.Output) {
			p.window = append(p.window, o)
		})),
	)
	p.Chooser.Bind(p.Bar.Dispatch)
	return p
}

// Apply runs one step. It returns the outputs the step produced, and for
// expect steps and chooser actions, the problems found.
func (p *Player) Apply(step Step) ([]actionbar.Output, []string) {
	mark := len(p.window)
	var problems []string

	switch step.Kind {
	case StepEvent:
		p.Bar.Dispatch(step.Events[0])
	case StepFrame:
		p.Bar.Frame(step.Events...)
	case StepChooser:
		if err := runChooser(p.Chooser, step.Chooser); err != nil {
			problems = append(problems, err.Error())
		}
	case StepExpect:
		problems = check(step.Expect, p.Bar, p.Chooser, p.window)
		p.window = nil
		return nil, problems
	}
	return append([]actionbar.Output(nil), p.window[mark:]...), problems
}

// Replay runs s against a fresh bar and reference chooser. The returned
// error covers setup problems only; failed checks are reported in the
// Result.
func Replay(s *Scenario) (*Result, error) {
	reg, err := loadRegistry(s)
	if err != nil {
		return nil, err
	}
	p := NewPlayer(reg)

	rec := trace.NewRecorder(s.Name)
	rec.Record("", p.Bar.Snapshot(), nil)
	res := &Result{Scenario: s}
	debug.Section("scenario " + s.Name)

	for i, step := range s.Steps {
		label := step.String()
		outs, problems := p.Apply(step)
		for _, msg := range problems {
			res.Failures = append(res.Failures, Failure{Step: i + 1, Label: label, Message: msg})
		}
		if step.Kind == StepExpect {
			res.Checks++
			continue
		}
		rec.Record(label, p.Bar.Snapshot(), outs)
	}
	res.Trace = rec.Trace()
	return res, nil
}

func loadRegistry(s *Scenario) (*visualization.Registry, error) {
	if s.Registry == "" {
		return visualization.DefaultRegistry(), nil
	}
	name := s.Registry
	if s.Source != "" && !filepath.IsAbs(name) {
		name = filepath.Join(filepath.Dir(s.Source), name)
	}
	return visualization.LoadRegistry(name)
}

func runChooser(c *chooser.Chooser, a ChooserAction) error {
	switch a.Op {
	case "toggle":
		c.Toggle()
	case "hover":
		c.SetHovered(true)
	case "unhover":
		c.SetHovered(false)
	case "pick":
		return c.PickPath(a.Path)
	default:
		return fmt.Errorf("chooser %q: %w", a.Op, ErrUnknownEvent)
	}
	return nil
}

func check(e *Expect, bar *actionbar.Bar, c *chooser.Chooser, window []actionbar.Output) []string {
	var msgs []string
	level := func(name string, want *bool, got bool) {
		if want != nil && *want != got {
			msgs = append(msgs, fmt.Sprintf("%s = %t, want %t", name, got, *want))
		}
	}
	level("visible", e.Visible, bar.Visible())
	level("dragging", e.Dragging, bar.Dragging())
	level("reset_icon", e.ResetIcon, bar.ResetIconVisible())
	level("hovered", e.Hovered, bar.AnyHovered())
	level("menu_visible", e.MenuVisible, bar.MenuVisible())
	level("menu_open", e.MenuOpen, c.MenuOpen())

	if e.Selected != nil {
		if got := visualization.FormatPath(bar.Selected()); !samePath(got, *e.Selected) {
			msgs = append(msgs, fmt.Sprintf("selected = %s, want %s", got, *e.Selected))
		}
	}

	var forwards, selections, outputs []string
	resets := 0
	for _, o := range window {
		outputs = append(outputs, o.String())
		switch o.Kind {
		case actionbar.OutputForwardInputType:
			forwards = append(forwards, visualization.FormatType(o.Type))
		case actionbar.OutputVisualisationSelection:
			selections = append(selections, visualization.FormatPath(o.Path))
		case actionbar.OutputResetRequested:
			resets++
		}
	}
	list := func(name string, want, got []string, same func(a, b string) bool) {
		if want == nil {
			return
		}
		ok := len(want) == len(got)
		for i := 0; ok && i < len(want); i++ {
			ok = same(got[i], want[i])
		}
		if !ok {
			msgs = append(msgs, fmt.Sprintf("%s = [%s], want [%s]", name,
				strings.Join(got, ", "), strings.Join(want, ", ")))
		}
	}
	equal := func(a, b string) bool { return a == b }
	list("forwards", e.Forwards, forwards, equal)
	list("selections", e.Selections, selections, samePath)
	list("outputs", e.Outputs, outputs, equal)
	if e.Resets != nil && *e.Resets != resets {
		msgs = append(msgs, fmt.Sprintf("resets = %d, want %d", resets, *e.Resets))
	}
	return msgs
}

// samePath compares a formatted path with an expected one, which may omit
// the builtin project.
func samePath(got, want string) bool {
	if got == want {
		return true
	}
	if want == "none" || got == "none" {
		return false
	}
	p, err := visualization.ParsePath(want)
	return err == nil && p.String() == got
}
