// Package scenario replays scripted event sequences against an action bar
// wired to the reference chooser, and checks expectations along the way.
//
// A scenario file is YAML or JSON:
//
//	name: menu keeps the bar open
//	steps:
//	  - show_icons
//	  - hover_enter: bar
//	  - menu_visible: true
//	  - hover_leave: bar
//	  - expect: {visible: true}
//	  - menu_closed
//	  - expect: {visible: false}
//
// Steps are bare event names, single-key maps of event name to payload,
// "frame" lists of events delivered in one frame, chooser actions
// ("chooser: toggle", "pick: builtin/Table") and "expect" checks.
package scenario

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ha1tch/actionbar/pkg/actionbar"
	"github.com/ha1tch/actionbar/pkg/visualization"
)

var (
	// ErrUnknownEvent is returned for a step naming no known event or action.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrExpectationFailed is wrapped by Result.Err when a check fails.
	ErrExpectationFailed = errors.New("expectation failed")
)

// Scenario is a parsed scenario file.
type Scenario struct {
	Name        string
	Description string
	// Registry names a registry file, relative to the scenario file.
	Registry string
	Steps    []Step
	// Source is the file the scenario was read from, if any.
	Source string
}

// StepKind distinguishes scenario steps.
type StepKind int

const (
	StepEvent StepKind = iota
	StepFrame
	StepChooser
	StepExpect
)

// Step is one scenario line.
type Step struct {
	Kind    StepKind
	Events  []actionbar.Event // one for StepEvent, several for StepFrame
	Chooser ChooserAction
	Expect  *Expect
}

func (s Step) String() string {
	switch s.Kind {
	case StepEvent:
		return s.Events[0].String()
	case StepFrame:
		parts := make([]string, len(s.Events))
		for i, ev := range s.Events {
			parts[i] = ev.String()
		}
		return "frame[" + strings.Join(parts, " ") + "]"
	case StepChooser:
		return s.Chooser.String()
	case StepExpect:
		return "expect"
	}
	return "?"
}

// ChooserAction is a user interaction with the reference chooser.
type ChooserAction struct {
	Op   string // toggle, hover, unhover, pick
	Path visualization.Path
}

func (a ChooserAction) String() string {
	if a.Op == "pick" {
		return "chooser.pick(" + a.Path.String() + ")"
	}
	return "chooser." + a.Op
}

// Expect lists checks made against the bar. Nil fields are not checked.
// List checks cover the outputs emitted since the previous expect step.
type Expect struct {
	Visible     *bool
	Dragging    *bool
	ResetIcon   *bool
	Hovered     *bool
	MenuVisible *bool
	MenuOpen    *bool   // reference chooser's own menu
	Selected    *string // "none" for no selection
	Forwards    []string
	Selections  []string
	Resets      *int
	Outputs     []string
}

// parse converts a decoded file into a Scenario.
func parse(raw rawScenario) (*Scenario, error) {
	s := &Scenario{
		Name:        raw.Name,
		Description: raw.Description,
		Registry:    raw.Registry,
	}
	for i, v := range raw.Steps {
		step, err := parseStep(v)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		s.Steps = append(s.Steps, step)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", s.Name)
	}
	return s, nil
}

type rawScenario struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Registry    string `yaml:"registry" json:"registry"`
	Steps       []any  `yaml:"steps" json:"steps"`
}

var aliases = map[string]string{
	"chosen":     "chosen_entry",
	"selected":   "set_selected_visualization",
	"input_type": "set_vis_input_type",
	"show":       "show_icons",
	"hide":       "hide_icons",
	"press":      "drag_icon_pressed",
	"release":    "pointer_released",
	"reset":      "reset_icon_pressed",
}

func parseStep(v any) (Step, error) {
	switch v := v.(type) {
	case string:
		ev, err := parseEvent(v, nil, false)
		if err != nil {
			return Step{}, err
		}
		return Step{Kind: StepEvent, Events: []actionbar.Event{ev}}, nil

	case map[string]any:
		if len(v) != 1 {
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return Step{}, fmt.Errorf("step must have exactly one key, got %v", keys)
		}
		for key, payload := range v {
			return parseKeyed(key, payload)
		}
	}
	return Step{}, fmt.Errorf("unsupported step %v", v)
}

func parseKeyed(key string, payload any) (Step, error) {
	switch key {
	case "expect":
		m, ok := payload.(map[string]any)
		if !ok {
			return Step{}, fmt.Errorf("expect: want a mapping")
		}
		e, err := parseExpect(m)
		if err != nil {
			return Step{}, fmt.Errorf("expect: %w", err)
		}
		return Step{Kind: StepExpect, Expect: e}, nil

	case "frame":
		list, ok := payload.([]any)
		if !ok || len(list) == 0 {
			return Step{}, fmt.Errorf("frame: want a list of events")
		}
		step := Step{Kind: StepFrame}
		for _, item := range list {
			inner, err := parseStep(item)
			if err != nil {
				return Step{}, fmt.Errorf("frame: %w", err)
			}
			if inner.Kind != StepEvent {
				return Step{}, fmt.Errorf("frame: only events allowed, got %s", inner)
			}
			step.Events = append(step.Events, inner.Events...)
		}
		return step, nil

	case "chooser":
		op, ok := payload.(string)
		if !ok {
			return Step{}, fmt.Errorf("chooser: want toggle, hover or unhover")
		}
		switch op {
		case "toggle", "hover", "unhover":
			return Step{Kind: StepChooser, Chooser: ChooserAction{Op: op}}, nil
		}
		return Step{}, fmt.Errorf("chooser %q: %w", op, ErrUnknownEvent)

	case "pick":
		s, ok := payload.(string)
		if !ok {
			return Step{}, fmt.Errorf("pick: want a visualization path")
		}
		p, err := visualization.ParsePath(s)
		if err != nil {
			return Step{}, fmt.Errorf("pick: %w", err)
		}
		return Step{Kind: StepChooser, Chooser: ChooserAction{Op: "pick", Path: p}}, nil
	}

	ev, err := parseEvent(key, payload, true)
	if err != nil {
		return Step{}, err
	}
	return Step{Kind: StepEvent, Events: []actionbar.Event{ev}}, nil
}

func parseEvent(name string, payload any, hasPayload bool) (actionbar.Event, error) {
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	kind, ok := actionbar.ParseEventKind(name)
	if !ok {
		return actionbar.Event{}, fmt.Errorf("%q: %w", name, ErrUnknownEvent)
	}

	switch kind {
	case actionbar.EventHoverEnter, actionbar.EventHoverLeave:
		src := actionbar.SourceBar
		if hasPayload {
			s, ok := payload.(string)
			if !ok || s == "" {
				return actionbar.Event{}, fmt.Errorf("%s: want a source name", name)
			}
			src = actionbar.SourceID(s)
		}
		return actionbar.Event{Kind: kind, Source: src}, nil

	case actionbar.EventMenuVisible:
		b, ok := payload.(bool)
		if !ok {
			return actionbar.Event{}, fmt.Errorf("%s: want true or false", name)
		}
		return actionbar.MenuVisible(b), nil

	case actionbar.EventSetSize:
		w, h, err := parseSize(payload)
		if err != nil {
			return actionbar.Event{}, fmt.Errorf("%s: %w", name, err)
		}
		return actionbar.SetSize(w, h), nil

	case actionbar.EventChosenEntry, actionbar.EventSetSelectedVisualization:
		p, err := optionalPath(payload)
		if err != nil {
			return actionbar.Event{}, fmt.Errorf("%s: %w", name, err)
		}
		return actionbar.Event{Kind: kind, Path: p}, nil

	case actionbar.EventSetVisInputType:
		t, err := optionalType(payload)
		if err != nil {
			return actionbar.Event{}, fmt.Errorf("%s: %w", name, err)
		}
		return actionbar.SetVisInputType(t), nil
	}

	if hasPayload && payload != nil {
		return actionbar.Event{}, fmt.Errorf("%s takes no payload", name)
	}
	return actionbar.Event{Kind: kind}, nil
}

func parseSize(v any) (float64, float64, error) {
	switch v := v.(type) {
	case []any:
		if len(v) == 2 {
			w, okW := number(v[0])
			h, okH := number(v[1])
			if okW && okH {
				return w, h, nil
			}
		}
	case map[string]any:
		w, okW := number(v["width"])
		h, okH := number(v["height"])
		if okW && okH {
			return w, h, nil
		}
	}
	return 0, 0, fmt.Errorf("want [width, height]")
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// optionalPath reads null, "none" or a path. An empty string is the zero
// path, a selection that names nothing.
func optionalPath(v any) (*visualization.Path, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("want a visualization path or null")
	}
	if s == "none" {
		return nil, nil
	}
	if s == "" {
		return &visualization.Path{}, nil
	}
	p, err := visualization.ParsePath(s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func optionalType(v any) (*visualization.InputType, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("want an input type or null")
	}
	if s == "none" {
		return nil, nil
	}
	return visualization.InputType(s).Ptr(), nil
}

func parseExpect(m map[string]any) (*Expect, error) {
	e := &Expect{}
	for key, v := range m {
		var err error
		switch key {
		case "visible":
			e.Visible, err = boolField(key, v)
		case "dragging":
			e.Dragging, err = boolField(key, v)
		case "reset_icon":
			e.ResetIcon, err = boolField(key, v)
		case "hovered":
			e.Hovered, err = boolField(key, v)
		case "menu_visible":
			e.MenuVisible, err = boolField(key, v)
		case "menu_open":
			e.MenuOpen, err = boolField(key, v)
		case "selected":
			var s string
			if v == nil {
				s = "none"
			} else if str, ok := v.(string); ok {
				s = str
			} else {
				err = fmt.Errorf("selected: want a path or none")
			}
			e.Selected = &s
		case "forwards":
			e.Forwards, err = stringList(key, v)
		case "selections":
			e.Selections, err = stringList(key, v)
		case "outputs":
			e.Outputs, err = stringList(key, v)
		case "resets":
			n, ok := number(v)
			if !ok {
				err = fmt.Errorf("resets: want a count")
			}
			c := int(n)
			e.Resets = &c
		default:
			err = fmt.Errorf("unknown check %q", key)
		}
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func boolField(key string, v any) (*bool, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("%s: want true or false", key)
	}
	return &b, nil
}

// stringList reads a list of strings; null entries read as "none".
func stringList(key string, v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: want a list", key)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch s := item.(type) {
		case nil:
			out = append(out, "none")
		case string:
			out = append(out, s)
		default:
			return nil, fmt.Errorf("%s: want strings, got %v", key, item)
		}
	}
	return out, nil
}
