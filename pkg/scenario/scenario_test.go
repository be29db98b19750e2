package scenario

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ha1tch/actionbar/pkg/actionbar"
	"github.com/ha1tch/actionbar/pkg/visualization"
)

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := Parse([]byte(src), FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func TestParseSteps(t *testing.T) {
	s := mustParse(t, `
name: parse
steps:
  - show_icons
  - hover_enter: chooser
  - hover_leave
  - menu_visible: false
  - set_size: [120, 24]
  - set_size: {width: 80, height: 20}
  - chosen: null
  - selected: local/Chart
  - input_type: Text
  - frame: [menu_closed, hover_enter: bar]
  - chooser: toggle
  - pick: Table
  - expect: {visible: true, forwards: [Text, null], resets: 2}
`)
	want := []string{
		"show_icons",
		"hover_enter(chooser)",
		"hover_leave(bar)",
		"menu_visible(false)",
		"set_size(120x24)",
		"set_size(80x20)",
		"chosen_entry(none)",
		"set_selected_visualization(local/Chart)",
		"set_vis_input_type(Text)",
		"frame[menu_closed hover_enter(bar)]",
		"chooser.toggle",
		"chooser.pick(builtin/Table)",
		"expect",
	}
	if len(s.Steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(s.Steps), len(want))
	}
	for i, w := range want {
		if got := s.Steps[i].String(); got != w {
			t.Errorf("step %d = %q, want %q", i+1, got, w)
		}
	}

	e := s.Steps[12].Expect
	if e.Visible == nil || !*e.Visible || e.Dragging != nil {
		t.Errorf("expect levels = %+v", e)
	}
	if strings.Join(e.Forwards, ",") != "Text,none" {
		t.Errorf("forwards = %v", e.Forwards)
	}
	if e.Resets == nil || *e.Resets != 2 {
		t.Errorf("resets = %v", e.Resets)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		unknown bool
	}{
		{"unknown event", "steps: [explode]", true},
		{"internal event", "steps: [became_visible]", true},
		{"unknown chooser op", "steps: [{chooser: spin}]", true},
		{"two keys", "steps: [{show_icons: null, hide_icons: null}]", false},
		{"bad menu payload", "steps: [{menu_visible: maybe}]", false},
		{"bad size", "steps: [{set_size: [1]}]", false},
		{"payload on bare event", "steps: [{show_icons: 3}]", false},
		{"unknown check", "steps: [{expect: {colour: red}}]", false},
		{"frame with expect", "steps: [{frame: [{expect: {visible: true}}]}]", false},
		{"no steps", "name: empty", false},
		{"bad path", "steps: [{pick: /x}]", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), FormatYAML)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrUnknownEvent) != tt.unknown {
				t.Errorf("errors.Is(ErrUnknownEvent) = %v for %v", !tt.unknown, err)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	s, err := Parse([]byte(`{"name": "j", "steps": ["show_icons", {"set_size": [10, 2]}, {"expect": {"visible": true}}]}`), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Steps) != 3 || s.Steps[1].Events[0].Size != (actionbar.Size{Width: 10, Height: 2}) {
		t.Errorf("steps = %v", s.Steps)
	}
}

func TestReplayBundledScenarios(t *testing.T) {
	paths, err := Expand([]string{filepath.Join("..", "..", "scenarios")})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no bundled scenarios")
	}
	results, err := ValidateAll(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("%s: %v", r.Path, r.Err)
			if r.Result != nil {
				for _, f := range r.Result.Failures {
					t.Log(f)
				}
			}
		}
	}
}

func TestReplayReportsFailures(t *testing.T) {
	s := mustParse(t, `
name: wrong
steps:
  - show_icons
  - expect: {visible: false, outputs: [is_visible(true)]}
  - pick: Table
`)
	res, err := Replay(s)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passed() {
		t.Fatal("replay should fail")
	}
	if len(res.Failures) != 2 {
		t.Fatalf("failures = %v", res.Failures)
	}
	if res.Failures[0].Step != 2 || !strings.Contains(res.Failures[0].Message, "visible = true, want false") {
		t.Errorf("first failure = %s", res.Failures[0])
	}
	if res.Failures[1].Step != 3 {
		t.Errorf("second failure = %s", res.Failures[1])
	}
	if !errors.Is(res.Err(), ErrExpectationFailed) {
		t.Errorf("Err() = %v", res.Err())
	}
}

func TestReplayTrace(t *testing.T) {
	s := mustParse(t, `
name: traced
steps:
  - hover_enter: bar
  - press
  - expect: {dragging: true}
  - release
`)
	res, err := Replay(s)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Passed() {
		t.Fatalf("failures: %v", res.Failures)
	}
	steps := res.Trace.Steps
	if len(steps) != 4 {
		t.Fatalf("trace steps = %d, want initial plus 3 events", len(steps))
	}
	if steps[2].Event != "drag_icon_pressed" || !steps[2].Levels.Dragging {
		t.Errorf("step 2 = %+v", steps[2])
	}
	if len(steps[3].Outputs) != 2 {
		t.Errorf("release outputs = %v", steps[3].Outputs)
	}
}

func TestReplayCustomRegistry(t *testing.T) {
	dir := t.TempDir()
	reg := "visualizations:\n  - path: local/Gauge\n    input_type: Number\n"
	if err := os.WriteFile(filepath.Join(dir, "reg.yaml"), []byte(reg), 0644); err != nil {
		t.Fatal(err)
	}
	src := `
registry: reg.yaml
steps:
  - hover_enter: chooser
  - input_type: Number
  - chooser: toggle
  - pick: local/Gauge
  - expect: {selections: [local/Gauge]}
`
	file := filepath.Join(dir, "gauge.yaml")
	if err := os.WriteFile(file, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	r := RunFile(file)
	if r.Err != nil {
		t.Fatal(r.Err)
	}
	if r.Result.Scenario.Name != "gauge" {
		t.Errorf("default name = %q", r.Result.Scenario.Name)
	}
}

func TestValidateAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.yaml": "steps: [show_icons, {expect: {visible: true}}]",
		"b.yaml": "steps: [show_icons, {expect: {visible: false}}]",
		"c.json": "{not json",
	}
	var paths []string
	for _, name := range []string{"a.yaml", "b.yaml", "c.json"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(files[name]), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	results, err := ValidateAll(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Err != nil {
		t.Errorf("a: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, ErrExpectationFailed) {
		t.Errorf("b: %v", results[1].Err)
	}
	if results[2].Err == nil || results[2].Result != nil {
		t.Errorf("c: %+v", results[2])
	}
}

func TestValidateAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ValidateAll(ctx, []string{"x.yaml"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.json", "notes.txt", "c.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("steps: [show_icons]"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := Expand([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range got {
		names = append(names, filepath.Base(p))
	}
	if strings.Join(names, ",") != "a.json,b.yaml,c.yml" {
		t.Errorf("Expand = %v", names)
	}
}

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "w.yaml")
	if err := os.WriteFile(file, []byte("steps: [show_icons]"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	changed := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{file}, 20*time.Millisecond, func(p string) { changed <- p })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(file, []byte("steps: [hide_icons]"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changed:
		if filepath.Base(p) != "w.yaml" {
			t.Errorf("changed %s", p)
		}
	case <-ctx.Done():
		t.Fatal("no change reported")
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch: %v", err)
	}
}

func TestParseStep(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"show_icons", "show_icons"},
		{"hover_enter: chooser", "hover_enter(chooser)"},
		{"input_type: Text", "set_vis_input_type(Text)"},
		{"frame: [menu_closed, hover_enter: bar]", "frame[menu_closed hover_enter(bar)]"},
		{"expect: {visible: true}", "expect"},
	}
	for _, tt := range tests {
		step, err := ParseStep(tt.line)
		if err != nil {
			t.Errorf("ParseStep(%q): %v", tt.line, err)
			continue
		}
		if step.String() != tt.want {
			t.Errorf("ParseStep(%q) = %q, want %q", tt.line, step, tt.want)
		}
	}

	for _, bad := range []string{"", "explode", "{a: 1, b: 2}", "[unclosed"} {
		if _, err := ParseStep(bad); err == nil {
			t.Errorf("ParseStep(%q) should fail", bad)
		}
	}
}

func TestPlayerApply(t *testing.T) {
	p := NewPlayer(visualization.DefaultRegistry())

	step := func(line string) ([]actionbar.Output, []string) {
		t.Helper()
		s, err := ParseStep(line)
		if err != nil {
			t.Fatal(err)
		}
		return p.Apply(s)
	}

	outs, problems := step("show_icons")
	if len(problems) != 0 || len(outs) != 1 || outs[0].Kind != actionbar.OutputVisibilityChanged {
		t.Errorf("show: outs=%v problems=%v", outs, problems)
	}
	if _, problems := step("pick: Table"); len(problems) != 1 {
		t.Errorf("pick with closed menu: problems=%v", problems)
	}
	if _, problems := step("expect: {visible: true, outputs: [is_visible(true)]}"); len(problems) != 0 {
		t.Errorf("expect: %v", problems)
	}
	// The window restarts after each expect.
	if _, problems := step("expect: {outputs: []}"); len(problems) != 0 {
		t.Errorf("empty window: %v", problems)
	}
	if _, problems := step("expect: {visible: false}"); len(problems) != 1 {
		t.Errorf("failed check: %v", problems)
	}
}
