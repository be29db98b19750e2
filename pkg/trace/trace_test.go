package trace

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/ha1tch/actionbar/pkg/actionbar"
)

func recorded() *Trace {
	b := actionbar.New()
	r := NewRecorder("drag")
	r.Record("", b.Snapshot(), nil)
	for _, ev := range []actionbar.Event{
		actionbar.HoverEnter(actionbar.SourceBar),
		actionbar.DragIconPressed(),
		actionbar.PointerReleased(),
		actionbar.HoverLeave(actionbar.SourceBar),
	} {
		outs := b.Dispatch(ev)
		r.Record(ev.String(), b.Snapshot(), outs)
	}
	return r.Trace()
}

func TestRecorder(t *testing.T) {
	tr := recorded()
	if len(tr.Steps) != 5 {
		t.Fatalf("steps = %d, want 5", len(tr.Steps))
	}
	if !tr.Steps[2].Levels.Dragging || !tr.Steps[2].Levels.ResetIconVisible {
		t.Errorf("step 2 levels = %+v", tr.Steps[2].Levels)
	}
	if got := tr.Steps[2].Outputs; len(got) != 2 || got[0] != "container_drag_state(true)" {
		t.Errorf("step 2 outputs = %v", got)
	}
	if tr.Steps[4].Levels.Visible {
		t.Error("bar should be hidden after leave")
	}
}

func TestJSONRoundTripKeepsID(t *testing.T) {
	tr := recorded()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, tr); err != nil {
		t.Fatal(err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.ID != tr.ID || len(back.Steps) != len(tr.Steps) {
		t.Errorf("round trip = %s/%d, want %s/%d", back.ID, len(back.Steps), tr.ID, len(tr.Steps))
	}
	if !back.Steps[1].Levels.Visible {
		t.Error("levels lost in round trip")
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, recorded()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("table has %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "visible") || !strings.Contains(lines[1], "reset_icon") {
		t.Errorf("header = %q", lines[1])
	}
	if !strings.Contains(lines[4], "drag_icon_pressed") || !strings.Contains(lines[4], "-> container_drag_state(true)") {
		t.Errorf("drag row = %q", lines[4])
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultPNGOptions()
	if err := RenderPNG(recorded(), &buf, opts); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	wantW := opts.Padding*2 + opts.LabelWidth + 5*opts.StepWidth
	if img.Bounds().Dx() != wantW {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), wantW)
	}
}

func TestRenderPNGEmpty(t *testing.T) {
	if err := RenderPNG(&Trace{Name: "empty"}, &bytes.Buffer{}, DefaultPNGOptions()); err == nil {
		t.Error("expected error for empty trace")
	}
}
