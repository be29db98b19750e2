package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/actionbar/pkg/visualization"
)

const maxEventWidth = 36

// WriteTable writes t as a fixed-width table, one row per step, with a
// column per signal and the step's outputs on the right.
func WriteTable(w io.Writer, t *Trace) error {
	eventWidth := len("event")
	for _, s := range t.Steps {
		if n := runewidth.StringWidth(s.Event); n > eventWidth {
			eventWidth = n
		}
	}
	if eventWidth > maxEventWidth {
		eventWidth = maxEventWidth
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n", t.Name, t.ID)
	b.WriteString(" #  ")
	b.WriteString(runewidth.FillRight("event", eventWidth))
	for _, sig := range Signals {
		b.WriteString("  ")
		b.WriteString(sig.Name)
	}
	b.WriteString("  selected\n")

	for _, s := range t.Steps {
		fmt.Fprintf(&b, "%3d  ", s.Index)
		event := runewidth.Truncate(s.Event, eventWidth, "…")
		b.WriteString(runewidth.FillRight(event, eventWidth))
		for _, sig := range Signals {
			b.WriteString("  ")
			mark := "."
			if sig.Read(s.Levels) {
				mark = "#"
			}
			b.WriteString(runewidth.FillRight(mark, runewidth.StringWidth(sig.Name)))
		}
		b.WriteString("  ")
		b.WriteString(visualization.FormatPath(s.Levels.Selected))
		if len(s.Outputs) > 0 {
			b.WriteString("  -> ")
			b.WriteString(strings.Join(s.Outputs, ", "))
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}
