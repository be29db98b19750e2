package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ha1tch/actionbar/pkg/scenario"
)

const (
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorLavender lipgloss.Color = "#b4befe"
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	nameStyle   = lipgloss.NewStyle().Foreground(colorText)
	detailStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	dimStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)
	headerStyle = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
)

// summary counts the results of a run.
type summary struct {
	passed, failed, errored int
}

func (s summary) ok() bool {
	return s.failed == 0 && s.errored == 0
}

func (s summary) String() string {
	parts := []string{passStyle.Render(fmt.Sprintf("%d passed", s.passed))}
	if s.failed > 0 {
		parts = append(parts, failStyle.Render(fmt.Sprintf("%d failed", s.failed)))
	}
	if s.errored > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d errors", s.errored)))
	}
	return strings.Join(parts, dimStyle.Render(", "))
}

// report prints one line per file, with failures indented beneath it.
func report(w io.Writer, results []scenario.FileResult, verbose bool) summary {
	var sum summary
	for _, r := range results {
		switch {
		case r.Result == nil:
			sum.errored++
			fmt.Fprintf(w, "%s %s\n", errorStyle.Render("ERROR"), nameStyle.Render(r.Path))
			fmt.Fprintf(w, "      %s\n", detailStyle.Render(r.Err.Error()))

		case r.Result.Passed():
			sum.passed++
			fmt.Fprintf(w, "%s  %s %s\n", passStyle.Render("PASS"), nameStyle.Render(r.Result.Scenario.Name),
				dimStyle.Render(fmt.Sprintf("(%d checks)", r.Result.Checks)))
			if verbose {
				fmt.Fprintf(w, "      %s\n", dimStyle.Render(r.Path))
			}

		default:
			sum.failed++
			fmt.Fprintf(w, "%s  %s %s\n", failStyle.Render("FAIL"), nameStyle.Render(r.Result.Scenario.Name),
				dimStyle.Render(r.Path))
			for _, f := range r.Result.Failures {
				fmt.Fprintf(w, "      %s\n", detailStyle.Render(f.String()))
			}
		}
	}
	return sum
}
