// Command actionbar replays action bar scenarios and inspects the bar's
// machine tables.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ha1tch/actionbar/pkg/actionbar"
	"github.com/ha1tch/actionbar/pkg/debug"
	"github.com/ha1tch/actionbar/pkg/diagram"
	"github.com/ha1tch/actionbar/pkg/fsm"
	"github.com/ha1tch/actionbar/pkg/scenario"
	"github.com/ha1tch/actionbar/pkg/trace"
	"github.com/ha1tch/actionbar/pkg/visualization"
)

const usage = `actionbar - action bar state machines

Usage:
  actionbar <command> [options]

Commands:
  run        Replay scenario files and report the results
  trace      Record a scenario and write the trace
  validate   Check the machine tables and parse scenario files
  dot        Generate Graphviz DOT output for the machines
  info       Show machine table information (--json for the tables)
  machine    Step one machine table interactively
  bar        Drive a live bar interactively

Examples:
  actionbar run scenarios/
  actionbar run scenarios/drag_and_reset.yaml --watch
  actionbar trace scenarios/menu_keeps_bar_open.yaml -o menu.png
  actionbar dot | dot -Tpng -o machines.png
  actionbar machine relay

Add --debug to any command to log bar activity to stderr.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	var args []string
	for _, a := range os.Args[2:] {
		if a == "--debug" {
			debug.SetEnabled(true)
			continue
		}
		args = append(args, a)
	}

	switch cmd {
	case "run":
		cmdRun(args)
	case "trace":
		cmdTrace(args)
	case "validate":
		cmdValidate(args)
	case "dot":
		cmdDot(args)
	case "info":
		cmdInfo(args)
	case "machine":
		cmdMachine(args)
	case "bar":
		cmdBar(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func cmdRun(args []string) {
	var inputs []string
	var traceOut string
	watch := false
	verbose := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--watch", "-w":
			watch = true
		case "-v", "--verbose":
			verbose = true
		case "--trace":
			if i+1 < len(args) {
				traceOut = args[i+1]
				i++
			}
		default:
			inputs = append(inputs, args[i])
		}
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: actionbar run <files|dirs...> [-v] [--watch] [--trace output]")
		os.Exit(1)
	}

	paths, err := scenario.Expand(inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading scenarios: %v\n", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "No scenario files found")
		os.Exit(1)
	}
	if traceOut != "" && len(paths) != 1 {
		fmt.Fprintln(os.Stderr, "--trace needs exactly one scenario file")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := scenario.ValidateAll(ctx, paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sum := report(os.Stdout, results, verbose)
	fmt.Println(sum)

	if traceOut != "" && results[0].Result != nil {
		if err := writeTrace(traceOut, results[0].Result.Trace); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", traceOut, err)
			os.Exit(1)
		}
		fmt.Printf("Written: %s\n", traceOut)
	}

	if !watch {
		if !sum.ok() {
			os.Exit(1)
		}
		return
	}

	fmt.Println(headerStyle.Render("Watching for changes, Ctrl-C to stop"))
	err = scenario.Watch(ctx, paths, scenario.DefaultDebounce, func(path string) {
		r := scenario.RunFile(path)
		report(os.Stdout, []scenario.FileResult{r}, verbose)
		if traceOut != "" && r.Result != nil {
			if err := writeTrace(traceOut, r.Result.Trace); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", traceOut, err)
			}
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdTrace(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: actionbar trace <scenario> [-o output.json|.png|.txt]")
		os.Exit(1)
	}

	input := args[0]
	var output string
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		}
	}

	s, err := scenario.Load(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}
	res, err := scenario.Replay(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error replaying %s: %v\n", input, err)
		os.Exit(1)
	}
	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "%s %s\n", failStyle.Render("FAIL"), f)
	}

	if output == "" {
		if err := trace.WriteTable(os.Stdout, res.Trace); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := writeTrace(output, res.Trace); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}
	fmt.Printf("Written: %s\n", output)
}

// writeTrace picks the trace encoding from the output extension.
func writeTrace(output string, t *trace.Trace) error {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".json":
		err = trace.WriteJSON(f, t)
	case ".png":
		err = trace.RenderPNG(t, f, trace.DefaultPNGOptions())
	default:
		err = trace.WriteTable(f, t)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func cmdValidate(args []string) {
	failed := false
	for _, table := range actionbar.Tables() {
		if err := table.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %s: %v\n", table.Name, err)
			failed = true
			continue
		}
		fmt.Printf("%s: valid with %d states, %d transitions\n",
			table.Name, len(table.States), len(table.Transitions))
	}

	var registry string
	var inputs []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--registry":
			if i+1 < len(args) {
				registry = args[i+1]
				i++
			}
		default:
			inputs = append(inputs, args[i])
		}
	}

	if registry != "" {
		reg, err := visualization.LoadRegistry(registry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", registry, err)
			failed = true
		} else {
			fmt.Printf("%s: %d visualizations\n", registry, reg.Len())
		}
	}

	paths, err := scenario.Expand(inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading scenarios: %v\n", err)
		os.Exit(1)
	}
	for _, p := range paths {
		s, err := scenario.Load(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s: %d steps\n", p, len(s.Steps))
	}

	if failed {
		os.Exit(1)
	}
}

func cmdDot(args []string) {
	var machine, output, title string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-t", "--title":
			if i+1 < len(args) {
				title = args[i+1]
				i++
			}
		default:
			machine = args[i]
		}
	}

	var dot string
	if machine == "" {
		if title == "" {
			title = "action bar"
		}
		dot = diagram.GenerateAll(actionbar.Tables(), title)
	} else {
		f := lookupTable(machine)
		if title == "" {
			title = fmt.Sprintf("%s: %d states", f.Name, len(f.States))
		}
		dot = diagram.GenerateDOT(f, title)
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
			os.Exit(1)
		}
	} else {
		fmt.Print(dot)
	}
}

func cmdInfo(args []string) {
	tables := actionbar.Tables()
	asJSON := false
	for _, a := range args {
		switch a {
		case "--json":
			asJSON = true
		default:
			tables = []*fsm.FSM{lookupTable(a)}
		}
	}

	if asJSON {
		data, err := json.MarshalIndent(tables, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	for i, f := range tables {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("Name:        %s\n", f.Name)
		if f.Description != "" {
			fmt.Printf("Description: %s\n", f.Description)
		}
		fmt.Printf("States:      %d\n", len(f.States))
		fmt.Printf("Inputs:      %d\n", len(f.Alphabet))
		if len(f.OutputAlphabet) > 0 {
			fmt.Printf("Outputs:     %d\n", len(f.OutputAlphabet))
		}
		fmt.Printf("Transitions: %d\n", len(f.Transitions))
		fmt.Printf("Initial:     %s\n", f.Initial)
		if guards := f.Guards(); len(guards) > 0 {
			fmt.Printf("Guards:      %v\n", guards)
		}
		fmt.Printf("States:      %v\n", f.States)
		fmt.Printf("Alphabet:    %v\n", f.Alphabet)
		if len(f.OutputAlphabet) > 0 {
			fmt.Printf("Outputs:     %v\n", f.OutputAlphabet)
		}
	}
}

func lookupTable(name string) *fsm.FSM {
	f, ok := actionbar.Table(name)
	if !ok {
		var names []string
		for _, t := range actionbar.Tables() {
			names = append(names, t.Name)
		}
		fmt.Fprintf(os.Stderr, "Unknown machine %q (have %s)\n", name, strings.Join(names, ", "))
		os.Exit(1)
	}
	return f
}

func cmdMachine(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: actionbar machine <visibility|drag|reset|selection|relay>")
		os.Exit(1)
	}

	f := lookupTable(args[0])
	runner, err := fsm.NewRunner(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating runner: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Machine: %s\n", f.Name)
	fmt.Printf("Commands: <input>, +guard, -guard, reset, status, history, inputs, quit\n")
	fmt.Println()
	fmt.Println(runner.Status())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" {
			continue
		}

		switch {
		case cmd == "quit" || cmd == "exit" || cmd == "q":
			return
		case cmd == "reset":
			runner.Reset()
			fmt.Println("Reset to initial state")
			fmt.Println(runner.Status())
		case cmd == "status":
			fmt.Println(runner.Status())
		case cmd == "history":
			printHistory(runner)
		case cmd == "inputs":
			fmt.Printf("Inputs: %v\n", f.Alphabet)
			if guards := f.Guards(); len(guards) > 0 {
				fmt.Printf("Guards: %v\n", guards)
			}
		case cmd == "help" || cmd == "?":
			fmt.Println("Commands:")
			fmt.Println("  <input>  - Send input to the machine")
			fmt.Println("  +guard   - Make a guard hold")
			fmt.Println("  -guard   - Make a guard fail")
			fmt.Println("  reset    - Reset to initial state")
			fmt.Println("  status   - Show current status")
			fmt.Println("  history  - Show execution history")
			fmt.Println("  inputs   - Show inputs and guards")
			fmt.Println("  quit     - Exit")
		case strings.HasPrefix(cmd, "+") || strings.HasPrefix(cmd, "-"):
			runner.SetGuard(cmd[1:], cmd[0] == '+')
			fmt.Println(runner.Status())
		default:
			output, err := runner.Step(cmd)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			if output != "" {
				fmt.Printf("Output: %s\n", output)
			}
			fmt.Println(runner.Status())
		}
	}
}

func printHistory(r *fsm.Runner) {
	history := r.History()
	if len(history) == 0 {
		fmt.Println("No history yet")
		return
	}

	fmt.Println("History:")
	for i, step := range history {
		line := fmt.Sprintf("  %d: %s --%s--> %s",
			i+1, step.FromState, step.Input, step.ToState)
		if len(step.Guards) > 0 {
			line += fmt.Sprintf(" {%s}", strings.Join(step.Guards, ", "))
		}
		if step.Output != "" {
			line += fmt.Sprintf(" [%s]", step.Output)
		}
		if !step.Matched {
			line += " (no transition)"
		}
		fmt.Println(line)
	}
}

func cmdBar(args []string) {
	var registry string
	for i := 0; i < len(args); i++ {
		if args[i] == "--registry" && i+1 < len(args) {
			registry = args[i+1]
			i++
		}
	}
	reg, err := visualization.LoadRegistry(registry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", registry, err)
		os.Exit(1)
	}

	p := scenario.NewPlayer(reg)
	rec := trace.NewRecorder("interactive")
	rec.Record("", p.Bar.Snapshot(), nil)

	fmt.Println("Bar: hidden, chooser with", reg.Len(), "visualizations")
	fmt.Println("Commands: <step>, status, trace [file], quit")
	fmt.Println(`Steps are written as in scenario files, e.g. "hover_enter: chooser"`)
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit", "q":
			return
		case "status":
			printSnapshot(os.Stdout, p)
		case "trace":
			t := rec.Trace()
			if len(fields) > 1 {
				if err := writeTrace(fields[1], t); err != nil {
					fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", fields[1], err)
					continue
				}
				fmt.Printf("Written: %s\n", fields[1])
				continue
			}
			if err := trace.WriteTable(os.Stdout, t); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		default:
			step, err := scenario.ParseStep(line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			outs, problems := p.Apply(step)
			for _, msg := range problems {
				fmt.Println(failStyle.Render("  " + msg))
			}
			if step.Kind == scenario.StepExpect {
				if len(problems) == 0 {
					fmt.Println(passStyle.Render("  ok"))
				}
				continue
			}
			rec.Record(step.String(), p.Bar.Snapshot(), outs)
			for _, o := range outs {
				fmt.Println(detailStyle.Render("  " + o.String()))
			}
		}
	}
}

func printSnapshot(w io.Writer, p *scenario.Player) {
	data, err := json.MarshalIndent(p.Bar.Snapshot(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
	fmt.Fprintf(w, "menu_open: %t, entries: %d\n", p.Chooser.MenuOpen(), len(p.Chooser.Entries()))
}
