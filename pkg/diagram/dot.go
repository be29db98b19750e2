// Package diagram renders machine tables as Graphviz DOT.
package diagram

import (
	"fmt"
	"strings"

	"github.com/ha1tch/actionbar/pkg/fsm"
)

// GenerateDOT converts a machine table to Graphviz DOT format. Edges are
// labelled "input[guard]/output"; transitions sharing endpoints are merged
// into one edge in table order.
func GenerateDOT(f *fsm.FSM, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph FSM {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11, shape=circle];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title == "" {
		title = f.Name
	}
	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	if f.Initial != "" {
		sb.WriteString("    __start [shape=none, label=\"\", width=0, height=0];\n")
		sb.WriteString(fmt.Sprintf("    __start -> \"%s\";\n", escapeDOT(f.Initial)))
		sb.WriteString("\n")
	}

	for _, state := range f.States {
		sb.WriteString(fmt.Sprintf("    \"%s\";\n", escapeDOT(state)))
	}
	sb.WriteString("\n")

	var order [][2]string
	edgeLabels := make(map[[2]string][]string)
	for _, t := range f.Transitions {
		key := [2]string{t.From, t.To}
		if _, seen := edgeLabels[key]; !seen {
			order = append(order, key)
		}
		edgeLabels[key] = append(edgeLabels[key], Label(t))
	}

	for _, key := range order {
		combined := strings.Join(edgeLabels[key], "\\n")
		sb.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\" [label=\"%s\"];\n",
			escapeDOT(key[0]), escapeDOT(key[1]), escapeDOTLabel(combined)))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// GenerateAll renders every table as one graph per cluster.
func GenerateAll(tables []*fsm.FSM, title string) string {
	var sb strings.Builder
	sb.WriteString("digraph actionbar {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    compound=true;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11, shape=circle];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
	}

	for _, f := range tables {
		id := func(state string) string { return escapeDOT(f.Name + "." + state) }
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("    subgraph \"cluster_%s\" {\n", escapeDOT(f.Name)))
		sb.WriteString(fmt.Sprintf("        label=\"%s\";\n", escapeDOT(f.Name)))
		for _, state := range f.States {
			attrs := fmt.Sprintf("label=\"%s\"", escapeDOT(state))
			if state == f.Initial {
				attrs += ", peripheries=2"
			}
			sb.WriteString(fmt.Sprintf("        \"%s\" [%s];\n", id(state), attrs))
		}
		for _, t := range f.Transitions {
			sb.WriteString(fmt.Sprintf("        \"%s\" -> \"%s\" [label=\"%s\"];\n",
				id(t.From), id(t.To), escapeDOT(Label(t))))
		}
		sb.WriteString("    }\n")
	}

	sb.WriteString("}\n")
	return sb.String()
}

// Label formats a transition as "input[guard]/output".
func Label(t fsm.Transition) string {
	label := t.Input
	if t.Guard != "" {
		label += "[" + t.Guard + "]"
	}
	if t.Output != nil {
		label += "/" + *t.Output
	}
	return label
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}

// escapeDOTLabel escapes a label that already contains \n line breaks.
func escapeDOTLabel(s string) string {
	parts := strings.Split(s, "\\n")
	for i, p := range parts {
		parts[i] = escapeDOT(p)
	}
	return strings.Join(parts, "\\n")
}
