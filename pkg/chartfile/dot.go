package chartfile

import (
	"fmt"
	"strings"
)

// GenerateDOT converts a chart to Graphviz DOT. Node positions are emitted
// as pinned pos attributes (in points, y flipped) so that neato -n keeps the
// editor layout; dot ignores them.
func GenerateDOT(doc *Document, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph chart {\n")
	sb.WriteString("    node [shape=circle, style=filled, fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		fmt.Fprintf(&sb, "    label=\"%s\";\n", escapeDOT(title))
		sb.WriteString("\n")
	}

	if initial := doc.InitialNode(); initial != nil {
		sb.WriteString("    __start [shape=none, style=\"\", label=\"\", width=0, height=0];\n")
		fmt.Fprintf(&sb, "    __start -> n%d;\n", initial.ID)
		sb.WriteString("\n")
	}

	for _, n := range doc.Nodes {
		attrs := []string{
			fmt.Sprintf("label=\"%s\"", escapeDOT(n.Name)),
			fmt.Sprintf("fillcolor=\"%s\"", n.Fill.Clamped().Hex()),
			fmt.Sprintf("color=\"%s\"", n.Outline.Clamped().Hex()),
			fmt.Sprintf("pos=\"%g,%g!\"", n.Location.X, -n.Location.Y),
		}
		if lum, _, _ := n.Fill.Lab(); lum < 0.5 {
			attrs = append(attrs, "fontcolor=\"white\"")
		}
		if n.Description != "" {
			attrs = append(attrs, fmt.Sprintf("tooltip=\"%s\"", escapeDOT(n.Description)))
		}
		fmt.Fprintf(&sb, "    n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}
	sb.WriteString("\n")

	g := doc.Graph()
	for _, a := range g.Arcs() {
		if !a.Resolved() {
			continue
		}
		label := a.Name
		if len(a.Conditions) > 0 {
			label += "\\n[" + strings.Join(a.Conditions, "; ") + "]"
		}
		if len(a.Actions) > 0 {
			label += "\\n/ " + strings.Join(a.Actions, "; ")
		}
		fmt.Fprintf(&sb, "    n%d -> n%d [label=\"%s\"];\n",
			a.SourceID, a.DestinationID, escapeDOTLabel(label))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
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
