package chartfile

import (
	"fmt"
	"html"
	"strings"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Title     string // diagram title
	FontSize  int    // node label size
	LabelSize int    // arc label size (0 = FontSize - 2)
	TitleSize int    // title size (0 = FontSize + 4)
	Padding   int    // padding around the chart
	ArcColour string // stroke for arcs
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		FontSize:  12,
		Padding:   30,
		ArcColour: "#333333",
	}
}

// GenerateSVG renders a chart as an SVG document at its stored positions,
// one chart unit per pixel. Unresolved arcs are left out.
func GenerateSVG(doc *Document, opts SVGOptions) string {
	if opts.FontSize == 0 {
		opts.FontSize = 12
	}
	if opts.LabelSize == 0 {
		opts.LabelSize = opts.FontSize - 2
	}
	if opts.TitleSize == 0 {
		opts.TitleSize = opts.FontSize + 4
	}
	if opts.ArcColour == "" {
		opts.ArcColour = "#333333"
	}
	titleSpace := 0.0
	if opts.Title != "" {
		titleSpace = float64(opts.TitleSize) * 2
	}
	s := newScene(doc, float64(opts.Padding), titleSpace)

	var sb strings.Builder
	fmt.Fprintf(&sb, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n",
		s.width, s.height, s.width, s.height)
	sb.WriteString("  <defs>\n")
	sb.WriteString("    <marker id=\"arrow\" viewBox=\"0 0 10 10\" refX=\"10\" refY=\"5\" markerWidth=\"8\" markerHeight=\"8\" orient=\"auto-start-reverse\">\n")
	fmt.Fprintf(&sb, "      <path d=\"M 0 0 L 10 5 L 0 10 z\" fill=\"%s\"/>\n", opts.ArcColour)
	sb.WriteString("    </marker>\n")
	sb.WriteString("  </defs>\n")
	sb.WriteString("  <rect width=\"100%\" height=\"100%\" fill=\"white\"/>\n")

	if opts.Title != "" {
		fmt.Fprintf(&sb, "  <text x=\"%g\" y=\"%d\" text-anchor=\"middle\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%d\" font-weight=\"bold\">%s</text>\n",
			s.width/2, opts.TitleSize+opts.TitleSize/2, opts.TitleSize, html.EscapeString(opts.Title))
	}

	// Arcs under nodes, in list order.
	sb.WriteString("  <g class=\"arcs\">\n")
	for _, a := range s.graph.Arcs() {
		path, ok := s.paths[a.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "    <path id=\"arc-%d\" d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" marker-end=\"url(#arrow)\"/>\n",
			a.ID, s.svgPath(path), opts.ArcColour)
		lp := s.at(a.LabelPoint())
		fmt.Fprintf(&sb, "    <text x=\"%.1f\" y=\"%.1f\" text-anchor=\"middle\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%d\" fill=\"#555555\">%s</text>\n",
			lp.X, lp.Y-4, opts.LabelSize, html.EscapeString(a.Name))
	}
	sb.WriteString("  </g>\n")

	if s.initial != nil {
		tip := s.at(s.initial.Location.Sub(dgraph.Pt(dgraph.NodeRadius, 0)))
		tail := tip.Sub(dgraph.Pt(initialArrow, 0))
		fmt.Fprintf(&sb, "  <path class=\"initial\" d=\"M %.1f %.1f L %.1f %.1f\" stroke=\"%s\" stroke-width=\"1.5\" marker-end=\"url(#arrow)\"/>\n",
			tail.X, tail.Y, tip.X, tip.Y, opts.ArcColour)
	}

	sb.WriteString("  <g class=\"nodes\">\n")
	for _, n := range s.graph.Nodes() {
		c := s.at(n.Location)
		textColour := "#000000"
		if lum, _, _ := n.Fill.Lab(); lum < 0.5 {
			textColour = "#ffffff"
		}
		fmt.Fprintf(&sb, "    <g id=\"node-%d\">\n", n.ID)
		if n.Description != "" {
			fmt.Fprintf(&sb, "      <title>%s</title>\n", html.EscapeString(n.Description))
		}
		fmt.Fprintf(&sb, "      <circle cx=\"%.1f\" cy=\"%.1f\" r=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"2\"/>\n",
			c.X, c.Y, dgraph.NodeRadius, n.Fill.Clamped().Hex(), n.Outline.Clamped().Hex())
		fmt.Fprintf(&sb, "      <text x=\"%.1f\" y=\"%.1f\" text-anchor=\"middle\" dominant-baseline=\"central\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%d\" fill=\"%s\">%s</text>\n",
			c.X, c.Y, opts.FontSize, textColour, html.EscapeString(n.Name))
		sb.WriteString("    </g>\n")
	}
	sb.WriteString("  </g>\n")

	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *scene) svgPath(path []dgraph.Point) string {
	var sb strings.Builder
	for i, p := range path {
		q := s.at(p)
		if i == 0 {
			fmt.Fprintf(&sb, "M %.1f %.1f", q.X, q.Y)
		} else {
			fmt.Fprintf(&sb, " L %.1f %.1f", q.X, q.Y)
		}
	}
	return sb.String()
}
