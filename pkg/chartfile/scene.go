package chartfile

import (
	"math"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

// initialArrow is the length of the stub arrow pointing at the initial node.
const initialArrow = 40.0

// scene is a chart resolved for drawing: every arc path flattened, and a
// translation that maps chart coordinates onto a canvas with padding.
type scene struct {
	graph   *dgraph.Graph
	initial *dgraph.Node
	paths   map[int][]dgraph.Point
	origin  dgraph.Point // chart point drawn at the canvas's top-left padding corner
	width   float64
	height  float64
	top     float64 // space reserved above the chart for a title
}

func newScene(doc *Document, padding, titleSpace float64) *scene {
	s := &scene{
		graph: doc.Graph(),
		paths: make(map[int][]dgraph.Point),
		top:   titleSpace,
	}
	if n := doc.InitialNode(); n != nil {
		s.initial = s.graph.Node(n.ID)
	}

	var pts []dgraph.Point
	for _, n := range s.graph.Nodes() {
		pts = append(pts,
			n.Location.Sub(dgraph.Pt(dgraph.NodeRadius, dgraph.NodeRadius)),
			n.Location.Add(dgraph.Pt(dgraph.NodeRadius, dgraph.NodeRadius)))
	}
	for _, a := range s.graph.Arcs() {
		path := a.Path()
		if path == nil {
			continue
		}
		s.paths[a.ID] = path
		pts = append(pts, path...)
	}
	if s.initial != nil {
		pts = append(pts, s.initial.Location.Sub(dgraph.Pt(dgraph.NodeRadius+initialArrow, 0)))
	}

	lo, hi := dgraph.Bounds(pts)
	s.origin = lo.Sub(dgraph.Pt(padding, padding))
	s.width = math.Ceil(hi.X - lo.X + 2*padding)
	s.height = math.Ceil(hi.Y - lo.Y + 2*padding + titleSpace)
	if len(pts) == 0 {
		s.width, s.height = 2*padding, 2*padding+titleSpace
	}
	return s
}

// at maps a chart point onto the canvas.
func (s *scene) at(p dgraph.Point) dgraph.Point {
	return dgraph.Pt(p.X-s.origin.X, p.Y-s.origin.Y+s.top)
}

// arrowHead returns the two wing points of an arrow ending at tip and
// travelling from from.
func arrowHead(from, tip dgraph.Point, length, width float64) (dgraph.Point, dgraph.Point) {
	d := tip.Dist(from)
	if d < 1e-9 {
		return tip, tip
	}
	nx := (tip.X - from.X) / d
	ny := (tip.Y - from.Y) / d
	base := dgraph.Pt(tip.X-nx*length, tip.Y-ny*length)
	return dgraph.Pt(base.X+ny*width, base.Y-nx*width),
		dgraph.Pt(base.X-ny*width, base.Y+nx*width)
}

