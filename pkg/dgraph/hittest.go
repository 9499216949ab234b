package dgraph

// Path returns the polyline the arc is drawn along, trimmed so that it
// starts and ends on the node outlines. It returns nil for an unresolved arc.
//
// The shape is chosen in this order: a loop above the node for self loops,
// the cached BezierPoints when present, a quadratic curve through Location
// when HasLocation is set and it lies off the centre line, and a straight
// segment.
func (a *Arc) Path() []Point {
	if !a.Resolved() {
		return nil
	}
	src, dst := a.Source.Location, a.Destination.Location

	if a.IsSelfLoop() {
		return flattenCubicChain(SelfLoopControlPoints(src, NodeRadius), curveSamples/2)
	}

	if len(a.BezierPoints) > 0 {
		first, last := a.BezierPoints[0], a.BezierPoints[len(a.BezierPoints)-1]
		ctrl := make([]Point, 0, len(a.BezierPoints)+2)
		ctrl = append(ctrl, circleEdge(src, NodeRadius, first))
		ctrl = append(ctrl, a.BezierPoints...)
		ctrl = append(ctrl, circleEdge(dst, NodeRadius, last))
		return Flatten(ctrl, curveSamples)
	}

	mid := Midpoint(src, dst)
	if !a.HasLocation || a.Location.Dist(mid) < 1 {
		return []Point{
			circleEdge(src, NodeRadius, dst),
			circleEdge(dst, NodeRadius, src),
		}
	}

	// The outline points are taken toward a first estimate of the control
	// point, then the control point is solved against them so that the
	// curve passes through Location exactly at t=0.5.
	c := a.Location.Scale(2).Sub(mid)
	start, end := circleEdge(src, NodeRadius, c), circleEdge(dst, NodeRadius, c)
	c = a.Location.Scale(2).Sub(Midpoint(start, end))
	return Flatten([]Point{start, c, end}, curveSamples)
}

// LabelPoint returns where the arc's label is anchored: the middle of its
// path, or Location when the arc is unresolved.
func (a *Arc) LabelPoint() Point {
	path := a.Path()
	switch len(path) {
	case 0:
		return a.Location
	case 2:
		return Midpoint(path[0], path[1])
	}
	return path[len(path)/2]
}

// HitTestNode returns the topmost node containing p, or nil. Later nodes
// in the list are on top.
func (g *Graph) HitTestNode(p Point) *Node {
	for i := len(g.nodes) - 1; i >= 0; i-- {
		if g.nodes[i].HitTest(p) {
			return g.nodes[i]
		}
	}
	return nil
}

// HitTestArc returns the topmost arc whose path passes within
// ArcTolerance of p, or nil. Unresolved arcs are skipped.
func (g *Graph) HitTestArc(p Point) *Arc {
	for i := len(g.arcs) - 1; i >= 0; i-- {
		if g.arcs[i].HitTest(p) {
			return g.arcs[i]
		}
	}
	return nil
}

// HitTest returns the node at p, falling back to the arc at p. It returns
// nil when nothing is hit.
func (g *Graph) HitTest(p Point) Object {
	if n := g.HitTestNode(p); n != nil {
		return n
	}
	if a := g.HitTestArc(p); a != nil {
		return a
	}
	return nil
}
