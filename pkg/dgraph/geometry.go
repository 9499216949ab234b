// Geometric utilities for bubble chart hit testing and rendering.
// Provides bezier evaluation, arc path construction and self-loop shapes.

package dgraph

import "math"

// Point represents a 2D coordinate in chart space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p multiplied by k.
func (p Point) Scale(k float64) Point {
	return Point{p.X * k, p.Y * k}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Midpoint returns the point halfway between p and q.
func Midpoint(p, q Point) Point {
	return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2}
}

// Geometry constants shared by hit testing and the renderers.
const (
	// NodeWidth is the diameter of every node's circular footprint.
	NodeWidth = 40.0
	// NodeRadius is half of NodeWidth.
	NodeRadius = NodeWidth / 2
	// ArcTolerance is how far (in chart units) a point may lie from an
	// arc's path and still hit it.
	ArcTolerance = 5.0
	// curveSamples is the number of straight segments used to approximate
	// a curved path.
	curveSamples = 32
)

// EvaluateBezier computes the point at parameter t in [0,1] on the bezier
// curve defined by ctrl (any degree), using de Casteljau's algorithm.
func EvaluateBezier(ctrl []Point, t float64) Point {
	switch len(ctrl) {
	case 0:
		return Point{}
	case 1:
		return ctrl[0]
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	work := make([]Point, len(ctrl))
	copy(work, ctrl)
	for n := len(work) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			work[i] = Point{
				X: work[i].X*(1-t) + work[i+1].X*t,
				Y: work[i].Y*(1-t) + work[i+1].Y*t,
			}
		}
	}
	return work[0]
}

// Flatten approximates the bezier curve ctrl with a polyline of
// segments+1 points. A two point curve is returned as-is.
func Flatten(ctrl []Point, segments int) []Point {
	if len(ctrl) <= 2 {
		out := make([]Point, len(ctrl))
		copy(out, ctrl)
		return out
	}
	if segments < 1 {
		segments = 1
	}
	out := make([]Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		out = append(out, EvaluateBezier(ctrl, float64(i)/float64(segments)))
	}
	return out
}

// SegmentDistance returns the distance from p to the segment ab.
func SegmentDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Dist(Point{a.X + t*dx, a.Y + t*dy})
}

// PolylineDistance returns the smallest distance from p to any segment of
// the polyline pts. It returns +Inf for an empty polyline.
func PolylineDistance(p Point, pts []Point) float64 {
	switch len(pts) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Dist(pts[0])
	}
	best := math.Inf(1)
	for i := 0; i+1 < len(pts); i++ {
		if d := SegmentDistance(p, pts[i], pts[i+1]); d < best {
			best = d
		}
	}
	return best
}

// circleEdge returns the point on the circle (centre, radius) in the
// direction of toward. If toward coincides with centre the point straight
// above the centre is returned.
func circleEdge(centre Point, radius float64, toward Point) Point {
	d := toward.Dist(centre)
	if d < 1e-9 {
		return Point{centre.X, centre.Y - radius}
	}
	return centre.Add(toward.Sub(centre).Scale(radius / d))
}

// SelfLoopControlPoints computes the control points of a self loop drawn
// above a circular node: two cubic segments P0..P3 and P3..P6 sharing the
// apex P3.
func SelfLoopControlPoints(centre Point, radius float64) []Point {
	cx, cy := centre.X, centre.Y
	offset := radius * 1.25
	portX := radius * 0.35
	spread := radius * 0.5
	dy := radius + offset
	return []Point{
		{cx - portX, cy - radius},                   // tail port
		{cx - portX - spread, cy - radius - dy*0.4}, // P1
		{cx - spread, cy - dy},                      // P2
		{cx, cy - dy},                               // apex
		{cx + spread, cy - dy},                      // P4
		{cx + portX + spread, cy - radius - dy*0.4}, // P5
		{cx + portX, cy - radius},                   // head port
	}
}

// flattenCubicChain flattens a chain of cubic segments [P0,C1,C2,P1,C3,...].
func flattenCubicChain(ctrl []Point, perSegment int) []Point {
	if len(ctrl) < 4 {
		return Flatten(ctrl, perSegment)
	}
	var out []Point
	for i := 0; i+3 < len(ctrl); i += 3 {
		seg := Flatten(ctrl[i:i+4], perSegment)
		if len(out) > 0 {
			seg = seg[1:]
		}
		out = append(out, seg...)
	}
	return out
}

// Bounds returns the axis-aligned bounding box of pts.
func Bounds(pts []Point) (min, max Point) {
	if len(pts) == 0 {
		return Point{}, Point{}
	}
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}
