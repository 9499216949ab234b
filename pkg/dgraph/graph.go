// Package dgraph provides the directed graph model behind the bubble chart
// editor: nodes (states), arcs (transitions), identifier management and
// hit testing.
package dgraph

import (
	"fmt"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// CursorNodeID is the identifier of the ephemeral node that anchors the far
// end of an arc while it is being drawn. It never enters a Graph.
const CursorNodeID = 0

// CursorNodeName is the reserved name of the cursor node.
const CursorNodeName = "\x00cursor"

// Kind distinguishes the two object kinds in a graph.
type Kind int

const (
	KindNode Kind = iota
	KindArc
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindArc:
		return "arc"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Object is implemented by *Node and *Arc.
type Object interface {
	Kind() Kind
	ObjectID() int
	ObjectName() string
	// Position is the object's draggable location.
	Position() Point
	// MoveTo sets the object's draggable location.
	MoveTo(p Point)
	// HitTest reports whether p lies on the object.
	HitTest(p Point) bool
}

// Node is a state in the chart.
type Node struct {
	ID          int
	Name        string
	Description string
	Location    Point
	Fill        colorful.Color
	Outline     colorful.Color
}

func (n *Node) Kind() Kind         { return KindNode }
func (n *Node) ObjectID() int      { return n.ID }
func (n *Node) ObjectName() string { return n.Name }
func (n *Node) Position() Point    { return n.Location }
func (n *Node) MoveTo(p Point)     { n.Location = p }

// HitTest reports whether p lies inside the node's circle.
func (n *Node) HitTest(p Point) bool {
	return n.Location.Dist(p) <= NodeRadius
}

// Arc is a directed transition between two nodes. Source and Destination
// are resolved from SourceID and DestinationID by the owning Graph and are
// nil when the ID does not resolve.
type Arc struct {
	ID            int
	Name          string
	SourceID      int
	DestinationID int
	Source        *Node
	Destination   *Node
	// Location is the point the curve passes through halfway along. It is
	// only used when HasLocation is set; otherwise the arc runs straight
	// between its endpoints.
	Location     Point
	HasLocation  bool
	BezierPoints []Point
	Conditions   []string
	Actions      []string
}

func (a *Arc) Kind() Kind         { return KindArc }
func (a *Arc) ObjectID() int      { return a.ID }
func (a *Arc) ObjectName() string { return a.Name }
func (a *Arc) Position() Point    { return a.Location }

// MoveTo drags the curve through p. Cached control points are discarded.
func (a *Arc) MoveTo(p Point) {
	a.Location = p
	a.HasLocation = true
	a.BezierPoints = nil
}

// Resolved reports whether both endpoints refer to live nodes.
func (a *Arc) Resolved() bool {
	return a.Source != nil && a.Destination != nil
}

// IsSelfLoop reports whether the arc starts and ends at the same node.
func (a *Arc) IsSelfLoop() bool {
	return a.SourceID == a.DestinationID
}

// HitTest reports whether p lies within ArcTolerance of the arc's path.
// Unresolved arcs are never hit.
func (a *Arc) HitTest(p Point) bool {
	path := a.Path()
	if len(path) == 0 {
		return false
	}
	return PolylineDistance(p, path) <= ArcTolerance
}

// DefaultArcName returns the auto-generated name for an arc with the given ID.
func DefaultArcName(id int) string {
	return fmt.Sprintf("Arc %d", id)
}

// DefaultNodeName returns the auto-generated name for a node with the given ID.
func DefaultNodeName(id int) string {
	return fmt.Sprintf("Node %d", id)
}

// HasDefaultName reports whether the arc's name is exactly its auto-generated name.
func (a *Arc) HasDefaultName() bool {
	return a.Name == DefaultArcName(a.ID)
}

// Clone returns a deep copy of the arc. Resolved references are shared.
// Empty lists stay empty and nil lists stay nil.
func (a *Arc) Clone() Arc {
	c := *a
	c.BezierPoints = slices.Clone(a.BezierPoints)
	c.Conditions = slices.Clone(a.Conditions)
	c.Actions = slices.Clone(a.Actions)
	return c
}

// Graph owns the nodes and arcs of one chart. List order is z-order: later
// entries are drawn on top and win hit tests.
type Graph struct {
	nodes []*Node
	arcs  []*Arc
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// SetGraph replaces the contents of the graph with copies of nodes and
// arcs, then resolves every arc's endpoints against the new node list.
func (g *Graph) SetGraph(nodes []Node, arcs []Arc) {
	g.nodes = make([]*Node, 0, len(nodes))
	for i := range nodes {
		n := nodes[i]
		g.nodes = append(g.nodes, &n)
	}
	g.arcs = make([]*Arc, 0, len(arcs))
	for i := range arcs {
		a := arcs[i].Clone()
		g.arcs = append(g.arcs, &a)
	}
	g.Resolve()
}

// Resolve recomputes every arc's Source and Destination from its IDs.
func (g *Graph) Resolve() {
	for _, a := range g.arcs {
		g.resolveArc(a)
	}
}

func (g *Graph) resolveArc(a *Arc) {
	a.Source = g.Node(a.SourceID)
	a.Destination = g.Node(a.DestinationID)
}

// Nodes returns the live node list. Callers must not append to it.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Arcs returns the live arc list. Callers must not append to it.
func (g *Graph) Arcs() []*Arc { return g.arcs }

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id int) *Node {
	for _, n := range g.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Arc returns the arc with the given ID, or nil.
func (g *Graph) Arc(id int) *Arc {
	for _, a := range g.arcs {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// NodeByName returns the last node called name, or nil.
func (g *Graph) NodeByName(name string) *Node {
	for i := len(g.nodes) - 1; i >= 0; i-- {
		if g.nodes[i].Name == name {
			return g.nodes[i]
		}
	}
	return nil
}

// ArcByName returns the last arc called name, or nil.
func (g *Graph) ArcByName(name string) *Arc {
	for i := len(g.arcs) - 1; i >= 0; i-- {
		if g.arcs[i].Name == name {
			return g.arcs[i]
		}
	}
	return nil
}

// Lookup finds an object by kind and ID.
func (g *Graph) Lookup(kind Kind, id int) Object {
	switch kind {
	case KindNode:
		if n := g.Node(id); n != nil {
			return n
		}
	case KindArc:
		if a := g.Arc(id); a != nil {
			return a
		}
	}
	return nil
}

// ArcsTouching returns the arcs whose source or destination is nodeID, in
// list order.
func (g *Graph) ArcsTouching(nodeID int) []*Arc {
	var out []*Arc
	for _, a := range g.arcs {
		if a.SourceID == nodeID || a.DestinationID == nodeID {
			out = append(out, a)
		}
	}
	return out
}

// NextID returns the smallest positive integer that is not the ID of any
// node or arc and is not in excluding.
//
// NextID never returns 0, even on an empty graph: CursorNodeID is 0, and a
// minted 0 would be indistinguishable from the cursor node while an arc is
// being drawn. The first ID handed out is therefore 1.
func (g *Graph) NextID(excluding ...int) int {
	used := make(map[int]bool, len(g.nodes)+len(g.arcs)+len(excluding))
	for _, n := range g.nodes {
		used[n.ID] = true
	}
	for _, a := range g.arcs {
		used[a.ID] = true
	}
	for _, id := range excluding {
		used[id] = true
	}
	id := CursorNodeID + 1
	for used[id] {
		id++
	}
	return id
}

// AddNode appends a copy of n and returns the stored node.
func (g *Graph) AddNode(n Node) *Node {
	stored := n
	g.nodes = append(g.nodes, &stored)
	for _, a := range g.arcs {
		if a.SourceID == n.ID || a.DestinationID == n.ID {
			g.resolveArc(a)
		}
	}
	return &stored
}

// AddArc appends a copy of a, resolves it and returns the stored arc.
func (g *Graph) AddArc(a Arc) *Arc {
	stored := a.Clone()
	g.resolveArc(&stored)
	g.arcs = append(g.arcs, &stored)
	return &stored
}

// RemoveNode deletes the node with the given ID along with every arc that
// references it. It returns the IDs of the removed arcs and whether the
// node existed.
func (g *Graph) RemoveNode(id int) (removedArcs []int, ok bool) {
	idx := -1
	for i, n := range g.nodes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	g.nodes = append(g.nodes[:idx], g.nodes[idx+1:]...)

	kept := g.arcs[:0]
	for _, a := range g.arcs {
		if a.SourceID == id || a.DestinationID == id {
			removedArcs = append(removedArcs, a.ID)
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(g.arcs); i++ {
		g.arcs[i] = nil
	}
	g.arcs = kept
	return removedArcs, true
}

// RemoveArc deletes the arc with the given ID.
func (g *Graph) RemoveArc(id int) bool {
	for i, a := range g.arcs {
		if a.ID == id {
			g.arcs = append(g.arcs[:i], g.arcs[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns deep copies of the node and arc lists, suitable for
// persisting or for a later SetGraph.
func (g *Graph) Snapshot() ([]Node, []Arc) {
	nodes := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = *n
	}
	arcs := make([]Arc, len(g.arcs))
	for i, a := range g.arcs {
		arcs[i] = a.Clone()
		arcs[i].Source, arcs[i].Destination = nil, nil
	}
	return nodes, arcs
}
