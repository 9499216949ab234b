package chartedit

import (
	"fmt"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

// DuplicateNode copies n together with every arc that touches it.
//
// The copy gets a fresh ID, a suffixed name and a random palette colour
// (never the neutral entry). Each touching arc is cloned with its own
// fresh ID; IDs are reserved one at a time against everything already
// reserved in this call, so no two clones share an ID. Endpoints that
// pointed at n are rewired to the copy, cached curve points are dropped,
// and arcs still carrying their default name are renamed for the new ID.
//
// NodeAdded is emitted first, then ArcAdded for each cloned arc in graph
// order. The original node and arcs are not modified. It returns nil if n
// is not in the graph.
func (e *Editor) DuplicateNode(n *dgraph.Node) (*dgraph.Node, []*dgraph.Arc) {
	if n == nil || e.graph.Node(n.ID) != n {
		return nil, nil
	}

	nodeID := e.graph.NextID()
	reserved := []int{nodeID}

	clone := *n
	clone.ID = nodeID
	clone.Name = e.uniqueNodeName(n.Name)
	clone.Fill = e.palette.Random(e.rng)
	clone.Outline = dgraph.OutlineFor(clone.Fill)

	touching := e.graph.ArcsTouching(n.ID)
	arcs := make([]dgraph.Arc, 0, len(touching))
	for _, a := range touching {
		id := e.graph.NextID(reserved...)
		reserved = append(reserved, id)

		c := a.Clone()
		c.ID = id
		c.Source, c.Destination = nil, nil
		if a.SourceID == n.ID {
			c.SourceID = nodeID
		}
		if a.DestinationID == n.ID {
			c.DestinationID = nodeID
		}
		c.BezierPoints = nil
		c.Location, c.HasLocation = dgraph.Point{}, false
		if a.HasDefaultName() {
			c.Name = dgraph.DefaultArcName(id)
		}
		arcs = append(arcs, c)
	}

	storedNode := e.graph.AddNode(clone)
	e.emit(NodeAdded{Node: *storedNode})

	storedArcs := make([]*dgraph.Arc, 0, len(arcs))
	for _, c := range arcs {
		stored := e.graph.AddArc(c)
		storedArcs = append(storedArcs, stored)
		e.emit(ArcAdded{Arc: stored.Clone()})
	}
	e.requestRedraw()
	return storedNode, storedArcs
}

// DuplicateArc copies a with a fresh ID and the same endpoints, conditions
// and actions. A default name is renamed for the new ID.
func (e *Editor) DuplicateArc(a *dgraph.Arc) *dgraph.Arc {
	if a == nil || e.graph.Arc(a.ID) != a {
		return nil
	}
	id := e.graph.NextID()
	c := a.Clone()
	c.ID = id
	c.Source, c.Destination = nil, nil
	c.BezierPoints = nil
	c.Location, c.HasLocation = dgraph.Point{}, false
	if a.HasDefaultName() {
		c.Name = dgraph.DefaultArcName(id)
	}
	stored := e.graph.AddArc(c)
	e.emit(ArcAdded{Arc: stored.Clone()})
	e.requestRedraw()
	return stored
}

// uniqueNodeName returns "name 2", or the first "name k" (k > 2) not
// already used by a node.
func (e *Editor) uniqueNodeName(name string) string {
	for k := 2; ; k++ {
		candidate := fmt.Sprintf("%s %d", name, k)
		if e.graph.NodeByName(candidate) == nil {
			return candidate
		}
	}
}
