package chartedit

import (
	"strings"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
	"github.com/lucasb-eyer/go-colorful"
)

// AddNode adds a node at the given location with the next free ID, its
// default name and a palette colour, and emits NodeAdded.
func (e *Editor) AddNode(at dgraph.Point) *dgraph.Node {
	id := e.graph.NextID()
	name := dgraph.DefaultNodeName(id)
	if e.graph.NodeByName(name) != nil {
		name = e.uniqueNodeName(name)
	}
	fill := e.palette.Random(e.rng)
	stored := e.graph.AddNode(dgraph.Node{
		ID:       id,
		Name:     name,
		Location: at,
		Fill:     fill,
		Outline:  dgraph.OutlineFor(fill),
	})
	e.emit(NodeAdded{Node: *stored})
	e.requestRedraw()
	return stored
}

// AddArc joins src to dst directly (src may equal dst for a self loop)
// and emits ArcAdded. Both nodes must be in the graph.
func (e *Editor) AddArc(src, dst *dgraph.Node) *dgraph.Arc {
	if src == nil || dst == nil || e.graph.Node(src.ID) != src || e.graph.Node(dst.ID) != dst {
		return nil
	}
	id := e.graph.NextID()
	stored := e.graph.AddArc(dgraph.Arc{
		ID:            id,
		Name:          dgraph.DefaultArcName(id),
		SourceID:      src.ID,
		DestinationID: dst.ID,
		BezierPoints:  []dgraph.Point{},
		Conditions:    []string{},
		Actions:       []string{},
	})
	e.emit(ArcAdded{Arc: stored.Clone()})
	e.requestRedraw()
	return stored
}

// DeleteNode removes n and every arc touching it. NodeDeleted is emitted,
// then ArcsDeleted for the cascaded arcs when there were any.
func (e *Editor) DeleteNode(n *dgraph.Node) bool {
	if n == nil || e.graph.Node(n.ID) != n {
		return false
	}
	if e.arcDrawing && e.arcSource == n {
		e.endArc()
	}
	arcIDs, _ := e.graph.RemoveNode(n.ID)
	e.emit(NodeDeleted{ID: n.ID, Name: n.Name})
	if len(arcIDs) > 0 {
		e.emit(ArcsDeleted{IDs: arcIDs})
	}
	if e.dropReferences() {
		e.emitSelection()
	}
	e.requestRedraw()
	return true
}

// DeleteArc removes a and emits ArcsDeleted.
func (e *Editor) DeleteArc(a *dgraph.Arc) bool {
	if a == nil || !e.graph.RemoveArc(a.ID) {
		return false
	}
	e.emit(ArcsDeleted{IDs: []int{a.ID}})
	if e.dropReferences() {
		e.emitSelection()
	}
	e.requestRedraw()
	return true
}

// DeleteSelection removes both selected objects. NodeDeleted is emitted
// per node, then a single ArcsDeleted batch with every removed arc,
// selected or cascaded.
func (e *Editor) DeleteSelection() bool {
	var nodes []*dgraph.Node
	var arcs []*dgraph.Arc
	for _, obj := range []dgraph.Object{e.primary, e.secondary} {
		switch o := obj.(type) {
		case *dgraph.Node:
			nodes = append(nodes, o)
		case *dgraph.Arc:
			arcs = append(arcs, o)
		}
	}
	if len(nodes) == 0 && len(arcs) == 0 {
		return false
	}
	e.endArc()

	var removed []int
	for _, a := range arcs {
		if e.graph.RemoveArc(a.ID) {
			removed = append(removed, a.ID)
		}
	}
	for _, n := range nodes {
		ids, ok := e.graph.RemoveNode(n.ID)
		if !ok {
			continue
		}
		removed = append(removed, ids...)
		e.emit(NodeDeleted{ID: n.ID, Name: n.Name})
	}
	if len(removed) > 0 {
		e.emit(ArcsDeleted{IDs: removed})
	}
	if e.dropReferences() {
		e.emitSelection()
	}
	e.requestRedraw()
	return true
}

// Rename changes the name of obj. Empty names and names already used by
// another object of the same kind are refused.
func (e *Editor) Rename(obj dgraph.Object, name string) bool {
	name = strings.TrimSpace(name)
	if obj == nil || name == "" || name == dgraph.CursorNodeName {
		return false
	}
	switch o := obj.(type) {
	case *dgraph.Node:
		if other := e.graph.NodeByName(name); other != nil && other != o {
			return false
		}
		if e.graph.Node(o.ID) != o {
			return false
		}
		o.Name = name
	case *dgraph.Arc:
		if other := e.graph.ArcByName(name); other != nil && other != o {
			return false
		}
		if e.graph.Arc(o.ID) != o {
			return false
		}
		o.Name = name
	default:
		return false
	}
	e.emit(GraphChanged{Object: obj})
	e.requestRedraw()
	return true
}

// SetDescription sets a node's free text description.
func (e *Editor) SetDescription(n *dgraph.Node, description string) bool {
	if n == nil || e.graph.Node(n.ID) != n {
		return false
	}
	n.Description = description
	e.emit(GraphChanged{Object: n})
	return true
}

// SetColour sets a node's fill and derives its outline.
func (e *Editor) SetColour(n *dgraph.Node, fill colorful.Color) bool {
	if n == nil || e.graph.Node(n.ID) != n {
		return false
	}
	n.Fill = fill
	n.Outline = dgraph.OutlineFor(fill)
	e.emit(GraphChanged{Object: n})
	e.requestRedraw()
	return true
}

// SetConditions replaces an arc's condition lines.
func (e *Editor) SetConditions(a *dgraph.Arc, lines []string) bool {
	if a == nil || e.graph.Arc(a.ID) != a {
		return false
	}
	a.Conditions = append([]string{}, lines...)
	e.emit(GraphChanged{Object: a})
	return true
}

// SetActions replaces an arc's action lines.
func (e *Editor) SetActions(a *dgraph.Arc, lines []string) bool {
	if a == nil || e.graph.Arc(a.ID) != a {
		return false
	}
	a.Actions = append([]string{}, lines...)
	e.emit(GraphChanged{Object: a})
	return true
}
