package chartedit

import "github.com/ha1tch/bubblechart/pkg/dgraph"

// StartArc begins drawing an arc from the selected node. It requires
// exactly one selected object, a node. A cursor node (ID 0) is placed at
// at and a placeholder arc joins the source to it; neither enters the
// graph. It reports whether arc drawing started.
func (e *Editor) StartArc(at dgraph.Point) bool {
	if e.arcDrawing || e.secondary != nil {
		return false
	}
	src, ok := e.primary.(*dgraph.Node)
	if !ok || src == nil {
		return false
	}
	e.resetDrag()
	e.arcSource = src
	e.cursor = &dgraph.Node{
		ID:       dgraph.CursorNodeID,
		Name:     dgraph.CursorNodeName,
		Location: at,
	}
	e.placeholder = &dgraph.Arc{
		SourceID:      src.ID,
		DestinationID: dgraph.CursorNodeID,
		Source:        src,
		Destination:   e.cursor,
	}
	e.arcDrawing = true
	e.pointer = at
	e.requestRedraw()
	return true
}

// FinishArc completes the arc being drawn, ending at target. The new arc
// gets the next free ID and its default name, and ArcAdded is emitted
// followed by SelectionChanged (source primary, target secondary). It is a
// no-op returning nil when no arc is being drawn or target is not in the
// graph.
func (e *Editor) FinishArc(target *dgraph.Node) *dgraph.Arc {
	if !e.arcDrawing || target == nil || e.graph.Node(target.ID) != target {
		return nil
	}
	src := e.arcSource
	if e.graph.Node(src.ID) != src {
		e.endArc()
		return nil
	}

	id := e.graph.NextID()
	arc := dgraph.Arc{
		ID:            id,
		Name:          dgraph.DefaultArcName(id),
		SourceID:      e.placeholder.SourceID,
		DestinationID: target.ID,
		Location:      e.placeholder.Location,
		HasLocation:   e.placeholder.HasLocation,
		BezierPoints:  []dgraph.Point{},
		Conditions:    []string{},
		Actions:       []string{},
	}
	e.endArc()

	stored := e.graph.AddArc(arc)
	e.primary = src
	if target == src {
		e.secondary = nil
	} else {
		e.secondary = target
	}
	e.settle()
	e.emit(ArcAdded{Arc: stored.Clone()})
	e.emitSelection()
	e.requestRedraw()
	return stored
}

// CancelArc abandons the arc being drawn without touching the graph. It
// reports whether an arc was in progress.
func (e *Editor) CancelArc() bool {
	if !e.arcDrawing {
		return false
	}
	e.endArc()
	e.requestRedraw()
	return true
}

// ArcDrawing reports whether an arc is being drawn.
func (e *Editor) ArcDrawing() bool { return e.arcDrawing }

// Placeholder returns the in-progress arc, or nil. Its destination is the
// cursor node.
func (e *Editor) Placeholder() *dgraph.Arc {
	if !e.arcDrawing {
		return nil
	}
	return e.placeholder
}

// CursorNode returns the ephemeral node tracking the pointer while an arc
// is drawn, or nil.
func (e *Editor) CursorNode() *dgraph.Node {
	if !e.arcDrawing {
		return nil
	}
	return e.cursor
}

func (e *Editor) endArc() {
	e.arcDrawing = false
	e.arcSource = nil
	e.cursor = nil
	e.placeholder = nil
}
