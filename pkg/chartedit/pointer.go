package chartedit

import "github.com/ha1tch/bubblechart/pkg/dgraph"

// Press handles a button press at p.
//
// A primary press replaces the primary selection with whatever is under p
// (nodes before arcs) and arms a drag. A secondary press fills the
// secondary slot, or finishes an arc when one is being drawn. With no
// primary selection a secondary hit becomes the primary instead. Both emit
// SelectionChanged.
func (e *Editor) Press(b Button, p dgraph.Point) {
	e.pointer = p
	switch b {
	case ButtonPrimary:
		e.pressPrimary(p)
	case ButtonSecondary:
		e.pressSecondary(p)
	}
}

// Motion handles pointer movement to p. While the primary button is held
// over a selection the selected object follows the pointer; while an arc
// is being drawn the cursor node does. Self loops are drawn from their node
// alone and do not follow the pointer. No notification is sent until the
// button is released.
func (e *Editor) Motion(p dgraph.Point) {
	e.pointer = p
	if e.arcDrawing {
		e.cursor.Location = p
		e.requestRedraw()
		return
	}
	if !e.buttonDown || e.primary == nil {
		return
	}
	if a, ok := e.primary.(*dgraph.Arc); ok && a.IsSelfLoop() {
		return
	}
	if !e.dragged && p == e.dragAnchor {
		return
	}
	e.primary.MoveTo(p)
	e.dragged = true
	e.state = StateDragging
	e.requestRedraw()
}

// Release handles a button release at p. Ending a drag emits exactly one
// MoveCompleted. Releasing a plain click over empty space clears the
// selection.
func (e *Editor) Release(b Button, p dgraph.Point) {
	e.pointer = p
	if b != ButtonPrimary || !e.buttonDown {
		return
	}
	e.buttonDown = false

	if e.dragged {
		e.dragged = false
		e.state = StatePrimarySelected
		if e.primary != nil {
			e.emit(MoveCompleted{Object: e.primary, Location: e.primary.Position()})
		}
		e.requestRedraw()
		return
	}

	if e.graph.HitTest(p) != nil {
		// Plain click: the selection made on press stands.
		return
	}
	if e.primary != nil || e.secondary != nil {
		e.primary, e.secondary = nil, nil
		e.emitSelection()
		e.requestRedraw()
	}
	e.state = StateIdle
}

func (e *Editor) pressPrimary(p dgraph.Point) {
	hit := e.graph.HitTest(p)

	if e.arcDrawing {
		// Only a right click on a node completes the arc; clicking empty
		// space abandons it.
		if hit == nil {
			e.endArc()
			e.primary, e.secondary = nil, nil
			e.state = StateIdle
			e.emitSelection()
			e.requestRedraw()
		}
		return
	}

	e.primary = hit
	e.secondary = nil
	e.buttonDown = hit != nil
	e.dragged = false
	e.dragAnchor = p
	e.settle()
	e.emitSelection()
	e.requestRedraw()
}

func (e *Editor) pressSecondary(p dgraph.Point) {
	hit := e.graph.HitTest(p)

	if e.arcDrawing {
		switch target := hit.(type) {
		case *dgraph.Node:
			e.FinishArc(target)
		case nil:
			e.endArc()
			e.primary, e.secondary = nil, nil
			e.state = StateIdle
			e.emitSelection()
			e.requestRedraw()
		}
		return
	}

	if hit == nil {
		e.resetDrag()
		e.primary, e.secondary = nil, nil
		e.state = StateIdle
		e.emitSelection()
		e.requestRedraw()
		return
	}

	switch {
	case e.primary == nil:
		e.primary, e.secondary = hit, nil
		e.settle()
	case sameObject(hit, e.primary):
		e.secondary = nil
	default:
		e.secondary = hit
	}
	e.emitSelection()
	e.requestRedraw()
}
