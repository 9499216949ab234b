package chartedit

import (
	"testing"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

func selectA(e *Editor) {
	e.Press(ButtonPrimary, dgraph.Pt(10, 10))
	e.Release(ButtonPrimary, dgraph.Pt(10, 10))
}

func TestStartArcRequiresSingleNode(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(e *Editor)
		starts bool
	}{
		{"nothing selected", func(e *Editor) {}, false},
		{"node selected", selectA, true},
		{"arc selected", func(e *Editor) {
			e.Press(ButtonPrimary, dgraph.Pt(100, 10))
			e.Release(ButtonPrimary, dgraph.Pt(100, 10))
		}, false},
		{"two selected", func(e *Editor) {
			selectA(e)
			e.Press(ButtonSecondary, dgraph.Pt(200, 10))
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEditor(twoNodes())
			tt.setup(e)
			if got := e.StartArc(dgraph.Pt(50, 50)); got != tt.starts {
				t.Errorf("StartArc = %v, want %v", got, tt.starts)
			}
			if e.ArcDrawing() != tt.starts {
				t.Errorf("ArcDrawing = %v", e.ArcDrawing())
			}
		})
	}
}

func TestArcDrawingPlaceholder(t *testing.T) {
	e, _ := newTestEditor(twoNodes())
	selectA(e)
	e.StartArc(dgraph.Pt(50, 50))

	cursor := e.CursorNode()
	if cursor == nil || cursor.ID != dgraph.CursorNodeID {
		t.Fatalf("cursor node = %v", cursor)
	}
	ph := e.Placeholder()
	if ph == nil || ph.Source != e.Graph().Node(1) || ph.Destination != cursor {
		t.Fatalf("placeholder not wired to source and cursor: %+v", ph)
	}
	if e.Graph().Node(dgraph.CursorNodeID) != nil {
		t.Error("cursor node entered the graph")
	}

	e.Motion(dgraph.Pt(120, 80))
	if cursor.Location != dgraph.Pt(120, 80) {
		t.Errorf("cursor did not track pointer: %v", cursor.Location)
	}
	if e.Graph().Node(1).Location != dgraph.Pt(10, 10) {
		t.Error("source node was dragged while drawing an arc")
	}
}

func TestFinishArcOnRightClick(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	selectA(e)
	e.StartArc(dgraph.Pt(10, 10))
	q.Drain()
	arcsBefore := len(e.Graph().Arcs())

	e.Motion(dgraph.Pt(150, 40))
	e.Press(ButtonSecondary, dgraph.Pt(200, 10))

	if e.ArcDrawing() {
		t.Fatal("still drawing after finishing")
	}
	if got := len(e.Graph().Arcs()); got != arcsBefore+1 {
		t.Fatalf("arc count = %d, want %d", got, arcsBefore+1)
	}
	for _, n := range e.Graph().Nodes() {
		if n.ID == dgraph.CursorNodeID {
			t.Fatal("cursor node left in graph")
		}
	}

	events := q.Drain()
	if len(events) != 2 {
		t.Fatalf("expected ArcAdded + SelectionChanged, got %d events", len(events))
	}
	added, ok := events[0].(ArcAdded)
	if !ok {
		t.Fatalf("first event %T, want ArcAdded", events[0])
	}
	a := added.Arc
	if a.SourceID != 1 || a.DestinationID != 2 {
		t.Errorf("arc %d->%d, want 1->2", a.SourceID, a.DestinationID)
	}
	if a.ID != 3 || a.Name != "Arc 3" {
		t.Errorf("arc id/name = %d/%q, want 3/\"Arc 3\"", a.ID, a.Name)
	}
	if a.BezierPoints == nil || a.Conditions == nil || a.Actions == nil {
		t.Error("lists should be initialised empty, not nil")
	}
	sc := selectionOf(t, events[1])
	if nameOf(sc.Primary) != "A" || nameOf(sc.Secondary) != "B" {
		t.Errorf("selection after finish = %q/%q", nameOf(sc.Primary), nameOf(sc.Secondary))
	}
}

func TestFinishArcSelfLoop(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	selectA(e)
	e.StartArc(dgraph.Pt(10, 10))
	q.Drain()

	e.Press(ButtonSecondary, dgraph.Pt(10, 10))
	events := q.Drain()
	added, ok := events[0].(ArcAdded)
	if !ok {
		t.Fatalf("expected ArcAdded, got %T", events[0])
	}
	if added.Arc.SourceID != 1 || added.Arc.DestinationID != 1 {
		t.Errorf("self loop = %d->%d", added.Arc.SourceID, added.Arc.DestinationID)
	}
	if sc := selectionOf(t, events[1]); sc.Secondary != nil {
		t.Error("self loop should leave no secondary selection")
	}
}

func TestCancelArc(t *testing.T) {
	tests := []struct {
		name   string
		cancel func(e *Editor)
	}{
		{"left click empty", func(e *Editor) { e.Press(ButtonPrimary, dgraph.Pt(400, 400)) }},
		{"right click empty", func(e *Editor) { e.Press(ButtonSecondary, dgraph.Pt(400, 400)) }},
		{"unselect", func(e *Editor) { e.UnSelect() }},
		{"cancel", func(e *Editor) { e.CancelArc() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, q := newTestEditor(twoNodes())
			selectA(e)
			nodesBefore, arcsBefore := e.Graph().Snapshot()
			e.StartArc(dgraph.Pt(10, 10))
			e.Motion(dgraph.Pt(300, 300))
			q.Drain()

			tt.cancel(e)

			if e.ArcDrawing() || e.Placeholder() != nil || e.CursorNode() != nil {
				t.Error("arc drawing not cleared")
			}
			nodes, arcs := e.Graph().Snapshot()
			if len(nodes) != len(nodesBefore) || len(arcs) != len(arcsBefore) {
				t.Errorf("graph changed: %d nodes %d arcs", len(nodes), len(arcs))
			}
			for _, ev := range q.Drain() {
				if _, ok := ev.(ArcAdded); ok {
					t.Error("cancel emitted ArcAdded")
				}
			}
		})
	}
}

func TestArcDrawingIgnoresObjectClicks(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	selectA(e)
	e.StartArc(dgraph.Pt(10, 10))
	q.Drain()

	// A left click on a node must not select it while drawing.
	e.Press(ButtonPrimary, dgraph.Pt(200, 10))
	if !e.ArcDrawing() {
		t.Fatal("left click on a node cancelled the arc")
	}
	if q.Len() != 0 {
		t.Errorf("left click emitted %d events", q.Len())
	}
	// Right clicking an arc is not a valid target.
	e.Press(ButtonSecondary, dgraph.Pt(100, 10))
	if !e.ArcDrawing() {
		t.Fatal("right click on an arc ended arc drawing")
	}
}

func TestFinishArcMisuseIsNoop(t *testing.T) {
	e, _ := newTestEditor(twoNodes())
	if a := e.FinishArc(e.Graph().Node(2)); a != nil {
		t.Error("FinishArc outside arc drawing created an arc")
	}
	if e.CancelArc() {
		t.Error("CancelArc outside arc drawing reported true")
	}
	selectA(e)
	e.StartArc(dgraph.Pt(0, 0))
	if a := e.FinishArc(&dgraph.Node{ID: 2}); a != nil {
		t.Error("FinishArc accepted a node not in the graph")
	}
	if a := e.FinishArc(nil); a != nil {
		t.Error("FinishArc accepted nil")
	}
}
