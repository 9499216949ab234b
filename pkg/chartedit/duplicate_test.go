package chartedit

import (
	"testing"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

func TestDuplicateNodeScenario(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	a := e.Graph().Node(1)

	clone, arcs := e.DuplicateNode(a)
	if clone == nil {
		t.Fatal("DuplicateNode returned nil")
	}
	if clone.ID != 3 || clone.Name != "A 2" {
		t.Errorf("clone = %d %q, want 3 \"A 2\"", clone.ID, clone.Name)
	}
	if clone.Location != a.Location {
		t.Errorf("clone location %v, want %v", clone.Location, a.Location)
	}
	if len(arcs) != 1 {
		t.Fatalf("expected 1 cloned arc, got %d", len(arcs))
	}
	c := arcs[0]
	if c.ID != 4 || c.Name != "Arc 4" || c.SourceID != 3 || c.DestinationID != 2 {
		t.Errorf("cloned arc = %d %q %d->%d, want 4 \"Arc 4\" 3->2", c.ID, c.Name, c.SourceID, c.DestinationID)
	}
	if c.Source != clone || c.Destination != e.Graph().Node(2) {
		t.Error("cloned arc not resolved against the graph")
	}

	orig := e.Graph().Arc(1)
	if orig.Name != "Arc 1" || orig.SourceID != 1 || orig.DestinationID != 2 {
		t.Errorf("original arc changed: %+v", orig)
	}
	if a.Name != "A" || e.Graph().Node(2).Name != "B" {
		t.Error("original nodes changed")
	}

	events := q.Drain()
	if len(events) != 2 {
		t.Fatalf("expected NodeAdded + ArcAdded, got %d events", len(events))
	}
	if na, ok := events[0].(NodeAdded); !ok || na.Node.ID != 3 {
		t.Errorf("first event %#v, want NodeAdded for 3", events[0])
	}
	if aa, ok := events[1].(ArcAdded); !ok || aa.Arc.ID != 4 {
		t.Errorf("second event %#v, want ArcAdded for 4", events[1])
	}
}

func TestDuplicateNodeManyArcs(t *testing.T) {
	nodes := []dgraph.Node{
		{ID: 1, Name: "hub"},
		{ID: 2, Name: "x"},
		{ID: 5, Name: "y"},
	}
	arcs := []dgraph.Arc{
		{ID: 3, Name: "Arc 3", SourceID: 1, DestinationID: 2},
		{ID: 4, Name: "go", SourceID: 5, DestinationID: 1},
		{ID: 6, Name: "Arc 6", SourceID: 1, DestinationID: 1, BezierPoints: []dgraph.Point{{X: 1, Y: 1}}},
		{ID: 7, Name: "Arc 7", SourceID: 2, DestinationID: 5},
	}
	e, q := newTestEditor(nodes, arcs)
	before := map[int]bool{}
	for _, n := range e.Graph().Nodes() {
		before[n.ID] = true
	}
	for _, a := range e.Graph().Arcs() {
		before[a.ID] = true
	}

	clone, cloned := e.DuplicateNode(e.Graph().Node(1))
	if len(cloned) != 3 {
		t.Fatalf("expected 3 cloned arcs, got %d", len(cloned))
	}

	ids := map[int]bool{clone.ID: true}
	if before[clone.ID] {
		t.Errorf("clone reused ID %d", clone.ID)
	}
	for _, c := range cloned {
		if before[c.ID] || ids[c.ID] {
			t.Errorf("cloned arc ID %d collides", c.ID)
		}
		ids[c.ID] = true
		if c.BezierPoints != nil {
			t.Errorf("arc %d kept bezier points", c.ID)
		}
	}

	if c := cloned[0]; c.SourceID != clone.ID || c.DestinationID != 2 || c.Name != dgraph.DefaultArcName(c.ID) {
		t.Errorf("outgoing clone = %d->%d %q", c.SourceID, c.DestinationID, c.Name)
	}
	if c := cloned[1]; c.SourceID != 5 || c.DestinationID != clone.ID || c.Name != "go" {
		t.Errorf("incoming clone = %d->%d %q", c.SourceID, c.DestinationID, c.Name)
	}
	if c := cloned[2]; c.SourceID != clone.ID || c.DestinationID != clone.ID {
		t.Errorf("self loop clone = %d->%d, want both rewired", c.SourceID, c.DestinationID)
	}
	if orig := e.Graph().Arc(6); len(orig.BezierPoints) != 1 {
		t.Error("original arc lost its bezier points")
	}

	events := q.Drain()
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if _, ok := events[0].(NodeAdded); !ok {
		t.Errorf("first event %T, want NodeAdded", events[0])
	}
	for i, ev := range events[1:] {
		if _, ok := ev.(ArcAdded); !ok {
			t.Errorf("event %d is %T, want ArcAdded", i+1, ev)
		}
	}
}

func TestDuplicateNodeWithoutArcs(t *testing.T) {
	e, q := newTestEditor([]dgraph.Node{{ID: 1, Name: "solo"}}, nil)
	clone, arcs := e.DuplicateNode(e.Graph().Node(1))
	if clone == nil || len(arcs) != 0 {
		t.Fatalf("clone=%v arcs=%d", clone, len(arcs))
	}
	if events := q.Drain(); len(events) != 1 {
		t.Errorf("expected only NodeAdded, got %d events", len(events))
	}
}

func TestDuplicateNodeColour(t *testing.T) {
	e, _ := newTestEditor(twoNodes())
	p := dgraph.DefaultPalette()
	neutral := p.Colours[p.Neutral]
	for i := 0; i < 30; i++ {
		clone, _ := e.DuplicateNode(e.Graph().Node(1))
		if clone.Fill == neutral {
			t.Fatal("duplicate got the neutral colour")
		}
		if clone.Outline != dgraph.OutlineFor(clone.Fill) {
			t.Error("outline not derived from fill")
		}
	}
}

func TestDuplicateNodeNames(t *testing.T) {
	e, _ := newTestEditor([]dgraph.Node{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "A 2"},
	}, nil)
	clone, _ := e.DuplicateNode(e.Graph().Node(1))
	if clone.Name != "A 3" {
		t.Errorf("name = %q, want \"A 3\"", clone.Name)
	}
}

func TestDuplicateNodeNotInGraph(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	if n, _ := e.DuplicateNode(&dgraph.Node{ID: 1, Name: "A"}); n != nil {
		t.Error("duplicated a node that is not the live one")
	}
	if n, _ := e.DuplicateNode(nil); n != nil {
		t.Error("duplicated nil")
	}
	if q.Len() != 0 {
		t.Errorf("no-op emitted %d events", q.Len())
	}
}

func TestDuplicateArc(t *testing.T) {
	nodes, arcs := twoNodes()
	arcs[0].Conditions = []string{"t > 3"}
	arcs[0].Actions = []string{"sow"}
	e, q := newTestEditor(nodes, arcs)

	c := e.DuplicateArc(e.Graph().Arc(1))
	if c == nil {
		t.Fatal("DuplicateArc returned nil")
	}
	if c.ID != 3 || c.Name != "Arc 3" || c.SourceID != 1 || c.DestinationID != 2 {
		t.Errorf("clone = %d %q %d->%d", c.ID, c.Name, c.SourceID, c.DestinationID)
	}
	if len(c.Conditions) != 1 || c.Conditions[0] != "t > 3" || len(c.Actions) != 1 {
		t.Errorf("rules not copied: %v %v", c.Conditions, c.Actions)
	}
	c.Conditions[0] = "changed"
	if e.Graph().Arc(1).Conditions[0] != "t > 3" {
		t.Error("clone shares condition storage with the original")
	}
	if events := q.Drain(); len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}
}
