package chartedit

import (
	"math/rand/v2"
	"testing"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

// newTestEditor returns an editor over a copy of nodes and arcs with a
// fixed random source and an event queue.
func newTestEditor(nodes []dgraph.Node, arcs []dgraph.Arc) (*Editor, *Queue) {
	q := &Queue{}
	e := New(Options{Handler: q, Rand: rand.New(rand.NewPCG(7, 11))})
	e.SetGraph(nodes, arcs)
	return e, q
}

// twoNodes is A at (10,10) and B at (200,10) joined by "Arc 1".
func twoNodes() ([]dgraph.Node, []dgraph.Arc) {
	nodes := []dgraph.Node{
		{ID: 1, Name: "A", Location: dgraph.Pt(10, 10)},
		{ID: 2, Name: "B", Location: dgraph.Pt(200, 10)},
	}
	arcs := []dgraph.Arc{
		{ID: 1, Name: "Arc 1", SourceID: 1, DestinationID: 2},
	}
	return nodes, arcs
}

func selectionOf(t *testing.T, ev Event) SelectionChanged {
	t.Helper()
	sc, ok := ev.(SelectionChanged)
	if !ok {
		t.Fatalf("expected SelectionChanged, got %T", ev)
	}
	return sc
}

func TestPrimaryPressSelects(t *testing.T) {
	e, q := newTestEditor(twoNodes())

	e.Press(ButtonPrimary, dgraph.Pt(12, 8))
	events := q.Drain()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	sc := selectionOf(t, events[0])
	if sc.Primary == nil || sc.Primary.ObjectName() != "A" || sc.Secondary != nil {
		t.Errorf("selection = %+v", sc)
	}
	if e.State() != StatePrimarySelected {
		t.Errorf("state = %v, want selected", e.State())
	}

	e.Release(ButtonPrimary, dgraph.Pt(12, 8))
	if q.Len() != 0 {
		t.Errorf("plain click release emitted %d events", q.Len())
	}
	if !e.IsSelected(e.Graph().Node(1)) {
		t.Error("A should stay selected after a plain click")
	}
}

func TestPrimaryPressSelectsArc(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	e.Press(ButtonPrimary, dgraph.Pt(100, 11))
	sc := selectionOf(t, q.Drain()[0])
	if sc.Primary == nil || sc.Primary.Kind() != dgraph.KindArc {
		t.Errorf("expected arc selection, got %+v", sc.Primary)
	}
}

func TestPressEmptyClearsSelection(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	e.Press(ButtonPrimary, dgraph.Pt(10, 10))
	e.Release(ButtonPrimary, dgraph.Pt(10, 10))
	q.Drain()

	e.Press(ButtonPrimary, dgraph.Pt(500, 500))
	events := q.Drain()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if sc := selectionOf(t, events[0]); sc.Primary != nil || sc.Secondary != nil {
		t.Errorf("expected null selection, got %+v", sc)
	}
	if e.State() != StateIdle {
		t.Errorf("state = %v, want idle", e.State())
	}
}

func TestDragEmitsOneMoveCompleted(t *testing.T) {
	e, q := newTestEditor(twoNodes())

	e.Press(ButtonPrimary, dgraph.Pt(10, 10))
	for _, p := range []dgraph.Point{{X: 20, Y: 20}, {X: 35, Y: 30}, {X: 50, Y: 50}} {
		e.Motion(p)
		if e.State() != StateDragging {
			t.Fatalf("state after motion = %v, want dragging", e.State())
		}
	}
	e.Release(ButtonPrimary, dgraph.Pt(50, 50))

	events := q.Drain()
	if len(events) != 2 {
		t.Fatalf("expected selection + move, got %d events", len(events))
	}
	selectionOf(t, events[0])
	mc, ok := events[1].(MoveCompleted)
	if !ok {
		t.Fatalf("second event is %T, want MoveCompleted", events[1])
	}
	if mc.Object.ObjectName() != "A" || mc.Location != dgraph.Pt(50, 50) {
		t.Errorf("MoveCompleted = %s at %v", mc.Object.ObjectName(), mc.Location)
	}
	if got := e.Graph().Node(1).Location; got != dgraph.Pt(50, 50) {
		t.Errorf("node location = %v", got)
	}
	if e.State() != StatePrimarySelected {
		t.Errorf("state after drop = %v", e.State())
	}
}

func TestMotionWithoutButtonDoesNothing(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	e.Press(ButtonPrimary, dgraph.Pt(10, 10))
	e.Release(ButtonPrimary, dgraph.Pt(10, 10))
	q.Drain()

	e.Motion(dgraph.Pt(80, 80))
	if e.Graph().Node(1).Location != dgraph.Pt(10, 10) {
		t.Error("node moved without the button held")
	}
	e.Release(ButtonPrimary, dgraph.Pt(80, 80))
	if q.Len() != 0 {
		t.Errorf("stray release emitted %d events", q.Len())
	}
}

func TestDragArcRelocatesCurve(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	e.Press(ButtonPrimary, dgraph.Pt(100, 10))
	e.Motion(dgraph.Pt(100, 60))
	e.Release(ButtonPrimary, dgraph.Pt(100, 60))

	events := q.Drain()
	mc, ok := events[len(events)-1].(MoveCompleted)
	if !ok || mc.Object.Kind() != dgraph.KindArc {
		t.Fatalf("expected arc MoveCompleted, got %v", events)
	}
	if e.Graph().Arc(1).Location != dgraph.Pt(100, 60) {
		t.Errorf("arc location = %v", e.Graph().Arc(1).Location)
	}
}

func TestSecondarySelection(t *testing.T) {
	tests := []struct {
		name      string
		primary   dgraph.Point
		secondary dgraph.Point
		wantSec   string
		wantPrim  string
	}{
		{"other node", dgraph.Pt(10, 10), dgraph.Pt(200, 10), "B", "A"},
		{"same as primary", dgraph.Pt(10, 10), dgraph.Pt(12, 12), "", "A"},
		{"arc", dgraph.Pt(10, 10), dgraph.Pt(100, 10), "Arc 1", "A"},
		{"nothing clears all", dgraph.Pt(10, 10), dgraph.Pt(400, 400), "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, q := newTestEditor(twoNodes())
			e.Press(ButtonPrimary, tt.primary)
			e.Release(ButtonPrimary, tt.primary)
			q.Drain()

			e.Press(ButtonSecondary, tt.secondary)
			events := q.Drain()
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			sc := selectionOf(t, events[0])
			if got := nameOf(sc.Primary); got != tt.wantPrim {
				t.Errorf("primary = %q, want %q", got, tt.wantPrim)
			}
			if got := nameOf(sc.Secondary); got != tt.wantSec {
				t.Errorf("secondary = %q, want %q", got, tt.wantSec)
			}
		})
	}
}

func nameOf(obj dgraph.Object) string {
	if obj == nil {
		return ""
	}
	return obj.ObjectName()
}

func TestNewPrimaryClearsSecondary(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	e.Press(ButtonPrimary, dgraph.Pt(10, 10))
	e.Release(ButtonPrimary, dgraph.Pt(10, 10))
	e.Press(ButtonSecondary, dgraph.Pt(200, 10))
	q.Drain()

	e.Press(ButtonPrimary, dgraph.Pt(200, 10))
	sc := selectionOf(t, q.Drain()[0])
	if nameOf(sc.Primary) != "B" || sc.Secondary != nil {
		t.Errorf("selection = %q/%q", nameOf(sc.Primary), nameOf(sc.Secondary))
	}
}

func TestUnSelectAlwaysEmits(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	for i := 0; i < 2; i++ {
		e.UnSelect()
		events := q.Drain()
		if len(events) != 1 {
			t.Fatalf("UnSelect #%d emitted %d events", i, len(events))
		}
		if sc := selectionOf(t, events[0]); sc.Primary != nil || sc.Secondary != nil {
			t.Errorf("UnSelect emitted %+v", sc)
		}
	}
}

func TestSetGraphReselectsByName(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	e.Press(ButtonPrimary, dgraph.Pt(10, 10))
	e.Release(ButtonPrimary, dgraph.Pt(10, 10))
	e.Press(ButtonSecondary, dgraph.Pt(200, 10))
	q.Drain()

	e.SetGraph([]dgraph.Node{
		{ID: 8, Name: "A", Location: dgraph.Pt(300, 300)},
		{ID: 9, Name: "C"},
	}, nil)

	sel := e.Selection()
	if sel.Primary == nil || sel.Primary.ObjectID() != 8 {
		t.Errorf("primary = %v, want new node A", sel.Primary)
	}
	if sel.Secondary != nil {
		t.Errorf("secondary B has no match but survived: %v", sel.Secondary)
	}
	events := q.Drain()
	if len(events) != 1 {
		t.Fatalf("SetGraph emitted %d events, want 1", len(events))
	}
	sc := selectionOf(t, events[0])
	if sc.Primary != sel.Primary || sc.Secondary != nil {
		t.Errorf("SelectionChanged = %v/%v", sc.Primary, sc.Secondary)
	}
}

func TestSetGraphSelectionNotifications(t *testing.T) {
	tests := []struct {
		name       string
		nodes      []dgraph.Node
		wantEvents int
		wantName   string
	}{
		{"unchanged", []dgraph.Node{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}, 0, "A"},
		{"cleared", []dgraph.Node{{ID: 1, Name: "renamed"}}, 1, ""},
		{"new object same name", []dgraph.Node{{ID: 5, Name: "A"}}, 1, "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, q := newTestEditor(twoNodes())
			e.Press(ButtonPrimary, dgraph.Pt(10, 10))
			e.Release(ButtonPrimary, dgraph.Pt(10, 10))
			q.Drain()

			e.SetGraph(tt.nodes, nil)
			events := q.Drain()
			if len(events) != tt.wantEvents {
				t.Fatalf("got %d events, want %d", len(events), tt.wantEvents)
			}
			if tt.wantEvents == 1 {
				if got := nameOf(selectionOf(t, events[0]).Primary); got != tt.wantName {
					t.Errorf("primary = %q, want %q", got, tt.wantName)
				}
			}
		})
	}
}

func TestSecondaryPressWithoutPrimary(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	e.Press(ButtonSecondary, dgraph.Pt(10, 10))

	sc := selectionOf(t, q.Drain()[0])
	if nameOf(sc.Primary) != "A" || sc.Secondary != nil {
		t.Errorf("selection = %q/%q, want A as primary", nameOf(sc.Primary), nameOf(sc.Secondary))
	}
	if e.State() != StatePrimarySelected {
		t.Errorf("state = %v", e.State())
	}
	if labels(e.Menu())[0] != "Duplicate A" {
		t.Errorf("menu = %v", labels(e.Menu()))
	}

	// The promoted object is the one DeleteSelection removes.
	e.DeleteSelection()
	if e.Graph().NodeByName("A") != nil || e.Graph().NodeByName("B") == nil {
		t.Error("DeleteSelection removed the wrong node")
	}
}

func TestDragArcToOrigin(t *testing.T) {
	e, q := newTestEditor([]dgraph.Node{
		{ID: 1, Name: "A", Location: dgraph.Pt(-100, 0)},
		{ID: 2, Name: "B", Location: dgraph.Pt(100, 100)},
	}, []dgraph.Arc{{ID: 3, Name: "Arc 3", SourceID: 1, DestinationID: 2}})

	e.Press(ButtonPrimary, dgraph.Pt(0, 50))
	e.Motion(dgraph.Pt(0, 0))
	e.Release(ButtonPrimary, dgraph.Pt(0, 0))

	events := q.Drain()
	mc, ok := events[len(events)-1].(MoveCompleted)
	if !ok || mc.Location != dgraph.Pt(0, 0) {
		t.Fatalf("expected MoveCompleted at origin, got %v", events)
	}
	arc := e.Graph().Arc(3)
	if e.Graph().HitTestArc(dgraph.Pt(0, 0)) != arc {
		t.Error("arc is not under the point it was dragged to")
	}
	if e.Graph().HitTestArc(dgraph.Pt(0, 50)) != nil {
		t.Error("arc snapped back to the straight line")
	}
}

func TestSelfLoopDoesNotDrag(t *testing.T) {
	e, q := newTestEditor([]dgraph.Node{
		{ID: 1, Name: "A", Location: dgraph.Pt(100, 100)},
	}, []dgraph.Arc{{ID: 2, Name: "Arc 2", SourceID: 1, DestinationID: 1}})
	loop := e.Graph().Arc(2)
	on := loop.LabelPoint()

	e.Press(ButtonPrimary, on)
	if e.Selection().Primary != dgraph.Object(loop) {
		t.Fatalf("press at %v selected %v, want the loop", on, e.Selection().Primary)
	}
	q.Drain()

	e.Motion(on.Add(dgraph.Pt(40, 40)))
	e.Release(ButtonPrimary, on.Add(dgraph.Pt(40, 40)))
	for _, ev := range q.Drain() {
		if _, ok := ev.(MoveCompleted); ok {
			t.Error("self loop reported a move")
		}
	}
	if loop.HasLocation {
		t.Error("self loop recorded a location")
	}
	if e.State() == StateDragging {
		t.Error("still dragging after release")
	}
}

func TestSetGraphClearsMissingSelection(t *testing.T) {
	e, _ := newTestEditor(twoNodes())
	e.Press(ButtonPrimary, dgraph.Pt(10, 10))
	e.SetGraph([]dgraph.Node{{ID: 1, Name: "renamed"}}, nil)

	if e.Selection().Primary != nil {
		t.Error("selection survived with no matching name")
	}
	if e.State() != StateIdle {
		t.Errorf("state = %v, want idle", e.State())
	}
}

func TestSetGraphResetsDrag(t *testing.T) {
	e, q := newTestEditor(twoNodes())
	e.Press(ButtonPrimary, dgraph.Pt(10, 10))
	e.Motion(dgraph.Pt(30, 30))

	nodes, arcs := twoNodes()
	e.SetGraph(nodes, arcs)
	q.Drain()

	e.Motion(dgraph.Pt(90, 90))
	e.Release(ButtonPrimary, dgraph.Pt(90, 90))
	if q.Len() != 0 {
		t.Errorf("drag survived SetGraph: %d events", q.Len())
	}
	if e.Graph().Node(1).Location != dgraph.Pt(10, 10) {
		t.Errorf("node moved after SetGraph: %v", e.Graph().Node(1).Location)
	}
}

func TestRedrawRequested(t *testing.T) {
	redraws := 0
	e := New(Options{RequestRedraw: func() { redraws++ }})
	nodes, arcs := twoNodes()
	e.SetGraph(nodes, arcs)
	before := redraws
	e.Press(ButtonPrimary, dgraph.Pt(10, 10))
	if redraws <= before {
		t.Error("selection change did not request a redraw")
	}
}
