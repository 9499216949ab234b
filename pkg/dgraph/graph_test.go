package dgraph

import (
	"testing"
)

func sampleGraph() *Graph {
	g := New()
	g.SetGraph(
		[]Node{
			{ID: 1, Name: "A", Location: Pt(10, 10)},
			{ID: 2, Name: "B", Location: Pt(200, 10)},
		},
		[]Arc{
			{ID: 1, Name: "Arc 1", SourceID: 1, DestinationID: 2},
		},
	)
	return g
}

func TestSetGraphResolvesEndpoints(t *testing.T) {
	g := New()
	g.SetGraph(
		[]Node{
			{ID: 1, Name: "A"},
			{ID: 2, Name: "B"},
			{ID: 7, Name: "C"},
		},
		[]Arc{
			{ID: 3, SourceID: 1, DestinationID: 2},
			{ID: 4, SourceID: 7, DestinationID: 7},
			{ID: 5, SourceID: 2, DestinationID: 99},
		},
	)

	tests := []struct {
		arc      int
		src, dst int // 0 means unresolved
	}{
		{3, 1, 2},
		{4, 7, 7},
		{5, 2, 0},
	}
	for _, tt := range tests {
		a := g.Arc(tt.arc)
		if a == nil {
			t.Fatalf("arc %d missing", tt.arc)
		}
		check := func(label string, got *Node, want int) {
			if want == 0 {
				if got != nil {
					t.Errorf("arc %d %s: expected unresolved, got node %d", tt.arc, label, got.ID)
				}
				return
			}
			if got == nil || got.ID != want {
				t.Errorf("arc %d %s: expected node %d, got %v", tt.arc, label, want, got)
			} else if got != g.Node(want) {
				t.Errorf("arc %d %s: reference is not the live node", tt.arc, label)
			}
		}
		check("source", a.Source, tt.src)
		check("destination", a.Destination, tt.dst)
	}

	if g.Arc(5).Resolved() {
		t.Error("arc with a missing endpoint should not be resolved")
	}
}

func TestSetGraphCopiesInput(t *testing.T) {
	nodes := []Node{{ID: 1, Name: "A"}}
	arcs := []Arc{{ID: 2, SourceID: 1, DestinationID: 1, Conditions: []string{"x > 1"}}}
	g := New()
	g.SetGraph(nodes, arcs)

	nodes[0].Name = "changed"
	arcs[0].Conditions[0] = "changed"

	if g.Node(1).Name != "A" {
		t.Errorf("node name followed caller slice: %q", g.Node(1).Name)
	}
	if g.Arc(2).Conditions[0] != "x > 1" {
		t.Errorf("arc conditions followed caller slice: %q", g.Arc(2).Conditions[0])
	}
}

func TestSetGraphReplacesContents(t *testing.T) {
	g := sampleGraph()
	g.SetGraph([]Node{{ID: 5, Name: "Z"}}, nil)

	if len(g.Nodes()) != 1 || len(g.Arcs()) != 0 {
		t.Fatalf("expected 1 node and 0 arcs, got %d and %d", len(g.Nodes()), len(g.Arcs()))
	}
	if g.Node(1) != nil {
		t.Error("old node survived SetGraph")
	}
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []Node
		arcs      []Arc
		excluding []int
		want      int
	}{
		{"empty", nil, nil, nil, 1},
		{"dense", []Node{{ID: 1}, {ID: 2}}, []Arc{{ID: 3}}, nil, 4},
		{"gap", []Node{{ID: 1}, {ID: 3}}, nil, nil, 2},
		{"arc fills gap", []Node{{ID: 1}, {ID: 3}}, []Arc{{ID: 2}}, nil, 4},
		{"shared value", []Node{{ID: 1}, {ID: 2}}, []Arc{{ID: 1}}, nil, 3},
		{"excluded", []Node{{ID: 1}}, nil, []int{2, 3}, 4},
		{"zero never returned", []Node{{ID: 0}}, nil, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.SetGraph(tt.nodes, tt.arcs)
			if got := g.NextID(tt.excluding...); got != tt.want {
				t.Errorf("NextID(%v) = %d, want %d", tt.excluding, got, tt.want)
			}
		})
	}
}

func TestNextIDIncrementalReservation(t *testing.T) {
	g := sampleGraph()
	var reserved []int
	seen := map[int]bool{}
	for i := 0; i < 5; i++ {
		id := g.NextID(reserved...)
		if seen[id] {
			t.Fatalf("NextID returned %d twice", id)
		}
		if g.Node(id) != nil || g.Arc(id) != nil {
			t.Fatalf("NextID returned live ID %d", id)
		}
		seen[id] = true
		reserved = append(reserved, id)
	}
}

func TestAddNodeResolvesWaitingArcs(t *testing.T) {
	g := New()
	g.SetGraph([]Node{{ID: 1}}, []Arc{{ID: 2, SourceID: 1, DestinationID: 3}})
	if g.Arc(2).Resolved() {
		t.Fatal("arc should start unresolved")
	}

	n := g.AddNode(Node{ID: 3, Name: "late"})
	if g.Arc(2).Destination != n {
		t.Error("arc was not resolved against the added node")
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	g := New()
	g.SetGraph(
		[]Node{{ID: 1}, {ID: 2}, {ID: 3}},
		[]Arc{
			{ID: 4, SourceID: 1, DestinationID: 2},
			{ID: 5, SourceID: 2, DestinationID: 3},
			{ID: 6, SourceID: 3, DestinationID: 1},
			{ID: 7, SourceID: 2, DestinationID: 2},
		},
	)

	removed, ok := g.RemoveNode(2)
	if !ok {
		t.Fatal("RemoveNode(2) reported missing node")
	}
	if len(removed) != 3 || removed[0] != 4 || removed[1] != 5 || removed[2] != 7 {
		t.Errorf("removed arcs = %v, want [4 5 7]", removed)
	}
	if len(g.Arcs()) != 1 || g.Arcs()[0].ID != 6 {
		t.Errorf("remaining arcs wrong: %d left", len(g.Arcs()))
	}
	if _, ok := g.RemoveNode(2); ok {
		t.Error("second RemoveNode(2) should report false")
	}
}

func TestRemoveArc(t *testing.T) {
	g := sampleGraph()
	if !g.RemoveArc(1) {
		t.Fatal("RemoveArc(1) = false")
	}
	if g.RemoveArc(1) {
		t.Error("RemoveArc(1) twice = true")
	}
	if len(g.Nodes()) != 2 {
		t.Error("RemoveArc touched nodes")
	}
}

func TestLookupAndNames(t *testing.T) {
	g := sampleGraph()

	if obj := g.Lookup(KindNode, 1); obj == nil || obj.ObjectName() != "A" {
		t.Errorf("Lookup(node, 1) = %v", obj)
	}
	if obj := g.Lookup(KindArc, 1); obj == nil || obj.Kind() != KindArc {
		t.Errorf("Lookup(arc, 1) = %v", obj)
	}
	if obj := g.Lookup(KindArc, 9); obj != nil {
		t.Errorf("Lookup(arc, 9) = %v, want nil", obj)
	}

	g.AddNode(Node{ID: 3, Name: "A"})
	if n := g.NodeByName("A"); n == nil || n.ID != 3 {
		t.Errorf("NodeByName should return the last match, got %v", n)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	g := sampleGraph()
	g.Arc(1).BezierPoints = []Point{Pt(100, 50)}

	nodes, arcs := g.Snapshot()
	if arcs[0].Source != nil || arcs[0].Destination != nil {
		t.Error("snapshot arcs should not carry resolved references")
	}
	nodes[0].Name = "changed"
	arcs[0].BezierPoints[0] = Pt(0, 0)

	if g.Node(1).Name != "A" {
		t.Error("snapshot shares node storage")
	}
	if g.Arc(1).BezierPoints[0] != Pt(100, 50) {
		t.Error("snapshot shares bezier storage")
	}
}

func TestArcDefaults(t *testing.T) {
	a := Arc{ID: 4, Name: "Arc 4"}
	if !a.HasDefaultName() {
		t.Error("Arc 4 should have its default name")
	}
	a.Name = "go"
	if a.HasDefaultName() {
		t.Error("renamed arc reported default name")
	}
	if DefaultNodeName(3) != "Node 3" {
		t.Errorf("DefaultNodeName(3) = %q", DefaultNodeName(3))
	}
}

func TestArcMoveToDropsBezier(t *testing.T) {
	a := &Arc{BezierPoints: []Point{Pt(1, 1)}}
	a.MoveTo(Pt(5, 6))
	if a.Position() != Pt(5, 6) {
		t.Errorf("Position = %v", a.Position())
	}
	if a.BezierPoints != nil {
		t.Error("MoveTo kept stale control points")
	}
}

func TestArcClonePreservesEmptyLists(t *testing.T) {
	tests := []struct {
		name    string
		arc     Arc
		wantNil bool
	}{
		{"empty", Arc{BezierPoints: []Point{}, Conditions: []string{}, Actions: []string{}}, false},
		{"nil", Arc{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.arc.Clone()
			if (c.BezierPoints == nil) != tt.wantNil {
				t.Errorf("BezierPoints nil = %v, want %v", c.BezierPoints == nil, tt.wantNil)
			}
			if (c.Conditions == nil) != tt.wantNil {
				t.Errorf("Conditions nil = %v, want %v", c.Conditions == nil, tt.wantNil)
			}
			if (c.Actions == nil) != tt.wantNil {
				t.Errorf("Actions nil = %v, want %v", c.Actions == nil, tt.wantNil)
			}
		})
	}
}

func TestAddArcKeepsEmptyLists(t *testing.T) {
	g := sampleGraph()
	a := g.AddArc(Arc{
		ID:            g.NextID(),
		SourceID:      1,
		DestinationID: 2,
		BezierPoints:  []Point{},
		Conditions:    []string{},
		Actions:       []string{},
	})
	if a.BezierPoints == nil || a.Conditions == nil || a.Actions == nil {
		t.Error("stored arc lost its empty lists")
	}
}

func TestNextIDNeverZero(t *testing.T) {
	g := New()
	if id := g.NextID(); id != 1 {
		t.Errorf("NextID on empty graph = %d, want 1", id)
	}
	g.SetGraph([]Node{{ID: 0, Name: "zero"}}, nil)
	if id := g.NextID(); id == CursorNodeID {
		t.Errorf("NextID returned the cursor node ID")
	}
}
