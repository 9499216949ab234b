// Package chartedit implements the interactive part of the bubble chart
// editor on top of a dgraph.Graph: selection and dragging, the two-step
// arc drawing protocol, node and arc duplication, and context menu
// commands. It is toolkit independent; a front end feeds it pointer events
// in chart coordinates and renders the graph it exposes.
//
// The editor is single threaded. Every method runs to completion and
// reports changes through the Handler given at construction.
package chartedit

import (
	"math/rand/v2"
	"time"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary   Button = iota // left click: select and drag
	ButtonSecondary               // right click: second selection, finish arc
)

// State is the selection and drag state.
type State int

const (
	StateIdle State = iota
	StatePrimarySelected
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrimarySelected:
		return "selected"
	case StateDragging:
		return "dragging"
	}
	return "unknown"
}

// Selection is the current primary and secondary selection. Either may be nil.
type Selection struct {
	Primary   dgraph.Object
	Secondary dgraph.Object
}

// Options configures an Editor. The zero value is usable.
type Options struct {
	// Handler receives notifications. Nil discards them.
	Handler Handler
	// Palette supplies colours for new and duplicated nodes. An empty
	// palette means dgraph.DefaultPalette().
	Palette dgraph.Palette
	// Rand picks palette colours. Nil means a time-seeded source.
	Rand *rand.Rand
	// RequestRedraw is called whenever the appearance may have changed.
	RequestRedraw func()
}

// Editor is the interactive controller for one graph.
type Editor struct {
	graph   *dgraph.Graph
	handler Handler
	palette dgraph.Palette
	rng     *rand.Rand
	redraw  func()

	primary   dgraph.Object
	secondary dgraph.Object
	state     State

	// Primary button gesture.
	buttonDown bool
	dragAnchor dgraph.Point
	dragged    bool

	// Arc drawing protocol.
	arcDrawing  bool
	arcSource   *dgraph.Node
	cursor      *dgraph.Node
	placeholder *dgraph.Arc

	pointer dgraph.Point
}

// New returns an editor over an empty graph.
func New(opts Options) *Editor {
	e := &Editor{
		graph:   dgraph.New(),
		handler: opts.Handler,
		palette: opts.Palette,
		rng:     opts.Rand,
		redraw:  opts.RequestRedraw,
	}
	if len(e.palette.Colours) == 0 {
		e.palette = dgraph.DefaultPalette()
	}
	if e.rng == nil {
		seed := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return e
}

// Graph returns the graph being edited.
func (e *Editor) Graph() *dgraph.Graph { return e.graph }

// Selection returns the current selection.
func (e *Editor) Selection() Selection {
	return Selection{Primary: e.primary, Secondary: e.secondary}
}

// State returns the selection and drag state.
func (e *Editor) State() State { return e.state }

// IsSelected reports whether obj is the primary or secondary selection.
func (e *Editor) IsSelected(obj dgraph.Object) bool {
	if obj == nil {
		return false
	}
	return sameObject(obj, e.primary) || sameObject(obj, e.secondary)
}

// Pointer returns the last pointer position seen.
func (e *Editor) Pointer() dgraph.Point { return e.pointer }

// SetGraph replaces the graph contents. Any drag or arc in progress is
// abandoned. A previous selection is carried over to an object of the same
// name in the new data, otherwise it is cleared. SelectionChanged is
// emitted when the selection ends up on a different object.
func (e *Editor) SetGraph(nodes []dgraph.Node, arcs []dgraph.Arc) {
	primary := describe(e.primary)
	secondary := describe(e.secondary)

	e.endArc()
	e.resetDrag()
	e.graph.SetGraph(nodes, arcs)

	e.primary = e.findByName(primary)
	e.secondary = e.findByName(secondary)
	if e.primary == nil || sameObject(e.primary, e.secondary) {
		e.secondary = nil
	}
	e.settle()
	if describe(e.primary) != primary || describe(e.secondary) != secondary {
		e.emitSelection()
	}
	e.requestRedraw()
}

// UnSelect clears both selections, abandons any drag or arc in progress and
// always emits a SelectionChanged with no objects.
func (e *Editor) UnSelect() {
	e.endArc()
	e.resetDrag()
	e.primary, e.secondary = nil, nil
	e.state = StateIdle
	e.emitSelection()
	e.requestRedraw()
}

type objectName struct {
	kind  dgraph.Kind
	id    int
	name  string
	valid bool
}

func describe(obj dgraph.Object) objectName {
	if obj == nil {
		return objectName{}
	}
	return objectName{kind: obj.Kind(), id: obj.ObjectID(), name: obj.ObjectName(), valid: true}
}

// findByName prefers an object of the same kind, then the other kind.
func (e *Editor) findByName(d objectName) dgraph.Object {
	if !d.valid {
		return nil
	}
	node := e.graph.NodeByName(d.name)
	arc := e.graph.ArcByName(d.name)
	if d.kind == dgraph.KindArc && arc != nil {
		return arc
	}
	if node != nil {
		return node
	}
	if arc != nil {
		return arc
	}
	return nil
}

// sameObject compares objects by kind and ID so that nil interfaces and
// typed nils never match a live object.
func sameObject(a, b dgraph.Object) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Kind() == b.Kind() && a.ObjectID() == b.ObjectID()
}

// settle recomputes the state from the selection after a discrete change.
func (e *Editor) settle() {
	if e.primary != nil {
		e.state = StatePrimarySelected
	} else {
		e.state = StateIdle
	}
}

func (e *Editor) resetDrag() {
	e.buttonDown = false
	e.dragged = false
}

// dropReferences forgets selection references to objects no longer in the graph.
func (e *Editor) dropReferences() bool {
	changed := false
	if e.primary != nil && e.graph.Lookup(e.primary.Kind(), e.primary.ObjectID()) != e.primary {
		e.primary = nil
		changed = true
	}
	if e.secondary != nil && e.graph.Lookup(e.secondary.Kind(), e.secondary.ObjectID()) != e.secondary {
		e.secondary = nil
		changed = true
	}
	if e.primary == nil && e.secondary != nil {
		e.secondary = nil
		changed = true
	}
	if changed {
		e.resetDrag()
		e.settle()
	}
	return changed
}

func (e *Editor) emit(ev Event) {
	if e.handler != nil {
		e.handler.HandleEvent(ev)
	}
}

func (e *Editor) emitSelection() {
	e.emit(SelectionChanged{Primary: e.primary, Secondary: e.secondary})
}

func (e *Editor) requestRedraw() {
	if e.redraw != nil {
		e.redraw()
	}
}
