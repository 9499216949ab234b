package chartedit

import "github.com/ha1tch/bubblechart/pkg/dgraph"

// Event is a notification from the editor to its caller. The concrete
// types are SelectionChanged, MoveCompleted, NodeAdded, ArcAdded,
// NodeDeleted, ArcsDeleted and GraphChanged.
type Event interface {
	event()
}

// SelectionChanged carries the new selection. Either field may be nil.
type SelectionChanged struct {
	Primary   dgraph.Object
	Secondary dgraph.Object
}

// MoveCompleted is sent once when a drag ends.
type MoveCompleted struct {
	Object   dgraph.Object
	Location dgraph.Point
}

// NodeAdded carries a copy of a node that was added to the graph.
type NodeAdded struct {
	Node dgraph.Node
}

// ArcAdded carries a copy of an arc that was added to the graph.
type ArcAdded struct {
	Arc dgraph.Arc
}

// NodeDeleted reports a removed node.
type NodeDeleted struct {
	ID   int
	Name string
}

// ArcsDeleted reports a batch of removed arcs.
type ArcsDeleted struct {
	IDs []int
}

// GraphChanged reports a property edit (name, description, colour,
// conditions or actions) on Object.
type GraphChanged struct {
	Object dgraph.Object
}

func (SelectionChanged) event() {}
func (MoveCompleted) event()    {}
func (NodeAdded) event()        {}
func (ArcAdded) event()         {}
func (NodeDeleted) event()      {}
func (ArcsDeleted) event()      {}
func (GraphChanged) event()     {}

// Handler receives editor notifications. HandleEvent runs synchronously on
// the input thread and must not feed input back into the editor.
type Handler interface {
	HandleEvent(ev Event)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev Event)

// HandleEvent calls f(ev).
func (f HandlerFunc) HandleEvent(ev Event) { f(ev) }

// Queue is a Handler that buffers events in order for the caller to drain
// after each input event.
type Queue struct {
	events []Event
}

// HandleEvent appends ev to the queue.
func (q *Queue) HandleEvent(ev Event) {
	q.events = append(q.events, ev)
}

// Drain returns the buffered events and empties the queue.
func (q *Queue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of buffered events.
func (q *Queue) Len() int { return len(q.events) }
