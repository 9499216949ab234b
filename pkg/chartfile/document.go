// Package chartfile reads, writes and exports bubble chart documents.
//
// A document is stored either as a single JSON file or as a .chart
// archive: a zip holding chart.json (the model) and layout.toml (node
// positions, arc curves and the editor viewport). Charts can also be
// exported to Graphviz DOT, SVG and PNG.
package chartfile

import (
	"errors"

	"github.com/google/uuid"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

var (
	// ErrUnknownFormat is returned when a path's extension names no
	// supported format.
	ErrUnknownFormat = errors.New("chartfile: unknown format")
	// ErrMissingEntry is returned when a .chart archive lacks chart.json.
	ErrMissingEntry = errors.New("chartfile: chart.json not found in archive")
)

// Document is a persisted chart: the graph plus chart level metadata.
type Document struct {
	ID          uuid.UUID
	Name        string
	Description string
	// Initial names the starting node. Empty means none.
	Initial string
	// Offset is the editor's viewport origin in chart coordinates.
	Offset dgraph.Point
	Nodes  []dgraph.Node
	Arcs   []dgraph.Arc
}

// NewDocument returns an empty document with a fresh ID.
func NewDocument(name string) *Document {
	return &Document{ID: uuid.New(), Name: name}
}

// Graph builds a resolved graph from the document's nodes and arcs.
func (d *Document) Graph() *dgraph.Graph {
	g := dgraph.New()
	g.SetGraph(d.Nodes, d.Arcs)
	return g
}

// SetGraph replaces the document's nodes and arcs with a snapshot of g.
func (d *Document) SetGraph(g *dgraph.Graph) {
	d.Nodes, d.Arcs = g.Snapshot()
}

// InitialNode returns the node named by Initial, or nil.
func (d *Document) InitialNode() *dgraph.Node {
	if d.Initial == "" {
		return nil
	}
	for i := range d.Nodes {
		if d.Nodes[i].Name == d.Initial {
			return &d.Nodes[i]
		}
	}
	return nil
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := *d
	c.Nodes = append([]dgraph.Node(nil), d.Nodes...)
	c.Arcs = make([]dgraph.Arc, len(d.Arcs))
	for i := range d.Arcs {
		c.Arcs[i] = d.Arcs[i].Clone()
		c.Arcs[i].Source, c.Arcs[i].Destination = nil, nil
	}
	return &c
}
