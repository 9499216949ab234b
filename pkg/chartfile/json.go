package chartfile

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

const documentVersion = 1

// jsonChart is the JSON representation of a Document.
type jsonChart struct {
	Version     int        `json:"version"`
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Initial     string     `json:"initial,omitempty"`
	Nodes       []jsonNode `json:"nodes"`
	Arcs        []jsonArc  `json:"arcs"`
}

type jsonNode struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	X           float64 `json:"x,omitempty"`
	Y           float64 `json:"y,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Outline     string  `json:"outline,omitempty"`
}

type jsonArc struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Source      int         `json:"source"`
	Destination int         `json:"destination"`
	X           float64     `json:"x,omitempty"`
	Y           float64     `json:"y,omitempty"`
	Anchored    bool        `json:"anchored,omitempty"`
	Bezier      []jsonPoint `json:"bezier,omitempty"`
	Conditions  []string    `json:"conditions"`
	Actions     []string    `json:"actions"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ParseJSON parses a document from JSON. A missing id gets a fresh one.
func ParseJSON(data []byte) (*Document, error) {
	var j jsonChart
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("chartfile: parse json: %w", err)
	}

	doc := &Document{
		Name:        j.Name,
		Description: j.Description,
		Initial:     j.Initial,
	}
	if j.ID == "" {
		doc.ID = uuid.New()
	} else {
		id, err := uuid.Parse(j.ID)
		if err != nil {
			return nil, fmt.Errorf("chartfile: document id: %w", err)
		}
		doc.ID = id
	}

	for _, jn := range j.Nodes {
		n := dgraph.Node{
			ID:          jn.ID,
			Name:        jn.Name,
			Description: jn.Description,
			Location:    dgraph.Pt(jn.X, jn.Y),
		}
		var err error
		if n.Fill, err = parseColour(jn.Fill); err != nil {
			return nil, fmt.Errorf("chartfile: node %d fill: %w", jn.ID, err)
		}
		if jn.Outline == "" {
			n.Outline = dgraph.OutlineFor(n.Fill)
		} else if n.Outline, err = parseColour(jn.Outline); err != nil {
			return nil, fmt.Errorf("chartfile: node %d outline: %w", jn.ID, err)
		}
		doc.Nodes = append(doc.Nodes, n)
	}

	for _, ja := range j.Arcs {
		a := dgraph.Arc{
			ID:            ja.ID,
			Name:          ja.Name,
			SourceID:      ja.Source,
			DestinationID: ja.Destination,
			Location:      dgraph.Pt(ja.X, ja.Y),
			HasLocation:   ja.Anchored || ja.X != 0 || ja.Y != 0,
			Conditions:    nonNil(ja.Conditions),
			Actions:       nonNil(ja.Actions),
		}
		for _, p := range ja.Bezier {
			a.BezierPoints = append(a.BezierPoints, dgraph.Pt(p.X, p.Y))
		}
		doc.Arcs = append(doc.Arcs, a)
	}

	return doc, nil
}

// ToJSON converts a document to JSON.
func ToJSON(doc *Document, pretty bool) ([]byte, error) {
	j := jsonChart{
		Version:     documentVersion,
		ID:          doc.ID.String(),
		Name:        doc.Name,
		Description: doc.Description,
		Initial:     doc.Initial,
		Nodes:       make([]jsonNode, 0, len(doc.Nodes)),
		Arcs:        make([]jsonArc, 0, len(doc.Arcs)),
	}

	for _, n := range doc.Nodes {
		j.Nodes = append(j.Nodes, jsonNode{
			ID:          n.ID,
			Name:        n.Name,
			Description: n.Description,
			X:           n.Location.X,
			Y:           n.Location.Y,
			Fill:        n.Fill.Clamped().Hex(),
			Outline:     n.Outline.Clamped().Hex(),
		})
	}

	for _, a := range doc.Arcs {
		ja := jsonArc{
			ID:          a.ID,
			Name:        a.Name,
			Source:      a.SourceID,
			Destination: a.DestinationID,
			Conditions:  nonNil(a.Conditions),
			Actions:     nonNil(a.Actions),
		}
		if a.HasLocation {
			ja.X, ja.Y, ja.Anchored = a.Location.X, a.Location.Y, true
		}
		for _, p := range a.BezierPoints {
			ja.Bezier = append(ja.Bezier, jsonPoint{p.X, p.Y})
		}
		j.Arcs = append(j.Arcs, ja)
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}

func parseColour(s string) (colorful.Color, error) {
	if s == "" {
		return colorful.Color{}, nil
	}
	return colorful.Hex(s)
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return append([]string{}, lines...)
}
