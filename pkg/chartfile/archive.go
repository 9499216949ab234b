package chartfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

const (
	chartEntry  = "chart.json"
	layoutEntry = "layout.toml"
)

// Layout is the layout.toml content of a .chart archive. Nodes and arcs are
// keyed by decimal ID.
type Layout struct {
	Version int                  `toml:"version"`
	Editor  EditorMeta           `toml:"editor"`
	Nodes   map[string]Position  `toml:"nodes"`
	Arcs    map[string]ArcLayout `toml:"arcs"`
}

// EditorMeta holds editor state saved alongside the chart.
type EditorMeta struct {
	OffsetX float64 `toml:"offset_x"`
	OffsetY float64 `toml:"offset_y"`
}

// Position is a point in chart coordinates.
type Position struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

// ArcLayout is the curve of one arc. X and Y are meaningful only when
// Anchored is set.
type ArcLayout struct {
	X        float64    `toml:"x"`
	Y        float64    `toml:"y"`
	Anchored bool       `toml:"anchored,omitempty"`
	Bezier   []Position `toml:"bezier,omitempty"`
}

// LayoutOf extracts the geometry of doc.
func LayoutOf(doc *Document) *Layout {
	l := &Layout{
		Version: documentVersion,
		Editor:  EditorMeta{OffsetX: doc.Offset.X, OffsetY: doc.Offset.Y},
		Nodes:   make(map[string]Position, len(doc.Nodes)),
		Arcs:    make(map[string]ArcLayout, len(doc.Arcs)),
	}
	for _, n := range doc.Nodes {
		l.Nodes[strconv.Itoa(n.ID)] = Position{n.Location.X, n.Location.Y}
	}
	for _, a := range doc.Arcs {
		var al ArcLayout
		if a.HasLocation {
			al = ArcLayout{X: a.Location.X, Y: a.Location.Y, Anchored: true}
		}
		for _, p := range a.BezierPoints {
			al.Bezier = append(al.Bezier, Position{p.X, p.Y})
		}
		l.Arcs[strconv.Itoa(a.ID)] = al
	}
	return l
}

// Apply copies the layout's geometry onto doc. Objects the layout does not
// mention keep their current geometry.
func (l *Layout) Apply(doc *Document) {
	doc.Offset = dgraph.Pt(l.Editor.OffsetX, l.Editor.OffsetY)
	for i := range doc.Nodes {
		if p, ok := l.Nodes[strconv.Itoa(doc.Nodes[i].ID)]; ok {
			doc.Nodes[i].Location = dgraph.Pt(p.X, p.Y)
		}
	}
	for i := range doc.Arcs {
		al, ok := l.Arcs[strconv.Itoa(doc.Arcs[i].ID)]
		if !ok {
			continue
		}
		doc.Arcs[i].Location = dgraph.Pt(al.X, al.Y)
		doc.Arcs[i].HasLocation = al.Anchored || al.X != 0 || al.Y != 0
		doc.Arcs[i].BezierPoints = nil
		for _, p := range al.Bezier {
			doc.Arcs[i].BezierPoints = append(doc.Arcs[i].BezierPoints, dgraph.Pt(p.X, p.Y))
		}
	}
}

// GenerateLayout encodes the geometry of doc as layout.toml.
func GenerateLayout(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(LayoutOf(doc)); err != nil {
		return nil, fmt.Errorf("chartfile: encode layout: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseLayout decodes layout.toml content.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := toml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("chartfile: parse layout: %w", err)
	}
	return &l, nil
}

// WriteChartFile writes doc to a .chart file.
func WriteChartFile(path string, doc *Document) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteChart(file, doc); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteChart writes doc to w in .chart format. Geometry goes to
// layout.toml only.
func WriteChart(w io.Writer, doc *Document) error {
	zw := zip.NewWriter(w)

	model := doc.Clone()
	model.Offset = dgraph.Point{}
	for i := range model.Nodes {
		model.Nodes[i].Location = dgraph.Point{}
	}
	for i := range model.Arcs {
		model.Arcs[i].Location = dgraph.Point{}
		model.Arcs[i].HasLocation = false
		model.Arcs[i].BezierPoints = nil
	}
	chart, err := ToJSON(model, true)
	if err != nil {
		return err
	}
	layout, err := GenerateLayout(doc)
	if err != nil {
		return err
	}

	for _, entry := range []struct {
		name string
		data []byte
	}{
		{chartEntry, chart},
		{layoutEntry, layout},
	} {
		ew, err := zw.Create(entry.name)
		if err != nil {
			return fmt.Errorf("chartfile: %s: %w", entry.name, err)
		}
		if _, err := ew.Write(entry.data); err != nil {
			return fmt.Errorf("chartfile: %s: %w", entry.name, err)
		}
	}
	return zw.Close()
}

// ReadChartFile reads a document from a .chart file.
func ReadChartFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	return ReadChart(file, info.Size())
}

// ReadChart reads a document in .chart format. layout.toml is optional.
func ReadChart(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("chartfile: open archive: %w", err)
	}

	var chart, layout []byte
	for _, f := range zr.File {
		if f.Name != chartEntry && f.Name != layoutEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("chartfile: %s: %w", f.Name, err)
		}
		if f.Name == chartEntry {
			chart = data
		} else {
			layout = data
		}
	}

	if chart == nil {
		return nil, ErrMissingEntry
	}
	doc, err := ParseJSON(chart)
	if err != nil {
		return nil, err
	}
	if layout != nil {
		l, err := ParseLayout(layout)
		if err != nil {
			return nil, err
		}
		l.Apply(doc)
	}
	return doc, nil
}

// ReadChartBytes reads a document from bytes in .chart format.
func ReadChartBytes(data []byte) (*Document, error) {
	return ReadChart(bytes.NewReader(data), int64(len(data)))
}
