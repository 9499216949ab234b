package chartfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a file format a chart can be loaded from or written to.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatChart
	FormatDOT
	FormatSVG
	FormatPNG
)

var formatNames = []string{"unknown", "json", "chart", "dot", "svg", "png"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Loadable reports whether documents can be read back from f.
func (f Format) Loadable() bool {
	return f == FormatJSON || f == FormatChart
}

// ParseFormat maps a format name or file extension (with or without the
// leading dot) to a Format.
func ParseFormat(name string) Format {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON
	case "chart":
		return FormatChart
	case "dot", "gv":
		return FormatDOT
	case "svg":
		return FormatSVG
	case "png":
		return FormatPNG
	}
	return FormatUnknown
}

// FormatFromPath picks a Format from a path's extension.
func FormatFromPath(path string) Format {
	return ParseFormat(filepath.Ext(path))
}

// Load reads a document from a .json or .chart file.
func Load(path string) (*Document, error) {
	switch FormatFromPath(path) {
	case FormatJSON:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ParseJSON(data)
	case FormatChart:
		return ReadChartFile(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Save writes doc to path in the format its extension names.
func Save(path string, doc *Document) error {
	format := FormatFromPath(path)
	if format == FormatChart {
		return WriteChartFile(path, doc)
	}
	var buf bytes.Buffer
	if err := Export(&buf, doc, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Export writes doc to w in the given format with default options.
func Export(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		data, err := ToJSON(doc, true)
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatChart:
		return WriteChart(w, doc)
	case FormatDOT:
		_, err := io.WriteString(w, GenerateDOT(doc, doc.Name))
		return err
	case FormatSVG:
		opts := DefaultSVGOptions()
		opts.Title = doc.Name
		_, err := io.WriteString(w, GenerateSVG(doc, opts))
		return err
	case FormatPNG:
		opts := DefaultPNGOptions()
		opts.Title = doc.Name
		return RenderPNG(doc, w, opts)
	}
	return fmt.Errorf("%w: %v", ErrUnknownFormat, format)
}
