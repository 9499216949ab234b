// Native PNG rendering for bubble charts.
// Mirrors the SVG renderer output using Go's image packages.

package chartfile

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/bubblechart/pkg/dgraph"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Padding  int
	FontSize int
	Title    string
	// Supersample is the oversampling factor used before downscaling.
	Supersample int
	// MaxSide caps the output's longer side in pixels. 0 means no cap.
	MaxSide int
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Padding:     30,
		FontSize:    12,
		Supersample: 4,
		MaxSide:     4096,
	}
}

var (
	colourBackground = color.RGBA{255, 255, 255, 255}
	colourArc        = color.RGBA{51, 51, 51, 255}  // #333
	colourArcLabel   = color.RGBA{85, 85, 85, 255}  // #555
	colourTitle      = color.RGBA{17, 17, 17, 255}  // #111
	colourLight      = color.RGBA{255, 255, 255, 255}
	colourDark       = color.RGBA{0, 0, 0, 255}
)

// renderContext holds the target image and the supersampling scale.
type renderContext struct {
	img       *image.RGBA
	scale     float64
	lineWidth float64
	face      font.Face
	titleFace font.Face
}

func newRenderContext(img *image.RGBA, scale, fontSize int) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("chartfile: load font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("chartfile: font face: %w", err)
	}
	titleFace, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64((fontSize + 4) * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("chartfile: title face: %w", err)
	}
	return &renderContext{
		img:       img,
		scale:     float64(scale),
		lineWidth: 1.5 * float64(scale),
		face:      face,
		titleFace: titleFace,
	}, nil
}

// RenderPNG renders a chart to PNG at its stored positions. The image is
// drawn oversampled and downscaled with Catmull-Rom for smooth edges.
func RenderPNG(doc *Document, w io.Writer, opts PNGOptions) error {
	if opts.FontSize == 0 {
		opts.FontSize = 12
	}
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	titleSpace := 0.0
	if opts.Title != "" {
		titleSpace = float64(opts.FontSize+4) * 2
	}
	s := newScene(doc, float64(opts.Padding), titleSpace)

	width, height := int(s.width), int(s.height)
	if opts.MaxSide > 0 && (width > opts.MaxSide || height > opts.MaxSide) {
		return fmt.Errorf("chartfile: chart is %dx%d, larger than %d pixels", width, height, opts.MaxSide)
	}

	k := opts.Supersample
	large := image.NewRGBA(image.Rect(0, 0, width*k, height*k))
	draw.Draw(large, large.Bounds(), image.NewUniform(colourBackground), image.Point{}, draw.Src)

	ctx, err := newRenderContext(large, k, opts.FontSize)
	if err != nil {
		return err
	}
	ctx.drawScene(s, opts.Title)

	final := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return png.Encode(w, final)
}

func (ctx *renderContext) drawScene(s *scene, title string) {
	k := ctx.scale
	at := func(p dgraph.Point) dgraph.Point { return s.at(p).Scale(k) }

	if title != "" {
		ctx.drawText(ctx.titleFace, int(s.width*k/2), int(s.top*k/2), title, colourTitle)
	}

	for _, a := range s.graph.Arcs() {
		path, ok := s.paths[a.ID]
		if !ok {
			continue
		}
		scaled := make([]dgraph.Point, len(path))
		for i, p := range path {
			scaled[i] = at(p)
		}
		ctx.drawPolylineArrow(scaled, colourArc)
		lp := at(a.LabelPoint())
		ctx.drawText(ctx.face, int(lp.X), int(lp.Y-6*k), a.Name, colourArcLabel)
	}

	if s.initial != nil {
		tip := at(s.initial.Location.Sub(dgraph.Pt(dgraph.NodeRadius, 0)))
		tail := tip.Sub(dgraph.Pt(initialArrow*k, 0))
		ctx.drawPolylineArrow([]dgraph.Point{tail, tip}, colourArc)
	}

	for _, n := range s.graph.Nodes() {
		c := at(n.Location)
		ctx.drawCircle(c, dgraph.NodeRadius*k, rgba(n.Fill), rgba(n.Outline))
		text := color.Color(colourDark)
		if lum, _, _ := n.Fill.Lab(); lum < 0.5 {
			text = colourLight
		}
		ctx.drawText(ctx.face, int(c.X), int(c.Y), n.Name, text)
	}
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}

// drawCircle fills a disc and strokes its outline.
func (ctx *renderContext) drawCircle(centre dgraph.Point, r float64, fill, stroke color.Color) {
	img := ctx.img
	for dy := -r; dy <= r; dy++ {
		xExtent := math.Sqrt(math.Max(0, r*r-dy*dy))
		for dx := -xExtent; dx <= xExtent; dx++ {
			img.Set(int(centre.X+dx), int(centre.Y+dy), fill)
		}
	}
	half := ctx.lineWidth
	for angle := 0.0; angle < 2*math.Pi; angle += 0.5 / r {
		nx, ny := math.Cos(angle), math.Sin(angle)
		for t := -half; t <= half; t += 0.5 {
			img.Set(int(centre.X+nx*(r+t)), int(centre.Y+ny*(r+t)), stroke)
		}
	}
}

// drawLine draws a line between two points with the context's thickness.
func (ctx *renderContext) drawLine(a, b dgraph.Point, c color.Color) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Hypot(dx, dy)
	half := ctx.lineWidth / 2
	if dist < 1 {
		for ty := -half; ty <= half; ty++ {
			for tx := -half; tx <= half; tx++ {
				ctx.img.Set(int(a.X+tx), int(a.Y+ty), c)
			}
		}
		return
	}
	perpX, perpY := -dy/dist, dx/dist
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := a.X + dx*t
		cy := a.Y + dy*t
		for offset := -half; offset <= half; offset += 0.5 {
			ctx.img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// drawPolylineArrow strokes pts and puts a filled arrowhead on the last point.
func (ctx *renderContext) drawPolylineArrow(pts []dgraph.Point, c color.Color) {
	if len(pts) < 2 {
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		ctx.drawLine(pts[i], pts[i+1], c)
	}
	tip := pts[len(pts)-1]
	from := pts[len(pts)-2]
	w1, w2 := arrowHead(from, tip, 8*ctx.scale, 4*ctx.scale)
	for t := 0.0; t <= 1.0; t += 0.05 {
		ctx.drawLine(tip, dgraph.Pt(w1.X+(w2.X-w1.X)*t, w1.Y+(w2.Y-w1.Y)*t), c)
	}
}

// drawText draws text centred on (x, y).
func (ctx *renderContext) drawText(face font.Face, x, y int, text string, c color.Color) {
	width := font.MeasureString(face, text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x - width/2),
			Y: fixed.I(y + int(float64(ascent)*0.35)),
		},
	}
	d.DrawString(text)
}
