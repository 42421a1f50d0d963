// Package rasterrenderer paints label documents into PNG previews with
// github.com/fogleman/gg, using OpenType faces from the metrics package.
package rasterrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"

	"github.com/ByLCY/spanlayout/label"
	"github.com/ByLCY/spanlayout/layout"
	"github.com/ByLCY/spanlayout/metrics"
	"github.com/ByLCY/spanlayout/renderer"
)

// DefaultDPI is the preview resolution when Options.DPI is unset.
const DefaultDPI = 150

// Options configures the raster renderer.
type Options struct {
	DPI     float64
	BaseDir string
	// Sources are injected font blobs keyed by typeface.
	Sources    map[string][]byte
	Background color.Color
	Outline    bool
}

// Renderer draws documents to PNG. Render calls are serialized.
type Renderer struct {
	opts  Options
	faces *metrics.Provider

	mu sync.Mutex
}

var _ renderer.Renderer = (*Renderer)(nil)

// New creates a raster renderer.
func New(opts Options) (*Renderer, error) {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	faces, err := metrics.New(metrics.Options{DPI: opts.DPI, BaseDir: opts.BaseDir, Sources: opts.Sources})
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}
	return &Renderer{opts: opts, faces: faces}, nil
}

// Close releases cached faces.
func (r *Renderer) Close() error { return r.faces.Close() }

// Render paints doc and returns PNG bytes.
func (r *Renderer) Render(doc *label.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("raster: nil document")
	}
	if doc.Page.Width <= 0 || doc.Page.Height <= 0 {
		return nil, fmt.Errorf("raster: invalid page %gx%g", doc.Page.Width, doc.Page.Height)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	px := r.opts.DPI / 25.4
	dc := gg.NewContext(pixels(doc.Page.Width, px), pixels(doc.Page.Height, px))
	dc.SetColor(r.opts.Background)
	dc.Clear()

	for i := range doc.Boxes {
		if err := r.drawBox(dc, doc, &doc.Boxes[i], px); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("raster: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawBox(dc *gg.Context, doc *label.Document, box *label.Box, px float64) error {
	if r.opts.Outline {
		dc.SetRGB(0.8, 0.1, 0.1)
		dc.SetLineWidth(1)
		dc.DrawRectangle(box.Target.X*px, box.Target.Y*px, box.Target.W*px, box.Target.H*px)
		dc.Stroke()
	}

	resolver := doc.Resolver(box)
	var err error
	box.Result.Each(func(span layout.Span, rect layout.Rect) {
		if err != nil {
			return
		}
		face, ferr := r.faces.Face(resolver.Face(span.Style))
		if ferr != nil {
			err = fmt.Errorf("raster: box %s: %w", box.Name, ferr)
			return
		}
		style := resolver.Resolve(span.Style)
		fg := style.Foreground
		dc.SetFontFace(face)
		dc.SetRGB255(fg.R, fg.G, fg.B)

		x := rect.X * px
		baseline := (rect.Y - span.Bounds.Top) * px
		dc.DrawString(span.Text, x, baseline)
		if style.Decoration.Has(layout.DecorationUnderline) {
			y := baseline + math.Max(span.Bounds.Bottom*px/2, 1)
			dc.SetLineWidth(math.Max(px/4, 1))
			dc.DrawLine(x, y, x+rect.W*px, y)
			dc.Stroke()
		}
	})
	return err
}

// pixels rounds up, ignoring float noise from the mm conversion.
func pixels(mm, px float64) int {
	return int(math.Ceil(mm*px - 1e-6))
}
