// Package metrics measures text with OpenType faces from golang.org/x/image.
// Lengths come back in the unit implied by Options.DPI: 72 gives points,
// 25.4 gives millimetres, 96 gives CSS pixels.
package metrics

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/spanlayout/fonts"
	"github.com/ByLCY/spanlayout/layout"
)

// Common DPI values.
const (
	DPIPoints = 72
	DPIMM     = 25.4
	DPIPixels = 96
)

// oversample is the resolution factor of measuring faces. Face metrics are
// 26.6 fixed-point, which at 25.4 DPI rounds every advance to 1/64 mm.
const oversample = 64

// Options configures a Provider.
type Options struct {
	// DPI defaults to DPIPoints.
	DPI     float64
	Hinting font.Hinting
	// BaseDir resolves relative font paths.
	BaseDir string
	// Sources holds injected font blobs keyed by typeface; they win over
	// builtins and files.
	Sources map[string][]byte
}

type faceKey struct {
	typeface string
	size     float64
	scale    int
}

// Provider implements layout.Metrics. It is safe for concurrent use.
type Provider struct {
	opts Options

	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

var _ layout.Metrics = (*Provider)(nil)

// New validates the injected sources and returns a provider.
func New(opts Options) (*Provider, error) {
	if opts.DPI <= 0 {
		opts.DPI = DPIPoints
	}
	p := &Provider{
		opts:  opts,
		fonts: map[string]*opentype.Font{},
		faces: map[faceKey]font.Face{},
	}
	for name, data := range opts.Sources {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("metrics: parse font %s: %w", name, err)
		}
		p.fonts[name] = f
	}
	return p, nil
}

// DPI returns the resolution lengths are reported at.
func (p *Provider) DPI() float64 { return p.opts.DPI }

// TextBounds returns the ink box of text relative to the origin on the
// baseline, y pointing down. An unloadable face measures as empty.
func (p *Provider) TextBounds(text string, f layout.Face) layout.Bounds {
	p.mu.Lock()
	defer p.mu.Unlock()
	face, err := p.face(f, oversample)
	if err != nil {
		layout.Logger().Warn("metrics: face unavailable", slog.String("typeface", f.Typeface), slog.Any("err", err))
		return layout.Bounds{}
	}
	b, _ := font.BoundString(face, text)
	return layout.Bounds{
		Left:   fromFixed(b.Min.X, oversample),
		Top:    fromFixed(b.Min.Y, oversample),
		Right:  fromFixed(b.Max.X, oversample),
		Bottom: fromFixed(b.Max.Y, oversample),
	}
}

// TextWidth returns the advance width of text.
func (p *Provider) TextWidth(text string, f layout.Face) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	face, err := p.face(f, oversample)
	if err != nil {
		layout.Logger().Warn("metrics: face unavailable", slog.String("typeface", f.Typeface), slog.Any("err", err))
		return 0
	}
	return fromFixed(font.MeasureString(face, text), oversample)
}

// Face returns the cached x/image face for f at the provider's DPI, e.g. for
// drawing. The returned face must not be used concurrently with the provider.
func (p *Provider) Face(f layout.Face) (font.Face, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.face(f, 1)
}

// FamilyName reports the family name stored in the font's name table.
func (p *Provider) FamilyName(typeface string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := p.font(typeface)
	if err != nil {
		return "", err
	}
	var buf sfnt.Buffer
	return f.Name(&buf, sfnt.NameIDFamily)
}

// Close releases all cached faces.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, face := range p.faces {
		face.Close()
		delete(p.faces, k)
	}
	return nil
}

// face returns a face rendering at scale times the provider's DPI.
func (p *Provider) face(f layout.Face, scale int) (font.Face, error) {
	typeface := fonts.Variant(typefaceOrDefault(f.Typeface), f.Bold, f.Italic)
	key := faceKey{typeface: typeface, size: f.Size, scale: scale}
	if face, ok := p.faces[key]; ok {
		return face, nil
	}
	ot, err := p.font(typeface)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(ot, &opentype.FaceOptions{
		Size:    f.Size,
		DPI:     p.opts.DPI * float64(scale),
		Hinting: p.opts.Hinting,
	})
	if err != nil {
		return nil, fmt.Errorf("metrics: face %s@%g: %w", typeface, f.Size, err)
	}
	p.faces[key] = face
	return face, nil
}

func (p *Provider) font(typeface string) (*opentype.Font, error) {
	typeface = typefaceOrDefault(typeface)
	if f, ok := p.fonts[typeface]; ok {
		return f, nil
	}
	data, err := fonts.Load(typeface, p.opts.BaseDir)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("metrics: parse font %s: %w", typeface, err)
	}
	p.fonts[typeface] = f
	return f, nil
}

func typefaceOrDefault(t string) string {
	if t == "" {
		return layout.DefaultTypeface
	}
	return t
}

func fromFixed(v fixed.Int26_6, scale int) float64 { return float64(v) / 64 / float64(scale) }
