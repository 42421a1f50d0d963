package layout

import (
	"log/slog"
	"math"
)

// BreakTolerance absorbs rounding noise in the overflow test.
const BreakTolerance = 1.0

// Engine packs spans into lines and places them. It holds no per-pass state,
// so one Engine may serve concurrent passes.
type Engine struct {
	metrics  Metrics
	resolver Resolver
}

// New creates an engine from opts.
func New(opts Options) (*Engine, error) {
	if opts.Metrics == nil {
		return nil, ErrNoMetrics
	}
	e := &Engine{metrics: opts.Metrics, resolver: DefaultResolver()}
	if opts.Resolver != nil {
		e.resolver = *opts.Resolver
	}
	return e, nil
}

// Resolver returns the style resolver used before measurement.
func (e *Engine) Resolver() Resolver { return e.resolver }

// Pack tokenizes spans and greedily packs the tokens into lines no wider than
// availableWidth (plus BreakTolerance). A line always receives at least one
// token, so an overlong word is placed alone rather than dropped.
func (e *Engine) Pack(spans []Span, availableWidth, lineHeight float64) Packed {
	if len(spans) == 0 {
		return Packed{}
	}
	p := packer{
		metrics:    e.metrics,
		resolver:   e.resolver,
		width:      sanitize(availableWidth, "availableWidth"),
		lineHeight: sanitize(lineHeight, "lineHeight"),
	}
	tokens := Tokenize(spans)
	for _, tok := range tokens {
		p.add(tok)
	}
	p.finish()

	out := Packed{Spans: p.out, Size: extent(p.out)}
	Logger().Debug("layout: packed",
		slog.Int("tokens", len(tokens)),
		slog.Int("spans", len(out.Spans)),
		slog.Int("lines", p.line+1),
		slog.Float64("width", out.Size.W),
		slog.Float64("height", out.Size.H))
	return out
}

// Measure packs spans and returns only the total size. availableHeight does
// not constrain packing; it is accepted for symmetry with Layout.
func (e *Engine) Measure(spans []Span, availableWidth, availableHeight, lineHeight float64) Size {
	return e.Pack(spans, availableWidth, lineHeight).Size
}

// Layout packs spans to target.W and places them inside target.
func (e *Engine) Layout(spans []Span, target Rect, lineHeight float64, align Alignment) *Result {
	packed := e.Pack(spans, target.W, lineHeight)
	return &Result{
		Spans:      packed.Spans,
		Placements: Place(packed, target, align),
		Size:       packed.Size,
	}
}

// packer carries the cursor of one forward pass.
type packer struct {
	metrics    Metrics
	resolver   Resolver
	width      float64
	lineHeight float64

	x, y float64
	line int
	out  []Span
}

func (p *packer) add(tok Span) {
	switch {
	case tok.IsNewline():
		p.breakLine()
	case tok.IsSpace():
		p.x += p.metrics.TextWidth(tok.Text, p.resolver.Face(tok.Style))
	case tok.Text != "":
		p.place(tok)
	}
}

func (p *packer) place(tok Span) {
	b := p.metrics.TextBounds(tok.Text, p.resolver.Face(tok.Style))
	// The break test uses the raw extent; only the frame is clamped.
	extentW := b.Width() - b.Left
	w := math.Max(extentW, 0)
	if p.x > 0 && p.x+extentW > p.width+BreakTolerance {
		p.breakLine()
	}
	if p.x == 0 && w > p.width+BreakTolerance {
		Logger().Debug("layout: token wider than line", slog.String("text", tok.Text), slog.Float64("width", w))
	}
	tok.Line = p.line
	tok.Bounds = b
	tok.Frame = Rect{X: p.x, Y: p.y, W: w, H: p.lineHeight}
	p.out = append(p.out, tok)
	// The cursor advances by the raw ink width, not by the frame width.
	p.x += b.Width()
}

func (p *packer) breakLine() {
	h := p.finalHeight()
	p.line++
	p.x = 0
	p.y += h
}

func (p *packer) finish() {
	if p.line == 0 {
		p.finalHeight()
	}
}

// finalHeight closes the current line. Line 0 is sized by the tallest ascent
// of its spans and its frames are patched in place; every later line uses the
// nominal height. The asymmetry is long-standing behavior, not a rule to
// extend: confirm with product owners before unifying it.
func (p *packer) finalHeight() float64 {
	if p.line != 0 {
		return p.lineHeight
	}
	var h float64
	for i := range p.out {
		h = math.Max(h, -p.out[i].Bounds.Top)
	}
	// While line == 0 every packed span is on line 0.
	for i := range p.out {
		p.out[i].Frame.H = h
	}
	return h
}

func extent(spans []Span) Size {
	if len(spans) == 0 {
		return Size{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range spans {
		minX = math.Min(minX, s.Frame.X)
		minY = math.Min(minY, s.Frame.Y)
		maxX = math.Max(maxX, s.Frame.Right())
		maxY = math.Max(maxY, s.Frame.Bottom())
	}
	return Size{W: maxX - minX, H: maxY - minY}
}

func sanitize(v float64, name string) float64 {
	if math.IsNaN(v) || v < 0 {
		Logger().Warn("layout: degraded to zero", slog.String("param", name), slog.Float64("value", v))
		return 0
	}
	return v
}
