package layout

// SizeUnset marks a Style.TextSize that defers to the next tier. Any negative
// size is treated the same way.
const SizeUnset = -1.0

// Decoration is a set of text decoration flags. The zero value inherits.
// A set resolves as one field: a non-zero set replaces a lower tier's set
// entirely, it is not merged flag by flag.
type Decoration uint8

const DecorationInherit Decoration = 0

const (
	DecorationRegular Decoration = 1 << iota
	DecorationBold
	DecorationItalic
	DecorationUnderline
)

// Has reports whether all flags in f are set.
func (d Decoration) Has(f Decoration) bool { return d&f == f }

// Style describes a run's look. Every field has an "unset" state so the same
// type serves as a per-span style and as a label-wide override.
type Style struct {
	Foreground *Color     `json:"foreground,omitempty"`
	Typeface   string     `json:"typeface,omitempty"`
	TextSize   float64    `json:"textSize"`
	Decoration Decoration `json:"decoration,omitempty"`
	// LineHeight <= 0 derives the line height from TextSize.
	LineHeight float64 `json:"lineHeight,omitempty"`
}

// NewStyle returns a style with every field unset.
func NewStyle() Style {
	return Style{TextSize: SizeUnset}
}

// HasSize reports whether TextSize is set.
func (s Style) HasSize() bool { return s.TextSize >= 0 }

// ResolvedLineHeight returns LineHeight, or TextSize*DefaultLineHeightFactor
// when no explicit line height is set.
func (s Style) ResolvedLineHeight() float64 {
	if s.LineHeight > 0 {
		return s.LineHeight
	}
	if !s.HasSize() {
		return 0
	}
	return LineHeightSpec{Kind: LineHeightFactor, Factor: DefaultLineHeightFactor}.Resolve(Length{Value: s.TextSize}, UnitNone)
}

// Face is the concrete, measurable form of a resolved style.
type Face struct {
	Typeface string  `json:"typeface"`
	Size     float64 `json:"size"`
	Bold     bool    `json:"bold"`
	Italic   bool    `json:"italic"`
}

// DefaultTypeface names the built-in regular Go font.
const DefaultTypeface = "go-regular"

// DefaultStyle is the system default at the bottom of the resolution chain.
func DefaultStyle() Style {
	return Style{
		Foreground: &Color{},
		Typeface:   DefaultTypeface,
		TextSize:   12,
		Decoration: DecorationRegular,
	}
}

// Resolver applies the three style tiers: label override, then the span's
// own style, then the system default.
type Resolver struct {
	// Override is the label-wide style; nil means no override.
	Override *Style
	// Default fields left empty fall back to DefaultStyle.
	Default Style
	// Scale multiplies resolved text sizes, e.g. a display density. <= 0 means 1.
	Scale float64
}

// DefaultResolver resolves against DefaultStyle with no override.
func DefaultResolver() Resolver {
	return Resolver{Default: DefaultStyle(), Scale: 1}
}

// Resolve returns a style with every field set. An override's Decoration
// replaces the span's whole set, so an override of DecorationBold drops a
// span's DecorationItalic.
func (r Resolver) Resolve(s Style) Style {
	def := r.Default
	if def.Foreground == nil {
		def.Foreground = &Color{}
	}
	if def.Typeface == "" {
		def.Typeface = DefaultTypeface
	}
	if def.TextSize <= 0 {
		def.TextSize = DefaultStyle().TextSize
	}
	if def.Decoration == DecorationInherit {
		def.Decoration = DecorationRegular
	}

	o := NewStyle()
	if r.Override != nil {
		o = *r.Override
	}
	out := Style{
		Foreground: firstColor(o.Foreground, s.Foreground, def.Foreground),
		Typeface:   firstString(o.Typeface, s.Typeface, def.Typeface),
		TextSize:   def.TextSize,
		Decoration: def.Decoration,
		LineHeight: def.LineHeight,
	}
	switch {
	case o.HasSize():
		out.TextSize = o.TextSize
	case s.HasSize():
		out.TextSize = s.TextSize
	}
	switch {
	case o.Decoration != DecorationInherit:
		out.Decoration = o.Decoration
	case s.Decoration != DecorationInherit:
		out.Decoration = s.Decoration
	}
	switch {
	case o.LineHeight > 0:
		out.LineHeight = o.LineHeight
	case s.LineHeight > 0:
		out.LineHeight = s.LineHeight
	}
	return out
}

// Face resolves s and converts it to a measurable face, applying Scale.
func (r Resolver) Face(s Style) Face {
	rs := r.Resolve(s)
	scale := r.Scale
	if scale <= 0 {
		scale = 1
	}
	return Face{
		Typeface: rs.Typeface,
		Size:     rs.TextSize * scale,
		Bold:     rs.Decoration.Has(DecorationBold),
		Italic:   rs.Decoration.Has(DecorationItalic),
	}
}

func firstColor(cs ...*Color) *Color {
	for _, c := range cs {
		if c != nil {
			return c
		}
	}
	return nil
}

func firstString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
