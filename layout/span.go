package layout

// Span is a contiguous run of text sharing one style. Line, Bounds and Frame
// are written by the packing pass and are meaningless on input spans.
type Span struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`

	Line   int    `json:"line"`
	Bounds Bounds `json:"bounds"`
	Frame  Rect   `json:"frame"`
}

// NewSpan returns a span whose style inherits everything from the label.
func NewSpan(text string) Span {
	return Span{Text: text, Style: NewStyle()}
}

// NewStyledSpan returns a span carrying its own style.
func NewStyledSpan(text string, style Style) Span {
	return Span{Text: text, Style: style}
}

// Derive returns a new span with the given text and a copy of s's style.
// Geometry is never carried over.
func (s Span) Derive(text string) Span {
	return Span{Text: text, Style: s.Style}
}

// IsNewline reports whether s is a line break marker.
func (s Span) IsNewline() bool { return s.Text == "\n" }

// IsSpace reports whether s is a single space marker.
func (s Span) IsSpace() bool { return s.Text == " " }

// IsContent reports whether s carries renderable text.
func (s Span) IsContent() bool {
	return s.Text != "" && !s.IsNewline() && !s.IsSpace()
}
