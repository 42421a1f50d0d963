package layout

import (
	"testing"
	"unicode/utf8"
)

// fakeMetrics gives every rune an advance of half the text size, an ascent of
// 0.8 and a descent of 0.2 of the size. bearing shifts the ink box right.
type fakeMetrics struct {
	bearing float64
	calls   int
}

func (m *fakeMetrics) TextBounds(text string, face Face) Bounds {
	m.calls++
	w := float64(utf8.RuneCountInString(text)) * face.Size / 2
	return Bounds{
		Left:   m.bearing,
		Top:    -face.Size * 0.8,
		Right:  m.bearing + w,
		Bottom: face.Size * 0.2,
	}
}

func (m *fakeMetrics) TextWidth(text string, face Face) float64 {
	m.calls++
	return float64(utf8.RuneCountInString(text)) * face.Size / 2
}

func newTestEngine(t *testing.T, m Metrics) *Engine {
	t.Helper()
	e, err := New(Options{Metrics: m})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func sized(text string, size float64) Span {
	st := NewStyle()
	st.TextSize = size
	return NewStyledSpan(text, st)
}
