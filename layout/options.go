package layout

import "errors"

// ErrNoMetrics is returned by New when Options carries no Metrics provider.
var ErrNoMetrics = errors.New("layout: missing metrics provider")

// Metrics 负责给定文本与字体时返回其度量结果，由具体字体后端实现。
// Implementations must be side-effect free and return identical values for
// identical inputs within one process.
type Metrics interface {
	// TextBounds returns the ink bounds of text drawn at a baseline origin.
	TextBounds(text string, face Face) Bounds
	// TextWidth returns the advance width of text, used for whitespace.
	TextWidth(text string, face Face) float64
}

// MetricsFunc adapts a pair of functions to Metrics.
type MetricsFunc struct {
	Bounds func(text string, face Face) Bounds
	Width  func(text string, face Face) float64
}

func (m MetricsFunc) TextBounds(text string, face Face) Bounds {
	if m.Bounds == nil {
		return Bounds{}
	}
	return m.Bounds(text, face)
}

func (m MetricsFunc) TextWidth(text string, face Face) float64 {
	if m.Width == nil {
		return m.TextBounds(text, face).Width()
	}
	return m.Width(text, face)
}

// Options 配置排版引擎所需的依赖。
type Options struct {
	Metrics Metrics
	// Resolver turns span styles into faces before measurement. The zero value
	// behaves like DefaultResolver.
	Resolver *Resolver
}
