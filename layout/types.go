package layout

// 该文件定义布局用到的几何类型与结果结构，供排版、渲染与调试 JSON 共用。

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Size is the measured extent of a laid out block.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Bounds is the ink bounding box of a run relative to its baseline origin.
// Top is usually negative (above the baseline) and Left can be negative for
// glyphs that overhang their origin.
type Bounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns Right-Left.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns Bottom-Top.
func (b Bounds) Height() float64 { return b.Bottom - b.Top }

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Packed is the output of the packing pass: content spans in placement order
// with block-local frames, plus the extent of all frames.
type Packed struct {
	Spans []Span `json:"spans"`
	Size  Size   `json:"size"`
}

// Lines returns the number of lines that received at least one span.
func (p Packed) Lines() int {
	if len(p.Spans) == 0 {
		return 0
	}
	return p.Spans[len(p.Spans)-1].Line + 1
}

// Result is a packed block placed into a target rectangle. Placements[i]
// belongs to Spans[i].
type Result struct {
	Spans      []Span `json:"spans"`
	Placements []Rect `json:"placements"`
	Size       Size   `json:"size"`
}

// Each calls fn for every span together with its absolute placement.
func (r *Result) Each(fn func(span Span, rect Rect)) {
	if r == nil {
		return
	}
	for i, span := range r.Spans {
		if i >= len(r.Placements) {
			return
		}
		fn(span, r.Placements[i])
	}
}
