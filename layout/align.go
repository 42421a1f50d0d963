package layout

import "strings"

// HAlign is the horizontal alignment of a block inside its target.
type HAlign int

const (
	HStart HAlign = iota
	HCenter
	HEnd
)

// VAlign is the vertical alignment of a block inside its target.
type VAlign int

const (
	VStart VAlign = iota
	VCenter
	VEnd
)

// Alignment combines both axes. The zero value is top-left.
type Alignment struct {
	H HAlign `json:"h"`
	V VAlign `json:"v"`
}

func (a HAlign) String() string {
	switch a {
	case HCenter:
		return "center"
	case HEnd:
		return "end"
	default:
		return "start"
	}
}

func (a VAlign) String() string {
	switch a {
	case VCenter:
		return "center"
	case VEnd:
		return "end"
	default:
		return "start"
	}
}

// ParseHAlign 支持 left/start、center/middle、right/end 别名，其余值按 start 处理。
func ParseHAlign(v string) HAlign {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return HCenter
	case "right", "end":
		return HEnd
	default:
		return HStart
	}
}

// ParseVAlign 支持 top/start、center/middle、bottom/end 别名，其余值按 start 处理。
func ParseVAlign(v string) VAlign {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return VCenter
	case "bottom", "end":
		return VEnd
	default:
		return VStart
	}
}

// Offset returns the translation that aligns a block of the given size inside
// target. Offsets may be negative when the block is larger than the target.
func Offset(size Size, target Rect, align Alignment) (dx, dy float64) {
	switch align.H {
	case HCenter:
		dx = target.W/2 - size.W/2
	case HEnd:
		dx = target.W - size.W
	}
	switch align.V {
	case VCenter:
		dy = target.H/2 - size.H/2
	case VEnd:
		dy = target.H - size.H
	}
	return dx, dy
}

// Place returns the absolute rectangle of every packed span, in the same order
// as p.Spans. The left edge is shifted by -Bounds.Left so the ink, rather than
// the advance box, lines up with the frame column.
func Place(p Packed, target Rect, align Alignment) []Rect {
	if len(p.Spans) == 0 {
		return nil
	}
	dx, dy := Offset(p.Size, target, align)
	rects := make([]Rect, len(p.Spans))
	for i, s := range p.Spans {
		rects[i] = Rect{
			X: target.X + dx + s.Frame.X - s.Bounds.Left,
			Y: target.Y + dy + s.Frame.Y,
			W: s.Frame.W,
			H: s.Frame.H,
		}
	}
	return rects
}
