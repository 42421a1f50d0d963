package label

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/tdewolff/test"

	"github.com/ByLCY/spanlayout/dsl"
	"github.com/ByLCY/spanlayout/layout"
)

// stubMetrics 每个字符前进 0.2×字号（mm），上升部 0.3×字号，下降部 0.1×字号。
var stubMetrics = layout.MetricsFunc{
	Bounds: func(text string, f layout.Face) layout.Bounds {
		w := float64(utf8.RuneCountInString(text)) * f.Size * 0.2
		return layout.Bounds{Top: -f.Size * 0.3, Right: w, Bottom: f.Size * 0.1}
	},
}

const badge = `
label Badge v2 {
  meta {
    title: "Visitor badge"
    author: "front desk"
    keywords: ["badge", "visitor"]
  }

  resources {
    font Strong {
      src: "builtin:go-bold"
    }
    color Accent = #0F62FE
    style Base {
      size: 10pt
    }
    style Title extends Base {
      font: Strong
      color: Accent
      bold: true
    }
    style Default {
      size: 10pt
    }
  }

  page 100mm 50mm margin 5mm {
    box Greeting x 0mm y 0mm width 90mm height 40mm align center valign center line-height 2x {
      span { "Hello, " }
      span Title { "${user.name}" }
      span italic true color #333 { "\nWelcome back" }
    }
    box Empty x 0mm y 0mm width 10mm height 10mm {
    }
  }
}
`

func build(t *testing.T, src string, data any) *Document {
	t.Helper()
	doc, err := dsl.ParseString(src)
	test.Error(t, err)
	out, err := Build(doc, data, BuildOptions{Metrics: stubMetrics})
	test.Error(t, err)
	return out
}

func texts(spans []layout.Span) []string {
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		out = append(out, s.Text)
	}
	return out
}

func TestBuildBadge(t *testing.T) {
	doc := build(t, badge, map[string]any{"user": map[string]any{"name": "Ada"}})

	test.T(t, doc.Name, "Badge")
	test.T(t, doc.Page, Page{Width: 100, Height: 50, Margin: Margin{5, 5, 5, 5}})
	test.T(t, doc.Meta.Title, "Visitor badge")
	test.T(t, doc.Meta.Keywords, []string{"badge", "visitor"})
	test.T(t, doc.Meta.Creator, "spanlayout")
	test.Float(t, doc.Default.TextSize, 10)
	test.T(t, len(doc.Boxes), 2)

	box, err := doc.Box("Greeting")
	test.Error(t, err)
	test.T(t, box.Target, layout.Rect{X: 5, Y: 5, W: 90, H: 40})
	test.T(t, box.Align, layout.Alignment{H: layout.HCenter, V: layout.VCenter})
	test.T(t, box.Override, layout.NewStyle())
	test.Float(t, box.LineHeight, 20*layout.PtToMm)

	res := box.Result
	test.T(t, texts(res.Spans), []string{"Hello,", "Ada", "Welcome", "back"})
	test.T(t, len(res.Placements), 4)

	ada := res.Spans[1]
	test.T(t, ada.Style.Typeface, "builtin:go-bold")
	test.T(t, *ada.Style.Foreground, layout.Color{R: 15, G: 98, B: 254})
	test.T(t, ada.Style.Decoration, layout.DecorationBold)
	welcome := res.Spans[2]
	test.T(t, welcome.Style.Decoration, layout.DecorationItalic)
	test.T(t, *welcome.Style.Foreground, layout.Color{R: 51, G: 51, B: 51})

	// 10pt => 2mm per rune, 3mm ascent
	h := 3 + 20*layout.PtToMm
	test.Float(t, res.Size.W, 24)
	test.Float(t, res.Size.H, h)
	test.Float(t, res.Placements[0].X, 5+45-12)
	test.Float(t, res.Placements[0].Y, 5+20-h/2)
	test.Float(t, res.Placements[1].X, 5+45-12+14)
	test.T(t, res.Spans[2].Line, 1)
	test.Float(t, res.Placements[2].Y, 5+20-h/2+3)
}

func TestBuildEmptyBox(t *testing.T) {
	doc := build(t, badge, nil)
	box, err := doc.Box("Empty")
	test.Error(t, err)
	test.T(t, len(box.Result.Spans), 0)
	test.T(t, len(box.Result.Placements), 0)
	test.T(t, box.Result.Size, layout.Size{})

	_, err = doc.Box("Missing")
	test.That(t, errors.Is(err, ErrNoBox), "unexpected error", err)
}

func TestBuildUnboundPlaceholderStays(t *testing.T) {
	doc := build(t, badge, nil)
	test.T(t, doc.Boxes[0].Result.Spans[1].Text, "${user.name}")
}

func TestBuildBoxOverrideWins(t *testing.T) {
	src := `label L v1 {
  resources {
    style Big {
      size: 30pt
    }
  }
  page 80mm 40mm {
    box size 20pt color #f00 {
      span Big { "ab" }
      span size 5pt { " cd" }
    }
  }
}`
	doc := build(t, src, nil)
	box := doc.Boxes[0]
	test.Float(t, box.Override.TextSize, 20)
	test.T(t, box.Target, layout.Rect{W: 80, H: 40})
	test.Float(t, box.LineHeight, 20*layout.DefaultLineHeightFactor*layout.PtToMm)

	res := box.Result
	test.T(t, len(res.Spans), 2)
	// both spans measure at 20pt: 4mm per rune
	test.Float(t, res.Spans[0].Frame.W, 8)
	test.Float(t, res.Spans[1].Frame.X, 12)
	test.Float(t, res.Spans[1].Frame.W, 8)

	r := doc.Resolver(&box)
	test.T(t, *r.Resolve(res.Spans[0].Style).Foreground, layout.Color{R: 255})
}

func TestBuildBoxDecorationReplacesSpanDecoration(t *testing.T) {
	src := `label L v1 {
  page 80mm 40mm {
    box bold true {
      span italic true underline true { "ab" }
    }
  }
}`
	doc := build(t, src, nil)
	box := doc.Boxes[0]
	test.T(t, box.Override.Decoration, layout.DecorationBold)

	r := doc.Resolver(&box)
	span := box.Result.Spans[0]
	test.T(t, r.Resolve(span.Style).Decoration, layout.DecorationBold)
	test.T(t, r.Face(span.Style), layout.Face{Typeface: layout.DefaultTypeface, Size: 12, Bold: true})
}

func TestBuildScaleAndNormalization(t *testing.T) {
	src := `label L v1 {
  page A6 landscape margin 2mm 4mm {
    box {
      "Cafe\u0301 ${who|friend}"
    }
  }
}`
	doc, err := dsl.ParseString(src)
	test.Error(t, err)
	out, err := Build(doc, nil, BuildOptions{Metrics: stubMetrics, Scale: 2})
	test.Error(t, err)

	test.T(t, out.Page, Page{Width: 148, Height: 105, Margin: Margin{2, 4, 2, 4}})
	box := out.Boxes[0]
	test.T(t, box.Target, layout.Rect{X: 4, Y: 2, W: 140, H: 101})
	test.T(t, texts(box.Result.Spans), []string{"Café", "friend"})
	// default 12pt doubled: 4.8mm per rune
	test.Float(t, box.Result.Spans[0].Frame.W, 4*4.8)
	test.Float(t, box.LineHeight, 24*layout.DefaultLineHeightFactor*layout.PtToMm)
}

func TestBuildErrors(t *testing.T) {
	parse := func(src string) *dsl.Document {
		doc, err := dsl.ParseString(src)
		test.Error(t, err)
		return doc
	}

	_, err := Build(parse(badge), nil, BuildOptions{})
	test.That(t, errors.Is(err, layout.ErrNoMetrics), "unexpected error", err)

	_, err = Build(parse("label L v1 {\n meta {\n title: \"x\"\n }\n}"), nil, BuildOptions{Metrics: stubMetrics})
	test.That(t, errors.Is(err, ErrNoPage), "unexpected error", err)

	cyclic := `label L v1 {
  resources {
    style A extends B {
      size: 1
    }
    style B extends A {
      size: 2
    }
  }
  page A4 {
  }
}`
	_, err = Build(parse(cyclic), nil, BuildOptions{Metrics: stubMetrics})
	test.That(t, err != nil, "style cycle must fail")

	_, err = Build(parse("label L v1 {\n page Letter {\n }\n}"), nil, BuildOptions{Metrics: stubMetrics})
	test.That(t, err != nil, "unknown preset must fail")

	_, err = Build(nil, nil, BuildOptions{Metrics: stubMetrics})
	test.That(t, err != nil)
}

func TestParseColor(t *testing.T) {
	var tests = []struct {
		in   string
		want layout.Color
	}{
		{"#333", layout.Color{R: 51, G: 51, B: 51}},
		{"#0F62FE", layout.Color{R: 15, G: 98, B: 254}},
		{"#ff000080", layout.Color{R: 255}},
	}
	for _, tt := range tests {
		c, err := parseColor(tt.in)
		test.Error(t, err)
		test.T(t, c, tt.want)
	}
	_, err := parseColor("#12")
	test.That(t, err != nil)
	_, err = parseColor("#zzzzzz")
	test.That(t, err != nil)
}

func TestResolveMargin(t *testing.T) {
	lex := func(vals ...string) []*dsl.Lexeme {
		out := make([]*dsl.Lexeme, 0, len(vals))
		for _, v := range vals {
			out = append(out, &dsl.Lexeme{Value: v})
		}
		return out
	}
	test.T(t, resolveMargin(lex("margin", "3mm")), Margin{3, 3, 3, 3})
	test.T(t, resolveMargin(lex("margin", "1", "2", "3")), Margin{1, 2, 3, 2})
	test.T(t, resolveMargin(lex("margin", "1", "2", "3", "4", "5")), Margin{1, 2, 3, 4})
	test.T(t, resolveMargin(lex("margin", "1cm", "landscape")), Margin{10, 10, 10, 10})
	test.T(t, resolveMargin(lex("landscape")), Margin{})
}
