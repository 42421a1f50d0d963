package canvasrenderer

import (
	"bytes"
	"math"
	"testing"

	"github.com/tdewolff/test"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/ByLCY/spanlayout/dsl"
	"github.com/ByLCY/spanlayout/label"
	"github.com/ByLCY/spanlayout/layout"
	"github.com/ByLCY/spanlayout/metrics"
)

var regular12 = layout.Face{Typeface: layout.DefaultTypeface, Size: 12}

func TestMetricsGoRegular(t *testing.T) {
	r := NewRenderer("")
	b := r.TextBounds("Hello", regular12)
	test.That(t, b.Top < 0, "ascent above baseline", b.Top)
	test.That(t, b.Bottom > 0, "descent below baseline", b.Bottom)
	test.Float(t, b.Left, 0)
	test.Float(t, b.Right, r.TextWidth("Hello", regular12))
	test.That(t, b.Right > 0)
}

// canvas 与 x/image 使用同一字体文件，宽度（mm）应基本一致。
func TestMetricsAgreeWithOpenType(t *testing.T) {
	r := NewRenderer("")
	p, err := metrics.New(metrics.Options{DPI: metrics.DPIMM})
	test.Error(t, err)
	defer p.Close()

	for _, s := range []string{"Hello", "spanlayout", "W"} {
		a, b := r.TextWidth(s, regular12), p.TextWidth(s, regular12)
		test.That(t, math.Abs(a-b) < 0.05*b+0.05, s, a, b)
	}
}

func TestInjectedFont(t *testing.T) {
	r := NewRendererWithOptions(Options{Fonts: map[string]Resource{"Brand": {Bytes: gobold.TTF}}})
	brand := layout.Face{Typeface: "Brand", Size: 12}
	bold := regular12
	bold.Bold = true
	test.Float(t, r.TextWidth("Hello", brand), r.TextWidth("Hello", bold))
	test.That(t, r.TextWidth("Hello", bold) > r.TextWidth("Hello", regular12))
}

func TestUnknownTypeface(t *testing.T) {
	r := NewRenderer("")
	f := layout.Face{Typeface: "builtin:nope", Size: 12}
	test.T(t, r.TextBounds("abc", f), layout.Bounds{})
	test.Float(t, r.TextWidth("abc", f), 0)
}

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	r := NewRenderer("")
	e, err := layout.New(layout.Options{Metrics: r})
	test.Error(t, err)

	limit := r.TextBounds("SAMPLE-A", regular12).Width()
	p := e.Pack([]layout.Span{layout.NewSpan("SAMPLE-A\nSAMPLE-B")}, limit, 5)
	test.T(t, len(p.Spans), 2)
	test.T(t, p.Lines(), 2)
	test.T(t, p.Spans[0].Text, "SAMPLE-A")
	test.T(t, p.Spans[1].Line, 1)
}

const card = `
label Card v1 {
  meta {
    title: "Card"
    author: "tests"
  }
  resources {
    style Name {
      size: 14pt
      bold: true
      underline: true
    }
  }
  page card margin 3mm {
    box Main align center valign center {
      span Name { "${name}" }
      span italic true color #336699 { "\nspan layout" }
    }
  }
}
`

func TestRenderPDF(t *testing.T) {
	r := NewRendererWithOptions(Options{Outline: true})
	doc, err := dsl.ParseString(card)
	test.Error(t, err)
	out, err := label.Build(doc, map[string]any{"name": "Grace"}, label.BuildOptions{Metrics: r})
	test.Error(t, err)
	test.T(t, len(out.Boxes[0].Result.Spans), 3)

	pdfBytes, err := r.Render(out)
	test.Error(t, err)
	test.That(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")), "missing PDF header")
}

func TestRenderInvalid(t *testing.T) {
	r := NewRenderer("")
	_, err := r.Render(nil)
	test.That(t, err != nil)
	_, err = r.Render(&label.Document{})
	test.That(t, err != nil)
}
