package rasterrenderer

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/tdewolff/test"

	"github.com/ByLCY/spanlayout/dsl"
	"github.com/ByLCY/spanlayout/label"
	"github.com/ByLCY/spanlayout/metrics"
)

const ticket = `
label Ticket v1 {
  page 60mm 20mm margin 2mm {
    box Seat align center valign center size 16pt {
      span underline true { "Row ${row} " }
      span color #c00 { "Seat ${seat}" }
    }
  }
}
`

func buildTicket(t *testing.T) *label.Document {
	t.Helper()
	p, err := metrics.New(metrics.Options{DPI: metrics.DPIMM})
	test.Error(t, err)
	t.Cleanup(func() { p.Close() })

	doc, err := dsl.ParseString(ticket)
	test.Error(t, err)
	out, err := label.Build(doc, map[string]any{"row": 7, "seat": "12B"}, label.BuildOptions{Metrics: p})
	test.Error(t, err)
	return out
}

func TestRenderPNG(t *testing.T) {
	r, err := New(Options{DPI: 254, Outline: true})
	test.Error(t, err)
	defer r.Close()

	data, err := r.Render(buildTicket(t))
	test.Error(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	test.Error(t, err)
	test.T(t, img.Bounds().Dx(), 600)
	test.T(t, img.Bounds().Dy(), 200)
	test.That(t, inked(img) > 0, "nothing was drawn")
}

func TestRenderDefaultsAndErrors(t *testing.T) {
	r, err := New(Options{})
	test.Error(t, err)
	defer r.Close()

	data, err := r.Render(buildTicket(t))
	test.Error(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	test.Error(t, err)
	test.T(t, cfg.Width, int(math.Ceil(60*DefaultDPI/25.4)))

	_, err = r.Render(nil)
	test.That(t, err != nil)
	_, err = r.Render(&label.Document{})
	test.That(t, err != nil)

	_, err = New(Options{Sources: map[string][]byte{"bad": {1, 2, 3}}})
	test.That(t, err != nil)
}

// inked counts non-white pixels.
func inked(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r < 0xf000 || g < 0xf000 || bl < 0xf000 {
				n++
			}
		}
	}
	return n
}
