package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/spanlayout/fonts"
	"github.com/ByLCY/spanlayout/label"
	"github.com/ByLCY/spanlayout/layout"
	"github.com/ByLCY/spanlayout/renderer"
)

const outlineWidth = 0.2

// Renderer draws label documents via github.com/tdewolff/canvas and doubles
// as a layout.Metrics provider on canvas font faces (lengths in mm, sizes in pt).
type Renderer struct {
	baseDir string
	outline bool

	// injected fonts by typeface name
	fontBlobs map[string][]byte

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Metrics    = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	// Fonts are injected font sources, looked up by typeface before builtins.
	Fonts map[string]Resource
	// Outline strokes every box target, useful when tuning a label.
	Outline bool
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving fonts.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected fonts.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		outline:      opts.Outline,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := fonts.Load(res.Path, opts.BaseDir)
			if err != nil {
				// reported again when the typeface is used
				layout.Logger().Warn("canvas: font resource unreadable", slog.String("font", name), slog.Any("err", err))
				continue
			}
			r.fontBlobs[name] = data
		}
	}
	return r
}

// Render renders the document into a single-page PDF.
func (r *Renderer) Render(doc *label.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("渲染文档为空")
	}
	page := doc.Page
	if page.Width <= 0 || page.Height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效：%gx%g", page.Width, page.Height)
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, page.Width, page.Height, nil)
	writer.SetInfo(doc.Meta.Title, doc.Meta.Subject, strings.Join(doc.Meta.Keywords, ", "), doc.Meta.Author, doc.Meta.Creator)

	c := canvas.New(page.Width, page.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	for i := range doc.Boxes {
		if err := r.drawBox(ctx, doc, &doc.Boxes[i]); err != nil {
			return nil, err
		}
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawBox(ctx *canvas.Context, doc *label.Document, box *label.Box) error {
	if r.outline {
		ctx.SetFillColor(color.RGBA{})
		ctx.SetStrokeColor(color.RGBA{R: 204, G: 26, B: 26, A: 255})
		ctx.SetStrokeWidth(outlineWidth)
		ctx.DrawPath(box.Target.X, box.Target.Y, canvas.Rectangle(box.Target.W, box.Target.H))
	}

	resolver := doc.Resolver(box)
	var err error
	box.Result.Each(func(span layout.Span, rect layout.Rect) {
		if err != nil {
			return
		}
		style := resolver.Resolve(span.Style)
		var face *canvas.FontFace
		face, err = r.fontFace(resolver.Face(span.Style), *style.Foreground, style.Decoration.Has(layout.DecorationUnderline))
		if err != nil {
			err = fmt.Errorf("box %s: %w", box.Name, err)
			return
		}
		// 基线位置：placement 顶部加上该片段的上升部
		baseline := rect.Y - span.Bounds.Top
		ctx.DrawText(rect.X, baseline, canvas.NewTextLine(face, span.Text, canvas.Left))
	})
	return err
}

// TextBounds implements layout.Metrics with the face's line metrics: the box
// spans [0, width] horizontally and [-ascent, descent] vertically.
func (r *Renderer) TextBounds(text string, f layout.Face) layout.Bounds {
	face, err := r.fontFace(f, layout.Color{}, false)
	if err != nil {
		layout.Logger().Warn("canvas: face unavailable", slog.String("typeface", f.Typeface), slog.Any("err", err))
		return layout.Bounds{}
	}
	m := face.Metrics()
	return layout.Bounds{Top: -m.Ascent, Right: face.TextWidth(text), Bottom: m.Descent}
}

// TextWidth implements layout.Metrics.
func (r *Renderer) TextWidth(text string, f layout.Face) float64 {
	face, err := r.fontFace(f, layout.Color{}, false)
	if err != nil {
		layout.Logger().Warn("canvas: face unavailable", slog.String("typeface", f.Typeface), slog.Any("err", err))
		return 0
	}
	return face.TextWidth(text)
}

func (r *Renderer) fontFace(f layout.Face, col layout.Color, underline bool) (*canvas.FontFace, error) {
	typeface := f.Typeface
	if typeface == "" {
		typeface = layout.DefaultTypeface
	}
	src := fonts.Variant(typeface, f.Bold, f.Italic)
	style := canvas.FontRegular
	if !fonts.IsBuiltin(src) {
		// 非内置字体没有独立的粗体/斜体文件，交给 canvas 模拟
		if f.Bold {
			style |= canvas.FontBold
		}
		if f.Italic {
			style |= canvas.FontItalic
		}
	}
	family, err := r.ensureFontFamily(src)
	if err != nil {
		return nil, err
	}
	if underline {
		return family.Face(f.Size, colorFromLayout(col), style, canvas.FontNormal, canvas.FontUnderline), nil
	}
	return family.Face(f.Size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(src string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[src]; ok {
		return family, nil
	}
	data, err := r.loadFontBytes(src)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(src)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", src, err)
	}
	r.fontFamilies[src] = family
	return family, nil
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	name := strings.TrimPrefix(src, "builtin:")
	if blob, ok := r.fontBlobs[name]; ok {
		return blob, nil
	}
	if blob, ok := r.fontBlobs[src]; ok {
		return blob, nil
	}
	return fonts.Load(src, r.baseDir)
}

func colorFromLayout(c layout.Color) color.Color {
	return color.RGBA{R: clamp8(c.R), G: clamp8(c.G), B: clamp8(c.B), A: 255}
}

func clamp8(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}
