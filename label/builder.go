package label

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/spanlayout/binding"
	"github.com/ByLCY/spanlayout/dsl"
	"github.com/ByLCY/spanlayout/layout"
)

// BuildOptions configures Build.
type BuildOptions struct {
	// Metrics must report lengths in millimetres for sizes in points.
	Metrics layout.Metrics
	// Scale multiplies every resolved text size. <= 0 means 1.
	Scale float64
}

// Build 根据 DSL AST 与绑定数据生成每个 box 的排版结果。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("label: 文档为空")
	}
	if opts.Metrics == nil {
		return nil, fmt.Errorf("label: %w", layout.ErrNoMetrics)
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	section := firstPage(doc)
	if section == nil {
		return nil, ErrNoPage
	}
	page, err := resolvePage(section.Spec)
	if err != nil {
		return nil, err
	}

	out := &Document{
		Name:      doc.Name,
		Version:   doc.Version,
		Page:      page,
		Resources: res,
		Meta:      collectMeta(doc),
		Default:   layout.DefaultStyle(),
		Scale:     scale,
	}
	if def, ok := res.Styles[DefaultStyleName]; ok {
		out.Default = mergeDefault(out.Default, styleFromAttrs(def.Props, res))
	}

	b := builder{doc: out, data: data, metrics: opts.Metrics}
	for _, cmd := range section.Block.Commands("box") {
		box, err := b.box(cmd)
		if err != nil {
			return nil, err
		}
		out.Boxes = append(out.Boxes, box)
	}
	return out, nil
}

type builder struct {
	doc     *Document
	data    any
	metrics layout.Metrics
}

func (b *builder) box(cmd *dsl.Command) (Box, error) {
	name, attrs := parseArgs(cmd.Args, true)
	content := b.doc.Page.Content()

	box := Box{Name: name, Override: styleFromAttrs(attrs, b.doc.Resources)}
	x, _ := parseMM(attrs["x"])
	y, _ := parseMM(attrs["y"])
	w, okW := parseMM(attrs["width"])
	if !okW {
		w = content.W - x
	}
	h, okH := parseMM(attrs["height"])
	if !okH {
		h = content.H - y
	}
	box.Target = layout.Rect{X: content.X + x, Y: content.Y + y, W: max(w, 0), H: max(h, 0)}
	box.Align = layout.Alignment{H: layout.ParseHAlign(attrs["align"]), V: layout.ParseVAlign(attrs["valign"])}

	for _, st := range cmd.Block.Commands("span") {
		box.Spans = append(box.Spans, b.span(st))
	}
	if text := cmd.Block.Texts(); text != "" {
		// bare literals directly inside a box become one unstyled span
		box.Spans = append(box.Spans, layout.NewSpan(b.text(text)))
	}

	resolver := b.doc.Resolver(&box)
	box.LineHeight = b.lineHeight(attrs["line-height"], resolver)
	engine, err := layout.New(layout.Options{Metrics: b.metrics, Resolver: &resolver})
	if err != nil {
		return Box{}, fmt.Errorf("label: box %s: %w", name, err)
	}
	box.Result = engine.Layout(box.Spans, box.Target, box.LineHeight, box.Align)

	layout.Logger().Debug("label: box laid out",
		slog.String("box", name),
		slog.Int("spans", len(box.Result.Spans)),
		slog.Float64("width", box.Result.Size.W),
		slog.Float64("height", box.Result.Size.H))
	if box.Result.Size.H > box.Target.H || box.Result.Size.W > box.Target.W {
		layout.Logger().Warn("label: box content overflows",
			slog.String("box", name),
			slog.Float64("contentH", box.Result.Size.H),
			slog.Float64("targetH", box.Target.H))
	}
	return box, nil
}

func (b *builder) span(cmd *dsl.Command) layout.Span {
	styleName, inline := parseArgs(cmd.Args, true)
	attrs := mergeStyleAttributes(styleName, inline, b.doc.Resources.Styles)
	return layout.NewStyledSpan(b.text(cmd.Block.Texts()), styleFromAttrs(attrs, b.doc.Resources))
}

func (b *builder) text(s string) string {
	return norm.NFC.String(binding.Interpolate(s, b.data))
}

// lineHeight resolves the nominal line height in mm from the size the box
// resolves to.
func (b *builder) lineHeight(value string, r layout.Resolver) float64 {
	size := layout.Length{Value: r.Face(layout.NewStyle()).Size, Unit: layout.UnitPT}
	spec := layout.LineHeightSpec{Kind: layout.LineHeightFactor, Factor: layout.DefaultLineHeightFactor}
	if value != "" {
		parsed, ok := layout.ParseLineHeight(value)
		if !ok {
			layout.Logger().Warn("label: invalid line-height", slog.String("value", value))
		} else {
			spec = parsed
		}
	}
	if spec.Kind == layout.LineHeightAbsolute && spec.Len.Unit == layout.UnitNone {
		spec.Len.Unit = layout.UnitMM
	}
	return spec.Resolve(size, layout.UnitMM)
}

// styleFromAttrs maps DSL attributes to a style; absent attributes stay unset.
// Any of bold/italic/underline yields a complete decoration set, which on a
// box replaces the spans' sets.
func styleFromAttrs(attrs map[string]string, res ResourceSet) layout.Style {
	st := layout.NewStyle()
	if v := attrs["font"]; v != "" {
		if f, ok := res.Fonts[v]; ok {
			st.Typeface = f.Src
		} else {
			st.Typeface = v
		}
	}
	if v := attrs["size"]; v != "" {
		if size, ok := parsePT(v); ok && size >= 0 {
			st.TextSize = size
		} else {
			layout.Logger().Warn("label: invalid size", slog.String("value", v))
		}
	}
	if v := attrs["color"]; v != "" {
		if c, ok := resolveColor(v, res); ok {
			st.Foreground = c
		} else {
			layout.Logger().Warn("label: unknown color", slog.String("value", v))
		}
	}

	var deco layout.Decoration
	for flag, key := range map[layout.Decoration]string{
		layout.DecorationBold:      "bold",
		layout.DecorationItalic:    "italic",
		layout.DecorationUnderline: "underline",
	} {
		v, ok := attrs[key]
		if !ok {
			continue
		}
		deco |= layout.DecorationRegular
		if on, _ := strconv.ParseBool(v); on {
			deco |= flag
		}
	}
	if deco.Has(layout.DecorationBold) || deco.Has(layout.DecorationItalic) {
		deco &^= layout.DecorationRegular
	}
	st.Decoration = deco
	return st
}

// mergeDefault fills base with the fields set in s.
func mergeDefault(base, s layout.Style) layout.Style {
	if s.Foreground != nil {
		base.Foreground = s.Foreground
	}
	if s.Typeface != "" {
		base.Typeface = s.Typeface
	}
	if s.HasSize() {
		base.TextSize = s.TextSize
	}
	if s.Decoration != layout.DecorationInherit {
		base.Decoration = s.Decoration
	}
	return base
}

// parseArgs splits `[Name] key value key value ...`. With allowName, an odd
// argument count means the first argument is a name.
func parseArgs(args []*dsl.Lexeme, allowName bool) (string, map[string]string) {
	result := map[string]string{}
	cursor := 0
	var name string
	if allowName && len(args)%2 == 1 && args[0].Is("Ident") {
		name = args[0].Value
		cursor = 1
	}
	for ; cursor+1 < len(args); cursor += 2 {
		result[strings.ToLower(args[cursor].Value)] = args[cursor+1].Value
	}
	return name, result
}

func mergeStyleAttributes(style string, inline map[string]string, styles map[string]Style) map[string]string {
	out := map[string]string{}
	if style != "" {
		s, ok := styles[style]
		if !ok {
			layout.Logger().Warn("label: unknown style", slog.String("style", style))
		}
		for k, v := range s.Props {
			out[k] = v
		}
	}
	for k, v := range inline {
		out[k] = v
	}
	return out
}
