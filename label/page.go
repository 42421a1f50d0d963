package label

import (
	"fmt"
	"strings"

	"github.com/ByLCY/spanlayout/dsl"
	"github.com/ByLCY/spanlayout/layout"
)

// pagePresets 常用纸张与标签尺寸（mm，纵向）。
var pagePresets = map[string][2]float64{
	"A4":   {210, 297},
	"A5":   {148, 210},
	"A6":   {105, 148},
	"CARD": {85.6, 53.98},
}

// resolvePage reads `page A6 landscape margin 4mm` or `page 120mm 60mm ...`.
func resolvePage(spec dsl.PageSpec) (Page, error) {
	params := spec.Params
	if len(params) == 0 {
		return Page{}, fmt.Errorf("label: page 缺少尺寸")
	}

	var page Page
	rest := params[1:]
	if preset, ok := pagePresets[strings.ToUpper(params[0].Value)]; ok {
		page.Width, page.Height = preset[0], preset[1]
	} else {
		w, okW := parseMM(params[0].Value)
		if !okW || len(params) < 2 {
			return Page{}, fmt.Errorf("暂不支持的纸张尺寸：%s", params[0].Value)
		}
		h, okH := parseMM(params[1].Value)
		if !okH {
			return Page{}, fmt.Errorf("label: 页面高度无法解析：%s", params[1].Value)
		}
		page.Width, page.Height = w, h
		rest = params[2:]
	}
	if page.Width <= 0 || page.Height <= 0 {
		return Page{}, fmt.Errorf("label: 页面尺寸必须为正：%gx%g", page.Width, page.Height)
	}

	for _, token := range rest {
		switch strings.ToLower(token.Value) {
		case "landscape":
			if page.Width < page.Height {
				page.Width, page.Height = page.Height, page.Width
			}
		case "portrait":
			if page.Width > page.Height {
				page.Width, page.Height = page.Height, page.Width
			}
		}
	}
	page.Margin = resolveMargin(rest)
	return page, nil
}

// resolveMargin follows CSS shorthand: 1 value all sides, 2 values
// vertical/horizontal, 3 values top/horizontal/bottom, 4 values clockwise.
func resolveMargin(params []*dsl.Lexeme) Margin {
	var margin Margin
	for i, token := range params {
		if token.Value != "margin" {
			continue
		}
		var vals []float64
		for _, p := range params[i+1:] {
			v, ok := parseMM(p.Value)
			if !ok || len(vals) == 4 {
				break
			}
			vals = append(vals, v)
		}
		switch len(vals) {
		case 1:
			margin = Margin{vals[0], vals[0], vals[0], vals[0]}
		case 2:
			margin = Margin{vals[0], vals[1], vals[0], vals[1]}
		case 3:
			margin = Margin{vals[0], vals[1], vals[2], vals[1]}
		case 4:
			margin = Margin{vals[0], vals[1], vals[2], vals[3]}
		}
	}
	return margin
}

// parseMM parses a length; unit-less numbers are millimetres.
func parseMM(value string) (float64, bool) {
	l, ok := layout.ParseLength(value)
	if !ok {
		return 0, false
	}
	return l.ToMM(), true
}

// parsePT parses a text size; unit-less numbers are points.
func parsePT(value string) (float64, bool) {
	l, ok := layout.ParseLength(value)
	if !ok {
		return 0, false
	}
	return l.ToPT(), true
}

func firstPage(doc *dsl.Document) *dsl.PageSection {
	for _, section := range doc.Sections {
		if section.Page != nil {
			return section.Page
		}
	}
	return nil
}
