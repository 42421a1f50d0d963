// Package label builds laid-out label documents from the DSL: it collects
// resources, turns every box into styled spans and runs the layout engine
// on each box. All geometry is in millimetres, text sizes in points.
package label

import (
	"errors"
	"fmt"

	"github.com/ByLCY/spanlayout/layout"
)

var (
	// ErrNoPage is returned when a document has no page section.
	ErrNoPage = errors.New("label: document has no page")
	// ErrNoBox is returned by Document.Box for an unknown box name.
	ErrNoBox = errors.New("label: no such box")
)

// Margin 页边距（mm）。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Page 页面尺寸与边距（mm）。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// Content returns the area inside the margins.
func (p Page) Content() layout.Rect {
	return layout.Rect{
		X: p.Margin.Left,
		Y: p.Margin.Top,
		W: max(p.Width-p.Margin.Left-p.Margin.Right, 0),
		H: max(p.Height-p.Margin.Top-p.Margin.Bottom, 0),
	}
}

// FontResource 命名字体资源，Src 支持 builtin:<name> 或相对路径。
type FontResource struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

// Style 命名样式，Props 为 extends 展开后的属性。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// ResourceSet 汇总资源段声明的字体、颜色与样式。
type ResourceSet struct {
	Fonts  map[string]FontResource `json:"fonts"`
	Colors map[string]layout.Color `json:"colors"`
	Styles map[string]Style        `json:"styles"`
}

// Meta 文档元信息，写入 PDF Info。
type Meta struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Box is one text area of the page together with its layout result.
type Box struct {
	Name   string           `json:"name,omitempty"`
	Target layout.Rect      `json:"target"`
	Align  layout.Alignment `json:"align"`
	// Override is the box-wide style that wins over every span's own style.
	Override   layout.Style   `json:"override"`
	LineHeight float64        `json:"lineHeight"`
	Spans      []layout.Span  `json:"spans"`
	Result     *layout.Result `json:"result"`
}

// Document is a fully laid-out label.
type Document struct {
	Name      string      `json:"name"`
	Version   string      `json:"version"`
	Page      Page        `json:"page"`
	Boxes     []Box       `json:"boxes"`
	Resources ResourceSet `json:"resources"`
	Meta      Meta        `json:"meta"`
	// Default is the bottom style tier used for every box.
	Default layout.Style `json:"default"`
	// Scale is the density factor the boxes were laid out with.
	Scale float64 `json:"scale"`
}

// Box returns the box called name.
func (d *Document) Box(name string) (*Box, error) {
	for i := range d.Boxes {
		if d.Boxes[i].Name == name {
			return &d.Boxes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoBox, name)
}

// Resolver returns the style resolver box was laid out with.
func (d *Document) Resolver(box *Box) layout.Resolver {
	r := layout.Resolver{Default: d.Default, Scale: d.Scale}
	if box != nil && box.Override != layout.NewStyle() {
		o := box.Override
		r.Override = &o
	}
	return r
}
