package label

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ByLCY/spanlayout/dsl"
	"github.com/ByLCY/spanlayout/layout"
)

// DefaultStyleName is the resource style that feeds the default tier.
const DefaultStyleName = "Default"

func collectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]layout.Color{},
		Styles: map[string]Style{},
	}
	rawStyles := map[string]Style{}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			switch stmt.Command.Name {
			case "font":
				font := parseFontResource(stmt.Command)
				if font.Name == "" || font.Src == "" {
					return res, fmt.Errorf("label: font 资源缺少名称或 src（%s）", stmt.Command.Pos)
				}
				res.Fonts[font.Name] = font
			case "color":
				name, value := parseColorResource(stmt.Command)
				if name == "" || value == "" {
					continue
				}
				c, err := parseColor(value)
				if err != nil {
					return res, fmt.Errorf("label: color %s: %w", name, err)
				}
				res.Colors[name] = c
			case "style":
				style := parseStyleResource(stmt.Command)
				if style.Name != "" {
					rawStyles[style.Name] = style
				}
			default:
				layout.Logger().Warn("label: unknown resource", slog.String("kind", stmt.Command.Name))
			}
		}
	}

	styles, err := resolveStyles(rawStyles)
	if err != nil {
		return res, err
	}
	res.Styles = styles
	return res, nil
}

func collectMeta(doc *dsl.Document) Meta {
	meta := Meta{Creator: "spanlayout"}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			val := stmt.Assignment.Value
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = val.Text()
			case "author":
				meta.Author = val.Text()
			case "subject":
				meta.Subject = val.Text()
			case "creator":
				meta.Creator = val.Text()
			case "keywords":
				meta.Keywords = val.Strings()
			}
		}
	}
	return meta
}

func parseFontResource(cmd *dsl.Command) FontResource {
	if len(cmd.Args) == 0 {
		return FontResource{}
	}
	font := FontResource{Name: cmd.Args[0].Value}
	for _, stmt := range blockStatements(cmd.Block) {
		if stmt.Assignment != nil && stmt.Assignment.Key == "src" {
			font.Src = stmt.Assignment.Value.Text()
		}
	}
	return font
}

// parseColorResource reads `color Name = #hex`; the value is the last argument.
func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) < 2 {
		return "", ""
	}
	return cmd.Args[0].Value, cmd.Args[len(cmd.Args)-1].Value
}

func parseStyleResource(cmd *dsl.Command) Style {
	if len(cmd.Args) == 0 {
		return Style{}
	}
	style := Style{Name: cmd.Args[0].Value, Props: map[string]string{}}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		style.Extends = cmd.Args[2].Value
	}
	for _, stmt := range blockStatements(cmd.Block) {
		if stmt.Assignment == nil {
			continue
		}
		if val := stmt.Assignment.Value.Text(); val != "" {
			style.Props[stmt.Assignment.Key] = val
		}
	}
	return style
}

// resolveStyles flattens extends chains; the child's props win.
func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		style, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("label: style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("label: style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if style.Extends != "" {
			parent, err := dfs(style.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range style.Props {
			props[k] = v
		}
		style.Props = props
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

// parseColor accepts #rgb, #rrggbb and #rrggbbaa; alpha is dropped.
func parseColor(value string) (layout.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return layout.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var rgb [3]int
	for i := range rgb {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return layout.Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		rgb[i] = int(v)
	}
	return layout.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// resolveColor looks value up as a color resource first, then as a literal.
func resolveColor(value string, res ResourceSet) (*layout.Color, bool) {
	if c, ok := res.Colors[value]; ok {
		return &c, true
	}
	if strings.HasPrefix(value, "#") {
		if c, err := parseColor(value); err == nil {
			return &c, true
		}
	}
	return nil, false
}

func blockStatements(b *dsl.Block) []*dsl.Statement {
	if b == nil {
		return nil
	}
	return b.Statements
}
