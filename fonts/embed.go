package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrUnknownBuiltin is returned for a builtin: or embed: source that names no
// registered typeface.
var ErrUnknownBuiltin = errors.New("fonts: unknown builtin typeface")

const (
	builtinPrefix = "builtin:"
	embedPrefix   = "embed:"
)

var builtins = map[string][]byte{
	"go-regular":        goregular.TTF,
	"go-bold":           gobold.TTF,
	"go-italic":         goitalic.TTF,
	"go-bolditalic":     gobolditalic.TTF,
	"go-mono":           gomono.TTF,
	"go-monobold":       gomonobold.TTF,
	"go-monoitalic":     gomonoitalic.TTF,
	"go-monobolditalic": gomonobolditalic.TTF,
}

// variants maps a family base name to its [regular, bold, italic, bolditalic] faces.
var variants = map[string][4]string{
	"go":      {"go-regular", "go-bold", "go-italic", "go-bolditalic"},
	"go-mono": {"go-mono", "go-monobold", "go-monoitalic", "go-monobolditalic"},
}

// Names lists the builtin typefaces in sorted order.
func Names() []string {
	out := make([]string, 0, len(builtins))
	for name := range builtins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Builtin returns the TTF bytes of a builtin typeface. The name may carry a
// builtin: or embed: prefix.
func Builtin(name string) ([]byte, error) {
	data, ok := builtins[trimPrefix(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, name)
	}
	return data, nil
}

// IsBuiltin reports whether src resolves to a builtin typeface.
func IsBuiltin(src string) bool {
	_, ok := builtins[trimPrefix(src)]
	return ok
}

// Variant returns the builtin face of src's family with bold and/or italic
// added. Flags never remove weight or slant already in src. Non-builtin
// sources are returned unchanged.
func Variant(src string, bold, italic bool) string {
	name := trimPrefix(src)
	if _, ok := builtins[name]; !ok {
		return src
	}
	for _, faces := range variants {
		for idx, face := range faces {
			if face != name {
				continue
			}
			if bold {
				idx |= 1
			}
			if italic {
				idx |= 2
			}
			return faces[idx]
		}
	}
	return name
}

// Load returns font bytes for src:
//
//	builtin:go-bold / embed:go-bold / go-bold  builtin typeface
//	fonts/Brand.ttf                            file, relative to baseDir
func Load(src, baseDir string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("fonts: empty font source")
	}
	if data, ok := builtins[trimPrefix(src)]; ok {
		return data, nil
	}
	if strings.HasPrefix(src, builtinPrefix) || strings.HasPrefix(src, embedPrefix) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, src)
	}
	path := src
	if !filepath.IsAbs(path) {
		if baseDir == "" {
			return nil, fmt.Errorf("fonts: relative path %s needs a base directory (use builtin: instead)", src)
		}
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fonts: read %s: %w", src, err)
	}
	return data, nil
}

func trimPrefix(src string) string {
	src = strings.TrimPrefix(src, builtinPrefix)
	return strings.TrimPrefix(src, embedPrefix)
}
