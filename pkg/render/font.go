package render

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/clubar/pkg/markup"
)

// Font is a parsed font spec of the form "name-size:attr:attr".
type Font struct {
	Spec   string
	Name   string
	Size   int
	Bold   bool
	Italic bool
}

// ParseFont splits a font spec. Unknown attributes are ignored.
func ParseFont(spec string) Font {
	f := Font{Spec: spec}
	parts := strings.Split(spec, ":")
	f.Name = strings.TrimSpace(parts[0])
	if i := strings.LastIndexByte(f.Name, '-'); i > 0 {
		if size, err := strconv.Atoi(f.Name[i+1:]); err == nil {
			f.Name, f.Size = f.Name[:i], size
		}
	}
	for _, attr := range parts[1:] {
		attr = strings.ToLower(strings.TrimSpace(attr))
		switch {
		case attr == "bold", attr == "weight=bold":
			f.Bold = true
		case attr == "italic", attr == "slant=italic", attr == "oblique":
			f.Italic = true
		case strings.HasPrefix(attr, "size="), strings.HasPrefix(attr, "pixelsize="):
			if size, err := strconv.Atoi(attr[strings.IndexByte(attr, '=')+1:]); err == nil {
				f.Size = size
			}
		}
	}
	return f
}

// ParseFonts parses every spec in order.
func ParseFonts(specs []string) []Font {
	fonts := make([]Font, len(specs))
	for i, s := range specs {
		fonts[i] = ParseFont(s)
	}
	return fonts
}

// FontIndex selects a font from the Fn annotation: the leading decimal digits
// of the top value modulo nfonts. Anything else selects font 0.
func FontIndex(a markup.Annotations, nfonts int) int {
	if nfonts <= 0 {
		return 0
	}
	top := a.Top(markup.KindFn)
	if top == nil {
		return 0
	}
	return leadingInt(top.Value) % nfonts
}

// leadingInt reads the decimal prefix of s, clamping at a large bound.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t")
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n > 1<<24 {
			break
		}
		n = n*10 + int(s[i]-'0')
	}
	return n
}
