package render

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/clubar/pkg/markup"
)

// BoxSpec is a parsed Box value: "color[:thickness]".
type BoxSpec struct {
	Color     string
	Thickness int
}

// ParseBox parses a Box value. A missing thickness is 1. Anything after the
// thickness digits, or a zero thickness, makes the value invalid.
func ParseBox(value string) (BoxSpec, bool) {
	color, size, hasSize := strings.Cut(value, ":")
	spec := BoxSpec{Color: color, Thickness: 1}
	if !hasSize {
		return spec, true
	}
	if size == "" {
		return spec, true
	}
	n, err := strconv.Atoi(size)
	if err != nil || n <= 0 || size[0] == '+' || size[0] == '-' {
		return BoxSpec{}, false
	}
	spec.Thickness = n
	return spec, true
}

// Edge is one drawn side of a box.
type Edge struct {
	Color     Color
	Thickness int
}

// Boxes collects the edges drawn around a block, per side, from the most
// recently opened box outwards.
type Boxes struct {
	Left   []Edge
	Right  []Edge
	Top    []Edge
	Bottom []Edge
}

// Empty reports whether no edge is drawn at all.
func (b Boxes) Empty() bool {
	return len(b.Left) == 0 && len(b.Right) == 0 && len(b.Top) == 0 && len(b.Bottom) == 0
}

// Side returns the edges for one of the box modifiers.
func (b Boxes) Side(m markup.Modifier) []Edge {
	switch m {
	case markup.ModLeft:
		return b.Left
	case markup.ModRight:
		return b.Right
	case markup.ModTop:
		return b.Top
	case markup.ModBottom:
		return b.Bottom
	}
	return nil
}

func (b *Boxes) add(m markup.Modifier, e Edge) {
	switch m {
	case markup.ModLeft:
		b.Left = append(b.Left, e)
	case markup.ModRight:
		b.Right = append(b.Right, e)
	case markup.ModTop:
		b.Top = append(b.Top, e)
	case markup.ModBottom:
		b.Bottom = append(b.Bottom, e)
	}
}
