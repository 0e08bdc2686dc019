// Package layout places resolved segments on a row of terminal cells and
// maps cell positions back to segments.
package layout

import (
	"sort"

	"github.com/mattn/go-runewidth"

	"github.com/arthur-debert/clubar/pkg/config"
	"github.com/arthur-debert/clubar/pkg/render"
)

// Span is the half-open cell range [Start, End) taken by segment Index.
type Span struct {
	Index int
	Start int
	End   int
}

// Width is the number of cells in the span.
func (s Span) Width() int {
	return s.End - s.Start
}

// Contains reports whether cell x falls inside the span.
func (s Span) Contains(x int) bool {
	return x >= s.Start && x < s.End
}

// EdgeCells is the number of cells a segment spends on left and right box
// edges. Each edge takes one cell whatever its thickness.
func EdgeCells(s render.Segment) (left, right int) {
	return len(s.Box.Left), len(s.Box.Right)
}

// TextWidth is the display width of the segment text.
func TextWidth(s render.Segment) int {
	return runewidth.StringWidth(s.Text)
}

// Measure returns the total cell width of a segment.
func Measure(s render.Segment) int {
	l, r := EdgeCells(s)
	return l + TextWidth(s) + r
}

// Left lays segments out left to right starting at cell start.
func Left(segs []render.Segment, start int) []Span {
	spans := make([]Span, len(segs))
	x := start
	for i, s := range segs {
		w := Measure(s)
		spans[i] = Span{Index: i, Start: x, End: x + w}
		x += w
	}
	return spans
}

// Right lays segments out so the last one ends at cell end, keeping their
// order.
func Right(segs []render.Segment, end int) []Span {
	spans := make([]Span, len(segs))
	x := end
	for i := len(segs) - 1; i >= 0; i-- {
		w := Measure(segs[i])
		spans[i] = Span{Index: i, Start: x - w, End: x}
		x -= w
	}
	return spans
}

// Extent returns the first and one-past-last cell covered by spans.
func Extent(spans []Span) (start, end int) {
	if len(spans) == 0 {
		return 0, 0
	}
	return spans[0].Start, spans[len(spans)-1].End
}

// HitTest returns the index of the segment under cell x.
func HitTest(spans []Span, x int) (int, bool) {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End > x })
	if i < len(spans) && spans[i].Contains(x) {
		return spans[i].Index, true
	}
	return 0, false
}

// Line is a full bar row: the stdin channel on the left and the custom
// channel on the right.
type Line struct {
	Left  []Span
	Right []Span
	Width int
}

// Arrange places both channels on a row of width cells. When width is not
// known (zero or less) the row is as wide as its content plus one gap cell.
// The right channel never starts before the left one ends.
func Arrange(left, right []render.Segment, width int, pad config.Direction) Line {
	line := Line{Left: Left(left, pad.Left)}
	_, leftEnd := Extent(line.Left)
	if len(line.Left) == 0 {
		leftEnd = pad.Left
	}

	rightWidth := 0
	for _, s := range right {
		rightWidth += Measure(s)
	}

	end := width - pad.Right
	if width <= 0 {
		end = leftEnd + rightWidth
		if len(left) > 0 && len(right) > 0 {
			end++
		}
	}
	if end-rightWidth < leftEnd {
		end = leftEnd + rightWidth
	}
	line.Right = Right(right, end)

	line.Width = width
	if width <= 0 || end+pad.Right > width {
		line.Width = end + pad.Right
	}
	return line
}

// Hit finds the segment under cell x. right is true when it belongs to the
// right channel.
func (l Line) Hit(x int) (index int, right bool, ok bool) {
	if i, ok := HitTest(l.Left, x); ok {
		return i, false, true
	}
	if i, ok := HitTest(l.Right, x); ok {
		return i, true, true
	}
	return 0, false, false
}

// Placement is the rectangle of the bar on a screen, in cells. TextRow is the
// row the segments are drawn on; the other rows are vertical padding.
type Placement struct {
	X, Y          int
	Width, Height int
	TextRow       int
}

// Place positions the bar on a screen of screenW by screenH cells. A
// non-positive screen size means unknown: Width is then geo.W, and zero
// again means the width of the content. The bar is docked at the top
// when top is set, else at the bottom; geo.Y and the margin on the docked
// side move it away from that edge.
func Place(screenW, screenH int, geo config.Geometry, margin, pad config.Direction, top bool) Placement {
	p := Placement{X: margin.Left + geo.X}

	switch {
	case screenW <= 0:
		p.Width = geo.W
	case geo.W > 0:
		p.Width = min(geo.W, screenW-p.X)
	default:
		p.Width = screenW - p.X - margin.Right
	}
	p.Width = max(p.Width, 0)

	p.Height = max(geo.H, pad.Top+1+pad.Bottom)
	if top {
		p.Y = margin.Top + geo.Y
	} else {
		p.Y = max(screenH-margin.Bottom-geo.Y-p.Height, 0)
	}
	p.TextRow = p.Y + pad.Top
	return p
}

// Rows reports whether row y belongs to the bar.
func (p Placement) Rows(y int) bool {
	return y >= p.Y && y < p.Y+p.Height
}
