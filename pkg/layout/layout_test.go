package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/clubar/pkg/config"
	"github.com/arthur-debert/clubar/pkg/render"
)

func segs(texts ...string) []render.Segment {
	out := make([]render.Segment, len(texts))
	for i, t := range texts {
		out[i] = render.Segment{Text: t}
	}
	return out
}

func TestMeasure(t *testing.T) {
	assert.Equal(t, 5, Measure(render.Segment{Text: "hello"}))
	assert.Equal(t, 4, Measure(render.Segment{Text: "日本"}), "wide runes take two cells")
	assert.Equal(t, 0, Measure(render.Segment{}))

	boxed := render.Segment{Text: "ab"}
	boxed.Box.Left = []render.Edge{{Thickness: 3}, {Thickness: 1}}
	boxed.Box.Right = []render.Edge{{Thickness: 1}}
	boxed.Box.Top = []render.Edge{{Thickness: 1}}
	assert.Equal(t, 5, Measure(boxed))
}

func TestLeftRight(t *testing.T) {
	s := segs("ab", "c", "def")

	assert.Equal(t, []Span{
		{Index: 0, Start: 2, End: 4},
		{Index: 1, Start: 4, End: 5},
		{Index: 2, Start: 5, End: 8},
	}, Left(s, 2))

	assert.Equal(t, []Span{
		{Index: 0, Start: 4, End: 6},
		{Index: 1, Start: 6, End: 7},
		{Index: 2, Start: 7, End: 10},
	}, Right(s, 10))
}

func TestHitTest(t *testing.T) {
	spans := Left(segs("ab", "", "c"), 0)

	tests := []struct {
		x    int
		want int
		ok   bool
	}{
		{0, 0, true},
		{1, 0, true},
		{2, 2, true},
		{3, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		got, ok := HitTest(spans, tt.x)
		assert.Equal(t, tt.ok, ok, "x=%d", tt.x)
		if tt.ok {
			assert.Equal(t, tt.want, got, "x=%d", tt.x)
		}
	}

	_, ok := HitTest(nil, 0)
	assert.False(t, ok)
}

func TestArrange(t *testing.T) {
	t.Run("known width", func(t *testing.T) {
		line := Arrange(segs("ab"), segs("xyz"), 20, config.Direction{Left: 1, Right: 2})
		assert.Equal(t, []Span{{Index: 0, Start: 1, End: 3}}, line.Left)
		assert.Equal(t, []Span{{Index: 0, Start: 15, End: 18}}, line.Right)
		assert.Equal(t, 20, line.Width)
	})

	t.Run("unknown width", func(t *testing.T) {
		line := Arrange(segs("ab"), segs("xyz"), 0, config.Direction{})
		assert.Equal(t, []Span{{Index: 0, Start: 3, End: 6}}, line.Right)
		assert.Equal(t, 6, line.Width)
	})

	t.Run("overlap pushes right channel", func(t *testing.T) {
		line := Arrange(segs("abcdef"), segs("xyz"), 7, config.Direction{})
		assert.Equal(t, []Span{{Index: 0, Start: 6, End: 9}}, line.Right)
		assert.Equal(t, 9, line.Width)
	})

	t.Run("only right", func(t *testing.T) {
		line := Arrange(nil, segs("xy"), 0, config.Direction{Left: 1})
		assert.Equal(t, []Span{{Index: 0, Start: 1, End: 3}}, line.Right)
	})
}

func TestLineHit(t *testing.T) {
	line := Arrange(segs("ab", "cd"), segs("xy"), 10, config.Direction{})

	i, right, ok := line.Hit(3)
	assert.True(t, ok)
	assert.False(t, right)
	assert.Equal(t, 1, i)

	i, right, ok = line.Hit(9)
	assert.True(t, ok)
	assert.True(t, right)
	assert.Equal(t, 0, i)

	_, _, ok = line.Hit(5)
	assert.False(t, ok)
}

func TestPlace(t *testing.T) {
	none := config.Direction{}

	t.Run("fills the screen width", func(t *testing.T) {
		p := Place(80, 24, config.Geometry{}, none, none, false)
		assert.Equal(t, Placement{X: 0, Y: 23, Width: 80, Height: 1, TextRow: 23}, p)
	})

	t.Run("geometry x and width", func(t *testing.T) {
		p := Place(80, 24, config.Geometry{X: 10, W: 40}, none, none, true)
		assert.Equal(t, 10, p.X)
		assert.Equal(t, 40, p.Width)

		p = Place(80, 24, config.Geometry{X: 60, W: 40}, none, none, true)
		assert.Equal(t, 20, p.Width, "width is capped at the screen edge")
	})

	t.Run("geometry y and height", func(t *testing.T) {
		p := Place(80, 24, config.Geometry{Y: 2, H: 3}, none, none, true)
		assert.Equal(t, 2, p.Y)
		assert.Equal(t, 3, p.Height)

		p = Place(80, 24, config.Geometry{Y: 2, H: 3}, none, none, false)
		assert.Equal(t, 19, p.Y, "bottom bars move up")
	})

	t.Run("margin left and right", func(t *testing.T) {
		p := Place(80, 24, config.Geometry{}, config.Direction{Left: 7, Right: 3}, none, true)
		assert.Equal(t, 7, p.X)
		assert.Equal(t, 70, p.Width)
	})

	t.Run("margin top and bottom", func(t *testing.T) {
		margin := config.Direction{Top: 2, Bottom: 4}
		assert.Equal(t, 2, Place(80, 24, config.Geometry{}, margin, none, true).Y)
		assert.Equal(t, 19, Place(80, 24, config.Geometry{}, margin, none, false).Y)
	})

	t.Run("padding top and bottom", func(t *testing.T) {
		p := Place(80, 24, config.Geometry{H: 1}, none, config.Direction{Top: 1, Bottom: 2}, false)
		assert.Equal(t, 4, p.Height, "height grows to hold the padding")
		assert.Equal(t, 20, p.Y)
		assert.Equal(t, 21, p.TextRow)
		assert.True(t, p.Rows(20))
		assert.True(t, p.Rows(23))
		assert.False(t, p.Rows(19))
	})

	t.Run("unknown screen", func(t *testing.T) {
		assert.Equal(t, 0, Place(0, 0, config.Geometry{}, none, none, true).Width)
		assert.Equal(t, 30, Place(0, 0, config.Geometry{W: 30}, none, none, true).Width)
		assert.Equal(t, 0, Place(0, 0, config.Geometry{H: 2}, none, none, false).Y)
	})
}
