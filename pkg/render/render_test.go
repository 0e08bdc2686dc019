package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/clubar/pkg/config"
	"github.com/arthur-debert/clubar/pkg/markup"
)

func segment(t *testing.T, input string) []markup.Block {
	t.Helper()
	s := markup.NewSegmenter()
	blocks, err := s.Segment(input)
	require.NoError(t, err)
	t.Cleanup(func() { s.Release(blocks) })
	return blocks
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		spec string
		want Color
		ok   bool
	}{
		{"#ff0000", RGB(0xff, 0, 0), true},
		{"#F0A", RGB(0xff, 0x00, 0xaa), true},
		{" #00ff00 ", RGB(0, 0xff, 0), true},
		{"white", RGB(0xff, 0xff, 0xff), true},
		{"Black", RGB(0, 0, 0), true},
		{"#12345", Color{}, false},
		{"#gggggg", Color{}, false},
		{"notacolor", Color{}, false},
		{"", Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, ok := ParseColor(tt.spec)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#0a0b0c", RGB(10, 11, 12).Hex())
	assert.Equal(t, "", Color{}.Hex())
	assert.Equal(t, "none", Color{}.String())
}

func TestColorCache(t *testing.T) {
	c, err := NewColorCache(2)
	require.NoError(t, err)

	red, ok := c.Get("#ff0000")
	require.True(t, ok)
	assert.Equal(t, RGB(0xff, 0, 0), red)

	_, ok = c.Get("bogus")
	assert.False(t, ok, "invalid specs are cached as invalid")
	assert.Equal(t, 2, c.Len())

	c.Get("#00ff00")
	assert.Equal(t, 2, c.Len(), "least recently used entry is evicted")

	fallback := RGB(1, 2, 3)
	assert.Equal(t, fallback, c.Lookup("bogus", fallback))

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestParseFont(t *testing.T) {
	tests := []struct {
		spec string
		want Font
	}{
		{"monospace-9", Font{Spec: "monospace-9", Name: "monospace", Size: 9}},
		{"monospace-9:bold", Font{Spec: "monospace-9:bold", Name: "monospace", Size: 9, Bold: true}},
		{"DejaVu Sans Mono:size=10:italic", Font{Spec: "DejaVu Sans Mono:size=10:italic", Name: "DejaVu Sans Mono", Size: 10, Italic: true}},
		{"fixed", Font{Spec: "fixed", Name: "fixed"}},
		{"-misc-fixed", Font{Spec: "-misc-fixed", Name: "-misc-fixed"}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFont(tt.spec))
		})
	}
}

func TestFontIndex(t *testing.T) {
	tests := []struct {
		input  string
		nfonts int
		want   int
	}{
		{"plain", 2, 0},
		{"<Fn=1>x", 2, 1},
		{"<Fn=3>x", 2, 1},
		{"<Fn=12abc>x", 5, 2},
		{"<Fn=abc>x", 3, 0},
		{"<Fn=-1>x", 3, 0},
		{"<Fn=1>x", 0, 0},
		{"<Fn=99999999999999999999>x", 7, 99999999 % 7},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			blocks := segment(t, tt.input)
			require.Len(t, blocks, 1)
			assert.Equal(t, tt.want, FontIndex(blocks[0].Annotations, tt.nfonts))
		})
	}
}

func TestParseBox(t *testing.T) {
	tests := []struct {
		value string
		want  BoxSpec
		ok    bool
	}{
		{"#ff0000", BoxSpec{Color: "#ff0000", Thickness: 1}, true},
		{"#ff0000:3", BoxSpec{Color: "#ff0000", Thickness: 3}, true},
		{"red:", BoxSpec{Color: "red", Thickness: 1}, true},
		{":2", BoxSpec{Thickness: 2}, true},
		{"", BoxSpec{Thickness: 1}, true},
		{"red:2px", BoxSpec{}, false},
		{"red:0", BoxSpec{}, false},
		{"red:-1", BoxSpec{}, false},
		{"red:1:2", BoxSpec{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := ParseBox(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	cfg := config.Default()
	cfg.Foreground = "#efefef"
	cfg.Background = "#090909"
	cfg.Border = "#0000ff"
	cfg.Fonts = []string{"mono-9", "mono-9:bold"}
	r, err := NewResolver(cfg)
	require.NoError(t, err)
	return r
}

func TestResolveDefaults(t *testing.T) {
	r := testResolver(t)
	blocks := segment(t, "hello")
	require.Len(t, blocks, 1)

	seg := r.Resolve(blocks[0])
	assert.Equal(t, "hello", seg.Text)
	assert.Equal(t, RGB(0xef, 0xef, 0xef), seg.Fg)
	assert.False(t, seg.Bg.Valid)
	assert.True(t, seg.Box.Empty())
	assert.False(t, seg.Clickable())
	assert.Equal(t, "mono", seg.Font.Name)
}

func TestResolveAnnotations(t *testing.T) {
	r := testResolver(t)
	input := "<Fg=#ff0000><Bg=nope><Fn=1><BtnL:Shift=echo hi>" +
		"<Box:Left|Right=#00ff00:2><Box:Top|Bottom>x"
	blocks := segment(t, input)
	require.Len(t, blocks, 1)

	seg := r.Resolve(blocks[0])
	assert.Equal(t, RGB(0xff, 0, 0), seg.Fg)
	assert.Equal(t, RGB(0x09, 0x09, 0x09), seg.Bg, "invalid bg falls back to the theme background")
	assert.Equal(t, 1, seg.FontIndex)
	assert.True(t, seg.Font.Bold)
	assert.Equal(t, []markup.Kind{markup.KindBtnLeft}, seg.Actions)

	border := RGB(0, 0, 0xff)
	green := RGB(0, 0xff, 0)
	assert.Equal(t, []Edge{{Color: border, Thickness: 1}}, seg.Box.Top)
	assert.Equal(t, []Edge{{Color: border, Thickness: 1}}, seg.Box.Bottom)
	assert.Equal(t, []Edge{{Color: green, Thickness: 2}}, seg.Box.Left)
	assert.Equal(t, seg.Box.Left, seg.Box.Side(markup.ModLeft))
	assert.Equal(t, []Edge{{Color: green, Thickness: 2}}, seg.Box.Right)
}

func TestResolveNestedBoxesInnermostFirst(t *testing.T) {
	r := testResolver(t)
	blocks := segment(t, "<Box:Bottom=red><Box:Bottom=white:2>x<Box:Left=red:x>y")
	require.Len(t, blocks, 2)

	seg := r.Resolve(blocks[0])
	require.Len(t, seg.Box.Bottom, 2)
	assert.Equal(t, RGB(0xff, 0xff, 0xff), seg.Box.Bottom[0].Color)
	assert.Equal(t, 2, seg.Box.Bottom[0].Thickness)
	assert.Equal(t, RGB(0xff, 0, 0), seg.Box.Bottom[1].Color)

	seg = r.Resolve(blocks[1])
	assert.Len(t, seg.Box.Bottom, 2)
	assert.Empty(t, seg.Box.Left, "invalid box values are skipped")
}

func TestResolveAll(t *testing.T) {
	r := testResolver(t)
	blocks := segment(t, "a<Fg=white>b</Fg>c")
	segs := r.ResolveAll(blocks)
	require.Len(t, segs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{segs[0].Text, segs[1].Text, segs[2].Text})
	assert.Equal(t, RGB(0xff, 0xff, 0xff), segs[1].Fg)
	assert.Equal(t, r.Theme().Foreground, segs[2].Fg)
}
