package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	lru "github.com/hashicorp/golang-lru"
)

// DefaultColorCacheSize is the number of parsed colours kept around.
const DefaultColorCacheSize = 32

// Color is a resolved 24-bit colour. The zero value is not Valid.
type Color struct {
	R, G, B uint8
	Valid   bool
}

// RGB builds a valid colour.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Valid: true}
}

// Hex returns "#rrggbb", or an empty string for an invalid colour.
func (c Color) Hex() string {
	if !c.Valid {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	if !c.Valid {
		return "none"
	}
	return c.Hex()
}

// ParseColor understands "#rgb", "#rrggbb" and the X11 colour names.
func ParseColor(spec string) (Color, bool) {
	spec = strings.ToLower(strings.TrimSpace(spec))
	if spec == "" {
		return Color{}, false
	}
	if len(spec) == 4 && spec[0] == '#' {
		spec = string([]byte{'#', spec[1], spec[1], spec[2], spec[2], spec[3], spec[3]})
	}
	if spec[0] == '#' && len(spec) != 7 {
		return Color{}, false
	}
	tc := tcell.GetColor(spec)
	if tc == tcell.ColorDefault {
		return Color{}, false
	}
	r, g, b := tc.RGB()
	if r < 0 {
		return Color{}, false
	}
	return RGB(uint8(r), uint8(g), uint8(b)), true
}

// ColorCache memoises ParseColor results, valid or not.
type ColorCache struct {
	cache *lru.Cache
}

type cachedColor struct {
	color Color
	ok    bool
}

// NewColorCache returns a cache holding at most size entries.
func NewColorCache(size int) (*ColorCache, error) {
	if size <= 0 {
		size = DefaultColorCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ColorCache{cache: c}, nil
}

// Get returns the parsed colour for spec.
func (c *ColorCache) Get(spec string) (Color, bool) {
	if v, ok := c.cache.Get(spec); ok {
		cc := v.(cachedColor)
		return cc.color, cc.ok
	}
	color, ok := ParseColor(spec)
	c.cache.Add(spec, cachedColor{color: color, ok: ok})
	return color, ok
}

// Lookup returns the colour for spec, or fallback when spec does not parse.
func (c *ColorCache) Lookup(spec string, fallback Color) Color {
	if color, ok := c.Get(spec); ok {
		return color
	}
	return fallback
}

// Len reports how many entries are cached.
func (c *ColorCache) Len() int {
	return c.cache.Len()
}

// Purge empties the cache.
func (c *ColorCache) Purge() {
	c.cache.Purge()
}
