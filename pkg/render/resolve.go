package render

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/clubar/pkg/config"
	"github.com/arthur-debert/clubar/pkg/logging"
	"github.com/arthur-debert/clubar/pkg/markup"
)

// Theme holds the defaults a block falls back on.
type Theme struct {
	Foreground Color
	Background Color
	Border     Color
	Fonts      []Font
}

// Segment is a block ready to be drawn.
type Segment struct {
	Text string
	// FontIndex is the selected entry of Theme.Fonts.
	FontIndex int
	Font      Font
	Fg        Color
	// Bg is only Valid when the block carries a Bg annotation.
	Bg  Color
	Box Boxes
	// Actions is the set of action kinds with at least one open annotation.
	Actions []markup.Kind
}

// Clickable reports whether any action annotation covers the segment.
func (s Segment) Clickable() bool {
	return len(s.Actions) > 0
}

// Resolver turns blocks into segments.
type Resolver struct {
	theme  Theme
	colors *ColorCache
	logger zerolog.Logger
}

// NewResolver builds the theme from cfg.
func NewResolver(cfg *config.Config) (*Resolver, error) {
	colors, err := NewColorCache(cfg.ColorCache)
	if err != nil {
		return nil, err
	}
	r := &Resolver{colors: colors, logger: logging.GetLogger("render")}

	white, black := RGB(0xff, 0xff, 0xff), RGB(0, 0, 0)
	r.theme.Foreground = colors.Lookup(cfg.Foreground, white)
	r.theme.Background = colors.Lookup(cfg.Background, black)
	r.theme.Border = colors.Lookup(cfg.BorderColor(), r.theme.Foreground)
	r.theme.Fonts = ParseFonts(cfg.Fonts)
	if len(r.theme.Fonts) == 0 {
		r.theme.Fonts = []Font{ParseFont("monospace")}
	}
	return r, nil
}

// Theme returns the resolved defaults.
func (r *Resolver) Theme() Theme {
	return r.theme
}

// Colors exposes the colour cache.
func (r *Resolver) Colors() *ColorCache {
	return r.colors
}

// Resolve interprets the annotations of one block.
func (r *Resolver) Resolve(b markup.Block) Segment {
	a := b.Annotations
	seg := Segment{
		Text: b.Text,
		Fg:   r.theme.Foreground,
	}

	seg.FontIndex = FontIndex(a, len(r.theme.Fonts))
	seg.Font = r.theme.Fonts[seg.FontIndex]

	if fg := a.Top(markup.KindFg); fg != nil {
		seg.Fg = r.colors.Lookup(fg.Value, r.theme.Foreground)
	}
	if bg := a.Top(markup.KindBg); bg != nil {
		seg.Bg = r.colors.Lookup(bg.Value, r.theme.Background)
	}

	for _, node := range a.Stack(markup.KindBox) {
		spec, ok := ParseBox(node.Value)
		if !ok {
			r.logger.Debug().Str("value", node.Value).Msg("Invalid box value")
			continue
		}
		edge := Edge{Color: r.theme.Border, Thickness: spec.Thickness}
		if spec.Color != "" {
			edge.Color = r.colors.Lookup(spec.Color, r.theme.Border)
		}
		for _, m := range markup.BoxEdges() {
			if node.Mask.Has(m) {
				seg.Box.add(m, edge)
			}
		}
	}

	for _, k := range markup.Kinds() {
		if k.IsAction() && a.Top(k) != nil {
			seg.Actions = append(seg.Actions, k)
		}
	}
	return seg
}

// ResolveAll resolves blocks in order.
func (r *Resolver) ResolveAll(blocks []markup.Block) []Segment {
	segs := make([]Segment, len(blocks))
	for i := range blocks {
		segs[i] = r.Resolve(blocks[i])
	}
	return segs
}
