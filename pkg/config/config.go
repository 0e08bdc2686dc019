package config

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/arthur-debert/clubar/pkg/errors"
)

// Frontend names accepted by the frontend key.
const (
	FrontendAuto = "auto"
	FrontendANSI = "ansi"
	FrontendTUI  = "tui"
)

// Colour modes accepted by the color key.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Geometry places the bar on screen.
type Geometry struct {
	X int `koanf:"x" toml:"x" yaml:"x" json:"x"`
	Y int `koanf:"y" toml:"y" yaml:"y" json:"y"`
	W int `koanf:"w" toml:"w" yaml:"w" json:"w"`
	H int `koanf:"h" toml:"h" yaml:"h" json:"h"`
}

func (g Geometry) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", g.X, g.Y, g.W, g.H)
}

// Direction holds one value per edge.
type Direction struct {
	Left   int `koanf:"left" toml:"left" yaml:"left" json:"left"`
	Right  int `koanf:"right" toml:"right" yaml:"right" json:"right"`
	Top    int `koanf:"top" toml:"top" yaml:"top" json:"top"`
	Bottom int `koanf:"bottom" toml:"bottom" yaml:"bottom" json:"bottom"`
}

func (d Direction) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", d.Left, d.Right, d.Top, d.Bottom)
}

// Limits bounds the work done for one input line. Zero disables a check.
type Limits struct {
	MaxInput  int `koanf:"max_input" toml:"max_input" yaml:"max_input" json:"max_input"`
	MaxValue  int `koanf:"max_value" toml:"max_value" yaml:"max_value" json:"max_value"`
	MaxBlocks int `koanf:"max_blocks" toml:"max_blocks" yaml:"max_blocks" json:"max_blocks"`
}

// Config is the fully resolved clubar configuration.
type Config struct {
	Geometry     Geometry  `koanf:"geometry" toml:"geometry" yaml:"geometry" json:"geometry"`
	Padding      Direction `koanf:"padding" toml:"padding" yaml:"padding" json:"padding"`
	Margin       Direction `koanf:"margin" toml:"margin" yaml:"margin" json:"margin"`
	TopBar       bool      `koanf:"topbar" toml:"topbar" yaml:"topbar" json:"topbar"`
	Foreground   string    `koanf:"foreground" toml:"foreground" yaml:"foreground" json:"foreground"`
	Background   string    `koanf:"background" toml:"background" yaml:"background" json:"background"`
	Border       string    `koanf:"border" toml:"border" yaml:"border" json:"border"`
	Fonts        []string  `koanf:"fonts" toml:"fonts" yaml:"fonts" json:"fonts"`
	Frontend     string    `koanf:"frontend" toml:"frontend" yaml:"frontend" json:"frontend"`
	Color        string    `koanf:"color" toml:"color" yaml:"color" json:"color"`
	CustomFile   string    `koanf:"custom_file" toml:"custom_file" yaml:"custom_file" json:"custom_file"`
	MetricsAddr  string    `koanf:"metrics_addr" toml:"metrics_addr" yaml:"metrics_addr" json:"metrics_addr"`
	PoolCapacity int       `koanf:"pool_capacity" toml:"pool_capacity" yaml:"pool_capacity" json:"pool_capacity"`
	ColorCache   int       `koanf:"color_cache" toml:"color_cache" yaml:"color_cache" json:"color_cache"`
	Limits       Limits    `koanf:"limits" toml:"limits" yaml:"limits" json:"limits"`

	// Source is the config file that was loaded, empty when none was found.
	Source string `koanf:"-" toml:"-" yaml:"-" json:"-"`
}

// Default returns the built-in configuration. It matches embedded/defaults.toml.
func Default() *Config {
	return &Config{
		Geometry:     Geometry{H: 1},
		Foreground:   "#efefef",
		Background:   "#090909",
		Fonts:        []string{"monospace-9", "monospace-9:bold"},
		Frontend:     FrontendAuto,
		Color:        ColorAuto,
		PoolCapacity: 32,
		ColorCache:   32,
		Limits: Limits{
			MaxInput:  1 << 10,
			MaxValue:  1 << 10,
			MaxBlocks: 1 << 6,
		},
	}
}

// BorderColor is the colour used for boxes without an explicit value.
func (c *Config) BorderColor() string {
	if c.Border != "" {
		return c.Border
	}
	return c.Foreground
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var err error

	if g := c.Geometry; g.X < 0 || g.Y < 0 || g.W < 0 || g.H < 0 {
		err = multierr.Append(err, fmt.Errorf("geometry: values must not be negative (got %s)", c.Geometry))
	}
	for name, d := range map[string]Direction{"padding": c.Padding, "margin": c.Margin} {
		if d.Left < 0 || d.Right < 0 || d.Top < 0 || d.Bottom < 0 {
			err = multierr.Append(err, fmt.Errorf("%s: values must not be negative (got %s)", name, d))
		}
	}
	if len(c.Fonts) == 0 {
		err = multierr.Append(err, fmt.Errorf("fonts: at least one font is required"))
	}
	switch c.Frontend {
	case FrontendAuto, FrontendANSI, FrontendTUI:
	default:
		err = multierr.Append(err, fmt.Errorf("frontend: unknown frontend %q", c.Frontend))
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		err = multierr.Append(err, fmt.Errorf("color: unknown mode %q", c.Color))
	}
	if c.Limits.MaxInput < 0 || c.Limits.MaxValue < 0 || c.Limits.MaxBlocks < 0 {
		err = multierr.Append(err, fmt.Errorf("limits: values must not be negative"))
	}
	if c.PoolCapacity < 0 {
		err = multierr.Append(err, fmt.Errorf("pool_capacity: must not be negative (got %d)", c.PoolCapacity))
	}
	if c.ColorCache <= 0 {
		err = multierr.Append(err, fmt.Errorf("color_cache: must be positive (got %d)", c.ColorCache))
	}

	if err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid configuration").
			WithDetail("problems", len(multierr.Errors(err)))
	}
	return nil
}

// ParseGeometry parses "x,y,w,h". Missing trailing fields are zero.
func ParseGeometry(s string) (Geometry, error) {
	v, err := parseQuad(s)
	if err != nil {
		return Geometry{}, errors.Wrapf(err, errors.ErrConfigParse, "invalid geometry %q", s)
	}
	return Geometry{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

// ParseDirection parses "left,right,top,bottom". A single value applies to
// every edge.
func ParseDirection(s string) (Direction, error) {
	v, err := parseQuad(s)
	if err != nil {
		return Direction{}, errors.Wrapf(err, errors.ErrConfigParse, "invalid edge values %q", s)
	}
	if !strings.Contains(s, ",") {
		v[1], v[2], v[3] = v[0], v[0], v[0]
	}
	return Direction{Left: v[0], Right: v[1], Top: v[2], Bottom: v[3]}, nil
}

func parseQuad(s string) ([4]int, error) {
	var out [4]int
	s = strings.TrimSpace(s)
	if s == "" {
		return out, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > 4 {
		return out, fmt.Errorf("expected at most 4 values, got %d", len(parts))
	}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return out, err
		}
		out[i] = n
	}
	return out, nil
}
