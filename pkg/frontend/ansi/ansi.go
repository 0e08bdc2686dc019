// Package ansi draws the bar as a single line of ANSI styled text. On a
// terminal the line is redrawn in place; elsewhere every update is written
// as a new line, which suits pipes and log files.
package ansi

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/arthur-debert/clubar/pkg/bar"
	"github.com/arthur-debert/clubar/pkg/config"
	"github.com/arthur-debert/clubar/pkg/errors"
	"github.com/arthur-debert/clubar/pkg/layout"
	"github.com/arthur-debert/clubar/pkg/logging"
	"github.com/arthur-debert/clubar/pkg/render"
)

const (
	eraseLine = "\r\x1b[2K"
	// EdgeGlyph draws left and right box edges.
	EdgeGlyph = "▎"
)

// Frontend writes rendered lines to an io.Writer.
type Frontend struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	tty      bool
	width    func() int
	logger   zerolog.Logger
	last     string
}

// Option configures a Frontend.
type Option func(*Frontend)

// WithTTY forces in-place redraws on or off.
func WithTTY(tty bool) Option {
	return func(f *Frontend) { f.tty = tty }
}

// WithWidth fixes the terminal width. Zero means unknown: lines are then
// as wide as the configured geometry, or as their content.
func WithWidth(width int) Option {
	return func(f *Frontend) { f.width = func() int { return width } }
}

// WithProfile pins the colour profile.
func WithProfile(p termenv.Profile) Option {
	return func(f *Frontend) { f.renderer.SetColorProfile(p) }
}

// New returns a frontend writing to out. Colour support follows mode, one
// of the config.Color* values.
func New(out io.Writer, mode string, opts ...Option) *Frontend {
	f := &Frontend{
		out:      out,
		renderer: lipgloss.NewRenderer(out),
		width:    func() int { return 0 },
		logger:   logging.GetLogger("frontend.ansi"),
	}

	if file, ok := out.(*os.File); ok && IsTerminal(file) {
		f.tty = true
		fd := int(file.Fd())
		f.width = func() int {
			w, _, err := term.GetSize(fd)
			if err != nil {
				return 0
			}
			return w
		}
	}

	switch mode {
	case config.ColorAlways:
		f.renderer.SetColorProfile(termenv.TrueColor)
	case config.ColorNever:
		f.renderer.SetColorProfile(termenv.Ascii)
	}

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsTerminal reports whether file is a terminal.
func IsTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Run draws the bar on every change until ctx is done.
func (f *Frontend) Run(ctx context.Context, b *bar.Bar) error {
	if err := f.Draw(b.Frame()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			// Input may end right after its last update.
			if err := f.Draw(b.Frame()); err != nil {
				return err
			}
			if f.tty {
				_, _ = io.WriteString(f.out, "\n")
			}
			return nil
		case <-b.Changes():
			if err := f.Draw(b.Frame()); err != nil {
				return err
			}
		}
	}
}

// Draw writes one frame. Identical consecutive frames are written once.
func (f *Frontend) Draw(frame bar.Frame) error {
	line := ""
	if !frame.Hidden {
		line = f.Render(frame)
	}
	if line == f.last {
		return nil
	}
	f.last = line

	var out string
	switch {
	case f.tty:
		out = eraseLine + line
	case frame.Hidden:
		return nil
	default:
		out = line + "\n"
	}
	if _, err := io.WriteString(f.out, out); err != nil {
		return errors.Wrap(err, errors.ErrFrontend, "failed to write status line")
	}
	f.logger.Trace().Int("bytes", len(out)).Bool("hidden", frame.Hidden).Msg("Line drawn")
	return nil
}

// Render returns the styled line for a frame, without any terminal control
// sequences around it. Only the horizontal placement applies to a line.
func (f *Frontend) Render(frame bar.Frame) string {
	p := frame.Place(f.width(), 0)
	line := frame.Arrange(p.Width)
	fill := f.renderer.NewStyle()
	if frame.Theme.Background.Valid {
		fill = fill.Background(lipgloss.Color(frame.Theme.Background.Hex()))
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", p.X))
	x := 0
	pad := func(to int) {
		if to > x {
			sb.WriteString(fill.Render(strings.Repeat(" ", to-x)))
			x = to
		}
	}

	draw := func(segs []render.Segment, spans []layout.Span) {
		for i, span := range spans {
			pad(span.Start)
			sb.WriteString(f.segment(frame.Theme, segs[i]))
			x = span.End
		}
	}
	draw(frame.Left, line.Left)
	draw(frame.Right, line.Right)
	pad(line.Width)
	return sb.String()
}

func (f *Frontend) segment(theme render.Theme, seg render.Segment) string {
	bg := theme.Background
	if seg.Bg.Valid {
		bg = seg.Bg
	}

	style := f.renderer.NewStyle().
		Foreground(lipgloss.Color(seg.Fg.Hex())).
		Bold(seg.Font.Bold).
		Italic(seg.Font.Italic).
		Underline(len(seg.Box.Top) > 0 || len(seg.Box.Bottom) > 0).
		TabWidth(lipgloss.NoTabConversion)
	if bg.Valid {
		style = style.Background(lipgloss.Color(bg.Hex()))
	}

	var sb strings.Builder
	for i := len(seg.Box.Left) - 1; i >= 0; i-- {
		sb.WriteString(f.edge(seg.Box.Left[i], bg))
	}
	if seg.Text != "" {
		sb.WriteString(style.Render(seg.Text))
	}
	for _, e := range seg.Box.Right {
		sb.WriteString(f.edge(e, bg))
	}
	return sb.String()
}

func (f *Frontend) edge(e render.Edge, bg render.Color) string {
	style := f.renderer.NewStyle().Foreground(lipgloss.Color(e.Color.Hex()))
	if bg.Valid {
		style = style.Background(lipgloss.Color(bg.Hex()))
	}
	return style.Render(EdgeGlyph)
}
