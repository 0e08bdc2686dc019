// Package tui draws the bar on a full-screen terminal UI and turns mouse
// clicks and wheel events on the bar into actions.
package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/clubar/pkg/actions"
	"github.com/arthur-debert/clubar/pkg/bar"
	"github.com/arthur-debert/clubar/pkg/errors"
	"github.com/arthur-debert/clubar/pkg/layout"
	"github.com/arthur-debert/clubar/pkg/logging"
	"github.com/arthur-debert/clubar/pkg/markup"
	"github.com/arthur-debert/clubar/pkg/render"
)

// EdgeGlyph draws left and right box edges.
const EdgeGlyph = '▎'

// Frontend owns a tcell screen.
type Frontend struct {
	screen  tcell.Screen
	logger  zerolog.Logger
	pressed tcell.ButtonMask
}

// New wraps screen. A nil screen opens the terminal.
func New(screen tcell.Screen) (*Frontend, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFrontend, "failed to open terminal screen")
		}
		screen = s
	}
	return &Frontend{screen: screen, logger: logging.GetLogger("frontend.tui")}, nil
}

// Run initialises the screen, draws on every change and dispatches mouse
// events until ctx is done or the user presses q, Escape or Ctrl-C.
func (f *Frontend) Run(ctx context.Context, b *bar.Bar) error {
	if err := f.screen.Init(); err != nil {
		return errors.Wrap(err, errors.ErrFrontend, "failed to initialise screen")
	}
	f.screen.EnableMouse(tcell.MouseButtonEvents)
	f.screen.HideCursor()

	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()
	defer func() {
		f.screen.Fini()
		for range events {
		}
	}()

	f.Draw(b.Frame())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-b.Changes():
			f.Draw(b.Frame())
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if quit := f.handle(ctx, b, ev); quit {
				return nil
			}
		}
	}
}

func (f *Frontend) handle(ctx context.Context, b *bar.Bar, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return true
		}
	case *tcell.EventResize:
		f.screen.Sync()
		f.Draw(b.Frame())
	case *tcell.EventMouse:
		action, ok := f.mouseEvent(ev)
		if !ok {
			return false
		}
		x, y := ev.Position()
		w, h := f.screen.Size()
		p := b.Frame().Place(w, h)
		if !p.Rows(y) || x < p.X || x >= p.X+p.Width {
			return false
		}
		if _, err := b.Click(ctx, p.Width, x-p.X, action); err != nil {
			f.logger.Warn().Err(err).Str("event", action.String()).Msg("Action failed")
		}
	}
	return false
}

// mouseEvent reports a press of a new button, or a wheel step, as an
// action event. Releases and drags are ignored.
func (f *Frontend) mouseEvent(ev *tcell.EventMouse) (actions.Event, bool) {
	buttons := ev.Buttons()
	mask := Modifiers(ev.Modifiers())

	wheel := buttons & (tcell.WheelUp | tcell.WheelDown)
	if wheel != 0 {
		kind := markup.KindScrollUp
		if wheel&tcell.WheelDown != 0 {
			kind = markup.KindScrollDown
		}
		return actions.Event{Kind: kind, Mask: mask}, true
	}

	clicks := buttons & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	fresh := clicks &^ f.pressed
	f.pressed = clicks
	if fresh == 0 {
		return actions.Event{}, false
	}
	kind, ok := Button(fresh)
	return actions.Event{Kind: kind, Mask: mask}, ok
}

// Button maps a tcell button to its action kind.
func Button(b tcell.ButtonMask) (markup.Kind, bool) {
	switch {
	case b&tcell.ButtonPrimary != 0:
		return markup.KindBtnLeft, true
	case b&tcell.ButtonMiddle != 0:
		return markup.KindBtnMiddle, true
	case b&tcell.ButtonSecondary != 0:
		return markup.KindBtnRight, true
	case b&tcell.WheelUp != 0:
		return markup.KindScrollUp, true
	case b&tcell.WheelDown != 0:
		return markup.KindScrollDown, true
	}
	return 0, false
}

// Modifiers maps tcell key modifiers to markup modifiers. Meta is Super.
func Modifiers(m tcell.ModMask) markup.ModifierMask {
	var mask markup.ModifierMask
	if m&tcell.ModShift != 0 {
		mask |= markup.ModShift.Bit()
	}
	if m&tcell.ModCtrl != 0 {
		mask |= markup.ModCtrl.Bit()
	}
	if m&tcell.ModAlt != 0 {
		mask |= markup.ModAlt.Bit()
	}
	if m&tcell.ModMeta != 0 {
		mask |= markup.ModSuper.Bit()
	}
	return mask
}

// Draw paints the bar rows.
func (f *Frontend) Draw(frame bar.Frame) {
	f.screen.Clear()
	if frame.Hidden {
		f.screen.Show()
		return
	}

	w, h := f.screen.Size()
	p := frame.Place(w, h)
	line := frame.Arrange(p.Width)

	base := tcell.StyleDefault
	if frame.Theme.Background.Valid {
		base = base.Background(tcellColor(frame.Theme.Background))
	}
	for y := p.Y; y < p.Y+p.Height; y++ {
		for x := p.X; x < p.X+p.Width; x++ {
			f.screen.SetContent(x, y, ' ', nil, base)
		}
	}

	end := p.X + p.Width
	draw := func(segs []render.Segment, spans []layout.Span) {
		for i, span := range spans {
			f.segment(p.X+span.Start, p.TextRow, end, base, segs[i])
		}
	}
	draw(frame.Left, line.Left)
	draw(frame.Right, line.Right)
	f.screen.Show()
}

// segment draws seg from column x, clipped at column end.
func (f *Frontend) segment(x, y, end int, base tcell.Style, seg render.Segment) {
	bg := base
	if seg.Bg.Valid {
		bg = bg.Background(tcellColor(seg.Bg))
	}
	put := func(r rune, style tcell.Style) {
		if x >= 0 && x < end {
			f.screen.SetContent(x, y, r, nil, style)
		}
		x += runewidth.RuneWidth(r)
	}

	for i := len(seg.Box.Left) - 1; i >= 0; i-- {
		put(EdgeGlyph, bg.Foreground(tcellColor(seg.Box.Left[i].Color)))
	}
	text := bg.Foreground(tcellColor(seg.Fg)).
		Bold(seg.Font.Bold).
		Italic(seg.Font.Italic).
		Underline(len(seg.Box.Top) > 0 || len(seg.Box.Bottom) > 0)
	for _, r := range seg.Text {
		if runewidth.RuneWidth(r) == 0 {
			continue
		}
		put(r, text)
	}
	for _, e := range seg.Box.Right {
		put(EdgeGlyph, bg.Foreground(tcellColor(e.Color)))
	}
}

func tcellColor(c render.Color) tcell.Color {
	if !c.Valid {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
