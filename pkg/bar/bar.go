// Package bar holds the two status channels of the bar, keeps their blocks
// up to date and routes pointer events to the block under the pointer.
package bar

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/clubar/pkg/actions"
	"github.com/arthur-debert/clubar/pkg/config"
	"github.com/arthur-debert/clubar/pkg/errors"
	"github.com/arthur-debert/clubar/pkg/layout"
	"github.com/arthur-debert/clubar/pkg/logging"
	"github.com/arthur-debert/clubar/pkg/markup"
	"github.com/arthur-debert/clubar/pkg/metrics"
	"github.com/arthur-debert/clubar/pkg/render"
)

// Channel identifies a source of status lines.
type Channel int

const (
	// ChannelStdin is fed by standard input and drawn on the left.
	ChannelStdin Channel = iota
	// ChannelCustom is fed by the custom file and drawn on the right.
	ChannelCustom
	channelCount
)

func (c Channel) String() string {
	switch c {
	case ChannelStdin:
		return "stdin"
	case ChannelCustom:
		return "custom"
	}
	return "unknown"
}

// Frame is everything a frontend needs to draw the bar once.
type Frame struct {
	Left   []render.Segment
	Right  []render.Segment
	Theme  render.Theme
	TopBar bool
	Hidden bool
	Config *config.Config
}

// Arrange lays the frame out on a row of width cells.
func (f Frame) Arrange(width int) layout.Line {
	return layout.Arrange(f.Left, f.Right, width, f.Config.Padding)
}

// Place positions the frame on a screen of screenW by screenH cells.
func (f Frame) Place(screenW, screenH int) layout.Placement {
	c := f.Config
	return layout.Place(screenW, screenH, c.Geometry, c.Margin, c.Padding, f.TopBar)
}

type channel struct {
	segmenter *markup.Segmenter
	blocks    []markup.Block
	line      string
}

// Bar is safe for concurrent use.
type Bar struct {
	mu         sync.Mutex
	cfg        *config.Config
	channels   [channelCount]channel
	resolver   *render.Resolver
	dispatcher *actions.Dispatcher
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	hidden     bool
	changes    chan struct{}
}

// Option configures a Bar.
type Option func(*Bar)

// WithMetrics records the pipeline on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bar) { b.metrics = m }
}

// WithDispatcher replaces the default action dispatcher.
func WithDispatcher(d *actions.Dispatcher) Option {
	return func(b *Bar) { b.dispatcher = d }
}

// WithLogger sets the bar logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Bar) { b.logger = l }
}

// New builds a bar for cfg.
func New(cfg *config.Config, opts ...Option) (*Bar, error) {
	b := &Bar{
		logger:  logging.GetLogger("bar"),
		changes: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.dispatcher == nil {
		b.dispatcher = actions.NewDispatcher(actions.OnMatch(b.metrics.ObserveAction))
	}
	if err := b.configure(cfg); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bar) configure(cfg *config.Config) error {
	resolver, err := render.NewResolver(cfg)
	if err != nil {
		return err
	}
	limits := markup.Limits{
		MaxInput:  cfg.Limits.MaxInput,
		MaxValue:  cfg.Limits.MaxValue,
		MaxBlocks: cfg.Limits.MaxBlocks,
	}
	for i := range b.channels {
		b.channels[i].segmenter = markup.NewSegmenter(
			markup.WithPool(markup.NewNodePool(cfg.PoolCapacity)),
			markup.WithLimits(limits),
			markup.WithLogger(b.logger.With().Str("channel", Channel(i).String()).Logger()),
		)
	}
	b.cfg = cfg
	b.resolver = resolver
	return nil
}

// Changes delivers a signal after every visible change. Signals coalesce.
func (b *Bar) Changes() <-chan struct{} {
	return b.changes
}

func (b *Bar) notify() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}

// Update replaces the blocks of ch with the segmentation of line. When line
// is rejected the previous blocks stay and the error is returned.
func (b *Bar) Update(ch Channel, line string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.update(ch, line)
	if err == nil {
		b.notify()
	}
	return err
}

func (b *Bar) update(ch Channel, line string) error {
	c := &b.channels[ch]
	blocks, err := c.segmenter.Segment(line)
	b.metrics.ObserveSegment(ch.String(), len(blocks), err)
	if err != nil {
		ev := b.logger.Error()
		if overflowed(err) {
			ev = b.logger.Warn()
		}
		ev.Err(err).
			Str("channel", ch.String()).
			Str("code", string(errors.GetErrorCode(err))).
			Fields(errors.GetErrorDetails(err)).
			Int("bytes", len(line)).
			Msg("Status line rejected")
		return err
	}

	c.segmenter.Release(c.blocks)
	c.blocks, c.line = blocks, line
	b.metrics.ObservePool(ch.String(), c.segmenter.Pool().Stats())
	b.logger.Trace().Str("channel", ch.String()).Int("blocks", len(blocks)).Msg("Channel updated")
	return nil
}

// overflowed reports a line rejected by a segmentation limit, as opposed to
// an internal failure.
func overflowed(err error) bool {
	return errors.IsErrorCode(err, errors.ErrInputOverflow) ||
		errors.IsErrorCode(err, errors.ErrValueOverflow) ||
		errors.IsErrorCode(err, errors.ErrBlockOverflow)
}

// Reset releases the blocks of every channel.
func (b *Bar) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
	b.notify()
}

func (b *Bar) reset() {
	for i := range b.channels {
		c := &b.channels[i]
		c.segmenter.Release(c.blocks)
		c.blocks, c.line = nil, ""
		b.metrics.SetBlocks(Channel(i).String(), 0)
		b.metrics.ObservePool(Channel(i).String(), c.segmenter.Pool().Stats())
	}
}

// Reconfigure swaps in cfg, releases every block and segments the last line
// of each channel again under the new limits.
func (b *Bar) Reconfigure(cfg *config.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer logging.LogOperationStart(b.logger, "reconfigure")()

	lines := [channelCount]string{}
	for i := range b.channels {
		lines[i] = b.channels[i].line
	}
	b.reset()
	if err := b.configure(cfg); err != nil {
		return err
	}
	for i, line := range lines {
		if line == "" {
			continue
		}
		if err := b.update(Channel(i), line); err != nil {
			b.logger.Info().Err(err).Str("channel", Channel(i).String()).Msg("Line dropped after reconfigure")
		}
	}
	b.logger.Info().Str("source", cfg.Source).Msg("Configuration reloaded")
	b.notify()
	return nil
}

// View runs fn with the current blocks of both channels. The blocks are only
// valid inside fn.
func (b *Bar) View(fn func(stdin, custom []markup.Block)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b.channels[ChannelStdin].blocks, b.channels[ChannelCustom].blocks)
}

// Frame resolves the current blocks for drawing.
func (b *Bar) Frame() Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Frame{
		Left:   b.resolver.ResolveAll(b.channels[ChannelStdin].blocks),
		Right:  b.resolver.ResolveAll(b.channels[ChannelCustom].blocks),
		Theme:  b.resolver.Theme(),
		TopBar: b.cfg.TopBar,
		Hidden: b.hidden,
		Config: b.cfg,
	}
}

// Toggle flips visibility.
func (b *Bar) Toggle() {
	b.mu.Lock()
	b.hidden = !b.hidden
	hidden := b.hidden
	b.mu.Unlock()
	b.logger.Debug().Bool("hidden", hidden).Msg("Visibility toggled")
	b.notify()
}

// Hidden reports whether the bar is hidden.
func (b *Bar) Hidden() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hidden
}

// Click dispatches ev on the block under cell x of a row width cells wide.
// It reports whether a command was run.
func (b *Bar) Click(ctx context.Context, width, x int, ev actions.Event) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hidden {
		return false, nil
	}

	left := b.resolver.ResolveAll(b.channels[ChannelStdin].blocks)
	right := b.resolver.ResolveAll(b.channels[ChannelCustom].blocks)
	line := layout.Arrange(left, right, width, b.cfg.Padding)

	i, isRight, ok := line.Hit(x)
	if !ok {
		return false, nil
	}
	ch := ChannelStdin
	if isRight {
		ch = ChannelCustom
	}
	return b.dispatcher.Dispatch(ctx, b.channels[ch].blocks[i].Annotations, ev)
}

// Close releases every block.
func (b *Bar) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
}
