package markup

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/clubar/pkg/errors"
	"github.com/arthur-debert/clubar/pkg/logging"
)

// Limits are the representation limits of one segmentation pass. A zero
// field disables that check.
type Limits struct {
	MaxInput  int // bytes of input
	MaxValue  int // bytes of a single tag value
	MaxBlocks int // blocks per input
}

// DefaultLimits returns the limits of a status line: 1 KiB of text, 1 KiB
// values and 64 blocks.
func DefaultLimits() Limits {
	return Limits{
		MaxInput:  1 << 10,
		MaxValue:  1 << 10,
		MaxBlocks: 1 << 6,
	}
}

// Block is one contiguous run of literal text with the annotation stacks
// that were open for it.
type Block struct {
	Text        string
	Annotations Annotations
}

// Segmenter splits status lines into blocks. It owns a node pool and is not
// safe for concurrent use.
type Segmenter struct {
	pool   *NodePool
	limits Limits
	logger zerolog.Logger
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithPool makes the segmenter draw nodes from pool.
func WithPool(pool *NodePool) Option {
	return func(s *Segmenter) {
		if pool != nil {
			s.pool = pool
		}
	}
}

// WithLimits overrides DefaultLimits.
func WithLimits(limits Limits) Option {
	return func(s *Segmenter) {
		s.limits = limits
	}
}

// WithLogger sets the logger used for overflow diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Segmenter) {
		s.logger = logger
	}
}

// NewSegmenter returns a segmenter with its own pool of
// DefaultPoolCapacity nodes and DefaultLimits.
func NewSegmenter(opts ...Option) *Segmenter {
	s := &Segmenter{
		limits: DefaultLimits(),
		logger: logging.GetLogger("markup"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pool == nil {
		s.pool = NewNodePool(DefaultPoolCapacity)
	}
	return s
}

// Pool returns the node pool backing the segmenter.
func (s *Segmenter) Pool() *NodePool {
	return s.pool
}

// Limits returns the limits in effect.
func (s *Segmenter) Limits() Limits {
	return s.limits
}

// Segment parses input in a single left to right pass and returns its
// blocks in order of appearance. Blocks with empty text are never emitted.
//
// Markup problems never fail the call; they degrade to literal text. Only a
// limit overflow returns an error, in which case no blocks are returned and
// every node taken from the pool has been released.
//
// The returned blocks hold pooled nodes and should be handed back with
// Release before the next call.
func (s *Segmenter) Segment(input string) ([]Block, error) {
	if s.limits.MaxInput > 0 && len(input) > s.limits.MaxInput {
		return nil, s.overflow(errors.ErrInputOverflow, "input exceeds limit", len(input), s.limits.MaxInput)
	}

	state := NewState(s.pool)
	defer state.Drain()

	var blocks []Block
	textStart := 0

	// flush emits the pending text input[textStart:end] with the state as it
	// stands, before the tag that ended the run is applied.
	flush := func(end int) error {
		if end <= textStart {
			return nil
		}
		if s.limits.MaxBlocks > 0 && len(blocks) >= s.limits.MaxBlocks {
			return s.overflow(errors.ErrBlockOverflow, "block count exceeds limit", len(blocks)+1, s.limits.MaxBlocks)
		}
		blocks = append(blocks, Block{
			Text:        input[textStart:end],
			Annotations: state.Snapshot(),
		})
		return nil
	}

	for pos := 0; pos < len(input); {
		if input[pos] == TagStart {
			tok, next, ok := ParseTag(input, pos)
			if ok && state.Accepts(tok) {
				if s.limits.MaxValue > 0 && len(tok.Value) > s.limits.MaxValue {
					s.Release(blocks)
					return nil, s.overflow(errors.ErrValueOverflow, "tag value exceeds limit", len(tok.Value), s.limits.MaxValue).
						WithDetail("kind", tok.Kind.String())
				}
				if err := flush(pos); err != nil {
					s.Release(blocks)
					return nil, err
				}
				state.Apply(tok)
				pos = next
				textStart = next
				continue
			}
		}
		pos++
	}

	if err := flush(len(input)); err != nil {
		s.Release(blocks)
		return nil, err
	}
	return blocks, nil
}

// Release hands every node held by blocks back to the pool and clears their
// annotations.
func (s *Segmenter) Release(blocks []Block) {
	for i := range blocks {
		for k, top := range blocks[i].Annotations {
			s.pool.ReleaseStack(top)
			blocks[i].Annotations[k] = nil
		}
	}
}

func (s *Segmenter) overflow(code errors.ErrorCode, msg string, got, limit int) *errors.ClubarError {
	s.logger.Debug().
		Str("code", string(code)).
		Int("size", got).
		Int("limit", limit).
		Msg(msg)
	return errors.Newf(code, "%s: %d > %d", msg, got, limit).
		WithDetail("size", got).
		WithDetail("limit", limit)
}
