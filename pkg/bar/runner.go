package bar

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/clubar/pkg/config"
	"github.com/arthur-debert/clubar/pkg/logging"
	"github.com/arthur-debert/clubar/pkg/metrics"
)

// Frontend draws a bar until ctx is done or the user quits.
type Frontend interface {
	Run(ctx context.Context, b *Bar) error
}

// FrontendFunc adapts a function to Frontend.
type FrontendFunc func(ctx context.Context, b *Bar) error

func (f FrontendFunc) Run(ctx context.Context, b *Bar) error {
	return f(ctx, b)
}

// Runner wires the inputs of a bar to a frontend.
type Runner struct {
	Bar      *Bar
	Frontend Frontend
	// Input feeds the stdin channel. Nil disables it.
	Input io.Reader
	// ExitOnEOF stops the runner once Input is exhausted.
	ExitOnEOF bool
	// CustomFile feeds the custom channel with its first line.
	CustomFile string
	Fs         afero.Fs
	// Config, when set, is watched and reloaded on change.
	Config *config.LoadOptions
	// MetricsAddr exposes Gatherer over HTTP.
	MetricsAddr string
	Gatherer    prometheus.Gatherer
	// Signals replaces the process signal subscription.
	Signals <-chan os.Signal
	Logger  *zerolog.Logger
}

// subscribed lists the signals the runner listens for.
func subscribed() []os.Signal {
	sigs := append([]os.Signal(nil), StopSignals...)
	if ToggleSignal != nil {
		sigs = append(sigs, ToggleSignal)
	}
	return sigs
}

// Run blocks until ctx is done, a stop signal arrives, the frontend returns,
// or Input ends with ExitOnEOF set.
func (r *Runner) Run(ctx context.Context) error {
	log := logging.GetLogger("runner")
	if r.Logger != nil {
		log = *r.Logger
	}
	fs := r.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	sigs := r.Signals
	if sigs == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, subscribed()...)
		defer signal.Stop(ch)
		sigs = ch
	}
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case sig, ok := <-sigs:
				if !ok {
					return nil
				}
				if ToggleSignal != nil && sig == ToggleSignal {
					r.Bar.Toggle()
					continue
				}
				log.Info().Str("signal", sig.String()).Msg("Stopping")
				cancel()
				return nil
			}
		}
	})

	if r.Input != nil {
		g.Go(func() error {
			err := ReadLines(gctx, r.Input, func(line string) error {
				_ = r.Bar.Update(ChannelStdin, line)
				return nil
			})
			if err != nil && !stderrors.Is(err, context.Canceled) {
				return err
			}
			log.Debug().Msg("Input closed")
			if r.ExitOnEOF {
				cancel()
			}
			return nil
		})
	}

	if r.CustomFile != "" {
		path := r.CustomFile
		load := func() {
			line, err := FirstLine(fs, path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Failed to read custom file")
				return
			}
			if line == "" {
				return
			}
			_ = r.Bar.Update(ChannelCustom, line)
		}
		load()
		g.Go(func() error {
			return config.WatchFile(gctx, path, load)
		})
	}

	if r.Config != nil {
		opts := *r.Config
		g.Go(func() error {
			return config.Watch(gctx, opts, func(cfg *config.Config, err error) {
				if err != nil {
					log.Warn().Err(err).Msg("Configuration reload failed, keeping the current one")
					return
				}
				if err := r.Bar.Reconfigure(cfg); err != nil {
					log.Warn().Err(err).Msg("Failed to apply configuration")
				}
			})
		})
	}

	if r.MetricsAddr != "" && r.Gatherer != nil {
		g.Go(func() error {
			return metrics.Serve(gctx, r.MetricsAddr, r.Gatherer)
		})
	}

	g.Go(func() error {
		defer cancel()
		return r.Frontend.Run(gctx, r.Bar)
	})

	err := g.Wait()
	r.Bar.Close()
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
