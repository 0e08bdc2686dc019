package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/arthur-debert/clubar/pkg/errors"
	"github.com/arthur-debert/clubar/pkg/logging"
)

const watchedOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// WatchFile calls onChange every time path is written or replaced, until ctx
// is done. The parent directory is watched so editors that save through a
// rename are still seen.
func WatchFile(ctx context.Context, path string, onChange func()) error {
	log := logging.GetLogger("config.watch")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "failed to create file watcher")
	}
	defer func() { _ = w.Close() }()

	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to watch %s", target).
			WithDetail("path", target)
	}
	log.Debug().Str("path", target).Msg("Watching file")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&watchedOps == 0 {
				continue
			}
			log.Trace().Str("path", target).Str("op", ev.Op.String()).Msg("File changed")
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Str("path", target).Msg("File watcher error")
		}
	}
}

// Watch reloads the configuration whenever its source file changes and hands
// the result to onReload. It returns immediately when no file was loaded.
func Watch(ctx context.Context, opts LoadOptions, onReload func(*Config, error)) error {
	path := opts.Path
	if path == "" && !opts.SkipSearch {
		path = SearchPath()
	}
	if path == "" {
		return nil
	}
	opts.Path = path
	return WatchFile(ctx, path, func() {
		onReload(Load(opts))
	})
}
