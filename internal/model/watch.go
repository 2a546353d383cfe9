package model

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch invalidates the cache whenever the artifact file is written, replaced
// or removed. It watches the parent directory so atomic renames are seen.
// Watch blocks until ctx is done.
func (l *Lazy) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target := filepath.Clean(l.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				l.Invalidate()
				log.Info().Str("model_path", target).Str("op", ev.Op.String()).Msg("model artifact changed")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Str("model_path", target).Msg("model watcher error")
		}
	}
}
