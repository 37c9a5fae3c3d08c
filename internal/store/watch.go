package store

import (
	"context"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Watch reports keys whose files change under the backend directory until
// ctx is cancelled. Temp files from atomic writes are ignored; the rename
// that publishes them is reported as a change to the final key.
func (b *FileBackend) Watch(ctx context.Context, onChange func(key string)) error {
	if err := os.MkdirAll(b.dir, 0o700); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(b.dir); err != nil {
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
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if key, ok := b.keyOf(ev.Name); ok {
				onChange(key)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
