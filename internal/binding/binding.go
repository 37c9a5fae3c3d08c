package binding

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Source is a synchronously readable value with change notification.
// *state.Store satisfies it.
type Source[T any] interface {
	Subscribe(fn func()) (unsubscribe func())
	Snapshot() (T, bool)
}

// Hydrator is a source whose first load completes asynchronously.
type Hydrator interface {
	Key() string
	Wait(ctx context.Context) error
}

// Bind returns the (subscribe, snapshot) pair expected by synchronous
// external-state UI primitives.
func Bind[T any](src Source[T]) (subscribe func(onChange func()) func(), snapshot func() (T, bool)) {
	return src.Subscribe, src.Snapshot
}

// Watch calls fn with the current value now and after every change.
// The returned function stops watching.
func Watch[T any](src Source[T], fn func(v T, ok bool)) (stop func()) {
	stop = src.Subscribe(func() { fn(src.Snapshot()) })
	fn(src.Snapshot())
	return stop
}

// Ready blocks until every store has hydrated. Hydration failures are
// combined; the stores stay usable with their initial snapshots.
func Ready(ctx context.Context, hs ...Hydrator) error {
	var err error
	for _, h := range hs {
		if werr := h.Wait(ctx); werr != nil {
			if ctx.Err() != nil {
				return multierr.Append(err, ctx.Err())
			}
			err = multierr.Append(err, fmt.Errorf("hydrate %s: %w", h.Key(), werr))
		}
	}
	return err
}
