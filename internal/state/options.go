package state

import (
	"context"

	"go.uber.org/zap"
)

// Option customises a Store.
type Option func(*options)

type options struct {
	log    *zap.Logger
	policy RemovePolicy
	ctx    context.Context
}

func applyOptions(opts []Option) options {
	o := options{
		log:    zap.NewNop(),
		policy: ResetToDefault,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for hydration and self-healing events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRemovePolicy sets what Remove does when a default is configured.
func WithRemovePolicy(p RemovePolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithContext bounds the initial hydration load.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}
