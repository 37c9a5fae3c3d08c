package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"appstate/internal/domain"
)

// RemovePolicy decides what Remove does for a store with a default value.
type RemovePolicy int

const (
	// ResetToDefault makes Remove persist the default value. Stores without a
	// default fall back to Clear.
	ResetToDefault RemovePolicy = iota
	// Clear deletes the backend entry and leaves the store absent.
	Clear
)

func (p RemovePolicy) String() string {
	switch p {
	case ResetToDefault:
		return "reset-to-default"
	case Clear:
		return "clear"
	default:
		return fmt.Sprintf("RemovePolicy(%d)", int(p))
	}
}

// Store is a typed, write-through cell over one backend key.
//
// Reads of the current value are synchronous (Snapshot); anything touching the
// backend (Get, Set, Remove) blocks the caller. Subscribers are notified after
// the backend write and the snapshot update, outside internal locks.
type Store[T any] struct {
	key       string
	backend   domain.Backend
	validator Validator[T]
	def       T
	hasDef    bool
	policy    RemovePolicy
	log       *zap.Logger

	// writeMu serialises backend round trips so the snapshot always matches
	// the last completed write.
	writeMu sync.Mutex

	mu       sync.RWMutex
	snapshot T
	present  bool
	raw      string
	subs     map[uint64]func()
	nextID   uint64

	ready       chan struct{}
	initErr     error
	initialized atomic.Bool
}

// New builds a store without a default value and starts hydrating it from
// backend. Construction never blocks and never fails.
func New[T any](key domain.SettingKey, backend domain.Backend, v Validator[T], opts ...Option) *Store[T] {
	cfg := applyOptions(opts)
	s := newStore(key, backend, v, cfg)
	s.policy = Clear
	go s.hydrate(cfg.ctx)
	return s
}

// NewWithDefault builds a store whose value is never absent once hydrated:
// missing or invalid data is replaced by def and persisted.
func NewWithDefault[T any](key domain.SettingKey, backend domain.Backend, v Validator[T], def T, opts ...Option) *Store[T] {
	cfg := applyOptions(opts)
	s := newStore(key, backend, v, cfg)
	s.def = def
	s.hasDef = true
	s.snapshot = def
	s.present = true
	if b, err := json.Marshal(def); err != nil {
		s.log.Error("default value cannot be encoded; it will not be persisted", zap.Error(err))
	} else {
		s.raw = string(b)
	}
	go s.hydrate(cfg.ctx)
	return s
}

func newStore[T any](key domain.SettingKey, backend domain.Backend, v Validator[T], cfg options) *Store[T] {
	return &Store[T]{
		key:       key.String(),
		backend:   backend,
		validator: v,
		policy:    cfg.policy,
		log:       cfg.log.With(zap.String("key", key.String())),
		subs:      make(map[uint64]func()),
		ready:     make(chan struct{}),
	}
}

func (s *Store[T]) hydrate(ctx context.Context) {
	_, _, err := s.Get(ctx)
	if err != nil {
		s.log.Warn("hydration failed; keeping initial snapshot", zap.Error(err))
	} else {
		s.log.Debug("hydrated")
	}

	s.initErr = err
	s.initialized.Store(true)
	close(s.ready)
}

// Key returns the backend key this store owns.
func (s *Store[T]) Key() string { return s.key }

// Default returns the default value and whether one is configured.
func (s *Store[T]) Default() (T, bool) { return s.def, s.hasDef }

// Policy returns the effective remove policy.
func (s *Store[T]) Policy() RemovePolicy {
	if !s.hasDef {
		return Clear
	}
	return s.policy
}

// Initialized reports whether the first load from the backend has completed.
func (s *Store[T]) Initialized() bool { return s.initialized.Load() }

// Ready is closed once the first load from the backend has completed.
func (s *Store[T]) Ready() <-chan struct{} { return s.ready }

// Wait blocks until hydration completes and returns its error, if any.
func (s *Store[T]) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return s.initErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the last known value without touching the backend.
// ok is false when the store is absent.
func (s *Store[T]) Snapshot() (v T, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.present
}

// Get reads the value from the backend, refreshing the snapshot.
//
// A missing entry yields the default, which is persisted, or absence. Data
// that fails validation is removed and the fallback returned. Only backend
// errors are returned. Subscribers are notified only when the snapshot's
// stored representation changes, so persisting a default that is already
// the snapshot is silent.
func (s *Store[T]) Get(ctx context.Context) (T, bool, error) {
	s.writeMu.Lock()
	v, ok, changed, err := s.load(ctx)
	s.writeMu.Unlock()

	if changed {
		s.notify()
	}
	return v, ok, err
}

// Set validates and writes v through to the backend, then updates the
// snapshot and notifies every subscriber once.
func (s *Store[T]) Set(ctx context.Context, v T) error {
	s.writeMu.Lock()
	_, err := s.write(ctx, v)
	s.writeMu.Unlock()

	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// Remove resets the store to its default or clears it, depending on Policy,
// and notifies subscribers.
func (s *Store[T]) Remove(ctx context.Context) error {
	s.writeMu.Lock()
	_, _, _, err := s.remove(ctx)
	s.writeMu.Unlock()

	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// Subscribe registers fn to run after every change. The returned function
// unregisters it; calling it again is a no-op.
func (s *Store[T]) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// load must be called with writeMu held.
func (s *Store[T]) load(ctx context.Context) (v T, ok, changed bool, err error) {
	raw, found, err := s.backend.GetItem(ctx, s.key)
	if err != nil {
		return v, false, false, fmt.Errorf("read %s: %w", s.key, err)
	}

	if !found {
		if s.hasDef {
			s.log.Debug("no stored value; persisting default")
			changed, err := s.write(ctx, s.def)
			if err != nil {
				return v, false, false, err
			}
			return s.def, true, changed, nil
		}
		return v, false, s.commitAbsent(), nil
	}

	parsed, verr := s.validator.Validate([]byte(raw))
	if verr != nil {
		s.log.Warn("stored value failed validation; removing", zap.Error(verr))
		return s.remove(ctx)
	}
	return parsed, true, s.commit(parsed, raw), nil
}

// write must be called with writeMu held. changed reports whether the
// snapshot's stored representation moved.
func (s *Store[T]) write(ctx context.Context, v T) (changed bool, err error) {
	b, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", s.key, err)
	}
	if _, err := s.validator.Validate(b); err != nil {
		return false, fmt.Errorf("write %s: %w", s.key, err)
	}
	if err := s.backend.SetItem(ctx, s.key, string(b)); err != nil {
		return false, fmt.Errorf("write %s: %w", s.key, err)
	}
	return s.commit(v, string(b)), nil
}

// remove must be called with writeMu held.
func (s *Store[T]) remove(ctx context.Context) (v T, ok, changed bool, err error) {
	if s.Policy() == ResetToDefault {
		changed, err := s.write(ctx, s.def)
		if err != nil {
			return v, false, false, err
		}
		return s.def, true, changed, nil
	}
	if err := s.backend.RemoveItem(ctx, s.key); err != nil {
		return v, false, false, fmt.Errorf("remove %s: %w", s.key, err)
	}
	return v, false, s.commitAbsent(), nil
}

// commit stores v as the snapshot and reports whether it changed.
func (s *Store[T]) commit(v T, raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := !s.present || s.raw != raw
	s.snapshot = v
	s.present = true
	s.raw = raw
	return changed
}

func (s *Store[T]) commitAbsent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	changed := s.present
	s.snapshot = zero
	s.present = false
	s.raw = ""
	return changed
}

func (s *Store[T]) notify() {
	s.mu.RLock()
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

// Setting is the store surface consumed by services and bindings.
type Setting[T any] interface {
	Key() string
	Snapshot() (T, bool)
	Subscribe(fn func()) (unsubscribe func())
	Get(ctx context.Context) (T, bool, error)
	Set(ctx context.Context, v T) error
	Remove(ctx context.Context) error
}

// Compile-time assertion that Store implements Setting.
var _ Setting[bool] = (*Store[bool])(nil)
