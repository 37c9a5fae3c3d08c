package state_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"appstate/internal/store"
)

// faultyBackend wraps a MemoryBackend with injectable failures and gates.
type faultyBackend struct {
	*store.MemoryBackend

	mu        sync.Mutex
	getErr    error
	setErr    error
	removeErr error
	sets      int
	removes   int

	// When non-nil, GetItem/SetItem signal on entered and block on release.
	getGate *gate
	setGate *gate
}

type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}, 16), release: make(chan struct{})}
}

func (g *gate) pass() {
	if g == nil {
		return
	}
	g.entered <- struct{}{}
	<-g.release
}

func newFaultyBackend() *faultyBackend {
	return &faultyBackend{MemoryBackend: store.NewMemoryBackend()}
}

func (b *faultyBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	err, g := b.getErr, b.getGate
	b.mu.Unlock()

	g.pass()
	if err != nil {
		return "", false, err
	}
	return b.MemoryBackend.GetItem(ctx, key)
}

func (b *faultyBackend) SetItem(ctx context.Context, key, value string) error {
	b.mu.Lock()
	err, g := b.setErr, b.setGate
	b.sets++
	b.mu.Unlock()

	g.pass()
	if err != nil {
		return err
	}
	return b.MemoryBackend.SetItem(ctx, key, value)
}

func (b *faultyBackend) RemoveItem(ctx context.Context, key string) error {
	b.mu.Lock()
	err := b.removeErr
	b.removes++
	b.mu.Unlock()

	if err != nil {
		return err
	}
	return b.MemoryBackend.RemoveItem(ctx, key)
}

func (b *faultyBackend) setCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sets
}

func (b *faultyBackend) raw(t *testing.T, key string) (string, bool) {
	t.Helper()
	v, ok, err := b.MemoryBackend.GetItem(context.Background(), key)
	if err != nil {
		t.Fatalf("raw get %s: %v", key, err)
	}
	return v, ok
}

type waiter interface {
	Wait(ctx context.Context) error
}

func waitReady(t *testing.T, w waiter) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.Wait(ctx); err != nil {
		t.Fatalf("wait for hydration: %v", err)
	}
}

func recv(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}
