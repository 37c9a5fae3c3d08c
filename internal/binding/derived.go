package binding

import "sync"

// Derived is a read-only source computed from another source. Subscribers
// fire only when the derived value changes.
type Derived[T comparable] struct {
	compute func() (T, bool)

	mu      sync.RWMutex
	value   T
	present bool
	subs    map[uint64]func()
	nextID  uint64
	unsub   func()
}

// Derive builds a Derived over src using fn. Call Close to detach it.
func Derive[S any, T comparable](src Source[S], fn func(v S, ok bool) (T, bool)) *Derived[T] {
	d := &Derived[T]{
		compute: func() (T, bool) { return fn(src.Snapshot()) },
		subs:    make(map[uint64]func()),
	}
	d.value, d.present = d.compute()
	d.unsub = src.Subscribe(d.refresh)
	return d
}

// Snapshot returns the current derived value.
func (d *Derived[T]) Snapshot() (T, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.value, d.present
}

// Subscribe registers fn; the returned function is idempotent.
func (d *Derived[T]) Subscribe(fn func()) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, id)
			d.mu.Unlock()
		})
	}
}

// Close detaches d from its source.
func (d *Derived[T]) Close() {
	if d.unsub != nil {
		d.unsub()
	}
}

func (d *Derived[T]) refresh() {
	v, ok := d.compute()

	d.mu.Lock()
	if v == d.value && ok == d.present {
		d.mu.Unlock()
		return
	}
	d.value, d.present = v, ok
	subs := make([]func(), 0, len(d.subs))
	for _, fn := range d.subs {
		subs = append(subs, fn)
	}
	d.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
