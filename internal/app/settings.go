package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"appstate/internal/domain"
	"appstate/internal/state"
)

// Entry is a type-erased view of one setting, addressed by key name.
type Entry interface {
	Key() string
	// Value returns the snapshot.
	Value() (any, bool)
	// Load reads the backend and refreshes the snapshot.
	Load(ctx context.Context) (any, bool, error)
	// SetText parses s and writes it through the owning service.
	SetText(ctx context.Context, s string) error
	// Reset removes the value, restoring the default when one exists.
	Reset(ctx context.Context) error
	// Subscribe registers fn for changes to the value.
	Subscribe(fn func()) (unsubscribe func())
}

type entry[T any] struct {
	store *state.Store[T]
	parse func(string) (T, error)
	set   func(context.Context, T) error
	reset func(context.Context) error
}

func (e *entry[T]) Key() string { return e.store.Key() }

func (e *entry[T]) Value() (any, bool) { return e.store.Snapshot() }

func (e *entry[T]) Load(ctx context.Context) (any, bool, error) {
	return e.store.Get(ctx)
}

func (e *entry[T]) SetText(ctx context.Context, s string) error {
	v, err := e.parse(s)
	if err != nil {
		return fmt.Errorf("%s: %w", e.Key(), err)
	}
	return e.set(ctx, v)
}

func (e *entry[T]) Reset(ctx context.Context) error { return e.reset(ctx) }

func (e *entry[T]) Subscribe(fn func()) func() { return e.store.Subscribe(fn) }

// Settings returns every setting in a fixed order.
func (w *Wire) Settings() []Entry {
	return []Entry{
		&entry[domain.Session]{
			store: w.Session,
			parse: func(s string) (domain.Session, error) {
				var sess domain.Session
				err := json.Unmarshal([]byte(s), &sess)
				return sess, err
			},
			set:   w.Sessions.Login,
			reset: w.Sessions.Logout,
		},
		&entry[bool]{
			store: w.DarkMode,
			parse: parseDarkMode,
			set: func(ctx context.Context, dark bool) error {
				_, err := w.Preferences.UpdateMode(ctx, domain.ColorModeOf(dark))
				return err
			},
			reset: func(ctx context.Context) error {
				_, err := w.Preferences.ResetMode(ctx)
				return err
			},
		},
		&entry[domain.Language]{
			store: w.Language,
			parse: func(s string) (domain.Language, error) {
				return domain.Language(strings.ToLower(strings.TrimSpace(s))), nil
			},
			set: func(ctx context.Context, l domain.Language) error {
				_, err := w.Preferences.UpdateLanguage(ctx, l)
				return err
			},
			reset: func(ctx context.Context) error {
				_, err := w.Preferences.ResetLanguage(ctx)
				return err
			},
		},
	}
}

// Setting looks up a setting by key name.
func (w *Wire) Setting(name string) (Entry, error) {
	for _, e := range w.Settings() {
		if e.Key() == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSetting, name)
}

// parseDarkMode accepts a boolean or a color mode name.
func parseDarkMode(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(domain.ColorModeDark):
		return true, nil
	case string(domain.ColorModeLight):
		return false, nil
	}
	return strconv.ParseBool(s)
}
