package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"appstate/internal/api"
	"appstate/internal/binding"
	"appstate/internal/domain"
	"appstate/internal/notice"
	"appstate/internal/services/preferences"
	sessionsvc "appstate/internal/services/session"
	"appstate/internal/state"
	"appstate/internal/store"
)

// ErrDuplicateStore is returned when two stores would own the same key on
// the same backend.
var ErrDuplicateStore = errors.New("store already registered for key")

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config  *Config
	Log     *zap.Logger
	Notices *notice.Center

	Session  *state.Store[domain.Session]
	DarkMode *state.Store[bool]
	Language *state.Store[domain.Language]

	Sessions    *sessionsvc.Service
	Gate        *sessionsvc.Gate
	Preferences *preferences.Service
	API         *api.HTTP // nil when api.url is unset

	plain     domain.Backend
	secure    domain.Backend
	refresh   map[string]func(context.Context) error
	stopWatch func()
}

type slot struct {
	backend domain.Backend
	key     domain.SettingKey
}

// registry enforces one store per key and backend.
type registry map[slot]struct{}

func (r registry) claim(b domain.Backend, key domain.SettingKey) error {
	s := slot{backend: b, key: key}
	if _, dup := r[s]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateStore, key)
	}
	r[s] = struct{}{}
	return nil
}

// NewWire constructs the dependency graph from cfg. Stores start hydrating
// immediately, bounded by ctx; use Ready to wait for them.
func NewWire(ctx context.Context, cfg *Config, log *zap.Logger) (*Wire, error) {
	if log == nil {
		log = zap.NewNop()
	}

	secure, err := secureBackend(cfg)
	if err != nil {
		return nil, err
	}
	plain := plainBackend(cfg)

	reg := registry{}
	for _, c := range []struct {
		b   domain.Backend
		key domain.SettingKey
	}{
		{secure, domain.KeySession},
		{plain, domain.KeyDarkMode},
		{plain, domain.KeyLanguage},
	} {
		if err := reg.claim(c.b, c.key); err != nil {
			return nil, err
		}
	}

	storeLog := log.Named("state")
	sessionStore := state.New(domain.KeySession, secure, state.Struct[domain.Session](),
		state.WithLogger(storeLog), state.WithContext(ctx))
	darkStore := state.NewWithDefault(domain.KeyDarkMode, plain, state.JSON[bool](nil), false,
		state.WithLogger(storeLog), state.WithContext(ctx))
	langStore := state.NewWithDefault(domain.KeyLanguage, plain, state.OneOf(domain.Languages...), domain.LanguageEnglish,
		state.WithLogger(storeLog), state.WithContext(ctx))

	notices := notice.NewCenter(log.Named("notice"))

	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var (
		client *api.HTTP
		auth   domain.AuthClient
	)
	if cfg.API.URL != "" {
		client = api.NewHTTP(cfg.API.URL, httpClient)
		auth = client
	}

	sessions := sessionsvc.New(sessionStore, auth, notices, log.Named("session"))
	if client != nil {
		client.OnUnauthorized(func(ctx context.Context) {
			if err := sessions.Expire(ctx); err != nil {
				log.Warn("expire session", zap.Error(err))
			}
		})
	}

	w := &Wire{
		Config:      cfg,
		Log:         log,
		Notices:     notices,
		Session:     sessionStore,
		DarkMode:    darkStore,
		Language:    langStore,
		Sessions:    sessions,
		Gate:        sessionsvc.NewGate(cfg.Routes, sessions, log.Named("gate")),
		Preferences: preferences.New(darkStore, langStore, notices, log.Named("preferences")),
		API:         client,
		plain:       plain,
		secure:      secure,
	}
	w.refresh = map[string]func(context.Context) error{
		sessionStore.Key(): refresher(sessionStore),
		darkStore.Key():    refresher(darkStore),
		langStore.Key():    refresher(langStore),
	}
	if cfg.Storage.Watch {
		w.startWatch(ctx)
	}
	return w, nil
}

func (w *Wire) startWatch(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w.stopWatch = func() {
		cancel()
		<-done
	}
	go func() {
		defer close(done)
		if err := w.Watch(ctx); err != nil {
			w.Log.Warn("watch stopped", zap.Error(err))
		}
	}()
}

// Watching reports whether stores rehydrate in the background (storage.watch).
func (w *Wire) Watching() bool { return w.stopWatch != nil }

func refresher[T any](s *state.Store[T]) func(context.Context) error {
	return func(ctx context.Context) error {
		_, _, err := s.Get(ctx)
		return err
	}
}

func secureBackend(cfg *Config) (domain.Backend, error) {
	switch cfg.Storage.Secure {
	case BackendKeyring:
		return store.NewKeyringBackend(cfg.Storage.Service), nil
	case BackendMemory:
		return store.NewMemoryBackend(), nil
	default:
		if cfg.Passphrase == "" {
			return nil, fmt.Errorf("%w (-p or %s)", store.ErrNoPassphrase, EnvPassphrase)
		}
		return store.NewSecureFileBackend(cfg.SecureDir(), cfg.Passphrase), nil
	}
}

func plainBackend(cfg *Config) domain.Backend {
	if cfg.Storage.Plain == BackendMemory {
		return store.NewMemoryBackend()
	}
	return store.NewFileBackend(cfg.PlainDir())
}

// Ready waits for every store's first load.
func (w *Wire) Ready(ctx context.Context) error {
	return binding.Ready(ctx, w.Session, w.DarkMode, w.Language)
}

// Watch rehydrates stores whenever their plaintext files change on disk,
// until ctx is cancelled. It needs the file-backed plain backend.
func (w *Wire) Watch(ctx context.Context) error {
	fb, ok := w.plain.(*store.FileBackend)
	if !ok {
		return errors.New("watch requires storage.plain = \"file\"")
	}
	return fb.Watch(ctx, func(key string) {
		refresh, ok := w.refresh[key]
		if !ok {
			return
		}
		w.Log.Debug("backend changed out of band", zap.String("key", key))
		if err := refresh(ctx); err != nil {
			w.Log.Warn("rehydrate", zap.String("key", key), zap.Error(err))
		}
	})
}

// Close stops the background watcher and releases backend resources,
// wiping the secure passphrase.
func (w *Wire) Close() error {
	if w.stopWatch != nil {
		w.stopWatch()
		w.stopWatch = nil
	}
	var err error
	for _, b := range []domain.Backend{w.secure, w.plain} {
		if c, ok := b.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}
