package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"appstate/internal/domain"
	"appstate/internal/util/memzero"
)

const secureExt = ".enc"

// ErrNoPassphrase is returned by SecureFileBackend when built without a passphrase.
var ErrNoPassphrase = errors.New("secure store requires a passphrase")

// SecureFileBackend persists each key as a passphrase-encrypted file under dir.
type SecureFileBackend struct {
	dir        string
	passphrase []byte
	params     ScryptParams
	mu         sync.Mutex
}

// SecureOption customises a SecureFileBackend.
type SecureOption func(*SecureFileBackend)

// WithScryptParams overrides the key-derivation cost.
func WithScryptParams(p ScryptParams) SecureOption {
	return func(b *SecureFileBackend) { b.params = p }
}

// NewSecureFileBackend returns a SecureFileBackend rooted at dir.
func NewSecureFileBackend(dir, passphrase string, opts ...SecureOption) *SecureFileBackend {
	b := &SecureFileBackend{
		dir:        dir,
		passphrase: []byte(passphrase),
		params:     DefaultScryptParams(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// GetItem decrypts and returns the stored value for key.
func (b *SecureFileBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := b.check(ctx, key); err != nil {
		return "", false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.passphrase) == 0 {
		return "", false, ErrNoPassphrase
	}
	ct, ok, err := readFile(b.path(key))
	if err != nil || !ok {
		return "", false, err
	}
	pt, err := open(b.passphrase, key, ct)
	if err != nil {
		return "", false, err
	}
	defer memzero.ZeroAll(pt, ct)
	return string(pt), true, nil
}

// SetItem encrypts value and writes it for key.
func (b *SecureFileBackend) SetItem(ctx context.Context, key, value string) error {
	if err := b.check(ctx, key); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.passphrase) == 0 {
		return ErrNoPassphrase
	}
	pt := []byte(value)
	defer memzero.Zero(pt)
	ct, err := seal(b.passphrase, key, pt, b.params)
	if err != nil {
		return err
	}
	return writeFile(b.path(key), ct, 0o600)
}

// RemoveItem deletes the encrypted file for key.
func (b *SecureFileBackend) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return removeFile(b.path(key))
}

// Close wipes the in-memory passphrase. The backend is unusable afterwards.
func (b *SecureFileBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	memzero.Zero(b.passphrase)
	b.passphrase = nil
	return nil
}

func (b *SecureFileBackend) check(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return checkKey(key)
}

func (b *SecureFileBackend) path(key string) string {
	return filepath.Join(b.dir, key+secureExt)
}

// Compile-time assertion that SecureFileBackend implements domain.Backend.
var _ domain.Backend = (*SecureFileBackend)(nil)
