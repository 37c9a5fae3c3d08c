package store

import (
	"context"
	"errors"

	"github.com/zalando/go-keyring"

	"appstate/internal/domain"
)

// KeyringBackend persists each key as a secret in the OS keyring
// (Keychain, Secret Service or Windows Credential Manager) under service.
type KeyringBackend struct {
	service string
}

// NewKeyringBackend returns a KeyringBackend scoped to service.
func NewKeyringBackend(service string) *KeyringBackend {
	return &KeyringBackend{service: service}
}

// GetItem returns the secret stored for key.
func (b *KeyringBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v, err := keyring.Get(b.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetItem stores value as the secret for key.
func (b *KeyringBackend) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return keyring.Set(b.service, key, value)
}

// RemoveItem deletes the secret for key.
func (b *KeyringBackend) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := keyring.Delete(b.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Compile-time assertion that KeyringBackend implements domain.Backend.
var _ domain.Backend = (*KeyringBackend)(nil)
