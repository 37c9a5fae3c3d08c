package app

import (
	"errors"
	"testing"

	"appstate/internal/domain"
	"appstate/internal/store"
)

func TestRegistry_OneStorePerKeyAndBackend(t *testing.T) {
	a, b := store.NewMemoryBackend(), store.NewMemoryBackend()
	reg := registry{}

	if err := reg.claim(a, domain.KeyLanguage); err != nil {
		t.Fatal(err)
	}
	if err := reg.claim(b, domain.KeyLanguage); err != nil {
		t.Fatalf("same key on another backend: %v", err)
	}
	if err := reg.claim(a, domain.KeyDarkMode); err != nil {
		t.Fatalf("another key on same backend: %v", err)
	}
	if err := reg.claim(a, domain.KeyLanguage); !errors.Is(err, ErrDuplicateStore) {
		t.Fatalf("err = %v, want ErrDuplicateStore", err)
	}
}
