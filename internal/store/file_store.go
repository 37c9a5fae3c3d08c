package store

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"appstate/internal/domain"
)

const plainExt = ".json"

// FileBackend persists each key as a plaintext file under dir.
type FileBackend struct {
	dir string
	mu  sync.Mutex
}

// NewFileBackend returns a FileBackend rooted at dir. The directory is
// created on first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Dir returns the directory holding the key files.
func (b *FileBackend) Dir() string { return b.dir }

// GetItem returns the stored value for key.
func (b *FileBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if err := checkKey(key); err != nil {
		return "", false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	raw, ok, err := readFile(b.path(key))
	if err != nil || !ok {
		return "", false, err
	}
	return string(raw), true, nil
}

// SetItem writes value for key, replacing any previous value atomically.
func (b *FileBackend) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return writeFile(b.path(key), []byte(value), 0o600)
}

// RemoveItem deletes the file for key.
func (b *FileBackend) RemoveItem(ctx context.Context, key string) error {
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

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+plainExt)
}

// keyOf maps a file path inside dir back to its key.
func (b *FileBackend) keyOf(path string) (string, bool) {
	if filepath.Dir(path) != filepath.Clean(b.dir) {
		return "", false
	}
	base := filepath.Base(path)
	if strings.Contains(base, tmpInfix) || !strings.HasSuffix(base, plainExt) {
		return "", false
	}
	key := strings.TrimSuffix(base, plainExt)
	if checkKey(key) != nil {
		return "", false
	}
	return key, true
}

// Compile-time assertion that FileBackend implements domain.Backend.
var _ domain.Backend = (*FileBackend)(nil)
