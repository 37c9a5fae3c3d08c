package store

import (
	"errors"
	"fmt"
	"regexp"
)

const tmpInfix = ".tmp-"

var (
	// ErrInvalidKey is returned for keys that cannot be used as file names.
	ErrInvalidKey = errors.New("invalid storage key")

	keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// checkKey rejects keys that would escape the backend directory.
func checkKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
