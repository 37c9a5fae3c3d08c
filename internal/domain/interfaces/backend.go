package interfaces

import "context"

// Backend is an asynchronous key to string persistence mechanism.
//
// GetItem reports ok == false when nothing is stored under key. Removing a
// missing key is not an error.
type Backend interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
