// Package state implements typed, persistent, observable settings.
//
// A Store owns one backend key. It hydrates asynchronously on construction,
// serves synchronous snapshots afterwards, writes through to the backend
// before updating the snapshot, and notifies zero-argument subscribers after
// every change. Stored data is parsed through a pluggable Validator; data
// that fails validation is replaced by the store's default (or removed)
// rather than surfaced as an error.
package state
