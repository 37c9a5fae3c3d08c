// Package binding adapts settings stores to synchronous UI bindings.
//
// Bind exposes a store as the (subscribe, snapshot) pair used by external
// state primitives, Derive computes read-only values such as "is signed in",
// and Ready is the loading gate that waits for hydration before the UI
// becomes interactive.
package binding
