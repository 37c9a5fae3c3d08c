// Package session manages the authenticated session and the route gate.
//
// Service persists the session through a secure settings store and reacts to
// expired-token signals; Gate redirects between the authenticated and
// unauthenticated areas whenever the session changes.
package session
