// Package app wires application dependencies for the CLI.
//
// It loads Config from <home>/appstate.toml, builds the persistence
// backends, one typed store per setting key, the notice center, the API
// client and the session and preference services, and exposes them via the
// Wire struct for commands to use.
//
// # Storage layout
//
//	<home>/appstate.toml     configuration
//	<home>/prefs/<key>.json  plaintext settings (dark-mode, language)
//	<home>/secure/<key>.enc  encrypted settings (session)
//
// The session may instead live in the OS keyring (storage.secure =
// "keyring"); either backend can be swapped for an in-memory one.
package app
