// Package store provides the persistence backends behind settings stores.
//
// Every backend implements domain.Backend: an asynchronous key to string
// mapping with get, set and remove. Backends are concurrency-safe and own no
// knowledge of the values they hold; typing, validation and change
// notification live in package state.
//
// The package includes:
//   - Plaintext files, one per key, written atomically (FileBackend)
//   - Passphrase-encrypted files using scrypt and ChaCha20-Poly1305 (SecureFileBackend)
//   - The OS keyring (KeyringBackend)
//   - Process memory (MemoryBackend)
//
// FileBackend.Watch reports out-of-band changes to key files via fsnotify.
package store
