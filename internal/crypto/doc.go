// Package crypto holds small helpers for handling secrets outside the
// storage layer.
//
// Fingerprint derives a short display form of a bearer token so logs and
// CLI output can identify a session without revealing it.
package crypto
