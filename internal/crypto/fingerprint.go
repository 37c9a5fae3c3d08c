package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short hex fingerprint of a secret such as a bearer
// token, safe to log or display.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars). An empty
// secret has no fingerprint.
func Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:10])
}
