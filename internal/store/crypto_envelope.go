package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"appstate/internal/util/memzero"
)

const (
	// The current supported version of the encrypted blob format stored on disk.
	envelopeFormatVersion = 1
)

var (
	// ErrUndecryptable is returned when the passphrase is incorrect or the
	// ciphertext has been modified or bound to another key.
	ErrUndecryptable = errors.New("wrong passphrase or corrupted secure entry")
)

// ScryptParams are the key-derivation cost parameters.
type ScryptParams struct {
	N, R, P int
}

// DefaultScryptParams returns the interactive-login cost recommended by scrypt.
func DefaultScryptParams() ScryptParams { return ScryptParams{N: 1 << 15, R: 8, P: 1} }

// blob is the on-disk JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// seal derives a key from passphrase and seals raw into a JSON blob. The
// storage key is bound as associated data so entries cannot be swapped.
func seal(passphrase []byte, storageKey string, raw []byte, params ScryptParams) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:] /* #nosec G404 */); err != nil {
		return nil, err
	}
	key, err := scrypt.Key(passphrase, salt[:], params.N, params.R, params.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte // zero nonce; salt-bound key guarantees uniqueness
	ct := aead.Seal(nil, nonce[:], raw, associatedData(salt[:], storageKey))

	return json.Marshal(blob{
		V:      envelopeFormatVersion,
		Salt:   salt[:],
		N:      params.N,
		R:      params.R,
		P:      params.P,
		Cipher: ct,
	})
}

// open decrypts the JSON blob using a key derived from passphrase.
func open(passphrase []byte, storageKey string, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecryptable, err)
	}
	if bl.V > envelopeFormatVersion {
		return nil, fmt.Errorf("unsupported secure entry version %d", bl.V)
	}

	key, err := scrypt.Key(passphrase, bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], bl.Cipher, associatedData(bl.Salt, storageKey))
	if err != nil {
		return nil, ErrUndecryptable
	}
	return pt, nil
}

func associatedData(salt []byte, storageKey string) []byte {
	ad := make([]byte, 0, len(salt)+len(storageKey))
	ad = append(ad, salt...)
	return append(ad, storageKey...)
}
