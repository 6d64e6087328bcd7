// Package keys loads signing keys for transfers. Keys are returned to the
// caller and never retained or logged here.
package keys

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	solanago "github.com/gagliardetto/solana-go"
)

// ErrInvalidKey is returned for malformed or inconsistent key material.
var ErrInvalidKey = errors.New("invalid key")

// FromBase58 parses a base58 64-byte keypair (seed || public key) and checks
// that the public half matches the seed.
func FromBase58(s string) (solanago.PrivateKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	key, err := solanago.PrivateKeyFromBase58(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return checkKeypair(key)
}

// FromJSON parses a keypair file as written by the Solana CLI: a JSON array of 64 bytes.
func FromJSON(data []byte) (solanago.PrivateKey, error) {
	var raw []byte
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	raw = make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte %d out of range", ErrInvalidKey, i)
		}
		raw[i] = byte(v)
	}
	return checkKeypair(solanago.PrivateKey(raw))
}

func checkKeypair(key solanago.PrivateKey) (solanago.PrivateKey, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: keypair is %d bytes, want %d", ErrInvalidKey, len(key), ed25519.PrivateKeySize)
	}
	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], key[ed25519.SeedSize:]) {
		return nil, fmt.Errorf("%w: public key does not match seed", ErrInvalidKey)
	}
	return key, nil
}

// IsOnCurve reports whether pub is a valid ed25519 point. Program-derived
// addresses are off-curve and have no private key.
func IsOnCurve(pub solanago.PublicKey) bool {
	_, err := new(edwards25519.Point).SetBytes(pub[:])
	return err == nil
}
