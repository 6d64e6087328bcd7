package keys

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strings"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/tyler-smith/go-bip39"
)

// Derivation path constants: m/44'/501'/account'/0'.
const (
	HardenedOffset = 0x80000000

	PurposeBIP44   = HardenedOffset + 44
	CoinTypeSolana = HardenedOffset + 501
)

const ed25519Curve = "ed25519 seed"

// FromMnemonic derives the keypair at m/44'/501'/account'/0' from a BIP-39
// mnemonic and optional passphrase.
func FromMnemonic(mnemonic, passphrase string, account uint32) (solanago.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("%w: invalid mnemonic", ErrInvalidKey)
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: derive seed: %v", ErrInvalidKey, err)
	}
	return FromSeed(seed, PurposeBIP44, CoinTypeSolana, HardenedOffset+account, HardenedOffset)
}

// FromSeed derives an ed25519 keypair along a SLIP-0010 path.
// ed25519 only supports hardened children.
func FromSeed(seed []byte, path ...uint32) (solanago.PrivateKey, error) {
	key, _, err := deriveSLIP10(seed, path...)
	if err != nil {
		return nil, err
	}
	return solanago.PrivateKey(ed25519.NewKeyFromSeed(key)), nil
}

func deriveSLIP10(seed []byte, path ...uint32) (key, chainCode []byte, err error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, nil, fmt.Errorf("%w: seed must be 16-64 bytes, got %d", ErrInvalidKey, len(seed))
	}

	mac := hmac.New(sha512.New, []byte(ed25519Curve))
	mac.Write(seed)
	sum := mac.Sum(nil)
	key, chainCode = sum[:32], sum[32:]

	for _, index := range path {
		if index < HardenedOffset {
			return nil, nil, fmt.Errorf("%w: non-hardened index %d", ErrInvalidKey, index)
		}
		var data [1 + 32 + 4]byte
		copy(data[1:33], key)
		binary.BigEndian.PutUint32(data[33:], index)

		mac := hmac.New(sha512.New, chainCode)
		mac.Write(data[:])
		sum := mac.Sum(nil)
		key, chainCode = sum[:32], sum[32:]
	}
	return key, chainCode, nil
}
