package solana

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Program IDs.
const (
	SystemProgramID = "11111111111111111111111111111111"
	TokenProgramID  = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)

// SPL token account layouts.
const (
	// TokenAccountSize is the size of an initialized token holding account.
	TokenAccountSize = 165
	// MintSize is the size of a token mint account.
	MintSize = 82

	mintDecimalsOffset    = 44
	mintInitializedOffset = 45
)

// ErrInvalidLayout is returned when account data does not match the expected layout.
var ErrInvalidLayout = errors.New("invalid account layout")

// ParseTokenAccount decodes base64 token account data.
// Address and Program are left empty; callers fill them from the RPC envelope.
func ParseTokenAccount(data string) (*TokenAccount, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode account data: %w", err)
	}
	return ParseTokenAccountBytes(raw)
}

// ParseTokenAccountBytes decodes raw token account data:
// mint(32) | owner(32) | amount(u64 LE) | ...
func ParseTokenAccountBytes(raw []byte) (*TokenAccount, error) {
	if len(raw) != TokenAccountSize {
		return nil, fmt.Errorf("%w: token account is %d bytes, want %d", ErrInvalidLayout, len(raw), TokenAccountSize)
	}
	return &TokenAccount{
		Mint:   base58.Encode(raw[0:32]),
		Owner:  base58.Encode(raw[32:64]),
		Amount: binary.LittleEndian.Uint64(raw[64:72]),
	}, nil
}

// EncodeTokenAccount builds an initialized token account layout.
func EncodeTokenAccount(mint, owner string, amount uint64) ([]byte, error) {
	mintKey, err := decodeKey(mint)
	if err != nil {
		return nil, fmt.Errorf("mint: %w", err)
	}
	ownerKey, err := decodeKey(owner)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}

	raw := make([]byte, TokenAccountSize)
	copy(raw[0:32], mintKey)
	copy(raw[32:64], ownerKey)
	binary.LittleEndian.PutUint64(raw[64:72], amount)
	raw[108] = 1 // state: initialized
	return raw, nil
}

// ParseMintDecimals returns the decimals of base64 mint account data.
func ParseMintDecimals(data string) (uint8, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return 0, fmt.Errorf("decode mint data: %w", err)
	}
	if len(raw) != MintSize {
		return 0, fmt.Errorf("%w: mint is %d bytes, want %d", ErrInvalidLayout, len(raw), MintSize)
	}
	if raw[mintInitializedOffset] == 0 {
		return 0, fmt.Errorf("%w: mint not initialized", ErrInvalidLayout)
	}
	return raw[mintDecimalsOffset], nil
}

// EncodeMint builds an initialized mint layout with no authorities.
func EncodeMint(supply uint64, decimals uint8) []byte {
	raw := make([]byte, MintSize)
	binary.LittleEndian.PutUint64(raw[36:44], supply)
	raw[mintDecimalsOffset] = decimals
	raw[mintInitializedOffset] = 1
	return raw
}

// IsValidPubkey reports whether s is base58 for exactly 32 bytes.
func IsValidPubkey(s string) bool {
	_, err := decodeKey(s)
	return err == nil
}

func decodeKey(s string) ([]byte, error) {
	if s == "" {
		return nil, errors.New("empty address")
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base58: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("address is %d bytes, want 32", len(b))
	}
	return b, nil
}
