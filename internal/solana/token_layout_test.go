package solana

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestTokenAccountLayout_RoundTrip(t *testing.T) {
	raw, err := EncodeTokenAccount(testMint, testOwner, 1<<40)
	if err != nil {
		t.Fatalf("EncodeTokenAccount: %v", err)
	}
	if len(raw) != TokenAccountSize {
		t.Fatalf("expected %d bytes, got %d", TokenAccountSize, len(raw))
	}

	acc, err := ParseTokenAccount(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("ParseTokenAccount: %v", err)
	}
	if acc.Mint != testMint || acc.Owner != testOwner || acc.Amount != 1<<40 {
		t.Errorf("unexpected account: %+v", acc)
	}
}

func TestParseTokenAccount_WrongSize(t *testing.T) {
	_, err := ParseTokenAccountBytes(make([]byte, MintSize))
	if !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestParseMintDecimals(t *testing.T) {
	data := base64.StdEncoding.EncodeToString(EncodeMint(0, 9))
	decimals, err := ParseMintDecimals(data)
	if err != nil {
		t.Fatalf("ParseMintDecimals: %v", err)
	}
	if decimals != 9 {
		t.Errorf("expected 9, got %d", decimals)
	}

	uninit := make([]byte, MintSize)
	if _, err := ParseMintDecimals(base64.StdEncoding.EncodeToString(uninit)); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("expected ErrInvalidLayout for uninitialized mint, got %v", err)
	}

	account, _ := EncodeTokenAccount(testMint, testOwner, 1)
	if _, err := ParseMintDecimals(base64.StdEncoding.EncodeToString(account)); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("expected ErrInvalidLayout for token account data, got %v", err)
	}
}

func TestIsValidPubkey(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{testOwner, true},
		{SystemProgramID, true},
		{TokenProgramID, true},
		{"", false},
		{"not-base58-0OIl", false},
		{"3yZe7d", false},
	}
	for _, tt := range tests {
		if got := IsValidPubkey(tt.in); got != tt.want {
			t.Errorf("IsValidPubkey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWSEndpoint(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://api.devnet.solana.com", "wss://api.devnet.solana.com", false},
		{"http://127.0.0.1:8899", "ws://127.0.0.1:8900", false},
		{"wss://rpc.example.com/key", "wss://rpc.example.com/key", false},
		{"ftp://x", "", true},
	}
	for _, tt := range tests {
		got, err := WSEndpoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("WSEndpoint(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("WSEndpoint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
