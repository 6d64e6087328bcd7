package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-kit/internal/asset"
	"solana-wallet-kit/internal/config"
	"solana-wallet-kit/internal/solana"
)

func TestResolveAsset(t *testing.T) {
	a, err := resolveAsset("USDC")
	require.NoError(t, err)
	assert.Equal(t, asset.AddressUSDC, a.Address())

	a, err = resolveAsset(asset.AddressJupiter)
	require.NoError(t, err)
	assert.Equal(t, "JUP", a.Symbol())

	_, err = resolveAsset("DOGE")
	assert.Error(t, err)
}

func TestConfirmer(t *testing.T) {
	cfg := &config.Config{Solana: config.SolanaConfig{ConfirmationMode: config.ConfirmWS, ConfirmationTimeout: 5 * time.Second}}
	c, err := confirmer(cfg)
	require.NoError(t, err)
	ws, ok := c.(*solana.WSConfirmer)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, ws.Timeout)
	assert.Equal(t, 5*time.Second, ws.Fallback.Timeout)

	cfg.Solana.ConfirmationMode = config.ConfirmPoll
	c, err = confirmer(cfg)
	require.NoError(t, err)
	assert.IsType(t, &solana.PollConfirmer{}, c)
}

func TestLoadSigner(t *testing.T) {
	t.Setenv("WALLET_PRIVATE_KEY", "")
	t.Setenv("WALLET_MNEMONIC", "")

	_, err := loadSigner(options{})
	assert.Error(t, err)

	key, err := solanago.NewRandomPrivateKey()
	require.NoError(t, err)
	t.Setenv("WALLET_PRIVATE_KEY", key.String())

	got, err := loadSigner(options{})
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), got.PublicKey())

	account, err := accountOf(options{})
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey().String(), account)

	// A key file takes precedence over the environment.
	path := filepath.Join(t.TempDir(), "id.json")
	other, err := solanago.NewRandomPrivateKey()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, keypairJSON(other), 0o600))

	got, err = loadSigner(options{keyFile: path})
	require.NoError(t, err)
	assert.Equal(t, other.PublicKey(), got.PublicKey())
}

func keypairJSON(key solanago.PrivateKey) []byte {
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	data, _ := json.Marshal(ints)
	return data
}
