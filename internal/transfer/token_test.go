package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-kit/internal/asset"
	"solana-wallet-kit/internal/domain"
	"solana-wallet-kit/internal/solana/stub"
	"solana-wallet-kit/internal/walleterr"
)

var (
	createInstructions   = []string{"system:createAccount", "token:initializeAccount"}
	transferInstructions = []string{"token:transfer"}
)

// fundToken gives the sender SOL for fees and rent plus a USDC holding account.
func fundToken(t *testing.T, f *fixture, amount uint64) asset.Asset {
	t.Helper()
	usdc := asset.USDC()
	f.chain.SetBalance(f.sender.PublicKey().String(), lamportsPerSOL)
	f.chain.AddMint(usdc.Address(), usdc.Decimals())
	f.chain.AddTokenAccount(newAddress(t), usdc.Address(), f.sender.PublicKey().String(), amount)
	return usdc
}

func TestTransferToken_CreatesRecipientAccountOnce(t *testing.T) {
	f := newFixture(t)
	usdc := fundToken(t, f, 10_000_000)
	from := f.sender.PublicKey().String()
	to := newAddress(t)

	_, err := f.builder.Transfer(context.Background(), f.request(to, usdc, 4_000_000))
	require.NoError(t, err)

	assert.Equal(t, [][]string{createInstructions, transferInstructions}, instructions(f.chain.Submissions()))
	assert.Equal(t, uint64(4_000_000), f.chain.TokenBalance(to, usdc.Address()))
	assert.Equal(t, uint64(6_000_000), f.chain.TokenBalance(from, usdc.Address()))

	// Rent for the new account and two fees, one of them double-signed.
	want := uint64(lamportsPerSOL) - stub.RentExempt(165) - 3*stub.LamportsPerSignature
	assert.Equal(t, want, f.chain.Balance(from))

	// The second run finds the account and submits the transfer only.
	_, err = f.builder.Transfer(context.Background(), f.request(to, usdc, 1_000_000))
	require.NoError(t, err)

	subs := f.chain.Submissions()
	require.Len(t, subs, 3)
	assert.Equal(t, transferInstructions, subs[2].Instructions)
	assert.Equal(t, uint64(5_000_000), f.chain.TokenBalance(to, usdc.Address()))

	holdings, err := f.chain.GetTokenAccountsByOwner(context.Background(), to, usdc.Address())
	require.NoError(t, err)
	assert.Len(t, holdings, 1)
}

func TestTransferToken_JournalsCreationAndTransfer(t *testing.T) {
	f := newFixture(t)
	usdc := fundToken(t, f, 5_000_000)

	_, err := f.builder.Transfer(context.Background(), f.request(newAddress(t), usdc, 2_500_000))
	require.NoError(t, err)

	var kinds []domain.TransferKind
	for _, r := range f.records.All() {
		if r.Status == domain.TransferStatusConfirmed {
			kinds = append(kinds, r.Kind)
		}
		assert.Equal(t, usdc.Address(), r.Mint)
	}
	assert.Equal(t, []domain.TransferKind{domain.TransferKindAccountCreate, domain.TransferKindToken}, kinds)
}

func TestTransferToken_SenderWithoutAccount(t *testing.T) {
	f := newFixture(t)
	usdc := asset.USDC()
	f.chain.SetBalance(f.sender.PublicKey().String(), lamportsPerSOL)
	f.chain.AddMint(usdc.Address(), usdc.Decimals())

	_, err := f.builder.Transfer(context.Background(), f.request(newAddress(t), usdc, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, walleterr.ErrTokenAccountNotFound))
	assert.Empty(t, f.chain.Submissions())
}

func TestTransferToken_PartialFailureKeepsAccount(t *testing.T) {
	f := newFixture(t)
	usdc := fundToken(t, f, 1_000_000)
	to := newAddress(t)

	// The recipient account is created before the amount check fails.
	_, err := f.builder.Transfer(context.Background(), f.request(to, usdc, 5_000_000))
	require.Error(t, err)
	assert.True(t, errors.Is(err, walleterr.ErrInsufficientFunds))
	assert.Equal(t, [][]string{createInstructions}, instructions(f.chain.Submissions()))

	_, err = f.builder.Transfer(context.Background(), f.request(to, usdc, 1_000_000))
	require.NoError(t, err)
	assert.Equal(t, [][]string{createInstructions, transferInstructions}, instructions(f.chain.Submissions()))
	assert.Equal(t, uint64(1_000_000), f.chain.TokenBalance(to, usdc.Address()))
}

func TestTransferToken_CreationRejected(t *testing.T) {
	f := newFixture(t)
	usdc := fundToken(t, f, 1_000_000)
	// Enough for fees but not for rent.
	f.chain.SetBalance(f.sender.PublicKey().String(), 20_000)

	_, err := f.builder.Transfer(context.Background(), f.request(newAddress(t), usdc, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, walleterr.ErrTransaction))
	assert.True(t, errors.Is(err, stub.ErrRejected))
	assert.Empty(t, f.chain.Submissions())
}

func TestTransferToken_MintMissing(t *testing.T) {
	f := newFixture(t)
	mint := newAddress(t)
	token := asset.Custom(mint, "Ghost", "GHOST", 6, "")
	f.chain.SetBalance(f.sender.PublicKey().String(), lamportsPerSOL)
	f.chain.AddTokenAccount(newAddress(t), mint, f.sender.PublicKey().String(), 100)

	_, err := f.builder.Transfer(context.Background(), f.request(newAddress(t), token, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, walleterr.ErrInvalidAddress))
	assert.Empty(t, f.chain.Submissions())
}

func TestTransferToken_InvalidMint(t *testing.T) {
	f := newFixture(t)
	bogus := asset.Custom("0OIl", "Bogus", "BOG", 6, "")

	_, err := f.builder.Transfer(context.Background(), f.request(newAddress(t), bogus, 1))
	assert.True(t, errors.Is(err, walleterr.ErrInvalidAddress))
	assert.Zero(t, f.chain.Calls("getTokenAccountsByOwner"))
}
