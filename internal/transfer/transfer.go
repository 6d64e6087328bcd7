// Package transfer builds, signs, submits and confirms native and SPL token transfers.
package transfer

import (
	"context"
	"fmt"
	"math"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"solana-wallet-kit/internal/asset"
	"solana-wallet-kit/internal/domain"
	"solana-wallet-kit/internal/keys"
	"solana-wallet-kit/internal/logging"
	"solana-wallet-kit/internal/solana"
	"solana-wallet-kit/internal/storage"
	"solana-wallet-kit/internal/walleterr"
)

// NetworkFeeEstimate is the lamport fee reserved for a single-signature transaction.
const NetworkFeeEstimate uint64 = 5000

// Request describes one transfer. Sender signs and must own From.
type Request struct {
	Endpoint string
	Sender   solanago.PrivateKey
	From     string
	To       string
	Asset    asset.Asset
	Amount   uint64 // raw units
}

// Builder executes transfers against the endpoint named in each request.
type Builder struct {
	Clients solana.ClientFactory
	Confirm solana.Confirmer

	// Records, when set, journals every submission. Journal failures are logged only.
	Records storage.TransferRecordStore

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewBuilder creates a Builder that confirms by polling.
func NewBuilder(clients solana.ClientFactory) *Builder {
	if clients == nil {
		clients = solana.DefaultClientFactory()
	}
	return &Builder{
		Clients: clients,
		Confirm: solana.NewPollConfirmer(),
		Now:     time.Now,
	}
}

// Transfer moves req.Amount of req.Asset and returns the transfer signature.
func (b *Builder) Transfer(ctx context.Context, req Request) (string, error) {
	if req.Asset.IsNative() {
		return b.TransferNative(ctx, req)
	}
	return b.TransferToken(ctx, req)
}

// TransferNative sends lamports with a single system transfer instruction.
func (b *Builder) TransferNative(ctx context.Context, req Request) (string, error) {
	const op = "transfer_native"

	from, to, err := parseParties(op, req)
	if err != nil {
		return "", err
	}
	client := b.Clients(req.Endpoint)

	balance, err := client.GetBalance(ctx, req.From)
	if err != nil {
		return "", walleterr.Connection(op, fmt.Errorf("get balance of %s: %w", req.From, err))
	}
	if req.Amount > math.MaxUint64-NetworkFeeEstimate || balance < req.Amount+NetworkFeeEstimate {
		logging.Transfer.Info().
			Str("from", req.From).
			Uint64("amount", req.Amount).
			Uint64("balance", balance).
			Msg("Insufficient funds for native transfer")
		return "", walleterr.InsufficientFunds(op, req.From, req.Amount, balance)
	}

	ix := system.NewTransferInstruction(req.Amount, from, to).Build()

	return b.submit(ctx, client, submission{
		op:           op,
		endpoint:     req.Endpoint,
		kind:         domain.TransferKindNative,
		payer:        from,
		signers:      []solanago.PrivateKey{req.Sender},
		instructions: []solanago.Instruction{ix},
		record: domain.TransferRecord{
			From:   req.From,
			To:     req.To,
			Symbol: req.Asset.Symbol(),
			Amount: req.Amount,
		},
	})
}

// parseParties checks the sender key and both wallet addresses locally.
// The sender must be an on-curve key matching req.Sender. An off-curve recipient
// is accepted with a warning: it can only be spent by its program.
func parseParties(op string, req Request) (from, to solanago.PublicKey, err error) {
	from, err = solanago.PublicKeyFromBase58(req.From)
	if err != nil {
		return from, to, walleterr.InvalidAddress(op, req.From, err)
	}
	to, err = solanago.PublicKeyFromBase58(req.To)
	if err != nil {
		return from, to, walleterr.InvalidAddress(op, req.To, err)
	}
	if !keys.IsOnCurve(from) {
		return from, to, walleterr.InvalidAddress(op, req.From, fmt.Errorf("sender is not an ed25519 key"))
	}
	if len(req.Sender) != 64 || !req.Sender.PublicKey().Equals(from) {
		return from, to, walleterr.InvalidAddress(op, req.From, fmt.Errorf("signing key does not own sender address"))
	}
	if !keys.IsOnCurve(to) {
		logging.Transfer.Warn().Str("to", req.To).Msg("Recipient is off-curve (program-derived address)")
	}
	return from, to, nil
}
