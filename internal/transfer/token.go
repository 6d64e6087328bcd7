package transfer

import (
	"context"
	"errors"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"

	"solana-wallet-kit/internal/domain"
	"solana-wallet-kit/internal/logging"
	"solana-wallet-kit/internal/solana"
	"solana-wallet-kit/internal/walleterr"
)

var errMintNotFound = errors.New("mint account not found")

// TransferToken moves SPL tokens between the first holding accounts of sender and
// recipient. A missing recipient account is created and confirmed in its own
// transaction before the transfer is built, so a later retry only transfers.
func (b *Builder) TransferToken(ctx context.Context, req Request) (string, error) {
	const op = "transfer_token"

	from, to, err := parseParties(op, req)
	if err != nil {
		return "", err
	}
	mintAddr := req.Asset.Address()
	mint, err := solanago.PublicKeyFromBase58(mintAddr)
	if err != nil {
		return "", walleterr.InvalidAddress(op, mintAddr, err)
	}
	client := b.Clients(req.Endpoint)

	source, err := findHolding(ctx, client, op, req.From, mintAddr)
	if err != nil {
		return "", err
	}

	destination, err := findHolding(ctx, client, op, req.To, mintAddr)
	if errors.Is(err, walleterr.ErrTokenAccountNotFound) {
		destination, err = b.createHolding(ctx, client, req, from, to, mint)
	}
	if err != nil {
		return "", err
	}

	have, err := holdingAmount(ctx, client, op, source)
	if err != nil {
		return "", err
	}
	if have < req.Amount {
		logging.Transfer.Info().
			Str("from", req.From).
			Str("symbol", req.Asset.Symbol()).
			Uint64("amount", req.Amount).
			Uint64("balance", have).
			Msg("Insufficient funds for token transfer")
		return "", walleterr.InsufficientFunds(op, req.From, req.Amount, have)
	}

	ix := token.NewTransferInstruction(req.Amount, source, destination, from, nil).Build()

	return b.submit(ctx, client, submission{
		op:           op,
		endpoint:     req.Endpoint,
		kind:         domain.TransferKindToken,
		payer:        from,
		signers:      []solanago.PrivateKey{req.Sender},
		instructions: []solanago.Instruction{ix},
		record: domain.TransferRecord{
			From:   req.From,
			To:     destination.String(),
			Mint:   mintAddr,
			Symbol: req.Asset.Symbol(),
			Amount: req.Amount,
		},
	})
}

// findHolding returns the first token-program account owner holds for mint.
func findHolding(ctx context.Context, client solana.RPCClient, op, owner, mint string) (solanago.PublicKey, error) {
	accounts, err := client.GetTokenAccountsByOwner(ctx, owner, mint)
	if err != nil {
		return solanago.PublicKey{}, walleterr.Connection(op, fmt.Errorf("get token accounts of %s: %w", owner, err))
	}
	for _, ta := range accounts {
		if ta.Program != solana.TokenProgramID || ta.Mint != mint {
			continue
		}
		pk, err := solanago.PublicKeyFromBase58(ta.Address)
		if err != nil {
			return solanago.PublicKey{}, walleterr.InvalidAddress(op, ta.Address, err)
		}
		return pk, nil
	}
	return solanago.PublicKey{}, walleterr.TokenAccountNotFound(op, owner, nil)
}

// holdingAmount reads the raw amount stored in a token account.
func holdingAmount(ctx context.Context, client solana.RPCClient, op string, account solanago.PublicKey) (uint64, error) {
	info, err := client.GetAccountInfo(ctx, account.String())
	if err != nil {
		return 0, walleterr.Connection(op, fmt.Errorf("get account %s: %w", account, err))
	}
	if info == nil {
		return 0, walleterr.TokenAccountNotFound(op, account.String(), nil)
	}
	ta, err := solana.ParseTokenAccount(info.Data)
	if err != nil {
		return 0, walleterr.Transaction(op, fmt.Errorf("unpack token account %s: %w", account, err))
	}
	return ta.Amount, nil
}

// createHolding allocates and initializes a fresh token account for the recipient,
// funded by the sender, and waits for it to confirm.
func (b *Builder) createHolding(ctx context.Context, client solana.RPCClient, req Request, from, to, mint solanago.PublicKey) (solanago.PublicKey, error) {
	const op = "create_token_account"

	info, err := client.GetAccountInfo(ctx, mint.String())
	if err != nil {
		return solanago.PublicKey{}, walleterr.Connection(op, fmt.Errorf("get mint %s: %w", mint, err))
	}
	if info == nil {
		return solanago.PublicKey{}, walleterr.InvalidAddress(op, mint.String(), errMintNotFound)
	}
	if _, err := solana.ParseMintDecimals(info.Data); err != nil {
		return solanago.PublicKey{}, walleterr.Transaction(op, fmt.Errorf("unpack mint %s: %w", mint, err))
	}

	rent, err := client.GetMinimumBalanceForRentExemption(ctx, solana.TokenAccountSize)
	if err != nil {
		return solanago.PublicKey{}, walleterr.Connection(op, fmt.Errorf("get rent exemption: %w", err))
	}

	account, err := solanago.NewRandomPrivateKey()
	if err != nil {
		return solanago.PublicKey{}, walleterr.Transaction(op, fmt.Errorf("generate account key: %w", err))
	}
	holding := account.PublicKey()

	create := system.NewCreateAccountInstruction(rent, solana.TokenAccountSize, solanago.TokenProgramID, from, holding).Build()
	initialize := token.NewInitializeAccountInstruction(holding, mint, to, solanago.SysVarRentPubkey).Build()

	logging.Transfer.Info().
		Str("owner", req.To).
		Str("mint", mint.String()).
		Str("account", holding.String()).
		Uint64("rent", rent).
		Msg("Creating recipient token account")

	_, err = b.submit(ctx, client, submission{
		op:           op,
		endpoint:     req.Endpoint,
		kind:         domain.TransferKindAccountCreate,
		payer:        from,
		signers:      []solanago.PrivateKey{req.Sender, account},
		instructions: []solanago.Instruction{create, initialize},
		record: domain.TransferRecord{
			From:   req.From,
			To:     holding.String(),
			Mint:   mint.String(),
			Symbol: req.Asset.Symbol(),
			Amount: rent,
		},
	})
	if err != nil {
		return solanago.PublicKey{}, err
	}
	return holding, nil
}
