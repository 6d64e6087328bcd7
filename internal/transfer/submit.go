package transfer

import (
	"context"
	"fmt"
	"time"

	solanago "github.com/gagliardetto/solana-go"

	"solana-wallet-kit/internal/domain"
	"solana-wallet-kit/internal/idhash"
	"solana-wallet-kit/internal/logging"
	"solana-wallet-kit/internal/observability"
	"solana-wallet-kit/internal/solana"
	"solana-wallet-kit/internal/walleterr"
)

type submission struct {
	op           string
	endpoint     string
	kind         domain.TransferKind
	payer        solanago.PublicKey
	signers      []solanago.PrivateKey
	instructions []solanago.Instruction
	record       domain.TransferRecord
}

// submit fetches a blockhash, signs, sends and confirms. sendTransaction is never retried.
func (b *Builder) submit(ctx context.Context, client solana.RPCClient, s submission) (string, error) {
	latest, err := client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", walleterr.Connection(s.op, fmt.Errorf("get latest blockhash: %w", err))
	}
	hash, err := solanago.HashFromBase58(latest.Hash)
	if err != nil {
		return "", walleterr.Connection(s.op, fmt.Errorf("parse blockhash %q: %w", latest.Hash, err))
	}

	tx, err := solanago.NewTransaction(s.instructions, hash, solanago.TransactionPayer(s.payer))
	if err != nil {
		return "", walleterr.Transaction(s.op, fmt.Errorf("build transaction: %w", err))
	}
	if err := sign(tx, s.signers...); err != nil {
		return "", walleterr.Transaction(s.op, err)
	}

	return b.send(ctx, client, tx, s)
}

// SubmitPrebuilt signs a transaction assembled elsewhere (a swap payload),
// submits it and waits for confirmation.
func (b *Builder) SubmitPrebuilt(ctx context.Context, endpoint string, signer solanago.PrivateKey, encoded string) (string, error) {
	const op = "submit_prebuilt"

	tx, err := solana.DecodeTransaction(encoded)
	if err != nil {
		return "", walleterr.Transaction(op, err)
	}
	if len(signer) != 64 {
		return "", walleterr.InvalidAddress(op, "", fmt.Errorf("signing key must be 64 bytes"))
	}
	if err := sign(tx, signer); err != nil {
		return "", walleterr.Transaction(op, err)
	}

	return b.send(ctx, b.Clients(endpoint), tx, submission{
		op:       op,
		endpoint: endpoint,
		kind:     domain.TransferKindPrebuilt,
		record:   domain.TransferRecord{From: signer.PublicKey().String()},
	})
}

// sign places a signature for every signer key into its slot of the message's
// required signers. Slots of absent keys keep their current value.
func sign(tx *solanago.Transaction, signers ...solanago.PrivateKey) error {
	payload, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	if required > len(tx.Message.AccountKeys) {
		return fmt.Errorf("message requires %d signatures but has %d keys", required, len(tx.Message.AccountKeys))
	}
	for len(tx.Signatures) < required {
		tx.Signatures = append(tx.Signatures, solanago.Signature{})
	}

	for _, signer := range signers {
		pub := signer.PublicKey()
		slot := -1
		for i := 0; i < required; i++ {
			if tx.Message.AccountKeys[i].Equals(pub) {
				slot = i
				break
			}
		}
		if slot < 0 {
			return fmt.Errorf("%s is not a required signer", pub)
		}
		sig, err := signer.Sign(payload)
		if err != nil {
			return fmt.Errorf("sign with %s: %w", pub, err)
		}
		tx.Signatures[slot] = sig
	}
	return nil
}

// send submits a signed transaction, journals it and confirms it.
func (b *Builder) send(ctx context.Context, client solana.RPCClient, tx *solanago.Transaction, s submission) (string, error) {
	encoded, err := solana.EncodeTransaction(tx)
	if err != nil {
		return "", walleterr.Transaction(s.op, err)
	}

	signature, err := client.SendTransaction(ctx, encoded)
	if err != nil {
		observability.RecordTransferError(string(s.kind))
		// Transport failures stay non-retryable: the transaction may have landed.
		msg := "Transaction send failed"
		if solana.IsRPCError(err) {
			msg = "Transaction rejected"
		}
		logging.Transfer.Warn().Err(err).Str("op", s.op).Str("from", s.record.From).Msg(msg)
		return "", walleterr.Transaction(s.op, fmt.Errorf("send transaction: %w", err))
	}
	observability.RecordTransferSubmitted(string(s.kind))
	b.journal(ctx, s, signature, domain.TransferStatusSubmitted, nil)

	logging.Transfer.Info().
		Str("op", s.op).
		Str("signature", signature).
		Str("from", s.record.From).
		Str("to", s.record.To).
		Str("symbol", s.record.Symbol).
		Uint64("amount", s.record.Amount).
		Msg("Transaction submitted")

	if err := b.confirmer().Confirm(ctx, client, s.endpoint, signature); err != nil {
		observability.RecordTransferError(string(s.kind))
		b.journal(ctx, s, signature, domain.TransferStatusFailed, err)
		return "", walleterr.Transaction(s.op, fmt.Errorf("signature %s: %w", signature, err))
	}
	b.journal(ctx, s, signature, domain.TransferStatusConfirmed, nil)

	logging.Transfer.Debug().Str("signature", signature).Msg("Transaction confirmed")
	return signature, nil
}

// journal appends one record. The journal never changes the outcome of a transfer.
func (b *Builder) journal(ctx context.Context, s submission, signature string, status domain.TransferStatus, cause error) {
	if b.Records == nil {
		return
	}
	rec := s.record
	rec.RecordID = idhash.ComputeTransferRecordID(signature, status)
	rec.Signature = signature
	rec.Kind = s.kind
	rec.Status = status
	rec.TimestampMs = b.now().UnixMilli()
	if cause != nil {
		rec.Error = cause.Error()
	}
	if err := b.Records.Insert(ctx, &rec); err != nil {
		logging.Transfer.Warn().Err(err).Str("signature", signature).Str("status", string(status)).Msg("Transfer journal insert failed")
	}
}

func (b *Builder) confirmer() solana.Confirmer {
	if b.Confirm == nil {
		return solana.NewPollConfirmer()
	}
	return b.Confirm
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}
