package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solana-wallet-kit/internal/logging"
	"solana-wallet-kit/internal/observability"
)

// Confirmation defaults.
const (
	DefaultConfirmTimeout  = 60 * time.Second
	DefaultConfirmInterval = 500 * time.Millisecond
)

var (
	// ErrTransactionFailed is returned when a transaction landed with an error status.
	ErrTransactionFailed = errors.New("transaction failed")
	// ErrConfirmationTimeout is returned when the commitment was not reached in time.
	ErrConfirmationTimeout = errors.New("confirmation timeout")
)

// Confirmer waits until a submitted signature reaches a commitment.
type Confirmer interface {
	Confirm(ctx context.Context, client RPCClient, endpoint, signature string) error
}

// PollConfirmer polls getSignatureStatuses.
type PollConfirmer struct {
	Commitment string
	Interval   time.Duration
	Timeout    time.Duration
}

// NewPollConfirmer returns a poller with default interval and timeout.
func NewPollConfirmer() *PollConfirmer {
	return &PollConfirmer{
		Commitment: CommitmentConfirmed,
		Interval:   DefaultConfirmInterval,
		Timeout:    DefaultConfirmTimeout,
	}
}

// Confirm implements Confirmer.
func (p *PollConfirmer) Confirm(ctx context.Context, client RPCClient, _ string, signature string) error {
	start := time.Now()
	err := AwaitConfirmation(ctx, client, signature, p.Commitment, p.Interval, p.Timeout)
	if err == nil {
		observability.RecordConfirmation("poll", time.Since(start).Seconds())
	}
	return err
}

// AwaitConfirmation polls until signature reaches commitment, fails on chain, or timeout elapses.
// Transport errors from individual polls are returned immediately.
func AwaitConfirmation(ctx context.Context, client RPCClient, signature, commitment string, interval, timeout time.Duration) error {
	if interval <= 0 {
		interval = DefaultConfirmInterval
	}
	if timeout <= 0 {
		timeout = DefaultConfirmTimeout
	}
	if commitment == "" {
		commitment = CommitmentConfirmed
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		statuses, err := client.GetSignatureStatuses(ctx, signature)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("get signature status: %w", err)
		}
		if len(statuses) > 0 {
			if done, err := checkStatus(statuses[0], commitment); done {
				return err
			}
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
			continue
		}
		break
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	logging.RPC.Warn().Str("signature", signature).Dur("timeout", timeout).Msg("Confirmation timed out")
	return fmt.Errorf("%w: %s not %s after %s", ErrConfirmationTimeout, signature, commitment, timeout)
}

func checkStatus(status *SignatureStatus, commitment string) (bool, error) {
	if status == nil {
		return false, nil
	}
	if status.Err != nil {
		return true, fmt.Errorf("%w: %v", ErrTransactionFailed, status.Err)
	}
	return status.Reached(commitment), nil
}
