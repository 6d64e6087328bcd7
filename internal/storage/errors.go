package storage

import (
	"errors"
	"fmt"

	"solana-wallet-kit/internal/domain"
)

// Journal and snapshot stores never update rows in place.
var (
	// ErrNotFound means no journal entry exists for the signature.
	ErrNotFound = errors.New("storage: record not found")

	// ErrDuplicateKey means the record or snapshot key is already stored.
	ErrDuplicateKey = errors.New("storage: key already recorded")

	// ErrInvalidInput means a record is missing its key fields.
	ErrInvalidInput = errors.New("storage: invalid record")
)

// ValidateRecord checks the fields a journal entry is keyed by.
func ValidateRecord(r *domain.TransferRecord) error {
	switch {
	case r == nil:
		return invalid("record")
	case r.RecordID == "":
		return invalid("record_id")
	case r.Signature == "":
		return invalid("signature")
	}
	return nil
}

// ValidateSnapshot checks the fields a balance snapshot is keyed by.
func ValidateSnapshot(s *domain.BalanceSnapshot) error {
	switch {
	case s == nil:
		return invalid("snapshot")
	case s.Account == "":
		return invalid("account")
	case s.Mint == "":
		return invalid("mint")
	}
	return nil
}

func invalid(field string) error {
	return fmt.Errorf("%w: missing %s", ErrInvalidInput, field)
}
