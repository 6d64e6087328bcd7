// Package walleterr defines the error taxonomy shared by balance queries and transfers.
package walleterr

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match with errors.Is.
var (
	// ErrInvalidAddress is returned when an address fails to parse. Never retried.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrConnection is returned when an RPC call fails. Safe to retry with backoff.
	ErrConnection = errors.New("connection error")

	// ErrInsufficientFunds is returned when the balance cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTokenAccountNotFound is returned when a required holding account is absent.
	ErrTokenAccountNotFound = errors.New("token account not found")

	// ErrTransaction is returned when the network rejects a transaction.
	ErrTransaction = errors.New("transaction error")
)

// Error carries the failing operation and the offending address or amount.
type Error struct {
	Op      string // operation, e.g. "transfer_native"
	Kind    error  // one of the sentinel kinds above
	Address string // offending address, if any
	Amount  uint64 // requested raw amount, if relevant
	Have    uint64 // available raw amount, for insufficient funds
	Err     error  // underlying cause, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Address != "" {
		fmt.Fprintf(&b, " (%s)", e.Address)
	}
	if errors.Is(e.Kind, ErrInsufficientFunds) {
		fmt.Fprintf(&b, ": need %d, have %d", e.Amount, e.Have)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// InvalidAddress builds an ErrInvalidAddress error.
func InvalidAddress(op, address string, cause error) error {
	return &Error{Op: op, Kind: ErrInvalidAddress, Address: address, Err: cause}
}

// Connection builds an ErrConnection error.
func Connection(op string, cause error) error {
	return &Error{Op: op, Kind: ErrConnection, Err: cause}
}

// InsufficientFunds builds an ErrInsufficientFunds error.
func InsufficientFunds(op, address string, need, have uint64) error {
	return &Error{Op: op, Kind: ErrInsufficientFunds, Address: address, Amount: need, Have: have}
}

// TokenAccountNotFound builds an ErrTokenAccountNotFound error.
func TokenAccountNotFound(op, owner string, cause error) error {
	return &Error{Op: op, Kind: ErrTokenAccountNotFound, Address: owner, Err: cause}
}

// Transaction builds an ErrTransaction error.
func Transaction(op string, cause error) error {
	return &Error{Op: op, Kind: ErrTransaction, Err: cause}
}

// KindOf returns the sentinel kind of err, or nil when err is not classified.
func KindOf(err error) error {
	for _, k := range []error{ErrInvalidAddress, ErrConnection, ErrInsufficientFunds, ErrTokenAccountNotFound, ErrTransaction} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Retryable reports whether the caller may retry the operation.
func Retryable(err error) bool {
	return errors.Is(err, ErrConnection)
}
