package domain

// TransferKind classifies a submitted transaction.
type TransferKind string

// Transfer kinds
const (
	TransferKindNative        TransferKind = "native_transfer"
	TransferKindAccountCreate TransferKind = "token_account_create"
	TransferKindToken         TransferKind = "token_transfer"
	TransferKindPrebuilt      TransferKind = "prebuilt"
)

// TransferStatus is the lifecycle state of a submission.
type TransferStatus string

// Transfer statuses
const (
	TransferStatusSubmitted TransferStatus = "submitted"
	TransferStatusConfirmed TransferStatus = "confirmed"
	TransferStatusFailed    TransferStatus = "failed"
)

// TransferRecord is one journal entry for a submitted transaction.
// The journal is append-only: every status change is a new record.
type TransferRecord struct {
	RecordID  string // deterministic hash of (signature, status)
	Signature string
	Kind      TransferKind
	Status    TransferStatus

	From   string // sender wallet
	To     string // recipient wallet or holding account
	Mint   string // empty for native transfers
	Symbol string
	Amount uint64 // raw units

	Error       string // remote or confirmation error, empty on success
	TimestampMs int64
}

// IsTerminal reports whether the record closes the submission.
func (r *TransferRecord) IsTerminal() bool {
	return r.Status == TransferStatusConfirmed || r.Status == TransferStatusFailed
}
