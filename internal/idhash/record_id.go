package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"solana-wallet-kit/internal/domain"
)

// ComputeTransferRecordID computes a deterministic record_id using SHA256.
// Formula: SHA256(signature|status)
// Returns hex-encoded hash (64 characters).
func ComputeTransferRecordID(signature string, status domain.TransferStatus) string {
	data := fmt.Sprintf("%s|%s", signature, string(status))
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeSnapshotID computes a deterministic snapshot key.
// Formula: SHA256(account|mint|timestamp_ms)
func ComputeSnapshotID(account, mint string, timestampMs int64) string {
	data := fmt.Sprintf("%s|%s|%d", account, mint, timestampMs)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
