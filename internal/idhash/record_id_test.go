package idhash

import (
	"testing"

	"solana-wallet-kit/internal/domain"
)

func TestComputeTransferRecordID(t *testing.T) {
	sig := "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"

	submitted := ComputeTransferRecordID(sig, domain.TransferStatusSubmitted)
	confirmed := ComputeTransferRecordID(sig, domain.TransferStatusConfirmed)

	if len(submitted) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(submitted))
	}
	if submitted == confirmed {
		t.Error("different statuses must produce different IDs")
	}
	if again := ComputeTransferRecordID(sig, domain.TransferStatusSubmitted); again != submitted {
		t.Errorf("not deterministic: %s != %s", again, submitted)
	}
}

func TestComputeSnapshotID(t *testing.T) {
	a := ComputeSnapshotID("acct", "mint", 1000)
	b := ComputeSnapshotID("acct", "mint", 1001)
	c := ComputeSnapshotID("acct", "mint", 1000)

	if a == b {
		t.Error("different timestamps must produce different IDs")
	}
	if a != c {
		t.Error("same input must produce same ID")
	}
}
