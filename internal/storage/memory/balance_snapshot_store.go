package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-kit/internal/domain"
	"solana-wallet-kit/internal/idhash"
	"solana-wallet-kit/internal/storage"
)

// BalanceSnapshotStore is an in-memory implementation of storage.BalanceSnapshotStore.
type BalanceSnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BalanceSnapshot // keyed by snapshot id
}

// NewBalanceSnapshotStore creates a new in-memory snapshot store.
func NewBalanceSnapshotStore() *BalanceSnapshotStore {
	return &BalanceSnapshotStore{
		data: make(map[string]*domain.BalanceSnapshot),
	}
}

// Compile-time interface check.
var _ storage.BalanceSnapshotStore = (*BalanceSnapshotStore)(nil)

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *BalanceSnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.BalanceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(snapshots))
	for _, snap := range snapshots {
		if err := storage.ValidateSnapshot(snap); err != nil {
			return err
		}
		id := idhash.ComputeSnapshotID(snap.Account, snap.Mint, snap.TimestampMs)
		if _, exists := s.data[id]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[id]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[id] = struct{}{}
	}

	for _, snap := range snapshots {
		copy := *snap
		s.data[idhash.ComputeSnapshotID(snap.Account, snap.Mint, snap.TimestampMs)] = &copy
	}
	return nil
}

// GetByAccount retrieves all snapshots for an account, ordered by timestamp ASC.
func (s *BalanceSnapshotStore) GetByAccount(_ context.Context, account string) ([]*domain.BalanceSnapshot, error) {
	return s.filter(func(snap *domain.BalanceSnapshot) bool {
		return snap.Account == account
	}), nil
}

// GetByTimeRange retrieves snapshots for an account and mint within [start, end] (inclusive).
func (s *BalanceSnapshotStore) GetByTimeRange(_ context.Context, account, mint string, start, end int64) ([]*domain.BalanceSnapshot, error) {
	return s.filter(func(snap *domain.BalanceSnapshot) bool {
		return snap.Account == account && snap.Mint == mint &&
			snap.TimestampMs >= start && snap.TimestampMs <= end
	}), nil
}

func (s *BalanceSnapshotStore) filter(keep func(*domain.BalanceSnapshot) bool) []*domain.BalanceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BalanceSnapshot
	for _, snap := range s.data {
		if keep(snap) {
			copy := *snap
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TimestampMs != result[j].TimestampMs {
			return result[i].TimestampMs < result[j].TimestampMs
		}
		return result[i].Mint < result[j].Mint
	})
	return result
}
