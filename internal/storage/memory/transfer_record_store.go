package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-kit/internal/domain"
	"solana-wallet-kit/internal/storage"
)

// TransferRecordStore is an in-memory implementation of storage.TransferRecordStore.
type TransferRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TransferRecord // keyed by record_id
}

// NewTransferRecordStore creates a new in-memory transfer journal.
func NewTransferRecordStore() *TransferRecordStore {
	return &TransferRecordStore{
		data: make(map[string]*domain.TransferRecord),
	}
}

// Compile-time interface check.
var _ storage.TransferRecordStore = (*TransferRecordStore)(nil)

// Insert adds a journal entry. Returns ErrDuplicateKey if record_id exists.
func (s *TransferRecordStore) Insert(_ context.Context, r *domain.TransferRecord) error {
	if err := storage.ValidateRecord(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RecordID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.RecordID] = &copy
	return nil
}

// GetBySignature retrieves all entries for a signature, ordered by timestamp ASC.
func (s *TransferRecordStore) GetBySignature(_ context.Context, signature string) ([]*domain.TransferRecord, error) {
	return s.filter(func(r *domain.TransferRecord) bool {
		return r.Signature == signature
	}), nil
}

// GetByAccount retrieves entries sent from or to account, ordered by timestamp ASC.
func (s *TransferRecordStore) GetByAccount(_ context.Context, account string) ([]*domain.TransferRecord, error) {
	return s.filter(func(r *domain.TransferRecord) bool {
		return r.From == account || r.To == account
	}), nil
}

// All returns every entry, ordered by timestamp ASC.
func (s *TransferRecordStore) All() []*domain.TransferRecord {
	return s.filter(func(*domain.TransferRecord) bool { return true })
}

func (s *TransferRecordStore) filter(keep func(*domain.TransferRecord) bool) []*domain.TransferRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TransferRecord
	for _, r := range s.data {
		if keep(r) {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TimestampMs != result[j].TimestampMs {
			return result[i].TimestampMs < result[j].TimestampMs
		}
		return result[i].RecordID < result[j].RecordID
	})
	return result
}
