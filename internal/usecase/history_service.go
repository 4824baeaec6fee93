package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ecoscan/backend/internal/domain"
	"go.uber.org/zap"
)

// HistoryService persists scanned products in a single named storage slot
// holding a JSON array, read and written wholesale. Appends are serialized
// with a mutex because the backend has no transactional primitive: a write
// must observe the result of the immediately preceding write.
type HistoryService struct {
	backend domain.StorageBackend
	slot    string
	logger  *zap.Logger
	mutex   sync.Mutex
}

// NewHistoryService creates a history service over the given backend. slot
// names the storage slot ("scanHistory" by default, from config).
func NewHistoryService(backend domain.StorageBackend, slot string, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		backend: backend,
		slot:    slot,
		logger:  logger,
	}
}

// Append adds a record to the end of the stored history. Repeated scans of
// the same barcode each append a new entry. The whole collection is
// rewritten, so cost is O(n) per append. Failures come back wrapped in
// domain.ErrPersistence; callers log them and move on, a failed append never
// fails the scan that produced the record.
func (s *HistoryService) Append(ctx context.Context, record *domain.ProductRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	records = append(records, *record)

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode history: %v", domain.ErrPersistence, err)
	}
	if err := s.backend.Set(ctx, s.slot, data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Load returns the stored history in scan order, with records lacking a
// product name filtered out. The filter is a read-time projection only;
// invalid entries stay in storage. A missing, corrupt, or unreadable slot
// degrades to an empty history; the failure is logged, never propagated.
func (s *HistoryService) Load(ctx context.Context) []domain.ProductRecord {
	s.mutex.Lock()
	records, err := s.read(ctx)
	s.mutex.Unlock()
	if err != nil {
		s.logger.Warn("history load failed, treating as empty",
			zap.String("slot", s.slot),
			zap.Error(err))
		return []domain.ProductRecord{}
	}

	valid := make([]domain.ProductRecord, 0, len(records))
	for _, record := range records {
		if record.Valid() {
			valid = append(valid, record)
		}
	}
	return valid
}

// read loads and decodes the slot. A slot that was never written is an empty
// history, not an error.
func (s *HistoryService) read(ctx context.Context) ([]domain.ProductRecord, error) {
	data, err := s.backend.Get(ctx, s.slot)
	if err != nil {
		if errors.Is(err, domain.ErrSlotNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var records []domain.ProductRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode history slot: %w", err)
	}
	return records, nil
}
