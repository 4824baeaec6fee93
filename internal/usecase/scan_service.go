package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ecoscan/backend/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// SessionState is the observable state of one assessment session. A session
// is created when a barcode arrives and ends in one of the three terminal
// states; a new scan starts a new session.
type SessionState string

const (
	// StateIdle is the pre-trigger state: no barcode has arrived yet.
	StateIdle     SessionState = "idle"
	StateFetching SessionState = "fetching"
	StateReady    SessionState = "ready"
	StateNotFound SessionState = "not_found"
	StateFailed   SessionState = "failed"
)

// ScanSession is the unit of work for one scanned barcode: the fetched
// record, the computed assessment, and the terminal state the presentation
// layer renders from. Err keeps the underlying cause for diagnostics; it is
// never serialized to clients.
type ScanSession struct {
	ID         string                `json:"id"`
	Barcode    string                `json:"barcode"`
	Symbology  string                `json:"symbology,omitempty"`
	State      SessionState          `json:"state"`
	Record     *domain.ProductRecord `json:"record,omitempty"`
	Assessment *Assessment           `json:"assessment,omitempty"`
	Err        error                 `json:"-"`
	StartedAt  time.Time             `json:"startedAt"`
	FinishedAt time.Time             `json:"finishedAt"`
}

// ScanServiceConfig holds configuration for the scan service.
type ScanServiceConfig struct {
	// DebounceWindow coalesces rapid re-triggers of the same barcode into a
	// single lookup. Zero disables debouncing.
	DebounceWindow time.Duration
}

// ScanService orchestrates one scan: barcode in, product fetched, record
// appended to history as a fire-and-forget side effect, session out.
type ScanService struct {
	fetcher domain.ProductFetcher
	history domain.HistoryRepository
	logger  *zap.Logger
	window  time.Duration

	group   singleflight.Group
	mutex   sync.Mutex
	recent  map[string]*recentScan
	appends sync.WaitGroup
}

// recentScan tracks the debounce gate and last terminal session per barcode.
type recentScan struct {
	limiter *rate.Limiter
	session *ScanSession
	seenAt  time.Time
}

// NewScanService creates a scan service with dependencies.
func NewScanService(
	fetcher domain.ProductFetcher,
	history domain.HistoryRepository,
	config ScanServiceConfig,
	logger *zap.Logger,
) *ScanService {
	return &ScanService{
		fetcher: fetcher,
		history: history,
		logger:  logger,
		window:  config.DebounceWindow,
		recent:  make(map[string]*recentScan),
	}
}

// Scan runs one assessment session for a decoded barcode. The symbology is
// carried through untouched. An empty barcode aborts with
// domain.ErrInvalidBarcode before any I/O.
//
// Rapid re-triggers of the same barcode inside the debounce window return
// the window's terminal session without a new lookup; concurrent triggers
// coalesce onto a single in-flight fetch and all receive its result.
func (s *ScanService) Scan(ctx context.Context, barcode, symbology string) (*ScanSession, error) {
	// Scanners occasionally emit surrounding whitespace with the payload.
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.ErrInvalidBarcode
	}

	if s.window > 0 {
		if last := s.debounce(barcode); last != nil {
			return last, nil
		}
	}

	v, _, _ := s.group.Do(barcode, func() (interface{}, error) {
		return s.run(ctx, barcode, symbology), nil
	})
	session := v.(*ScanSession)

	if s.window > 0 {
		s.remember(barcode, session)
	}
	return session, nil
}

// Wait blocks until all background history appends have finished. Used on
// shutdown and in tests; the presentation path never waits on appends.
func (s *ScanService) Wait() {
	s.appends.Wait()
}

// run executes the fetch and classifies the outcome into a terminal state.
func (s *ScanService) run(ctx context.Context, barcode, symbology string) *ScanSession {
	session := &ScanSession{
		ID:        uuid.NewString(),
		Barcode:   barcode,
		Symbology: symbology,
		State:     StateFetching,
		StartedAt: time.Now().UTC(),
	}

	record, err := s.fetcher.FetchProduct(ctx, barcode)
	switch {
	case err == nil:
		record.Symbology = symbology
		session.Record = record
		session.Assessment = BuildAssessment(record)
		session.State = StateReady
		// Sequenced after the fetch, raced with rendering: the append is
		// not awaited and its failure never leaves the ready state.
		s.appendInBackground(record)
	case errors.Is(err, domain.ErrProductNotFound):
		session.State = StateNotFound
		session.Err = err
	default:
		session.State = StateFailed
		session.Err = err
		s.logger.Warn("scan fetch failed",
			zap.String("session_id", session.ID),
			zap.String("barcode", barcode),
			zap.Error(err))
	}

	session.FinishedAt = time.Now().UTC()
	return session
}

// appendInBackground persists the record without blocking the caller.
// Persistence failure is logged and swallowed; the history simply does not
// gain the entry.
func (s *ScanService) appendInBackground(record *domain.ProductRecord) {
	s.appends.Add(1)
	go func() {
		defer s.appends.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.history.Append(ctx, record); err != nil {
			s.logger.Warn("history append failed",
				zap.String("barcode", record.Barcode),
				zap.Error(err))
		}
	}()
}

// debounce consumes the per-barcode window token. It returns the previous
// terminal session when the window is still closed and one exists; a nil
// return means the caller should fetch (or join the in-flight fetch).
func (s *ScanService) debounce(barcode string) *ScanSession {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.pruneLocked()

	entry, ok := s.recent[barcode]
	if !ok {
		entry = &recentScan{limiter: rate.NewLimiter(rate.Every(s.window), 1)}
		s.recent[barcode] = entry
	}
	entry.seenAt = time.Now()

	if entry.limiter.Allow() {
		return nil
	}
	return entry.session
}

// remember stores the window's terminal session so debounced re-triggers can
// return it.
func (s *ScanService) remember(barcode string, session *ScanSession) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if entry, ok := s.recent[barcode]; ok {
		entry.session = session
	}
}

// pruneLocked drops barcodes not seen for several windows so the debounce
// map does not grow with every distinct product ever scanned.
func (s *ScanService) pruneLocked() {
	cutoff := time.Now().Add(-10 * s.window)
	for barcode, entry := range s.recent {
		if entry.seenAt.Before(cutoff) {
			delete(s.recent, barcode)
		}
	}
}
