package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/valentinpelus/feedbox/pkg/kv"
	"github.com/valentinpelus/feedbox/pkg/types"
)

// DefaultSlotKey is the storage key the collection lives under
const DefaultSlotKey = "feedbackData"

// ErrNothingToExport is returned by Export when no feedback is stored
var ErrNothingToExport = errors.New("no feedback to export")

// ParseError reports a stored blob that could not be decoded
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed feedback data in slot %s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Store persists the feedback collection as one JSON array in a single slot
type Store struct {
	storage kv.Storage
	key     string
	log     *zap.SugaredLogger
	mu      sync.Mutex
}

// Option configures a Store
type Option func(*Store)

// WithSlotKey overrides the storage key
func WithSlotKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for fail-open warnings
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore creates a feedback store on top of storage
func NewStore(storage kv.Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     DefaultSlotKey,
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the slot key
func (s *Store) Key() string {
	return s.key
}

// Load reads and decodes the stored collection. An absent or blank slot is an
// empty collection; undecodable data is a *ParseError.
func (s *Store) Load(ctx context.Context) (types.Collection, error) {
	data, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return types.Collection{}, nil
	}
	if err != nil {
		return types.Collection{}, fmt.Errorf("failed to read feedback: %w", err)
	}
	return ParseCollection(s.key, data)
}

// LoadAll returns the stored collection, or an empty one on any failure
func (s *Store) LoadAll(ctx context.Context) types.Collection {
	records, err := s.Load(ctx)
	if err != nil {
		s.log.Warnw("Treating feedback data as empty", "key", s.key, "error", err)
		return types.Collection{}
	}
	return records
}

// Append adds record to the end of the stored collection
func (s *Store) Append(ctx context.Context, record types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.Load(ctx)
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		s.log.Warnw("Replacing malformed feedback data", "key", s.key, "error", parseErr.Err)
		records = types.Collection{}
	} else if err != nil {
		return err
	}

	records = append(records, record)

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}

	s.log.Debugw("Recorded feedback", "rating", int(record.Rating), "total", len(records))
	return nil
}

// Clear removes the slot entirely
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear feedback: %w", err)
	}
	s.log.Infow("Cleared all feedback data", "key", s.key)
	return nil
}

// Export renders the stored collection as a CSV file named for now.
// It declines with ErrNothingToExport rather than producing a header-only file.
func (s *Store) Export(ctx context.Context, now time.Time) (string, []byte, error) {
	records := s.LoadAll(ctx)
	if len(records) == 0 {
		return "", nil, ErrNothingToExport
	}
	return ExportFilename(now), []byte(ToCSV(records)), nil
}

// ParseCollection decodes a stored blob. Blank input is an empty collection.
func ParseCollection(key string, data []byte) (types.Collection, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return types.Collection{}, nil
	}

	var records types.Collection
	if err := json.Unmarshal(data, &records); err != nil {
		return types.Collection{}, &ParseError{Key: key, Err: err}
	}
	if records == nil {
		records = types.Collection{}
	}
	return records, nil
}
