// Package storage archives priced orders so a quote can be looked up, listed
// and compared after it was given.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"glazeworks/adapters/order"
	"glazeworks/core/quote"
	"glazeworks/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
)

// Store is the archive interface
type Store interface {
	// Save stores a record, assigning an ID and timestamp if missing
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID
	Get(ctx context.Context, id string) (*Record, error)

	// List lists records, newest first
	List(ctx context.Context, filter *ListFilter) ([]*Record, error)

	// Delete removes a record
	Delete(ctx context.Context, id string) error

	// Close closes the store
	Close() error
}

// Record is one archived order
type Record struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`

	// Rates is the fingerprint of the rate table the order was priced with
	Rates string `json:"rates"`

	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`

	Order *order.Priced `json:"order"`
}

// NewRecord wraps a priced order for archiving.
func NewRecord(label string, priced *order.Priced) *Record {
	return &Record{
		Label:     label,
		Rates:     priced.Rates,
		Total:     priced.Totals.Total,
		ItemCount: priced.Totals.ItemCount,
		Order:     priced,
	}
}

// ListFilter filters record listing
type ListFilter struct {
	Label string
	Rates string
	Since time.Time
	Limit int
}

func (f *ListFilter) match(rec *Record) bool {
	if f == nil {
		return true
	}
	if f.Label != "" && rec.Label != f.Label {
		return false
	}
	if f.Rates != "" && rec.Rates != f.Rates {
		return false
	}
	if !f.Since.IsZero() && rec.CreatedAt.Before(f.Since) {
		return false
	}
	return true
}

// CompareResult is a comparison between two archived orders
type CompareResult struct {
	OldID    string          `json:"old_id"`
	NewID    string          `json:"new_id"`
	OldTotal decimal.Decimal `json:"old_total"`
	NewTotal decimal.Decimal `json:"new_total"`
	Delta    decimal.Decimal `json:"delta"`

	// SameRates is set when both orders were priced from the same table
	SameRates bool `json:"same_rates"`
}

// Compare loads two records and reports how their totals differ.
func Compare(ctx context.Context, s Store, oldID, newID string) (*CompareResult, error) {
	oldRec, err := s.Get(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newRec, err := s.Get(ctx, newID)
	if err != nil {
		return nil, err
	}
	return &CompareResult{
		OldID:     oldID,
		NewID:     newID,
		OldTotal:  oldRec.Total,
		NewTotal:  newRec.Total,
		Delta:     newRec.Total.Sub(oldRec.Total),
		SameRates: oldRec.Rates == newRec.Rates,
	}, nil
}

func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

func finish(records []*Record, filter *ListFilter) []*Record {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if filter != nil && filter.Limit > 0 && filter.Limit < len(records) {
		records = records[:filter.Limit]
	}
	return records
}

// FileStore keeps one JSON file per record in a directory
type FileStore struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStore creates a file store
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "create archive directory", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// path maps an ID to its file. IDs that are not UUIDs have no file.
func (s *FileStore) path(id string) (string, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return filepath.Join(s.basePath, id+".json"), true
}

func (s *FileStore) Save(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(rec)
	path, ok := s.path(rec.ID)
	if !ok {
		return errors.Inputf("record id must be a UUID, got %q", rec.ID)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, ok := s.path(id)
	if !ok {
		return nil, errors.NotFound("archived order", id)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NotFound("archived order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Parsing("archived order "+id, err)
	}
	return &rec, nil
}

func (s *FileStore) List(ctx context.Context, filter *ListFilter) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	var records []*Record
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		if filter.match(&rec) {
			records = append(records, &rec)
		}
	}
	return finish(records, filter), nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path, ok := s.path(id)
	if !ok {
		return errors.NotFound("archived order", id)
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound("archived order", id)
		}
		return err
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

// cloneRecord copies rec and the order it carries, so callers never share
// line items with the store.
func cloneRecord(rec *Record) *Record {
	cp := *rec
	if rec.Order != nil {
		o := *rec.Order
		o.Lines = append([]quote.LineItem(nil), rec.Order.Lines...)
		cp.Order = &o
	}
	return &cp
}

// MemoryStore is an in-memory store for tests and one-off runs
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates a memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
	}
}

func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(rec)
	s.records[rec.ID] = cloneRecord(rec)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, errors.NotFound("archived order", id)
	}
	return cloneRecord(rec), nil
}

func (s *MemoryStore) List(ctx context.Context, filter *ListFilter) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*Record
	for _, rec := range s.records {
		if filter.match(rec) {
			records = append(records, cloneRecord(rec))
		}
	}
	return finish(records, filter), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return errors.NotFound("archived order", id)
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// StoreFactory creates a store. The file and sqlite backends read their
// location from config["path"].
func StoreFactory(backend Backend, config map[string]string) (Store, error) {
	switch backend {
	case BackendFile:
		path := config["path"]
		if path == "" {
			return nil, errors.New(errors.TypeConfig, "file archive needs a path")
		}
		fs, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case BackendSQLite:
		path, err := sqlitePath(config["path"])
		if err != nil {
			return nil, err
		}
		db, err := OpenSQLite(context.Background(), path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendMemory, "":
		return NewMemoryStore(), nil
	}
	return nil, errors.Newf(errors.TypeConfig, "unsupported archive backend %q", backend)
}
