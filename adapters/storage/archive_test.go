package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glazeworks/adapters/order"
	"glazeworks/core/pricing"
	"glazeworks/core/quote"
	"glazeworks/internal/errors"
)

func priceOrder(t *testing.T, src string) *order.Priced {
	t.Helper()
	items, err := order.NewParser().Parse([]byte(src), "order.hcl")
	require.NoError(t, err)
	priced, err := order.NewPricer(quote.NewComposer(pricing.DefaultCatalog()), 2).Price(context.Background(), items)
	require.NoError(t, err)
	return priced
}

const smallOrder = `
item "celadon" {
  format = "dry"
  grams  = 500
}
`

const largeOrder = `
item "celadon" {
  format = "dry"
  grams  = 1000
}

item "tenmoku" {
  format = "wet"
  size   = "pint"
}
`

func stores(t *testing.T) map[string]Store {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "archive"))
	require.NoError(t, err)
	db, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return map[string]Store{
		"file":   fs,
		"memory": NewMemoryStore(),
		"sqlite": db,
	}
}

func TestStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			rec := NewRecord("small.hcl", priceOrder(t, smallOrder))
			require.NoError(t, s.Save(ctx, rec))
			require.NotEmpty(t, rec.ID)
			assert.False(t, rec.CreatedAt.IsZero())

			got, err := s.Get(ctx, rec.ID)
			require.NoError(t, err)
			assert.Equal(t, "small.hcl", got.Label)
			assert.Equal(t, "30.42", got.Total.StringFixed(2))
			assert.Equal(t, 1, got.ItemCount)
			assert.Equal(t, pricing.DefaultCatalog().Fingerprint(), got.Rates)
			require.NotNil(t, got.Order)
			assert.Equal(t, "celadon", got.Order.Lines[0].Label)

			require.NoError(t, s.Delete(ctx, rec.ID))
			_, err = s.Get(ctx, rec.ID)
			assert.True(t, errors.IsType(err, errors.TypeNotFound))
			assert.True(t, errors.IsType(s.Delete(ctx, rec.ID), errors.TypeNotFound))
		})
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i, label := range []string{"a.hcl", "b.hcl", "c.hcl"} {
				rec := NewRecord(label, priceOrder(t, smallOrder))
				rec.CreatedAt = base.Add(time.Duration(i) * time.Hour)
				require.NoError(t, s.Save(ctx, rec))
			}

			all, err := s.List(ctx, nil)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "c.hcl", all[0].Label)
			assert.Equal(t, "a.hcl", all[2].Label)

			recent, err := s.List(ctx, &ListFilter{Since: base.Add(30 * time.Minute), Limit: 1})
			require.NoError(t, err)
			require.Len(t, recent, 1)
			assert.Equal(t, "c.hcl", recent[0].Label)

			one, err := s.List(ctx, &ListFilter{Label: "b.hcl"})
			require.NoError(t, err)
			require.Len(t, one, 1)

			none, err := s.List(ctx, &ListFilter{Rates: "0000000000000000"})
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStore_ReturnsIndependentCopies(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			rec := NewRecord("small.hcl", priceOrder(t, smallOrder))
			require.NoError(t, s.Save(ctx, rec))

			rec.Order.Lines[0].Label = "edited after save"
			rec.Order.Totals.Total = decimal.NewFromInt(1)

			got, err := s.Get(ctx, rec.ID)
			require.NoError(t, err)
			assert.Equal(t, "celadon", got.Order.Lines[0].Label)
			assert.Equal(t, "30.42", got.Order.Totals.Total.StringFixed(2))

			got.Order.Lines[0].Label = "edited after get"
			listed, err := s.List(ctx, nil)
			require.NoError(t, err)
			require.Len(t, listed, 1)
			assert.Equal(t, "celadon", listed[0].Order.Lines[0].Label)
		})
	}
}

func TestCompare(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	small := NewRecord("small.hcl", priceOrder(t, smallOrder))
	large := NewRecord("large.hcl", priceOrder(t, largeOrder))
	require.NoError(t, s.Save(ctx, small))
	require.NoError(t, s.Save(ctx, large))

	cmp, err := Compare(ctx, s, small.ID, large.ID)
	require.NoError(t, err)
	// 21.43 + 8.99 against 41.57 + 25.00 + 8.99.
	assert.True(t, decimal.RequireFromString("45.14").Equal(cmp.Delta), "delta %s", cmp.Delta)
	assert.True(t, cmp.SameRates)

	_, err = Compare(ctx, s, small.ID, "missing")
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestFileStore_RejectsPathLikeIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "../etc/passwd")
	assert.True(t, errors.IsType(err, errors.TypeNotFound))

	err = s.Save(context.Background(), &Record{ID: "not-a-uuid"})
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestFileStore_SkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600))

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	records, err := s.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStoreFactory(t *testing.T) {
	s, err := StoreFactory(BackendMemory, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = StoreFactory(BackendFile, map[string]string{"path": t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	dir := filepath.Join(t.TempDir(), "orders")
	s, err = StoreFactory(BackendSQLite, map[string]string{"path": dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	assert.FileExists(t, filepath.Join(dir, "archive.db"))
	require.NoError(t, s.Close())

	_, err = StoreFactory(BackendFile, nil)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	_, err = StoreFactory("s3", nil)
	assert.Error(t, err)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Save(ctx, &Record{}), context.Canceled)
			_, err := s.List(ctx, nil)
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "archive.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	rec := NewRecord("large.hcl", priceOrder(t, largeOrder))
	require.NoError(t, s.Save(ctx, rec))
	require.NoError(t, s.Close())

	// Migrations are applied once; reopening keeps the data.
	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ItemCount)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, "75.56", got.Total.StringFixed(2))
}
