package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"glazeworks/adapters/order"
	"glazeworks/internal/errors"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLiteStore keeps the archive in a single SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at path, applies pending migrations and
// validates connectivity. ":memory:" gives a private in-memory archive.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection keeps the pragmas and an in-memory database shared.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return err
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}
	return nil
}

// sqlitePath resolves the archive location. A path without an extension is
// treated as a directory holding archive.db.
func sqlitePath(path string) (string, error) {
	switch path {
	case "":
		return "", errors.New(errors.TypeConfig, "sqlite archive needs a path")
	case ":memory:":
		return path, nil
	}
	dir := filepath.Dir(path)
	if filepath.Ext(path) == "" {
		dir, path = path, filepath.Join(path, "archive.db")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.TypeConfig, "create archive directory", err)
	}
	return path, nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prepare(rec)

	body, err := json.Marshal(rec.Order)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO archived_orders (id, label, created_at, rates, total, item_count, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Label, rec.CreatedAt.UnixNano(), rec.Rates, rec.Total.String(), rec.ItemCount, string(body),
	)
	if err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

const selectRecord = `SELECT id, label, created_at, rates, total, item_count, body FROM archived_orders`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec     Record
		created int64
		total   string
		body    string
	)
	if err := row.Scan(&rec.ID, &rec.Label, &created, &rec.Rates, &total, &rec.ItemCount, &body); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(0, created).UTC()

	var err error
	if rec.Total, err = decimal.NewFromString(total); err != nil {
		return nil, errors.Parsing("archived order "+rec.ID+" total", err)
	}
	rec.Order = &order.Priced{}
	if err := json.Unmarshal([]byte(body), rec.Order); err != nil {
		return nil, errors.Parsing("archived order "+rec.ID, err)
	}
	return &rec, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectRecord+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("archived order", id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context, filter *ListFilter) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter != nil {
		if filter.Label != "" {
			where = append(where, "label = ?")
			args = append(args, filter.Label)
		}
		if filter.Rates != "" {
			where = append(where, "rates = ?")
			args = append(args, filter.Rates)
		}
		if !filter.Since.IsZero() {
			where = append(where, "created_at >= ?")
			args = append(args, filter.Since.UnixNano())
		}
	}

	query := selectRecord
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM archived_orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFound("archived order", id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

