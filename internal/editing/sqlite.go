package editing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const editingSchema = `
CREATE TABLE IF NOT EXISTS editing_data (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS editing_data_expires_idx ON editing_data (expires_at);
`

// SQLiteStore persists editing snapshots in a local SQLite file so preview
// sessions survive a portal restart.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open editing store: %w", err)
	}
	// A single connection keeps concurrent writers from tripping SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(editingSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init editing schema: %w", err)
	}

	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, data *Data) error {
	if err := data.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode editing data: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO editing_data (key, payload, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at`,
		data.Key, string(payload), s.now().Add(s.ttl).Unix())
	if err != nil {
		return fmt.Errorf("store editing data %q: %w", data.Key, err)
	}

	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (*Data, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM editing_data WHERE key = ? AND expires_at > ?`,
		key, s.now().Unix()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDataNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load editing data %q: %w", key, err)
	}

	var data Data
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("decode editing data %q: %w", key, err)
	}

	return &data, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM editing_data WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete editing data %q: %w", key, err)
	}

	return nil
}

func (s *SQLiteStore) Prune(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM editing_data WHERE expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune editing data: %w", err)
	}

	pruned, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(pruned), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
