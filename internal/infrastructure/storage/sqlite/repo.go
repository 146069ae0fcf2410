package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"bmxfeed/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) GetDB() *sql.DB {
	return r.db
}

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS frames (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  table_name TEXT NOT NULL,
  payload TEXT NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_frames_ts ON frames(ts_ms);
CREATE INDEX IF NOT EXISTS idx_frames_table ON frames(table_name);
`)
	return err
}

func (r *Repo) RecordFrame(ctx context.Context, table, payload string, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO frames(table_name, payload, ts_ms, created_at)
		VALUES(?, ?, ?, ?)
	`, table, payload, ts, time.Now().UnixMilli())
	return err
}

// CountFrames reports how many frames are stored for a table ("" counts all).
func (r *Repo) CountFrames(ctx context.Context, table string) (int64, error) {
	var n int64
	var err error
	if table == "" {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM frames`).Scan(&n)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM frames WHERE table_name=?`, table).Scan(&n)
	}
	return n, err
}

var _ port.Recorder = (*Repo)(nil)
