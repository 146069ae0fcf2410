package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"bmxfeed/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS frames (
  id BIGSERIAL PRIMARY KEY,
  table_name TEXT NOT NULL,
  payload TEXT NOT NULL,
  ts_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_frames_ts ON frames(ts_ms);
CREATE INDEX IF NOT EXISTS idx_frames_table ON frames(table_name);
`)
	return err
}

func (r *Repo) RecordFrame(ctx context.Context, table, payload string, ts int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO frames(table_name, payload, ts_ms) VALUES($1, $2, $3)`,
		table, payload, ts)
	return err
}

var _ port.Recorder = (*Repo)(nil)
