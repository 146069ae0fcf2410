package composite

import (
	"context"

	"bmxfeed/internal/application/port"
)

type Repo struct {
	repos []port.Recorder
}

func New(repos ...port.Recorder) *Repo {
	// nil repos are allowed; filter in constructor for safety
	out := make([]port.Recorder, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

func (r *Repo) RecordFrame(ctx context.Context, table, payload string, ts int64) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.RecordFrame(ctx, table, payload, ts); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Close() error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.Recorder = (*Repo)(nil)
