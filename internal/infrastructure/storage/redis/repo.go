package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"bmxfeed/internal/application/port"
)

type Repo struct {
	rdb         *redis.Client
	prefix      string
	ttl         time.Duration
	keyLatest   string // prefix + ":latest"
	frameStream string
}

func New(rdb *redis.Client, prefix string, ttl time.Duration, frameStream string) *Repo {
	if strings.TrimSpace(frameStream) == "" {
		frameStream = prefix + ":frames"
	}
	return &Repo{
		rdb:         rdb,
		prefix:      prefix,
		ttl:         ttl,
		keyLatest:   prefix + ":latest",
		frameStream: frameStream,
	}
}

func (r *Repo) RecordFrame(ctx context.Context, table, payload string, ts int64) error {
	// 1) Stream: XADD <stream> * table payload ts_ms
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.frameStream,
		Values: map[string]any{
			"table":   table,
			"payload": payload,
			"ts_ms":   ts,
		},
	}).Result()
	if err != nil {
		return err
	}

	// 2) Hash: field = table -> latest payload, for quick inspection
	if table == "" {
		return nil
	}
	field := fmt.Sprintf("%s:%s", r.prefix, table)
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, r.keyLatest, field, payload)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Repo) Close() error { return r.rdb.Close() }

var _ port.Recorder = (*Repo)(nil)
