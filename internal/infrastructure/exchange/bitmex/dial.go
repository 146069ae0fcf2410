package bitmex

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	initialRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 8 * time.Second
)

// conn is the slice of *websocket.Conn the stream needs. Tests substitute a
// scripted fake.
type conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetPongHandler(h func(appData string) error)
	SetPingHandler(h func(appData string) error)
	Close() error
}

type dialFunc func(ctx context.Context, url string) (conn, error)

func gorillaDial(ctx context.Context, url string) (conn, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// backoff carries the next retry delay: 500ms doubling up to 8s, no attempt
// limit.
type backoff struct {
	next time.Duration
	max  time.Duration
}

func newBackoff() *backoff {
	return &backoff{next: initialRetryDelay, max: maxRetryDelay}
}

func (b *backoff) delay() time.Duration {
	d := b.next
	b.next *= 2
	if b.next > b.max {
		b.next = b.max
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// connect dials the realtime endpoint until a handshake succeeds. Timeouts and
// handshake failures are both retried; only caller cancellation gives up.
func (s *subscriber) connect(ctx context.Context, url string) (conn, error) {
	bo := newBackoff()
	for {
		dctx, cancel := context.WithTimeout(ctx, s.timeout)
		c, err := s.dial(dctx, url)
		cancel()
		if err == nil {
			return c, nil
		}

		d := bo.delay()
		log.Warn().Err(err).
			Str("url", url).
			Dur("retry_in", d).
			Msg("bitmex connect failed")

		if err := s.sleep(ctx, d); err != nil {
			return nil, err
		}
	}
}
