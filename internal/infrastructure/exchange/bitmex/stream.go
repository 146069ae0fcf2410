package bitmex

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	pingInterval     = 5 * time.Second
	silenceThreshold = 20 * time.Second
	writeWait        = 5 * time.Second
	authExpiresIn    = 5 * time.Second
)

// ErrTimeout ends a stream that saw no inbound frame for silenceThreshold.
var ErrTimeout = errors.New("bitmex websocket timed out")

// pingPayload is the fixed keep-alive payload (32 zero bytes).
var pingPayload = make([]byte, 32)

// Result is one item of a subscription: either the raw text of a data frame
// or a terminal error. After an item with Err != nil the channel is closed.
type Result struct {
	Text string
	Err  error
}

// Subscribe connects to the BitMex realtime API, subscribes to the given
// topics and yields every text frame verbatim on the returned channel.
//
// The connection is retried with backoff until it is established once; after
// that a lost connection ends the stream. Cancelling ctx abandons the stream,
// closes the connection and releases all background work. The channel is
// unbuffered, so a slow consumer throttles reading.
func Subscribe(ctx context.Context, topics []string, network Network, timeout time.Duration) <-chan Result {
	return newSubscriber(topics, network, nil, timeout).start(ctx)
}

// SubscribeWithCredentials is Subscribe plus an authentication handshake
// before the subscribe command, for topics that need it. Rejected credentials
// surface only through server behavior (closed connection or missing data),
// never as an immediate error.
func SubscribeWithCredentials(ctx context.Context, topics []string, network Network, creds Credentials, timeout time.Duration) <-chan Result {
	return newSubscriber(topics, network, &creds, timeout).start(ctx)
}

type ticker interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

type realTicker struct{ *time.Ticker }

func (t realTicker) C() <-chan time.Time { return t.Ticker.C }

type subscriber struct {
	topics  []string
	network Network
	creds   *Credentials
	timeout time.Duration

	// injectable for tests
	dial      dialFunc
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
	newTicker func(d time.Duration) ticker
}

func newSubscriber(topics []string, network Network, creds *Credentials, timeout time.Duration) *subscriber {
	return &subscriber{
		topics:  topics,
		network: network,
		creds:   creds,
		timeout: timeout,
		dial:    gorillaDial,
		now:     time.Now,
		sleep:   sleepContext,
		newTicker: func(d time.Duration) ticker {
			return realTicker{time.NewTicker(d)}
		},
	}
}

func (s *subscriber) start(ctx context.Context) <-chan Result {
	out := make(chan Result)
	go s.run(ctx, out)
	return out
}

type frameKind int

const (
	frameText frameKind = iota
	frameControl
	frameEOF
	frameErr
)

type frame struct {
	kind frameKind
	data []byte
	err  error
}

func (s *subscriber) run(ctx context.Context, out chan<- Result) {
	defer close(out)

	url := s.network.URL()
	log.Debug().Str("network", s.network.String()).Msg("connecting to bitmex realtime api")

	c, err := s.connect(ctx, url)
	if err != nil {
		// only caller cancellation gets here
		return
	}
	defer c.Close()

	log.Info().
		Str("network", s.network.String()).
		Int("topics", len(s.topics)).
		Bool("authenticated", s.creds != nil).
		Msg("connected to bitmex realtime api")

	s.initSession(c)

	done := make(chan struct{})
	defer close(done)
	frames := make(chan frame)
	go readFrames(c, frames, done)

	tick := s.newTicker(pingInterval)
	defer tick.Stop()

	lastInbound := s.now()
	for {
		select {
		case <-ctx.Done():
			return

		case <-tick.C():
			if s.now().Sub(lastInbound) >= silenceThreshold {
				s.emit(ctx, out, Result{Err: ErrTimeout})
				return
			}
			log.Trace().Msg("no message from bitmex recently, pinging")
			if err := c.WriteControl(websocket.PingMessage, pingPayload, s.now().Add(writeWait)); err != nil {
				s.emit(ctx, out, Result{Err: err})
				return
			}

		case f := <-frames:
			lastInbound = s.now()
			// push the next ping out to a full quiet interval, so a busy
			// stream is never pinged at all
			tick.Reset(pingInterval)
			switch f.kind {
			case frameText:
				if !s.emit(ctx, out, Result{Text: string(f.data)}) {
					return
				}
			case frameControl:
				// keep-alive traffic, nothing to surface
			case frameEOF:
				return
			case frameErr:
				s.emit(ctx, out, Result{Err: f.err})
				return
			}
		}
	}
}

// initSession sends the optional auth command followed by the subscribe
// command. Both sends are best-effort: the server acknowledges or rejects
// asynchronously, so a local write failure is logged and the stream carries on.
func (s *subscriber) initSession(c conn) {
	if s.creds != nil {
		expires := s.now().Add(authExpiresIn).Unix()
		sig := s.creds.sign("GET", realtimePath, "", expires, "")
		if err := writeCommand(c, authenticateCommand(sig)); err != nil {
			log.Warn().Err(err).Msg("bitmex auth command send failed")
		}
	}
	if err := writeCommand(c, subscribeCommand(s.topics)); err != nil {
		log.Warn().Err(err).Msg("bitmex subscribe command send failed")
	}
}

func writeCommand(c conn, cmd command) error {
	b, err := cmd.encode()
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, b)
}

// readFrames pulls inbound frames one at a time and hands them to the main
// loop. The unbuffered channel means at most one frame is in flight: the next
// read happens only after the previous frame was taken, so backpressure
// reaches the socket. Pings and pongs are funneled through the same channel so
// the idle measurement is only ever touched inside the loop.
func readFrames(c conn, frames chan<- frame, done <-chan struct{}) {
	push := func(f frame) bool {
		select {
		case frames <- f:
			return true
		case <-done:
			return false
		}
	}

	c.SetPongHandler(func(string) error {
		push(frame{kind: frameControl})
		return nil
	})
	c.SetPingHandler(func(appData string) error {
		push(frame{kind: frameControl})
		return c.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
	})

	for {
		mt, data, err := c.ReadMessage()
		if err != nil {
			if isCleanClose(err) {
				push(frame{kind: frameEOF})
			} else {
				push(frame{kind: frameErr, err: err})
			}
			return
		}

		f := frame{kind: frameControl}
		if mt == websocket.TextMessage {
			f = frame{kind: frameText, data: data}
		}
		if !push(f) {
			return
		}
	}
}

func isCleanClose(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}

func (s *subscriber) emit(ctx context.Context, out chan<- Result, r Result) bool {
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}
