package port

import "context"

// Frame is one item from a market data subscription.
type Frame struct {
	Payload string // raw text frame, passed through verbatim
	Err     error  // terminal error; the channel closes after delivery
	Ts      int64  // unix ms receive time
}

// MarketFeed yields a single subscription as a channel of frames. The channel
// closes on any terminal condition; cancelling ctx abandons the stream and
// releases the connection.
type MarketFeed interface {
	Name() string
	Subscribe(ctx context.Context, topics []string) <-chan Frame
}
