package bitmex

import (
	"context"
	"time"

	"bmxfeed/internal/application/port"
)

// Feed adapts a subscription to the application MarketFeed port.
type Feed struct {
	network Network
	creds   *Credentials
	timeout time.Duration
}

func NewFeed(network Network, timeout time.Duration) *Feed {
	return &Feed{network: network, timeout: timeout}
}

// NewAuthenticatedFeed is NewFeed plus credentials for privileged topics.
func NewAuthenticatedFeed(network Network, creds Credentials, timeout time.Duration) *Feed {
	return &Feed{network: network, creds: &creds, timeout: timeout}
}

func (f *Feed) Name() string { return "bitmex" }

func (f *Feed) Subscribe(ctx context.Context, topics []string) <-chan port.Frame {
	var results <-chan Result
	if f.creds != nil {
		results = SubscribeWithCredentials(ctx, topics, f.network, *f.creds, f.timeout)
	} else {
		results = Subscribe(ctx, topics, f.network, f.timeout)
	}

	out := make(chan port.Frame)
	go func() {
		defer close(out)
		for r := range results {
			fr := port.Frame{Payload: r.Text, Err: r.Err, Ts: time.Now().UnixMilli()}
			select {
			case out <- fr:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

var _ port.MarketFeed = (*Feed)(nil)
