package service

import (
	"context"
	"time"

	"github.com/buger/jsonparser"
	"github.com/rs/zerolog/log"

	"bmxfeed/internal/application/port"
)

// RecorderService drains one market data subscription and fans every frame out
// to the recorder and the console sink. The payload is stored verbatim; only
// the "table" field is peeked at for tagging.
type RecorderService struct {
	feed   port.MarketFeed
	topics []string
	repo   port.Recorder
	sink   port.Sink
}

type RecorderDeps struct {
	Feed   port.MarketFeed
	Topics []string
	Repo   port.Recorder
	Sink   port.Sink
}

func NewRecorderService(deps RecorderDeps) *RecorderService {
	return &RecorderService{
		feed:   deps.Feed,
		topics: deps.Topics,
		repo:   deps.Repo,
		sink:   deps.Sink,
	}
}

// Run blocks until the stream ends. A clean remote close returns nil; a
// terminal stream error is returned to the caller. The stream is never
// restarted here, a fresh Run means a fresh subscription.
func (s *RecorderService) Run(ctx context.Context) error {
	frames := s.feed.Subscribe(ctx, s.topics)

	var recorded int64
	for f := range frames {
		if f.Err != nil {
			log.Error().Err(f.Err).
				Str("feed", s.feed.Name()).
				Int64("recorded", recorded).
				Msg("stream ended with error")
			return f.Err
		}

		table := frameTable(f.Payload)
		if err := s.repo.RecordFrame(ctx, table, f.Payload, f.Ts); err != nil {
			log.Error().Err(err).Str("table", table).Msg("record frame failed")
		} else {
			recorded++
		}

		if s.sink != nil {
			_ = s.sink.WriteFrame(time.UnixMilli(f.Ts), table, f.Payload)
		}
	}

	log.Info().
		Str("feed", s.feed.Name()).
		Int64("recorded", recorded).
		Msg("stream ended")
	return nil
}

// frameTable extracts the "table" tag from a raw frame without unmarshalling
// the whole payload. Command acks and welcome banners have no table field.
func frameTable(payload string) string {
	table, err := jsonparser.GetString([]byte(payload), "table")
	if err != nil {
		return ""
	}
	return table
}
