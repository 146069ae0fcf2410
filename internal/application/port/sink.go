package port

import "time"

// Sink renders frames for a human watching the stream.
type Sink interface {
	WriteFrame(ts time.Time, table, payload string) error
}
