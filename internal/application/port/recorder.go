package port

import "context"

// Recorder persists raw frames.
type Recorder interface {
	// RecordFrame stores one frame. table is the channel tag extracted from
	// the payload ("" when absent); the payload itself stays opaque.
	RecordFrame(ctx context.Context, table, payload string, ts int64) error

	Close() error
}
