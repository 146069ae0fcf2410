package console

import (
	"fmt"
	"time"

	"bmxfeed/internal/application/port"
)

type Sink struct{}

func NewSink() port.Sink { return &Sink{} }

func (s *Sink) WriteFrame(ts time.Time, table, payload string) error {
	if table == "" {
		fmt.Printf("%s %s\n", ts.Format("2006-01-02 15:04:05.000"), payload)
		return nil
	}
	fmt.Printf("%s [%s] %s\n", ts.Format("2006-01-02 15:04:05.000"), table, payload)
	return nil
}
