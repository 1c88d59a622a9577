package booking

import (
	"fmt"
	"sync/atomic"
	"time"
)

// IDGenerator issues BK<unix-millis>-<sequence> ids. The sequence keeps ids
// unique when several bookings land in the same millisecond.
type IDGenerator struct {
	seq atomic.Uint64
	now func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

func (g *IDGenerator) Next() string {
	n := g.seq.Add(1)
	return fmt.Sprintf("BK%d-%d", g.now().UnixMilli(), n)
}

var processIDs = NewIDGenerator(time.Now)
