package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-pos/internal/domain/repository"
)

// writeClock entrega marcadores de orden de escritura estrictamente crecientes dentro de una tx.
// Parte del mayor Timestamp persistido, así el orden sobrevive reinicios y relojes que retroceden.
type writeClock struct {
	last int64
	now  func() time.Time
}

func newWriteClock(ctx context.Context, movRepo repository.MovementRepository, now func() time.Time) (*writeClock, error) {
	last, err := movRepo.MaxTimestamp(ctx)
	if err != nil {
		return nil, err
	}
	return &writeClock{last: last, now: now}, nil
}

func (c *writeClock) next() int64 {
	ts := c.now().UnixMicro()
	if ts <= c.last {
		ts = c.last + 1
	}
	c.last = ts
	return ts
}
