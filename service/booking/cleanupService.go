package booking

import (
	"context"
	"time"
)

// Cleaner cancels pending bookings whose pickup date has passed
// without the host ever confirming them.
type Cleaner interface {
	ExpireStale(ctx context.Context) (int64, error)
}

type cleaner struct {
	r   Repo
	now func() time.Time
}

func NewCleaner(r Repo) Cleaner { return &cleaner{r: r, now: time.Now} }

func (c *cleaner) ExpireStale(ctx context.Context) (int64, error) {
	return c.r.ExpireStalePending(ctx, c.now().UTC())
}
