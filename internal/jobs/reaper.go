package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ExpiredDeleter removes verification rows whose expiry passed more than
// grace ago and reports how many went.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, grace time.Duration) (int64, error)
}

// Reaper periodically clears stale verification rows. Expired codes are
// already invisible to lookups; this only keeps the table from growing.
type Reaper struct {
	cron  *cron.Cron
	store ExpiredDeleter
	grace time.Duration
}

func NewReaper(store ExpiredDeleter, grace time.Duration) *Reaper {
	return &Reaper{cron: cron.New(), store: store, grace: grace}
}

func (r *Reaper) Start(interval time.Duration) error {
	_, err := r.cron.AddFunc("@every "+interval.String(), r.run)
	if err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop halts scheduling and waits for an in-flight run to finish.
func (r *Reaper) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Reaper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := r.store.DeleteExpired(ctx, r.grace)
	if err != nil {
		slog.Error("verification reaper failed", "err", err)
		return
	}
	if n > 0 {
		slog.Info("reaped expired verification records", "deleted", n)
	}
}
