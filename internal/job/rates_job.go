package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type RatesRefresher interface {
	RefreshRates(ctx context.Context) error
}

// RateRefreshJob keeps the exchange-rate table fresh: one refresh at startup,
// then one per interval. The job is owned by the caller's context, so a host
// application stops it during shutdown instead of leaking a timer.
type RateRefreshJob struct {
	tracer    trace.Tracer
	refresher RatesRefresher
	interval  time.Duration
}

func NewRateRefreshJob(tracer trace.Tracer, refresher RatesRefresher, interval time.Duration) *RateRefreshJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RateRefreshJob{tracer: tracer, refresher: refresher, interval: interval}
}

// Start blocks until ctx is cancelled.
func (j *RateRefreshJob) Start(ctx context.Context) {
	if j.refresher == nil {
		log.Println("Rate refresh job disabled: no refresher")
		<-ctx.Done()
		return
	}

	j.runOnce(ctx)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Rate refresh job stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *RateRefreshJob) runOnce(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "rate-refresh-job.run-once")
	defer span.End()

	if err := j.refresher.RefreshRates(ctx); err != nil {
		log.Printf("rate refresh error: %v", err)
	}
}
