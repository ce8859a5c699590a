package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"

	"tickerhub/internal/domain"
)

type MarketWarmer interface {
	MarketData(ctx context.Context, limit int) []domain.Asset
}

// MarketWarmJob pre-fills the market-data cache so the first request after a
// TTL expiry does not pay the upstream latency. A non-positive interval means
// the warmer is disabled.
type MarketWarmJob struct {
	tracer   trace.Tracer
	warmer   MarketWarmer
	interval time.Duration
	limit    int
}

func NewMarketWarmJob(tracer trace.Tracer, warmer MarketWarmer, interval time.Duration, limit int) *MarketWarmJob {
	if limit <= 0 {
		limit = 100
	}
	return &MarketWarmJob{tracer: tracer, warmer: warmer, interval: interval, limit: limit}
}

// Start blocks until ctx is cancelled.
func (j *MarketWarmJob) Start(ctx context.Context) {
	if j.warmer == nil || j.interval <= 0 {
		log.Println("Market warm job disabled")
		<-ctx.Done()
		return
	}

	j.runOnce(ctx)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Market warm job stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *MarketWarmJob) runOnce(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "market-warm-job.run-once")
	defer span.End()

	assets := j.warmer.MarketData(ctx, j.limit)
	if len(assets) == 0 {
		log.Println("market warm run returned no assets")
		return
	}
	log.Printf("Warmed market cache with %d assets", len(assets))
}
