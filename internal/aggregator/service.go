package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"tickerhub/internal/cache"
	"tickerhub/internal/domain"
	"tickerhub/internal/provider"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

type MarketSource interface {
	Name() string
	FetchAssets(ctx context.Context, limit int) ([]domain.Asset, error)
}

type NewsSource interface {
	Name() string
	FetchNews(ctx context.Context, limit int) ([]domain.NewsItem, error)
}

type SentimentSource interface {
	Platform() string
	FetchSentiment(ctx context.Context, symbol string) (*domain.SentimentSample, error)
}

type FearGreedReader interface {
	FetchLatest(ctx context.Context) (*domain.FearGreed, error)
}

type OnChainReader interface {
	FetchMetrics(ctx context.Context, symbol string) (*domain.OnChainMetrics, error)
}

type RateFetcher interface {
	FetchRates(ctx context.Context) (map[string]float64, error)
}

type Config struct {
	MarketTTL time.Duration
	NewsTTL   time.Duration
}

// limitTiers bounds the cache key space: the raw limit argument is
// normalized to the smallest tier that covers it, so the cache holds at
// most one entry per tier instead of one per distinct limit.
var limitTiers = []int{10, 25, 50, 100, 250}

// Service presents a single provider-agnostic interface over independently
// fallible upstream APIs. Every fetch operation degrades per source: a
// failing provider contributes nothing, and only total failure produces an
// empty (or default) result. Errors never cross the aggregate boundary.
type Service struct {
	tracer   trace.Tracer
	store    cache.Store
	registry *provider.Registry

	markets   []MarketSource
	news      []NewsSource
	sentiment []SentimentSource
	fearGreed FearGreedReader
	onchain   OnChainReader
	rateSrc   RateFetcher

	rates *RateTable
	group singleflight.Group
	cfg   Config
}

func NewService(
	tracer trace.Tracer,
	store cache.Store,
	registry *provider.Registry,
	markets []MarketSource,
	news []NewsSource,
	sentiment []SentimentSource,
	fearGreed FearGreedReader,
	onchain OnChainReader,
	rateSrc RateFetcher,
	cfg Config,
) *Service {
	if cfg.MarketTTL <= 0 {
		cfg.MarketTTL = 30 * time.Second
	}
	if cfg.NewsTTL <= 0 {
		cfg.NewsTTL = 5 * time.Minute
	}
	if store == nil {
		store = cache.NewMemoryStore(0)
	}
	if onchain == nil {
		onchain = provider.NewStubOnChainProvider(tracer)
	}
	return &Service{
		tracer:    tracer,
		store:     store,
		registry:  registry,
		markets:   markets,
		news:      news,
		sentiment: sentiment,
		fearGreed: fearGreed,
		onchain:   onchain,
		rateSrc:   rateSrc,
		rates:     NewRateTable(),
		cfg:       cfg,
	}
}

// MarketData returns the merged asset list from all active market
// providers, sorted by descending market cap and truncated to limit.
func (s *Service) MarketData(ctx context.Context, limit int) []domain.Asset {
	ctx, span := s.tracer.Start(ctx, "aggregator.market-data")
	defer span.End()

	if limit <= 0 {
		return nil
	}
	tier := normalizeLimit(limit)
	key := fmt.Sprintf("markets:%d", tier)

	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		if cached, ok := s.cacheGet(ctx, key); ok {
			var assets []domain.Asset
			if err := json.Unmarshal(cached, &assets); err == nil {
				return assets, nil
			}
		}

		assets := s.fetchMarkets(ctx, tier)
		if len(assets) > 0 {
			s.cacheSet(ctx, key, assets, s.cfg.MarketTTL)
		}
		return assets, nil
	})

	assets, _ := v.([]domain.Asset)
	if len(assets) > limit {
		assets = assets[:limit]
	}
	return assets
}

func (s *Service) fetchMarkets(ctx context.Context, limit int) []domain.Asset {
	// All-settled fan-out: every source is queried concurrently and merge
	// order stays fixed at registry priority order regardless of which
	// source answers first.
	results := make([][]domain.Asset, len(s.markets))
	var wg sync.WaitGroup
	for i, src := range s.markets {
		wg.Add(1)
		go func(i int, src MarketSource) {
			defer wg.Done()
			assets, err := src.FetchAssets(ctx, limit)
			if err != nil {
				log.Printf("market provider %s contributed nothing: %v", src.Name(), err)
				return
			}
			results[i] = assets
		}(i, src)
	}
	wg.Wait()

	var merged []domain.Asset
	for _, list := range results {
		merged = mergeAssets(merged, list)
	}
	sortAssetsByMarketCap(merged)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// News returns the deduplicated news list from all active news sources,
// sorted by descending publish time and truncated to limit.
func (s *Service) News(ctx context.Context, limit int) []domain.NewsItem {
	ctx, span := s.tracer.Start(ctx, "aggregator.news")
	defer span.End()

	if limit <= 0 {
		return nil
	}
	tier := normalizeLimit(limit)
	key := fmt.Sprintf("news:%d", tier)

	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		if cached, ok := s.cacheGet(ctx, key); ok {
			var items []domain.NewsItem
			if err := json.Unmarshal(cached, &items); err == nil {
				return items, nil
			}
		}

		items := s.fetchNews(ctx, tier)
		if len(items) > 0 {
			s.cacheSet(ctx, key, items, s.cfg.NewsTTL)
		}
		return items, nil
	})

	items, _ := v.([]domain.NewsItem)
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (s *Service) fetchNews(ctx context.Context, limit int) []domain.NewsItem {
	results := make([][]domain.NewsItem, len(s.news))
	var wg sync.WaitGroup
	for i, src := range s.news {
		wg.Add(1)
		go func(i int, src NewsSource) {
			defer wg.Done()
			items, err := src.FetchNews(ctx, limit)
			if err != nil {
				log.Printf("news provider %s contributed nothing: %v", src.Name(), err)
				return
			}
			results[i] = items
		}(i, src)
	}
	wg.Wait()

	var all []domain.NewsItem
	for _, list := range results {
		all = append(all, list...)
	}
	all = dedupeNews(all)
	sortNewsByRecency(all)
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// SocialSentiment returns, per symbol, one sample for each platform that
// answered. Sentiment is assumed short-lived and is never cached; concurrent
// callers for the same symbol still share one in-flight fetch.
func (s *Service) SocialSentiment(ctx context.Context, symbols []string) map[string][]domain.SentimentSample {
	ctx, span := s.tracer.Start(ctx, "aggregator.social-sentiment")
	defer span.End()

	out := make(map[string][]domain.SentimentSample, len(symbols))
	for _, symbol := range symbols {
		v, _, _ := s.group.Do("sentiment:"+symbol, func() (interface{}, error) {
			return s.fetchSentiment(ctx, symbol), nil
		})
		if samples, ok := v.([]domain.SentimentSample); ok && len(samples) > 0 {
			out[symbol] = samples
		}
	}
	return out
}

func (s *Service) fetchSentiment(ctx context.Context, symbol string) []domain.SentimentSample {
	results := make([]*domain.SentimentSample, len(s.sentiment))
	var wg sync.WaitGroup
	for i, src := range s.sentiment {
		wg.Add(1)
		go func(i int, src SentimentSource) {
			defer wg.Done()
			sample, err := src.FetchSentiment(ctx, symbol)
			if err != nil {
				log.Printf("sentiment provider %s skipped for %s: %v", src.Platform(), symbol, err)
				return
			}
			results[i] = sample
		}(i, src)
	}
	wg.Wait()

	samples := make([]domain.SentimentSample, 0, len(results))
	for _, sample := range results {
		if sample != nil {
			samples = append(samples, *sample)
		}
	}
	return samples
}

// FearGreedIndex returns the latest fear & greed reading, or the neutral
// fallback (50) when the provider is unreachable. Never fails.
func (s *Service) FearGreedIndex(ctx context.Context) domain.FearGreed {
	ctx, span := s.tracer.Start(ctx, "aggregator.fear-greed")
	defer span.End()

	if s.fearGreed == nil {
		return domain.NeutralFearGreed(time.Now())
	}
	point, err := s.fearGreed.FetchLatest(ctx)
	if err != nil || point == nil {
		if err != nil {
			log.Printf("fear & greed provider failed, using neutral fallback: %v", err)
		}
		return domain.NeutralFearGreed(time.Now())
	}
	return *point
}

// OnChainMetrics returns network metrics for a symbol. The default reader
// synthesizes placeholder values; results carry a Synthetic marker either way.
func (s *Service) OnChainMetrics(ctx context.Context, symbol string) *domain.OnChainMetrics {
	ctx, span := s.tracer.Start(ctx, "aggregator.onchain-metrics")
	defer span.End()

	metrics, err := s.onchain.FetchMetrics(ctx, symbol)
	if err != nil {
		log.Printf("onchain provider failed for %s: %v", symbol, err)
		return nil
	}
	return metrics
}

// ConvertCurrency applies the in-memory exchange-rate table.
func (s *Service) ConvertCurrency(amount float64, from, to string) float64 {
	return s.rates.Convert(amount, from, to)
}

// RefreshRates replaces the exchange-rate table wholesale.
func (s *Service) RefreshRates(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "aggregator.refresh-rates")
	defer span.End()

	if s.rateSrc == nil {
		return fmt.Errorf("no exchange-rate source configured")
	}
	rates, err := s.rateSrc.FetchRates(ctx)
	if err != nil {
		return fmt.Errorf("refresh rates: %w", err)
	}
	s.rates.Replace(rates)
	log.Printf("Exchange rates refreshed (%d currencies)", s.rates.Len())
	return nil
}

// ProviderStatus reports each registered provider's active flag.
func (s *Service) ProviderStatus() map[string]bool {
	if s.registry == nil {
		return map[string]bool{}
	}
	return s.registry.Status()
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	payload, ok, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("cache read error for %s: %v", key, err)
		return nil, false
	}
	return payload, ok
}

func (s *Service) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, key, payload, ttl); err != nil {
		log.Printf("cache write error for %s: %v", key, err)
	}
}

func normalizeLimit(limit int) int {
	for _, tier := range limitTiers {
		if limit <= tier {
			return tier
		}
	}
	return limitTiers[len(limitTiers)-1]
}
