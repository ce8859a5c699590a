package handler

import (
	"context"

	"tickerhub/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// Aggregator is the surface the HTTP layer needs from the aggregation service.
type Aggregator interface {
	MarketData(ctx context.Context, limit int) []domain.Asset
	News(ctx context.Context, limit int) []domain.NewsItem
	SocialSentiment(ctx context.Context, symbols []string) map[string][]domain.SentimentSample
	FearGreedIndex(ctx context.Context) domain.FearGreed
	OnChainMetrics(ctx context.Context, symbol string) *domain.OnChainMetrics
	ConvertCurrency(amount float64, from, to string) float64
	ProviderStatus() map[string]bool
}

type Handler struct {
	tracer trace.Tracer
	agg    Aggregator
	apiKey string
}

func New(tracer trace.Tracer, agg Aggregator, apiKey string) *Handler {
	return &Handler{tracer: tracer, agg: agg, apiKey: apiKey}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.Use(APIKeyAuth(h.apiKey))
	api.GET("/markets", h.GetMarkets)
	api.GET("/news", h.GetNews)
	api.GET("/sentiment", h.GetSentiment)
	api.GET("/feargreed", h.GetFearGreed)
	api.GET("/onchain/:symbol", h.GetOnChain)
	api.GET("/convert", h.ConvertCurrency)
	api.GET("/providers", h.GetProviders)
}
