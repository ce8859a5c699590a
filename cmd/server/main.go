package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tickerhub/internal/aggregator"
	"tickerhub/internal/bot"
	"tickerhub/internal/cache"
	"tickerhub/internal/config"
	"tickerhub/internal/handler"
	"tickerhub/internal/job"
	"tickerhub/internal/provider"
	"tickerhub/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "tickerhub/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newRegistryFunc        = provider.DefaultRegistry
	newServiceFunc         = aggregator.NewService
	startJobFunc           = func(start func(ctx context.Context), ctx context.Context) { go start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           TickerHub API
// @version         1.0
// @description     Aggregated crypto market data from multiple upstream providers.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Cache backend: Redis when configured, bounded in-memory store otherwise
	var store cache.Store
	if cfg.RedisURL != "" {
		store = cache.NewRedisStore(initRedisFunc(ctx, cfg.RedisURL))
	} else {
		store = cache.NewMemoryStore(0)
	}

	registry := newRegistryFunc(cfg.CryptoPanicToken)
	registry.SetNewsFeeds(cfg.NewsFeeds)
	markets, news, sentiment, fearGreed, onchain, rateSrc := buildProviders(tracer, registry, cfg)

	svc := newServiceFunc(tracer, store, registry, markets, news, sentiment, fearGreed, onchain, rateSrc, aggregator.Config{
		MarketTTL: time.Duration(cfg.MarketTTLSecs) * time.Second,
		NewsTTL:   time.Duration(cfg.NewsTTLSecs) * time.Second,
	})

	// Background jobs, stopped by ctx cancel
	ratesJob := job.NewRateRefreshJob(tracer, svc, time.Duration(cfg.RatesRefreshSecs)*time.Second)
	startJobFunc(ratesJob.Start, ctx)
	warmJob := job.NewMarketWarmJob(tracer, svc, time.Duration(cfg.WarmPollSecs)*time.Second, cfg.MarketWarmLimit)
	startJobFunc(warmJob.Start, ctx)

	// Start Telegram bot
	startTelegramBotFunc(svc, cfg.TelegramBotToken)

	// Create handlers and routes
	h := newHandlerFunc(tracer, svc, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("tickerhub"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// buildProviders instantiates a concrete client for every active descriptor
// in the registry, grouped the way the aggregator consumes them.
func buildProviders(tracer trace.Tracer, registry *provider.Registry, cfg *config.Config) (
	[]aggregator.MarketSource,
	[]aggregator.NewsSource,
	[]aggregator.SentimentSource,
	aggregator.FearGreedReader,
	aggregator.OnChainReader,
	aggregator.RateFetcher,
) {
	var markets []aggregator.MarketSource
	for _, d := range registry.ByCategory(provider.CategoryMarket) {
		switch d.Name {
		case "coingecko":
			markets = append(markets, provider.NewCoinGeckoProvider(tracer, d))
		case "coinpaprika":
			markets = append(markets, provider.NewCoinPaprikaProvider(tracer, d))
		case "coincap":
			markets = append(markets, provider.NewCoinCapProvider(tracer, d))
		default:
			log.Printf("no client for market provider %q, skipping", d.Name)
		}
	}

	var news []aggregator.NewsSource
	for _, d := range registry.ByCategory(provider.CategoryNews) {
		switch {
		case d.Name == "cryptocompare":
			news = append(news, provider.NewCryptoCompareProvider(tracer, d))
		case d.Name == "cryptopanic":
			news = append(news, provider.NewCryptoPanicProvider(tracer, d, cfg.CryptoPanicToken))
		case d.Endpoints["feed"] != "":
			news = append(news, provider.NewRSSNewsProvider(tracer, d))
		default:
			log.Printf("no client for news provider %q, skipping", d.Name)
		}
	}

	var sentiment []aggregator.SentimentSource
	for _, d := range registry.ByCategory(provider.CategorySocial) {
		switch d.Name {
		case "reddit":
			sentiment = append(sentiment, provider.NewRedditSentimentProvider(tracer, d, cfg.RedditSubs))
		case "stocktwits":
			sentiment = append(sentiment, provider.NewStockTwitsProvider(tracer, d))
		default:
			log.Printf("no client for social provider %q, skipping", d.Name)
		}
	}

	var fearGreed aggregator.FearGreedReader
	if descs := registry.ByCategory(provider.CategoryIndex); len(descs) > 0 {
		fearGreed = provider.NewFearGreedProvider(tracer, descs[0])
	}

	var onchain aggregator.OnChainReader = provider.NewStubOnChainProvider(tracer)
	if cfg.OnChainLive {
		registry.SetActive("btc-mempool", true)
		onchain = provider.NewBTCMempoolProvider(tracer, registry.MustGet("btc-mempool"))
	}

	var rateSrc aggregator.RateFetcher
	if descs := registry.ByCategory(provider.CategoryRates); len(descs) > 0 {
		rateSrc = provider.NewExchangeRateProvider(tracer, descs[0])
	}

	return markets, news, sentiment, fearGreed, onchain, rateSrc
}
