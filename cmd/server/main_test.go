package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"tickerhub/internal/aggregator"
	"tickerhub/internal/config"
	"tickerhub/internal/provider"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps(t)
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubServerDeps(t *testing.T) func() {
	t.Setenv("REDIS_URL", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("ONCHAIN_LIVE", "")

	origLoadEnv := loadEnvFunc
	origInitTracer := initTracerFunc
	origStartJob := startJobFunc
	origStartTelegram := startTelegramBotFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	startJobFunc = func(func(ctx context.Context), context.Context) {}
	startTelegramBotFunc = func(*aggregator.Service, string) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		initTracerFunc = origInitTracer
		startJobFunc = origStartJob
		startTelegramBotFunc = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}

func TestBuildProvidersUsesConfiguredFeeds(t *testing.T) {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	cfg := &config.Config{
		NewsFeeds: []string{"https://feeds.example.com/crypto.xml"},
	}

	registry := provider.DefaultRegistry("")
	registry.SetNewsFeeds(cfg.NewsFeeds)
	_, news, _, _, _, _ := buildProviders(tracer, registry, cfg)

	names := make(map[string]bool, len(news))
	for _, src := range news {
		names[src.Name()] = true
	}
	if !names["rss-feeds.example.com"] {
		t.Fatalf("expected configured feed among news sources, got %v", names)
	}
	if names["coindesk-rss"] || names["cointelegraph-rss"] {
		t.Fatalf("built-in feeds should be replaced, got %v", names)
	}
}
