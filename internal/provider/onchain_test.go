package provider

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestStubOnChainDeterministic(t *testing.T) {
	t.Parallel()

	p := NewStubOnChainProvider(trace.NewNoopTracerProvider().Tracer("test"))
	first, err := p.FetchMetrics(context.Background(), "btc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.FetchMetrics(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Synthetic || first.Symbol != "BTC" || first.ProviderKey != "stub" {
		t.Fatalf("unexpected metrics envelope: %+v", first)
	}
	for key, v := range first.Metrics {
		if second.Metrics[key] != v {
			t.Fatalf("expected stable value for %s, got %f then %f", key, v, second.Metrics[key])
		}
	}
	if _, ok := first.Metrics["active_addresses_24h"]; !ok {
		t.Fatal("expected active_addresses_24h metric")
	}
}

func TestStubOnChainRequiresSymbol(t *testing.T) {
	t.Parallel()

	p := NewStubOnChainProvider(trace.NewNoopTracerProvider().Tracer("test"))
	if _, err := p.FetchMetrics(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty symbol")
	}
}

func TestBTCMempoolFetchMetrics(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("btc-mempool", CategoryOnChain, "http://example", map[string]string{"statistics": "/api/v1/statistics/24h"})
	p := NewBTCMempoolProvider(trace.NewNoopTracerProvider().Tracer("test"), desc)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/v1/statistics/24h" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return jsonResponse(`[{"count":41000,"vbytes_per_second":1800,"min_fee":1.2,"total_fee":98000}]`), nil
	})}

	metrics, err := p.FetchMetrics(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.Synthetic || metrics.ProviderKey != "btc_mempool" {
		t.Fatalf("unexpected envelope: %+v", metrics)
	}
	if metrics.Metrics["mempool_tx_count"] != 41000 {
		t.Fatalf("unexpected tx count: %f", metrics.Metrics["mempool_tx_count"])
	}
}

func TestBTCMempoolFallsBackForOtherSymbols(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("btc-mempool", CategoryOnChain, "http://example", nil)
	p := NewBTCMempoolProvider(trace.NewNoopTracerProvider().Tracer("test"), desc)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		t.Fatal("non-BTC symbols must not hit the network")
		return nil, nil
	})}

	metrics, err := p.FetchMetrics(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !metrics.Synthetic || metrics.Symbol != "ETH" {
		t.Fatalf("expected synthetic fallback, got %+v", metrics)
	}
}
