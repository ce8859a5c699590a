package provider

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func testDescriptor(name, category, baseURL string, endpoints map[string]string) Descriptor {
	return Descriptor{
		Name:      name,
		Category:  category,
		BaseURL:   baseURL,
		Endpoints: endpoints,
		Active:    true,
		Priority:  1,
	}
}

func TestCoinGeckoFetchAssets(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("coingecko", CategoryMarket, "http://example", map[string]string{"markets": "/coins/markets"})
	p := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"), desc)
	p.limiter = NewRateLimiter(10, time.Millisecond)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if !strings.Contains(req.URL.Path, "/coins/markets") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		if got := req.URL.Query().Get("per_page"); got != "2" {
			t.Fatalf("unexpected per_page: %s", got)
		}
		body := `[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":50000,"market_cap":1000000,
			 "market_cap_rank":1,"total_volume":2000,"price_change_24h":150,
			 "price_change_percentage_24h_in_currency":1.5,"circulating_supply":19000000},
			{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3000,"market_cap":500000,"market_cap_rank":2}
		]`
		return jsonResponse(body), nil
	})}

	assets, err := p.FetchAssets(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	btc := assets[0]
	if btc.ID != "bitcoin" || btc.Symbol != "BTC" || btc.PriceUSD != 50000 {
		t.Fatalf("unexpected asset: %+v", btc)
	}
	if btc.Change24hPct != 1.5 || btc.Change24hUSD != 150 || btc.Rank != 1 {
		t.Fatalf("unexpected change fields: %+v", btc)
	}
}

func TestCoinGeckoFetchAssetsUpstreamError(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("coingecko", CategoryMarket, "http://example", nil)
	p := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"), desc)
	p.limiter = NewRateLimiter(10, time.Millisecond)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(bytes.NewBufferString(`{"error":"throttled"}`)),
			Header:     make(http.Header),
		}, nil
	})}

	if _, err := p.FetchAssets(context.Background(), 10); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
