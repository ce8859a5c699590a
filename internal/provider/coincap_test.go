package provider

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestCoinCapFetchAssetsParsesStringNumbers(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("coincap", CategoryMarket, "http://example", map[string]string{"assets": "/assets"})
	p := NewCoinCapProvider(trace.NewNoopTracerProvider().Tracer("test"), desc)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if !strings.Contains(req.URL.Path, "/assets") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		body := `{"data":[
			{"id":"bitcoin","rank":"1","symbol":"BTC","name":"Bitcoin","supply":"19000000",
			 "maxSupply":"21000000","marketCapUsd":"950000.5","volumeUsd24Hr":"1234.5",
			 "priceUsd":"50000.25","changePercent24Hr":"-2.5"},
			{"id":"","symbol":"","name":"ghost"}
		]}`
		return jsonResponse(body), nil
	})}

	assets, err := p.FetchAssets(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(assets))
	}
	btc := assets[0]
	if btc.PriceUSD != 50000.25 || btc.Change24hPct != -2.5 || btc.Rank != 1 {
		t.Fatalf("unexpected asset: %+v", btc)
	}
	if btc.CirculatingSupply != 19000000 || btc.TotalSupply != 19000000 || btc.MaxSupply != 21000000 {
		t.Fatalf("unexpected supply fields: %+v", btc)
	}
}

func TestCoinCapFetchAssetsBadPayload(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("coincap", CategoryMarket, "http://example", nil)
	p := NewCoinCapProvider(trace.NewNoopTracerProvider().Tracer("test"), desc)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(`not json`), nil
	})}

	if _, err := p.FetchAssets(context.Background(), 10); err == nil {
		t.Fatal("expected decode error")
	}
}
