package provider

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestExchangeRateFetchRates(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("open-er-api", CategoryRates, "http://example", map[string]string{"latest": "/latest/USD"})
	p := NewExchangeRateProvider(trace.NewNoopTracerProvider().Tracer("test"), desc)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/latest/USD" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return jsonResponse(`{"result":"success","rates":{"USD":1,"EUR":0.92,"AUD":1.5}}`), nil
	})}

	rates, err := p.FetchRates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 3 || rates["EUR"] != 0.92 {
		t.Fatalf("unexpected rates: %v", rates)
	}
}

func TestExchangeRateEmptyRates(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("open-er-api", CategoryRates, "http://example", nil)
	p := NewExchangeRateProvider(trace.NewNoopTracerProvider().Tracer("test"), desc)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(`{"result":"success","rates":{}}`), nil
	})}

	if _, err := p.FetchRates(context.Background()); err == nil {
		t.Fatal("expected error for empty rates")
	}
}
