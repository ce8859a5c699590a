package provider

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"tickerhub/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

func TestRedditFetchSentiment(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("reddit", CategorySocial, "http://example", map[string]string{"search": "/search.json"})
	p := NewRedditSentimentProvider(trace.NewNoopTracerProvider().Tracer("test"), desc, []string{"CryptoCurrency", "CryptoMarkets"})
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if !strings.Contains(req.URL.Path, "/r/CryptoCurrency+CryptoMarkets/search.json") {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		if got := req.Header.Get("User-Agent"); got == "" {
			t.Fatal("expected a user agent header")
		}
		if got := req.URL.Query().Get("q"); got != "BTC" {
			t.Fatalf("unexpected query: %s", got)
		}
		body := `{"data":{"children":[
			{"data":{"title":"BTC rally incoming, bullish breakout","selftext":"","score":200,"num_comments":50}},
			{"data":{"title":"","selftext":"ignored","score":10,"num_comments":1}},
			{"data":{"title":"Why I buy the dip","selftext":"","score":20,"num_comments":5}}
		]}}`
		return jsonResponse(body), nil
	})}

	sample, err := p.FetchSentiment(context.Background(), "btc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sample.Platform != "reddit" || sample.Symbol != "BTC" {
		t.Fatalf("unexpected sample identity: %+v", sample)
	}
	if sample.Mentions != 2 {
		t.Fatalf("expected 2 mentions (empty title skipped), got %d", sample.Mentions)
	}
	if sample.Engagement != 275 {
		t.Fatalf("unexpected engagement: %f", sample.Engagement)
	}
	if sample.Label != domain.SentimentBullish {
		t.Fatalf("expected bullish label, got %s", sample.Label)
	}
}

func TestRedditFetchSentimentRequiresSymbol(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("reddit", CategorySocial, "http://example", nil)
	p := NewRedditSentimentProvider(trace.NewNoopTracerProvider().Tracer("test"), desc, nil)
	if _, err := p.FetchSentiment(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty symbol")
	}
}
