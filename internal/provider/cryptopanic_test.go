package provider

import (
	"context"
	"net/http"
	"testing"

	"tickerhub/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

func TestCryptoPanicRequiresToken(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("cryptopanic", CategoryNews, "http://example", nil)
	p := NewCryptoPanicProvider(trace.NewNoopTracerProvider().Tracer("test"), desc, "")
	if _, err := p.FetchNews(context.Background(), 10); err == nil {
		t.Fatal("expected error without auth token")
	}
}

func TestCryptoPanicFetchNewsVoteScore(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("cryptopanic", CategoryNews, "http://example", map[string]string{"posts": "/posts/"})
	p := NewCryptoPanicProvider(trace.NewNoopTracerProvider().Tracer("test"), desc, "secret")
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if got := req.URL.Query().Get("auth_token"); got != "secret" {
			t.Fatalf("expected auth token on request, got %q", got)
		}
		body := `{"results":[
			{"id":1,"title":"Exchange faces lawsuit","url":"http://example/one",
			 "published_at":"2026-08-31T08:00:00Z","source":{"title":"wire"},
			 "votes":{"positive":9,"negative":1},"currencies":[{"code":"btc"}]}
		]}`
		return jsonResponse(body), nil
	})}

	items, err := p.FetchNews(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.ID != "cryptopanic:1" {
		t.Fatalf("unexpected id: %s", item.ID)
	}
	// Reader votes (9 up, 1 down) override the bearish headline keyword.
	if item.Sentiment != string(domain.SentimentBullish) {
		t.Fatalf("expected vote-driven bullish sentiment, got %s", item.Sentiment)
	}
	if len(item.Categories) != 1 || item.Categories[0] != "BTC" {
		t.Fatalf("unexpected categories: %v", item.Categories)
	}
}
