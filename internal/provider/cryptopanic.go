package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tickerhub/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// CryptoPanicProvider fetches news posts from the CryptoPanic API. The API
// requires an auth token; the descriptor stays inactive until one is
// configured, so an unauthenticated deployment never consults this source.
type CryptoPanicProvider struct {
	client    *http.Client
	baseURL   string
	postsPath string
	token     string
	tracer    trace.Tracer
}

func NewCryptoPanicProvider(tracer trace.Tracer, desc Descriptor, token string) *CryptoPanicProvider {
	path := desc.Endpoints["posts"]
	if path == "" {
		path = "/posts/"
	}
	return &CryptoPanicProvider{
		client:    &http.Client{Timeout: 20 * time.Second},
		baseURL:   desc.BaseURL,
		postsPath: path,
		token:     token,
		tracer:    tracer,
	}
}

func (p *CryptoPanicProvider) Name() string { return "cryptopanic" }

func (p *CryptoPanicProvider) FetchNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	_, span := p.tracer.Start(ctx, "cryptopanic.fetch-news")
	defer span.End()

	if p.token == "" {
		return nil, fmt.Errorf("cryptopanic auth token is not configured")
	}
	if limit <= 0 {
		limit = 40
	}

	q := url.Values{}
	q.Set("auth_token", p.token)
	q.Set("public", "true")
	u := p.baseURL + p.postsPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cryptopanic API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Results []struct {
			ID          int64  `json:"id"`
			Title       string `json:"title"`
			URL         string `json:"url"`
			PublishedAt string `json:"published_at"`
			Source      struct {
				Title string `json:"title"`
			} `json:"source"`
			Votes struct {
				Positive int `json:"positive"`
				Negative int `json:"negative"`
			} `json:"votes"`
			Currencies []struct {
				Code string `json:"code"`
			} `json:"currencies"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode cryptopanic response: %w", err)
	}

	now := time.Now().UTC()
	items := make([]domain.NewsItem, 0, min(limit, len(payload.Results)))
	for i, row := range payload.Results {
		if i >= limit {
			break
		}
		title := sanitizeText(row.Title, 300)
		if title == "" {
			continue
		}
		publishedAt := now
		if t, err := time.Parse(time.RFC3339, row.PublishedAt); err == nil {
			publishedAt = t.UTC()
		}
		var categories []string
		for _, c := range row.Currencies {
			if code := normalizeSymbol(c.Code); code != "" {
				categories = append(categories, code)
			}
		}

		// Vote balance beats the lexicon when readers have actually voted.
		score := lexiconScore(title)
		if total := row.Votes.Positive + row.Votes.Negative; total > 0 {
			score = clamp(float64(row.Votes.Positive-row.Votes.Negative)/float64(total), -1, 1)
		}
		items = append(items, domain.NewsItem{
			ID:          "cryptopanic:" + strconv.FormatInt(row.ID, 10),
			Title:       title,
			Summary:     "",
			URL:         sanitizeText(row.URL, 500),
			Source:      sanitizeText(row.Source.Title, 120),
			PublishedAt: publishedAt,
			FetchedAt:   now,
			Sentiment:   string(domain.LabelForScore(score)),
			Relevance:   confidenceFromScore(score),
			Categories:  categories,
		})
	}
	return items, nil
}
