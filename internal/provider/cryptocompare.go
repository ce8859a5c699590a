package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tickerhub/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// CryptoCompareProvider fetches English-language news from the CryptoCompare API.
type CryptoCompareProvider struct {
	client   *http.Client
	baseURL  string
	newsPath string
	tracer   trace.Tracer
}

func NewCryptoCompareProvider(tracer trace.Tracer, desc Descriptor) *CryptoCompareProvider {
	path := desc.Endpoints["news"]
	if path == "" {
		path = "/data/v2/news/"
	}
	return &CryptoCompareProvider{
		client:   &http.Client{Timeout: 20 * time.Second},
		baseURL:  desc.BaseURL,
		newsPath: path,
		tracer:   tracer,
	}
}

func (p *CryptoCompareProvider) Name() string { return "cryptocompare" }

func (p *CryptoCompareProvider) FetchNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	_, span := p.tracer.Start(ctx, "cryptocompare.fetch-news")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	url := fmt.Sprintf("%s%s?lang=EN", p.baseURL, p.newsPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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
		return nil, fmt.Errorf("cryptocompare API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Data []struct {
			ID          string `json:"id"`
			PublishedOn int64  `json:"published_on"`
			Title       string `json:"title"`
			URL         string `json:"url"`
			Body        string `json:"body"`
			Categories  string `json:"categories"`
			Source      string `json:"source"`
		} `json:"Data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode cryptocompare response: %w", err)
	}

	now := time.Now().UTC()
	items := make([]domain.NewsItem, 0, min(limit, len(payload.Data)))
	for i, row := range payload.Data {
		if i >= limit {
			break
		}
		title := sanitizeText(row.Title, 300)
		if title == "" {
			continue
		}
		var categories []string
		for _, c := range strings.Split(row.Categories, "|") {
			if c = strings.TrimSpace(c); c != "" {
				categories = append(categories, c)
			}
		}
		score := lexiconScore(title)
		items = append(items, domain.NewsItem{
			ID:          "cryptocompare:" + row.ID,
			Title:       title,
			Summary:     sanitizeText(row.Body, 420),
			URL:         sanitizeText(row.URL, 500),
			Source:      sanitizeText(row.Source, 120),
			PublishedAt: time.Unix(row.PublishedOn, 0).UTC(),
			FetchedAt:   now,
			Sentiment:   string(domain.LabelForScore(score)),
			Relevance:   confidenceFromScore(score),
			Categories:  categories,
		})
	}
	return items, nil
}
