package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tickerhub/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	defaultRedditUA   = "tickerhub/1.0 (market data aggregator)"
	defaultRedditSize = 40
)

// RedditSentimentProvider derives a sentiment sample for a symbol from
// recent Reddit search results, scoring post titles with the keyword lexicon
// and weighting each post by its vote score.
type RedditSentimentProvider struct {
	client     *http.Client
	baseURL    string
	searchPath string
	userAgent  string
	subreddits []string
	tracer     trace.Tracer
}

func NewRedditSentimentProvider(tracer trace.Tracer, desc Descriptor, subreddits []string) *RedditSentimentProvider {
	path := desc.Endpoints["search"]
	if path == "" {
		path = "/search.json"
	}
	if len(subreddits) == 0 {
		subreddits = []string{"CryptoCurrency"}
	}
	return &RedditSentimentProvider{
		client:     &http.Client{Timeout: 20 * time.Second},
		baseURL:    strings.TrimRight(desc.BaseURL, "/"),
		searchPath: path,
		userAgent:  defaultRedditUA,
		subreddits: subreddits,
		tracer:     tracer,
	}
}

func (p *RedditSentimentProvider) Platform() string { return "reddit" }

func (p *RedditSentimentProvider) FetchSentiment(ctx context.Context, symbol string) (*domain.SentimentSample, error) {
	_, span := p.tracer.Start(ctx, "reddit.fetch-sentiment")
	defer span.End()

	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	q := url.Values{}
	q.Set("q", symbol)
	q.Set("restrict_sr", "on")
	q.Set("sort", "new")
	q.Set("limit", fmt.Sprintf("%d", defaultRedditSize))
	u := fmt.Sprintf("%s/r/%s%s?%s",
		p.baseURL, url.PathEscape(strings.Join(p.subreddits, "+")), p.searchPath, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("reddit API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Data struct {
			Children []struct {
				Data struct {
					Title       string  `json:"title"`
					SelfText    string  `json:"selftext"`
					Score       float64 `json:"score"`
					NumComments float64 `json:"num_comments"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode reddit response: %w", err)
	}

	mentions := 0
	engagement := 0.0
	weightedScore := 0.0
	totalWeight := 0.0
	for _, row := range payload.Data.Children {
		data := row.Data
		if strings.TrimSpace(data.Title) == "" {
			continue
		}
		mentions++
		engagement += data.Score + data.NumComments

		weight := 1.0 + clamp(data.Score/100, 0, 4)
		weightedScore += lexiconScore(data.Title+" "+data.SelfText) * weight
		totalWeight += weight
	}

	score := 0.0
	if totalWeight > 0 {
		score = clamp(weightedScore/totalWeight, -1, 1)
	}

	return &domain.SentimentSample{
		Platform:   p.Platform(),
		Symbol:     symbol,
		Label:      domain.LabelForScore(score),
		Score:      score,
		Mentions:   mentions,
		Engagement: engagement,
		FetchedAt:  time.Now().UTC(),
	}, nil
}
