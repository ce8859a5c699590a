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

// StockTwitsProvider derives a sentiment sample for a symbol from the
// StockTwits symbol stream. Messages can carry an explicit Bullish/Bearish
// tag; untagged messages fall back to the keyword lexicon.
type StockTwitsProvider struct {
	client     *http.Client
	baseURL    string
	streamPath string
	tracer     trace.Tracer
}

func NewStockTwitsProvider(tracer trace.Tracer, desc Descriptor) *StockTwitsProvider {
	path := desc.Endpoints["stream"]
	if path == "" {
		path = "/streams/symbol"
	}
	return &StockTwitsProvider{
		client:     &http.Client{Timeout: 20 * time.Second},
		baseURL:    strings.TrimRight(desc.BaseURL, "/"),
		streamPath: path,
		tracer:     tracer,
	}
}

func (p *StockTwitsProvider) Platform() string { return "stocktwits" }

func (p *StockTwitsProvider) FetchSentiment(ctx context.Context, symbol string) (*domain.SentimentSample, error) {
	_, span := p.tracer.Start(ctx, "stocktwits.fetch-sentiment")
	defer span.End()

	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	// Crypto tickers are suffixed with .X on StockTwits (BTC.X, ETH.X).
	u := fmt.Sprintf("%s%s/%s.X.json", p.baseURL, p.streamPath, symbol)

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
		return nil, fmt.Errorf("stocktwits API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Messages []struct {
			Body  string `json:"body"`
			Likes struct {
				Total float64 `json:"total"`
			} `json:"likes"`
			Entities struct {
				Sentiment *struct {
					Basic string `json:"basic"`
				} `json:"sentiment"`
			} `json:"entities"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode stocktwits response: %w", err)
	}

	mentions := 0
	engagement := 0.0
	total := 0.0
	scored := 0
	for _, msg := range payload.Messages {
		if strings.TrimSpace(msg.Body) == "" {
			continue
		}
		mentions++
		engagement += msg.Likes.Total

		switch {
		case msg.Entities.Sentiment != nil && strings.EqualFold(msg.Entities.Sentiment.Basic, "Bullish"):
			total += 1
			scored++
		case msg.Entities.Sentiment != nil && strings.EqualFold(msg.Entities.Sentiment.Basic, "Bearish"):
			total -= 1
			scored++
		default:
			if s := lexiconScore(msg.Body); s != 0 {
				total += s
				scored++
			}
		}
	}

	score := 0.0
	if scored > 0 {
		score = clamp(total/float64(scored), -1, 1)
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
