package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tickerhub/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// FearGreedProvider fetches the crypto fear & greed index from alternative.me.
type FearGreedProvider struct {
	client  *http.Client
	baseURL string
	fngPath string
	tracer  trace.Tracer
}

func NewFearGreedProvider(tracer trace.Tracer, desc Descriptor) *FearGreedProvider {
	path := desc.Endpoints["fng"]
	if path == "" {
		path = "/fng/"
	}
	return &FearGreedProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: desc.BaseURL,
		fngPath: path,
		tracer:  tracer,
	}
}

func (p *FearGreedProvider) FetchLatest(ctx context.Context) (*domain.FearGreed, error) {
	_, span := p.tracer.Start(ctx, "feargreed.fetch-latest")
	defer span.End()

	url := strings.TrimRight(p.baseURL, "/") + p.fngPath + "?limit=1"
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
		return nil, fmt.Errorf("fear & greed API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Data []struct {
			Value          string `json:"value"`
			Classification string `json:"value_classification"`
			Timestamp      string `json:"timestamp"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode fear & greed response: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("fear & greed response has no rows")
	}

	row := payload.Data[0]
	value, err := strconv.Atoi(strings.TrimSpace(row.Value))
	if err != nil {
		return nil, fmt.Errorf("parse fear & greed value: %w", err)
	}
	// The index is defined on 0-100.
	if value < 0 {
		value = 0
	} else if value > 100 {
		value = 100
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(row.Timestamp), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse fear & greed timestamp: %w", err)
	}
	if ts > 1_000_000_000_000 {
		ts = ts / 1000
	}

	return &domain.FearGreed{
		Value:          value,
		Classification: row.Classification,
		Timestamp:      time.Unix(ts, 0).UTC(),
	}, nil
}
