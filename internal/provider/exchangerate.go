package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ExchangeRateProvider fetches USD-relative currency rates. The endpoint
// returns a "rates" object keyed by ISO currency code.
type ExchangeRateProvider struct {
	client     *http.Client
	baseURL    string
	latestPath string
	tracer     trace.Tracer
}

func NewExchangeRateProvider(tracer trace.Tracer, desc Descriptor) *ExchangeRateProvider {
	path := desc.Endpoints["latest"]
	if path == "" {
		path = "/latest/USD"
	}
	return &ExchangeRateProvider{
		client:     &http.Client{Timeout: 15 * time.Second},
		baseURL:    desc.BaseURL,
		latestPath: path,
		tracer:     tracer,
	}
}

func (p *ExchangeRateProvider) FetchRates(ctx context.Context) (map[string]float64, error) {
	_, span := p.tracer.Start(ctx, "exchangerate.fetch-rates")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+p.latestPath, nil)
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
		return nil, fmt.Errorf("exchange rate API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode exchange rate response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("exchange rate response has no rates")
	}

	return payload.Rates, nil
}
