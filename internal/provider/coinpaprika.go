package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tickerhub/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// CoinPaprikaProvider fetches market listings from the CoinPaprika API.
type CoinPaprikaProvider struct {
	client      *http.Client
	baseURL     string
	tickersPath string
	tracer      trace.Tracer
}

func NewCoinPaprikaProvider(tracer trace.Tracer, desc Descriptor) *CoinPaprikaProvider {
	path := desc.Endpoints["tickers"]
	if path == "" {
		path = "/tickers"
	}
	return &CoinPaprikaProvider{
		client:      &http.Client{Timeout: 20 * time.Second},
		baseURL:     desc.BaseURL,
		tickersPath: path,
		tracer:      tracer,
	}
}

func (p *CoinPaprikaProvider) Name() string { return "coinpaprika" }

func (p *CoinPaprikaProvider) FetchAssets(ctx context.Context, limit int) ([]domain.Asset, error) {
	_, span := p.tracer.Start(ctx, "coinpaprika.fetch-assets")
	defer span.End()

	if limit <= 0 {
		limit = 100
	}
	url := fmt.Sprintf("%s%s?quotes=USD&limit=%d", p.baseURL, p.tickersPath, limit)

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
		return nil, fmt.Errorf("coinpaprika API error %d: %s", resp.StatusCode, string(body))
	}

	var raw []struct {
		ID                string  `json:"id"`
		Symbol            string  `json:"symbol"`
		Name              string  `json:"name"`
		Rank              int     `json:"rank"`
		CirculatingSupply float64 `json:"circulating_supply"`
		TotalSupply       float64 `json:"total_supply"`
		MaxSupply         float64 `json:"max_supply"`
		Quotes            struct {
			USD struct {
				Price     float64 `json:"price"`
				Volume24h float64 `json:"volume_24h"`
				MarketCap float64 `json:"market_cap"`
				Change1h  float64 `json:"percent_change_1h"`
				Change24h float64 `json:"percent_change_24h"`
				Change7d  float64 `json:"percent_change_7d"`
				Change30d float64 `json:"percent_change_30d"`
			} `json:"USD"`
		} `json:"quotes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode coinpaprika response: %w", err)
	}

	assets := make([]domain.Asset, 0, len(raw))
	for _, row := range raw {
		if row.ID == "" && row.Symbol == "" {
			continue
		}
		usd := row.Quotes.USD
		assets = append(assets, domain.Asset{
			ID:                row.ID,
			Symbol:            normalizeSymbol(row.Symbol),
			Name:              row.Name,
			PriceUSD:          usd.Price,
			Change1hPct:       usd.Change1h,
			Change24hPct:      usd.Change24h,
			Change7dPct:       usd.Change7d,
			Change30dPct:      usd.Change30d,
			Change24hUSD:      usd.Price * usd.Change24h / 100,
			Volume24h:         usd.Volume24h,
			MarketCap:         usd.MarketCap,
			Rank:              row.Rank,
			CirculatingSupply: row.CirculatingSupply,
			TotalSupply:       row.TotalSupply,
			MaxSupply:         row.MaxSupply,
		})
	}
	return assets, nil
}
