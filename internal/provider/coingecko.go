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

// CoinGeckoProvider fetches market listings from the CoinGecko free API.
type CoinGeckoProvider struct {
	client      *http.Client
	baseURL     string
	marketsPath string
	tracer      trace.Tracer
	limiter     *RateLimiter
}

// NewCoinGeckoProvider creates a provider with built-in rate limiting drawn
// from the descriptor's budget (the free tier throttles hard).
func NewCoinGeckoProvider(tracer trace.Tracer, desc Descriptor) *CoinGeckoProvider {
	path := desc.Endpoints["markets"]
	if path == "" {
		path = "/coins/markets"
	}
	return &CoinGeckoProvider{
		client:      &http.Client{Timeout: 30 * time.Second},
		baseURL:     desc.BaseURL,
		marketsPath: path,
		tracer:      tracer,
		limiter:     LimiterFromBudget(desc.Budget),
	}
}

func (p *CoinGeckoProvider) Name() string { return "coingecko" }

// FetchAssets fetches the top assets by market cap in a single API call.
func (p *CoinGeckoProvider) FetchAssets(ctx context.Context, limit int) ([]domain.Asset, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-assets")
	defer span.End()

	if limit <= 0 {
		limit = 100
	}
	url := fmt.Sprintf(
		"%s%s?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1&price_change_percentage=1h,24h,7d,30d",
		p.baseURL, p.marketsPath, limit)

	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch assets: %w", err)
	}

	var raw []struct {
		ID                string  `json:"id"`
		Symbol            string  `json:"symbol"`
		Name              string  `json:"name"`
		Image             string  `json:"image"`
		CurrentPrice      float64 `json:"current_price"`
		MarketCap         float64 `json:"market_cap"`
		MarketCapRank     int     `json:"market_cap_rank"`
		TotalVolume       float64 `json:"total_volume"`
		PriceChange24h    float64 `json:"price_change_24h"`
		Change1hPct       float64 `json:"price_change_percentage_1h_in_currency"`
		Change24hPct      float64 `json:"price_change_percentage_24h_in_currency"`
		Change7dPct       float64 `json:"price_change_percentage_7d_in_currency"`
		Change30dPct      float64 `json:"price_change_percentage_30d_in_currency"`
		CirculatingSupply float64 `json:"circulating_supply"`
		TotalSupply       float64 `json:"total_supply"`
		MaxSupply         float64 `json:"max_supply"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse assets: %w", err)
	}

	assets := make([]domain.Asset, 0, len(raw))
	for _, row := range raw {
		if row.ID == "" && row.Symbol == "" {
			continue
		}
		assets = append(assets, domain.Asset{
			ID:                row.ID,
			Symbol:            normalizeSymbol(row.Symbol),
			Name:              row.Name,
			PriceUSD:          row.CurrentPrice,
			Change1hPct:       row.Change1hPct,
			Change24hPct:      row.Change24hPct,
			Change7dPct:       row.Change7dPct,
			Change30dPct:      row.Change30dPct,
			Change24hUSD:      row.PriceChange24h,
			Volume24h:         row.TotalVolume,
			MarketCap:         row.MarketCap,
			Rank:              row.MarketCapRank,
			Image:             row.Image,
			CirculatingSupply: row.CirculatingSupply,
			TotalSupply:       row.TotalSupply,
			MaxSupply:         row.MaxSupply,
		})
	}
	return assets, nil
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

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
		return nil, fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
