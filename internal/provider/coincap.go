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

// CoinCapProvider fetches market listings from the CoinCap API. CoinCap
// reports numbers as strings and only carries a 24h change window.
type CoinCapProvider struct {
	client     *http.Client
	baseURL    string
	assetsPath string
	tracer     trace.Tracer
}

func NewCoinCapProvider(tracer trace.Tracer, desc Descriptor) *CoinCapProvider {
	path := desc.Endpoints["assets"]
	if path == "" {
		path = "/assets"
	}
	return &CoinCapProvider{
		client:     &http.Client{Timeout: 20 * time.Second},
		baseURL:    desc.BaseURL,
		assetsPath: path,
		tracer:     tracer,
	}
}

func (p *CoinCapProvider) Name() string { return "coincap" }

func (p *CoinCapProvider) FetchAssets(ctx context.Context, limit int) ([]domain.Asset, error) {
	_, span := p.tracer.Start(ctx, "coincap.fetch-assets")
	defer span.End()

	if limit <= 0 {
		limit = 100
	}
	url := fmt.Sprintf("%s%s?limit=%d", p.baseURL, p.assetsPath, limit)

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
		return nil, fmt.Errorf("coincap API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Data []struct {
			ID               string `json:"id"`
			Rank             string `json:"rank"`
			Symbol           string `json:"symbol"`
			Name             string `json:"name"`
			Supply           string `json:"supply"`
			MaxSupply        string `json:"maxSupply"`
			MarketCapUSD     string `json:"marketCapUsd"`
			VolumeUSD24Hr    string `json:"volumeUsd24Hr"`
			PriceUSD         string `json:"priceUsd"`
			ChangePercent24h string `json:"changePercent24Hr"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode coincap response: %w", err)
	}

	assets := make([]domain.Asset, 0, len(payload.Data))
	for _, row := range payload.Data {
		if row.ID == "" && row.Symbol == "" {
			continue
		}
		price := parseFloatString(row.PriceUSD)
		change24h := parseFloatString(row.ChangePercent24h)
		supply := parseFloatString(row.Supply)
		assets = append(assets, domain.Asset{
			ID:                row.ID,
			Symbol:            normalizeSymbol(row.Symbol),
			Name:              row.Name,
			PriceUSD:          price,
			Change24hPct:      change24h,
			Change24hUSD:      price * change24h / 100,
			Volume24h:         parseFloatString(row.VolumeUSD24Hr),
			MarketCap:         parseFloatString(row.MarketCapUSD),
			Rank:              int(parseFloatString(row.Rank)),
			CirculatingSupply: supply,
			TotalSupply:       supply,
			MaxSupply:         parseFloatString(row.MaxSupply),
		})
	}
	return assets, nil
}
