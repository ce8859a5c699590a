package domain

import "time"

// Asset is the normalized shape every market provider payload is mapped into.
// Identity for merge purposes is Symbol or ID, whichever matches first.
type Asset struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	PriceUSD          float64 `json:"price_usd"`
	Change1hPct       float64 `json:"change_1h_pct"`
	Change24hPct      float64 `json:"change_24h_pct"`
	Change7dPct       float64 `json:"change_7d_pct"`
	Change30dPct      float64 `json:"change_30d_pct"`
	Change24hUSD      float64 `json:"change_24h_usd"`
	Volume24h         float64 `json:"volume_24h"`
	MarketCap         float64 `json:"market_cap"`
	Rank              int     `json:"rank"`
	Image             string  `json:"image,omitempty"`
	CirculatingSupply float64 `json:"circulating_supply"`
	TotalSupply       float64 `json:"total_supply"`
	MaxSupply         float64 `json:"max_supply"`
}

// NewsItem is a normalized news article. Items are deduplicated across
// sources by exact title match before reaching callers.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	FetchedAt   time.Time `json:"fetched_at"`
	Sentiment   string    `json:"sentiment"`
	Relevance   float64   `json:"relevance"`
	Categories  []string  `json:"categories,omitempty"`
}

type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "bullish"
	SentimentBearish SentimentLabel = "bearish"
	SentimentNeutral SentimentLabel = "neutral"
)

// SentimentSample is one platform's read on one symbol. Score is in [-1, 1].
type SentimentSample struct {
	Platform   string         `json:"platform"`
	Symbol     string         `json:"symbol"`
	Label      SentimentLabel `json:"label"`
	Score      float64        `json:"score"`
	Mentions   int            `json:"mentions"`
	Engagement float64        `json:"engagement"`
	FetchedAt  time.Time      `json:"fetched_at"`
}

// LabelForScore maps a sentiment score onto the coarse label taxonomy.
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score > 0.2:
		return SentimentBullish
	case score < -0.2:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

// FearGreed is the 0-100 market sentiment index.
type FearGreed struct {
	Value          int       `json:"value"`
	Classification string    `json:"classification"`
	Timestamp      time.Time `json:"timestamp"`
}

// NeutralFearGreed is the fallback when the index provider is unreachable.
func NeutralFearGreed(now time.Time) FearGreed {
	return FearGreed{Value: 50, Classification: "Neutral", Timestamp: now.UTC()}
}

// OnChainMetrics summarizes network activity for one asset. Synthetic is true
// when the values were generated by the stub provider rather than fetched
// from a chain explorer.
type OnChainMetrics struct {
	Symbol      string             `json:"symbol"`
	ProviderKey string             `json:"provider_key"`
	FetchedAt   time.Time          `json:"fetched_at"`
	Metrics     map[string]float64 `json:"metrics"`
	Synthetic   bool               `json:"synthetic"`
}
