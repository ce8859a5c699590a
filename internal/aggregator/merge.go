package aggregator

import (
	"sort"

	"tickerhub/internal/domain"
)

// mergeAssets folds src into dst. Identity is symbol or id, first match
// wins. On collision the incoming record's populated fields win, except
// price, which is averaged with the existing value to smooth cross-source
// discrepancies.
func mergeAssets(dst, src []domain.Asset) []domain.Asset {
	bySymbol := make(map[string]int, len(dst))
	byID := make(map[string]int, len(dst))
	for i, a := range dst {
		if a.Symbol != "" {
			bySymbol[a.Symbol] = i
		}
		if a.ID != "" {
			byID[a.ID] = i
		}
	}

	for _, incoming := range src {
		idx := -1
		if incoming.Symbol != "" {
			if i, ok := bySymbol[incoming.Symbol]; ok {
				idx = i
			}
		}
		if idx < 0 && incoming.ID != "" {
			if i, ok := byID[incoming.ID]; ok {
				idx = i
			}
		}
		if idx < 0 {
			dst = append(dst, incoming)
			i := len(dst) - 1
			if incoming.Symbol != "" {
				bySymbol[incoming.Symbol] = i
			}
			if incoming.ID != "" {
				byID[incoming.ID] = i
			}
			continue
		}
		dst[idx] = overlayAsset(dst[idx], incoming)
	}
	return dst
}

func overlayAsset(existing, incoming domain.Asset) domain.Asset {
	merged := existing
	switch {
	case existing.PriceUSD > 0 && incoming.PriceUSD > 0:
		merged.PriceUSD = (existing.PriceUSD + incoming.PriceUSD) / 2
	case incoming.PriceUSD > 0:
		merged.PriceUSD = incoming.PriceUSD
	}
	if incoming.Name != "" {
		merged.Name = incoming.Name
	}
	if incoming.Change1hPct != 0 {
		merged.Change1hPct = incoming.Change1hPct
	}
	if incoming.Change24hPct != 0 {
		merged.Change24hPct = incoming.Change24hPct
	}
	if incoming.Change7dPct != 0 {
		merged.Change7dPct = incoming.Change7dPct
	}
	if incoming.Change30dPct != 0 {
		merged.Change30dPct = incoming.Change30dPct
	}
	if incoming.Change24hUSD != 0 {
		merged.Change24hUSD = incoming.Change24hUSD
	}
	if incoming.Volume24h > 0 {
		merged.Volume24h = incoming.Volume24h
	}
	if incoming.MarketCap > 0 {
		merged.MarketCap = incoming.MarketCap
	}
	if incoming.Rank > 0 {
		merged.Rank = incoming.Rank
	}
	if incoming.Image != "" {
		merged.Image = incoming.Image
	}
	if incoming.CirculatingSupply > 0 {
		merged.CirculatingSupply = incoming.CirculatingSupply
	}
	if incoming.TotalSupply > 0 {
		merged.TotalSupply = incoming.TotalSupply
	}
	if incoming.MaxSupply > 0 {
		merged.MaxSupply = incoming.MaxSupply
	}
	return merged
}

func sortAssetsByMarketCap(assets []domain.Asset) {
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].MarketCap > assets[j].MarketCap
	})
}

// dedupeNews collapses items with identical titles, keeping the first
// occurrence (sources are merged in priority order, so higher-priority
// sources win the slot).
func dedupeNews(items []domain.NewsItem) []domain.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item.Title]; ok {
			continue
		}
		seen[item.Title] = struct{}{}
		out = append(out, item)
	}
	return out
}

func sortNewsByRecency(items []domain.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}
