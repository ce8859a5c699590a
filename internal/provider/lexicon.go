package provider

import (
	"math"
	"strings"
)

// Keyword lexicon for coarse headline/post scoring. The weights only need to
// separate clearly bullish from clearly bearish text; anything ambiguous
// lands near zero and gets labeled neutral.
var (
	bullishWords = map[string]float64{
		"surge": 1, "soar": 1, "rally": 1, "bull": 1, "bullish": 1,
		"gain": 0.8, "gains": 0.8, "pump": 0.8, "moon": 0.8, "ath": 0.8,
		"breakout": 0.8, "adoption": 0.6, "approve": 0.6, "approved": 0.6,
		"record": 0.6, "rise": 0.6, "rises": 0.6, "up": 0.4, "buy": 0.4,
		"accumulate": 0.4, "growth": 0.4,
	}
	bearishWords = map[string]float64{
		"crash": 1, "plunge": 1, "collapse": 1, "bear": 1, "bearish": 1,
		"dump": 0.8, "selloff": 0.8, "sell-off": 0.8, "hack": 0.8,
		"exploit": 0.8, "ban": 0.8, "lawsuit": 0.6, "fraud": 0.8,
		"drop": 0.6, "drops": 0.6, "fall": 0.6, "falls": 0.6, "fear": 0.6,
		"down": 0.4, "sell": 0.4, "liquidation": 0.6, "scam": 0.8,
	}
)

// lexiconScore scores text in [-1, 1] from keyword hits. Zero hits score 0.
func lexiconScore(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	score := 0.0
	hits := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?:;\"'()[]#$")
		if w, ok := bullishWords[word]; ok {
			score += w
			hits++
		}
		if w, ok := bearishWords[word]; ok {
			score -= w
			hits++
		}
	}
	if hits == 0 {
		return 0
	}
	return clamp(score/math.Max(float64(hits), 2), -1, 1)
}

func confidenceFromScore(score float64) float64 {
	return clamp(0.35+(0.65*math.Abs(score)), 0, 1)
}
