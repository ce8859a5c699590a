package aggregator

import (
	"strings"
	"sync"
)

// RateTable holds USD-relative exchange rates. Refreshes replace the table
// wholesale; there is no partial update path.
type RateTable struct {
	mu    sync.RWMutex
	rates map[string]float64
}

func NewRateTable() *RateTable {
	return &RateTable{rates: map[string]float64{"USD": 1}}
}

func (t *RateTable) Replace(rates map[string]float64) {
	next := make(map[string]float64, len(rates)+1)
	for code, rate := range rates {
		if rate > 0 {
			next[strings.ToUpper(strings.TrimSpace(code))] = rate
		}
	}
	next["USD"] = 1
	t.mu.Lock()
	t.rates = next
	t.mu.Unlock()
}

// Rate returns the multiplier for a currency code relative to USD.
// Unknown codes behave as USD (rate 1).
func (t *RateTable) Rate(code string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if rate, ok := t.rates[strings.ToUpper(strings.TrimSpace(code))]; ok && rate > 0 {
		return rate
	}
	return 1
}

// Convert applies amount / rate(from) * rate(to). No rounding is applied;
// display rounding is the caller's concern.
func (t *RateTable) Convert(amount float64, from, to string) float64 {
	return amount / t.Rate(from) * t.Rate(to)
}

func (t *RateTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rates)
}
