package provider

import (
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// Provider categories used to group descriptors in the registry.
const (
	CategoryMarket  = "market"
	CategoryNews    = "news"
	CategorySocial  = "social"
	CategoryIndex   = "index"
	CategoryOnChain = "onchain"
	CategoryRates   = "rates"
)

// RateBudget is the documented request allowance for a provider. It is
// advisory: only providers that construct a RateLimiter from it enforce it.
type RateBudget struct {
	Requests int
	Interval time.Duration
}

// Descriptor describes one upstream API: where it lives, which endpoint
// paths it serves, and whether the aggregator should consult it.
type Descriptor struct {
	Name      string
	Category  string
	BaseURL   string
	Endpoints map[string]string
	Budget    RateBudget
	Active    bool
	Priority  int
}

// Registry holds the static provider descriptor table. Descriptors are
// configured once at startup; only the active flag is mutable afterwards.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
}

func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{descriptors: make(map[string]*Descriptor, len(descriptors))}
	for i := range descriptors {
		d := descriptors[i]
		r.descriptors[d.Name] = &d
	}
	return r
}

// DefaultRegistry builds the built-in provider table. The CryptoPanic news
// provider requires an auth token and stays inactive until one is supplied.
func DefaultRegistry(cryptoPanicToken string) *Registry {
	return NewRegistry(
		Descriptor{
			Name:     "coingecko",
			Category: CategoryMarket,
			BaseURL:  "https://api.coingecko.com/api/v3",
			Endpoints: map[string]string{
				"markets": "/coins/markets",
				"global":  "/global",
			},
			Budget:   RateBudget{Requests: 8, Interval: time.Minute},
			Active:   true,
			Priority: 1,
		},
		Descriptor{
			Name:     "coinpaprika",
			Category: CategoryMarket,
			BaseURL:  "https://api.coinpaprika.com/v1",
			Endpoints: map[string]string{
				"tickers": "/tickers",
			},
			Budget:   RateBudget{Requests: 10, Interval: time.Second},
			Active:   true,
			Priority: 2,
		},
		Descriptor{
			Name:     "coincap",
			Category: CategoryMarket,
			BaseURL:  "https://api.coincap.io/v2",
			Endpoints: map[string]string{
				"assets": "/assets",
			},
			Budget:   RateBudget{Requests: 200, Interval: time.Minute},
			Active:   true,
			Priority: 3,
		},
		Descriptor{
			Name:     "cryptocompare",
			Category: CategoryNews,
			BaseURL:  "https://min-api.cryptocompare.com",
			Endpoints: map[string]string{
				"news": "/data/v2/news/",
			},
			Budget:   RateBudget{Requests: 50, Interval: time.Minute},
			Active:   true,
			Priority: 1,
		},
		Descriptor{
			Name:     "coindesk-rss",
			Category: CategoryNews,
			BaseURL:  "https://www.coindesk.com",
			Endpoints: map[string]string{
				"feed": "/arc/outboundfeeds/rss/",
			},
			Active:   true,
			Priority: 2,
		},
		Descriptor{
			Name:     "cointelegraph-rss",
			Category: CategoryNews,
			BaseURL:  "https://cointelegraph.com",
			Endpoints: map[string]string{
				"feed": "/rss",
			},
			Active:   true,
			Priority: 3,
		},
		Descriptor{
			Name:     "cryptopanic",
			Category: CategoryNews,
			BaseURL:  "https://cryptopanic.com/api/v1",
			Endpoints: map[string]string{
				"posts": "/posts/",
			},
			Budget:   RateBudget{Requests: 5, Interval: time.Second},
			Active:   cryptoPanicToken != "",
			Priority: 4,
		},
		Descriptor{
			Name:     "reddit",
			Category: CategorySocial,
			BaseURL:  "https://www.reddit.com",
			Endpoints: map[string]string{
				"search": "/search.json",
			},
			Budget:   RateBudget{Requests: 60, Interval: time.Minute},
			Active:   true,
			Priority: 1,
		},
		Descriptor{
			Name:     "stocktwits",
			Category: CategorySocial,
			BaseURL:  "https://api.stocktwits.com/api/2",
			Endpoints: map[string]string{
				"stream": "/streams/symbol",
			},
			Budget:   RateBudget{Requests: 200, Interval: time.Hour},
			Active:   true,
			Priority: 2,
		},
		Descriptor{
			Name:     "alternative-me",
			Category: CategoryIndex,
			BaseURL:  "https://api.alternative.me",
			Endpoints: map[string]string{
				"fng": "/fng/",
			},
			Active:   true,
			Priority: 1,
		},
		Descriptor{
			Name:     "btc-mempool",
			Category: CategoryOnChain,
			BaseURL:  "https://mempool.space",
			Endpoints: map[string]string{
				"statistics": "/api/v1/statistics/24h",
			},
			Active:   false,
			Priority: 1,
		},
		Descriptor{
			Name:     "open-er-api",
			Category: CategoryRates,
			BaseURL:  "https://open.er-api.com/v6",
			Endpoints: map[string]string{
				"latest": "/latest/USD",
			},
			Active:   true,
			Priority: 1,
		},
	)
}

func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[name]
	if !ok {
		return Descriptor{}, false
	}
	return *d, true
}

// MustGet panics on an unknown name; descriptors are wired at startup, so a
// miss is a construction bug, not a runtime condition.
func (r *Registry) MustGet(name string) Descriptor {
	d, ok := r.Get(name)
	if !ok {
		panic("provider: unknown descriptor " + name)
	}
	return d
}

// SetNewsFeeds replaces the built-in RSS feed descriptors with one
// descriptor per feed URL. Non-feed news providers keep their slots, and
// URLs that do not name a host are dropped.
func (r *Registry) SetNewsFeeds(feedURLs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, d := range r.descriptors {
		if d.Category == CategoryNews && d.Endpoints["feed"] != "" {
			delete(r.descriptors, name)
		}
	}
	priority := 2
	for _, raw := range feedURLs {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Host == "" || u.Scheme == "" {
			continue
		}
		d := Descriptor{
			Name:      "rss-" + strings.TrimPrefix(u.Host, "www."),
			Category:  CategoryNews,
			BaseURL:   u.Scheme + "://" + u.Host,
			Endpoints: map[string]string{"feed": u.RequestURI()},
			Active:    true,
			Priority:  priority,
		}
		r.descriptors[d.Name] = &d
		priority++
	}
}

func (r *Registry) SetActive(name string, active bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.descriptors[name]
	if !ok {
		return false
	}
	d.Active = active
	return true
}

// Status reports the active flag per provider name, for display/debugging.
func (r *Registry) Status() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(r.descriptors))
	for name, d := range r.descriptors {
		out[name] = d.Active
	}
	return out
}

// ByCategory returns the active descriptors in a category, ordered by
// ascending priority rank.
func (r *Registry) ByCategory(category string) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Descriptor
	for _, d := range r.descriptors {
		if d.Category == category && d.Active {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}
