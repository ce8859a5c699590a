package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port   int
	APIKey string

	RedisURL         string
	TelegramBotToken string
	CryptoPanicToken string

	MarketTTLSecs    int
	NewsTTLSecs      int
	RatesRefreshSecs int

	WarmPollSecs    int
	MarketWarmLimit int

	OnChainLive bool

	NewsFeeds  []string
	RedditSubs []string
}

func Load() *Config {
	cfg := &Config{
		APIKey:           os.Getenv("API_KEY"),
		RedisURL:         os.Getenv("REDIS_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		CryptoPanicToken: os.Getenv("CRYPTOPANIC_TOKEN"),
	}

	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, falling back to in-memory cache")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, Telegram bot disabled")
	}

	cfg.Port = 8080
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}

	cfg.MarketTTLSecs = 30
	if v := strings.TrimSpace(os.Getenv("MARKET_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MarketTTLSecs = n
		}
	}

	cfg.NewsTTLSecs = 300
	if v := strings.TrimSpace(os.Getenv("NEWS_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NewsTTLSecs = n
		}
	}

	cfg.RatesRefreshSecs = 3600
	if v := strings.TrimSpace(os.Getenv("RATES_REFRESH_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RatesRefreshSecs = n
		}
	}

	cfg.WarmPollSecs = 0
	if v := strings.TrimSpace(os.Getenv("WARM_POLL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.WarmPollSecs = n
		}
	}

	cfg.MarketWarmLimit = 100
	if v := strings.TrimSpace(os.Getenv("MARKET_WARM_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MarketWarmLimit = n
		}
	}

	cfg.OnChainLive = strings.EqualFold(strings.TrimSpace(os.Getenv("ONCHAIN_LIVE")), "true")

	cfg.NewsFeeds = []string{
		"https://www.coindesk.com/arc/outboundfeeds/rss/",
		"https://cointelegraph.com/rss",
	}
	if v := strings.TrimSpace(os.Getenv("NEWS_FEEDS")); v != "" {
		feeds := splitAndTrim(v)
		if len(feeds) > 0 {
			cfg.NewsFeeds = feeds
		}
	}

	cfg.RedditSubs = []string{"CryptoCurrency", "CryptoMarkets"}
	if v := strings.TrimSpace(os.Getenv("REDDIT_SUBS")); v != "" {
		subs := splitAndTrim(v)
		if len(subs) > 0 {
			cfg.RedditSubs = subs
		}
	}

	return cfg
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
