package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"tickerhub/internal/aggregator"
)

func StartTelegramBot(svc *aggregator.Service, token string) {
	if token == "" {
		log.Println("no Telegram bot token configured, skipping bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/price", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /price BTC")
		}
		symbol := strings.ToUpper(args[0])
		assets := svc.MarketData(context.Background(), 250)
		if len(assets) == 0 {
			return c.Send("Market data is unavailable right now")
		}
		for _, a := range assets {
			if a.Symbol != symbol {
				continue
			}
			msg := fmt.Sprintf(
				"%s (%s)\nPrice: $%.2f\n24h Change: %.2f%%\n24h Volume: $%.0f\nMarket Cap: $%.0f",
				a.Name, a.Symbol, a.PriceUSD, a.Change24hPct, a.Volume24h, a.MarketCap,
			)
			return c.Send(msg)
		}
		return c.Send(fmt.Sprintf("Unknown symbol: %s", symbol))
	})

	b.Handle("/news", func(c tele.Context) error {
		items := svc.News(context.Background(), 5)
		if len(items) == 0 {
			return c.Send("No news available right now")
		}
		var sb strings.Builder
		sb.WriteString("Latest crypto news:\n")
		for _, item := range items {
			fmt.Fprintf(&sb, "\n%s (%s)\n%s\n", item.Title, item.Source, item.URL)
		}
		return c.Send(sb.String())
	})

	b.Handle("/feargreed", func(c tele.Context) error {
		fg := svc.FearGreedIndex(context.Background())
		return c.Send(fmt.Sprintf("Fear & Greed Index: %d (%s)", fg.Value, fg.Classification))
	})

	b.Handle("/convert", func(c tele.Context) error {
		args := c.Args()
		if len(args) != 3 {
			return c.Send("Usage: /convert 100 USD EUR")
		}
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return c.Send(fmt.Sprintf("Invalid amount: %s", args[0]))
		}
		from, to := strings.ToUpper(args[1]), strings.ToUpper(args[2])
		converted := svc.ConvertCurrency(amount, from, to)
		return c.Send(fmt.Sprintf("%.2f %s = %.2f %s", amount, from, converted, to))
	})

	log.Println("Telegram bot started")
	go b.Start()
}
