package provider

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tickerhub/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// RSSNewsProvider fetches a single RSS feed and normalizes its items.
type RSSNewsProvider struct {
	client  *http.Client
	name    string
	feedURL string
	tracer  trace.Tracer
}

func NewRSSNewsProvider(tracer trace.Tracer, desc Descriptor) *RSSNewsProvider {
	return &RSSNewsProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		name:    desc.Name,
		feedURL: strings.TrimRight(desc.BaseURL, "/") + desc.Endpoints["feed"],
		tracer:  tracer,
	}
}

func (p *RSSNewsProvider) Name() string { return p.name }

func (p *RSSNewsProvider) FetchNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	_, span := p.tracer.Start(ctx, "rss.fetch-news")
	defer span.End()

	if limit <= 0 {
		limit = 40
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rss fetch error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var rss struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title       string   `xml:"title"`
				Link        string   `xml:"link"`
				Description string   `xml:"description"`
				GUID        string   `xml:"guid"`
				PubDate     string   `xml:"pubDate"`
				Categories  []string `xml:"category"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, fmt.Errorf("decode rss payload: %w", err)
	}

	now := time.Now().UTC()
	items := make([]domain.NewsItem, 0, min(limit, len(rss.Channel.Items)))
	for i, row := range rss.Channel.Items {
		if i >= limit {
			break
		}
		title := sanitizeText(row.Title, 300)
		if title == "" {
			continue
		}
		publishedAt := parseRSSDate(row.PubDate)
		if publishedAt.IsZero() {
			publishedAt = now
		}
		id := sanitizeText(row.GUID, 250)
		if id == "" {
			id = sanitizeText(row.Link, 250)
		}
		if id == "" {
			h := sha1.Sum([]byte(title + "|" + publishedAt.Format(time.RFC3339Nano)))
			id = hex.EncodeToString(h[:])
		}
		var categories []string
		for _, c := range row.Categories {
			if c = sanitizeText(c, 60); c != "" {
				categories = append(categories, c)
			}
		}

		score := lexiconScore(title)
		items = append(items, domain.NewsItem{
			ID:          p.name + ":" + id,
			Title:       title,
			Summary:     sanitizeText(htmlStrip(row.Description), 420),
			URL:         sanitizeText(row.Link, 500),
			Source:      sanitizeText(rss.Channel.Title, 120),
			PublishedAt: publishedAt.UTC(),
			FetchedAt:   now,
			Sentiment:   string(domain.LabelForScore(score)),
			Relevance:   confidenceFromScore(score),
			Categories:  categories,
		})
	}

	return items, nil
}

func parseRSSDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
