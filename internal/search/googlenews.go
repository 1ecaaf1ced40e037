// Package search implements the news-search adapter over a Google News RSS
// query feed, scoped to articles from the last day.
package search

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SlyMarbo/rss"
	"github.com/go-shiori/go-readability"
	"github.com/samber/lo"

	"newsdigest/internal/model"
)

const (
	dayWindow      = 24 * time.Hour
	maxExcerptRune = 800
)

// contextTransport injects a context into every outgoing request so that
// context cancellation and deadlines propagate through the rss library.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

type GoogleNews struct {
	FeedURL string
	Timeout time.Duration
	MaxHits int
}

func NewGoogleNews(feedURL string, timeout time.Duration, maxHits int) *GoogleNews {
	return &GoogleNews{
		FeedURL: feedURL,
		Timeout: timeout,
		MaxHits: maxHits,
	}
}

// News returns recent hits for the query. The feed query carries a when:1d
// qualifier and hits dated outside the window are dropped anyway, since the
// feed occasionally leaks older entries.
func (g *GoogleNews) News(ctx context.Context, query string) ([]model.Hit, error) {
	client := &http.Client{
		Transport: contextTransport{ctx: ctx, base: http.DefaultTransport},
		Timeout:   g.Timeout,
	}

	feed, err := rss.FetchByClient(g.queryURL(query), client)
	if err != nil {
		return nil, fmt.Errorf("fetch news feed: %w", err)
	}

	cutoff := time.Now().Add(-dayWindow)
	items := lo.Filter(feed.Items, func(item *rss.Item, _ int) bool {
		return !item.Date.Before(cutoff)
	})
	if g.MaxHits > 0 && len(items) > g.MaxHits {
		items = items[:g.MaxHits]
	}

	hits := lo.Map(items, func(item *rss.Item, _ int) model.Hit {
		return model.Hit{
			Title:   item.Title,
			URL:     item.Link,
			Date:    item.Date,
			Excerpt: itemText(item),
		}
	})

	for i := range hits {
		if hits[i].Excerpt != "" {
			continue
		}
		excerpt, err := g.fetchExcerpt(client, hits[i].URL)
		if err != nil {
			log.Printf("[ERROR] failed to extract excerpt for %s: %v", hits[i].URL, err)
			continue
		}
		hits[i].Excerpt = excerpt
	}

	return hits, nil
}

func (g *GoogleNews) queryURL(query string) string {
	q := url.Values{}
	q.Set("q", query+" when:1d")
	q.Set("hl", "en-US")
	q.Set("gl", "US")
	q.Set("ceid", "US:en")
	return g.FeedURL + "?" + q.Encode()
}

// itemText returns the richest available text for an item.
// Content (full body) is preferred over Summary (short excerpt); falling back
// to Summary avoids an extra page fetch for feeds that omit Content.
func itemText(item *rss.Item) string {
	if c := strings.TrimSpace(item.Content); c != "" {
		return c
	}
	return strings.TrimSpace(item.Summary)
}

// fetchExcerpt pulls the article page and extracts readable text as a
// best-effort stand-in for a missing feed excerpt.
func (g *GoogleNews) fetchExcerpt(client *http.Client, link string) (string, error) {
	resp, err := client.Get(link)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	doc, err := readability.FromReader(resp.Body, nil)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(doc.TextContent)
	if runes := []rune(text); len(runes) > maxExcerptRune {
		text = string(runes[:maxExcerptRune])
	}
	return text, nil
}
