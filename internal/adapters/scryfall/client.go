// Package scryfall fetches card lists from the Scryfall search API. It is
// used only when seeding the catalog, never on the request path.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mtgrater/mtgrater/pkg/logger"
)

// Card is one printed card as returned by the search API.
type Card struct {
	SetCode  string `json:"set"`
	Name     string `json:"name"`
	CardCode string `json:"collector_number"`
}

type searchPage struct {
	Data    []Card `json:"data"`
	HasMore bool   `json:"has_more"`
}

// Fetcher is the lookup contract consumed by the seeder.
type Fetcher interface {
	// Cards returns every card matching query, deduplicated by
	// (set, collector number). query is already URL-encoded Scryfall
	// search syntax.
	Cards(ctx context.Context, query string) ([]Card, error)
}

// Client implements Fetcher against the HTTP API.
type Client struct {
	baseURL   string
	userAgent string
	pageDelay time.Duration
	hc        *http.Client
	log       logger.Logger
}

// NewClient creates a client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   "https://api.scryfall.com",
		userAgent: "mtgrater/1.0",
		pageDelay: 100 * time.Millisecond,
		hc:        &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("scryfall")
	}
	return c
}

// Cards implements Fetcher. Pages start at one; the scan ends on an empty
// page, on has_more=false, or on the API's 404 "no cards found" answer.
func (c *Client) Cards(ctx context.Context, query string) ([]Card, error) {
	type key struct{ set, code string }
	seen := make(map[key]struct{})
	var cards []Card

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/cards/search?q=-is%%3Adigital+%s&order=set&unique=cards&page=%d",
			c.baseURL, query, page)
		c.log.Debug(ctx, "fetching card page", logger.String("url", url))

		result, err := c.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}
		if result == nil || len(result.Data) == 0 {
			break
		}

		for _, card := range result.Data {
			k := key{card.SetCode, card.CardCode}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			cards = append(cards, card)
		}

		if !result.HasMore {
			break
		}

		// The API asks clients to pace burst traffic.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pageDelay):
		}
	}

	return cards, nil
}

// fetchPage returns nil for the API's not-found answer, which ends a scan.
func (c *Client) fetchPage(ctx context.Context, url string) (*searchPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	var page searchPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrFetch, err)
	}
	return &page, nil
}
