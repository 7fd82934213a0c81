package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/wavecrate/cuedex/internal/models"
	"github.com/wavecrate/cuedex/internal/shared"
)

// CatalogClient talks to the track catalog over HTTP. It implements both
// [Searcher] and [Fetcher] so the two collaborators share one rate limiter,
// one HTTP client and one cache.
type CatalogClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      Cache
	ttl        time.Duration
	logger     *log.Logger
}

// NewCatalogClient creates a catalog client from the catalog configuration.
//
// When client-credentials auth is configured the HTTP client transparently
// attaches bearer tokens; otherwise requests go out anonymously.
func NewCatalogClient(cfg shared.CatalogConfig, cache Cache, ttl time.Duration, logger *log.Logger) *CatalogClient {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	if cfg.Auth.Enabled() {
		creds := clientcredentials.Config{
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			TokenURL:     cfg.Auth.TokenURL,
		}
		httpClient = creds.Client(context.Background())
		httpClient.Timeout = 30 * time.Second
	}

	return &CatalogClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1),
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
	}
}

func (c *CatalogClient) get(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return doc, nil
}

// Search runs one query against the catalog search page and returns candidate
// track URLs in page order. Results are cached per query text.
func (c *CatalogClient) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	key := shared.CacheKey("search", query, strconv.Itoa(maxResults))
	if cached, ok := c.cache.Get(key); ok {
		var urls []string
		if err := json.Unmarshal([]byte(cached), &urls); err == nil {
			return urls, nil
		}
		c.logger.Warn("discarding malformed cached search result", "key", key)
	}

	searchURL := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(query))
	doc, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", shared.ErrSearchFailed, query, err)
	}

	seen := make(map[string]bool)
	var urls []string
	doc.Find("ol.results a.result-link").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return true
		}
		abs := c.absoluteURL(href)
		if seen[abs] {
			return true
		}
		seen[abs] = true
		urls = append(urls, abs)
		return len(urls) < maxResults
	})

	if data, err := json.Marshal(urls); err == nil {
		if err := c.cache.Set(key, string(data), c.ttl); err != nil {
			c.logger.Warn("failed to cache search result", "query", query, "error", err)
		}
	}
	return urls, nil
}

// Fetch retrieves one track page and extracts its release fields. Pages are
// cached per URL.
func (c *CatalogClient) Fetch(ctx context.Context, pageURL string) (*models.ReleaseFields, error) {
	key := shared.CacheKey("release", pageURL)
	if cached, ok := c.cache.Get(key); ok {
		var fields models.ReleaseFields
		if err := json.Unmarshal([]byte(cached), &fields); err == nil {
			return &fields, nil
		}
		c.logger.Warn("discarding malformed cached release", "key", key)
	}

	doc, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrFetchFailed, pageURL, err)
	}

	fields := c.parseTrackPage(doc, pageURL)
	if fields.Title == "" {
		return nil, fmt.Errorf("%w: %s: page has no track title", shared.ErrFetchFailed, pageURL)
	}

	if data, err := json.Marshal(fields); err == nil {
		if err := c.cache.Set(key, string(data), c.ttl); err != nil {
			c.logger.Warn("failed to cache release", "url", pageURL, "error", err)
		}
	}
	return fields, nil
}

// parseTrackPage extracts release fields from the catalog's track page markup.
func (c *CatalogClient) parseTrackPage(doc *goquery.Document, pageURL string) *models.ReleaseFields {
	fields := &models.ReleaseFields{URL: pageURL}

	fields.Title = strings.TrimSpace(doc.Find("h1.track-title").First().Text())

	var artists []string
	doc.Find(".track-artists a").Each(func(_ int, sel *goquery.Selection) {
		if name := strings.TrimSpace(sel.Text()); name != "" {
			artists = append(artists, name)
		}
	})
	fields.Artists = strings.Join(artists, ", ")

	doc.Find("table.track-meta tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(row.Find("th").First().Text()))
		value := strings.TrimSpace(row.Find("td").First().Text())
		if value == "" {
			return
		}
		switch label {
		case "key":
			fields.Key = value
		case "bpm":
			if bpm, err := strconv.Atoi(value); err == nil {
				fields.BPM = bpm
			}
		case "label":
			fields.Label = value
		case "genre":
			fields.Genre = value
		case "release":
			fields.ReleaseName = value
		case "released":
			fields.ReleaseDate = value
			if len(value) >= 4 {
				if year, err := strconv.Atoi(value[:4]); err == nil {
					fields.Year = year
				}
			}
		}
	})

	return fields
}

func (c *CatalogClient) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return c.baseURL + href
}
