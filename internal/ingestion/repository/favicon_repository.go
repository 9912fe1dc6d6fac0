package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickmn/go-cache"

	"golang-stock-newsdigest/pkg/logger"
)

const faviconUserAgent = "Mozilla/5.0 (compatible; newsdigest/1.0)"

// faviconRepository scrapes a site's home page for its icon link.
type faviconRepository struct {
	client *http.Client
	cache  *cache.Cache
	logger *logger.Logger
}

// NewFaviconRepository creates a FaviconRepository that remembers results per host for ttl.
func NewFaviconRepository(client *http.Client, ttl time.Duration, log *logger.Logger) FaviconRepository {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &faviconRepository{
		client: client,
		cache:  cache.New(ttl, 2*ttl),
		logger: log,
	}
}

// ResolveFavicon returns the absolute icon URL for the host of pageURL. When the home page
// declares no icon the conventional /favicon.ico location is returned.
func (r *faviconRepository) ResolveFavicon(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("invalid page url %q", pageURL)
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
	}
	home := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: "/"}

	if cached, ok := r.cache.Get(parsed.Host); ok {
		return cached.(string), nil
	}

	icon, err := r.scrapeIcon(ctx, home)
	if err != nil {
		r.logger.Debug("Favicon scrape failed, using default location",
			logger.StringField("host", parsed.Host),
			logger.ErrorField(err),
		)
	}
	if icon == "" {
		icon = home.ResolveReference(&url.URL{Path: "/favicon.ico"}).String()
	}

	r.cache.Set(parsed.Host, icon, cache.DefaultExpiration)
	return icon, nil
}

func (r *faviconRepository) scrapeIcon(ctx context.Context, home *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, home.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", faviconUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var href string
	for _, selector := range []string{
		`link[rel~="icon"]`,
		`link[rel="shortcut icon"]`,
		`link[rel="apple-touch-icon"]`,
	} {
		if v, ok := doc.Find(selector).First().Attr("href"); ok && strings.TrimSpace(v) != "" {
			href = strings.TrimSpace(v)
			break
		}
	}
	if href == "" {
		return "", nil
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return home.ResolveReference(ref).String(), nil
}
