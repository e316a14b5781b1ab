package books

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// GoodreadsProvider scrapes the currently-reading shelf from a public
// Goodreads profile. Fallback source: markup changes break it silently, so it
// sits behind the API-backed provider in the chain.
type GoodreadsProvider struct {
	userID  string
	baseURL string
	client  *http.Client
}

// GoodreadsConfig wires the Goodreads provider.
type GoodreadsConfig struct {
	// UserID is the numeric profile id whose shelf is scraped; required.
	UserID string
	// BaseURL overrides the site origin (tests point it at a stub).
	BaseURL string
	// HTTPClient performs requests; defaults to a client with a short timeout.
	HTTPClient *http.Client
}

// NewGoodreadsProvider builds the Goodreads reading-list provider.
func NewGoodreadsProvider(cfg GoodreadsConfig) *GoodreadsProvider {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://www.goodreads.com"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &GoodreadsProvider{
		userID:  strings.TrimSpace(cfg.UserID),
		baseURL: base,
		client:  client,
	}
}

// Name identifies the provider in payloads and logs.
func (p *GoodreadsProvider) Name() string { return "goodreads" }

// Fetch scrapes the shelf page and extracts one Book per review row.
func (p *GoodreadsProvider) Fetch(ctx context.Context) ([]Book, error) {
	if p.userID == "" {
		return nil, fmt.Errorf("books: goodreads user id not configured")
	}

	endpoint := fmt.Sprintf("%s/review/list/%s?shelf=currently-reading", p.baseURL, p.userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "go-blog/1.0")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("books: goodreads status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("books: parse goodreads page: %w", err)
	}

	var result []Book
	doc.Find("tr.bookalike.review").Each(func(_ int, row *goquery.Selection) {
		titleLink := row.Find("td.field.title a").First()
		book := Book{
			Title:    strings.TrimSpace(titleLink.Text()),
			Author:   strings.TrimSpace(row.Find("td.field.author a").First().Text()),
			CoverURL: row.Find("td.field.cover img").First().AttrOr("src", ""),
		}
		if href := titleLink.AttrOr("href", ""); href != "" {
			if strings.HasPrefix(href, "/") {
				href = p.baseURL + href
			}
			book.URL = href
		}
		if book.Title != "" {
			result = append(result, book)
		}
	})

	return result, nil
}
