package urls

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// Route names registered under the site group.
const (
	RouteHome    = "home"
	RoutePost    = "post"
	RouteTag     = "tag"
	RouteFeed    = "feed"
	RouteSitemap = "sitemap"
)

// Config holds the site addressing settings.
type Config struct {
	// BaseURL is the public origin of the site, e.g. "https://example.com".
	BaseURL string
	// BlogPath is the article route prefix; defaults to "/blog".
	BlogPath string
}

// Site builds public URLs for posts, tags, and generated artifacts through a
// go-urlkit route manager so path templates live in one place.
type Site struct {
	manager *urlkit.RouteManager
	baseURL string
}

// New constructs a Site from the supplied configuration.
func New(cfg Config) (*Site, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("urls: base URL required")
	}

	blogPath := strings.TrimSpace(cfg.BlogPath)
	if blogPath == "" {
		blogPath = "/blog"
	}
	blogPath = "/" + strings.Trim(blogPath, "/")

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "site",
				BaseURL: base,
				Paths: map[string]string{
					RouteHome:    "/",
					RoutePost:    blogPath + "/:slug",
					RouteTag:     "/tags/:tag",
					RouteFeed:    "/feed.xml",
					RouteSitemap: "/sitemap.xml",
				},
			},
		},
	})

	return &Site{manager: manager, baseURL: base}, nil
}

// BaseURL returns the configured site origin without a trailing slash.
func (s *Site) BaseURL() string {
	return s.baseURL
}

// Home returns the site root URL.
func (s *Site) Home() (string, error) {
	return s.build(RouteHome, nil)
}

// Post returns the public URL for an article slug.
func (s *Site) Post(slug string) (string, error) {
	return s.build(RoutePost, map[string]any{"slug": slug})
}

// Tag returns the listing URL for a tag slug.
func (s *Site) Tag(tag string) (string, error) {
	return s.build(RouteTag, map[string]any{"tag": tag})
}

// Feed returns the RSS feed URL.
func (s *Site) Feed() (string, error) {
	return s.build(RouteFeed, nil)
}

// Sitemap returns the sitemap URL.
func (s *Site) Sitemap() (string, error) {
	return s.build(RouteSitemap, nil)
}

func (s *Site) build(route string, params map[string]any) (url string, err error) {
	// The route manager panics on unknown groups/routes; convert to errors.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: build %s: %v", route, rec)
		}
	}()

	builder := s.manager.Group("site").Builder(route)
	for key, value := range params {
		builder.WithParam(key, value)
	}
	return builder.Build()
}
