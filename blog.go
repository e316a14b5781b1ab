package blog

import (
	"github.com/goliatone/go-blog/internal/authors"
	"github.com/goliatone/go-blog/internal/books"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/feeds"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/metrics"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/restaurants"
	"github.com/goliatone/go-blog/internal/search"
	"github.com/goliatone/go-blog/internal/urls"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// PostService exports the post collection contract for consumers of the blog package.
type PostService = *posts.Service

// AuthorService exports the author profile contract.
type AuthorService = *authors.Service

// SearchIndex exports the tag and text filter contract.
type SearchIndex = *search.Index

// GeneratorService exports the static site build contract.
type GeneratorService = generator.Service

// MetricsService exports the analytics proxy contract.
type MetricsService = *metrics.Service

// BooksService exports the reading-status proxy contract.
type BooksService = *books.Service

// RestaurantService exports the review collection contract.
type RestaurantService = *restaurants.Service

// FeedWriter exports the RSS writer contract.
type FeedWriter = *feeds.Writer

// SiteURLs exports the public URL builder contract.
type SiteURLs = *urls.Site

// Module represents the top level blog runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a blog module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Posts returns the configured post collection service.
func (m *Module) Posts() PostService {
	return m.container.PostsService()
}

// Authors returns the configured author profile service.
func (m *Module) Authors() AuthorService {
	return m.container.AuthorsService()
}

// Markdown returns the markdown loader and renderer.
func (m *Module) Markdown() interfaces.MarkdownService {
	return m.container.MarkdownService()
}

// Search returns the tag and text filter over post collections.
func (m *Module) Search() SearchIndex {
	return m.container.SearchIndex()
}

// Generator returns the configured static site build service.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Gallery returns the CDN gallery provider when media is enabled.
func (m *Module) Gallery() interfaces.GalleryProvider {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Gallery()
}

// Metrics returns the analytics proxy when metrics are enabled.
func (m *Module) Metrics() MetricsService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.MetricsService()
}

// Books returns the reading-status proxy when books are enabled.
func (m *Module) Books() BooksService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.BooksService()
}

// Restaurants returns the review collection service when enabled.
func (m *Module) Restaurants() RestaurantService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.RestaurantsService()
}

// Feeds returns the RSS feed writer.
func (m *Module) Feeds() FeedWriter {
	return m.container.FeedWriter()
}

// URLs returns the public URL builder.
func (m *Module) URLs() SiteURLs {
	return m.container.Site()
}
