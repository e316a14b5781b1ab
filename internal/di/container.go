package di

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/authors"
	"github.com/goliatone/go-blog/internal/books"
	"github.com/goliatone/go-blog/internal/cache"
	"github.com/goliatone/go-blog/internal/feeds"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/media"
	"github.com/goliatone/go-blog/internal/metrics"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/restaurants"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/internal/search"
	"github.com/goliatone/go-blog/internal/urls"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Container wires module dependencies from the runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	contentFS      fs.FS
	httpClient     *http.Client
	renderer       interfaces.TemplateRenderer
	gallery        interfaces.GalleryProvider
	now            func() time.Time

	markdownSvc    interfaces.MarkdownService
	postsSvc       *posts.Service
	authorsSvc     *authors.Service
	searchIndex    *search.Index
	site           *urls.Site
	feedWriter     *feeds.Writer
	generatorSvc   generator.Service
	metricsSvc     *metrics.Service
	booksSvc       *books.Service
	restaurantsSvc *restaurants.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider built from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithContentFS overrides the filesystem content is loaded from. Tests inject
// an fstest.MapFS here.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.contentFS = fsys
	}
}

// WithHTTPClient overrides the client used by the API proxy services.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithRenderer overrides the template renderer used for static builds.
func WithRenderer(renderer interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithGallery overrides the CDN gallery provider.
func WithGallery(gallery interfaces.GalleryProvider) Option {
	return func(c *Container) {
		c.gallery = gallery
	}
}

// WithNow overrides the clock used for publish cutoffs and metrics periods.
func WithNow(now func() time.Time) Option {
	return func(c *Container) {
		c.now = now
	}
}

// NewContainer validates the configuration and wires every enabled service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.loggerProvider == nil && cfg.Features.Logger {
		provider, err := buildLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	if err := c.buildContentServices(); err != nil {
		return nil, err
	}
	if err := c.buildProxyServices(); err != nil {
		return nil, err
	}
	if err := c.buildGenerator(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) buildContentServices() error {
	cfg := c.Config

	mdCfg := markdown.Config{
		BasePath:  ".",
		FS:        c.contentFS,
		Patterns:  cfg.Markdown.Patterns,
		Recursive: cfg.Markdown.Recursive,
		Parser: interfaces.ParseOptions{
			Extensions: cfg.Markdown.Parser.Extensions,
			Sanitize:   cfg.Markdown.Parser.Sanitize,
			HardWraps:  cfg.Markdown.Parser.HardWraps,
			SafeMode:   cfg.Markdown.Parser.SafeMode,
		},
		Logger: logging.MarkdownLogger(c.loggerProvider),
	}
	markdownSvc, err := markdown.NewService(mdCfg)
	if err != nil {
		return fmt.Errorf("di: markdown service: %w", err)
	}
	c.markdownSvc = markdownSvc

	postsSvc, err := posts.NewService(posts.Config{
		ContentDir:    cfg.Content.PostsDir,
		Markdown:      markdownSvc,
		IncludeDrafts: cfg.Features.IncludeDrafts,
		Now:           c.now,
		Logger:        logging.PostsLogger(c.loggerProvider),
	})
	if err != nil {
		return fmt.Errorf("di: posts service: %w", err)
	}
	c.postsSvc = postsSvc

	if dir := strings.TrimSpace(cfg.Content.AuthorsDir); dir != "" {
		authorsSvc, err := authors.NewService(authors.Config{
			ProfilesDir: dir,
			Markdown:    markdownSvc,
			Logger:      logging.ModuleLogger(c.loggerProvider, "blog.authors"),
		})
		if err != nil {
			return fmt.Errorf("di: authors service: %w", err)
		}
		c.authorsSvc = authorsSvc
	}

	c.searchIndex = search.New(search.Config{
		Logger: logging.ModuleLogger(c.loggerProvider, "blog.search"),
	})

	site, err := urls.New(urls.Config{
		BaseURL:  cfg.Site.BaseURL,
		BlogPath: cfg.Site.BlogPath,
	})
	if err != nil {
		return fmt.Errorf("di: site urls: %w", err)
	}
	c.site = site

	feedWriter, err := feeds.NewWriter(feeds.Config{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		Language:    cfg.Site.Language,
		Site:        site,
		Logger:      logging.ModuleLogger(c.loggerProvider, "blog.feeds"),
	})
	if err != nil {
		return fmt.Errorf("di: feed writer: %w", err)
	}
	c.feedWriter = feedWriter

	return nil
}

func (c *Container) buildProxyServices() error {
	cfg := c.Config

	if cfg.Features.Media && c.gallery == nil {
		provider, err := media.NewCloudinaryProvider(media.Config{
			CloudName:  cfg.Media.CloudName,
			APIKey:     cfg.Media.APIKey,
			APISecret:  cfg.Media.APISecret,
			HTTPClient: c.httpClient,
			Cache:      cache.NewMemory(),
			CacheTTL:   cfg.Media.CacheTTL,
			Logger:     logging.MediaLogger(c.loggerProvider),
		})
		if err != nil {
			return fmt.Errorf("di: media provider: %w", err)
		}
		c.gallery = provider
	}

	if cfg.Features.Metrics {
		svc, err := metrics.NewService(metrics.Config{
			APIKey:     cfg.Metrics.APIKey,
			ProjectID:  cfg.Metrics.ProjectID,
			BaseURL:    cfg.Metrics.BaseURL,
			HTTPClient: c.httpClient,
			CacheTTL:   cfg.Metrics.CacheTTL,
			Now:        c.now,
			Logger:     logging.MetricsLogger(c.loggerProvider),
		})
		if err != nil {
			return fmt.Errorf("di: metrics service: %w", err)
		}
		c.metricsSvc = svc
	}

	if cfg.Features.Books {
		providers := []books.Provider{
			books.NewHardcoverProvider(books.HardcoverConfig{
				Token:      cfg.Books.HardcoverToken,
				HTTPClient: c.httpClient,
			}),
			books.NewGoodreadsProvider(books.GoodreadsConfig{
				UserID:     cfg.Books.GoodreadsUser,
				HTTPClient: c.httpClient,
			}),
		}
		c.booksSvc = books.NewService(providers, logging.BooksLogger(c.loggerProvider))
	}

	if cfg.Features.Restaurants {
		var staticData []byte
		if path := strings.TrimSpace(cfg.Restaurants.StaticDataPath); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("di: restaurant dataset %s: %w", path, err)
			}
			staticData = data
		}

		svc, err := restaurants.NewService(restaurants.Config{
			ReviewsDir:  cfg.Content.RestaurantsDir,
			Markdown:    c.markdownSvc,
			StaticData:  staticData,
			Gallery:     c.gallery,
			MediaFolder: cfg.Restaurants.MediaFolder,
			Logger:      logging.ModuleLogger(c.loggerProvider, "blog.restaurants"),
		})
		if err != nil {
			return fmt.Errorf("di: restaurants service: %w", err)
		}
		c.restaurantsSvc = svc
	}

	return nil
}

func (c *Container) buildGenerator() error {
	cfg := c.Config

	if !cfg.Features.Generator {
		c.generatorSvc = generator.NewDisabledService()
		return nil
	}

	renderer := c.renderer
	if renderer == nil {
		built, err := generator.NewHTMLRenderer(cfg.Content.LayoutsDir)
		if err != nil {
			return fmt.Errorf("di: template renderer: %w", err)
		}
		renderer = built
	}

	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:       cfg.Generator.OutputDir,
		Incremental:     cfg.Generator.Incremental,
		GenerateSitemap: cfg.Generator.GenerateSitemap,
		GenerateRobots:  cfg.Generator.GenerateRobots,
		GenerateFeed:    cfg.Generator.GenerateFeed,
		Workers:         cfg.Generator.Workers,
		WordsPerMinute:  cfg.Generator.WordsPerMinute,
		Theming: generator.ThemingConfig{
			ThemeDir:       cfg.Generator.ThemeDir,
			DefaultTheme:   cfg.Generator.DefaultTheme,
			DefaultVariant: cfg.Generator.DefaultVariant,
		},
		SiteTitle:       cfg.Site.Title,
		SiteDescription: cfg.Site.Description,
	}, generator.Dependencies{
		Posts:    c.postsSvc,
		Authors:  c.authorsSvc,
		Markdown: c.markdownSvc,
		Renderer: renderer,
		Feeds:    c.feedWriter,
		Site:     c.site,
		Logger:   logging.GeneratorLogger(c.loggerProvider),
	})
	return nil
}

func buildLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		level := consoleLevel(cfg.Level)
		return console.NewProvider(console.Options{MinLevel: &level}), nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		return nil, fmt.Errorf("di: unsupported logging provider %q", cfg.Provider)
	}
}

func consoleLevel(level string) console.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return console.LevelTrace
	case "debug":
		return console.LevelDebug
	case "warn", "warning":
		return console.LevelWarn
	case "error":
		return console.LevelError
	case "fatal":
		return console.LevelFatal
	default:
		return console.LevelInfo
	}
}

// LoggerProvider exposes the configured logger provider; nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// MarkdownService returns the markdown loader and renderer.
func (c *Container) MarkdownService() interfaces.MarkdownService {
	return c.markdownSvc
}

// PostsService returns the post collection accessors.
func (c *Container) PostsService() *posts.Service {
	return c.postsSvc
}

// AuthorsService returns the author profile accessors; nil when no profile
// directory is configured.
func (c *Container) AuthorsService() *authors.Service {
	return c.authorsSvc
}

// SearchIndex returns the tag and text filter over post collections.
func (c *Container) SearchIndex() *search.Index {
	return c.searchIndex
}

// Site returns the public URL builder.
func (c *Container) Site() *urls.Site {
	return c.site
}

// FeedWriter returns the RSS feed writer.
func (c *Container) FeedWriter() *feeds.Writer {
	return c.feedWriter
}

// GeneratorService returns the static site build service. When the generator
// feature is disabled every operation fails with generator.ErrServiceDisabled.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// Gallery returns the CDN gallery provider; nil when media is disabled and no
// override was supplied.
func (c *Container) Gallery() interfaces.GalleryProvider {
	return c.gallery
}

// MetricsService returns the analytics proxy; nil when metrics are disabled.
func (c *Container) MetricsService() *metrics.Service {
	return c.metricsSvc
}

// BooksService returns the reading-status proxy; nil when books are disabled.
func (c *Container) BooksService() *books.Service {
	return c.booksSvc
}

// RestaurantsService returns the review accessors; nil when disabled.
func (c *Container) RestaurantsService() *restaurants.Service {
	return c.restaurantsSvc
}
