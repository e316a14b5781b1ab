package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrSiteBaseURLRequired        = errors.New("blog config: site base URL is required")
	ErrPostsDirRequired           = errors.New("blog config: posts directory is required")
	ErrGeneratorOutputDirRequired = errors.New("blog config: generator output directory is required when the generator is enabled")
	ErrMediaCloudNameRequired     = errors.New("blog config: media cloud name is required when media is enabled")
	ErrMetricsProjectRequired     = errors.New("blog config: metrics project id is required when metrics are enabled")
	ErrServerAddrRequired         = errors.New("blog config: server listen address is required when the server is enabled")
	ErrLoggingProviderRequired    = errors.New("blog config: logging provider is required when logging is enabled")
	ErrLoggingProviderUnknown     = errors.New("blog config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("blog config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("blog config: logging format is invalid")
	ErrWorkerCountInvalid         = errors.New("blog config: generator worker count must be zero or positive")
)

// Config aggregates feature flags and settings for the blog module. Fields use
// simple types so host applications can load them from files or env vars.
type Config struct {
	Site        SiteConfig
	Content     ContentConfig
	Markdown    MarkdownConfig
	Generator   GeneratorConfig
	Media       MediaConfig
	Metrics     MetricsConfig
	Books       BooksConfig
	Restaurants RestaurantsConfig
	Server      ServerConfig
	Logging     LoggingConfig
	Features    Features
}

// SiteConfig captures public identity and addressing for the site.
type SiteConfig struct {
	Title       string
	Description string
	BaseURL     string
	BlogPath    string
	Language    string
}

// ContentConfig locates the content sources on disk.
type ContentConfig struct {
	PostsDir       string
	AuthorsDir     string
	RestaurantsDir string
	LayoutsDir     string
}

// MarkdownConfig captures filesystem and parser behaviour for ingestion.
type MarkdownConfig struct {
	Patterns  []string
	Recursive bool
	Parser    MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime use.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// GeneratorConfig captures behaviour for the static site build.
type GeneratorConfig struct {
	OutputDir       string
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeed    bool
	Workers         int
	WordsPerMinute  int
	ThemeDir        string
	DefaultTheme    string
	DefaultVariant  string
}

// MediaConfig holds the image CDN credentials and cache behaviour.
type MediaConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	CacheTTL  time.Duration
}

// MetricsConfig holds the analytics API credentials.
type MetricsConfig struct {
	APIKey    string
	ProjectID string
	BaseURL   string
	CacheTTL  time.Duration
}

// BooksConfig holds credentials for the reading-status providers.
type BooksConfig struct {
	HardcoverToken string
	GoodreadsUser  string
}

// RestaurantsConfig locates the static review dataset used as a fallback when
// no review files exist.
type RestaurantsConfig struct {
	StaticDataPath string
	MediaFolder    string
}

// ServerConfig captures the HTTP listener behaviour.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Generator     bool
	Server        bool
	Media         bool
	Metrics       bool
	Books         bool
	Restaurants   bool
	Logger        bool
	IncludeDrafts bool
}

// DefaultConfig returns opinionated defaults for a local development site.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Blog",
			BaseURL:  "http://localhost:3000",
			BlogPath: "/blog",
			Language: "en-us",
		},
		Content: ContentConfig{
			PostsDir:       "data/blog",
			AuthorsDir:     "data/authors",
			RestaurantsDir: "data/restaurants",
			LayoutsDir:     "layouts",
		},
		Markdown: MarkdownConfig{
			Patterns:  []string{"*.md", "*.mdx"},
			Recursive: false,
		},
		Generator: GeneratorConfig{
			OutputDir:       "dist",
			Incremental:     true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeed:    true,
			Workers:         0,
			WordsPerMinute:  0,
		},
		Media: MediaConfig{
			CacheTTL: time.Hour,
		},
		Metrics: MetricsConfig{
			BaseURL:  "https://us.posthog.com",
			CacheTTL: time.Hour,
		},
		Restaurants: RestaurantsConfig{
			MediaFolder: "restaurants",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			Generator:   true,
			Restaurants: true,
			Logger:      true,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Site.BaseURL) == "" {
		return ErrSiteBaseURLRequired
	}
	if strings.TrimSpace(cfg.Content.PostsDir) == "" {
		return ErrPostsDirRequired
	}
	if cfg.Features.Generator {
		if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrGeneratorOutputDirRequired
		}
		if cfg.Generator.Workers < 0 {
			return ErrWorkerCountInvalid
		}
	}
	if cfg.Features.Media {
		if strings.TrimSpace(cfg.Media.CloudName) == "" {
			return ErrMediaCloudNameRequired
		}
	}
	if cfg.Features.Metrics {
		if strings.TrimSpace(cfg.Metrics.ProjectID) == "" {
			return ErrMetricsProjectRequired
		}
	}
	if cfg.Features.Server {
		if strings.TrimSpace(cfg.Server.Addr) == "" {
			return ErrServerAddrRequired
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
