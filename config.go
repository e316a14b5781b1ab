package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrSiteBaseURLRequired        = runtimeconfig.ErrSiteBaseURLRequired
	ErrPostsDirRequired           = runtimeconfig.ErrPostsDirRequired
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrMediaCloudNameRequired     = runtimeconfig.ErrMediaCloudNameRequired
	ErrMetricsProjectRequired     = runtimeconfig.ErrMetricsProjectRequired
	ErrServerAddrRequired         = runtimeconfig.ErrServerAddrRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

// Config aggregates feature flags and settings for the blog module.
type Config = runtimeconfig.Config

// SiteConfig captures public identity and addressing for the site.
type SiteConfig = runtimeconfig.SiteConfig

// ContentConfig locates the content sources on disk.
type ContentConfig = runtimeconfig.ContentConfig

// MarkdownConfig captures filesystem and parser behaviour for ingestion.
type MarkdownConfig = runtimeconfig.MarkdownConfig

// GeneratorConfig captures behaviour for the static site build.
type GeneratorConfig = runtimeconfig.GeneratorConfig

// MediaConfig holds the image CDN credentials and cache behaviour.
type MediaConfig = runtimeconfig.MediaConfig

// MetricsConfig holds the analytics API credentials.
type MetricsConfig = runtimeconfig.MetricsConfig

// BooksConfig holds credentials for the reading-status providers.
type BooksConfig = runtimeconfig.BooksConfig

// RestaurantsConfig locates the static review dataset.
type RestaurantsConfig = runtimeconfig.RestaurantsConfig

// ServerConfig captures the HTTP listener behaviour.
type ServerConfig = runtimeconfig.ServerConfig

// LoggingConfig captures provider-specific logging options.
type LoggingConfig = runtimeconfig.LoggingConfig

// Features toggles module functionality.
type Features = runtimeconfig.Features

// DefaultConfig returns opinionated defaults for a local development site.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
