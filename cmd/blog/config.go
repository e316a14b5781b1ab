package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	blog "github.com/goliatone/go-blog"
)

// loadConfig layers file and environment settings over the module defaults.
// Settings resolve in order: defaults, then blog.yaml (or --config), then
// BLOG_* environment variables.
func loadConfig(configPath string) (blog.Config, error) {
	cfg := blog.DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(configPath) != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("blog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; anything else is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	applySettings(v, &cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applySettings(v *viper.Viper, cfg *blog.Config) {
	setString(v, "site.title", &cfg.Site.Title)
	setString(v, "site.description", &cfg.Site.Description)
	setString(v, "site.base_url", &cfg.Site.BaseURL)
	setString(v, "site.blog_path", &cfg.Site.BlogPath)
	setString(v, "site.language", &cfg.Site.Language)

	setString(v, "content.posts_dir", &cfg.Content.PostsDir)
	setString(v, "content.authors_dir", &cfg.Content.AuthorsDir)
	setString(v, "content.restaurants_dir", &cfg.Content.RestaurantsDir)
	setString(v, "content.layouts_dir", &cfg.Content.LayoutsDir)

	setString(v, "generator.output_dir", &cfg.Generator.OutputDir)
	setBool(v, "generator.incremental", &cfg.Generator.Incremental)
	setBool(v, "generator.sitemap", &cfg.Generator.GenerateSitemap)
	setBool(v, "generator.robots", &cfg.Generator.GenerateRobots)
	setBool(v, "generator.feed", &cfg.Generator.GenerateFeed)
	setInt(v, "generator.workers", &cfg.Generator.Workers)
	setInt(v, "generator.words_per_minute", &cfg.Generator.WordsPerMinute)
	setString(v, "generator.theme_dir", &cfg.Generator.ThemeDir)
	setString(v, "generator.default_theme", &cfg.Generator.DefaultTheme)
	setString(v, "generator.default_variant", &cfg.Generator.DefaultVariant)

	setString(v, "media.cloud_name", &cfg.Media.CloudName)
	setString(v, "media.api_key", &cfg.Media.APIKey)
	setString(v, "media.api_secret", &cfg.Media.APISecret)
	setString(v, "media.folder", &cfg.Media.Folder)

	setString(v, "metrics.api_key", &cfg.Metrics.APIKey)
	setString(v, "metrics.project_id", &cfg.Metrics.ProjectID)
	setString(v, "metrics.base_url", &cfg.Metrics.BaseURL)

	setString(v, "books.hardcover_token", &cfg.Books.HardcoverToken)
	setString(v, "books.goodreads_user", &cfg.Books.GoodreadsUser)

	setString(v, "restaurants.static_data", &cfg.Restaurants.StaticDataPath)
	setString(v, "restaurants.media_folder", &cfg.Restaurants.MediaFolder)

	setString(v, "server.addr", &cfg.Server.Addr)

	setString(v, "logging.provider", &cfg.Logging.Provider)
	setString(v, "logging.level", &cfg.Logging.Level)
	setString(v, "logging.format", &cfg.Logging.Format)

	setBool(v, "features.generator", &cfg.Features.Generator)
	setBool(v, "features.server", &cfg.Features.Server)
	setBool(v, "features.media", &cfg.Features.Media)
	setBool(v, "features.metrics", &cfg.Features.Metrics)
	setBool(v, "features.books", &cfg.Features.Books)
	setBool(v, "features.restaurants", &cfg.Features.Restaurants)
	setBool(v, "features.logger", &cfg.Features.Logger)
	setBool(v, "features.include_drafts", &cfg.Features.IncludeDrafts)

	if cfg.Features.Media && strings.TrimSpace(cfg.Media.Folder) != "" {
		if strings.TrimSpace(cfg.Restaurants.MediaFolder) == "" {
			cfg.Restaurants.MediaFolder = cfg.Media.Folder
		}
	}
}

func setString(v *viper.Viper, key string, target *string) {
	if v.IsSet(key) {
		*target = v.GetString(key)
	}
}

func setBool(v *viper.Viper, key string, target *bool) {
	if v.IsSet(key) {
		*target = v.GetBool(key)
	}
}

func setInt(v *viper.Viper, key string, target *int) {
	if v.IsSet(key) {
		*target = v.GetInt(key)
	}
}
