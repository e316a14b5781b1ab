package di_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
)

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.BaseURL = "https://example.com"
	cfg.Content.PostsDir = "posts"
	cfg.Content.AuthorsDir = "authors"
	cfg.Content.RestaurantsDir = "restaurants"
	cfg.Features.Logger = false
	return cfg
}

func contentFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/hello.mdx": &fstest.MapFile{
			Data: []byte("---\ntitle: Hello\ndate: 2024-06-01T00:00:00Z\n---\n\nBody.\n"),
		},
		"authors/ada.mdx": &fstest.MapFile{
			Data: []byte("---\nname: Ada\n---\n\nBio.\n"),
		},
	}
}

func TestNewContainerWiresContentServices(t *testing.T) {
	container, err := di.NewContainer(testConfig(), di.WithContentFS(contentFS()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if container.MarkdownService() == nil {
		t.Fatal("markdown service not wired")
	}
	if container.PostsService() == nil {
		t.Fatal("posts service not wired")
	}
	if container.AuthorsService() == nil {
		t.Fatal("authors service not wired")
	}
	if container.SearchIndex() == nil {
		t.Fatal("search index not wired")
	}
	if container.Site() == nil {
		t.Fatal("site urls not wired")
	}
	if container.FeedWriter() == nil {
		t.Fatal("feed writer not wired")
	}
	if container.GeneratorService() == nil {
		t.Fatal("generator service not wired")
	}

	collection, err := container.PostsService().GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(collection) != 1 || collection[0].Slug != "hello" {
		t.Fatalf("unexpected collection %v", collection)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Site.BaseURL = ""

	if _, err := di.NewContainer(cfg, di.WithContentFS(contentFS())); !errors.Is(err, runtimeconfig.ErrSiteBaseURLRequired) {
		t.Fatalf("expected ErrSiteBaseURLRequired, got %v", err)
	}
}

func TestNewContainerDisabledGenerator(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Generator = false

	container, err := di.NewContainer(cfg, di.WithContentFS(contentFS()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	_, err = container.GeneratorService().Build(context.Background(), generator.BuildOptions{})
	if !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestNewContainerOptionalProxiesStayNil(t *testing.T) {
	container, err := di.NewContainer(testConfig(), di.WithContentFS(contentFS()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if container.MetricsService() != nil {
		t.Fatal("metrics should be nil when disabled")
	}
	if container.BooksService() != nil {
		t.Fatal("books should be nil when disabled")
	}
	if container.Gallery() != nil {
		t.Fatal("gallery should be nil when media disabled")
	}
	if container.RestaurantsService() == nil {
		t.Fatal("restaurants enabled by default")
	}
}

func TestNewContainerEnablesProxies(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Media = true
	cfg.Media.CloudName = "demo"
	cfg.Features.Metrics = true
	cfg.Metrics.APIKey = "phx_test"
	cfg.Metrics.ProjectID = "12345"
	cfg.Features.Books = true

	container, err := di.NewContainer(cfg,
		di.WithContentFS(contentFS()),
		di.WithNow(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if container.Gallery() == nil {
		t.Fatal("gallery not wired")
	}
	if container.MetricsService() == nil {
		t.Fatal("metrics not wired")
	}
	if container.BooksService() == nil {
		t.Fatal("books not wired")
	}
}

func TestNewContainerRejectsUnknownLoggingProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	if _, err := di.NewContainer(cfg, di.WithContentFS(contentFS())); err == nil {
		t.Fatal("expected error for unknown logging provider")
	}
}

func TestNewContainerMissingRestaurantDataset(t *testing.T) {
	cfg := testConfig()
	cfg.Restaurants.StaticDataPath = "does/not/exist.json"

	if _, err := di.NewContainer(cfg, di.WithContentFS(contentFS())); err == nil {
		t.Fatal("expected error for missing dataset file")
	}
}
