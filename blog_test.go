package blog_test

import (
	"context"
	"testing"
	"testing/fstest"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/di"
)

func moduleConfig() blog.Config {
	cfg := blog.DefaultConfig()
	cfg.Site.BaseURL = "https://example.com"
	cfg.Content.PostsDir = "posts"
	cfg.Content.AuthorsDir = "authors"
	cfg.Features.Logger = false
	return cfg
}

func moduleFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/welcome.mdx": &fstest.MapFile{
			Data: []byte("---\ntitle: Welcome\ndate: 2024-05-01T00:00:00Z\ntags:\n  - go\n---\n\n## Intro\n\nHello.\n"),
		},
		"authors/ada.mdx": &fstest.MapFile{
			Data: []byte("---\nname: Ada\n---\n\nBio.\n"),
		},
	}
}

func TestModuleExposesServices(t *testing.T) {
	module, err := blog.New(moduleConfig(), di.WithContentFS(moduleFS()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	posts, err := module.Posts().GetPublished(context.Background())
	if err != nil {
		t.Fatalf("GetPublished: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "welcome" {
		t.Fatalf("unexpected posts %v", posts)
	}

	author, err := module.Authors().GetByName(context.Background(), "Ada")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if author.Name != "Ada" {
		t.Fatalf("unexpected author %q", author.Name)
	}

	tags := module.Search().Tags(posts)
	if len(tags) != 1 || tags[0] != "go" {
		t.Fatalf("unexpected tags %v", tags)
	}

	postURL, err := module.URLs().Post("welcome")
	if err != nil {
		t.Fatalf("Post URL: %v", err)
	}
	if postURL != "https://example.com/blog/welcome" {
		t.Fatalf("unexpected url %q", postURL)
	}

	if module.Generator() == nil {
		t.Fatal("generator not exposed")
	}
	if module.Feeds() == nil {
		t.Fatal("feed writer not exposed")
	}
	if module.Metrics() != nil || module.Books() != nil {
		t.Fatal("disabled proxies should be nil")
	}
}

func TestModuleRejectsInvalidConfig(t *testing.T) {
	cfg := moduleConfig()
	cfg.Site.BaseURL = ""

	if _, err := blog.New(cfg); err == nil {
		t.Fatal("expected configuration error")
	}
}
