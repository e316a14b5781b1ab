package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/authors"
	"github.com/goliatone/go-blog/internal/feeds"
	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/urls"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var generatorNow = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

func generatorFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/first-post.mdx": &fstest.MapFile{
			Data: []byte(`---
title: First Post
summary: The very first article
author: Ada Lovelace
date: 2024-06-01T00:00:00Z
tags:
  - go
---

## Getting Started

Some opening words about the project.
`),
		},
		"posts/second-post.mdx": &fstest.MapFile{
			Data: []byte(`---
title: Second Post
summary: A follow up
author: Ada Lovelace
date: 2024-12-01T00:00:00Z
---

## More Ideas

Another body with enough prose to render.
`),
		},
		"posts/unfinished.mdx": &fstest.MapFile{
			Data: []byte(`---
title: Unfinished
draft: true
date: 2024-07-01T00:00:00Z
---

Still cooking.
`),
		},
		"authors/ada-lovelace.mdx": &fstest.MapFile{
			Data: []byte(`---
name: Ada Lovelace
occupation: Engineer
---

Bio body.
`),
		},
	}
}

type generatorFixture struct {
	svc     Service
	outDir  string
	rebuild func(mutate func(*Config, *Dependencies)) Service
}

func newGeneratorFixture(t *testing.T) *generatorFixture {
	t.Helper()

	md, err := markdown.NewService(markdown.Config{FS: generatorFS()})
	if err != nil {
		t.Fatalf("markdown service: %v", err)
	}

	postSvc, err := posts.NewService(posts.Config{
		ContentDir: "posts",
		Markdown:   md,
		Now:        func() time.Time { return generatorNow },
	})
	if err != nil {
		t.Fatalf("posts service: %v", err)
	}

	authorSvc, err := authors.NewService(authors.Config{
		ProfilesDir: "authors",
		Markdown:    md,
	})
	if err != nil {
		t.Fatalf("authors service: %v", err)
	}

	site, err := urls.New(urls.Config{BaseURL: "https://example.com"})
	if err != nil {
		t.Fatalf("site urls: %v", err)
	}

	feedWriter, err := feeds.NewWriter(feeds.Config{
		Title:       "Example Blog",
		Description: "Notes and articles",
		Site:        site,
	})
	if err != nil {
		t.Fatalf("feed writer: %v", err)
	}

	renderer, err := NewHTMLRenderer("")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	outDir := t.TempDir()
	deps := Dependencies{
		Posts:    postSvc,
		Authors:  authorSvc,
		Markdown: md,
		Renderer: renderer,
		Feeds:    feedWriter,
		Site:     site,
	}

	build := func(mutate func(*Config, *Dependencies)) Service {
		cfg := Config{
			OutputDir:       outDir,
			Incremental:     true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeed:    true,
			Workers:         2,
			SiteTitle:       "Example Blog",
			SiteDescription: "Notes and articles",
		}
		buildDeps := deps
		if mutate != nil {
			mutate(&cfg, &buildDeps)
		}
		return NewService(cfg, buildDeps)
	}

	return &generatorFixture{svc: build(nil), outDir: outDir, rebuild: build}
}

func TestBuildWritesPagesAndArtifacts(t *testing.T) {
	fx := newGeneratorFixture(t)

	result, err := fx.svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != 2 {
		t.Fatalf("expected 2 pages built, got %d", result.PagesBuilt)
	}
	if result.PagesSkipped != 0 {
		t.Fatalf("expected no skips, got %d", result.PagesSkipped)
	}

	page, err := os.ReadFile(filepath.Join(fx.outDir, "blog", "first-post", "index.html"))
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	html := string(page)
	for _, want := range []string{
		"<title>First Post | Example Blog</title>",
		`<h2 id="getting-started">Getting Started</h2>`,
		"1 min read",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("page missing %q:\n%s", want, html)
		}
	}

	sitemap, err := os.ReadFile(filepath.Join(fx.outDir, "sitemap.xml"))
	if err != nil {
		t.Fatalf("read sitemap: %v", err)
	}
	for _, want := range []string{
		"<loc>https://example.com/</loc>",
		"<loc>https://example.com/blog/first-post/</loc>",
		"<loc>https://example.com/blog/second-post/</loc>",
	} {
		if !strings.Contains(string(sitemap), want) {
			t.Fatalf("sitemap missing %q:\n%s", want, sitemap)
		}
	}

	robots, err := os.ReadFile(filepath.Join(fx.outDir, "robots.txt"))
	if err != nil {
		t.Fatalf("read robots: %v", err)
	}
	if !strings.Contains(string(robots), "Sitemap: https://example.com/sitemap.xml") {
		t.Fatalf("robots missing sitemap line:\n%s", robots)
	}

	if _, err := os.Stat(filepath.Join(fx.outDir, feeds.FeedFileName)); err != nil {
		t.Fatalf("feed artifact: %v", err)
	}
	if _, err := os.Stat(filepath.Join(fx.outDir, manifestFileName)); err != nil {
		t.Fatalf("manifest artifact: %v", err)
	}

	if _, err := os.Stat(filepath.Join(fx.outDir, "blog", "unfinished")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("draft should not be rendered, stat err = %v", err)
	}
}

func TestBuildIncrementalSkipsUnchangedPages(t *testing.T) {
	fx := newGeneratorFixture(t)

	if _, err := fx.svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}

	result, err := fx.svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if result.PagesBuilt != 0 {
		t.Fatalf("expected no pages rebuilt, got %d", result.PagesBuilt)
	}
	if result.PagesSkipped != 2 {
		t.Fatalf("expected 2 pages skipped, got %d", result.PagesSkipped)
	}

	// Skipped pages must still be present in the regenerated sitemap.
	sitemap, err := os.ReadFile(filepath.Join(fx.outDir, "sitemap.xml"))
	if err != nil {
		t.Fatalf("read sitemap: %v", err)
	}
	if !strings.Contains(string(sitemap), "https://example.com/blog/first-post/") {
		t.Fatalf("sitemap dropped skipped page:\n%s", sitemap)
	}
}

func TestBuildDryRunWritesNothing(t *testing.T) {
	fx := newGeneratorFixture(t)

	result, err := fx.svc.Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if result.PagesBuilt != 2 {
		t.Fatalf("expected 2 pages rendered, got %d", result.PagesBuilt)
	}
	if !result.DryRun {
		t.Fatal("result should flag dry run")
	}

	entries, err := os.ReadDir(fx.outDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("dry run wrote %d entries", len(entries))
	}
}

func TestBuildSlugFilter(t *testing.T) {
	fx := newGeneratorFixture(t)

	result, err := fx.svc.Build(context.Background(), BuildOptions{Slugs: []string{"second-post"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != 1 {
		t.Fatalf("expected 1 page built, got %d", result.PagesBuilt)
	}
	if result.Rendered[0].Slug != "second-post" {
		t.Fatalf("unexpected slug %q", result.Rendered[0].Slug)
	}

	if _, err := os.Stat(filepath.Join(fx.outDir, "blog", "first-post")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("filtered page should not exist, stat err = %v", err)
	}
}

func TestBuildPopulatesNavigationAndAuthor(t *testing.T) {
	fx := newGeneratorFixture(t)

	result, err := fx.svc.Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var second *RenderedPage
	for i := range result.Rendered {
		if result.Rendered[i].Slug == "second-post" {
			second = &result.Rendered[i]
		}
	}
	if second == nil {
		t.Fatal("second-post not rendered")
	}
	if second.Route != "/blog/second-post/" {
		t.Fatalf("unexpected route %q", second.Route)
	}
	if second.Template != "post" {
		t.Fatalf("unexpected template %q", second.Template)
	}
	if second.Checksum == "" {
		t.Fatal("expected checksum to be recorded")
	}
	if second.ID != identity.PostUUID("second-post") {
		t.Fatalf("unexpected page id %s", second.ID)
	}
	if second.ID == uuid.Nil {
		t.Fatal("expected a stable page id")
	}
}

func TestCleanRemovesOutputDirectory(t *testing.T) {
	fx := newGeneratorFixture(t)

	if _, err := fx.svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := fx.svc.Clean(context.Background()); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if _, err := os.Stat(fx.outDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output dir should be gone, stat err = %v", err)
	}
}

func TestBuildRequiresRenderer(t *testing.T) {
	svc := NewService(Config{OutputDir: t.TempDir()}, Dependencies{})
	if _, err := svc.Build(context.Background(), BuildOptions{}); err == nil {
		t.Fatal("expected error without renderer")
	}
}

func TestDisabledService(t *testing.T) {
	svc := NewDisabledService()
	if _, err := svc.Build(context.Background(), BuildOptions{}); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
	if err := svc.Clean(context.Background()); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

type captureLogger struct {
	mu     sync.Mutex
	fields []map[string]any
}

func (l *captureLogger) Trace(string, ...any) {}
func (l *captureLogger) Debug(string, ...any) {}
func (l *captureLogger) Info(string, ...any)  {}
func (l *captureLogger) Warn(string, ...any)  {}
func (l *captureLogger) Error(string, ...any) {}
func (l *captureLogger) Fatal(string, ...any) {}

func (l *captureLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *captureLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	l.mu.Lock()
	l.fields = append(l.fields, copied)
	l.mu.Unlock()
	return l
}

func (l *captureLogger) snapshot() []map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]map[string]any(nil), l.fields...)
}

func TestBuildLogsContentContext(t *testing.T) {
	fx := newGeneratorFixture(t)
	logger := &captureLogger{}
	svc := fx.rebuild(func(cfg *Config, deps *Dependencies) {
		cfg.OutputDir = t.TempDir()
		deps.Logger = logger
	})

	if _, err := svc.Build(context.Background(), BuildOptions{DryRun: true}); err != nil {
		t.Fatalf("build: %v", err)
	}

	var found bool
	for _, fields := range logger.snapshot() {
		if fields["slug"] != "first-post" || fields["build_action"] != "render" {
			continue
		}
		path, _ := fields["content_path"].(string)
		if !strings.Contains(path, "first-post.mdx") {
			t.Fatalf("unexpected content path %q", path)
		}
		found = true
	}
	if !found {
		t.Fatal("expected render fields for first-post")
	}
}
