package generator

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/authors"
	"github.com/goliatone/go-blog/internal/feeds"
	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/toc"
	"github.com/goliatone/go-blog/internal/urls"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the build feature is turned off.
	ErrServiceDisabled  = errors.New("generator: service disabled")
	errRendererRequired = errors.New("generator: template renderer is required")
	errPostsRequired    = errors.New("generator: posts service is required")
)

// Service describes the static site build contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the build.
type Config struct {
	OutputDir       string
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeed    bool
	Workers         int
	WordsPerMinute  int
	Theming         ThemingConfig
	SiteTitle       string
	SiteDescription string
}

// BuildOptions narrows the scope of a build run.
type BuildOptions struct {
	// Slugs restricts the build to the named posts; empty builds everything.
	Slugs []string
	// DryRun renders without writing artifacts.
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt   int
	PagesSkipped int
	Duration     time.Duration
	Rendered     []RenderedPage
	Errors       []error
	DryRun       bool
}

// RenderedPage is one produced artifact.
type RenderedPage struct {
	ID           uuid.UUID
	Slug         string
	Route        string
	Output       string
	Template     string
	HTML         string
	Checksum     string
	LastModified time.Time
	Duration     time.Duration
}

// Dependencies lists the services the build consumes.
type Dependencies struct {
	Posts    *posts.Service
	Authors  *authors.Service
	Markdown interfaces.MarkdownService
	Renderer interfaces.TemplateRenderer
	Feeds    *feeds.Writer
	Site     *urls.Site
	Logger   interfaces.Logger
}

// SiteMetadata is the site-level template context.
type SiteMetadata struct {
	Title       string
	Description string
	BaseURL     string
}

// PageContext is the per-post template context: compiled HTML, table of
// contents, navigation neighbors, resolved author, and the core content list.
type PageContext struct {
	Site        SiteMetadata
	Post        *posts.Post
	HTML        template.HTML
	TOC         []toc.Heading
	Nav         posts.NavigationContext
	Author      *authors.Author
	ReadingTime string
	Posts       []posts.CoreContent
	GeneratedAt time.Time
}

// NewService wires a build implementation with the provided configuration and
// dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		themes: newThemeSelector(cfg.Theming),
		logger: logger,
		now:    time.Now,
	}
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	deps   Dependencies
	themes *themeSelector
	logger interfaces.Logger
	now    func() time.Time
}

type disabledService struct{}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if s.deps.Posts == nil {
		return nil, errPostsRequired
	}

	start := s.now()

	published, err := s.deps.Posts.GetPublished(ctx)
	if err != nil {
		return nil, err
	}

	targets := filterBySlugs(published, opts.Slugs)

	coreList := make([]posts.CoreContent, 0, len(published))
	for _, post := range published {
		coreList = append(coreList, post.Core(posts.ReadingTime(post.Body, s.cfg.WordsPerMinute)))
	}

	manifest := newBuildManifest()
	if s.cfg.Incremental && !opts.DryRun {
		manifest = loadManifest(s.cfg.OutputDir)
	}

	result := &BuildResult{DryRun: opts.DryRun}

	var (
		mu       sync.Mutex
		rendered []RenderedPage
		errs     []error
	)
	collect := func(page RenderedPage, skipped bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		if skipped {
			result.PagesSkipped++
			return
		}
		result.PagesBuilt++
		rendered = append(rendered, page)
	}

	s.renderAll(ctx, targets, published, coreList, manifest, collect)

	if !opts.DryRun {
		if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
			errs = append(errs, fmt.Errorf("generator: ensure output dir: %w", err))
		} else {
			for i := range rendered {
				if err := s.persistPage(&rendered[i]); err != nil {
					errs = append(errs, err)
				}
			}

			if s.cfg.GenerateFeed && s.deps.Feeds != nil {
				if _, err := s.deps.Feeds.WriteFile(s.cfg.OutputDir, published); err != nil {
					errs = append(errs, err)
				}
			}
			if s.cfg.GenerateSitemap {
				if err := s.writeSitemap(rendered, manifest, start); err != nil {
					errs = append(errs, err)
				}
			}
			if s.cfg.GenerateRobots {
				if err := s.writeRobots(); err != nil {
					errs = append(errs, err)
				}
			}

			if s.cfg.Incremental && len(errs) == 0 {
				manifest.GeneratedAt = start
				keep := map[string]struct{}{}
				for _, post := range published {
					keep[strings.ToLower(post.Slug)] = struct{}{}
				}
				manifest.prune(keep)
				for _, page := range rendered {
					manifest.setPage(manifestPage{
						Slug:       page.Slug,
						Route:      page.Route,
						Output:     page.Output,
						Template:   page.Template,
						Checksum:   page.Checksum,
						RenderedAt: start,
					})
				}
				if err := manifest.persist(s.cfg.OutputDir); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	if len(errs) > 0 {
		result.Errors = errs
		return result, errors.Join(errs...)
	}

	s.logger.Info("build complete",
		"built", result.PagesBuilt,
		"skipped", result.PagesSkipped,
		"duration", result.Duration.String())
	return result, nil
}

// Clean removes the output directory and everything under it.
func (s *service) Clean(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(s.cfg.OutputDir) == "" {
		return fmt.Errorf("generator: output directory not configured")
	}
	if err := os.RemoveAll(s.cfg.OutputDir); err != nil {
		return fmt.Errorf("generator: clean %s: %w", s.cfg.OutputDir, err)
	}
	s.logger.Info("output cleaned", "dir", s.cfg.OutputDir)
	return nil
}

func (s *service) renderAll(
	ctx context.Context,
	targets, published []*posts.Post,
	coreList []posts.CoreContent,
	manifest *buildManifest,
	collect func(RenderedPage, bool, error),
) {
	workers := s.effectiveWorkerCount(len(targets))
	if workers <= 1 || len(targets) <= 1 {
		for _, post := range targets {
			if ctx.Err() != nil {
				collect(RenderedPage{}, false, ctx.Err())
				return
			}
			page, skipped, err := s.renderPost(ctx, post, published, coreList, manifest)
			collect(page, skipped, err)
		}
		return
	}

	jobs := make(chan *posts.Post)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for post := range jobs {
				if ctx.Err() != nil {
					collect(RenderedPage{}, false, ctx.Err())
					return
				}
				page, skipped, err := s.renderPost(ctx, post, published, coreList, manifest)
				collect(page, skipped, err)
			}
		}()
	}

	for _, post := range targets {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- post:
		}
	}
	close(jobs)
	wg.Wait()
}

func (s *service) renderPost(
	ctx context.Context,
	post *posts.Post,
	published []*posts.Post,
	coreList []posts.CoreContent,
	manifest *buildManifest,
) (RenderedPage, bool, error) {
	route := "/blog/" + post.Slug + "/"
	output := filepath.Join(s.cfg.OutputDir, "blog", post.Slug, "index.html")
	checksum := hex.EncodeToString(post.Checksum)

	if s.cfg.Incremental && manifest.shouldSkip(post.Slug, checksum, output) {
		logging.WithContentContext(s.logger, post.FilePath, post.Slug, "skip").Debug("page unchanged")
		return RenderedPage{}, true, nil
	}

	html, err := s.deps.Markdown.Render(ctx, post.Body, interfaces.ParseOptions{})
	if err != nil {
		return RenderedPage{}, false, fmt.Errorf("generator: compile %s: %w", post.Slug, err)
	}

	author := &authors.Author{Name: post.Author}
	if s.deps.Authors != nil && post.Author != "" {
		resolved, err := s.deps.Authors.GetByName(ctx, post.Author)
		if err == nil {
			author = resolved
		}
	}

	pageCtx := PageContext{
		Site: SiteMetadata{
			Title:       s.cfg.SiteTitle,
			Description: s.cfg.SiteDescription,
			BaseURL:     s.baseURL(),
		},
		Post:        post,
		HTML:        template.HTML(html),
		TOC:         toc.Extract(string(post.Body)),
		Nav:         posts.Navigation(published, post.Slug),
		Author:      author,
		ReadingTime: posts.ReadingTime(post.Body, s.cfg.WordsPerMinute),
		Posts:       coreList,
		GeneratedAt: s.now(),
	}

	templateName := s.themes.TemplateFor(post.Layout)

	renderStart := time.Now()
	var buf bytes.Buffer
	if err := s.deps.Renderer.Render(templateName, pageCtx, &buf); err != nil {
		return RenderedPage{}, false, fmt.Errorf("generator: render %s with %q: %w", post.Slug, templateName, err)
	}
	logging.WithContentContext(s.logger, post.FilePath, post.Slug, "render").Debug("page rendered",
		"template", templateName)

	return RenderedPage{
		ID:           identity.PostUUID(post.Slug),
		Slug:         post.Slug,
		Route:        route,
		Output:       output,
		Template:     templateName,
		HTML:         buf.String(),
		Checksum:     checksum,
		LastModified: post.LastMod,
		Duration:     time.Since(renderStart),
	}, false, nil
}

func (s *service) persistPage(page *RenderedPage) error {
	if err := os.MkdirAll(filepath.Dir(page.Output), 0o755); err != nil {
		return fmt.Errorf("generator: ensure dir for %s: %w", page.Slug, err)
	}
	if err := os.WriteFile(page.Output, []byte(page.HTML), 0o644); err != nil {
		return fmt.Errorf("generator: write %s: %w", page.Output, err)
	}
	return nil
}

func (s *service) writeSitemap(rendered []RenderedPage, manifest *buildManifest, generatedAt time.Time) error {
	pages := append([]RenderedPage(nil), rendered...)

	// Skipped pages still belong in the sitemap; recover them from the manifest.
	seen := map[string]struct{}{}
	for _, page := range rendered {
		seen[strings.ToLower(page.Slug)] = struct{}{}
	}
	for key, entry := range manifest.Pages {
		if _, ok := seen[key]; ok {
			continue
		}
		pages = append(pages, RenderedPage{Slug: entry.Slug, Route: entry.Route, LastModified: entry.RenderedAt})
	}

	content := buildSitemap(s.baseURL(), pages, generatedAt)
	target := filepath.Join(s.cfg.OutputDir, "sitemap.xml")
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("generator: write sitemap: %w", err)
	}
	return nil
}

func (s *service) writeRobots() error {
	content := buildRobots(s.baseURL(), s.cfg.GenerateSitemap)
	target := filepath.Join(s.cfg.OutputDir, "robots.txt")
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("generator: write robots: %w", err)
	}
	return nil
}

func (s *service) baseURL() string {
	if s.deps.Site == nil {
		return ""
	}
	return s.deps.Site.BaseURL()
}

func (s *service) effectiveWorkerCount(pageCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if pageCount > 0 && workers > pageCount {
		return pageCount
	}
	return workers
}

func filterBySlugs(collection []*posts.Post, slugs []string) []*posts.Post {
	if len(slugs) == 0 {
		return collection
	}
	wanted := map[string]struct{}{}
	for _, slug := range slugs {
		wanted[strings.ToLower(strings.TrimSpace(slug))] = struct{}{}
	}

	var filtered []*posts.Post
	for _, post := range collection {
		if _, ok := wanted[strings.ToLower(post.Slug)]; ok {
			filtered = append(filtered, post)
		}
	}
	return filtered
}
