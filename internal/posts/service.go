package posts

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrInvalidConfig marks a service constructed without its required collaborators.
var ErrInvalidConfig = errors.New("posts: invalid configuration")

// Config wires the post accessor with its content source.
type Config struct {
	// ContentDir is the articles directory passed to the markdown service.
	ContentDir string
	// Markdown loads and parses the underlying documents.
	Markdown interfaces.MarkdownService
	// IncludeDrafts makes GetPublished keep draft records (development mode).
	IncludeDrafts bool
	// Now supplies the publish-date cutoff; defaults to time.Now.
	Now func() time.Time
	// Logger receives accessor events; defaults to a no-op.
	Logger interfaces.Logger
}

// Service enumerates article files and exposes the collection accessors. Calls
// re-read the directory every time; the pipeline runs once per build, so a
// cache would only hide stale content.
type Service struct {
	dir           string
	markdown      interfaces.MarkdownService
	includeDrafts bool
	now           func() time.Time
	logger        interfaces.Logger
}

// NewService builds a post accessor from the supplied configuration.
func NewService(cfg Config) (*Service, error) {
	if cfg.Markdown == nil {
		return nil, fmt.Errorf("%w: markdown service required", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.ContentDir) == "" {
		return nil, fmt.Errorf("%w: content directory required", ErrInvalidConfig)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Service{
		dir:           cfg.ContentDir,
		markdown:      cfg.Markdown,
		includeDrafts: cfg.IncludeDrafts,
		now:           now,
		logger:        logger,
	}, nil
}

// GetAll returns every record regardless of draft or publish status. Static
// path enumeration and the bundler consume this.
func (s *Service) GetAll(ctx context.Context) ([]*Post, error) {
	docs, err := s.markdown.LoadDirectory(ctx, s.dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("posts: load %s: %w", s.dir, err)
	}

	records := make([]*Post, 0, len(docs))
	for _, doc := range docs {
		records = append(records, fromDocument(doc))
	}

	s.logger.Debug("posts loaded", "dir", s.dir, "count", len(records))
	return records, nil
}

// GetPublished returns non-draft records whose publish date is absent or in
// the past, sorted by date descending. Ties keep their input order.
func (s *Service) GetPublished(ctx context.Context) ([]*Post, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	published := make([]*Post, 0, len(all))
	for _, post := range all {
		if s.isPublished(post, now) {
			published = append(published, post)
		}
	}

	sort.SliceStable(published, func(i, j int) bool {
		return published[i].Date.After(published[j].Date)
	})

	return published, nil
}

// GetBySlug resolves a record in two passes: exact filename match first, then
// a scan for a front-matter slug override. A miss returns (nil, false, nil);
// missing slugs are an expected outcome, not an error.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Post, bool, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, false, err
	}

	for _, post := range all {
		if filenameSlug(post.FilePath) == slug {
			return post, true, nil
		}
	}

	for _, post := range all {
		if post.FrontMatter.Slug != "" && post.FrontMatter.Slug == slug {
			return post, true, nil
		}
	}

	s.logger.Debug("post not found", "slug", slug)
	return nil, false, nil
}

func (s *Service) isPublished(post *Post, now time.Time) bool {
	if post.Draft && !s.includeDrafts {
		return false
	}
	if !post.PublishDate.IsZero() && post.PublishDate.After(now) {
		return false
	}
	return true
}

// fromDocument projects a parsed document into a Post record. The slug
// defaults to the filename minus extension; a front-matter slug overrides it.
func fromDocument(doc *interfaces.Document) *Post {
	slug := doc.FrontMatter.Slug
	if slug == "" {
		slug = filenameSlug(doc.FilePath)
	}

	return &Post{
		Slug:         slug,
		Title:        doc.FrontMatter.Title,
		Summary:      doc.FrontMatter.Summary,
		Description:  doc.FrontMatter.Description,
		Author:       doc.FrontMatter.Author,
		Layout:       doc.FrontMatter.Layout,
		CanonicalURL: doc.FrontMatter.CanonicalURL,
		Tags:         append([]string(nil), doc.FrontMatter.Tags...),
		Date:         doc.FrontMatter.Date,
		LastMod:      doc.FrontMatter.LastMod,
		PublishDate:  doc.FrontMatter.PublishDate,
		Draft:        doc.FrontMatter.Draft,
		FilePath:     doc.FilePath,
		Body:         doc.Body,
		BodyHTML:     doc.BodyHTML,
		Checksum:     doc.Checksum,
		FrontMatter:  doc.FrontMatter,
	}
}

func filenameSlug(filePath string) string {
	base := path.Base(filePath)
	return strings.TrimSuffix(base, path.Ext(base))
}
