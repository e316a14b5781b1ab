package restaurants

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrInvalidConfig marks a service constructed without its required collaborators.
var ErrInvalidConfig = errors.New("restaurants: invalid configuration")

// PhotosAuto is the front-matter sentinel requesting a CDN folder listing.
const PhotosAuto = "auto"

// Restaurant is one review record, sourced from either the MDX directory or
// the static dataset.
type Restaurant struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	Cuisine    string  `json:"cuisine"`
	Location   string  `json:"location"`
	Rating     float64 `json:"rating"`
	PriceRange string  `json:"priceRange,omitempty"`
	// VisitDate is a date-only ISO string ("2024-03-15").
	VisitDate string             `json:"visitDate"`
	Tags      []string           `json:"tags,omitempty"`
	Summary   string             `json:"summary,omitempty"`
	Photos    []interfaces.Photo `json:"photos"`
	Body      []byte             `json:"-"`
}

// Config wires the review service with its content sources.
type Config struct {
	// ReviewsDir is the MDX review directory; primary source.
	ReviewsDir string
	// Markdown loads the review documents.
	Markdown interfaces.MarkdownService
	// StaticData is the fallback JSON dataset, validated against the schema.
	StaticData []byte
	// Gallery resolves photo folders and numbered galleries.
	Gallery interfaces.GalleryProvider
	// MediaFolder prefixes CDN gallery folders; defaults to "restaurants".
	MediaFolder string
	// Logger receives service events; defaults to a no-op.
	Logger interfaces.Logger
}

// Service loads restaurant reviews, preferring the MDX directory and falling
// back to the static dataset when the directory is missing or empty.
type Service struct {
	dir         string
	markdown    interfaces.MarkdownService
	staticData  []byte
	gallery     interfaces.GalleryProvider
	mediaFolder string
	logger      interfaces.Logger
}

// NewService builds a review service from the supplied configuration.
func NewService(cfg Config) (*Service, error) {
	if cfg.Markdown == nil && len(cfg.StaticData) == 0 {
		return nil, fmt.Errorf("%w: markdown service or static dataset required", ErrInvalidConfig)
	}
	if cfg.Markdown != nil && strings.TrimSpace(cfg.ReviewsDir) == "" {
		return nil, fmt.Errorf("%w: reviews directory required", ErrInvalidConfig)
	}

	folder := strings.Trim(cfg.MediaFolder, "/")
	if folder == "" {
		folder = "restaurants"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Service{
		dir:         cfg.ReviewsDir,
		markdown:    cfg.Markdown,
		staticData:  cfg.StaticData,
		gallery:     cfg.Gallery,
		mediaFolder: folder,
		logger:      logger,
	}, nil
}

// GetAll returns every review, sorted by visit date descending. The MDX
// directory wins when it yields records; otherwise the static dataset serves.
func (s *Service) GetAll(ctx context.Context) ([]*Restaurant, error) {
	records, err := s.loadFromMarkdown(ctx)
	if err != nil {
		s.logger.Warn("review directory load failed, falling back to static dataset", "dir", s.dir, "error", err)
	}

	if len(records) == 0 && len(s.staticData) > 0 {
		records, err = s.loadFromStaticData(ctx)
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].VisitDate > records[j].VisitDate
	})
	return records, nil
}

// GetBySlug resolves one review. A miss returns (nil, false, nil).
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Restaurant, bool, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, record := range all {
		if record.Slug == slug {
			return record, true, nil
		}
	}
	return nil, false, nil
}

func (s *Service) loadFromMarkdown(ctx context.Context) ([]*Restaurant, error) {
	if s.markdown == nil {
		return nil, nil
	}

	docs, err := s.markdown.LoadDirectory(ctx, s.dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, err
	}

	records := make([]*Restaurant, 0, len(docs))
	for _, doc := range docs {
		record, err := s.fromDocument(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("restaurants: %s: %w", doc.FilePath, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Service) fromDocument(ctx context.Context, doc *interfaces.Document) (*Restaurant, error) {
	custom := doc.FrontMatter.Custom

	slug := doc.FrontMatter.Slug
	if slug == "" {
		slug = filenameSlug(doc.FilePath)
	}

	record := &Restaurant{
		ID:         stringField(custom, "id"),
		Name:       stringField(custom, "name"),
		Slug:       slug,
		Cuisine:    stringField(custom, "cuisine"),
		Location:   stringField(custom, "location"),
		Rating:     floatField(custom, "rating"),
		PriceRange: stringField(custom, "priceRange"),
		VisitDate:  normalizeVisitDate(custom["visitDate"]),
		Tags:       doc.FrontMatter.Tags,
		Summary:    doc.FrontMatter.Summary,
		Body:       doc.Body,
	}
	if record.Name == "" {
		record.Name = doc.FrontMatter.Title
	}
	if record.ID == "" {
		record.ID = record.Slug
	}

	record.Photos = s.resolvePhotos(ctx, record, custom["photos"])
	return record, nil
}

// resolvePhotos interprets the front-matter photos value: "auto" lists the
// CDN folder, a number generates that many templated entries, and an explicit
// list passes through as-is.
func (s *Service) resolvePhotos(ctx context.Context, record *Restaurant, value any) []interfaces.Photo {
	folder := s.mediaFolder + "/" + record.Slug

	switch typed := value.(type) {
	case nil:
		return []interfaces.Photo{}
	case string:
		if strings.EqualFold(strings.TrimSpace(typed), PhotosAuto) {
			return s.listFolder(ctx, folder)
		}
		if count, err := strconv.Atoi(strings.TrimSpace(typed)); err == nil {
			return s.numbered(folder, count, record.Name)
		}
		return []interfaces.Photo{{URL: typed, Alt: record.Name}}
	case int:
		return s.numbered(folder, typed, record.Name)
	case float64:
		return s.numbered(folder, int(typed), record.Name)
	case []any:
		photos := make([]interfaces.Photo, 0, len(typed))
		for _, item := range typed {
			if url, ok := item.(string); ok && url != "" {
				photos = append(photos, interfaces.Photo{URL: url, Alt: record.Name})
			}
		}
		return photos
	case []string:
		photos := make([]interfaces.Photo, 0, len(typed))
		for _, url := range typed {
			photos = append(photos, interfaces.Photo{URL: url, Alt: record.Name})
		}
		return photos
	default:
		s.logger.Warn("unsupported photos value", "slug", record.Slug, "type", fmt.Sprintf("%T", value))
		return []interfaces.Photo{}
	}
}

func (s *Service) listFolder(ctx context.Context, folder string) []interfaces.Photo {
	if s.gallery == nil {
		return []interfaces.Photo{}
	}
	photos, err := s.gallery.ListFolder(ctx, folder)
	if err != nil || photos == nil {
		return []interfaces.Photo{}
	}
	return photos
}

func (s *Service) numbered(folder string, count int, alt string) []interfaces.Photo {
	if s.gallery == nil || count <= 0 {
		return []interfaces.Photo{}
	}
	photos := s.gallery.NumberedPhotos(folder, count, alt)
	if photos == nil {
		return []interfaces.Photo{}
	}
	return photos
}

// normalizeVisitDate reduces any supported date representation to a date-only
// ISO string.
func normalizeVisitDate(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case time.Time:
		return typed.UTC().Format("2006-01-02")
	case string:
		trimmed := strings.TrimSpace(typed)
		if len(trimmed) >= 10 {
			if _, err := time.Parse("2006-01-02", trimmed[:10]); err == nil {
				return trimmed[:10]
			}
		}
		return trimmed
	default:
		return ""
	}
}

func stringField(values map[string]any, key string) string {
	if values == nil {
		return ""
	}
	if value, ok := values[key].(string); ok {
		return value
	}
	return ""
}

func floatField(values map[string]any, key string) float64 {
	if values == nil {
		return 0
	}
	switch typed := values[key].(type) {
	case float64:
		return typed
	case int:
		return float64(typed)
	default:
		return 0
	}
}

func filenameSlug(filePath string) string {
	base := filePath
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base
}
