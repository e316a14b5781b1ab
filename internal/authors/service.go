package authors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrInvalidConfig marks a service constructed without its required collaborators.
var ErrInvalidConfig = errors.New("authors: invalid configuration")

// Author is the parsed representation of one profile file. Posts reference
// authors by exact name.
type Author struct {
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	Occupation string `json:"occupation"`
	Company    string `json:"company"`
	Email      string `json:"email"`
	Twitter    string `json:"twitter"`
	LinkedIn   string `json:"linkedin"`
	GitHub     string `json:"github"`
	// Bio holds the raw profile body text.
	Bio []byte `json:"-"`
}

// Config wires the author resolver with its content source.
type Config struct {
	// ProfilesDir is the author-profile directory passed to the markdown service.
	ProfilesDir string
	// Markdown loads and parses the profile documents.
	Markdown interfaces.MarkdownService
	// Logger receives resolver events; defaults to a no-op.
	Logger interfaces.Logger
}

// Service loads author profiles and resolves them by name.
type Service struct {
	dir      string
	markdown interfaces.MarkdownService
	logger   interfaces.Logger
}

// NewService builds an author resolver from the supplied configuration.
func NewService(cfg Config) (*Service, error) {
	if cfg.Markdown == nil {
		return nil, fmt.Errorf("%w: markdown service required", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.ProfilesDir) == "" {
		return nil, fmt.Errorf("%w: profiles directory required", ErrInvalidConfig)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Service{
		dir:      cfg.ProfilesDir,
		markdown: cfg.Markdown,
		logger:   logger,
	}, nil
}

// GetAll returns every author profile.
func (s *Service) GetAll(ctx context.Context) ([]*Author, error) {
	docs, err := s.markdown.LoadDirectory(ctx, s.dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("authors: load %s: %w", s.dir, err)
	}

	records := make([]*Author, 0, len(docs))
	for _, doc := range docs {
		records = append(records, fromDocument(doc))
	}
	return records, nil
}

// GetByName resolves an author by exact name match. On a miss it synthesises
// a placeholder record carrying only the name so callers never receive nil;
// an unresolved author is an expected condition, not an error.
func (s *Service) GetByName(ctx context.Context, name string) (*Author, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, author := range all {
		if author.Name == name {
			return author, nil
		}
	}

	s.logger.Debug("author not found, using placeholder", "name", name)
	return &Author{Name: name}, nil
}

func fromDocument(doc *interfaces.Document) *Author {
	author := &Author{
		Name: doc.FrontMatter.Title,
		Bio:  doc.Body,
	}

	custom := doc.FrontMatter.Custom
	if name := stringField(custom, "name"); name != "" {
		author.Name = name
	}
	author.Avatar = stringField(custom, "avatar")
	author.Occupation = stringField(custom, "occupation")
	author.Company = stringField(custom, "company")
	author.Email = stringField(custom, "email")
	author.Twitter = stringField(custom, "twitter")
	author.LinkedIn = stringField(custom, "linkedin")
	author.GitHub = stringField(custom, "github")

	return author
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
