package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw Markdown/MDX bytes are converted into HTML.
// Implementations must keep a fixed, ordered extension chain so documents render
// identically across invocations; reusable parser instances are expected.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService exposes the file workflows used by the blog pipeline: loading
// documents from the content directory and rendering their bodies to HTML.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}

// Document represents a Markdown file with parsed metadata and content. A
// record holds the raw Body until rendered; BodyHTML is populated by the
// renderer and the two are never rebuilt from each other.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content so
	// incremental builds can detect changes without re-rendering.
	Checksum []byte
}

// FrontMatter models the metadata header of a blog document. Date-typed fields
// are exposed both as time.Time and, inside Raw, as ISO-8601 strings so the
// parsed record stays serialisable end to end.
type FrontMatter struct {
	Title        string         `yaml:"title" json:"title"`
	Slug         string         `yaml:"slug" json:"slug"`
	Summary      string         `yaml:"summary" json:"summary"`
	Description  string         `yaml:"description" json:"description"`
	Tags         []string       `yaml:"tags" json:"tags"`
	Author       string         `yaml:"author" json:"author"`
	Layout       string         `yaml:"layout" json:"layout"`
	CanonicalURL string         `yaml:"canonicalUrl" json:"canonicalUrl"`
	Date         time.Time      `yaml:"date" json:"date"`
	LastMod      time.Time      `yaml:"lastmod" json:"lastmod"`
	PublishDate  time.Time      `yaml:"publishDate" json:"publishDate"`
	Draft        bool           `yaml:"draft" json:"draft"`
	Custom       map[string]any `yaml:",inline" json:"custom"`
	Raw          map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}
