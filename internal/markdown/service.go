package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Config wires the markdown service with its filesystem and parser defaults.
type Config struct {
	// BasePath is the content root; ignored when FS is supplied directly.
	BasePath string
	// FS overrides the filesystem used for loading (tests inject fstest.MapFS).
	FS fs.FS
	// Patterns restricts directory loads to matching files.
	Patterns []string
	// Recursive enables sub-directory traversal during directory loads.
	Recursive bool
	// Parser holds the default parse options applied when calls pass none.
	Parser interfaces.ParseOptions
	// Logger receives structured load/render events; defaults to a no-op.
	Logger interfaces.Logger
}

// Service implements interfaces.MarkdownService on top of the goldmark parser
// and the filesystem loader.
type Service struct {
	loader *Loader
	parser *GoldmarkParser
	opts   interfaces.ParseOptions
	logger interfaces.Logger
}

// NewService builds a markdown service from the supplied configuration.
func NewService(cfg Config) (*Service, error) {
	filesystem, basePath, err := prepareFilesystem(cfg)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	loader := NewLoader(filesystem, LoaderConfig{
		BasePath:  basePath,
		Patterns:  cfg.Patterns,
		Recursive: cfg.Recursive,
	})

	return &Service{
		loader: loader,
		parser: NewGoldmarkParser(toParseDefaults(cfg.Parser)),
		opts:   cfg.Parser,
		logger: logger,
	}, nil
}

// Load reads and parses a single document.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, path, loadParams(opts))
	if err != nil {
		s.logger.Error("document load failed", "path", path, "error", err)
		return nil, err
	}

	s.logger.Debug("document loaded", "path", result.Document.FilePath)
	return result.Document, nil
}

// LoadDirectory discovers and parses every matching document under dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, dir, loadParams(opts))
	if err != nil {
		s.logger.Error("directory load failed", "dir", dir, "error", err)
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		docs = append(docs, result.Document)
	}

	s.logger.Debug("directory loaded", "dir", dir, "documents", len(docs))
	return docs, nil
}

// Render converts raw Markdown into HTML using opts merged over the service
// defaults.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	merged := mergeParseOptions(s.opts, opts)
	html, err := s.parser.ParseWithOptions(markdown, toParseDefaults(merged))
	if err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return html, nil
}

// RenderDocument renders the document body and stores the result in BodyHTML.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("markdown render: nil document")
	}

	html, err := s.Render(ctx, doc.Body, opts)
	if err != nil {
		s.logger.Error("document render failed", "path", doc.FilePath, "error", err)
		return nil, err
	}

	doc.BodyHTML = html
	return html, nil
}

func prepareFilesystem(cfg Config) (fs.FS, string, error) {
	if cfg.FS != nil {
		return cfg.FS, cfg.BasePath, nil
	}
	if cfg.BasePath == "" {
		return nil, "", fmt.Errorf("markdown service: base path or filesystem required")
	}
	if info, err := os.Stat(cfg.BasePath); err != nil {
		return nil, "", fmt.Errorf("markdown service: content root %s: %w", cfg.BasePath, err)
	} else if !info.IsDir() {
		return nil, "", fmt.Errorf("markdown service: content root %s is not a directory", cfg.BasePath)
	}
	return os.DirFS(cfg.BasePath), cfg.BasePath, nil
}

// mergeParseOptions layers call overrides on top of the service defaults.
// Boolean flags are sticky: an option enabled at either level stays enabled.
func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	merged := base
	if len(override.Extensions) > 0 {
		merged.Extensions = override.Extensions
	}
	merged.Sanitize = base.Sanitize || override.Sanitize
	merged.HardWraps = base.HardWraps || override.HardWraps
	merged.SafeMode = base.SafeMode || override.SafeMode
	return merged
}

func toParseDefaults(opts interfaces.ParseOptions) ParseDefaults {
	return ParseDefaults{
		Extensions: opts.Extensions,
		Sanitize:   opts.Sanitize,
		HardWraps:  opts.HardWraps,
		SafeMode:   opts.SafeMode,
	}
}

func loadParams(opts interfaces.LoadOptions) LoadParams {
	return LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	}
}
