package generator

import (
	"fmt"
	"os"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// ThemingConfig selects which theme manifest drives layout resolution.
type ThemingConfig struct {
	// ThemeDir points at a theme directory carrying a manifest; optional.
	ThemeDir string
	// DefaultTheme names the registered theme to select.
	DefaultTheme string
	// DefaultVariant names the variant to select within the theme.
	DefaultVariant string
}

// themeSelector resolves front-matter layout names to template names through
// a go-theme manifest registry. Without a configured theme the layout name
// passes through unchanged.
type themeSelector struct {
	registry       *gotheme.MemoryRegistry
	themeDir       string
	defaultTheme   string
	defaultVariant string

	mu     sync.Mutex
	loaded bool
}

func newThemeSelector(cfg ThemingConfig) *themeSelector {
	return &themeSelector{
		registry:       gotheme.NewRegistry(),
		themeDir:       strings.TrimSpace(cfg.ThemeDir),
		defaultTheme:   strings.TrimSpace(cfg.DefaultTheme),
		defaultVariant: strings.TrimSpace(cfg.DefaultVariant),
	}
}

// TemplateFor maps a front-matter layout to the template name the renderer
// should execute. Theme manifests may remap layouts; otherwise the layout
// itself is the template name.
func (s *themeSelector) TemplateFor(layout string) string {
	layout = strings.TrimSpace(layout)
	if layout == "" {
		layout = "post"
	}

	selection, err := s.selection()
	if err != nil || selection == nil {
		return layout
	}
	return resolveTemplate(selection.Template, layout)
}

// resolveTemplate asks the selection resolver for the template mapped to the
// layout key, passing the layout itself as the fallback. Blank answers keep
// the layout name.
func resolveTemplate(resolve func(key, fallback string) string, layout string) string {
	if resolve == nil {
		return layout
	}
	if tmpl := strings.TrimSpace(resolve(layout, layout)); tmpl != "" {
		return tmpl
	}
	return layout
}

func (s *themeSelector) selection() (*gotheme.Selection, error) {
	if s.themeDir == "" || s.defaultTheme == "" {
		return nil, nil
	}
	if err := s.ensureManifest(); err != nil {
		return nil, err
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.defaultTheme,
		DefaultVariant: s.defaultVariant,
	}
	selection, err := selector.Select(s.defaultTheme, s.defaultVariant)
	if err != nil {
		return nil, fmt.Errorf("generator: select theme %s: %w", s.defaultTheme, err)
	}
	return selection, nil
}

func (s *themeSelector) ensureManifest() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	manifest, err := gotheme.LoadDir(os.DirFS(s.themeDir), ".")
	if err != nil {
		return fmt.Errorf("generator: load theme manifest from %s: %w", s.themeDir, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" {
		normalized.Name = s.defaultTheme
	}
	if err := s.registry.Register(&normalized); err != nil {
		return fmt.Errorf("generator: register theme manifest: %w", err)
	}

	s.loaded = true
	return nil
}
