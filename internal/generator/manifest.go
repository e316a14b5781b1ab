package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	manifestFileName    = ".blog-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores metadata about the last successful build to support
// incremental runs.
type buildManifest struct {
	Version     int                     `json:"version"`
	GeneratedAt time.Time               `json:"generated_at"`
	Pages       map[string]manifestPage `json:"pages"`
}

type manifestPage struct {
	Slug       string    `json:"slug"`
	Route      string    `json:"route"`
	Output     string    `json:"output"`
	Template   string    `json:"template"`
	Checksum   string    `json:"checksum"`
	RenderedAt time.Time `json:"rendered_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version: manifestFileVersion,
		Pages:   map[string]manifestPage{},
	}
}

func loadManifest(outputDir string) *buildManifest {
	data, err := os.ReadFile(filepath.Join(outputDir, manifestFileName))
	if err != nil {
		return newBuildManifest()
	}

	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return newBuildManifest()
	}
	if manifest.Pages == nil {
		manifest.Pages = map[string]manifestPage{}
	}
	if manifest.Version == 0 {
		manifest.Version = manifestFileVersion
	}
	return &manifest
}

func (m *buildManifest) persist(outputDir string) error {
	data, err := m.marshal()
	if err != nil {
		return err
	}
	target := filepath.Join(outputDir, manifestFileName)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("generator: write manifest: %w", err)
	}
	return nil
}

func (m *buildManifest) marshal() ([]byte, error) {
	// Map keys marshal in sorted order, keeping output deterministic.
	return json.MarshalIndent(m, "", "  ")
}

func (m *buildManifest) shouldSkip(slug, checksum, output string) bool {
	entry, ok := m.Pages[strings.ToLower(slug)]
	if !ok {
		return false
	}
	if entry.Checksum != checksum {
		return false
	}
	return strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}

func (m *buildManifest) setPage(entry manifestPage) {
	m.Pages[strings.ToLower(entry.Slug)] = entry
}

func (m *buildManifest) prune(keep map[string]struct{}) {
	for key := range m.Pages {
		if _, ok := keep[key]; !ok {
			delete(m.Pages, key)
		}
	}
}
