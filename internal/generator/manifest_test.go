package generator

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	manifest := newBuildManifest()
	manifest.GeneratedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	manifest.setPage(manifestPage{
		Slug:     "Hello-World",
		Route:    "/blog/hello-world/",
		Output:   filepath.Join(dir, "blog", "hello-world", "index.html"),
		Template: "post",
		Checksum: "abc123",
	})

	if err := manifest.persist(dir); err != nil {
		t.Fatalf("persist: %v", err)
	}

	loaded := loadManifest(dir)
	if loaded.Version != manifestFileVersion {
		t.Fatalf("unexpected version %d", loaded.Version)
	}
	entry, ok := loaded.Pages["hello-world"]
	if !ok {
		t.Fatal("expected lowercased slug key")
	}
	if entry.Checksum != "abc123" {
		t.Fatalf("unexpected checksum %q", entry.Checksum)
	}
}

func TestLoadManifestToleratesMissingAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()

	if m := loadManifest(dir); len(m.Pages) != 0 {
		t.Fatalf("missing file should yield empty manifest, got %d pages", len(m.Pages))
	}

	target := filepath.Join(dir, manifestFileName)
	if err := os.WriteFile(target, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt manifest: %v", err)
	}
	if m := loadManifest(dir); len(m.Pages) != 0 || m.Version != manifestFileVersion {
		t.Fatal("corrupt file should yield a fresh manifest")
	}
}

func TestManifestShouldSkip(t *testing.T) {
	manifest := newBuildManifest()
	manifest.setPage(manifestPage{
		Slug:     "hello",
		Output:   "/out/blog/hello/index.html",
		Checksum: "sum-1",
	})

	if !manifest.shouldSkip("hello", "sum-1", "/out/blog/hello/index.html") {
		t.Fatal("matching entry should skip")
	}
	if manifest.shouldSkip("hello", "sum-2", "/out/blog/hello/index.html") {
		t.Fatal("changed checksum must rebuild")
	}
	if manifest.shouldSkip("hello", "sum-1", "/elsewhere/index.html") {
		t.Fatal("moved output must rebuild")
	}
	if manifest.shouldSkip("unknown", "sum-1", "/out/blog/hello/index.html") {
		t.Fatal("unknown slug must rebuild")
	}
}

func TestManifestPrune(t *testing.T) {
	manifest := newBuildManifest()
	manifest.setPage(manifestPage{Slug: "keep", Checksum: "a"})
	manifest.setPage(manifestPage{Slug: "drop", Checksum: "b"})

	manifest.prune(map[string]struct{}{"keep": {}})

	if _, ok := manifest.Pages["keep"]; !ok {
		t.Fatal("kept entry removed")
	}
	if _, ok := manifest.Pages["drop"]; ok {
		t.Fatal("stale entry survived prune")
	}
}
