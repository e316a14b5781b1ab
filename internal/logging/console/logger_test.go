package console_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("blog.posts")
	logger.Info("post.loaded", "slug", "hello-world")

	got := strings.TrimSpace(buf.String())
	want := "2024-03-14T15:09:26Z INFO post.loaded logger=blog.posts slug=hello-world"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: time.Now,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("blog.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
	if strings.Contains(lines[0], "ignored.debug") {
		t.Fatalf("unexpected debug log present: %s", lines[0])
	}
}

func TestConsoleLogger_WithFieldsMergesOnTopOfLoggerName(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	logger := provider.GetLogger("blog.media")
	logger.Warn("gallery.degraded", "folder", "akin-restaurant")
	if !strings.Contains(buf.String(), "folder=akin-restaurant") {
		t.Fatalf("expected folder field in output, got %s", buf.String())
	}
	if !strings.Contains(buf.String(), "logger=blog.media") {
		t.Fatalf("expected logger field in output, got %s", buf.String())
	}
}
