package authors

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-blog/internal/markdown"
)

func newTestResolver(t *testing.T, files fstest.MapFS) *Service {
	t.Helper()

	md, err := markdown.NewService(markdown.Config{FS: files})
	if err != nil {
		t.Fatalf("markdown service: %v", err)
	}

	svc, err := NewService(Config{ProfilesDir: "authors", Markdown: md})
	if err != nil {
		t.Fatalf("authors service: %v", err)
	}
	return svc
}

func profileFS() fstest.MapFS {
	return fstest.MapFS{
		"authors/ada.md": {Data: []byte(`---
name: Ada Lovelace
avatar: /images/ada.png
occupation: Analyst
company: Analytical Engines Ltd
email: ada@example.com
github: adal
---

First programmer.
`)},
		"authors/alan.md": {Data: []byte(`---
name: Alan Turing
occupation: Mathematician
---

Bio text.
`)},
	}
}

func TestGetByNameExactMatch(t *testing.T) {
	svc := newTestResolver(t, profileFS())

	author, err := svc.GetByName(context.Background(), "Ada Lovelace")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}

	if author.Occupation != "Analyst" {
		t.Errorf("occupation: got %q", author.Occupation)
	}
	if author.Company != "Analytical Engines Ltd" {
		t.Errorf("company: got %q", author.Company)
	}
	if author.Avatar != "/images/ada.png" {
		t.Errorf("avatar: got %q", author.Avatar)
	}
	if author.GitHub != "adal" {
		t.Errorf("github: got %q", author.GitHub)
	}
	if len(author.Bio) == 0 {
		t.Error("expected bio body")
	}
}

func TestGetByNamePlaceholderOnMiss(t *testing.T) {
	svc := newTestResolver(t, profileFS())

	author, err := svc.GetByName(context.Background(), "Ghost Writer")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if author == nil {
		t.Fatal("placeholder must never be nil")
	}
	if author.Name != "Ghost Writer" {
		t.Errorf("name: got %q", author.Name)
	}
	if author.Occupation != "" || author.Avatar != "" {
		t.Errorf("placeholder should carry only the name: %+v", author)
	}
}

func TestGetAll(t *testing.T) {
	svc := newTestResolver(t, profileFS())

	all, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(all))
	}
}
