package search

import (
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/posts"
)

func collection() []*posts.Post {
	return []*posts.Post{
		{Slug: "year-end-review", Title: "Year End Review", Summary: "Looking back at the year.", Tags: []string{"Year End", "reflection"}, Date: time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)},
		{Slug: "go-generics", Title: "Go Generics in Practice", Summary: "Type parameters at work.", Tags: []string{"go", "programming"}, Date: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)},
		{Slug: "tokyo-trip", Title: "Tokyo Trip Notes", Summary: "Ramen and temples.", Tags: []string{"travel"}, Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestTagsDedupedAndSorted(t *testing.T) {
	input := append(collection(), &posts.Post{Slug: "extra", Tags: []string{"go", "travel", "aaa"}})

	tags := New(Config{}).Tags(input)

	want := []string{"Year End", "aaa", "go", "programming", "reflection", "travel"}
	if len(tags) != len(want) {
		t.Fatalf("tags: got %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tags: got %v, want %v", tags, want)
		}
	}
}

func TestFilterTextSubstring(t *testing.T) {
	ix := New(Config{})

	results := ix.Filter(collection(), Query{Text: "RAMEN"})
	if len(results) != 1 || results[0].Slug != "tokyo-trip" {
		t.Fatalf("text filter: got %+v", results)
	}

	// Tags participate in the text haystack.
	results = ix.Filter(collection(), Query{Text: "reflection"})
	if len(results) != 1 || results[0].Slug != "year-end-review" {
		t.Fatalf("tag-in-text filter: got %+v", results)
	}
}

func TestFilterTagNormalization(t *testing.T) {
	ix := New(Config{})

	for _, variant := range []string{"year-end", "Year End", "YEAR END"} {
		results := ix.Filter(collection(), Query{Tag: variant})
		if len(results) != 1 || results[0].Slug != "year-end-review" {
			t.Fatalf("tag filter %q: got %+v", variant, results)
		}
	}
}

func TestFilterCombinedAND(t *testing.T) {
	ix := New(Config{})

	results := ix.Filter(collection(), Query{Text: "review", Tag: "year-end"})
	if len(results) != 1 || results[0].Slug != "year-end-review" {
		t.Fatalf("combined filter: got %+v", results)
	}

	results = ix.Filter(collection(), Query{Text: "ramen", Tag: "year-end"})
	if len(results) != 0 {
		t.Fatalf("contradictory filter should match nothing: got %+v", results)
	}
}

func TestFilterPreservesOrderAndCap(t *testing.T) {
	var big []*posts.Post
	for i := 0; i < 30; i++ {
		big = append(big, &posts.Post{Slug: string(rune('a' + i)), Title: "Common Topic"})
	}

	ix := New(Config{DisplayCap: 5})
	results := ix.Filter(big, Query{Text: "common"})

	if len(results) != 5 {
		t.Fatalf("cap: got %d results", len(results))
	}
	for i, post := range results {
		if post != big[i] {
			t.Fatalf("order not preserved at %d", i)
		}
	}
}

func TestFilterEmptyQueryReturnsCollection(t *testing.T) {
	ix := New(Config{})

	results := ix.Filter(collection(), Query{})
	if len(results) != 3 {
		t.Fatalf("empty query: got %d results", len(results))
	}
}
