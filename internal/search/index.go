package search

import (
	"sort"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultDisplayCap limits how many results the interactive search returns.
const DefaultDisplayCap = 20

// Config tunes the search index.
type Config struct {
	// DisplayCap truncates filter results; defaults to DefaultDisplayCap.
	DisplayCap int
	// Logger receives index events; defaults to a no-op.
	Logger interfaces.Logger
}

// Query combines a free-text term and a tag filter. Both predicates must
// match when both are set.
type Query struct {
	Text string
	Tag  string
}

// Index derives tag sets and filters a post collection for the search UI.
// The index holds no state over the collection; every call operates on the
// slice it is handed, preserving its order.
type Index struct {
	cap    int
	logger interfaces.Logger
}

// New builds a search index with the supplied configuration.
func New(cfg Config) *Index {
	displayCap := cfg.DisplayCap
	if displayCap <= 0 {
		displayCap = DefaultDisplayCap
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Index{cap: displayCap, logger: logger}
}

// Tags returns the distinct tags across the collection, sorted alphabetically
// for stable display order.
func (ix *Index) Tags(collection []*posts.Post) []string {
	seen := map[string]struct{}{}
	var tags []string

	for _, post := range collection {
		for _, tag := range post.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}

	sort.Strings(tags)
	return tags
}

// Filter applies the query to the collection. Text matches against the
// lower-cased concatenation of title, summary, and tags; the tag predicate
// compares slug-normalised values so "Year End" equals "year-end". Results
// keep the input order and are truncated to the display cap. No relevance
// ranking.
func (ix *Index) Filter(collection []*posts.Post, query Query) []*posts.Post {
	text := strings.ToLower(strings.TrimSpace(query.Text))
	tag := normalizeTag(query.Tag)

	var matches []*posts.Post
	for _, post := range collection {
		if text != "" && !matchesText(post, text) {
			continue
		}
		if tag != "" && !matchesTag(post, tag) {
			continue
		}
		matches = append(matches, post)
		if len(matches) >= ix.cap {
			break
		}
	}

	ix.logger.Debug("search filtered", "text", query.Text, "tag", query.Tag, "results", len(matches))
	return matches
}

func matchesText(post *posts.Post, loweredQuery string) bool {
	haystack := strings.ToLower(post.Title + " " + post.Summary + " " + strings.Join(post.Tags, " "))
	return strings.Contains(haystack, loweredQuery)
}

func matchesTag(post *posts.Post, normalizedTag string) bool {
	for _, tag := range post.Tags {
		if normalizeTag(tag) == normalizedTag {
			return true
		}
	}
	return false
}

// normalizeTag applies the same slug transform tag URLs use, falling back to
// plain lowercasing when a value cannot be normalised.
func normalizeTag(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}
	return normalized
}
