package toc

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugger generates GitHub-style heading slugs with per-document
// de-duplication. Each document gets its own instance; no state is shared
// between documents.
//
// Heading slugs intentionally do not reuse the go-slug normaliser: anchor
// fragments must match the GitHub convention (underscores preserved, repeated
// hyphens kept) so links generated elsewhere keep resolving.
type Slugger struct {
	used map[string]bool
}

// NewSlugger creates an empty per-document slug registry.
func NewSlugger() *Slugger {
	return &Slugger{used: map[string]bool{}}
}

// Slug converts heading text into a unique fragment identifier. Repeated
// headings receive an incrementing numeric suffix: "hello-world",
// "hello-world-1", "hello-world-2", …
func (s *Slugger) Slug(text string) string {
	slug := headingSlug(text)
	if slug == "" {
		slug = "section"
	}

	if !s.used[slug] {
		s.used[slug] = true
		return slug
	}
	for i := 1; ; i++ {
		deduped := fmt.Sprintf("%s-%d", slug, i)
		if !s.used[deduped] {
			s.used[deduped] = true
			return deduped
		}
	}
}

// headingSlug lowercases the text, strips punctuation, and converts spaces to
// hyphens. Letters, digits, underscores, and hyphens survive; everything else
// is dropped.
func headingSlug(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('-')
		}
	}
	return b.String()
}
