package toc

import (
	"regexp"
	"strings"
)

// Heading is one table-of-contents entry derived from a document body. The
// collection is a flat ordered sequence; nesting is implied by Depth alone.
type Heading struct {
	Value string `json:"value"`
	Depth int    `json:"depth"`
	URL   string `json:"url"`
}

var (
	headingPattern    = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	inlineLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
)

// Extract scans raw Markdown/MDX body text and returns one Heading per
// ATX-style heading line, preserving document order. Each call is independent
// and pure with respect to its input; slugs are unique within the returned
// sequence.
func Extract(body string) []Heading {
	matches := headingPattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	slugger := NewSlugger()
	headings := make([]Heading, 0, len(matches))

	for _, match := range matches {
		value := stripInlineMarkup(match[2])
		headings = append(headings, Heading{
			Value: value,
			Depth: len(match[1]),
			URL:   "#" + slugger.Slug(value),
		})
	}

	return headings
}

// stripInlineMarkup removes decorations from heading display text: HTML tags,
// link syntax collapsed to its label, and inline code backticks.
func stripInlineMarkup(text string) string {
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = inlineLinkPattern.ReplaceAllString(text, "$1")
	text = inlineCodePattern.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
