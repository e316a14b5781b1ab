package posts

import (
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Post is the parsed representation of one article file. Records are built
// fresh on every accessor call and are immutable within a single build.
type Post struct {
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	Description  string    `json:"description"`
	Author       string    `json:"author"`
	Layout       string    `json:"layout"`
	CanonicalURL string    `json:"canonicalUrl"`
	Tags         []string  `json:"tags"`
	Date         time.Time `json:"date"`
	LastMod      time.Time `json:"lastmod"`
	PublishDate  time.Time `json:"publishDate"`
	Draft        bool      `json:"draft"`
	FilePath     string    `json:"filePath"`
	// Body holds the raw Markdown source; BodyHTML the rendered form. A record
	// carries one or the other depending on the pipeline stage.
	Body     []byte `json:"-"`
	BodyHTML []byte `json:"-"`
	// Checksum is the SHA-256 digest of the source file, used for incremental
	// build skip decisions.
	Checksum []byte `json:"-"`

	FrontMatter interfaces.FrontMatter `json:"frontMatter"`
}

// CoreContent is the serialisable list-item projection of a Post, used by
// index pages, search payloads, and navigation context.
type CoreContent struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Date        time.Time `json:"date"`
	Tags        []string  `json:"tags"`
	Draft       bool      `json:"draft"`
	ReadingTime string    `json:"readingTime"`
}

// NavigationRef points at a chronologically adjacent post. Only the fields the
// page layer needs to render a link are carried.
type NavigationRef struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// NavigationContext holds the prev/next neighbors for one post. Prev and Next
// follow reading order over the date-descending collection: Next is the more
// recent neighbor, Prev the older one. Either is nil at a boundary.
type NavigationContext struct {
	Prev *NavigationRef `json:"prev"`
	Next *NavigationRef `json:"next"`
}

// Core returns the list-item projection of the post.
func (p *Post) Core(readingTime string) CoreContent {
	return CoreContent{
		Slug:        p.Slug,
		Title:       p.Title,
		Summary:     p.Summary,
		Date:        p.Date,
		Tags:        append([]string(nil), p.Tags...),
		Draft:       p.Draft,
		ReadingTime: readingTime,
	}
}

// Ref returns the navigation reference for the post.
func (p *Post) Ref() *NavigationRef {
	return &NavigationRef{Slug: p.Slug, Title: p.Title}
}
