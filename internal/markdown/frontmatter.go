package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrMalformedFrontMatter marks documents whose metadata header cannot be
// parsed. The build aborts for that file rather than producing a partial record.
var ErrMalformedFrontMatter = errors.New("markdown: malformed front matter")

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured front matter, the Markdown
// body without delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. BodyHTML is intentionally left empty so
// callers can render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title        string         `yaml:"title"`
	Slug         string         `yaml:"slug"`
	Summary      string         `yaml:"summary"`
	Description  string         `yaml:"description"`
	Tags         []string       `yaml:"tags"`
	Author       string         `yaml:"author"`
	Layout       string         `yaml:"layout"`
	CanonicalURL string         `yaml:"canonicalUrl"`
	Date         time.Time      `yaml:"date"`
	LastMod      time.Time      `yaml:"lastmod"`
	PublishDate  time.Time      `yaml:"publishDate"`
	Draft        bool           `yaml:"draft"`
	Custom       map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+12)
	for key, value := range env.Custom {
		raw[key] = serializeValue(value)
	}

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if env.Description != "" {
		raw["description"] = env.Description
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}
	if env.Layout != "" {
		raw["layout"] = env.Layout
	}
	if env.CanonicalURL != "" {
		raw["canonicalUrl"] = env.CanonicalURL
	}
	if !env.Date.IsZero() {
		raw["date"] = env.Date.UTC().Format(time.RFC3339)
	}
	if !env.LastMod.IsZero() {
		raw["lastmod"] = env.LastMod.UTC().Format(time.RFC3339)
	}
	if !env.PublishDate.IsZero() {
		raw["publishDate"] = env.PublishDate.UTC().Format(time.RFC3339)
	}
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:        env.Title,
		Slug:         env.Slug,
		Summary:      env.Summary,
		Description:  env.Description,
		Tags:         append([]string(nil), env.Tags...),
		Author:       env.Author,
		Layout:       env.Layout,
		CanonicalURL: env.CanonicalURL,
		Date:         env.Date,
		LastMod:      env.LastMod,
		PublishDate:  env.PublishDate,
		Draft:        env.Draft,
		Custom:       cloneSerialized(env.Custom),
		Raw:          raw,
	}
}

// serializeValue normalises date-typed values into ISO-8601 strings so the Raw
// map stays serialisable; consumers never see a native time value there.
func serializeValue(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.UTC().Format(time.RFC3339)
	default:
		return value
	}
}

func cloneSerialized(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = serializeValue(value)
	}
	return out
}
