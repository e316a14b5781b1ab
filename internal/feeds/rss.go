package feeds

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/urls"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrInvalidConfig marks a feed writer constructed without its required collaborators.
var ErrInvalidConfig = errors.New("feeds: invalid configuration")

// FeedFileName is the artifact name inside the build output directory.
const FeedFileName = "feed.xml"

// Config describes the channel-level feed metadata.
type Config struct {
	// Title is the channel title, typically the site name.
	Title string
	// Description is the channel description.
	Description string
	// Language is the channel language code, e.g. "en-us".
	Language string
	// Site builds the channel and item links.
	Site *urls.Site
	// Logger receives feed events; defaults to a no-op.
	Logger interfaces.Logger
}

// Writer renders the published collection as an RSS 2.0 document.
type Writer struct {
	cfg    Config
	site   *urls.Site
	logger interfaces.Logger
}

// NewWriter builds a feed writer from the supplied configuration.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.Site == nil {
		return nil, fmt.Errorf("%w: site URL builder required", ErrInvalidConfig)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Writer{cfg: cfg, site: cfg.Site, logger: logger}, nil
}

// Generate renders the RSS document for the supplied collection. Callers pass
// the published, date-descending sorted set; the writer does not re-filter.
func (w *Writer) Generate(collection []*posts.Post) ([]byte, error) {
	siteLink, err := w.site.Home()
	if err != nil {
		return nil, fmt.Errorf("feeds: channel link: %w", err)
	}

	channel := channel{
		Title:       w.cfg.Title,
		Link:        siteLink,
		Description: w.cfg.Description,
		Language:    w.cfg.Language,
	}

	for _, post := range collection {
		link, err := w.site.Post(post.Slug)
		if err != nil {
			return nil, fmt.Errorf("feeds: item link for %s: %w", post.Slug, err)
		}

		entry := item{
			Title:       post.Title,
			Link:        link,
			Description: post.Summary,
			GUID: guid{
				IsPermaLink: false,
				Value:       identity.FeedItemUUID(post.Slug, link).String(),
			},
			Categories: post.Tags,
		}
		if !post.Date.IsZero() {
			entry.PubDate = post.Date.UTC().Format(time.RFC1123Z)
		}
		channel.Items = append(channel.Items, entry)

		if channel.LastBuildDate == "" && !post.Date.IsZero() {
			channel.LastBuildDate = post.Date.UTC().Format(time.RFC1123Z)
		}
	}

	doc := rss{Version: "2.0", Channel: channel}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("feeds: marshal: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}

// WriteFile generates the feed and writes it to <outputDir>/feed.xml.
func (w *Writer) WriteFile(outputDir string, collection []*posts.Post) (string, error) {
	body, err := w.Generate(collection)
	if err != nil {
		return "", err
	}

	target := filepath.Join(outputDir, FeedFileName)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("feeds: ensure output dir: %w", err)
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return "", fmt.Errorf("feeds: write %s: %w", target, err)
	}

	w.logger.Info("feed written", "path", target, "items", len(collection))
	return target, nil
}

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	Language      string `xml:"language,omitempty"`
	LastBuildDate string `xml:"lastBuildDate,omitempty"`
	Items         []item `xml:"item"`
}

type item struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description,omitempty"`
	GUID        guid     `xml:"guid"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Categories  []string `xml:"category,omitempty"`
}

type guid struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}
