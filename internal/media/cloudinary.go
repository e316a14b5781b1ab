package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrInvalidConfig marks a provider constructed without a cloud name.
var ErrInvalidConfig = errors.New("media: invalid configuration")

// Rendition transform parameter sets. URL construction only; the CDN applies
// the transforms on delivery.
const (
	transformOptimized   = "f_auto,q_auto:eco,c_limit,w_2000,dpr_auto"
	transformThumbnail   = "f_auto,q_auto:low,c_fill,w_400,h_400,g_auto"
	transformPlaceholder = "f_auto,q_auto:low,c_scale,w_50,e_blur:1000"
)

// DefaultCacheTTL bounds how long folder listings are reused.
const DefaultCacheTTL = time.Hour

// Config wires the CDN gallery provider.
type Config struct {
	// CloudName identifies the CDN account; required.
	CloudName string
	// APIKey and APISecret authenticate Admin API folder listings. When either
	// is empty the provider skips the API and always degrades to templated URLs.
	APIKey    string
	APISecret string
	// BaseDeliveryURL overrides the delivery origin (tests point it at a stub).
	BaseDeliveryURL string
	// BaseAPIURL overrides the Admin API origin (tests point it at a stub).
	BaseAPIURL string
	// HTTPClient performs API calls; defaults to a client with a short timeout.
	HTTPClient *http.Client
	// Cache memoises folder listings when set.
	Cache interfaces.CacheProvider
	// CacheTTL bounds cached listings; defaults to DefaultCacheTTL.
	CacheTTL time.Duration
	// Logger receives provider events; defaults to a no-op.
	Logger interfaces.Logger
}

// CloudinaryProvider implements interfaces.GalleryProvider against a
// Cloudinary-style CDN. API failures are absorbed: callers always get a
// usable (possibly empty) photo list.
type CloudinaryProvider struct {
	cloudName   string
	apiKey      string
	apiSecret   string
	deliveryURL string
	apiURL      string
	client      *http.Client
	cache       interfaces.CacheProvider
	cacheTTL    time.Duration
	logger      interfaces.Logger
}

// NewCloudinaryProvider builds a gallery provider from the supplied configuration.
func NewCloudinaryProvider(cfg Config) (*CloudinaryProvider, error) {
	cloud := strings.TrimSpace(cfg.CloudName)
	if cloud == "" {
		return nil, fmt.Errorf("%w: cloud name required", ErrInvalidConfig)
	}

	delivery := strings.TrimRight(cfg.BaseDeliveryURL, "/")
	if delivery == "" {
		delivery = "https://res.cloudinary.com"
	}
	api := strings.TrimRight(cfg.BaseAPIURL, "/")
	if api == "" {
		api = "https://api.cloudinary.com"
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &CloudinaryProvider{
		cloudName:   cloud,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		apiSecret:   strings.TrimSpace(cfg.APISecret),
		deliveryURL: delivery,
		apiURL:      api,
		client:      client,
		cache:       cfg.Cache,
		cacheTTL:    ttl,
		logger:      logger,
	}, nil
}

// ListFolder returns the photos stored under folder. Missing credentials, API
// failures, and malformed responses all degrade to an empty slice; the page
// renders an empty gallery rather than an error.
func (p *CloudinaryProvider) ListFolder(ctx context.Context, folder string) ([]interfaces.Photo, error) {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return nil, nil
	}

	if p.apiKey == "" || p.apiSecret == "" {
		p.logger.Debug("cdn credentials missing, skipping folder listing", "folder", folder)
		return nil, nil
	}

	cacheKey := "media:folder:" + folder
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil {
			if photos, ok := cached.([]interfaces.Photo); ok {
				return photos, nil
			}
		}
	}

	photos, err := p.fetchFolder(ctx, folder)
	if err != nil {
		p.logger.Warn("cdn folder listing failed", "folder", folder, "error", err)
		return nil, nil
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, cacheKey, photos, p.cacheTTL); err != nil {
			p.logger.Warn("cdn listing cache store failed", "folder", folder, "error", err)
		}
	}

	return photos, nil
}

// NumberedPhotos generates count records with templated URLs, assuming assets
// named 1..count under the folder. Offline fallback for galleries whose size
// is declared in front matter.
func (p *CloudinaryProvider) NumberedPhotos(folder string, count int, altPrefix string) []interfaces.Photo {
	folder = strings.Trim(folder, "/")
	if folder == "" || count <= 0 {
		return nil
	}

	photos := make([]interfaces.Photo, 0, count)
	for i := 1; i <= count; i++ {
		publicID := fmt.Sprintf("%s/%d", folder, i)
		alt := strings.TrimSpace(altPrefix)
		if alt == "" {
			alt = folder
		}
		photos = append(photos, p.photoFor(publicID, fmt.Sprintf("%s %d", alt, i), 0, 0))
	}
	return photos
}

// OptimizedURL returns the full-size delivery URL for a public ID.
func (p *CloudinaryProvider) OptimizedURL(publicID string) string {
	return p.transformURL(transformOptimized, publicID)
}

// ThumbnailURL returns the square-crop delivery URL for a public ID.
func (p *CloudinaryProvider) ThumbnailURL(publicID string) string {
	return p.transformURL(transformThumbnail, publicID)
}

// PlaceholderURL returns the blurred low-res delivery URL for a public ID.
func (p *CloudinaryProvider) PlaceholderURL(publicID string) string {
	return p.transformURL(transformPlaceholder, publicID)
}

func (p *CloudinaryProvider) transformURL(transform, publicID string) string {
	return fmt.Sprintf("%s/%s/image/upload/%s/%s", p.deliveryURL, p.cloudName, transform, strings.TrimLeft(publicID, "/"))
}

func (p *CloudinaryProvider) photoFor(publicID, alt string, width, height int) interfaces.Photo {
	return interfaces.Photo{
		URL:            p.OptimizedURL(publicID),
		ThumbnailURL:   p.ThumbnailURL(publicID),
		PlaceholderURL: p.PlaceholderURL(publicID),
		Alt:            alt,
		Width:          width,
		Height:         height,
		PublicID:       publicID,
	}
}

type listResourcesResponse struct {
	Resources []struct {
		PublicID string `json:"public_id"`
		Width    int    `json:"width"`
		Height   int    `json:"height"`
	} `json:"resources"`
}

func (p *CloudinaryProvider) fetchFolder(ctx context.Context, folder string) ([]interfaces.Photo, error) {
	endpoint := fmt.Sprintf("%s/v1_1/%s/resources/image/upload?%s", p.apiURL, p.cloudName, url.Values{
		"prefix":      {folder + "/"},
		"max_results": {"500"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(p.apiKey, p.apiSecret)

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var payload listResourcesResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	photos := make([]interfaces.Photo, 0, len(payload.Resources))
	for _, resource := range payload.Resources {
		alt := altFromPublicID(resource.PublicID)
		photos = append(photos, p.photoFor(resource.PublicID, alt, resource.Width, resource.Height))
	}

	sortByNumericSuffix(photos)
	return photos, nil
}

var trailingNumber = regexp.MustCompile(`(\d+)$`)

// sortByNumericSuffix orders photos by the trailing number in their public IDs
// so "folder/2" sorts before "folder/10". Non-numbered entries keep their
// relative order after the numbered ones.
func sortByNumericSuffix(photos []interfaces.Photo) {
	sort.SliceStable(photos, func(i, j int) bool {
		ni, iOK := numericSuffix(photos[i].PublicID)
		nj, jOK := numericSuffix(photos[j].PublicID)
		if iOK && jOK {
			return ni < nj
		}
		return iOK && !jOK
	})
}

func numericSuffix(publicID string) (int, bool) {
	match := trailingNumber.FindString(publicID)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

func altFromPublicID(publicID string) string {
	base := publicID
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
}
