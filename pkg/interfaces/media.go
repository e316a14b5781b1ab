package interfaces

import "context"

// GalleryProvider lists the photos stored under a CDN folder. Implementations
// degrade gracefully: a missing folder or unreachable API yields an empty slice,
// not an error, so pages render with an empty gallery instead of failing.
type GalleryProvider interface {
	// ListFolder returns the photos stored under folder, ordered by the numeric
	// suffix of their public IDs when present.
	ListFolder(ctx context.Context, folder string) ([]Photo, error)
	// NumberedPhotos generates count photo records from templated URLs without
	// consulting the provider API. Used as the offline fallback.
	NumberedPhotos(folder string, count int, altPrefix string) []Photo
}

// Photo describes one gallery image with its pre-computed renditions.
type Photo struct {
	URL            string `json:"url"`
	ThumbnailURL   string `json:"thumbnailUrl,omitempty"`
	PlaceholderURL string `json:"placeholderUrl,omitempty"`
	Alt            string `json:"alt"`
	Caption        string `json:"caption"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	PublicID       string `json:"publicId,omitempty"`
}
