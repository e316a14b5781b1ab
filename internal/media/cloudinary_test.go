package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-blog/internal/cache"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestTransformURLs(t *testing.T) {
	provider, err := NewCloudinaryProvider(Config{CloudName: "demo"})
	if err != nil {
		t.Fatalf("provider: %v", err)
	}

	if got := provider.OptimizedURL("trips/tokyo/1"); got != "https://res.cloudinary.com/demo/image/upload/f_auto,q_auto:eco,c_limit,w_2000,dpr_auto/trips/tokyo/1" {
		t.Errorf("optimized: got %q", got)
	}
	if got := provider.ThumbnailURL("trips/tokyo/1"); !strings.Contains(got, "c_fill,w_400,h_400,g_auto") {
		t.Errorf("thumbnail: got %q", got)
	}
	if got := provider.PlaceholderURL("trips/tokyo/1"); !strings.Contains(got, "e_blur:1000") {
		t.Errorf("placeholder: got %q", got)
	}
}

func TestNumberedPhotos(t *testing.T) {
	provider, err := NewCloudinaryProvider(Config{CloudName: "demo"})
	if err != nil {
		t.Fatalf("provider: %v", err)
	}

	photos := provider.NumberedPhotos("restaurants/sushi-bar", 3, "Sushi Bar")
	if len(photos) != 3 {
		t.Fatalf("expected 3 photos, got %d", len(photos))
	}
	if photos[0].PublicID != "restaurants/sushi-bar/1" {
		t.Errorf("first public id: got %q", photos[0].PublicID)
	}
	if photos[2].Alt != "Sushi Bar 3" {
		t.Errorf("alt: got %q", photos[2].Alt)
	}
	if !strings.Contains(photos[1].URL, "/image/upload/") {
		t.Errorf("url: got %q", photos[1].URL)
	}

	if got := provider.NumberedPhotos("", 3, ""); got != nil {
		t.Errorf("empty folder should yield nil, got %v", got)
	}
	if got := provider.NumberedPhotos("folder", 0, ""); got != nil {
		t.Errorf("zero count should yield nil, got %v", got)
	}
}

func TestListFolderWithoutCredentials(t *testing.T) {
	provider, err := NewCloudinaryProvider(Config{CloudName: "demo"})
	if err != nil {
		t.Fatalf("provider: %v", err)
	}

	photos, err := provider.ListFolder(context.Background(), "trips/tokyo")
	if err != nil {
		t.Fatalf("listing must not error: %v", err)
	}
	if photos != nil {
		t.Errorf("expected empty result, got %v", photos)
	}
}

func TestListFolderFromAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if got := r.URL.Query().Get("prefix"); got != "trips/tokyo/" {
			t.Errorf("prefix: got %q", got)
		}
		w.Write([]byte(`{"resources":[
			{"public_id":"trips/tokyo/10","width":800,"height":600},
			{"public_id":"trips/tokyo/2","width":800,"height":600}
		]}`))
	}))
	defer server.Close()

	provider, err := NewCloudinaryProvider(Config{
		CloudName:  "demo",
		APIKey:     "key",
		APISecret:  "secret",
		BaseAPIURL: server.URL,
	})
	if err != nil {
		t.Fatalf("provider: %v", err)
	}

	photos, err := provider.ListFolder(context.Background(), "trips/tokyo")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(photos))
	}
	if photos[0].PublicID != "trips/tokyo/2" || photos[1].PublicID != "trips/tokyo/10" {
		t.Errorf("numeric order wrong: %q, %q", photos[0].PublicID, photos[1].PublicID)
	}
	if photos[0].Width != 800 {
		t.Errorf("width: got %d", photos[0].Width)
	}
}

func TestListFolderDegradesOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider, err := NewCloudinaryProvider(Config{
		CloudName:  "demo",
		APIKey:     "key",
		APISecret:  "secret",
		BaseAPIURL: server.URL,
	})
	if err != nil {
		t.Fatalf("provider: %v", err)
	}

	photos, err := provider.ListFolder(context.Background(), "trips/tokyo")
	if err != nil {
		t.Fatalf("degraded listing must not error: %v", err)
	}
	if len(photos) != 0 {
		t.Errorf("expected empty result, got %v", photos)
	}
}

func TestListFolderUsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"resources":[{"public_id":"trips/tokyo/1"}]}`))
	}))
	defer server.Close()

	provider, err := NewCloudinaryProvider(Config{
		CloudName:  "demo",
		APIKey:     "key",
		APISecret:  "secret",
		BaseAPIURL: server.URL,
		Cache:      cache.NewMemory(),
	})
	if err != nil {
		t.Fatalf("provider: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := provider.ListFolder(context.Background(), "trips/tokyo"); err != nil {
			t.Fatalf("list %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 API call with cache, got %d", calls)
	}
}

var _ interfaces.GalleryProvider = (*CloudinaryProvider)(nil)
