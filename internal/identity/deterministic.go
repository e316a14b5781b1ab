package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID identifies one rendered article by its slug. Build results carry it
// so page identity survives rebuilds.
func PostUUID(slug string) uuid.UUID {
	return UUID("go-blog:post:" + strings.ToLower(strings.TrimSpace(slug)))
}

// FeedItemUUID identifies one feed entry. Slug plus canonical link keeps GUIDs
// stable even if the site base URL changes the link.
func FeedItemUUID(slug, link string) uuid.UUID {
	return UUID("go-blog:feed_item:" + strings.ToLower(strings.TrimSpace(slug)) + ":" + strings.TrimSpace(link))
}
