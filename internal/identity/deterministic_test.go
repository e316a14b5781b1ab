package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDDeterministic(t *testing.T) {
	a := PostUUID("hello-world")
	b := PostUUID("hello-world")
	if a != b {
		t.Fatalf("same slug produced different ids: %s vs %s", a, b)
	}
	if a == uuid.Nil {
		t.Fatal("expected non-nil id")
	}
}

func TestUUIDKeyPrefixesPreventCollisions(t *testing.T) {
	if PostUUID("hello") == FeedItemUUID("hello", "") {
		t.Fatal("post and feed-item ids must not collide on the same key")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if UUID("  ") != uuid.Nil {
		t.Fatal("blank key should yield the nil id")
	}
}

func TestFeedItemUUIDVariesByLink(t *testing.T) {
	a := FeedItemUUID("hello", "https://example.com/blog/hello")
	b := FeedItemUUID("hello", "https://other.example/blog/hello")
	if a == b {
		t.Fatal("different links should yield different feed ids")
	}
}
