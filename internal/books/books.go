package books

import (
	"context"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// SourceNone marks a payload produced after every provider failed.
const SourceNone = "none"

// Book is one reading-list entry, normalised across providers.
type Book struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"coverUrl,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Payload is what the API handler serves: the list plus which provider
// produced it. An empty list with source "none" is the degraded outcome.
type Payload struct {
	Books  []Book `json:"books"`
	Source string `json:"source"`
}

// Provider fetches the currently-reading list from one upstream source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) ([]Book, error)
}

// Service iterates an explicit, ordered provider chain until one succeeds.
// Failures are reasons to move on, not errors to surface; when the chain is
// exhausted the service returns an empty payload.
type Service struct {
	providers []Provider
	logger    interfaces.Logger
}

// NewService builds a reading-list service over the supplied provider chain.
// Order matters: providers are tried first to last.
func NewService(providers []Provider, logger interfaces.Logger) *Service {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Service{providers: providers, logger: logger}
}

// CurrentlyReading returns the first provider's successful result. All-fail
// yields Payload{Source: "none"} with each failure logged.
func (s *Service) CurrentlyReading(ctx context.Context) Payload {
	for _, provider := range s.providers {
		books, err := provider.Fetch(ctx)
		if err != nil {
			s.logger.Warn("book provider failed", "provider", provider.Name(), "error", err)
			continue
		}
		return Payload{Books: books, Source: provider.Name()}
	}

	s.logger.Warn("all book providers failed, serving empty payload")
	return Payload{Books: []Book{}, Source: SourceNone}
}
