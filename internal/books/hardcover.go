package books

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const hardcoverQuery = `query CurrentlyReading {
  me {
    user_books(where: {status_id: {_eq: 2}}) {
      book {
        title
        slug
        image { url }
        contributions { author { name } }
      }
    }
  }
}`

// HardcoverProvider fetches the currently-reading shelf from the Hardcover
// GraphQL API. Primary source in the provider chain.
type HardcoverProvider struct {
	token   string
	baseURL string
	client  *http.Client
}

// HardcoverConfig wires the Hardcover provider.
type HardcoverConfig struct {
	// Token is the API bearer token; required for Fetch to succeed.
	Token string
	// BaseURL overrides the API origin (tests point it at a stub).
	BaseURL string
	// HTTPClient performs API calls; defaults to a client with a short timeout.
	HTTPClient *http.Client
}

// NewHardcoverProvider builds the Hardcover reading-list provider.
func NewHardcoverProvider(cfg HardcoverConfig) *HardcoverProvider {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.hardcover.app"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HardcoverProvider{
		token:   strings.TrimSpace(cfg.Token),
		baseURL: base,
		client:  client,
	}
}

// Name identifies the provider in payloads and logs.
func (p *HardcoverProvider) Name() string { return "hardcover" }

type hardcoverResponse struct {
	Data struct {
		Me []struct {
			UserBooks []struct {
				Book struct {
					Title string `json:"title"`
					Slug  string `json:"slug"`
					Image struct {
						URL string `json:"url"`
					} `json:"image"`
					Contributions []struct {
						Author struct {
							Name string `json:"name"`
						} `json:"author"`
					} `json:"contributions"`
				} `json:"book"`
			} `json:"user_books"`
		} `json:"me"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Fetch queries the currently-reading shelf.
func (p *HardcoverProvider) Fetch(ctx context.Context) ([]Book, error) {
	if p.token == "" {
		return nil, fmt.Errorf("books: hardcover token not configured")
	}

	payload, err := json.Marshal(map[string]string{"query": hardcoverQuery})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/graphql", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("books: hardcover status %d", res.StatusCode)
	}

	var body hardcoverResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("books: decode hardcover response: %w", err)
	}
	if len(body.Errors) > 0 {
		return nil, fmt.Errorf("books: hardcover error: %s", body.Errors[0].Message)
	}

	var result []Book
	for _, me := range body.Data.Me {
		for _, userBook := range me.UserBooks {
			book := Book{
				Title:    userBook.Book.Title,
				CoverURL: userBook.Book.Image.URL,
			}
			if slug := userBook.Book.Slug; slug != "" {
				book.URL = "https://hardcover.app/books/" + slug
			}
			if len(userBook.Book.Contributions) > 0 {
				book.Author = userBook.Book.Contributions[0].Author.Name
			}
			result = append(result, book)
		}
	}

	return result, nil
}
