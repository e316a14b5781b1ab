package books

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubProvider struct {
	name  string
	books []Book
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(ctx context.Context) ([]Book, error) {
	s.calls++
	return s.books, s.err
}

func TestChainFirstProviderWins(t *testing.T) {
	primary := &stubProvider{name: "primary", books: []Book{{Title: "Dune"}}}
	fallback := &stubProvider{name: "fallback"}

	payload := NewService([]Provider{primary, fallback}, nil).CurrentlyReading(context.Background())

	if payload.Source != "primary" {
		t.Errorf("source: got %q", payload.Source)
	}
	if len(payload.Books) != 1 || payload.Books[0].Title != "Dune" {
		t.Errorf("books: got %+v", payload.Books)
	}
	if fallback.calls != 0 {
		t.Error("fallback should not run when primary succeeds")
	}
}

func TestChainFallsThroughOnFailure(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("boom")}
	fallback := &stubProvider{name: "fallback", books: []Book{{Title: "Hyperion"}}}

	payload := NewService([]Provider{primary, fallback}, nil).CurrentlyReading(context.Background())

	if payload.Source != "fallback" {
		t.Errorf("source: got %q", payload.Source)
	}
	if len(payload.Books) != 1 || payload.Books[0].Title != "Hyperion" {
		t.Errorf("books: got %+v", payload.Books)
	}
}

func TestChainAllFailYieldsEmptyPayload(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("down")}
	fallback := &stubProvider{name: "fallback", err: errors.New("also down")}

	payload := NewService([]Provider{primary, fallback}, nil).CurrentlyReading(context.Background())

	if payload.Source != SourceNone {
		t.Errorf("source: got %q, want %q", payload.Source, SourceNone)
	}
	if payload.Books == nil || len(payload.Books) != 0 {
		t.Errorf("books: got %v, want empty non-nil slice", payload.Books)
	}
}

func TestHardcoverFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer hc_token" {
			t.Errorf("authorization: got %q", auth)
		}
		w.Write([]byte(`{"data":{"me":[{"user_books":[
			{"book":{"title":"The Dispossessed","slug":"the-dispossessed","image":{"url":"https://img.example/d.jpg"},"contributions":[{"author":{"name":"Ursula K. Le Guin"}}]}}
		]}]}}`))
	}))
	defer server.Close()

	provider := NewHardcoverProvider(HardcoverConfig{Token: "hc_token", BaseURL: server.URL})

	result, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 book, got %d", len(result))
	}

	book := result[0]
	if book.Title != "The Dispossessed" {
		t.Errorf("title: got %q", book.Title)
	}
	if book.Author != "Ursula K. Le Guin" {
		t.Errorf("author: got %q", book.Author)
	}
	if book.URL != "https://hardcover.app/books/the-dispossessed" {
		t.Errorf("url: got %q", book.URL)
	}
}

func TestHardcoverFetchGraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"unauthorized"}]}`))
	}))
	defer server.Close()

	provider := NewHardcoverProvider(HardcoverConfig{Token: "bad", BaseURL: server.URL})
	if _, err := provider.Fetch(context.Background()); err == nil {
		t.Fatal("expected error from GraphQL error payload")
	}
}

func TestHardcoverRequiresToken(t *testing.T) {
	provider := NewHardcoverProvider(HardcoverConfig{})
	if _, err := provider.Fetch(context.Background()); err == nil {
		t.Fatal("expected error without token")
	}
}

func TestGoodreadsFetch(t *testing.T) {
	page := `<html><body><table>
	<tr class="bookalike review">
		<td class="field cover"><img src="https://img.example/cover1.jpg"/></td>
		<td class="field title"><a href="/book/show/1.Foundation">Foundation</a></td>
		<td class="field author"><a href="/author/show/1">Asimov, Isaac</a></td>
	</tr>
	<tr class="bookalike review">
		<td class="field cover"><img src="https://img.example/cover2.jpg"/></td>
		<td class="field title"><a href="https://ext.example/book/2">Neuromancer</a></td>
		<td class="field author"><a href="/author/show/2">Gibson, William</a></td>
	</tr>
	</table></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("shelf"); got != "currently-reading" {
			t.Errorf("shelf: got %q", got)
		}
		w.Write([]byte(page))
	}))
	defer server.Close()

	provider := NewGoodreadsProvider(GoodreadsConfig{UserID: "99", BaseURL: server.URL})

	result, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 books, got %d", len(result))
	}

	if result[0].Title != "Foundation" {
		t.Errorf("title: got %q", result[0].Title)
	}
	if result[0].Author != "Asimov, Isaac" {
		t.Errorf("author: got %q", result[0].Author)
	}
	if result[0].URL != server.URL+"/book/show/1.Foundation" {
		t.Errorf("relative url not absolutized: %q", result[0].URL)
	}
	if result[1].URL != "https://ext.example/book/2" {
		t.Errorf("absolute url altered: %q", result[1].URL)
	}
	if result[0].CoverURL != "https://img.example/cover1.jpg" {
		t.Errorf("cover: got %q", result[0].CoverURL)
	}
}

func TestGoodreadsRequiresUserID(t *testing.T) {
	provider := NewGoodreadsProvider(GoodreadsConfig{})
	if _, err := provider.Fetch(context.Background()); err == nil {
		t.Fatal("expected error without user id")
	}
}
