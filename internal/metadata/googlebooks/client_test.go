package googlebooks

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", name, err)
	}
	return data
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New("", slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	client.SetBaseURL(server.URL)
	return client
}

func TestClient_Search(t *testing.T) {
	fixture := loadFixture(t, "search_response.json")

	tests := []struct {
		name       string
		response   []byte
		statusCode int
		wantCount  int
		wantErr    error
	}{
		{
			name:       "successful search",
			response:   fixture,
			statusCode: http.StatusOK,
			wantCount:  2,
		},
		{
			name:       "empty results",
			response:   []byte(`{"totalItems": 0}`),
			statusCode: http.StatusOK,
			wantCount:  0,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			wantErr:    ErrRateLimited,
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			wantErr:    ErrServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("printType"); got != "books" {
					t.Errorf("printType = %q, want books", got)
				}
				w.WriteHeader(tt.statusCode)
				w.Write(tt.response)
			})

			books, err := client.Search(context.Background(), "村田沙耶香", 40)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(books) != tt.wantCount {
				t.Fatalf("got %d books, want %d", len(books), tt.wantCount)
			}
		})
	}
}

func TestClient_SearchNormalization(t *testing.T) {
	fixture := loadFixture(t, "search_response.json")
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write(fixture)
	})

	books, err := client.Search(context.Background(), "コンビニ人間", 40)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}

	first := books[0]
	if first.ExternalRef != "zbWp8AAAQBAJ" {
		t.Errorf("ExternalRef = %q", first.ExternalRef)
	}
	// ISBN-13 wins over ISBN-10.
	if first.ISBN == nil || *first.ISBN != "9784163906188" {
		t.Errorf("ISBN = %v, want 9784163906188", first.ISBN)
	}
	// Cover URL upgraded to https.
	if first.CoverImageURL == nil || (*first.CoverImageURL)[:8] != "https://" {
		t.Errorf("CoverImageURL = %v, want https scheme", first.CoverImageURL)
	}
	// Description HTML stripped.
	if first.Description == nil {
		t.Fatal("expected description")
	}
	for _, c := range *first.Description {
		if c == '<' || c == '>' {
			t.Errorf("description still contains HTML: %q", *first.Description)
			break
		}
	}

	// Multiple authors joined with ", ".
	second := books[1]
	if second.Author == nil || *second.Author != "Sayaka Murata, Ginny Tapley Takemori" {
		t.Errorf("Author = %v", second.Author)
	}
	// No identifiers means nil ISBN.
	if second.ISBN != nil {
		t.Errorf("ISBN = %v, want nil", *second.ISBN)
	}
}

func TestClient_GetVolume(t *testing.T) {
	fixture := loadFixture(t, "volume_response.json")

	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/volumes/zbWp8AAAQBAJ" {
				t.Errorf("path = %q", r.URL.Path)
			}
			w.Write(fixture)
		})

		book, err := client.GetVolume(context.Background(), "zbWp8AAAQBAJ")
		if err != nil {
			t.Fatalf("GetVolume: %v", err)
		}
		if book.Title != "コンビニ人間" {
			t.Errorf("Title = %q", book.Title)
		}
		// Hyphens stripped from the ISBN.
		if book.ISBN == nil || *book.ISBN != "9784163906188" {
			t.Errorf("ISBN = %v", book.ISBN)
		}
	})

	t.Run("not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.GetVolume(context.Background(), "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
