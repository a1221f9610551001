package openbd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

const batchResponse = `[
  {
    "summary": {
      "isbn": "9784163906188",
      "title": "コンビニ人間",
      "author": "村田沙耶香/著",
      "publisher": "文藝春秋",
      "pubdate": "20160727",
      "cover": "https://cover.openbd.jp/9784163906188.jpg"
    }
  },
  null,
  {
    "summary": {
      "isbn": "9784101001593",
      "title": "ノルウェイの森",
      "author": "村上春樹/著",
      "publisher": "新潮社",
      "pubdate": "2004",
      "cover": ""
    }
  }
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	client.SetBaseURL(server.URL)
	return client
}

func TestClient_Covers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("isbn"); got != "9784163906188,9999999999999,9784101001593" {
			t.Errorf("isbn param = %q", got)
		}
		w.Write([]byte(batchResponse))
	})

	covers, err := client.Covers(context.Background(), []string{
		"978-4-16-390618-8", // hyphenated on purpose
		"9999999999999",     // unknown, null entry
		"9784101001593",     // known but no cover
	})
	if err != nil {
		t.Fatalf("Covers: %v", err)
	}

	if got := covers["9784163906188"]; got != "https://cover.openbd.jp/9784163906188.jpg" {
		t.Errorf("normalized key = %q", got)
	}
	// The caller's hyphenated form works as an alternate key.
	if got := covers["978-4-16-390618-8"]; got != "https://cover.openbd.jp/9784163906188.jpg" {
		t.Errorf("hyphenated key = %q", got)
	}
	if _, ok := covers["9999999999999"]; ok {
		t.Error("unknown ISBN should be absent")
	}
	if _, ok := covers["9784101001593"]; ok {
		t.Error("coverless ISBN should be absent")
	}
}

func TestClient_Covers_Empty(t *testing.T) {
	client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for empty input")
	})

	covers, err := client.Covers(context.Background(), nil)
	if err != nil {
		t.Fatalf("Covers: %v", err)
	}
	if len(covers) != 0 {
		t.Fatalf("got %d covers, want 0", len(covers))
	}
}

func TestClient_Lookup(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(batchResponse))
		})

		book, err := client.Lookup(context.Background(), "978-4-16-390618-8")
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if book.Title != "コンビニ人間" {
			t.Errorf("Title = %q", book.Title)
		}
		if book.ExternalRef != "ndl-9784163906188" {
			t.Errorf("ExternalRef = %q", book.ExternalRef)
		}
		if book.ISBN == nil || *book.ISBN != "9784163906188" {
			t.Errorf("ISBN = %v", book.ISBN)
		}
		if book.CoverImageURL == nil || *book.CoverImageURL != "https://cover.openbd.jp/9784163906188.jpg" {
			t.Errorf("CoverImageURL = %v", book.CoverImageURL)
		}
	})

	t.Run("not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`[null]`))
		})

		_, err := client.Lookup(context.Background(), "9999999999999")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.Lookup(context.Background(), "9784163906188")
		if !errors.Is(err, ErrServer) {
			t.Fatalf("expected ErrServer, got %v", err)
		}
	})
}
