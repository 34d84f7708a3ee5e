package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func chatServer(t *testing.T, reply string, captured *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models":
			if r.Header.Get("Authorization") != "Bearer sk-test" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, `{"data":[]}`)
		case "/v1/chat/completions":
			if captured != nil {
				if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
					t.Errorf("decoding request: %v", err)
				}
			}
			resp := map[string]interface{}{
				"choices": []map[string]interface{}{{"message": map[string]string{"content": reply}}},
			}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestOpenAICompatAvailable(t *testing.T) {
	srv := chatServer(t, "", nil)
	defer srv.Close()
	ctx := context.Background()

	if err := NewOpenAICompat(OpenAIConfig{BaseURL: srv.URL + "/", APIKey: "sk-test"}).Available(ctx); err != nil {
		t.Errorf("Available failed: %v", err)
	}
	if err := NewOpenAICompat(OpenAIConfig{BaseURL: srv.URL, APIKey: "wrong"}).Available(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("unauthorized Available = %v", err)
	}
	if err := NewOpenAICompat(OpenAIConfig{}).Available(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("unconfigured Available = %v", err)
	}
}

func TestOpenAICompatDescribeImage(t *testing.T) {
	var captured chatRequest
	srv := chatServer(t, "Alternativtext: \"Balkendiagramm mit steigendem Umsatz.\"", &captured)
	defer srv.Close()

	c := NewOpenAICompat(OpenAIConfig{BaseURL: srv.URL, Model: "vision-1", APIKey: "sk-test"})
	got, err := c.DescribeImage(context.Background(), ImageRequest{
		SlideNumber: 2,
		ElementID:   "s2-3",
		Type:        "image",
		ContentType: "image/png",
		Data:        []byte("png"),
		SlideTitle:  "Umsatz",
		Language:    "de-DE",
	})
	if err != nil {
		t.Fatalf("DescribeImage failed: %v", err)
	}
	if got != "Balkendiagramm mit steigendem Umsatz." {
		t.Errorf("DescribeImage = %q", got)
	}

	if captured.Model != "vision-1" || len(captured.Messages) != 1 {
		t.Fatalf("request = %+v", captured)
	}
	parts := captured.Messages[0].Content
	if len(parts) != 2 {
		t.Fatalf("got %d content parts, want text and image", len(parts))
	}
	if !strings.Contains(parts[0].Text, "Alternativtext") || !strings.Contains(parts[0].Text, "Folientitel: Umsatz") {
		t.Errorf("prompt = %q", parts[0].Text)
	}
	if parts[1].ImageURL == nil || parts[1].ImageURL.URL != "data:image/png;base64,cG5n" {
		t.Errorf("image part = %+v", parts[1])
	}
}

func TestOpenAICompatSuggestTitle(t *testing.T) {
	var captured chatRequest
	srv := chatServer(t, "Title: Outlook 2025\n", &captured)
	defer srv.Close()

	c := NewOpenAICompat(OpenAIConfig{BaseURL: srv.URL})
	got, err := c.SuggestTitle(context.Background(), SlideRequest{SlideNumber: 1, Text: []string{"Plans for 2025"}, Language: "en-GB"})
	if err != nil {
		t.Fatalf("SuggestTitle failed: %v", err)
	}
	if got != "Outlook 2025" {
		t.Errorf("SuggestTitle = %q", got)
	}
	if len(captured.Messages[0].Content) != 1 || !strings.Contains(captured.Messages[0].Content[0].Text, "Plans for 2025") {
		t.Errorf("prompt = %+v", captured.Messages[0].Content)
	}
}

func TestOpenAICompatRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer srv.Close()

	c := NewOpenAICompat(OpenAIConfig{BaseURL: srv.URL, MaxRetries: 1})
	got, err := c.SuggestTitle(context.Background(), SlideRequest{Text: []string{"x"}})
	if err != nil || got != "ok" {
		t.Errorf("SuggestTitle = %q, %v", got, err)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Errorf("server hit %d times, want 2", hits)
	}
}

func TestOpenAICompatClientError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewOpenAICompat(OpenAIConfig{BaseURL: srv.URL})
	if _, err := c.DescribeImage(context.Background(), ImageRequest{ElementID: "s1-1"}); err == nil || !strings.Contains(err.Error(), "400") {
		t.Errorf("DescribeImage error = %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("non-retryable status retried: %d hits", hits)
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"  „Umsatzentwicklung“ ", 80, "Umsatzentwicklung"},
		{"Titel: Ausblick", 80, "Ausblick"},
		{"a\n b\t c", 80, "a b c"},
		{"eins zwei drei vier fünf", 14, "eins zwei…"},
	}
	for _, tt := range tests {
		if got := clean(tt.in, tt.max); got != tt.want {
			t.Errorf("clean(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
