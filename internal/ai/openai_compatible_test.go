package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func testConfig(baseURL string) ChatConfig {
	return ChatConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "llama-3.3-70b-versatile",
		Temperature: 0.6,
		MaxTokens:   1000,
	}
}

func TestComplete_SendsRequestShape(t *testing.T) {
	var got completionRequest
	var gotAuth, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Apply early."}}]}`)
	}))
	defer srv.Close()

	c := NewOpenAICompatibleClient(5 * time.Second)
	out, err := c.Complete(context.Background(), testConfig(srv.URL+"/"), []ChatMessage{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "How long does a German student visa take?"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "Apply early." {
		t.Errorf("content = %q", out)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if got.Model != "llama-3.3-70b-versatile" || got.Temperature != 0.6 || got.MaxTokens != 1000 || got.Stream {
		t.Errorf("request = %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestComplete_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"error":"overloaded"}`)
	}))
	defer srv.Close()

	_, err := NewOpenAICompatibleClient(0).Complete(context.Background(), testConfig(srv.URL), nil)
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("err = %v, want status 502 error", err)
	}
}

func TestComplete_NoChoicesIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	_, err := NewOpenAICompatibleClient(0).Complete(context.Background(), testConfig(srv.URL), nil)
	if !errors.Is(err, ErrMalformedCompletion) {
		t.Fatalf("err = %v, want ErrMalformedCompletion", err)
	}
}

func TestComplete_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>gateway</html>`)
	}))
	defer srv.Close()

	if _, err := NewOpenAICompatibleClient(0).Complete(context.Background(), testConfig(srv.URL), nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc..."},
		{"aé", 2, "a..."},
		{"€€", 4, "€..."},
		{"€", 1, "..."},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.n)
		if got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tc.in, tc.n)
		}
	}
}
