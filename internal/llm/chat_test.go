package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/club-attendance/internal/summarizer"
)

func TestChatClient_Complete(t *testing.T) {
	t.Parallel()

	msgs := []summarizer.Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "hello"}}

	t.Run("sends request and returns first choice", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer key" {
				t.Errorf("Authorization = %q", got)
			}
			var req chatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if req.Model != "test-model" || req.MaxTokens != DefaultMaxTokens || req.Temperature != DefaultTemperature {
				t.Errorf("unexpected request %+v", req)
			}
			if len(req.Messages) != 2 || req.Messages[1].Content != "hello" {
				t.Errorf("unexpected messages %+v", req.Messages)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"summary"}}]}`))
		}))
		t.Cleanup(srv.Close)

		client := NewChatClient(Config{BaseURL: srv.URL + "/", APIKey: "key", Model: "test-model"})
		got, err := client.Complete(context.Background(), msgs)
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got != "summary" {
			t.Fatalf("Complete() = %q", got)
		}
	})

	t.Run("retries rate limits", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
		}))
		t.Cleanup(srv.Close)

		client := NewChatClient(Config{BaseURL: srv.URL, APIKey: "key", InitialDelay: time.Millisecond})
		got, err := client.Complete(context.Background(), msgs)
		if err != nil || got != "ok" {
			t.Fatalf("Complete() = %q, %v", got, err)
		}
		if calls.Load() != 2 {
			t.Fatalf("expected 2 calls, got %d", calls.Load())
		}
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
		}))
		t.Cleanup(srv.Close)

		client := NewChatClient(Config{BaseURL: srv.URL, APIKey: "bad", InitialDelay: time.Millisecond})
		_, err := client.Complete(context.Background(), msgs)
		if err == nil || !strings.Contains(err.Error(), "invalid api key") {
			t.Fatalf("expected api error, got %v", err)
		}
		if calls.Load() != 1 {
			t.Fatalf("expected 1 call, got %d", calls.Load())
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		client := NewChatClient(Config{BaseURL: srv.URL, APIKey: "key", MaxRetries: 2, InitialDelay: time.Millisecond})
		_, err := client.Complete(context.Background(), msgs)
		if err == nil || !strings.Contains(err.Error(), "upstream down") {
			t.Fatalf("expected upstream error, got %v", err)
		}
		if calls.Load() != 2 {
			t.Fatalf("expected 2 calls, got %d", calls.Load())
		}
	})

	t.Run("missing api key", func(t *testing.T) {
		t.Parallel()

		_, err := NewChatClient(Config{}).Complete(context.Background(), msgs)
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Fatalf("expected ErrMissingAPIKey, got %v", err)
		}
	})
}
