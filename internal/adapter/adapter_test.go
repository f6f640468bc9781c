package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew_ValidProviders(t *testing.T) {
	tests := []struct {
		provider string
	}{
		{ProviderClaude},
		{ProviderOpenAI},
		{ProviderGemini},
		{ProviderOllama},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			a, err := New(tt.provider, "", "test-key", "")
			if err != nil {
				t.Fatalf("New(%q) error: %v", tt.provider, err)
			}
			if a == nil {
				t.Fatalf("New(%q) returned nil adapter", tt.provider)
			}
			info := a.Info()
			if info.Provider != tt.provider {
				t.Errorf("Info().Provider = %q, want %q", info.Provider, tt.provider)
			}
		})
	}
}

func TestNew_InvalidProvider(t *testing.T) {
	_, err := New("invalid", "", "key", "")
	if err == nil {
		t.Error("expected error for invalid provider")
	}
}

func TestClaude_EmbedUnsupported(t *testing.T) {
	a := NewClaude("test-key")
	_, err := a.Embed(context.Background(), []string{"hello"})
	if err == nil {
		t.Error("expected error: claude has no embedding API")
	}
}

func TestOllama_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := ollamaEmbedResponse{Embeddings: make([][]float32, len(req.Input))}
		for i := range req.Input {
			resp.Embeddings[i] = []float32{float32(i), 1.0}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	a := NewOllama(srv.URL, "nomic-embed-text")
	vecs, err := a.Embed(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	if vecs[1][0] != 1.0 {
		t.Errorf("order not preserved: vecs[1][0] = %f", vecs[1][0])
	}
}

func TestOllama_EmbedEmptyInput(t *testing.T) {
	a := NewOllama("http://localhost:0", "m")
	vecs, err := a.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed(nil): %v", err)
	}
	if vecs != nil {
		t.Errorf("expected nil for empty input, got %v", vecs)
	}
}

func TestOllama_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaChatMessage{Role: "assistant", Content: "hello back"},
		})
	}))
	defer srv.Close()

	a := NewOllama(srv.URL, "m")
	out, err := CollectCompletion(context.Background(), a, CompletionRequest{
		UserMessage: "hello",
	})
	if err != nil {
		t.Fatalf("CollectCompletion: %v", err)
	}
	if out != "hello back" {
		t.Errorf("got %q, want %q", out, "hello back")
	}
}

func TestCollectCompletion_StreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewOllama(srv.URL, "m")
	_, err := CollectCompletion(context.Background(), a, CompletionRequest{UserMessage: "hi"})
	if err == nil {
		t.Fatal("expected error from 429 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("expected status in error, got %v", err)
	}
}
