package vlm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompleteTextOnly(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"a caption"}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o"})
	text, err := client.Complete(context.Background(), Request{Prompt: "describe"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "a caption" {
		t.Errorf("text = %q", text)
	}

	messages := captured["messages"].([]any)
	first := messages[0].(map[string]any)
	if content, ok := first["content"].(string); !ok || content != "describe" {
		t.Errorf("text-only request should carry a plain string content, got %v", first["content"])
	}
	if _, present := captured["temperature"]; present {
		t.Error("temperature should be omitted when unset")
	}
}

func TestCompleteEncodesImagesAsDataURIs(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Complete(context.Background(), Request{
		Prompt: "compare these",
		Images: [][]byte{[]byte("before"), []byte("after")},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	messages := captured["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	if len(content) != 3 {
		t.Fatalf("expected text part plus 2 image parts, got %d", len(content))
	}
	if part := content[0].(map[string]any); part["type"] != "text" {
		t.Errorf("first part type = %v, want text", part["type"])
	}
	image := content[1].(map[string]any)
	url := image["image_url"].(map[string]any)["url"].(string)
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Errorf("image url = %q, want jpeg data URI", url)
	}
}

func TestCompleteSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Complete(context.Background(), Request{Prompt: "describe"})
	if err == nil {
		t.Fatal("expected error for http 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, want status code surfaced", err)
	}
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.Complete(context.Background(), Request{Prompt: "describe"}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestCompleteRejectsAPIErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Complete(context.Background(), Request{Prompt: "describe"})
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("err = %v, want api error surfaced", err)
	}
}
