package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farmhub-server/internal/domain"
)

func TestCompleteReturnsModelReply(t *testing.T) {
	var gotReq completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key-123" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"choices":[{"message":{"content":"Water tomatoes deeply twice a week."}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(NewFetcher(5*time.Second), srv.URL, "key-123", "test-model")

	reply, fallback := c.Complete(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "How often should I water tomatoes?"},
	})
	if fallback {
		t.Fatal("Complete() reported fallback for a good response")
	}
	if reply != "Water tomatoes deeply twice a week." {
		t.Errorf("reply = %q", reply)
	}

	// The system prompt is prepended when the history lacks one.
	if len(gotReq.Messages) != 2 {
		t.Fatalf("sent %d messages, want 2", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" {
		t.Errorf("first message role = %q, want system", gotReq.Messages[0].Role)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
}

func TestCompleteKeepsExistingSystemPrompt(t *testing.T) {
	var gotReq completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(NewFetcher(5*time.Second), srv.URL, "k", "m")

	c.Complete(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "custom prompt"},
		{Role: domain.RoleUser, Content: "hi"},
	})

	if len(gotReq.Messages) != 2 {
		t.Fatalf("sent %d messages, want 2", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Content != "custom prompt" {
		t.Errorf("system prompt = %q, want the caller's", gotReq.Messages[0].Content)
	}
}

func TestCompleteFallsBackOnProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewChatClient(NewFetcher(5*time.Second), srv.URL, "k", "m")

	reply, fallback := c.Complete(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hi"},
	})
	if !fallback {
		t.Fatal("Complete() must report fallback on provider failure")
	}
	if reply != FallbackReply {
		t.Errorf("reply = %q, want FallbackReply", reply)
	}
}

func TestCompleteFallsBackOnEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewChatClient(NewFetcher(5*time.Second), srv.URL, "k", "m")

	reply, fallback := c.Complete(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hi"},
	})
	if !fallback || reply != FallbackReply {
		t.Errorf("Complete() = %q, %v; want fallback", reply, fallback)
	}
}
