package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"farmhub-server/internal/domain"
	"farmhub-server/internal/store"
	"farmhub-server/internal/upstream"
)

type memoryMessageRemote struct {
	msgs []*domain.ChatMessage
}

func (f *memoryMessageRemote) Insert(ctx context.Context, msg *domain.ChatMessage) error {
	copied := *msg
	f.msgs = append(f.msgs, &copied)
	return nil
}

func (f *memoryMessageRemote) ListByConversation(ctx context.Context, ownerID, conversationID string) ([]*domain.ChatMessage, error) {
	var out []*domain.ChatMessage
	for _, m := range f.msgs {
		if m.UserID == ownerID && m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *memoryMessageRemote) ListByOwner(ctx context.Context, ownerID string) ([]*domain.ChatMessage, error) {
	var out []*domain.ChatMessage
	for _, m := range f.msgs {
		if m.UserID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *memoryMessageRemote) DeleteConversation(ctx context.Context, ownerID, conversationID string) (int, error) {
	kept := f.msgs[:0]
	removed := 0
	for _, m := range f.msgs {
		if m.UserID == ownerID && m.ConversationID == conversationID {
			removed++
		} else {
			kept = append(kept, m)
		}
	}
	f.msgs = kept
	return removed, nil
}

func newTestChatService(t *testing.T, handler http.HandlerFunc) (*ChatService, *memoryMessageRemote) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	remote := &memoryMessageRemote{}
	log := store.NewConversationLog(remote)
	chat := upstream.NewChatClient(upstream.NewFetcher(5*time.Second), srv.URL, "k", "m")
	return NewChatService(log, chat), remote
}

func TestSendPersistsBothTurns(t *testing.T) {
	svc, remote := newTestChatService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"Try neem oil weekly."}}]}`))
	})

	exchange, err := svc.Send(context.Background(), "u1", "", "How do I handle aphids?")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if exchange.Fallback {
		t.Fatal("Send() reported fallback for a healthy provider")
	}
	if exchange.Reply.Content != "Try neem oil weekly." {
		t.Errorf("reply = %q", exchange.Reply.Content)
	}
	if exchange.ConversationID == "" {
		t.Error("Send() must mint a conversation id when none given")
	}

	if len(remote.msgs) != 2 {
		t.Errorf("persisted %d messages, want 2", len(remote.msgs))
	}
}

func TestSendFallbackReplyIsNotPersisted(t *testing.T) {
	svc, remote := newTestChatService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	exchange, err := svc.Send(context.Background(), "u1", "", "hello?")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !exchange.Fallback {
		t.Fatal("Send() must report fallback")
	}
	if exchange.Reply.Content != upstream.FallbackReply {
		t.Errorf("reply = %q, want the fixed fallback text", exchange.Reply.Content)
	}

	// Only the user's message reaches storage.
	if len(remote.msgs) != 1 || remote.msgs[0].Role != domain.RoleUser {
		t.Errorf("persisted = %v, want only the user turn", remote.msgs)
	}
}

func TestSendEmptyContent(t *testing.T) {
	svc, _ := newTestChatService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider must not be called for invalid input")
	})

	_, err := svc.Send(context.Background(), "u1", "conv", "")
	if err == nil {
		t.Fatal("Send() expected validation error for empty content")
	}
}

func TestDeleteConversationRemovesHistory(t *testing.T) {
	svc, _ := newTestChatService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	exchange, err := svc.Send(context.Background(), "u1", "", "first")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if err := svc.DeleteConversation(context.Background(), "u1", exchange.ConversationID); err != nil {
		t.Fatalf("DeleteConversation() error = %v", err)
	}

	history, err := svc.History(context.Background(), "u1", exchange.ConversationID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("History() after delete = %d messages, want 0", len(history))
	}
}

func TestConversationInvisibleToOtherUsers(t *testing.T) {
	svc, remote := newTestChatService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	exchange, err := svc.Send(context.Background(), "alice", "", "what killed my chillies?")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	history, err := svc.History(context.Background(), "bob", exchange.ConversationID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("History() for a non-owner = %d messages, want 0", len(history))
	}

	if err := svc.DeleteConversation(context.Background(), "bob", exchange.ConversationID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteConversation() for a non-owner error = %v, want ErrNotFound", err)
	}
	if len(remote.msgs) != 2 {
		t.Errorf("remote rows after foreign delete = %d, want 2", len(remote.msgs))
	}
}
