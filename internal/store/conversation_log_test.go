package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"farmhub-server/internal/domain"
)

type fakeMessageRemote struct {
	msgs      []*domain.ChatMessage
	insertErr error
	listErr   error
}

func (f *fakeMessageRemote) Insert(ctx context.Context, msg *domain.ChatMessage) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	copied := *msg
	f.msgs = append(f.msgs, &copied)
	return nil
}

func (f *fakeMessageRemote) ListByConversation(ctx context.Context, ownerID, conversationID string) ([]*domain.ChatMessage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.ChatMessage
	for _, m := range f.msgs {
		if m.UserID == ownerID && m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMessageRemote) ListByOwner(ctx context.Context, ownerID string) ([]*domain.ChatMessage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.ChatMessage
	for _, m := range f.msgs {
		if m.UserID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRemote) DeleteConversation(ctx context.Context, ownerID, conversationID string) (int, error) {
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

func TestAppendPersistsAndLoads(t *testing.T) {
	remote := &fakeMessageRemote{}
	l := NewConversationLog(remote)
	convID := l.StartConversation()

	msg := l.Append(context.Background(), "u1", convID, domain.RoleUser, "How do I treat leaf blight?")
	if msg.Unsynced {
		t.Error("Append() flagged a persisted message unsynced")
	}

	history, err := l.LoadHistory(context.Background(), "u1", convID)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(history) != 1 || history[0].Content != "How do I treat leaf blight?" {
		t.Errorf("LoadHistory() = %v", history)
	}
}

func TestAppendFailureKeepsMessageLocally(t *testing.T) {
	remote := &fakeMessageRemote{insertErr: &domain.NetworkError{Op: "insert", Cause: errors.New("down")}}
	l := NewConversationLog(remote)
	convID := l.StartConversation()

	msg := l.Append(context.Background(), "u1", convID, domain.RoleUser, "hello")
	if !msg.Unsynced {
		t.Fatal("Append() must mark the message unsynced when persistence fails")
	}

	remote.insertErr = nil
	history, err := l.LoadHistory(context.Background(), "u1", convID)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(history) != 1 || !history[0].Unsynced {
		t.Errorf("LoadHistory() must include the unsynced message, got %v", history)
	}
}

func TestLoadHistoryMergesAscending(t *testing.T) {
	remote := &fakeMessageRemote{}
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base

	l := NewConversationLog(remote)
	l.now = func() time.Time { return now }
	convID := l.StartConversation()

	l.Append(context.Background(), "u1", convID, domain.RoleUser, "first")
	now = base.Add(time.Minute)
	remote.insertErr = errors.New("blip")
	l.Append(context.Background(), "u1", convID, domain.RoleAssistant, "second-unsynced")
	remote.insertErr = nil
	now = base.Add(2 * time.Minute)
	l.Append(context.Background(), "u1", convID, domain.RoleUser, "third")

	history, err := l.LoadHistory(context.Background(), "u1", convID)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}

	var contents []string
	for _, m := range history {
		contents = append(contents, m.Content)
	}
	want := []string{"first", "second-unsynced", "third"}
	if strings.Join(contents, ",") != strings.Join(want, ",") {
		t.Errorf("LoadHistory() order = %v, want %v", contents, want)
	}
}

func TestDeleteConversation(t *testing.T) {
	remote := &fakeMessageRemote{}
	l := NewConversationLog(remote)
	convID := l.StartConversation()
	l.Append(context.Background(), "u1", convID, domain.RoleUser, "bye")

	if err := l.DeleteConversation(context.Background(), "u1", convID); err != nil {
		t.Fatalf("DeleteConversation() error = %v", err)
	}

	history, _ := l.LoadHistory(context.Background(), "u1", convID)
	if len(history) != 0 {
		t.Errorf("LoadHistory() after delete = %d messages, want 0", len(history))
	}
}

func TestDeleteUnknownConversationReportsNotFound(t *testing.T) {
	l := NewConversationLog(&fakeMessageRemote{})

	err := l.DeleteConversation(context.Background(), "u1", "never-existed")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteConversation() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteConversationWithOnlyLocalMessages(t *testing.T) {
	remote := &fakeMessageRemote{insertErr: errors.New("down")}
	l := NewConversationLog(remote)
	convID := l.StartConversation()
	l.Append(context.Background(), "u1", convID, domain.RoleUser, "pending only")

	// No remote rows exist, but the conversation did: success, not NotFound.
	if err := l.DeleteConversation(context.Background(), "u1", convID); err != nil {
		t.Errorf("DeleteConversation() error = %v, want nil", err)
	}
}

func TestConversationScopedToOwner(t *testing.T) {
	remote := &fakeMessageRemote{}
	l := NewConversationLog(remote)
	convID := l.StartConversation()
	l.Append(context.Background(), "alice", convID, domain.RoleUser, "my private question")

	// Knowing the conversation id is not enough to read it.
	history, err := l.LoadHistory(context.Background(), "bob", convID)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("LoadHistory() for a non-owner = %d messages, want 0", len(history))
	}

	// Nor to delete it.
	if err := l.DeleteConversation(context.Background(), "bob", convID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteConversation() for a non-owner error = %v, want ErrNotFound", err)
	}
	if len(remote.msgs) != 1 {
		t.Errorf("remote rows after foreign delete = %d, want 1", len(remote.msgs))
	}
}

func TestListConversations(t *testing.T) {
	remote := &fakeMessageRemote{}
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base

	l := NewConversationLog(remote)
	l.now = func() time.Time { return now }

	first := l.StartConversation()
	l.Append(context.Background(), "u1", first, domain.RoleUser, "Short title")
	now = base.Add(time.Minute)
	l.Append(context.Background(), "u1", first, domain.RoleAssistant, "reply")

	now = base.Add(2 * time.Minute)
	second := l.StartConversation()
	l.Append(context.Background(), "u1", second, domain.RoleUser, "This opening message is long enough to truncate")

	summaries, err := l.ListConversations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("ListConversations() = %d summaries, want 2", len(summaries))
	}

	// Most recent activity first.
	if summaries[0].ConversationID != second {
		t.Errorf("summaries[0] = %s, want the newer conversation", summaries[0].ConversationID)
	}

	if got := summaries[0].TitleHint; got != "This opening message..." {
		t.Errorf("TitleHint = %q, want %q", got, "This opening message...")
	}
	if got := summaries[1].TitleHint; got != "Short title" {
		t.Errorf("TitleHint = %q, want %q", got, "Short title")
	}
	if summaries[1].MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", summaries[1].MessageCount)
	}
}
