package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"farmhub-server/internal/domain"

	"github.com/google/uuid"
)

const titleHintLength = 20

// MessageRemote is the persistence surface for chat messages. Per-conversation
// reads and deletes are scoped to the owning user, so a conversation id alone
// never exposes another user's transcript. List results come back ascending by
// creation time; DeleteConversation reports how many rows it removed.
type MessageRemote interface {
	Insert(ctx context.Context, msg *domain.ChatMessage) error
	ListByConversation(ctx context.Context, ownerID, conversationID string) ([]*domain.ChatMessage, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.ChatMessage, error)
	DeleteConversation(ctx context.Context, ownerID, conversationID string) (int, error)
}

// ConversationLog is the append-only per-conversation message history.
// Appends are optimistic: the message joins the log immediately and is
// persisted afterwards; a failed persist flags it unsynced instead of
// dropping it, so the transcript the user saw never silently loses a turn.
type ConversationLog struct {
	mu       sync.Mutex
	remote   MessageRemote
	now      func() time.Time
	unsynced map[string][]*domain.ChatMessage
}

func NewConversationLog(remote MessageRemote) *ConversationLog {
	return &ConversationLog{
		remote:   remote,
		now:      time.Now,
		unsynced: make(map[string][]*domain.ChatMessage),
	}
}

// StartConversation mints a fresh conversation identifier. No network call;
// the conversation exists remotely once its first message persists.
func (l *ConversationLog) StartConversation() string {
	return uuid.New().String()
}

// Append adds the message to the log and persists it. The returned message
// carries Unsynced=true when persistence failed; it stays in the local log
// either way.
func (l *ConversationLog) Append(ctx context.Context, ownerID, conversationID string, role domain.ChatRole, content string) *domain.ChatMessage {
	msg := &domain.ChatMessage{
		ID:             uuid.New().String(),
		UserID:         ownerID,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      l.now(),
	}

	if err := l.remote.Insert(ctx, msg); err != nil {
		msg.Unsynced = true
		l.mu.Lock()
		l.unsynced[conversationID] = append(l.unsynced[conversationID], msg)
		l.mu.Unlock()
	}
	return msg
}

// LoadHistory returns the conversation ascending by creation time: persisted
// messages merged with any unsynced local ones, each unsynced message keeping
// its original position relative to the synced sequence.
func (l *ConversationLog) LoadHistory(ctx context.Context, ownerID, conversationID string) ([]*domain.ChatMessage, error) {
	synced, err := l.remote.ListByConversation(ctx, ownerID, conversationID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	var pending []*domain.ChatMessage
	for _, m := range l.unsynced[conversationID] {
		if m.UserID == ownerID {
			pending = append(pending, m)
		}
	}
	l.mu.Unlock()

	if len(pending) == 0 {
		return synced, nil
	}

	merged := make([]*domain.ChatMessage, 0, len(synced)+len(pending))
	i, j := 0, 0
	for i < len(synced) && j < len(pending) {
		// Ties go to the synced message so the unsynced one stays where it
		// was inserted.
		if !pending[j].CreatedAt.Before(synced[i].CreatedAt) {
			merged = append(merged, synced[i])
			i++
		} else {
			merged = append(merged, pending[j])
			j++
		}
	}
	merged = append(merged, synced[i:]...)
	merged = append(merged, pending[j:]...)
	return merged, nil
}

// DeleteConversation removes every persisted message the owner has in the
// conversation and forgets their unsynced ones. An id with none of the owner's
// messages anywhere reports domain.ErrNotFound; a zero-row remote delete after
// a prior partial deletion still succeeds when local messages existed.
func (l *ConversationLog) DeleteConversation(ctx context.Context, ownerID, conversationID string) error {
	l.mu.Lock()
	hadLocal := false
	kept := l.unsynced[conversationID][:0]
	for _, m := range l.unsynced[conversationID] {
		if m.UserID == ownerID {
			hadLocal = true
		} else {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		delete(l.unsynced, conversationID)
	} else {
		l.unsynced[conversationID] = kept
	}
	l.mu.Unlock()

	removed, err := l.remote.DeleteConversation(ctx, ownerID, conversationID)
	if err != nil {
		return err
	}
	if removed == 0 && !hadLocal {
		return domain.ErrNotFound
	}
	return nil
}

// ListConversations builds the sidebar view: one summary per conversation,
// title hinted from the earliest message, ordered by most recent activity.
func (l *ConversationLog) ListConversations(ctx context.Context, ownerID string) ([]*domain.ConversationSummary, error) {
	msgs, err := l.remote.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	for _, pending := range l.unsynced {
		for _, m := range pending {
			if m.UserID == ownerID {
				msgs = append(msgs, m)
			}
		}
	}
	l.mu.Unlock()

	type group struct {
		earliest *domain.ChatMessage
		latest   time.Time
		count    int
	}
	groups := make(map[string]*group)
	for _, m := range msgs {
		g, ok := groups[m.ConversationID]
		if !ok {
			g = &group{earliest: m, latest: m.CreatedAt}
			groups[m.ConversationID] = g
		}
		if m.CreatedAt.Before(g.earliest.CreatedAt) {
			g.earliest = m
		}
		if m.CreatedAt.After(g.latest) {
			g.latest = m.CreatedAt
		}
		g.count++
	}

	summaries := make([]*domain.ConversationSummary, 0, len(groups))
	for id, g := range groups {
		summaries = append(summaries, &domain.ConversationSummary{
			ConversationID: id,
			TitleHint:      titleHint(g.earliest.Content),
			LastMessageAt:  g.latest,
			MessageCount:   g.count,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastMessageAt.After(summaries[j].LastMessageAt)
	})
	return summaries, nil
}

func titleHint(content string) string {
	runes := []rune(content)
	if len(runes) <= titleHintLength {
		return content
	}
	return string(runes[:titleHintLength]) + "..."
}
