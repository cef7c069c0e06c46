package domain

import "time"

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)

// ChatMessage is one entry in a conversation with the assistant. Within a
// conversation CreatedAt is non-decreasing in insertion order; messages are
// never edited after the fact.
type ChatMessage struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	Role           ChatRole  `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	// Unsynced marks a message that was appended locally but whose
	// persistence failed. It stays in the log so the transcript the user saw
	// is never silently shortened.
	Unsynced bool `json:"unsynced,omitempty"`
}

type SendChatMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// ConversationSummary is the derived per-conversation view used for the
// history sidebar.
type ConversationSummary struct {
	ConversationID string    `json:"conversation_id"`
	TitleHint      string    `json:"title_hint"`
	LastMessageAt  time.Time `json:"last_message_at"`
	MessageCount   int       `json:"message_count"`
}
