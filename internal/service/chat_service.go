package service

import (
	"context"
	"time"

	"farmhub-server/internal/domain"
	"farmhub-server/internal/store"
	"farmhub-server/internal/upstream"
)

// ChatExchange is one request/response round with the assistant.
type ChatExchange struct {
	ConversationID string              `json:"conversation_id"`
	UserMessage    *domain.ChatMessage `json:"user_message"`
	Reply          *domain.ChatMessage `json:"reply"`
	Fallback       bool                `json:"fallback"`
}

type ChatService struct {
	log  *store.ConversationLog
	chat *upstream.ChatClient
}

func NewChatService(log *store.ConversationLog, chat *upstream.ChatClient) *ChatService {
	return &ChatService{
		log:  log,
		chat: chat,
	}
}

func (s *ChatService) StartConversation() string {
	return s.log.StartConversation()
}

// Send appends the user's message, asks the assistant with the conversation as
// context and appends the reply. A fallback reply is returned to the caller
// but never persisted as a genuine model answer.
func (s *ChatService) Send(ctx context.Context, userID, conversationID, content string) (*ChatExchange, error) {
	if content == "" {
		return nil, &domain.ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if conversationID == "" {
		conversationID = s.log.StartConversation()
	}

	userMsg := s.log.Append(ctx, userID, conversationID, domain.RoleUser, content)

	history, err := s.log.LoadHistory(ctx, userID, conversationID)
	if err != nil {
		// The reply can still be generated from the message we just took.
		history = []*domain.ChatMessage{userMsg}
	}
	turns := make([]domain.ChatMessage, 0, len(history))
	for _, m := range history {
		turns = append(turns, *m)
	}

	replyText, fallback := s.chat.Complete(ctx, turns)

	var reply *domain.ChatMessage
	if fallback {
		reply = &domain.ChatMessage{
			UserID:         userID,
			ConversationID: conversationID,
			Role:           domain.RoleAssistant,
			Content:        replyText,
			CreatedAt:      time.Now(),
			Unsynced:       true,
		}
	} else {
		reply = s.log.Append(ctx, userID, conversationID, domain.RoleAssistant, replyText)
	}

	return &ChatExchange{
		ConversationID: conversationID,
		UserMessage:    userMsg,
		Reply:          reply,
		Fallback:       fallback,
	}, nil
}

// History returns the caller's transcript for the conversation. A foreign
// conversation id yields an empty history, never another user's messages.
func (s *ChatService) History(ctx context.Context, userID, conversationID string) ([]*domain.ChatMessage, error) {
	return s.log.LoadHistory(ctx, userID, conversationID)
}

func (s *ChatService) Conversations(ctx context.Context, userID string) ([]*domain.ConversationSummary, error) {
	return s.log.ListConversations(ctx, userID)
}

func (s *ChatService) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	return s.log.DeleteConversation(ctx, userID, conversationID)
}
