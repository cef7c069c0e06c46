package repository

import (
	"context"
	"sort"

	"farmhub-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

// ChatMessageRepository persists conversation messages under "message:<uuid>"
// doc ids. Per-conversation reads come back ascending by creation time so the
// transcript renders in order without the caller re-sorting.
type ChatMessageRepository struct {
	client *kivik.Client
	dbName string
}

func NewChatMessageRepository(client *kivik.Client, dbName string) *ChatMessageRepository {
	return &ChatMessageRepository{
		client: client,
		dbName: dbName,
	}
}

func (r *ChatMessageRepository) docID(id string) string {
	return "message:" + id
}

func (r *ChatMessageRepository) Insert(ctx context.Context, msg *domain.ChatMessage) error {
	db := r.client.DB(r.dbName)

	if _, err := db.Put(ctx, r.docID(msg.ID), msg); err != nil {
		return wrapKivik("insert message", err)
	}
	return nil
}

// ListByConversation returns one user's messages in the conversation. The
// user_id clause keeps a guessed conversation id from reading anyone else's
// transcript.
func (r *ChatMessageRepository) ListByConversation(ctx context.Context, ownerID, conversationID string) ([]*domain.ChatMessage, error) {
	msgs, err := r.find(ctx, map[string]interface{}{
		"_id":             messageIDRange(),
		"user_id":         ownerID,
		"conversation_id": conversationID,
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (r *ChatMessageRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.ChatMessage, error) {
	return r.find(ctx, map[string]interface{}{
		"_id":     messageIDRange(),
		"user_id": ownerID,
	})
}

// DeleteConversation removes every message the owner has in the conversation
// and reports how many rows went away. Zero is not an error here; the caller
// decides what an empty conversation means.
func (r *ChatMessageRepository) DeleteConversation(ctx context.Context, ownerID, conversationID string) (int, error) {
	msgs, err := r.ListByConversation(ctx, ownerID, conversationID)
	if err != nil {
		return 0, err
	}

	db := r.client.DB(r.dbName)
	removed := 0
	for _, msg := range msgs {
		docID := r.docID(msg.ID)

		var doc map[string]interface{}
		row := db.Get(ctx, docID)
		if err := row.ScanDoc(&doc); err != nil {
			continue
		}

		rev, _ := doc["_rev"].(string)
		if _, err := db.Delete(ctx, docID, rev); err != nil {
			return removed, wrapKivik("delete message", err)
		}
		removed++
	}
	return removed, nil
}

func (r *ChatMessageRepository) find(ctx context.Context, selector map[string]interface{}) ([]*domain.ChatMessage, error) {
	db := r.client.DB(r.dbName)

	rows := db.Find(ctx, map[string]interface{}{"selector": selector})
	if err := rows.Err(); err != nil {
		return nil, wrapKivik("list messages", err)
	}
	defer rows.Close()

	var msgs []*domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.ScanDoc(&msg); err != nil {
			continue
		}
		msgs = append(msgs, &msg)
	}
	return msgs, nil
}

func messageIDRange() map[string]interface{} {
	return map[string]interface{}{
		"$gt": "message:",
		"$lt": "message:\ufff0",
	}
}
