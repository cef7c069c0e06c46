package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	TypeEntityCreated MessageType = "entity_created"
	TypeEntityDeleted MessageType = "entity_deleted"
	TypeOutbreakAlert MessageType = "outbreak_alert"
	TypeNotification  MessageType = "notification"
	TypeAck           MessageType = "ack"
	TypePing          MessageType = "ping"
	TypePong          MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// EntityEventPayload announces a create or delete in one of the synced
// collections so other sessions of the same user can refresh their view.
type EntityEventPayload struct {
	Collection string          `json:"collection"`
	EntityID   string          `json:"entity_id"`
	Entity     json.RawMessage `json:"entity,omitempty"`
}

// OutbreakAlertPayload goes to every connected user when a new disease
// outbreak is reported nearby.
type OutbreakAlertPayload struct {
	OutbreakID  string `json:"outbreak_id"`
	DiseaseName string `json:"disease_name"`
	Location    string `json:"location"`
	Severity    string `json:"severity"`
}

type NotificationPayload struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type AckPayload struct {
	MessageID string `json:"message_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
