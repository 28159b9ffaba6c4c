package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind is the payload type of a direct message. Only text is
// implemented today; image and file are reserved for the media pipeline.
type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindImage MessageKind = "image"
	MessageKindFile  MessageKind = "file"
)

// Message is a single direct message between two connected designers.
// Messages are append-only: after creation the only mutation is the
// read flip performed when the recipient opens the thread.
type Message struct {
	ID          uuid.UUID   `json:"id"`
	SenderID    uuid.UUID   `json:"sender"`
	RecipientID uuid.UUID   `json:"recipient"`
	Content     string      `json:"content"`
	Kind        MessageKind `json:"kind"`
	CreatedAt   time.Time   `json:"createdAt"`
	IsRead      bool        `json:"isRead"`
	ReadAt      *time.Time  `json:"readAt,omitempty"`
}

// Correspondent returns the other party of the message from the given
// viewer's perspective.
func (m *Message) Correspondent(viewer uuid.UUID) uuid.UUID {
	if m.SenderID == viewer {
		return m.RecipientID
	}
	return m.SenderID
}

// LastMessage is the preview of the most recent message in a conversation.
type LastMessage struct {
	Content   string    `json:"content"`
	SenderID  uuid.UUID `json:"sender"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConversationSummary is one row of a viewer's conversation list: the
// correspondent, the most recent message either way, and how many of the
// correspondent's messages the viewer has not read yet. It is derived,
// never stored.
type ConversationSummary struct {
	Correspondent *PublicProfile `json:"correspondent"`
	LastMessage   LastMessage    `json:"lastMessage"`
	UnreadCount   int            `json:"unreadCount"`
}
