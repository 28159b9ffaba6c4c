// internal/database/message_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"designerhub/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageDocument represents the MongoDB document structure for direct messages
type MessageDocument struct {
	ID          string     `bson:"_id"`
	SenderID    string     `bson:"senderId"`
	RecipientID string     `bson:"recipientId"`
	Content     string     `bson:"content"`
	Kind        string     `bson:"kind"`
	CreatedAt   time.Time  `bson:"createdAt"`
	IsRead      bool       `bson:"isRead"`
	ReadAt      *time.Time `bson:"readAt,omitempty"`
}

func (d *MessageDocument) toModel() (*models.Message, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid message ID in database: %v", err)
	}
	senderID, err := uuid.Parse(d.SenderID)
	if err != nil {
		return nil, fmt.Errorf("invalid sender ID in database: %v", err)
	}
	recipientID, err := uuid.Parse(d.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient ID in database: %v", err)
	}

	return &models.Message{
		ID:          id,
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     d.Content,
		Kind:        models.MessageKind(d.Kind),
		CreatedAt:   d.CreatedAt,
		IsRead:      d.IsRead,
		ReadAt:      d.ReadAt,
	}, nil
}

// SaveMessage appends a new direct message
func (m *MongoDB) SaveMessage(ctx context.Context, message *models.Message) error {
	doc := MessageDocument{
		ID:          message.ID.String(),
		SenderID:    message.SenderID.String(),
		RecipientID: message.RecipientID.String(),
		Content:     message.Content,
		Kind:        string(message.Kind),
		CreatedAt:   message.CreatedAt,
		IsRead:      message.IsRead,
		ReadAt:      message.ReadAt,
	}

	_, err := m.Messages.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to save message: %v", err)
	}
	return nil
}

// GetMessagesBetween retrieves all messages between two users, both
// directions, oldest first. Ties on createdAt fall back to the message id
// so the order is deterministic for a given snapshot.
func (m *MongoDB) GetMessagesBetween(ctx context.Context, a, b uuid.UUID) ([]*models.Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"senderId": a.String(), "recipientId": b.String()},
			{"senderId": b.String(), "recipientId": a.String()},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := m.Messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []*models.Message
	for cursor.Next(ctx) {
		var doc MessageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode message: %v", err)
		}
		msg, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, cursor.Err()
}

// GetMessagesByUser retrieves all messages where the user is sender or
// recipient. This is the single scan the conversation aggregation runs on.
func (m *MongoDB) GetMessagesByUser(ctx context.Context, userID uuid.UUID) ([]*models.Message, error) {
	userIDStr := userID.String()

	filter := bson.M{
		"$or": []bson.M{
			{"senderId": userIDStr},
			{"recipientId": userIDStr},
		},
	}

	cursor, err := m.Messages.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get user messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []*models.Message
	for cursor.Next(ctx) {
		var doc MessageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode message: %v", err)
		}
		msg, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, cursor.Err()
}

// MarkMessagesRead flips isRead and stamps readAt on exactly the given
// message ids. Restricting the update to ids the caller just fetched is
// what keeps a concurrent send from being marked read without ever being
// returned to the viewer.
func (m *MongoDB) MarkMessagesRead(ctx context.Context, ids []uuid.UUID, readAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	_, err := m.Messages.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": idStrs}, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "readAt": readAt}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %v", err)
	}
	return nil
}
