// internal/database/connection_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"designerhub/internal/models"
	"designerhub/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectionDocument represents the MongoDB document structure for a
// collaboration request
type ConnectionDocument struct {
	ID          string     `bson:"_id"`
	RequesterID string     `bson:"requesterId"`
	RecipientID string     `bson:"recipientId"`
	Status      string     `bson:"status"`
	CreatedAt   time.Time  `bson:"createdAt"`
	RespondedAt *time.Time `bson:"respondedAt,omitempty"`
}

func (d *ConnectionDocument) toModel() (*models.Connection, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid connection ID in database: %v", err)
	}
	requesterID, err := uuid.Parse(d.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("invalid requester ID in database: %v", err)
	}
	recipientID, err := uuid.Parse(d.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient ID in database: %v", err)
	}

	return &models.Connection{
		ID:          id,
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.ConnectionStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		RespondedAt: d.RespondedAt,
	}, nil
}

func connectionToDocument(c *models.Connection) ConnectionDocument {
	return ConnectionDocument{
		ID:          c.ID.String(),
		RequesterID: c.RequesterID.String(),
		RecipientID: c.RecipientID.String(),
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		RespondedAt: c.RespondedAt,
	}
}

// pairFilter matches a connection between the two users in either direction
func pairFilter(a, b uuid.UUID) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"requesterId": a.String(), "recipientId": b.String()},
			{"requesterId": b.String(), "recipientId": a.String()},
		},
	}
}

// SaveConnection inserts a new collaboration request
func (m *MongoDB) SaveConnection(ctx context.Context, conn *models.Connection) error {
	_, err := m.Connections.InsertOne(ctx, connectionToDocument(conn))
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewAppError(utils.ErrConnectionExists, "a connection request already exists for this pair", err)
	}
	if err != nil {
		return fmt.Errorf("failed to save connection: %v", err)
	}
	return nil
}

// GetConnection retrieves a connection by its ID
func (m *MongoDB) GetConnection(ctx context.Context, id uuid.UUID) (*models.Connection, error) {
	var doc ConnectionDocument
	err := m.Connections.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "connection request not found", nil)
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel()
}

// GetConnectionBetween finds any connection between the two users,
// regardless of direction or status.
func (m *MongoDB) GetConnectionBetween(ctx context.Context, a, b uuid.UUID) (*models.Connection, error) {
	var doc ConnectionDocument
	err := m.Connections.FindOne(ctx, pairFilter(a, b)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "no connection between users", nil)
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel()
}

// AcceptedConnectionExists reports whether an accepted connection exists
// between the two users, in either direction. This is the access guard
// behind every message exchange.
func (m *MongoDB) AcceptedConnectionExists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	filter := pairFilter(a, b)
	filter["status"] = string(models.ConnectionAccepted)

	count, err := m.Connections.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check connection: %v", err)
	}
	return count > 0, nil
}

// UpdateConnectionStatus moves a pending request to its terminal state.
// The filter includes the pending status so a concurrent respond loses
// cleanly instead of overwriting.
func (m *MongoDB) UpdateConnectionStatus(ctx context.Context, id uuid.UUID, status models.ConnectionStatus, respondedAt time.Time) error {
	result, err := m.Connections.UpdateOne(ctx,
		bson.M{"_id": id.String(), "status": string(models.ConnectionPending)},
		bson.M{"$set": bson.M{"status": string(status), "respondedAt": respondedAt}},
	)
	if err != nil {
		return fmt.Errorf("failed to update connection status: %v", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrRequestProcessed, "request has already been processed", nil)
	}
	return nil
}

// GetConnectionsByRecipient lists requests received by a user, newest first
func (m *MongoDB) GetConnectionsByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*models.Connection, error) {
	return m.findConnections(ctx, bson.M{"recipientId": recipientID.String()})
}

// GetConnectionsByRequester lists requests sent by a user, newest first
func (m *MongoDB) GetConnectionsByRequester(ctx context.Context, requesterID uuid.UUID) ([]*models.Connection, error) {
	return m.findConnections(ctx, bson.M{"requesterId": requesterID.String()})
}

func (m *MongoDB) findConnections(ctx context.Context, filter bson.M) ([]*models.Connection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.Connections.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get connections: %v", err)
	}
	defer cursor.Close(ctx)

	var connections []*models.Connection
	for cursor.Next(ctx) {
		var doc ConnectionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode connection: %v", err)
		}
		conn, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		connections = append(connections, conn)
	}

	return connections, cursor.Err()
}
