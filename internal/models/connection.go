package models

import (
	"time"

	"github.com/google/uuid"
)

// ConnectionStatus is the lifecycle state of a collaboration request
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// Connection is a directed collaboration request between two designers.
// Only the recipient may move it out of pending, and once moved it is terminal.
type Connection struct {
	ID          uuid.UUID        `json:"id"`
	RequesterID uuid.UUID        `json:"requester"`
	RecipientID uuid.UUID        `json:"recipient"`
	Status      ConnectionStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	RespondedAt *time.Time       `json:"respondedAt,omitempty"`
}

// Involves reports whether the given user is either party of the connection.
func (c *Connection) Involves(userID uuid.UUID) bool {
	return c.RequesterID == userID || c.RecipientID == userID
}

// ConnectionWithProfile pairs a connection with the counterpart's public
// profile for the network request listings.
type ConnectionWithProfile struct {
	Connection
	Profile *PublicProfile `json:"user"`
}
