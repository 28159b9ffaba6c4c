package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a designer account on the platform
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Bio            string    `json:"bio,omitempty"`
	AvatarURL      string    `json:"avatarUrl,omitempty"`
	Skills         []string  `json:"skills,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActive     time.Time `json:"lastActive"`
}

// PublicProfile is the subset of User safe to show to other users.
// Email and password never leave through this type.
type PublicProfile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Skills    []string  `json:"skills,omitempty"`
}

// PlaceholderProfile stands in for a deleted or missing account so
// conversation lists and request listings still render.
func PlaceholderProfile(id uuid.UUID) *PublicProfile {
	return &PublicProfile{
		ID:   id,
		Name: "Unknown User",
	}
}

// Public projects the user's public fields.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
		Skills:    u.Skills,
	}
}
