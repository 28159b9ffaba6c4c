// internal/database/user_repository.go
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

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"hashedPassword"`
	Bio            string    `bson:"bio,omitempty"`
	AvatarURL      string    `bson:"avatarUrl,omitempty"`
	Skills         []string  `bson:"skills,omitempty"`
	CreatedAt      time.Time `bson:"createdAt"`
	LastActive     time.Time `bson:"lastActive"`
}

func (d *UserDocument) toModel() (*models.User, error) {
	userID, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	return &models.User{
		ID:             userID,
		Name:           d.Name,
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
		Bio:            d.Bio,
		AvatarURL:      d.AvatarURL,
		Skills:         d.Skills,
		CreatedAt:      d.CreatedAt,
		LastActive:     d.LastActive,
	}, nil
}

// SaveUser creates or updates a user in MongoDB
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	doc := UserDocument{
		ID:             user.ID.String(),
		Name:           user.Name,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		Bio:            user.Bio,
		AvatarURL:      user.AvatarURL,
		Skills:         user.Skills,
		CreatedAt:      user.CreatedAt,
		LastActive:     user.LastActive,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": user.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewAppError(utils.ErrUserAlreadyExists, "Email already registered", err)
	}
	return err
}

// GetUser retrieves a user from MongoDB by their ID
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	if err != nil {
		return nil, err
	}

	return doc.toModel()
}

// GetUserByEmail retrieves a user from MongoDB by email address
func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(email)
	}
	if err != nil {
		return nil, err
	}

	return doc.toModel()
}

// GetPublicProfiles fetches the public profile fields for a set of user
// IDs in one query. Missing users are simply absent from the result map;
// callers render a placeholder for those.
func (m *MongoDB) GetPublicProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.PublicProfile, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*models.PublicProfile{}, nil
	}

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	cursor, err := m.Users.Find(ctx, bson.M{"_id": bson.M{"$in": idStrs}})
	if err != nil {
		return nil, fmt.Errorf("failed to get user profiles: %v", err)
	}
	defer cursor.Close(ctx)

	profiles := make(map[uuid.UUID]*models.PublicProfile, len(ids))
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %v", err)
		}
		user, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		profiles[user.ID] = user.Public()
	}

	return profiles, cursor.Err()
}

// SearchUsers finds users whose name or skills match the query,
// case-insensitively, projected to their public profiles.
func (m *MongoDB) SearchUsers(ctx context.Context, query string, limit int) ([]*models.PublicProfile, error) {
	pattern := bson.M{"$regex": query, "$options": "i"}
	filter := bson.M{"$or": []bson.M{
		{"name": pattern},
		{"skills": pattern},
	}}

	cursor, err := m.Users.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %v", err)
	}
	defer cursor.Close(ctx)

	var profiles []*models.PublicProfile
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %v", err)
		}
		user, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, user.Public())
	}

	return profiles, cursor.Err()
}

// UpdateUserActivity bumps the user's last-active timestamp
func (m *MongoDB) UpdateUserActivity(ctx context.Context, id uuid.UUID) error {
	_, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"lastActive": time.Now()}},
	)
	return err
}
