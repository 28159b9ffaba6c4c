// internal/database/portfolio_repository.go
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

// PortfolioDocument represents the MongoDB document structure for a
// portfolio item
type PortfolioDocument struct {
	ID          string                  `bson:"_id"`
	OwnerID     string                  `bson:"ownerId"`
	Title       string                  `bson:"title"`
	Description string                  `bson:"description"`
	Images      []models.PortfolioImage `bson:"images,omitempty"`
	Category    string                  `bson:"category"`
	Tags        []string                `bson:"tags,omitempty"`
	Tools       []string                `bson:"tools,omitempty"`
	IsPublic    bool                    `bson:"isPublic"`
	LikeCount   int                     `bson:"likeCount"`
	CreatedAt   time.Time               `bson:"createdAt"`
	UpdatedAt   time.Time               `bson:"updatedAt"`
}

func (d *PortfolioDocument) toModel() (*models.PortfolioItem, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid portfolio ID in database: %v", err)
	}
	ownerID, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID in database: %v", err)
	}

	return &models.PortfolioItem{
		ID:          id,
		OwnerID:     ownerID,
		Title:       d.Title,
		Description: d.Description,
		Images:      d.Images,
		Category:    models.PortfolioCategory(d.Category),
		Tags:        d.Tags,
		Tools:       d.Tools,
		IsPublic:    d.IsPublic,
		LikeCount:   d.LikeCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// SavePortfolioItem creates or updates a portfolio item
func (m *MongoDB) SavePortfolioItem(ctx context.Context, item *models.PortfolioItem) error {
	doc := PortfolioDocument{
		ID:          item.ID.String(),
		OwnerID:     item.OwnerID.String(),
		Title:       item.Title,
		Description: item.Description,
		Images:      item.Images,
		Category:    string(item.Category),
		Tags:        item.Tags,
		Tools:       item.Tools,
		IsPublic:    item.IsPublic,
		LikeCount:   item.LikeCount,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}

	opts := options.Update().SetUpsert(true)
	_, err := m.Portfolios.UpdateOne(ctx,
		bson.M{"_id": item.ID.String()},
		bson.M{"$set": doc},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to save portfolio item: %v", err)
	}
	return nil
}

// GetPortfolioItem retrieves a portfolio item by ID
func (m *MongoDB) GetPortfolioItem(ctx context.Context, id uuid.UUID) (*models.PortfolioItem, error) {
	var doc PortfolioDocument
	err := m.Portfolios.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "portfolio item not found", nil)
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel()
}

// ListPortfolioItems returns public portfolio items for the gallery,
// newest first, optionally filtered by category or owner.
func (m *MongoDB) ListPortfolioItems(ctx context.Context, category models.PortfolioCategory, ownerID *uuid.UUID) ([]*models.PortfolioItem, error) {
	filter := bson.M{"isPublic": true}
	if category != "" {
		filter["category"] = string(category)
	}
	if ownerID != nil {
		filter["ownerId"] = ownerID.String()
		// Owners see their own private items too
		delete(filter, "isPublic")
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.Portfolios.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio items: %v", err)
	}
	defer cursor.Close(ctx)

	var items []*models.PortfolioItem
	for cursor.Next(ctx) {
		var doc PortfolioDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode portfolio item: %v", err)
		}
		item, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, cursor.Err()
}

// DeletePortfolioItem removes a portfolio item and its likes
func (m *MongoDB) DeletePortfolioItem(ctx context.Context, id uuid.UUID) error {
	result, err := m.Portfolios.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete portfolio item: %v", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "portfolio item not found", nil)
	}
	_, err = m.Likes.DeleteMany(ctx, bson.M{"portfolioId": id.String()})
	return err
}

// LikeDocument represents the MongoDB document structure for a like
type LikeDocument struct {
	ID          string    `bson:"_id"`
	PortfolioID string    `bson:"portfolioId"`
	UserID      string    `bson:"userId"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// ToggleLike records a like, or removes it when one already exists.
// Returns true when the item is liked after the call.
func (m *MongoDB) ToggleLike(ctx context.Context, portfolioID, userID uuid.UUID) (bool, error) {
	filter := bson.M{
		"portfolioId": portfolioID.String(),
		"userId":      userID.String(),
	}

	result, err := m.Likes.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %v", err)
	}
	if result.DeletedCount > 0 {
		_, err = m.Portfolios.UpdateOne(ctx,
			bson.M{"_id": portfolioID.String()},
			bson.M{"$inc": bson.M{"likeCount": -1}},
		)
		return false, err
	}

	doc := LikeDocument{
		ID:          uuid.New().String(),
		PortfolioID: portfolioID.String(),
		UserID:      userID.String(),
		CreatedAt:   time.Now(),
	}
	if _, err := m.Likes.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Concurrent toggle already inserted; treat as liked
			return true, nil
		}
		return false, fmt.Errorf("failed to save like: %v", err)
	}

	_, err = m.Portfolios.UpdateOne(ctx,
		bson.M{"_id": portfolioID.String()},
		bson.M{"$inc": bson.M{"likeCount": 1}},
	)
	return true, err
}

// GetLikesByUser lists all likes placed by a user
func (m *MongoDB) GetLikesByUser(ctx context.Context, userID uuid.UUID) ([]*models.Like, error) {
	cursor, err := m.Likes.Find(ctx, bson.M{"userId": userID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to get likes: %v", err)
	}
	defer cursor.Close(ctx)

	var likes []*models.Like
	for cursor.Next(ctx) {
		var doc LikeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode like: %v", err)
		}

		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid like ID in database: %v", err)
		}
		portfolioID, err := uuid.Parse(doc.PortfolioID)
		if err != nil {
			return nil, fmt.Errorf("invalid portfolio ID in database: %v", err)
		}
		likedBy, err := uuid.Parse(doc.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID in database: %v", err)
		}

		likes = append(likes, &models.Like{
			ID:          id,
			PortfolioID: portfolioID,
			UserID:      likedBy,
			CreatedAt:   doc.CreatedAt,
		})
	}

	return likes, cursor.Err()
}
