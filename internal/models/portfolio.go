package models

import (
	"time"

	"github.com/google/uuid"
)

// PortfolioCategory enumerates the gallery categories
type PortfolioCategory string

const (
	CategoryUIUX          PortfolioCategory = "UI/UX"
	CategoryGraphicDesign PortfolioCategory = "Graphic Design"
	CategoryWebDesign     PortfolioCategory = "Web Design"
	CategoryIllustration  PortfolioCategory = "Illustration"
	CategoryBranding      PortfolioCategory = "Branding"
	CategoryOther         PortfolioCategory = "Other"
)

// ValidCategory reports whether c is one of the known gallery categories.
func ValidCategory(c PortfolioCategory) bool {
	switch c {
	case CategoryUIUX, CategoryGraphicDesign, CategoryWebDesign,
		CategoryIllustration, CategoryBranding, CategoryOther:
		return true
	}
	return false
}

// PortfolioImage is a hosted image attached to a portfolio item. The URL
// points at the external blob store; this service never holds the bytes.
type PortfolioImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// PortfolioItem is a published piece of work in a designer's portfolio
type PortfolioItem struct {
	ID          uuid.UUID         `json:"id"`
	OwnerID     uuid.UUID         `json:"user"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Images      []PortfolioImage  `json:"images,omitempty"`
	Category    PortfolioCategory `json:"category"`
	Tags        []string          `json:"tags,omitempty"`
	Tools       []string          `json:"tools,omitempty"`
	IsPublic    bool              `json:"isPublic"`
	LikeCount   int               `json:"likeCount"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Like records one user liking one portfolio item. A second like by the
// same user removes the record (toggle semantics).
type Like struct {
	ID          uuid.UUID `json:"id"`
	PortfolioID uuid.UUID `json:"likedPortfolio"`
	UserID      uuid.UUID `json:"likedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
