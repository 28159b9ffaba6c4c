package actors

import (
	stdctx "context"
	"strings"
	"time"

	"designerhub/internal/models"
	"designerhub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message types for PortfolioActor
type (
	CreatePortfolioMsg struct {
		OwnerID     uuid.UUID
		Title       string
		Description string
		Images      []models.PortfolioImage
		Category    models.PortfolioCategory
		Tags        []string
		Tools       []string
		IsPublic    bool
	}

	GetPortfolioMsg struct {
		PortfolioID uuid.UUID
	}

	ListPortfolioMsg struct {
		Category models.PortfolioCategory
		OwnerID  *uuid.UUID
	}

	UpdatePortfolioMsg struct {
		PortfolioID uuid.UUID
		ActingUser  uuid.UUID
		Title       string
		Description string
		Images      []models.PortfolioImage
		Category    models.PortfolioCategory
		Tags        []string
		Tools       []string
		IsPublic    bool
	}

	DeletePortfolioMsg struct {
		PortfolioID uuid.UUID
		ActingUser  uuid.UUID
	}

	ToggleLikeMsg struct {
		PortfolioID uuid.UUID
		UserID      uuid.UUID
	}

	GetUserLikesMsg struct {
		UserID uuid.UUID
	}
)

// PortfolioStore is the persistence surface for portfolio items and
// likes. *database.MongoDB satisfies it.
type PortfolioStore interface {
	SavePortfolioItem(ctx stdctx.Context, item *models.PortfolioItem) error
	GetPortfolioItem(ctx stdctx.Context, id uuid.UUID) (*models.PortfolioItem, error)
	ListPortfolioItems(ctx stdctx.Context, category models.PortfolioCategory, ownerID *uuid.UUID) ([]*models.PortfolioItem, error)
	DeletePortfolioItem(ctx stdctx.Context, id uuid.UUID) error
	ToggleLike(ctx stdctx.Context, portfolioID, userID uuid.UUID) (bool, error)
	GetLikesByUser(ctx stdctx.Context, userID uuid.UUID) ([]*models.Like, error)
}

// PortfolioActor manages the gallery: publishing, editing and liking
// portfolio items. Mutations are owner-only.
type PortfolioActor struct {
	store   PortfolioStore
	metrics *utils.MetricsCollector
	logger  *zap.SugaredLogger
}

func NewPortfolioActor(store PortfolioStore, metrics *utils.MetricsCollector, logger *zap.SugaredLogger) actor.Actor {
	return &PortfolioActor{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

func (a *PortfolioActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CreatePortfolioMsg:
		a.handleCreate(context, msg)
	case *GetPortfolioMsg:
		a.handleGet(context, msg)
	case *ListPortfolioMsg:
		a.handleList(context, msg)
	case *UpdatePortfolioMsg:
		a.handleUpdate(context, msg)
	case *DeletePortfolioMsg:
		a.handleDelete(context, msg)
	case *ToggleLikeMsg:
		a.handleToggleLike(context, msg)
	case *GetUserLikesMsg:
		a.handleGetUserLikes(context, msg)
	}
}

func (a *PortfolioActor) handleCreate(context actor.Context, msg *CreatePortfolioMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	title := strings.TrimSpace(msg.Title)
	if title == "" || strings.TrimSpace(msg.Description) == "" {
		context.Respond(utils.NewInvalidInputError("title and description are required"))
		return
	}
	if !models.ValidCategory(msg.Category) {
		context.Respond(utils.NewInvalidInputError("unknown category"))
		return
	}

	now := time.Now()
	item := &models.PortfolioItem{
		ID:          uuid.New(),
		OwnerID:     msg.OwnerID,
		Title:       title,
		Description: msg.Description,
		Images:      msg.Images,
		Category:    msg.Category,
		Tags:        msg.Tags,
		Tools:       msg.Tools,
		IsPublic:    msg.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := a.store.SavePortfolioItem(ctx, item); err != nil {
		a.logger.Errorw("failed to save portfolio item", "owner", msg.OwnerID, "error", err)
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}

	a.metrics.AddOperationLatency("create_portfolio", time.Since(startTime))
	context.Respond(item)
}

func (a *PortfolioActor) handleGet(context actor.Context, msg *GetPortfolioMsg) {
	ctx := stdctx.Background()

	item, err := a.store.GetPortfolioItem(ctx, msg.PortfolioID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			context.Respond(err)
		} else {
			context.Respond(utils.NewStoreUnavailableError(err))
		}
		return
	}
	context.Respond(item)
}

func (a *PortfolioActor) handleList(context actor.Context, msg *ListPortfolioMsg) {
	ctx := stdctx.Background()

	if msg.Category != "" && !models.ValidCategory(msg.Category) {
		context.Respond(utils.NewInvalidInputError("unknown category"))
		return
	}

	items, err := a.store.ListPortfolioItems(ctx, msg.Category, msg.OwnerID)
	if err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}
	if items == nil {
		items = []*models.PortfolioItem{}
	}
	context.Respond(items)
}

func (a *PortfolioActor) handleUpdate(context actor.Context, msg *UpdatePortfolioMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	item, err := a.store.GetPortfolioItem(ctx, msg.PortfolioID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			context.Respond(err)
		} else {
			context.Respond(utils.NewStoreUnavailableError(err))
		}
		return
	}
	if item.OwnerID != msg.ActingUser {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "only the owner can edit a portfolio item", nil))
		return
	}
	if !models.ValidCategory(msg.Category) {
		context.Respond(utils.NewInvalidInputError("unknown category"))
		return
	}

	item.Title = strings.TrimSpace(msg.Title)
	item.Description = msg.Description
	item.Images = msg.Images
	item.Category = msg.Category
	item.Tags = msg.Tags
	item.Tools = msg.Tools
	item.IsPublic = msg.IsPublic
	item.UpdatedAt = time.Now()

	if item.Title == "" {
		context.Respond(utils.NewInvalidInputError("title is required"))
		return
	}

	if err := a.store.SavePortfolioItem(ctx, item); err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}

	a.metrics.AddOperationLatency("update_portfolio", time.Since(startTime))
	context.Respond(item)
}

func (a *PortfolioActor) handleDelete(context actor.Context, msg *DeletePortfolioMsg) {
	ctx := stdctx.Background()

	item, err := a.store.GetPortfolioItem(ctx, msg.PortfolioID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			context.Respond(err)
		} else {
			context.Respond(utils.NewStoreUnavailableError(err))
		}
		return
	}
	if item.OwnerID != msg.ActingUser {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "only the owner can delete a portfolio item", nil))
		return
	}

	if err := a.store.DeletePortfolioItem(ctx, msg.PortfolioID); err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}
	context.Respond(true)
}

func (a *PortfolioActor) handleToggleLike(context actor.Context, msg *ToggleLikeMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	// Liking a missing item is a 404, not a silent insert
	if _, err := a.store.GetPortfolioItem(ctx, msg.PortfolioID); err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			context.Respond(err)
		} else {
			context.Respond(utils.NewStoreUnavailableError(err))
		}
		return
	}

	liked, err := a.store.ToggleLike(ctx, msg.PortfolioID, msg.UserID)
	if err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}

	a.metrics.AddOperationLatency("toggle_like", time.Since(startTime))
	context.Respond(liked)
}

func (a *PortfolioActor) handleGetUserLikes(context actor.Context, msg *GetUserLikesMsg) {
	ctx := stdctx.Background()

	likes, err := a.store.GetLikesByUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}
	if likes == nil {
		likes = []*models.Like{}
	}
	context.Respond(likes)
}
