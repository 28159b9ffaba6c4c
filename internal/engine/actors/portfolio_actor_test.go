package actors

import (
	"context"
	"testing"
	"time"

	"designerhub/internal/models"
	"designerhub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePortfolioStore struct {
	items map[uuid.UUID]*models.PortfolioItem
	likes map[uuid.UUID]map[uuid.UUID]bool // portfolio id -> liker set
}

func newFakePortfolioStore() *fakePortfolioStore {
	return &fakePortfolioStore{
		items: make(map[uuid.UUID]*models.PortfolioItem),
		likes: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *fakePortfolioStore) SavePortfolioItem(ctx context.Context, item *models.PortfolioItem) error {
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakePortfolioStore) GetPortfolioItem(ctx context.Context, id uuid.UUID) (*models.PortfolioItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "portfolio item not found", nil)
	}
	copied := *item
	copied.LikeCount = len(f.likes[id])
	return &copied, nil
}

func (f *fakePortfolioStore) ListPortfolioItems(ctx context.Context, category models.PortfolioCategory, ownerID *uuid.UUID) ([]*models.PortfolioItem, error) {
	var result []*models.PortfolioItem
	for _, item := range f.items {
		if category != "" && item.Category != category {
			continue
		}
		if ownerID != nil && item.OwnerID != *ownerID {
			continue
		}
		copied := *item
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakePortfolioStore) DeletePortfolioItem(ctx context.Context, id uuid.UUID) error {
	delete(f.items, id)
	delete(f.likes, id)
	return nil
}

func (f *fakePortfolioStore) ToggleLike(ctx context.Context, portfolioID, userID uuid.UUID) (bool, error) {
	likers := f.likes[portfolioID]
	if likers == nil {
		likers = make(map[uuid.UUID]bool)
		f.likes[portfolioID] = likers
	}
	if likers[userID] {
		delete(likers, userID)
		return false, nil
	}
	likers[userID] = true
	return true, nil
}

func (f *fakePortfolioStore) GetLikesByUser(ctx context.Context, userID uuid.UUID) ([]*models.Like, error) {
	var result []*models.Like
	for portfolioID, likers := range f.likes {
		if likers[userID] {
			result = append(result, &models.Like{
				ID:          uuid.New(),
				PortfolioID: portfolioID,
				UserID:      userID,
				CreatedAt:   time.Now(),
			})
		}
	}
	return result, nil
}

func spawnPortfolioActor(t *testing.T, store *fakePortfolioStore) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewPortfolioActor(store, utils.NewMetricsCollector(), zap.NewNop().Sugar())
	})
	return system, system.Root.Spawn(props)
}

func createItem(t *testing.T, system *actor.ActorSystem, pid *actor.PID, owner uuid.UUID) *models.PortfolioItem {
	t.Helper()
	future := system.Root.RequestFuture(pid, &CreatePortfolioMsg{
		OwnerID:     owner,
		Title:       "Brand refresh",
		Description: "A full identity package",
		Category:    models.CategoryBranding,
		Tags:        []string{"logo"},
		IsPublic:    true,
	}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	item, ok := result.(*models.PortfolioItem)
	require.True(t, ok, "expected a portfolio item, got %v", result)
	return item
}

func TestCreatePortfolioItemValidation(t *testing.T) {
	store := newFakePortfolioStore()
	system, pid := spawnPortfolioActor(t, store)

	owner := uuid.New()

	cases := []struct {
		name string
		msg  *CreatePortfolioMsg
	}{
		{
			name: "missing title",
			msg:  &CreatePortfolioMsg{OwnerID: owner, Description: "desc", Category: models.CategoryBranding},
		},
		{
			name: "missing description",
			msg:  &CreatePortfolioMsg{OwnerID: owner, Title: "title", Category: models.CategoryBranding},
		},
		{
			name: "unknown category",
			msg:  &CreatePortfolioMsg{OwnerID: owner, Title: "title", Description: "desc", Category: "Interpretive Dance"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			future := system.Root.RequestFuture(pid, tc.msg, 5*time.Second)
			result, err := future.Result()
			require.NoError(t, err)

			appErr, ok := result.(*utils.AppError)
			require.True(t, ok, "expected an application error, got %T", result)
			assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
		})
	}

	assert.Empty(t, store.items)
}

func TestPortfolioMutationsAreOwnerOnly(t *testing.T) {
	store := newFakePortfolioStore()
	system, pid := spawnPortfolioActor(t, store)

	owner := uuid.New()
	intruder := uuid.New()
	item := createItem(t, system, pid, owner)

	updateFuture := system.Root.RequestFuture(pid, &UpdatePortfolioMsg{
		PortfolioID: item.ID,
		ActingUser:  intruder,
		Title:       "Hijacked",
		Description: "nope",
		Category:    models.CategoryBranding,
	}, 5*time.Second)
	result, err := updateFuture.Result()
	require.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected an application error, got %T", result)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	deleteFuture := system.Root.RequestFuture(pid, &DeletePortfolioMsg{
		PortfolioID: item.ID,
		ActingUser:  intruder,
	}, 5*time.Second)
	result, err = deleteFuture.Result()
	require.NoError(t, err)

	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	// The owner can do both
	updateFuture = system.Root.RequestFuture(pid, &UpdatePortfolioMsg{
		PortfolioID: item.ID,
		ActingUser:  owner,
		Title:       "Brand refresh v2",
		Description: "Updated package",
		Category:    models.CategoryBranding,
		IsPublic:    true,
	}, 5*time.Second)
	result, err = updateFuture.Result()
	require.NoError(t, err)

	updated, ok := result.(*models.PortfolioItem)
	require.True(t, ok, "expected a portfolio item, got %v", result)
	assert.Equal(t, "Brand refresh v2", updated.Title)

	deleteFuture = system.Root.RequestFuture(pid, &DeletePortfolioMsg{
		PortfolioID: item.ID,
		ActingUser:  owner,
	}, 5*time.Second)
	result, err = deleteFuture.Result()
	require.NoError(t, err)
	assert.Equal(t, true, result)
	assert.Empty(t, store.items)
}

func TestLikeToggle(t *testing.T) {
	store := newFakePortfolioStore()
	system, pid := spawnPortfolioActor(t, store)

	owner := uuid.New()
	fan := uuid.New()
	item := createItem(t, system, pid, owner)

	toggle := func() bool {
		future := system.Root.RequestFuture(pid, &ToggleLikeMsg{
			PortfolioID: item.ID,
			UserID:      fan,
		}, 5*time.Second)
		result, err := future.Result()
		require.NoError(t, err)
		liked, ok := result.(bool)
		require.True(t, ok, "expected a bool, got %v", result)
		return liked
	}

	// First like sticks, second one removes it
	assert.True(t, toggle())

	likesFuture := system.Root.RequestFuture(pid, &GetUserLikesMsg{UserID: fan}, 5*time.Second)
	result, err := likesFuture.Result()
	require.NoError(t, err)
	likes, ok := result.([]*models.Like)
	require.True(t, ok)
	require.Len(t, likes, 1)
	assert.Equal(t, item.ID, likes[0].PortfolioID)

	assert.False(t, toggle())

	likesFuture = system.Root.RequestFuture(pid, &GetUserLikesMsg{UserID: fan}, 5*time.Second)
	result, err = likesFuture.Result()
	require.NoError(t, err)
	likes, _ = result.([]*models.Like)
	assert.Empty(t, likes)
}

func TestLikeMissingItem(t *testing.T) {
	system, pid := spawnPortfolioActor(t, newFakePortfolioStore())

	future := system.Root.RequestFuture(pid, &ToggleLikeMsg{
		PortfolioID: uuid.New(),
		UserID:      uuid.New(),
	}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected an application error, got %T", result)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestListPortfolioByCategoryAndOwner(t *testing.T) {
	store := newFakePortfolioStore()
	system, pid := spawnPortfolioActor(t, store)

	owner := uuid.New()
	other := uuid.New()
	createItem(t, system, pid, owner)
	createItem(t, system, pid, other)

	listFuture := system.Root.RequestFuture(pid, &ListPortfolioMsg{
		Category: models.CategoryBranding,
		OwnerID:  &owner,
	}, 5*time.Second)
	result, err := listFuture.Result()
	require.NoError(t, err)

	items, ok := result.([]*models.PortfolioItem)
	require.True(t, ok, "expected items, got %T", result)
	require.Len(t, items, 1)
	assert.Equal(t, owner, items[0].OwnerID)

	// Unknown category is rejected up front
	listFuture = system.Root.RequestFuture(pid, &ListPortfolioMsg{Category: "Macrame"}, 5*time.Second)
	result, err = listFuture.Result()
	require.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}
