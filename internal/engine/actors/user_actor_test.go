package actors

import (
	"context"
	"strings"
	"testing"
	"time"

	"designerhub/internal/api"
	"designerhub/internal/models"
	"designerhub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) SaveUser(ctx context.Context, user *models.User) error {
	for id, existing := range f.users {
		if existing.Email == user.Email && id != user.ID {
			return utils.NewAppError(utils.ErrUserAlreadyExists, "Email already registered", nil)
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, utils.NewUserNotFoundError(email)
}

func (f *fakeUserStore) SearchUsers(ctx context.Context, query string, limit int) ([]*models.PublicProfile, error) {
	needle := strings.ToLower(query)
	var profiles []*models.PublicProfile
	for _, user := range f.users {
		if len(profiles) == limit {
			break
		}
		match := strings.Contains(strings.ToLower(user.Name), needle)
		for _, skill := range user.Skills {
			if strings.Contains(strings.ToLower(skill), needle) {
				match = true
			}
		}
		if match {
			profiles = append(profiles, user.Public())
		}
	}
	return profiles, nil
}

func (f *fakeUserStore) UpdateUserActivity(ctx context.Context, id uuid.UUID) error {
	if user, ok := f.users[id]; ok {
		user.LastActive = time.Now()
	}
	return nil
}

func spawnUserActor(t *testing.T, store *fakeUserStore) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewUserActor(store, utils.NewMetricsCollector(), zap.NewNop().Sugar())
	})
	return system, system.Root.Spawn(props)
}

func TestUserRegistrationAndLogin(t *testing.T) {
	store := newFakeUserStore()
	system, pid := spawnUserActor(t, store)

	// Step 1: Register a new user
	regFuture := system.Root.RequestFuture(pid, &RegisterUserMsg{
		Name:     "Test Designer",
		Email:    "Designer@Example.com",
		Password: "password123",
	}, 10*time.Second)

	regResult, err := regFuture.Result()
	require.NoError(t, err)

	user, ok := regResult.(*models.User)
	require.True(t, ok, "expected a user, got %v", regResult)
	assert.Equal(t, "Test Designer", user.Name)
	assert.Equal(t, "designer@example.com", user.Email, "email should be normalized")
	assert.NotEqual(t, "password123", user.HashedPassword)

	// Step 2: Log in with the right password
	loginFuture := system.Root.RequestFuture(pid, &LoginMsg{
		Email:    "designer@example.com",
		Password: "password123",
	}, 10*time.Second)

	loginResult, err := loginFuture.Result()
	require.NoError(t, err)

	loginResponse, ok := loginResult.(*api.LoginResponse)
	require.True(t, ok, "expected a login response, got %T", loginResult)
	assert.True(t, loginResponse.Success)
	assert.Equal(t, user.ID.String(), loginResponse.UserID)

	// Step 3: Wrong password is rejected
	badLoginFuture := system.Root.RequestFuture(pid, &LoginMsg{
		Email:    "designer@example.com",
		Password: "wrongpassword",
	}, 10*time.Second)

	badLoginResult, err := badLoginFuture.Result()
	require.NoError(t, err)

	badLoginResponse, ok := badLoginResult.(*api.LoginResponse)
	require.True(t, ok)
	assert.False(t, badLoginResponse.Success)
	assert.Equal(t, "Invalid credentials", badLoginResponse.Error)
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	store := newFakeUserStore()
	system, pid := spawnUserActor(t, store)

	register := func() interface{} {
		future := system.Root.RequestFuture(pid, &RegisterUserMsg{
			Name:     "Test Designer",
			Email:    "designer@example.com",
			Password: "password123",
		}, 10*time.Second)
		result, err := future.Result()
		require.NoError(t, err)
		return result
	}

	_, ok := register().(*models.User)
	require.True(t, ok)

	appErr, ok := register().(*utils.AppError)
	require.True(t, ok, "expected an application error on duplicate registration")
	assert.Equal(t, utils.ErrUserAlreadyExists, appErr.Code)
	assert.Len(t, store.users, 1)
}

func TestProfileProjectionHidesPrivateFields(t *testing.T) {
	store := newFakeUserStore()
	system, pid := spawnUserActor(t, store)

	regFuture := system.Root.RequestFuture(pid, &RegisterUserMsg{
		Name:     "Test Designer",
		Email:    "designer@example.com",
		Password: "password123",
	}, 10*time.Second)
	regResult, err := regFuture.Result()
	require.NoError(t, err)
	user := regResult.(*models.User)

	profileFuture := system.Root.RequestFuture(pid, &GetUserProfileMsg{UserID: user.ID}, 5*time.Second)
	profileResult, err := profileFuture.Result()
	require.NoError(t, err)

	profile, ok := profileResult.(*models.PublicProfile)
	require.True(t, ok, "expected a public profile, got %T", profileResult)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "Test Designer", profile.Name)

	// Unknown user id yields NOT_FOUND, not an empty profile
	missingFuture := system.Root.RequestFuture(pid, &GetUserProfileMsg{UserID: uuid.New()}, 5*time.Second)
	missingResult, err := missingFuture.Result()
	require.NoError(t, err)

	appErr, ok := missingResult.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrUserNotFound, appErr.Code)
}

func TestUpdateProfile(t *testing.T) {
	store := newFakeUserStore()
	system, pid := spawnUserActor(t, store)

	regFuture := system.Root.RequestFuture(pid, &RegisterUserMsg{
		Name:     "Test Designer",
		Email:    "designer@example.com",
		Password: "password123",
	}, 10*time.Second)
	regResult, err := regFuture.Result()
	require.NoError(t, err)
	user := regResult.(*models.User)

	updateFuture := system.Root.RequestFuture(pid, &UpdateProfileMsg{
		UserID:    user.ID,
		Name:      "Renamed Designer",
		Bio:       "I make posters",
		AvatarURL: "https://cdn.test/me.png",
		Skills:    []string{"typography", "illustration"},
	}, 5*time.Second)
	updateResult, err := updateFuture.Result()
	require.NoError(t, err)

	profile, ok := updateResult.(*models.PublicProfile)
	require.True(t, ok, "expected a public profile, got %T", updateResult)
	assert.Equal(t, "Renamed Designer", profile.Name)
	assert.Equal(t, "I make posters", profile.Bio)
	assert.Equal(t, []string{"typography", "illustration"}, profile.Skills)

	// Blank name keeps the previous one
	updateFuture = system.Root.RequestFuture(pid, &UpdateProfileMsg{
		UserID: user.ID,
		Name:   strings.Repeat(" ", 3),
		Bio:    "updated again",
	}, 5*time.Second)
	updateResult, err = updateFuture.Result()
	require.NoError(t, err)

	profile, ok = updateResult.(*models.PublicProfile)
	require.True(t, ok)
	assert.Equal(t, "Renamed Designer", profile.Name)
	assert.Equal(t, "updated again", profile.Bio)
}

func TestUserSearch(t *testing.T) {
	store := newFakeUserStore()
	system, pid := spawnUserActor(t, store)

	rosa := &models.User{
		ID:             uuid.New(),
		Name:           "Rosa Lindgren",
		Email:          "rosa@example.com",
		HashedPassword: "hash",
		Skills:         []string{"Illustration", "Branding"},
	}
	boris := &models.User{
		ID:             uuid.New(),
		Name:           "Boris Vian",
		Email:          "boris@example.com",
		HashedPassword: "hash",
		Skills:         []string{"Web Design"},
	}
	require.NoError(t, store.SaveUser(context.Background(), rosa))
	require.NoError(t, store.SaveUser(context.Background(), boris))

	search := func(query string) interface{} {
		future := system.Root.RequestFuture(pid, &SearchUsersMsg{Query: query}, 10*time.Second)
		result, err := future.Result()
		require.NoError(t, err)
		return result
	}

	// Case-insensitive name match, public projection only
	profiles, ok := search("rosa").([]*models.PublicProfile)
	require.True(t, ok)
	require.Len(t, profiles, 1)
	assert.Equal(t, rosa.ID, profiles[0].ID)
	assert.Equal(t, "Rosa Lindgren", profiles[0].Name)

	// Skills match too
	profiles, ok = search("web").([]*models.PublicProfile)
	require.True(t, ok)
	require.Len(t, profiles, 1)
	assert.Equal(t, boris.ID, profiles[0].ID)

	// No match yields an empty, non-nil list
	profiles, ok = search("ceramics").([]*models.PublicProfile)
	require.True(t, ok)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)

	// A blank query is rejected
	appErr, ok := search("   ").(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}
