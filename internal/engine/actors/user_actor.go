package actors

import (
	stdctx "context"
	"strings"
	"time"

	"designerhub/internal/api"
	"designerhub/internal/models"
	"designerhub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Message types for UserActor
type (
	RegisterUserMsg struct {
		Name     string
		Email    string
		Password string
	}

	LoginMsg struct {
		Email    string
		Password string
	}

	GetUserProfileMsg struct {
		UserID uuid.UUID
	}

	UpdateProfileMsg struct {
		UserID    uuid.UUID
		Name      string
		Bio       string
		AvatarURL string
		Skills    []string
	}

	SearchUsersMsg struct {
		Query string
	}
)

// searchResultLimit caps search responses to one page of results
const searchResultLimit = 10

// UserStore is the persistence surface for accounts. *database.MongoDB
// satisfies it.
type UserStore interface {
	SaveUser(ctx stdctx.Context, user *models.User) error
	GetUser(ctx stdctx.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx stdctx.Context, email string) (*models.User, error)
	SearchUsers(ctx stdctx.Context, query string, limit int) ([]*models.PublicProfile, error)
	UpdateUserActivity(ctx stdctx.Context, id uuid.UUID) error
}

// UserActor handles account registration, credential checks and profile
// reads. Token minting stays at the HTTP edge; the actor only reports
// whether the credentials check out.
type UserActor struct {
	store   UserStore
	metrics *utils.MetricsCollector
	logger  *zap.SugaredLogger
}

func NewUserActor(store UserStore, metrics *utils.MetricsCollector, logger *zap.SugaredLogger) actor.Actor {
	return &UserActor{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *RegisterUserMsg:
		a.handleRegister(context, msg)
	case *LoginMsg:
		a.handleLogin(context, msg)
	case *GetUserProfileMsg:
		a.handleGetProfile(context, msg)
	case *UpdateProfileMsg:
		a.handleUpdateProfile(context, msg)
	case *SearchUsersMsg:
		a.handleSearch(context, msg)
	}
}

func (a *UserActor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	name := strings.TrimSpace(msg.Name)
	email := strings.ToLower(strings.TrimSpace(msg.Email))
	if name == "" || email == "" || msg.Password == "" {
		context.Respond(utils.NewInvalidInputError("name, email and password are required"))
		return
	}

	if existing, _ := a.store.GetUserByEmail(ctx, email); existing != nil {
		context.Respond(utils.NewAppError(utils.ErrUserAlreadyExists, "Email already registered", nil))
		return
	}

	hashed, err := hashPassword(msg.Password)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "could not hash password", err))
		return
	}

	user := &models.User{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		HashedPassword: hashed,
		CreatedAt:      time.Now(),
		LastActive:     time.Now(),
	}

	if err := a.store.SaveUser(ctx, user); err != nil {
		if utils.IsErrorCode(err, utils.ErrUserAlreadyExists) {
			context.Respond(err)
			return
		}
		a.logger.Errorw("failed to save user", "email", email, "error", err)
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}

	a.logger.Infow("user registered", "user", user.ID)
	a.metrics.AddOperationLatency("register_user", time.Since(startTime))
	context.Respond(user)
}

func (a *UserActor) handleLogin(context actor.Context, msg *LoginMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	email := strings.ToLower(strings.TrimSpace(msg.Email))
	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		context.Respond(&api.LoginResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(&api.LoginResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	_ = a.store.UpdateUserActivity(ctx, user.ID)

	a.metrics.AddOperationLatency("login", time.Since(startTime))
	context.Respond(&api.LoginResponse{Success: true, UserID: user.ID.String()})
}

func (a *UserActor) handleGetProfile(context actor.Context, msg *GetUserProfileMsg) {
	ctx := stdctx.Background()

	user, err := a.store.GetUser(ctx, msg.UserID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrUserNotFound) {
			context.Respond(err)
		} else {
			context.Respond(utils.NewStoreUnavailableError(err))
		}
		return
	}

	context.Respond(user.Public())
}

func (a *UserActor) handleUpdateProfile(context actor.Context, msg *UpdateProfileMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	user, err := a.store.GetUser(ctx, msg.UserID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrUserNotFound) {
			context.Respond(err)
		} else {
			context.Respond(utils.NewStoreUnavailableError(err))
		}
		return
	}

	if name := strings.TrimSpace(msg.Name); name != "" {
		user.Name = name
	}
	user.Bio = msg.Bio
	user.AvatarURL = msg.AvatarURL
	if msg.Skills != nil {
		user.Skills = msg.Skills
	}
	user.LastActive = time.Now()

	if err := a.store.SaveUser(ctx, user); err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}

	a.metrics.AddOperationLatency("update_profile", time.Since(startTime))
	context.Respond(user.Public())
}

func (a *UserActor) handleSearch(context actor.Context, msg *SearchUsersMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	query := strings.TrimSpace(msg.Query)
	if query == "" {
		context.Respond(utils.NewInvalidInputError("search query is required"))
		return
	}

	profiles, err := a.store.SearchUsers(ctx, query, searchResultLimit)
	if err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}
	if profiles == nil {
		profiles = []*models.PublicProfile{}
	}

	a.metrics.AddOperationLatency("search_users", time.Since(startTime))
	context.Respond(profiles)
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}
