package actors

import (
	stdctx "context"
	"time"

	"designerhub/internal/models"
	"designerhub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message types for ConnectionActor
type (
	RequestConnectionMsg struct {
		RequesterID uuid.UUID `json:"requester"`
		RecipientID uuid.UUID `json:"recipient"`
	}

	RespondConnectionMsg struct {
		ConnectionID uuid.UUID `json:"connectionId"`
		ActingUserID uuid.UUID `json:"actingUser"`
		Accept       bool      `json:"accept"`
	}

	GetConnectionMsg struct {
		ConnectionID uuid.UUID `json:"connectionId"`
		ActingUserID uuid.UUID `json:"actingUser"`
	}

	IsConnectedMsg struct {
		UserID1 uuid.UUID `json:"userId1"`
		UserID2 uuid.UUID `json:"userId2"`
	}

	ListReceivedRequestsMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	ListSentRequestsMsg struct {
		UserID uuid.UUID `json:"userId"`
	}
)

// ConnectionStore is the persistence surface for collaboration requests.
// *database.MongoDB satisfies it.
type ConnectionStore interface {
	SaveConnection(ctx stdctx.Context, conn *models.Connection) error
	GetConnection(ctx stdctx.Context, id uuid.UUID) (*models.Connection, error)
	GetConnectionBetween(ctx stdctx.Context, a, b uuid.UUID) (*models.Connection, error)
	AcceptedConnectionExists(ctx stdctx.Context, a, b uuid.UUID) (bool, error)
	UpdateConnectionStatus(ctx stdctx.Context, id uuid.UUID, status models.ConnectionStatus, respondedAt time.Time) error
	GetConnectionsByRecipient(ctx stdctx.Context, recipientID uuid.UUID) ([]*models.Connection, error)
	GetConnectionsByRequester(ctx stdctx.Context, requesterID uuid.UUID) ([]*models.Connection, error)
}

// ConnectionActor manages the collaboration request lifecycle:
// pending on creation, then a single recipient-driven transition to
// accepted or rejected. Terminal states never reopen.
type ConnectionActor struct {
	store    ConnectionStore
	profiles ProfileDirectory
	metrics  *utils.MetricsCollector
	logger   *zap.SugaredLogger
}

func NewConnectionActor(store ConnectionStore, profiles ProfileDirectory, metrics *utils.MetricsCollector, logger *zap.SugaredLogger) actor.Actor {
	return &ConnectionActor{
		store:    store,
		profiles: profiles,
		metrics:  metrics,
		logger:   logger,
	}
}

func (a *ConnectionActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *RequestConnectionMsg:
		a.handleRequest(context, msg)
	case *RespondConnectionMsg:
		a.handleRespond(context, msg)
	case *GetConnectionMsg:
		a.handleGet(context, msg)
	case *IsConnectedMsg:
		a.handleIsConnected(context, msg)
	case *ListReceivedRequestsMsg:
		a.handleListRequests(context, msg.UserID, true)
	case *ListSentRequestsMsg:
		a.handleListRequests(context, msg.UserID, false)
	}
}

func (a *ConnectionActor) handleRequest(context actor.Context, msg *RequestConnectionMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.RecipientID == uuid.Nil {
		context.Respond(utils.NewInvalidInputError("recipient is required"))
		return
	}
	if msg.RequesterID == msg.RecipientID {
		context.Respond(utils.NewAppError(utils.ErrSelfAction, "you cannot send a connection request to yourself", nil))
		return
	}

	// One request per unordered pair, whatever its direction or status.
	// A reverse request while one is pending is rejected rather than
	// treated as a mutual accept.
	existing, err := a.store.GetConnectionBetween(ctx, msg.RequesterID, msg.RecipientID)
	if err != nil && !utils.IsErrorCode(err, utils.ErrNotFound) {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}
	if existing != nil {
		context.Respond(utils.NewAppError(utils.ErrConnectionExists, "a connection request already exists for this pair", nil))
		return
	}

	conn := &models.Connection{
		ID:          uuid.New(),
		RequesterID: msg.RequesterID,
		RecipientID: msg.RecipientID,
		Status:      models.ConnectionPending,
		CreatedAt:   time.Now(),
	}

	if err := a.store.SaveConnection(ctx, conn); err != nil {
		if utils.IsErrorCode(err, utils.ErrConnectionExists) {
			context.Respond(err)
			return
		}
		a.logger.Errorw("failed to save connection", "requester", msg.RequesterID, "error", err)
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}

	a.logger.Infow("connection requested", "requester", msg.RequesterID, "recipient", msg.RecipientID)
	a.metrics.AddOperationLatency("request_connection", time.Since(startTime))
	context.Respond(conn)
}

func (a *ConnectionActor) handleRespond(context actor.Context, msg *RespondConnectionMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	conn, err := a.store.GetConnection(ctx, msg.ConnectionID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			context.Respond(err)
		} else {
			context.Respond(utils.NewStoreUnavailableError(err))
		}
		return
	}

	// Only the recipient decides
	if conn.RecipientID != msg.ActingUserID {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "not authorized to respond to this request", nil))
		return
	}
	if conn.Status != models.ConnectionPending {
		context.Respond(utils.NewAppError(utils.ErrRequestProcessed, "request has already been processed", nil))
		return
	}

	status := models.ConnectionRejected
	if msg.Accept {
		status = models.ConnectionAccepted
	}
	respondedAt := time.Now()

	if err := a.store.UpdateConnectionStatus(ctx, conn.ID, status, respondedAt); err != nil {
		if utils.IsErrorCode(err, utils.ErrRequestProcessed) {
			context.Respond(err)
			return
		}
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}

	conn.Status = status
	conn.RespondedAt = &respondedAt

	a.logger.Infow("connection responded", "connection", conn.ID, "status", status)
	a.metrics.AddOperationLatency("respond_connection", time.Since(startTime))
	context.Respond(conn)
}

func (a *ConnectionActor) handleGet(context actor.Context, msg *GetConnectionMsg) {
	ctx := stdctx.Background()

	conn, err := a.store.GetConnection(ctx, msg.ConnectionID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			context.Respond(err)
		} else {
			context.Respond(utils.NewStoreUnavailableError(err))
		}
		return
	}

	// Visible to the two parties only
	if !conn.Involves(msg.ActingUserID) {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "not authorized to view this request", nil))
		return
	}

	context.Respond(conn)
}

func (a *ConnectionActor) handleIsConnected(context actor.Context, msg *IsConnectedMsg) {
	ctx := stdctx.Background()

	connected, err := a.store.AcceptedConnectionExists(ctx, msg.UserID1, msg.UserID2)
	if err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}
	context.Respond(connected)
}

func (a *ConnectionActor) handleListRequests(context actor.Context, userID uuid.UUID, received bool) {
	ctx := stdctx.Background()

	var connections []*models.Connection
	var err error
	if received {
		connections, err = a.store.GetConnectionsByRecipient(ctx, userID)
	} else {
		connections, err = a.store.GetConnectionsByRequester(ctx, userID)
	}
	if err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}

	// Join the counterpart's public profile for the listing
	ids := make([]uuid.UUID, 0, len(connections))
	for _, c := range connections {
		if received {
			ids = append(ids, c.RequesterID)
		} else {
			ids = append(ids, c.RecipientID)
		}
	}
	profiles, err := a.profiles.GetPublicProfiles(ctx, ids)
	if err != nil {
		a.logger.Warnw("profile join failed, using placeholders", "user", userID, "error", err)
	}

	result := make([]*models.ConnectionWithProfile, 0, len(connections))
	for _, c := range connections {
		counterpart := c.RequesterID
		if !received {
			counterpart = c.RecipientID
		}
		profile, ok := profiles[counterpart]
		if !ok {
			profile = models.PlaceholderProfile(counterpart)
		}
		result = append(result, &models.ConnectionWithProfile{
			Connection: *c,
			Profile:    profile,
		})
	}

	context.Respond(result)
}
