package actors

import (
	"context"
	"sort"
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

// fakeConnectionStore enforces the same constraints the MongoDB indexes
// do: one request per unordered pair, one transition out of pending.
type fakeConnectionStore struct {
	connections []*models.Connection
}

func (f *fakeConnectionStore) SaveConnection(ctx context.Context, conn *models.Connection) error {
	for _, c := range f.connections {
		if c.Involves(conn.RequesterID) && c.Involves(conn.RecipientID) {
			return utils.NewAppError(utils.ErrConnectionExists, "a connection request already exists for this pair", nil)
		}
	}
	copied := *conn
	f.connections = append(f.connections, &copied)
	return nil
}

func (f *fakeConnectionStore) GetConnection(ctx context.Context, id uuid.UUID) (*models.Connection, error) {
	for _, c := range f.connections {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "connection request not found", nil)
}

func (f *fakeConnectionStore) GetConnectionBetween(ctx context.Context, a, b uuid.UUID) (*models.Connection, error) {
	for _, c := range f.connections {
		if c.Involves(a) && c.Involves(b) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "no connection between users", nil)
}

func (f *fakeConnectionStore) AcceptedConnectionExists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	for _, c := range f.connections {
		if c.Involves(a) && c.Involves(b) && c.Status == models.ConnectionAccepted {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConnectionStore) UpdateConnectionStatus(ctx context.Context, id uuid.UUID, status models.ConnectionStatus, respondedAt time.Time) error {
	for _, c := range f.connections {
		if c.ID == id {
			if c.Status != models.ConnectionPending {
				return utils.NewAppError(utils.ErrRequestProcessed, "request has already been processed", nil)
			}
			c.Status = status
			t := respondedAt
			c.RespondedAt = &t
			return nil
		}
	}
	return utils.NewAppError(utils.ErrNotFound, "connection request not found", nil)
}

func (f *fakeConnectionStore) GetConnectionsByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*models.Connection, error) {
	return f.filter(func(c *models.Connection) bool { return c.RecipientID == recipientID }), nil
}

func (f *fakeConnectionStore) GetConnectionsByRequester(ctx context.Context, requesterID uuid.UUID) ([]*models.Connection, error) {
	return f.filter(func(c *models.Connection) bool { return c.RequesterID == requesterID }), nil
}

func (f *fakeConnectionStore) filter(keep func(*models.Connection) bool) []*models.Connection {
	var result []*models.Connection
	for _, c := range f.connections {
		if keep(c) {
			copied := *c
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func spawnConnectionActor(t *testing.T, store *fakeConnectionStore, profiles *fakeProfileDirectory) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewConnectionActor(store, profiles, utils.NewMetricsCollector(), zap.NewNop().Sugar())
	})
	return system, system.Root.Spawn(props)
}

func requestConnection(t *testing.T, system *actor.ActorSystem, pid *actor.PID, requester, recipient uuid.UUID) interface{} {
	t.Helper()
	future := system.Root.RequestFuture(pid, &RequestConnectionMsg{
		RequesterID: requester,
		RecipientID: recipient,
	}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	return result
}

func respondConnection(t *testing.T, system *actor.ActorSystem, pid *actor.PID, connectionID, actingUser uuid.UUID, accept bool) interface{} {
	t.Helper()
	future := system.Root.RequestFuture(pid, &RespondConnectionMsg{
		ConnectionID: connectionID,
		ActingUserID: actingUser,
		Accept:       accept,
	}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	return result
}

func TestConnectionRequestLifecycle(t *testing.T) {
	store := &fakeConnectionStore{}
	system, pid := spawnConnectionActor(t, store, &fakeProfileDirectory{})

	requester := uuid.New()
	recipient := uuid.New()

	result := requestConnection(t, system, pid, requester, recipient)
	conn, ok := result.(*models.Connection)
	require.True(t, ok, "expected a connection, got %v", result)
	assert.Equal(t, models.ConnectionPending, conn.Status)
	assert.Equal(t, requester, conn.RequesterID)
	assert.Equal(t, recipient, conn.RecipientID)
	assert.Nil(t, conn.RespondedAt)

	// The recipient accepts
	result = respondConnection(t, system, pid, conn.ID, recipient, true)
	accepted, ok := result.(*models.Connection)
	require.True(t, ok, "expected a connection, got %v", result)
	assert.Equal(t, models.ConnectionAccepted, accepted.Status)
	require.NotNil(t, accepted.RespondedAt)

	// The pair now passes the messaging guard
	future := system.Root.RequestFuture(pid, &IsConnectedMsg{UserID1: recipient, UserID2: requester}, 5*time.Second)
	connected, err := future.Result()
	require.NoError(t, err)
	assert.Equal(t, true, connected)
}

func TestConnectionRequestValidation(t *testing.T) {
	store := &fakeConnectionStore{}
	system, pid := spawnConnectionActor(t, store, &fakeProfileDirectory{})

	requester := uuid.New()

	result := requestConnection(t, system, pid, requester, uuid.Nil)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	result = requestConnection(t, system, pid, requester, requester)
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrSelfAction, appErr.Code)

	assert.Empty(t, store.connections)
}

func TestDuplicateAndReverseRequestsBlocked(t *testing.T) {
	store := &fakeConnectionStore{}
	system, pid := spawnConnectionActor(t, store, &fakeProfileDirectory{})

	requester := uuid.New()
	recipient := uuid.New()

	result := requestConnection(t, system, pid, requester, recipient)
	_, ok := result.(*models.Connection)
	require.True(t, ok)

	// Same direction again
	result = requestConnection(t, system, pid, requester, recipient)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected an application error, got %v", result)
	assert.Equal(t, utils.ErrConnectionExists, appErr.Code)

	// Reverse direction while the first is pending is not a mutual accept
	result = requestConnection(t, system, pid, recipient, requester)
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrConnectionExists, appErr.Code)

	assert.Len(t, store.connections, 1)
}

func TestOnlyRecipientMayRespond(t *testing.T) {
	store := &fakeConnectionStore{}
	system, pid := spawnConnectionActor(t, store, &fakeProfileDirectory{})

	requester := uuid.New()
	recipient := uuid.New()
	stranger := uuid.New()

	result := requestConnection(t, system, pid, requester, recipient)
	conn := result.(*models.Connection)

	for _, actingUser := range []uuid.UUID{requester, stranger} {
		result = respondConnection(t, system, pid, conn.ID, actingUser, true)
		appErr, ok := result.(*utils.AppError)
		require.True(t, ok, "expected an application error, got %v", result)
		assert.Equal(t, utils.ErrForbidden, appErr.Code)
	}

	// The request is still pending after the failed attempts
	stored, err := store.GetConnection(context.Background(), conn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionPending, stored.Status)
}

func TestRespondedRequestsAreTerminal(t *testing.T) {
	store := &fakeConnectionStore{}
	system, pid := spawnConnectionActor(t, store, &fakeProfileDirectory{})

	requester := uuid.New()
	recipient := uuid.New()

	result := requestConnection(t, system, pid, requester, recipient)
	conn := result.(*models.Connection)

	result = respondConnection(t, system, pid, conn.ID, recipient, false)
	rejected := result.(*models.Connection)
	assert.Equal(t, models.ConnectionRejected, rejected.Status)

	// A second decision is refused
	result = respondConnection(t, system, pid, conn.ID, recipient, true)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrRequestProcessed, appErr.Code)

	// Rejection closes the pair: no fresh request in either direction
	result = requestConnection(t, system, pid, requester, recipient)
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrConnectionExists, appErr.Code)

	// And a rejected pair never passes the messaging guard
	future := system.Root.RequestFuture(pid, &IsConnectedMsg{UserID1: requester, UserID2: recipient}, 5*time.Second)
	connected, err := future.Result()
	require.NoError(t, err)
	assert.Equal(t, false, connected)
}

func TestRespondToUnknownConnection(t *testing.T) {
	system, pid := spawnConnectionActor(t, &fakeConnectionStore{}, &fakeProfileDirectory{})

	result := respondConnection(t, system, pid, uuid.New(), uuid.New(), true)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestListRequestsJoinsProfiles(t *testing.T) {
	store := &fakeConnectionStore{}

	requester := uuid.New()
	ghost := uuid.New()
	recipient := uuid.New()

	profiles := &fakeProfileDirectory{profiles: map[uuid.UUID]*models.PublicProfile{
		requester: {ID: requester, Name: "Rosa", AvatarURL: "https://cdn.test/rosa.png"},
	}}

	system, pid := spawnConnectionActor(t, store, profiles)

	requestConnection(t, system, pid, requester, recipient)
	requestConnection(t, system, pid, ghost, recipient)

	future := system.Root.RequestFuture(pid, &ListReceivedRequestsMsg{UserID: recipient}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)

	received, ok := result.([]*models.ConnectionWithProfile)
	require.True(t, ok, "expected connections with profiles, got %T", result)
	require.Len(t, received, 2)

	byRequester := make(map[uuid.UUID]*models.ConnectionWithProfile)
	for _, r := range received {
		byRequester[r.RequesterID] = r
	}

	require.Contains(t, byRequester, requester)
	assert.Equal(t, "Rosa", byRequester[requester].Profile.Name)

	// A vanished requester still renders, as a placeholder
	require.Contains(t, byRequester, ghost)
	assert.Equal(t, "Unknown User", byRequester[ghost].Profile.Name)

	// The requester sees their own request in the sent listing
	future = system.Root.RequestFuture(pid, &ListSentRequestsMsg{UserID: requester}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)

	sent, ok := result.([]*models.ConnectionWithProfile)
	require.True(t, ok)
	require.Len(t, sent, 1)
	assert.Equal(t, recipient, sent[0].RecipientID)
}

func TestGetConnectionVisibleToPartiesOnly(t *testing.T) {
	store := &fakeConnectionStore{}
	system, pid := spawnConnectionActor(t, store, &fakeProfileDirectory{})

	requester := uuid.New()
	recipient := uuid.New()
	conn := requestConnection(t, system, pid, requester, recipient).(*models.Connection)

	getConn := func(actingUser uuid.UUID, connID uuid.UUID) interface{} {
		future := system.Root.RequestFuture(pid, &GetConnectionMsg{
			ConnectionID: connID,
			ActingUserID: actingUser,
		}, 5*time.Second)
		result, err := future.Result()
		require.NoError(t, err)
		return result
	}

	// Either party can fetch it
	for _, party := range []uuid.UUID{requester, recipient} {
		got, ok := getConn(party, conn.ID).(*models.Connection)
		require.True(t, ok)
		assert.Equal(t, conn.ID, got.ID)
		assert.Equal(t, models.ConnectionPending, got.Status)
	}

	// A third user cannot
	appErr, ok := getConn(uuid.New(), conn.ID).(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	// Unknown ids report not found
	appErr, ok = getConn(requester, uuid.New()).(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}
