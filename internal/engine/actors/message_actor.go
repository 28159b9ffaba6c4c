package actors

import (
	stdctx "context"
	"sort"
	"strings"
	"time"

	"designerhub/internal/models"
	"designerhub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message types for MessageActor
type (
	SendMessageMsg struct {
		SenderID    uuid.UUID          `json:"sender"`
		RecipientID uuid.UUID          `json:"recipient"`
		Content     string             `json:"content"`
		Kind        models.MessageKind `json:"kind"`
	}

	FetchThreadMsg struct {
		ViewerID        uuid.UUID `json:"viewer"`
		CorrespondentID uuid.UUID `json:"correspondent"`
	}

	ListConversationsMsg struct {
		ViewerID uuid.UUID `json:"viewer"`
	}
)

// MessageStore is the persistence surface the actor needs for direct
// messages. *database.MongoDB satisfies it.
type MessageStore interface {
	SaveMessage(ctx stdctx.Context, message *models.Message) error
	GetMessagesBetween(ctx stdctx.Context, a, b uuid.UUID) ([]*models.Message, error)
	GetMessagesByUser(ctx stdctx.Context, userID uuid.UUID) ([]*models.Message, error)
	MarkMessagesRead(ctx stdctx.Context, ids []uuid.UUID, readAt time.Time) error
}

// ConnectionChecker is the access guard: may these two users exchange
// messages right now?
type ConnectionChecker interface {
	AcceptedConnectionExists(ctx stdctx.Context, a, b uuid.UUID) (bool, error)
}

// ProfileDirectory resolves user ids to public profiles for the
// conversation list join.
type ProfileDirectory interface {
	GetPublicProfiles(ctx stdctx.Context, ids []uuid.UUID) (map[uuid.UUID]*models.PublicProfile, error)
}

// MessageActor serializes all direct-message operations. Routing every
// send and thread fetch through one mailbox means the fetch-then-mark
// sequence never interleaves with a concurrent send: a message is either
// fetched and marked, or arrives after both.
type MessageActor struct {
	store    MessageStore
	guard    ConnectionChecker
	profiles ProfileDirectory
	metrics  *utils.MetricsCollector
	logger   *zap.SugaredLogger
}

func NewMessageActor(store MessageStore, guard ConnectionChecker, profiles ProfileDirectory, metrics *utils.MetricsCollector, logger *zap.SugaredLogger) actor.Actor {
	return &MessageActor{
		store:    store,
		guard:    guard,
		profiles: profiles,
		metrics:  metrics,
		logger:   logger,
	}
}

func (a *MessageActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *SendMessageMsg:
		a.handleSend(context, msg)
	case *FetchThreadMsg:
		a.handleFetchThread(context, msg)
	case *ListConversationsMsg:
		a.handleListConversations(context, msg)
	}
}

func (a *MessageActor) handleSend(context actor.Context, msg *SendMessageMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		context.Respond(utils.NewInvalidInputError("content is missing"))
		return
	}
	if msg.RecipientID == uuid.Nil {
		context.Respond(utils.NewInvalidInputError("recipient is missing"))
		return
	}
	if msg.RecipientID == msg.SenderID {
		context.Respond(utils.NewAppError(utils.ErrSelfAction, "you cannot message yourself", nil))
		return
	}

	kind := msg.Kind
	if kind == "" {
		kind = models.MessageKindText
	}
	if kind != models.MessageKindText {
		context.Respond(utils.NewAppError(utils.ErrUnsupportedKind, "only text messages are supported", nil))
		return
	}

	connected, err := a.guard.AcceptedConnectionExists(ctx, msg.SenderID, msg.RecipientID)
	if err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}
	if !connected {
		context.Respond(utils.NewNotConnectedError())
		return
	}

	newMessage := &models.Message{
		ID:          uuid.New(),
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		Content:     content,
		Kind:        kind,
		CreatedAt:   time.Now(),
		IsRead:      false,
	}

	if err := a.store.SaveMessage(ctx, newMessage); err != nil {
		a.logger.Errorw("failed to save message", "sender", msg.SenderID, "error", err)
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}

	a.logger.Debugw("message sent", "from", msg.SenderID, "to", msg.RecipientID)
	a.metrics.AddOperationLatency("send_message", time.Since(startTime))
	context.Respond(newMessage)
}

func (a *MessageActor) handleFetchThread(context actor.Context, msg *FetchThreadMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	connected, err := a.guard.AcceptedConnectionExists(ctx, msg.ViewerID, msg.CorrespondentID)
	if err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}
	if !connected {
		context.Respond(utils.NewNotConnectedError())
		return
	}

	messages, err := a.store.GetMessagesBetween(ctx, msg.ViewerID, msg.CorrespondentID)
	if err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}

	// Mark read only the ids captured by this fetch. A send landing after
	// the fetch keeps its unread flag and shows up next time.
	readAt := time.Now()
	var unreadIDs []uuid.UUID
	for _, m := range messages {
		if m.RecipientID == msg.ViewerID && !m.IsRead {
			unreadIDs = append(unreadIDs, m.ID)
		}
	}
	if len(unreadIDs) > 0 {
		if err := a.store.MarkMessagesRead(ctx, unreadIDs, readAt); err != nil {
			context.Respond(utils.NewStoreUnavailableError(err))
			return
		}
		for _, m := range messages {
			if m.RecipientID == msg.ViewerID && !m.IsRead {
				m.IsRead = true
				t := readAt
				m.ReadAt = &t
			}
		}
	}

	if messages == nil {
		messages = []*models.Message{}
	}

	a.metrics.AddOperationLatency("fetch_thread", time.Since(startTime))
	context.Respond(messages)
}

func (a *MessageActor) handleListConversations(context actor.Context, msg *ListConversationsMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	messages, err := a.store.GetMessagesByUser(ctx, msg.ViewerID)
	if err != nil {
		context.Respond(utils.NewStoreUnavailableError(err))
		return
	}

	summaries := summarizeConversations(msg.ViewerID, messages)

	// Join public profiles; a deleted account renders as a placeholder
	// rather than failing the whole list.
	ids := make([]uuid.UUID, len(summaries))
	for i, s := range summaries {
		ids[i] = s.Correspondent.ID
	}
	profiles, err := a.profiles.GetPublicProfiles(ctx, ids)
	if err != nil {
		a.logger.Warnw("profile join failed, using placeholders", "viewer", msg.ViewerID, "error", err)
	}
	for _, s := range summaries {
		if p, ok := profiles[s.Correspondent.ID]; ok {
			s.Correspondent = &models.PublicProfile{
				ID:        p.ID,
				Name:      p.Name,
				AvatarURL: p.AvatarURL,
			}
		}
	}

	a.metrics.AddOperationLatency("list_conversations", time.Since(startTime))
	context.Respond(summaries)
}

// summarizeConversations groups the viewer's messages by correspondent in
// one pass, keeping the most recent message and the unread count per
// group. Recency ties break on message id, so the result is deterministic
// for a given snapshot.
func summarizeConversations(viewer uuid.UUID, messages []*models.Message) []*models.ConversationSummary {
	type group struct {
		last   *models.Message
		unread int
	}
	groups := make(map[uuid.UUID]*group)

	for _, m := range messages {
		other := m.Correspondent(viewer)
		g, ok := groups[other]
		if !ok {
			g = &group{}
			groups[other] = g
		}
		if g.last == nil || newerMessage(m, g.last) {
			g.last = m
		}
		if m.RecipientID == viewer && !m.IsRead {
			g.unread++
		}
	}

	summaries := make([]*models.ConversationSummary, 0, len(groups))
	for other, g := range groups {
		summaries = append(summaries, &models.ConversationSummary{
			Correspondent: models.PlaceholderProfile(other),
			LastMessage: models.LastMessage{
				Content:   g.last.Content,
				SenderID:  g.last.SenderID,
				CreatedAt: g.last.CreatedAt,
			},
			UnreadCount: g.unread,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i].LastMessage, summaries[j].LastMessage
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return summaries[i].Correspondent.ID.String() > summaries[j].Correspondent.ID.String()
	})

	return summaries
}

// newerMessage reports whether m should replace cur as the last message
// of its group: later createdAt wins, ties fall back to the message id.
func newerMessage(m, cur *models.Message) bool {
	if !m.CreatedAt.Equal(cur.CreatedAt) {
		return m.CreatedAt.After(cur.CreatedAt)
	}
	return m.ID.String() > cur.ID.String()
}
