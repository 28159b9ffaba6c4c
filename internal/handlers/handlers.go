package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"designerhub/internal/database"
	"designerhub/internal/engine"
	"designerhub/internal/middleware"
	"designerhub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Auth           *middleware.Auth
	MongoDB        *database.MongoDB
	Logger         *zap.SugaredLogger
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	auth *middleware.Auth,
	mongodb *database.MongoDB,
	logger *zap.SugaredLogger,
	requestTimeout time.Duration,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Metrics:        metrics,
		Auth:           auth,
		MongoDB:        mongodb,
		Logger:         logger,
		RequestTimeout: requestTimeout,
	}
}

// ask sends a message to an actor and waits for the reply
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, error) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	return future.Result()
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeAppError maps an AppError to its HTTP status and writes the
// explanatory message as JSON
func writeAppError(w http.ResponseWriter, appErr *utils.AppError) {
	writeJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), map[string]string{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// writeResult writes an actor reply: domain errors get their mapped
// status, everything else is encoded as-is with the given status.
func (s *Server) writeResult(w http.ResponseWriter, status int, result interface{}) {
	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		writeAppError(w, appErr)
		return
	}
	writeJSON(w, status, result)
}

// callerID extracts the authenticated user's identity injected by the
// JWT middleware. Every engine operation takes this value explicitly.
func callerID(r *http.Request) (uuid.UUID, bool) {
	return middleware.GetUserIDFromContext(r.Context())
}

// CountRequests feeds the request counter reported by /health
func (s *Server) CountRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()
		next.ServeHTTP(w, r)
	})
}
