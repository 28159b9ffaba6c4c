package engine

import (
	"designerhub/internal/database"
	"designerhub/internal/engine/actors"
	"designerhub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// Engine coordinates communication between actors
type Engine struct {
	userActor       *actor.PID
	portfolioActor  *actor.PID
	connectionActor *actor.PID
	messageActor    *actor.PID
}

func NewEngine(system *actor.ActorSystem, db *database.MongoDB, metrics *utils.MetricsCollector, logger *zap.SugaredLogger) *Engine {
	context := system.Root

	userProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(db, metrics, logger)
	})
	userPID := context.Spawn(userProps)

	portfolioProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewPortfolioActor(db, metrics, logger)
	})
	portfolioPID := context.Spawn(portfolioProps)

	connectionProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewConnectionActor(db, db, metrics, logger)
	})
	connectionPID := context.Spawn(connectionProps)

	messageProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewMessageActor(db, db, db, metrics, logger)
	})
	messagePID := context.Spawn(messageProps)

	return &Engine{
		userActor:       userPID,
		portfolioActor:  portfolioPID,
		connectionActor: connectionPID,
		messageActor:    messagePID,
	}
}

// GetUserActor returns the PID of the user actor
func (e *Engine) GetUserActor() *actor.PID {
	return e.userActor
}

// GetPortfolioActor returns the PID of the portfolio actor
func (e *Engine) GetPortfolioActor() *actor.PID {
	return e.portfolioActor
}

// GetConnectionActor returns the PID of the connection actor
func (e *Engine) GetConnectionActor() *actor.PID {
	return e.connectionActor
}

// GetMessageActor returns the PID of the message actor
func (e *Engine) GetMessageActor() *actor.PID {
	return e.messageActor
}
