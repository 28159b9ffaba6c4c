package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"designerhub/internal/config"
	"designerhub/internal/database"
	"designerhub/internal/engine"
	"designerhub/internal/handlers"
	"designerhub/internal/logger"
	"designerhub/internal/middleware"
	"designerhub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	metrics := utils.NewMetricsCollector()

	mongodb, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		zl.Fatalw("Failed to connect to MongoDB", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongodb.Close(ctx); err != nil {
			zl.Errorw("Error closing MongoDB connection", "error", err)
		}
	}()
	zl.Infow("Connected to MongoDB", "database", cfg.Database.Name)

	// Initialize actor system and engine
	system := actor.NewActorSystem()
	hubEngine := engine.NewEngine(system, mongodb, metrics, zl)

	auth := middleware.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RedisAddr, cfg.RateLimit.MessagesPerMin, zl)

	server := handlers.NewServer(
		system,
		hubEngine,
		metrics,
		auth,
		mongodb,
		zl,
		cfg.Server.RequestTimeout,
	)

	// Set up HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.HandleHealth())
	mux.Handle("/metrics", server.HandleMetrics())

	mux.HandleFunc("/user/register", server.HandleUserRegistration())
	mux.HandleFunc("/user/login", server.HandleUserLogin())
	mux.HandleFunc("/user/profile", server.HandleUserProfile())
	mux.HandleFunc("/user/search", server.HandleUserSearch())

	mux.HandleFunc("/portfolio", server.HandlePortfolio())
	mux.HandleFunc("/portfolio/like", server.HandleToggleLike())
	mux.HandleFunc("/portfolio/likes", server.HandleUserLikes())

	mux.HandleFunc("/connection", server.HandleConnection())
	mux.HandleFunc("/connection/respond", server.HandleRespondConnection())
	mux.HandleFunc("/connection/received", server.HandleReceivedConnections())
	mux.HandleFunc("/connection/sent", server.HandleSentConnections())

	mux.HandleFunc("/messages", limiter.Wrap("send_message", server.HandleSendMessage()))
	mux.HandleFunc("/messages/thread", server.HandleThread())
	mux.HandleFunc("/conversations", server.HandleConversations())

	// Middleware chain: CORS -> JWT auth -> request counting -> routes
	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	handler := middleware.CORSMiddleware(corsConfig)(auth.Middleware(server.CountRequests(mux)))

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: handler,
	}

	go func() {
		zl.Infow("Starting server", "address", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatalw("Server failed to start", "error", err)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zl.Infow("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zl.Errorw("Server shutdown error", "error", err)
	}
	system.Shutdown()
}
