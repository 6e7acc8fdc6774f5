package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iamasit07/connect4-ai/backend/internal/analytics"
	"github.com/iamasit07/connect4-ai/backend/internal/config"
	"github.com/iamasit07/connect4-ai/backend/internal/service/cleanup"
	"github.com/iamasit07/connect4-ai/backend/internal/service/session"
	transportHttp "github.com/iamasit07/connect4-ai/backend/internal/transport/http"
	"github.com/iamasit07/connect4-ai/backend/internal/transport/websocket"
	"github.com/iamasit07/connect4-ai/backend/pkg/auth"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	log.Printf("Board %dx%d, %d in a row; hard bot searches %d plies",
		cfg.Rules.Rows, cfg.Rules.Columns, cfg.Rules.WinLength, cfg.BotSettings.Depth)

	// 1. Analytics (optional)
	producer := analytics.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	var publisher session.Publisher
	if producer != nil {
		publisher = producer
	}

	// 2. Initialize Services (Business Logic Layer)
	sessionManager := session.NewManager(cfg.Rules, cfg.BotSettings, cfg.RandomSeed, publisher)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTokenTTL)

	connManager := websocket.NewConnectionManager()

	// 3. Initialize Background Workers
	cleanupWorker := cleanup.NewWorker(sessionManager, connManager, cfg.CleanupInterval, cfg.SessionIdleTimeout)
	cleanupWorker.Start()
	defer cleanupWorker.Stop()

	// 4. Initialize Handlers (API Layer)
	wsHandler := websocket.NewHandler(connManager, sessionManager, issuer, cfg.Rules, cfg.AllowedOrigins)

	router := transportHttp.NewRouter(transportHttp.RouterDeps{
		SessionHandler:   transportHttp.NewSessionHandler(sessionManager, connManager, issuer, cfg.Rules, cfg.SessionTokenTTL, cfg.IsProduction()),
		MetaHandler:      transportHttp.NewMetaHandler(sessionManager, cfg.Rules),
		SessionManager:   sessionManager,
		Issuer:           issuer,
		AllowedOrigins:   cfg.AllowedOrigins,
		WebSocketHandler: wsHandler.HandleWebSocket,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
