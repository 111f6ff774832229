package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jwebster45206/realm-engine/internal/config"
	"github.com/jwebster45206/realm-engine/internal/handlers"
	"github.com/jwebster45206/realm-engine/internal/logger"
	"github.com/jwebster45206/realm-engine/internal/services"
	"github.com/jwebster45206/realm-engine/internal/storage"
	"github.com/jwebster45206/realm-engine/internal/worker"
)

const mockNarration = "Linh khí quanh ngươi khẽ dao động.\n1. Tiếp tục tu luyện\n2. Rời khỏi động phủ"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Realm Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llmService services.LLMService
	switch strings.ToLower(cfg.LLMProvider) {
	case config.ProviderGemini:
		llmService = services.NewGeminiService(cfg.GeminiAPIKeys, cfg.ModelName, cfg.SummaryModelName, cfg.GeminiBaseURL, cfg.LLMTimeout, log)
		log.Info("Using Gemini LLM provider", "api_keys", len(cfg.GeminiAPIKeys))
	case config.ProviderMock:
		llmService = services.NewMockLLM(mockNarration)
		log.Warn("Using mock LLM provider")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{config.ProviderGemini, config.ProviderMock})
		os.Exit(1)
	}

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.GameTTL, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	processor := worker.NewTurnProcessor(store, llmService, cfg.SummaryInterval, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	turnHandler := handlers.NewTurnHandler(processor, log)
	mux.Handle("/v1/turn", turnHandler)

	gameStateHandler := handlers.NewGameStateHandler(store, processor, cfg.DefaultRealmSystem, log)
	mux.Handle("/v1/gamestate", gameStateHandler)
	mux.Handle("/v1/gamestate/", gameStateHandler)

	realmsHandler := handlers.NewRealmsHandler(cfg.DefaultRealmSystem, log)
	mux.Handle("/v1/realms", realmsHandler)

	// Turns wait on the narrator, so writes get the LLM timeout plus headroom
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlers.RequestLogger(log, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout*2 + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
