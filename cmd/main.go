package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"find-usce-backend/internal/api"
	"find-usce-backend/internal/api/routes"
	v1 "find-usce-backend/internal/api/routes/v1"
	"find-usce-backend/internal/config"
	"find-usce-backend/internal/handlers"
	"find-usce-backend/internal/libraries"
	llmHandlers "find-usce-backend/internal/llm_handlers"
	"find-usce-backend/internal/logger"
	"find-usce-backend/internal/repo"
	"find-usce-backend/internal/usce/relay"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal("Failed to init logger:", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger) error {
	// Load the program directory
	store, err := repo.OpenSnapshot(ctx, cfg.ProgramsSource, libraries.StorageClientFactory(cfg.GCP.ServiceAccountCredentials))
	if err != nil {
		return err
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	programs, err := store.Load(ctx)
	if err != nil {
		return err
	}
	programRepo, err := repo.NewProgramRepository(programs)
	if err != nil {
		return err
	}
	zlog.Info("programs loaded", zap.String("source", cfg.ProgramsSource), zap.Int("count", len(programs)))

	client, err := newLLMClient(ctx, cfg)
	if errors.Is(err, llmHandlers.ErrMissingCredential) {
		zlog.Warn("chat disabled: no model credential configured", zap.String("provider", cfg.LLM.Provider))
		client = nil
	} else if err != nil {
		return err
	}

	// Create and configure Fiber app
	app := api.NewServer(zlog)

	// Register routes
	routes.Register(app, v1.Handlers{
		Programs: handlers.NewProgramHandler(programRepo, zlog),
		Chat:     handlers.NewChatHandler(relay.New(client, zlog), cfg.Chat.MaxDuration, zlog),
	})

	return api.StartServer(ctx, app, cfg.Port, zlog)
}

func newLLMClient(ctx context.Context, cfg *config.Config) (llmHandlers.Client, error) {
	saJSON, err := libraries.DecodeServiceAccount(cfg.GCP.ServiceAccountCredentials)
	if err != nil {
		return nil, err
	}
	vertexCreds, err := libraries.VertexCredentials(saJSON)
	if err != nil {
		return nil, err
	}

	return llmHandlers.New(ctx, llmHandlers.Config{
		Provider:      llmHandlers.Provider(cfg.LLM.Provider),
		GeminiAPIKey:  cfg.Gemini.APIKey,
		GeminiModelID: cfg.Gemini.ModelID,
		Vertex: llmHandlers.VertexConfig{
			ProjectID:   cfg.Google.Cloud.ProjectID,
			Location:    cfg.Google.Cloud.VertexAILocation,
			Credentials: vertexCreds,
		},
		LangChain: llmHandlers.LangChainConfig{
			Model:   cfg.LangChain.Model,
			BaseURL: cfg.LangChain.BaseURL,
			APIKey:  cfg.LangChain.APIKey,
		},
	})
}
