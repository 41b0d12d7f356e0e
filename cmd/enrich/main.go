package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"find-usce-backend/internal/config"
	"find-usce-backend/internal/enrichment"
	"find-usce-backend/internal/libraries"
	llmHandlers "find-usce-backend/internal/llm_handlers"
	"find-usce-backend/internal/logger"
	"find-usce-backend/internal/repo"
)

func main() {
	schedule := flag.Bool("schedule", false, "keep running and enrich on ENRICH_SCHEDULE (cron, UTC)")
	flag.Parse()

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

	if err := run(ctx, cfg, zlog, *schedule); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Fatal("enrichment failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger, schedule bool) error {
	saJSON, err := libraries.DecodeServiceAccount(cfg.GCP.ServiceAccountCredentials)
	if err != nil {
		return err
	}
	vertexCreds, err := libraries.VertexCredentials(saJSON)
	if err != nil {
		return err
	}

	gen, err := llmHandlers.NewGenerator(ctx, llmHandlers.Config{
		Provider:      llmHandlers.Provider(cfg.LLM.Provider),
		GeminiAPIKey:  cfg.Gemini.APIKey,
		GeminiModelID: cfg.Gemini.ModelID,
		Vertex: llmHandlers.VertexConfig{
			ProjectID:   cfg.Google.Cloud.ProjectID,
			Location:    cfg.Google.Cloud.VertexAILocation,
			Credentials: vertexCreds,
		},
	})
	if err != nil {
		return err
	}

	store, err := repo.OpenSnapshot(ctx, cfg.ProgramsSource, libraries.StorageClientFactory(cfg.GCP.ServiceAccountCredentials))
	if err != nil {
		return err
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	enricher, err := enrichment.New(gen, store, enrichment.Options{
		ModelID:    cfg.Gemini.ModelID,
		BatchSize:  cfg.Enrich.BatchSize,
		BatchDelay: cfg.Enrich.BatchDelay,
		SaveEvery:  cfg.Enrich.SaveEvery,
		Workers:    cfg.Enrich.Workers,
	}, zlog)
	if err != nil {
		return err
	}

	if !schedule {
		_, err := enricher.Run(ctx)
		return err
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(logger.NewGocronLogger(zlog)),
	)
	if err != nil {
		return err
	}

	_, err = s.NewJob(
		gocron.CronJob(cfg.Enrich.Schedule, false),
		gocron.NewTask(func() {
			if _, err := enricher.Run(ctx); err != nil {
				zlog.Error("scheduled enrichment failed", zap.Error(err))
			}
		}),
		gocron.WithName("enrich-programs"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	zlog.Info("enrichment scheduled", zap.String("cron", cfg.Enrich.Schedule))
	s.Start()

	<-ctx.Done()
	return s.Shutdown()
}
