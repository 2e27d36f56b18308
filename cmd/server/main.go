package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nmehta/coursegen/internal/api"
	"github.com/nmehta/coursegen/internal/config"
	"github.com/nmehta/coursegen/internal/llm"
	"github.com/nmehta/coursegen/internal/pipeline"
	"github.com/nmehta/coursegen/internal/store"
)

func main() {
	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw, err := newGateway(ctx, cfg)
	if err != nil {
		log.Error("gateway init failed", "provider", cfg.Provider, "error", err)
		os.Exit(1)
	}
	stats := llm.NewStats(time.Hour)
	gw = llm.Instrumented(gw, stats)

	st, err := store.New(cfg.DataDir)
	if err != nil {
		log.Error("store init failed", "data_dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	orch := pipeline.NewOrchestrator(cfg, gw, st, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, st, stats, gw.Name(), log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		gw.Close()
	}()

	log.Info("starting coursegen", "port", cfg.Port, "provider", gw.Name())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newGateway(ctx context.Context, cfg config.Config) (llm.Gateway, error) {
	switch cfg.Provider {
	case "claude":
		return llm.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	default:
		return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}
