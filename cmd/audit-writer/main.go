package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/payasyougo/payasyougo/internal/app/auditwriter"
	"github.com/payasyougo/payasyougo/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting audit writer", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := auditwriter.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize audit writer", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("audit writer stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("audit writer stopped gracefully")
}
