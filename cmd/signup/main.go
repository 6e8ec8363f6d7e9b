package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/payasyougo/payasyougo/internal/app/signup"
	"github.com/payasyougo/payasyougo/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting signup service", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := signup.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize signup app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("signup app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("signup app stopped gracefully")
}
