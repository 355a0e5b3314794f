package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"guidedjournal/internal/config"
	"guidedjournal/internal/server"
	"guidedjournal/internal/storage"
	httptransport "guidedjournal/internal/transport/http"
)

func main() {
	cfg := config.MustLoad()
	slog.SetDefault(newLogger(cfg.Env))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := storage.InitDB(cfg.DatabaseUrl, cfg.MaxConns)
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	router := httptransport.Router(db, cfg)

	addr := ":" + cfg.Server.Port
	slog.Info("listening", "addr", addr, "env", cfg.Env)
	if err := server.Start(ctx, addr, router, cfg.CORS.AllowedOrigins); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "prod", "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
