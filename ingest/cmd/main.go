package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"docsum/config"
	"docsum/extractor"
	"docsum/index"
	"docsum/ingest"
	"docsum/model"
	"docsum/store"

	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using process environment")
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	pg, err := store.NewPostgresStore(ctx, cfg.PostgresDSN(), cfg.EmbedDim, slog.Default())
	if err != nil {
		log.Fatal("error connecting to Postgres database: ", err)
	}
	defer pg.Close()

	if err := pg.Init(ctx); err != nil {
		log.Fatal("error creating tables: ", err)
	}

	embedder, err := model.NewEmbedder(model.Config{
		Backend: cfg.EmbedBackend,
		Model:   cfg.EmbedModel,
		URL:     cfg.EmbedURL,
		APIKey:  cfg.EmbedAPIKey,
		Dim:     cfg.EmbedDim,
	}, slog.Default())
	if err != nil {
		log.Fatal("error building embedder: ", err)
	}

	svc, err := ingest.New(cfg, extractor.New(slog.Default()), index.New(embedder, pg, slog.Default()))
	if err != nil {
		log.Fatal("error starting ingest service: ", err)
	}

	go func() {
		sigch := make(chan os.Signal, 1)
		signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
		<-sigch
		slog.Info("received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	svc.Run(ctx)
}
