package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"docsum/app/server"
	"docsum/config"

	"github.com/joho/godotenv"
)

func init() {
	loadEnvVariables()
}

func main() {
	s := server.New(config.Load())

	go func() {
		if err := s.Run(); err != nil {
			log.Fatal(err)
		}
	}()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	slog.Info("received shutdown signal, shutting down server...")
	s.Stop()
}

func loadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using process environment")
	}
}
