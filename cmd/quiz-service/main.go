package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia-quiz/internal/auth"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/httpapi"
	"trivia-quiz/internal/logger"
	"trivia-quiz/internal/opentdb"
	"trivia-quiz/internal/quiz"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	store, err := quiz.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open history store")
		os.Exit(1)
	}
	defer store.Close()

	client := opentdb.NewClient(&http.Client{Timeout: 10 * time.Second})
	hub := httpapi.NewHub(log)
	controller := quiz.NewController(client.FetchQuestions, store, hub, log)
	gate := auth.NewGate(cfg.Username, cfg.Password)
	api := httpapi.NewAPI(controller, gate, hub, httpapi.StartDefaults{
		QuestionCount: cfg.QuestionCount,
		Seconds:       cfg.QuestionSeconds,
	}, log)

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           httpapi.NewRouter(api),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
		}
	}()

	log.Info().Str("address", cfg.ServerAddress).Msg("quiz-service listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}
