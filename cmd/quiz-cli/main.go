package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"trivia-quiz/internal/auth"
	"trivia-quiz/internal/cli"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/logger"
	"trivia-quiz/internal/opentdb"
	"trivia-quiz/internal/quiz"
)

func main() {
	cfg := config.Load()
	// Logs go to stderr so they never interleave with the quiz prompt.
	log := logger.Setup(os.Stderr, "warn", cfg.LogFormat)

	store, err := quiz.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer store.Close()

	client := opentdb.NewClient(&http.Client{Timeout: 10 * time.Second})
	controller := quiz.NewController(client.FetchQuestions, store, quiz.NopSink{}, log)
	gate := auth.NewGate(cfg.Username, cfg.Password)

	if err := cli.Run(context.Background(), os.Stdin, os.Stdout, controller, gate, cfg.QuestionCount); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
