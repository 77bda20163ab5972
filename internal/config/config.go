package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// DatabasePath is the SQLite file holding the attempt history.
	DatabasePath string

	LogLevel  string
	LogFormat string

	// Login gate credentials. There is no account system behind these;
	// they guard the quiz surfaces the same way the hardcoded login
	// screen does in a browser build.
	Username string
	Password string

	// Quiz defaults used when a start request leaves them unset.
	QuestionCount   int
	QuestionSeconds int
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerAddress:   getEnv("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DatabasePath:    getEnv("DATABASE_PATH", "trivia.db"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "pretty"),
		Username:        getEnv("QUIZ_USERNAME", "admin"),
		Password:        getEnv("QUIZ_PASSWORD", "1234"),
		QuestionCount:   getEnvInt("QUESTION_COUNT", 10),
		QuestionSeconds: getEnvInt("QUESTION_SECONDS", 15),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
