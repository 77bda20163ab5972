package httpapi

import (
	"github.com/rs/zerolog"

	"trivia-quiz/internal/auth"
	"trivia-quiz/internal/quiz"
)

// StartDefaults fills in a start request's question count and timer seconds
// when the client leaves them unset. Values come from configuration.
type StartDefaults struct {
	QuestionCount int
	Seconds       int
}

type API struct {
	controller *quiz.Controller
	gate       *auth.Gate
	hub        *Hub
	defaults   StartDefaults
	log        zerolog.Logger
}

func NewAPI(controller *quiz.Controller, gate *auth.Gate, hub *Hub, defaults StartDefaults, log zerolog.Logger) *API {
	return &API{
		controller: controller,
		gate:       gate,
		hub:        hub,
		defaults:   defaults,
		log:        log.With().Str("component", "httpapi").Logger(),
	}
}
