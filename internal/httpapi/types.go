package httpapi

import "trivia-quiz/internal/quiz"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status string `json:"status"`
}

type startRequest struct {
	QuestionCount int    `json:"question_count"`
	Category      int    `json:"category,omitempty"`
	Difficulty    string `json:"difficulty,omitempty"`
	Timed         bool   `json:"timed,omitempty"`
	Seconds       int    `json:"seconds,omitempty"`
}

type answerRequest struct {
	OptionIndex int `json:"option_index"`
}

type sessionResponse struct {
	Session quiz.Snapshot `json:"session"`
}

type historyResponse struct {
	Records []quiz.AttemptRecord `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
}
