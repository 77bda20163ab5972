package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"trivia-quiz/internal/quiz"
)

func writeControllerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrLoadFailure):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to load questions"})
	case errors.Is(err, quiz.ErrInvalidEvent):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, quiz.ErrInvalidOption):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "option index out of range"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func (a *API) startParams(request startRequest) quiz.StartParams {
	params := quiz.StartParams{
		Count:      request.QuestionCount,
		Category:   request.Category,
		Difficulty: request.Difficulty,
		Timed:      request.Timed,
		Seconds:    request.Seconds,
	}
	if params.Count <= 0 {
		params.Count = a.defaults.QuestionCount
	}
	if params.Timed && params.Seconds <= 0 {
		params.Seconds = a.defaults.Seconds
	}
	return params
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

func writeMethodNotAllowed(w http.ResponseWriter, allowedMethods ...string) {
	w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
