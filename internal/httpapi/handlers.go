package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"trivia-quiz/internal/auth"
)

const defaultHistoryLimit = 10

func (a *API) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	defer r.Body.Close()

	var request loginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := a.gate.Login(request.Username, request.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid username or password"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "login failed"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Status: "ok"})
}

func (a *API) HandleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	defer r.Body.Close()

	var request startRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	snapshot, err := a.controller.Start(r.Context(), a.startParams(request))
	if err != nil {
		a.log.Warn().Err(err).Msg("start rejected")
		writeControllerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Session: snapshot})
}

func (a *API) HandleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Session: a.controller.Snapshot()})
}

func (a *API) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	defer r.Body.Close()

	var request answerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	snapshot, err := a.controller.SelectOption(request.OptionIndex)
	if err != nil {
		writeControllerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Session: snapshot})
}

func (a *API) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	snapshot, err := a.controller.Advance(r.Context())
	if err != nil {
		writeControllerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Session: snapshot})
}

func (a *API) HandleRestart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	snapshot, err := a.controller.Restart()
	if err != nil {
		writeControllerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Session: snapshot})
}

func (a *API) HandleGoHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Session: a.controller.GoHome()})
}

func (a *API) HandleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit, err := parseIntParam(r, "limit", defaultHistoryLimit)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		records, err := a.controller.History(r.Context(), limit)
		if err != nil {
			a.log.Error().Err(err).Msg("failed to read attempt history")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read history"})
			return
		}

		writeJSON(w, http.StatusOK, historyResponse{Records: records})

	case http.MethodDelete:
		if err := a.controller.ClearHistory(r.Context()); err != nil {
			a.log.Error().Err(err).Msg("failed to clear attempt history")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to clear history"})
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	a.hub.Serve(w, r)
}
