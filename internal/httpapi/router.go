package httpapi

import "net/http"

func NewRouter(api *API) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", api.HandleLogin)
	mux.HandleFunc("/session", api.HandleSession)
	mux.HandleFunc("/session/start", api.HandleStart)
	mux.HandleFunc("/session/answer", api.HandleAnswer)
	mux.HandleFunc("/session/advance", api.HandleAdvance)
	mux.HandleFunc("/session/restart", api.HandleRestart)
	mux.HandleFunc("/session/home", api.HandleGoHome)
	mux.HandleFunc("/session/events", api.HandleEvents)
	mux.HandleFunc("/history", api.HandleHistory)

	return mux
}
