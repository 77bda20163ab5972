package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"trivia-quiz/internal/auth"
	"trivia-quiz/internal/opentdb"
	"trivia-quiz/internal/quiz"
)

type fakeHistoryRepo struct {
	records []quiz.AttemptRecord
}

func (f *fakeHistoryRepo) Append(_ context.Context, record quiz.AttemptRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeHistoryRepo) List(_ context.Context, limit int) ([]quiz.AttemptRecord, error) {
	out := make([]quiz.AttemptRecord, 0, len(f.records))
	for idx := len(f.records) - 1; idx >= 0; idx-- {
		out = append(out, f.records[idx])
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeHistoryRepo) Clear(_ context.Context) error {
	f.records = nil
	return nil
}

func staticFetcher(raw []opentdb.RawQuestion, err error) quiz.QuestionsFetcher {
	return func(context.Context, opentdb.Request) ([]opentdb.RawQuestion, error) {
		return raw, err
	}
}

func rawQuestions(n int) []opentdb.RawQuestion {
	raw := make([]opentdb.RawQuestion, 0, n)
	for idx := 0; idx < n; idx++ {
		raw = append(raw, opentdb.RawQuestion{
			Question:         fmt.Sprintf("Question %d", idx),
			CorrectAnswer:    fmt.Sprintf("right %d", idx),
			IncorrectAnswers: []string{"wrong a", "wrong b", "wrong c"},
		})
	}
	return raw
}

type apiFixture struct {
	router  http.Handler
	history *fakeHistoryRepo
}

func newAPIFixture(fetcher quiz.QuestionsFetcher) *apiFixture {
	log := zerolog.Nop()
	history := &fakeHistoryRepo{}
	hub := NewHub(log)
	controller := quiz.NewController(fetcher, history, hub, log)
	gate := auth.NewGate("admin", "1234")
	api := NewAPI(controller, gate, hub, StartDefaults{QuestionCount: 3, Seconds: 20}, log)

	return &apiFixture{
		router:  NewRouter(api),
		history: history,
	}
}

func (f *apiFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeSession(t *testing.T, recorder *httptest.ResponseRecorder) quiz.Snapshot {
	t.Helper()
	var response sessionResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode session response: %v", err)
	}
	return response.Session
}

func TestHandleLogin(t *testing.T) {
	fixture := newAPIFixture(staticFetcher(rawQuestions(1), nil))

	recorder := fixture.do(t, http.MethodPost, "/login", `{"username": "admin", "password": "1234"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", recorder.Code, recorder.Body.String())
	}

	recorder = fixture.do(t, http.MethodPost, "/login", `{"username": "admin", "password": "nope"}`)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}

	recorder = fixture.do(t, http.MethodPost, "/login", `{not json`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}

	recorder = fixture.do(t, http.MethodGet, "/login", "")
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", recorder.Code)
	}
	if allow := recorder.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("Allow = %q, want POST", allow)
	}
}

func TestHandleStart(t *testing.T) {
	fixture := newAPIFixture(staticFetcher(rawQuestions(2), nil))

	recorder := fixture.do(t, http.MethodPost, "/session/start", `{"question_count": 2}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", recorder.Code, recorder.Body.String())
	}

	snapshot := decodeSession(t, recorder)
	if snapshot.State != quiz.StateAwaitingAnswer {
		t.Fatalf("state = %q, want awaiting_answer", snapshot.State)
	}
	if snapshot.QuestionNumber != 1 || snapshot.TotalQuestions != 2 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
	if snapshot.Prompt == "" || len(snapshot.Options) != 4 {
		t.Fatalf("question not rendered into snapshot: %+v", snapshot)
	}

	// A second start while the session runs is an invalid event.
	recorder = fixture.do(t, http.MethodPost, "/session/start", `{"question_count": 2}`)
	if recorder.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", recorder.Code)
	}
}

// TestHandleStartAppliesConfiguredDefaults covers a start request that names
// neither a question count nor timer seconds: the configured defaults (3
// questions, 20 seconds in the fixture) must reach the fetch and the session.
func TestHandleStartAppliesConfiguredDefaults(t *testing.T) {
	var captured opentdb.Request
	fixture := newAPIFixture(func(_ context.Context, request opentdb.Request) ([]opentdb.RawQuestion, error) {
		captured = request
		return rawQuestions(3), nil
	})

	recorder := fixture.do(t, http.MethodPost, "/session/start", `{"timed": true}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", recorder.Code, recorder.Body.String())
	}

	if captured.Amount != 3 {
		t.Fatalf("fetched amount = %d, want configured default 3", captured.Amount)
	}

	snapshot := decodeSession(t, recorder)
	if !snapshot.Timed || snapshot.Seconds != 20 {
		t.Fatalf("timer seconds = %d (timed %v), want configured default 20", snapshot.Seconds, snapshot.Timed)
	}
}

func TestHandleStartLoadFailure(t *testing.T) {
	fixture := newAPIFixture(staticFetcher(nil, errors.New("network down")))

	recorder := fixture.do(t, http.MethodPost, "/session/start", `{"question_count": 5}`)
	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502; body %s", recorder.Code, recorder.Body.String())
	}

	recorder = fixture.do(t, http.MethodGet, "/session", "")
	if snapshot := decodeSession(t, recorder); snapshot.State != quiz.StateIdle {
		t.Fatalf("state after failed start = %q, want idle", snapshot.State)
	}
}

func TestHandleAnswer(t *testing.T) {
	fixture := newAPIFixture(staticFetcher(rawQuestions(1), nil))

	// Answering with no session running is a conflict, not a crash.
	recorder := fixture.do(t, http.MethodPost, "/session/answer", `{"option_index": 0}`)
	if recorder.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", recorder.Code)
	}

	if recorder := fixture.do(t, http.MethodPost, "/session/start", `{"question_count": 1}`); recorder.Code != http.StatusOK {
		t.Fatalf("start failed: %d %s", recorder.Code, recorder.Body.String())
	}

	recorder = fixture.do(t, http.MethodPost, "/session/answer", `{not json`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}

	recorder = fixture.do(t, http.MethodPost, "/session/answer", `{"option_index": 17}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}

	recorder = fixture.do(t, http.MethodPost, "/session/answer", `{"option_index": 0}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", recorder.Code, recorder.Body.String())
	}
	snapshot := decodeSession(t, recorder)
	if snapshot.State != quiz.StateLocked || snapshot.Answered != 1 {
		t.Fatalf("unexpected snapshot after answer: %+v", snapshot)
	}
	if snapshot.CorrectIndex < 0 || snapshot.ChosenIndex != 0 {
		t.Fatalf("locked snapshot must reveal outcome indices: %+v", snapshot)
	}
}

func TestHandleAdvanceOutsideLocked(t *testing.T) {
	fixture := newAPIFixture(staticFetcher(rawQuestions(1), nil))

	if recorder := fixture.do(t, http.MethodPost, "/session/start", `{"question_count": 1}`); recorder.Code != http.StatusOK {
		t.Fatalf("start failed: %d", recorder.Code)
	}

	recorder := fixture.do(t, http.MethodPost, "/session/advance", "")
	if recorder.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", recorder.Code)
	}
}

func TestHandleSessionFullRound(t *testing.T) {
	fixture := newAPIFixture(staticFetcher(rawQuestions(1), nil))

	if recorder := fixture.do(t, http.MethodPost, "/session/start", `{"question_count": 1}`); recorder.Code != http.StatusOK {
		t.Fatalf("start failed: %d", recorder.Code)
	}
	if recorder := fixture.do(t, http.MethodPost, "/session/answer", `{"option_index": 0}`); recorder.Code != http.StatusOK {
		t.Fatalf("answer failed: %d", recorder.Code)
	}

	recorder := fixture.do(t, http.MethodPost, "/session/advance", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("advance failed: %d %s", recorder.Code, recorder.Body.String())
	}
	snapshot := decodeSession(t, recorder)
	if snapshot.State != quiz.StateFinished {
		t.Fatalf("state = %q, want finished", snapshot.State)
	}
	if len(fixture.history.records) != 1 {
		t.Fatalf("expected one persisted attempt, got %d", len(fixture.history.records))
	}

	// Restart replays the same question list.
	recorder = fixture.do(t, http.MethodPost, "/session/restart", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("restart failed: %d", recorder.Code)
	}
	if snapshot := decodeSession(t, recorder); snapshot.State != quiz.StateAwaitingAnswer || snapshot.Score != 0 {
		t.Fatalf("unexpected snapshot after restart: %+v", snapshot)
	}

	// Home abandons the session.
	recorder = fixture.do(t, http.MethodPost, "/session/home", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("home failed: %d", recorder.Code)
	}
	if snapshot := decodeSession(t, recorder); snapshot.State != quiz.StateIdle {
		t.Fatalf("state after home = %q, want idle", snapshot.State)
	}
}

func TestHandleHistory(t *testing.T) {
	fixture := newAPIFixture(staticFetcher(rawQuestions(1), nil))
	fixture.history.records = []quiz.AttemptRecord{
		{Timestamp: "2026-09-01T10:00:00Z", Score: 1, Total: 3, Percentage: 33},
		{Timestamp: "2026-09-01T11:00:00Z", Score: 3, Total: 3, Percentage: 100},
	}

	recorder := fixture.do(t, http.MethodGet, "/history", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var response historyResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode history response: %v", err)
	}
	if len(response.Records) != 2 || response.Records[0].Percentage != 100 {
		t.Fatalf("unexpected history payload: %+v", response.Records)
	}

	recorder = fixture.do(t, http.MethodGet, "/history?limit=1", "")
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode limited history: %v", err)
	}
	if len(response.Records) != 1 {
		t.Fatalf("limit ignored: %+v", response.Records)
	}

	recorder = fixture.do(t, http.MethodGet, "/history?limit=zero", "")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}

	recorder = fixture.do(t, http.MethodDelete, "/history", "")
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", recorder.Code)
	}

	recorder = fixture.do(t, http.MethodGet, "/history", "")
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode history after clear: %v", err)
	}
	if len(response.Records) != 0 {
		t.Fatalf("history not empty after clear: %+v", response.Records)
	}

	recorder = fixture.do(t, http.MethodPut, "/history", "")
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", recorder.Code)
	}
}
