package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"trivia-quiz/internal/quiz"
)

const wsWriteTimeout = 10 * time.Second

// Event names pushed to WebSocket subscribers.
const (
	EventQuestionRendered = "question_rendered"
	EventTimerTick        = "timer_tick"
	EventAnswerOutcome    = "answer_outcome"
	EventSessionFinished  = "session_finished"
	EventHistoryUpdated   = "history_updated"
)

type wsEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type questionRenderedPayload struct {
	QuestionNumber int           `json:"question_number"`
	TotalQuestions int           `json:"total_questions"`
	QuestionID     string        `json:"question_id"`
	Prompt         string        `json:"prompt"`
	Options        []quiz.Option `json:"options"`
	Timed          bool          `json:"timed"`
	Seconds        int           `json:"seconds,omitempty"`
}

type timerTickPayload struct {
	Remaining int `json:"remaining"`
}

type answerOutcomePayload struct {
	QuestionID   string `json:"question_id"`
	CorrectIndex int    `json:"correct_index"`
	ChosenIndex  int    `json:"chosen_index"`
}

type sessionFinishedPayload struct {
	Score      int `json:"score"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type historyUpdatedPayload struct {
	Records []quiz.AttemptRecord `json:"records"`
}

// Hub fans controller events out to WebSocket subscribers. It implements
// quiz.EventSink; a slow or broken connection is dropped rather than
// allowed to stall the quiz flow.
type Hub struct {
	log      zerolog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log: log.With().Str("component", "ws_hub").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The quiz is a single-user local app; origin checks would
			// only get in the way of the dev setup.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Serve upgrades the request and keeps the connection registered until the
// client goes away. Inbound messages are discarded; the stream is
// server-to-client only.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.register(conn)
	defer h.unregister(conn)

	h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("subscriber connected")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Msg("unexpected close")
			}
			return
		}
	}
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	_ = conn.Close()
}

func (h *Hub) broadcast(event wsEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(event); err != nil {
			h.log.Debug().Err(err).Msg("dropping subscriber")
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}

func (h *Hub) QuestionRendered(number, total int, question quiz.Question, timed bool, seconds int) {
	if !timed {
		seconds = 0
	}
	h.broadcast(wsEvent{
		Type: EventQuestionRendered,
		Payload: questionRenderedPayload{
			QuestionNumber: number,
			TotalQuestions: total,
			QuestionID:     question.QuestionID,
			Prompt:         question.Prompt,
			Options:        question.Options,
			Timed:          timed,
			Seconds:        seconds,
		},
	})
}

func (h *Hub) TimerTick(remaining int) {
	h.broadcast(wsEvent{
		Type:    EventTimerTick,
		Payload: timerTickPayload{Remaining: remaining},
	})
}

func (h *Hub) AnswerOutcome(questionID string, correctIndex, chosenIndex int) {
	h.broadcast(wsEvent{
		Type: EventAnswerOutcome,
		Payload: answerOutcomePayload{
			QuestionID:   questionID,
			CorrectIndex: correctIndex,
			ChosenIndex:  chosenIndex,
		},
	})
}

func (h *Hub) SessionFinished(score, total, pct int) {
	h.broadcast(wsEvent{
		Type: EventSessionFinished,
		Payload: sessionFinishedPayload{
			Score:      score,
			Total:      total,
			Percentage: pct,
		},
	})
}

func (h *Hub) HistoryUpdated(records []quiz.AttemptRecord) {
	h.broadcast(wsEvent{
		Type:    EventHistoryUpdated,
		Payload: historyUpdatedPayload{Records: records},
	})
}
