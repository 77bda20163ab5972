package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trivia-quiz/internal/opentdb"
)

var (
	// ErrLoadFailure means the question source was unreachable or returned
	// unusable data. The controller stays cleanly in Idle.
	ErrLoadFailure = errors.New("failed to load questions")
	// ErrInvalidEvent means the event is not accepted in the current state.
	// The session is left untouched.
	ErrInvalidEvent  = errors.New("event not accepted in current state")
	ErrInvalidOption = errors.New("option index out of range")
)

const (
	// DefaultQuestionSeconds is the per-question countdown when a timed
	// start does not specify one.
	DefaultQuestionSeconds = 15

	defaultHistoryLimit = 10
)

// QuestionsFetcher supplies raw questions for a start request.
type QuestionsFetcher func(ctx context.Context, request opentdb.Request) ([]opentdb.RawQuestion, error)

// StartParams selects what to fetch and how questions are paced.
type StartParams struct {
	Count      int
	Category   int
	Difficulty string
	Timed      bool
	Seconds    int
}

// Controller owns the active Session and drives it through its state
// machine. It is the only component that mutates session state; every
// transition happens under one mutex, so events from HTTP handlers and the
// countdown goroutine are serialized. At most one session is active at a
// time.
type Controller struct {
	fetcher QuestionsFetcher
	history HistoryRepository
	sink    EventSink
	timers  TimerFactory
	log     zerolog.Logger

	mu        sync.Mutex
	session   *Session
	countdown Countdown
	// epoch identifies the current question entry. Timer callbacks carry
	// the epoch they were armed with; a stale epoch (or a state other than
	// AwaitingAnswer) makes the callback a no-op. The state machine is the
	// guard, not timer-goroutine lifecycle.
	epoch int
}

func NewController(fetcher QuestionsFetcher, history HistoryRepository, sink EventSink, log zerolog.Logger) *Controller {
	if sink == nil {
		sink = NopSink{}
	}
	return &Controller{
		fetcher: fetcher,
		history: history,
		sink:    sink,
		timers:  StartCountdown,
		log:     log.With().Str("component", "controller").Logger(),
	}
}

// SetTimerFactory replaces countdown creation. Tests use it to drive ticks
// and expiry deterministically.
func (c *Controller) SetTimerFactory(factory TimerFactory) {
	c.timers = factory
}

// Start fetches a fresh question list and enters AwaitingAnswer for the
// first question. A fetch or normalization failure reports ErrLoadFailure
// and leaves the controller's state untouched. Start is only accepted from
// Idle or Finished (the home screen); an in-flight session must be abandoned
// with GoHome first.
func (c *Controller) Start(ctx context.Context, params StartParams) (Snapshot, error) {
	c.mu.Lock()
	if s := c.session; s != nil && s.State != StateFinished {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, fmt.Errorf("%w: session already in progress", ErrInvalidEvent)
	}
	c.mu.Unlock()

	// Fetch without holding the lock; the in-progress guard is re-checked
	// before the result is installed.
	raw, err := c.fetcher(ctx, opentdb.Request{
		Amount:     params.Count,
		Category:   params.Category,
		Difficulty: params.Difficulty,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		return c.snapshotLocked(), fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	if len(raw) == 0 {
		return c.snapshotLocked(), fmt.Errorf("%w: question source returned no questions", ErrLoadFailure)
	}

	questions, err := BuildQuestions(raw)
	if err != nil {
		return c.snapshotLocked(), fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}

	// A concurrent Start may have installed a session while the fetch was
	// in flight. The fetched list is discarded rather than replacing a
	// session the user is already playing.
	if s := c.session; s != nil && s.State != StateFinished {
		return c.snapshotLocked(), fmt.Errorf("%w: session already in progress", ErrInvalidEvent)
	}

	seconds := params.Seconds
	if seconds <= 0 {
		seconds = DefaultQuestionSeconds
	}

	c.stopCountdownLocked()
	c.session = &Session{
		ID:          uuid.NewString(),
		Questions:   questions,
		State:       StateAwaitingAnswer,
		Timed:       params.Timed,
		Seconds:     seconds,
		chosenIndex: -1,
	}
	c.log.Info().
		Str("session_id", c.session.ID).
		Int("questions", len(questions)).
		Bool("timed", params.Timed).
		Msg("session started")
	c.enterQuestionLocked()
	return c.snapshotLocked(), nil
}

// SelectOption answers the current question. In any state other than
// AwaitingAnswer the call is a safe no-op: once a question is Locked,
// further selections never mutate the score.
func (c *Controller) SelectOption(index int) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil || s.State != StateAwaitingAnswer {
		return c.snapshotLocked(), ErrInvalidEvent
	}
	if index < 0 || index >= len(s.Questions[s.CurrentIndex].Options) {
		return c.snapshotLocked(), ErrInvalidOption
	}

	c.stopCountdownLocked()
	c.lockQuestionLocked(index)
	return c.snapshotLocked(), nil
}

// Advance moves past a Locked question: to the next question, or to
// Finished when the list is exhausted. Finishing derives the attempt
// record, persists it (non-fatally), and reports the result.
func (c *Controller) Advance(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil || s.State != StateLocked {
		return c.snapshotLocked(), ErrInvalidEvent
	}

	if s.CurrentIndex+1 < len(s.Questions) {
		s.CurrentIndex++
		s.State = StateAwaitingAnswer
		c.enterQuestionLocked()
		return c.snapshotLocked(), nil
	}

	c.finishLocked(ctx)
	return c.snapshotLocked(), nil
}

// Restart begins a new session over the already-fetched question list with
// score and position reset. It deliberately skips the remote fetch; a fresh
// Start from the home screen is the path that re-fetches.
func (c *Controller) Restart() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil || s.State != StateFinished {
		return c.snapshotLocked(), ErrInvalidEvent
	}

	c.session = &Session{
		ID:          uuid.NewString(),
		Questions:   s.Questions,
		State:       StateAwaitingAnswer,
		Timed:       s.Timed,
		Seconds:     s.Seconds,
		chosenIndex: -1,
	}
	c.log.Info().Str("session_id", c.session.ID).Msg("session restarted")
	c.enterQuestionLocked()
	return c.snapshotLocked(), nil
}

// GoHome abandons any session, finished or not. The countdown is stopped
// and the session is discarded without an attempt record.
func (c *Controller) GoHome() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopCountdownLocked()
	c.epoch++
	if c.session != nil {
		c.log.Info().Str("session_id", c.session.ID).Str("state", string(c.session.State)).Msg("session abandoned")
	}
	c.session = nil
	return c.snapshotLocked()
}

// History lists past attempts, most recent first.
func (c *Controller) History(ctx context.Context, limit int) ([]AttemptRecord, error) {
	return c.history.List(ctx, limit)
}

// ClearHistory empties the attempt history. Destructive and irreversible.
func (c *Controller) ClearHistory(ctx context.Context) error {
	if err := c.history.Clear(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink.HistoryUpdated([]AttemptRecord{})
	return nil
}

// Snapshot returns a read-only view of the controller for pull-based
// surfaces.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) enterQuestionLocked() {
	s := c.session
	s.chosenIndex = -1
	c.epoch++

	question := s.Questions[s.CurrentIndex]
	c.sink.QuestionRendered(s.CurrentIndex+1, len(s.Questions), question, s.Timed, s.Seconds)

	if !s.Timed {
		return
	}

	epoch := c.epoch
	c.countdown = c.timers(
		s.Seconds,
		func(remaining int) { c.onTick(epoch, remaining) },
		func() { c.onExpire(epoch) },
	)
}

func (c *Controller) onTick(epoch, remaining int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch || c.session == nil || c.session.State != StateAwaitingAnswer {
		return
	}
	c.sink.TimerTick(remaining)
}

func (c *Controller) onExpire(epoch int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch || c.session == nil || c.session.State != StateAwaitingAnswer {
		return
	}
	c.countdown = nil
	c.lockQuestionLocked(-1)
}

// lockQuestionLocked transitions AwaitingAnswer -> Locked, scoring at most
// once per question. chosen is -1 on timeout and never matches
// CorrectIndex.
func (c *Controller) lockQuestionLocked(chosen int) {
	s := c.session
	question := s.Questions[s.CurrentIndex]

	if chosen == question.CorrectIndex {
		s.Score++
	}
	s.Answered++
	s.chosenIndex = chosen
	s.State = StateLocked

	c.sink.AnswerOutcome(question.QuestionID, question.CorrectIndex, chosen)
}

func (c *Controller) finishLocked(ctx context.Context) {
	s := c.session
	s.CurrentIndex = len(s.Questions)
	s.State = StateFinished

	total := len(s.Questions)
	pct := percentage(s.Score, total)

	record := AttemptRecord{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Score:      s.Score,
		Total:      total,
		Percentage: pct,
	}
	// A persistence failure must not break the quiz flow: the user still
	// gets their result, the record is just lost.
	if err := c.history.Append(ctx, record); err != nil {
		c.log.Error().Err(err).Msg("failed to persist attempt record")
	}

	c.log.Info().
		Str("session_id", s.ID).
		Int("score", s.Score).
		Int("total", total).
		Int("percentage", pct).
		Msg("session finished")
	c.sink.SessionFinished(s.Score, total, pct)

	records, err := c.history.List(ctx, defaultHistoryLimit)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to load attempt history")
		return
	}
	c.sink.HistoryUpdated(records)
}

func (c *Controller) stopCountdownLocked() {
	if c.countdown == nil {
		return
	}
	c.countdown.Stop()
	c.countdown = nil
}
