package quiz

// EventSink receives presentation-facing events emitted by the Controller.
// Callbacks run with the controller's lock held: implementations must render
// or forward the event and must not call back into the Controller.
type EventSink interface {
	// QuestionRendered announces the question now awaiting an answer.
	// number is 1-based. seconds is meaningful only when timed is true.
	QuestionRendered(number, total int, question Question, timed bool, seconds int)
	// TimerTick carries the remaining time for the current question.
	TimerTick(remaining int)
	// AnswerOutcome reports a locked question. chosenIndex is -1 when the
	// question locked on timeout.
	AnswerOutcome(questionID string, correctIndex, chosenIndex int)
	SessionFinished(score, total, percentage int)
	// HistoryUpdated carries the refreshed attempt history, most recent first.
	HistoryUpdated(records []AttemptRecord)
}

// NopSink discards all events. Surfaces that poll snapshots use it.
type NopSink struct{}

func (NopSink) QuestionRendered(int, int, Question, bool, int) {}
func (NopSink) TimerTick(int)                                  {}
func (NopSink) AnswerOutcome(string, int, int)                 {}
func (NopSink) SessionFinished(int, int, int)                  {}
func (NopSink) HistoryUpdated([]AttemptRecord)                 {}
