package quiz

import "math"

// State names the controller's position in the per-session life cycle.
type State string

const (
	StateIdle           State = "idle"
	StateAwaitingAnswer State = "awaiting_answer"
	StateLocked         State = "locked"
	StateFinished       State = "finished"
)

// Session is one run of a quiz from start to scored completion. It is owned
// and mutated exclusively by the Controller.
type Session struct {
	ID        string
	Questions []Question

	// CurrentIndex points at the question being presented, in [0, len].
	// It reaches len only in StateFinished.
	CurrentIndex int
	// Answered counts locked questions. Score <= Answered <= len holds
	// at every point in the session's life.
	Answered int
	Score    int
	State    State

	Timed   bool
	Seconds int

	// chosenIndex is the option picked for the current question, -1 while
	// awaiting an answer and after a timeout lock.
	chosenIndex int
}

// percentage rounds half away from zero, so 1/8 -> 13 and 1/3 -> 33.
func percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
