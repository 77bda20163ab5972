package quiz

// Snapshot is a point-in-time view of the controller for surfaces that poll
// instead of subscribing to events. CorrectIndex and ChosenIndex are -1
// until the current question is Locked; ChosenIndex stays -1 for a timeout
// lock.
type Snapshot struct {
	SessionID      string   `json:"session_id,omitempty"`
	State          State    `json:"state"`
	QuestionNumber int      `json:"question_number,omitempty"`
	TotalQuestions int      `json:"total_questions,omitempty"`
	Answered       int      `json:"answered"`
	Score          int      `json:"score"`
	Prompt         string   `json:"prompt,omitempty"`
	Options        []Option `json:"options,omitempty"`
	Timed          bool     `json:"timed,omitempty"`
	Seconds        int      `json:"seconds,omitempty"`
	CorrectIndex   int      `json:"correct_index"`
	ChosenIndex    int      `json:"chosen_index"`
	Percentage     int      `json:"percentage,omitempty"`
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:        StateIdle,
		CorrectIndex: -1,
		ChosenIndex:  -1,
	}

	s := c.session
	if s == nil {
		return snap
	}

	snap.SessionID = s.ID
	snap.State = s.State
	snap.TotalQuestions = len(s.Questions)
	snap.Answered = s.Answered
	snap.Score = s.Score
	snap.Timed = s.Timed
	snap.Seconds = s.Seconds

	switch s.State {
	case StateAwaitingAnswer, StateLocked:
		question := s.Questions[s.CurrentIndex]
		snap.QuestionNumber = s.CurrentIndex + 1
		snap.Prompt = question.Prompt
		snap.Options = question.Options
		if s.State == StateLocked {
			snap.CorrectIndex = question.CorrectIndex
			snap.ChosenIndex = s.chosenIndex
		}
	case StateFinished:
		snap.Percentage = percentage(s.Score, len(s.Questions))
	}

	return snap
}
