package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"trivia-quiz/internal/auth"
	"trivia-quiz/internal/opentdb"
	"trivia-quiz/internal/quiz"
)

type memoryHistory struct {
	records []quiz.AttemptRecord
}

func (m *memoryHistory) Append(_ context.Context, record quiz.AttemptRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *memoryHistory) List(_ context.Context, limit int) ([]quiz.AttemptRecord, error) {
	out := make([]quiz.AttemptRecord, 0, len(m.records))
	for idx := len(m.records) - 1; idx >= 0; idx-- {
		out = append(out, m.records[idx])
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryHistory) Clear(_ context.Context) error {
	m.records = nil
	return nil
}

func newCLIController(history quiz.HistoryRepository) *quiz.Controller {
	fetcher := func(context.Context, opentdb.Request) ([]opentdb.RawQuestion, error) {
		return []opentdb.RawQuestion{
			{
				Question:         "Capital of France?",
				CorrectAnswer:    "Paris",
				IncorrectAnswers: []string{"Berlin", "Madrid", "Rome"},
			},
		}, nil
	}
	return quiz.NewController(fetcher, history, quiz.NopSink{}, zerolog.Nop())
}

func TestRunPlaysSingleQuestionSession(t *testing.T) {
	history := &memoryHistory{}
	controller := newCLIController(history)
	gate := auth.NewGate("admin", "1234")

	input := strings.Join([]string{
		"admin", // username
		"1234",  // password
		"1",     // one question
		"",      // any category
		"",      // any difficulty
		"A",     // answer
		"q",     // quit at the result screen
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(input), &out, controller, gate, 10); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	printed := out.String()
	for _, want := range []string{
		"Username:",
		"Q1 of 1: Capital of France?",
		"Your answer (A-D):",
		"Final score:",
	} {
		if !strings.Contains(printed, want) {
			t.Fatalf("output missing %q:\n%s", want, printed)
		}
	}

	if len(history.records) != 1 {
		t.Fatalf("expected one persisted attempt, got %d", len(history.records))
	}
	if record := history.records[0]; record.Total != 1 {
		t.Fatalf("unexpected attempt record: %+v", record)
	}
}

func TestRunRejectsRepeatedBadLogins(t *testing.T) {
	controller := newCLIController(&memoryHistory{})
	gate := auth.NewGate("admin", "1234")

	input := strings.Repeat("admin\nwrong\n", 3)

	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader(input), &out, controller, gate, 10)
	if err == nil {
		t.Fatalf("expected error after exhausting login attempts")
	}
	if got := strings.Count(out.String(), "Invalid username or password."); got != 3 {
		t.Fatalf("expected 3 rejection messages, got %d", got)
	}
}

func TestRunExitsCleanlyWhenInputEndsAtLogin(t *testing.T) {
	controller := newCLIController(&memoryHistory{})
	gate := auth.NewGate("admin", "1234")

	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(""), &out, controller, gate, 10); err != nil {
		t.Fatalf("Run returned error on closed input: %v", err)
	}
}

// TestRunUsesConfiguredDefaultCount leaves the count prompt blank: the
// configured default must appear in the prompt and drive the fetch amount.
func TestRunUsesConfiguredDefaultCount(t *testing.T) {
	var captured opentdb.Request
	fetcher := func(_ context.Context, request opentdb.Request) ([]opentdb.RawQuestion, error) {
		captured = request
		return []opentdb.RawQuestion{
			{
				Question:         "Capital of France?",
				CorrectAnswer:    "Paris",
				IncorrectAnswers: []string{"Berlin", "Madrid", "Rome"},
			},
		}, nil
	}
	controller := quiz.NewController(fetcher, &memoryHistory{}, quiz.NopSink{}, zerolog.Nop())
	gate := auth.NewGate("admin", "1234")

	input := strings.Join([]string{
		"admin",
		"1234",
		"", // blank count takes the configured default
		"", // any category
		"", // any difficulty
		"A",
		"q",
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(input), &out, controller, gate, 5); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.Contains(out.String(), "Number of questions [5]:") {
		t.Fatalf("prompt does not offer the configured default:\n%s", out.String())
	}
	if captured.Amount != 5 {
		t.Fatalf("fetched amount = %d, want configured default 5", captured.Amount)
	}
}
