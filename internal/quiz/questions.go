package quiz

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"math/rand"
	"strings"

	"trivia-quiz/internal/opentdb"
)

type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// Question is a normalized multiple-choice question. Option order is fixed
// at build time by a single uniform shuffle; CorrectIndex designates exactly
// one element of Options.
type Question struct {
	QuestionID   string   `json:"question_id"`
	Prompt       string   `json:"prompt"`
	Options      []Option `json:"options"`
	CorrectIndex int      `json:"-"`
}

// BuildQuestions normalizes raw OpenTriviaDB records: HTML entities are
// decoded, options are shuffled once, and each question gets a
// content-derived ID. A record without a usable answer set is an error.
func BuildQuestions(raw []opentdb.RawQuestion) ([]Question, error) {
	questions := make([]Question, 0, len(raw))
	for _, item := range raw {
		question, err := buildQuestion(item)
		if err != nil {
			return nil, err
		}
		question.QuestionID = MakeQuestionID(question)
		questions = append(questions, question)
	}
	return questions, nil
}

func buildQuestion(raw opentdb.RawQuestion) (Question, error) {
	prompt := html.UnescapeString(strings.TrimSpace(raw.Question))
	correct := html.UnescapeString(strings.TrimSpace(raw.CorrectAnswer))
	if prompt == "" || correct == "" {
		return Question{}, errors.New("question is missing prompt or correct answer")
	}
	if len(raw.IncorrectAnswers) < 1 {
		return Question{}, errors.New("question has no incorrect answers")
	}

	type choice struct {
		text      string
		isCorrect bool
	}

	choices := make([]choice, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		text := html.UnescapeString(incorrect)
		if text == correct {
			return Question{}, fmt.Errorf("correct answer %q duplicated in incorrect answers", correct)
		}
		choices = append(choices, choice{text: text})
	}

	choices = append(choices, choice{
		text:      correct,
		isCorrect: true,
	})

	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	options := make([]Option, len(choices))
	correctIndex := -1

	for idx, candidate := range choices {
		options[idx] = Option{
			Letter: string(rune('A' + idx)),
			Text:   candidate.text,
		}
		if candidate.isCorrect {
			correctIndex = idx
		}
	}

	return Question{
		Prompt:       prompt,
		Options:      options,
		CorrectIndex: correctIndex,
	}, nil
}

// MakeQuestionID derives a stable ID from the prompt and option texts, so
// the same question shuffled the same way always maps to the same ID.
func MakeQuestionID(question Question) string {
	var keyBuilder strings.Builder
	keyBuilder.WriteString(question.Prompt)
	for _, option := range question.Options {
		keyBuilder.WriteString("|")
		keyBuilder.WriteString(option.Text)
	}

	hash := sha1.Sum([]byte(keyBuilder.String()))
	return "q_" + hex.EncodeToString(hash[:6])
}
