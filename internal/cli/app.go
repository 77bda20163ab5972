package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"trivia-quiz/internal/auth"
	"trivia-quiz/internal/opentdb"
	"trivia-quiz/internal/quiz"
)

const (
	maxLoginAttempts  = 3
	maxAnswerAttempts = 3

	defaultQuestionCount = 10
	historyListLimit     = 10
)

// Run drives an interactive, untimed quiz in the terminal: login gate, home
// screen, question loop, result screen with restart/history commands.
// questionCount is the configured default offered when the count prompt is
// left blank.
func Run(ctx context.Context, in io.Reader, out io.Writer, controller *quiz.Controller, gate *auth.Gate, questionCount int) error {
	reader := bufio.NewReader(in)

	if questionCount <= 0 {
		questionCount = defaultQuestionCount
	}

	if ok, err := login(reader, out, gate); err != nil || !ok {
		return err
	}

	for {
		params, ok := promptStartParams(reader, out, questionCount)
		if !ok {
			return nil
		}

		snapshot, err := controller.Start(ctx, params)
		if err != nil {
			fmt.Fprintf(out, "Failed to load questions: %v\n\n", err)
			continue
		}

		goHome, err := playSession(ctx, reader, out, controller, snapshot)
		if err != nil {
			return err
		}
		if !goHome {
			return nil
		}
		controller.GoHome()
	}
}

func login(reader *bufio.Reader, out io.Writer, gate *auth.Gate) (bool, error) {
	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		fmt.Fprint(out, "Username: ")
		username, err := reader.ReadString('\n')
		if err != nil {
			return false, nil
		}
		fmt.Fprint(out, "Password: ")
		password, err := reader.ReadString('\n')
		if err != nil {
			return false, nil
		}

		if err := gate.Login(strings.TrimSpace(username), strings.TrimRight(password, "\r\n")); err == nil {
			fmt.Fprintln(out)
			return true, nil
		}

		fmt.Fprintln(out, "Invalid username or password.")
	}
	return false, fmt.Errorf("too many failed login attempts")
}

func promptStartParams(reader *bufio.Reader, out io.Writer, defaultCount int) (quiz.StartParams, bool) {
	count := promptInt(reader, out, fmt.Sprintf("Number of questions [%d]: ", defaultCount), defaultCount)
	if count < 0 {
		return quiz.StartParams{}, false
	}

	category := promptInt(reader, out, "Category id (blank for any): ", 0)
	if category < 0 {
		return quiz.StartParams{}, false
	}

	difficulty, ok := promptDifficulty(reader, out)
	if !ok {
		return quiz.StartParams{}, false
	}

	return quiz.StartParams{
		Count:      count,
		Category:   category,
		Difficulty: difficulty,
	}, true
}

// playSession loops questions until the session finishes, then handles the
// result-screen commands. Returns (true, nil) when the user wants the home
// screen again and (false, nil) on quit or end of input.
func playSession(ctx context.Context, reader *bufio.Reader, out io.Writer, controller *quiz.Controller, snapshot quiz.Snapshot) (bool, error) {
	for {
		for snapshot.State == quiz.StateAwaitingAnswer {
			printQuestion(out, snapshot)

			chosenIndex, ok := getAnswer(reader, out, len(snapshot.Options))
			fmt.Fprintln(out)

			if !ok {
				// Input ended or the user kept mistyping; abandon the run.
				fmt.Fprintln(out, "Input ended. Leaving quiz.")
				controller.GoHome()
				return false, nil
			}

			var err error
			snapshot, err = controller.SelectOption(chosenIndex)
			if err != nil {
				return false, err
			}
			printOutcome(out, snapshot)

			snapshot, err = controller.Advance(ctx)
			if err != nil {
				return false, err
			}
			fmt.Fprintln(out)
		}

		fmt.Fprintf(out, "\nFinal score: %d/%d (%d%%)\n", snapshot.Score, snapshot.TotalQuestions, snapshot.Percentage)
		printHistory(ctx, out, controller)

		again, err := promptResultMenu(ctx, reader, out, controller)
		if err != nil {
			return false, err
		}
		switch again {
		case "restart":
			snapshot, err = controller.Restart()
			if err != nil {
				return false, err
			}
		case "home":
			return true, nil
		default:
			return false, nil
		}
	}
}

func promptResultMenu(ctx context.Context, reader *bufio.Reader, out io.Writer, controller *quiz.Controller) (string, error) {
	for {
		fmt.Fprint(out, "\n[r]estart  [h]ome  [c]lear history  [q]uit: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "quit", nil
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "r":
			return "restart", nil
		case "h":
			return "home", nil
		case "q", "":
			return "quit", nil
		case "c":
			if err := controller.ClearHistory(ctx); err != nil {
				fmt.Fprintf(out, "Failed to clear history: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "History cleared.")
		default:
			fmt.Fprintln(out, "Please enter r, h, c or q.")
		}
	}
}

func printQuestion(out io.Writer, snapshot quiz.Snapshot) {
	fmt.Fprintf(out, "Q%d of %d: %s\n\n", snapshot.QuestionNumber, snapshot.TotalQuestions, snapshot.Prompt)
	for _, option := range snapshot.Options {
		fmt.Fprintf(out, "%s. %s\n", option.Letter, option.Text)
	}
	fmt.Fprintln(out)
}

func printOutcome(out io.Writer, snapshot quiz.Snapshot) {
	if snapshot.ChosenIndex == snapshot.CorrectIndex {
		fmt.Fprintln(out, "Correct!")
		return
	}
	fmt.Fprintf(out, "Wrong. Correct answer was %s\n", optionTextForIndex(snapshot.Options, snapshot.CorrectIndex))
}

func printHistory(ctx context.Context, out io.Writer, controller *quiz.Controller) {
	records, err := controller.History(ctx, historyListLimit)
	if err != nil {
		fmt.Fprintf(out, "History unavailable: %v\n", err)
		return
	}
	if len(records) == 0 {
		return
	}

	fmt.Fprintln(out, "\nPast attempts:")
	for _, record := range records {
		fmt.Fprintf(out, "  %s  %d/%d (%d%%)\n", record.Timestamp, record.Score, record.Total, record.Percentage)
	}
}

func getAnswer(reader *bufio.Reader, out io.Writer, optionCount int) (int, bool) {
	if optionCount < 1 {
		return -1, false
	}

	maxLetter := byte('A' + optionCount - 1)
	fmt.Fprintf(out, "Your answer (A-%c): ", maxLetter)

	for attempt := 1; attempt <= maxAnswerAttempts; attempt++ {
		userAnswer, err := reader.ReadString('\n')
		if err != nil {
			return -1, false
		}

		userAnswer = strings.ToUpper(strings.TrimSpace(userAnswer))
		if len(userAnswer) == 1 {
			letter := userAnswer[0]
			if letter >= 'A' && letter <= maxLetter {
				return int(letter - 'A'), true
			}
		}

		if attempt < maxAnswerAttempts {
			fmt.Fprintf(out, "Invalid input. Please enter a letter A-%c: ", maxLetter)
		}
	}

	return -1, false
}

func promptInt(reader *bufio.Reader, out io.Writer, prompt string, defaultValue int) int {
	for {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return -1
		}

		line = strings.TrimSpace(line)
		if line == "" {
			return defaultValue
		}

		value, err := strconv.Atoi(line)
		if err != nil || value <= 0 {
			fmt.Fprintln(out, "Please enter a positive number or leave blank.")
			continue
		}
		return value
	}
}

func promptDifficulty(reader *bufio.Reader, out io.Writer) (string, bool) {
	for {
		fmt.Fprint(out, "Difficulty (easy/medium/hard, blank for any): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", false
		}

		difficulty := strings.ToLower(strings.TrimSpace(line))
		switch difficulty {
		case "", opentdb.DifficultyEasy, opentdb.DifficultyMedium, opentdb.DifficultyHard:
			return difficulty, true
		}
		fmt.Fprintln(out, "Please enter easy, medium, hard or leave blank.")
	}
}

func optionTextForIndex(options []quiz.Option, index int) string {
	if index < 0 || index >= len(options) {
		return ""
	}
	return options[index].Text
}
