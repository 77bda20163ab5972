package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultBaseURL = "https://opentdb.com/api.php"
	defaultAmount  = 10
)

// Difficulty values accepted by OpenTriviaDB.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// RawQuestion mirrors the OpenTriviaDB question payload.
type RawQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}

// Request narrows a question fetch. Zero-valued Category and Difficulty are
// omitted from the query, which the API treats as "any".
type Request struct {
	Amount     int
	Category   int
	Difficulty string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
}

func (c *Client) FetchQuestions(ctx context.Context, request Request) ([]RawQuestion, error) {
	amount := request.Amount
	if amount <= 0 {
		amount = defaultAmount
	}

	values := url.Values{}
	values.Set("amount", strconv.Itoa(amount))
	values.Set("type", "multiple")
	if request.Category > 0 {
		values.Set("category", strconv.Itoa(request.Category))
	}
	if difficulty := strings.ToLower(strings.TrimSpace(request.Difficulty)); difficulty != "" {
		switch difficulty {
		case DifficultyEasy, DifficultyMedium, DifficultyHard:
			values.Set("difficulty", difficulty)
		default:
			return nil, fmt.Errorf("invalid difficulty %q", request.Difficulty)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opentdb returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("opentdb response_code=%d", payload.ResponseCode)
	}

	return payload.Results, nil
}
