package openaiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dehierro/battleroyale/internal/constants"
)

// ErrEmptyResponse is returned when the API answers 2xx without any message
// content.
var ErrEmptyResponse = errors.New("openai returned an empty response")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai error: %d %s", e.StatusCode, e.Body)
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest describes a single chat completion call.
type ChatRequest struct {
	APIKey      string
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	// JSONMode asks the API for a JSON object response.
	JSONMode bool
}

// Client calls the chat completions endpoint. The zero value talks to the
// public OpenAI API with a 45 second timeout.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client for baseURL; an empty baseURL means the public API.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.OpenAITimeoutDefault * time.Second
	}
	return &Client{BaseURL: baseURL, HTTPClient: &http.Client{Timeout: timeout}}
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return constants.OpenAIBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return &http.Client{Timeout: constants.OpenAITimeoutDefault * time.Second}
	}
	return c.HTTPClient
}

// ChatCompletion sends req and returns the trimmed content of the first
// choice.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	if req.APIKey == "" {
		return "", fmt.Errorf("%s not set", constants.EnvOpenAIAPIKey)
	}
	model := req.Model
	if model == "" {
		model = constants.OpenAIChatModel
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = constants.OpenAIMaxTokensDefault
	}

	payload := map[string]interface{}{
		"model":                 model,
		"messages":              req.Messages,
		"max_completion_tokens": maxTokens,
		"temperature":           req.Temperature,
	}
	if req.JSONMode {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+constants.OpenAIChatCompletionsPath, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+req.APIKey)
	httpReq.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode OpenAI response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
