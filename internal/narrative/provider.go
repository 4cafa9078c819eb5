package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dehierro/battleroyale/internal/constants"
	"github.com/dehierro/battleroyale/internal/engine"
	"github.com/dehierro/battleroyale/internal/game"
	"github.com/dehierro/battleroyale/internal/jsonrepair"
	"github.com/dehierro/battleroyale/internal/logging"
	"github.com/dehierro/battleroyale/internal/openaiclient"
)

// Request is everything a provider needs to narrate one round.
type Request struct {
	Round  int
	Plan   engine.Plan
	Roster []game.Participant
	APIKey string
}

// Result is the provider's answer. Outcome is nil in free-text mode or when
// the provider did not include one.
type Result struct {
	Text    string
	Outcome *game.Outcome
}

// Provider generates the narrative for a round.
type Provider interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// ProviderError covers transport failures, non-2xx answers and empty
// content. StatusCode is 0 when no HTTP response was received.
type ProviderError struct {
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("narrative provider failed with status %d: %v", e.StatusCode, e.Err)
	}
	return "narrative provider failed: " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Completer is the chat completion capability the OpenAI provider relies on.
// *openaiclient.Client satisfies it.
type Completer interface {
	ChatCompletion(ctx context.Context, req openaiclient.ChatRequest) (string, error)
}

// OpenAIProvider narrates rounds through a chat completion endpoint.
type OpenAIProvider struct {
	Client      Completer
	Model       string
	MaxTokens   int
	Temperature float64
	// Structured asks for the JSON event payload instead of free text.
	Structured bool
	// SystemPrompt and UserPromptTemplate override the built-in prompts.
	// See BuildUserPrompt for the supported tokens.
	SystemPrompt       string
	UserPromptTemplate string
}

// Generate implements Provider.
func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (Result, error) {
	system := strings.TrimSpace(p.SystemPrompt)
	if system == "" {
		system = defaultSystemPrompt
	}
	user := BuildUserPrompt(p.UserPromptTemplate, req, p.Structured)

	logging.Info("narrative prompt", logging.Fields{
		constants.LogFieldRound:    req.Round,
		constants.LogFieldPlanKind: string(req.Plan.Kind),
		constants.LogFieldModel:    p.Model,
		"structured":               p.Structured,
		"prompt_chars":             len(user),
	})

	content, err := p.Client.ChatCompletion(ctx, openaiclient.ChatRequest{
		APIKey: req.APIKey,
		Model:  p.Model,
		Messages: []openaiclient.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		JSONMode:    p.Structured,
	})
	if err != nil {
		perr := &ProviderError{Err: err}
		var apiErr *openaiclient.APIError
		if errors.As(err, &apiErr) {
			perr.StatusCode = apiErr.StatusCode
		}
		return Result{}, perr
	}

	if p.Structured {
		return ParseStructured(content)
	}
	text := jsonrepair.StripFences(content)
	if text == "" {
		return Result{}, &ProviderError{Err: openaiclient.ErrEmptyResponse}
	}
	return Result{Text: text}, nil
}
