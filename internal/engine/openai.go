package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are an automation agent for GitHub repositories. " +
	"Execute the task you are given against the GitHub API and report what you did."

// openAIEngine runs automation tasks through the OpenAI chat completion API.
type openAIEngine struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIEngine creates an engine backed by the OpenAI API. If model is
// empty a current default is used.
func NewOpenAIEngine(apiKey, model string, logger *slog.Logger) Engine {
	if model == "" {
		model = openai.GPT4o
	}
	return &openAIEngine{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// Run submits the task as a chat completion and wraps the response in a
// RunHandle. API failures are returned as typed RunErrors so the caller can
// classify them without inspecting message text.
func (e *openAIEngine) Run(ctx context.Context, task string) (*RunHandle, error) {
	resp, err := e.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: e.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: task,
				},
			},
		},
	)
	if err != nil {
		e.logger.Error("engine run failed", "model", e.model, "error", err)
		return nil, &RunError{Kind: classifyAPIError(err), Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &RunError{Kind: FailureOther, Err: fmt.Errorf("engine returned no choices")}
	}

	return &RunHandle{
		ID:      resp.ID,
		Outputs: resp.Choices[0].Message.Content,
	}, nil
}

// classifyAPIError maps OpenAI API errors to failure kinds. Authentication
// and permission responses become access failures.
func classifyAPIError(err error) FailureKind {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return FailureAccessDenied
		}
	}
	return FailureOther
}
