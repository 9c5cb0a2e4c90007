// Package ai talks to the text generation API.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"insales/catsync/internal/config"

	"github.com/benbjohnson/clock"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

var ErrEmptyResponse = errors.New("model returned no text")

type Client interface {
	// Complete sends a single prompt and returns the cleaned answer.
	Complete(ctx context.Context, prompt string) (string, error)
	// RunAssistant posts content to a new thread, waits for the assistant run and
	// returns the cleaned reply.
	RunAssistant(ctx context.Context, assistantID, content string) (string, error)
}

type openAIClient struct {
	config     config.OpenAIConfig
	httpClient *resty.Client
	poller     Poller
}

func NewOpenAIClient(cfg config.OpenAIConfig, clk clock.Clock) Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &openAIClient{
		config:     cfg,
		httpClient: client,
		poller: Poller{
			Clock:    clk,
			Interval: cfg.PollInterval,
			MaxPolls: cfg.MaxPolls,
		},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

type object struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	LastError *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"last_error"`
}

type messageList struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

func (c *openAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:       c.config.Model,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	var resp chatResponse
	if err := c.call(ctx, http.MethodPost, "/chat/completions", req, &resp, false); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return CleanResponse(resp.Choices[0].Message.Content), nil
}

func (c *openAIClient) RunAssistant(ctx context.Context, assistantID, content string) (string, error) {
	job, err := c.submit(ctx, assistantID, content)
	if err != nil {
		return "", err
	}
	log.Infof("🔄 Assistant run %s submitted on thread %s", job.RunID, job.ThreadID)

	err = c.poller.Wait(ctx, job, func(ctx context.Context) (Status, error) {
		var run object
		path := fmt.Sprintf("/threads/%s/runs/%s", job.ThreadID, job.RunID)
		if err := c.call(ctx, http.MethodGet, path, nil, &run, true); err != nil {
			return Status{}, err
		}
		log.Debugf("Run %s status: %s", job.RunID, run.Status)
		return runStatus(run), nil
	})
	if err != nil {
		log.Errorf("❌ Assistant run %s: %v", job.RunID, err)
		return "", err
	}

	var messages messageList
	path := fmt.Sprintf("/threads/%s/messages", job.ThreadID)
	if err := c.call(ctx, http.MethodGet, path+"?order=desc&limit=10", nil, &messages, true); err != nil {
		return "", err
	}

	for _, m := range messages.Data {
		if m.Role != "assistant" {
			continue
		}
		for _, part := range m.Content {
			if part.Type == "text" && part.Text.Value != "" {
				log.Infof("✅ Assistant run %s completed after %d polls", job.RunID, job.Polls)
				return CleanResponse(part.Text.Value), nil
			}
		}
	}
	return "", ErrEmptyResponse
}

func (c *openAIClient) submit(ctx context.Context, assistantID, content string) (*Job, error) {
	var thread object
	body := map[string][]message{"messages": {{Role: "user", Content: content}}}
	if err := c.call(ctx, http.MethodPost, "/threads", body, &thread, true); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	var run object
	path := fmt.Sprintf("/threads/%s/runs", thread.ID)
	if err := c.call(ctx, http.MethodPost, path, map[string]string{"assistant_id": assistantID}, &run, true); err != nil {
		return nil, fmt.Errorf("failed to start run on thread %s: %w", thread.ID, err)
	}

	return &Job{ThreadID: thread.ID, RunID: run.ID, State: JobSubmitted}, nil
}

func runStatus(run object) Status {
	switch run.Status {
	case "completed":
		return Status{Done: true}
	case "failed", "cancelled", "expired", "incomplete", "requires_action":
		reason := run.Status
		if run.LastError != nil && run.LastError.Message != "" {
			reason = run.Status + ": " + run.LastError.Message
		}
		return Status{Failed: true, Reason: reason}
	default:
		// queued, in_progress, cancelling
		return Status{}
	}
}

func (c *openAIClient) call(ctx context.Context, method, path string, body, out any, assistants bool) error {
	req := c.httpClient.R().SetContext(ctx)
	if assistants {
		req.SetHeader("OpenAI-Beta", "assistants=v2")
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		req.SetBody(payload)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode(), resp.String())
	}

	if err := json.Unmarshal([]byte(resp.String()), out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
