package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/doppelbot/doppel/internal/bot"
)

const (
	defaultAPIBase = "https://api.openai.com/v1"
	chatPath       = "/chat/completions"

	maxAttempts    = 3
	initialBackoff = 2 * time.Second
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey      string
	apiBase     string
	model       string
	temperature float64
	maxTokens   int
	httpc       *http.Client
	backoff     time.Duration
}

// NewClient creates a client. An empty apiBase selects the OpenAI default.
func NewClient(apiKey, apiBase, model string, temperature float64, maxTokens int) *Client {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	apiBase = strings.TrimRight(apiBase, "/")

	return &Client{
		apiKey:      apiKey,
		apiBase:     apiBase,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpc:       &http.Client{Timeout: 120 * time.Second},
		backoff:     initialBackoff,
	}
}

// Generate implements bot.Generator. The instruction becomes the system
// message; turn roles map straight onto completion roles. A response with no
// usable content returns "" without error so the pipeline suppresses
// instead of crashing.
func (c *Client) Generate(ctx context.Context, instruction string, turns []bot.Turn) (string, error) {
	msgs := make([]Message, 0, len(turns)+1)
	if instruction != "" {
		msgs = append(msgs, Message{Role: "system", Content: instruction})
	}
	for _, t := range turns {
		msgs = append(msgs, Message{Role: string(t.Role), Content: t.Content})
	}
	return c.Chat(ctx, msgs)
}

// Chat sends one completion request, retrying rate limits and server errors
// with exponential backoff.
func (c *Client) Chat(ctx context.Context, msgs []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	backoff := c.backoff
	for attempt := 1; ; attempt++ {
		content, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return content, nil
		}
		if !retryable || attempt == maxAttempts {
			return "", err
		}

		slog.Warn("chat completion failed, retrying",
			"attempt", attempt, "backoff", backoff, "error", err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		backoff *= 2
	}
}

// doRequest performs one HTTP round trip. The second return value reports
// whether the failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+chatPath, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", true, fmt.Errorf("chat completion: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", false, fmt.Errorf("chat completion: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("decode chat response: %w", err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("chat completion: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		// Malformed or empty response: nothing usable, not an error.
		return "", false, nil
	}
	return parsed.Choices[0].Message.Content, false, nil
}
