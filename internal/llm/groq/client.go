package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"advisor-backend/internal/llm"
	"advisor-backend/internal/shared/telemetry"
)

const apiURL = "https://api.groq.com/openai/v1/chat/completions"

// Client implements llm.Client using the Groq OpenAI-compatible API.
type Client struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float32
	baseURL     string
	httpClient  *http.Client
}

// NewClient constructs a new Groq client.
func NewClient(apiKey, model string, maxTokens int) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Groq")
	}
	if maxTokens <= 0 {
		maxTokens = 8000
	}
	timeout := 30 * time.Second
	if raw := strings.TrimSpace(os.Getenv("GROQ_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: 0.7,
		baseURL:     apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends a chat-completion request and returns the raw text plus the
// provider's finish reason.
func (c *Client) Complete(ctx context.Context, input llm.CompleteInput) (llm.Completion, error) {
	messages := make([]chatMessage, 0, len(input.Messages)+2)
	messages = append(messages, chatMessage{Role: "system", Content: input.System})
	if len(input.Messages) > 0 {
		for _, m := range input.Messages {
			messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
		}
	} else {
		messages = append(messages, chatMessage{Role: "user", Content: input.User})
	}

	reqBody := chatRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages:    messages,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Completion{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return llm.Completion{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return llm.Completion{}, fmt.Errorf("groq request timeout: %w", err)
		}
		return llm.Completion{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Completion{}, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return llm.Completion{}, fmt.Errorf("groq response parse: %w", err)
	}
	if parsed.Error != nil {
		return llm.Completion{}, fmt.Errorf("groq error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return llm.Completion{}, fmt.Errorf("groq response missing choices")
	}

	choice := parsed.Choices[0]
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return llm.Completion{}, fmt.Errorf("groq response empty content")
	}
	usage := map[string]any{"model": c.model}
	if parsed.Usage != nil {
		usage["prompt_tokens"] = parsed.Usage.PromptTokens
		usage["completion_tokens"] = parsed.Usage.CompletionTokens
		usage["total_tokens"] = parsed.Usage.TotalTokens
	}
	telemetry.Info("llm.response", usage)
	if choice.FinishReason == llm.FinishLength {
		telemetry.Warn("llm.truncated", map[string]any{
			"model":      c.model,
			"max_tokens": c.maxTokens,
		})
	}

	return llm.Completion{
		Text:         content,
		FinishReason: choice.FinishReason,
	}, nil
}

var _ llm.Client = (*Client)(nil)
