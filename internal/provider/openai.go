package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mohammad-safakhou/taskforce/config"
	"github.com/mohammad-safakhou/taskforce/internal/fault"
)

// OpenAIClient calls the OpenAI chat completions API.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *OpenAIClient) Name() Choice { return OpenAI }

// Generate sends a single chat completion request. maxTokens bounds the
// response size; there are no retries.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", &Error{Provider: OpenAI, Kind: fault.Auth, Err: errors.New("OPENAI_API_KEY not configured")}
	}

	type chatMsg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type chatReq struct {
		Model     string    `json:"model"`
		Messages  []chatMsg `json:"messages"`
		MaxTokens int       `json:"max_tokens,omitempty"`
	}

	body, err := json.Marshal(chatReq{
		Model:     c.model,
		Messages:  []chatMsg{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", &Error{Provider: OpenAI, Kind: fault.Parse, Err: fmt.Errorf("marshal: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", &Error{Provider: OpenAI, Kind: fault.Transport, Err: fmt.Errorf("request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Provider: OpenAI, Kind: fault.Classify(err), Err: fmt.Errorf("do: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Provider: OpenAI, Kind: statusKind(resp.StatusCode), Err: fmt.Errorf("OpenAI status %d", resp.StatusCode)}
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Provider: OpenAI, Kind: fault.Parse, Err: fmt.Errorf("decode: %w", err)}
	}
	if len(out.Choices) == 0 {
		return "", &Error{Provider: OpenAI, Kind: fault.Parse, Err: errors.New("no choices in response")}
	}
	return out.Choices[0].Message.Content, nil
}

// statusKind maps HTTP status codes to fault kinds shared by all providers.
func statusKind(code int) fault.Kind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fault.Auth
	default:
		return fault.Transport
	}
}
