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

// AnthropicClient calls the Anthropic messages API.
type AnthropicClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewAnthropicClient(cfg config.AnthropicConfig) *AnthropicClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	return &AnthropicClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *AnthropicClient) Name() Choice { return Anthropic }

func (c *AnthropicClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", &Error{Provider: Anthropic, Kind: fault.Auth, Err: errors.New("ANTHROPIC_API_KEY not configured")}
	}

	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	body, err := json.Marshal(map[string]interface{}{
		"model":      c.model,
		"max_tokens": maxTokens,
		"messages":   []msg{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", &Error{Provider: Anthropic, Kind: fault.Parse, Err: fmt.Errorf("marshal: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/messages", bytes.NewBuffer(body))
	if err != nil {
		return "", &Error{Provider: Anthropic, Kind: fault.Transport, Err: fmt.Errorf("request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Provider: Anthropic, Kind: fault.Classify(err), Err: fmt.Errorf("do: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Provider: Anthropic, Kind: statusKind(resp.StatusCode), Err: fmt.Errorf("Anthropic status %d", resp.StatusCode)}
	}

	var out struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Provider: Anthropic, Kind: fault.Parse, Err: fmt.Errorf("decode: %w", err)}
	}
	for _, block := range out.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", &Error{Provider: Anthropic, Kind: fault.Parse, Err: errors.New("no text content in response")}
}
