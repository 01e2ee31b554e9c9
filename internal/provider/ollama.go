package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mohammad-safakhou/taskforce/config"
	"github.com/mohammad-safakhou/taskforce/internal/fault"
)

// OllamaClient calls a local Ollama instance over its generate API.
type OllamaClient struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

func NewOllamaClient(cfg config.OllamaConfig) *OllamaClient {
	return &OllamaClient{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *OllamaClient) Name() Choice { return Ollama }

func (c *OllamaClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.endpoint == "" {
		return "", &Error{Provider: Ollama, Kind: fault.Auth, Err: errors.New("OLLAMA_URL not configured")}
	}

	body, err := json.Marshal(map[string]interface{}{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"num_predict": maxTokens,
		},
	})
	if err != nil {
		return "", &Error{Provider: Ollama, Kind: fault.Parse, Err: fmt.Errorf("marshal: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint+"/api/generate", bytes.NewBuffer(body))
	if err != nil {
		return "", &Error{Provider: Ollama, Kind: fault.Transport, Err: fmt.Errorf("request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Provider: Ollama, Kind: fault.Classify(err), Err: fmt.Errorf("do: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Provider: Ollama, Kind: statusKind(resp.StatusCode), Err: fmt.Errorf("Ollama status %d", resp.StatusCode)}
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Provider: Ollama, Kind: fault.Parse, Err: fmt.Errorf("decode: %w", err)}
	}
	return out.Response, nil
}
