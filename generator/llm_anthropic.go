package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"
)

const anthropicMessagesURL = "https://api.anthropic.com/v1/messages"

// HTTPDoer is the subset of *http.Client used by AnthropicLLM.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnthropicLLM calls the Anthropic Messages API.
type AnthropicLLM struct {
	model   string
	apiKey  string
	baseURL string
	http    HTTPDoer
}

func NewAnthropicLLM(cfg *LLMSettings) (*AnthropicLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key missing; set %s", cfg.APIKeyEnv)
	}
	url := cfg.BaseURL
	if url == "" {
		url = anthropicMessagesURL
	}
	return &AnthropicLLM{
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		baseURL: url,
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (a *AnthropicLLM) Provider() string { return ProviderAnthropic }

func (a *AnthropicLLM) Complete(ctx context.Context, prompt Prompt, params Params) (string, error) {
	body := anthropicRequest{
		Model:       a.model,
		MaxTokens:   params.MaxTokens,
		System:      prompt.System,
		Temperature: params.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt.User}},
	}
	if params.Model != "" {
		body.Model = params.Model
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = DefaultMaxTokens
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var data anthropicResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("anthropic: status %d: %s", resp.StatusCode, truncate(string(raw), 300))
		}
		return "", fmt.Errorf("anthropic: malformed response: %w", err)
	}
	if data.Error != nil {
		return "", fmt.Errorf("anthropic: %s: %s", data.Error.Type, data.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic: status %d", resp.StatusCode)
	}

	var sb strings.Builder
	for _, block := range data.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// truncate keeps at most n bytes of s without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
