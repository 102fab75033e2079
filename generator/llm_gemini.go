package generator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiLLM implements LLMClient on the Google GenAI SDK.
type GeminiLLM struct {
	model  string
	client *genai.Client
}

func NewGeminiLLM(cfg *LLMSettings) (*GeminiLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("google api key missing; set %s", cfg.APIKeyEnv)
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiLLM{model: cfg.Model, client: client}, nil
}

func (g *GeminiLLM) Provider() string { return ProviderGoogle }

func (g *GeminiLLM) Complete(ctx context.Context, prompt Prompt, params Params) (string, error) {
	model := g.model
	if params.Model != "" {
		model = params.Model
	}

	cfg := &genai.GenerateContentConfig{}
	if prompt.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if params.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*params.Temperature))
	}
	if params.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(params.MaxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt.User), cfg)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("genai: no candidates returned")
	}
	return resp.Text(), nil
}
