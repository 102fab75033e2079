package generator

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
)

// Prompt is the payload sent to a model.
type Prompt struct {
	System string
	User   string
}

// Params are per-call generation settings. Zero values fall back to the
// client's defaults. Temperature is a pointer so that 0 can be requested.
type Params struct {
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

// Float64 returns a pointer to v, for Params.Temperature.
func Float64(v float64) *float64 { return &v }

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
)

// DefaultParams mirrors the settings the demo app shipped with.
func DefaultParams() Params {
	return Params{Temperature: Float64(DefaultTemperature), MaxTokens: DefaultMaxTokens}
}

// LLMClient abstracts the text-generation service so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt, params Params) (string, error)
}

// namedClient is implemented by clients that can report their provider for
// error messages.
type namedClient interface {
	Provider() string
}

// Supported providers.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderDeepSeek  = "deepseek"
	ProviderLocal     = "local"
	ProviderGoogle    = "google"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// LLMSettings configures a concrete client.
type LLMSettings struct {
	Provider  string
	Model     string
	APIKey    string
	APIKeyEnv string
	BaseURL   string
	Timeout   time.Duration
}

var defaultModels = map[string]string{
	ProviderGroq:      "llama3-8b-8192",
	ProviderOpenAI:    "gpt-3.5-turbo",
	ProviderDeepSeek:  "deepseek-chat",
	ProviderLocal:     "default",
	ProviderGoogle:    "gemini-2.5-flash",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderMock:      "mock",
}

// suggestedModels are offered by the UI model picker; the first entry is the
// provider default.
var suggestedModels = map[string][]string{
	ProviderGroq:      {"llama3-8b-8192", "llama2-70b-4096"},
	ProviderOpenAI:    {"gpt-3.5-turbo", "gpt-4o-mini"},
	ProviderDeepSeek:  {"deepseek-chat"},
	ProviderGoogle:    {"gemini-2.5-flash", "gemini-2.5-pro"},
	ProviderAnthropic: {"claude-3-5-haiku-latest", "claude-3-5-sonnet-latest"},
}

// SuggestedModels lists known models for provider, or nil.
func SuggestedModels(provider string) []string {
	return slices.Clone(suggestedModels[strings.ToLower(provider)])
}

var defaultKeyEnv = map[string]string{
	ProviderGroq:      "GROQ_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderDeepSeek:  "DEEPSEEK_API_KEY",
	ProviderGoogle:    "GOOGLE_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

const (
	groqBaseURL  = "https://api.groq.com/openai/v1"
	localBaseURL = "http://localhost:1234/v1"
)

// SupportedProviders lists provider names accepted by NewLLM.
func SupportedProviders() []string {
	return []string{ProviderGroq, ProviderOpenAI, ProviderDeepSeek, ProviderLocal, ProviderGoogle, ProviderAnthropic, ProviderMock}
}

// DefaultKeyEnv returns the conventional API key variable for provider.
func DefaultKeyEnv(provider string) string {
	return defaultKeyEnv[strings.ToLower(provider)]
}

// resolve fills defaults and reads the API key from the environment when it
// was not given directly.
func (s LLMSettings) resolve() (LLMSettings, error) {
	s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
	if s.Provider == "" {
		s.Provider = ProviderGroq
	}
	if _, ok := defaultModels[s.Provider]; !ok {
		return s, fmt.Errorf("llm provider %s not supported", s.Provider)
	}
	if s.Model == "" {
		s.Model = defaultModels[s.Provider]
	}
	if s.APIKeyEnv == "" {
		s.APIKeyEnv = defaultKeyEnv[s.Provider]
	}
	if s.APIKey == "" && s.APIKeyEnv != "" {
		s.APIKey = strings.TrimSpace(os.Getenv(s.APIKeyEnv))
	}
	switch s.Provider {
	case ProviderGroq:
		if s.BaseURL == "" {
			s.BaseURL = groqBaseURL
		}
	case ProviderLocal:
		if s.BaseURL == "" {
			s.BaseURL = localBaseURL
		}
		if s.APIKey == "" {
			s.APIKey = "not-needed"
		}
	case ProviderDeepSeek:
		// DeepSeek exposes an OpenAI-compatible API but has no fixed gateway.
		if s.BaseURL == "" {
			return s, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
	}
	if s.Timeout == 0 {
		s.Timeout = 60 * time.Second
	}
	return s, nil
}

// NewLLM builds the client for settings.Provider.
func NewLLM(settings LLMSettings) (LLMClient, error) {
	s, err := settings.resolve()
	if err != nil {
		return nil, err
	}
	switch s.Provider {
	case ProviderMock:
		return MockLLM{}, nil
	case ProviderGoogle:
		return NewGeminiLLM(&s)
	case ProviderAnthropic:
		return NewAnthropicLLM(&s)
	default:
		return NewOpenAILLMFromConfig(&s)
	}
}
