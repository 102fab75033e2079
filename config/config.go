// Package config loads the generator's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"smart_email_generator/generator"
)

// Config is the top-level file layout.
type Config struct {
	ServerAddr  string      `yaml:"server_addr,omitempty"`
	LogMode     string      `yaml:"log_mode,omitempty"`
	CORSOrigins []string    `yaml:"cors_origins,omitempty"`
	LLM         LLMConfig   `yaml:"llm"`
	Store       StoreConfig `yaml:"store"`
}

// LLMConfig selects the model. The API key itself is never stored here;
// APIKeyEnv names the environment variable that holds it.
type LLMConfig struct {
	Provider    string        `yaml:"provider,omitempty"`
	Model       string        `yaml:"model,omitempty"`
	APIKeyEnv   string        `yaml:"api_key_env,omitempty"`
	BaseURL     string        `yaml:"base_url,omitempty"`
	Temperature float64       `yaml:"temperature,omitempty"`
	MaxTokens   int           `yaml:"max_tokens,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

// StoreConfig picks where server sessions live.
type StoreConfig struct {
	Backend   string        `yaml:"backend,omitempty"`
	RedisAddr string        `yaml:"redis_addr,omitempty"`
	TTL       time.Duration `yaml:"ttl,omitempty"`
}

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ServerAddr: ":8080",
		LogMode:    "dev",
		LLM: LLMConfig{
			Provider:    generator.ProviderGroq,
			Temperature: generator.DefaultTemperature,
			MaxTokens:   generator.DefaultMaxTokens,
			Timeout:     60 * time.Second,
		},
		Store: StoreConfig{
			Backend: StoreMemory,
			TTL:     24 * time.Hour,
		},
	}
}

// Load reads YAML config from disk over the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = generator.ProviderGroq
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = generator.DefaultKeyEnv(c.LLM.Provider)
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreMemory
	}
}

// Validate reports combinations that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.LLM.Provider == generator.ProviderDeepSeek && c.LLM.BaseURL == "" {
		errs = append(errs, errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)"))
	}
	known := false
	for _, p := range generator.SupportedProviders() {
		if p == c.LLM.Provider {
			known = true
		}
	}
	if !known {
		errs = append(errs, fmt.Errorf("llm provider %s not supported", c.LLM.Provider))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm temperature %.2f out of range [0, 2]", c.LLM.Temperature))
	}
	if c.LLM.MaxTokens < 0 {
		errs = append(errs, errors.New("llm max_tokens must not be negative"))
	}
	switch c.Store.Backend {
	case StoreMemory:
	case StoreRedis:
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("store backend redis requires redis_addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("store backend %s not supported", c.Store.Backend))
	}
	return errors.Join(errs...)
}

// Settings converts the llm section for generator.NewLLM.
func (c Config) Settings() generator.LLMSettings {
	return generator.LLMSettings{
		Provider:  c.LLM.Provider,
		Model:     c.LLM.Model,
		APIKeyEnv: c.LLM.APIKeyEnv,
		BaseURL:   c.LLM.BaseURL,
		Timeout:   c.LLM.Timeout,
	}
}

// Params are the default generation params.
func (c Config) Params() generator.Params {
	return generator.Params{
		Model:       c.LLM.Model,
		Temperature: generator.Float64(c.LLM.Temperature),
		MaxTokens:   c.LLM.MaxTokens,
	}
}
