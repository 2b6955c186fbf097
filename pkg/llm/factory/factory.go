package factory

import (
	"errors"
	"fmt"
	"time"

	"mitr-be/pkg/llm"
	"mitr-be/pkg/llm/gemini"
	"mitr-be/pkg/llm/huggingface"
	"mitr-be/pkg/llm/ollama"
)

// ErrNotConfigured means the selected provider has no credentials. Callers
// treat it as "no model available" and use their offline fallbacks.
var ErrNotConfigured = errors.New("llm provider not configured")

type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "gemini", "":
		if cfg.APIKey == "" {
			return nil, ErrNotConfigured
		}
		return gemini.NewProvider(cfg.APIKey, "", cfg.Model, cfg.Timeout), nil
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model, cfg.Timeout), nil
	case "huggingface":
		if cfg.APIKey == "" {
			return nil, ErrNotConfigured
		}
		return huggingface.NewHuggingFaceProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
