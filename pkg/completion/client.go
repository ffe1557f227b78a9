// Package completion wraps hosted text-completion providers behind a single
// synchronous prompt-in, text-out contract. Responses are free text with no
// structure guarantee; callers parse defensively.
package completion

import (
	"context"

	"github.com/rotisserie/eris"
)

// Completer is the one external contract the pipeline consumes: one prompt,
// one round trip, one text response.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and tunes a provider backend.
type Config struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"`
	Model             string  `yaml:"model" mapstructure:"model"`
	MaxTokens         int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	AnthropicKey      string  `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	OpenAIKey         string  `yaml:"openai_key" mapstructure:"openai_key"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// New builds a Completer for the configured provider, wrapped with a rate
// limiter when requests_per_second is set.
func New(cfg Config) (Completer, error) {
	var c Completer
	switch cfg.Provider {
	case "anthropic":
		c = newAnthropic(cfg.AnthropicKey, cfg.Model, cfg.MaxTokens)
	case "openai":
		c = newOpenAI(cfg.OpenAIKey, cfg.Model)
	default:
		return nil, eris.Errorf("completion: unknown provider %q", cfg.Provider)
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c = WithRateLimit(c, cfg.RequestsPerSecond, burst)
	}
	return c, nil
}
