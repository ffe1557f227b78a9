// Package config loads application configuration from file and environment
// and owns global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/contourline/leadscore-cli/internal/icp"
	"github.com/contourline/leadscore-cli/internal/scoring"
	"github.com/contourline/leadscore-cli/internal/store"
	"github.com/contourline/leadscore-cli/pkg/completion"
)

// Config holds the full application configuration.
type Config struct {
	Completion completion.Config `yaml:"completion" mapstructure:"completion"`
	Store      store.Config      `yaml:"store" mapstructure:"store"`
	ICP        icp.Config        `yaml:"icp" mapstructure:"icp"`
	Scoring    scoring.Config    `yaml:"scoring" mapstructure:"scoring"`
	Export     ExportConfig      `yaml:"export" mapstructure:"export"`
	Columns    ColumnsConfig     `yaml:"columns" mapstructure:"columns"`
	Server     ServerConfig      `yaml:"server" mapstructure:"server"`
	Log        LogConfig         `yaml:"log" mapstructure:"log"`
}

// ExportConfig configures the CSV export.
type ExportConfig struct {
	MinScore int `yaml:"min_score" mapstructure:"min_score"`
}

// ColumnsConfig points at an optional column-keyword override file.
type ColumnsConfig struct {
	OverridesPath string `yaml:"overrides_path" mapstructure:"overrides_path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("completion.provider", "anthropic")
	v.SetDefault("completion.model", "claude-haiku-4-5-20251001")
	v.SetDefault("completion.max_tokens", 1024)
	// Empty defaults register the keys so AutomaticEnv can populate them.
	v.SetDefault("completion.anthropic_key", "")
	v.SetDefault("completion.openai_key", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("scoring.workers", 15)
	v.SetDefault("scoring.request_timeout_secs", 30)
	v.SetDefault("icp.sample_size", 20)
	v.SetDefault("icp.top_products", 3)
	v.SetDefault("export.min_score", 30)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings that commands cannot run without.
func (c *Config) Validate() error {
	switch c.Completion.Provider {
	case "anthropic":
		if c.Completion.AnthropicKey == "" {
			return eris.New("config: anthropic API key is required (LEADSCORE_COMPLETION_ANTHROPIC_KEY)")
		}
	case "openai":
		if c.Completion.OpenAIKey == "" {
			return eris.New("config: openai API key is required (LEADSCORE_COMPLETION_OPENAI_KEY)")
		}
	default:
		return eris.Errorf("config: unknown completion provider %q", c.Completion.Provider)
	}

	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return eris.New("config: postgres store requires database_url (LEADSCORE_STORE_DATABASE_URL)")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
