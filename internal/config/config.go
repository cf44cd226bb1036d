package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	CreditAPI CreditAPIConfig `yaml:"credit_api" mapstructure:"credit_api"`
	Agenta    AgentaConfig    `yaml:"agenta" mapstructure:"agenta"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Prompt    PromptConfig    `yaml:"prompt" mapstructure:"prompt"`
	Engine    EngineConfig    `yaml:"engine" mapstructure:"engine"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// CreditAPIConfig holds credit-data API settings. Token is a pre-issued
// bearer credential; OAuth acquisition happens outside this service.
type CreditAPIConfig struct {
	BaseURL          string  `yaml:"base_url" mapstructure:"base_url"`
	Token            string  `yaml:"token" mapstructure:"token"`
	RequestsPerSec   float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	TransactionLimit int     `yaml:"transaction_limit" mapstructure:"transaction_limit"`
}

// AgentaConfig holds prompt-management settings. An empty key disables
// managed templates and the builder falls back to local ones.
type AgentaConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	AppSlug     string `yaml:"app_slug" mapstructure:"app_slug"`
	Environment string `yaml:"environment" mapstructure:"environment"`
}

// LLMConfig holds chat-completion provider settings. All providers
// speak the OpenAI-compatible API; BaseURL selects between them.
type LLMConfig struct {
	Provider     string            `yaml:"provider" mapstructure:"provider"`
	Keys         map[string]string `yaml:"keys" mapstructure:"keys"`
	BaseURLs     map[string]string `yaml:"base_urls" mapstructure:"base_urls"`
	DefaultModel string            `yaml:"default_model" mapstructure:"default_model"`
}

// PromptConfig holds the local prompt template fallback.
type PromptConfig struct {
	SystemTemplate string `yaml:"system_template" mapstructure:"system_template"`
}

// EngineConfig holds aggregation engine settings.
type EngineConfig struct {
	RulesFile string `yaml:"rules_file" mapstructure:"rules_file"`
}

// ServerConfig configures the chat server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.AddConfigPath("$HOME/.credit-insights")

	// Environment
	v.SetEnvPrefix("CREDIT_INSIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("credit_api.requests_per_sec", 5.0)
	v.SetDefault("credit_api.transaction_limit", 50)
	v.SetDefault("agenta.base_url", "https://cloud.agenta.ai")
	v.SetDefault("agenta.app_slug", "credit-chat")
	v.SetDefault("agenta.environment", "production")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.default_model", "gpt-4o-mini")
	v.SetDefault("llm.base_urls.groq", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.base_urls.google", "https://generativelanguage.googleapis.com/v1beta/openai")

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
