package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DefaultPort            = "3000"
	DefaultProgramsSource  = "data/programs.json"
	DefaultProvider        = "gemini"
	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultChatMaxDuration = 60 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"

	DefaultEnrichSchedule   = "0 3 * * *"
	DefaultEnrichBatchSize  = 10
	DefaultEnrichBatchDelay = 2 * time.Second
	DefaultEnrichSaveEvery  = 50
	DefaultEnrichWorkers    = 1
)

type Config struct {
	Port           string    `mapstructure:"port" validate:"required,numeric"`
	ProgramsSource string    `mapstructure:"programs_source" validate:"required"`
	Log            LogConfig `mapstructure:"log"`

	LLM       LLMConfig       `mapstructure:"llm"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Google    GoogleConfig    `mapstructure:"google"`
	LangChain LangChainConfig `mapstructure:"langchain"`
	GCP       GCPConfig       `mapstructure:"gcp"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Enrich    EnrichConfig    `mapstructure:"enrich"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

type LLMConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=gemini vertex langchain"`
}

// GeminiConfig holds the Gemini API settings. An empty APIKey is allowed:
// the chat endpoint then answers with a configuration error.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	ModelID string `mapstructure:"model_id" validate:"required"`
}

type GoogleConfig struct {
	Cloud GoogleCloudConfig `mapstructure:"cloud"`
}

type GoogleCloudConfig struct {
	ProjectID        string `mapstructure:"project_id"`
	VertexAILocation string `mapstructure:"vertexai_location"`
}

type LangChainConfig struct {
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey  string `mapstructure:"api_key"`
}

type GCPConfig struct {
	// base64 encoded service account JSON
	ServiceAccountCredentials string `mapstructure:"service_account_credentials" validate:"omitempty,base64"`
}

type ChatConfig struct {
	MaxDuration time.Duration `mapstructure:"max_duration" validate:"gt=0"`
}

type EnrichConfig struct {
	Schedule   string        `mapstructure:"schedule" validate:"required"`
	BatchSize  int           `mapstructure:"batch_size" validate:"gt=0"`
	BatchDelay time.Duration `mapstructure:"batch_delay" validate:"gte=0"`
	SaveEvery  int           `mapstructure:"save_every" validate:"gt=0"`
	Workers    int           `mapstructure:"workers" validate:"gt=0,lte=16"`
}

// Load reads configuration from defaults and environment variables.
// Nested keys map to upper-case env names with dots replaced by
// underscores, e.g. gemini.api_key -> GEMINI_API_KEY.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("programs_source", DefaultProgramsSource)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("llm.provider", DefaultProvider)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_id", DefaultGeminiModel)
	v.SetDefault("google.cloud.project_id", "")
	v.SetDefault("google.cloud.vertexai_location", "")
	v.SetDefault("langchain.model", "")
	v.SetDefault("langchain.base_url", "")
	v.SetDefault("langchain.api_key", "")
	v.SetDefault("gcp.service_account_credentials", "")

	v.SetDefault("chat.max_duration", DefaultChatMaxDuration)

	v.SetDefault("enrich.schedule", DefaultEnrichSchedule)
	v.SetDefault("enrich.batch_size", DefaultEnrichBatchSize)
	v.SetDefault("enrich.batch_delay", DefaultEnrichBatchDelay)
	v.SetDefault("enrich.save_every", DefaultEnrichSaveEvery)
	v.SetDefault("enrich.workers", DefaultEnrichWorkers)
}
