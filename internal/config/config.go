package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/converter"
	"github.com/Veraticus/the-spice-must-convert/internal/exchangerate"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/Veraticus/the-spice-must-convert/internal/service"
	"github.com/Veraticus/the-spice-must-convert/internal/voice"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables viper maps onto keys.
const EnvPrefix = "SPICEFX"

// Config is the resolved application configuration.
type Config struct {
	Logging      LoggingConfig
	Defaults     DefaultsConfig
	Voice        VoiceConfig
	ExchangeRate ExchangeRateConfig
	Debounce     DebounceConfig
	Theme        string
}

// ExchangeRateConfig configures the rate service client.
type ExchangeRateConfig struct {
	BaseURL     string
	APIKey      string
	Retry       service.RetryOptions
	Timeout     time.Duration
	Cooldown    time.Duration
	MaxFailures uint32
}

// DefaultsConfig holds the values a session starts from.
type DefaultsConfig struct {
	From model.CurrencyCode
	To   model.CurrencyCode
	Text string
}

// DebounceConfig holds the quiet periods of the two debounce stages.
type DebounceConfig struct {
	Text   time.Duration
	Amount time.Duration
}

// VoiceConfig configures the Whisper recognizer.
type VoiceConfig struct {
	APIKey        string
	Model         string
	Language      string
	RecordCommand string
	AudioFile     string
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("exchangerate.base_url", exchangerate.DefaultBaseURL)
	v.SetDefault("exchangerate.timeout", 30*time.Second)
	v.SetDefault("exchangerate.breaker.max_failures", 5)
	v.SetDefault("exchangerate.breaker.cooldown", 30*time.Second)
	v.SetDefault("exchangerate.retry.max_attempts", 3)
	v.SetDefault("exchangerate.retry.initial_delay", 500*time.Millisecond)
	v.SetDefault("exchangerate.retry.max_delay", 5*time.Second)
	v.SetDefault("exchangerate.retry.multiplier", 2.0)

	v.SetDefault("defaults.from", "USD")
	v.SetDefault("defaults.to", "PKR")
	v.SetDefault("defaults.text", "1")

	v.SetDefault("debounce.text", converter.DefaultTextDelay)
	v.SetDefault("debounce.amount", converter.DefaultAmountDelay)

	v.SetDefault("voice.model", "whisper-1")
	v.SetDefault("voice.language", "en")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("ui.theme", "default")
}

// Load resolves the configuration from v.
// It follows this precedence:
// 1. Viper configuration (from config file, flags or SPICEFX_ env vars)
// 2. Direct environment variables (EXCHANGERATE_API_KEY, OPENAI_API_KEY)
// 3. Default values
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ExchangeRate: ExchangeRateConfig{
			BaseURL:     v.GetString("exchangerate.base_url"),
			APIKey:      v.GetString("exchangerate.api_key"),
			Timeout:     v.GetDuration("exchangerate.timeout"),
			MaxFailures: v.GetUint32("exchangerate.breaker.max_failures"),
			Cooldown:    v.GetDuration("exchangerate.breaker.cooldown"),
			Retry: service.RetryOptions{
				MaxAttempts:  v.GetInt("exchangerate.retry.max_attempts"),
				InitialDelay: v.GetDuration("exchangerate.retry.initial_delay"),
				MaxDelay:     v.GetDuration("exchangerate.retry.max_delay"),
				Multiplier:   v.GetFloat64("exchangerate.retry.multiplier"),
			},
		},
		Defaults: DefaultsConfig{
			Text: v.GetString("defaults.text"),
		},
		Debounce: DebounceConfig{
			Text:   v.GetDuration("debounce.text"),
			Amount: v.GetDuration("debounce.amount"),
		},
		Voice: VoiceConfig{
			APIKey:        v.GetString("voice.openai_api_key"),
			Model:         v.GetString("voice.model"),
			Language:      v.GetString("voice.language"),
			RecordCommand: v.GetString("voice.record_command"),
			AudioFile:     ExpandPath(v.GetString("voice.audio_file")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
		Theme: v.GetString("ui.theme"),
	}

	if cfg.ExchangeRate.APIKey == "" {
		cfg.ExchangeRate.APIKey = os.Getenv("EXCHANGERATE_API_KEY")
	}
	if cfg.Voice.APIKey == "" {
		cfg.Voice.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	from, err := model.ParseCurrencyCode(v.GetString("defaults.from"))
	if err != nil {
		return nil, fmt.Errorf("%w: defaults.from: %w", common.ErrInvalidConfig, err)
	}
	to, err := model.ParseCurrencyCode(v.GetString("defaults.to"))
	if err != nil {
		return nil, fmt.Errorf("%w: defaults.to: %w", common.ErrInvalidConfig, err)
	}
	cfg.Defaults.From = from
	cfg.Defaults.To = to

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Debounce.Text <= 0 || c.Debounce.Amount <= 0 {
		return fmt.Errorf("%w: debounce delays must be positive", common.ErrInvalidConfig)
	}
	if c.ExchangeRate.Timeout <= 0 {
		return fmt.Errorf("%w: exchangerate.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.ExchangeRate.MaxFailures == 0 {
		return fmt.Errorf("%w: exchangerate.breaker.max_failures must be at least 1", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// RequireAPIKey reports a missing exchange-rate key, which every network
// command needs.
func (c *Config) RequireAPIKey() error {
	if c.ExchangeRate.APIKey == "" {
		return fmt.Errorf("%w: set exchangerate.api_key or EXCHANGERATE_API_KEY", common.ErrMissingConfig)
	}
	return nil
}

// ClientConfig maps the exchange-rate section onto the client's options.
func (c *Config) ClientConfig() exchangerate.Config {
	return exchangerate.Config{
		BaseURL:     c.ExchangeRate.BaseURL,
		APIKey:      c.ExchangeRate.APIKey,
		Timeout:     c.ExchangeRate.Timeout,
		MaxFailures: c.ExchangeRate.MaxFailures,
		Cooldown:    c.ExchangeRate.Cooldown,
		Retry:       c.ExchangeRate.Retry,
	}
}

// WhisperConfig maps the voice section onto the recognizer's options.
func (c *Config) WhisperConfig() voice.WhisperConfig {
	return voice.WhisperConfig{
		APIKey:        c.Voice.APIKey,
		Model:         c.Voice.Model,
		Language:      c.Voice.Language,
		RecordCommand: c.Voice.RecordCommand,
		AudioFile:     c.Voice.AudioFile,
	}
}

// ConverterDefaults returns the session defaults for the converter.
func (c *Config) ConverterDefaults() converter.Defaults {
	return converter.Defaults{
		From: c.Defaults.From,
		To:   c.Defaults.To,
		Text: c.Defaults.Text,
	}
}
