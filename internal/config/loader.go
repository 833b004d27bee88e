package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoadConfig loads and validates configuration in order of precedence:
// 1. Default values
// 2. The YAML file at configPath (missing file is not an error)
// 3. BOT_* environment variables (e.g. BOT_GEMINI_API_KEY)
//
// The two secrets also bind to their conventional environment names,
// DISCORD_BOT_TOKEN / TELEGRAM_BOT_TOKEN and GEMINI_API_KEY, so the bot
// can run with nothing but those set.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names take effect when the BOT_-prefixed ones are unset.
	_ = v.BindEnv("discord.token", "BOT_DISCORD_TOKEN", "DISCORD_BOT_TOKEN")
	_ = v.BindEnv("telegram.token", "BOT_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("gemini.api_key", "BOT_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("server.port", "BOT_SERVER_PORT", "PORT")

	// A missing config file is fine; the environment can supply everything.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := validateGatewayToken(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateGatewayToken ensures the token for the selected platform is set.
// The cross-struct dependency is easier to state here than with struct tags.
func validateGatewayToken(cfg *Config) error {
	switch cfg.Gateway.Platform {
	case "discord":
		if cfg.Discord.Token == "" {
			return fmt.Errorf("discord.token is required when gateway.platform is discord")
		}
	case "telegram":
		if cfg.Telegram.Token == "" {
			return fmt.Errorf("telegram.token is required when gateway.platform is telegram")
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("gateway.platform", "discord")

	v.SetDefault("gemini.model", "gemini-2.0-flash-exp")
	v.SetDefault("gemini.temperature", 1.0)
	v.SetDefault("gemini.top_p", 0.95)
	v.SetDefault("gemini.top_k", 40)
	v.SetDefault("gemini.max_output_tokens", 8192)
	v.SetDefault("gemini.system_instruction", "請以繁體中文回應")

	v.SetDefault("imagen.location", "us-central1")
	v.SetDefault("imagen.model", "imagen-3.0-generate-002")
	v.SetDefault("imagen.count", 1)
	v.SetDefault("imagen.aspect_ratio", "1:1")
	v.SetDefault("imagen.negative_prompt", "")
	v.SetDefault("imagen.person_generation", "")
	v.SetDefault("imagen.safety_filter_level", "")
	v.SetDefault("imagen.watermark", true)

	v.SetDefault("database.path", "./jimbot.db")
	v.SetDefault("database.retention_days", 30)

	v.SetDefault("server.port", 8080)

	v.SetDefault("scheduler.tasks.log_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.log_maintenance.schedule", "0 30 4 * * *")
}
