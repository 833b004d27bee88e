// Package config manages application configuration from default values,
// an optional config.yaml file, and BOT_-prefixed environment variables.
package config

// Config defines the application configuration parameters for all components
// of Jimbot: logging, chat gateway, Gemini text generation, Imagen image
// generation, database, readiness server, and scheduled tasks.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Imagen    ImagenConfig    `mapstructure:"imagen"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// GatewayConfig selects which chat platform the bot connects to.
type GatewayConfig struct {
	Platform string `mapstructure:"platform" validate:"oneof=discord telegram"`
}

// DiscordConfig holds the Discord gateway credentials.
type DiscordConfig struct {
	Token string `mapstructure:"token"`
}

// TelegramConfig holds the Telegram gateway credentials.
type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

// GeminiConfig holds settings for the Gemini text-generation client.
// The sampling parameters mirror the generation config sent with every
// request: temperature, top-p, top-k, and the output token cap.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key" validate:"required"`
	Model             string  `mapstructure:"model" validate:"required"`
	Temperature       float32 `mapstructure:"temperature" validate:"min=0,max=2"`
	TopP              float32 `mapstructure:"top_p" validate:"min=0,max=1"`
	TopK              float32 `mapstructure:"top_k" validate:"min=1"`
	MaxOutputTokens   int32   `mapstructure:"max_output_tokens" validate:"min=1"`
	SystemInstruction string  `mapstructure:"system_instruction" validate:"required"`
}

// ImagenConfig holds settings for the Imagen image-generation client on
// Vertex AI. When Project is empty the image pipeline is disabled and
// image requests fail immediately without a network call.
//
// NegativePrompt, PersonGeneration, and SafetyFilterLevel default to empty
// strings, which leaves the service-side defaults in effect.
type ImagenConfig struct {
	Project           string `mapstructure:"project"`
	Location          string `mapstructure:"location"`
	Model             string `mapstructure:"model" validate:"required"`
	Count             int32  `mapstructure:"count" validate:"min=1,max=8"`
	AspectRatio       string `mapstructure:"aspect_ratio" validate:"required"`
	NegativePrompt    string `mapstructure:"negative_prompt"`
	PersonGeneration  string `mapstructure:"person_generation"`
	SafetyFilterLevel string `mapstructure:"safety_filter_level"`
	Watermark         bool   `mapstructure:"watermark"`
}

// DatabaseConfig holds settings for the exchange log database.
type DatabaseConfig struct {
	Path          string `mapstructure:"path" validate:"required"`
	RetentionDays int    `mapstructure:"retention_days" validate:"min=1"`
}

// ServerConfig holds settings for the readiness HTTP server.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// TaskConfig defines one scheduled task entry.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}
