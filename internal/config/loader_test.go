package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `
discord:
  token: test-discord-token
gemini:
  api_key: test-api-key
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Gateway.Platform != "discord" {
		t.Errorf("default platform = %q, want %q", cfg.Gateway.Platform, "discord")
	}
	if cfg.Gemini.Model != "gemini-2.0-flash-exp" {
		t.Errorf("default model = %q, want %q", cfg.Gemini.Model, "gemini-2.0-flash-exp")
	}
	if cfg.Gemini.Temperature != 1.0 {
		t.Errorf("default temperature = %v, want 1.0", cfg.Gemini.Temperature)
	}
	if cfg.Gemini.TopP != 0.95 {
		t.Errorf("default top_p = %v, want 0.95", cfg.Gemini.TopP)
	}
	if cfg.Gemini.TopK != 40 {
		t.Errorf("default top_k = %v, want 40", cfg.Gemini.TopK)
	}
	if cfg.Gemini.MaxOutputTokens != 8192 {
		t.Errorf("default max_output_tokens = %v, want 8192", cfg.Gemini.MaxOutputTokens)
	}
	if cfg.Gemini.SystemInstruction != "請以繁體中文回應" {
		t.Errorf("default system_instruction = %q", cfg.Gemini.SystemInstruction)
	}
	if cfg.Imagen.Count != 1 || cfg.Imagen.AspectRatio != "1:1" {
		t.Errorf("imagen defaults = count %d, aspect %q, want 1 and 1:1", cfg.Imagen.Count, cfg.Imagen.AspectRatio)
	}
	if !cfg.Imagen.Watermark {
		t.Error("default watermark = false, want true")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.RetentionDays != 30 {
		t.Errorf("default retention_days = %d, want 30", cfg.Database.RetentionDays)
	}
}

func TestLoadConfigMissingAPIKey(t *testing.T) {
	path := writeConfigFile(t, `
discord:
  token: test-discord-token
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig succeeded without gemini.api_key, want error")
	}
}

func TestLoadConfigMissingGatewayToken(t *testing.T) {
	path := writeConfigFile(t, `
gateway:
  platform: telegram
gemini:
  api_key: test-api-key
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig succeeded without telegram.token, want error")
	}
	if !strings.Contains(err.Error(), "telegram.token") {
		t.Errorf("error %q does not mention telegram.token", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfigFile(t, `
discord:
  token: test-discord-token
gemini:
  api_key: test-api-key
  model: gemini-2.5-pro
imagen:
  project: my-project
  count: 4
  aspect_ratio: "16:9"
server:
  port: 9090
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("model = %q, want gemini-2.5-pro", cfg.Gemini.Model)
	}
	if cfg.Imagen.Project != "my-project" || cfg.Imagen.Count != 4 || cfg.Imagen.AspectRatio != "16:9" {
		t.Errorf("imagen overrides not applied: %+v", cfg.Imagen)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
}

func TestLoadConfigInvalidPlatform(t *testing.T) {
	path := writeConfigFile(t, `
gateway:
  platform: slack
gemini:
  api_key: test-api-key
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig accepted unknown platform, want error")
	}
}
