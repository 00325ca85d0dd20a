package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr string `json:"listen_addr" env:"EVOLVE_LISTEN_ADDR"`
	DBPath     string `json:"db_path" env:"EVOLVE_DB_PATH"`
	AdminKey   string `json:"admin_key" env:"EVOLVE_ADMIN_KEY"`

	// RequireAgeGate makes the HTTP layer refuse /message until the session
	// has called /verify_age. The engine itself never checks it.
	RequireAgeGate bool `json:"require_age_gate" env:"EVOLVE_REQUIRE_AGE_GATE"`

	OpenAI  OpenAIConfig `json:"openai"`
	Webhook string       `json:"webhook_url" env:"EVOLVE_WEBHOOK_URL"`

	// DigestCron schedules the daily activity digest emitted by the serve
	// loop, in standard cron syntax.
	DigestCron string `json:"digest_cron" env:"EVOLVE_DIGEST_CRON"`
}

type OpenAIConfig struct {
	APIKey  string `json:"api_key" env:"EVOLVE_OPENAI_API_KEY"`
	APIBase string `json:"api_base" env:"EVOLVE_OPENAI_API_BASE"`
	Model   string `json:"model" env:"EVOLVE_OPENAI_MODEL"`
}

func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":8080",
		DigestCron: "0 9 * * *",
	}
}

// Load builds the config from defaults, an optional JSON file, and the
// environment, in that order of precedence (environment wins).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
