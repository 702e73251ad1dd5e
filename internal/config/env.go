package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads a .env file into the process environment if one exists.
// Missing files are fine; real deployments set the variables directly.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// overlayEnv pulls secrets and operational overrides out of the environment.
// Env always wins over the yaml file.
func overlayEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Secrets.TelegramToken = v
	}
	if v := os.Getenv("INFERENCE_API_TOKEN"); v != "" {
		cfg.Secrets.InferenceKey = v
	}
	if v := os.Getenv("JOBSCOUT_POLICY_PATH"); v != "" {
		cfg.PolicyPath = v
	}
	if v := os.Getenv("JOBSCOUT_IMAP_USERNAME"); v != "" {
		cfg.Email.Username = v
	}
}
