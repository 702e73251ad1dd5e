// engine/internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Search struct {
	Term     string `yaml:"term"`
	Location string `yaml:"location"`
}

type Config struct {
	App struct {
		Port     int    `yaml:"port"`
		DataDir  string `yaml:"data_dir"`
		Timezone string `yaml:"timezone"` // source-site local time, e.g. America/Los_Angeles
	} `yaml:"app"`

	Searches []Search `yaml:"searches"`

	User struct {
		Education string         `yaml:"education"`
		YearsExp  map[string]int `yaml:"years_exp"` // keyed by search term
	} `yaml:"user"`

	Keywords struct {
		Match     []string `yaml:"match"`
		Threshold int      `yaml:"threshold"`
	} `yaml:"keywords"`

	Pipeline struct {
		FetchAttempts int   `yaml:"fetch_attempts"`
		DedupStopRun  int   `yaml:"dedup_stop_run"`
		RetentionDays int   `yaml:"retention_days"`
		PurgeDays     []int `yaml:"purge_days"` // calendar days of month
		TitleMaxLen   int   `yaml:"title_max_len"`
		CompanyMaxLen int   `yaml:"company_max_len"`
	} `yaml:"pipeline"`

	Schedule struct {
		RunSpec string `yaml:"run_spec"` // cron spec; empty disables scheduled runs
	} `yaml:"schedule"`

	Email struct {
		Enabled     bool   `yaml:"enabled"`
		IMAPHost    string `yaml:"imap_host"`
		IMAPPort    int    `yaml:"imap_port"`
		Username    string `yaml:"username"`
		Mailbox     string `yaml:"mailbox"`
		MaxMessages int    `yaml:"max_messages"`
	} `yaml:"email"`

	Fetch struct {
		ReqPerSec float64 `yaml:"req_per_sec"`
		Burst     int     `yaml:"burst"`
	} `yaml:"fetch"`

	Inference struct {
		BaseURL          string   `yaml:"base_url"`
		Model            string   `yaml:"model"`
		DegreeVariations []string `yaml:"degree_variations"`
	} `yaml:"inference"`

	Notify struct {
		ChatID int64 `yaml:"chat_id"`
	} `yaml:"notify"`

	PolicyPath string `yaml:"policy_path"`

	// Secrets come from the environment or the OS keyring, never from the
	// config file.
	Secrets struct {
		TelegramToken string `yaml:"-"`
		InferenceKey  string `yaml:"-"`
	} `yaml:"-"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	overlayEnv(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 38472
	}
	if cfg.App.Timezone == "" {
		cfg.App.Timezone = "America/Los_Angeles"
	}
	if cfg.Keywords.Threshold == 0 {
		cfg.Keywords.Threshold = 2
	}
	if cfg.Pipeline.FetchAttempts == 0 {
		cfg.Pipeline.FetchAttempts = 4
	}
	if cfg.Pipeline.DedupStopRun == 0 {
		cfg.Pipeline.DedupStopRun = 5
	}
	if cfg.Pipeline.RetentionDays == 0 {
		cfg.Pipeline.RetentionDays = 29
	}
	if len(cfg.Pipeline.PurgeDays) == 0 {
		cfg.Pipeline.PurgeDays = []int{15, 28}
	}
	if cfg.Pipeline.TitleMaxLen == 0 {
		cfg.Pipeline.TitleMaxLen = 42
	}
	if cfg.Pipeline.CompanyMaxLen == 0 {
		cfg.Pipeline.CompanyMaxLen = 20
	}
	if cfg.Email.Mailbox == "" {
		cfg.Email.Mailbox = "INBOX"
	}
	if cfg.Email.IMAPPort == 0 {
		cfg.Email.IMAPPort = 993
	}
	if cfg.Email.MaxMessages == 0 {
		cfg.Email.MaxMessages = 50
	}
	if cfg.Fetch.ReqPerSec == 0 {
		cfg.Fetch.ReqPerSec = 0.3 // roughly one request per 3.3s; faster trips 429s
	}
	if cfg.Fetch.Burst == 0 {
		cfg.Fetch.Burst = 1
	}
	if cfg.PolicyPath == "" {
		cfg.PolicyPath = "filters.json"
	}
}
