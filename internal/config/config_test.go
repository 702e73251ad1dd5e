package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	var cfg Config
	cfg.Searches = []Search{{Term: "engineer", Location: "Austin"}}
	cfg.Keywords.Match = []string{"go"}
	applyDefaults(&cfg)
	return cfg
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
searches:
  - term: engineer
    location: Austin
keywords:
  match: [go, sql]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 38472, cfg.App.Port)
	assert.Equal(t, "America/Los_Angeles", cfg.App.Timezone)
	assert.Equal(t, 2, cfg.Keywords.Threshold)
	assert.Equal(t, 4, cfg.Pipeline.FetchAttempts)
	assert.Equal(t, 5, cfg.Pipeline.DedupStopRun)
	assert.Equal(t, 29, cfg.Pipeline.RetentionDays)
	assert.Equal(t, []int{15, 28}, cfg.Pipeline.PurgeDays)
	assert.Equal(t, 42, cfg.Pipeline.TitleMaxLen)
	assert.Equal(t, 20, cfg.Pipeline.CompanyMaxLen)
	assert.Equal(t, "INBOX", cfg.Email.Mailbox)
	assert.Equal(t, 993, cfg.Email.IMAPPort)
	assert.Equal(t, "filters.json", cfg.PolicyPath)
}

func TestLoadExplicitValuesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: 9999
searches:
  - term: engineer
    location: Austin
keywords:
  threshold: 3
  match: [go]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.App.Port)
	assert.Equal(t, 3, cfg.Keywords.Threshold)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.App.Port = 0 }, "app.port"},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }, "app.timezone"},
		{"no searches", func(c *Config) { c.Searches = nil }, "searches"},
		{"blank term", func(c *Config) { c.Searches[0].Term = " " }, "term"},
		{"zero threshold", func(c *Config) { c.Keywords.Threshold = 0 }, "threshold"},
		{"no keywords", func(c *Config) { c.Keywords.Match = nil }, "keywords.match"},
		{"purge day out of range", func(c *Config) { c.Pipeline.PurgeDays = []int{29} }, "purge_days"},
		{"zero attempts", func(c *Config) { c.Pipeline.FetchAttempts = 0 }, "fetch_attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := validConfig()
	cfg.App.Port = 12345

	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12345, loaded.App.Port)
	assert.Equal(t, cfg.Searches, loaded.Searches)

	// Saving again keeps a .bak of the previous version.
	cfg.App.Port = 23456
	require.NoError(t, SaveAtomic(path, cfg))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := validConfig()
	cfg.Searches = nil

	require.Error(t, SaveAtomic(path, cfg))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "invalid config must not be written")
}

func TestEnsureUserConfigSeedsOnce(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "default.yml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("app:\n  port: 1111\n"), 0o644))

	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "config.yml"), userPath)

	// User edits survive a second bootstrap.
	require.NoError(t, os.WriteFile(userPath, []byte("app:\n  port: 2222\n"), 0o644))
	again, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, userPath, again)

	b, err := os.ReadFile(userPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "2222")
}
