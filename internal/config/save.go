package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if _, err := time.LoadLocation(cfg.App.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("app.timezone %q is not a valid tz name", cfg.App.Timezone))
	}

	if len(cfg.Searches) == 0 {
		errs = append(errs, "searches must have at least 1 entry")
	}
	for i, s := range cfg.Searches {
		if strings.TrimSpace(s.Term) == "" {
			errs = append(errs, fmt.Sprintf("searches[%d].term is required", i))
		}
		if strings.TrimSpace(s.Location) == "" {
			errs = append(errs, fmt.Sprintf("searches[%d].location is required", i))
		}
	}

	if cfg.Keywords.Threshold < 1 {
		errs = append(errs, "keywords.threshold must be >= 1")
	}
	if len(cfg.Keywords.Match) == 0 {
		errs = append(errs, "keywords.match must have at least 1 term")
	}
	for i, k := range cfg.Keywords.Match {
		if k == "" {
			errs = append(errs, fmt.Sprintf("keywords.match[%d] cannot be empty", i))
		}
	}

	if cfg.Pipeline.FetchAttempts < 1 {
		errs = append(errs, "pipeline.fetch_attempts must be >= 1")
	}
	if cfg.Pipeline.DedupStopRun < 1 {
		errs = append(errs, "pipeline.dedup_stop_run must be >= 1")
	}
	if cfg.Pipeline.RetentionDays < 1 {
		errs = append(errs, "pipeline.retention_days must be >= 1")
	}
	for i, d := range cfg.Pipeline.PurgeDays {
		if d < 1 || d > 28 {
			// 29..31 would silently skip short months
			errs = append(errs, fmt.Sprintf("pipeline.purge_days[%d] must be 1..28", i))
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
