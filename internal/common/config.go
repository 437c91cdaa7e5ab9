// -----------------------------------------------------------------------
// Configuration - layered TOML + environment + CLI-flag overrides
// -----------------------------------------------------------------------

package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// NCBIConfig holds the Entrez/NCBI service contact details and limits.
type NCBIConfig struct {
	Emails     []string `toml:"emails"`
	APIKey     string   `toml:"api_key"`
	BaseURL    string   `toml:"base_url"`
	TimeoutSec int      `toml:"timeout_seconds"`
}

// RateLimit returns the configured requests/second ceiling: 10 with an
// API key configured, else 3, per the NCBI Entrez usage contract.
func (n NCBIConfig) RateLimit() int {
	if strings.TrimSpace(n.APIKey) != "" {
		return 10
	}
	return 3
}

func (n NCBIConfig) Timeout() time.Duration {
	if n.TimeoutSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(n.TimeoutSec) * time.Second
}

// BatchConfig holds the orchestrator's tunables.
type BatchConfig struct {
	Workers    int    `toml:"workers"`
	QueueDepth int    `toml:"queue_depth"`
	Retries    int    `toml:"retries"`
	OutputDir  string `toml:"output_dir"`
	Format     string `toml:"format"` // "per-item" | "stream"
	Schedule   string `toml:"schedule"`
}

// LoggingConfig mirrors the reference stack's logging section.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Output     []string `toml:"output"`
	TimeFormat string   `toml:"time_format"`
}

// Config is the top-level, TOML-deserializable application configuration.
type Config struct {
	NCBI    NCBIConfig    `toml:"ncbi"`
	Batch   BatchConfig   `toml:"batch"`
	Logging LoggingConfig `toml:"logging"`
}

// defaultEmailPool is the built-in credential pool used when neither a
// config file nor the EMAILS environment variable supplies one.
var defaultEmailPool = []string{"pmcgrab-anonymous@example.com"}

// NewDefaultConfig returns a Config populated with the toolkit's defaults,
// matching the reference stack's NewDefaultConfig builder pattern.
func NewDefaultConfig() *Config {
	return &Config{
		NCBI: NCBIConfig{
			Emails:     append([]string(nil), defaultEmailPool...),
			BaseURL:    "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
			TimeoutSec: 60,
		},
		Batch: BatchConfig{
			Workers:    10,
			QueueDepth: 100,
			Retries:    3,
			OutputDir:  "./pmc_output",
			Format:     "per-item",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"console"},
			TimeFormat: "15:04:05.000",
		},
	}
}

// LoadFromFile reads a TOML config file and merges it onto NewDefaultConfig,
// following the reference stack's defaults -> file -> env -> flags order.
func LoadFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	fileCfg := &Config{}
	if err := toml.Unmarshal(data, fileCfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	mergeConfig(cfg, fileCfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

// mergeConfig overlays non-zero fields of src onto dst, matching the
// reference stack's LoadFromFiles multi-file merge semantics.
func mergeConfig(dst, src *Config) {
	if len(src.NCBI.Emails) > 0 {
		dst.NCBI.Emails = src.NCBI.Emails
	}
	if src.NCBI.APIKey != "" {
		dst.NCBI.APIKey = src.NCBI.APIKey
	}
	if src.NCBI.BaseURL != "" {
		dst.NCBI.BaseURL = src.NCBI.BaseURL
	}
	if src.NCBI.TimeoutSec != 0 {
		dst.NCBI.TimeoutSec = src.NCBI.TimeoutSec
	}
	if src.Batch.Workers != 0 {
		dst.Batch.Workers = src.Batch.Workers
	}
	if src.Batch.QueueDepth != 0 {
		dst.Batch.QueueDepth = src.Batch.QueueDepth
	}
	if src.Batch.Retries != 0 {
		dst.Batch.Retries = src.Batch.Retries
	}
	if src.Batch.OutputDir != "" {
		dst.Batch.OutputDir = src.Batch.OutputDir
	}
	if src.Batch.Format != "" {
		dst.Batch.Format = src.Batch.Format
	}
	if src.Batch.Schedule != "" {
		dst.Batch.Schedule = src.Batch.Schedule
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if len(src.Logging.Output) > 0 {
		dst.Logging.Output = src.Logging.Output
	}
	if src.Logging.TimeFormat != "" {
		dst.Logging.TimeFormat = src.Logging.TimeFormat
	}
}

// applyEnvOverrides reads the environment variables named in the external
// interface contract (EMAILS, API_KEY, TIMEOUT, RETRIES), the highest
// priority layer short of explicit CLI flags.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EMAILS"); v != "" {
		var emails []string
		for _, e := range strings.Split(v, ",") {
			e = strings.TrimSpace(e)
			if e != "" {
				emails = append(emails, e)
			}
		}
		if len(emails) > 0 {
			cfg.NCBI.Emails = emails
		}
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.NCBI.APIKey = v
	}
	if v := os.Getenv("TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NCBI.TimeoutSec = n
		}
	}
	if v := os.Getenv("RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Batch.Retries = n
		}
	}
	if v := os.Getenv("PMCGRAB_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Batch.Workers = n
		}
	}
	if v := os.Getenv("PMCGRAB_OUTPUT_DIR"); v != "" {
		cfg.Batch.OutputDir = v
	}
	if v := os.Getenv("PMCGRAB_FORMAT"); v != "" {
		cfg.Batch.Format = v
	}
	if v := os.Getenv("PMCGRAB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// ApplyFlagOverrides layers explicit CLI flag values on top of the merged
// config, the highest-priority layer, matching the reference stack's
// ApplyFlagOverrides(config, port, host) pattern.
func ApplyFlagOverrides(cfg *Config, workers int, outputDir, format string) {
	if workers > 0 {
		cfg.Batch.Workers = workers
	}
	if outputDir != "" {
		cfg.Batch.OutputDir = outputDir
	}
	if format != "" {
		cfg.Batch.Format = format
	}
}

// ValidateJobSchedule validates a cron expression for the optional
// --schedule recurring-run flag, adapted from the reference stack's
// ValidateJobSchedule with the minimum interval raised from 5 minutes to
// 1 hour: NCBI batch pulls should not be scheduled more tightly than that.
func ValidateJobSchedule(schedule string) error {
	if schedule == "" {
		return nil
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	now := time.Unix(0, 0).UTC()
	first := sched.Next(now)
	second := sched.Next(first)
	if second.Sub(first) < time.Hour {
		return fmt.Errorf("schedule %q fires more often than once per hour", schedule)
	}
	return nil
}

// Validate checks invariants that must hold before a batch run starts.
func (c *Config) Validate() error {
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive")
	}
	if c.Batch.Format != "per-item" && c.Batch.Format != "stream" {
		return fmt.Errorf("batch.format must be \"per-item\" or \"stream\", got %q", c.Batch.Format)
	}
	if len(c.NCBI.Emails) == 0 {
		return fmt.Errorf("at least one NCBI contact email must be configured")
	}
	return ValidateJobSchedule(c.Batch.Schedule)
}

// DeepCloneConfig deep-copies slice fields so independent batch runs
// (e.g. under the --schedule ticker loop) cannot observe each other's
// mutations, mirroring the reference stack's DeepCloneConfig.
func DeepCloneConfig(c *Config) *Config {
	clone := *c
	clone.NCBI.Emails = append([]string(nil), c.NCBI.Emails...)
	clone.Logging.Output = append([]string(nil), c.Logging.Output...)
	return &clone
}
