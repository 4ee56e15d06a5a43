// Package config loads the jobtrack configuration from YAML and the
// environment via viper, applies defaults and validates the result at
// startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/kbouqdir/jobtrack/internal/track"
)

// Config is the validated application configuration.
type Config struct {
	// LookbackMonths bounds the Gmail search window.
	LookbackMonths int `mapstructure:"lookback_months"`
	// MaxResults caps how many message IDs one search query may return.
	MaxResults int `mapstructure:"max_results"`
	// Queries are the Gmail search expressions; each is combined with
	// an after: clause derived from LookbackMonths.
	Queries []string `mapstructure:"queries"`
	// Exclusions feed the sender filter: bulk domains, addresses and
	// subject phrases.
	Exclusions []string `mapstructure:"exclusions"`
	// Keywords maps a status name to its phrase group; empty means the
	// built-in defaults.
	Keywords map[string][]string `mapstructure:"keywords"`

	OutputDir    string `mapstructure:"output_dir"`
	TopCompanies int    `mapstructure:"top_companies"`

	Google struct {
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
	} `mapstructure:"google"`

	Cache struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"cache"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`

	Telemetry struct {
		Enabled         bool   `mapstructure:"enabled"`
		MetricsExporter string `mapstructure:"metrics_exporter"`
		TracesExporter  string `mapstructure:"traces_exporter"`
		OTLPEndpoint    string `mapstructure:"otlp_endpoint"`
		OTLPInsecure    bool   `mapstructure:"otlp_insecure"`
	} `mapstructure:"telemetry"`
}

// Load reads the configuration. path may be empty, in which case the
// usual lookup locations are searched; a missing config file is not an
// error, defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("JOBTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath(filepath.Join(homeDir(), ".jobtrack"))
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// No config file found, defaults apply.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets the default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("lookback_months", 6)
	v.SetDefault("max_results", 200)
	v.SetDefault("queries", []string{
		`("application received" OR "thank you for applying")`,
		`("not selected" OR "unfortunately" OR "other candidates")`,
		`(interview OR "schedule a call" OR assessment)`,
		`(codesignal OR hackerrank)`,
	})
	v.SetDefault("exclusions", track.DefaultBulkPatterns)

	v.SetDefault("output_dir", "output")
	v.SetDefault("top_companies", 10)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", filepath.Join(userCacheDir(), "jobtrack", "messages.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.metrics_exporter", "stdout")
	v.SetDefault("telemetry.traces_exporter", "stdout")
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_insecure", false)
}

// Validate checks the configuration invariants the pipeline relies on.
func (c *Config) Validate() error {
	if c.LookbackMonths <= 0 {
		return fmt.Errorf("lookback_months must be positive, got %d", c.LookbackMonths)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive, got %d", c.MaxResults)
	}
	if len(c.Queries) == 0 {
		return fmt.Errorf("at least one search query is required")
	}
	if c.TopCompanies <= 0 {
		return fmt.Errorf("top_companies must be positive, got %d", c.TopCompanies)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if _, err := c.KeywordGroups(); err != nil {
		return err
	}
	return nil
}

// KeywordGroups converts the configured keyword map to typed status
// groups, rejecting unknown status names. An empty map yields nil so
// the classifier applies its built-in defaults.
func (c *Config) KeywordGroups() (map[track.Status][]string, error) {
	if len(c.Keywords) == 0 {
		return nil, nil
	}
	groups := make(map[track.Status][]string, len(c.Keywords))
	for name, phrases := range c.Keywords {
		status := track.Status(name)
		if !status.Valid() {
			return nil, fmt.Errorf("keywords: unknown status %q", name)
		}
		groups[status] = phrases
	}
	return groups, nil
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func userCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return "."
}
