package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment variables read into the config,
// e.g. HIPO_STORAGE__DRIVER overrides storage.driver.
const envPrefix = "HIPO_"

// Config is the full runtime configuration. Values come from defaults, an
// optional YAML file, HIPO_* environment variables, and flags, in that
// order of precedence (flags win).
type Config struct {
	Listen string `koanf:"listen" validate:"required"`

	Storage struct {
		Driver string `koanf:"driver" validate:"oneof=badger sqlite"`
		Path   string `koanf:"path" validate:"required"`
	} `koanf:"storage"`

	OpenAI struct {
		Model string `koanf:"model" validate:"required"`
	} `koanf:"openai"`

	Review struct {
		DailyLimit int    `koanf:"daily_limit" validate:"min=1"`
		ReportDay  string `koanf:"report_day" validate:"oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	} `koanf:"review"`

	Import struct {
		ReposDir string `koanf:"repos_dir" validate:"required"`
	} `koanf:"import"`

	Log struct {
		Level string `koanf:"level" validate:"oneof=debug info warn error"`
	} `koanf:"log"`
}

// ReportWeekday resolves the configured report day name.
func (c *Config) ReportWeekday() time.Weekday {
	days := map[string]time.Weekday{
		"Sunday":    time.Sunday,
		"Monday":    time.Monday,
		"Tuesday":   time.Tuesday,
		"Wednesday": time.Wednesday,
		"Thursday":  time.Thursday,
		"Friday":    time.Friday,
		"Saturday":  time.Saturday,
	}
	return days[c.Review.ReportDay]
}

// Flags registers every configurable setting on the given flag set. Flag
// defaults double as config defaults via the posflag provider.
func Flags(f *pflag.FlagSet) {
	f.String("config", "", "path to a YAML config file")
	f.String("listen", ":8494", "address the web UI listens on")
	f.String("storage.driver", "badger", "storage driver: badger or sqlite")
	f.String("storage.path", "hipo.data", "storage location (directory for badger, file for sqlite)")
	f.String("openai.model", "gpt-4o-mini", "model used for metadata and insight generation")
	f.Int("review.daily_limit", 3, "maximum cards per review session")
	f.String("review.report_day", "Sunday", "weekday the weekly report unlocks")
	f.String("import.repos_dir", "repos", "directory git note sources are checked out into")
	f.String("log.level", "info", "log level: debug, info, warn or error")
}

// Load merges the config sources and validates the result.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path, _ := f.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Double underscore separates nesting so single underscores survive in
	// key names: HIPO_REVIEW__DAILY_LIMIT=5 -> review.daily_limit.
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	// Changed flags override everything; defaults fill remaining gaps.
	if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flag config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// APIKey returns the OpenAI API key from the environment. It is kept out of
// the config file on purpose.
func APIKey() string {
	return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
}
