// Package config handles loading and validating zooshift configuration.
// A global YAML file is merged with a per-directory zooshift.yaml, and
// ZOOSHIFT_* environment variables override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// ProjectConfigName is the per-directory config file name.
const ProjectConfigName = "zooshift.yaml"

// Defaults.
const (
	DefaultZooName           = "Zoo"
	DefaultRounds            = "0 7 * * *"
	DefaultPlanDays          = 7
	DefaultCleaningThreshold = 3
	DefaultCleanEnough       = 4
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	DefaultLogPath           = "~/.local/share/zooshift/logs"
	DefaultRetentionDays     = 7
	DefaultDBPath            = "~/.local/share/zooshift/zooshift.db"
)

// Validation errors.
var (
	ErrInvalidLogLevel  = errors.New("invalid log level: must be debug, info, warn or error")
	ErrInvalidLogFormat = errors.New("invalid log format: must be json or text")
	ErrInvalidRounds    = errors.New("invalid schedule.rounds: must be a standard cron expression")
	ErrInvalidDays      = errors.New("invalid schedule.days: must be between 1 and 366")
	ErrInvalidThreshold = errors.New("invalid cleanliness level: must be between 1 and 5")
)

// Config holds all zooshift configuration.
type Config struct {
	Zoo      ZooConfig      `mapstructure:"zoo"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	DB       DBConfig       `mapstructure:"db"`
}

// ZooConfig names the zoo and the roster it starts from.
type ZooConfig struct {
	Name   string `mapstructure:"name"`
	Roster string `mapstructure:"roster"` // YAML roster file
}

// ScheduleConfig controls care rounds and the cleanliness rules.
type ScheduleConfig struct {
	Rounds            string `mapstructure:"rounds"` // cron expression for care rounds
	Days              int    `mapstructure:"days"`   // plan window
	CleaningThreshold int    `mapstructure:"cleaning_threshold"`
	CleanEnough       int    `mapstructure:"clean_enough"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level         string `mapstructure:"level"`
	Path          string `mapstructure:"path"`
	Format        string `mapstructure:"format"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// DBConfig locates the session journal database.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// GlobalConfigPath returns ~/.config/zooshift/config.yaml.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "zooshift", "config.yaml")
}

// Load reads the global config and the project config in the working
// directory.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}
	return LoadFromPaths(cwd, GlobalConfigPath())
}

// LoadFromPaths reads globalPath (if present), merges projectDir's
// zooshift.yaml (if present) on top, applies env overrides and validates.
func LoadFromPaths(projectDir, globalPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix("ZOOSHIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if globalPath != "" && fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read global config %s: %w", globalPath, err)
		}
	}
	if projectDir != "" {
		projectPath := filepath.Join(projectDir, ProjectConfigName)
		if fileExists(projectPath) {
			v.SetConfigFile(projectPath)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("read project config %s: %w", projectPath, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	cfg.Logging.Path = expandPath(cfg.Logging.Path)
	cfg.DB.Path = expandPath(cfg.DB.Path)
	if cfg.Zoo.Roster != "" && !filepath.IsAbs(cfg.Zoo.Roster) && !strings.HasPrefix(cfg.Zoo.Roster, "~/") && projectDir != "" {
		cfg.Zoo.Roster = filepath.Join(projectDir, cfg.Zoo.Roster)
	}
	cfg.Zoo.Roster = expandPath(cfg.Zoo.Roster)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("zoo.name", DefaultZooName)
	v.SetDefault("zoo.roster", "")
	v.SetDefault("schedule.rounds", DefaultRounds)
	v.SetDefault("schedule.days", DefaultPlanDays)
	v.SetDefault("schedule.cleaning_threshold", DefaultCleaningThreshold)
	v.SetDefault("schedule.clean_enough", DefaultCleanEnough)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", DefaultLogPath)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("logging.retention_days", DefaultRetentionDays)
	v.SetDefault("db.path", DefaultDBPath)
}

// Validate checks the fields that are set. Zero values are left for the
// defaults to fill.
func Validate(cfg *Config) error {
	switch strings.ToLower(cfg.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch cfg.Logging.Format {
	case "", "json", "text":
	default:
		return ErrInvalidLogFormat
	}
	if cfg.Schedule.Rounds != "" {
		if _, err := cron.ParseStandard(cfg.Schedule.Rounds); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidRounds, cfg.Schedule.Rounds, err)
		}
	}
	if cfg.Schedule.Days < 0 || cfg.Schedule.Days > 366 {
		return ErrInvalidDays
	}
	for _, level := range []int{cfg.Schedule.CleaningThreshold, cfg.Schedule.CleanEnough} {
		if level < 0 || level > 5 {
			return ErrInvalidThreshold
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
