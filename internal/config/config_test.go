package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"empty", Config{}, nil},
		{"valid", Config{
			Schedule: ScheduleConfig{Rounds: "0 7,16 * * *", Days: 14, CleaningThreshold: 3, CleanEnough: 4},
			Logging:  LoggingConfig{Level: "DEBUG", Format: "text"},
		}, nil},
		{"log level", Config{Logging: LoggingConfig{Level: "verbose"}}, ErrInvalidLogLevel},
		{"log format", Config{Logging: LoggingConfig{Format: "xml"}}, ErrInvalidLogFormat},
		{"rounds", Config{Schedule: ScheduleConfig{Rounds: "every morning"}}, ErrInvalidRounds},
		{"days", Config{Schedule: ScheduleConfig{Days: -1}}, ErrInvalidDays},
		{"threshold", Config{Schedule: ScheduleConfig{CleaningThreshold: 6}}, ErrInvalidThreshold},
		{"clean enough", Config{Schedule: ScheduleConfig{CleanEnough: -2}}, ErrInvalidThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		input    string
		expected string
	}{
		{"~/zoo.db", filepath.Join(home, "zoo.db")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}
	for _, tc := range tests {
		if got := expandPath(tc.input); got != tc.expected {
			t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestLoadFromPaths_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cfg, err := LoadFromPaths(tmpDir, filepath.Join(tmpDir, "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPaths error: %v", err)
	}
	if cfg.Zoo.Name != DefaultZooName {
		t.Errorf("Zoo.Name = %q", cfg.Zoo.Name)
	}
	if cfg.Schedule.Rounds != DefaultRounds || cfg.Schedule.Days != DefaultPlanDays {
		t.Errorf("Schedule = %+v", cfg.Schedule)
	}
	if cfg.Schedule.CleaningThreshold != DefaultCleaningThreshold || cfg.Schedule.CleanEnough != DefaultCleanEnough {
		t.Errorf("Schedule = %+v", cfg.Schedule)
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if want := filepath.Join(tmpDir, ".local", "share", "zooshift", "zooshift.db"); cfg.DB.Path != want {
		t.Errorf("DB.Path = %q, want %q", cfg.DB.Path, want)
	}
}

func TestLoadFromPaths_WithYAML(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
zoo:
  name: Riverside Zoo
  roster: roster.yaml
schedule:
  rounds: "30 6 * * 1-5"
  cleaning_threshold: 2
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(tmpDir, ProjectConfigName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPaths(tmpDir, filepath.Join(tmpDir, "nonexistent", "global.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPaths error: %v", err)
	}
	if cfg.Zoo.Name != "Riverside Zoo" {
		t.Errorf("Zoo.Name = %q", cfg.Zoo.Name)
	}
	if cfg.Zoo.Roster != filepath.Join(tmpDir, "roster.yaml") {
		t.Errorf("Zoo.Roster = %q, want it resolved against the project dir", cfg.Zoo.Roster)
	}
	if cfg.Schedule.Rounds != "30 6 * * 1-5" || cfg.Schedule.CleaningThreshold != 2 {
		t.Errorf("Schedule = %+v", cfg.Schedule)
	}
	if cfg.Schedule.CleanEnough != DefaultCleanEnough {
		t.Errorf("CleanEnough = %d, want default", cfg.Schedule.CleanEnough)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadFromPaths_MergeConfigs(t *testing.T) {
	tmpDir := t.TempDir()
	globalConfig := filepath.Join(tmpDir, "global", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(globalConfig), 0755); err != nil {
		t.Fatal(err)
	}
	globalContent := `
zoo:
  name: City Zoo
schedule:
  days: 3
logging:
  level: info
`
	if err := os.WriteFile(globalConfig, []byte(globalContent), 0644); err != nil {
		t.Fatal(err)
	}

	projectDir := filepath.Join(tmpDir, "project")
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		t.Fatal(err)
	}
	projectContent := `
schedule:
  days: 10
logging:
  level: warn
`
	if err := os.WriteFile(filepath.Join(projectDir, ProjectConfigName), []byte(projectContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPaths(projectDir, globalConfig)
	if err != nil {
		t.Fatalf("LoadFromPaths error: %v", err)
	}
	if cfg.Schedule.Days != 10 {
		t.Errorf("Schedule.Days = %d, want 10 (project override)", cfg.Schedule.Days)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn (project override)", cfg.Logging.Level)
	}
	if cfg.Zoo.Name != "City Zoo" {
		t.Errorf("Zoo.Name = %q, want City Zoo (from global)", cfg.Zoo.Name)
	}
}

func TestLoadFromPaths_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("ZOOSHIFT_SCHEDULE_CLEAN_ENOUGH", "5")
	t.Setenv("ZOOSHIFT_ZOO_NAME", "Night Zoo")

	cfg, err := LoadFromPaths(tmpDir, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Schedule.CleanEnough != 5 {
		t.Errorf("CleanEnough = %d, want 5 from env", cfg.Schedule.CleanEnough)
	}
	if cfg.Zoo.Name != "Night Zoo" {
		t.Errorf("Zoo.Name = %q", cfg.Zoo.Name)
	}
}

func TestLoadFromPaths_Invalid(t *testing.T) {
	tmpDir := t.TempDir()
	content := "logging:\n  format: xml\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ProjectConfigName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPaths(tmpDir, ""); !errors.Is(err, ErrInvalidLogFormat) {
		t.Errorf("err = %v, want ErrInvalidLogFormat", err)
	}
}
