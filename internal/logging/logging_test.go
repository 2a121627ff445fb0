package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"json to file", Config{Path: tmpDir, Level: "info", Format: "json"}, false},
		{"text to file", Config{Path: tmpDir, Level: "debug", Format: "text"}, false},
		{"invalid level", Config{Path: tmpDir, Level: "loud"}, true},
		{"stderr only", Config{Level: "warn"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if logger != nil {
				_ = logger.Close()
			}
		})
	}
}

func TestWritesDatedFile(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := New(Config{Path: tmpDir, Level: "debug"})
	if err != nil {
		t.Fatal(err)
	}
	logger.InfoCtx("task created", map[string]any{"task_id": "Cln-50Sav1-050625"})
	logger.WithComponent("orchestrator").WarnCtx("operation rejected", map[string]any{"op": "assign"})
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(tmpDir, "zooshift-"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	for _, want := range []string{`"task_id":"Cln-50Sav1-050625"`, `"component":"orchestrator"`, `"level":"warn"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log output missing %s:\n%s", want, data)
		}
	}
}

func TestRetention(t *testing.T) {
	tmpDir := t.TempDir()
	now := time.Now()
	for _, age := range []int{10, 8, 3} {
		name := filepath.Join(tmpDir, "zooshift-"+now.AddDate(0, 0, -age).Format("2006-01-02")+".log")
		if err := os.WriteFile(name, []byte("old"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	logger, err := New(Config{Path: tmpDir, RetentionDays: 7})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = logger.Close() }()

	files := logger.LogFiles()
	if len(files) != 2 {
		t.Fatalf("LogFiles() = %v, want today and the 3-day-old file", files)
	}
	if files[0] < files[1] {
		t.Error("log files not sorted newest first")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "notes.txt")); err != nil {
		t.Error("cleanup removed a non-log file")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{zl: zerolog.New(&buf).Level(zerolog.WarnLevel)}
	logger.Info("quiet")
	logger.Warn("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.InfoCtx("ignored", map[string]any{"k": "v"})
	if l.WithComponent("x").component != "x" {
		t.Error("component not set on child")
	}
	if err := l.Close(); err != nil {
		t.Error(err)
	}
}

func TestGlobalLogger(t *testing.T) {
	if err := Init(Config{Path: t.TempDir(), Level: "info"}); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(func() {
		globalMu.Lock()
		_ = globalLogger.Close()
		globalLogger = nil
		globalMu.Unlock()
	})

	if c := Component("journal"); c.component != "journal" {
		t.Errorf("Component() = %q", c.component)
	}
	if Get() != globalLogger {
		t.Error("Get() should return the initialized logger")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != "info" || cfg.Format != "json" || cfg.RetentionDays != 7 {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
	if !strings.Contains(cfg.Path, filepath.Join("zooshift", "logs")) {
		t.Errorf("default path = %q", cfg.Path)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"DEBUG", false},
		{"invalid", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			_, err := ParseLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/keeper")
	if got := ExpandPath("~/logs"); got != "/home/keeper/logs" {
		t.Errorf("ExpandPath() = %q", got)
	}
	if got := ExpandPath("/var/log"); got != "/var/log" {
		t.Errorf("ExpandPath() = %q", got)
	}
}
