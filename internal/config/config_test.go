package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SOFTDESK_ADDR", "SOFTDESK_TOKEN_TTL", "SOFTDESK_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestResolveDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("SOFTDESK_PATH", dir)

	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !cfg.EnvVarSet {
		t.Error("EnvVarSet = false, want true")
	}
	if cfg.DBPath != filepath.Join(dir, "softdesk.db") {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Addr != DefaultAddr || cfg.TokenTTL != DefaultTokenTTL || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("defaults = %q %s %q", cfg.Addr, cfg.TokenTTL, cfg.LogLevel)
	}
	if cfg.Level() != zerolog.InfoLevel {
		t.Errorf("Level() = %v, want info", cfg.Level())
	}
}

func TestResolveFallsBackToWorkingDir(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOFTDESK_PATH", "")
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.EnvVarSet {
		t.Error("EnvVarSet = true, want false")
	}
	if filepath.Base(cfg.Dir) != ".softdesk" {
		t.Errorf("Dir = %q, want .softdesk suffix", cfg.Dir)
	}
}

func TestResolveLayering(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("SOFTDESK_PATH", dir)

	toml := "addr = \":9000\"\ntoken_ttl = \"2h\"\nlog_level = \"debug\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("writing config.toml: %v", err)
	}

	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.TokenTTL != 2*time.Hour || cfg.Level() != zerolog.DebugLevel {
		t.Errorf("file values = %q %s %q", cfg.Addr, cfg.TokenTTL, cfg.LogLevel)
	}

	t.Setenv("SOFTDESK_ADDR", "127.0.0.1:7000")
	t.Setenv("SOFTDESK_LOG_LEVEL", "WARN")
	cfg, err = Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7000" {
		t.Errorf("Addr = %q, want env override", cfg.Addr)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL = %s, want file value", cfg.TokenTTL)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestResolveRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad ttl", "SOFTDESK_TOKEN_TTL", "forever"},
		{"negative ttl", "SOFTDESK_TOKEN_TTL", "-1h"},
		{"bad level", "SOFTDESK_LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("SOFTDESK_PATH", t.TempDir())
			t.Setenv(tt.key, tt.val)
			if _, err := Resolve(); err == nil {
				t.Errorf("Resolve accepted %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("SOFTDESK_PATH", dir)

	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	cfg.Addr = ":8123"
	cfg.TokenTTL = 90 * time.Minute
	if err := cfg.WriteFile(); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	if !strings.Contains(string(data), `addr = ":8123"`) {
		t.Errorf("config.toml = %s", data)
	}

	again, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if again.Addr != ":8123" || again.TokenTTL != 90*time.Minute {
		t.Errorf("reloaded = %q %s", again.Addr, again.TokenTTL)
	}
}

func TestExists(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("SOFTDESK_PATH", dir)

	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	ok, err := cfg.Exists()
	if err != nil || ok {
		t.Fatalf("Exists() = %v, %v before init", ok, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(cfg.DBPath, nil, 0o644); err != nil {
		t.Fatalf("touch db: %v", err)
	}
	ok, err = cfg.Exists()
	if err != nil || !ok {
		t.Errorf("Exists() = %v, %v after init", ok, err)
	}
}

func TestDefaultUsername(t *testing.T) {
	if DefaultUsername() == "" {
		t.Error("DefaultUsername() is empty")
	}
}
