package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/pfrederiksen/kremlin-meetings/internal/filter"
	"github.com/pfrederiksen/kremlin-meetings/internal/output"
	"github.com/pfrederiksen/kremlin-meetings/internal/scraper"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvBaseURL, EnvOutputDir, EnvLogFile, EnvTargetYear} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("embedded defaults should validate: %v", err)
	}

	if cfg.MaxPages != 13 {
		t.Errorf("MaxPages = %d, want 13", cfg.MaxPages)
	}
	if cfg.TargetYear != 2024 {
		t.Errorf("TargetYear = %d, want 2024", cfg.TargetYear)
	}
	if len(cfg.Exclude) != len(filter.DefaultExclude) {
		t.Errorf("Exclude = %v, want %v", cfg.Exclude, filter.DefaultExclude)
	}
	for i, keyword := range filter.DefaultExclude {
		if i < len(cfg.Exclude) && cfg.Exclude[i] != keyword {
			t.Errorf("Exclude[%d] = %q, want %q", i, cfg.Exclude[i], keyword)
		}
	}
	if len(cfg.Include) != 0 {
		t.Errorf("Include = %v, want empty", cfg.Include)
	}
	if cfg.BaseURL() != scraper.EnglishBaseURL {
		t.Errorf("BaseURL() = %q", cfg.BaseURL())
	}
	if cfg.DelayMin() != time.Second || cfg.DelayMax() != 3*time.Second {
		t.Errorf("delays = %v..%v, want 1s..3s", cfg.DelayMin(), cfg.DelayMax())
	}
	if cfg.Format() != output.FormatCSV || cfg.Columns() != output.ColumnsFull {
		t.Errorf("output = %s/%s, want csv/full", cfg.Format(), cfg.Columns())
	}

	want := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	if !cfg.Boundary().Equal(want) {
		t.Errorf("Boundary() = %v, want %v", cfg.Boundary(), want)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
site:
  locale: ru
target_year: 2025
max_pages: 5
output:
  format: json
exclude:
  - greeting
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BaseURL() != scraper.RussianBaseURL {
		t.Errorf("BaseURL() = %q, want the Russian listing", cfg.BaseURL())
	}
	if cfg.Layout().Name != "ru" {
		t.Errorf("Layout() = %q, want ru", cfg.Layout().Name)
	}
	if cfg.TargetYear != 2025 || cfg.MaxPages != 5 {
		t.Errorf("TargetYear = %d, MaxPages = %d", cfg.TargetYear, cfg.MaxPages)
	}
	if cfg.Format() != output.FormatJSON {
		t.Errorf("Format() = %s, want json", cfg.Format())
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "greeting" {
		t.Errorf("Exclude = %v, want [greeting]", cfg.Exclude)
	}
	// Keys absent from the file keep their defaults
	if cfg.Delay.Max != "3s" || len(cfg.UserAgents) == 0 {
		t.Errorf("defaults lost: delay.max = %q, agents = %d", cfg.Delay.Max, len(cfg.UserAgents))
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	clearEnv(t)
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	if _, err := os.Stat(DefaultConfigPath()); err == nil {
		t.Skip("a config file exists at the default path")
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") with no file: %v", err)
	}
	if cfg.MaxPages != 13 {
		t.Errorf("MaxPages = %d, want default 13", cfg.MaxPages)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseURL, "https://example.com/news")
	t.Setenv(EnvOutputDir, "/tmp/out")
	t.Setenv(EnvLogFile, "/tmp/scraper.log")
	t.Setenv(EnvTargetYear, "2023")

	cfg, err := Load(writeConfig(t, "max_pages: 2\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BaseURL() != "https://example.com/news" {
		t.Errorf("BaseURL() = %q", cfg.BaseURL())
	}
	if cfg.Output.Dir != "/tmp/out" || cfg.Log.File != "/tmp/scraper.log" {
		t.Errorf("Output.Dir = %q, Log.File = %q", cfg.Output.Dir, cfg.Log.File)
	}
	if cfg.TargetYear != 2023 {
		t.Errorf("TargetYear = %d, want 2023", cfg.TargetYear)
	}
}

func TestLoad_InvalidEnvYear(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTargetYear, "last year")

	if _, err := Load(writeConfig(t, "")); err == nil {
		t.Error("expected error for non-numeric target year")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad scheme", func(c *Config) { c.Site.BaseURL = "ftp://kremlin.ru" }},
		{"no host", func(c *Config) { c.Site.BaseURL = "http://" }},
		{"unknown locale", func(c *Config) { c.Site.Locale = "de" }},
		{"zero pages", func(c *Config) { c.MaxPages = 0 }},
		{"too many pages", func(c *Config) { c.MaxPages = 14 }},
		{"min above max", func(c *Config) { c.Delay.Min = "5s"; c.Delay.Max = "1s" }},
		{"bad delay", func(c *Config) { c.Delay.Min = "soon" }},
		{"zero timeout", func(c *Config) { c.Timeout = "0s" }},
		{"no user agents", func(c *Config) { c.UserAgents = nil }},
		{"blank user agent", func(c *Config) { c.UserAgents = []string{""} }},
		{"unknown format", func(c *Config) { c.Output.Format = "xlsx" }},
		{"unknown columns", func(c *Config) { c.Output.Columns = "wide" }},
		{"negative table rows", func(c *Config) { c.Output.TableRows = -1 }},
		{"implausible year", func(c *Config) { c.TargetYear = 24 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Defaults()
			if err != nil {
				t.Fatal(err)
			}
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvOutputDir)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(EnvOutputDir+"=/from/dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv(EnvOutputDir) })

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv(EnvOutputDir); got != "/from/dotenv" {
		t.Errorf("%s = %q, want /from/dotenv", EnvOutputDir, got)
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}
