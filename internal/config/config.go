package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/pfrederiksen/kremlin-meetings/internal/meeting"
	"github.com/pfrederiksen/kremlin-meetings/internal/output"
	"github.com/pfrederiksen/kremlin-meetings/internal/scraper"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Environment variables that override the file
const (
	EnvBaseURL    = "KREMLIN_BASE_URL"
	EnvOutputDir  = "KREMLIN_OUTPUT_DIR"
	EnvLogFile    = "KREMLIN_LOG_FILE"
	EnvTargetYear = "KREMLIN_TARGET_YEAR"
)

type SiteConfig struct {
	BaseURL string `yaml:"base_url"`
	Locale  string `yaml:"locale"`
}

type DelayConfig struct {
	Min string `yaml:"min"`
	Max string `yaml:"max"`
}

type OutputConfig struct {
	Dir       string `yaml:"dir"`
	File      string `yaml:"file"`
	Format    string `yaml:"format"`
	Columns   string `yaml:"columns"`
	Table     bool   `yaml:"table"`
	TableRows int    `yaml:"table_rows"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type Config struct {
	Site          SiteConfig   `yaml:"site"`
	TargetYear    int          `yaml:"target_year"`
	MaxPages      int          `yaml:"max_pages"`
	Delay         DelayConfig  `yaml:"delay"`
	Timeout       string       `yaml:"timeout"`
	UserAgents    []string     `yaml:"user_agents"`
	Exclude       []string     `yaml:"exclude"`
	Include       []string     `yaml:"include"`
	Output        OutputConfig `yaml:"output"`
	Log           LogConfig    `yaml:"log"`
	Details       bool         `yaml:"details"`
	RespectRobots bool         `yaml:"respect_robots"`
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "kremlin-meetings", "config.yaml")
}

// Defaults returns the embedded configuration
func Defaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config file at path over the embedded defaults, then applies
// environment overrides. An empty path means DefaultConfigPath; a missing
// file at the default path means defaults only.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs from a .env file into the process
// environment. Variables already set are kept; a missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Site.BaseURL = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv(EnvTargetYear); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid year %q", EnvTargetYear, v)
		}
		c.TargetYear = year
	}
	return nil
}

// Validate checks every value the scraper depends on
func (c *Config) Validate() error {
	if _, err := scraper.LayoutFor(c.Site.Locale); err != nil {
		return fmt.Errorf("site.locale: %w", err)
	}

	u, err := url.Parse(c.BaseURL())
	if err != nil {
		return fmt.Errorf("site.base_url: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("site.base_url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("site.base_url: missing host in %q", c.BaseURL())
	}

	if c.TargetYear < 1990 || c.TargetYear > 2100 {
		return fmt.Errorf("target_year: %d out of range", c.TargetYear)
	}
	if c.MaxPages < 1 || c.MaxPages > scraper.DefaultMaxPages {
		return fmt.Errorf("max_pages: must be between 1 and %d, got %d", scraper.DefaultMaxPages, c.MaxPages)
	}

	min, err := parseDuration("delay.min", c.Delay.Min)
	if err != nil {
		return err
	}
	max, err := parseDuration("delay.max", c.Delay.Max)
	if err != nil {
		return err
	}
	if min > max {
		return fmt.Errorf("delay: min %s is greater than max %s", min, max)
	}

	timeout, err := parseDuration("timeout", c.Timeout)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout: must be positive")
	}

	if len(c.UserAgents) == 0 {
		return fmt.Errorf("user_agents: at least one user agent is required")
	}
	for i, ua := range c.UserAgents {
		if ua == "" {
			return fmt.Errorf("user_agents[%d]: empty user agent", i)
		}
	}

	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if _, err := output.ParseColumns(c.Output.Columns); err != nil {
		return fmt.Errorf("output.columns: %w", err)
	}
	if c.Output.TableRows < 0 {
		return fmt.Errorf("output.table_rows: must not be negative")
	}
	return nil
}

// BaseURL returns the configured listing URL or the locale's default
func (c *Config) BaseURL() string {
	if c.Site.BaseURL != "" {
		return c.Site.BaseURL
	}
	if layout, err := scraper.LayoutFor(c.Site.Locale); err == nil && layout.Name == scraper.RussianLayout.Name {
		return scraper.RussianBaseURL
	}
	return scraper.EnglishBaseURL
}

// Layout returns the page layout for the configured locale
func (c *Config) Layout() scraper.Layout {
	layout, err := scraper.LayoutFor(c.Site.Locale)
	if err != nil {
		return scraper.EnglishLayout
	}
	return layout
}

// Boundary returns December 1 of the target year
func (c *Config) Boundary() time.Time {
	return meeting.Boundary(c.TargetYear, time.UTC)
}

func (c *Config) DelayMin() time.Duration {
	d, _ := time.ParseDuration(c.Delay.Min)
	return d
}

func (c *Config) DelayMax() time.Duration {
	d, _ := time.ParseDuration(c.Delay.Max)
	return d
}

func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return scraper.Timeout
	}
	return d
}

// Format returns the validated output format
func (c *Config) Format() output.Format {
	f, err := output.ParseFormat(c.Output.Format)
	if err != nil {
		return output.FormatCSV
	}
	return f
}

// Columns returns the validated CSV column set
func (c *Config) Columns() output.Columns {
	cols, err := output.ParseColumns(c.Output.Columns)
	if err != nil {
		return output.ColumnsFull
	}
	return cols
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}
