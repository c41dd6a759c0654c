// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported browser kinds. Anything else is rejected before any scenario
// runs.
const (
	BrowserChrome   = "chrome"
	BrowserChromium = "chromium"
	BrowserEdge     = "edge"
)

// ConfigurationError marks a configuration problem that is fatal to the
// whole run (unsupported browser kind, unreadable config source).
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// Config holds the entire suite configuration.
type Config struct {
	Target  TargetConfig  `mapstructure:"target" yaml:"target"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Waits   WaitsConfig   `mapstructure:"waits" yaml:"waits"`
	Report  ReportConfig  `mapstructure:"report" yaml:"report"`
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
}

// TargetConfig identifies the site under test.
type TargetConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// BrowserConfig holds settings for the browser instances driven by the suite.
type BrowserConfig struct {
	Kind         string   `mapstructure:"kind" yaml:"kind"`
	Headless     bool     `mapstructure:"headless" yaml:"headless"`
	NoSandbox    bool     `mapstructure:"no_sandbox" yaml:"no_sandbox"`
	WindowWidth  int      `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight int      `mapstructure:"window_height" yaml:"window_height"`
	ExecPath     string   `mapstructure:"exec_path" yaml:"exec_path"`
	Args         []string `mapstructure:"args" yaml:"args"`
}

// WaitsConfig tunes the explicit-wait engine.
type WaitsConfig struct {
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	PollInterval      time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// ReportConfig controls failure artifacts.
type ReportConfig struct {
	ScreenshotOnFailure bool   `mapstructure:"screenshot_on_failure" yaml:"screenshot_on_failure"`
	ArtifactsDir        string `mapstructure:"artifacts_dir" yaml:"artifacts_dir"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Target --
	v.SetDefault("target.url", "https://automationpanda.com/")

	// -- Browser --
	v.SetDefault("browser.kind", BrowserChrome)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.no_sandbox", false)
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)

	// -- Waits --
	v.SetDefault("waits.timeout", "10s")
	v.SetDefault("waits.poll_interval", "500ms")
	v.SetDefault("waits.navigation_timeout", "60s")

	// -- Report --
	v.SetDefault("report.screenshot_on_failure", true)
	v.SetDefault("report.artifacts_dir", "artifacts")

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pandasuite")
	v.SetDefault("logger.log_file", "pandasuite.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Field: "config", Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Browser.Kind) {
	case BrowserChrome, BrowserChromium, BrowserEdge:
	default:
		return &ConfigurationError{
			Field: "browser.kind",
			Reason: fmt.Sprintf("unsupported browser %q (supported: %s, %s, %s)",
				c.Browser.Kind, BrowserChrome, BrowserChromium, BrowserEdge),
		}
	}
	if c.Target.URL == "" {
		return &ConfigurationError{Field: "target.url", Reason: "must not be empty"}
	}
	if c.Waits.Timeout <= 0 {
		return &ConfigurationError{Field: "waits.timeout", Reason: "must be a positive duration"}
	}
	if c.Waits.PollInterval <= 0 {
		return &ConfigurationError{Field: "waits.poll_interval", Reason: "must be a positive duration"}
	}
	if c.Waits.PollInterval >= c.Waits.Timeout {
		return &ConfigurationError{Field: "waits.poll_interval", Reason: "must be shorter than waits.timeout"}
	}
	return nil
}
