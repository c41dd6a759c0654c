// File: internal/config/config_test.go
package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	// Verify a few key defaults to ensure the mechanism works.
	assert.Equal(t, "https://automationpanda.com/", cfg.Target.URL)
	assert.Equal(t, BrowserChrome, cfg.Browser.Kind)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1920, cfg.Browser.WindowWidth)
	assert.Equal(t, 10*time.Second, cfg.Waits.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Waits.PollInterval)
	assert.Equal(t, 60*time.Second, cfg.Waits.NavigationTimeout)
	assert.True(t, cfg.Report.ScreenshotOnFailure)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "pandasuite", cfg.Logger.ServiceName)
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Valid Defaults", func(t *testing.T) {
		cfg := NewDefaultConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Unsupported Browser Kind", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Browser.Kind = "netscape"
		err := cfg.Validate()
		require.Error(t, err)

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "browser.kind", cfgErr.Field)
		assert.Contains(t, err.Error(), `unsupported browser "netscape"`)
	})

	t.Run("Browser Kind Is Case Insensitive", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Browser.Kind = "Chromium"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Missing Target URL", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Target.URL = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "target.url")
	})

	t.Run("Non Positive Timeout", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Waits.Timeout = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "waits.timeout")
	})

	t.Run("Poll Interval Longer Than Timeout", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Waits.PollInterval = 15 * time.Second
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "waits.poll_interval")
	})
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
target:
  url: "http://127.0.0.1:8080/"
browser:
  kind: chromium
  headless: false
waits:
  timeout: 4s
  poll_interval: 250ms
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		err := v.ReadConfig(bytes.NewBuffer(yamlBytes))
		require.NoError(t, err)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "http://127.0.0.1:8080/", cfg.Target.URL)
		assert.Equal(t, BrowserChromium, cfg.Browser.Kind)
		assert.False(t, cfg.Browser.Headless)
		assert.Equal(t, 4*time.Second, cfg.Waits.Timeout)
		assert.Equal(t, 250*time.Millisecond, cfg.Waits.PollInterval)
		// Check a default value was also loaded.
		assert.Equal(t, "info", cfg.Logger.Level)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("browser.kind", "safari")

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "configuration error")
	})

	t.Run("Environment Variable Override", func(t *testing.T) {
		// Mirror the wiring done by the root command: PANDASUITE_ prefixed
		// env vars take precedence over file values.
		v := viper.New()
		SetDefaults(v)
		v.SetEnvPrefix("PANDASUITE")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		yamlConfig := []byte(`
target:
  url: "http://configfile.example/"
`)
		v.SetConfigType("yaml")
		err := v.ReadConfig(bytes.NewBuffer(yamlConfig))
		require.NoError(t, err)

		t.Setenv("PANDASUITE_TARGET_URL", "http://envvar.example/")
		t.Setenv("PANDASUITE_BROWSER_HEADLESS", "false")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "http://envvar.example/", cfg.Target.URL)
		assert.False(t, cfg.Browser.Headless)
	})
}
