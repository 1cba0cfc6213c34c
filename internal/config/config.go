// Package config holds the configuration of the products console.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/abgdnv/productctl/pkg/config"
	"github.com/abgdnv/productctl/pkg/config/configloader"
)

// Name prefixes every environment variable, e.g. CONSOLE_API_BASEURL.
const Name = "console"

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	DevAPI     DevAPIConfig            `koanf:"devapi"`
	API        APIConfig               `koanf:"api"`
	Notifier   NotifierConfig          `koanf:"notifier"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
}

// APIConfig locates the products collection.
type APIConfig struct {
	BaseURL string        `koanf:"baseurl"`
	Timeout time.Duration `koanf:"timeout"`
}

// NotifierConfig sets how long a console message stays visible.
type NotifierConfig struct {
	Duration time.Duration `koanf:"duration"`
}

// DevAPIConfig configures the in-memory products API started by dev-api.
type DevAPIConfig struct {
	Port int  `koanf:"port"`
	Seed bool `koanf:"seed"`
}

// Defaults returns the built-in values, the lowest configuration priority.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":                       8080,
		"server.maxHeaderBytes":             1 << 20,
		"server.timeout.read":               "5s",
		"server.timeout.write":              "10s",
		"server.timeout.idle":               "60s",
		"server.timeout.readHeader":         "2s",
		"devapi.port":                       3000,
		"devapi.seed":                       false,
		"api.baseurl":                       "http://localhost:3000/products",
		"api.timeout":                       "10s",
		"notifier.duration":                 "3s",
		"log.level":                         "info",
		"pprof.enabled":                     false,
		"pprof.addr":                        "localhost:6060",
		"shutdown.timeout":                  "10s",
		"telemetry.enabled":                 false,
		"resilience.circuitbreaker.enabled": false,
	}
}

// Load reads the configuration from defaults, config.yaml, .env and CONSOLE_* variables.
func Load(opts ...configloader.Option) (*Config, error) {
	opts = append([]configloader.Option{configloader.WithDefaults(Defaults())}, opts...)
	return configloader.Load[*Config](Name, opts...)
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString(c.HTTPServer.String())

	b.WriteString("\n--- Products API ---\n")
	b.WriteString(fmt.Sprintf("  api.baseurl: %s\n", c.API.BaseURL))
	b.WriteString(fmt.Sprintf("  api.timeout: %s\n", c.API.Timeout))

	b.WriteString("\n--- Dev API ---\n")
	b.WriteString(fmt.Sprintf("  devapi.port: %d\n", c.DevAPI.Port))
	b.WriteString(fmt.Sprintf("  devapi.seed: %t\n", c.DevAPI.Seed))

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  notifier.duration: %s\n", c.Notifier.Duration))

	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Resilience.String())

	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if c.DevAPI.Port <= 0 || c.DevAPI.Port > 65535 {
		return fmt.Errorf("invalid dev API port: %d", c.DevAPI.Port)
	}
	if err := c.API.Validate(); err != nil {
		return err
	}
	if c.Notifier.Duration <= 0 {
		return fmt.Errorf("notifier duration must be greater than 0")
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return c.Resilience.Validate()
}

func (c *APIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("products API base URL is not configured")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("products API base URL must be an absolute http(s) URL: %s", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("products API timeout must be greater than 0")
	}
	return nil
}
