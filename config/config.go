// Package config provides the Mosaia SDK configuration. Each client instance
// owns its own Config; there is no process-wide singleton, so independent
// clients with different credentials can coexist safely.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Platform defaults applied wherever a field is left empty.
const (
	DefaultAPIURL      = "https://api.mosaia.ai"
	DefaultVersion     = "1"
	DefaultFrontendURL = "https://mosaia.ai"
	DefaultTimeout     = 30 * time.Second
)

// envPrefix is the prefix for environment based configuration.
const envPrefix = "MOSAIA_"

// Config carries everything a client needs to reach the platform and
// authenticate. Zero values fall back to the platform defaults.
type Config struct {
	// APIKey is a static key used as the initial credential when set.
	APIKey string `yaml:"api-key"`
	// APIURL is the API origin without the version prefix.
	APIURL string `yaml:"api-url"`
	// Version selects the API version segment, e.g. "1" for /v1.
	Version string `yaml:"version"`
	// FrontendURL is the web origin hosting the OAuth consent page.
	FrontendURL string `yaml:"frontend-url"`
	// ClientID identifies the registered OAuth client.
	ClientID string `yaml:"client-id"`
	// ClientSecret authenticates the client grant.
	ClientSecret string `yaml:"client-secret"`
	// User optionally scopes requests to a user context.
	User string `yaml:"user"`
	// Org optionally scopes requests to an organization context.
	Org string `yaml:"org"`
	// Verbose enables request/response debug logging (secrets redacted).
	Verbose bool `yaml:"verbose"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns a Config populated with the platform defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields in place with the platform defaults.
func (c *Config) ApplyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.FrontendURL == "" {
		c.FrontendURL = DefaultFrontendURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// BaseURL returns the versioned API base, e.g. https://api.mosaia.ai/v1.
func (c *Config) BaseURL() string {
	apiURL := c.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	version := c.Version
	if version == "" {
		version = DefaultVersion
	}
	return strings.TrimRight(apiURL, "/") + "/v" + version
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// FromEnv builds a Config from MOSAIA_* environment variables. A .env file in
// the working directory is loaded first when present, matching local
// development setups.
func FromEnv() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debugf("config: skipping .env: %v", err)
	}

	cfg := &Config{
		APIKey:       os.Getenv(envPrefix + "API_KEY"),
		APIURL:       os.Getenv(envPrefix + "API_URL"),
		Version:      os.Getenv(envPrefix + "VERSION"),
		FrontendURL:  os.Getenv(envPrefix + "FRONTEND_URL"),
		ClientID:     os.Getenv(envPrefix + "CLIENT_ID"),
		ClientSecret: os.Getenv(envPrefix + "CLIENT_SECRET"),
		User:         os.Getenv(envPrefix + "USER"),
		Org:          os.Getenv(envPrefix + "ORG"),
		Verbose:      strings.EqualFold(os.Getenv(envPrefix+"VERBOSE"), "true"),
	}
	if raw := os.Getenv(envPrefix + "TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.Timeout = d
		} else {
			log.Warnf("config: invalid %sTIMEOUT %q: %v", envPrefix, raw, err)
		}
	}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads a YAML configuration file and applies defaults to empty fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
