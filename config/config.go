// Package config provides configuration loading for Fedora repository
// connections.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// User holds one set of repository credentials.
type User struct {
	// Name is the login sent as the HTTP basic auth username.
	Name string `yaml:"user"`
	// Password is the basic auth password.
	Password string `yaml:"password"`
}

// Config represents a repository connection configuration.
//
// Credentials can be given either as the single user/password shorthand or
// as a named map of users; Validate requires one of the two. With a users
// map, Default selects the credentials used until Repository.SetUser is
// called.
type Config struct {
	// URI is the repository root, e.g. "http://localhost:8080/fcrepo/".
	URI string `yaml:"uri"`

	// User and Password are the single-credential shorthand.
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Users maps login names to credentials.
	Users map[string]User `yaml:"users"`

	// Default is the name of the Users entry to authenticate with
	// initially. Ignored when the shorthand form is used.
	Default string `yaml:"default"`

	// LogLevel is one of debug, info, warning, error.
	LogLevel string `yaml:"loglevel"`

	// Delegated authenticates every request as the admin user and
	// delegates to the current user via the On-Behalf-Of header.
	Delegated bool `yaml:"delegated"`
}

// DefaultConfig returns a configuration with default values applied.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warning",
	}
}

// LoadFromFile loads configuration from a YAML file. File values are
// merged over DefaultConfig.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, &ConfigurationError{Message: fmt.Sprintf("failed to parse config file %s: %v", path, err)}
	}

	return config, nil
}

// Validate checks that the required fields are present.
func (c *Config) Validate() error {
	var missing []string
	if c.URI == "" {
		missing = append(missing, "uri")
	}
	if len(c.Users) == 0 {
		if c.User == "" {
			missing = append(missing, "user")
		}
		if c.Password == "" {
			missing = append(missing, "password")
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ConfigurationError{Message: "config values missing: " + strings.Join(missing, ", ")}
	}
	if c.LogLevel != "" {
		if _, ok := slogLevel(c.LogLevel); !ok {
			return &ConfigurationError{Message: fmt.Sprintf("config loglevel %q matches no log level", c.LogLevel)}
		}
	}
	return nil
}

// Credentials resolves the initial credentials: the shorthand pair if
// given, otherwise the Default entry of Users.
func (c *Config) Credentials() (User, error) {
	if c.User != "" {
		return User{Name: c.User, Password: c.Password}, nil
	}
	name := c.Default
	if name == "" && len(c.Users) == 1 {
		for n := range c.Users {
			name = n
		}
	}
	u, ok := c.Users[name]
	if !ok {
		return User{}, &ConfigurationError{Message: fmt.Sprintf("couldn't find user %q in config", name)}
	}
	if u.Name == "" {
		u.Name = name
	}
	return u, nil
}

// SlogLevel maps the configured log level to a slog.Level. An empty or
// unknown level yields slog.LevelWarn.
func (c *Config) SlogLevel() slog.Level {
	if level, ok := slogLevel(c.LogLevel); ok {
		return level
	}
	return slog.LevelWarn
}

func slogLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warning", "warn":
		return slog.LevelWarn, true
	case "error", "critical":
		return slog.LevelError, true
	default:
		return slog.LevelWarn, false
	}
}

// ConfigurationError reports missing or malformed configuration.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}
