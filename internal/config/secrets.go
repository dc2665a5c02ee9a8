package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a missing or invalid setting detected at startup.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConfiguration, e.Key, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// Secrets is a source of named secret values.
type Secrets interface {
	Lookup(name string) (string, bool)
}

// EnvSecrets reads secrets from the process environment.
type EnvSecrets struct{}

func (EnvSecrets) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapSecrets serves secrets from a fixed map.
type MapSecrets map[string]string

func (m MapSecrets) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// RequireSecret returns the named secret, treating absent or blank values as
// a configuration error.
func RequireSecret(src Secrets, name string) (string, error) {
	if src == nil {
		return "", &ConfigurationError{Key: name, Reason: "has no secret source"}
	}
	v, ok := src.Lookup(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", &ConfigurationError{
			Key:    name,
			Reason: "not found. Please create a .env file with your API key or export it",
		}
	}
	return strings.TrimSpace(v), nil
}
