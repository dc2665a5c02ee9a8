// Package config provides configuration management for promptchain.
//
// Settings are read from environment variables (optionally seeded from a
// .env file) and validated on startup. Secrets are resolved separately
// through a Secrets source so that a missing API key is reported before any
// model is contacted.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Resolve(config.EnvSecrets{}); err != nil {
//	    log.Fatal(err)
//	}
package config
