package config

import internalconfig "github.com/acs560/marquee/internal/config"

// Config is the top-level configuration for a marquee server.
type Config = internalconfig.Config

// ServerConfig holds HTTP server settings.
type ServerConfig = internalconfig.ServerConfig

// LogConfig selects the log level and handler.
type LogConfig = internalconfig.LogConfig

// JournalConfig controls where catalog changes are journaled.
type JournalConfig = internalconfig.JournalConfig

// Default returns a Config with sensible defaults.
func Default() Config {
	return internalconfig.Default()
}

// LoadFile reads a JSON or YAML config file and merges it with defaults.
func LoadFile(path string) (Config, error) {
	return internalconfig.LoadFile(path)
}

// ApplyEnv overrides cfg from MARQUEE_* environment variables. A nil lookup
// reads the process environment.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	return internalconfig.ApplyEnv(cfg, lookup)
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	return internalconfig.WriteExample(path)
}
