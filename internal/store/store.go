// Package store provides the movie.Store backends: an in-memory catalog
// seeded from a CSV export, and a SQL catalog over sqlite or postgres.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acs560/marquee/internal/movie"
)

const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
)

// Config selects and configures a backend.
type Config struct {
	Backend        string `json:"backend" yaml:"backend"`
	CSVPath        string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
	DatabaseURL    string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	MaxConnections int    `json:"max_connections,omitempty" yaml:"max_connections,omitempty"`
}

// Validate checks backend-specific requirements.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendSQL:
		if c.DatabaseURL == "" {
			return fmt.Errorf("store: database_url is required for the %s backend", BackendSQL)
		}
	default:
		return fmt.Errorf("store: unknown backend %q, must be one of: memory, sql", c.Backend)
	}
	return nil
}

// Open builds the configured backend. The memory backend is seeded from
// CSVPath when set.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (movie.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case BackendSQL:
		s, err := OpenSQL(ctx, cfg.DatabaseURL, cfg.MaxConnections, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("opened sql catalog")
		return s, nil
	default:
		var seed []movie.Movie
		if cfg.CSVPath != "" {
			var err error
			seed, err = movie.LoadCSVFile(cfg.CSVPath)
			if err != nil {
				return nil, fmt.Errorf("loading catalog csv: %w", err)
			}
		}
		s := NewMemoryStore(seed)
		logger.Info("opened memory catalog", "csv", cfg.CSVPath, "movies", s.Len())
		return s, nil
	}
}
