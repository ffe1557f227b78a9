// Package store persists ideal-customer profiles. Profiles are append-only;
// the active profile for a category is the most recently created one.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/contourline/leadscore-cli/internal/model"
)

// ErrNotFound is returned when a category has no stored profile.
var ErrNotFound = eris.New("store: profile not found")

// Store defines profile persistence.
type Store interface {
	SaveProfile(ctx context.Context, p *model.Profile) error
	LatestProfile(ctx context.Context, category string) (*model.Profile, error)
	ListProfiles(ctx context.Context, category string, limit int) ([]model.Profile, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Config selects and configures the backing database.
type Config struct {
	Driver      string      `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string      `yaml:"database_url" mapstructure:"database_url"`
	Pool        *PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// New opens the configured store. SQLite is the default so the CLI works
// without any database setup.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "leadscore.db"
		}
		return NewSQLite(dsn)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, eris.New("store: postgres requires database_url")
		}
		return NewPostgres(ctx, cfg.DatabaseURL, cfg.Pool)
	default:
		return nil, eris.Errorf("store: unsupported driver %q", cfg.Driver)
	}
}
