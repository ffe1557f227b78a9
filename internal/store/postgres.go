package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/contourline/leadscore-cli/internal/model"
)

// pgPool is the subset of pgxpool.Pool the store uses. Satisfied by
// pgxmock.PgxPoolIface in tests.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pgPool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS icp_profiles (
	id           TEXT PRIMARY KEY,
	category     TEXT NOT NULL,
	profile      TEXT NOT NULL,
	source_files JSONB,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_icp_profiles_category_created ON icp_profiles(category, created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveProfile(ctx context.Context, p *model.Profile) error {
	sourcesJSON, err := json.Marshal(p.SourceFiles)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal source files")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO icp_profiles (id, category, profile, source_files, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Category, p.Text, sourcesJSON, p.CreatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert profile %s", p.ID)
	}
	return nil
}

func (s *PostgresStore) LatestProfile(ctx context.Context, category string) (*model.Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, category, profile, source_files, created_at FROM icp_profiles WHERE category = $1 ORDER BY created_at DESC LIMIT 1`,
		category,
	)
	p, err := scanProfile(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: latest profile %s", category)
	}
	return p, nil
}

func (s *PostgresStore) ListProfiles(ctx context.Context, category string, limit int) ([]model.Profile, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, category, profile, source_files, created_at FROM icp_profiles WHERE true`
	args := []any{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`
	if category != "" {
		query += ` LIMIT $2`
	} else {
		query += ` LIMIT $1`
	}
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list profiles")
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan profile")
		}
		profiles = append(profiles, *p)
	}
	return profiles, eris.Wrap(rows.Err(), "postgres: list profiles")
}

// scanProfile reads one profile row; source_files may be NULL.
func scanProfile(scan func(dest ...any) error) (*model.Profile, error) {
	var p model.Profile
	var sourcesJSON []byte

	if err := scan(&p.ID, &p.Category, &p.Text, &sourcesJSON, &p.CreatedAt); err != nil {
		return nil, err
	}
	if len(sourcesJSON) > 0 {
		if err := json.Unmarshal(sourcesJSON, &p.SourceFiles); err != nil {
			return nil, eris.Wrap(err, "unmarshal source files")
		}
	}
	return &p, nil
}
