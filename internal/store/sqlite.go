package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/contourline/leadscore-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS icp_profiles (
	id           TEXT PRIMARY KEY,
	category     TEXT NOT NULL,
	profile      TEXT NOT NULL,
	source_files TEXT,
	created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_icp_profiles_category_created ON icp_profiles(category, created_at DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveProfile(ctx context.Context, p *model.Profile) error {
	sourcesJSON, err := json.Marshal(p.SourceFiles)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal source files")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO icp_profiles (id, category, profile, source_files, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Category, p.Text, string(sourcesJSON), p.CreatedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert profile %s", p.ID)
	}
	return nil
}

func (s *SQLiteStore) LatestProfile(ctx context.Context, category string) (*model.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, category, profile, source_files, created_at FROM icp_profiles WHERE category = ? ORDER BY created_at DESC LIMIT 1`,
		category,
	)
	p, err := scanProfile(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: latest profile %s", category)
	}
	return p, nil
}

func (s *SQLiteStore) ListProfiles(ctx context.Context, category string, limit int) ([]model.Profile, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, category, profile, source_files, created_at FROM icp_profiles WHERE 1=1`
	var args []any
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list profiles")
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan profile")
		}
		profiles = append(profiles, *p)
	}
	return profiles, eris.Wrap(rows.Err(), "sqlite: list profiles")
}
