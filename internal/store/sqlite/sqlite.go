// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sqlite implements store.Store on a local SQLite database. The
// schema is versioned with embedded golang-migrate migrations.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mattn/go-sqlite3"

	"github.com/pdiddy/content-planner/internal/store"
	"github.com/pdiddy/content-planner/pkg/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	dbFile     = "plans.db"
	timeLayout = time.RFC3339
)

// Store is the SQLite plan store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens or creates dir/plans.db and applies pending migrations.
func Open(ctx context.Context, cfg types.StoreConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := migrateUp(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrateUp(ctx context.Context, db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("reading migration version: %w", err)
	}
	slog.DebugContext(ctx, "sqlite schema ready", "version", version, "dirty", dirty)
	return nil
}

// SaveInputs upserts the company and its keywords and replaces its personas
// and subreddits, preserving input order.
func (s *Store) SaveInputs(ctx context.Context, in types.PlanInputs) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	c := in.Company
	_, err = sq.Insert("companies").
		Columns("id", "name", "website", "description", "posts_per_week").
		Values(c.ID, c.Name, c.Website, c.Description, c.PostsPerWeek).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, website=excluded.website,
			description=excluded.description, posts_per_week=excluded.posts_per_week`).
		RunWith(tx).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("upserting company: %w", err)
	}

	for _, table := range []string{"personas", "subreddits", "company_keywords"} {
		if _, err := sq.Delete(table).Where(sq.Eq{"company_id": c.ID}).RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, p := range in.Personas {
		_, err := sq.Insert("personas").
			Columns("id", "company_id", "username", "bio", "position").
			Values(p.ID, c.ID, p.Username, p.Bio, i).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("inserting persona %s: %w", p.ID, err)
		}
	}

	for i, sr := range in.Subreddits {
		_, err := sq.Insert("subreddits").
			Columns("id", "company_id", "name", "position").
			Values(sr.ID, c.ID, sr.Name, i).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("inserting subreddit %s: %w", sr.ID, err)
		}
	}

	for i, k := range in.Keywords {
		_, err := sq.Insert("keywords").
			Columns("id", "phrase").
			Values(k.ID, k.Phrase).
			Suffix("ON CONFLICT(id) DO UPDATE SET phrase=excluded.phrase").
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("upserting keyword %s: %w", k.ID, err)
		}
		_, err = sq.Insert("company_keywords").
			Columns("company_id", "keyword_id", "position").
			Values(c.ID, k.ID, i).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("linking keyword %s: %w", k.ID, err)
		}
	}

	return tx.Commit()
}

// LoadInputs returns the stored inputs for companyID in their saved order.
func (s *Store) LoadInputs(ctx context.Context, companyID string) (*types.PlanInputs, error) {
	var in types.PlanInputs

	query, args, err := sq.Select("id", "name", "website", "description", "posts_per_week").
		From("companies").Where(sq.Eq{"id": companyID}).ToSql()
	if err != nil {
		return nil, err
	}
	c := &in.Company
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Website, &c.Description, &c.PostsPerWeek)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("company %s: %w", companyID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", err)
	}

	err = s.each(ctx, sq.Select("id", "company_id", "username", "bio").From("personas").
		Where(sq.Eq{"company_id": companyID}).OrderBy("position"),
		func(rows *sql.Rows) error {
			var p types.Persona
			if err := rows.Scan(&p.ID, &p.CompanyID, &p.Username, &p.Bio); err != nil {
				return err
			}
			in.Personas = append(in.Personas, p)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("loading personas: %w", err)
	}

	err = s.each(ctx, sq.Select("id", "company_id", "name").From("subreddits").
		Where(sq.Eq{"company_id": companyID}).OrderBy("position"),
		func(rows *sql.Rows) error {
			var sr types.Subreddit
			if err := rows.Scan(&sr.ID, &sr.CompanyID, &sr.Name); err != nil {
				return err
			}
			in.Subreddits = append(in.Subreddits, sr)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("loading subreddits: %w", err)
	}

	err = s.each(ctx, sq.Select("k.id", "k.phrase").From("company_keywords ck").
		Join("keywords k ON k.id = ck.keyword_id").
		Where(sq.Eq{"ck.company_id": companyID}).OrderBy("ck.position"),
		func(rows *sql.Rows) error {
			var k types.Keyword
			if err := rows.Scan(&k.ID, &k.Phrase); err != nil {
				return err
			}
			in.Keywords = append(in.Keywords, k)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("loading keywords: %w", err)
	}

	return &in, nil
}

// each runs q and calls fn for every row.
func (s *Store) each(ctx context.Context, q sq.SelectBuilder, fn func(*sql.Rows) error) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}
