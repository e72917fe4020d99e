// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package postgres implements store.Store on PostgreSQL through a pgx
// connection pool. The schema is created on open.
package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdiddy/content-planner/internal/store"
	"github.com/pdiddy/content-planner/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	website TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	posts_per_week INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS personas (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	username TEXT NOT NULL,
	bio TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS subreddits (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS keywords (
	id TEXT PRIMARY KEY,
	phrase TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS company_keywords (
	company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	keyword_id TEXT NOT NULL REFERENCES keywords(id),
	position INTEGER NOT NULL,
	PRIMARY KEY (company_id, keyword_id)
);
CREATE TABLE IF NOT EXISTS plans (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	week_start DATE NOT NULL,
	seed BIGINT NOT NULL,
	score INTEGER NOT NULL,
	flags JSONB NOT NULL,
	notes TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (company_id, week_start)
);
CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	subreddit TEXT NOT NULL,
	title TEXT NOT NULL,
	body TEXT NOT NULL,
	author TEXT NOT NULL,
	scheduled_at TIMESTAMPTZ NOT NULL,
	keyword_ids TEXT[] NOT NULL
);
CREATE TABLE IF NOT EXISTS comments (
	id TEXT PRIMARY KEY,
	plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
	post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	parent_id TEXT REFERENCES comments(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	text TEXT NOT NULL,
	author TEXT NOT NULL,
	scheduled_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_plan_id ON posts(plan_id);
CREATE INDEX IF NOT EXISTS idx_comments_plan_id ON comments(plan_id);
CREATE INDEX IF NOT EXISTS idx_comments_parent_id ON comments(parent_id);
`

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store is the PostgreSQL plan store.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// Open connects to cfg.DSN and creates missing tables.
func Open(ctx context.Context, cfg types.StoreConfig) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres store requires a DSN (store.dsn or the postgres-dsn secret)")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// SaveInputs upserts the company and its keywords and replaces its personas
// and subreddits.
func (s *Store) SaveInputs(ctx context.Context, in types.PlanInputs) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		c := in.Company
		err := exec(ctx, tx, psql.Insert("companies").
			Columns("id", "name", "website", "description", "posts_per_week").
			Values(c.ID, c.Name, c.Website, c.Description, c.PostsPerWeek).
			Suffix(`ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, website = EXCLUDED.website,
				description = EXCLUDED.description, posts_per_week = EXCLUDED.posts_per_week`))
		if err != nil {
			return fmt.Errorf("upserting company: %w", err)
		}

		for _, table := range []string{"personas", "subreddits", "company_keywords"} {
			if err := exec(ctx, tx, psql.Delete(table).Where(sq.Eq{"company_id": c.ID})); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		for i, p := range in.Personas {
			err := exec(ctx, tx, psql.Insert("personas").
				Columns("id", "company_id", "username", "bio", "position").
				Values(p.ID, c.ID, p.Username, p.Bio, i))
			if err != nil {
				return fmt.Errorf("inserting persona %s: %w", p.ID, err)
			}
		}
		for i, sr := range in.Subreddits {
			err := exec(ctx, tx, psql.Insert("subreddits").
				Columns("id", "company_id", "name", "position").
				Values(sr.ID, c.ID, sr.Name, i))
			if err != nil {
				return fmt.Errorf("inserting subreddit %s: %w", sr.ID, err)
			}
		}
		for i, k := range in.Keywords {
			err := exec(ctx, tx, psql.Insert("keywords").
				Columns("id", "phrase").Values(k.ID, k.Phrase).
				Suffix("ON CONFLICT (id) DO UPDATE SET phrase = EXCLUDED.phrase"))
			if err != nil {
				return fmt.Errorf("upserting keyword %s: %w", k.ID, err)
			}
			err = exec(ctx, tx, psql.Insert("company_keywords").
				Columns("company_id", "keyword_id", "position").Values(c.ID, k.ID, i))
			if err != nil {
				return fmt.Errorf("linking keyword %s: %w", k.ID, err)
			}
		}
		return nil
	})
}

// LoadInputs returns the stored inputs for companyID in their saved order.
func (s *Store) LoadInputs(ctx context.Context, companyID string) (*types.PlanInputs, error) {
	var in types.PlanInputs

	query, args, err := psql.Select("id", "name", "website", "description", "posts_per_week").
		From("companies").Where(sq.Eq{"id": companyID}).ToSql()
	if err != nil {
		return nil, err
	}
	c := &in.Company
	err = s.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Website, &c.Description, &c.PostsPerWeek)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("company %s: %w", companyID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", err)
	}

	err = s.each(ctx, psql.Select("id", "company_id", "username", "bio").From("personas").
		Where(sq.Eq{"company_id": companyID}).OrderBy("position"),
		func(rows pgx.Rows) error {
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

	err = s.each(ctx, psql.Select("id", "company_id", "name").From("subreddits").
		Where(sq.Eq{"company_id": companyID}).OrderBy("position"),
		func(rows pgx.Rows) error {
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

	err = s.each(ctx, psql.Select("k.id", "k.phrase").From("company_keywords ck").
		Join("keywords k ON k.id = ck.keyword_id").
		Where(sq.Eq{"ck.company_id": companyID}).OrderBy("ck.position"),
		func(rows pgx.Rows) error {
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
func (s *Store) each(ctx context.Context, q sq.SelectBuilder, fn func(pgx.Rows) error) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	rows, err := s.pool.Query(ctx, query, args...)
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

func exec(ctx context.Context, tx pgx.Tx, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building statement: %w", err)
	}
	_, err = tx.Exec(ctx, query, args...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
