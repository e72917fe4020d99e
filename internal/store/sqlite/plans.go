// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/pdiddy/content-planner/internal/store"
	"github.com/pdiddy/content-planner/pkg/types"
)

// SavePlan stores res as the plan for (companyID, weekStart). Posts go in
// first, then comments in output order, so every parent row exists before a
// child references it.
func (s *Store) SavePlan(ctx context.Context, companyID string, weekStart time.Time, res *types.GenerationResult) (*types.StoredPlan, error) {
	plan, err := store.Assign(uuid.NewString(), companyID, weekStart, res, time.Now())
	if err != nil {
		return nil, err
	}
	week := plan.WeekStart.Format(timeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	query, args, err := sq.Select("count(*)").From("plans").
		Where(sq.Eq{"company_id": companyID, "week_start": week}).ToSql()
	if err != nil {
		return nil, err
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&existing); err != nil {
		return nil, fmt.Errorf("checking existing plan: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("company %s week %s: %w", companyID, week, store.ErrPlanExists)
	}

	flagsJSON, err := json.Marshal(plan.Quality.Flags)
	if err != nil {
		return nil, fmt.Errorf("encoding flags: %w", err)
	}
	_, err = sq.Insert("plans").
		Columns("id", "company_id", "week_start", "seed", "score", "flags", "notes", "created_at").
		Values(plan.ID, companyID, week, int64(plan.Seed), plan.Quality.Score, string(flagsJSON),
			plan.Quality.Notes, plan.CreatedAt.Format(timeLayout)).
		RunWith(tx).ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("company %s week %s: %w", companyID, week, store.ErrPlanExists)
		}
		return nil, fmt.Errorf("inserting plan: %w", err)
	}

	for i, p := range plan.Posts {
		kwJSON, _ := json.Marshal(p.KeywordIDs)
		_, err := sq.Insert("posts").
			Columns("id", "plan_id", "position", "subreddit", "title", "body", "author", "scheduled_at", "keyword_ids").
			Values(p.ID, plan.ID, i, p.Subreddit, p.Title, p.Body, p.Author,
				p.ScheduledAt.UTC().Format(timeLayout), string(kwJSON)).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("inserting post %d: %w", i, err)
		}
	}

	for i, c := range plan.Comments {
		var parent any
		if c.ParentID != "" {
			parent = c.ParentID
		}
		_, err := sq.Insert("comments").
			Columns("id", "plan_id", "post_id", "parent_id", "position", "text", "author", "scheduled_at").
			Values(c.ID, plan.ID, c.PostID, parent, i, c.Text, c.Author, c.ScheduledAt.UTC().Format(timeLayout)).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("inserting comment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing plan: %w", err)
	}
	return plan, nil
}

// ListPlans returns the company's plans, newest week first.
func (s *Store) ListPlans(ctx context.Context, companyID string) ([]types.PlanSummary, error) {
	var out []types.PlanSummary
	err := s.each(ctx, sq.Select(
		"p.id", "p.company_id", "p.week_start", "p.score",
		"(SELECT count(*) FROM posts WHERE plan_id = p.id)",
		"(SELECT count(*) FROM comments WHERE plan_id = p.id)",
	).From("plans p").Where(sq.Eq{"p.company_id": companyID}).OrderBy("p.week_start DESC"),
		func(rows *sql.Rows) error {
			var (
				ps   types.PlanSummary
				week string
			)
			if err := rows.Scan(&ps.ID, &ps.CompanyID, &week, &ps.Score, &ps.PostCount, &ps.CommentCount); err != nil {
				return err
			}
			t, err := time.Parse(timeLayout, week)
			if err != nil {
				return fmt.Errorf("parsing week_start: %w", err)
			}
			ps.WeekStart = t
			out = append(out, ps)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	return out, nil
}

// LoadPlan returns a stored plan with posts and comments in insertion order.
func (s *Store) LoadPlan(ctx context.Context, planID string) (*types.StoredPlan, error) {
	query, args, err := sq.Select("id", "company_id", "week_start", "seed", "score", "flags", "notes", "created_at").
		From("plans").Where(sq.Eq{"id": planID}).ToSql()
	if err != nil {
		return nil, err
	}

	var (
		plan          types.StoredPlan
		week, created string
		flagsJSON     string
		seed          int64
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&plan.ID, &plan.CompanyID, &week, &seed, &plan.Quality.Score, &flagsJSON, &plan.Quality.Notes, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", planID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	plan.Seed = uint32(seed)
	if plan.WeekStart, err = time.Parse(timeLayout, week); err != nil {
		return nil, fmt.Errorf("parsing week_start: %w", err)
	}
	if plan.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(flagsJSON), &plan.Quality.Flags); err != nil {
		return nil, fmt.Errorf("decoding flags: %w", err)
	}

	err = s.each(ctx, sq.Select("id", "subreddit", "title", "body", "author", "scheduled_at", "keyword_ids").
		From("posts").Where(sq.Eq{"plan_id": planID}).OrderBy("position"),
		func(rows *sql.Rows) error {
			var (
				p      types.StoredPost
				at, kw string
			)
			if err := rows.Scan(&p.ID, &p.Subreddit, &p.Title, &p.Body, &p.Author, &at, &kw); err != nil {
				return err
			}
			t, err := time.Parse(timeLayout, at)
			if err != nil {
				return fmt.Errorf("parsing scheduled_at: %w", err)
			}
			p.ScheduledAt = t
			if err := json.Unmarshal([]byte(kw), &p.KeywordIDs); err != nil {
				return fmt.Errorf("decoding keyword_ids: %w", err)
			}
			plan.Posts = append(plan.Posts, p)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("loading posts: %w", err)
	}

	err = s.each(ctx, sq.Select("id", "post_id", "parent_id", "text", "author", "scheduled_at").
		From("comments").Where(sq.Eq{"plan_id": planID}).OrderBy("position"),
		func(rows *sql.Rows) error {
			var (
				c      types.StoredComment
				parent sql.NullString
				at     string
			)
			if err := rows.Scan(&c.ID, &c.PostID, &parent, &c.Text, &c.Author, &at); err != nil {
				return err
			}
			t, err := time.Parse(timeLayout, at)
			if err != nil {
				return fmt.Errorf("parsing scheduled_at: %w", err)
			}
			c.ScheduledAt = t
			c.ParentID = parent.String
			plan.Comments = append(plan.Comments, c)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("loading comments: %w", err)
	}

	return &plan, nil
}

// RecentHints returns keyword ids and venue names used by the company's plans
// in the weeks before before, oldest first, without duplicates.
func (s *Store) RecentHints(ctx context.Context, companyID string, before time.Time, weeks int) (types.RecencyHints, error) {
	var hints types.RecencyHints
	if weeks <= 0 {
		return hints, nil
	}
	from := before.UTC().AddDate(0, 0, -7*weeks).Format(timeLayout)
	until := before.UTC().Format(timeLayout)

	seenKW := map[string]bool{}
	seenVenue := map[string]bool{}
	err := s.each(ctx, sq.Select("po.keyword_ids", "po.subreddit").
		From("posts po").Join("plans pl ON pl.id = po.plan_id").
		Where(sq.Eq{"pl.company_id": companyID}).
		Where(sq.GtOrEq{"pl.week_start": from}).
		Where(sq.Lt{"pl.week_start": until}).
		OrderBy("pl.week_start", "po.position"),
		func(rows *sql.Rows) error {
			var kwJSON, venue string
			if err := rows.Scan(&kwJSON, &venue); err != nil {
				return err
			}
			var ids []string
			if err := json.Unmarshal([]byte(kwJSON), &ids); err != nil {
				return fmt.Errorf("decoding keyword_ids: %w", err)
			}
			for _, id := range ids {
				if !seenKW[id] {
					seenKW[id] = true
					hints.KeywordIDs = append(hints.KeywordIDs, id)
				}
			}
			if !seenVenue[venue] {
				seenVenue[venue] = true
				hints.VenueNames = append(hints.VenueNames, venue)
			}
			return nil
		})
	if err != nil {
		return types.RecencyHints{}, fmt.Errorf("collecting recency hints: %w", err)
	}
	return hints, nil
}
