// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pdiddy/content-planner/internal/store"
	"github.com/pdiddy/content-planner/pkg/types"
)

const dateLayout = "2006-01-02"

// SavePlan stores res as the plan for (companyID, weekStart) in one
// transaction, posts first and then comments in output order.
func (s *Store) SavePlan(ctx context.Context, companyID string, weekStart time.Time, res *types.GenerationResult) (*types.StoredPlan, error) {
	plan, err := store.Assign(uuid.NewString(), companyID, weekStart, res, time.Now())
	if err != nil {
		return nil, err
	}
	week := plan.WeekStart.Format(dateLayout)

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := exec(ctx, tx, psql.Insert("plans").
			Columns("id", "company_id", "week_start", "seed", "score", "flags", "notes", "created_at").
			Values(plan.ID, companyID, plan.WeekStart, int64(plan.Seed), plan.Quality.Score, plan.Quality.Flags,
				plan.Quality.Notes, plan.CreatedAt))
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("company %s week %s: %w", companyID, week, store.ErrPlanExists)
			}
			return fmt.Errorf("inserting plan: %w", err)
		}

		for i, p := range plan.Posts {
			err := exec(ctx, tx, psql.Insert("posts").
				Columns("id", "plan_id", "position", "subreddit", "title", "body", "author", "scheduled_at", "keyword_ids").
				Values(p.ID, plan.ID, i, p.Subreddit, p.Title, p.Body, p.Author, p.ScheduledAt, p.KeywordIDs))
			if err != nil {
				return fmt.Errorf("inserting post %d: %w", i, err)
			}
		}

		for i, c := range plan.Comments {
			var parent *string
			if c.ParentID != "" {
				parent = &c.ParentID
			}
			err := exec(ctx, tx, psql.Insert("comments").
				Columns("id", "plan_id", "post_id", "parent_id", "position", "text", "author", "scheduled_at").
				Values(c.ID, plan.ID, c.PostID, parent, i, c.Text, c.Author, c.ScheduledAt))
			if err != nil {
				return fmt.Errorf("inserting comment %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// ListPlans returns the company's plans, newest week first.
func (s *Store) ListPlans(ctx context.Context, companyID string) ([]types.PlanSummary, error) {
	var out []types.PlanSummary
	err := s.each(ctx, psql.Select(
		"p.id", "p.company_id", "p.week_start", "p.score",
		"(SELECT count(*) FROM posts WHERE plan_id = p.id)",
		"(SELECT count(*) FROM comments WHERE plan_id = p.id)",
	).From("plans p").Where(sq.Eq{"p.company_id": companyID}).OrderBy("p.week_start DESC"),
		func(rows pgx.Rows) error {
			var (
				ps                  types.PlanSummary
				posts, commentCount int64
			)
			if err := rows.Scan(&ps.ID, &ps.CompanyID, &ps.WeekStart, &ps.Score, &posts, &commentCount); err != nil {
				return err
			}
			ps.WeekStart = ps.WeekStart.UTC()
			ps.PostCount = int(posts)
			ps.CommentCount = int(commentCount)
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
	query, args, err := psql.Select("id", "company_id", "week_start", "seed", "score", "flags", "notes", "created_at").
		From("plans").Where(sq.Eq{"id": planID}).ToSql()
	if err != nil {
		return nil, err
	}

	var (
		plan types.StoredPlan
		seed int64
	)
	err = s.pool.QueryRow(ctx, query, args...).Scan(
		&plan.ID, &plan.CompanyID, &plan.WeekStart, &seed, &plan.Quality.Score,
		&plan.Quality.Flags, &plan.Quality.Notes, &plan.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", planID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	plan.Seed = uint32(seed)
	plan.WeekStart = plan.WeekStart.UTC()
	plan.CreatedAt = plan.CreatedAt.UTC()

	err = s.each(ctx, psql.Select("id", "subreddit", "title", "body", "author", "scheduled_at", "keyword_ids").
		From("posts").Where(sq.Eq{"plan_id": planID}).OrderBy("position"),
		func(rows pgx.Rows) error {
			var p types.StoredPost
			if err := rows.Scan(&p.ID, &p.Subreddit, &p.Title, &p.Body, &p.Author, &p.ScheduledAt, &p.KeywordIDs); err != nil {
				return err
			}
			p.ScheduledAt = p.ScheduledAt.UTC()
			plan.Posts = append(plan.Posts, p)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("loading posts: %w", err)
	}

	err = s.each(ctx, psql.Select("id", "post_id", "parent_id", "text", "author", "scheduled_at").
		From("comments").Where(sq.Eq{"plan_id": planID}).OrderBy("position"),
		func(rows pgx.Rows) error {
			var (
				c      types.StoredComment
				parent *string
			)
			if err := rows.Scan(&c.ID, &c.PostID, &parent, &c.Text, &c.Author, &c.ScheduledAt); err != nil {
				return err
			}
			if parent != nil {
				c.ParentID = *parent
			}
			c.ScheduledAt = c.ScheduledAt.UTC()
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
	until := before.UTC()
	from := until.AddDate(0, 0, -7*weeks)

	seenKW := map[string]bool{}
	seenVenue := map[string]bool{}
	err := s.each(ctx, psql.Select("po.keyword_ids", "po.subreddit").
		From("posts po").Join("plans pl ON pl.id = po.plan_id").
		Where(sq.Eq{"pl.company_id": companyID}).
		Where(sq.GtOrEq{"pl.week_start": from}).
		Where(sq.Lt{"pl.week_start": until}).
		OrderBy("pl.week_start", "po.position"),
		func(rows pgx.Rows) error {
			var (
				ids   []string
				venue string
			)
			if err := rows.Scan(&ids, &venue); err != nil {
				return err
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
