// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store defines the persistence contract for plan inputs and
// generated plans. Backends live in the sqlite and postgres subpackages.
// The planner never touches a store; the CLI loads inputs, generates, and
// hands the result to SavePlan, which turns temp indices into permanent ids.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/content-planner/pkg/types"
)

var (
	// ErrNotFound is returned when a company or plan does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPlanExists is returned by SavePlan when the company already has a
	// plan for the week.
	ErrPlanExists = errors.New("plan already exists for this company and week")

	// ErrBrokenThread is returned by Assign when a comment references a post
	// or parent that does not precede it.
	ErrBrokenThread = errors.New("comment references a missing or later parent")
)

// Store persists plan inputs and generated plans.
type Store interface {
	// SaveInputs upserts the company and replaces its personas and
	// subreddits. Keywords are upserted by id.
	SaveInputs(ctx context.Context, in types.PlanInputs) error

	// LoadInputs returns everything stored for companyID.
	LoadInputs(ctx context.Context, companyID string) (*types.PlanInputs, error)

	// SavePlan persists res as the plan for (companyID, weekStart) in one
	// transaction. Parents are inserted before their children.
	SavePlan(ctx context.Context, companyID string, weekStart time.Time, res *types.GenerationResult) (*types.StoredPlan, error)

	// ListPlans returns the company's plans, newest week first.
	ListPlans(ctx context.Context, companyID string) ([]types.PlanSummary, error)

	// LoadPlan returns a stored plan with its posts and comments in insertion order.
	LoadPlan(ctx context.Context, planID string) (*types.StoredPlan, error)

	// RecentHints collects keyword ids and venue names used by the company's
	// plans for weeks in [before - weeks*7d, before).
	RecentHints(ctx context.Context, companyID string, before time.Time, weeks int) (types.RecencyHints, error)

	Close() error
}

// Assign gives a generated plan permanent ids. Posts and comments keep their
// output order, which is also a valid insertion order: every comment's
// parent appears earlier in the returned slice.
func Assign(planID string, companyID string, weekStart time.Time, res *types.GenerationResult, now time.Time) (*types.StoredPlan, error) {
	plan := &types.StoredPlan{
		ID:        planID,
		CompanyID: companyID,
		WeekStart: weekStart.UTC(),
		Seed:      res.Seed,
		CreatedAt: now.UTC().Truncate(time.Second),
		Quality:   res.Quality,
		Posts:     make([]types.StoredPost, len(res.Posts)),
		Comments:  make([]types.StoredComment, len(res.Comments)),
	}

	for i, p := range res.Posts {
		plan.Posts[i] = types.StoredPost{ID: uuid.NewString(), GeneratedPost: p}
	}

	for i, c := range res.Comments {
		if c.PostIndex < 0 || c.PostIndex >= len(plan.Posts) {
			return nil, fmt.Errorf("comment %d: post index %d: %w", i, c.PostIndex, ErrBrokenThread)
		}
		sc := types.StoredComment{
			ID:          uuid.NewString(),
			PostID:      plan.Posts[c.PostIndex].ID,
			Text:        c.Text,
			Author:      c.Author,
			ScheduledAt: c.ScheduledAt,
		}
		if c.ParentIndex != nil {
			parent := *c.ParentIndex
			if parent < 0 || parent >= i || res.Comments[parent].PostIndex != c.PostIndex {
				return nil, fmt.Errorf("comment %d: parent index %d: %w", i, parent, ErrBrokenThread)
			}
			sc.ParentID = plan.Comments[parent].ID
		}
		plan.Comments[i] = sc
	}

	return plan, nil
}
