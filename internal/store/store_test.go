// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-planner/pkg/types"
)

func intPtr(v int) *int { return &v }

func sampleResult() *types.GenerationResult {
	at := time.Date(2025, 1, 7, 18, 0, 0, 0, time.UTC)
	return &types.GenerationResult{
		Seed: 1664,
		Posts: []types.GeneratedPost{
			{Subreddit: "r/design", Title: "t0", Body: "b0", Author: "alice", ScheduledAt: at, KeywordIDs: []string{"k1"}},
			{Subreddit: "r/powerpoint", Title: "t1", Body: "b1", Author: "bob", ScheduledAt: at.Add(24 * time.Hour), KeywordIDs: []string{"k2", "k3"}},
		},
		Comments: []types.GeneratedComment{
			{PostIndex: 0, Text: "root", Author: "bob", ScheduledAt: at.Add(30 * time.Minute)},
			{PostIndex: 0, ParentIndex: intPtr(0), Text: "op", Author: "alice", ScheduledAt: at.Add(45 * time.Minute)},
			{PostIndex: 1, Text: "root", Author: "alice", ScheduledAt: at.Add(25 * time.Hour)},
			{PostIndex: 1, ParentIndex: intPtr(2), Text: "support", Author: "carol", ScheduledAt: at.Add(26 * time.Hour)},
		},
		Quality: types.QualityReport{Score: 9, Flags: map[string]bool{types.FlagSalesyLanguage: false}},
	}
}

func TestAssign(t *testing.T) {
	res := sampleResult()
	week := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 5, 12, 30, 15, 999, time.FixedZone("EST", -5*3600))

	plan, err := Assign("plan-1", "slidely", week, res, now)
	require.NoError(t, err)

	assert.Equal(t, "plan-1", plan.ID)
	assert.Equal(t, "slidely", plan.CompanyID)
	assert.Equal(t, week, plan.WeekStart)
	assert.Equal(t, uint32(1664), plan.Seed)
	assert.Equal(t, time.UTC, plan.CreatedAt.Location())
	assert.Zero(t, plan.CreatedAt.Nanosecond())
	assert.Equal(t, res.Quality, plan.Quality)

	require.Len(t, plan.Posts, 2)
	require.Len(t, plan.Comments, 4)

	ids := map[string]bool{plan.ID: true}
	for i, p := range plan.Posts {
		assert.NotEmpty(t, p.ID)
		assert.False(t, ids[p.ID], "ids are unique")
		ids[p.ID] = true
		assert.Equal(t, res.Posts[i], p.GeneratedPost)
	}
	for _, c := range plan.Comments {
		assert.False(t, ids[c.ID], "ids are unique")
		ids[c.ID] = true
	}

	assert.Equal(t, plan.Posts[0].ID, plan.Comments[0].PostID)
	assert.Empty(t, plan.Comments[0].ParentID)
	assert.Equal(t, plan.Comments[0].ID, plan.Comments[1].ParentID)
	assert.Equal(t, plan.Posts[1].ID, plan.Comments[3].PostID)
	assert.Equal(t, plan.Comments[2].ID, plan.Comments[3].ParentID)
	assert.Equal(t, "support", plan.Comments[3].Text)
}

func TestAssignRejectsBrokenThreads(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.GenerationResult)
	}{
		{"post index out of range", func(r *types.GenerationResult) { r.Comments[0].PostIndex = 7 }},
		{"negative post index", func(r *types.GenerationResult) { r.Comments[2].PostIndex = -1 }},
		{"parent after child", func(r *types.GenerationResult) { r.Comments[1].ParentIndex = intPtr(3) }},
		{"self parent", func(r *types.GenerationResult) { r.Comments[1].ParentIndex = intPtr(1) }},
		{"parent on another post", func(r *types.GenerationResult) { r.Comments[3].ParentIndex = intPtr(0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := sampleResult()
			tt.mutate(res)
			_, err := Assign("p", "c", time.Now(), res, time.Now())
			assert.True(t, errors.Is(err, ErrBrokenThread), "got %v", err)
		})
	}
}

func TestAssignEmptyResult(t *testing.T) {
	plan, err := Assign("p", "c", time.Now(), &types.GenerationResult{}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, plan.Posts)
	assert.Empty(t, plan.Comments)
}
