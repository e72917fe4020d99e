// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/content-planner/pkg/types"
)

var at = time.Date(2025, 1, 7, 18, 5, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func sampleResult() *types.GenerationResult {
	return &types.GenerationResult{
		Seed: 1664,
		Posts: []types.GeneratedPost{
			{Subreddit: "r/powerpoint", Title: "Best slide templates?", Body: "b", Author: "alice", ScheduledAt: at, KeywordIDs: []string{"k1", "k2"}},
		},
		Comments: []types.GeneratedComment{
			{PostIndex: 0, Text: "Try the built-in ones first.", Author: "bob", ScheduledAt: at.Add(40 * time.Minute)},
			{PostIndex: 0, ParentIndex: intPtr(0), Text: "Thanks, will try.", Author: "alice", ScheduledAt: at.Add(55 * time.Minute)},
		},
		Quality: types.QualityReport{
			Score: 7,
			Flags: map[string]bool{
				types.FlagSinglePersonaDominates: true,
				types.FlagSalesyLanguage:         false,
				types.FlagTooManyOPReplies:       false,
			},
			Notes: "One persona is carrying most of the posts.",
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    types.OutputFormat
		wantErr bool
	}{
		{"", types.FormatYAML, false},
		{"yaml", types.FormatYAML, false},
		{" JSON ", types.FormatJSON, false},
		{"text", types.FormatText, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResultJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, sampleResult(), types.FormatJSON))

	var got types.GenerationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, uint32(1664), got.Seed)
	require.Len(t, got.Comments, 2)
	assert.Nil(t, got.Comments[0].ParentIndex)
	assert.Equal(t, 0, *got.Comments[1].ParentIndex)
	assert.Equal(t, 1, strings.Count(buf.String(), `"parent_index"`))
}

func TestResultYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, sampleResult(), types.FormatYAML))
	assert.Contains(t, buf.String(), "subreddit: r/powerpoint")

	var got types.GenerationResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleResult().Posts, got.Posts)
	assert.True(t, got.Quality.Flags[types.FlagSinglePersonaDominates])
}

func TestResultText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, sampleResult(), types.FormatText))
	out := buf.String()

	assert.Contains(t, out, "Week plan (seed 1664)")
	assert.Contains(t, out, "[1] Tue 2025-01-07 18:05  r/powerpoint  u/alice")
	assert.Contains(t, out, "keywords: k1, k2")
	assert.Contains(t, out, "    - 18:45 u/bob: Try the built-in ones first.")
	assert.Contains(t, out, "      - 19:00 u/alice: Thanks, will try.")
	assert.Contains(t, out, "Quality: 7/10")
	assert.Contains(t, out, "single_persona_dominates   FLAGGED")
	assert.Contains(t, out, "salesy_language            ok")
}

func TestPlanTextMatchesThreadDepth(t *testing.T) {
	plan := &types.StoredPlan{
		ID:        "plan-1",
		CompanyID: "slidely",
		WeekStart: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		Seed:      1664,
		Quality:   sampleResult().Quality,
		Posts: []types.StoredPost{
			{ID: "p1", GeneratedPost: sampleResult().Posts[0]},
		},
		Comments: []types.StoredComment{
			{ID: "c1", PostID: "p1", Text: "root", Author: "bob", ScheduledAt: at},
			{ID: "c2", PostID: "p1", ParentID: "c1", Text: "reply", Author: "alice", ScheduledAt: at},
			{ID: "c3", PostID: "p1", ParentID: "c2", Text: "nested", Author: "carol", ScheduledAt: at},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Plan(&buf, plan, types.FormatText))
	out := buf.String()

	assert.Contains(t, out, "Plan plan-1 for slidely, week of 2025-01-06 (seed 1664)")
	assert.Contains(t, out, "\n    - 18:05 u/bob: root\n")
	assert.Contains(t, out, "\n      - 18:05 u/alice: reply\n")
	assert.Contains(t, out, "\n        - 18:05 u/carol: nested\n")
}

func TestSummaries(t *testing.T) {
	plans := []types.PlanSummary{
		{ID: "a", CompanyID: "slidely", WeekStart: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), PostCount: 3, CommentCount: 9, Score: 9},
	}

	var buf bytes.Buffer
	require.NoError(t, Summaries(&buf, plans, types.FormatText))
	assert.Contains(t, buf.String(), "2025-01-13")
	assert.Contains(t, buf.String(), "1 plans")

	buf.Reset()
	require.NoError(t, Summaries(&buf, nil, types.FormatText))
	assert.Equal(t, "No plans found.\n", buf.String())

	buf.Reset()
	require.NoError(t, Summaries(&buf, plans, types.FormatJSON))
	assert.Contains(t, buf.String(), `"post_count": 3`)
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "plan.json")
	err := ToFile(path, func(w io.Writer) error {
		return Result(w, sampleResult(), types.FormatJSON)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
