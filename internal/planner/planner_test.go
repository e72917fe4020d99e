// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-planner/pkg/types"
)

var testWeek = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func sampleInputs(postsPerWeek int) types.PlanInputs {
	return types.PlanInputs{
		Company: types.Company{
			ID:           "slidely",
			Name:         "Slidely",
			Description:  "Presentation tooling",
			PostsPerWeek: postsPerWeek,
		},
		Personas: []types.Persona{
			{ID: "p1", CompanyID: "slidely", Username: "alice", Bio: "designer"},
			{ID: "p2", CompanyID: "slidely", Username: "bob", Bio: "consultant"},
			{ID: "p3", CompanyID: "slidely", Username: "carol", Bio: "educator"},
		},
		Subreddits: []types.Subreddit{
			{ID: "s1", CompanyID: "slidely", Name: "r/design"},
			{ID: "s2", CompanyID: "slidely", Name: "r/powerpoint"},
			{ID: "s3", CompanyID: "slidely", Name: "r/presentations"},
		},
		Keywords: []types.Keyword{
			{ID: "k1", Phrase: "slide templates"},
			{ID: "k2", Phrase: "presentation workflow"},
			{ID: "k3", Phrase: "export to pdf"},
		},
	}
}

func phrases(in types.PlanInputs) map[string]string {
	m := make(map[string]string)
	for _, k := range in.Keywords {
		m[k.ID] = k.Phrase
	}
	return m
}

func seedPtr(s uint32) *uint32 { return &s }

func TestGenerateEndToEnd(t *testing.T) {
	in := sampleInputs(3)
	res, err := Generate(in, Options{WeekStart: testWeek})
	require.NoError(t, err)
	require.Len(t, res.Posts, 3)

	weekEnd := testWeek.AddDate(0, 0, 7)
	byID := phrases(in)
	for i, p := range res.Posts {
		assert.NotEmpty(t, p.Title)
		assert.Contains(t, p.Title, byID[p.PrimaryKeywordID()], "post %d", i)
		assert.False(t, p.ScheduledAt.Before(testWeek), "post %d before week", i)
		assert.True(t, p.ScheduledAt.Before(weekEnd), "post %d after week", i)
		assert.GreaterOrEqual(t, len(res.CommentsFor(i)), 2, "post %d comments", i)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	in := sampleInputs(7)
	a, err := Generate(in, Options{WeekStart: testWeek})
	require.NoError(t, err)
	b, err := Generate(in, Options{WeekStart: testWeek})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateWeekSensitive(t *testing.T) {
	in := sampleInputs(14)
	a, err := Generate(in, Options{WeekStart: testWeek})
	require.NoError(t, err)
	b, err := Generate(in, Options{WeekStart: testWeek.AddDate(0, 0, 7)})
	require.NoError(t, err)

	assert.NotEqual(t, a.Seed, b.Seed)
	assert.NotEqual(t, titles(a), titles(b))
}

func titles(res *types.GenerationResult) []string {
	out := make([]string, len(res.Posts))
	for i, p := range res.Posts {
		out[i] = p.Title
	}
	return out
}

func TestGenerateSeedOverride(t *testing.T) {
	in := sampleInputs(5)
	res, err := Generate(in, Options{WeekStart: testWeek, Seed: seedPtr(99)})
	require.NoError(t, err)
	assert.Equal(t, uint32(99), res.Seed)

	other, err := Generate(in, Options{WeekStart: testWeek.AddDate(0, 0, 14), Seed: seedPtr(99)})
	require.NoError(t, err)
	assert.Equal(t, titles(res), titles(other), "explicit seed takes priority over week")
}

func TestGenerateClampsPostCount(t *testing.T) {
	tests := []struct {
		perWeek int
		want    int
	}{
		{20, 14},
		{14, 14},
		{0, 1},
		{-3, 1},
		{5, 5},
	}
	for _, tt := range tests {
		res, err := Generate(sampleInputs(tt.perWeek), Options{WeekStart: testWeek})
		require.NoError(t, err)
		assert.Len(t, res.Posts, tt.want, "posts_per_week=%d", tt.perWeek)
	}
}

func TestGenerateNoKeywords(t *testing.T) {
	in := sampleInputs(3)
	in.Keywords = nil
	res, err := Generate(in, Options{WeekStart: testWeek})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoKeywords))
	assert.Nil(t, res)
}

func TestGenerateNoPersonas(t *testing.T) {
	in := sampleInputs(4)
	in.Personas = nil
	res, err := Generate(in, Options{WeekStart: testWeek})
	require.NoError(t, err)
	require.NotEmpty(t, res.Posts)
	for i, p := range res.Posts {
		assert.Equal(t, PlaceholderAuthor, p.Author)
		thread := res.CommentsFor(i)
		require.NotEmpty(t, thread)
		assert.NotEqual(t, p.Author, thread[0].Author)
	}
}

func TestGenerateSinglePersona(t *testing.T) {
	in := sampleInputs(3)
	in.Personas = in.Personas[:1]
	res, err := Generate(in, Options{WeekStart: testWeek})
	require.NoError(t, err)
	for i, p := range res.Posts {
		assert.Equal(t, "alice", p.Author)
		assert.Equal(t, PlaceholderCommenter, res.CommentsFor(i)[0].Author)
	}
}

func TestGenerateNoVenues(t *testing.T) {
	in := sampleInputs(3)
	in.Subreddits = nil
	res, err := Generate(in, Options{WeekStart: testWeek})
	require.NoError(t, err)
	for _, p := range res.Posts {
		assert.Equal(t, PlaceholderVenue, p.Subreddit)
	}
}

func TestGenerateSmallPoolsCycle(t *testing.T) {
	in := sampleInputs(6)
	in.Keywords = in.Keywords[:1]
	res, err := Generate(in, Options{WeekStart: testWeek})
	require.NoError(t, err)
	require.Len(t, res.Posts, 6)
	for _, p := range res.Posts {
		assert.Equal(t, []string{"k1"}, p.KeywordIDs)
		assert.Contains(t, p.Title, "slide templates")
	}
}

func TestGenerateWellFormedAcrossSeeds(t *testing.T) {
	in := sampleInputs(14)
	weekEnd := testWeek.AddDate(0, 0, 7)

	for seed := uint32(0); seed < 200; seed++ {
		res, err := Generate(in, Options{WeekStart: testWeek, Seed: seedPtr(seed)})
		require.NoError(t, err)

		prevDay := -1
		for _, p := range res.Posts {
			// Keyword tags: primary plus one or two distinct extras.
			require.GreaterOrEqual(t, len(p.KeywordIDs), 2)
			require.LessOrEqual(t, len(p.KeywordIDs), 3)
			seen := map[string]bool{}
			for _, id := range p.KeywordIDs {
				require.False(t, seen[id], "duplicate keyword id %s", id)
				seen[id] = true
			}

			// Days ascend with post position.
			day := int(p.ScheduledAt.Sub(testWeek).Hours()) / 24
			require.GreaterOrEqual(t, day, prevDay)
			prevDay = day

			// 16:00-23:00 UTC on a 5-minute boundary.
			require.GreaterOrEqual(t, p.ScheduledAt.Hour(), 16)
			require.Less(t, p.ScheduledAt.Hour(), 23)
			require.Zero(t, p.ScheduledAt.Minute()%5)
			require.True(t, p.ScheduledAt.Before(weekEnd))
		}

		lastAt := map[int]time.Time{}
		firstSeen := map[int]bool{}
		for i, c := range res.Comments {
			post := res.Posts[c.PostIndex]
			if c.ParentIndex != nil {
				require.Less(t, *c.ParentIndex, i, "parent must precede child")
				require.Equal(t, c.PostIndex, res.Comments[*c.ParentIndex].PostIndex, "parent must share post")
			}
			if !firstSeen[c.PostIndex] {
				firstSeen[c.PostIndex] = true
				require.True(t, c.IsTopLevel())
				require.NotEqual(t, post.Author, c.Author, "author opened own thread")
				lastAt[c.PostIndex] = post.ScheduledAt
			}
			require.True(t, c.ScheduledAt.After(lastAt[c.PostIndex]), "comment times must increase")
			lastAt[c.PostIndex] = c.ScheduledAt
		}
		require.Len(t, firstSeen, len(res.Posts))

		require.GreaterOrEqual(t, res.Quality.Score, 0)
		require.LessOrEqual(t, res.Quality.Score, 10)
	}
}

func TestGenerateThreadSizes(t *testing.T) {
	in := sampleInputs(14)
	sizes := map[int]int{}
	for seed := uint32(0); seed < 50; seed++ {
		res, err := Generate(in, Options{WeekStart: testWeek, Seed: seedPtr(seed)})
		require.NoError(t, err)
		for i := range res.Posts {
			n := len(res.CommentsFor(i))
			require.GreaterOrEqual(t, n, 2)
			require.LessOrEqual(t, n, 4)
			sizes[n]++
		}
	}
	for _, n := range []int{2, 3, 4} {
		assert.Positive(t, sizes[n], "thread size %d never produced", n)
	}
}

func TestGenerateRecencyDownWeighting(t *testing.T) {
	in := sampleInputs(1)
	recent := types.RecencyHints{KeywordIDs: []string{"k1", "k2"}}

	const runs = 600
	hits := 0
	for seed := uint32(0); seed < runs; seed++ {
		res, err := Generate(in, Options{WeekStart: testWeek, Seed: seedPtr(seed), Recent: recent})
		require.NoError(t, err)
		if res.Posts[0].PrimaryKeywordID() == "k3" {
			hits++
		}
	}
	// Uniform selection would give k3 one third of the time.
	assert.Greater(t, float64(hits)/runs, 0.5)
}

func TestGenerateVenueRecency(t *testing.T) {
	in := sampleInputs(1)
	recent := types.RecencyHints{VenueNames: []string{"r/design", "r/powerpoint"}}

	const runs = 600
	hits := 0
	for seed := uint32(0); seed < runs; seed++ {
		res, err := Generate(in, Options{WeekStart: testWeek, Seed: seedPtr(seed), Recent: recent})
		require.NoError(t, err)
		if res.Posts[0].Subreddit == "r/presentations" {
			hits++
		}
	}
	assert.Greater(t, float64(hits)/runs, 0.45)
}

func TestGenerateDoesNotMutateInputs(t *testing.T) {
	in := sampleInputs(5)
	before := sampleInputs(5)
	_, err := Generate(in, Options{WeekStart: testWeek})
	require.NoError(t, err)
	assert.Equal(t, before, in)
}

func TestGenerateNormalizesWeekStartTime(t *testing.T) {
	in := sampleInputs(3)
	a, err := Generate(in, Options{WeekStart: testWeek})
	require.NoError(t, err)
	b, err := Generate(in, Options{WeekStart: testWeek.Add(9 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday", testWeek, testWeek},
		{"wednesday afternoon", time.Date(2025, 1, 8, 15, 4, 0, 0, time.UTC), testWeek},
		{"sunday night", time.Date(2025, 1, 12, 23, 59, 0, 0, time.UTC), testWeek},
		{"next monday", time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), testWeek.AddDate(0, 0, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.in))
		})
	}
}

func TestClampPostCount(t *testing.T) {
	assert.Equal(t, 1, ClampPostCount(0))
	assert.Equal(t, 14, ClampPostCount(100))
	assert.Equal(t, 7, ClampPostCount(7))
}

func TestGenerateCleanTemplatesScoreWell(t *testing.T) {
	res, err := Generate(sampleInputs(6), Options{WeekStart: testWeek})
	require.NoError(t, err)
	assert.False(t, res.Quality.Flags[types.FlagSalesyLanguage])
	assert.Equal(t, 3, len(strings.Split(res.Quality.Notes, ". ")))
}
