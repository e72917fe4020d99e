// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package planner generates a week of forum posts and comment threads for a
// company. Generate is a pure function of its inputs: all randomness comes
// from one seeded rng.Source consumed in a fixed order, so the same company,
// week and input set always produce the same plan.
//
// RNG consumption order: keyword sample, venue sample, persona shuffle,
// day draws, then per post (title, body, time slot, extra keywords), then
// per post thread.
package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/content-planner/internal/quality"
	"github.com/pdiddy/content-planner/internal/rng"
	"github.com/pdiddy/content-planner/pkg/types"
)

// ErrNoKeywords is returned when the keyword set is empty. Every post needs a
// primary keyword, so there is no useful degraded output.
var ErrNoKeywords = errors.New("no keywords supplied: every post requires a primary keyword")

const (
	MinPostsPerWeek = 1
	MaxPostsPerWeek = 14

	recentKeywordWeight = 0.15
	recentVenueWeight   = 0.35
	baseWeight          = 1.0

	// PlaceholderAuthor posts when no personas are supplied.
	PlaceholderAuthor = "anonymous"

	// PlaceholderCommenter comments when no persona other than the post's
	// author is available.
	PlaceholderCommenter = "curious_reader"

	// PlaceholderVenue is targeted when no subreddits are supplied.
	PlaceholderVenue = "r/general"
)

// Options carries the per-invocation parameters that are not part of the
// relational inputs.
type Options struct {
	// WeekStart is the Monday of the target week. It is truncated to a UTC date.
	WeekStart time.Time

	// Recent biases selection away from recently used keywords and venues.
	Recent types.RecencyHints

	// Seed overrides the seed derived from company id and week start.
	Seed *uint32
}

// ClampPostCount bounds n to [MinPostsPerWeek, MaxPostsPerWeek].
func ClampPostCount(n int) int {
	return max(MinPostsPerWeek, min(MaxPostsPerWeek, n))
}

// Generate builds a week plan from in. It returns ErrNoKeywords when in has no
// keywords; every other degenerate input (no personas, no venues, pools
// smaller than the post count) degrades to a valid, possibly repetitive plan.
func Generate(in types.PlanInputs, opts Options) (*types.GenerationResult, error) {
	if len(in.Keywords) == 0 {
		return nil, fmt.Errorf("generating plan for company %q: %w", in.Company.ID, ErrNoKeywords)
	}

	weekStart := dateUTC(opts.WeekStart)
	seed := rng.SeedFor(in.Company.ID, weekStart)
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	r := rng.New(seed)

	postCount := ClampPostCount(in.Company.PostsPerWeek)

	keywords := selectKeywords(r, in.Keywords, opts.Recent.KeywordIDs, postCount)
	venues := selectVenues(r, in.Subreddits, opts.Recent.VenueNames, postCount)
	authors := rng.Shuffle(r, in.Personas)
	days := drawDays(r, postCount)

	posts := make([]types.GeneratedPost, postCount)
	primaries := make([]types.Keyword, postCount)
	for i := range posts {
		kw := keywords[i%len(keywords)]
		primaries[i] = kw

		venue := PlaceholderVenue
		if len(venues) > 0 {
			venue = venues[i%len(venues)].Name
		}

		author := PlaceholderAuthor
		if len(authors) > 0 {
			author = authors[i%len(authors)].Username
		}

		posts[i] = buildPost(r, in.Company, kw, venue, author, weekStart, days[i])
		posts[i].KeywordIDs = tagKeywords(r, kw, in.Keywords)
	}

	var comments []types.GeneratedComment
	for i := range posts {
		comments = appendThread(r, comments, threadInput{
			postIndex: i,
			post:      posts[i],
			keyword:   primaries[i],
			company:   in.Company,
			personas:  in.Personas,
		})
	}

	return &types.GenerationResult{
		Seed:     seed,
		Posts:    posts,
		Comments: comments,
		Quality:  quality.Score(posts, comments),
	}, nil
}

func selectKeywords(r rng.Random, all []types.Keyword, recentIDs []string, k int) []types.Keyword {
	recent := toSet(recentIDs)
	return rng.WeightedSampleUnique(r, all, func(kw types.Keyword) float64 {
		if recent[kw.ID] {
			return recentKeywordWeight
		}
		return baseWeight
	}, k)
}

func selectVenues(r rng.Random, all []types.Subreddit, recentNames []string, k int) []types.Subreddit {
	recent := toSet(recentNames)
	return rng.WeightedSampleUnique(r, all, func(s types.Subreddit) float64 {
		if recent[s.Name] {
			return recentVenueWeight
		}
		return baseWeight
	}, k)
}

// tagKeywords returns the primary keyword id followed by one or two distinct
// extras drawn from a fresh shuffle of all keywords.
func tagKeywords(r rng.Random, primary types.Keyword, all []types.Keyword) []string {
	extra := 2
	if rng.Chance(r, 0.6) {
		extra = 1
	}

	ids := []string{primary.ID}
	seen := map[string]bool{primary.ID: true}
	for _, kw := range rng.Shuffle(r, all) {
		if len(ids) >= 1+extra || len(ids) >= 3 {
			break
		}
		if seen[kw.ID] {
			continue
		}
		seen[kw.ID] = true
		ids = append(ids, kw.ID)
	}
	return ids
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
