// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"time"

	"github.com/pdiddy/content-planner/internal/compose"
	"github.com/pdiddy/content-planner/internal/rng"
	"github.com/pdiddy/content-planner/pkg/types"
)

const (
	opReplyChance     = 0.65
	rootNeutralChance = 0.7
)

type threadInput struct {
	postIndex int
	post      types.GeneratedPost
	keyword   types.Keyword
	company   types.Company
	personas  []types.Persona
}

// drawCommentTarget returns 2 (25%), 3 (50%) or 4 (25%).
func drawCommentTarget(r rng.Random) int {
	x := r.Float64()
	switch {
	case x < 0.25:
		return 2
	case x < 0.75:
		return 3
	default:
		return 4
	}
}

// appendThread appends one post's comment thread to comments and returns the
// extended slice. Parent indices always point at the thread's root, which is
// appended first, so every parent precedes its children.
func appendThread(r rng.Random, comments []types.GeneratedComment, in threadInput) []types.GeneratedComment {
	target := drawCommentTarget(r)

	var others []types.Persona
	for _, p := range in.personas {
		if p.Username != in.post.Author {
			others = append(others, p)
		}
	}
	pool := rng.Shuffle(r, others)
	commenter := func(pos int) string {
		if len(pool) > 0 {
			return pool[min(pos, len(pool)-1)].Username
		}
		if len(in.personas) > 0 && in.personas[0].Username != in.post.Author {
			return in.personas[0].Username
		}
		return PlaceholderCommenter
	}

	at := in.post.ScheduledAt
	advance := func(lo, hi int) time.Time {
		at = at.Add(time.Duration(rng.IntBetween(r, lo, hi)) * time.Minute)
		return at
	}

	rootStance := compose.StanceCounter
	if rng.Chance(r, rootNeutralChance) {
		rootStance = compose.StanceNeutral
	}
	root := len(comments)
	comments = append(comments, types.GeneratedComment{
		PostIndex:   in.postIndex,
		Text:        compose.Comment(r, rootStance, in.company, in.keyword),
		Author:      commenter(0),
		ScheduledAt: advance(25, 120),
	})

	if rng.Chance(r, opReplyChance) {
		comments = append(comments, types.GeneratedComment{
			PostIndex:   in.postIndex,
			ParentIndex: intPtr(root),
			Text:        compose.OPReply(),
			Author:      in.post.Author,
			ScheduledAt: advance(6, 30),
		})
	}

	comments = append(comments, types.GeneratedComment{
		PostIndex:   in.postIndex,
		ParentIndex: intPtr(root),
		Text:        compose.Comment(r, compose.StanceSupport, in.company, in.keyword),
		Author:      commenter(1),
		ScheduledAt: advance(10, 44),
	})

	if target == 4 {
		stance := compose.StanceCounter
		if rng.Chance(r, 0.5) {
			stance = compose.StanceNeutral
		}
		comments = append(comments, types.GeneratedComment{
			PostIndex:   in.postIndex,
			Text:        compose.Comment(r, stance, in.company, in.keyword),
			Author:      commenter(2),
			ScheduledAt: advance(8, 47),
		})
	}

	return comments
}

func intPtr(v int) *int {
	return &v
}
