// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality scores a generated batch for signs that it was manufactured:
// one persona doing all the posting, promotional phrasing, and authors
// replying on their own threads too often.
package quality

import (
	"regexp"
	"strings"

	"github.com/pdiddy/content-planner/pkg/types"
)

const (
	baseScore = 9
	maxScore  = 10

	penaltySinglePersona = 2
	penaltySalesy        = 3
	penaltyOPReplies     = 1

	// dominanceThreshold is the share of posts one author may hold before flagging.
	dominanceThreshold = 0.6

	// opReplyRatioThreshold is the self-comments per post above which we flag.
	opReplyRatioThreshold = 1.2
)

// salesyPattern is a crude denylist of promotional phrasing.
var salesyPattern = regexp.MustCompile(`(?i)(sign up|limited time|dm me|link in bio|try it now|discount|affiliat(e)?|use my tool)`)

// Score inspects posts and comments and returns a QualityReport. It does not
// modify its arguments. Comments whose PostIndex falls outside posts are
// ignored for the op-reply ratio.
func Score(posts []types.GeneratedPost, comments []types.GeneratedComment) types.QualityReport {
	flags := map[string]bool{
		types.FlagSinglePersonaDominates: singlePersonaDominates(posts),
		types.FlagSalesyLanguage:         salesy(posts, comments),
		types.FlagTooManyOPReplies:       tooManyOPReplies(posts, comments),
	}

	score := baseScore
	if flags[types.FlagSinglePersonaDominates] {
		score -= penaltySinglePersona
	}
	if flags[types.FlagSalesyLanguage] {
		score -= penaltySalesy
	}
	if flags[types.FlagTooManyOPReplies] {
		score -= penaltyOPReplies
	}
	score = max(0, min(maxScore, score))

	return types.QualityReport{
		Score: score,
		Flags: flags,
		Notes: notes(flags),
	}
}

func singlePersonaDominates(posts []types.GeneratedPost) bool {
	if len(posts) == 0 {
		return false
	}
	counts := make(map[string]int)
	top := 0
	for _, p := range posts {
		counts[p.Author]++
		top = max(top, counts[p.Author])
	}
	return float64(top)/float64(len(posts)) > dominanceThreshold
}

func salesy(posts []types.GeneratedPost, comments []types.GeneratedComment) bool {
	for _, p := range posts {
		if salesyPattern.MatchString(p.Body) {
			return true
		}
	}
	for _, c := range comments {
		if salesyPattern.MatchString(c.Text) {
			return true
		}
	}
	return false
}

func tooManyOPReplies(posts []types.GeneratedPost, comments []types.GeneratedComment) bool {
	if len(posts) == 0 {
		return false
	}
	self := 0
	for _, c := range comments {
		if c.PostIndex < 0 || c.PostIndex >= len(posts) {
			continue
		}
		if c.Author == posts[c.PostIndex].Author {
			self++
		}
	}
	return float64(self)/float64(len(posts)) > opReplyRatioThreshold
}

func notes(flags map[string]bool) string {
	sentences := []string{
		pick(flags[types.FlagSinglePersonaDominates],
			"One persona is carrying most of the posts; spread authorship across more personas.",
			"Post authorship is spread across personas."),
		pick(flags[types.FlagSalesyLanguage],
			"Some text reads as promotional; remove sales phrasing.",
			"No promotional phrasing detected."),
		pick(flags[types.FlagTooManyOPReplies],
			"Authors reply on their own threads too often; cut back on OP replies.",
			"OP reply volume looks natural."),
	}
	return strings.Join(sentences, " ")
}

func pick(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
