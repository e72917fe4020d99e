// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose builds post titles, post bodies and comment text from small
// curated template pools. Builders are pure: they read their inputs, draw
// from the given rng.Random and return a string.
package compose

import (
	"strings"

	"github.com/pdiddy/content-planner/internal/rng"
	"github.com/pdiddy/content-planner/pkg/types"
)

// SoftMentionChance is the probability that a post body mentions the company by name.
const SoftMentionChance = 0.45

// Stance is the simulated rhetorical position of a comment.
type Stance string

const (
	StanceSupport Stance = "support"
	StanceNeutral Stance = "neutral"
	StanceCounter Stance = "counter"
)

var baseTitles = []string{
	"What's your go-to approach for {kw}?",
	"Struggling with {kw} lately, how do you handle it?",
	"Anyone else rethinking their {kw} setup?",
	"Quick question about {kw}",
	"How much time do you spend on {kw} each week?",
	"Lessons learned after a month of focusing on {kw}",
}

// powerpointTitles are unlocked for venues whose name mentions powerpoint.
var powerpointTitles = []string{
	"PowerPoint users: how do you deal with {kw}?",
	"Is there a cleaner way to do {kw} in PowerPoint?",
	"{kw} in PowerPoint keeps eating my afternoons",
}

var bodyOpeners = []string{
	"I've been working on {kw} for a few projects now and keep hitting the same walls.",
	"Our team spends more time on {kw} than I'd like to admit.",
	"Curious how people here approach {kw} day to day.",
	"Every deck I build ends up stuck on {kw} at the last minute.",
}

var bodyDetails = []string{
	"Right now I do most of it by hand and it's slow and error-prone.",
	"I've tried a couple of workflows but none of them stuck.",
	"The part that hurts most is keeping things consistent across files.",
	"Half the problem is that everyone on the team does it differently.",
}

var softMentions = []string{
	"A coworker mentioned {company} for this, has anyone used it?",
	"I've seen {company} come up a few times, curious whether it actually helps.",
	"Someone in another thread brought up {company}, not sure if it fits.",
}

var bodyClosers = []string{
	"Would love to hear what works for you in {venue}.",
	"Any tips appreciated.",
	"What would you do differently?",
	"Open to any suggestions, even low-tech ones.",
}

var commentPools = map[Stance][]string{
	StanceSupport: {
		"We switched to a more structured process for {kw} and it saved us a lot of back and forth.",
		"I tried {company} for this last quarter and it handled the boring parts well.",
		"Same boat here. Templates plus a short checklist made {kw} much less painful.",
		"Having one shared source for {kw} helped our team more than any single trick.",
	},
	StanceNeutral: {
		"Depends a lot on how often you do {kw}. For occasional work manual is fine.",
		"How big is your team? That changes the answer for {kw} quite a bit.",
		"I've seen both approaches work. What's the main bottleneck for you?",
		"Do you need this to be repeatable, or is it a one-off?",
	},
	StanceCounter: {
		"Honestly I'd avoid adding another tool for {kw}. A good template gets you most of the way.",
		"I tried a few dedicated tools and went back to doing {kw} by hand.",
		"Not convinced the tooling matters much here. Process fixes most of it.",
		"Most of these products overpromise. I'd start with whatever you already have.",
	},
}

const opReplyText = "Thanks, this is really helpful. Going to try this on my next project and report back."

// Title returns a post title. Every template contains the keyword phrase.
func Title(r rng.Random, keyword types.Keyword, venue string) string {
	pool := baseTitles
	if strings.Contains(strings.ToLower(venue), "powerpoint") {
		pool = append(append([]string(nil), baseTitles...), powerpointTitles...)
	}
	return fill(rng.MustPick(r, pool), keyword.Phrase, "", venue)
}

// Body returns a post body. The company is named with SoftMentionChance.
func Body(r rng.Random, company types.Company, keyword types.Keyword, venue string) string {
	parts := []string{
		rng.MustPick(r, bodyOpeners),
		rng.MustPick(r, bodyDetails),
	}
	if rng.Chance(r, SoftMentionChance) && company.Name != "" {
		parts = append(parts, rng.MustPick(r, softMentions))
	}
	parts = append(parts, rng.MustPick(r, bodyClosers))
	return fill(strings.Join(parts, " "), keyword.Phrase, company.Name, venue)
}

// Comment returns comment text from the pool for stance. Unknown stances use
// the neutral pool.
func Comment(r rng.Random, stance Stance, company types.Company, keyword types.Keyword) string {
	pool, ok := commentPools[stance]
	if !ok {
		pool = commentPools[StanceNeutral]
	}
	name := company.Name
	if name == "" {
		name = "a dedicated tool"
	}
	return fill(rng.MustPick(r, pool), keyword.Phrase, name, "")
}

// OPReply returns the fixed acknowledgment a post author leaves under the first comment.
func OPReply() string {
	return opReplyText
}

func fill(tmpl, keyword, company, venue string) string {
	if venue == "" {
		venue = "this sub"
	}
	return strings.NewReplacer(
		"{kw}", keyword,
		"{company}", company,
		"{venue}", venue,
	).Replace(tmpl)
}
