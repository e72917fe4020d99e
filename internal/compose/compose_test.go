// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/content-planner/internal/rng"
	"github.com/pdiddy/content-planner/pkg/types"
)

var (
	testCompany = types.Company{ID: "c1", Name: "Slidely", PostsPerWeek: 3}
	testKeyword = types.Keyword{ID: "k1", Phrase: "slide templates"}
)

func TestTitleContainsKeyword(t *testing.T) {
	for _, venue := range []string{"r/design", "r/powerpoint", "r/PowerPoint", ""} {
		r := rng.New(11)
		for i := 0; i < 200; i++ {
			title := Title(r, testKeyword, venue)
			assert.Contains(t, title, testKeyword.Phrase, "venue %q", venue)
		}
	}
}

func TestTitlePowerpointUnlocksTemplates(t *testing.T) {
	seen := map[string]bool{}
	r := rng.New(3)
	for i := 0; i < 500; i++ {
		seen[Title(r, testKeyword, "r/powerpoint")] = true
	}
	unlocked := false
	for title := range seen {
		if strings.Contains(title, "PowerPoint") {
			unlocked = true
		}
	}
	assert.True(t, unlocked, "powerpoint venue should surface powerpoint titles")

	r = rng.New(3)
	for i := 0; i < 500; i++ {
		assert.NotContains(t, Title(r, testKeyword, "r/design"), "PowerPoint")
	}
}

func TestBodySoftMentionRate(t *testing.T) {
	mentions := 0
	const runs = 4000
	r := rng.New(2024)
	for i := 0; i < runs; i++ {
		if strings.Contains(Body(r, testCompany, testKeyword, "r/design"), testCompany.Name) {
			mentions++
		}
	}
	rate := float64(mentions) / runs
	assert.InDelta(t, SoftMentionChance, rate, 0.05)
}

func TestBodyWithoutCompanyName(t *testing.T) {
	r := rng.New(1)
	for i := 0; i < 100; i++ {
		body := Body(r, types.Company{ID: "x"}, testKeyword, "r/design")
		assert.NotContains(t, body, "{company}")
		assert.Contains(t, body, testKeyword.Phrase)
	}
}

func TestCommentPools(t *testing.T) {
	for _, stance := range []Stance{StanceSupport, StanceNeutral, StanceCounter, Stance("other")} {
		r := rng.New(8)
		for i := 0; i < 50; i++ {
			text := Comment(r, stance, testCompany, testKeyword)
			assert.NotEmpty(t, text)
			assert.NotContains(t, text, "{")
		}
	}
}

func TestCommentUsesStancePool(t *testing.T) {
	text := Comment(rng.New(4), StanceCounter, testCompany, testKeyword)
	found := false
	for _, tmpl := range commentPools[StanceCounter] {
		if fill(tmpl, testKeyword.Phrase, testCompany.Name, "") == text {
			found = true
		}
	}
	assert.True(t, found)
}

func TestOPReplyIsFixed(t *testing.T) {
	assert.Equal(t, OPReply(), OPReply())
	assert.NotEmpty(t, OPReply())
}

func TestBuildersAreDeterministic(t *testing.T) {
	a, b := rng.New(77), rng.New(77)
	for i := 0; i < 20; i++ {
		assert.Equal(t, Title(a, testKeyword, "r/powerpoint"), Title(b, testKeyword, "r/powerpoint"))
		assert.Equal(t, Body(a, testCompany, testKeyword, "r/x"), Body(b, testCompany, testKeyword, "r/x"))
		assert.Equal(t, Comment(a, StanceSupport, testCompany, testKeyword), Comment(b, StanceSupport, testCompany, testKeyword))
	}
}
