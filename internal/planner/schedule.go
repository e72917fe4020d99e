// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"sort"
	"time"

	"github.com/pdiddy/content-planner/internal/compose"
	"github.com/pdiddy/content-planner/internal/rng"
	"github.com/pdiddy/content-planner/pkg/types"
)

// dayWeights favours weekdays; index 0 is Monday.
var dayWeights = []float64{1.1, 1.2, 1.15, 1.2, 1.1, 0.9, 0.6}

const (
	windowStartMinute = 16 * 60
	windowEndMinute   = 23 * 60
	slotMinutes       = 5
)

// WeekStart returns Monday 00:00 UTC of the week containing t.
func WeekStart(t time.Time) time.Time {
	d := dateUTC(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func dateUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// drawDays draws n day offsets from dayWeights and sorts them ascending, so
// post i is never scheduled on an earlier day than post i-1.
func drawDays(r rng.Random, n int) []int {
	days := make([]int, n)
	for i := range days {
		days[i] = rng.WeightedIndex(r, dayWeights)
	}
	sort.Ints(days)
	return days
}

// drawMinute returns a minute of day in [16:00, 23:00), on a 5-minute boundary.
func drawMinute(r rng.Random) int {
	m := windowStartMinute + int(r.Float64()*float64(windowEndMinute-windowStartMinute))
	return m - m%slotMinutes
}

func buildPost(r rng.Random, company types.Company, kw types.Keyword, venue, author string, weekStart time.Time, day int) types.GeneratedPost {
	title := compose.Title(r, kw, venue)
	body := compose.Body(r, company, kw, venue)
	at := weekStart.AddDate(0, 0, day).Add(time.Duration(drawMinute(r)) * time.Minute)

	return types.GeneratedPost{
		Subreddit:   venue,
		Title:       title,
		Body:        body,
		Author:      author,
		ScheduledAt: at,
	}
}
