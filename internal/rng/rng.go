// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rng provides the seeded pseudo-random source and the sampling
// primitives the planner draws from. Every draw in a plan goes through one
// Source, so a plan is a pure function of its inputs and seed.
package rng

import "time"

// isoMillis matches the millisecond ISO-8601 form used for seed derivation.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Source is a Mulberry32 generator. It uses only 32-bit integer arithmetic,
// so a given seed yields the same stream on every platform.
type Source struct {
	state uint32
}

// New returns a Source seeded with seed.
func New(seed uint32) *Source {
	return &Source{state: seed}
}

// Float64 returns the next value in [0,1).
func (s *Source) Float64() float64 {
	s.state += 0x6D2B79F5
	t := s.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}

// SeedFor derives a seed from a company id and week start by summing the
// character codes of the company id followed by the week start in
// millisecond ISO-8601 UTC form.
func SeedFor(companyID string, weekStart time.Time) uint32 {
	var sum uint32
	for _, r := range companyID + weekStart.UTC().Format(isoMillis) {
		sum += uint32(r)
	}
	return sum
}
