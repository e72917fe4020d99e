// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rng

import (
	"errors"
	"math"
)

// ErrEmptyList is returned by PickOne when there is nothing to pick from.
var ErrEmptyList = errors.New("rng: pick from empty list")

// Random is the draw interface the sampling primitives consume.
type Random interface {
	Float64() float64
}

// index maps a draw onto [0,n).
func index(r Random, n int) int {
	i := int(math.Floor(r.Float64() * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i
}

// PickOne returns one element of list chosen uniformly.
func PickOne[T any](r Random, list []T) (T, error) {
	var zero T
	if len(list) == 0 {
		return zero, ErrEmptyList
	}
	return list[index(r, len(list))], nil
}

// MustPick is PickOne for lists the caller knows are non-empty, such as the
// fixed template pools.
func MustPick[T any](r Random, list []T) T {
	v, err := PickOne(r, list)
	if err != nil {
		panic(err)
	}
	return v
}

// Shuffle returns a Fisher-Yates permutation of list. The input is not modified.
func Shuffle[T any](r Random, list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	for i := len(out) - 1; i > 0; i-- {
		j := index(r, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// WeightedSampleUnique draws up to k distinct items without replacement.
// Each draw selects a remaining item with probability proportional to its
// weight. Weights are computed once, before the first draw. When the
// remaining total weight is not positive the draw falls back to a uniform
// pick, so zero-weight pools still drain.
func WeightedSampleUnique[T any](r Random, items []T, weight func(T) float64, k int) []T {
	if k > len(items) {
		k = len(items)
	}
	if k <= 0 {
		return nil
	}

	type entry struct {
		item   T
		weight float64
	}
	pool := make([]entry, len(items))
	for i, it := range items {
		pool[i] = entry{item: it, weight: weight(it)}
	}

	out := make([]T, 0, k)
	for len(out) < k {
		total := 0.0
		for _, e := range pool {
			total += e.weight
		}

		pick := -1
		if total > 0 {
			x := r.Float64() * total
			for i, e := range pool {
				x -= e.weight
				if x < 0 {
					pick = i
					break
				}
			}
			// Rounding can leave x at a tiny non-negative value.
			if pick < 0 {
				pick = len(pool) - 1
			}
		} else {
			pick = index(r, len(pool))
		}

		out = append(out, pool[pick].item)
		pool = append(pool[:pick], pool[pick+1:]...)
	}
	return out
}

// IntBetween returns an integer in [lo,hi], inclusive.
func IntBetween(r Random, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + index(r, hi-lo+1)
}

// Chance reports true with probability p.
func Chance(r Random, p float64) bool {
	return r.Float64() < p
}

// WeightedIndex returns an index into weights chosen proportionally to the
// weights. All weights must be non-negative with a positive sum.
func WeightedIndex(r Random, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	x := r.Float64() * total
	for i, w := range weights {
		x -= w
		if x < 0 {
			return i
		}
	}
	return len(weights) - 1
}
