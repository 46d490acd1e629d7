// Package stats computes the trip reports over a filtered table.
package stats

import (
	"cmp"
	"errors"
	"sort"
)

// ErrNoTrips is returned when a report needs at least one trip and the table is empty.
var ErrNoTrips = errors.New("no trips match the selected filters")

// Count pairs a value with how many trips carried it.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Mode returns the most frequent key. Ties go to the smallest key.
func Mode[K cmp.Ordered](counts map[K]int) (K, int, bool) {
	return ModeFunc(counts, cmp.Less[K])
}

// ModeFunc is Mode with a caller-supplied ordering for tie-breaks.
func ModeFunc[K comparable](counts map[K]int, less func(a, b K) bool) (K, int, bool) {
	var (
		best      K
		bestCount int
		found     bool
	)
	for key, n := range counts {
		if n <= 0 {
			continue
		}
		if !found || n > bestCount || (n == bestCount && less(key, best)) {
			best, bestCount, found = key, n, true
		}
	}
	return best, bestCount, found
}

// SortedCounts orders counts by count descending, then value ascending.
func SortedCounts(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	for value, n := range counts {
		out = append(out, Count{Value: value, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
