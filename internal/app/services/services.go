// Package services holds the business rules of the student records
// application. Services validate input, then drive the record store;
// every multi-step mutation runs inside one store transaction.
package services

import (
	"sort"
)

// uniqueIDs drops duplicates and returns the IDs in ascending order
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
