package core

import (
	"cmp"
	"slices"
)

// Schedule orders candidates by descriptor priority, highest first. Equal
// priorities keep the order they were discovered in, so the same directory
// always loads the same way.
func Schedule(candidates []Candidate) []Candidate {
	out := slices.Clone(candidates)
	slices.SortStableFunc(out, func(a, b Candidate) int {
		return cmp.Compare(b.Descriptor.Priority, a.Descriptor.Priority)
	})
	return out
}
