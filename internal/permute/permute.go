// Package permute orders columnar data through an index array instead of
// sorting a copy. A sort produces a permutation; Apply then moves every row
// into place by following the permutation's cycles, so each row is copied
// once and only a single row of scratch space is needed.
package permute

import (
	"cmp"
	"slices"
)

// Rows is a set of parallel columns that can be rearranged row by row.
// Stash copies row i into a one-row scratch slot, Move copies row src over
// row dst, and Unstash writes the scratch slot back into row dst.
type Rows interface {
	Len() int
	Stash(i int)
	Move(dst, src int)
	Unstash(dst int)
}

// SortIndex returns perm such that keys[perm[0]] <= keys[perm[1]] <= ...
// Equal keys keep their original relative order.
//
// Expectations:
//   - len(perm) == len(keys) and perm is a permutation of [0, len(keys))
//   - keys is not modified
//   - Empty input returns an empty, non-nil slice
func SortIndex[K cmp.Ordered](keys []K) []int {
	perm := make([]int, len(keys))
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int {
		return cmp.Compare(keys[a], keys[b])
	})
	return perm
}

// Apply rearranges rows so that position k receives the row that was at
// perm[k]. perm is consumed: it is reset to the identity as cycles close.
//
// Expectations:
//   - After Apply, row k holds the old row perm[k] for every k
//   - perm is the identity permutation on return
//   - Fixed points (perm[k] == k) are never stashed or moved
func Apply(rows Rows, perm []int) {
	for i := range perm {
		if perm[i] == i {
			continue
		}
		rows.Stash(i)
		k := i
		for {
			j := perm[k]
			perm[k] = k
			if j == i {
				break
			}
			rows.Move(k, j)
			k = j
		}
		rows.Unstash(k)
	}
}

// Sort orders rows by keys in place. keys must be one of rows' own columns
// (or otherwise move with it): it is read only while building the index.
func Sort[K cmp.Ordered](rows Rows, keys []K) {
	Apply(rows, SortIndex(keys))
}

// Slice adapts a plain slice to Rows.
type Slice[T any] struct {
	S     []T
	stash T
}

func (s *Slice[T]) Len() int          { return len(s.S) }
func (s *Slice[T]) Stash(i int)       { s.stash = s.S[i] }
func (s *Slice[T]) Move(dst, src int) { s.S[dst] = s.S[src] }
func (s *Slice[T]) Unstash(dst int)   { s.S[dst] = s.stash }

// SortSlice sorts s ascending in place through the index/permutation path.
func SortSlice[T cmp.Ordered](s []T) {
	Sort(&Slice[T]{S: s}, s)
}
