// Package history loads draw results and merges them by contest number.
package history

import (
	"github.com/google/btree"

	"github.com/verte-zerg/lotofacil/internal/model"
)

const treeDegree = 16

// Set keeps draw records ordered by contest number. A record added for a
// contest already present replaces it.
type Set struct {
	tree *btree.BTreeG[model.DrawRecord]
}

// NewSet returns an empty Set holding records.
func NewSet(records ...model.DrawRecord) *Set {
	s := &Set{tree: btree.NewG(treeDegree, func(a, b model.DrawRecord) bool {
		return a.Contest < b.Contest
	})}
	s.Add(records...)
	return s
}

// Add inserts records and returns how many contests were new.
func (s *Set) Add(records ...model.DrawRecord) int {
	added := 0
	for _, r := range records {
		if _, replaced := s.tree.ReplaceOrInsert(r); !replaced {
			added++
		}
	}
	return added
}

// Len returns the number of contests held.
func (s *Set) Len() int {
	return s.tree.Len()
}

// Get returns the record for a contest.
func (s *Set) Get(contest int) (model.DrawRecord, bool) {
	return s.tree.Get(model.DrawRecord{Contest: contest})
}

// Latest returns the highest contest number, or 0 when empty.
func (s *Set) Latest() int {
	r, ok := s.tree.Max()
	if !ok {
		return 0
	}
	return r.Contest
}

// Records returns every record in ascending contest order.
func (s *Set) Records() []model.DrawRecord {
	out := make([]model.DrawRecord, 0, s.tree.Len())
	s.tree.Ascend(func(r model.DrawRecord) bool {
		out = append(out, r)
		return true
	})
	return out
}

// After returns records with a contest number greater than contest.
func (s *Set) After(contest int) []model.DrawRecord {
	var out []model.DrawRecord
	s.tree.AscendGreaterOrEqual(model.DrawRecord{Contest: contest + 1}, func(r model.DrawRecord) bool {
		out = append(out, r)
		return true
	})
	return out
}

// Missing lists contest numbers in [from, to] that are not held.
func (s *Set) Missing(from, to int) []int {
	var out []int
	for c := from; c <= to; c++ {
		if !s.tree.Has(model.DrawRecord{Contest: c}) {
			out = append(out, c)
		}
	}
	return out
}
