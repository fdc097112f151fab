// Package bucketset provides an ordered, timestamp-unique bucket container.
package bucketset

import (
	"slices"
	"time"

	"day-buckets/internal/domain"
)

// Set keeps buckets sorted by timestamp and rejects a bucket whose timestamp
// is already present. The first inserted bucket for a timestamp wins; later
// ones are dropped without merging or overwriting.
type Set struct {
	items []domain.Bucket
}

// New creates an empty set with room for capacity buckets.
func New(capacity int) *Set {
	return &Set{items: make([]domain.Bucket, 0, capacity)}
}

// FromSlice builds a set by adding buckets in slice order.
func FromSlice(buckets []domain.Bucket) *Set {
	s := New(len(buckets))
	for _, b := range buckets {
		s.Add(b)
	}
	return s
}

// Add inserts b unless its timestamp is already present.
// Returns false when b was dropped.
func (s *Set) Add(b domain.Bucket) bool {
	i, found := s.search(b.Time)
	if found {
		return false
	}
	s.items = slices.Insert(s.items, i, b)
	return true
}

// Len returns the number of buckets.
func (s *Set) Len() int {
	return len(s.items)
}

// Last returns the latest bucket.
func (s *Set) Last() (domain.Bucket, bool) {
	if len(s.items) == 0 {
		return domain.Bucket{}, false
	}
	return s.items[len(s.items)-1], true
}

// At returns the i-th bucket in ascending order.
func (s *Set) At(i int) domain.Bucket {
	return s.items[i]
}

// Each calls fn for every bucket in ascending timestamp order.
func (s *Set) Each(fn func(domain.Bucket)) {
	for _, b := range s.items {
		fn(b)
	}
}

// Items returns a copy of the buckets in ascending timestamp order.
func (s *Set) Items() []domain.Bucket {
	return slices.Clone(s.items)
}

func (s *Set) search(t time.Time) (int, bool) {
	return slices.BinarySearchFunc(s.items, t, func(b domain.Bucket, t time.Time) int {
		return b.Time.Compare(t)
	})
}
