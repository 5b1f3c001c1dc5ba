package keyedstore

import (
	"fmt"
	"io"

	"TrendCast/internal/domain/models"
)

// DefaultCapacity is the bucket count used when none is given.
const DefaultCapacity = 100

type entry struct {
	key  int
	rec  models.DayRecord
	next *entry
}

// Store is a fixed-capacity hash map from row index to DayRecord.
// Collisions are resolved by chaining: fresh inserts prepend to the bucket
// chain, overwriting an existing key scans the chain and updates in place.
// Capacity is fixed at construction; there is no rehashing and no deletion.
type Store struct {
	buckets []*entry
	size    int
}

// New creates a store with the given bucket count. capacity <= 0 falls back
// to DefaultCapacity.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{buckets: make([]*entry, capacity)}
}

func (s *Store) bucketFor(key int) int {
	h := key % len(s.buckets)
	if h < 0 {
		h += len(s.buckets)
	}
	return h
}

// Put inserts rec under key, overwriting in place if key already exists.
func (s *Store) Put(key int, rec models.DayRecord) {
	b := s.bucketFor(key)
	for e := s.buckets[b]; e != nil; e = e.next {
		if e.key == key {
			e.rec = rec
			return
		}
	}
	s.buckets[b] = &entry{key: key, rec: rec, next: s.buckets[b]}
	s.size++
}

// Get returns the record stored under key. The second return value is false
// when the key has never been inserted; lookups never panic.
func (s *Store) Get(key int) (models.DayRecord, bool) {
	for e := s.buckets[s.bucketFor(key)]; e != nil; e = e.next {
		if e.key == key {
			return e.rec, true
		}
	}
	return models.DayRecord{}, false
}

// Len returns the number of distinct keys inserted.
func (s *Store) Len() int { return s.size }

// Capacity returns the fixed bucket count.
func (s *Store) Capacity() int { return len(s.buckets) }

// Display writes every bucket and its chain in bucket order, chain order
// most-recently-inserted-first. Diagnostic only.
func (s *Store) Display(w io.Writer) {
	for i, e := range s.buckets {
		if e == nil {
			continue
		}
		fmt.Fprintf(w, "bucket %d:", i)
		for ; e != nil; e = e.next {
			fmt.Fprintf(w, " (%d price=%.4f)", e.key, e.rec.Price)
		}
		fmt.Fprintln(w)
	}
}
