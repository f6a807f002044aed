// Package adapter wraps third-party bitmap implementations so that they can be loaded
// and checked by the verify package, side by side with the roaring engine.
package adapter

import (
	"iter"
	"math/bits"

	"github.com/RoaringBitmap/roaring"
	"github.com/bits-and-blooms/bitset"
	"github.com/kelindar/bitmap"
)

// ---------------------------------------- RoaringBitmap ----------------------------------------

// Roaring adapts a RoaringBitmap/roaring bitmap
type Roaring struct {
	rb *roaring.Bitmap
}

// NewRoaring creates an empty RoaringBitmap/roaring set
func NewRoaring() *Roaring {
	return &Roaring{rb: roaring.New()}
}

// Set sets the key
func (s *Roaring) Set(x uint32) {
	s.rb.Add(x)
}

// Remove removes the key
func (s *Roaring) Remove(x uint32) {
	s.rb.Remove(x)
}

// Contains checks whether the key is set
func (s *Roaring) Contains(x uint32) bool {
	return s.rb.Contains(x)
}

// Count returns the number of keys
func (s *Roaring) Count() int {
	return int(s.rb.GetCardinality())
}

// CountRange returns the number of keys within [lo, hi]
func (s *Roaring) CountRange(lo, hi uint32) int {
	if lo > hi {
		return 0
	}

	n := s.rb.Rank(hi)
	if lo > 0 {
		n -= s.rb.Rank(lo - 1)
	}
	return int(n)
}

// All returns the keys in ascending order
func (s *Roaring) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		s.rb.Iterate(yield)
	}
}

// ---------------------------------------- bits-and-blooms ----------------------------------------

// BitSet adapts a bits-and-blooms/bitset dense bit set
type BitSet struct {
	bs *bitset.BitSet
}

// NewBitSet creates an empty bits-and-blooms/bitset set
func NewBitSet() *BitSet {
	return &BitSet{bs: bitset.New(0)}
}

// Set sets the key
func (s *BitSet) Set(x uint32) {
	s.bs.Set(uint(x))
}

// Remove removes the key
func (s *BitSet) Remove(x uint32) {
	s.bs.Clear(uint(x))
}

// Contains checks whether the key is set
func (s *BitSet) Contains(x uint32) bool {
	return s.bs.Test(uint(x))
}

// Count returns the number of keys
func (s *BitSet) Count() int {
	return int(s.bs.Count())
}

// CountRange returns the number of keys within [lo, hi]
func (s *BitSet) CountRange(lo, hi uint32) int {
	count := 0
	for i, ok := s.bs.NextSet(uint(lo)); ok && i <= uint(hi); i, ok = s.bs.NextSet(i + 1) {
		count++
	}
	return count
}

// All returns the keys in ascending order
func (s *BitSet) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for i, ok := s.bs.NextSet(0); ok; i, ok = s.bs.NextSet(i + 1) {
			if !yield(uint32(i)) {
				return
			}
		}
	}
}

// ---------------------------------------- kelindar/bitmap ----------------------------------------

// Dense adapts a kelindar/bitmap dense bitmap
type Dense struct {
	bm bitmap.Bitmap
}

// NewDense creates an empty kelindar/bitmap set
func NewDense() *Dense {
	return &Dense{}
}

// Set sets the key
func (s *Dense) Set(x uint32) {
	s.bm.Set(x)
}

// Remove removes the key
func (s *Dense) Remove(x uint32) {
	s.bm.Remove(x)
}

// Contains checks whether the key is set
func (s *Dense) Contains(x uint32) bool {
	return s.bm.Contains(x)
}

// Count returns the number of keys
func (s *Dense) Count() int {
	return s.bm.Count()
}

// CountRange returns the number of keys within [lo, hi]
func (s *Dense) CountRange(lo, hi uint32) int {
	if lo > hi || int(lo>>6) >= len(s.bm) {
		return 0
	}

	first, last := int(lo>>6), min(int(hi>>6), len(s.bm)-1)
	count := 0
	for i := first; i <= last; i++ {
		w := s.bm[i]
		if i == first {
			w &= ^uint64(0) << (lo & 63)
		}
		if i == int(hi>>6) {
			w &= ^uint64(0) >> (63 - hi&63)
		}
		count += bits.OnesCount64(w)
	}
	return count
}

// All returns the keys in ascending order
func (s *Dense) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for i, w := range s.bm {
			for w != 0 {
				if !yield(uint32(i<<6 + bits.TrailingZeros64(w))) {
					return
				}
				w &= w - 1
			}
		}
	}
}
