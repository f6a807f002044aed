package roaring

import (
	"iter"
	"math"
)

// Iterator is a forward-only cursor over the values of a bitmap in ascending order.
// The bitmap must not be modified while the iterator is in use.
type Iterator struct {
	rb    *Bitmap
	value uint32
	valid bool
}

// Iterator returns a new iterator positioned at the smallest value of the bitmap
func (rb *Bitmap) Iterator() *Iterator {
	it := &Iterator{rb: rb}
	it.Seek(0)
	return it
}

// Seek positions the iterator at the smallest value that is >= x
func (it *Iterator) Seek(x uint32) {
	key, from := uint16(x>>16), uint16(x)
	for c := it.rb.nextContainer(key); c != nil; c = it.rb.nextContainer(c.Key + 1) {
		if c.Key != key {
			from = 0
		}

		if v, ok := c.next(from); ok {
			it.value = uint32(c.Key)<<16 | uint32(v)
			it.valid = true
			return
		}

		if c.Key == math.MaxUint16 {
			break
		}
	}

	it.valid = false
}

// Valid returns true if the iterator points to a value
func (it *Iterator) Valid() bool {
	return it.valid
}

// Value returns the current value; it is only meaningful when Valid returns true
func (it *Iterator) Value() uint32 {
	return it.value
}

// Next advances the iterator to the next value
func (it *Iterator) Next() {
	switch {
	case !it.valid:
		return
	case it.value == math.MaxUint32:
		it.valid = false
	default:
		it.Seek(it.value + 1)
	}
}

// All returns an iterator over all values of the bitmap in ascending order
func (rb *Bitmap) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for it := rb.Iterator(); it.Valid(); it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Min returns the smallest value of the bitmap
func (rb *Bitmap) Min() (uint32, bool) {
	it := rb.Iterator()
	return it.Value(), it.Valid()
}
