// Package verify is a differential-verification harness for bit-vector and sparse-vector
// containers. It loads containers from plain reference sequences and checks that every
// access path of a container (random access, iteration, enumeration, range counting,
// extraction, windowed decode and serialization round-trips) agrees with the reference
// and with every other path.
//
// Every check stops at the first divergence and reports it as a *Mismatch. By default
// the error is returned to the caller; with WithFatal the diagnostic is logged and the
// process terminates instead.
package verify

import (
	"io"
	"iter"

	"github.com/kelindar/sparsecheck/roaring"
)

// Bitset is a read-only set of uint32 keys
type Bitset interface {
	Contains(x uint32) bool
	Count() int
	CountRange(lo, hi uint32) int // Number of keys within the closed range [lo, hi]
	All() iter.Seq[uint32]        // Keys in ascending order
}

// MutableBitset is a set of uint32 keys that can be modified one key at a time
type MutableBitset interface {
	Bitset
	Set(x uint32)
	Remove(x uint32)
}

// Serializable is a container that can be written to and restored from a byte stream,
// and compared against a restored copy of itself.
type Serializable[T any] interface {
	IsNullable() bool
	NullBitmap() *roaring.Bitmap // nil if the container is not nullable
	Equal(other T) bool
	io.WriterTo
	io.ReaderFrom
}

// Vector is a sparse array of uint32 values with optional null tracking
type Vector[V any] interface {
	Serializable[V]
	Size() uint32
	At(i uint32) uint32
	IsNull(i uint32) bool
	Values() iter.Seq[uint32]
	Extract(dst []uint32, offset uint32) int
	ExtractRange(dst []uint32, offset uint32) int
}

// Decoder is a compressed array supporting element and windowed decoding
type Decoder interface {
	Size() uint32
	Get(i uint32) uint32
	Decode(dst []uint32, from uint32) int
}

// Compressed is a compressed sparse array that decompresses into a vector of type V
type Compressed[C, V any] interface {
	Serializable[C]
	Decoder
	IsNull(i uint32) bool
	LoadTo(dst V)
}

// Inserter appends values and runs of nulls to the end of a sparse array
type Inserter interface {
	Add(v uint32)
	AddNull(n uint32)
	Flush() error
}

// Compare performs a three-way comparison of two sets, walking their keys in ascending
// order. At the first differing key the set containing it is the greater one, and a set
// that is a prefix of the other is the smaller one.
func Compare(a, b Bitset) int {
	nextA, stopA := iter.Pull(a.All())
	defer stopA()
	nextB, stopB := iter.Pull(b.All())
	defer stopB()

	for {
		x, okA := nextA()
		y, okB := nextB()
		switch {
		case !okA && !okB:
			return 0
		case !okB:
			return 1
		case !okA:
			return -1
		case x < y:
			return 1
		case x > y:
			return -1
		}
	}
}
