package sparse

import (
	"iter"

	"github.com/kelindar/sparsecheck/roaring"
)

const planeCount = 32

// Vector represents a sparse array of uint32 values, stored transposed as one roaring
// bitmap per value bit. A nullable vector additionally tracks which positions hold a
// value; positions that are null always read as zero.
type Vector struct {
	planes [planeCount]*roaring.Bitmap // plane k holds the positions whose value has bit k set
	nulls  *roaring.Bitmap             // positions holding a value, nil if not nullable
	size   uint32
}

// New creates a new, empty vector without null tracking
func New() *Vector {
	return &Vector{}
}

// NewNullable creates a new, empty vector with null tracking
func NewNullable() *Vector {
	return &Vector{nulls: roaring.New()}
}

// Size returns the number of positions in the vector
func (sv *Vector) Size() uint32 {
	return sv.size
}

// IsNullable returns true if the vector tracks null positions
func (sv *Vector) IsNullable() bool {
	return sv.nulls != nil
}

// NullBitmap returns the bitmap of non-null positions, or nil if the vector is not nullable
func (sv *Vector) NullBitmap() *roaring.Bitmap {
	return sv.nulls
}

// Set sets the value at the given position, growing the vector if necessary.
func (sv *Vector) Set(i, v uint32) {
	sv.grow(i)
	for k := 0; k < planeCount; k++ {
		switch {
		case v&(1<<k) != 0:
			sv.plane(k).Set(i)
		case sv.planes[k] != nil:
			sv.planes[k].Remove(i)
		}
	}

	if sv.nulls != nil {
		sv.nulls.Set(i)
	}
}

// SetNull marks the position as null, growing the vector if necessary. It is a no-op
// for a vector that is not nullable.
func (sv *Vector) SetNull(i uint32) {
	if sv.nulls == nil {
		return
	}

	sv.grow(i)
	sv.nulls.Remove(i)
	for _, p := range sv.planes {
		if p != nil {
			p.Remove(i)
		}
	}
}

// At returns the value at the given position, or zero if it is null or out of bounds
func (sv *Vector) At(i uint32) (v uint32) {
	if i >= sv.size {
		return 0
	}

	for k, p := range sv.planes {
		if p != nil && p.Contains(i) {
			v |= 1 << k
		}
	}
	return
}

// IsNull returns true if the position does not hold a value
func (sv *Vector) IsNull(i uint32) bool {
	return sv.nulls != nil && !sv.nulls.Contains(i)
}

// Values returns an iterator over every position of the vector, in order. Unlike At,
// it walks all of the bit planes in lock-step.
func (sv *Vector) Values() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		var cursors [planeCount]*roaring.Iterator
		for k, p := range sv.planes {
			if p != nil {
				cursors[k] = p.Iterator()
			}
		}

		for i := uint32(0); i < sv.size; i++ {
			var v uint32
			for k, it := range cursors {
				if it != nil && it.Valid() && it.Value() == i {
					v |= 1 << k
					it.Next()
				}
			}

			if !yield(v) {
				return
			}
		}
	}
}

// Extract copies the values starting at offset into dst and returns the number of
// values copied. Each bit plane is scanned from the start.
func (sv *Vector) Extract(dst []uint32, offset uint32) int {
	n := sv.window(len(dst), offset)
	clear(dst[:n])
	end := offset + uint32(n)
	for k, p := range sv.planes {
		if p == nil || n == 0 {
			continue
		}

		p.Range(func(x uint32) bool {
			switch {
			case x < offset:
				return true
			case x >= end:
				return false
			default:
				dst[x-offset] |= 1 << k
				return true
			}
		})
	}
	return n
}

// ExtractRange copies the values starting at offset into dst and returns the number
// of values copied. Each bit plane is entered by seeking directly to the offset.
func (sv *Vector) ExtractRange(dst []uint32, offset uint32) int {
	n := sv.window(len(dst), offset)
	clear(dst[:n])
	end := offset + uint32(n)
	for k, p := range sv.planes {
		if p == nil || n == 0 {
			continue
		}

		it := p.Iterator()
		for it.Seek(offset); it.Valid() && it.Value() < end; it.Next() {
			dst[it.Value()-offset] |= 1 << k
		}
	}
	return n
}

// Equal returns true if both vectors have the same size, nullability, null positions
// and values.
func (sv *Vector) Equal(other *Vector) bool {
	switch {
	case sv == other:
		return true
	case other == nil:
		return false
	case sv.size != other.size:
		return false
	case sv.IsNullable() != other.IsNullable():
		return false
	case sv.nulls != nil && !sv.nulls.Equal(other.nulls):
		return false
	}

	for k := range sv.planes {
		if !planeEqual(sv.planes[k], other.planes[k]) {
			return false
		}
	}
	return true
}

// Clear removes all values, keeping the nullability of the vector
func (sv *Vector) Clear() {
	sv.reset(sv.IsNullable())
}

// reset empties the vector and sets its nullability
func (sv *Vector) reset(nullable bool) {
	sv.planes = [planeCount]*roaring.Bitmap{}
	sv.size = 0
	sv.nulls = nil
	if nullable {
		sv.nulls = roaring.New()
	}
}

// plane returns the bit plane k, allocating it if necessary
func (sv *Vector) plane(k int) *roaring.Bitmap {
	if sv.planes[k] == nil {
		sv.planes[k] = roaring.New()
	}
	return sv.planes[k]
}

// grow extends the vector so that position i is within bounds
func (sv *Vector) grow(i uint32) {
	if i >= sv.size {
		sv.size = i + 1
	}
}

// window returns how many of the requested values are available from offset
func (sv *Vector) window(n int, offset uint32) int {
	if offset >= sv.size {
		return 0
	}

	return int(min(uint64(n), uint64(sv.size-offset)))
}

// planeEqual compares two bit planes, treating a missing plane as empty
func planeEqual(a, b *roaring.Bitmap) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil:
		return b.Count() == 0
	case b == nil:
		return a.Count() == 0
	default:
		return a.Equal(b)
	}
}
