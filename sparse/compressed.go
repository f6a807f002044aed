package sparse

import (
	"slices"

	"github.com/kelindar/sparsecheck/roaring"
)

// Compressed is a read-only, rank-compressed sparse array. Only the values of non-null
// positions are stored, densely packed in position order; the null bitmap maps a
// position to its slot through its rank.
type Compressed struct {
	nulls  *roaring.Bitmap // positions holding a value
	values []uint32        // values of the non-null positions, in order
	size   uint32
}

// Compress builds a compressed copy of the vector. Every position of a vector that
// is not nullable is considered to hold a value.
func Compress(sv *Vector) *Compressed {
	csv := &Compressed{
		nulls: roaring.New(),
		size:  sv.Size(),
	}

	i := uint32(0)
	for v := range sv.Values() {
		if !sv.IsNull(i) {
			csv.nulls.Set(i)
			csv.values = append(csv.values, v)
		}
		i++
	}

	csv.nulls.Optimize()
	return csv
}

// Size returns the number of positions in the array
func (csv *Compressed) Size() uint32 {
	return csv.size
}

// IsNullable always returns true, since the null bitmap drives the compression
func (csv *Compressed) IsNullable() bool {
	return true
}

// NullBitmap returns the bitmap of non-null positions
func (csv *Compressed) NullBitmap() *roaring.Bitmap {
	return csv.nulls
}

// IsNull returns true if the position does not hold a value
func (csv *Compressed) IsNull(i uint32) bool {
	return csv.nulls == nil || !csv.nulls.Contains(i)
}

// Get returns the value at the given position, or zero if it is null
func (csv *Compressed) Get(i uint32) uint32 {
	if i >= csv.size || csv.IsNull(i) {
		return 0
	}

	return csv.values[csv.nulls.Rank(i)-1]
}

// Decode decodes up to len(dst) values starting at position from and returns the
// number of values decoded, which is smaller than requested near the end of the array.
func (csv *Compressed) Decode(dst []uint32, from uint32) int {
	if from >= csv.size || csv.nulls == nil {
		return 0
	}

	n := int(min(uint64(len(dst)), uint64(csv.size-from)))
	rank := 0
	if from > 0 {
		rank = csv.nulls.Rank(from - 1)
	}

	it := csv.nulls.Iterator()
	it.Seek(from)
	for j := 0; j < n; j++ {
		if pos := from + uint32(j); it.Valid() && it.Value() == pos {
			dst[j] = csv.values[rank]
			rank++
			it.Next()
			continue
		}

		dst[j] = 0
	}
	return n
}

// LoadTo decompresses the array into the destination vector, which becomes nullable
// and is resized to the size of the array.
func (csv *Compressed) LoadTo(dst *Vector) {
	dst.reset(true)
	if csv.nulls != nil {
		slot := 0
		for pos := range csv.nulls.All() {
			dst.Set(pos, csv.values[slot])
			slot++
		}
	}

	dst.size = csv.size
}

// Equal returns true if both arrays have the same size, null positions and values
func (csv *Compressed) Equal(other *Compressed) bool {
	switch {
	case csv == other:
		return true
	case other == nil:
		return false
	case csv.size != other.size:
		return false
	case !planeEqual(csv.nulls, other.nulls):
		return false
	default:
		return slices.Equal(csv.values, other.values)
	}
}
