package verify

import (
	"fmt"

	"github.com/kelindar/sparsecheck/roaring"
)

// CheckCompressed checks a compressed array against its expected decompression sv.
// The array is also decompressed with its own LoadTo into a fresh vector, and the
// three of them must agree on nullity and values at every position of sv. When their
// sizes differ, which happens for representations with an implicit trailing run of
// nulls, only their non-null counts are required to match. Finally, the compressed
// array must survive a serialization round-trip.
func CheckCompressed[CT, VT any, C interface {
	*CT
	Compressed[C, V]
}, V interface {
	*VT
	Vector[V]
}](csv C, sv V, opts ...Option) error {
	c := newConfig(opts)
	if err := checkCompressed[VT](csv, sv); err != nil {
		return c.fail(err)
	}

	return c.fail(checkRoundtrip[CT, C](c, csv))
}

func checkCompressed[VT any, C Compressed[C, V], V interface {
	*VT
	Vector[V]
}](csv C, sv V) error {
	restored := V(new(VT))
	csv.LoadTo(restored)

	size, restoredSize, compressedSize := sv.Size(), restored.Size(), csv.Size()
	nulls, restoredNulls, compressedNulls := sv.NullBitmap(), restored.NullBitmap(), csv.NullBitmap()
	if compressedSize != size || restoredSize != size {
		want := presentCount(nulls, size)
		if got := presentCount(compressedNulls, compressedSize); got != want {
			return mismatch(SizeMismatch, 0, uint64(want), uint64(got),
				"non-null count of compressed, sizes %d and %d", size, compressedSize)
		}
		if got := presentCount(restoredNulls, restoredSize); got != want {
			return mismatch(SizeMismatch, 0, uint64(want), uint64(got),
				"non-null count of restored, sizes %d and %d", size, restoredSize)
		}
	}

	for i := uint32(0); i < size; i++ {
		isNull, isNullRestored, isNullCompressed := sv.IsNull(i), restored.IsNull(i), csv.IsNull(i)
		if isNull != isNullCompressed || isNull != isNullRestored {
			return mismatch(NullMismatch, uint64(i), boolToUint(isNull), boolToUint(isNullCompressed),
				"restored=%t, compare(plain, compressed)=%s, compare(plain, restored)=%s",
				isNullRestored, compareNulls(nulls, compressedNulls), compareNulls(nulls, restoredNulls))
		}

		if isNull {
			continue
		}

		want, wantRestored, got := sv.At(i), restored.At(i), csv.Get(i)
		if want != got || wantRestored != want {
			return mismatch(ValueMismatch, uint64(i), uint64(want), uint64(got), "restored=%d", wantRestored)
		}
	}
	return nil
}

// compareNulls formats the three-way comparison of two null bitmaps
func compareNulls(a, b *roaring.Bitmap) string {
	switch {
	case a == nil && b == nil:
		return "0"
	case a == nil || b == nil:
		return "missing"
	default:
		return fmt.Sprint(a.Compare(b))
	}
}

func boolToUint(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}
