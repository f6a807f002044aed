package verify

import (
	"bytes"
	"iter"

	"github.com/kelindar/sparsecheck/roaring"
	"github.com/pkg/errors"
)

// CheckVector checks a sparse array against the reference, where ref[i] is the value
// expected at position i. It runs, in order, CheckVectorSize, CheckVectorAccess,
// CheckVectorExtract and CheckRoundtrip, and stops at the first failure.
func CheckVector[T any, V interface {
	*T
	Vector[V]
}](sv V, ref []uint32, opts ...Option) error {
	c := newConfig(opts)
	for _, check := range []func() error{
		func() error { return checkVectorSize(c, sv, ref) },
		func() error { return checkVectorAccess(sv, ref) },
		func() error { return checkVectorExtract(sv, ref) },
		func() error { return checkRoundtrip[T, V](c, sv) },
	} {
		if err := check(); err != nil {
			return c.fail(err)
		}
	}
	return nil
}

// CheckVectorSize checks that the vector has one position per reference element and,
// for a nullable vector, one non-null position per reference element unless
// WithIntervalFilled is used.
func CheckVectorSize[V Vector[V]](sv V, ref []uint32, opts ...Option) error {
	c := newConfig(opts)
	return c.fail(checkVectorSize(c, sv, ref))
}

// CheckVectorAccess checks that indexed access, the const iterator and the reference
// agree at every position, and that the iterator ends exactly at the end of the vector.
func CheckVectorAccess[V Vector[V]](sv V, ref []uint32, opts ...Option) error {
	c := newConfig(opts)
	return c.fail(checkVectorAccess(sv, ref))
}

// CheckVectorExtract checks that the general and the range-restricted extraction of
// the whole vector agree with each other and with the reference.
func CheckVectorExtract[V Vector[V]](sv V, ref []uint32, opts ...Option) error {
	c := newConfig(opts)
	return c.fail(checkVectorExtract(sv, ref))
}

// CheckVectorAt checks that every reference value v is stored at position v, which is
// how LoadVector populates a vector.
func CheckVectorAt(sv interface{ At(i uint32) uint32 }, ref []uint32, opts ...Option) error {
	c := newConfig(opts)
	for i, v := range ref {
		if got := sv.At(v); got != v {
			return c.fail(mismatch(ValueMismatch, uint64(i), uint64(v), uint64(got), "position %d", v))
		}
	}
	return nil
}

// CheckRoundtrip serializes the container, restores it into a fresh instance and
// checks the copy against the serialized container: nullability, null bitmap and
// equality.
func CheckRoundtrip[T any, S interface {
	*T
	Serializable[S]
}](x S, opts ...Option) error {
	c := newConfig(opts)
	return c.fail(checkRoundtrip[T, S](c, x))
}

func checkVectorSize[V Vector[V]](c *config, sv V, ref []uint32) error {
	if size := sv.Size(); uint64(len(ref)) != uint64(size) {
		return mismatch(SizeMismatch, 0, uint64(len(ref)), uint64(size), "vector size")
	}

	if !sv.IsNullable() {
		return nil
	}

	nulls := sv.NullBitmap()
	switch {
	case nulls == nil:
		return mismatch(SizeMismatch, 0, uint64(len(ref)), 0, "nullable vector without a null bitmap")
	case nulls.Count() != len(ref) && !c.filled:
		return mismatch(SizeMismatch, 0, uint64(len(ref)), uint64(nulls.Count()), "null bitmap count")
	}
	return nil
}

func checkVectorAccess[V Vector[V]](sv V, ref []uint32) error {
	next, stop := iter.Pull(sv.Values())
	defer stop()

	for i, want := range ref {
		if got := sv.At(uint32(i)); got != want {
			return mismatch(ValueMismatch, uint64(i), uint64(want), uint64(got), "indexed access")
		}

		got, ok := next()
		switch {
		case !ok:
			return mismatch(IteratorBoundsMismatch, uint64(i), uint64(want), 0, "iterator ended early")
		case got != want:
			return mismatch(IteratorMismatch, uint64(i), uint64(want), uint64(got), "")
		}
	}

	if got, ok := next(); ok {
		return mismatch(IteratorBoundsMismatch, uint64(len(ref)), 0, uint64(got), "iterator not exhausted")
	}
	return nil
}

func checkVectorExtract[V Vector[V]](sv V, ref []uint32) error {
	size := int(sv.Size())
	if size != len(ref) {
		return mismatch(SizeMismatch, 0, uint64(len(ref)), uint64(size), "vector size")
	}

	full := make([]uint32, size)
	ranged := make([]uint32, size)
	if n := sv.Extract(full, 0); n != size {
		return mismatch(ExtractionMismatch, 0, uint64(size), uint64(n), "extracted count")
	}
	if n := sv.ExtractRange(ranged, 0); n != size {
		return mismatch(ExtractionMismatch, 0, uint64(size), uint64(n), "range extracted count")
	}

	for i := range full {
		if ranged[i] != full[i] || full[i] != ref[i] {
			return mismatch(ExtractionMismatch, uint64(i), uint64(ref[i]), uint64(full[i]),
				"extract=%d, extract range=%d", full[i], ranged[i])
		}
	}
	return nil
}

func checkRoundtrip[T any, S interface {
	*T
	Serializable[S]
}](c *config, x S) error {
	buf := c.buffer()
	if _, err := x.WriteTo(buf); err != nil {
		return roundtripError(errors.Wrap(err, "serialize"), "serialization error")
	}

	restored := S(new(T))
	if _, err := restored.ReadFrom(bytes.NewReader(buf.Bytes())); err != nil {
		return roundtripError(errors.Wrap(err, "deserialize"), "deserialization error")
	}

	if x.IsNullable() != restored.IsNullable() {
		return roundtripError(nil, "nullability differs")
	}

	nulls, restoredNulls := x.NullBitmap(), restored.NullBitmap()
	if (nulls == nil) != (restoredNulls == nil) {
		return roundtripError(nil, "null bitmap missing")
	}

	if nulls != nil {
		if cmp := nulls.Compare(restoredNulls); cmp != 0 {
			return roundtripError(nil, "null bitmaps differ, compare=%d", cmp)
		}
	}

	if !x.Equal(restored) {
		return roundtripError(nil, "restored copy is not equal")
	}
	return nil
}

// roundtripError creates a serialization round-trip mismatch
func roundtripError(cause error, format string, args ...any) *Mismatch {
	m := mismatch(SerializationRoundtripMismatch, 0, 0, 0, format, args...)
	m.Err = cause
	return m
}

// presentCount returns the number of non-null positions, where a missing null bitmap
// means every position holds a value.
func presentCount(nulls *roaring.Bitmap, size uint32) int {
	if nulls == nil {
		return int(size)
	}
	return nulls.Count()
}
