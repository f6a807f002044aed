package verify

import (
	"iter"
	"testing"

	"github.com/kelindar/sparsecheck/adapter"
	"github.com/kelindar/sparsecheck/roaring"
	"github.com/stretchr/testify/assert"
)

// faultySet wraps a bitmap and corrupts one of its access paths
type faultySet struct {
	*roaring.Bitmap
	fault string
	key   uint32
}

func (s *faultySet) Contains(x uint32) bool {
	if s.fault == "contains" && x == s.key {
		return false
	}
	return s.Bitmap.Contains(x)
}

func (s *faultySet) Count() int {
	if s.fault == "count" {
		return s.Bitmap.Count() + 1
	}
	return s.Bitmap.Count()
}

func (s *faultySet) CountRange(lo, hi uint32) int {
	n := s.Bitmap.CountRange(lo, hi)
	if s.fault == "range" && hi == s.key {
		n++
	}
	return n
}

func (s *faultySet) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for v := range s.Bitmap.All() {
			if s.fault == "skip" && v == s.key {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

func TestCheckSetExample(t *testing.T) {
	ref := []uint32{10, 20, 30}
	rb := roaring.New()
	assert.NoError(t, LoadSet(rb, ref))

	assert.Equal(t, 2, rb.CountRange(10, 20))
	assert.Equal(t, 0, rb.CountRange(11, 19))
	assert.Equal(t, 3, rb.Count())
	assert.NoError(t, CheckSet(rb, ref))
}

func TestCheckSetEmpty(t *testing.T) {
	assert.NoError(t, CheckSet(roaring.New(), nil))
	assert.NoError(t, CheckSetMembers(roaring.New(), nil))
}

func TestCheckSetShapes(t *testing.T) {
	for name, ref := range map[string][]uint32{
		"sparse":   genSorted(2000, 0, 100000),
		"array":    genSorted(3000, 5, 20),
		"bitmap":   genSorted(60000, 0, 3),
		"boundary": {0, 65535, 65536, 131071, 131072, 4294967295},
	} {
		t.Run(name, func(t *testing.T) {
			rb := roaring.New()
			assert.NoError(t, LoadSet(rb, ref))
			assert.NoError(t, CheckSet(rb, ref))

			rb.Optimize()
			assert.NoError(t, CheckSet(rb, ref))
			assert.NoError(t, CheckSetMembers(rb, ref))
		})
	}
}

func TestCheckSetRuns(t *testing.T) {
	var ref []uint32
	for i := uint32(0); i < 300000; i++ {
		if (i/1000)%2 == 0 {
			ref = append(ref, i)
		}
	}

	rb := roaring.New()
	assert.NoError(t, LoadSet(rb, ref))
	rb.Optimize()
	assert.NoError(t, CheckSet(rb, ref))
}

func TestCheckSetFaults(t *testing.T) {
	ref := genSorted(5000, 1, 50)
	key := ref[1234]

	tests := []struct {
		fault string
		kind  Kind
		check func(Bitset) error
	}{
		{"contains", MembershipMismatch, func(s Bitset) error { return CheckSetMembers(s, ref) }},
		{"count", SizeMismatch, func(s Bitset) error { return CheckSetMembers(s, ref) }},
		{"count", SizeMismatch, func(s Bitset) error { return CheckSet(s, ref) }},
		{"range", RangeCountMismatch, func(s Bitset) error { return CheckSet(s, ref) }},
		{"skip", EnumeratorMismatch, func(s Bitset) error { return CheckSet(s, ref) }},
	}

	for _, tc := range tests {
		t.Run(tc.fault, func(t *testing.T) {
			rb := roaring.New()
			assert.NoError(t, LoadSet(rb, ref))

			err := tc.check(&faultySet{Bitmap: rb, fault: tc.fault, key: key})
			assert.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestCheckSetWithoutCount(t *testing.T) {
	ref := genSorted(1000, 0, 10)
	rb := roaring.New()
	assert.NoError(t, LoadSet(rb, ref))

	// Extra keys beyond the reference are only caught by the count check
	rb.Set(ref[len(ref)-1] + 100)
	assert.ErrorIs(t, CheckSetMembers(rb, ref), SizeMismatch)
	assert.NoError(t, CheckSetMembers(rb, ref, WithoutCount()))
	assert.NoError(t, CheckSet(rb, ref, WithoutCount()))

	faulty := &faultySet{Bitmap: rb, fault: "range", key: ref[10]}
	assert.NoError(t, CheckSet(faulty, ref, WithoutCount()))
}

func TestCheckSetMismatchDetails(t *testing.T) {
	rb := roaring.New()
	assert.NoError(t, LoadSet(rb, []uint32{1, 2, 4}))

	err := CheckSet(rb, []uint32{1, 3, 4})
	var m *Mismatch
	assert.ErrorAs(t, err, &m)
	assert.Equal(t, EnumeratorMismatch, m.Kind)
	assert.Equal(t, uint64(1), m.Index)
	assert.Equal(t, uint64(3), m.Want)
	assert.Equal(t, uint64(2), m.Got)
	assert.Contains(t, err.Error(), "enumerator mismatch at index 1")
}

func TestAdapters(t *testing.T) {
	ref := genSorted(20000, 7, 200)
	reference := roaring.New()
	assert.NoError(t, LoadSet(reference, ref))

	for name, set := range map[string]MutableBitset{
		"roaring": adapter.NewRoaring(),
		"bitset":  adapter.NewBitSet(),
		"dense":   adapter.NewDense(),
	} {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, LoadSet(set, ref))
			assert.NoError(t, CheckSetMembers(set, ref))
			assert.NoError(t, CheckSet(set, ref))
			assert.NoError(t, CheckSetsEqual(reference, set))
			assert.Equal(t, 0, Compare(reference, set))

			set.Remove(ref[500])
			assert.ErrorIs(t, CheckSetsEqual(reference, set), MembershipMismatch)
			assert.Equal(t, 1, Compare(reference, set))

			ClearSet(set, ref)
			assert.Equal(t, 0, set.Count())
		})
	}
}

func TestCompare(t *testing.T) {
	a, b := roaring.New(), roaring.New()
	assert.Equal(t, 0, Compare(a, b))

	a.Set(1)
	assert.Equal(t, 1, Compare(a, b))
	assert.Equal(t, -1, Compare(b, a))

	b.Set(1)
	b.Set(3)
	a.Set(2)
	assert.Equal(t, 1, Compare(a, b))
	assert.Equal(t, a.Compare(b), Compare(a, b))
}

func TestCheckSetIdempotent(t *testing.T) {
	ref := genSorted(3000, 0, 30)
	rb := roaring.New()
	assert.NoError(t, LoadSet(rb, ref))
	for i := 0; i < 3; i++ {
		assert.NoError(t, CheckSet(rb, ref))
		assert.NoError(t, CheckSetMembers(rb, ref))
	}
}
