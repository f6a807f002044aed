package sparse

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

// newRandom creates a nullable vector of the given size, with roughly one in every
// nullEvery positions left null
func newRandom(size int, nullEvery int) (*Vector, []uint32) {
	rng := rand.New(rand.NewPCG(1, 2))
	sv := NewNullable()
	want := make([]uint32, size)
	for i := 0; i < size; i++ {
		if rng.IntN(nullEvery) == 0 {
			sv.SetNull(uint32(i))
			continue
		}

		want[i] = rng.Uint32N(1 << 20)
		sv.Set(uint32(i), want[i])
	}
	return sv, want
}

func TestSetAt(t *testing.T) {
	sv := New()
	assert.Equal(t, uint32(0), sv.Size())
	assert.False(t, sv.IsNullable())
	assert.Nil(t, sv.NullBitmap())

	sv.Set(5, 42)
	sv.Set(2, math.MaxUint32)
	assert.Equal(t, uint32(6), sv.Size())
	assert.Equal(t, uint32(42), sv.At(5))
	assert.Equal(t, uint32(math.MaxUint32), sv.At(2))
	assert.Equal(t, uint32(0), sv.At(3))
	assert.Equal(t, uint32(0), sv.At(100))
	assert.False(t, sv.IsNull(3))

	// Overwrite clears the bits that are no longer set
	sv.Set(2, 1)
	assert.Equal(t, uint32(1), sv.At(2))

	// Not nullable, so this does nothing
	sv.SetNull(10)
	assert.Equal(t, uint32(6), sv.Size())
}

func TestSetNull(t *testing.T) {
	sv := NewNullable()
	sv.Set(0, 7)
	sv.SetNull(3)
	assert.Equal(t, uint32(4), sv.Size())
	assert.False(t, sv.IsNull(0))
	assert.True(t, sv.IsNull(1))
	assert.True(t, sv.IsNull(3))
	assert.Equal(t, 1, sv.NullBitmap().Count())

	// Nulling a value clears it
	sv.SetNull(0)
	assert.True(t, sv.IsNull(0))
	assert.Equal(t, uint32(0), sv.At(0))
}

func TestValues(t *testing.T) {
	sv, want := newRandom(5000, 4)

	var got []uint32
	for v := range sv.Values() {
		got = append(got, v)
	}
	assert.Equal(t, want, got)

	for i, v := range want {
		assert.Equal(t, v, sv.At(uint32(i)))
	}
}

func TestExtract(t *testing.T) {
	sv, want := newRandom(70000, 3)

	for _, tc := range []struct {
		offset uint32
		size   int
	}{
		{0, 100}, {0, 70000}, {65530, 20}, {69990, 100}, {70000, 10}, {80000, 10}, {12345, 0},
	} {
		a := make([]uint32, tc.size)
		b := make([]uint32, tc.size)
		n := sv.Extract(a, tc.offset)
		m := sv.ExtractRange(b, tc.offset)

		expect := 0
		if tc.offset < 70000 {
			expect = min(tc.size, 70000-int(tc.offset))
		}

		assert.Equal(t, expect, n, "offset %d", tc.offset)
		assert.Equal(t, expect, m, "offset %d", tc.offset)
		assert.Equal(t, a[:n], b[:m])
		if n > 0 {
			assert.Equal(t, want[tc.offset:int(tc.offset)+n], a[:n])
		}
	}
}

func TestVectorEqual(t *testing.T) {
	a, _ := newRandom(1000, 5)
	b, _ := newRandom(1000, 5)
	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(nil))

	b.Set(3, 99999)
	assert.False(t, a.Equal(b))

	c := New()
	d := NewNullable()
	assert.False(t, c.Equal(d))

	// A plane that became empty compares equal to a missing one
	c.Set(0, 1)
	c.Set(0, 0)
	e := New()
	e.Set(0, 0)
	assert.True(t, c.Equal(e))
}

func TestClear(t *testing.T) {
	sv, _ := newRandom(100, 2)
	sv.Clear()
	assert.Equal(t, uint32(0), sv.Size())
	assert.True(t, sv.IsNullable())
	assert.True(t, sv.Equal(NewNullable()))
}

func TestInserter(t *testing.T) {
	sv := NewNullable()
	bi := sv.Inserter()
	bi.AddNull(2)
	for i := uint32(0); i < 3000; i++ {
		bi.Add(i)
	}
	bi.AddNull(5)
	bi.Add(77)
	bi.AddNull(10)
	assert.NoError(t, bi.Flush())

	assert.Equal(t, uint32(2+3000+5+1+10), sv.Size())
	assert.True(t, sv.IsNull(0))
	assert.True(t, sv.IsNull(1))
	assert.Equal(t, uint32(0), sv.At(2))
	assert.False(t, sv.IsNull(2))
	assert.Equal(t, uint32(2999), sv.At(3001))
	assert.True(t, sv.IsNull(3002))
	assert.Equal(t, uint32(77), sv.At(3007))
	assert.True(t, sv.IsNull(3017))

	// A second inserter appends after the existing contents
	bi = sv.Inserter()
	bi.Add(5)
	assert.NoError(t, bi.Flush())
	assert.Equal(t, uint32(3019), sv.Size())
	assert.Equal(t, uint32(5), sv.At(3018))
}

func TestInserterOverflow(t *testing.T) {
	sv := NewNullable()
	bi := sv.Inserter()
	bi.Add(1)
	bi.AddNull(math.MaxUint32)
	bi.Add(2)

	err := bi.Flush()
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, uint32(1), sv.Size())
	assert.Equal(t, uint32(1), sv.At(0))
}
