package roaring

import (
	"math/rand/v2"
	"testing"

	"github.com/kelindar/bitmap"
	"github.com/stretchr/testify/assert"
)

func newArr(data ...uint16) *container {
	return newTyped(typeArray, data...)
}

func newBmp(data ...uint16) *container {
	return newTyped(typeBitmap, data...)
}

func newRun(data ...uint16) *container {
	return newTyped(typeRun, data...)
}

// newTyped creates a container of the given type without ever converting it
func newTyped(typ ctype, data ...uint16) *container {
	c := &container{Type: typ}
	if typ == typeBitmap {
		c.Data = make([]uint16, 4096)
	}

	for _, v := range data {
		switch c.Type {
		case typeArray:
			c.arrSet(v)
		case typeBitmap:
			c.bmpSet(v)
		case typeRun:
			c.runSet(v)
		}
	}
	return c
}

// testPair creates both our bitmap and the dense reference bitmap with the same data
func testPair(data []uint32) (*Bitmap, *bitmap.Bitmap) {
	our := New()
	var ref bitmap.Bitmap
	for _, v := range data {
		our.Set(v)
		ref.Set(v)
	}
	return our, &ref
}

// assertEqualBitmaps compares our bitmap with the reference through every read path
func assertEqualBitmaps(t *testing.T, our *Bitmap, ref *bitmap.Bitmap) {
	t.Helper()
	assert.Equal(t, ref.Count(), our.Count(), "count")

	var want, ranged, iterated []uint32
	ref.Range(func(x uint32) { want = append(want, x) })
	our.Range(func(x uint32) bool { ranged = append(ranged, x); return true })
	for v := range our.All() {
		iterated = append(iterated, v)
	}

	assert.Equal(t, want, ranged, "range")
	assert.Equal(t, want, iterated, "iterator")

	// Every value is contained, and its rank is its position
	for i, v := range want {
		assert.True(t, our.Contains(v), "contains %d", v)
		assert.Equal(t, i+1, our.Rank(v), "rank %d", v)
	}
}

// withType creates a bitmap whose first container has the given type
func withType(typ ctype) (*Bitmap, []uint32) {
	our := New()
	var values []uint32
	add := func(v uint32) {
		our.Set(v)
		values = append(values, v)
	}

	switch typ {
	case typeArray:
		for _, v := range []uint32{1, 5, 10, 100, 500, 1000} {
			add(v)
		}
	case typeBitmap:
		for i := uint32(0); i < 5000; i++ {
			add(i * 3)
		}
	case typeRun:
		for i := uint32(1000); i <= 2000; i++ {
			add(i)
		}
		our.Optimize()
	}
	return our, values
}

// ---------------------------------------- Data Generators ----------------------------------------

type dataGen = func() ([]uint32, string)

func seeded(size int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(size), 0xbeef))
}

// genSeq creates consecutive integers starting from offset
func genSeq(size int, offset uint32) dataGen {
	return func() ([]uint32, string) {
		data := make([]uint32, size)
		for i := range data {
			data[i] = offset + uint32(i)
		}
		return data, "seq"
	}
}

// genRand creates random integers below maxVal
func genRand(size int, maxVal uint32) dataGen {
	return func() ([]uint32, string) {
		rng := seeded(size)
		data := make([]uint32, size)
		for i := range data {
			data[i] = rng.Uint32N(maxVal)
		}
		return data, "rnd"
	}
}

// genSparse creates integers spaced a thousand apart
func genSparse(size int) dataGen {
	return func() ([]uint32, string) {
		data := make([]uint32, size)
		for i := range data {
			data[i] = uint32(i * 1000)
		}
		return data, "sps"
	}
}

// genDense creates integers with many repetitions in a small range
func genDense(size int) dataGen {
	return func() ([]uint32, string) {
		rng := seeded(size)
		data := make([]uint32, size)
		for i := range data {
			data[i] = uint32(rng.IntN(size / 10))
		}
		return data, "dns"
	}
}

// genBoundary creates values at the edges of the containers
func genBoundary() dataGen {
	return func() ([]uint32, string) {
		return []uint32{0, 65535, 65536, 131071, 131072, 16777215}, "bnd"
	}
}

// genMixed creates an array, a bitmap and a run container
func genMixed() dataGen {
	return func() ([]uint32, string) {
		data := []uint32{1, 5, 10, 100, 500, 1000}
		for i := uint32(0); i < 5000; i++ {
			data = append(data, 65536+i*3)
		}
		for i := uint32(131072); i <= 131172; i++ {
			data = append(data, i)
		}
		return data, "mix"
	}
}
