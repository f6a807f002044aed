package roaring

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodec(t *testing.T) {
	for _, gen := range []dataGen{genMixed(), genBoundary(), genSeq(70000, 0), genRand(1000, 1<<24)} {
		data, name := gen()
		t.Run(name, func(t *testing.T) {
			our, ref := testPair(data)
			for _, optimize := range []bool{false, true} {
				if optimize {
					our.Optimize()
				}

				var buf bytes.Buffer
				n, err := our.WriteTo(&buf)
				assert.NoError(t, err)
				assert.Equal(t, int64(buf.Len()), n)

				out, err := ReadFrom(&buf)
				assert.NoError(t, err)
				assertEqualBitmaps(t, out, ref)
				assert.True(t, out.Equal(our))
				assert.True(t, FromBytes(our.ToBytes()).Equal(our))
			}
		})
	}
}

func TestCodecEmpty(t *testing.T) {
	out := FromBytes(New().ToBytes())
	assert.Equal(t, 0, out.Count())
	_, ok := out.Min()
	assert.False(t, ok)
}

func TestCodecStream(t *testing.T) {
	first, _ := testPair([]uint32{1, 2, 3, 65536})
	second, _ := testPair([]uint32{7, 1 << 20})

	// Bitmaps written back to back are read back one at a time
	var buf bytes.Buffer
	_, err := first.WriteTo(&buf)
	assert.NoError(t, err)
	_, err = second.WriteTo(&buf)
	assert.NoError(t, err)
	buf.WriteString("tail")

	a, b := New(), New()
	_, err = a.ReadFrom(&buf)
	assert.NoError(t, err)
	_, err = b.ReadFrom(&buf)
	assert.NoError(t, err)
	assert.True(t, a.Equal(first))
	assert.True(t, b.Equal(second))
	assert.Equal(t, "tail", buf.String())
}

func TestCodecTruncated(t *testing.T) {
	data, _ := genMixed()()
	our, _ := testPair(data)
	encoded := our.ToBytes()

	for _, cut := range []int{2, 5, 11, 100, len(encoded) - 1} {
		_, err := New().ReadFrom(bytes.NewReader(encoded[:cut]))
		assert.Error(t, err, "cut at %d", cut)
	}

	_, err := ReadFrom(bytes.NewReader(encoded[:len(encoded)-1]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestCodecReplaces(t *testing.T) {
	src, _ := testPair([]uint32{10, 20})
	dst, _ := testPair([]uint32{99, 100000})

	_, err := dst.ReadFrom(bytes.NewReader(src.ToBytes()))
	assert.NoError(t, err)
	assert.True(t, dst.Equal(src))
	assert.False(t, dst.Contains(99))
}
