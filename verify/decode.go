package verify

import (
	"go.uber.org/zap"
)

// CheckWindow decodes a window of up to size elements starting at from, and checks
// that every decoded element matches the element-wise access of the array. The window
// may be truncated by the end of the array.
func CheckWindow(csv Decoder, from uint32, size int, opts ...Option) error {
	c := newConfig(opts)
	return c.fail(checkWindow(c, csv, int64(from), int64(size)))
}

// CheckDecode stresses the windowed decode with scan patterns that probe different
// boundaries of the array:
//
//  1. the first 100 offsets, each with a window covering the whole array;
//  2. from zero, with a random stride of 0 to 2 and a window that shrinks by 0 to 4
//     at every step, starting from WithDecodeWindow;
//  3. from the midpoint, with a stride that doubles the offset at every step;
//  4. from the midpoint to the end with random strides of up to 25000, first with a
//     fixed end and then with an end that shrinks by up to 25000 at every step.
//
// The random strides are drawn from a source seeded with WithSeed.
func CheckDecode(csv Decoder, opts ...Option) error {
	c := newConfig(opts)
	return c.fail(checkDecode(c, csv))
}

func checkDecode(c *config, csv Decoder) error {
	rng := c.random()
	size := int64(csv.Size())
	mid := size - size/2

	// Dense scan of the first offsets with a window of the whole array
	for i := int64(0); i < 100; i++ {
		if err := c.scan(1, csv, i, size); err != nil {
			return err
		}
	}

	// Random stride of 0..2 with a shrinking window
	for i, window := int64(0), int64(c.window); i < window; {
		if err := c.scan(2, csv, i, window); err != nil {
			return err
		}
		i += rng.Int64N(3)
		window -= rng.Int64N(5)
	}

	// Exponential offset growth from the midpoint
	for i := mid; i < size; i += 1 + i {
		if err := c.scan(3, csv, i, size); err != nil {
			return err
		}
	}

	// Large random strides towards the end
	for i := mid; i < size; i += rng.Int64N(25000) {
		if err := c.scan(4, csv, i, size); err != nil {
			return err
		}
	}

	// Large random strides with a collapsing end
	for i, end := mid, size; i < end; {
		if err := c.scan(5, csv, i, end); err != nil {
			return err
		}
		i += rng.Int64N(25000)
		end -= rng.Int64N(25000)
	}
	return nil
}

// scan logs the progress of a scan pattern and checks a single window
func (c *config) scan(pattern int, csv Decoder, from, size int64) error {
	if ce := c.log.Check(zap.DebugLevel, "decode window"); ce != nil {
		ce.Write(zap.Int("pattern", pattern), zap.Int64("from", from), zap.Int64("size", size))
	}
	return checkWindow(c, csv, from, size)
}

func checkWindow(c *config, csv Decoder, from, size int64) error {
	if from < 0 || size < 0 || from > int64(^uint32(0)) {
		return nil
	}

	buf := c.decodeBuffer(int(size))
	n := csv.Decode(buf, uint32(from))
	if limit := max(0, min(size, int64(csv.Size())-from)); int64(n) != limit {
		return mismatch(DecodeMismatch, uint64(from), uint64(limit), uint64(n), "decoded count, window %d", size)
	}

	for j := 0; j < n; j++ {
		i := uint32(from) + uint32(j)
		if want, got := csv.Get(i), buf[j]; want != got {
			return mismatch(DecodeMismatch, uint64(i), uint64(want), uint64(got), "window from %d", from)
		}
	}
	return nil
}
