package roaring

import "math/bits"

// Range calls the given function for each value in the bitmap, in ascending order,
// until the function returns false.
func (rb *Bitmap) Range(fn func(x uint32) bool) {
	rb.iterateContainers(func(c *container) bool {
		base := uint32(c.Key) << 16
		switch c.Type {
		case typeArray:
			for _, v := range c.arr() {
				if !fn(base | uint32(v)) {
					return false
				}
			}

		case typeBitmap:
			for i, w := range c.bmp() {
				for w != 0 {
					if !fn(base | uint32(i<<6+bits.TrailingZeros64(w))) {
						return false
					}
					w &= w - 1
				}
			}

		case typeRun:
			for _, r := range c.run() {
				start, end := uint32(r[0]), uint32(r[1])
				for curr := start; curr <= end; curr++ {
					if !fn(base | curr) {
						return false
					}
				}
			}
		}
		return true
	})
}

// CountRange returns the number of values within the closed range [lo, hi]
func (rb *Bitmap) CountRange(lo, hi uint32) int {
	if lo > hi {
		return 0
	}

	loKey, hiKey := uint16(lo>>16), uint16(hi>>16)
	count := 0
	for c := rb.nextContainer(loKey); c != nil && c.Key <= hiKey; c = rb.nextContainer(c.Key + 1) {
		from, to := uint16(0), uint16(0xFFFF)
		if c.Key == loKey {
			from = uint16(lo)
		}
		if c.Key == hiKey {
			to = uint16(hi)
		}

		count += c.countRange(from, to)
		if c.Key == 0xFFFF {
			break
		}
	}
	return count
}

// Rank returns the number of values that are less than or equal to x
func (rb *Bitmap) Rank(x uint32) int {
	return rb.CountRange(0, x)
}

// iterateContainers calls the function for every container in ascending key order
func (rb *Bitmap) iterateContainers(fn func(c *container) bool) {
	if rb.count == 0 {
		return
	}

	for i := int(rb.lo); i <= int(rb.hi); i++ {
		block := rb.blocks[i]
		if block == nil {
			continue
		}

		for j := int(block.lo); j <= int(block.hi); j++ {
			if c := block.content[j]; c != nil && !fn(c) {
				return
			}
		}
	}
}

// nextContainer returns the first container whose key is >= hi, or nil
func (rb *Bitmap) nextContainer(hi uint16) *container {
	if rb.count == 0 {
		return nil
	}

	hi8, lo8 := int(hi>>8), int(hi&0xFF)
	for i := max(hi8, int(rb.lo)); i <= int(rb.hi); i++ {
		block := rb.blocks[i]
		if block == nil {
			continue
		}

		from := int(block.lo)
		if i == hi8 {
			from = max(from, lo8)
		}

		for j := from; j <= int(block.hi); j++ {
			if c := block.content[j]; c != nil {
				return c
			}
		}
	}
	return nil
}
