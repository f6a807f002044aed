package roaring

import (
	"math/bits"
	"slices"

	"github.com/kelindar/bitmap"
)

// bmp returns the container data as a dense bitmap of 65536 bits
func (c *container) bmp() bitmap.Bitmap {
	return asBitmap(c.Data)
}

// bmpSet sets a value in a bitmap container
func (c *container) bmpSet(value uint16) bool {
	bm := c.bmp()
	if bm.Contains(uint32(value)) {
		return false // Already exists
	}

	bm.Set(uint32(value))
	c.Size++
	return true
}

// bmpDel removes a value from a bitmap container
func (c *container) bmpDel(value uint16) bool {
	bm := c.bmp()
	if !bm.Contains(uint32(value)) {
		return false
	}

	bm.Remove(uint32(value))
	c.Size--
	return true
}

// bmpHas checks if a value exists in a bitmap container
func (c *container) bmpHas(value uint16) bool {
	return c.bmp().Contains(uint32(value))
}

// bmpCountRange counts the bits set within [lo, hi]
func (c *container) bmpCountRange(lo, hi uint16) int {
	words := c.bmp()
	first, last := int(lo>>6), int(hi>>6)

	count := 0
	for i := first; i <= last; i++ {
		w := words[i]
		if i == first {
			w &= ^uint64(0) << (lo & 63)
		}
		if i == last {
			w &= ^uint64(0) >> (63 - hi&63)
		}
		count += bits.OnesCount64(w)
	}
	return count
}

// bmpNext returns the first bit set at or after from
func (c *container) bmpNext(from uint16) (uint16, bool) {
	words := c.bmp()
	i := int(from >> 6)
	w := words[i] & (^uint64(0) << (from & 63))
	for {
		if w != 0 {
			return uint16(i<<6 + bits.TrailingZeros64(w)), true
		}

		if i++; i >= len(words) {
			return 0, false
		}
		w = words[i]
	}
}

// bmpNumRuns counts the runs of consecutive bits in the bitmap
func (c *container) bmpNumRuns() int {
	var carry uint64
	numRuns := 0
	for _, w := range c.bmp() {
		numRuns += bits.OnesCount64(w &^ (w<<1 | carry))
		carry = w >> 63
	}
	return numRuns
}

// bmpTryOptimize converts the bitmap into runs or an array if that is smaller
func (c *container) bmpTryOptimize() {
	if numRuns := c.bmpNumRuns(); numRuns <= runMaxSize && numRuns*2 < int(c.Size) {
		c.bmpToRun()
		return
	}

	if c.Size <= arrMinSize {
		c.bmpToArr()
	}
}

// bmpToArr converts this container from bitmap to array
func (c *container) bmpToArr() {
	words := c.bmp()
	array := make([]uint16, 0, c.Size)
	for i, w := range words {
		for w != 0 {
			array = append(array, uint16(i<<6+bits.TrailingZeros64(w)))
			w &= w - 1
		}
	}

	c.Data = array
	c.Type = typeArray
}

// bmpToRun converts this container from bitmap to run
func (c *container) bmpToRun() {
	runs := borrowArray()
	defer release(runs)

	next := -1 // value right after the last run
	for i, w := range c.bmp() {
		for w != 0 {
			v := i<<6 + bits.TrailingZeros64(w)
			if n := len(runs); n > 0 && v == next {
				runs[n-1] = uint16(v)
			} else {
				runs = append(runs, uint16(v), uint16(v))
			}

			next = v + 1
			w &= w - 1
		}
	}

	c.Data = slices.Clone(runs)
	c.Type = typeRun
}
