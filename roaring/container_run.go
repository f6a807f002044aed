package roaring

import (
	"cmp"
	"slices"
	"unsafe"
)

// run returns the container data as a slice of [start, end] runs
func (c *container) run() []run {
	if len(c.Data) < 2 {
		return nil
	}

	return unsafe.Slice((*run)(unsafe.Pointer(&c.Data[0])), len(c.Data)/2)
}

// runSearch returns the index of the first run ending at or after the value and
// whether that run covers it
func (c *container) runSearch(value uint16) (int, bool) {
	runs := c.run()
	i, _ := slices.BinarySearchFunc(runs, value, func(r run, v uint16) int {
		return cmp.Compare(r[1], v)
	})
	return i, i < len(runs) && runs[i][0] <= value
}

// runEach calls the function for every value covered by the runs, in order
func (c *container) runEach(fn func(v uint16)) {
	for _, r := range c.run() {
		for v := uint32(r[0]); v <= uint32(r[1]); v++ {
			fn(uint16(v))
		}
	}
}

// runSet sets a value in a run container, joining it with the neighbouring runs
func (c *container) runSet(value uint16) bool {
	i, found := c.runSearch(value)
	if found {
		return false
	}

	runs := c.run()
	joinLeft := i > 0 && runs[i-1][1]+1 == value
	joinRight := i < len(runs) && runs[i][0]-1 == value
	switch {
	case joinLeft && joinRight:
		runs[i-1][1] = runs[i][1]
		c.Data = slices.Delete(c.Data, 2*i, 2*i+2)
	case joinLeft:
		runs[i-1][1] = value
	case joinRight:
		runs[i][0] = value
	default:
		c.Data = slices.Insert(c.Data, 2*i, value, value)
	}

	c.Size++
	return true
}

// runDel removes a value from a run container, splitting its run if needed
func (c *container) runDel(value uint16) bool {
	i, found := c.runSearch(value)
	if !found {
		return false
	}

	r := &c.run()[i]
	switch start, end := r[0], r[1]; {
	case start == end:
		c.Data = slices.Delete(c.Data, 2*i, 2*i+2)
	case value == start:
		r[0]++
	case value == end:
		r[1]--
	default:
		r[1] = value - 1
		c.Data = slices.Insert(c.Data, 2*i+2, value+1, end)
	}

	c.Size--
	return true
}

// runHas checks if a value exists in a run container
func (c *container) runHas(value uint16) bool {
	_, found := c.runSearch(value)
	return found
}

// runCountRange counts the values of all runs overlapping [lo, hi]
func (c *container) runCountRange(lo, hi uint16) (count int) {
	i, _ := c.runSearch(lo)
	for _, r := range c.run()[i:] {
		if r[0] > hi {
			break
		}
		count += int(min(r[1], hi)-max(r[0], lo)) + 1
	}
	return
}

// runNext returns the first value >= from
func (c *container) runNext(from uint16) (uint16, bool) {
	i, found := c.runSearch(from)
	switch runs := c.run(); {
	case found:
		return from, true
	case i < len(runs):
		return runs[i][0], true
	default:
		return 0, false
	}
}

// runTryOptimize converts the runs into a bitmap or an array if that is smaller
func (c *container) runTryOptimize() {
	if c.Size == 0 {
		return
	}

	switch numRuns := len(c.Data) / 2; {
	case numRuns > runMaxSize:
		c.runToBmp()
	case c.Size <= arrMinSize && numRuns*2 >= int(c.Size):
		c.runToArr()
	}
}

// runToArr converts this container from run to array
func (c *container) runToArr() {
	array := make([]uint16, 0, c.Size)
	c.runEach(func(v uint16) {
		array = append(array, v)
	})

	c.Data = array
	c.Type = typeArray
}

// runToBmp converts this container from run to bitmap
func (c *container) runToBmp() {
	data := make([]uint16, 4096)
	dst := asBitmap(data)
	c.runEach(func(v uint16) {
		dst.Set(uint32(v))
	})

	c.Data = data
	c.Type = typeBitmap
}
