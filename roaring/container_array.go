package roaring

import "slices"

// arr returns the sorted values of an array container
func (c *container) arr() []uint16 {
	return c.Data
}

// arrSet sets a value in an array container
func (c *container) arrSet(value uint16) bool {
	i, found := slices.BinarySearch(c.Data, value)
	if found {
		return false // Already exists
	}

	c.Data = append(c.Data, 0)
	copy(c.Data[i+1:], c.Data[i:])
	c.Data[i] = value
	c.Size++
	return true
}

// arrDel removes a value from an array container
func (c *container) arrDel(value uint16) bool {
	i, found := slices.BinarySearch(c.Data, value)
	if !found {
		return false
	}

	copy(c.Data[i:], c.Data[i+1:])
	c.Data = c.Data[:len(c.Data)-1]
	c.Size--
	return true
}

// arrHas checks if a value exists in an array container
func (c *container) arrHas(value uint16) bool {
	_, found := slices.BinarySearch(c.Data, value)
	return found
}

// arrCountRange counts the values within [lo, hi]
func (c *container) arrCountRange(lo, hi uint16) int {
	array := c.arr()
	i, _ := slices.BinarySearch(array, lo)
	j, found := slices.BinarySearch(array, hi)
	if found {
		j++
	}

	if j < i {
		return 0
	}
	return j - i
}

// arrNext returns the first value >= from
func (c *container) arrNext(from uint16) (uint16, bool) {
	array := c.arr()
	if i, _ := slices.BinarySearch(array, from); i < len(array) {
		return array[i], true
	}
	return 0, false
}

// arrNumRuns counts the runs of consecutive values in the array
func (c *container) arrNumRuns() int {
	array := c.arr()
	if len(array) == 0 {
		return 0
	}

	numRuns := 1
	for i := 1; i < len(array); i++ {
		if array[i] != array[i-1]+1 {
			numRuns++
		}
	}
	return numRuns
}

// arrTryOptimize converts the array into runs when they take at most three quarters
// of the space and each run covers three values or more on average
func (c *container) arrTryOptimize() {
	if len(c.Data) < 128 {
		return
	}

	if numRuns := c.arrNumRuns(); numRuns*4 < len(c.Data)*3/2 && numRuns <= len(c.Data)/3 {
		c.arrToRun(numRuns)
	}
}

// arrToRun converts this container from array to run
func (c *container) arrToRun(numRuns int) {
	runs := make([]uint16, 0, numRuns*2)
	for _, v := range c.arr() {
		if n := len(runs); n > 0 && runs[n-1]+1 == v {
			runs[n-1] = v
			continue
		}
		runs = append(runs, v, v)
	}

	c.Data = runs
	c.Type = typeRun
}

// arrToBmp converts this container from array to bitmap
func (c *container) arrToBmp() {
	data := make([]uint16, 4096)
	dst := asBitmap(data)
	for _, v := range c.arr() {
		dst.Set(uint32(v))
	}

	c.Data = data
	c.Type = typeBitmap
}
