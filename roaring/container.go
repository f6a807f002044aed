package roaring

const (
	arrMinSize = 4096
	runMinSize = 100
	runMaxSize = 2048
)

type ctype byte

const (
	typeArray ctype = iota
	typeBitmap
	typeRun
)

type container struct {
	Key  uint16   // High 16 bits of the values
	Type ctype    // Type of the container
	Size uint32   // Cardinality
	Data []uint16 // Data of the container
}

type run [2]uint16

// newContainer creates an empty array container
func newContainer() *container {
	return &container{
		Type: typeArray,
		Data: make([]uint16, 0, 64),
	}
}

// set sets a value in the container and returns true if the value was added (didn't exist before)
func (c *container) set(value uint16) (ok bool) {
	switch c.Type {
	case typeArray:
		if ok = c.arrSet(value); ok && c.Size > arrMinSize {
			c.arrToBmp()
		}
	case typeBitmap:
		ok = c.bmpSet(value)
	case typeRun:
		if ok = c.runSet(value); ok && len(c.Data)/2 > runMinSize {
			c.runToBmp()
		}
	}
	return
}

// remove removes a value from the container and returns true if the value was removed (existed before)
func (c *container) remove(value uint16) (ok bool) {
	switch c.Type {
	case typeArray:
		ok = c.arrDel(value)
	case typeBitmap:
		if ok = c.bmpDel(value); ok && c.Size <= arrMinSize {
			c.bmpToArr()
		}
	case typeRun:
		if ok = c.runDel(value); ok && len(c.Data)/2 > runMinSize {
			c.runToBmp()
		}
	}
	return
}

// contains checks if a value exists in the container
func (c *container) contains(value uint16) bool {
	switch c.Type {
	case typeArray:
		return c.arrHas(value)
	case typeBitmap:
		return c.bmpHas(value)
	case typeRun:
		return c.runHas(value)
	}
	return false
}

// countRange returns the number of values in the closed range [lo, hi]
func (c *container) countRange(lo, hi uint16) int {
	if lo > hi {
		return 0
	}

	switch c.Type {
	case typeArray:
		return c.arrCountRange(lo, hi)
	case typeBitmap:
		return c.bmpCountRange(lo, hi)
	case typeRun:
		return c.runCountRange(lo, hi)
	}
	return 0
}

// next returns the smallest value in the container that is >= from
func (c *container) next(from uint16) (uint16, bool) {
	switch c.Type {
	case typeArray:
		return c.arrNext(from)
	case typeBitmap:
		return c.bmpNext(from)
	case typeRun:
		return c.runNext(from)
	}
	return 0, false
}

// cardinality returns the number of elements in the container
func (c *container) cardinality() int {
	return int(c.Size)
}

// isEmpty returns true if the container has no elements
func (c *container) isEmpty() bool {
	return c.cardinality() == 0
}

// clone returns a deep copy of the container
func (c *container) clone() *container {
	data := make([]uint16, len(c.Data))
	copy(data, c.Data)
	return &container{
		Key:  c.Key,
		Type: c.Type,
		Size: c.Size,
		Data: data,
	}
}

// optimize converts the container to the most efficient representation
func (c *container) optimize() {
	switch c.Type {
	case typeArray:
		c.arrTryOptimize()
	case typeBitmap:
		c.bmpTryOptimize()
	case typeRun:
		c.runTryOptimize()
	}
}
