package roaring

// span tracks the lowest and highest occupied slot of a 256-slot table
type span struct {
	lo, hi uint8
	count  int // number of occupied slots
}

// add records that slot i became occupied
func (s *span) add(i uint8) {
	switch {
	case s.count == 0:
		s.lo, s.hi = i, i
	case i < s.lo:
		s.lo = i
	case i > s.hi:
		s.hi = i
	}
	s.count++
}

// del records that slot i became empty; occupied reports the remaining slots
func (s *span) del(i uint8, occupied func(i int) bool) {
	if s.count--; s.count == 0 || (i != s.lo && i != s.hi) {
		return
	}

	for s.lo < s.hi && !occupied(int(s.lo)) {
		s.lo++
	}
	for s.hi > s.lo && !occupied(int(s.hi)) {
		s.hi--
	}
}

// cblock holds the containers sharing the same high 8 bits of their key
type cblock struct {
	content [256]*container
	span
}

// Bitmap represents a roaring bitmap for uint32 values, indexed by a two-level table
// of container blocks. The zero value is an empty bitmap ready to use.
type Bitmap struct {
	blocks [256]*cblock
	span
}

// New creates a new empty roaring bitmap
func New() *Bitmap {
	return &Bitmap{}
}

// findContainer returns the container holding the values with the given high bits
func (rb *Bitmap) findContainer(hi uint16) (*container, bool) {
	block := rb.blocks[hi>>8]
	if block == nil {
		return nil, false
	}

	c := block.content[hi&0xFF]
	return c, c != nil
}

// setContainer stores a container under the given high bits
func (rb *Bitmap) setContainer(hi uint16, c *container) {
	c.Key = hi
	hi8, lo8 := uint8(hi>>8), uint8(hi)

	block := rb.blocks[hi8]
	if block == nil {
		block = new(cblock)
		rb.blocks[hi8] = block
		rb.add(hi8)
	}

	if block.content[lo8] == nil {
		block.add(lo8)
	}
	block.content[lo8] = c
}

// removeContainer drops the container stored under the given high bits
func (rb *Bitmap) removeContainer(hi uint16) {
	hi8, lo8 := uint8(hi>>8), uint8(hi)
	block := rb.blocks[hi8]
	if block == nil || block.content[lo8] == nil {
		return
	}

	block.content[lo8] = nil
	block.del(lo8, func(i int) bool { return block.content[i] != nil })
	if block.count == 0 {
		rb.blocks[hi8] = nil
		rb.del(hi8, func(i int) bool { return rb.blocks[i] != nil })
	}
}

// Set sets the bit x in the bitmap
func (rb *Bitmap) Set(x uint32) {
	hi, lo := uint16(x>>16), uint16(x)
	c, exists := rb.findContainer(hi)
	if !exists {
		c = newContainer()
		rb.setContainer(hi, c)
	}

	c.set(lo)
}

// Remove removes the bit x from the bitmap, dropping its container once empty
func (rb *Bitmap) Remove(x uint32) {
	hi, lo := uint16(x>>16), uint16(x)
	c, exists := rb.findContainer(hi)
	if !exists || !c.remove(lo) {
		return
	}

	if c.isEmpty() {
		rb.removeContainer(hi)
	}
}

// Contains checks whether a value is contained in the bitmap or not.
func (rb *Bitmap) Contains(x uint32) bool {
	c, exists := rb.findContainer(uint16(x >> 16))
	return exists && c.contains(uint16(x))
}

// Count returns the total number of bits set in the bitmap
func (rb *Bitmap) Count() (count int) {
	rb.iterateContainers(func(c *container) bool {
		count += c.cardinality()
		return true
	})
	return
}

// Clear removes every value from the bitmap
func (rb *Bitmap) Clear() {
	rb.blocks = [256]*cblock{}
	rb.span = span{}
}

// Optimize converts every container to its most compact representation
func (rb *Bitmap) Optimize() {
	rb.iterateContainers(func(c *container) bool {
		c.optimize()
		return true
	})
}

// Clone clones the bitmap into the destination, allocating a new one if it is nil
func (rb *Bitmap) Clone(into *Bitmap) *Bitmap {
	if into == nil {
		into = New()
	}

	into.Clear()
	rb.iterateContainers(func(c *container) bool {
		into.setContainer(c.Key, c.clone())
		return true
	})
	return into
}

// Compare performs a three-way lexicographic comparison of two bitmaps, walking
// the values in ascending order. At the first differing value, the bitmap that
// contains it is the greater one. A bitmap that is a prefix of the other is smaller.
func (rb *Bitmap) Compare(other *Bitmap) int {
	a, b := rb.Iterator(), other.Iterator()
	for ; a.Valid() && b.Valid(); a.Next() {
		switch x, y := a.Value(), b.Value(); {
		case x < y:
			return 1
		case x > y:
			return -1
		}
		b.Next()
	}

	switch {
	case a.Valid():
		return 1
	case b.Valid():
		return -1
	default:
		return 0
	}
}

// Equal returns true if both bitmaps contain exactly the same values
func (rb *Bitmap) Equal(other *Bitmap) bool {
	return rb.Count() == other.Count() && rb.Compare(other) == 0
}
