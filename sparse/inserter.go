package sparse

import (
	"math"

	"github.com/pkg/errors"
)

const insertBatch = 1024

// ErrOverflow is returned when an insertion would grow a vector beyond the largest
// addressable position.
var ErrOverflow = errors.New("sparse: vector position overflow")

// Inserter appends values and null runs to the end of a vector. Appended values are
// buffered, so the vector is only guaranteed to reflect them after Flush.
type Inserter struct {
	sv      *Vector
	pending []uint32 // buffered values, starting at position base
	base    uint64   // position of the first pending value
	next    uint64   // position of the next appended element
	err     error
}

// Inserter returns a back-inserter positioned at the end of the vector
func (sv *Vector) Inserter() *Inserter {
	return &Inserter{
		sv:      sv,
		pending: make([]uint32, 0, insertBatch),
		base:    uint64(sv.size),
		next:    uint64(sv.size),
	}
}

// Add appends a value
func (bi *Inserter) Add(v uint32) {
	if bi.advance(1) {
		bi.pending = append(bi.pending, v)
		if len(bi.pending) == insertBatch {
			bi.drain()
		}
	}
}

// AddNull appends a run of n null positions
func (bi *Inserter) AddNull(n uint32) {
	if n == 0 {
		return
	}

	bi.drain()
	if bi.advance(uint64(n)) {
		bi.base = bi.next
	}
}

// Flush writes all buffered values into the vector and extends its size to cover
// any trailing null run. It returns the first error encountered while inserting.
func (bi *Inserter) Flush() error {
	bi.drain()
	if bi.err != nil {
		return bi.err
	}

	if bi.next > uint64(bi.sv.size) {
		bi.sv.size = uint32(bi.next)
	}
	return nil
}

// advance reserves n positions, recording an overflow error if they do not fit
func (bi *Inserter) advance(n uint64) bool {
	if bi.err != nil {
		return false
	}

	if bi.next+n > math.MaxUint32 {
		bi.err = errors.Wrapf(ErrOverflow, "cannot append %d elements at position %d", n, bi.next)
		return false
	}

	bi.next += n
	return true
}

// drain writes the pending values into the vector
func (bi *Inserter) drain() {
	for i, v := range bi.pending {
		bi.sv.Set(uint32(bi.base)+uint32(i), v)
	}

	bi.base += uint64(len(bi.pending))
	bi.pending = bi.pending[:0]
}
