package roaring

import (
	"sync"
	"unsafe"

	"github.com/kelindar/bitmap"
)

var pool = sync.Pool{
	New: func() any {
		return make([]uint16, 0, 4096)
	},
}

// borrowArray returns an empty scratch slice from the pool
func borrowArray() []uint16 {
	return pool.Get().([]uint16)[:0]
}

// release returns a scratch slice to the pool
func release(v []uint16) {
	pool.Put(v[:0])
}

// asBitmap reinterprets the uint16 storage of a bitmap container as 64-bit words
func asBitmap(data []uint16) bitmap.Bitmap {
	if len(data) == 0 {
		return nil
	}

	return bitmap.Bitmap(unsafe.Slice((*uint64)(unsafe.Pointer(&data[0])), len(data)/4))
}
