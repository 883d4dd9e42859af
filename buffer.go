package roaring

import (
	"sync"
	"unsafe"

	"github.com/kelindar/bitmap"
)

var pool = sync.Pool{
	New: func() any {
		return make([]uint16, bmpSize)
	},
}

// borrowArray returns a zeroed scratch buffer large enough for a bitmap container
func borrowArray() []uint16 {
	buffer := pool.Get().([]uint16)[:bmpSize]
	clear(buffer)
	return buffer
}

// release returns a scratch buffer to the pool
func release(v []uint16) {
	if cap(v) >= bmpSize {
		pool.Put(v[:0])
	}
}

// asBitmap views a []uint16 as 64-bit words
func asBitmap(data []uint16) bitmap.Bitmap {
	if len(data) == 0 {
		return nil
	}

	return bitmap.Bitmap(unsafe.Slice((*uint64)(unsafe.Pointer(&data[0])), len(data)/4))
}

// asBytes views a []uint16 as its underlying bytes
func asBytes(data []uint16) []byte {
	if len(data) == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*2)
}

// asUint16s views a byte buffer as a []uint16 without copying
func asUint16s(data []byte) []uint16 {
	if len(data) < 2 {
		return nil
	}

	return unsafe.Slice((*uint16)(unsafe.Pointer(&data[0])), len(data)/2)
}

// isAligned checks whether a byte buffer starts on the given boundary, so that it
// can be viewed as a slice of wider integers.
func isAligned(data []byte, align int) bool {
	return len(data) == 0 || uintptr(unsafe.Pointer(&data[0]))%uintptr(align) == 0
}
