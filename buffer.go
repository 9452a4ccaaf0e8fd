package roaring

import (
	"encoding/binary"
	"sync"
	"unsafe"

	"github.com/kelindar/bitmap"
)

var isLittleEndian = binary.LittleEndian.Uint16([]byte{1, 0}) == 1

// pool holds scratch buffers large enough for the runs of any array container
var pool = sync.Pool{
	New: func() any {
		return make([]uint16, 0, 2*arrMaxSize)
	},
}

// borrowArray returns an empty scratch buffer from the pool
func borrowArray() []uint16 {
	return pool.Get().([]uint16)[:0]
}

// release returns a scratch buffer to the pool
func release(v []uint16) {
	if cap(v) >= 2*arrMaxSize {
		pool.Put(v[:0])
	}
}

// asUint16s reinterprets little endian bytes as a slice of uint16 without
// copying, provided the machine is little endian and the data is aligned
func asUint16s(data []byte) ([]uint16, bool) {
	if !isLittleEndian || len(data) == 0 || uintptr(unsafe.Pointer(&data[0]))%2 != 0 {
		return nil, false
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&data[0])), len(data)/2), true
}

// asBitmap reinterprets little endian bytes as bitmap words without copying,
// provided the machine is little endian and the data is aligned
func asBitmap(data []byte) (bitmap.Bitmap, bool) {
	if !isLittleEndian || len(data) == 0 || uintptr(unsafe.Pointer(&data[0]))%8 != 0 {
		return nil, false
	}
	return bitmap.Bitmap(unsafe.Slice((*uint64)(unsafe.Pointer(&data[0])), len(data)/8)), true
}

// uint16Bytes returns the in-memory bytes of a slice of uint16
func uint16Bytes(data []uint16) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*2)
}

// uint64Bytes returns the in-memory bytes of a slice of uint64
func uint64Bytes(data []uint64) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*8)
}
