package roaring

import (
	"math/bits"
	"sort"
)

// shortIterator walks the values of a container in ascending order
type shortIterator interface {
	hasNext() bool
	next() uint16
	peekNext() uint16
	advanceIfNeeded(minval uint16)
	clone() shortIterator
}

// shortReverseIterator walks the values of a container in descending order
type shortReverseIterator interface {
	hasNext() bool
	next() uint16
}

// manyIterator copies batches of values out of a container
type manyIterator interface {
	nextMany(base uint32, buf []uint32) int
}

// iterator returns an ascending iterator over the container
func (c *container) iterator() shortIterator {
	switch c.Type {
	case typeArray:
		return &arrayIterator{data: c.Data}
	case typeBitmap:
		return &bitmapIterator{words: c.Bits, pos: nextSetBit(c.Bits, 0)}
	default:
		it := &runIterator{data: c.Data}
		if len(c.Data) > 0 {
			it.cur = int(c.Data[0])
		}
		return it
	}
}

// reverseIterator returns a descending iterator over the container
func (c *container) reverseIterator() shortReverseIterator {
	switch c.Type {
	case typeArray:
		return &arrayReverseIterator{data: c.Data, pos: len(c.Data) - 1}
	case typeBitmap:
		return &bitmapReverseIterator{words: c.Bits, pos: prevSetBit(c.Bits, maxCapacity-1)}
	default:
		it := &runReverseIterator{data: c.Data, run: len(c.Data)/2 - 1}
		if it.run >= 0 {
			it.cur = int(c.Data[len(c.Data)-1])
		}
		return it
	}
}

// manyIterator returns a batch iterator over the container
func (c *container) manyIterator() manyIterator {
	switch c.Type {
	case typeArray:
		return &arrayIterator{data: c.Data}
	case typeBitmap:
		it := &bitmapManyIterator{words: c.Bits}
		if len(c.Bits) > 0 {
			it.word = c.Bits[0]
		}
		return it
	default:
		it := &runIterator{data: c.Data}
		if len(c.Data) > 0 {
			it.cur = int(c.Data[0])
		}
		return it
	}
}

// ---------------------------------------- Array ----------------------------------------

type arrayIterator struct {
	data []uint16
	pos  int
}

func (it *arrayIterator) hasNext() bool    { return it.pos < len(it.data) }
func (it *arrayIterator) peekNext() uint16 { return it.data[it.pos] }

func (it *arrayIterator) next() uint16 {
	v := it.data[it.pos]
	it.pos++
	return v
}

func (it *arrayIterator) advanceIfNeeded(minval uint16) {
	it.pos = gallop(it.data, it.pos, minval)
}

func (it *arrayIterator) clone() shortIterator {
	out := *it
	return &out
}

func (it *arrayIterator) nextMany(base uint32, buf []uint32) int {
	n := min(len(buf), len(it.data)-it.pos)
	for i, v := range it.data[it.pos : it.pos+n] {
		buf[i] = base | uint32(v)
	}
	it.pos += n
	return n
}

type arrayReverseIterator struct {
	data []uint16
	pos  int
}

func (it *arrayReverseIterator) hasNext() bool { return it.pos >= 0 }

func (it *arrayReverseIterator) next() uint16 {
	v := it.data[it.pos]
	it.pos--
	return v
}

// ---------------------------------------- Bitmap ----------------------------------------

type bitmapIterator struct {
	words []uint64
	pos   int
}

func (it *bitmapIterator) hasNext() bool    { return it.pos >= 0 }
func (it *bitmapIterator) peekNext() uint16 { return uint16(it.pos) }

func (it *bitmapIterator) next() uint16 {
	v := it.pos
	it.pos = nextSetBit(it.words, v+1)
	return uint16(v)
}

func (it *bitmapIterator) advanceIfNeeded(minval uint16) {
	if it.pos >= 0 && it.pos < int(minval) {
		it.pos = nextSetBit(it.words, int(minval))
	}
}

func (it *bitmapIterator) clone() shortIterator {
	out := *it
	return &out
}

type bitmapReverseIterator struct {
	words []uint64
	pos   int
}

func (it *bitmapReverseIterator) hasNext() bool { return it.pos >= 0 }

func (it *bitmapReverseIterator) next() uint16 {
	v := it.pos
	it.pos = prevSetBit(it.words, v-1)
	return uint16(v)
}

type bitmapManyIterator struct {
	words []uint64
	index int
	word  uint64
}

func (it *bitmapManyIterator) nextMany(base uint32, buf []uint32) int {
	n := 0
	for n < len(buf) {
		for it.word == 0 {
			if it.index++; it.index >= len(it.words) {
				return n
			}
			it.word = it.words[it.index]
		}

		buf[n] = base | uint32(it.index<<6+bits.TrailingZeros64(it.word))
		it.word &= it.word - 1
		n++
	}
	return n
}

// ---------------------------------------- Run ----------------------------------------

type runIterator struct {
	data []uint16
	run  int
	cur  int
}

func (it *runIterator) hasNext() bool    { return it.run < len(it.data)/2 }
func (it *runIterator) peekNext() uint16 { return uint16(it.cur) }

func (it *runIterator) next() uint16 {
	v := it.cur
	if it.cur < int(it.data[it.run*2+1]) {
		it.cur++
		return uint16(v)
	}

	if it.run++; it.hasNext() {
		it.cur = int(it.data[it.run*2])
	}
	return uint16(v)
}

func (it *runIterator) advanceIfNeeded(minval uint16) {
	if !it.hasNext() || it.cur >= int(minval) {
		return
	}

	n := len(it.data) / 2
	it.run += sort.Search(n-it.run, func(i int) bool {
		return it.data[(it.run+i)*2+1] >= minval
	})

	if it.hasNext() {
		it.cur = max(int(minval), int(it.data[it.run*2]))
	}
}

func (it *runIterator) clone() shortIterator {
	out := *it
	return &out
}

func (it *runIterator) nextMany(base uint32, buf []uint32) int {
	n := 0
	for n < len(buf) && it.hasNext() {
		last := int(it.data[it.run*2+1])
		for ; n < len(buf) && it.cur <= last; n++ {
			buf[n] = base | uint32(it.cur)
			it.cur++
		}

		if it.cur > last {
			if it.run++; it.hasNext() {
				it.cur = int(it.data[it.run*2])
			}
		}
	}
	return n
}

type runReverseIterator struct {
	data []uint16
	run  int
	cur  int
}

func (it *runReverseIterator) hasNext() bool { return it.run >= 0 }

func (it *runReverseIterator) next() uint16 {
	v := it.cur
	if it.cur > int(it.data[it.run*2]) {
		it.cur--
		return uint16(v)
	}

	if it.run--; it.run >= 0 {
		it.cur = int(it.data[it.run*2+1])
	}
	return uint16(v)
}
