package roaring

// Iterator walks the values of a bitmap in ascending order. The bitmap must not
// be modified while it is being iterated.
type Iterator struct {
	rb   *Bitmap
	pos  int
	base uint32
	iter shortIterator
}

// Iterator returns an ascending iterator over the bitmap
func (rb *Bitmap) Iterator() *Iterator {
	it := &Iterator{rb: rb}
	it.load()
	return it
}

// load positions the iterator at the start of the current container
func (it *Iterator) load() {
	if it.pos >= len(it.rb.index) {
		it.iter = nil
		return
	}

	it.base = uint32(it.rb.index[it.pos]) << 16
	it.iter = it.rb.containers[it.pos].iterator()
}

// HasNext returns true if there are more values to iterate over
func (it *Iterator) HasNext() bool {
	return it.iter != nil && it.iter.hasNext()
}

// Next returns the next value and moves the iterator forward. It panics once
// the iterator is exhausted.
func (it *Iterator) Next() uint32 {
	if it.iter == nil {
		panic("roaring: next called on an exhausted iterator")
	}

	v := it.base | uint32(it.iter.next())
	if !it.iter.hasNext() {
		it.pos++
		it.load()
	}
	return v
}

// PeekNext returns the next value without moving the iterator. It panics once
// the iterator is exhausted.
func (it *Iterator) PeekNext() uint32 {
	if it.iter == nil {
		panic("roaring: peek called on an exhausted iterator")
	}
	return it.base | uint32(it.iter.peekNext())
}

// AdvanceIfNeeded moves the iterator forward until the next value is at least
// minval. It never moves backwards.
func (it *Iterator) AdvanceIfNeeded(minval uint32) {
	hi := uint16(minval >> 16)
	if it.iter != nil && uint16(it.base>>16) < hi {
		idx, _ := find16(it.rb.index[it.pos:], hi)
		it.pos += idx
		it.load()
	}

	if it.iter != nil && uint16(it.base>>16) == hi {
		it.iter.advanceIfNeeded(uint16(minval))
		if !it.iter.hasNext() {
			it.pos++
			it.load()
		}
	}
}

// Clone returns an independent copy of the iterator at the same position
func (it *Iterator) Clone() *Iterator {
	out := *it
	if it.iter != nil {
		out.iter = it.iter.clone()
	}
	return &out
}

// ReverseIterator walks the values of a bitmap in descending order
type ReverseIterator struct {
	rb   *Bitmap
	pos  int
	base uint32
	iter shortReverseIterator
}

// ReverseIterator returns a descending iterator over the bitmap
func (rb *Bitmap) ReverseIterator() *ReverseIterator {
	it := &ReverseIterator{rb: rb, pos: len(rb.index) - 1}
	it.load()
	return it
}

func (it *ReverseIterator) load() {
	if it.pos < 0 {
		it.iter = nil
		return
	}

	it.base = uint32(it.rb.index[it.pos]) << 16
	it.iter = it.rb.containers[it.pos].reverseIterator()
}

// HasNext returns true if there are more values to iterate over
func (it *ReverseIterator) HasNext() bool {
	return it.iter != nil && it.iter.hasNext()
}

// Next returns the next value and moves the iterator backwards
func (it *ReverseIterator) Next() uint32 {
	v := it.base | uint32(it.iter.next())
	if !it.iter.hasNext() {
		it.pos--
		it.load()
	}
	return v
}

// SignedIterator walks the values of a bitmap as int32, in ascending signed
// order. Values with the high bit set are negative and come first.
type SignedIterator struct {
	rb    *Bitmap
	order []int
	pos   int
	base  uint32
	iter  shortIterator
}

// SignedIterator returns an iterator over the values of the bitmap taken as int32
func (rb *Bitmap) SignedIterator() *SignedIterator {
	split, _ := find16(rb.index, 0x8000)
	order := make([]int, 0, len(rb.index))
	for i := split; i < len(rb.index); i++ {
		order = append(order, i)
	}
	for i := 0; i < split; i++ {
		order = append(order, i)
	}

	it := &SignedIterator{rb: rb, order: order}
	it.load()
	return it
}

func (it *SignedIterator) load() {
	if it.pos >= len(it.order) {
		it.iter = nil
		return
	}

	at := it.order[it.pos]
	it.base = uint32(it.rb.index[at]) << 16
	it.iter = it.rb.containers[at].iterator()
}

// HasNext returns true if there are more values to iterate over
func (it *SignedIterator) HasNext() bool {
	return it.iter != nil && it.iter.hasNext()
}

// Next returns the next value and moves the iterator forward
func (it *SignedIterator) Next() int32 {
	v := int32(it.base | uint32(it.iter.next()))
	if !it.iter.hasNext() {
		it.pos++
		it.load()
	}
	return v
}

// ManyIterator copies the values of a bitmap in batches, in ascending order
type ManyIterator struct {
	rb   *Bitmap
	pos  int
	base uint32
	iter manyIterator
}

// ManyIterator returns a batch iterator over the bitmap
func (rb *Bitmap) ManyIterator() *ManyIterator {
	it := &ManyIterator{rb: rb}
	it.load()
	return it
}

func (it *ManyIterator) load() {
	if it.pos >= len(it.rb.index) {
		it.iter = nil
		return
	}

	it.base = uint32(it.rb.index[it.pos]) << 16
	it.iter = it.rb.containers[it.pos].manyIterator()
}

// NextMany fills the buffer with the next values and returns how many were
// written. It returns zero once the bitmap is exhausted.
func (it *ManyIterator) NextMany(buf []uint32) int {
	n := 0
	for n < len(buf) && it.iter != nil {
		m := it.iter.nextMany(it.base, buf[n:])
		if n += m; n < len(buf) {
			it.pos++
			it.load()
		}
	}
	return n
}
