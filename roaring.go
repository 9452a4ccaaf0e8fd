package roaring

import (
	"fmt"
	"strings"
)

// Bitmap represents a roaring bitmap for uint32 values. Values are split by
// their high 16 bits into chunks, each chunk being held by a container. Keys
// are kept sorted and only non-empty containers are stored.
type Bitmap struct {
	index      []uint16     // Sorted container keys
	containers []*container // Containers, aligned with the keys
}

// New creates a new empty roaring bitmap
func New() *Bitmap {
	return &Bitmap{}
}

// BitmapOf creates a new bitmap holding the given values
func BitmapOf(values ...uint32) *Bitmap {
	rb := New()
	for _, v := range values {
		rb.Set(v)
	}
	return rb
}

// find returns the position of the container for the given key
func (rb *Bitmap) find(hi uint16) (int, bool) {
	return find16(rb.index, hi)
}

// ctrAdd inserts a container at the given position
func (rb *Bitmap) ctrAdd(hi uint16, pos int, c *container) {
	rb.index = append(rb.index, 0)
	copy(rb.index[pos+1:], rb.index[pos:])
	rb.index[pos] = hi

	rb.containers = append(rb.containers, nil)
	copy(rb.containers[pos+1:], rb.containers[pos:])
	rb.containers[pos] = c
}

// ctrDel removes the container at the given position
func (rb *Bitmap) ctrDel(pos int) {
	copy(rb.index[pos:], rb.index[pos+1:])
	rb.index = rb.index[:len(rb.index)-1]

	copy(rb.containers[pos:], rb.containers[pos+1:])
	rb.containers[len(rb.containers)-1] = nil
	rb.containers = rb.containers[:len(rb.containers)-1]
	rb.shrink()
}

// ctrSet replaces the container at the given position, dropping it if empty
func (rb *Bitmap) ctrSet(pos int, c *container) {
	if c.isEmpty() {
		rb.ctrDel(pos)
		return
	}
	rb.containers[pos] = c
}

// writable returns the container at the given position, copying it first if
// its data is borrowed
func (rb *Bitmap) writable(pos int) *container {
	c := rb.containers[pos]
	if c.Shared {
		c = c.fork()
		rb.containers[pos] = c
	}
	return c
}

// push appends a container with a key larger than every existing one
func (rb *Bitmap) push(hi uint16, c *container) {
	if !c.isEmpty() {
		rb.index = append(rb.index, hi)
		rb.containers = append(rb.containers, c)
	}
}

// truncate keeps the first n containers
func (rb *Bitmap) truncate(n int) {
	clear(rb.containers[n:])
	rb.index = rb.index[:n]
	rb.containers = rb.containers[:n]
	rb.shrink()
}

// shrink releases the backing arrays once most of their room is unused
func (rb *Bitmap) shrink() {
	if cap(rb.index) <= 64 || len(rb.index) >= cap(rb.index)/4 {
		return
	}

	index := make([]uint16, len(rb.index), 2*len(rb.index))
	copy(index, rb.index)
	containers := make([]*container, len(rb.containers), 2*len(rb.containers))
	copy(containers, rb.containers)
	rb.index, rb.containers = index, containers
}

// Set sets the bit x in the bitmap and grows it if necessary.
func (rb *Bitmap) Set(x uint32) {
	rb.CheckedSet(x)
}

// CheckedSet sets the bit x and returns true if it was not already present
func (rb *Bitmap) CheckedSet(x uint32) bool {
	hi, lo := uint16(x>>16), uint16(x&0xFFFF)
	pos, exists := rb.find(hi)
	if !exists {
		c := newArray(4)
		c.arrSet(lo)
		rb.ctrAdd(hi, pos, c)
		return true
	}

	c := rb.containers[pos]
	if c.contains(lo) {
		return false
	}

	rb.containers[pos] = rb.writable(pos).add(lo)
	return true
}

// Remove removes the bit x from the bitmap
func (rb *Bitmap) Remove(x uint32) {
	rb.CheckedRemove(x)
}

// CheckedRemove removes the bit x and returns true if it was present
func (rb *Bitmap) CheckedRemove(x uint32) bool {
	hi, lo := uint16(x>>16), uint16(x&0xFFFF)
	pos, exists := rb.find(hi)
	if !exists || !rb.containers[pos].contains(lo) {
		return false
	}

	rb.ctrSet(pos, rb.writable(pos).remove(lo))
	return true
}

// Contains checks whether a value is contained in the bitmap or not.
func (rb *Bitmap) Contains(x uint32) bool {
	hi, lo := uint16(x>>16), uint16(x&0xFFFF)
	pos, exists := rb.find(hi)
	return exists && rb.containers[pos].contains(lo)
}

// Count returns the total number of bits set to 1 in the bitmap
func (rb *Bitmap) Count() int {
	if rb == nil {
		return 0
	}

	count := 0
	for _, c := range rb.containers {
		count += c.cardinality()
	}
	return count
}

// IsEmpty returns true if the bitmap holds no value
func (rb *Bitmap) IsEmpty() bool {
	return rb == nil || len(rb.index) == 0
}

// Clear clears the bitmap and resizes it to zero.
func (rb *Bitmap) Clear() {
	rb.index = nil
	rb.containers = nil
}

// Clone clones the bitmap into the destination, allocating a new one when the
// destination is nil. Containers are deep copied, so the two bitmaps never
// share any data.
func (rb *Bitmap) Clone(into *Bitmap) *Bitmap {
	if into == nil {
		into = New()
	}

	into.index = append(into.index[:0], rb.index...)
	clear(into.containers)
	into.containers = into.containers[:0]
	for _, c := range rb.containers {
		into.containers = append(into.containers, c.clone())
	}
	return into
}

// Equals returns true if both bitmaps hold the same values, regardless of how
// their containers are represented
func (rb *Bitmap) Equals(other *Bitmap) bool {
	switch {
	case rb == nil || other == nil:
		return rb.IsEmpty() && other.IsEmpty()
	case len(rb.index) != len(other.index):
		return false
	}

	for i, hi := range rb.index {
		if other.index[i] != hi || !rb.containers[i].equals(other.containers[i]) {
			return false
		}
	}
	return true
}

// Rank returns the number of values smaller or equal to x
func (rb *Bitmap) Rank(x uint32) int {
	hi, lo := uint16(x>>16), uint16(x&0xFFFF)
	rank := 0
	for i, key := range rb.index {
		switch {
		case key < hi:
			rank += rb.containers[i].cardinality()
		case key == hi:
			return rank + rb.containers[i].rank(lo)
		default:
			return rank
		}
	}
	return rank
}

// Select returns the i-th smallest value of the bitmap, starting at zero
func (rb *Bitmap) Select(i int) (uint32, error) {
	if rb.IsEmpty() {
		return 0, ErrEmptyContainer
	}

	if i >= 0 {
		for pos, c := range rb.containers {
			card := c.cardinality()
			if i >= card {
				i -= card
				continue
			}

			lo, err := c.selectAt(i)
			if err != nil {
				return 0, err
			}
			return uint32(rb.index[pos])<<16 | uint32(lo), nil
		}
	}
	return 0, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, rb.Count())
}

// First returns the smallest value of the bitmap
func (rb *Bitmap) First() (uint32, error) {
	if rb.IsEmpty() {
		return 0, ErrEmptyContainer
	}

	lo, err := rb.containers[0].first()
	return uint32(rb.index[0])<<16 | uint32(lo), err
}

// Last returns the largest value of the bitmap
func (rb *Bitmap) Last() (uint32, error) {
	if rb.IsEmpty() {
		return 0, ErrEmptyContainer
	}

	n := len(rb.index) - 1
	lo, err := rb.containers[n].last()
	return uint32(rb.index[n])<<16 | uint32(lo), err
}

// Optimize converts every container to its most compact representation,
// including run containers where they save room. The serialized size never
// grows: runs that do not pay for the run flags of the header are undone.
func (rb *Bitmap) Optimize() {
	hadRuns := rb.HasRunCompression()
	before := rb.SerializedSizeInBytes()
	for i, c := range rb.containers {
		if best := c.toEfficient(); best != c {
			rb.containers[i] = best
		}
	}

	if hadRuns || rb.SerializedSizeInBytes() <= before {
		return
	}

	for i, c := range rb.containers {
		if c.Type != typeRun {
			continue
		}

		if c.cardinality() <= arrMaxSize {
			rb.containers[i] = c.toArray()
		} else {
			rb.containers[i] = c.toBitmap()
		}
	}
}

// HasRunCompression returns true if any container uses run encoding
func (rb *Bitmap) HasRunCompression() bool {
	for _, c := range rb.containers {
		if c.Type == typeRun {
			return true
		}
	}
	return false
}

// Stats describes the containers of a bitmap
type Stats struct {
	Cardinality      int // Number of values
	Containers       int // Number of containers
	ArrayContainers  int // Number of array containers
	BitmapContainers int // Number of bitmap containers
	RunContainers    int // Number of run containers
	ArrayValues      int // Values held by array containers
	BitmapValues     int // Values held by bitmap containers
	RunValues        int // Values held by run containers
	Runs             int // Number of runs across run containers
	SerializedBytes  int // Size in the portable format
}

// Stats returns statistics about the containers of the bitmap
func (rb *Bitmap) Stats() Stats {
	stats := Stats{
		Containers:      len(rb.containers),
		SerializedBytes: int(rb.SerializedSizeInBytes()),
	}

	for _, c := range rb.containers {
		card := c.cardinality()
		stats.Cardinality += card
		switch c.Type {
		case typeArray:
			stats.ArrayContainers++
			stats.ArrayValues += card
		case typeBitmap:
			stats.BitmapContainers++
			stats.BitmapValues += card
		case typeRun:
			stats.RunContainers++
			stats.RunValues += card
			stats.Runs += len(c.Data) / 2
		}
	}
	return stats
}

// String returns a short human readable description of the bitmap
func (rb *Bitmap) String() string {
	const limit = 16

	var sb strings.Builder
	sb.WriteByte('{')
	n := 0
	for it := rb.Iterator(); it.HasNext(); n++ {
		if n == limit {
			sb.WriteString(fmt.Sprintf(" ...(%d more)", rb.Count()-limit))
			break
		}
		if n > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(fmt.Sprint(it.Next()))
	}
	sb.WriteByte('}')
	return sb.String()
}
