package roaring

import (
	"fmt"

	"github.com/kelindar/bitmap"
)

const (
	arrMaxSize  = 4096    // Maximum cardinality of an array container
	bitmapWords = 1024    // Number of 64-bit words in a bitmap container
	maxCapacity = 1 << 16 // Number of values a single container can hold
)

type ctype byte

const (
	typeArray ctype = iota
	typeBitmap
	typeRun
)

// String returns the name of the container representation
func (t ctype) String() string {
	switch t {
	case typeArray:
		return "array"
	case typeBitmap:
		return "bitmap"
	case typeRun:
		return "run"
	default:
		return fmt.Sprintf("ctype(%d)", byte(t))
	}
}

// container holds the subset of one 65536-wide chunk. Mutating operations
// return the container to use afterwards, which may be a different value of a
// different type; the receiver must not be used once it has been replaced.
type container struct {
	Type   ctype         // Type of the container
	Size   uint32        // Cardinality, only valid when not dirty
	Dirty  bool          // Cardinality is deferred by a lazy union
	Shared bool          // Data is borrowed and must be copied before writing
	Data   []uint16      // Sorted values (array) or inclusive [start, last] pairs (run)
	Bits   bitmap.Bitmap // Words of a bitmap container
}

// newArray creates an empty array container with the given capacity
func newArray(capacity int) *container {
	return &container{
		Type: typeArray,
		Data: make([]uint16, 0, capacity),
	}
}

// newArrayOf creates an array container owning the given sorted values
func newArrayOf(values []uint16) *container {
	return &container{
		Type: typeArray,
		Size: uint32(len(values)),
		Data: values,
	}
}

// newBitmap creates an empty bitmap container
func newBitmap() *container {
	return &container{
		Type: typeBitmap,
		Bits: make(bitmap.Bitmap, bitmapWords),
	}
}

// newRun creates a run container owning the given [start, last] pairs
func newRun(runs []uint16, size uint32) *container {
	return &container{
		Type: typeRun,
		Size: size,
		Data: runs,
	}
}

// newRange creates the most compact container holding [start, end)
func newRange(start, end int) *container {
	return newRun([]uint16{uint16(start), uint16(end - 1)}, uint32(end-start)).toEfficient()
}

// cardinality returns the number of elements in the container. It panics if the
// container is the dirty result of a lazy union that was never repaired.
func (c *container) cardinality() int {
	if c.Dirty {
		panic("roaring: cardinality requested on a lazy container before repair")
	}
	return int(c.Size)
}

// isEmpty returns true if the container has no elements
func (c *container) isEmpty() bool {
	if !c.Dirty {
		return c.Size == 0
	}

	for _, w := range c.Bits {
		if w != 0 {
			return false
		}
	}
	return true
}

// isFull returns true if the container holds every value of the chunk
func (c *container) isFull() bool {
	return !c.Dirty && c.Size == maxCapacity
}

// contains checks if a value exists in the container
func (c *container) contains(value uint16) bool {
	switch c.Type {
	case typeArray:
		return c.arrHas(value)
	case typeBitmap:
		return c.Bits.Contains(uint32(value))
	default:
		return c.runHas(value)
	}
}

// fork returns a container that is safe to mutate. Borrowed containers are
// copied, owned ones are returned as is.
func (c *container) fork() *container {
	if !c.Shared {
		return c
	}
	return c.clone()
}

// clone returns a deep copy of the container
func (c *container) clone() *container {
	out := &container{
		Type:  c.Type,
		Size:  c.Size,
		Dirty: c.Dirty,
	}

	switch c.Type {
	case typeBitmap:
		out.Bits = make(bitmap.Bitmap, bitmapWords)
		copy(out.Bits, c.Bits)
	default:
		out.Data = make([]uint16, len(c.Data))
		copy(out.Data, c.Data)
	}
	return out
}

// add inserts a value and returns the resulting container. Only constant-time
// conversions happen here: an oversized array becomes a bitmap and a run list
// falls back once it outgrows the other forms. Arrays and bitmaps are turned
// into runs by a range operation, a binary operation or Optimize.
func (c *container) add(value uint16) *container {
	switch c.Type {
	case typeArray:
		if c.arrSet(value) && c.Size > arrMaxSize {
			return c.arrToBmp()
		}
	case typeBitmap:
		c.bmpSet(value)
	case typeRun:
		if c.runSet(value) {
			return c.runTryShrink()
		}
	}
	return c
}

// remove deletes a value and returns the resulting container, with the same
// constant-time conversions as add.
func (c *container) remove(value uint16) *container {
	switch c.Type {
	case typeArray:
		c.arrDel(value)
	case typeBitmap:
		if c.bmpDel(value) && c.Size <= arrMaxSize {
			return c.bmpToArr()
		}
	case typeRun:
		if c.runDel(value) {
			return c.runTryShrink()
		}
	}
	return c
}

// addRange inserts every value of [start, end) and returns the resulting container
func (c *container) addRange(start, end int) (*container, error) {
	switch {
	case start > end || start < 0 || end > maxCapacity:
		return c, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	case start == end:
		return c, nil
	}

	switch c.Type {
	case typeArray:
		return c.arrAddRange(start, end).toEfficient(), nil
	case typeBitmap:
		c.Size += uint32((end - start) - bmpCountRange(c.Bits, start, end))
		bmpSetRange(c.Bits, start, end)
		return c.toEfficient(), nil
	default:
		c.runAddRange(start, end)
		return c.toEfficient(), nil
	}
}

// removeRange deletes every value of [start, end) and returns the resulting container
func (c *container) removeRange(start, end int) (*container, error) {
	switch {
	case start > end || start < 0 || end > maxCapacity:
		return c, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	case start == end:
		return c, nil
	}

	switch c.Type {
	case typeArray:
		c.arrRemoveRange(start, end)
		return c.toEfficient(), nil
	case typeBitmap:
		c.Size -= uint32(bmpCountRange(c.Bits, start, end))
		bmpClearRange(c.Bits, start, end)
		return c.toEfficient(), nil
	default:
		c.runRemoveRange(start, end)
		return c.toEfficient(), nil
	}
}

// not complements the container within [start, end) and returns the result
func (c *container) not(start, end int) (*container, error) {
	switch {
	case start > end || start < 0 || end > maxCapacity:
		return c, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	case start == end:
		return c, nil
	}

	switch c.Type {
	case typeArray:
		return c.arrFlipRange(start, end).toEfficient(), nil
	case typeBitmap:
		inside := bmpCountRange(c.Bits, start, end)
		bmpFlipRange(c.Bits, start, end)
		c.Size = c.Size - uint32(inside) + uint32((end-start)-inside)
		return c.toEfficient(), nil
	default:
		span := newRun([]uint16{uint16(start), uint16(end - 1)}, uint32(end-start))
		return runXorRun(c, span), nil
	}
}

// containsRange returns true if every value of [start, end) is present
func (c *container) containsRange(start, end int) bool {
	if start >= end {
		return true
	}
	return c.countRange(start, end) == end-start
}

// countRange returns the number of values present in [start, end)
func (c *container) countRange(start, end int) int {
	switch c.Type {
	case typeArray:
		return arrLowerBound(c.Data, end) - arrLowerBound(c.Data, start)
	case typeBitmap:
		return bmpCountRange(c.Bits, start, end)
	default:
		return c.runCountRange(start, end)
	}
}

// rank returns the number of values smaller or equal to the given value
func (c *container) rank(value uint16) int {
	switch c.Type {
	case typeArray:
		idx, found := find16(c.Data, value)
		if found {
			return idx + 1
		}
		return idx
	case typeBitmap:
		return bmpRank(c.Bits, value)
	default:
		return c.runRank(value)
	}
}

// selectAt returns the i-th smallest value of the container
func (c *container) selectAt(i int) (uint16, error) {
	card := c.cardinality()
	switch {
	case card == 0:
		return 0, ErrEmptyContainer
	case i < 0 || i >= card:
		return 0, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, card)
	}

	switch c.Type {
	case typeArray:
		return c.Data[i], nil
	case typeBitmap:
		return bmpSelect(c.Bits, i), nil
	default:
		return c.runSelect(i), nil
	}
}

// first returns the smallest value of the container
func (c *container) first() (uint16, error) {
	if c.isEmpty() {
		return 0, ErrEmptyContainer
	}

	switch c.Type {
	case typeBitmap:
		v, _ := c.Bits.Min()
		return uint16(v), nil
	default:
		return c.Data[0], nil
	}
}

// last returns the largest value of the container
func (c *container) last() (uint16, error) {
	if c.isEmpty() {
		return 0, ErrEmptyContainer
	}

	switch c.Type {
	case typeBitmap:
		v, _ := c.Bits.Max()
		return uint16(v), nil
	default:
		return c.Data[len(c.Data)-1], nil
	}
}

// numberOfRuns returns the number of runs of consecutive values
func (c *container) numberOfRuns() int {
	switch c.Type {
	case typeArray:
		return arrNumberOfRuns(c.Data)
	case typeBitmap:
		return bmpNumberOfRuns(c.Bits)
	default:
		return len(c.Data) / 2
	}
}

// numberOfRunsLowerBound returns a lower bound of the number of runs. The count
// stops early once it exceeds the threshold.
func (c *container) numberOfRunsLowerBound(threshold int) int {
	switch c.Type {
	case typeBitmap:
		return bmpNumberOfRunsLowerBound(c.Bits, threshold)
	default:
		return c.numberOfRuns()
	}
}

// serializedSize returns the size of the container payload in the portable format
func (c *container) serializedSize() int {
	switch c.Type {
	case typeArray:
		return arraySizeInBytes(c.cardinality())
	case typeBitmap:
		return bitmapSizeInBytes
	default:
		return runSizeInBytes(len(c.Data) / 2)
	}
}

// equals returns true if both containers hold the same values
func (c *container) equals(other *container) bool {
	if c.cardinality() != other.cardinality() {
		return false
	}

	switch {
	case c.Type == typeBitmap && other.Type == typeBitmap:
		for i := range c.Bits {
			if c.Bits[i] != other.Bits[i] {
				return false
			}
		}
		return true
	case c.Type == other.Type:
		if len(c.Data) != len(other.Data) {
			return false
		}
		for i := range c.Data {
			if c.Data[i] != other.Data[i] {
				return false
			}
		}
		return true
	}

	it1, it2 := c.iterator(), other.iterator()
	for it1.hasNext() {
		if !it2.hasNext() || it1.next() != it2.next() {
			return false
		}
	}
	return !it2.hasNext()
}

// String returns a short description of the container
func (c *container) String() string {
	if c.Dirty {
		return fmt.Sprintf("%s{dirty}", c.Type)
	}
	return fmt.Sprintf("%s{%d}", c.Type, c.Size)
}
