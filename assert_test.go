package roaring

import (
	"math/rand/v2"
	"testing"

	"github.com/kelindar/bitmap"
	"github.com/stretchr/testify/assert"
)

var allTypes = []ctype{typeArray, typeBitmap, typeRun}

func arrOf(data ...uint16) *container {
	return containerOf(typeArray, data...)
}

func bmpOf(data ...uint16) *container {
	return containerOf(typeBitmap, data...)
}

func runOf(data ...uint16) *container {
	return containerOf(typeRun, data...)
}

// containerOf builds a container of the requested type without ever converting
// it, so that every operation can be exercised on every representation
func containerOf(typ ctype, data ...uint16) *container {
	var c *container
	switch typ {
	case typeArray:
		c = newArray(len(data))
	case typeBitmap:
		c = newBitmap()
	case typeRun:
		c = newRun(nil, 0)
	}

	for _, v := range data {
		switch typ {
		case typeArray:
			c.arrSet(v)
		case typeBitmap:
			c.bmpSet(v)
		case typeRun:
			c.runSet(v)
		}
	}
	return c
}

// spanOf returns the values of [start, end)
func spanOf(start, end int) []uint16 {
	out := make([]uint16, 0, end-start)
	for v := start; v < end; v++ {
		out = append(out, uint16(v))
	}
	return out
}

// valuesIn returns the values of a container in ascending order
func valuesIn(c *container) []uint16 {
	out := []uint16{}
	for it := c.iterator(); it.hasNext(); {
		out = append(out, it.next())
	}
	return out
}

// bitmapWith wraps a container in a bitmap, under the first key
func bitmapWith(c *container) (*Bitmap, []uint16) {
	rb := New()
	if !c.isEmpty() {
		rb.index = []uint16{0}
		rb.containers = []*container{c}
	}
	return rb, valuesOf(rb)
}

// valuesOf returns the values of a bitmap holding a single chunk
func valuesOf(rb *Bitmap) []uint16 {
	out := []uint16{}
	rb.Range(func(x uint32) {
		out = append(out, uint16(x))
	})
	return out
}

// assertEfficient checks that the container already uses its best representation
func assertEfficient(t *testing.T, c *container) {
	t.Helper()
	assert.False(t, c.Dirty)
	assert.Equal(t, c.Type, c.clone().toEfficient().Type, "container %v is not in its best form", c)
}

// assertValid checks the structural invariants of every container
func assertValid(t *testing.T, rb *Bitmap) {
	t.Helper()
	assert.Equal(t, len(rb.index), len(rb.containers))
	for i, c := range rb.containers {
		if i > 0 {
			assert.Less(t, rb.index[i-1], rb.index[i], "keys must be strictly increasing")
		}

		assert.False(t, c.isEmpty(), "empty container under key %d", rb.index[i])
		switch c.Type {
		case typeArray:
			assert.LessOrEqual(t, len(c.Data), arrMaxSize)
			assert.Equal(t, int(c.Size), len(c.Data))
			for j := 1; j < len(c.Data); j++ {
				assert.Less(t, c.Data[j-1], c.Data[j])
			}
		case typeBitmap:
			assert.Equal(t, int(c.Size), c.Bits.Count())
		case typeRun:
			assert.Equal(t, int(c.Size), runCardinality(c.Data))
			for j := 2; j < len(c.Data); j += 2 {
				assert.Greater(t, int(c.Data[j]), int(c.Data[j-1])+1, "runs must not touch")
			}
		}
	}
}

// ---------------------------------------- Test Helpers ----------------------------------------

// testPair creates both our bitmap and reference bitmap with same data
func testPair(data []uint32) (*Bitmap, *bitmap.Bitmap) {
	our := New()
	var ref bitmap.Bitmap
	for _, v := range data {
		our.Set(v)
		ref.Set(v)
	}
	return our, &ref
}

// testPairRandom creates bitmaps with 50% of values set randomly
func testPairRandom(data []uint32) (*Bitmap, *bitmap.Bitmap) {
	our := New()
	var ref bitmap.Bitmap
	for _, v := range data {
		if rand.IntN(2) == 0 {
			our.Set(v)
			ref.Set(v)
		}
	}
	return our, &ref
}

// assertEqualBitmaps compares our bitmap with reference bitmap
func assertEqualBitmaps(t *testing.T, our *Bitmap, ref *bitmap.Bitmap) {
	t.Helper()
	assert.Equal(t, ref.Count(), our.Count(), "Count mismatch")

	var ourValues, refValues []uint32
	our.Range(func(x uint32) { ourValues = append(ourValues, x) })
	ref.Range(func(x uint32) { refValues = append(refValues, x) })
	assert.Equal(t, refValues, ourValues, "Range mismatch")
}

// mixed creates a bitmap holding one container of every type
func mixed() *Bitmap {
	rb := New()
	for _, v := range []uint32{1, 5, 10, 100, 500, 1000} {
		rb.Set(v)
	}
	for i := 0; i < 5000; i++ {
		rb.Set(uint32(65536 + i*3))
	}
	rb.SetRange(131072, 131172)
	rb.Set(4294967295)
	return rb
}

// dataBoundary creates values sitting on chunk boundaries
func dataBoundary() fnShape {
	return func() ([]uint32, string) {
		return []uint32{0, 65535, 65536, 131071, 131072, 4294967295}, "bnd"
	}
}

// shapes returns the data shapes used by the property tests
func shapes(size int) []fnShape {
	return []fnShape{
		dataSeq(size, 0),
		dataSeq(size, 60000),
		dataRand(size, uint32(size)*4),
		dataSparse(size),
		dataDense(size),
		dataBoundary(),
	}
}
