package roaring

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/kelindar/bitmap"
	"github.com/stretchr/testify/assert"
)

func TestBasicOperations(t *testing.T) {
	rb := New()

	// Test empty bitmap
	assert.Equal(t, 0, rb.Count())
	assert.True(t, rb.IsEmpty())
	assert.False(t, rb.Contains(42))

	// Test basic Set and Contains
	rb.Set(1)
	rb.Set(100)
	rb.Set(65536) // Different container

	assert.True(t, rb.Contains(1))
	assert.True(t, rb.Contains(100))
	assert.True(t, rb.Contains(65536))
	assert.False(t, rb.Contains(2))
	assert.Equal(t, 3, rb.Count())

	// Test Remove
	rb.Remove(100)
	assert.False(t, rb.Contains(100))
	assert.Equal(t, 2, rb.Count())

	// Test Clear
	rb.Clear()
	assert.Equal(t, 0, rb.Count())
	assert.False(t, rb.Contains(1))
}

func TestNilBitmap(t *testing.T) {
	var rb *Bitmap
	assert.Equal(t, 0, rb.Count())
	assert.True(t, rb.IsEmpty())
	assert.True(t, rb.Equals(New()))
}

func TestCheckedOperations(t *testing.T) {
	rb := New()
	assert.True(t, rb.CheckedSet(7))
	assert.False(t, rb.CheckedSet(7))
	assert.True(t, rb.CheckedRemove(7))
	assert.False(t, rb.CheckedRemove(7))
	assert.False(t, rb.CheckedRemove(1<<20))
	assert.Empty(t, rb.index, "empty containers must be dropped")
}

func TestTransitions(t *testing.T) {
	const count = 60000

	t.Run("array -> bitmap -> array", func(t *testing.T) {
		const evens = 30000

		rb := New()
		for i := 0; i < evens; i++ {
			rb.Set(uint32(i * 2))
		}
		assert.Equal(t, evens, rb.Count())
		assert.Equal(t, typeBitmap, rb.containers[0].Type)

		for i := 0; i < evens; i++ {
			rb.Remove(uint32(i * 2))
			assert.False(t, rb.Contains(uint32(i*2)))
			if i == evens-arrMaxSize {
				assert.Equal(t, typeArray, rb.containers[0].Type)
			}
		}
		assert.Equal(t, 0, rb.Count())
		assert.True(t, rb.IsEmpty())
	})

	t.Run("bitmap -> run -> bitmap", func(t *testing.T) {
		rb := New()
		for i := 0; i < count; i++ {
			rb.Set(uint32(i))
		}

		rb.Optimize()
		assert.True(t, rb.HasRunCompression())
		assert.Equal(t, count, rb.Count())

		for i := 0; i < count; i++ {
			rb.Remove(uint32(i))
			assert.False(t, rb.Contains(uint32(i)))
		}
		assert.Equal(t, 0, rb.Count())
	})

	t.Run("array -> run", func(t *testing.T) {
		rb := New()
		for i := 0; i < 500; i++ {
			rb.Set(uint32(i))
		}
		assert.False(t, rb.HasRunCompression())

		rb.Optimize()
		assert.Equal(t, typeRun, rb.containers[0].Type)
		assert.Equal(t, 500, rb.Count())
	})
}

func TestCardinalityOfRanges(t *testing.T) {
	rb := New()
	assert.NoError(t, rb.SetRange(10, 100000))
	expect := 100000 - 10

	for k := 100000; k < 200000; k += 2 {
		rb.Set(uint32(k))
		expect++
	}

	for k := 200000; k < 19*100000; k += 100000 {
		rb.Set(uint32(k))
		expect++
	}

	assert.Equal(t, expect, rb.Count())
	assertValid(t, rb)

	rb.Optimize()
	assert.Equal(t, expect, rb.Count())
	assert.Equal(t, expect, len(rb.ToArray()))
}

func TestRandomOperations(t *testing.T) {
	rb := New()
	var ref bitmap.Bitmap

	for i := 0; i < 1e5; i++ {
		value := uint32(rand.IntN(200000))
		switch rand.IntN(4) {
		case 0, 1:
			assert.Equal(t, !ref.Contains(value), rb.CheckedSet(value))
			ref.Set(value)
		case 2:
			assert.Equal(t, ref.Contains(value), rb.CheckedRemove(value))
			ref.Remove(value)
		case 3:
			if i%1000 == 0 {
				rb.Optimize()
			}
		}
	}

	assertEqualBitmaps(t, rb, &ref)
	assertValid(t, rb)
}

func TestEdgeCases(t *testing.T) {
	rb := New()

	// Test boundary values
	rb.Set(0)          // Minimum value
	rb.Set(65535)      // Container boundary
	rb.Set(65536)      // Next container
	rb.Set(4294967295) // Maximum uint32

	assert.True(t, rb.Contains(0))
	assert.True(t, rb.Contains(65535))
	assert.True(t, rb.Contains(65536))
	assert.True(t, rb.Contains(4294967295))
	assert.Equal(t, 4, rb.Count())

	// Test duplicate sets (should not increase count)
	rb.Set(0)
	assert.Equal(t, 4, rb.Count())

	// Test removing non-existent value
	rb.Remove(12345)
	assert.Equal(t, 4, rb.Count())
}

func TestRunOperations(t *testing.T) {
	rb := New()
	assert.NoError(t, rb.SetRange(1000, 1011))
	assert.Equal(t, typeRun, rb.containers[0].Type)
	assert.Equal(t, 11, rb.Count())

	// Extend the run on both sides
	rb.Set(999)
	rb.Set(1011)
	assert.Equal(t, 13, rb.Count())
	assert.Equal(t, 1, rb.containers[0].numberOfRuns())

	// Split the run by removing a middle value
	rb.Remove(1005)
	assert.Equal(t, 12, rb.Count())
	assert.False(t, rb.Contains(1005))
	assert.True(t, rb.Contains(1004))
	assert.True(t, rb.Contains(1006))
	assertValid(t, rb)
}

func TestRankSelect(t *testing.T) {
	rb := mixed()
	values := rb.ToArray()
	for i, v := range values {
		assert.Equal(t, i+1, rb.Rank(v))

		got, err := rb.Select(i)
		assert.NoError(t, err)
		assert.Equal(t, v, got)
	}

	assert.Equal(t, 0, rb.Rank(0))
	assert.Equal(t, 1, rb.Rank(4))
	assert.Equal(t, len(values), rb.Rank(4294967295))

	_, err := rb.Select(len(values))
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = rb.Select(-1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
}

func TestFirstLast(t *testing.T) {
	rb := mixed()
	first, err := rb.First()
	assert.NoError(t, err)
	assert.Equal(t, uint32(1), first)

	last, err := rb.Last()
	assert.NoError(t, err)
	assert.Equal(t, uint32(4294967295), last)

	empty := New()
	_, err = empty.First()
	assert.True(t, errors.Is(err, ErrEmptyContainer))
	_, err = empty.Last()
	assert.True(t, errors.Is(err, ErrEmptyContainer))
	_, err = empty.Select(0)
	assert.True(t, errors.Is(err, ErrEmptyContainer))
}

func TestClone(t *testing.T) {
	rb := mixed()
	clone := rb.Clone(nil)
	assert.True(t, rb.Equals(clone))

	clone.Set(2)
	clone.Remove(5)
	assert.NoError(t, clone.RemoveRange(131072, 131100))
	assert.True(t, rb.Contains(5))
	assert.False(t, rb.Contains(2))
	assert.True(t, rb.Contains(131080))
	assert.False(t, rb.Equals(clone))

	// Cloning into an existing bitmap replaces its content
	into := BitmapOf(7, 8, 9)
	assert.Same(t, into, rb.Clone(into))
	assert.True(t, rb.Equals(into))
}

func TestEqualsAcrossTypes(t *testing.T) {
	for _, t1 := range allTypes {
		for _, t2 := range allTypes {
			a, _ := bitmapWith(containerOf(t1, spanOf(100, 200)...))
			b, _ := bitmapWith(containerOf(t2, spanOf(100, 200)...))
			assert.True(t, a.Equals(b))

			b.Set(500)
			assert.False(t, a.Equals(b))
		}
	}
}

func TestStats(t *testing.T) {
	rb := mixed()
	rb.Optimize()

	stats := rb.Stats()
	assert.Equal(t, rb.Count(), stats.Cardinality)
	assert.Equal(t, 4, stats.Containers)
	assert.Equal(t, 2, stats.ArrayContainers)
	assert.Equal(t, 1, stats.BitmapContainers)
	assert.Equal(t, 1, stats.RunContainers)
	assert.Equal(t, 7, stats.ArrayValues)
	assert.Equal(t, 5000, stats.BitmapValues)
	assert.Equal(t, 100, stats.RunValues)
	assert.Equal(t, 1, stats.Runs)
	assert.Equal(t, len(rb.ToBytes()), stats.SerializedBytes)
}

func TestString(t *testing.T) {
	assert.Equal(t, "{}", New().String())
	assert.Equal(t, "{1,2,65536}", BitmapOf(1, 2, 65536).String())

	rb := New()
	assert.NoError(t, rb.SetRange(0, 100))
	assert.Equal(t, "{0,1,2,3,4,5,6,7,8,9,10,11,12,13,14,15 ...(84 more)}", rb.String())
}

func TestOptimizeNeverGrows(t *testing.T) {
	dense := New()
	_ = dense.SetRange(0, 300000)
	_ = dense.SetRange(1<<20, 1<<20+5000)

	sparse := New()
	for i := 0; i < 20000; i++ {
		sparse.Set(uint32(rand.IntN(1 << 26)))
	}

	flipped := New()
	for i := uint32(0); i < 200000; i += 3 {
		flipped.Set(i)
	}
	_ = flipped.Flip(1000, 150000)
	_ = flipped.Flip(70000, 70010)

	ranges := New()
	for i := uint64(0); i < 40; i++ {
		_ = ranges.SetRange(i<<16+10, i<<16+110)
	}

	// Every container is a tie between an array and a single run
	ties := New()
	for i := uint32(0); i < 40; i++ {
		ties.Set(i<<16 + 1)
		ties.Set(i<<16 + 2)
		ties.Set(i<<16 + 3)
	}

	tc := map[string]*Bitmap{
		"empty":   New(),
		"mixed":   mixed(),
		"dense":   dense,
		"sparse":  sparse,
		"flipped": flipped,
		"ranges":  ranges,
		"ties":    ties,
	}

	for name, rb := range tc {
		t.Run(name, func(t *testing.T) {
			original := rb.Clone(nil)
			before := rb.SerializedSizeInBytes()

			rb.Optimize()
			assert.LessOrEqual(t, rb.SerializedSizeInBytes(), before)
			assert.Equal(t, uint64(len(rb.ToBytes())), rb.SerializedSizeInBytes())
			assert.True(t, original.Equals(rb))
			assertValid(t, rb)

			// A second pass changes nothing
			size := rb.SerializedSizeInBytes()
			rb.Optimize()
			assert.Equal(t, size, rb.SerializedSizeInBytes())
		})
	}

	assert.True(t, ranges.HasRunCompression())
	assert.False(t, ties.HasRunCompression())
}
