// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

import "math/bits"

// And performs the intersection of the bitmap with one or more other bitmaps
// and stores the result in the receiver
func (rb *Bitmap) And(other *Bitmap, extra ...*Bitmap) {
	rb.and(other)
	for _, b := range extra {
		if rb.IsEmpty() {
			return
		}
		rb.and(b)
	}
}

// And returns the intersection of two bitmaps, leaving both untouched
func And(a, b *Bitmap) *Bitmap {
	out := New()
	if a == nil || b == nil {
		return out
	}

	for i, j := 0, 0; i < len(a.index) && j < len(b.index); {
		switch k1, k2 := a.index[i], b.index[j]; {
		case k1 < k2:
			i = advanceKey(a.index, i, k2)
		case k1 > k2:
			j = advanceKey(b.index, j, k1)
		default:
			if c := a.containers[i].and(b.containers[j]); !c.isEmpty() {
				out.index = append(out.index, k1)
				out.containers = append(out.containers, c)
			}
			i++
			j++
		}
	}
	return out
}

// and performs AND with a single bitmap in place
func (rb *Bitmap) and(other *Bitmap) {
	if other == nil || len(other.index) == 0 {
		rb.Clear()
		return
	}

	n := 0
	for i, hi := range rb.index {
		idx, exists := find16(other.index, hi)
		if !exists {
			continue
		}

		c := rb.containers[i].fork().iand(other.containers[idx])
		if c.isEmpty() {
			continue
		}

		rb.index[n] = hi
		rb.containers[n] = c
		n++
	}
	rb.truncate(n)
}

// advanceKey returns the first position after pos whose key is >= target
func advanceKey(index []uint16, pos int, target uint16) int {
	return gallop(index, pos+1, target)
}

// and returns the intersection of two containers
func (c *container) and(other *container) *container {
	switch c.Type {
	case typeArray:
		switch other.Type {
		case typeArray:
			return arrAndArr(c, other)
		case typeBitmap:
			return arrAndBmp(c, other)
		default:
			return arrAndRun(c, other)
		}
	case typeBitmap:
		switch other.Type {
		case typeArray:
			return arrAndBmp(other, c)
		case typeBitmap:
			return bmpAndBmp(c, other)
		default:
			return bmpAndRun(c, other)
		}
	default:
		switch other.Type {
		case typeArray:
			return arrAndRun(other, c)
		case typeBitmap:
			return bmpAndRun(other, c)
		default:
			return runAndRun(c, other)
		}
	}
}

// iand intersects the container with another in place, returning the result
func (c *container) iand(other *container) *container {
	switch {
	case c.Type == typeArray && other.Type == typeArray && len(c.Data) <= len(other.Data)*64:
		a, b := c.Data, other.Data
		i, j, k := 0, 0, 0
		for i < len(a) && j < len(b) {
			switch av, bv := a[i], b[j]; {
			case av == bv:
				a[k] = av
				k++
				i++
				j++
			case av < bv:
				i++
			default:
				j++
			}
		}

		c.Data = a[:k]
		c.Size = uint32(k)
		return c.toEfficient()

	case c.Type == typeArray && other.Type == typeBitmap:
		out := c.Data[:0]
		for _, v := range c.Data {
			if other.Bits.Contains(uint32(v)) {
				out = append(out, v)
			}
		}

		c.Data = out
		c.Size = uint32(len(out))
		return c.toEfficient()

	case c.Type == typeBitmap && other.Type == typeBitmap:
		c.Bits.And(other.Bits)
		c.Size = uint32(c.Bits.Count())
		return c.toEfficient()

	default:
		return c.and(other)
	}
}

// arrAndArr intersects two arrays, galloping through the larger one when the
// sizes are very different
func arrAndArr(c1, c2 *container) *container {
	a, b := c1.Data, c2.Data
	if len(a) > len(b) {
		a, b = b, a
	}

	out := make([]uint16, 0, len(a))
	switch {
	case len(a)*64 < len(b):
		j := 0
		for _, v := range a {
			if j = gallop(b, j, v); j == len(b) {
				break
			}
			if b[j] == v {
				out = append(out, v)
				j++
			}
		}
	default:
		for i, j := 0, 0; i < len(a) && j < len(b); {
			switch av, bv := a[i], b[j]; {
			case av == bv:
				out = append(out, av)
				i++
				j++
			case av < bv:
				i++
			default:
				j++
			}
		}
	}

	return newArrayOf(out).toEfficient()
}

// arrAndBmp intersects an array with a bitmap
func arrAndBmp(c1, c2 *container) *container {
	out := make([]uint16, 0, len(c1.Data))
	for _, v := range c1.Data {
		if c2.Bits.Contains(uint32(v)) {
			out = append(out, v)
		}
	}
	return newArrayOf(out).toEfficient()
}

// arrAndRun intersects an array with a run
func arrAndRun(c1, c2 *container) *container {
	a, runs := c1.Data, c2.Data
	out := make([]uint16, 0, len(a))
	for i, j := 0, 0; i < len(a) && j < len(runs); {
		switch v := a[i]; {
		case v < runs[j]:
			i++
		case v > runs[j+1]:
			j += 2
		default:
			out = append(out, v)
			i++
		}
	}
	return newArrayOf(out).toEfficient()
}

// bmpAndBmp intersects two bitmaps, counting the result in the same pass
func bmpAndBmp(c1, c2 *container) *container {
	out, size := newBitmap(), 0
	for i, w := range c1.Bits {
		out.Bits[i] = w & c2.Bits[i]
		size += bits.OnesCount64(out.Bits[i])
	}

	out.Size = uint32(size)
	return out.toEfficient()
}

// bmpAndRun intersects a bitmap with a run
func bmpAndRun(c1, c2 *container) *container {
	if c2.isFull() {
		return c1.clone().toEfficient()
	}

	out := newBitmap()
	for i := 0; i < len(c2.Data); i += 2 {
		first, last, lo, hi := rangeMasks(int(c2.Data[i]), int(c2.Data[i+1])+1)
		if first == last {
			out.Bits[first] |= c1.Bits[first] & lo & hi
			continue
		}

		out.Bits[first] |= c1.Bits[first] & lo
		copy(out.Bits[first+1:last], c1.Bits[first+1:last])
		out.Bits[last] |= c1.Bits[last] & hi
	}

	out.Size = uint32(out.Bits.Count())
	return out.toEfficient()
}

// runAndRun intersects two runs with a two-pointer sweep
func runAndRun(c1, c2 *container) *container {
	a, b := c1.Data, c2.Data
	out := make([]uint16, 0, len(a)+len(b))
	size := 0
	for i, j := 0, 0; i < len(a) && j < len(b); {
		s, e := max(a[i], b[j]), min(a[i+1], b[j+1])
		if s <= e {
			out = append(out, s, e)
			size += int(e-s) + 1
		}

		if a[i+1] < b[j+1] {
			i += 2
		} else {
			j += 2
		}
	}

	return newRun(out, uint32(size)).toEfficient()
}
