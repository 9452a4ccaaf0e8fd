// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

import "math/bits"

// Xor performs the symmetric difference of the bitmap with one or more other
// bitmaps and stores the result in the receiver
func (rb *Bitmap) Xor(other *Bitmap, extra ...*Bitmap) {
	rb.xor(other)
	for _, b := range extra {
		rb.xor(b)
	}
}

// Xor returns the symmetric difference of two bitmaps, leaving both untouched
func Xor(a, b *Bitmap) *Bitmap {
	return merge(a, b, (*container).xor, true)
}

// xor performs XOR with a single bitmap in place
func (rb *Bitmap) xor(other *Bitmap) {
	if other == nil || len(other.index) == 0 {
		return
	}

	rb.mergeInPlace(other, (*container).ixor, true)
}

// xor returns the symmetric difference of two containers
func (c *container) xor(other *container) *container {
	switch c.Type {
	case typeArray:
		switch other.Type {
		case typeArray:
			return arrXorArr(c, other)
		case typeBitmap:
			return arrXorBmp(c, other)
		default:
			return arrXorRun(c, other)
		}
	case typeBitmap:
		switch other.Type {
		case typeArray:
			return arrXorBmp(other, c)
		case typeBitmap:
			return bmpXorBmp(c, other)
		default:
			return bmpXorRun(c, other)
		}
	default:
		switch other.Type {
		case typeArray:
			return arrXorRun(other, c)
		case typeBitmap:
			return bmpXorRun(other, c)
		default:
			return runXorRun(c, other)
		}
	}
}

// ixor computes the symmetric difference in place, returning the result
func (c *container) ixor(other *container) *container {
	if c.Type != typeBitmap {
		return c.xor(other)
	}

	switch other.Type {
	case typeArray:
		for _, v := range other.Data {
			if !c.bmpDel(v) {
				c.bmpSet(v)
			}
		}
	case typeBitmap:
		c.Bits.Xor(other.Bits)
		c.Size = uint32(c.Bits.Count())
	default:
		for i := 0; i < len(other.Data); i += 2 {
			bmpFlipRange(c.Bits, int(other.Data[i]), int(other.Data[i+1])+1)
		}
		c.Size = uint32(c.Bits.Count())
	}
	return c.toEfficient()
}

// arrXorArr computes the symmetric difference of two arrays
func arrXorArr(c1, c2 *container) *container {
	a, b := c1.Data, c2.Data
	out := make([]uint16, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch av, bv := a[i], b[j]; {
		case av == bv:
			i++
			j++
		case av < bv:
			out = append(out, av)
			i++
		default:
			out = append(out, bv)
			j++
		}
	}

	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return newArrayOf(out).toEfficient()
}

// arrXorBmp flips the values of an array in a copy of a bitmap
func arrXorBmp(c1, c2 *container) *container {
	out := c2.clone()
	for _, v := range c1.Data {
		if !out.bmpDel(v) {
			out.bmpSet(v)
		}
	}
	return out.toEfficient()
}

// arrXorRun computes the symmetric difference of an array and a run
func arrXorRun(c1, c2 *container) *container {
	tmp := borrowArray()
	defer release(tmp)

	return runXorRuns(c2.Data, arrRuns(tmp, c1.Data)).toEfficient()
}

// bmpXorBmp computes the symmetric difference of two bitmaps, counting the
// result in the same pass
func bmpXorBmp(c1, c2 *container) *container {
	out, size := newBitmap(), 0
	for i, w := range c1.Bits {
		out.Bits[i] = w ^ c2.Bits[i]
		size += bits.OnesCount64(out.Bits[i])
	}

	out.Size = uint32(size)
	return out.toEfficient()
}

// bmpXorRun flips the runs in a copy of a bitmap
func bmpXorRun(c1, c2 *container) *container {
	out := c1.clone()
	for i := 0; i < len(c2.Data); i += 2 {
		bmpFlipRange(out.Bits, int(c2.Data[i]), int(c2.Data[i+1])+1)
	}

	out.Size = uint32(out.Bits.Count())
	return out.toEfficient()
}

// runXorRun computes the symmetric difference of two runs
func runXorRun(c1, c2 *container) *container {
	return runXorRuns(c1.Data, c2.Data).toEfficient()
}

// runXorRuns merges the half-open boundaries of both run lists. A boundary
// shared by both lists cancels out, the remaining ones pair up into runs.
func runXorRuns(a, b []uint16) *container {
	out := make([]uint16, 0, len(a)+len(b))
	size, open, started := 0, 0, false
	toggle := func(p int) {
		if !started {
			open, started = p, true
			return
		}

		out = append(out, uint16(open), uint16(p-1))
		size += p - open
		started = false
	}

	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b):
			toggle(boundary(a, i))
			i++
		case i >= len(a):
			toggle(boundary(b, j))
			j++
		case boundary(a, i) < boundary(b, j):
			toggle(boundary(a, i))
			i++
		case boundary(a, i) > boundary(b, j):
			toggle(boundary(b, j))
			j++
		default:
			i++
			j++
		}
	}

	return newRun(out, uint32(size))
}

// boundary returns the k-th half-open boundary of a run list, which is either a
// start or one past a last
func boundary(runs []uint16, k int) int {
	if k&1 == 0 {
		return int(runs[k])
	}
	return int(runs[k]) + 1
}
