package roaring

import "math/bits"

// AndNot removes the values of one or more other bitmaps from the receiver
func (rb *Bitmap) AndNot(other *Bitmap, extra ...*Bitmap) {
	rb.andNot(other)
	for _, b := range extra {
		if rb.IsEmpty() {
			return
		}
		rb.andNot(b)
	}
}

// AndNot returns the values of a that are not in b, leaving both untouched
func AndNot(a, b *Bitmap) *Bitmap {
	return merge(a, b, (*container).andNot, false)
}

// andNot performs AND NOT with a single bitmap in place
func (rb *Bitmap) andNot(other *Bitmap) {
	if other == nil || len(other.index) == 0 || len(rb.index) == 0 {
		return
	}

	rb.mergeInPlace(other, (*container).iandNot, false)
}

// andNot returns the values of the container that are not in the other one
func (c *container) andNot(other *container) *container {
	switch c.Type {
	case typeArray:
		switch other.Type {
		case typeArray:
			return arrAndNotArr(c, other)
		case typeBitmap:
			return arrAndNotBmp(c, other)
		default:
			return arrAndNotRun(c, other)
		}
	case typeBitmap:
		switch other.Type {
		case typeArray:
			return bmpAndNotArr(c, other)
		case typeBitmap:
			return bmpAndNotBmp(c, other)
		default:
			return bmpAndNotRun(c, other)
		}
	default:
		switch other.Type {
		case typeArray:
			return runAndNotArr(c, other)
		case typeBitmap:
			return runAndNotBmp(c, other)
		default:
			return runAndNotRun(c, other)
		}
	}
}

// iandNot removes the values of another container in place, returning the result
func (c *container) iandNot(other *container) *container {
	switch c.Type {
	case typeArray:
		out := c.Data[:0]
		for _, v := range c.Data {
			if !other.contains(v) {
				out = append(out, v)
			}
		}

		c.Data = out
		c.Size = uint32(len(out))
		return c.toEfficient()

	case typeBitmap:
		switch other.Type {
		case typeArray:
			for _, v := range other.Data {
				c.bmpDel(v)
			}
		case typeBitmap:
			c.Bits.AndNot(other.Bits)
			c.Size = uint32(c.Bits.Count())
		default:
			for i := 0; i < len(other.Data); i += 2 {
				bmpClearRange(c.Bits, int(other.Data[i]), int(other.Data[i+1])+1)
			}
			c.Size = uint32(c.Bits.Count())
		}
		return c.toEfficient()

	default:
		return c.andNot(other)
	}
}

// arrAndNotArr computes the difference of two arrays
func arrAndNotArr(c1, c2 *container) *container {
	a, b := c1.Data, c2.Data
	out := make([]uint16, 0, len(a))
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
			j = gallop(b, j, av)
		}
	}

	out = append(out, a[i:]...)
	return newArrayOf(out).toEfficient()
}

// arrAndNotBmp keeps the values of an array missing from a bitmap
func arrAndNotBmp(c1, c2 *container) *container {
	out := make([]uint16, 0, len(c1.Data))
	for _, v := range c1.Data {
		if !c2.Bits.Contains(uint32(v)) {
			out = append(out, v)
		}
	}
	return newArrayOf(out).toEfficient()
}

// arrAndNotRun keeps the values of an array outside of every run
func arrAndNotRun(c1, c2 *container) *container {
	a, runs := c1.Data, c2.Data
	out := make([]uint16, 0, len(a))
	i, j := 0, 0
	for i < len(a) && j < len(runs) {
		switch v := a[i]; {
		case v < runs[j]:
			out = append(out, v)
			i++
		case v > runs[j+1]:
			j += 2
		default:
			i++
		}
	}

	out = append(out, a[i:]...)
	return newArrayOf(out).toEfficient()
}

// bmpAndNotArr clears the values of an array in a copy of a bitmap
func bmpAndNotArr(c1, c2 *container) *container {
	out := c1.clone()
	for _, v := range c2.Data {
		out.bmpDel(v)
	}
	return out.toEfficient()
}

// bmpAndNotBmp computes the difference of two bitmaps, counting the result in
// the same pass
func bmpAndNotBmp(c1, c2 *container) *container {
	out, size := newBitmap(), 0
	for i, w := range c1.Bits {
		out.Bits[i] = w &^ c2.Bits[i]
		size += bits.OnesCount64(out.Bits[i])
	}

	out.Size = uint32(size)
	return out.toEfficient()
}

// bmpAndNotRun clears the runs in a copy of a bitmap
func bmpAndNotRun(c1, c2 *container) *container {
	out := c1.clone()
	for i := 0; i < len(c2.Data); i += 2 {
		bmpClearRange(out.Bits, int(c2.Data[i]), int(c2.Data[i+1])+1)
	}

	out.Size = uint32(out.Bits.Count())
	return out.toEfficient()
}

// runAndNotArr removes the values of an array from a run
func runAndNotArr(c1, c2 *container) *container {
	tmp := borrowArray()
	defer release(tmp)

	return runAndNotRuns(c1.Data, arrRuns(tmp, c2.Data)).toEfficient()
}

// runAndNotBmp removes the values of a bitmap from a run
func runAndNotBmp(c1, c2 *container) *container {
	out := c1.runToBmp()
	out.Bits.AndNot(c2.Bits)
	out.Size = uint32(out.Bits.Count())
	return out.toEfficient()
}

// runAndNotRun computes the difference of two runs
func runAndNotRun(c1, c2 *container) *container {
	return runAndNotRuns(c1.Data, c2.Data).toEfficient()
}

// runAndNotRuns cuts every run of b out of the runs of a
func runAndNotRuns(a, b []uint16) *container {
	out := make([]uint16, 0, len(a)+len(b))
	j := 0
	for i := 0; i < len(a); i += 2 {
		s, l := int(a[i]), int(a[i+1])
		for j < len(b) && int(b[j+1]) < s {
			j += 2
		}

		for k := j; s <= l && k < len(b) && int(b[k]) <= l; k += 2 {
			if int(b[k]) > s {
				out = append(out, uint16(s), b[k]-1)
			}
			s = max(s, int(b[k+1])+1)
		}

		if s <= l {
			out = append(out, uint16(s), uint16(l))
		}
	}

	return newRun(out, uint32(runCardinality(out)))
}
