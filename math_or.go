// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

import "math/bits"

// Or performs the union of the bitmap with one or more other bitmaps and
// stores the result in the receiver
func (rb *Bitmap) Or(other *Bitmap, extra ...*Bitmap) {
	rb.or(other)
	for _, b := range extra {
		rb.or(b)
	}
}

// Or returns the union of two bitmaps, leaving both untouched
func Or(a, b *Bitmap) *Bitmap {
	return merge(a, b, (*container).or, true)
}

// or performs OR with a single bitmap in place
func (rb *Bitmap) or(other *Bitmap) {
	if other == nil || len(other.index) == 0 {
		return
	}

	rb.mergeInPlace(other, (*container).ior, true)
}

// merge walks the keys of two bitmaps and builds a new bitmap. Containers that
// exist in both go through fn, while those present on only one side are cloned
// into the result when keep is set.
func merge(a, b *Bitmap, fn func(c, other *container) *container, keep bool) *Bitmap {
	if a == nil {
		a = New()
	}
	if b == nil {
		b = New()
	}

	out := &Bitmap{
		index:      make([]uint16, 0, len(a.index)+len(b.index)),
		containers: make([]*container, 0, len(a.index)+len(b.index)),
	}

	i, j := 0, 0
	for i < len(a.index) && j < len(b.index) {
		switch k1, k2 := a.index[i], b.index[j]; {
		case k1 < k2:
			out.push(k1, a.containers[i].clone())
			i++
		case k1 > k2:
			if keep {
				out.push(k2, b.containers[j].clone())
			}
			j++
		default:
			out.push(k1, fn(a.containers[i], b.containers[j]))
			i++
			j++
		}
	}

	for ; i < len(a.index); i++ {
		out.push(a.index[i], a.containers[i].clone())
	}
	for ; keep && j < len(b.index); j++ {
		out.push(b.index[j], b.containers[j].clone())
	}
	return out
}

// mergeInPlace combines another bitmap into the receiver. Containers present in
// both go through fn, those only in other are cloned in when keep is set.
func (rb *Bitmap) mergeInPlace(other *Bitmap, fn func(c, other *container) *container, keep bool) {
	index := make([]uint16, 0, len(rb.index)+len(other.index))
	containers := make([]*container, 0, len(rb.index)+len(other.index))
	push := func(hi uint16, c *container) {
		if !c.isEmpty() {
			index = append(index, hi)
			containers = append(containers, c)
		}
	}

	i, j := 0, 0
	for i < len(rb.index) && j < len(other.index) {
		switch k1, k2 := rb.index[i], other.index[j]; {
		case k1 < k2:
			push(k1, rb.containers[i])
			i++
		case k1 > k2:
			if keep {
				push(k2, other.containers[j].clone())
			}
			j++
		default:
			push(k1, fn(rb.containers[i].fork(), other.containers[j]))
			i++
			j++
		}
	}

	for ; i < len(rb.index); i++ {
		push(rb.index[i], rb.containers[i])
	}
	for ; keep && j < len(other.index); j++ {
		push(other.index[j], other.containers[j].clone())
	}

	rb.index = index
	rb.containers = containers
}

// or returns the union of two containers
func (c *container) or(other *container) *container {
	switch c.Type {
	case typeArray:
		switch other.Type {
		case typeArray:
			return arrOrArr(c, other)
		case typeBitmap:
			return arrOrBmp(c, other)
		default:
			return arrOrRun(c, other)
		}
	case typeBitmap:
		switch other.Type {
		case typeArray:
			return arrOrBmp(other, c)
		case typeBitmap:
			return bmpOrBmp(c, other)
		default:
			return bmpOrRun(c, other)
		}
	default:
		switch other.Type {
		case typeArray:
			return arrOrRun(other, c)
		case typeBitmap:
			return bmpOrRun(other, c)
		default:
			return runOrRun(c, other).toEfficient()
		}
	}
}

// ior unions the container with another in place, returning the result
func (c *container) ior(other *container) *container {
	if c.Type != typeBitmap {
		return c.or(other)
	}

	switch other.Type {
	case typeArray:
		for _, v := range other.Data {
			c.bmpSet(v)
		}
	case typeBitmap:
		c.Bits.Or(other.Bits)
		c.Size = uint32(c.Bits.Count())
	default:
		for i := 0; i < len(other.Data); i += 2 {
			bmpSetRange(c.Bits, int(other.Data[i]), int(other.Data[i+1])+1)
		}
		c.Size = uint32(c.Bits.Count())
	}
	return c.toEfficient()
}

// lazyOr returns the union of two containers, leaving the cardinality of a
// bitmap result uncomputed and skipping the representation choice. The result
// must go through repairAfterLazy before being used elsewhere.
func (c *container) lazyOr(other *container) *container {
	switch {
	case c.Type == typeBitmap:
		return c.clone().lazyIOr(other)
	case other.Type == typeBitmap:
		return other.clone().lazyIOr(c)
	case c.Type == typeRun && other.Type == typeRun:
		return runOrRun(c, other)
	case c.Type == typeRun:
		return runOrArr(c, other)
	case other.Type == typeRun:
		return runOrArr(other, c)
	case len(c.Data)+len(other.Data) <= arrMaxSize:
		return newArrayOf(mergeArrays(c.Data, other.Data))
	default:
		return c.arrToBmp().lazyIOr(other)
	}
}

// lazyIOr unions another container into a bitmap receiver without counting.
// Receivers that are not bitmaps fall back to lazyOr.
func (c *container) lazyIOr(other *container) *container {
	if c.Type != typeBitmap {
		return c.lazyOr(other)
	}

	switch other.Type {
	case typeArray:
		for _, v := range other.Data {
			c.Bits[v>>6] |= 1 << (v & 63)
		}
	case typeBitmap:
		c.Bits.Or(other.Bits)
	default:
		for i := 0; i < len(other.Data); i += 2 {
			bmpSetRange(c.Bits, int(other.Data[i]), int(other.Data[i+1])+1)
		}
	}

	c.Dirty = true
	return c
}

// mergeArrays returns the sorted union of two sorted arrays
func mergeArrays(a, b []uint16) []uint16 {
	out := make([]uint16, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch av, bv := a[i], b[j]; {
		case av == bv:
			out = append(out, av)
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
	return append(out, b[j:]...)
}

// arrOrArr unions two arrays, going straight to a bitmap when the combined
// size cannot fit an array
func arrOrArr(c1, c2 *container) *container {
	if len(c1.Data)+len(c2.Data) <= arrMaxSize {
		return newArrayOf(mergeArrays(c1.Data, c2.Data)).toEfficient()
	}

	out := c1.arrToBmp()
	for _, v := range c2.Data {
		out.bmpSet(v)
	}
	return out.toEfficient()
}

// arrOrBmp unions an array into a copy of a bitmap
func arrOrBmp(c1, c2 *container) *container {
	out := c2.clone()
	for _, v := range c1.Data {
		out.bmpSet(v)
	}
	return out.toEfficient()
}

// arrOrRun unions an array with a run
func arrOrRun(c1, c2 *container) *container {
	if c2.isFull() {
		return c2.clone()
	}
	return runOrArr(c2, c1).toEfficient()
}

// runOrArr unions a run with an array, converting the array into runs on a
// pooled scratch buffer. The result is not optimized.
func runOrArr(r, a *container) *container {
	tmp := borrowArray()
	defer release(tmp)

	runs := arrRuns(tmp, a.Data)
	return runOrRuns(r.Data, runs)
}

// bmpOrBmp unions two bitmaps, counting the result in the same pass
func bmpOrBmp(c1, c2 *container) *container {
	out, size := newBitmap(), 0
	for i, w := range c1.Bits {
		out.Bits[i] = w | c2.Bits[i]
		size += bits.OnesCount64(out.Bits[i])
	}

	out.Size = uint32(size)
	return out.toEfficient()
}

// bmpOrRun unions a bitmap with a run
func bmpOrRun(c1, c2 *container) *container {
	if c2.isFull() {
		return c2.clone()
	}

	out := c1.clone()
	for i := 0; i < len(c2.Data); i += 2 {
		bmpSetRange(out.Bits, int(c2.Data[i]), int(c2.Data[i+1])+1)
	}

	out.Size = uint32(out.Bits.Count())
	return out.toEfficient()
}

// runOrRun unions two runs. The result is not optimized.
func runOrRun(c1, c2 *container) *container {
	switch {
	case c1.isFull():
		return c1.clone()
	case c2.isFull():
		return c2.clone()
	}
	return runOrRuns(c1.Data, c2.Data)
}

// runOrRuns merges two sorted lists of runs by start, coalescing overlapping
// and adjacent ones
func runOrRuns(a, b []uint16) *container {
	out := make([]uint16, 0, len(a)+len(b))
	push := func(s, l uint16) {
		n := len(out)
		if n > 0 && int(s) <= int(out[n-1])+1 {
			out[n-1] = max(out[n-1], l)
			return
		}
		out = append(out, s, l)
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			push(a[i], a[i+1])
			i += 2
		} else {
			push(b[j], b[j+1])
			j += 2
		}
	}

	for ; i < len(a); i += 2 {
		push(a[i], a[i+1])
	}
	for ; j < len(b); j += 2 {
		push(b[j], b[j+1])
	}
	return newRun(out, uint32(runCardinality(out)))
}
