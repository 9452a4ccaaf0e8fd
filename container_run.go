package roaring

import "sort"

// runFind returns the index of the run holding the value, or the index at which
// a run holding it would be inserted
func (c *container) runFind(value uint16) (int, bool) {
	n := len(c.Data) >> 1
	switch {
	case n == 0 || value < c.Data[0]:
		return 0, false
	case value > c.Data[(n-1)*2+1]:
		return n, false
	}

	// binary phase: shrink window to ≤4 runs
	lo, hi := 0, n
	for hi-lo > 4 {
		mid := (lo + hi) >> 1
		if value < c.Data[mid*2] {
			hi = mid
			continue
		}
		if value <= c.Data[mid*2+1] {
			return mid, true
		}
		lo = mid + 1
	}

	// linear phase inside one cache line
	for i := lo; i < hi; i++ {
		switch {
		case value < c.Data[i*2]:
			return i, false
		case value <= c.Data[i*2+1]:
			return i, true
		}
	}
	return hi, false
}

// runHas checks if a value exists in a run container
func (c *container) runHas(value uint16) bool {
	_, found := c.runFind(value)
	return found
}

// runSet sets a value in a run container
func (c *container) runSet(value uint16) bool {
	idx, found := c.runFind(value)
	if found {
		return false
	}

	n := len(c.Data) / 2
	mergeLeft := idx > 0 && int(c.Data[(idx-1)*2+1])+1 == int(value)
	mergeRight := idx < n && int(c.Data[idx*2]) == int(value)+1

	switch {
	case mergeLeft && mergeRight:
		c.Data[(idx-1)*2+1] = c.Data[idx*2+1]
		c.runRemoveRunAt(idx)
	case mergeLeft:
		c.Data[(idx-1)*2+1] = value
	case mergeRight:
		c.Data[idx*2] = value
	default:
		c.runInsertRunAt(idx, value, value)
	}

	c.Size++
	return true
}

// runDel removes a value from a run container
func (c *container) runDel(value uint16) bool {
	idx, found := c.runFind(value)
	if !found {
		return false
	}

	start, last := c.Data[idx*2], c.Data[idx*2+1]
	switch {
	case start == last:
		c.runRemoveRunAt(idx)
	case value == start:
		c.Data[idx*2] = value + 1
	case value == last:
		c.Data[idx*2+1] = value - 1
	default:
		c.Data[idx*2+1] = value - 1
		c.runInsertRunAt(idx+1, value+1, last)
	}

	c.Size--
	return true
}

// runInsertRunAt inserts a new run at the specified index
func (c *container) runInsertRunAt(index int, start, last uint16) {
	n := len(c.Data) / 2
	size := (n + 1) * 2

	if cap(c.Data) >= size {
		c.Data = c.Data[:size]
		copy(c.Data[(index+1)*2:], c.Data[index*2:n*2])
	} else {
		grown := make([]uint16, size, size+2*max(8, n/2))
		copy(grown, c.Data[:index*2])
		copy(grown[(index+1)*2:], c.Data[index*2:])
		c.Data = grown
	}

	c.Data[index*2] = start
	c.Data[index*2+1] = last
}

// runRemoveRunAt removes the run at the specified index
func (c *container) runRemoveRunAt(index int) {
	copy(c.Data[index*2:], c.Data[(index+1)*2:])
	c.Data = c.Data[:len(c.Data)-2]
}

// runCardinality sums the lengths of all runs
func runCardinality(runs []uint16) int {
	size := 0
	for i := 0; i < len(runs); i += 2 {
		size += int(runs[i+1]-runs[i]) + 1
	}
	return size
}

// runTryShrink converts a run container to an array or a bitmap once its runs
// take more room than either of them would
func (c *container) runTryShrink() *container {
	card := int(c.Size)
	if runSizeInBytes(len(c.Data)/2) <= min(arraySizeInBytes(card), bitmapSizeInBytes) {
		return c
	}

	if card <= arrMaxSize {
		return c.runToArr()
	}
	return c.runToBmp()
}

// runAddRange merges [start, end) into the runs of the container
func (c *container) runAddRange(start, end int) {
	runs, n := c.Data, len(c.Data)/2

	// first run that touches or follows the range
	i := sort.Search(n, func(i int) bool { return int(runs[i*2+1])+1 >= start })
	lo, hi := start, end-1

	j := i
	for ; j < n && int(runs[j*2]) <= end; j++ {
		lo = min(lo, int(runs[j*2]))
		hi = max(hi, int(runs[j*2+1]))
	}

	out := make([]uint16, 0, len(runs)-2*(j-i)+2)
	out = append(out, runs[:i*2]...)
	out = append(out, uint16(lo), uint16(hi))
	out = append(out, runs[j*2:]...)

	c.Data = out
	c.Size = uint32(runCardinality(out))
}

// runRemoveRange cuts [start, end) out of the runs of the container
func (c *container) runRemoveRange(start, end int) {
	last := end - 1
	out := make([]uint16, 0, len(c.Data)+2)
	for i := 0; i < len(c.Data); i += 2 {
		s, l := int(c.Data[i]), int(c.Data[i+1])
		if l < start || s > last {
			out = append(out, uint16(s), uint16(l))
			continue
		}

		if s < start {
			out = append(out, uint16(s), uint16(start-1))
		}
		if l > last {
			out = append(out, uint16(last+1), uint16(l))
		}
	}

	c.Data = out
	c.Size = uint32(runCardinality(out))
}

// runCountRange counts the values of the container within [start, end)
func (c *container) runCountRange(start, end int) int {
	count := 0
	for i := 0; i < len(c.Data); i += 2 {
		s, l := int(c.Data[i]), int(c.Data[i+1])+1
		if s >= end {
			break
		}

		if lo, hi := max(s, start), min(l, end); lo < hi {
			count += hi - lo
		}
	}
	return count
}

// runRank returns the number of values smaller or equal to the given value
func (c *container) runRank(value uint16) int {
	idx, found := c.runFind(value)
	rank := runCardinality(c.Data[:idx*2])
	if found {
		rank += int(value-c.Data[idx*2]) + 1
	}
	return rank
}

// runSelect returns the i-th smallest value of the container
func (c *container) runSelect(i int) uint16 {
	for r := 0; r < len(c.Data); r += 2 {
		length := int(c.Data[r+1]-c.Data[r]) + 1
		if i < length {
			return c.Data[r] + uint16(i)
		}
		i -= length
	}
	panic("roaring: select beyond run cardinality")
}

// runToArr converts this container from run to array
func (c *container) runToArr() *container {
	out := make([]uint16, 0, c.Size)
	for i := 0; i < len(c.Data); i += 2 {
		for v := int(c.Data[i]); v <= int(c.Data[i+1]); v++ {
			out = append(out, uint16(v))
		}
	}
	return newArrayOf(out)
}

// runToBmp converts this container from run to bitmap
func (c *container) runToBmp() *container {
	out := newBitmap()
	for i := 0; i < len(c.Data); i += 2 {
		bmpSetRange(out.Bits, int(c.Data[i]), int(c.Data[i+1])+1)
	}

	out.Size = c.Size
	return out
}
