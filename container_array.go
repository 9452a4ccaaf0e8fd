package roaring

// arrHas checks if a value exists in an array container
func (c *container) arrHas(value uint16) bool {
	_, found := find16(c.Data, value)
	return found
}

// arrSet sets a value in an array container
func (c *container) arrSet(value uint16) bool {
	idx, found := find16(c.Data, value)
	if found {
		return false
	}

	c.Data = append(c.Data, 0)
	copy(c.Data[idx+1:], c.Data[idx:])
	c.Data[idx] = value
	c.Size++
	return true
}

// arrDel removes a value from an array container
func (c *container) arrDel(value uint16) bool {
	idx, found := find16(c.Data, value)
	if !found {
		return false
	}

	copy(c.Data[idx:], c.Data[idx+1:])
	c.Data = c.Data[:len(c.Data)-1]
	c.Size--
	return true
}

// arrLowerBound returns the index of the first value >= v, where v may be 65536
func arrLowerBound(array []uint16, v int) int {
	switch {
	case v <= 0:
		return 0
	case v >= maxCapacity:
		return len(array)
	default:
		idx, _ := find16(array, uint16(v))
		return idx
	}
}

// arrAddRange inserts [start, end) into an array container, switching to a
// bitmap if the result no longer fits an array
func (c *container) arrAddRange(start, end int) *container {
	lo, hi := arrLowerBound(c.Data, start), arrLowerBound(c.Data, end)
	size := len(c.Data) - (hi - lo) + (end - start)
	if size > arrMaxSize {
		out := c.arrToBmp()
		bmpSetRange(out.Bits, start, end)
		out.Size = uint32(size)
		return out
	}

	out := make([]uint16, 0, size)
	out = append(out, c.Data[:lo]...)
	for v := start; v < end; v++ {
		out = append(out, uint16(v))
	}
	out = append(out, c.Data[hi:]...)

	c.Data = out
	c.Size = uint32(size)
	return c
}

// arrRemoveRange removes [start, end) from an array container
func (c *container) arrRemoveRange(start, end int) {
	lo, hi := arrLowerBound(c.Data, start), arrLowerBound(c.Data, end)
	if lo == hi {
		return
	}

	c.Data = append(c.Data[:lo], c.Data[hi:]...)
	c.Size = uint32(len(c.Data))
}

// arrFlipRange complements [start, end) of an array container
func (c *container) arrFlipRange(start, end int) *container {
	lo, hi := arrLowerBound(c.Data, start), arrLowerBound(c.Data, end)
	inside := hi - lo
	size := len(c.Data) - inside + (end - start - inside)
	if size > arrMaxSize {
		out := c.arrToBmp()
		bmpFlipRange(out.Bits, start, end)
		out.Size = uint32(size)
		return out
	}

	out := make([]uint16, 0, size)
	out = append(out, c.Data[:lo]...)
	for v, j := start, lo; v < end; v++ {
		if j < hi && int(c.Data[j]) == v {
			j++
			continue
		}
		out = append(out, uint16(v))
	}
	out = append(out, c.Data[hi:]...)

	c.Data = out
	c.Size = uint32(size)
	return c
}

// arrNumberOfRuns counts runs of consecutive values in a sorted array
func arrNumberOfRuns(array []uint16) int {
	if len(array) == 0 {
		return 0
	}

	runs := 1
	for i := 1; i < len(array); i++ {
		if array[i] != array[i-1]+1 {
			runs++
		}
	}
	return runs
}

// arrRuns appends the [start, last] pairs of a sorted array to dst
func arrRuns(dst, array []uint16) []uint16 {
	for i := 0; i < len(array); {
		j := i
		for j+1 < len(array) && array[j+1] == array[j]+1 {
			j++
		}

		dst = append(dst, array[i], array[j])
		i = j + 1
	}
	return dst
}

// arrToBmp converts this container from array to bitmap
func (c *container) arrToBmp() *container {
	out := newBitmap()
	for _, v := range c.Data {
		out.Bits[v>>6] |= 1 << (v & 63)
	}

	out.Size = uint32(len(c.Data))
	return out
}

// arrToRun converts this container from array to run
func (c *container) arrToRun() *container {
	runs := make([]uint16, 0, 2*arrNumberOfRuns(c.Data))
	return newRun(arrRuns(runs, c.Data), uint32(len(c.Data)))
}
