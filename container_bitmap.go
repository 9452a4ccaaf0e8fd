package roaring

import "math/bits"

// bmpSet sets a value in a bitmap container
func (c *container) bmpSet(value uint16) bool {
	if c.Bits.Contains(uint32(value)) {
		return false
	}

	c.Bits.Set(uint32(value))
	c.Size++
	return true
}

// bmpDel removes a value from a bitmap container
func (c *container) bmpDel(value uint16) bool {
	if !c.Bits.Contains(uint32(value)) {
		return false
	}

	c.Bits.Remove(uint32(value))
	c.Size--
	return true
}

// bmpToArr converts this container from bitmap to array
func (c *container) bmpToArr() *container {
	out := make([]uint16, 0, c.Size)
	for i, w := range c.Bits {
		for w != 0 {
			out = append(out, uint16(i<<6+bits.TrailingZeros64(w)))
			w &= w - 1
		}
	}
	return newArrayOf(out)
}

// bmpToRun converts this container from bitmap to run
func (c *container) bmpToRun() *container {
	runs := make([]uint16, 0, 2*bmpNumberOfRuns(c.Bits))
	for i := nextSetBit(c.Bits, 0); i >= 0; {
		j := nextClearBit(c.Bits, i)
		runs = append(runs, uint16(i), uint16(j-1))
		if j >= maxCapacity {
			break
		}
		i = nextSetBit(c.Bits, j)
	}
	return newRun(runs, c.Size)
}

// bmpNumberOfRuns counts runs of consecutive set bits, looking at the last bit
// of every word to join runs that cross word boundaries
func bmpNumberOfRuns(words []uint64) int {
	runs, n := 0, len(words)
	for i := 0; i < n-1; i++ {
		w := words[i]
		runs += bits.OnesCount64((w << 1) &^ w)
		runs += int((w >> 63) &^ words[i+1])
	}

	w := words[n-1]
	runs += bits.OnesCount64((w << 1) &^ w)
	runs += int(w >> 63)
	return runs
}

// bmpNumberOfRunsLowerBound counts runs that end inside a word, which never
// exceeds the exact count. It stops as soon as the threshold is crossed.
func bmpNumberOfRunsLowerBound(words []uint64, threshold int) int {
	runs := 0
	for i, w := range words {
		runs += bits.OnesCount64((w << 1) &^ w)
		if i&63 == 63 && runs > threshold {
			return runs
		}
	}
	return runs
}

// bmpRank returns the number of set bits at or below the value
func bmpRank(words []uint64, value uint16) int {
	idx, rank := int(value>>6), 0
	for _, w := range words[:idx] {
		rank += bits.OnesCount64(w)
	}
	return rank + bits.OnesCount64(words[idx]&(^uint64(0)>>(63-uint(value&63))))
}

// bmpSelect returns the position of the i-th set bit
func bmpSelect(words []uint64, i int) uint16 {
	for x, w := range words {
		n := bits.OnesCount64(w)
		if i >= n {
			i -= n
			continue
		}

		for ; i > 0; i-- {
			w &= w - 1
		}
		return uint16(x<<6 + bits.TrailingZeros64(w))
	}
	panic("roaring: select beyond bitmap cardinality")
}

// nextSetBit returns the first set bit at or after i, or -1
func nextSetBit(words []uint64, i int) int {
	if i >= maxCapacity {
		return -1
	}

	x := i >> 6
	if w := words[x] >> uint(i&63); w != 0 {
		return i + bits.TrailingZeros64(w)
	}

	for x++; x < len(words); x++ {
		if words[x] != 0 {
			return x<<6 + bits.TrailingZeros64(words[x])
		}
	}
	return -1
}

// prevSetBit returns the last set bit at or before i, or -1
func prevSetBit(words []uint64, i int) int {
	if i < 0 {
		return -1
	}

	x := i >> 6
	if w := words[x] << uint(63-(i&63)); w != 0 {
		return i - bits.LeadingZeros64(w)
	}

	for x--; x >= 0; x-- {
		if words[x] != 0 {
			return x<<6 + 63 - bits.LeadingZeros64(words[x])
		}
	}
	return -1
}

// nextClearBit returns the first clear bit at or after i, or 65536
func nextClearBit(words []uint64, i int) int {
	x := i >> 6
	if w := ^words[x] >> uint(i&63); w != 0 {
		return i + bits.TrailingZeros64(w)
	}

	for x++; x < len(words); x++ {
		if words[x] != ^uint64(0) {
			return x<<6 + bits.TrailingZeros64(^words[x])
		}
	}
	return maxCapacity
}

// rangeMasks returns the word span of [start, end) along with the masks of its
// first and last words
func rangeMasks(start, end int) (first, last int, lo, hi uint64) {
	first, last = start>>6, (end-1)>>6
	lo = ^uint64(0) << uint(start&63)
	hi = ^uint64(0) >> uint(63-((end-1)&63))
	return
}

// bmpSetRange sets all bits in [start, end)
func bmpSetRange(words []uint64, start, end int) {
	if start >= end {
		return
	}

	first, last, lo, hi := rangeMasks(start, end)
	if first == last {
		words[first] |= lo & hi
		return
	}

	words[first] |= lo
	for i := first + 1; i < last; i++ {
		words[i] = ^uint64(0)
	}
	words[last] |= hi
}

// bmpClearRange clears all bits in [start, end)
func bmpClearRange(words []uint64, start, end int) {
	if start >= end {
		return
	}

	first, last, lo, hi := rangeMasks(start, end)
	if first == last {
		words[first] &^= lo & hi
		return
	}

	words[first] &^= lo
	for i := first + 1; i < last; i++ {
		words[i] = 0
	}
	words[last] &^= hi
}

// bmpFlipRange flips all bits in [start, end)
func bmpFlipRange(words []uint64, start, end int) {
	if start >= end {
		return
	}

	first, last, lo, hi := rangeMasks(start, end)
	if first == last {
		words[first] ^= lo & hi
		return
	}

	words[first] ^= lo
	for i := first + 1; i < last; i++ {
		words[i] = ^words[i]
	}
	words[last] ^= hi
}

// bmpCountRange counts the set bits in [start, end)
func bmpCountRange(words []uint64, start, end int) int {
	if start >= end {
		return 0
	}

	first, last, lo, hi := rangeMasks(start, end)
	if first == last {
		return bits.OnesCount64(words[first] & lo & hi)
	}

	count := bits.OnesCount64(words[first]&lo) + bits.OnesCount64(words[last]&hi)
	for _, w := range words[first+1 : last] {
		count += bits.OnesCount64(w)
	}
	return count
}
