package roaring

import "sort"

// find16 searches a sorted array for the target and returns its index, or the
// position it would be inserted at when missing.
func find16(array []uint16, target uint16) (int, bool) {
	const linear = 16 // below this span a scan beats halving
	lo, hi := 0, len(array)
	if hi == 0 || target > array[hi-1] {
		return hi, false
	}

	for hi-lo > linear {
		mid := int(uint(lo+hi) >> 1)
		if array[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return scan16(array, lo, hi, target)
}

// scan16 returns the first index in [lo, hi) holding a value >= target
func scan16(array []uint16, lo, hi int, target uint16) (int, bool) {
	for ; lo+4 <= hi; lo += 4 {
		if array[lo+3] >= target {
			break
		}
	}

	for ; lo < hi; lo++ {
		if array[lo] >= target {
			return lo, array[lo] == target
		}
	}
	return hi, hi < len(array) && array[hi] == target
}

// gallop returns the smallest index i >= pos such that array[i] >= target, or
// len(array) if there is none. The probe doubles its stride before falling back
// to a binary search, so skipping k elements costs O(log k).
func gallop(array []uint16, pos int, target uint16) int {
	n := len(array)
	if pos >= n || array[pos] >= target {
		return pos
	}

	lo, hi, step := pos, pos+1, 1
	for hi < n && array[hi] < target {
		lo = hi
		step <<= 1
		hi = pos + step
	}

	hi = min(hi, n)
	return lo + 1 + sort.Search(hi-lo-1, func(i int) bool {
		return array[lo+1+i] >= target
	})
}
