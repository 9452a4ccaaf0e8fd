package roaring

import "fmt"

const universe = uint64(1) << 32

// validRange checks that [start, end) lies within the 32-bit universe
func validRange(start, end uint64) error {
	if start > end || end > universe {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	}
	return nil
}

// chunks calls fn for every chunk overlapped by the non-empty range [start, end),
// along with the bounds of the range local to that chunk
func chunks(start, end uint64, fn func(key uint16, lo, hi int)) {
	for key := start >> 16; key <= (end-1)>>16; key++ {
		base := key << 16
		fn(uint16(key), int(max(start, base)-base), int(min(end, base+maxCapacity)-base))
	}
}

// SetRange adds every value of [start, end) to the bitmap
func (rb *Bitmap) SetRange(start, end uint64) error {
	if err := validRange(start, end); err != nil || start == end {
		return err
	}

	chunks(start, end, func(hi uint16, lo, up int) {
		pos, exists := rb.find(hi)
		if !exists {
			rb.ctrAdd(hi, pos, newRange(lo, up))
			return
		}

		c, _ := rb.writable(pos).addRange(lo, up)
		rb.containers[pos] = c
	})
	return nil
}

// SetRange32 adds every value of [start, end) to the bitmap
func (rb *Bitmap) SetRange32(start, end uint32) error {
	return rb.SetRange(uint64(start), uint64(end))
}

// RemoveRange removes every value of [start, end) from the bitmap
func (rb *Bitmap) RemoveRange(start, end uint64) error {
	if err := validRange(start, end); err != nil || start == end {
		return err
	}

	chunks(start, end, func(hi uint16, lo, up int) {
		pos, exists := rb.find(hi)
		if !exists {
			return
		}

		c, _ := rb.writable(pos).removeRange(lo, up)
		rb.ctrSet(pos, c)
	})
	return nil
}

// RemoveRange32 removes every value of [start, end) from the bitmap
func (rb *Bitmap) RemoveRange32(start, end uint32) error {
	return rb.RemoveRange(uint64(start), uint64(end))
}

// Flip complements the bitmap within [start, end)
func (rb *Bitmap) Flip(start, end uint64) error {
	if err := validRange(start, end); err != nil || start == end {
		return err
	}

	chunks(start, end, func(hi uint16, lo, up int) {
		pos, exists := rb.find(hi)
		if !exists {
			rb.ctrAdd(hi, pos, newRange(lo, up))
			return
		}

		c, _ := rb.writable(pos).not(lo, up)
		rb.ctrSet(pos, c)
	})
	return nil
}

// ContainsRange returns true if every value of [start, end) is in the bitmap.
// An empty range is always contained, an invalid one never is.
func (rb *Bitmap) ContainsRange(start, end uint64) bool {
	switch {
	case validRange(start, end) != nil:
		return false
	case start == end:
		return true
	}

	contained := true
	chunks(start, end, func(hi uint16, lo, up int) {
		if !contained {
			return
		}

		pos, exists := rb.find(hi)
		contained = exists && rb.containers[pos].containsRange(lo, up)
	})
	return contained
}
