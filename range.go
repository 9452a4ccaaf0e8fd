package roaring

// Range calls the given function for each value in the bitmap, in ascending order
func (rb *Bitmap) Range(fn func(x uint32)) {
	for i, c := range rb.containers {
		base := uint32(rb.index[i]) << 16
		switch c.Type {
		case typeArray:
			for _, v := range c.Data {
				fn(base | uint32(v))
			}

		case typeBitmap:
			c.Bits.Range(func(v uint32) {
				fn(base | v)
			})

		case typeRun:
			for r := 0; r < len(c.Data); r += 2 {
				for v := uint32(c.Data[r]); v <= uint32(c.Data[r+1]); v++ {
					fn(base | v)
				}
			}
		}
	}
}

// Filter iterates over the bitmap elements and calls a predicate provided for each
// containing element. If the predicate returns false, the bitmap at the element's
// position is set to zero.
func (rb *Bitmap) Filter(f func(x uint32) bool) {
	var toRemove []uint32
	rb.Range(func(x uint32) {
		if !f(x) {
			toRemove = append(toRemove, x)
		}
	})

	for _, x := range toRemove {
		rb.Remove(x)
	}
}

// ToArray returns all of the values of the bitmap in ascending order
func (rb *Bitmap) ToArray() []uint32 {
	out := make([]uint32, 0, rb.Count())
	rb.Range(func(x uint32) {
		out = append(out, x)
	})
	return out
}
