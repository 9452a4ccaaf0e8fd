package roaring

import "math/bits"

// AndCardinality returns the number of values present in both bitmaps without
// materializing the intersection
func AndCardinality(a, b *Bitmap) int {
	if a == nil || b == nil {
		return 0
	}

	count := 0
	for i, j := 0, 0; i < len(a.index) && j < len(b.index); {
		switch k1, k2 := a.index[i], b.index[j]; {
		case k1 < k2:
			i = advanceKey(a.index, i, k2)
		case k1 > k2:
			j = advanceKey(b.index, j, k1)
		default:
			count += a.containers[i].andCardinality(b.containers[j])
			i++
			j++
		}
	}
	return count
}

// OrCardinality returns the number of values present in either bitmap
func OrCardinality(a, b *Bitmap) int {
	return a.Count() + b.Count() - AndCardinality(a, b)
}

// Intersects returns true if the two bitmaps share at least one value
func Intersects(a, b *Bitmap) bool {
	if a == nil || b == nil {
		return false
	}

	for i, j := 0, 0; i < len(a.index) && j < len(b.index); {
		switch k1, k2 := a.index[i], b.index[j]; {
		case k1 < k2:
			i = advanceKey(a.index, i, k2)
		case k1 > k2:
			j = advanceKey(b.index, j, k1)
		default:
			if a.containers[i].intersects(b.containers[j]) {
				return true
			}
			i++
			j++
		}
	}
	return false
}

// Includes returns true if every value of other is also in the bitmap
func (rb *Bitmap) Includes(other *Bitmap) bool {
	if other == nil {
		return true
	}

	for j, hi := range other.index {
		i, exists := find16(rb.index, hi)
		if !exists {
			return false
		}

		c := other.containers[j]
		if rb.containers[i].andCardinality(c) != c.cardinality() {
			return false
		}
	}
	return true
}

// andCardinality counts the values shared by two containers
func (c *container) andCardinality(other *container) int {
	a, b := c, other
	if a.Type > b.Type {
		a, b = b, a
	}

	switch {
	case a.Type == typeArray && b.Type == typeArray:
		count := 0
		for i, j := 0, 0; i < len(a.Data) && j < len(b.Data); {
			switch av, bv := a.Data[i], b.Data[j]; {
			case av == bv:
				count++
				i++
				j++
			case av < bv:
				i = gallop(a.Data, i, bv)
			default:
				j = gallop(b.Data, j, av)
			}
		}
		return count

	case a.Type == typeArray && b.Type == typeBitmap:
		count := 0
		for _, v := range a.Data {
			if b.Bits.Contains(uint32(v)) {
				count++
			}
		}
		return count

	case a.Type == typeArray && b.Type == typeRun:
		count := 0
		for i, j := 0, 0; i < len(a.Data) && j < len(b.Data); {
			switch v := a.Data[i]; {
			case v < b.Data[j]:
				i++
			case v > b.Data[j+1]:
				j += 2
			default:
				count++
				i++
			}
		}
		return count

	case a.Type == typeBitmap && b.Type == typeBitmap:
		count := 0
		for i, w := range a.Bits {
			count += bits.OnesCount64(w & b.Bits[i])
		}
		return count

	case a.Type == typeBitmap && b.Type == typeRun:
		count := 0
		for i := 0; i < len(b.Data); i += 2 {
			count += bmpCountRange(a.Bits, int(b.Data[i]), int(b.Data[i+1])+1)
		}
		return count

	default:
		count := 0
		for i, j := 0, 0; i < len(a.Data) && j < len(b.Data); {
			if s, e := max(a.Data[i], b.Data[j]), min(a.Data[i+1], b.Data[j+1]); s <= e {
				count += int(e-s) + 1
			}

			if a.Data[i+1] < b.Data[j+1] {
				i += 2
			} else {
				j += 2
			}
		}
		return count
	}
}

// intersects returns true if the containers share at least one value
func (c *container) intersects(other *container) bool {
	a, b := c, other
	if a.Type > b.Type {
		a, b = b, a
	}

	switch {
	case a.Type == typeArray:
		for _, v := range a.Data {
			if b.contains(v) {
				return true
			}
		}
		return false
	case a.Type == typeBitmap && b.Type == typeBitmap:
		for i, w := range a.Bits {
			if w&b.Bits[i] != 0 {
				return true
			}
		}
		return false
	case a.Type == typeBitmap:
		for i := 0; i < len(b.Data); i += 2 {
			if bmpCountRange(a.Bits, int(b.Data[i]), int(b.Data[i+1])+1) > 0 {
				return true
			}
		}
		return false
	default:
		return a.andCardinality(b) > 0
	}
}
