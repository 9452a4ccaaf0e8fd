package roaring

const bitmapSizeInBytes = bitmapWords * 8

// arraySizeInBytes returns the serialized size of an array container
func arraySizeInBytes(card int) int {
	return 2 * card
}

// runSizeInBytes returns the serialized size of a run container
func runSizeInBytes(runs int) int {
	return 2 + 4*runs
}

// toEfficient returns the smallest representation of the container. A run is
// chosen when it is strictly smaller than a bitmap and no larger than an array,
// otherwise the cardinality decides between array and bitmap.
func (c *container) toEfficient() *container {
	card := c.cardinality()
	sizeArray := arraySizeInBytes(card)
	limit := min(sizeArray, bitmapSizeInBytes-1)

	runs := 0
	switch c.Type {
	case typeBitmap:
		threshold := (limit - 2) / 4
		if runs = c.numberOfRunsLowerBound(threshold); runs <= threshold {
			runs = c.numberOfRuns()
		}
	default:
		runs = c.numberOfRuns()
	}

	if sizeRun := runSizeInBytes(runs); sizeRun < bitmapSizeInBytes && sizeRun <= sizeArray {
		return c.toRun()
	}

	if card <= arrMaxSize {
		return c.toArray()
	}
	return c.toBitmap()
}

// toArray returns the container as an array
func (c *container) toArray() *container {
	switch c.Type {
	case typeBitmap:
		return c.bmpToArr()
	case typeRun:
		return c.runToArr()
	default:
		return c
	}
}

// toBitmap returns the container as a bitmap
func (c *container) toBitmap() *container {
	switch c.Type {
	case typeArray:
		return c.arrToBmp()
	case typeRun:
		return c.runToBmp()
	default:
		return c
	}
}

// toRun returns the container as a run
func (c *container) toRun() *container {
	switch c.Type {
	case typeArray:
		return c.arrToRun()
	case typeBitmap:
		return c.bmpToRun()
	default:
		return c
	}
}

// repairAfterLazy recomputes a deferred cardinality and picks the best
// representation for the result of a lazy union
func (c *container) repairAfterLazy() *container {
	if c.Dirty {
		c.Size = uint32(c.Bits.Count())
		c.Dirty = false
	}
	return c.toEfficient()
}
