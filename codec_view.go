package roaring

import "fmt"

// FromBuffer decodes a bitmap in the portable format, locating containers
// through the offsets of the header when present. Array and bitmap containers
// point directly into the buffer when its layout allows it, so the buffer must
// not be modified while the bitmap is in use. Such containers are copied on
// their first write, the buffer itself is never written to.
func FromBuffer(buf []byte) (*Bitmap, error) {
	d := &decoder{buf: buf}
	h, err := d.header()
	if err != nil {
		return nil, err
	}

	rb := &Bitmap{
		index:      h.keys,
		containers: make([]*container, len(h.keys)),
	}

	offset := d.pos
	for i := range h.keys {
		if h.offsets != nil {
			offset = int(h.offsets[i])
		}

		if offset < d.pos {
			return nil, fmt.Errorf("%w: container %d at %d overlaps the %d byte header", ErrCorruptedOffset, i, offset, d.pos)
		}

		c, size, err := view(buf, offset, h.isRun(i), h.cards[i])
		if err != nil {
			return nil, fmt.Errorf("container %d: %w", i, err)
		}

		rb.containers[i] = c
		offset += size
	}
	return rb, nil
}

// view decodes the container payload found at the offset, returning it along
// with the number of bytes it spans
func view(buf []byte, offset int, isRun bool, card int) (*container, int, error) {
	size := 0
	switch {
	case isRun:
		if offset+2 > len(buf) {
			return nil, 0, outOfBounds(buf, offset, 2)
		}
		size = runSizeInBytes(int(le.Uint16(buf[offset:])))
	case card > arrMaxSize:
		size = bitmapSizeInBytes
	default:
		size = arraySizeInBytes(card)
	}

	if offset+size > len(buf) {
		return nil, 0, outOfBounds(buf, offset, size)
	}

	payload := buf[offset : offset+size]
	switch {
	case isRun:
		c, err := decodeRun(payload[2:], (size-2)/4, card)
		return c, size, err
	case card > arrMaxSize:
		c, err := decodeBitmap(payload, card, true)
		return c, size, err
	default:
		c, err := decodeArray(payload, card, true)
		return c, size, err
	}
}

// outOfBounds reports a container that extends past the end of the buffer
func outOfBounds(buf []byte, offset, size int) error {
	return fmt.Errorf("%w: [%d, %d) exceeds %d bytes: %w", ErrCorruptedOffset, offset, offset+size, len(buf), ErrTruncatedInput)
}
