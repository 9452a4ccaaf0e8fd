// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package roaring

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
)

const (
	serialCookieNoRun = 12346 // Cookie of a stream without run containers
	serialCookie      = 12347 // Cookie of a stream with run containers, in the low 16 bits
	noOffsetThreshold = 4     // Streams with run containers carry offsets from this many containers
)

var le = binary.LittleEndian

// ---------------------------------------- Encoding ----------------------------------------

// SerializedSizeInBytes returns the number of bytes WriteTo will produce
func (rb *Bitmap) SerializedSizeInBytes() uint64 {
	size := rb.headerSize()
	for _, c := range rb.containers {
		size += c.serializedSize()
	}
	return uint64(size)
}

// MaxSerializedSize returns an upper bound of the serialized size of any bitmap
// holding the given number of values, all of them below universeSize
func MaxSerializedSize(cardinality, universeSize uint64) uint64 {
	chunks := min((universeSize+maxCapacity-1)/maxCapacity, cardinality)
	header := 8*chunks + 4 + max(4, (chunks+7)/8)
	return min(2*cardinality, chunks*bitmapSizeInBytes) + header
}

// headerSize returns the size of the header in the portable format
func (rb *Bitmap) headerSize() int {
	n := len(rb.index)
	if !rb.HasRunCompression() {
		return 8 + 8*n
	}

	size := 4 + (n+7)/8 + 4*n
	if n >= noOffsetThreshold {
		size += 4 * n
	}
	return size
}

// appendHeader appends the cookie, the descriptors and the offsets
func (rb *Bitmap) appendHeader(dst []byte) []byte {
	n := len(rb.index)
	hasRun := rb.HasRunCompression()
	switch hasRun {
	case true:
		dst = le.AppendUint32(dst, uint32(serialCookie|(n-1)<<16))
		flags := make([]byte, (n+7)/8)
		for i, c := range rb.containers {
			if c.Type == typeRun {
				flags[i/8] |= 1 << (i % 8)
			}
		}
		dst = append(dst, flags...)
	default:
		dst = le.AppendUint32(dst, serialCookieNoRun)
		dst = le.AppendUint32(dst, uint32(n))
	}

	for i, c := range rb.containers {
		dst = le.AppendUint16(dst, rb.index[i])
		dst = le.AppendUint16(dst, uint16(c.cardinality()-1))
	}

	if !hasRun || n >= noOffsetThreshold {
		offset := rb.headerSize()
		for _, c := range rb.containers {
			dst = le.AppendUint32(dst, uint32(offset))
			offset += c.serializedSize()
		}
	}
	return dst
}

// ToBytes converts the bitmap to a byte slice in the portable format
func (rb *Bitmap) ToBytes() []byte {
	var buf bytes.Buffer
	buf.Grow(int(rb.SerializedSizeInBytes()))
	if _, err := rb.WriteTo(&buf); err != nil {
		panic(err)
	}

	return buf.Bytes()
}

// MarshalBinary implements encoding.BinaryMarshaler
func (rb *Bitmap) MarshalBinary() ([]byte, error) {
	return rb.ToBytes(), nil
}

// WriteTo writes the bitmap to a writer in the portable format
func (rb *Bitmap) WriteTo(w io.Writer) (int64, error) {
	header := rb.appendHeader(make([]byte, 0, rb.headerSize()))
	m, err := w.Write(header)
	n := int64(m)
	if err != nil {
		return n, err
	}

	var scratch []byte
	for _, c := range rb.containers {
		var payload []byte
		switch c.Type {
		case typeArray:
			payload, scratch = encodeUint16s(scratch[:0], c.Data)
		case typeBitmap:
			payload, scratch = encodeUint64s(scratch[:0], c.Bits)
		case typeRun:
			scratch = le.AppendUint16(scratch[:0], uint16(len(c.Data)/2))
			for i := 0; i < len(c.Data); i += 2 {
				scratch = le.AppendUint16(scratch, c.Data[i])
				scratch = le.AppendUint16(scratch, c.Data[i+1]-c.Data[i])
			}
			payload = scratch
		}

		m, err := w.Write(payload)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// encodeUint16s returns the little endian bytes of the data, without copying on
// little endian machines
func encodeUint16s(scratch []byte, data []uint16) ([]byte, []byte) {
	if isLittleEndian {
		return uint16Bytes(data), scratch
	}

	for _, v := range data {
		scratch = le.AppendUint16(scratch, v)
	}
	return scratch, scratch
}

// encodeUint64s returns the little endian bytes of the data, without copying on
// little endian machines
func encodeUint64s(scratch []byte, data []uint64) ([]byte, []byte) {
	if isLittleEndian {
		return uint64Bytes(data), scratch
	}

	for _, v := range data {
		scratch = le.AppendUint64(scratch, v)
	}
	return scratch, scratch
}

// ---------------------------------------- Decoding ----------------------------------------

// ReadFrom reads a bitmap in the portable format, replacing the content of the
// receiver. Container offsets are not needed and are skipped. The receiver is
// left untouched on error.
func (rb *Bitmap) ReadFrom(r io.Reader) (int64, error) {
	d := &decoder{r: r}
	out, err := d.decode()
	if err != nil {
		return int64(d.pos), err
	}

	*rb = *out
	return int64(d.pos), nil
}

// ReadFrom reads a roaring bitmap in the portable format from an io.Reader
func ReadFrom(r io.Reader) (*Bitmap, error) {
	return (&decoder{r: r}).decode()
}

// FromBytes decodes a bitmap in the portable format, copying all of its data.
// Trailing bytes after the last container are ignored.
func FromBytes(buffer []byte) (*Bitmap, error) {
	return (&decoder{buf: buffer}).decode()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (rb *Bitmap) UnmarshalBinary(data []byte) error {
	out, err := FromBytes(data)
	if err != nil {
		return err
	}

	*rb = *out
	return nil
}

// decoder reads the portable format either from a reader or from memory
type decoder struct {
	r   io.Reader // Source, nil when decoding from memory
	buf []byte    // Source when decoding from memory
	pos int       // Number of bytes consumed
}

// next returns the next n bytes of the input
func (d *decoder) next(n int) ([]byte, error) {
	if d.r == nil {
		if n > len(d.buf)-d.pos {
			return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedInput, n, d.pos, len(d.buf)-d.pos)
		}

		out := d.buf[d.pos : d.pos+n]
		d.pos += n
		return out, nil
	}

	out := make([]byte, n)
	m, err := io.ReadFull(d.r, out)
	d.pos += m
	switch {
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedInput, n, d.pos-m, m)
	case err != nil:
		return nil, err
	default:
		return out, nil
	}
}

// header is the decoded header of the portable format
type header struct {
	keys    []uint16 // Container keys
	cards   []int    // Container cardinalities
	runs    []byte   // Run flags, nil when the stream has no run container
	offsets []uint32 // Container offsets, nil when absent
}

// isRun returns true if the i-th container is a run container
func (h *header) isRun(i int) bool {
	return h.runs != nil && h.runs[i/8]&(1<<(i%8)) != 0
}

// header reads and validates the cookie, the descriptors and the offsets
func (d *decoder) header() (*header, error) {
	b, err := d.next(4)
	if err != nil {
		return nil, err
	}

	h, n := new(header), 0
	switch cookie := le.Uint32(b); {
	case cookie&0xFFFF == serialCookie:
		n = int(cookie>>16) + 1
		if h.runs, err = d.next((n + 7) / 8); err != nil {
			return nil, err
		}
	case cookie == serialCookieNoRun:
		if b, err = d.next(4); err != nil {
			return nil, err
		}
		if n = int(le.Uint32(b)); n > maxCapacity {
			return nil, fmt.Errorf("%w: %d containers", ErrMalformedInput, n)
		}
	default:
		return nil, fmt.Errorf("%w: unknown cookie %#x", ErrMalformedInput, cookie)
	}

	desc, err := d.next(4 * n)
	if err != nil {
		return nil, err
	}

	h.keys = make([]uint16, n)
	h.cards = make([]int, n)
	for i := 0; i < n; i++ {
		h.keys[i] = le.Uint16(desc[4*i:])
		h.cards[i] = int(le.Uint16(desc[4*i+2:])) + 1
		if i > 0 && h.keys[i] <= h.keys[i-1] {
			return nil, fmt.Errorf("%w: key %d follows key %d", ErrMalformedInput, h.keys[i], h.keys[i-1])
		}
	}

	if h.runs == nil || n >= noOffsetThreshold {
		offs, err := d.next(4 * n)
		if err != nil {
			return nil, err
		}

		h.offsets = make([]uint32, n)
		for i := range h.offsets {
			h.offsets[i] = le.Uint32(offs[4*i:])
		}
	}
	return h, nil
}

// decode reads a complete bitmap, copying every container
func (d *decoder) decode() (*Bitmap, error) {
	h, err := d.header()
	if err != nil {
		return nil, err
	}

	rb := &Bitmap{
		index:      h.keys,
		containers: make([]*container, len(h.keys)),
	}

	for i, card := range h.cards {
		c, err := d.container(h.isRun(i), card)
		if err != nil {
			return nil, fmt.Errorf("container %d: %w", i, err)
		}
		rb.containers[i] = c
	}
	return rb, nil
}

// container reads the payload of the next container
func (d *decoder) container(isRun bool, card int) (*container, error) {
	switch {
	case isRun:
		b, err := d.next(2)
		if err != nil {
			return nil, err
		}

		nruns := int(le.Uint16(b))
		if b, err = d.next(4 * nruns); err != nil {
			return nil, err
		}
		return decodeRun(b, nruns, card)
	case card > arrMaxSize:
		b, err := d.next(bitmapSizeInBytes)
		if err != nil {
			return nil, err
		}
		return decodeBitmap(b, card, false)
	default:
		b, err := d.next(arraySizeInBytes(card))
		if err != nil {
			return nil, err
		}
		return decodeArray(b, card, false)
	}
}

// decodeArray decodes and validates the payload of an array container. When
// borrow is set the container may point into the payload.
func decodeArray(b []byte, card int, borrow bool) (*container, error) {
	data, shared := asUint16s(b)
	if !borrow || !shared {
		data, shared = make([]uint16, card), false
		for i := range data {
			data[i] = le.Uint16(b[2*i:])
		}
	}

	for i := 1; i < len(data); i++ {
		if data[i] <= data[i-1] {
			return nil, fmt.Errorf("%w: array value %d follows %d", ErrMalformedInput, data[i], data[i-1])
		}
	}

	c := newArrayOf(data)
	c.Shared = shared
	return c, nil
}

// decodeBitmap decodes and validates the payload of a bitmap container. When
// borrow is set the container may point into the payload.
func decodeBitmap(b []byte, card int, borrow bool) (*container, error) {
	words, shared := asBitmap(b)
	if !borrow || !shared {
		words, shared = make([]uint64, bitmapWords), false
		for i := range words {
			words[i] = le.Uint64(b[8*i:])
		}
	}

	count := 0
	for _, w := range words {
		count += bits.OnesCount64(w)
	}
	if count != card {
		return nil, fmt.Errorf("%w: bitmap holds %d values, header declares %d", ErrMalformedInput, count, card)
	}

	return &container{
		Type:   typeBitmap,
		Size:   uint32(card),
		Shared: shared,
		Bits:   words,
	}, nil
}

// decodeRun decodes and validates the (start, length-1) pairs of a run container
func decodeRun(b []byte, nruns, card int) (*container, error) {
	runs := make([]uint16, 2*nruns)
	size, next := 0, 0
	for i := 0; i < nruns; i++ {
		start, length := int(le.Uint16(b[4*i:])), int(le.Uint16(b[4*i+2:]))
		switch last := start + length; {
		case last >= maxCapacity:
			return nil, fmt.Errorf("%w: run [%d, %d] exceeds the chunk", ErrMalformedInput, start, last)
		case i > 0 && start <= next:
			return nil, fmt.Errorf("%w: run starting at %d overlaps or touches its predecessor", ErrMalformedInput, start)
		default:
			runs[2*i], runs[2*i+1] = uint16(start), uint16(last)
			size += length + 1
			next = last + 1
		}
	}

	if size != card {
		return nil, fmt.Errorf("%w: runs hold %d values, header declares %d", ErrMalformedInput, size, card)
	}
	return newRun(runs, uint32(size)), nil
}
