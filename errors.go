package roaring

import "errors"

var (
	// ErrInvalidRange is returned when a range has its start after its end, or
	// when it extends past the 32-bit universe.
	ErrInvalidRange = errors.New("roaring: invalid range")

	// ErrIndexOutOfRange is returned by Select when the index is not smaller
	// than the cardinality.
	ErrIndexOutOfRange = errors.New("roaring: index out of range")

	// ErrEmptyContainer is returned by First, Last and Select on an empty set.
	ErrEmptyContainer = errors.New("roaring: empty container")

	// ErrTruncatedInput is returned when a serialized bitmap ends early.
	ErrTruncatedInput = errors.New("roaring: truncated input")

	// ErrMalformedInput is returned when a serialized bitmap is inconsistent.
	ErrMalformedInput = errors.New("roaring: malformed input")

	// ErrCorruptedOffset is returned by FromBuffer when a container offset points
	// outside of the backing buffer.
	ErrCorruptedOffset = errors.New("roaring: corrupted offset")
)
