/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the error kinds produced while scanning and
  decoding an AVI container, per the error handling design in spec §7.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avi

import "fmt"

// ErrNotAnAvi is returned when the source does not begin with a valid
// RIFF/AVI signature.
var ErrNotAnAvi = fmt.Errorf("avi: not a RIFF/AVI file")

// ErrUnexpectedEOF is returned when a declared read size runs past the
// end of the source.
var ErrUnexpectedEOF = fmt.Errorf("avi: unexpected end of file")

// ErrTruncatedPalette is returned when fewer palette bytes remain in a
// strf chunk than colors_used*4 requires.
var ErrTruncatedPalette = fmt.Errorf("avi: truncated palette")

// ErrIndexOutOfRange is returned by the virtual stack when asked for a
// frame number outside [1, Size()]. It is a programming error, not a
// data error.
var ErrIndexOutOfRange = fmt.Errorf("avi: frame index out of range")

// ErrOutOfMemory is returned when a frame's pixel buffer cannot be
// allocated. It is the sole recoverable condition during eager stack
// construction (spec §7): every other decode error bubbles to the
// caller instead of being swallowed.
var ErrOutOfMemory = fmt.Errorf("avi: out of memory decoding frame")

// ErrMissingChunk is returned when a required chunk is absent from its
// expected context.
type ErrMissingChunk struct {
	Chunk FourCC
}

func (e *ErrMissingChunk) Error() string {
	return fmt.Sprintf("avi: missing required chunk %q", e.Chunk)
}

// ErrUnsupportedCompression is returned when the format resolver does
// not recognise a BITMAPINFO compression tag.
type ErrUnsupportedCompression struct {
	Compression FourCC
}

func (e *ErrUnsupportedCompression) Error() string {
	return fmt.Sprintf("avi: unsupported compression %q", e.Compression)
}

// ErrUnsupportedBitCount is returned when a compression/bit_count
// combination is not in the allowed matrix (spec §4.3).
type ErrUnsupportedBitCount struct {
	Bits        int
	Compression FourCC
}

func (e *ErrUnsupportedBitCount) Error() string {
	return fmt.Sprintf("avi: unsupported bit count %d for compression %q", e.Bits, e.Compression)
}

// ErrUnsupportedMultisample is returned when a stream header declares
// sample_size > 1, i.e. more than one sample per movie-data chunk.
type ErrUnsupportedMultisample struct {
	SampleSize uint32
}

func (e *ErrUnsupportedMultisample) Error() string {
	return fmt.Sprintf("avi: unsupported multi-sample stream (sample_size=%d)", e.SampleSize)
}

// ErrTruncatedFrame is returned when a movie-data chunk is shorter
// than the decode plan's stride*height requires.
type ErrTruncatedFrame struct {
	Expected, Got int64
}

func (e *ErrTruncatedFrame) Error() string {
	return fmt.Sprintf("avi: truncated frame, expected at least %d bytes, got %d", e.Expected, e.Got)
}
