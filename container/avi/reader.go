/*
NAME
  reader.go

DESCRIPTION
  reader.go implements the little-endian byte reader primitives that
  every other component in this package is built on (component A).

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

import (
	"io"

	"github.com/pkg/errors"
)

// Source is a seekable random-access byte provider. Files, and in tests
// an in-memory buffer, both satisfy it.
type Source interface {
	io.Reader
	io.Seeker
	// Len returns the total length of the source in bytes.
	Len() int64
}

// reader wraps a Source with the little-endian integer primitives used
// throughout the scanner and header parsers. It never buffers reads
// across a seek, so a short read of a declared size always surfaces as
// ErrUnexpectedEOF rather than silently returning fewer bytes.
type reader struct {
	src Source
}

// newReader returns a reader over src.
func newReader(src Source) *reader { return &reader{src: src} }

// tell returns the current read position.
func (r *reader) tell() (int64, error) {
	return r.src.Seek(0, io.SeekCurrent)
}

// seek moves the read position to an absolute offset from the start.
func (r *reader) seek(offset int64) error {
	_, err := r.src.Seek(offset, io.SeekStart)
	return err
}

// length returns the total size of the underlying source.
func (r *reader) length() int64 { return r.src.Len() }

// readExact reads exactly n bytes, returning ErrUnexpectedEOF if the
// source runs out before n bytes are delivered.
func (r *reader) readExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.src, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(ErrUnexpectedEOF, "wanted %d bytes", n)
		}
		return nil, errors.Wrap(err, "read failed")
	}
	return buf, nil
}

// readFourCC reads a 4-byte FourCC tag.
func (r *reader) readFourCC() (FourCC, error) {
	b, err := r.readExact(4)
	if err != nil {
		return 0, err
	}
	return FourCC(b[0]) | FourCC(b[1])<<8 | FourCC(b[2])<<16 | FourCC(b[3])<<24, nil
}

// readU32LE reads an unsigned 32-bit little-endian integer.
func (r *reader) readU32LE() (uint32, error) {
	b, err := r.readExact(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// readI32LE reads a signed 32-bit little-endian two's complement integer.
// biHeight is read this way since a negative value signals top-down
// orientation.
func (r *reader) readI32LE() (int32, error) {
	u, err := r.readU32LE()
	return int32(u), err
}

// readU16LE reads an unsigned 16-bit little-endian integer.
func (r *reader) readU16LE() (uint16, error) {
	b, err := r.readExact(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

// readI16LE reads a signed 16-bit little-endian two's complement integer.
func (r *reader) readI16LE() (int16, error) {
	u, err := r.readU16LE()
	return int16(u), err
}

// align2 rounds n up to the next even number, matching the 2-byte chunk
// alignment required throughout the RIFF tree.
func align2(n int64) int64 {
	return (n + 1) &^ 1
}
