/*
NAME
  format.go

DESCRIPTION
  format.go parses the strf BITMAPINFO payload and its optional
  palette, then resolves it into a normalized, immutable DecodePlan
  (components C and D).

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

import "github.com/pkg/errors"

// BitmapInfo holds the fields read from the 40-byte BITMAPINFOHEADER
// at the start of an strf chunk.
type BitmapInfo struct {
	Width, Height int32 // Height is signed: negative means top-down.
	Planes        uint16
	BitCount      uint16
	Compression   FourCC
	SizeImage     uint32
	ColorsUsed    uint32
}

// strfHeaderSize is the fixed byte size of BITMAPINFOHEADER.
const strfHeaderSize = 40

// parseSTRF reads the BITMAPINFOHEADER and, when bit_count <= 8, the
// following BGR-reserved palette. end bounds the chunk.
func parseSTRF(r *reader, end int64) (BitmapInfo, []byte, error) {
	var bmp BitmapInfo
	var err error

	// biSize, ignored (always 40 for BITMAPINFOHEADER).
	if _, err = r.readU32LE(); err != nil {
		return bmp, nil, errors.Wrap(err, "strf biSize")
	}
	w, err := r.readI32LE()
	if err != nil {
		return bmp, nil, errors.Wrap(err, "strf biWidth")
	}
	bmp.Width = w
	h, err := r.readI32LE()
	if err != nil {
		return bmp, nil, errors.Wrap(err, "strf biHeight")
	}
	bmp.Height = h
	if bmp.Planes, err = r.readU16LE(); err != nil {
		return bmp, nil, errors.Wrap(err, "strf biPlanes")
	}
	if bmp.BitCount, err = r.readU16LE(); err != nil {
		return bmp, nil, errors.Wrap(err, "strf biBitCount")
	}
	if bmp.Compression, err = r.readFourCC(); err != nil {
		return bmp, nil, errors.Wrap(err, "strf biCompression")
	}
	if bmp.SizeImage, err = r.readU32LE(); err != nil {
		return bmp, nil, errors.Wrap(err, "strf biSizeImage")
	}
	// biXPelsPerMeter, biYPelsPerMeter, ignored.
	if _, err = r.readU32LE(); err != nil {
		return bmp, nil, errors.Wrap(err, "strf biXPelsPerMeter")
	}
	if _, err = r.readU32LE(); err != nil {
		return bmp, nil, errors.Wrap(err, "strf biYPelsPerMeter")
	}
	if bmp.ColorsUsed, err = r.readU32LE(); err != nil {
		return bmp, nil, errors.Wrap(err, "strf biClrUsed")
	}
	// biClrImportant, ignored.
	if _, err = r.readU32LE(); err != nil {
		return bmp, nil, errors.Wrap(err, "strf biClrImportant")
	}

	var palette []byte
	if bmp.BitCount <= 8 {
		colors := bmp.ColorsUsed
		if colors == 0 {
			colors = 1 << bmp.BitCount
		}
		need := int64(colors) * 4
		pos, err := r.tell()
		if err != nil {
			return bmp, nil, errors.Wrap(err, "strf tell")
		}
		if end-pos < need {
			return bmp, nil, ErrTruncatedPalette
		}
		palette, err = r.readExact(int(need))
		if err != nil {
			return bmp, nil, errors.Wrap(err, "strf palette")
		}
	}
	return bmp, palette, nil
}

// Layout names the normalized pixel layout a DecodePlan decodes.
type Layout int

const (
	LayoutRGB Layout = iota
	LayoutIndexedPalette
	LayoutGray8
	LayoutGray16
	LayoutAYUV
	LayoutUYVY
	LayoutYUY2
	LayoutYVYU
)

// String renders a Layout's name, for logging and CLI reporting.
func (l Layout) String() string {
	switch l {
	case LayoutRGB:
		return "RGB"
	case LayoutIndexedPalette:
		return "IndexedPalette"
	case LayoutGray8:
		return "Gray8"
	case LayoutGray16:
		return "Gray16"
	case LayoutAYUV:
		return "AYUV"
	case LayoutUYVY:
		return "UYVY"
	case LayoutYUY2:
		return "YUY2"
	case LayoutYVYU:
		return "YVYU"
	default:
		return "unknown"
	}
}

// DecodePlan is the immutable, normalized description of how to unpack
// one movie-data chunk into pixels (component D). Width and Height are
// always positive; TopDown already folds in the source's orientation.
type DecodePlan struct {
	Bits    int
	Layout  Layout
	TopDown bool
	Width   int
	Height  int
	Stride  int
	Palette *Palette // non-nil iff Layout == LayoutIndexedPalette.
}

// resolvePlan maps a BitmapInfo (plus its raw BGR-reserved palette
// bytes, if any) to a DecodePlan, implementing the compression/bit_count
// matrix of spec §4.3 exactly, including FourCC folding.
func resolvePlan(bmp BitmapInfo, paletteBytes []byte) (DecodePlan, error) {
	bits := int(bmp.BitCount)
	comp := bmp.Compression

	var plan DecodePlan
	plan.Bits = bits

	switch {
	case comp == 0 || comp == fccRGB || comp == fccRAW:
		switch bits {
		case 8:
			plan.Layout = LayoutIndexedPalette
		case 24, 32:
			plan.Layout = LayoutRGB
		default:
			return plan, &ErrUnsupportedBitCount{Bits: bits, Compression: comp}
		}
		plan.TopDown = bmp.Height < 0

	case comp == fccY800 || comp == fccY8 || comp == fccGREY:
		if bits != 8 {
			return plan, &ErrUnsupportedBitCount{Bits: bits, Compression: comp}
		}
		plan.Layout = LayoutGray8
		plan.TopDown = true

	case comp == fccY16:
		if bits != 16 {
			return plan, &ErrUnsupportedBitCount{Bits: bits, Compression: comp}
		}
		plan.Layout = LayoutGray16
		plan.TopDown = bmp.Height < 0

	case comp == fccAYUV:
		if bits != 32 {
			return plan, &ErrUnsupportedBitCount{Bits: bits, Compression: comp}
		}
		plan.Layout = LayoutAYUV
		plan.TopDown = bmp.Height < 0

	case comp == fccUYVY || comp == fccUYNV:
		if bits != 16 {
			return plan, &ErrUnsupportedBitCount{Bits: bits, Compression: comp}
		}
		plan.Layout = LayoutUYVY
		plan.TopDown = true

	case comp == fccCYUV || comp == fccV422:
		if bits != 16 {
			return plan, &ErrUnsupportedBitCount{Bits: bits, Compression: comp}
		}
		plan.Layout = LayoutUYVY
		plan.TopDown = bmp.Height < 0

	case comp == fccYUY2 || comp == fccYUNV || comp == fccYUYV:
		if bits != 16 {
			return plan, &ErrUnsupportedBitCount{Bits: bits, Compression: comp}
		}
		plan.Layout = LayoutYUY2
		plan.TopDown = true

	case comp == fccYVYU:
		if bits != 16 {
			return plan, &ErrUnsupportedBitCount{Bits: bits, Compression: comp}
		}
		plan.Layout = LayoutYVYU
		plan.TopDown = true

	default:
		return plan, &ErrUnsupportedCompression{Compression: comp}
	}

	width := int(bmp.Width)
	height := int(bmp.Height)
	if height < 0 {
		height = -height
	}
	if width <= 0 || height <= 0 {
		return plan, errors.Errorf("avi: non-positive frame dimensions %dx%d", width, height)
	}
	plan.Width = width
	plan.Height = height
	plan.Stride = ((width*bits + 31) / 32) * 4

	if plan.Layout == LayoutIndexedPalette {
		colors := int(bmp.ColorsUsed)
		if colors == 0 {
			colors = 1 << bits
		}
		if colors > 256 {
			colors = 256
		}
		pal := &Palette{N: colors}
		for i := 0; i < colors; i++ {
			off := i * 4
			if off+3 >= len(paletteBytes) {
				return plan, ErrTruncatedPalette
			}
			pal.B[i] = paletteBytes[off]
			pal.G[i] = paletteBytes[off+1]
			pal.R[i] = paletteBytes[off+2]
			// paletteBytes[off+3] is the reserved byte, ignored.
		}
		plan.Palette = pal
	}

	return plan, nil
}
