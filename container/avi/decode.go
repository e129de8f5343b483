/*
NAME
  decode.go

DESCRIPTION
  decode.go implements the frame decoder (component F): it unpacks one
  movie-data chunk into either 8-bit gray or 32-bit packed RGBA pixels
  according to a DecodePlan, per the per-layout unpacking rules and
  fixed-point YUV->RGB coefficients of spec §4.5.

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
	"strings"

	"github.com/pkg/errors"
)

// Decode reads one frame's raw bytes from src at rec's location and
// unpacks it into a Frame per plan, honoring opts.ConvertToGray and
// opts.FlipVertical. A pixel buffer allocation that panics with an
// out-of-memory condition surfaces as ErrOutOfMemory rather than
// crashing the process (spec §7); a short chunk is returned as
// *ErrTruncatedFrame, and seek or read failures, including a short
// read, are returned wrapped with context.
func Decode(src Source, rec FrameRecord, plan DecodePlan, opts Options) (Frame, error) {
	need := int64(plan.Stride) * int64(plan.Height)
	if rec.ByteSize < need {
		return Frame{}, &ErrTruncatedFrame{Expected: need, Got: rec.ByteSize}
	}

	if _, err := src.Seek(rec.FileOffset, io.SeekStart); err != nil {
		return Frame{}, errors.Wrap(err, "decode seek")
	}
	buf, err := allocBytes(int(need))
	if err != nil {
		return Frame{}, err
	}
	if _, err := io.ReadFull(src, buf); err != nil {
		return Frame{}, errors.Wrap(err, "decode read")
	}

	// flip is true when the destination row advances with the source
	// row; this is the XOR of the plan's orientation and the caller's
	// requested vertical flip (spec §4.5).
	flip := plan.TopDown != opts.FlipVertical
	destRow := func(i int) int {
		if flip {
			return i
		}
		return plan.Height - 1 - i
	}

	f := Frame{Width: plan.Width, Height: plan.Height}
	if plan.Layout == LayoutIndexedPalette {
		f.Palette = plan.Palette
	}

	if wantsGrayOutput(plan, opts) {
		out, err := allocBytes(plan.Width * plan.Height)
		if err != nil {
			return Frame{}, err
		}
		for i := 0; i < plan.Height; i++ {
			row := buf[i*plan.Stride:]
			d := destRow(i) * plan.Width
			decodeGrayRow(plan, row, out[d:d+plan.Width])
		}
		f.Gray8 = out
		return f, nil
	}

	out, err := allocUint32s(plan.Width * plan.Height)
	if err != nil {
		return Frame{}, err
	}
	for i := 0; i < plan.Height; i++ {
		row := buf[i*plan.Stride:]
		d := destRow(i) * plan.Width
		decodeColorRow(plan, row, out[d:d+plan.Width], opts)
	}
	f.RGBA32 = out
	return f, nil
}

// allocBytes allocates a []byte of n bytes, recovering from a
// runtime out-of-memory panic and reporting it as ErrOutOfMemory. Any
// other panic is not this function's to handle and is re-raised.
func allocBytes(n int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			if !isOutOfMemory(r) {
				panic(r)
			}
			err = ErrOutOfMemory
		}
	}()
	buf = make([]byte, n)
	return buf, nil
}

// allocUint32s is allocBytes for a []uint32 pixel buffer.
func allocUint32s(n int) (buf []uint32, err error) {
	defer func() {
		if r := recover(); r != nil {
			if !isOutOfMemory(r) {
				panic(r)
			}
			err = ErrOutOfMemory
		}
	}()
	buf = make([]uint32, n)
	return buf, nil
}

// isOutOfMemory reports whether a recovered panic value looks like the
// runtime's out-of-memory or allocation-too-large condition, as
// opposed to some other programming error that should keep propagating
// as a panic rather than be swallowed.
func isOutOfMemory(r interface{}) bool {
	err, ok := r.(error)
	if !ok {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "out of memory") ||
		strings.Contains(msg, "cannot allocate memory") ||
		strings.Contains(msg, "len out of range") ||
		strings.Contains(msg, "cap out of range")
}

// wantsGrayOutput reports whether plan's layout is inherently a single
// byte per pixel, or the caller asked for grayscale conversion.
func wantsGrayOutput(plan DecodePlan, opts Options) bool {
	switch plan.Layout {
	case LayoutIndexedPalette, LayoutGray8, LayoutGray16:
		return true
	default:
		return opts.ConvertToGray
	}
}

// decodeGrayRow unpacks one source row into out, one byte per pixel.
func decodeGrayRow(plan DecodePlan, row []byte, out []byte) {
	switch plan.Layout {
	case LayoutIndexedPalette, LayoutGray8:
		// Source byte passes straight through; palette resolution is
		// deferred to the display collaborator.
		copy(out, row[:len(out)])

	case LayoutGray16:
		for x := range out {
			// The most significant byte carries the luma value.
			out[x] = row[x*2+1]
		}

	case LayoutRGB:
		bpp := plan.Bits / 8
		for x := range out {
			off := x * bpp
			b, g, r := int(row[off]), int(row[off+1]), int(row[off+2])
			out[x] = clamp8((b*934 + g*4809 + r*2449 + 4096) >> 13)
		}

	default:
		// Packed YUV layouts: luma is passed through untouched, no
		// 16-235 -> 0-255 rescaling (spec §4.5). The chroma-before-luma
		// layouts (UYVY, AYUV) advance one byte before the luma stride.
		lumaStart, stride := lumaLayout(plan.Layout)
		for x := range out {
			out[x] = row[lumaStart+x*stride]
		}
	}
}

// lumaLayout returns the byte offset of the first luma sample and the
// byte stride between consecutive luma samples for a packed YUV
// layout (spec §4.5, "For gray from YUV").
func lumaLayout(l Layout) (start, stride int) {
	switch l {
	case LayoutUYVY:
		return 1, 2
	case LayoutAYUV:
		return 1, 4
	default: // YUY2, YVYU: luma leads each sample pair.
		return 0, 2
	}
}

// decodeColorRow unpacks one source row into out, one packed 0xAARRGGBB
// int per pixel.
func decodeColorRow(plan DecodePlan, row []byte, out []uint32, opts Options) {
	switch plan.Layout {
	case LayoutRGB:
		bpp := plan.Bits / 8
		for x := range out {
			off := x * bpp
			b, g, r := uint32(row[off]), uint32(row[off+1]), uint32(row[off+2])
			out[x] = 0xff000000 | b | g<<8 | r<<16
		}

	case LayoutYUY2:
		decodePairs(row, out, 0, 1, 2, 3, opts) // Y0 U Y1 V
	case LayoutUYVY:
		decodePairs(row, out, 1, 0, 3, 2, opts) // U Y0 V Y1
	case LayoutYVYU:
		decodePairs(row, out, 0, 3, 2, 1, opts) // Y0 V Y1 U

	case LayoutAYUV:
		for x := range out {
			off := x * 4
			// row[off+0] is alpha, discarded.
			y := row[off+1]
			v := biasedSigned(row[off+2])
			u := biasedSigned(row[off+3])
			out[x] = yuvToRGB(y, u, v, opts)
		}
	}
}

// decodePairs unpacks a 4:2:2 packed row two pixels at a time. y0Off
// and y1Off are the byte offsets of the two luma samples within each
// 4-byte group; uOff and vOff locate the shared chroma samples.
func decodePairs(row []byte, out []uint32, y0Off, uOff, y1Off, vOff int, opts Options) {
	for p := 0; p < len(out); p += 2 {
		off := (p / 2) * 4
		u := biasedSigned(row[off+uOff])
		v := biasedSigned(row[off+vOff])
		out[p] = yuvToRGB(row[off+y0Off], u, v, opts)
		if p+1 < len(out) {
			out[p+1] = yuvToRGB(row[off+y1Off], u, v, opts)
		}
	}
}

// biasedSigned XORs a chroma byte with 0x80 and reinterprets it as a
// signed value in [-128, 127], biasing the "neutral" 128 sample to 0
// (spec §4.5).
func biasedSigned(b byte) int {
	return int(int8(b ^ 0x80))
}

// yuvToRGB converts one (y, u, v) sample to a packed 0xAARRGGBB int
// using the fixed-point coefficients of spec §4.5. These approximate
// BT.601 with a (y-16) black level folded into the chroma bias and are
// preserved verbatim to match the source's existing output bit-for-bit
// (spec §9, "YUV coefficients"); opts.ModernYUV optionally rescales
// luma from studio (16-235) to full (0-255) range first instead of
// silently changing the default.
func yuvToRGB(yByte byte, u, v int, opts Options) uint32 {
	y := int(yByte)
	if opts.ModernYUV {
		y = clampInt(((y-16)*255)/219, 0, 255)
	}
	r := (9535*y + 13074*v - 148464) >> 13
	g := (9535*y - 6660*v - 3203*u - 148464) >> 13
	b := (9535*y + 16531*u - 148464) >> 13
	return 0xff000000 | uint32(clamp8(r))<<16 | uint32(clamp8(g))<<8 | uint32(clamp8(b))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp8(v int) byte {
	return byte(clampInt(v, 0, 255))
}
