/*
NAME
  header.go

DESCRIPTION
  header.go parses the avih and strh chunks into AviHeader and
  StreamHeader (component C). The non-video stream counter that
  governs which NNdb/NNdc chunk ids the movie iterator later looks for
  is kept by Open in avi.go, from the StreamKind parsed here (spec
  §4.3, §9 Open Question).

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

// AviHeader holds the fields read verbatim from the avih chunk. Width
// and Height here are informational; BitmapInfo's biWidth/biHeight
// govern decoding.
type AviHeader struct {
	MicrosPerFrame uint32
	TotalFrames    uint32
	Width, Height  uint32

	// Retained verbatim for reporting; not otherwise interpreted.
	MaxBytesPerSec     uint32
	PaddingGranularity uint32
	Flags              uint32
	Streams            uint32
}

// avihSize is the fixed byte size of the avih struct on disk.
const avihSize = 14 * 4

// parseAVIH reads the 56-byte avih payload. end is not consulted; the
// scanner seeks past the whole chunk afterwards.
func parseAVIH(r *reader, end int64) (AviHeader, error) {
	var h AviHeader
	var err error
	if h.MicrosPerFrame, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "avih micros_per_frame")
	}
	if h.MaxBytesPerSec, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "avih max_bytes_per_sec")
	}
	if h.PaddingGranularity, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "avih padding_granularity")
	}
	if h.Flags, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "avih flags")
	}
	if h.TotalFrames, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "avih total_frames")
	}
	// InitialFrames, ignored.
	if _, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "avih initial_frames")
	}
	if h.Streams, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "avih streams")
	}
	// SuggestedBufferSize, ignored.
	if _, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "avih suggested_buffer_size")
	}
	if h.Width, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "avih width")
	}
	if h.Height, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "avih height")
	}
	// 4 reserved uint32 fields.
	for i := 0; i < 4; i++ {
		if _, err = r.readU32LE(); err != nil {
			return h, errors.Wrap(err, "avih reserved")
		}
	}
	return h, nil
}

// StreamHeader holds the fields read from a video strh chunk.
type StreamHeader struct {
	StreamKind FourCC
	SampleSize uint32
}

// parseSTRH reads the fixed-size strh payload. end is not consulted;
// the scanner seeks past the whole chunk afterwards. It returns the
// parsed header only; the caller compares StreamKind against vids.
// Non-video streams are not an error; the caller increments its
// streamNumber counter and keeps looking.
func parseSTRH(r *reader, end int64) (StreamHeader, error) {
	var h StreamHeader
	var err error
	if h.StreamKind, err = r.readFourCC(); err != nil {
		return h, errors.Wrap(err, "strh stream_kind")
	}
	// fccHandler, ignored here (format resolver reads compression from strf).
	if _, err = r.readFourCC(); err != nil {
		return h, errors.Wrap(err, "strh handler")
	}
	// Flags.
	if _, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "strh flags")
	}
	// Priority, Language (two uint16 fields).
	if _, err = r.readU16LE(); err != nil {
		return h, errors.Wrap(err, "strh priority")
	}
	if _, err = r.readU16LE(); err != nil {
		return h, errors.Wrap(err, "strh language")
	}
	// InitialFrames.
	if _, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "strh initial_frames")
	}
	// Scale, Rate, Start, Length.
	for _, name := range []string{"scale", "rate", "start", "length"} {
		if _, err = r.readU32LE(); err != nil {
			return h, errors.Wrapf(err, "strh %s", name)
		}
	}
	// SuggestedBufferSize, Quality.
	if _, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "strh suggested_buffer_size")
	}
	if _, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "strh quality")
	}
	if h.SampleSize, err = r.readU32LE(); err != nil {
		return h, errors.Wrap(err, "strh sample_size")
	}
	// Multi-sample-per-chunk streams are only unsupported for the video
	// stream this package decodes; the caller checks SampleSize once it
	// knows whether this strh belongs to the accepted vids stream.
	// Frame rectangle (4 x uint16), ignored; frame dimensions come
	// from strf's BITMAPINFO.
	for i := 0; i < 4; i++ {
		if _, err = r.readU16LE(); err != nil {
			return h, errors.Wrap(err, "strh frame rect")
		}
	}
	return h, nil
}
