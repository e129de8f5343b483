/*
NAME
  options.go

DESCRIPTION
  options.go defines the explicit, immutable decoding configuration
  (spec §6 Configuration), modelled on revid/config.Config's exported-
  field-plus-Validate style but kept as a value passed into the
  decoder constructor rather than retained as process-wide state
  (spec §9, "Global mutable configuration in the source").

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

import "github.com/ausocean/utils/logging"

// Options configures a single Open/Decode invocation. A zero Options
// decodes every frame from frame 1 to EOF in color, honoring whatever
// orientation the source declares.
type Options struct {
	// FirstFrameNumber is the 1-based inclusive first frame to read.
	// Defaults to 1.
	FirstFrameNumber int

	// LastFrameNumber is the inclusive last frame to read. >0 means an
	// absolute frame number, 0 means read until EOF, and <0 means
	// total_frames + LastFrameNumber (an "end minus k" frame).
	LastFrameNumber int

	// IsVirtual, if true, builds a VirtualStack of FrameRecords instead
	// of eagerly decoding pixels into a Sink.
	IsVirtual bool

	// ConvertToGray forces grayscale output for color sources.
	ConvertToGray bool

	// FlipVertical XORs the source's top_down flag, flipping the
	// decoded image vertically.
	FlipVertical bool

	// ModernYUV, if set, rescales luma from studio (16-235) to full
	// (0-255) range before the fixed-point YUV to RGB coefficients are
	// applied; the coefficients themselves are unchanged (spec §9,
	// "YUV coefficients"). Default false preserves bit-for-bit
	// compatible output.
	ModernYUV bool

	// Log receives structured scan/decode messages. If nil, a
	// discarding logger is used.
	Log logging.Logger
}

// Validate defaults unset fields in place, leaving FirstFrameNumber
// guaranteed >= 1.
func (o *Options) Validate() {
	if o.FirstFrameNumber < 1 {
		if o.Log != nil && o.FirstFrameNumber != 0 {
			o.Log.Info("FirstFrameNumber bad or unset, defaulting", "FirstFrameNumber", 1)
		}
		o.FirstFrameNumber = 1
	}
}

// lastFrameToRead resolves LastFrameNumber against totalFrames per
// spec §4.4: >0 absolute, 0 infinite (represented here as
// math.MaxInt64), <0 means totalFrames + LastFrameNumber.
func (o *Options) lastFrameToRead(totalFrames int) int64 {
	switch {
	case o.LastFrameNumber > 0:
		return int64(o.LastFrameNumber)
	case o.LastFrameNumber < 0:
		return int64(totalFrames) + int64(o.LastFrameNumber)
	default:
		return 1<<63 - 1
	}
}
