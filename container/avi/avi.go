/*
NAME
  avi.go

DESCRIPTION
  avi.go wires the byte reader, chunk scanner, header parsers, format
  resolver, movie iterator, frame decoder and virtual index into a
  single Open/Decoder entry point, following the control flow of
  spec §2: open source, scan to hdrl, fill header state, locate strl,
  read strh/strf, freeze a DecodePlan, locate movi, then either stream
  decoded frames into a Sink or build a VirtualStack.

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
	"github.com/pkg/errors"
)

// Decoder holds the immutable state accumulated while scanning an AVI
// container: its headers, the selected video stream's number, the
// frozen DecodePlan, and the movi region bounds. It is built once by
// Open and then driven by Decode or BuildVirtualStack.
type Decoder struct {
	src    Source
	r      *reader
	report Reporter
	opts   Options

	Header       AviHeader
	StreamHeader StreamHeader
	Plan         DecodePlan

	// streamNumber is the count of non-vids strl chunks preceding the
	// accepted video stream, frozen at acceptance time (spec §9 Open
	// Question).
	streamNumber int

	moviStart, moviEnd int64
}

// Open scans src's RIFF/AVI chunk tree, accepts the first vids stream,
// and freezes its DecodePlan. It does not read any movie data; call
// Decode or BuildVirtualStack to do that.
func Open(src Source, opts Options, report Reporter) (*Decoder, error) {
	if report == nil {
		report = nopReporter{}
	}
	opts.Validate()

	r := newReader(src)
	end, err := riffBounds(r)
	if err != nil {
		return nil, err
	}
	if end > src.Len() {
		end = src.Len()
	}

	d := &Decoder{src: src, r: r, report: report, opts: opts}
	report.Debug("validated RIFF/AVI signature")

	var bmp BitmapInfo
	var paletteBytes []byte

	_, err = findAndRead(r, fccHdrl, true, end, true, func(rr *reader, hdrlEnd int64) error {
		_, err := findAndRead(rr, fccAvih, false, hdrlEnd, true, func(rr2 *reader, avihEnd int64) error {
			h, err := parseAVIH(rr2, avihEnd)
			if err != nil {
				return err
			}
			d.Header = h
			report.Debug("parsed avih", "total_frames", h.TotalFrames, "micros_per_frame", h.MicrosPerFrame)
			return nil
		})
		if err != nil {
			return err
		}

		for {
			var sh StreamHeader
			var isVideo bool
			found, err := findAndRead(rr, fccStrl, true, hdrlEnd, false, func(rr3 *reader, strlEnd int64) error {
				_, err := findAndRead(rr3, fccStrh, false, strlEnd, true, func(rr4 *reader, strhEnd int64) error {
					h, err := parseSTRH(rr4, strhEnd)
					if err != nil {
						return err
					}
					sh = h
					isVideo = h.StreamKind == fccVids
					return nil
				})
				if err != nil {
					return err
				}
				if !isVideo {
					report.Info("non-video stream skipped", "stream_kind", sh.StreamKind.String())
					return nil
				}
				if sh.SampleSize > 1 {
					return &ErrUnsupportedMultisample{SampleSize: sh.SampleSize}
				}
				_, err = findAndRead(rr3, fccStrf, false, strlEnd, true, func(rr5 *reader, strfEnd int64) error {
					b, pal, err := parseSTRF(rr5, strfEnd)
					if err != nil {
						return err
					}
					bmp = b
					paletteBytes = pal
					return nil
				})
				return err
			})
			if err != nil {
				return err
			}
			if !found {
				return &ErrMissingChunk{Chunk: fccStrl}
			}
			if isVideo {
				d.StreamHeader = sh
				break
			}
			d.streamNumber++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	plan, err := resolvePlan(bmp, paletteBytes)
	if err != nil {
		return nil, err
	}
	d.Plan = plan
	report.Debug("resolved decode plan", "layout", plan.Layout, "bits", plan.Bits, "width", plan.Width, "height", plan.Height)

	found, err := findAndRead(r, fccMovi, true, end, true, func(rr *reader, moviEnd int64) error {
		start, err := rr.tell()
		if err != nil {
			return errors.Wrap(err, "movi tell")
		}
		d.moviStart = start
		d.moviEnd = moviEnd
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &ErrMissingChunk{Chunk: fccMovi}
	}

	return d, nil
}

// newIterator constructs a MovieIterator over this Decoder's movi
// region, honoring opts' frame range.
func (d *Decoder) newIterator() (*MovieIterator, error) {
	last := d.opts.lastFrameToRead(int(d.Header.TotalFrames))
	return newMovieIterator(d.r, d.moviStart, d.moviEnd, d.streamNumber, d.Header.MicrosPerFrame, d.opts.FirstFrameNumber, last)
}

// Decode streams every matched frame in the configured range into
// sink, in on-disk order. Only ErrOutOfMemory is treated as the
// recoverable condition spec §7 describes for eager stack
// construction: it is logged and ends the run early, leaving sink
// holding whatever frames were successfully decoded. Every other
// error ends the run and is returned to the caller; decode and sink
// errors are wrapped with the frame number.
func (d *Decoder) Decode(sink Sink) error {
	it, err := d.newIterator()
	if err != nil {
		return err
	}
	total := int(d.Header.TotalFrames)
	for {
		rec, number, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		f, err := Decode(d.src, rec, d.Plan, d.opts)
		if err != nil {
			if err == ErrOutOfMemory {
				d.report.Error("out of memory, stopping eager decode", "frame", number, "err", err.Error())
				return nil
			}
			return errors.Wrapf(err, "decode frame %d", number)
		}
		if err := sink.PutFrame(sliceLabel(rec.TimestampMicros), f); err != nil {
			return errors.Wrapf(err, "put frame %d", number)
		}
		if total > 0 {
			d.report.Progress(float64(number) / float64(total))
		}
	}
}

// BuildVirtualStack walks the configured frame range and records each
// matched chunk's location without decoding it, for later random
// access via VirtualStack.Get.
func (d *Decoder) BuildVirtualStack() (*VirtualStack, error) {
	it, err := d.newIterator()
	if err != nil {
		return nil, err
	}
	stack := NewVirtualStack(d.src, d.Plan, d.opts)
	total := int(d.Header.TotalFrames)
	for {
		rec, number, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return stack, nil
		}
		stack.Append(number, rec)
		if total > 0 {
			d.report.Progress(float64(number) / float64(total))
		}
	}
}
