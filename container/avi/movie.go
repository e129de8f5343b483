/*
NAME
  movie.go

DESCRIPTION
  movie.go implements the movie iterator (component E): it walks the
  movi list, filters to the selected stream's "NNdb"/"NNdc" chunk
  types, honors the configured frame range, and yields FrameRecords in
  on-disk (== index) order.

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

// FrameRecord locates one matched movie-data chunk for later (or
// immediate) decoding.
type FrameRecord struct {
	FileOffset      int64
	ByteSize        int64
	TimestampMicros uint64
}

// MovieIterator walks the movi chunk's contents, emitting one
// FrameRecord per matched db/dc chunk for the selected stream, in
// discovery (on-disk) order.
//
// Frame numbering is 1-based starting at the first matched chunk
// (spec §4.4). Its timestamp is zero at the first frame and advances
// by micros_per_frame per subsequent frame, matching the worked
// example in spec §8 scenario S1 (first decoded frame labelled "0 s").
type MovieIterator struct {
	r              *reader
	end            int64
	db, dc         FourCC
	microsPerFrame uint32
	first          int
	last           int64
	ordinal        int
}

// newMovieIterator constructs an iterator over the movi payload
// [start, end), matching stream_number's db/dc chunk types and
// emitting frames in [first, last] (both 1-based inclusive).
func newMovieIterator(r *reader, start, end int64, streamNumber int, microsPerFrame uint32, first int, last int64) (*MovieIterator, error) {
	if err := r.seek(start); err != nil {
		return nil, errors.Wrap(err, "movie iterator seek")
	}
	db, dc := streamChunkIDs(streamNumber)
	return &MovieIterator{
		r:              r,
		end:            end,
		db:             db,
		dc:             dc,
		microsPerFrame: microsPerFrame,
		first:          first,
		last:           last,
	}, nil
}

// Next returns the next in-range FrameRecord and its 1-based frame
// number, or ok=false once the movi list or the configured last frame
// is exhausted.
func (m *MovieIterator) Next() (FrameRecord, int, bool, error) {
	for {
		if int64(m.ordinal) >= m.last {
			return FrameRecord{}, 0, false, nil
		}

		pos, err := m.r.tell()
		if err != nil {
			return FrameRecord{}, 0, false, errors.Wrap(err, "movie iterator tell")
		}
		if pos >= m.end {
			return FrameRecord{}, 0, false, nil
		}

		typ, err := m.r.readFourCC()
		if err != nil {
			return FrameRecord{}, 0, false, errors.Wrap(err, "movie iterator chunk type")
		}
		if typ == 0 {
			return FrameRecord{}, 0, false, nil
		}

		size, err := m.r.readU32LE()
		if err != nil {
			return FrameRecord{}, 0, false, errors.Wrap(err, "movie iterator chunk size")
		}
		payloadStart, err := m.r.tell()
		if err != nil {
			return FrameRecord{}, 0, false, errors.Wrap(err, "movie iterator tell")
		}
		nextPos := payloadStart + int64(size)

		if typ != m.db && typ != m.dc {
			// JUNK, nested "LIST rec ", audio "wb", or anything else:
			// skip by size.
			if err := m.r.seek(align2(nextPos)); err != nil {
				return FrameRecord{}, 0, false, errors.Wrap(err, "movie iterator skip")
			}
			continue
		}

		m.ordinal++
		rec := FrameRecord{
			FileOffset:      payloadStart,
			ByteSize:        int64(size),
			TimestampMicros: uint64(m.ordinal-1) * uint64(m.microsPerFrame),
		}
		number := m.ordinal
		if err := m.r.seek(align2(nextPos)); err != nil {
			return FrameRecord{}, 0, false, errors.Wrap(err, "movie iterator advance")
		}

		if number < m.first {
			continue
		}
		return rec, number, true, nil
	}
}
