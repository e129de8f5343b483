/*
NAME
  scanner.go

DESCRIPTION
  scanner.go implements the recursive RIFF chunk scanner (component B):
  FourCC/size framing, JUNK skipping, LIST recursion, and the
  find_and_read search primitive described in spec §4.2. A recursive
  find_and_read is used rather than an explicit state machine since the
  RIFF tree here is shallow and bounded (spec §9, "Recursive scanner vs
  state machine").

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

// chunkParser is invoked once find_and_read matches the requested
// chunk type. payloadEnd bounds the chunk's content; the parser must
// not read past it. Trailing bytes within payloadEnd that the parser
// doesn't consume are silently ignored by the caller's subsequent seek.
type chunkParser func(r *reader, payloadEnd int64) error

// findAndRead advances through sibling chunks in [tell(), end) looking
// for target. JUNK chunks are skipped unconditionally. When isList is
// true, a LIST chunk's secondary FourCC is substituted for its type
// before the comparison, so the caller can search for "hdrl" and match
// a "LIST hdrl" chunk directly. required controls whether running out
// of chunks before finding target is an error or simply "not found".
func findAndRead(r *reader, target FourCC, isList bool, end int64, required bool, parse chunkParser) (bool, error) {
	for {
		pos, err := r.tell()
		if err != nil {
			return false, errors.Wrap(err, "find_and_read tell")
		}
		if pos >= end {
			if required {
				return false, &ErrMissingChunk{Chunk: target}
			}
			return false, nil
		}

		typ, err := r.readFourCC()
		if err != nil {
			return false, errors.Wrap(err, "find_and_read chunk type")
		}
		if typ == 0 {
			if required {
				return false, &ErrMissingChunk{Chunk: target}
			}
			return false, nil
		}

		size, err := r.readU32LE()
		if err != nil {
			return false, errors.Wrap(err, "find_and_read chunk size")
		}
		payloadStart, err := r.tell()
		if err != nil {
			return false, errors.Wrap(err, "find_and_read tell")
		}
		nextPos := payloadStart + int64(size)

		if typ == fccJUNK {
			if err := r.seek(align2(nextPos)); err != nil {
				return false, errors.Wrap(err, "find_and_read skip JUNK")
			}
			continue
		}

		effective := typ
		if isList && typ == fccLIST {
			inner, err := r.readFourCC()
			if err != nil {
				return false, errors.Wrap(err, "find_and_read LIST type")
			}
			effective = inner
		}

		if effective == target {
			if parse != nil {
				if err := parse(r, nextPos); err != nil {
					return false, err
				}
			}
			if err := r.seek(align2(nextPos)); err != nil {
				return false, errors.Wrap(err, "find_and_read advance")
			}
			return true, nil
		}

		if err := r.seek(align2(nextPos)); err != nil {
			return false, errors.Wrap(err, "find_and_read skip chunk")
		}
	}
}

// riffBounds validates the file begins with a RIFF/AVI signature and
// returns the end offset of the RIFF payload (the exclusive bound for
// top-level chunk scanning).
func riffBounds(r *reader) (int64, error) {
	if err := r.seek(0); err != nil {
		return 0, errors.Wrap(err, "riff seek start")
	}
	sig, err := r.readFourCC()
	if err != nil {
		return 0, errors.Wrap(err, "riff signature")
	}
	if sig != fccRIFF {
		return 0, ErrNotAnAvi
	}
	size, err := r.readU32LE()
	if err != nil {
		return 0, errors.Wrap(err, "riff size")
	}
	payloadStart, err := r.tell()
	if err != nil {
		return 0, errors.Wrap(err, "riff tell")
	}
	end := payloadStart + int64(size)

	avi, err := r.readFourCC()
	if err != nil {
		return 0, errors.Wrap(err, "riff form type")
	}
	if avi != fccAVI {
		return 0, ErrNotAnAvi
	}
	return end, nil
}
