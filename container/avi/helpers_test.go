package avi

import (
	"encoding/binary"
	"io"
)

// memSource is an in-memory Source used throughout this package's tests
// to synthesize minimal RIFF/AVI byte streams without touching disk.
type memSource struct {
	data []byte
	pos  int64
}

func newMemSource(b []byte) *memSource { return &memSource{data: b} }

func (m *memSource) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memSource) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = m.pos + offset
	case io.SeekEnd:
		next = int64(len(m.data)) + offset
	}
	if next < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	m.pos = next
	return m.pos, nil
}

func (m *memSource) Len() int64 { return int64(len(m.data)) }

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func u16le(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func i32le(v int32) []byte { return u32le(uint32(v)) }

// chunk wraps payload in a FourCC+size frame, padding with a zero byte
// if payload's length is odd (RIFF's 2-byte alignment rule).
func chunk(tag string, payload []byte) []byte {
	out := append([]byte(nil), []byte(tag)...)
	out = append(out, u32le(uint32(len(payload)))...)
	out = append(out, payload...)
	if len(payload)%2 != 0 {
		out = append(out, 0)
	}
	return out
}

// list wraps payload in a "LIST" chunk carrying a secondary FourCC.
func list(tag string, payload []byte) []byte {
	inner := append([]byte(nil), []byte(tag)...)
	inner = append(inner, payload...)
	return chunk("LIST", inner)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// avihPayload builds a 56-byte avih chunk body.
func avihPayload(micros, totalFrames, width, height uint32) []byte {
	b := u32le(micros)
	b = append(b, u32le(0)...)           // max_bytes_per_sec
	b = append(b, u32le(0)...)           // padding_granularity
	b = append(b, u32le(0)...)           // flags
	b = append(b, u32le(totalFrames)...) // total_frames
	b = append(b, u32le(0)...)           // initial_frames
	b = append(b, u32le(1)...)           // streams
	b = append(b, u32le(0)...)           // suggested_buffer_size
	b = append(b, u32le(width)...)
	b = append(b, u32le(height)...)
	for i := 0; i < 4; i++ {
		b = append(b, u32le(0)...) // reserved
	}
	return b
}

// strhPayload builds a strh chunk body for a stream of the given kind
// ("vids" or "auds"), with the given sample_size.
func strhPayload(kind string, sampleSize uint32) []byte {
	b := append([]byte(nil), []byte(kind)...)
	b = append(b, []byte("    ")...) // handler, unused
	b = append(b, u32le(0)...)       // flags
	b = append(b, u16le(0)...)       // priority
	b = append(b, u16le(0)...)       // language
	b = append(b, u32le(0)...)       // initial_frames
	b = append(b, u32le(1)...)       // scale
	b = append(b, u32le(25)...)      // rate
	b = append(b, u32le(0)...)       // start
	b = append(b, u32le(0)...)       // length
	b = append(b, u32le(0)...)       // suggested_buffer_size
	b = append(b, u32le(0)...)       // quality
	b = append(b, u32le(sampleSize)...)
	for i := 0; i < 4; i++ {
		b = append(b, u16le(0)...) // frame rect
	}
	return b
}

// strfPayload builds a BITMAPINFOHEADER chunk body, plus an optional
// trailing palette.
func strfPayload(width, height int32, bitCount uint16, compression string, colorsUsed uint32, palette []byte) []byte {
	b := u32le(40) // biSize
	b = append(b, i32le(width)...)
	b = append(b, i32le(height)...)
	b = append(b, u16le(1)...) // planes
	b = append(b, u16le(bitCount)...)
	var comp []byte
	if compression == "" {
		comp = []byte{0, 0, 0, 0}
	} else {
		comp = []byte(compression)
		for len(comp) < 4 {
			comp = append(comp, ' ')
		}
	}
	b = append(b, comp[:4]...)
	b = append(b, u32le(0)...) // size_image
	b = append(b, u32le(0)...) // x_pels
	b = append(b, u32le(0)...) // y_pels
	b = append(b, u32le(colorsUsed)...)
	b = append(b, u32le(0)...) // important
	b = append(b, palette...)
	return b
}

// paletteEntry builds one 4-byte BGR-reserved palette entry.
func paletteEntry(r, g, b byte) []byte {
	return []byte{b, g, r, 0}
}

// buildAVI assembles a minimal single-video-stream AVI file: RIFF/AVI
// containing LIST hdrl (avih, LIST strl (strh, strf)) and LIST movi
// holding frames, each wrapped in the given stream's "NNdb" chunk id.
func buildAVI(totalFrames, width, height uint32, micros uint32, bitCount uint16, compression string, colorsUsed uint32, palette []byte, frames [][]byte, streamNumber int) []byte {
	strl := list("strl", concat(
		chunk("strh", strhPayload("vids", 0)),
		chunk("strf", strfPayload(int32(width), int32(height), bitCount, compression, colorsUsed, palette)),
	))
	hdrl := list("hdrl", concat(
		chunk("avih", avihPayload(micros, totalFrames, width, height)),
		strl,
	))

	db, _ := streamChunkIDs(streamNumber)
	var movi []byte
	for _, f := range frames {
		movi = append(movi, chunk(db.String(), f)...)
	}

	riffPayload := concat(hdrl, list("movi", movi))
	return concat([]byte("RIFF"), u32le(uint32(len(riffPayload)+4)), []byte("AVI "), riffPayload)
}

// buildAVIWithPrecedingAudio is like buildAVI but inserts a non-video
// "auds" strl before the "vids" strl, so the accepted stream's number
// is 1 and its movie chunks are "01db".
func buildAVIWithPrecedingAudio(totalFrames, width, height uint32, micros uint32, bitCount uint16, compression string, colorsUsed uint32, palette []byte, frames [][]byte) []byte {
	audsStrl := list("strl", chunk("strh", strhPayload("auds", 2)))
	vidsStrl := list("strl", concat(
		chunk("strh", strhPayload("vids", 0)),
		chunk("strf", strfPayload(int32(width), int32(height), bitCount, compression, colorsUsed, palette)),
	))
	hdrl := list("hdrl", concat(
		chunk("avih", avihPayload(micros, totalFrames, width, height)),
		audsStrl,
		vidsStrl,
	))

	db, _ := streamChunkIDs(1)
	var movi []byte
	for _, f := range frames {
		movi = append(movi, chunk(db.String(), f)...)
	}

	riffPayload := concat(hdrl, list("movi", movi))
	return concat([]byte("RIFF"), u32le(uint32(len(riffPayload)+4)), []byte("AVI "), riffPayload)
}
