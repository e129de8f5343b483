/*
NAME
  fourcc.go

DESCRIPTION
  fourcc.go defines the FourCC tag type used throughout the AVI (RIFF)
  container for chunk identification and compression tagging.

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

// FourCC is a 32-bit tag interpreted as four ASCII bytes in source order.
// On disk it is stored as a little-endian uint32, so byte 0 of the tag
// occupies the low byte of the integer.
type FourCC uint32

// fourCC builds a FourCC from its four ASCII characters, in on-disk order.
func fourCC(a, b, c, d byte) FourCC {
	return FourCC(a) | FourCC(b)<<8 | FourCC(c)<<16 | FourCC(d)<<24
}

// String renders the FourCC as its four ASCII characters.
func (f FourCC) String() string {
	b := [4]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	return string(b[:])
}

// Chunk and list type tags.
var (
	fccRIFF = fourCC('R', 'I', 'F', 'F')
	fccAVI  = fourCC('A', 'V', 'I', ' ')
	fccLIST = fourCC('L', 'I', 'S', 'T')
	fccJUNK = fourCC('J', 'U', 'N', 'K')
	fccHdrl = fourCC('h', 'd', 'r', 'l')
	fccStrl = fourCC('s', 't', 'r', 'l')
	fccAvih = fourCC('a', 'v', 'i', 'h')
	fccStrh = fourCC('s', 't', 'r', 'h')
	fccStrf = fourCC('s', 't', 'r', 'f')
	fccMovi = fourCC('m', 'o', 'v', 'i')
	fccIdx1 = fourCC('i', 'd', 'x', '1')
	fccVids = fourCC('v', 'i', 'd', 's')
)

// Compression FourCCs recognised by the format resolver (spec §4.3).
var (
	fccRGB  = fourCC('R', 'G', 'B', ' ')
	fccRAW  = fourCC('R', 'A', 'W', ' ')
	fccY800 = fourCC('Y', '8', '0', '0')
	fccY8   = fourCC('Y', '8', ' ', ' ')
	fccGREY = fourCC('G', 'R', 'E', 'Y')
	fccY16  = fourCC('Y', '1', '6', ' ')
	fccAYUV = fourCC('A', 'Y', 'U', 'V')
	fccUYVY = fourCC('U', 'Y', 'V', 'Y')
	fccUYNV = fourCC('U', 'Y', 'N', 'V')
	fccCYUV = fourCC('c', 'y', 'u', 'v')
	fccV422 = fourCC('V', '4', '2', '2')
	fccYUY2 = fourCC('Y', 'U', 'Y', '2')
	fccYUNV = fourCC('Y', 'U', 'N', 'V')
	fccYUYV = fourCC('Y', 'U', 'Y', 'V')
	fccYVYU = fourCC('Y', 'V', 'Y', 'U')
)

// isList reports whether t is the LIST tag.
func isList(t FourCC) bool { return t == fccLIST }

// streamChunkIDs returns the two FourCCs (db, dc variants) that carry
// movie data for the video stream numbered streamNumber, per the
// "NNdb"/"NNdc" contract in spec §4.4: the two low bytes spell the
// two ASCII digits of the stream index, the two high bytes are 'd'
// and 'b' or 'c'.
func streamChunkIDs(streamNumber int) (db, dc FourCC) {
	tens := byte('0' + (streamNumber/10)%10)
	ones := byte('0' + streamNumber%10)
	db = fourCC(tens, ones, 'd', 'b')
	dc = fourCC(tens, ones, 'd', 'c')
	return db, dc
}
