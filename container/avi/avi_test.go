package avi

import (
	"testing"
)

// testSink collects decoded frames in PutFrame order, for assertions.
type testSink struct {
	labels []string
	frames []Frame
}

func (s *testSink) PutFrame(label string, f Frame) error {
	s.labels = append(s.labels, label)
	s.frames = append(s.frames, f)
	return nil
}

func bytesEqual(t *testing.T, got, want []byte) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %d want %d (full got=%v want=%v)", i, got[i], want[i], got, want)
		}
	}
}

// S1: 2x2 indexed-palette frames, top-down, two frames whose decoded
// bytes and slice labels must match the frame's on-disk row order and
// the zero-based-at-first-frame timestamp convention.
func TestScenarioS1IndexedPaletteTwoFrames(t *testing.T) {
	palette := concat(
		paletteEntry(0, 0, 0),
		paletteEntry(255, 0, 0),
		paletteEntry(0, 255, 0),
		paletteEntry(0, 0, 255),
	)
	frame0 := []byte{0x00, 0x01, 0x00, 0x00, 0x02, 0x03, 0x00, 0x00}
	frame1 := []byte{0x03, 0x02, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}

	data := buildAVI(2, 2, negU32(2), 40000, 8, "", 4, palette, [][]byte{frame0, frame1}, 0)

	d, err := Open(newMemSource(data), Options{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.Plan.Layout != LayoutIndexedPalette {
		t.Fatalf("layout = %v, want LayoutIndexedPalette", d.Plan.Layout)
	}

	sink := &testSink{}
	if err := d.Decode(sink); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(sink.frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(sink.frames))
	}
	bytesEqual(t, sink.frames[0].Gray8, []byte{0, 1, 2, 3})
	bytesEqual(t, sink.frames[1].Gray8, []byte{3, 2, 1, 0})
	if sink.labels[0] != "0 s" {
		t.Errorf("label[0] = %q, want %q", sink.labels[0], "0 s")
	}
	if sink.labels[1] != "0.04 s" {
		t.Errorf("label[1] = %q, want %q", sink.labels[1], "0.04 s")
	}
}

// S2: 1x1 24-bit RGB bottom-up, checked both as packed color and as
// ConvertToGray output, per the literal RGB-pack and gray-weight
// formulas (not the apparently transposed worked numbers in the source
// scenario).
func TestScenarioS2RGB24BottomUp(t *testing.T) {
	frame := []byte{0x10, 0x20, 0x30, 0} // B, G, R, pad
	data := buildAVI(1, 1, 1, 40000, 24, "", 0, nil, [][]byte{frame}, 0)

	d, err := Open(newMemSource(data), Options{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.Plan.Layout != LayoutRGB || d.Plan.TopDown {
		t.Fatalf("plan = %+v, want bottom-up RGB", d.Plan)
	}

	sink := &testSink{}
	if err := d.Decode(sink); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := uint32(0xff000000 | 0x10 | 0x20<<8 | 0x30<<16)
	if sink.frames[0].RGBA32[0] != want {
		t.Errorf("RGBA32[0] = %#x, want %#x", sink.frames[0].RGBA32[0], want)
	}

	grayData := buildAVI(1, 1, 1, 40000, 24, "", 0, nil, [][]byte{frame}, 0)
	gd, err := Open(newMemSource(grayData), Options{ConvertToGray: true}, nil)
	if err != nil {
		t.Fatalf("Open (gray): %v", err)
	}
	graySink := &testSink{}
	if err := gd.Decode(graySink); err != nil {
		t.Fatalf("Decode (gray): %v", err)
	}
	wantGray := byte((16*934 + 32*4809 + 48*2449 + 4096) >> 13)
	if graySink.frames[0].Gray8[0] != wantGray {
		t.Errorf("Gray8[0] = %d, want %d", graySink.frames[0].Gray8[0], wantGray)
	}
}

// S3: 2x1 YUY2, one full-white sample and one full-black sample.
func TestScenarioS3YUY2(t *testing.T) {
	frame := []byte{235, 128, 16, 128} // Y0 U Y1 V
	data := buildAVI(1, 2, 1, 40000, 16, "YUY2", 0, nil, [][]byte{frame}, 0)

	d, err := Open(newMemSource(data), Options{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sink := &testSink{}
	if err := d.Decode(sink); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if sink.frames[0].RGBA32[0] != 0xFFFFFFFF {
		t.Errorf("pixel0 = %#x, want 0xFFFFFFFF", sink.frames[0].RGBA32[0])
	}
	if sink.frames[0].RGBA32[1] != 0xFF000000 {
		t.Errorf("pixel1 = %#x, want 0xFF000000", sink.frames[0].RGBA32[1])
	}
}

// S4: 2x1 UYVY, two neutral mid-gray samples.
func TestScenarioS4UYVY(t *testing.T) {
	frame := []byte{128, 128, 128, 128} // U Y0 V Y1
	data := buildAVI(1, 2, 1, 40000, 16, "UYVY", 0, nil, [][]byte{frame}, 0)

	d, err := Open(newMemSource(data), Options{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sink := &testSink{}
	if err := d.Decode(sink); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := uint32(0xFF000000 | uint32(130)<<16 | uint32(130)<<8 | 130)
	if sink.frames[0].RGBA32[0] != want || sink.frames[0].RGBA32[1] != want {
		t.Errorf("pixels = %#x, %#x, want both %#x", sink.frames[0].RGBA32[0], sink.frames[0].RGBA32[1], want)
	}
}

// S5: a negative LastFrameNumber resolves against total_frames, and the
// configured range excludes frames outside [first, last].
func TestScenarioS5FrameRange(t *testing.T) {
	var frames [][]byte
	for i := 0; i < 10; i++ {
		frames = append(frames, []byte{byte(i), 0, 0, 0})
	}
	palette := concat(paletteEntry(0, 0, 0), paletteEntry(255, 255, 255))
	data := buildAVI(10, 1, 1, 40000, 8, "", 2, palette, frames, 0)

	d, err := Open(newMemSource(data), Options{FirstFrameNumber: 3, LastFrameNumber: -1}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	stack, err := d.BuildVirtualStack()
	if err != nil {
		t.Fatalf("BuildVirtualStack: %v", err)
	}
	if stack.Size() != 7 {
		t.Fatalf("stack size = %d, want 7 (frames 3..9)", stack.Size())
	}
	if _, err := stack.Get(2); err != ErrIndexOutOfRange {
		t.Errorf("Get(2) err = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := stack.Get(10); err != ErrIndexOutOfRange {
		t.Errorf("Get(10) err = %v, want ErrIndexOutOfRange", err)
	}
	f, err := stack.Get(3)
	if err != nil {
		t.Fatalf("Get(3): %v", err)
	}
	if f.Gray8[0] != 2 {
		t.Errorf("frame 3 byte = %d, want 2 (frames[2])", f.Gray8[0])
	}
}

// S6: a non-video stream preceding the accepted video stream shifts the
// movie chunk id to "01db" and is otherwise skipped.
func TestScenarioS6PrecedingAudioStream(t *testing.T) {
	palette := concat(
		paletteEntry(0, 0, 0),
		paletteEntry(255, 0, 0),
		paletteEntry(0, 255, 0),
		paletteEntry(0, 0, 255),
	)
	frame0 := []byte{0x00, 0x01, 0x00, 0x00, 0x02, 0x03, 0x00, 0x00}
	data := buildAVIWithPrecedingAudio(1, 2, negU32(2), 40000, 8, "", 4, palette, [][]byte{frame0})

	d, err := Open(newMemSource(data), Options{}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.streamNumber != 1 {
		t.Fatalf("streamNumber = %d, want 1", d.streamNumber)
	}
	sink := &testSink{}
	if err := d.Decode(sink); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(sink.frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(sink.frames))
	}
	bytesEqual(t, sink.frames[0].Gray8, []byte{0, 1, 2, 3})
}

func TestOpenRejectsNonRIFF(t *testing.T) {
	_, err := Open(newMemSource([]byte("not a riff file at all....")), Options{}, nil)
	if err != ErrNotAnAvi {
		t.Fatalf("err = %v, want ErrNotAnAvi", err)
	}
}

func TestOpenRejectsMultisampleVideoStream(t *testing.T) {
	strl := list("strl", concat(
		chunk("strh", strhPayload("vids", 2)),
		chunk("strf", strfPayload(1, 1, 24, "", 0, nil)),
	))
	hdrl := list("hdrl", concat(chunk("avih", avihPayload(40000, 1, 1, 1)), strl))
	riffPayload := concat(hdrl, list("movi", nil))
	data := concat([]byte("RIFF"), u32le(uint32(len(riffPayload)+4)), []byte("AVI "), riffPayload)

	_, err := Open(newMemSource(data), Options{}, nil)
	if _, ok := err.(*ErrUnsupportedMultisample); !ok {
		t.Fatalf("err = %v (%T), want *ErrUnsupportedMultisample", err, err)
	}
}

// negU32 returns -v encoded as a uint32, for building a negative
// (top-down) biHeight field via the uint32-typed test helpers.
func negU32(v int32) uint32 { return uint32(-v) }
