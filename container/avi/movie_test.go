package avi

import "testing"

func TestMovieIteratorFiltersStreamAndSkipsOthers(t *testing.T) {
	data := concat(
		chunk("00db", []byte{1, 2, 3, 4}),
		chunk("01wb", []byte{9, 9}), // a different stream's audio data
		chunk("JUNK", []byte{0, 0}),
		chunk("00db", []byte{5, 6, 7, 8}),
	)
	r := newReader(newMemSource(data))
	it, err := newMovieIterator(r, 0, int64(len(data)), 0, 40000, 1, 1<<63-1)
	if err != nil {
		t.Fatalf("newMovieIterator: %v", err)
	}

	rec1, n1, ok, err := it.Next()
	if err != nil || !ok {
		t.Fatalf("Next #1: ok=%v err=%v", ok, err)
	}
	if n1 != 1 || rec1.TimestampMicros != 0 {
		t.Errorf("frame #1 = %+v, number %d, want number 1, timestamp 0", rec1, n1)
	}

	rec2, n2, ok, err := it.Next()
	if err != nil || !ok {
		t.Fatalf("Next #2: ok=%v err=%v", ok, err)
	}
	if n2 != 2 || rec2.TimestampMicros != 40000 {
		t.Errorf("frame #2 = %+v, number %d, want number 2, timestamp 40000", rec2, n2)
	}

	if _, _, ok, err := it.Next(); ok || err != nil {
		t.Fatalf("Next #3: ok=%v err=%v, want false, nil", ok, err)
	}
}

func TestMovieIteratorHonorsFirstFrameNumber(t *testing.T) {
	data := concat(
		chunk("00db", []byte{1}),
		chunk("00db", []byte{2}),
		chunk("00db", []byte{3}),
	)
	r := newReader(newMemSource(data))
	it, err := newMovieIterator(r, 0, int64(len(data)), 0, 1000, 2, 1<<63-1)
	if err != nil {
		t.Fatalf("newMovieIterator: %v", err)
	}
	rec, n, ok, err := it.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if n != 2 {
		t.Errorf("first yielded frame number = %d, want 2", n)
	}
	if rec.TimestampMicros != 1000 {
		t.Errorf("timestamp = %d, want 1000 (1-based ordinal 2 => (2-1)*1000)", rec.TimestampMicros)
	}
}

func TestMovieIteratorHonorsLastFrameNumber(t *testing.T) {
	data := concat(
		chunk("00db", []byte{1}),
		chunk("00db", []byte{2}),
		chunk("00db", []byte{3}),
	)
	r := newReader(newMemSource(data))
	it, err := newMovieIterator(r, 0, int64(len(data)), 0, 1000, 1, 2)
	if err != nil {
		t.Fatalf("newMovieIterator: %v", err)
	}
	var got []int
	for {
		_, n, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, n)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got = %v, want [1 2]", got)
	}
}
