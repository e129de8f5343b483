/*
NAME
  stack.go

DESCRIPTION
  stack.go implements the virtual (lazy) frame index (component G): it
  stores FrameRecords in discovery order and decodes on demand via
  Decode, plus a gonum/stat-backed luma statistic, generalizing the
  turbidity probe's sharpness/contrast scoring in cmd/rv/probe.go from
  a live capture buffer to any decoded avi frame.

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
	"math"
	"strconv"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// indexedRecord pairs a FrameRecord with the 1-based frame number it
// was discovered at. Deletion removes an entry but never renumbers or
// reorders the entries that remain (spec §3 invariant 4).
type indexedRecord struct {
	number int
	rec    FrameRecord
}

// VirtualStack is a lazy collection of frames, indexed by file
// position and decoded on demand (spec §6 Glossary, "Virtual stack").
// The byte source is a shared handle, so every Get acquires the
// stack's mutex for the duration of the seek+decode (spec §5).
type VirtualStack struct {
	mu      sync.Mutex
	src     Source
	plan    DecodePlan
	opts    Options
	entries []indexedRecord
}

// NewVirtualStack returns an empty VirtualStack decoding frames from
// src per plan and opts.
func NewVirtualStack(src Source, plan DecodePlan, opts Options) *VirtualStack {
	return &VirtualStack{src: src, plan: plan, opts: opts}
}

// Append records a matched movie-data chunk under its 1-based frame
// number, in discovery order.
func (s *VirtualStack) Append(number int, rec FrameRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, indexedRecord{number: number, rec: rec})
}

// Size returns the number of frames currently in the stack.
func (s *VirtualStack) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *VirtualStack) find(n int) (int, bool) {
	for i, e := range s.entries {
		if e.number == n {
			return i, true
		}
	}
	return 0, false
}

// Get decodes and returns the frame numbered n (1-based). A number not
// present in the stack is a programming error (ErrIndexOutOfRange),
// distinct from a data error.
func (s *VirtualStack) Get(n int) (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(n)
	if !ok {
		return Frame{}, ErrIndexOutOfRange
	}
	return Decode(s.src, s.entries[i].rec, s.plan, s.opts)
}

// Delete removes frame n from the stack, preserving the order of the
// entries that remain.
func (s *VirtualStack) Delete(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(n)
	if !ok {
		return ErrIndexOutOfRange
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return nil
}

// SliceLabel returns frame n's display label, "<seconds> s" with up to
// three decimal places (spec §6).
func (s *VirtualStack) SliceLabel(n int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(n)
	if !ok {
		return "", ErrIndexOutOfRange
	}
	return sliceLabel(s.entries[i].rec.TimestampMicros), nil
}

// Stats decodes frame n and returns the mean and standard deviation of
// its luma, via gonum/stat.
func (s *VirtualStack) Stats(n int) (mean, stddev float64, err error) {
	f, err := s.Get(n)
	if err != nil {
		return 0, 0, err
	}
	return frameLumaStats(f)
}

// frameLumaStats computes the mean/stddev of f's luma channel,
// deriving it from RGBA32 via the same BT.601-ish weights as the RGB
// gray decode path when f isn't already single-channel.
func frameLumaStats(f Frame) (mean, stddev float64, err error) {
	vals := make([]float64, 0, f.Width*f.Height)
	switch {
	case f.Gray8 != nil:
		for _, b := range f.Gray8 {
			vals = append(vals, float64(b))
		}
	default:
		for _, px := range f.RGBA32 {
			r := float64((px >> 16) & 0xff)
			g := float64((px >> 8) & 0xff)
			b := float64(px & 0xff)
			vals = append(vals, (b*934+g*4809+r*2449+4096)/8192)
		}
	}
	mean, stddev = stat.MeanStdDev(vals, nil)
	return mean, stddev, nil
}

// sliceLabel formats a timestamp in microseconds as "<seconds> s",
// rounded to three decimal places (spec §6).
func sliceLabel(micros uint64) string {
	seconds := math.Round(float64(micros)/1e3) / 1e3
	return strconv.FormatFloat(seconds, 'f', -1, 64) + " s"
}
