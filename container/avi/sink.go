/*
NAME
  sink.go

DESCRIPTION
  sink.go defines the pixel and reporting sink interfaces that model
  this package's external collaborators (spec §6): the interactive
  dialog, the image-stack display, and the file-open dialog all stay
  outside this module behind these abstractions.

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

// Palette is a 256-entry RGB color table for an indexed 8-bit frame.
// Only the first N entries (N = colors_used, or 1<<bits if unset) are
// meaningful; the rest are zeroed.
type Palette struct {
	R, G, B [256]uint8
	// N is the number of populated palette entries.
	N int
}

// Frame is a single decoded picture. Exactly one of Gray8 or RGBA32 is
// populated, selected by the DecodePlan's output mode (design note:
// "Polymorphic pixel output" in spec §9 — a tagged variant rather than
// per-layout subclasses).
type Frame struct {
	Width, Height int

	// Gray8 holds one byte per pixel for indexed-palette frames, Gray8/
	// Gray16 layouts, or any layout decoded with ConvertToGray set.
	Gray8 []byte

	// Palette is non-nil iff this Frame is 8-bit indexed. Palette
	// resolution is deliberately deferred to the display collaborator
	// (spec §9, "Indexed color carry-over") rather than resolved here.
	Palette *Palette

	// RGBA32 holds one packed 0xAARRGGBB-style int per pixel (alpha
	// fixed at 0xff) for color frames not converted to gray.
	RGBA32 []uint32
}

// Sink receives decoded frames, labelled with their slice label
// (spec §6, "<seconds> s").
type Sink interface {
	PutFrame(label string, f Frame) error
}

// Reporter is the structured logging and progress collaborator invoked
// during scanning and after each matched movie chunk (spec §6). It
// embeds logging.Logger directly, the same collaborator every other
// teacher component takes, plus the progress callback spec §6 adds.
type Reporter interface {
	logging.Logger
	Progress(fraction float64)
}

// nopReporter discards all log and progress calls. Used when a caller
// does not supply a Reporter.
type nopReporter struct{}

func (nopReporter) Log(lvl int8, msg string, args ...interface{}) {}
func (nopReporter) SetLevel(lvl int8)                             {}
func (nopReporter) Debug(msg string, args ...interface{})         {}
func (nopReporter) Info(msg string, args ...interface{})          {}
func (nopReporter) Warning(msg string, args ...interface{})       {}
func (nopReporter) Error(msg string, args ...interface{})         {}
func (nopReporter) Fatal(msg string, args ...interface{})         {}
func (nopReporter) Progress(fraction float64)                     {}
