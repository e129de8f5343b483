/*
DESCRIPTION
  aviprobe is a command-line client for container/avi: it opens an AVI
  file, reports its header and decode plan, and either walks a virtual
  frame index (reporting per-frame luma statistics) or eagerly decodes
  every matched frame in range to individual BMP images in an output
  directory.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package aviprobe is a command-line client for container/avi.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/avi/container/avi"
	"github.com/ausocean/avi/device/file"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v1.0.0"

// Logging configuration.
const (
	logPath      = "aviprobe.log"
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

const pkg = "aviprobe: "

func main() {
	showVersion := flag.Bool("version", false, "show version")
	in := flag.String("in", "", "path of the AVI file to probe")
	out := flag.String("out", "", "directory to write decoded BMP frames to; if empty, no frames are written")
	first := flag.Int("first", 1, "1-based first frame number to read")
	last := flag.Int("last", 0, "last frame number to read; 0 = until EOF, negative = total_frames + value")
	virtual := flag.Bool("virtual", false, "build a lazy frame index and report luma stats instead of decoding eagerly")
	gray := flag.Bool("gray", false, "force grayscale output for color sources")
	flip := flag.Bool("flip", false, "flip decoded frames vertically")
	modernYUV := flag.Bool("modern-yuv", false, "rescale YUV luma from studio to full range before applying the verbatim fixed-point coefficients")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, fileLog, logSuppress)
	log.Info("starting aviprobe", "version", version)

	if *in == "" {
		log.Fatal(pkg + "no input file given, use -in")
	}

	src := file.NewWith(log, *in)
	if err := src.Start(); err != nil {
		log.Fatal(pkg+"could not open input file", "error", err.Error())
	}
	defer src.Stop()

	opts := avi.Options{
		FirstFrameNumber: *first,
		LastFrameNumber:  *last,
		IsVirtual:        *virtual,
		ConvertToGray:    *gray,
		FlipVertical:     *flip,
		ModernYUV:        *modernYUV,
		Log:              log,
	}

	dec, err := avi.Open(src, opts, &reporter{log})
	if err != nil {
		log.Fatal(pkg+"could not open AVI container", "error", err.Error())
	}
	log.Info("decode plan resolved",
		"layout", dec.Plan.Layout.String(),
		"bits", dec.Plan.Bits,
		"width", dec.Plan.Width,
		"height", dec.Plan.Height,
		"total_frames", dec.Header.TotalFrames,
		"micros_per_frame", dec.Header.MicrosPerFrame,
	)

	if *out != "" {
		if err := os.MkdirAll(*out, 0o755); err != nil {
			log.Fatal(pkg+"could not create output directory", "error", err.Error())
		}
	}

	if opts.IsVirtual {
		runVirtual(log, dec, *out)
		return
	}
	runEager(log, dec, *out)
}

// reporter adapts a logging.Logger plus a simple progress print into
// the avi.Reporter collaborator (spec §6).
type reporter struct {
	logging.Logger
}

func (r *reporter) Progress(fraction float64) {
	fmt.Fprintf(os.Stderr, "\rprogress: %5.1f%%", fraction*100)
}

// runVirtual builds a lazy frame index and reports per-frame luma
// statistics without holding every decoded frame in memory at once.
func runVirtual(log logging.Logger, dec *avi.Decoder, out string) {
	stack, err := dec.BuildVirtualStack()
	if err != nil {
		log.Fatal(pkg+"could not build virtual stack", "error", err.Error())
	}
	fmt.Fprintf(os.Stderr, "\n")
	log.Info("virtual stack built", "frames", stack.Size())

	for n := 1; n <= stack.Size(); n++ {
		label, err := stack.SliceLabel(n)
		if err != nil {
			log.Error(pkg+"could not get slice label", "frame", n, "error", err.Error())
			continue
		}
		mean, stddev, err := stack.Stats(n)
		if err != nil {
			log.Error(pkg+"could not compute frame stats", "frame", n, "error", err.Error())
			continue
		}
		log.Info("frame", "n", n, "label", label, "luma_mean", mean, "luma_stddev", stddev)
		if out != "" {
			f, err := stack.Get(n)
			if err != nil {
				log.Error(pkg+"could not decode frame", "frame", n, "error", err.Error())
				continue
			}
			writeBMP(log, out, n, f)
		}
	}
}

// runEager decodes every matched frame in range, in order, writing each
// to out (when set) via a bmpSink.
func runEager(log logging.Logger, dec *avi.Decoder, out string) {
	sink := &bmpSink{log: log, dir: out}
	if err := dec.Decode(sink); err != nil {
		log.Fatal(pkg+"decode failed", "error", err.Error())
	}
	fmt.Fprintf(os.Stderr, "\n")
	log.Info("eager decode finished", "frames", sink.n)
}

// bmpSink implements avi.Sink, writing each decoded frame to a
// sequentially numbered BMP file under dir (when dir is non-empty).
type bmpSink struct {
	log logging.Logger
	dir string
	n   int
}

func (s *bmpSink) PutFrame(label string, f avi.Frame) error {
	s.n++
	s.log.Debug("decoded frame", "n", s.n, "label", label)
	if s.dir == "" {
		return nil
	}
	return writeBMP(s.log, s.dir, s.n, f)
}

// writeBMP renders a decoded Frame to an image.Image and writes it as
// a BMP to dir/frame-<n>.bmp.
func writeBMP(log logging.Logger, dir string, n int, f avi.Frame) error {
	path := filepath.Join(dir, fmt.Sprintf("frame-%05d.bmp", n))
	out, err := os.Create(path)
	if err != nil {
		log.Error(pkg+"could not create frame file", "path", path, "error", err.Error())
		return err
	}
	defer out.Close()

	img := frameToImage(f)
	if err := bmp.Encode(out, img); err != nil {
		log.Error(pkg+"could not encode frame", "path", path, "error", err.Error())
		return err
	}
	return nil
}

// frameToImage converts a decoded avi.Frame into a standard library
// image.Image for encoding; Gray8 frames (including indexed-palette
// frames, whose palette this probe does not resolve) become
// image.Gray, RGBA32 frames become image.NRGBA.
func frameToImage(f avi.Frame) image.Image {
	rect := image.Rect(0, 0, f.Width, f.Height)
	if f.Gray8 != nil {
		img := image.NewGray(rect)
		copy(img.Pix, f.Gray8)
		return img
	}
	img := image.NewNRGBA(rect)
	for i, px := range f.RGBA32 {
		r := uint8(px >> 16)
		g := uint8(px >> 8)
		b := uint8(px)
		a := uint8(px >> 24)
		img.SetNRGBA(i%f.Width, i/f.Width, color.NRGBA{R: r, G: g, B: b, A: a})
	}
	return img
}
