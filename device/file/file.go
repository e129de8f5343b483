/*
DESCRIPTION
  file.go provides a random-access, seekable file handle used as the
  avi.Source collaborator for container/avi: it opens a path on disk
  and exposes Read/Seek/Len so a Decoder can scan and decode an AVI
  file without loading it into memory.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package file provides a seekable avi.Source backed by an on-disk file.
package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ausocean/utils/logging"
)

// AVFile is a seekable, mutex-guarded handle on a media file. It
// implements io.Reader, io.Seeker and Len, satisfying container/avi's
// Source interface.
type AVFile struct {
	f    *os.File
	path string
	log  logging.Logger
	mu   sync.Mutex
}

// NewWith returns a new AVFile with its path already set; call Start
// before reading.
func NewWith(l logging.Logger, path string) *AVFile {
	return &AVFile{log: l, path: path}
}

// Start opens the file at the configured path.
func (m *AVFile) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var err error
	m.f, err = os.Open(m.path)
	if err != nil {
		return fmt.Errorf("could not open media file: %w", err)
	}
	return nil
}

// Stop closes the file such that any further reads will fail.
func (m *AVFile) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.f.Close()
}

// Read implements io.Reader. If Start has not been called, or Start has
// been called and Stop has since been called, an error is returned.
func (m *AVFile) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return 0, errors.New("AV file is closed, AVFile not started")
	}
	return m.f.Read(p)
}

// Seek implements io.Seeker, giving container/avi's scanner and decoder
// random access to the underlying file.
func (m *AVFile) Seek(offset int64, whence int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return 0, errors.New("AV file is closed, AVFile not started")
	}
	return m.f.Seek(offset, whence)
}

// Len returns the total size of the file in bytes.
func (m *AVFile) Len() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return 0
	}
	info, err := m.f.Stat()
	if err != nil {
		if m.log != nil {
			m.log.Warning("could not stat AV file", "error", err.Error())
		}
		return 0
	}
	return info.Size()
}
