// Package bundle writes the content-addressed artifact tree a search
// session reads from: one entry manifest plus per-language meta, index,
// filter, and fragment files, each gzip-framed with the pagefind_dcd magic
// prefix.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pagefind-go/pagefind/internal/codec"
)

// WriteBehavior controls how Writer.writeRaw treats an already-present
// destination file.
type WriteBehavior int

const (
	// Disk always (re)writes the file.
	Disk WriteBehavior = iota
	// Immutable skips the write if the destination already exists: content-
	// addressed filenames mean an existing file's contents are assumed
	// identical to what would be written.
	Immutable
	// Synthetic never touches disk; the write is only collected into the
	// returned file list.
	Synthetic
)

// File is one artifact produced by a write, relative to the bundle root.
type File struct {
	Path     string
	Contents []byte
}

// createRetryDelay is how long Writer waits between os.Create attempts
// when file creation fails transiently (e.g. momentary contention from a
// concurrent writer on a shared filesystem).
const createRetryDelay = 100 * time.Millisecond

// createMaxAttempts bounds the create-retry loop so a permanently
// unwritable destination fails instead of hanging.
const createMaxAttempts = 20

// Writer places artifacts under a bundle root directory. In synthetic
// mode nothing is written to disk; every write is instead collected and
// returned to the caller as an in-memory (path, bytes) pair.
type Writer struct {
	root      string
	synthetic bool
	files     []File
}

// NewWriter returns a Writer rooted at root. If synthetic is true, writes
// are collected in memory instead of touching disk.
func NewWriter(root string, synthetic bool) *Writer {
	return &Writer{root: root, synthetic: synthetic}
}

// Files returns every file collected so far in synthetic mode.
func (w *Writer) Files() []File {
	return w.files
}

// writeFramed gzip-compresses body with the pagefind_dcd magic prefix and
// writes it under relPath using behavior.
func (w *Writer) writeFramed(relPath string, body []byte, behavior WriteBehavior) error {
	framed, err := codec.EncodeFrame(body)
	if err != nil {
		return fmt.Errorf("bundle: frame %s: %w", relPath, err)
	}
	return w.writeRaw(relPath, framed, behavior)
}

// writeRaw writes body verbatim (no gzip framing) under relPath.
func (w *Writer) writeRaw(relPath string, body []byte, behavior WriteBehavior) error {
	if w.synthetic || behavior == Synthetic {
		w.files = append(w.files, File{Path: relPath, Contents: body})
		return nil
	}

	fullPath := filepath.Join(w.root, relPath)

	if behavior == Immutable {
		if _, err := os.Stat(fullPath); err == nil {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("bundle: create dir for %s: %w", relPath, err)
	}

	var f *os.File
	var err error
	for attempt := 0; attempt < createMaxAttempts; attempt++ {
		f, err = os.Create(fullPath)
		if err == nil {
			break
		}
		time.Sleep(createRetryDelay)
	}
	if err != nil {
		return fmt.Errorf("bundle: create %s: %w", relPath, err)
	}
	defer f.Close()

	if _, err := f.Write(body); err != nil {
		return fmt.Errorf("bundle: write %s: %w", relPath, err)
	}
	return nil
}
