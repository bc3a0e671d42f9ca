// Package stream reads and writes JSON lines inside zip archives.
package stream

import (
	"archive/zip"
	"encoding/json"
)

// Writer streams records as JSONL into one file of a zip archive.
type Writer struct {
	enc   *json.Encoder
	count int
}

// NewWriter creates path inside zw and returns a writer for it. The file is
// complete once the next file is created or zw is closed.
func NewWriter(zw *zip.Writer, path string) (*Writer, error) {
	w, err := zw.Create(path)
	if err != nil {
		return nil, err
	}
	return &Writer{enc: json.NewEncoder(w)}, nil
}

// Write encodes v as one line.
func (w *Writer) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns records written so far.
func (w *Writer) Count() int {
	return w.count
}
