package stream

import (
	"archive/zip"
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
)

// ErrFileNotFound indicates a file was not found in the archive.
var ErrFileNotFound = errors.New("file not found in backup")

// maxLine bounds a single record. Synopses can run long.
const maxLine = 4 << 20

// OpenFile finds and opens a file from a zip archive.
func OpenFile(zr *zip.Reader, path string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == path {
			return f.Open()
		}
	}
	return nil, ErrFileNotFound
}

// Reader streams records of type T from a JSONL file.
type Reader[T any] struct {
	rc      io.ReadCloser
	scanner *bufio.Scanner
}

// NewReader creates a streaming reader over rc. All closes rc when done.
func NewReader[T any](rc io.ReadCloser) *Reader[T] {
	s := bufio.NewScanner(rc)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader[T]{rc: rc, scanner: s}
}

// All returns an iterator over the records. A malformed line yields an
// error and iteration continues with the next line.
func (r *Reader[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer r.rc.Close()

		line := 0
		for r.scanner.Scan() {
			line++
			raw := r.scanner.Bytes()
			if len(raw) == 0 {
				continue
			}

			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				var zero T
				if !yield(zero, &LineError{Line: line, Err: err}) {
					return
				}
				continue
			}
			if !yield(v, nil) {
				return
			}
		}

		if err := r.scanner.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// LineError reports a line that failed to decode.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
