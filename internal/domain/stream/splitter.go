// Package stream turns a newline-delimited byte stream into decoded game
// records without ever materializing more than one line in memory.
package stream

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Default splitter configuration constants.
const (
	defaultChunkSize = 32 * 1024
)

// Option applies a configuration option to the LineSplitter.
type Option func(*LineSplitter)

// WithChunkSize sets the read chunk size.
func WithChunkSize(n int) Option {
	return func(s *LineSplitter) {
		if n > 0 {
			s.chunk = make([]byte, n)
		}
	}
}

// LineSplitter emits complete newline-stripped lines from an io.Reader,
// buffering at most one partial line between reads. Splitting happens on the
// newline byte alone, so a multi-byte rune straddling two chunks stays intact
// in the pending buffer until its line completes.
type LineSplitter struct {
	r       io.Reader
	chunk   []byte
	pending []byte
	done    bool
}

// NewLineSplitter creates a splitter over r with configuration options.
func NewLineSplitter(r io.Reader, opts ...Option) *LineSplitter {
	s := &LineSplitter{r: r}
	for _, opt := range opts {
		opt(s)
	}
	if s.chunk == nil {
		s.chunk = make([]byte, defaultChunkSize)
	}
	return s
}

// Next returns the next complete line with its newline stripped. It returns
// io.EOF once the stream is exhausted; any other error is a transport fault
// wrapped with ErrTransport. An unterminated non-whitespace tail at end of
// stream is flushed as one final line.
func (s *LineSplitter) Next() (string, error) {
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := s.pending[:i]
			s.pending = s.pending[i+1:]
			return trimCR(line), nil
		}
		if s.done {
			return s.flushTail()
		}
		n, err := s.r.Read(s.chunk)
		if n > 0 {
			s.pending = append(s.pending, s.chunk[:n]...)
		}
		if err == io.EOF {
			s.done = true
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}
}

func (s *LineSplitter) flushTail() (string, error) {
	if len(s.pending) == 0 {
		return "", io.EOF
	}
	tail := trimCR(s.pending)
	s.pending = nil
	if strings.TrimSpace(tail) == "" {
		return "", io.EOF
	}
	return tail, nil
}

func trimCR(b []byte) string {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		b = b[:n-1]
	}
	return string(b)
}
