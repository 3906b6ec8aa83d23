package core

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// lineScanner reads lines like bufio.Scanner, but a line longer than the buffer is reported through TooLong and
// skipped instead of ending the scan.
type lineScanner struct {
	r       *bufio.Reader
	line    string
	tooLong bool
	err     error
}

func newLineScanner(r io.Reader, size int) *lineScanner {
	return &lineScanner{r: bufio.NewReaderSize(r, size)}
}

func (s *lineScanner) Scan() bool {
	s.line = ""
	s.tooLong = false
	for {
		chunk, err := s.r.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			s.tooLong = true
			continue
		}
		if !s.tooLong {
			s.line = strings.TrimSuffix(strings.TrimSuffix(string(chunk), "\n"), "\r")
		}
		if errors.Is(err, io.EOF) {
			return len(chunk) != 0 || s.tooLong
		}
		if err != nil {
			s.err = err
			return false
		}
		return true
	}
}

func (s *lineScanner) Text() string {
	return s.line
}

// TooLong reports whether the current line overflowed the buffer, Text is then empty
func (s *lineScanner) TooLong() bool {
	return s.tooLong
}

func (s *lineScanner) Err() error {
	return s.err
}
