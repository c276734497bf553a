package dataset

// streaming.go provides the readers that sit between the file and the CSV parser:
//
//   - skipBOM: drops a leading UTF-8 byte order mark (0xEF 0xBB 0xBF)
//   - utf8Validator: fails with ErrInvalidEncoding on the first invalid sequence
//   - limitedReader: fails with ErrFileTooLarge once a byte budget is exceeded
//
// Invalid bytes are never replaced. A file that is not UTF-8 is reported to
// the caller as a decode failure.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader positioned after the UTF-8 BOM, if r starts with one.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// utf8Validator passes through bytes that form valid UTF-8. Runes split
// across reads are held back until they are complete.
type utf8Validator struct {
	r      io.Reader
	buf    []byte // validated bytes not yet handed out
	tail   []byte // start of a rune that continues in the next read
	offset int64  // number of bytes validated so far
	err    error
}

func newUTF8Validator(r io.Reader) *utf8Validator {
	return &utf8Validator{r: r}
}

// Read implements io.Reader.
func (v *utf8Validator) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(v.buf) == 0 {
		if v.err != nil {
			return 0, v.err
		}
		v.fill(len(p))
	}
	n := copy(p, v.buf)
	v.buf = v.buf[n:]
	return n, nil
}

func (v *utf8Validator) fill(size int) {
	if size < 512 {
		size = 512
	}
	chunk := make([]byte, len(v.tail), len(v.tail)+size)
	copy(chunk, v.tail)
	n, err := v.r.Read(chunk[len(v.tail):cap(chunk)])
	chunk = chunk[:len(v.tail)+n]
	v.tail = nil

	atEOF := err == io.EOF
	valid, bad := validPrefix(chunk, atEOF)
	v.buf = chunk[:valid]
	v.offset += int64(valid)

	switch {
	case bad:
		v.err = fmt.Errorf("%w: invalid byte sequence at offset %d", ErrInvalidEncoding, v.offset)
	case err != nil:
		v.err = err
		if valid < len(chunk) {
			v.tail = chunk[valid:]
		}
	default:
		v.tail = append([]byte(nil), chunk[valid:]...)
	}
}

// validPrefix returns the length of the longest prefix of data made of
// complete, valid runes. bad reports an invalid sequence at that position;
// an unfinished rune at the end only counts as invalid when atEOF is set.
func validPrefix(data []byte, atEOF bool) (valid int, bad bool) {
	i := 0
	for i < len(data) {
		if data[i] < utf8.RuneSelf {
			i++
			continue
		}
		if !utf8.FullRune(data[i:]) {
			return i, atEOF
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i, true
		}
		i += size
	}
	return i, false
}

// limitedReader fails once more than max bytes have been read.
type limitedReader struct {
	r         io.Reader
	max       int64
	BytesRead int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.BytesRead += int64(n)
	if l.max > 0 && l.BytesRead > l.max {
		return 0, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, l.max)
	}
	return n, err
}
