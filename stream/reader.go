// Package stream provides buffered reading and writing of MUTF-8 byte
// streams one UTF-16 code unit, or one rune, at a time.
package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pchchv/mutf8"
	"github.com/pchchv/mutf8/internal/bufseekio"
	"go.uber.org/zap"
)

// ErrNotSeekable is returned by Reader.Seek when the underlying reader does
// not implement io.Seeker.
var ErrNotSeekable = errors.New("stream.Reader.Seek: underlying reader is not an io.Seeker")

// byteReader is the buffered source of a Reader.
type byteReader interface {
	io.Reader
	io.ByteReader
}

// Reader decodes code units from a MUTF-8 byte stream.
// A Reader is not safe for concurrent use.
type Reader struct {
	// Buffered source; a *bufseekio.ReadSeeker if the
	// underlying reader implements io.Seeker, a *bufio.Reader otherwise.
	br byteReader
	// Seeker of br; nil if unsupported.
	seeker io.Seeker
	// Number of bytes consumed from br.
	off int64
	// A code unit read ahead by ReadRune, returned by the next read.
	peeked  bool
	peek    uint16
	peekLen int
}

// NewReader returns a new Reader decoding MUTF-8 from r.
// If r implements io.ReadSeeker the returned Reader supports Seek.
func NewReader(r io.Reader) *Reader {
	if rs, ok := r.(io.ReadSeeker); ok {
		brs := bufseekio.NewReadSeeker(rs)
		return &Reader{br: brs, seeker: brs}
	}
	return &Reader{br: bufio.NewReader(r)}
}

// Offset returns the offset, in bytes from the start of the stream, of the
// next code unit to be read.
func (r *Reader) Offset() int64 {
	if r.peeked {
		return r.off - int64(r.peekLen)
	}
	return r.off
}

// ReadUnit reads and returns the next code unit.
//
// At the end of the stream it returns io.EOF. If the stream ends inside a
// sequence it returns io.ErrUnexpectedEOF, and if the stream is not valid
// MUTF-8 an error wrapping mutf8.ErrInvalid. The stream should be considered
// corrupt after any error other than io.EOF.
func (r *Reader) ReadUnit() (uint16, error) {
	u, _, err := r.readUnit()
	return u, err
}

// ReadUnits reads up to len(dst) code units into dst
// and returns the number of units read.
// It returns io.EOF only if no unit was read.
func (r *Reader) ReadUnits(dst []uint16) (int, error) {
	for i := range dst {
		u, _, err := r.readUnit()
		if err != nil {
			if err == io.EOF && i > 0 {
				return i, nil
			}
			return i, err
		}
		dst[i] = u
	}
	return len(dst), nil
}

// ReadRune reads a single rune and returns it together with its size in
// bytes. A surrogate pair is returned as one rune; a surrogate that is not
// part of a well-formed pair is returned as utf8.RuneError (U+FFFD) and the
// unit following it, if any, is kept for the next read.
// ReadRune implements io.RuneReader.
func (r *Reader) ReadRune() (rune, int, error) {
	u, n, err := r.readUnit()
	if err != nil {
		return 0, 0, err
	}

	c := rune(u)
	switch {
	case !utf16.IsSurrogate(c):
		return c, n, nil
	case u >= 0xDC00:
		// low surrogate without a high one
		return utf8.RuneError, n, nil
	}

	start := r.off
	u2, n2, err := mutf8.ReadUnit(r.br)
	r.off += int64(n2)
	switch {
	case err == io.EOF:
		return utf8.RuneError, n, nil
	case err != nil:
		return 0, 0, r.fail(start, err)
	case u2 < 0xDC00 || u2 > 0xDFFF:
		r.peeked, r.peek, r.peekLen = true, u2, n2
		return utf8.RuneError, n, nil
	}
	return utf16.DecodeRune(c, rune(u2)), n + n2, nil
}

// Seek sets the offset for the next read, interpreted according to whence as
// by io.Seeker, and discards any partially decoded state. The offset should be
// the start of an encoded code unit; otherwise the next read fails with
// mutf8.ErrInvalid.
//
// Seek returns ErrNotSeekable if the underlying reader is not an io.Seeker.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	if r.seeker == nil {
		return 0, ErrNotSeekable
	}

	if whence == io.SeekCurrent {
		offset += r.Offset()
		whence = io.SeekStart
	}

	pos, err := r.seeker.Seek(offset, whence)
	if err != nil {
		return pos, fmt.Errorf("stream.Reader.Seek: %w", err)
	}

	r.off = pos
	r.peeked = false
	Logger().Debug("stream seek", zap.Int64("offset", pos))
	return pos, nil
}

// readUnit returns the next code unit and the number of bytes encoding it.
func (r *Reader) readUnit() (uint16, int, error) {
	if r.peeked {
		r.peeked = false
		return r.peek, r.peekLen, nil
	}

	start := r.off
	u, n, err := mutf8.ReadUnit(r.br)
	r.off += int64(n)
	if err != nil {
		if err == io.EOF {
			return 0, 0, io.EOF
		}
		return 0, 0, r.fail(start, err)
	}
	return u, n, nil
}

// fail logs a decoding error of the sequence starting at off and
// returns it annotated with the offset.
func (r *Reader) fail(off int64, err error) error {
	Logger().Debug("stream decode failed", zap.Int64("offset", off), zap.Error(err))
	if err == io.ErrUnexpectedEOF {
		return err
	}
	return fmt.Errorf("stream.Reader: sequence at offset %d: %w", off, err)
}
