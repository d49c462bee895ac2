package dataio

import (
	"fmt"
	"io"

	"github.com/icza/bitio"
	"github.com/pchchv/mutf8"
)

// Reader reads framed MUTF-8 strings. It reads exactly the bytes of each
// string, so other data may be read from the same stream in between.
// A Reader is not safe for concurrent use.
type Reader struct {
	br  *bitio.Reader
	buf []byte
}

// NewReader returns a new Reader reading from r.
// If r does not implement io.ByteReader it is buffered.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bitio.NewReader(r)}
}

// ReadUTF reads a UTF string and returns it as UTF-8.
// Surrogates that are not part of a pair are replaced by U+FFFD.
//
// ReadUTF returns io.EOF if the stream is exhausted before the length prefix,
// and io.ErrUnexpectedEOF if it ends inside the string.
func (r *Reader) ReadUTF() (string, error) {
	p, err := r.readUTF()
	if err != nil {
		return "", err
	}

	s, err := mutf8.DecodeString(p)
	if err != nil {
		return "", fmt.Errorf("dataio.Reader.ReadUTF: %w", err)
	}
	return s, nil
}

// ReadUTF16 reads a UTF string and returns its UTF-16 code units unchanged.
func (r *Reader) ReadUTF16() ([]uint16, error) {
	p, err := r.readUTF()
	if err != nil {
		return nil, err
	}

	units, err := mutf8.DecodeUTF16(p)
	if err != nil {
		return nil, fmt.Errorf("dataio.Reader.ReadUTF16: %w", err)
	}
	return units, nil
}

// ReadCString reads a zero terminated MUTF-8 string and returns it as UTF-8,
// without the terminator.
//
// ReadCString returns io.EOF if the stream is exhausted before the first
// byte, and io.ErrUnexpectedEOF if it ends before the terminator.
func (r *Reader) ReadCString() (string, error) {
	r.buf = r.buf[:0]
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			if err == io.EOF && len(r.buf) > 0 {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}

		if b == 0 {
			break
		}
		r.buf = append(r.buf, b)
	}

	s, err := mutf8.DecodeString(r.buf)
	if err != nil {
		return "", fmt.Errorf("dataio.Reader.ReadCString: %w", err)
	}
	return s, nil
}

// readUTF reads the length prefix and body of a UTF string.
// The returned slice is valid until the next read.
func (r *Reader) readUTF() ([]byte, error) {
	// 8 bits: high byte of length
	hi, err := r.br.ReadBits(8)
	if err != nil {
		return nil, err
	}

	// 8 bits: low byte of length
	lo, err := r.br.ReadBits(8)
	if err != nil {
		return nil, unexpected(err)
	}

	n := int(hi<<8 | lo)
	if cap(r.buf) < n {
		r.buf = make([]byte, n)
	}
	r.buf = r.buf[:n]

	if _, err := io.ReadFull(r.br, r.buf); err != nil {
		return nil, unexpected(err)
	}
	return r.buf, nil
}

// unexpected returns io.ErrUnexpectedEOF if err is io.EOF,
// and returns err otherwise.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
