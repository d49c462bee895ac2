package stream

import (
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/icza/bitio"
	"github.com/pchchv/mutf8"
	"golang.org/x/text/encoding"
)

// Writer encodes code units, runes and UTF-8 text as MUTF-8.
// Output is buffered; call Flush or Close to write it out.
// A Writer is not safe for concurrent use.
type Writer struct {
	bw *bitio.Writer
	// Scratch space for one encoded code unit.
	buf [mutf8.MaxLen]byte
	// Leading bytes of an incomplete UTF-8 sequence passed to Write.
	partial [utf8.UTFMax]byte
	npart   int
}

// NewWriter returns a new Writer encoding MUTF-8 to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bitio.NewWriter(w)}
}

// WriteUnit writes the encoding of the code unit c. Any value is accepted,
// including lone surrogates.
func (w *Writer) WriteUnit(c uint16) error {
	n := mutf8.EncodeUnit(w.buf[:], c)
	if _, err := w.bw.Write(w.buf[:n]); err != nil {
		return fmt.Errorf("stream.Writer.WriteUnit: %w", err)
	}
	return nil
}

// WriteUnits writes the encoding of each code unit of units
// and returns the number of units written.
func (w *Writer) WriteUnits(units []uint16) (int, error) {
	for i, c := range units {
		if err := w.WriteUnit(c); err != nil {
			return i, err
		}
	}
	return len(units), nil
}

// WriteRune writes the encoding of r and returns the number of bytes written.
// Runes outside the Basic Multilingual Plane are written as a surrogate pair;
// invalid runes are written as U+FFFD.
func (w *Writer) WriteRune(r rune) (int, error) {
	if r < 0 || r > utf8.MaxRune || utf16.IsSurrogate(r) {
		r = utf8.RuneError
	}

	if r < 0x10000 {
		c := uint16(r)
		if err := w.WriteUnit(c); err != nil {
			return 0, err
		}
		return mutf8.UnitLen(c), nil
	}

	hi, lo := utf16.EncodeRune(r)
	if err := w.WriteUnit(uint16(hi)); err != nil {
		return 0, err
	}
	if err := w.WriteUnit(uint16(lo)); err != nil {
		return mutf8.MaxLen, err
	}
	return 2 * mutf8.MaxLen, nil
}

// WriteString writes the encoding of s and returns the number of bytes
// written. Invalid UTF-8 in s is written as U+FFFD.
func (w *Writer) WriteString(s string) (int, error) {
	var total int
	for _, r := range s {
		n, err := w.WriteRune(r)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Write encodes the UTF-8 text p. A rune split across calls to Write is kept
// until the rest of it arrives. Write returns the number of bytes of p
// consumed; invalid UTF-8 stops the write with encoding.ErrInvalidUTF8.
// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	var n int
	for w.npart > 0 && n < len(p) {
		w.partial[w.npart] = p[n]
		w.npart++
		n++

		part := w.partial[:w.npart]
		if !utf8.FullRune(part) {
			continue
		}

		r, size := utf8.DecodeRune(part)
		if r == utf8.RuneError && size <= 1 || size != w.npart {
			return n, fmt.Errorf("stream.Writer.Write: %w", encoding.ErrInvalidUTF8)
		}

		w.npart = 0
		if _, err := w.WriteRune(r); err != nil {
			return n, err
		}
	}

	for n < len(p) {
		if c := p[n]; c < utf8.RuneSelf {
			if err := w.WriteUnit(uint16(c)); err != nil {
				return n, err
			}
			n++
			continue
		}

		if !utf8.FullRune(p[n:]) {
			w.npart = copy(w.partial[:], p[n:])
			return len(p), nil
		}

		r, size := utf8.DecodeRune(p[n:])
		if r == utf8.RuneError && size == 1 {
			return n, fmt.Errorf("stream.Writer.Write: %w", encoding.ErrInvalidUTF8)
		}

		if _, err := w.WriteRune(r); err != nil {
			return n, err
		}
		n += size
	}
	return n, nil
}

// Flush writes any buffered data to the underlying io.Writer.
// A partial rune kept by Write is not written.
func (w *Writer) Flush() error {
	if _, err := w.bw.Align(); err != nil {
		return fmt.Errorf("stream.Writer.Flush: %w", err)
	}
	return nil
}

// Close flushes the Writer. It does not close the underlying io.Writer.
// If a partial rune passed to Write is still incomplete, Close flushes the
// preceding output and returns encoding.ErrInvalidUTF8.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}

	if w.npart > 0 {
		Logger().Debug("stream writer closed with a partial rune")
		w.npart = 0
		return fmt.Errorf("stream.Writer.Close: truncated rune: %w", encoding.ErrInvalidUTF8)
	}
	return nil
}
