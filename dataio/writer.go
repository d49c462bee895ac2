package dataio

import (
	"fmt"
	"io"

	"github.com/icza/bitio"
	"github.com/pchchv/mutf8"
)

// Writer writes framed MUTF-8 strings.
// Output is buffered unless the underlying writer implements io.ByteWriter;
// call Flush or Close to write it out.
// A Writer is not safe for concurrent use.
type Writer struct {
	bw  *bitio.Writer
	buf []byte
}

// NewWriter returns a new Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bitio.NewWriter(w)}
}

// WriteUTF writes s as a UTF string. Invalid UTF-8 in s is written as U+FFFD.
// If the encoding of s exceeds MaxUTFLen bytes nothing is written and
// an error wrapping ErrTooLong is returned.
func (w *Writer) WriteUTF(s string) error {
	if n := mutf8.StringLen(s); n > MaxUTFLen {
		return fmt.Errorf("dataio.Writer.WriteUTF: %d bytes: %w", n, ErrTooLong)
	}

	w.buf = mutf8.AppendString(w.buf[:0], s)
	return w.writeUTF("dataio.Writer.WriteUTF")
}

// WriteUTF16 writes the code units as a UTF string.
// If their encoding exceeds MaxUTFLen bytes nothing is written and
// an error wrapping ErrTooLong is returned.
func (w *Writer) WriteUTF16(units []uint16) error {
	if n := mutf8.LenUTF16(units); n > MaxUTFLen {
		return fmt.Errorf("dataio.Writer.WriteUTF16: %d bytes: %w", n, ErrTooLong)
	}

	w.buf = mutf8.AppendUTF16(w.buf[:0], units)
	return w.writeUTF("dataio.Writer.WriteUTF16")
}

// WriteCString writes s as MUTF-8 followed by a zero byte.
// Null characters in s are encoded and do not end the string.
func (w *Writer) WriteCString(s string) error {
	w.buf = append(mutf8.AppendString(w.buf[:0], s), 0)
	if _, err := w.bw.Write(w.buf); err != nil {
		return fmt.Errorf("dataio.Writer.WriteCString: %w", err)
	}
	return nil
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if _, err := w.bw.Align(); err != nil {
		return fmt.Errorf("dataio.Writer.Flush: %w", err)
	}
	return nil
}

// Close flushes the Writer. It does not close the underlying io.Writer.
func (w *Writer) Close() error {
	if err := w.bw.Close(); err != nil {
		return fmt.Errorf("dataio.Writer.Close: %w", err)
	}
	return nil
}

// writeUTF writes the length prefix and the encoded bytes in w.buf.
func (w *Writer) writeUTF(op string) error {
	// 16 bits: length
	if err := w.bw.WriteBits(uint64(len(w.buf)), 16); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := w.bw.Write(w.buf); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
