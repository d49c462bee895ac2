// Package bufseekio implements buffered reading from an io.ReadSeeker.
package bufseekio

import (
	"errors"
	"io"
)

const (
	defaultBufSize           = 4096
	minReadBufferSize        = 16
	maxConsecutiveEmptyReads = 100
)

var errNegativeRead = errors.New("bufseekio: reader returned negative count from Read")

// ReadSeeker implements buffering for an io.ReadSeeker object.
// ReadSeeker is based on bufio.Reader with
// Seek functionality added and unneeded functionality removed.
//
// Positions are relative to the position of the underlying read-seeker when
// the ReadSeeker was created, which is assumed to be its start.
type ReadSeeker struct {
	buf []byte
	pos int64         // absolute start position of buf
	rd  io.ReadSeeker // read-seeker provided by the client
	r   int           // buf read positions within buf
	w   int           // buf write positions within buf
	err error
}

// NewReadSeeker returns a new ReadSeeker whose buffer has the default size.
func NewReadSeeker(rd io.ReadSeeker) *ReadSeeker {
	return NewReadSeekerSize(rd, defaultBufSize)
}

// NewReadSeekerSize returns a new ReadSeeker whose buffer has at least the
// specified size. If rd is already a ReadSeeker with a large enough buffer,
// it returns rd.
func NewReadSeekerSize(rd io.ReadSeeker, size int) *ReadSeeker {
	if b, ok := rd.(*ReadSeeker); ok && len(b.buf) >= size {
		return b
	}

	if size < minReadBufferSize {
		size = minReadBufferSize
	}

	return &ReadSeeker{
		buf: make([]byte, size),
		rd:  rd,
	}
}

// Read reads data into p and returns the number of bytes read into p.
// The bytes are taken from at most one Read on the underlying reader,
// hence n may be less than len(p).
// At EOF, the count will be zero and err will be io.EOF.
func (b *ReadSeeker) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		if b.buffered() > 0 {
			return 0, nil
		}
		return 0, b.readErr()
	}

	if b.r == b.w {
		if b.err != nil {
			return 0, b.readErr()
		}

		if len(p) >= len(b.buf) {
			// large read with an empty buffer:
			// read directly into p to avoid a copy.
			n, b.err = b.rd.Read(p)
			if n < 0 {
				panic(errNegativeRead)
			}
			b.pos += int64(b.w) + int64(n)
			b.r, b.w = 0, 0
			return n, b.readErr()
		}

		// one read only, do not use b.fill, which loops.
		b.pos += int64(b.w)
		b.r, b.w = 0, 0
		n, b.err = b.rd.Read(b.buf)
		if n < 0 {
			panic(errNegativeRead)
		}
		if n == 0 {
			return 0, b.readErr()
		}
		b.w += n
	}

	n = copy(p, b.buf[b.r:b.w])
	b.r += n
	return n, nil
}

// ReadByte reads and returns a single byte.
// If no byte is available, returns an error.
func (b *ReadSeeker) ReadByte() (byte, error) {
	for b.r == b.w {
		if b.err != nil {
			return 0, b.readErr()
		}
		b.fill()
	}

	c := b.buf[b.r]
	b.r++
	return c, nil
}

// Seek implements the io.Seeker interface.
// A seek to a position inside the buffered data only moves the read
// position; otherwise the buffer is discarded and the seek is passed on to
// the underlying read-seeker.
func (b *ReadSeeker) Seek(offset int64, whence int) (int64, error) {
	if whence == io.SeekCurrent {
		offset += b.pos + int64(b.r)
		whence = io.SeekStart
	}

	if whence == io.SeekStart && offset >= b.pos && offset <= b.pos+int64(b.w) {
		b.r = int(offset - b.pos)
		return offset, nil
	}

	pos, err := b.rd.Seek(offset, whence)
	if err != nil {
		return pos, err
	}

	b.pos = pos
	b.r, b.w = 0, 0
	b.err = nil
	return pos, nil
}

// fill discards the consumed buffer and reads a new chunk into it.
// It must only be called when the buffer is empty.
func (b *ReadSeeker) fill() {
	b.pos += int64(b.w)
	b.r, b.w = 0, 0

	// read new data: try a limited number of times.
	for i := maxConsecutiveEmptyReads; i > 0; i-- {
		n, err := b.rd.Read(b.buf)
		if n < 0 {
			panic(errNegativeRead)
		}
		b.w += n
		if err != nil {
			b.err = err
			return
		}
		if n > 0 {
			return
		}
	}
	b.err = io.ErrNoProgress
}

// buffered returns the number of bytes that can
// be read from the current buffer.
func (b *ReadSeeker) buffered() int {
	return b.w - b.r
}

func (b *ReadSeeker) readErr() error {
	err := b.err
	b.err = nil
	return err
}
