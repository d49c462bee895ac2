// Package filter converts whole streams between MUTF-8 and a
// platform character encoding.
package filter

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pchchv/mutf8"
	"github.com/pchchv/mutf8/stream"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// BufferSize is the size of the input buffer of the filters.
const BufferSize = 4096

// Decode reads MUTF-8 from r and writes the text to w in the encoding enc.
//
// Decode fails on invalid MUTF-8, on a surrogate that is not part of a
// well-formed pair, on input that ends inside a sequence and on characters
// that enc cannot represent. Output that precedes the failure is written.
func Decode(r io.Reader, w io.Writer, enc encoding.Encoding) error {
	out := w
	var tw *transform.Writer
	if enc != unicode.UTF8 {
		tw = transform.NewWriter(w, enc.NewEncoder())
		out = tw
	}

	var (
		buf    [BufferSize]byte
		text   []byte
		prefix int    // undecoded bytes carried at the front of buf
		off    int64  // stream offset of buf[0]
		high   uint16 // pending high surrogate, 0 if none
	)
	for {
		n, rerr := r.Read(buf[prefix:])
		end := prefix + n

		var (
			i   int
			err error
		)
		text, i, err = decodeChunk(text[:0], buf[:end], &high)
		if len(text) > 0 {
			if _, werr := out.Write(text); werr != nil {
				return fmt.Errorf("filter.Decode: %w", werr)
			}
		}
		if err != nil {
			return fmt.Errorf("filter.Decode: offset %d: %w", off+int64(i), err)
		}

		// slide the incomplete tail to the front
		prefix = copy(buf[:], buf[i:end])
		off += int64(i)

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("filter.Decode: %w", rerr)
		}
	}

	switch {
	case prefix > 0:
		return fmt.Errorf("filter.Decode: offset %d: truncated input: %w", off, mutf8.ErrIncomplete)
	case high != 0:
		return fmt.Errorf("filter.Decode: offset %d: %w", off-3, unpaired(high))
	case tw != nil:
		if err := tw.Close(); err != nil {
			return fmt.Errorf("filter.Decode: %w", err)
		}
	}
	return nil
}

// Encode reads text in the encoding enc from r and writes it to w as MUTF-8.
//
// UTF-8 input that is invalid or ends inside a character is an error; other
// encodings replace undecodable bytes with U+FFFD, as their decoders do.
// Output that precedes a failure is written.
func Encode(r io.Reader, w io.Writer, enc encoding.Encoding) error {
	// stream.Writer validates UTF-8 itself
	if enc != unicode.UTF8 {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	sw := stream.NewWriter(w)
	buf := make([]byte, BufferSize)
	var off int64
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			m, err := sw.Write(buf[:n])
			if err != nil {
				sw.Flush()
				return fmt.Errorf("filter.Encode: offset %d: %w", off+int64(m), err)
			}
			off += int64(n)
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			sw.Flush()
			return fmt.Errorf("filter.Encode: %w", rerr)
		}
	}

	if err := sw.Close(); err != nil {
		return fmt.Errorf("filter.Encode: offset %d: %w", off, err)
	}
	return nil
}

// decodeChunk appends the UTF-8 text of the code units in p to text, joining
// surrogate pairs through *high. It stops at an incomplete sequence at the end
// of p and returns the number of bytes decoded. On error the returned count is
// the offset of the offending sequence.
func decodeChunk(text, p []byte, high *uint16) ([]byte, int, error) {
	i := 0
	for i < len(p) {
		var c uint16
		size, err := mutf8.DecodeUnit(&c, p[i:])
		if errors.Is(err, mutf8.ErrIncomplete) {
			break
		}
		if err != nil {
			return text, i, err
		}

		switch {
		case *high != 0:
			if !isLow(c) {
				return text, i - 3, unpaired(*high)
			}
			text = utf8.AppendRune(text, utf16.DecodeRune(rune(*high), rune(c)))
			*high = 0
		case isHigh(c):
			*high = c
		case isLow(c):
			return text, i, unpaired(c)
		default:
			text = utf8.AppendRune(text, rune(c))
		}
		i += size
	}
	return text, i, nil
}

func isHigh(c uint16) bool { return c >= 0xD800 && c < 0xDC00 }
func isLow(c uint16) bool  { return c >= 0xDC00 && c < 0xE000 }

func unpaired(c uint16) error {
	return fmt.Errorf("U+%04X: %w", c, mutf8.ErrUnpairedSurrogate)
}
