package mutf8

import (
	"fmt"
	"io"
	"unicode/utf16"

	"github.com/pchchv/mutf8/dfa"
	"github.com/pchchv/mutf8/internal/ioutilx"
)

// DecodeUnit decodes the first code unit of p.
//
// On success it stores the code unit in *dst, unless dst is nil, and returns
// the number of bytes of p that encode it. If p is not valid MUTF-8 it returns
// ErrInvalid. If p ends inside a sequence that is valid so far it returns
// ErrIncomplete; the caller should retry once more bytes are appended to the
// same, unconsumed, sequence. An empty p is not an error: DecodeUnit returns 0
// and writes nothing.
//
// DecodeUnit never reads past the last byte of the decoded code unit or past
// the byte that made the sequence invalid.
func DecodeUnit(dst *uint16, p []byte) (int, error) {
	var ctx dfa.Context
	for i, b := range p {
		switch ctx.Step(b) {
		case dfa.Accept:
			if dst != nil {
				*dst = ctx.Unit
			}
			return i + 1, nil
		case dfa.Reject:
			return 0, ErrInvalid
		}
	}

	if len(p) == 0 {
		return 0, nil
	}
	return 0, ErrIncomplete
}

// FullUnit reports whether p begins with a complete code unit encoding
// or with bytes that can never become valid; in both cases DecodeUnit
// does not ask for more input.
func FullUnit(p []byte) bool {
	_, err := DecodeUnit(nil, p)
	return len(p) > 0 && err != ErrIncomplete
}

// Valid reports whether p consists entirely of valid, complete MUTF-8
// sequences.
func Valid(p []byte) bool {
	for len(p) > 0 {
		n, err := DecodeUnit(nil, p)
		if err != nil {
			return false
		}
		p = p[n:]
	}
	return true
}

// CountUnits returns the number of code units encoded by p, or an error if p
// is not valid and complete MUTF-8.
func CountUnits(p []byte) (int, error) {
	var count, off int
	for off < len(p) {
		n, err := DecodeUnit(nil, p[off:])
		if err != nil {
			return 0, fmt.Errorf("mutf8.CountUnits: at offset %d: %w", off, err)
		}
		off += n
		count++
	}
	return count, nil
}

// DecodeUTF16 decodes all of p and returns the UTF-16 code units it encodes.
// The returned error wraps ErrInvalid or ErrIncomplete and names the offset
// of the offending sequence.
func DecodeUTF16(p []byte) ([]uint16, error) {
	return AppendDecoded(nil, p)
}

// AppendDecoded appends the code units encoded by p to units
// and returns the extended slice.
// On error the units decoded before the offending sequence are returned
// together with an error wrapping ErrInvalid or ErrIncomplete.
func AppendDecoded(units []uint16, p []byte) ([]uint16, error) {
	for off := 0; off < len(p); {
		var u uint16
		n, err := DecodeUnit(&u, p[off:])
		if err != nil {
			return units, fmt.Errorf("mutf8.AppendDecoded: at offset %d: %w", off, err)
		}
		units = append(units, u)
		off += n
	}
	return units, nil
}

// DecodeString decodes p and returns the corresponding Go (UTF-8) string.
// Surrogate pairs are joined into a single rune; a surrogate that is not part
// of a well-formed pair is replaced by U+FFFD, as done by utf16.Decode.
func DecodeString(p []byte) (string, error) {
	units, err := DecodeUTF16(p)
	if err != nil {
		return "", err
	}
	return string(utf16.Decode(units)), nil
}

// ReadUnit reads one code unit from r, reading one byte at a time so that no
// byte past the code unit is consumed. It returns the code unit and the number
// of bytes read.
//
// ReadUnit returns io.EOF if r is exhausted before the first byte,
// io.ErrUnexpectedEOF if r ends inside a sequence, and an error wrapping
// ErrInvalid if the bytes read are not valid MUTF-8.
func ReadUnit(r io.Reader) (uint16, int, error) {
	var (
		ctx dfa.Context
		n   int
	)
	for {
		b, err := ioutilx.ReadByte(r)
		if err != nil {
			if n > 0 {
				return 0, n, unexpected(err)
			}
			return 0, 0, err
		}
		n++

		switch ctx.Step(b) {
		case dfa.Accept:
			return ctx.Unit, n, nil
		case dfa.Reject:
			return 0, n, fmt.Errorf("mutf8.ReadUnit: byte %#02x after %d bytes: %w", b, n-1, ErrInvalid)
		}
	}
}

// unexpected returns io.ErrUnexpectedEOF if err is io.EOF,
// and returns err otherwise.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
