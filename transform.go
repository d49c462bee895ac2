package mutf8

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Encoding is the MUTF-8 character encoding, usable wherever a
// golang.org/x/text encoding.Encoding is expected:
//
//	r := transform.NewReader(mutf8Input, mutf8.Encoding.NewDecoder())
//	w := transform.NewWriter(mutf8Output, mutf8.Encoding.NewEncoder())
//
// Its decoder converts MUTF-8 to UTF-8, joining surrogate pairs into a single
// rune. Unlike most decoders in golang.org/x/text it does not substitute
// U+FFFD for bad input: invalid MUTF-8 fails with ErrInvalid, a sequence cut
// short by the end of input with ErrIncomplete, and a surrogate that is not
// part of a well-formed pair with ErrUnpairedSurrogate.
//
// Its encoder converts UTF-8 to MUTF-8 and fails with
// encoding.ErrInvalidUTF8 on invalid input.
var Encoding encoding.Encoding = mutf8Encoding{}

type mutf8Encoding struct{}

func (mutf8Encoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: decoder{}}
}

func (mutf8Encoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: encoder{}}
}

func (mutf8Encoding) String() string {
	return "MUTF-8"
}

// decoder transforms MUTF-8 to UTF-8.
type decoder struct{ transform.NopResetter }

func (decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		var u uint16
		n, err := DecodeUnit(&u, src[nSrc:])
		if err != nil {
			return nDst, nSrc, short(err, atEOF)
		}

		r, size := rune(u), n
		if utf16.IsSurrogate(r) {
			// only a high surrogate followed by a low surrogate is accepted
			if u >= 0xDC00 {
				return nDst, nSrc, ErrUnpairedSurrogate
			}

			var u2 uint16
			n2, err := DecodeUnit(&u2, src[nSrc+n:])
			switch {
			case n2 == 0 && err == nil:
				// high surrogate at the end of src
				if !atEOF {
					return nDst, nSrc, transform.ErrShortSrc
				}
				return nDst, nSrc, ErrUnpairedSurrogate
			case err != nil:
				return nDst, nSrc, short(err, atEOF)
			case u2 < 0xDC00 || u2 > 0xDFFF:
				return nDst, nSrc, ErrUnpairedSurrogate
			}

			r, size = utf16.DecodeRune(r, rune(u2)), n+n2
		}

		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}

		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += size
	}

	return nDst, nSrc, nil
}

// short maps ErrIncomplete before the end of input to transform.ErrShortSrc.
func short(err error, atEOF bool) error {
	if err == ErrIncomplete && !atEOF {
		return transform.ErrShortSrc
	}
	return err
}

// encoder transforms UTF-8 to MUTF-8.
type encoder struct{ transform.NopResetter }

func (encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	var buf [2 * MaxLen]byte
	for nSrc < len(src) {
		r, size := rune(src[nSrc]), 1
		if r >= utf8.RuneSelf {
			r, size = utf8.DecodeRune(src[nSrc:])
			if size == 1 {
				if !atEOF && !utf8.FullRune(src[nSrc:]) {
					return nDst, nSrc, transform.ErrShortSrc
				}
				return nDst, nSrc, encoding.ErrInvalidUTF8
			}
		}

		enc := appendRune(buf[:0], r)
		if nDst+len(enc) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}

		nDst += copy(dst[nDst:], enc)
		nSrc += size
	}

	return nDst, nSrc, nil
}
