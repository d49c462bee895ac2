package mutf8

import (
	"unicode/utf16"
	"unicode/utf8"
)

const (
	tx = 0x80 // 1000 0000
	t2 = 0xC0 // 1100 0000
	t3 = 0xE0 // 1110 0000

	maskx = 0x3F // 0011 1111

	unit1Max = 1<<7 - 1  // largest code unit encoded in 1 byte
	unit2Max = 1<<11 - 1 // largest code unit encoded in 2 bytes
)

// UnitLen returns the number of bytes required to encode c.
func UnitLen(c uint16) int {
	switch {
	case c == 0:
		return 2
	case c <= unit1Max:
		return 1
	case c <= unit2Max:
		return 2
	default:
		return 3
	}
}

// EncodeUnit writes into p the MUTF-8 encoding of c and returns the number of
// bytes written. Every code unit has an encoding, surrogates included; they
// are encoded like any other unit of their range, with no regard for pairing.
//
// If p is nil nothing is written and the length of the encoding is returned,
// the same value as UnitLen(c). Otherwise p must be large enough to hold the
// encoding (MaxLen bytes always suffice) or EncodeUnit panics.
func EncodeUnit(p []byte, c uint16) int {
	if p == nil {
		return UnitLen(c)
	}

	switch {
	case c == 0:
		// overlong form keeps zero bytes out of the encoding
		_ = p[1]
		p[0] = t2
		p[1] = tx
		return 2
	case c <= unit1Max:
		p[0] = byte(c)
		return 1
	case c <= unit2Max:
		_ = p[1]
		p[0] = t2 | byte(c>>6)
		p[1] = tx | byte(c)&maskx
		return 2
	default:
		_ = p[2]
		p[0] = t3 | byte(c>>12)
		p[1] = tx | byte(c>>6)&maskx
		p[2] = tx | byte(c)&maskx
		return 3
	}
}

// AppendUnit appends the MUTF-8 encoding of c to p
// and returns the extended buffer.
func AppendUnit(p []byte, c uint16) []byte {
	var buf [MaxLen]byte
	n := EncodeUnit(buf[:], c)
	return append(p, buf[:n]...)
}

// LenUTF16 returns the number of bytes required to encode units.
func LenUTF16(units []uint16) int {
	var n int
	for _, u := range units {
		n += UnitLen(u)
	}
	return n
}

// AppendUTF16 appends the MUTF-8 encoding of units to p
// and returns the extended buffer.
func AppendUTF16(p []byte, units []uint16) []byte {
	for _, u := range units {
		p = AppendUnit(p, u)
	}
	return p
}

// EncodeUTF16 returns the MUTF-8 encoding of units.
func EncodeUTF16(units []uint16) []byte {
	return AppendUTF16(make([]byte, 0, LenUTF16(units)), units)
}

// StringLen returns the number of bytes required to encode s.
func StringLen(s string) int {
	var n int
	for _, r := range s {
		if r > 0xFFFF {
			// surrogate pair, two 3-byte sequences
			n += 2 * 3
			continue
		}
		n += UnitLen(uint16(r))
	}
	return n
}

// AppendString appends the MUTF-8 encoding of the Go (UTF-8) string s to p
// and returns the extended buffer.
// Runes outside the Basic Multilingual Plane are written as surrogate pairs;
// invalid UTF-8 in s is encoded as U+FFFD.
func AppendString(p []byte, s string) []byte {
	for _, r := range s {
		p = appendRune(p, r)
	}
	return p
}

// EncodeString returns the MUTF-8 encoding of the Go (UTF-8) string s.
func EncodeString(s string) []byte {
	return AppendString(make([]byte, 0, StringLen(s)), s)
}

// appendRune appends the encoding of r, split into a surrogate pair if
// needed. Invalid runes are encoded as U+FFFD.
func appendRune(p []byte, r rune) []byte {
	switch {
	case r < 0 || r > utf8.MaxRune:
		r = utf8.RuneError
	case r > 0xFFFF:
		r1, r2 := utf16.EncodeRune(r)
		return AppendUnit(AppendUnit(p, uint16(r1)), uint16(r2))
	}
	return AppendUnit(p, uint16(r))
}
