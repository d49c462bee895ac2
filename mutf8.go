// Package mutf8 implements encoding and decoding of MUTF-8, the modified
// UTF-8 encoding used by Java's DataInput and DataOutput, class files and JNI.
//
// MUTF-8 differs from UTF-8 in two ways:
//   - the null character U+0000 is encoded as the two byte sequence C0 80,
//     so that an encoded string never contains a zero byte;
//   - code points outside the Basic Multilingual Plane are encoded as their
//     UTF-16 surrogate pair, each half written as an ordinary 3-byte
//     sequence. Four byte sequences never occur.
//
// MUTF-8 is therefore UTF-16 in disguise, and this package works on UTF-16
// code units: DecodeUnit produces one code unit from the front of a byte
// slice and EncodeUnit produces the bytes of one code unit. Input is validated
// at the code unit level only; whether the decoded units form well-formed
// surrogate pairs is left to the UTF-16 consumer.
//
// See https://docs.oracle.com/javase/8/docs/api/java/io/DataInput.html#modified-utf-8
package mutf8

import "errors"

// MaxLen is the maximum number of bytes of an encoded code unit.
const MaxLen = 3

var (
	// ErrInvalid is returned when the input is not valid MUTF-8.
	ErrInvalid = errors.New("mutf8: illegal byte sequence")
	// ErrIncomplete is returned when the input ends inside a sequence that is
	// valid so far; more input is needed to complete the code unit.
	ErrIncomplete = errors.New("mutf8: incomplete byte sequence")
	// ErrUnpairedSurrogate is returned when converting to UTF-8 and a
	// surrogate code unit is not part of a well-formed pair.
	ErrUnpairedSurrogate = errors.New("mutf8: unpaired surrogate")
)
