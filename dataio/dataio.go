// Package dataio reads and writes strings in the framings used by Java's
// DataInput and DataOutput interfaces and by JNI.
//
// A UTF string is a 16-bit big-endian byte count followed by that many bytes
// of MUTF-8, as produced by DataOutput.writeUTF and read by
// DataInput.readUTF. The same framing is used for CONSTANT_Utf8 entries of
// class files. A C string is MUTF-8 terminated by a single zero byte, as
// exchanged with JNI's GetStringUTFChars and NewStringUTF; since MUTF-8 never
// encodes a zero byte, the terminator is unambiguous.
package dataio

import "errors"

// MaxUTFLen is the maximum number of encoded bytes of a UTF string.
const MaxUTFLen = 1<<16 - 1

// ErrTooLong is returned when the encoding of a string written as a UTF
// string exceeds MaxUTFLen bytes.
var ErrTooLong = errors.New("dataio: encoded string too long")
