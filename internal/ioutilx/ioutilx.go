// Package ioutilx implements extended input/output utility functions.
package ioutilx

import "io"

// ReadByte reads and returns the next byte from r.
// If r implements io.ByteReader its ReadByte method is used,
// otherwise a single byte read is issued, so that no byte past
// the returned one is consumed from r.
func ReadByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte()
	}

	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
