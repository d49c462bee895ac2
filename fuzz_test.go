package mutf8_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pchchv/mutf8"
)

func FuzzDecodeUnit(f *testing.F) {
	f.Add([]byte("hello"))
	f.Add([]byte{0xC0, 0x80, 0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80})
	f.Add([]byte{0xE2, 0x82})
	f.Add([]byte{0xF0, 0x9F, 0x98, 0x80})

	f.Fuzz(func(t *testing.T, data []byte) {
		for len(data) > 0 {
			var u uint16
			n, err := mutf8.DecodeUnit(&u, data)
			if err != nil {
				if n != 0 {
					t.Fatalf("error %v reported with %d bytes consumed", err, n)
				}
				return
			}

			if n < 1 || n > mutf8.MaxLen || n > len(data) {
				t.Fatalf("consumed %d bytes of %d", n, len(data))
			}

			// decoding is a prefix property: the same bytes alone decode alike
			var again uint16
			if m, err := mutf8.DecodeUnit(&again, data[:n]); err != nil || m != n || again != u {
				t.Fatalf("decoding % X alone gave (%#04x, %d, %v), in context (%#04x, %d)", data[:n], again, m, err, u, n)
			}
			data = data[n:]
		}
	})
}

func FuzzEncodeUnit(f *testing.F) {
	f.Add([]byte{0x00, 0x00, 0x41, 0x00, 0x3D, 0xD8, 0x00, 0xDE})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data)%2 != 0 {
			return
		}

		units := make([]uint16, len(data)/2)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(data[2*i:])
		}

		enc := mutf8.EncodeUTF16(units)
		if bytes.IndexByte(enc, 0) >= 0 {
			t.Fatalf("encoding contains a zero byte: % X", enc)
		}

		got, err := mutf8.DecodeUTF16(enc)
		if err != nil {
			t.Fatal(err)
		}

		if len(got) != len(units) {
			t.Fatalf("expected %d units, got %d", len(units), len(got))
		}
		for i := range units {
			if got[i] != units[i] {
				t.Fatalf("unit %d: expected %#04x, got %#04x", i, units[i], got[i])
			}
		}
	})
}
