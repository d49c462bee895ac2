package stream

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"unicode/utf8"

	"github.com/pchchv/mutf8"
	"github.com/stretchr/testify/require"
)

// onlyReader hides any methods of the wrapped reader other than Read.
type onlyReader struct {
	io.Reader
}

func TestReaderReadUnit(t *testing.T) {
	src := []byte{'A', 0xC0, 0x80, 0xC3, 0xA9, 0xE2, 0x82, 0xAC, 0xED, 0xA0, 0xBD}
	want := []uint16{0x41, 0x0000, 0x00E9, 0x20AC, 0xD83D}
	offsets := []int64{0, 1, 3, 5, 8, 11}

	for name, in := range map[string]io.Reader{
		"seeker":   bytes.NewReader(src),
		"stream":   onlyReader{bytes.NewReader(src)},
		"one byte": iotest.OneByteReader(bytes.NewReader(src)),
	} {
		t.Run(name, func(t *testing.T) {
			r := NewReader(in)
			for i, w := range want {
				require.Equal(t, offsets[i], r.Offset())
				u, err := r.ReadUnit()
				require.NoError(t, err)
				require.Equal(t, w, u, "unit %d", i)
			}
			require.Equal(t, offsets[len(want)], r.Offset())

			_, err := r.ReadUnit()
			require.Equal(t, io.EOF, err)
		})
	}
}

func TestReaderReadUnits(t *testing.T) {
	r := NewReader(strings.NewReader("héllo"))

	dst := make([]uint16, 3)
	n, err := r.ReadUnits(dst)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []uint16{'h', 0xE9, 'l'}, dst)

	n, err = r.ReadUnits(dst)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []uint16{'l', 'o'}, dst[:n])

	n, err = r.ReadUnits(dst)
	require.Equal(t, io.EOF, err)
	require.Zero(t, n)
}

func TestReaderErrors(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{'a', 'b', 0xE2, 0x41}))
	for i := 0; i < 2; i++ {
		_, err := r.ReadUnit()
		require.NoError(t, err)
	}

	_, err := r.ReadUnit()
	require.ErrorIs(t, err, mutf8.ErrInvalid)
	require.Contains(t, err.Error(), "offset 2")

	r = NewReader(bytes.NewReader([]byte{'a', 0xE2, 0x82}))
	_, err = r.ReadUnit()
	require.NoError(t, err)

	_, err = r.ReadUnit()
	require.Equal(t, io.ErrUnexpectedEOF, err)

	r = NewReader(onlyReader{iotest.ErrReader(errors.New("disk on fire"))})
	_, err = r.ReadUnit()
	require.EqualError(t, err, "stream.Reader: sequence at offset 0: disk on fire")
}

func TestReaderReadRune(t *testing.T) {
	tests := []struct {
		name  string
		in    []byte
		runes []rune
		sizes []int
	}{
		{
			name:  "pair",
			in:    []byte{'a', 0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80, 'b'},
			runes: []rune{'a', 0x1F600, 'b'},
			sizes: []int{1, 6, 1},
		},
		{
			name:  "null",
			in:    []byte{0xC0, 0x80},
			runes: []rune{0},
			sizes: []int{2},
		},
		{
			name:  "high surrogate at end",
			in:    []byte{'a', 0xED, 0xA0, 0xBD},
			runes: []rune{'a', utf8.RuneError},
			sizes: []int{1, 3},
		},
		{
			name:  "high surrogate followed by ascii",
			in:    []byte{0xED, 0xA0, 0xBD, 'x'},
			runes: []rune{utf8.RuneError, 'x'},
			sizes: []int{3, 1},
		},
		{
			name:  "two high surrogates then low",
			in:    []byte{0xED, 0xA0, 0xBD, 0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80},
			runes: []rune{utf8.RuneError, 0x1F600},
			sizes: []int{3, 6},
		},
		{
			name:  "low surrogate alone",
			in:    []byte{0xED, 0xB8, 0x80, 'y'},
			runes: []rune{utf8.RuneError, 'y'},
			sizes: []int{3, 1},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(test.in))
			var off int64
			for i, want := range test.runes {
				require.Equal(t, off, r.Offset())
				c, size, err := r.ReadRune()
				require.NoError(t, err)
				require.Equal(t, want, c, "rune %d", i)
				require.Equal(t, test.sizes[i], size, "size of rune %d", i)
				off += int64(size)
			}

			_, _, err := r.ReadRune()
			require.Equal(t, io.EOF, err)
		})
	}
}

func TestReaderReadRuneTruncatedPair(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xED, 0xA0, 0xBD, 0xED, 0xB8}))
	_, _, err := r.ReadRune()
	require.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestReaderSeek(t *testing.T) {
	src := mutf8.EncodeString("aé\U0001F600z")
	r := NewReader(bytes.NewReader(src))

	c, _, err := r.ReadRune()
	require.NoError(t, err)
	require.Equal(t, 'a', c)

	pos, err := r.Seek(3, io.SeekStart)
	require.NoError(t, err)
	require.EqualValues(t, 3, pos)

	c, _, err = r.ReadRune()
	require.NoError(t, err)
	require.Equal(t, rune(0x1F600), c)

	pos, err = r.Seek(-7, io.SeekCurrent)
	require.NoError(t, err)
	require.EqualValues(t, 2, pos)

	// middle of the two byte sequence
	_, err = r.ReadUnit()
	require.ErrorIs(t, err, mutf8.ErrInvalid)

	pos, err = r.Seek(-1, io.SeekEnd)
	require.NoError(t, err)
	require.EqualValues(t, len(src)-1, pos)
	require.EqualValues(t, len(src)-1, r.Offset())

	u, err := r.ReadUnit()
	require.NoError(t, err)
	require.EqualValues(t, 'z', u)
}

func TestReaderSeekAfterPeek(t *testing.T) {
	// a lone high surrogate makes ReadRune read the next unit ahead
	src := []byte{0xED, 0xA0, 0xBD, 0xC3, 0xA9, 'q'}
	r := NewReader(bytes.NewReader(src))

	c, _, err := r.ReadRune()
	require.NoError(t, err)
	require.Equal(t, utf8.RuneError, c)
	require.EqualValues(t, 3, r.Offset())

	pos, err := r.Seek(2, io.SeekCurrent)
	require.NoError(t, err)
	require.EqualValues(t, 5, pos)

	c, _, err = r.ReadRune()
	require.NoError(t, err)
	require.Equal(t, 'q', c)
}

func TestReaderNotSeekable(t *testing.T) {
	r := NewReader(onlyReader{strings.NewReader("abc")})
	_, err := r.Seek(0, io.SeekStart)
	require.ErrorIs(t, err, ErrNotSeekable)
}
