package bufseekio

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var errExpected = errors.New("expected error")

// readAndError returns its bytes together with errExpected on the first Read.
type readAndError struct {
	bytes []byte
	done  bool
}

func (r *readAndError) Read(p []byte) (n int, err error) {
	if r.done {
		return 0, io.EOF
	}
	r.done = true
	return copy(p, r.bytes), errExpected
}

func (r *readAndError) Seek(offset int64, whence int) (int64, error) {
	panic("not implemented")
}

// seekCounter records the seeks passed on to the underlying reader.
type seekCounter struct {
	*bytes.Reader
	seeks int
}

func (s *seekCounter) Seek(offset int64, whence int) (int64, error) {
	s.seeks++
	return s.Reader.Seek(offset, whence)
}

func sequence(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

func TestNewReadSeekerSize(t *testing.T) {
	buf := bytes.NewReader(make([]byte, 100))
	if rs := NewReadSeeker(buf); len(rs.buf) != defaultBufSize {
		t.Fatalf("want %d got %d", defaultBufSize, len(rs.buf))
	}

	if rs := NewReadSeekerSize(buf, 20); len(rs.buf) != 20 {
		t.Fatalf("want %d got %d", 20, len(rs.buf))
	}

	if rs := NewReadSeekerSize(buf, 1); len(rs.buf) != minReadBufferSize {
		t.Fatalf("want %d got %d", minReadBufferSize, len(rs.buf))
	}

	rs := NewReadSeekerSize(buf, 20)
	if rs2 := NewReadSeekerSize(rs, 5); rs != rs2 {
		t.Fatal("expected ReadSeeker to be reused but got a different ReadSeeker")
	}

	if rs2 := NewReadSeekerSize(rs, 50); rs == rs2 {
		t.Fatal("expected a new ReadSeeker for a larger buffer size")
	}
}

func TestReadSeekerRead(t *testing.T) {
	rs := NewReadSeekerSize(bytes.NewReader(sequence(100)), 20)

	steps := []struct {
		name    string
		seek    int64 // seek to this absolute offset first, if >= 0
		readLen int
		want    []byte
		err     error
		pos     int64
	}{
		{"small read", -1, 5, sequence(5), nil, 5},
		{"drain filled buffer", -1, 25, sequence(20)[5:], nil, 20},
		{"large read bypasses buffer", -1, 25, sequence(45)[20:], nil, 45},
		{"short read at end", 98, 5, []byte{98, 99}, nil, 100},
		{"eof", -1, 5, []byte{}, io.EOF, 100},
	}

	for _, step := range steps {
		if step.seek >= 0 {
			if p, err := rs.Seek(step.seek, io.SeekStart); err != nil || p != step.seek {
				t.Fatalf("%s: seek to %d returned %d, err=%v", step.name, step.seek, p, err)
			}
		}

		got := make([]byte, step.readLen)
		n, err := rs.Read(got)
		if err != step.err {
			t.Fatalf("%s: want err %v, got %v", step.name, step.err, err)
		}

		if diff := cmp.Diff(step.want, got[:n]); diff != "" {
			t.Fatalf("%s: mismatch (-want +got):\n%s", step.name, diff)
		}

		if p, err := rs.Seek(0, io.SeekCurrent); err != nil || p != step.pos {
			t.Fatalf("%s: want position %d got %d, err=%v", step.name, step.pos, p, err)
		}
	}
}

func TestReadSeekerQueuedError(t *testing.T) {
	// bytes and an error returned together
	rs := NewReadSeekerSize(&readAndError{bytes: []byte{2, 3, 5}}, 20)
	got := make([]byte, 5)
	if n, err := rs.Read(got); err != nil || n != 3 || !bytes.Equal(got[:n], []byte{2, 3, 5}) {
		t.Fatalf("want 3 bytes got %d (% X), err=%v", n, got[:n], err)
	}

	if n, err := rs.Read(got); err != errExpected || n != 0 {
		t.Fatalf("want queued error, got n=%d err=%v", n, err)
	}

	// empty read with an empty buffer reports the queued error once
	rs = NewReadSeekerSize(&readAndError{bytes: []byte{2, 3, 5}}, 20)
	if n, err := rs.Read(make([]byte, 3)); err != nil || n != 3 {
		t.Fatalf("want 3 bytes got %d, err=%v", n, err)
	}

	if n, err := rs.Read(nil); err != errExpected || n != 0 {
		t.Fatalf("want queued error, got n=%d err=%v", n, err)
	}

	if n, err := rs.Read(nil); err != nil || n != 0 {
		t.Fatalf("want nothing, got n=%d err=%v", n, err)
	}

	// empty read with buffered data reports nothing
	rs = NewReadSeekerSize(&readAndError{bytes: []byte{2, 3, 5}}, 20)
	if n, err := rs.Read(make([]byte, 1)); err != nil || n != 1 {
		t.Fatalf("want 1 byte got %d, err=%v", n, err)
	}

	if n, err := rs.Read(nil); err != nil || n != 0 {
		t.Fatalf("want nothing, got n=%d err=%v", n, err)
	}
}

func TestReadSeekerReadByte(t *testing.T) {
	data := sequence(50)
	rs := NewReadSeekerSize(bytes.NewReader(data), 16)

	for i, want := range data {
		b, err := rs.ReadByte()
		if err != nil {
			t.Fatalf("byte %d: %v", i, err)
		}
		if b != want {
			t.Fatalf("byte %d: want %d got %d", i, want, b)
		}
	}

	if _, err := rs.ReadByte(); err != io.EOF {
		t.Fatalf("want io.EOF got %v", err)
	}

	// data returned along with an error is delivered before the error
	rs = NewReadSeekerSize(&readAndError{bytes: []byte{7}}, 16)
	if b, err := rs.ReadByte(); err != nil || b != 7 {
		t.Fatalf("want 7 got %d, err=%v", b, err)
	}

	if _, err := rs.ReadByte(); err != errExpected {
		t.Fatalf("want queued error got %v", err)
	}
}

func TestReadSeekerSeekWithinBuffer(t *testing.T) {
	src := &seekCounter{Reader: bytes.NewReader(sequence(100))}
	rs := NewReadSeekerSize(src, 32)

	if _, err := rs.ReadByte(); err != nil {
		t.Fatal(err)
	}

	// backwards and forwards inside the 32 buffered bytes
	for _, off := range []int64{0, 31, 10, 32} {
		if p, err := rs.Seek(off, io.SeekStart); err != nil || p != off {
			t.Fatalf("seek to %d returned %d, err=%v", off, p, err)
		}
	}

	if src.seeks != 0 {
		t.Fatalf("want no seeks on the underlying reader, got %d", src.seeks)
	}

	if p, err := rs.Seek(-2, io.SeekCurrent); err != nil || p != 30 {
		t.Fatalf("relative seek returned %d, err=%v", p, err)
	}

	if b, err := rs.ReadByte(); err != nil || b != 30 {
		t.Fatalf("want 30 got %d, err=%v", b, err)
	}

	// outside the buffer
	if p, err := rs.Seek(-1, io.SeekEnd); err != nil || p != 99 {
		t.Fatalf("seek from end returned %d, err=%v", p, err)
	}

	if src.seeks != 1 {
		t.Fatalf("want 1 seek on the underlying reader, got %d", src.seeks)
	}

	if b, err := rs.ReadByte(); err != nil || b != 99 {
		t.Fatalf("want 99 got %d, err=%v", b, err)
	}
}
