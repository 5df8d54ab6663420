package packet

import (
	"io"
	"slices"
)

// Reader is the byte source every field decoder reads from.
//
// Read returns exactly n bytes or an error. The returned slice must not be
// modified and may be reused by the next call; decoders copy what they keep.
type Reader interface {
	io.ByteReader
	Read(n int) ([]byte, error)
}

// remainer is implemented by readers that know how many bytes are left.
// Decoders use it to reject declared lengths before allocating.
type remainer interface {
	Remaining() int
}

// FrameReader reads fields out of one fully buffered packet body.
type FrameReader struct {
	buf []byte
	off int
}

func NewFrameReader(buf []byte) FrameReader {
	return FrameReader{
		buf: buf,
		off: 0,
	}
}

func (r FrameReader) Remaining() int {
	return len(r.buf) - r.off
}

// Offset reports how many bytes have been consumed.
func (r FrameReader) Offset() int {
	return r.off
}

func (r *FrameReader) ReadByte() (byte, error) {
	if r.off >= len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *FrameReader) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if n > len(r.buf)-r.off {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

const streamChunk = 64 << 10

// StreamReader adapts an io.Reader of unknown length to Reader.
//
// Large reads are filled in chunks, so a hostile length prefix costs at most
// one chunk of memory beyond the bytes that actually arrive.
type StreamReader struct {
	src io.Reader
	br  io.ByteReader
	off int64
	buf []byte
	one [1]byte
}

func NewStreamReader(r io.Reader) *StreamReader {
	s := &StreamReader{src: r}
	if br, ok := r.(io.ByteReader); ok {
		s.br = br
	}
	return s
}

// Offset reports how many bytes have been consumed from the source.
func (s *StreamReader) Offset() int64 {
	return s.off
}

// ReadByte returns io.EOF unchanged when the source is exhausted, letting
// callers tell a clean end of input from a truncated value.
func (s *StreamReader) ReadByte() (byte, error) {
	if s.br != nil {
		b, err := s.br.ReadByte()
		if err == nil {
			s.off++
		}
		return b, err
	}

	_, err := io.ReadFull(s.src, s.one[:])
	if err != nil {
		return 0, err
	}
	s.off++
	return s.one[0], nil
}

func (s *StreamReader) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}

	s.buf = s.buf[:0]
	for len(s.buf) < n {
		start := len(s.buf)
		want := min(n-start, streamChunk)
		s.buf = slices.Grow(s.buf, want)[:start+want]

		m, err := io.ReadFull(s.src, s.buf[start:])
		s.off += int64(m)
		if err != nil {
			return nil, noEOF(err)
		}
	}
	return s.buf, nil
}
