package mcproto

import (
	"fmt"
	"io"

	"github.com/gstoney/mcproto/packet"
)

var (
	ErrNotExhausted       = fmt.Errorf("%w: payload not exhausted", packet.ErrMalformed)
	ErrInvalidFrameLength = fmt.Errorf("%w: invalid frame length", packet.ErrMalformed)
	ErrInflateOverrun     = fmt.Errorf("%w: compressed stream exceeds declared data length", packet.ErrMalformed)
	ErrInflateUnderrun    = fmt.Errorf("%w: compressed stream shorter than declared data length", packet.ErrMalformed)
	ErrInflateTrailing    = fmt.Errorf("%w: frame continues after compressed stream ends", packet.ErrMalformed)
)

// PayloadReader gives access to the payload of the frame returned by
// Transport.Recv.
//
// Remaining reports unread payload bytes. Skip reads and drops them, so a
// following Close still checks the frame. Close fails if payload is left or
// the frame is inconsistent, and leaves the stream where it is. Discard drops
// the rest of the frame without checks and realigns on the next one.
type PayloadReader interface {
	io.ReadCloser
	Skip() (n int32, err error)
	Discard() (n int32, err error)
	Remaining() int32
}

// readBounded reads from src into b, never past *left bytes.
func readBounded(src io.Reader, b []byte, left *int32) (n int, err error) {
	if *left <= 0 {
		return 0, io.EOF
	}
	if int32(len(b)) > *left {
		b = b[:*left]
	}
	n, err = src.Read(b)
	*left -= int32(n)
	return
}

func drain(r io.Reader, left int32) (n int32, err error) {
	n64, err := io.CopyN(io.Discard, r, int64(left))
	return int32(n64), err
}

// frameReader keeps the stream aligned on frame boundaries. It reads at most
// the declared length of the current frame.
type frameReader struct {
	src  io.Reader
	left int32
}

// next reads the length prefix of the following frame. io.EOF means the
// stream ended cleanly between frames.
func (f *frameReader) next() (length int32, err error) {
	if f.left > 0 {
		return f.left, ErrNotExhausted
	}

	if length, err = packet.ReadVarIntFromReader(f.src); err != nil {
		return
	}
	if length <= 0 {
		return length, ErrInvalidFrameLength
	}
	f.left = length
	return
}

func (f *frameReader) Read(b []byte) (n int, err error) {
	n, err = readBounded(f.src, b, &f.left)
	if err == io.EOF && f.left > 0 {
		err = io.ErrUnexpectedEOF
	}
	return
}

func (f *frameReader) ReadByte() (byte, error) {
	br, ok := f.src.(io.ByteReader)
	if !ok {
		var b [1]byte
		_, err := io.ReadFull(f, b[:])
		return b[0], err
	}

	if f.left <= 0 {
		return 0, io.EOF
	}
	v, err := br.ReadByte()
	switch err {
	case nil:
		f.left--
	case io.EOF:
		err = io.ErrUnexpectedEOF
	}
	return v, err
}

func (f *frameReader) skip() (n int32, err error) {
	if n, err = drain(f, f.left); err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return
}

// rawPayload is an uncompressed frame read straight off the stream.
type rawPayload struct {
	*frameReader
}

func (p rawPayload) Remaining() int32 {
	return p.left
}

func (p rawPayload) Skip() (int32, error) {
	return p.skip()
}

func (p rawPayload) Discard() (int32, error) {
	return p.skip()
}

func (p rawPayload) Close() error {
	if p.left > 0 {
		return ErrNotExhausted
	}
	return nil
}

// inflatedPayload reads the decompressed data of a compressed frame. left
// counts decompressed bytes; the frame itself must end exactly where the
// compressed stream does.
type inflatedPayload struct {
	dec   io.ReadCloser
	frame *frameReader
	left  int32
}

func (p *inflatedPayload) Read(b []byte) (n int, err error) {
	n, err = readBounded(p.dec, b, &p.left)
	if err == io.EOF && p.left > 0 {
		err = ErrInflateUnderrun
	}
	return
}

func (p *inflatedPayload) Remaining() int32 {
	return p.left
}

func (p *inflatedPayload) Skip() (int32, error) {
	return drain(p, p.left)
}

func (p *inflatedPayload) Discard() (int32, error) {
	p.left = 0
	return p.frame.skip()
}

func (p *inflatedPayload) Close() error {
	if p.left > 0 {
		return ErrNotExhausted
	}

	var extra [1]byte
	n, err := p.dec.Read(extra[:])
	switch {
	case n > 0 || err == nil:
		return ErrInflateOverrun
	case err != io.EOF:
		return err
	case p.frame.left > 0:
		return ErrInflateTrailing
	}
	return p.dec.Close()
}
