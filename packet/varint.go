package packet

import (
	"fmt"
	"io"
)

const (
	MaxVarIntLen  = 5
	MaxVarLongLen = 10
)

// VarInt is a 32-bit integer in its variable-length wire form.
//
// The read size is the number of bytes the value occupied on the wire when it
// was decoded. Values built with NewVarInt have no read size until
// CalculateReadSize is called. The read size is not part of equality; compare
// with Equal rather than ==.
type VarInt struct {
	value    int32
	readSize int8
}

func NewVarInt(v int32) VarInt {
	return VarInt{value: v}
}

func (v VarInt) Value() int32 {
	return v.value
}

// ReadSize returns the bytes consumed when v was decoded, or false if v was
// constructed directly and CalculateReadSize has not run.
func (v VarInt) ReadSize() (int, bool) {
	return int(v.readSize), v.readSize != 0
}

// CalculateReadSize stores the minimum encoded length of v, so ReadSize
// answers uniformly afterwards.
func (v *VarInt) CalculateReadSize() int {
	if v.readSize == 0 {
		v.readSize = int8(VarIntSize(v.value))
	}
	return int(v.readSize)
}

func (v VarInt) Equal(o VarInt) bool {
	return v.value == o.value
}

func (v VarInt) String() string {
	return fmt.Sprintf("VarInt(%d)", v.value)
}

func (v VarInt) Encode(w io.Writer) error {
	return WriteVarInt(w, v.value)
}

// VarLong is the 64-bit counterpart of VarInt.
type VarLong struct {
	value    int64
	readSize int8
}

func NewVarLong(v int64) VarLong {
	return VarLong{value: v}
}

func (v VarLong) Value() int64 {
	return v.value
}

func (v VarLong) ReadSize() (int, bool) {
	return int(v.readSize), v.readSize != 0
}

func (v *VarLong) CalculateReadSize() int {
	if v.readSize == 0 {
		v.readSize = int8(VarLongSize(v.value))
	}
	return int(v.readSize)
}

func (v VarLong) Equal(o VarLong) bool {
	return v.value == o.value
}

func (v VarLong) String() string {
	return fmt.Sprintf("VarLong(%d)", v.value)
}

func (v VarLong) Encode(w io.Writer) error {
	return WriteVarLong(w, v.value)
}

// VarIntSize returns the number of bytes v occupies on the wire.
func VarIntSize(v int32) int {
	uv := uint32(v)
	n := 1
	for uv >= 0x80 {
		uv >>= 7
		n++
	}
	return n
}

func VarLongSize(v int64) int {
	uv := uint64(v)
	n := 1
	for uv >= 0x80 {
		uv >>= 7
		n++
	}
	return n
}

func AppendVarInt(b []byte, v int32) []byte {
	uv := uint32(v)
	for uv >= 0x80 {
		b = append(b, byte(uv)|0x80)
		uv >>= 7
	}
	return append(b, byte(uv))
}

func AppendVarLong(b []byte, v int64) []byte {
	uv := uint64(v)
	for uv >= 0x80 {
		b = append(b, byte(uv)|0x80)
		uv >>= 7
	}
	return append(b, byte(uv))
}

func WriteVarInt(w io.Writer, v int32) error {
	var buf [MaxVarIntLen]byte
	_, err := w.Write(AppendVarInt(buf[:0], v))
	return err
}

func WriteVarLong(w io.Writer, v int64) error {
	var buf [MaxVarLongLen]byte
	_, err := w.Write(AppendVarLong(buf[:0], v))
	return err
}

// ReadVarInt reads 7-bit groups until one has the continuation bit clear.
//
// The fifth byte may only carry the 4 remaining value bits; anything else,
// including a continuation bit, fails with ErrVarIntTooLong. io.EOF before
// the first byte is returned as is; after it, as io.ErrUnexpectedEOF.
func ReadVarInt(r io.ByteReader) (int32, error) {
	v, _, err := readVarInt(r)
	return v, err
}

// DecodeVarInt is ReadVarInt that also records the read size.
func DecodeVarInt(r io.ByteReader) (VarInt, error) {
	v, n, err := readVarInt(r)
	if err != nil {
		return VarInt{}, err
	}
	return VarInt{value: v, readSize: int8(n)}, nil
}

func readVarInt(r io.ByteReader) (int32, int, error) {
	var v uint32
	var shift uint

	for n := 0; n < MaxVarIntLen; n++ {
		b, err := r.ReadByte()
		if err != nil {
			if n > 0 {
				err = noEOF(err)
			}
			return 0, n, err
		}

		if n == MaxVarIntLen-1 && b&0xf0 != 0 {
			return 0, n + 1, ErrVarIntTooLong
		}

		v |= uint32(b&0x7F) << shift
		shift += 7

		if (b & 0x80) == 0 {
			return int32(v), n + 1, nil
		}
	}
	return 0, MaxVarIntLen, ErrVarIntTooLong
}

// ReadVarLong is ReadVarInt for 64-bit values; the tenth byte may only carry
// the single remaining value bit.
func ReadVarLong(r io.ByteReader) (int64, error) {
	v, _, err := readVarLong(r)
	return v, err
}

func DecodeVarLong(r io.ByteReader) (VarLong, error) {
	v, n, err := readVarLong(r)
	if err != nil {
		return VarLong{}, err
	}
	return VarLong{value: v, readSize: int8(n)}, nil
}

func readVarLong(r io.ByteReader) (int64, int, error) {
	var v uint64
	var shift uint

	for n := 0; n < MaxVarLongLen; n++ {
		b, err := r.ReadByte()
		if err != nil {
			if n > 0 {
				err = noEOF(err)
			}
			return 0, n, err
		}

		if n == MaxVarLongLen-1 && b&0xfe != 0 {
			return 0, n + 1, ErrVarLongTooLong
		}

		v |= uint64(b&0x7F) << shift
		shift += 7

		if (b & 0x80) == 0 {
			return int64(v), n + 1, nil
		}
	}
	return 0, MaxVarLongLen, ErrVarLongTooLong
}

// ReadVarIntFromReader reads a VarInt from a reader without ReadByte.
func ReadVarIntFromReader(r io.Reader) (int32, error) {
	if br, ok := r.(io.ByteReader); ok {
		return ReadVarInt(br)
	}
	return ReadVarInt(byteReader{r: r})
}

type byteReader struct {
	r io.Reader
}

func (b byteReader) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(b.r, buf[:])
	return buf[0], err
}
