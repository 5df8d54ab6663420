package packet

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/gstoney/mcproto/mutf8"
)

type WriteFn[T any] func(io.Writer, T) error
type ReadFn[T any] func(Reader) (T, error)

const (
	// MaxStringBytes bounds the encoded length of a protocol String:
	// 32767 UTF-16 units of at most 3 bytes each.
	MaxStringBytes = 32767 * 3

	// MaxArrayLen bounds element counts that are not otherwise limited by
	// the bytes remaining in a frame.
	MaxArrayLen = 1 << 21
)

func WriteBoolean(w io.Writer, v bool) (err error) {
	b := byte(0)
	if v {
		b = 1
	}

	_, err = w.Write([]byte{b})
	return
}

// ReadBoolean accepts any non-zero byte as true.
func ReadBoolean(r Reader) (v bool, err error) {
	b, err := r.ReadByte()
	if err != nil {
		return
	}

	v = b != 0
	return
}

func WriteByte(w io.Writer, v byte) (err error) {
	_, err = w.Write([]byte{v})
	return
}

func ReadByte(r Reader) (v byte, err error) {
	b, err := r.ReadByte()
	return b, err
}

func WriteSignedByte(w io.Writer, v int8) (err error) {
	return WriteByte(w, byte(v))
}

func ReadSignedByte(r Reader) (v int8, err error) {
	b, err := r.ReadByte()
	return int8(b), err
}

func WriteShort(w io.Writer, v int16) (err error) {
	return binary.Write(w, binary.BigEndian, v)
}

func ReadShort(r Reader) (v int16, err error) {
	b, err := r.Read(2)
	if err != nil {
		return
	}

	v = int16(binary.BigEndian.Uint16(b))
	return
}

func WriteUnsignedShort(w io.Writer, v uint16) (err error) {
	return binary.Write(w, binary.BigEndian, v)
}

func ReadUnsignedShort(r Reader) (v uint16, err error) {
	b, err := r.Read(2)
	if err != nil {
		return
	}

	v = binary.BigEndian.Uint16(b)
	return
}

func WriteInt(w io.Writer, v int32) (err error) {
	return binary.Write(w, binary.BigEndian, v)
}

func ReadInt(r Reader) (v int32, err error) {
	b, err := r.Read(4)
	if err != nil {
		return
	}

	v = int32(binary.BigEndian.Uint32(b))
	return
}

func WriteLong(w io.Writer, v int64) (err error) {
	return binary.Write(w, binary.BigEndian, v)
}

func ReadLong(r Reader) (v int64, err error) {
	b, err := r.Read(8)
	if err != nil {
		return
	}

	v = int64(binary.BigEndian.Uint64(b))
	return
}

func WriteFloat(w io.Writer, v float32) (err error) {
	return binary.Write(w, binary.BigEndian, math.Float32bits(v))
}

func ReadFloat(r Reader) (v float32, err error) {
	b, err := r.Read(4)
	if err != nil {
		return
	}

	v = math.Float32frombits(binary.BigEndian.Uint32(b))
	return
}

func WriteDouble(w io.Writer, v float64) (err error) {
	return binary.Write(w, binary.BigEndian, math.Float64bits(v))
}

func ReadDouble(r Reader) (v float64, err error) {
	b, err := r.Read(8)
	if err != nil {
		return
	}

	v = math.Float64frombits(binary.BigEndian.Uint64(b))
	return
}

// readLength reads a VarInt length prefix and checks it against limit and,
// when the reader knows, against the bytes that are actually left.
func readLength(r Reader, limit int, tooLong error) (int, error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return 0, noEOF(err)
	}

	if length < 0 {
		return 0, ErrNegativeLength
	}
	if int(length) > limit {
		return 0, tooLong
	}
	if rem, ok := r.(remainer); ok && int(length) > rem.Remaining() {
		return 0, io.ErrUnexpectedEOF
	}
	return int(length), nil
}

// WriteString writes s as a VarInt byte length followed by its Modified
// UTF-8 form.
func WriteString(w io.Writer, v string) (err error) {
	return WriteRawString(w, mutf8.Encode(v))
}

// ReadString reads a String and converts it from Modified UTF-8.
func ReadString(r Reader) (v string, err error) {
	raw, err := ReadRawString(r)
	if err != nil {
		return
	}

	v, err = mutf8.Decode(raw)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrStringEncoding, err)
	}
	return
}

// WriteRawString writes already encoded string bytes without conversion.
func WriteRawString(w io.Writer, v []byte) (err error) {
	err = WriteVarInt(w, int32(len(v)))
	if err != nil {
		return
	}
	_, err = w.Write(v)
	return
}

// ReadRawString returns the wire bytes of a String without conversion.
func ReadRawString(r Reader) (v []byte, err error) {
	length, err := readLength(r, MaxStringBytes, ErrStringTooLong)
	if err != nil {
		return
	}

	buf, err := r.Read(length)
	if err != nil {
		return
	}
	v = append([]byte(nil), buf...)
	return
}

// WriteByteArray writes a VarInt-prefixed byte array.
func WriteByteArray(w io.Writer, v []byte) (err error) {
	err = WriteVarInt(w, int32(len(v)))
	if err != nil {
		return
	}
	_, err = w.Write(v)
	return
}

func ReadByteArray(r Reader) (v []byte, err error) {
	length, err := readLength(r, MaxArrayLen, ErrArrayTooLong)
	if err != nil {
		return
	}

	buf, err := r.Read(length)
	if err != nil {
		return
	}
	v = append([]byte{}, buf...)
	return
}

// WriteRemainingBytes writes v with no length prefix; it must be the last
// field of a packet.
func WriteRemainingBytes(w io.Writer, v []byte) (err error) {
	_, err = w.Write(v)
	return
}

// ReadRemainingBytes consumes the rest of a packet body.
func ReadRemainingBytes(r Reader) (v []byte, err error) {
	rem, ok := r.(remainer)
	if !ok {
		return nil, fmt.Errorf("%w: reader has no known end", ErrMalformed)
	}

	buf, err := r.Read(rem.Remaining())
	if err != nil {
		return
	}
	v = append([]byte{}, buf...)
	return
}

// Position's serialized form is composed of X, Z which are 26 bits each, and 12 bits of Y.
// Thus, unintended content can be written when the values are out of range
type Position struct {
	X int32
	Y int16
	Z int32
}

func WritePosition(w io.Writer, v Position) (err error) {
	packed := (uint64(v.X&0x3FFFFFF) << 38) |
		(uint64(v.Z&0x3FFFFFF) << 12) |
		(uint64(v.Y & 0xFFF))

	err = binary.Write(w, binary.BigEndian, packed)
	return
}

func ReadPosition(r Reader) (v Position, err error) {
	b, err := r.Read(8)
	if err != nil {
		return
	}

	packed := int64(binary.BigEndian.Uint64(b))

	v.X = int32(packed >> 38)
	v.Z = int32(packed << 26 >> 38)
	v.Y = int16(packed << 52 >> 52)
	return
}

// Angle is a rotation in 256ths of a full turn.
type Angle uint8

// AngleFromDegrees folds d into one turn; negative input counts the other way round.
func AngleFromDegrees(d float64) Angle {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return Angle(uint8(d / 360 * 256))
}

func (a Angle) Degrees() float64 {
	return float64(a) / 256 * 360
}

func (a Angle) Radians() float64 {
	return float64(a) / 256 * 2 * math.Pi
}

func WriteAngle(w io.Writer, v Angle) (err error) {
	return WriteByte(w, byte(v))
}

func ReadAngle(r Reader) (v Angle, err error) {
	b, err := r.ReadByte()
	return Angle(b), err
}

func WriteUUID(w io.Writer, v uuid.UUID) (err error) {
	_, err = w.Write(v[:])
	return
}

func ReadUUID(r Reader) (v uuid.UUID, err error) {
	b, err := r.Read(16)
	if err != nil {
		return
	}

	v = uuid.UUID(b)
	return
}

func WritePrefixedArray[T any](w io.Writer, v []T, write WriteFn[T]) (err error) {
	err = WriteVarInt(w, int32(len(v)))
	if err != nil {
		return
	}

	for _, item := range v {
		err = write(w, item)
		if err != nil {
			return
		}
	}
	return
}

// ReadPrefixedArray reads a collection whose element count is a VarInt at the
// front of the payload. Use ReadFixedArray when the count comes from
// elsewhere.
func ReadPrefixedArray[T any](r Reader, read ReadFn[T]) (v []T, err error) {
	length, err := ReadVarInt(r)
	if err != nil {
		err = noEOF(err)
		return
	}

	return ReadFixedArray(r, int(length), read)
}

// WriteFixedArray writes the elements of v with no count.
func WriteFixedArray[T any](w io.Writer, v []T, write WriteFn[T]) (err error) {
	for _, item := range v {
		err = write(w, item)
		if err != nil {
			return
		}
	}
	return
}

// ReadFixedArray reads exactly n elements, calling read once per element.
// n is supplied by the caller, never taken from the data.
func ReadFixedArray[T any](r Reader, n int, read ReadFn[T]) (v []T, err error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if n > MaxArrayLen {
		return nil, ErrArrayTooLong
	}

	capacity := n
	if rem, ok := r.(remainer); ok {
		// every element takes at least one byte
		capacity = min(capacity, rem.Remaining())
	}

	v = make([]T, 0, min(capacity, 4096))
	for i := 0; i < n; i++ {
		var item T
		if item, err = read(r); err != nil {
			return nil, err
		}
		v = append(v, item)
	}

	return
}

// Optional[T] represents Optional field in a packet
//
// Serialized Optional[T] is prefixed with Boolean of whether the value exists.
// If so, the value T is followed.
type Optional[T any] struct {
	Exists bool
	Item   T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Exists: true, Item: v}
}

func WriteOptional[T any](w io.Writer, v Optional[T], write WriteFn[T]) (err error) {
	err = WriteBoolean(w, v.Exists)
	if err != nil {
		return
	}

	if v.Exists {
		err = write(w, v.Item)
	}
	return
}

func ReadOptional[T any](r Reader, read ReadFn[T]) (v Optional[T], err error) {
	if v.Exists, err = ReadBoolean(r); err != nil {
		return
	}

	if v.Exists {
		v.Item, err = read(r)
	}
	return
}
