package packet

import (
	"bytes"
	"errors"
	"io"
	"math"
	"math/rand"
	"testing"
)

type TestCase[T any] struct {
	desc      string
	expectErr error
	v         T
	ser       []byte
}

var varintTc = []TestCase[int32]{
	{
		desc: "Zero",
		v:    0,
		ser:  []byte{0x00},
	},
	{
		desc: "One",
		v:    1,
		ser:  []byte{0x01},
	},
	{
		desc: "Two",
		v:    2,
		ser:  []byte{0x02},
	},
	{
		desc: "Max single byte (127)",
		v:    127,
		ser:  []byte{0x7f},
	},
	{
		desc: "Min two bytes (128)",
		v:    128,
		ser:  []byte{0x80, 0x01},
	},
	{
		desc: "Max two bytes (255)",
		v:    255,
		ser:  []byte{0xff, 0x01},
	},
	{
		desc: "Small three bytes (25565)",
		v:    25565,
		ser:  []byte{0xdd, 0xc7, 0x01},
	},
	{
		desc: "Max three bytes (2097151)",
		v:    2097151,
		ser:  []byte{0xff, 0xff, 0x7f},
	},
	{
		desc: "Max positive int32 (2147483647)",
		v:    2147483647,
		ser:  []byte{0xff, 0xff, 0xff, 0xff, 0x07},
	},
	{
		desc: "Negative one (-1)",
		v:    -1,
		ser:  []byte{0xff, 0xff, 0xff, 0xff, 0x0f},
	},
	{
		desc: "Min negative int32 (-2147483648)",
		v:    -2147483648,
		ser:  []byte{0x80, 0x80, 0x80, 0x80, 0x08},
	},
	{
		desc:      "VarInt too long",
		expectErr: ErrVarIntTooLong,
		ser:       []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x07},
	},
	{
		desc:      "Fifth byte carries bits past 32",
		expectErr: ErrVarIntTooLong,
		ser:       []byte{0xff, 0xff, 0xff, 0xff, 0x1f},
	},
	{
		desc:      "Unexpected EOF",
		expectErr: io.ErrUnexpectedEOF,
		ser:       []byte{0xff, 0xff, 0xff, 0xff},
	},
}

func TestWriteVarInt(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, 0, 5))
	for _, tC := range varintTc {
		if tC.expectErr != nil {
			continue
		}

		t.Run(tC.desc, func(t *testing.T) {
			err := WriteVarInt(buf, tC.v)
			if err != nil {
				t.Fatalf("WriteVarInt failed: %v", err)
			}

			if !bytes.Equal(buf.Bytes(), tC.ser) {
				t.Errorf("WriteVarInt expected %x, got %x", tC.ser, buf.Bytes())
			}
			if VarIntSize(tC.v) != len(tC.ser) {
				t.Errorf("VarIntSize expected %d, got %d", len(tC.ser), VarIntSize(tC.v))
			}
		})
		buf.Reset()
	}
}

func TestReadVarInt(t *testing.T) {
	for _, tC := range varintTc {
		t.Run(tC.desc, func(t *testing.T) {
			r := NewFrameReader(tC.ser)

			got, err := ReadVarInt(&r)

			if tC.expectErr != nil {
				if err == nil {
					t.Fatalf("ReadVarInt expected error %v, but succeeded and returned value %d", tC.expectErr, got)
				}
				if !errors.Is(err, tC.expectErr) {
					t.Errorf("ReadVarInt expected error %v, but got error %v", tC.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ReadVarInt failed: %v", err)
			}

			if got != tC.v {
				t.Errorf("ReadVarInt expected %d, got %d", tC.v, got)
			}

			if r.Remaining() != 0 {
				t.Errorf("Reader did not consume all bytes. %d bytes remaining.", r.Remaining())
			}
		})
	}
}

func TestVarIntTooLongIsMalformed(t *testing.T) {
	r := NewFrameReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})
	_, err := ReadVarInt(&r)
	if !IsMalformed(err) {
		t.Errorf("expected a malformed error, got %v", err)
	}
}

func TestReadVarIntCleanEOF(t *testing.T) {
	_, err := ReadVarInt(NewStreamReader(bytes.NewReader(nil)))
	if err != io.EOF {
		t.Errorf("expected io.EOF before the first byte, got %v", err)
	}

	_, err = ReadVarInt(NewStreamReader(bytes.NewReader([]byte{0x80})))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF mid value, got %v", err)
	}
}

func TestDecodeVarIntReadSize(t *testing.T) {
	// 1 written in a non-minimal two byte form
	r := NewFrameReader([]byte{0x81, 0x00})
	v, err := DecodeVarInt(&r)
	if err != nil {
		t.Fatalf("DecodeVarInt failed: %v", err)
	}

	if v.Value() != 1 {
		t.Errorf("expected value 1, got %d", v.Value())
	}
	if n, ok := v.ReadSize(); !ok || n != 2 {
		t.Errorf("expected read size 2, got %d (%t)", n, ok)
	}
	if !v.Equal(NewVarInt(1)) {
		t.Errorf("read size must not take part in equality")
	}
}

func TestVarIntCalculateReadSize(t *testing.T) {
	v := NewVarInt(25565)
	if _, ok := v.ReadSize(); ok {
		t.Fatalf("constructed value should have no read size")
	}

	if n := v.CalculateReadSize(); n != 3 {
		t.Errorf("CalculateReadSize expected 3, got %d", n)
	}
	if n, ok := v.ReadSize(); !ok || n != 3 {
		t.Errorf("ReadSize after calculation expected 3, got %d (%t)", n, ok)
	}
	if v.String() != "VarInt(25565)" {
		t.Errorf("unexpected String(): %s", v.String())
	}
}

var varlongTc = []TestCase[int64]{
	{
		desc: "Zero",
		v:    0,
		ser:  []byte{0x00},
	},
	{
		desc: "Max single byte (127)",
		v:    127,
		ser:  []byte{0x7f},
	},
	{
		desc: "Max positive int32",
		v:    2147483647,
		ser:  []byte{0xff, 0xff, 0xff, 0xff, 0x07},
	},
	{
		desc: "Max positive int64",
		v:    9223372036854775807,
		ser:  []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f},
	},
	{
		desc: "Negative one (-1)",
		v:    -1,
		ser:  []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01},
	},
	{
		desc: "Min negative int64",
		v:    -9223372036854775808,
		ser:  []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01},
	},
	{
		desc:      "VarLong too long",
		expectErr: ErrVarLongTooLong,
		ser:       []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01},
	},
	{
		desc:      "Tenth byte carries bits past 64",
		expectErr: ErrVarLongTooLong,
		ser:       []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02},
	},
	{
		desc:      "Unexpected EOF",
		expectErr: io.ErrUnexpectedEOF,
		ser:       []byte{0xff, 0xff},
	},
}

func TestWriteVarLong(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, 0, 10))
	for _, tC := range varlongTc {
		if tC.expectErr != nil {
			continue
		}

		t.Run(tC.desc, func(t *testing.T) {
			err := WriteVarLong(buf, tC.v)
			if err != nil {
				t.Fatalf("WriteVarLong failed: %v", err)
			}

			if !bytes.Equal(buf.Bytes(), tC.ser) {
				t.Errorf("WriteVarLong expected %x, got %x", tC.ser, buf.Bytes())
			}
			if VarLongSize(tC.v) != len(tC.ser) {
				t.Errorf("VarLongSize expected %d, got %d", len(tC.ser), VarLongSize(tC.v))
			}
		})
		buf.Reset()
	}
}

func TestReadVarLong(t *testing.T) {
	for _, tC := range varlongTc {
		t.Run(tC.desc, func(t *testing.T) {
			r := NewFrameReader(tC.ser)

			got, err := DecodeVarLong(&r)

			if tC.expectErr != nil {
				if !errors.Is(err, tC.expectErr) {
					t.Errorf("DecodeVarLong expected error %v, but got %v", tC.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("DecodeVarLong failed: %v", err)
			}

			if got.Value() != tC.v {
				t.Errorf("DecodeVarLong expected %d, got %d", tC.v, got.Value())
			}
			if n, ok := got.ReadSize(); !ok || n != len(tC.ser) {
				t.Errorf("read size expected %d, got %d", len(tC.ser), n)
			}

			if r.Remaining() != 0 {
				t.Errorf("Reader did not consume all bytes. %d bytes remaining.", r.Remaining())
			}
		})
	}
}

func TestReadVarIntFromReader(t *testing.T) {
	// io.MultiReader hides any ReadByte method of the wrapped reader
	src := io.MultiReader(bytes.NewReader([]byte{0xdd, 0xc7, 0x01, 0x2a}))

	got, err := ReadVarIntFromReader(src)
	if err != nil {
		t.Fatalf("ReadVarIntFromReader failed: %v", err)
	}
	if got != 25565 {
		t.Errorf("expected 25565, got %d", got)
	}

	rest, _ := io.ReadAll(src)
	if !bytes.Equal(rest, []byte{0x2a}) {
		t.Errorf("read past the VarInt: %x left", rest)
	}
}

// TestDecodeVarIntRoundTrip verifies that decoding the encoding of a value
// returns it, with a read size equal to the encoded length.
func TestDecodeVarIntRoundTrip(t *testing.T) {
	values := []int32{math.MinInt32, -1, math.MaxInt32}
	for _, tC := range varintTc {
		if tC.expectErr == nil {
			values = append(values, tC.v)
		}
	}
	rng := rand.New(rand.NewSource(767))
	for i := 0; i < 10000; i++ {
		values = append(values, int32(rng.Uint32()))
	}

	for _, v := range values {
		ser := AppendVarInt(nil, v)
		r := NewFrameReader(ser)

		got, err := DecodeVarInt(&r)
		if err != nil {
			t.Fatalf("DecodeVarInt(% x) failed: %v", ser, err)
		}
		if got.Value() != v {
			t.Errorf("DecodeVarInt(% x) expected %d, got %d", ser, v, got.Value())
		}
		if n, ok := got.ReadSize(); !ok || n != len(ser) {
			t.Errorf("DecodeVarInt(% x) read size expected %d, got %d (%t)", ser, len(ser), n, ok)
		}
		if r.Remaining() != 0 {
			t.Errorf("DecodeVarInt(% x) left %d bytes", ser, r.Remaining())
		}
	}
}

// TestDecodeVarLongRoundTrip is TestDecodeVarIntRoundTrip for VarLong.
func TestDecodeVarLongRoundTrip(t *testing.T) {
	values := []int64{math.MinInt64, -1, math.MaxInt64}
	for _, tC := range varlongTc {
		if tC.expectErr == nil {
			values = append(values, tC.v)
		}
	}
	rng := rand.New(rand.NewSource(767))
	for i := 0; i < 10000; i++ {
		values = append(values, int64(rng.Uint64()))
	}

	for _, v := range values {
		ser := AppendVarLong(nil, v)
		r := NewFrameReader(ser)

		got, err := DecodeVarLong(&r)
		if err != nil {
			t.Fatalf("DecodeVarLong(% x) failed: %v", ser, err)
		}
		if got.Value() != v {
			t.Errorf("DecodeVarLong(% x) expected %d, got %d", ser, v, got.Value())
		}
		if n, ok := got.ReadSize(); !ok || n != len(ser) {
			t.Errorf("DecodeVarLong(% x) read size expected %d, got %d (%t)", ser, len(ser), n, ok)
		}
		if r.Remaining() != 0 {
			t.Errorf("DecodeVarLong(% x) left %d bytes", ser, r.Remaining())
		}
	}
}
