package nbt

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/gstoney/mcproto/mutf8"
	"github.com/gstoney/mcproto/packet"
)

// Encoder writes tag trees to w.
type Encoder struct {
	w io.Writer

	// MaxDepth bounds nesting; zero means DefaultMaxDepth.
	MaxDepth int
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) maxDepth() int {
	if e.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return e.MaxDepth
}

// Encode writes a named root tag.
func (e *Encoder) Encode(nt NamedTag) error {
	if nt.Tag == nil {
		return ErrNilTag
	}

	t := nt.Tag.Type()
	if err := packet.WriteByte(e.w, byte(t)); err != nil {
		return err
	}
	if t == TagEnd {
		return nil
	}

	if err := e.writeString(nt.Name); err != nil {
		return err
	}
	return e.writePayload(nt.Tag, 0)
}

// EncodeNameless writes a root tag without a name.
func (e *Encoder) EncodeNameless(tag Tag) error {
	if tag == nil {
		return ErrNilTag
	}

	if err := packet.WriteByte(e.w, byte(tag.Type())); err != nil {
		return err
	}
	return e.writePayload(tag, 0)
}

func Marshal(nt NamedTag) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(nt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func MarshalNameless(tag Tag) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).EncodeNameless(tag); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteNetwork writes tag as a nameless tree into a packet body.
func WriteNetwork(w io.Writer, tag Tag) error {
	return NewEncoder(w).EncodeNameless(tag)
}

func (e *Encoder) writeString(s string) error {
	b := mutf8.Encode(s)
	if len(b) > math.MaxUint16 {
		return fmt.Errorf("%w: %d bytes", packet.ErrStringTooLong, len(b))
	}

	if err := packet.WriteUnsignedShort(e.w, uint16(len(b))); err != nil {
		return err
	}
	_, err := e.w.Write(b)
	return err
}

func (e *Encoder) writeCount(n int) error {
	if n > math.MaxInt32 {
		return fmt.Errorf("%w: %d elements", packet.ErrArrayTooLong, n)
	}
	return packet.WriteInt(e.w, int32(n))
}

func (e *Encoder) writePayload(tag Tag, depth int) error {
	switch v := tag.(type) {
	case End:
		return nil
	case Byte:
		return packet.WriteSignedByte(e.w, int8(v))
	case Short:
		return packet.WriteShort(e.w, int16(v))
	case Int:
		return packet.WriteInt(e.w, int32(v))
	case Long:
		return packet.WriteLong(e.w, int64(v))
	case Float:
		return packet.WriteFloat(e.w, float32(v))
	case Double:
		return packet.WriteDouble(e.w, float64(v))
	case String:
		return e.writeString(string(v))
	case ByteArray:
		if err := e.writeCount(len(v)); err != nil {
			return err
		}
		b := make([]byte, len(v))
		for i, x := range v {
			b[i] = byte(x)
		}
		_, err := e.w.Write(b)
		return err
	case IntArray:
		if err := e.writeCount(len(v)); err != nil {
			return err
		}
		return packet.WriteFixedArray(e.w, []int32(v), packet.WriteInt)
	case LongArray:
		if err := e.writeCount(len(v)); err != nil {
			return err
		}
		return packet.WriteFixedArray(e.w, []int64(v), packet.WriteLong)
	case List:
		return e.writeList(v, depth+1)
	case Compound:
		return e.writeCompound(v, depth+1)
	case nil:
		return ErrNilTag
	}
	return fmt.Errorf("nbt: unsupported tag %T", tag)
}

func (e *Encoder) writeList(l List, depth int) error {
	if depth > e.maxDepth() {
		return ErrNestedDepthExceeded
	}

	if err := packet.WriteByte(e.w, byte(l.elem)); err != nil {
		return err
	}
	if err := e.writeCount(len(l.items)); err != nil {
		return err
	}

	for _, item := range l.items {
		if err := e.writePayload(item, depth); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeCompound(c Compound, depth int) error {
	if depth > e.maxDepth() {
		return ErrNestedDepthExceeded
	}

	for _, nt := range c {
		if nt.Tag == nil {
			return fmt.Errorf("%w: compound entry %q", ErrNilTag, nt.Name)
		}

		t := nt.Tag.Type()
		if t == TagEnd {
			return fmt.Errorf("nbt: compound entry %q is TAG_End", nt.Name)
		}
		if err := packet.WriteByte(e.w, byte(t)); err != nil {
			return err
		}
		if err := e.writeString(nt.Name); err != nil {
			return err
		}
		if err := e.writePayload(nt.Tag, depth); err != nil {
			return err
		}
	}
	return packet.WriteByte(e.w, byte(TagEnd))
}
