package nbt

import (
	"fmt"
	"io"

	"github.com/gstoney/mcproto/mutf8"
	"github.com/gstoney/mcproto/packet"
)

// DefaultMaxDepth is the deepest nesting of lists and compounds a Decoder
// accepts unless told otherwise. The root container is at depth 1.
const DefaultMaxDepth = 512

// maxPrealloc caps the capacity reserved from a declared element count.
const maxPrealloc = 1024

var ErrNestedDepthExceeded = fmt.Errorf("%w: nbt nested too deep", packet.ErrLimitExceeded)

// InvalidTagTypeError reports a type byte outside TAG_End..TAG_Long_Array.
type InvalidTagTypeError struct {
	Type byte
}

func (e *InvalidTagTypeError) Error() string {
	return fmt.Sprintf("nbt: invalid tag type 0x%02x", e.Type)
}

func (e *InvalidTagTypeError) Unwrap() error {
	return packet.ErrMalformed
}

// Decoder reads tag trees from a byte source.
type Decoder struct {
	r packet.Reader

	// MaxDepth bounds nesting; zero means DefaultMaxDepth.
	MaxDepth int
}

// NewDecoder reads from r without buffering, so nothing past the tree is
// consumed. Wrap slow readers in a bufio.Reader first.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: packet.NewStreamReader(r)}
}

// NewFieldDecoder reads from a packet field reader, letting a tree be
// decoded in place inside a packet body.
func NewFieldDecoder(r packet.Reader) *Decoder {
	return &Decoder{r: r}
}

func (d *Decoder) maxDepth() int {
	if d.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return d.MaxDepth
}

// Decode reads a named root tag, as found in files. A root of any type is
// accepted. io.EOF is returned only if the source is empty.
func (d *Decoder) Decode() (NamedTag, error) {
	t, err := d.readType(true)
	if err != nil {
		return NamedTag{}, err
	}
	if t == TagEnd {
		return NamedTag{Tag: End{}}, nil
	}

	name, err := d.readString()
	if err != nil {
		return NamedTag{}, err
	}

	tag, err := d.readPayload(t, 0)
	if err != nil {
		return NamedTag{}, err
	}
	return NamedTag{Name: name, Tag: tag}, nil
}

// DecodeNameless reads a root tag without a name, as sent over the network
// since protocol 764. A lone TAG_End means no tree and decodes as End{}.
func (d *Decoder) DecodeNameless() (Tag, error) {
	t, err := d.readType(true)
	if err != nil {
		return nil, err
	}
	return d.readPayload(t, 0)
}

func Unmarshal(b []byte) (NamedTag, error) {
	r := packet.NewFrameReader(b)
	nt, err := NewFieldDecoder(&r).Decode()
	if err != nil {
		return NamedTag{}, noEOF(err)
	}
	if r.Remaining() != 0 {
		return NamedTag{}, fmt.Errorf("%w: %d bytes after root tag", packet.ErrMalformed, r.Remaining())
	}
	return nt, nil
}

func UnmarshalNameless(b []byte) (Tag, error) {
	r := packet.NewFrameReader(b)
	tag, err := NewFieldDecoder(&r).DecodeNameless()
	if err != nil {
		return nil, noEOF(err)
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d bytes after root tag", packet.ErrMalformed, r.Remaining())
	}
	return tag, nil
}

// ReadNetwork reads a nameless tree from a packet body.
func ReadNetwork(r packet.Reader) (Tag, error) {
	return NewFieldDecoder(r).DecodeNameless()
}

func (d *Decoder) readType(root bool) (TagType, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		if !root {
			err = noEOF(err)
		}
		return 0, err
	}

	t := TagType(b)
	if !t.Valid() {
		return 0, &InvalidTagTypeError{Type: b}
	}
	return t, nil
}

func (d *Decoder) readString() (string, error) {
	n, err := packet.ReadUnsignedShort(d.r)
	if err != nil {
		return "", noEOF(err)
	}

	b, err := d.r.Read(int(n))
	if err != nil {
		return "", noEOF(err)
	}

	s, err := mutf8.Decode(b)
	if err != nil {
		return "", fmt.Errorf("%w: %w", packet.ErrStringEncoding, err)
	}
	return s, nil
}

// readCount reads an Int element count and rejects negative or
// unreasonable values before anything is allocated. A positive elemSize
// also checks the count against the bytes left, for fixed width arrays.
func (d *Decoder) readCount(elemSize int) (int, error) {
	n, err := packet.ReadInt(d.r)
	if err != nil {
		return 0, noEOF(err)
	}

	if n < 0 {
		return 0, packet.ErrNegativeLength
	}
	if int(n) > packet.MaxArrayLen {
		return 0, packet.ErrArrayTooLong
	}
	if rem, ok := d.r.(interface{ Remaining() int }); ok && elemSize > 0 && int(n)*elemSize > rem.Remaining() {
		return 0, io.ErrUnexpectedEOF
	}
	return int(n), nil
}

// readPayload decodes the payload of a tag of type t found at depth.
func (d *Decoder) readPayload(t TagType, depth int) (Tag, error) {
	switch t {
	case TagEnd:
		return End{}, nil
	case TagByte:
		v, err := packet.ReadSignedByte(d.r)
		return Byte(v), noEOF(err)
	case TagShort:
		v, err := packet.ReadShort(d.r)
		return Short(v), noEOF(err)
	case TagInt:
		v, err := packet.ReadInt(d.r)
		return Int(v), noEOF(err)
	case TagLong:
		v, err := packet.ReadLong(d.r)
		return Long(v), noEOF(err)
	case TagFloat:
		v, err := packet.ReadFloat(d.r)
		return Float(v), noEOF(err)
	case TagDouble:
		v, err := packet.ReadDouble(d.r)
		return Double(v), noEOF(err)
	case TagString:
		s, err := d.readString()
		return String(s), err
	case TagByteArray:
		return d.readByteArray()
	case TagIntArray:
		return d.readIntArray()
	case TagLongArray:
		return d.readLongArray()
	case TagList:
		return d.readList(depth + 1)
	case TagCompound:
		return d.readCompound(depth + 1)
	}
	return nil, &InvalidTagTypeError{Type: byte(t)}
}

func (d *Decoder) readByteArray() (Tag, error) {
	n, err := d.readCount(1)
	if err != nil {
		return nil, err
	}

	b, err := d.r.Read(n)
	if err != nil {
		return nil, noEOF(err)
	}

	arr := make(ByteArray, n)
	for i, v := range b {
		arr[i] = int8(v)
	}
	return arr, nil
}

func (d *Decoder) readIntArray() (Tag, error) {
	n, err := d.readCount(4)
	if err != nil {
		return nil, err
	}

	arr := make(IntArray, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		v, err := packet.ReadInt(d.r)
		if err != nil {
			return nil, noEOF(err)
		}
		arr = append(arr, v)
	}
	return arr, nil
}

func (d *Decoder) readLongArray() (Tag, error) {
	n, err := d.readCount(8)
	if err != nil {
		return nil, err
	}

	arr := make(LongArray, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		v, err := packet.ReadLong(d.r)
		if err != nil {
			return nil, noEOF(err)
		}
		arr = append(arr, v)
	}
	return arr, nil
}

func (d *Decoder) readList(depth int) (Tag, error) {
	if depth > d.maxDepth() {
		return nil, ErrNestedDepthExceeded
	}

	elem, err := d.readType(false)
	if err != nil {
		return nil, err
	}

	// elements are decoded one by one so a short list fails at the
	// first missing element
	n, err := d.readCount(0)
	if err != nil {
		return nil, err
	}
	if elem == TagEnd && n > 0 {
		return nil, fmt.Errorf("%w: %w", packet.ErrMalformed, ErrEndList)
	}

	items := make([]Tag, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		item, err := d.readPayload(elem, depth)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return List{elem: elem, items: items}, nil
}

func (d *Decoder) readCompound(depth int) (Tag, error) {
	if depth > d.maxDepth() {
		return nil, ErrNestedDepthExceeded
	}

	c := Compound{}
	for {
		t, err := d.readType(false)
		if err != nil {
			return nil, err
		}
		if t == TagEnd {
			return c, nil
		}

		name, err := d.readString()
		if err != nil {
			return nil, err
		}

		tag, err := d.readPayload(t, depth)
		if err != nil {
			return nil, err
		}
		c = append(c, NamedTag{Name: name, Tag: tag})
	}
}

func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
