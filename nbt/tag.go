// Package nbt reads and writes the Named Binary Tag format.
//
// A tree is built from the concrete Tag types in this package. Compounds keep
// their children in wire order and keep duplicate names, so a decoded tree
// encodes back to the same bytes. Lists are built with NewList, which
// enforces that every element has the list's element type.
package nbt

import (
	"errors"
	"fmt"

	"github.com/gstoney/mcproto/mutf8"
)

type TagType byte

// All tags are big endian.
const (
	TagEnd       TagType = iota // No payload, no name.
	TagByte                     // Signed 8 bit integer.
	TagShort                    // Signed 16 bit integer.
	TagInt                      // Signed 32 bit integer.
	TagLong                     // Signed 64 bit integer.
	TagFloat                    // IEEE 754 32 bit floating point number.
	TagDouble                   // IEEE 754 64 bit floating point number.
	TagByteArray                // size TagInt, then [size]int8.
	TagString                   // length uint16, then Modified UTF-8 bytes.
	TagList                     // element type byte, length TagInt, then [length] payloads.
	TagCompound                 // { type byte, name, payload }... TagEnd
	TagIntArray                 // size TagInt, then [size]TagInt
	TagLongArray                // size TagInt, then [size]TagLong
)

func (t TagType) Valid() bool {
	return t <= TagLongArray
}

func (t TagType) String() string {
	name := "TAG_Unknown"
	switch t {
	case TagEnd:
		name = "TAG_End"
	case TagByte:
		name = "TAG_Byte"
	case TagShort:
		name = "TAG_Short"
	case TagInt:
		name = "TAG_Int"
	case TagLong:
		name = "TAG_Long"
	case TagFloat:
		name = "TAG_Float"
	case TagDouble:
		name = "TAG_Double"
	case TagByteArray:
		name = "TAG_Byte_Array"
	case TagString:
		name = "TAG_String"
	case TagList:
		name = "TAG_List"
	case TagCompound:
		name = "TAG_Compound"
	case TagIntArray:
		name = "TAG_Int_Array"
	case TagLongArray:
		name = "TAG_Long_Array"
	}
	return fmt.Sprintf("%s (0x%02x)", name, byte(t))
}

// Tag is implemented only by the types in this package.
type Tag interface {
	Type() TagType
	tag()
}

type (
	End       struct{}
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []int8
	String    string
	IntArray  []int32
	LongArray []int64
)

func (End) Type() TagType       { return TagEnd }
func (Byte) Type() TagType      { return TagByte }
func (Short) Type() TagType     { return TagShort }
func (Int) Type() TagType       { return TagInt }
func (Long) Type() TagType      { return TagLong }
func (Float) Type() TagType     { return TagFloat }
func (Double) Type() TagType    { return TagDouble }
func (ByteArray) Type() TagType { return TagByteArray }
func (String) Type() TagType    { return TagString }
func (List) Type() TagType      { return TagList }
func (Compound) Type() TagType  { return TagCompound }
func (IntArray) Type() TagType  { return TagIntArray }
func (LongArray) Type() TagType { return TagLongArray }

func (End) tag()       {}
func (Byte) tag()      {}
func (Short) tag()     {}
func (Int) tag()       {}
func (Long) tag()      {}
func (Float) tag()     {}
func (Double) tag()    {}
func (ByteArray) tag() {}
func (String) tag()    {}
func (List) tag()      {}
func (Compound) tag()  {}
func (IntArray) tag()  {}
func (LongArray) tag() {}

var (
	ErrMixedList = errors.New("nbt: list elements differ in type")
	ErrEndList   = errors.New("nbt: non-empty list of TAG_End")
	ErrNilTag    = errors.New("nbt: nil tag")
)

// List is a homogeneous sequence of unnamed tags. The zero value is an empty
// list of TAG_End.
type List struct {
	elem  TagType
	items []Tag
}

// NewList returns a list of elem holding items. An empty list keeps elem so
// it encodes back to the same element type byte.
func NewList(elem TagType, items ...Tag) (List, error) {
	if !elem.Valid() {
		return List{}, &InvalidTagTypeError{Type: byte(elem)}
	}
	if elem == TagEnd && len(items) > 0 {
		return List{}, ErrEndList
	}

	for i, item := range items {
		if item == nil {
			return List{}, ErrNilTag
		}
		if item.Type() != elem {
			return List{}, fmt.Errorf("%w: element %d is %s, list is %s", ErrMixedList, i, item.Type(), elem)
		}
	}

	return List{elem: elem, items: append(make([]Tag, 0, len(items)), items...)}, nil
}

func MustList(elem TagType, items ...Tag) List {
	l, err := NewList(elem, items...)
	if err != nil {
		panic(err)
	}
	return l
}

func (l List) ElemType() TagType {
	return l.elem
}

func (l List) Len() int {
	return len(l.items)
}

func (l List) At(i int) Tag {
	return l.items[i]
}

// Items returns a copy of the elements.
func (l List) Items() []Tag {
	return append([]Tag(nil), l.items...)
}

// NamedTag is a tag together with the name it carries inside a compound or
// at the root.
type NamedTag struct {
	Name string
	Tag  Tag
}

// RawName returns the name in its Modified UTF-8 wire form.
func (n NamedTag) RawName() []byte {
	return mutf8.Encode(n.Name)
}

// Compound is an ordered collection of named tags. Names may repeat.
type Compound []NamedTag

// Get returns the first tag called name.
func (c Compound) Get(name string) (Tag, bool) {
	for _, nt := range c {
		if nt.Name == name {
			return nt.Tag, true
		}
	}
	return nil, false
}

// GetAll returns every tag called name, in order.
func (c Compound) GetAll(name string) []Tag {
	var tags []Tag
	for _, nt := range c {
		if nt.Name == name {
			tags = append(tags, nt.Tag)
		}
	}
	return tags
}

func (c Compound) Names() []string {
	names := make([]string, len(c))
	for i, nt := range c {
		names[i] = nt.Name
	}
	return names
}
