package nbt

import (
	"bufio"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
)

type Compression byte

const (
	Uncompressed Compression = iota
	GZip
	ZLib
)

func (c Compression) String() string {
	switch c {
	case Uncompressed:
		return "uncompressed"
	case GZip:
		return "gzip"
	case ZLib:
		return "zlib"
	}
	return fmt.Sprintf("Compression(%d)", byte(c))
}

// DetectCompression looks at the first bytes of r without consuming them.
func DetectCompression(r *bufio.Reader) (Compression, error) {
	head, err := r.Peek(2)
	if err != nil && len(head) == 0 {
		return Uncompressed, err
	}

	switch {
	case len(head) == 2 && head[0] == 0x1f && head[1] == 0x8b:
		return GZip, nil
	case len(head) == 2 && head[0] == 0x78 && (uint16(head[0])<<8|uint16(head[1]))%31 == 0:
		return ZLib, nil
	}
	return Uncompressed, nil
}

// ReadCompressed decodes a named tree stored plain, gzip or zlib
// compressed, as level.dat and region chunks are.
func ReadCompressed(r io.Reader) (NamedTag, Compression, error) {
	br := bufio.NewReader(r)
	c, err := DetectCompression(br)
	if err != nil {
		return NamedTag{}, c, noEOF(err)
	}

	var src io.Reader = br
	switch c {
	case GZip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return NamedTag{}, c, err
		}
		defer zr.Close()
		src = bufio.NewReader(zr)
	case ZLib:
		zr, err := zlib.NewReader(br)
		if err != nil {
			return NamedTag{}, c, err
		}
		defer zr.Close()
		src = bufio.NewReader(zr)
	}

	nt, err := NewDecoder(src).Decode()
	return nt, c, noEOF(err)
}

// WriteCompressed encodes nt using c.
func WriteCompressed(w io.Writer, nt NamedTag, c Compression) error {
	var zw io.WriteCloser
	switch c {
	case Uncompressed:
		return NewEncoder(w).Encode(nt)
	case GZip:
		zw = gzip.NewWriter(w)
	case ZLib:
		zw = zlib.NewWriter(w)
	default:
		return fmt.Errorf("nbt: unknown compression %s", c)
	}

	bw := bufio.NewWriter(zw)
	if err := NewEncoder(bw).Encode(nt); err != nil {
		zw.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
