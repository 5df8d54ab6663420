//go:generate go run ../codegen/gen_packet_codec.go -- .
package packet

import (
	"io"
)

// ProtocolVersion is the protocol number this package speaks (1.21).
const ProtocolVersion = 767

// Packet is one packet body together with its id. Encode and Decode cover
// the body only; the id and length prefixes belong to the framing layer.
type Packet interface {
	ID() int32
	Encode(w io.Writer) error
	Decode(r *FrameReader) error
}

// Raw is a packet whose body is kept as opaque bytes, used for phases this
// package does not model.
type Raw struct {
	PacketID int32
	Body     []byte
}

func (p Raw) ID() int32 {
	return p.PacketID
}

func (p Raw) Encode(w io.Writer) (err error) {
	_, err = w.Write(p.Body)
	return
}

func (p *Raw) Decode(r *FrameReader) (err error) {
	p.Body, err = ReadRemainingBytes(r)
	return
}
