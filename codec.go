package mcproto

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/gstoney/mcproto/packet"
)

var (
	ErrTrailingData           = fmt.Errorf("%w: trailing data after packet body", packet.ErrMalformed)
	ErrNoClientboundHandshake = fmt.Errorf("%w: no clientbound packets in handshake", packet.ErrProtocolViolation)
)

// UnknownPacketError is returned for an id that has no meaning in the phase
// and direction it arrived in.
type UnknownPacketError struct {
	State     ProtocolState
	Direction Direction
	ID        int32
}

func (e *UnknownPacketError) Error() string {
	return fmt.Sprintf("unknown %s %s packet 0x%02x", e.State, e.Direction, e.ID)
}

func (e *UnknownPacketError) Unwrap() error {
	return packet.ErrProtocolViolation
}

// registry returns the decoders for state and dir. Opaque phases pass ids
// missing from the registry through as *packet.Raw.
func registry(state ProtocolState, dir Direction) (reg map[int32]func() packet.Packet, opaque bool, err error) {
	switch state {
	case StateHandshake:
		if dir == Clientbound {
			return nil, false, ErrNoClientboundHandshake
		}
		reg = packet.HandshakeServerboundRegistry
	case StateStatus:
		reg = packet.StatusServerboundRegistry
		if dir == Clientbound {
			reg = packet.StatusClientboundRegistry
		}
	case StateLogin:
		reg = packet.LoginServerboundRegistry
		if dir == Clientbound {
			reg = packet.LoginClientboundRegistry
		}
	case StateConfiguration:
		reg, opaque = packet.ConfigurationServerboundRegistry, true
		if dir == Clientbound {
			reg = packet.ConfigurationClientboundRegistry
		}
	case StatePlay:
		opaque = true
	default:
		err = ErrInvalidState
	}
	return
}

// CheckPacket reports whether p may travel in dir during state. Opaque
// phases accept a *packet.Raw unless its id has a typed packet, which the
// peer would decode as that packet.
func CheckPacket(state ProtocolState, dir Direction, p packet.Packet) error {
	reg, opaque, err := registry(state, dir)
	if err != nil {
		return err
	}

	newPacket, ok := reg[p.ID()]
	if _, raw := p.(*packet.Raw); raw && opaque && !ok {
		return nil
	}
	if ok && reflect.TypeOf(newPacket()) == reflect.TypeOf(p) {
		return nil
	}
	return &UnknownPacketError{State: state, Direction: dir, ID: p.ID()}
}

// ReadPacket receives one frame from t and decodes it as a packet travelling
// in dir during state. The frame is buffered whole and its body must be
// consumed exactly.
func ReadPacket(t *Transport, state ProtocolState, dir Direction) (packet.Packet, error) {
	reg, opaque, err := registry(state, dir)
	if err != nil {
		return nil, err
	}

	pr, err := t.Recv()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, pr.Remaining())
	if _, err = io.ReadFull(pr, buf); err != nil {
		return nil, err
	}
	if err = pr.Close(); err != nil {
		return nil, err
	}

	return decodePacket(buf, state, dir, reg, opaque)
}

func decodePacket(buf []byte, state ProtocolState, dir Direction, reg map[int32]func() packet.Packet, opaque bool) (p packet.Packet, err error) {
	fr := packet.NewFrameReader(buf)

	id, err := packet.ReadVarInt(&fr)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, err
	}

	if newPacket, ok := reg[id]; ok {
		p = newPacket()
	} else if opaque {
		p = &packet.Raw{PacketID: id}
	} else {
		return nil, &UnknownPacketError{State: state, Direction: dir, ID: id}
	}

	if err = p.Decode(&fr); err != nil {
		return nil, err
	}
	if fr.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d bytes after packet 0x%02x", ErrTrailingData, fr.Remaining(), id)
	}
	return p, nil
}

// MarshalPacket returns the id and body of p, without the length prefix.
func MarshalPacket(p packet.Packet) ([]byte, error) {
	var buf bytes.Buffer
	if err := packet.WriteVarInt(&buf, p.ID()); err != nil {
		return nil, err
	}
	if err := p.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePacket sends p as one frame on t.
func WritePacket(t *Transport, p packet.Packet) error {
	b, err := MarshalPacket(p)
	if err != nil {
		return err
	}
	return t.Send(b)
}
