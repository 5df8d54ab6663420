package mcproto

import (
	"fmt"

	"github.com/gstoney/mcproto/packet"
)

// ProtocolState is the phase of a connection. It decides which packet ids are
// legal and how they decode.
type ProtocolState uint8

const (
	StateHandshake ProtocolState = iota
	StateStatus
	StateLogin
	StateConfiguration
	StatePlay
)

func (s ProtocolState) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateStatus:
		return "status"
	case StateLogin:
		return "login"
	case StateConfiguration:
		return "configuration"
	case StatePlay:
		return "play"
	}
	return fmt.Sprintf("ProtocolState(%d)", uint8(s))
}

// CanTransition reports whether to directly follows s. Status and Play are
// terminal and no phase is ever revisited.
func (s ProtocolState) CanTransition(to ProtocolState) bool {
	switch s {
	case StateHandshake:
		return to == StateStatus || to == StateLogin
	case StateLogin:
		return to == StateConfiguration
	case StateConfiguration:
		return to == StatePlay
	}
	return false
}

// Direction is the side a packet travels towards.
type Direction uint8

const (
	Serverbound Direction = iota
	Clientbound
)

func (d Direction) String() string {
	if d == Serverbound {
		return "serverbound"
	}
	return "clientbound"
}

var (
	ErrInvalidNextState = fmt.Errorf("%w: invalid next state", packet.ErrProtocolViolation)
	ErrInvalidState     = fmt.Errorf("%w: invalid protocol state", packet.ErrProtocolViolation)
)

// Advance returns the state that follows p travelling in dir. Packets that do
// not end a phase leave the state as is.
func Advance(state ProtocolState, dir Direction, p packet.Packet) (next ProtocolState, err error) {
	next = state
	if dir != Serverbound {
		return
	}

	switch v := p.(type) {
	case *packet.HandshakePacket:
		if state != StateHandshake {
			break
		}
		switch v.NextState {
		case packet.NextStateStatus:
			next = StateStatus
		case packet.NextStateLogin:
			next = StateLogin
		default:
			err = fmt.Errorf("%w: %s", ErrInvalidNextState, v.NextState)
			return state, err
		}
	case *packet.LoginAcknowledge:
		if state == StateLogin {
			next = StateConfiguration
		}
	case *packet.AcknowledgeFinishConfiguration:
		if state == StateConfiguration {
			next = StatePlay
		}
	}
	return
}
