package packet

import (
	"fmt"
	"io"
)

// NextState is the phase requested by a handshake. Values other than the
// defined constants decode without error so they can be reported; Known
// tells them apart.
type NextState int32

const (
	NextStateStatus   NextState = 1
	NextStateLogin    NextState = 2
	NextStateTransfer NextState = 3
)

func (s NextState) Known() bool {
	return s == NextStateStatus || s == NextStateLogin
}

func (s NextState) String() string {
	switch s {
	case NextStateStatus:
		return "Status"
	case NextStateLogin:
		return "Login"
	case NextStateTransfer:
		return "Transfer"
	}
	return fmt.Sprintf("NextState(%d)", int32(s))
}

func WriteNextState(w io.Writer, v NextState) error {
	return WriteVarInt(w, int32(v))
}

func ReadNextState(r Reader) (v NextState, err error) {
	raw, err := ReadVarInt(r)
	if err != nil {
		err = noEOF(err)
		return
	}

	v = NextState(raw)
	return
}

// @gen:r,w,regserver
type HandshakePacket struct {
	ProtocolVersion int32     `field:"VarInt"`
	ServerAddr      string    `field:"String"`
	ServerPort      uint16    `field:"UnsignedShort"`
	NextState       NextState `field:"NextState"`
}

func (p HandshakePacket) ID() int32 {
	return 0
}
