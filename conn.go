package mcproto

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gstoney/mcproto/packet"
)

var ErrEncryptionState = fmt.Errorf("%w: encryption can only start during login", packet.ErrProtocolViolation)

// Conn tracks the protocol phase of one connection and applies phase changes
// as packets pass through it. A Conn is not safe for concurrent use.
type Conn struct {
	t     *Transport
	rw    io.ReadWriter
	state ProtocolState
	recv  Direction

	// Logger receives state changes at debug level; nil means slog.Default().
	Logger *slog.Logger
}

// NewServerConn returns a Conn for the accepting side: it reads serverbound
// packets and writes clientbound ones.
func NewServerConn(rw io.ReadWriter, cfg TransportConfig) *Conn {
	return &Conn{t: NewTransport(rw, rw, cfg), rw: rw, recv: Serverbound}
}

// NewClientConn returns a Conn for the dialing side.
func NewClientConn(rw io.ReadWriter, cfg TransportConfig) *Conn {
	return &Conn{t: NewTransport(rw, rw, cfg), rw: rw, recv: Clientbound}
}

func (c *Conn) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Conn) State() ProtocolState {
	return c.state
}

func (c *Conn) Transport() *Transport {
	return c.t
}

func (c *Conn) send() Direction {
	if c.recv == Serverbound {
		return Clientbound
	}
	return Serverbound
}

// ReadPacket reads the next packet legal in the current phase and advances
// the phase if the packet ends it.
func (c *Conn) ReadPacket() (packet.Packet, error) {
	p, err := ReadPacket(c.t, c.state, c.recv)
	if err != nil {
		return nil, err
	}
	if err = c.apply(c.recv, p); err != nil {
		return nil, err
	}
	return p, nil
}

// WritePacket sends p, refusing ids that are not legal in the current phase.
func (c *Conn) WritePacket(p packet.Packet) error {
	dir := c.send()
	if err := CheckPacket(c.state, dir, p); err != nil {
		return err
	}
	if _, err := Advance(c.state, dir, p); err != nil {
		return err
	}

	if err := WritePacket(c.t, p); err != nil {
		return err
	}
	return c.apply(dir, p)
}

func (c *Conn) apply(dir Direction, p packet.Packet) error {
	next, err := Advance(c.state, dir, p)
	if err != nil {
		return err
	}
	if next != c.state {
		c.logger().Debug("protocol state changed", "from", c.state, "to", next)
		c.state = next
	}

	if sc, ok := p.(*packet.SetCompression); ok && c.state == StateLogin && dir == Clientbound {
		if err := c.t.EnableCompression(int(sc.Threshold)); err != nil {
			return err
		}
		c.logger().Debug("compression enabled", "threshold", sc.Threshold)
	}
	return nil
}

// EnableEncryption layers e under the framing. It is only allowed during
// login, after the encryption request and response have been exchanged.
func (c *Conn) EnableEncryption(e Encryption) error {
	if c.state != StateLogin {
		return ErrEncryptionState
	}
	if err := c.t.EnableEncryption(e); err != nil {
		return err
	}
	c.logger().Debug("encryption enabled")
	return nil
}

// Close closes the underlying stream if it can be closed.
func (c *Conn) Close() error {
	if cl, ok := c.rw.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
