package mcproto

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gstoney/mcproto/packet"
)

var (
	ErrPongMismatch     = fmt.Errorf("%w: pong does not echo the ping payload", packet.ErrProtocolViolation)
	ErrUnexpectedPacket = fmt.Errorf("%w: unexpected packet", packet.ErrProtocolViolation)
)

// Handshake sends the opening packet of a client connection, moving it to
// the phase next names.
func (c *Conn) Handshake(host string, port uint16, next packet.NextState) error {
	return c.WritePacket(&packet.HandshakePacket{
		ProtocolVersion: packet.ProtocolVersion,
		ServerAddr:      host,
		ServerPort:      port,
		NextState:       next,
	})
}

// StatusResult is what a server reported during a status exchange.
type StatusResult struct {
	Status packet.ServerStatus
	// Raw is the JSON document as sent.
	Raw     string
	Latency time.Duration
}

// QueryStatus performs the status request and the ping exchange on a client
// connection that already sent a status handshake.
func QueryStatus(c *Conn) (res StatusResult, err error) {
	if c.State() != StateStatus {
		err = fmt.Errorf("%w: status query in %s", ErrInvalidState, c.State())
		return
	}

	if err = c.WritePacket(&packet.StatusReqPacket{}); err != nil {
		return
	}

	p, err := c.ReadPacket()
	if err != nil {
		return
	}
	resp, ok := p.(*packet.StatusRespPacket)
	if !ok {
		err = fmt.Errorf("%w: %T", ErrUnexpectedPacket, p)
		return
	}

	res.Raw = resp.Response
	if res.Status, err = resp.Status(); err != nil {
		return
	}

	start := time.Now()
	payload := start.UnixMilli()
	if err = c.WritePacket(&packet.PingReqPacket{Timestamp: payload}); err != nil {
		return
	}

	if p, err = c.ReadPacket(); err != nil {
		return
	}
	pong, ok := p.(*packet.PongRespPacket)
	if !ok {
		err = fmt.Errorf("%w: %T", ErrUnexpectedPacket, p)
		return
	}
	if pong.Timestamp != payload {
		err = fmt.Errorf("%w: sent %d, got %d", ErrPongMismatch, payload, pong.Timestamp)
		return
	}

	res.Latency = time.Since(start)
	return
}

// ServeStatus answers status requests with status until the client pings,
// then echoes the ping and returns. A client closing the stream before it
// pings is not an error.
func ServeStatus(c *Conn, status packet.ServerStatus) error {
	if c.State() != StateStatus {
		return fmt.Errorf("%w: status exchange in %s", ErrInvalidState, c.State())
	}

	resp, err := packet.NewStatusResponse(status)
	if err != nil {
		return err
	}

	for {
		p, err := c.ReadPacket()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch v := p.(type) {
		case *packet.StatusReqPacket:
			if err := c.WritePacket(&resp); err != nil {
				return err
			}
		case *packet.PingReqPacket:
			return c.WritePacket(&packet.PongRespPacket{Timestamp: v.Timestamp})
		default:
			return fmt.Errorf("%w: %T", ErrUnexpectedPacket, p)
		}
	}
}
