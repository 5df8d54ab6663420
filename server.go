package mcproto

import (
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/gstoney/mcproto/packet"
)

// A Server defines parameters for accepting Minecraft connections.
type Server struct {
	// TransportConfig is used for every accepted connection.
	TransportConfig TransportConfig

	// StatusHandler builds the status document for a status handshake. Nil
	// closes status connections without answering.
	StatusHandler StatusHandler

	// LoginHandler takes over a connection in the login phase. Nil disconnects
	// the client.
	LoginHandler LoginHandler

	// HandshakeTimeout bounds the time a new connection has to send its
	// handshake; zero means no deadline.
	HandshakeTimeout time.Duration

	Logger *slog.Logger
}

type StatusHandler func(s *Session) (packet.ServerStatus, error)

// LoginHandler owns c until it returns. c is closed afterwards.
type LoginHandler func(s *Session, c *Conn) error

// A Session stores what a client declared in its handshake.
type Session struct {
	LocalAddr  net.Addr
	RemoteAddr net.Addr

	ProtocolVersion int32
	ServerAddr      string
	ServerPort      uint16
	NextState       packet.NextState
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Serve accepts incoming connections on the Listener l,
// creating a new goroutine for each.
// The goroutines read the handshake packet and either respond to
// a status request or hand the connection to LoginHandler.
// Serve returns when l is closed.
func (s *Server) Serve(l net.Listener) error {
	for {
		c, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger().Warn("accept failed", "err", err)
			continue
		}

		go s.ServeConn(c)
	}
}

// ServeConn handles one accepted connection and closes it when done.
func (s *Server) ServeConn(nc net.Conn) {
	defer nc.Close()

	log := s.logger().With("remote", nc.RemoteAddr().String())

	c := NewServerConn(nc, s.TransportConfig)
	c.Logger = log

	if s.HandshakeTimeout > 0 {
		if err := nc.SetReadDeadline(time.Now().Add(s.HandshakeTimeout)); err != nil {
			log.Debug("set handshake deadline failed", "err", err)
		}
	}

	p, err := c.ReadPacket()
	if err != nil {
		log.Warn("handshake failed", "err", err)
		return
	}
	if err := nc.SetReadDeadline(time.Time{}); err != nil {
		log.Debug("clear handshake deadline failed", "err", err)
	}

	hs := p.(*packet.HandshakePacket)
	session := &Session{
		LocalAddr:       nc.LocalAddr(),
		RemoteAddr:      nc.RemoteAddr(),
		ProtocolVersion: hs.ProtocolVersion,
		ServerAddr:      hs.ServerAddr,
		ServerPort:      hs.ServerPort,
		NextState:       hs.NextState,
	}
	log.Debug("handshake", "protocol", hs.ProtocolVersion, "next", hs.NextState)

	switch c.State() {
	case StateStatus:
		if s.StatusHandler == nil {
			return
		}
		status, err := s.StatusHandler(session)
		if err != nil {
			log.Error("status handler failed", "err", err)
			return
		}
		if err := ServeStatus(c, status); err != nil {
			log.Warn("status exchange failed", "err", err)
		}

	case StateLogin:
		if s.LoginHandler == nil {
			err := c.WritePacket(&packet.LoginDisconnect{Reason: map[string]any{"text": "Login is not supported"}})
			if err != nil {
				log.Debug("login disconnect failed", "err", err)
			}
			return
		}
		if err := s.LoginHandler(session, c); err != nil {
			log.Error("login handler failed", "err", err)
		}
	}
}
