package main

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gstoney/mcproto"
	"github.com/gstoney/mcproto/packet"
)

const defaultPort = 25565

// splitAddr splits host[:port], defaulting the port.
func splitAddr(addr string) (host string, port uint16, err error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		if _, _, err2 := net.SplitHostPort(addr + ":0"); err2 != nil {
			return "", 0, err
		}
		return strings.Trim(addr, "[]"), defaultPort, nil
	}

	n, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, err
	}
	return host, uint16(n), nil
}

// queryStatus dials addr and runs one status exchange.
func queryStatus(ctx context.Context, addr string, protocol int32, timeout time.Duration) (res mcproto.StatusResult, err error) {
	host, port, err := splitAddr(addr)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(int(port))))
	if err != nil {
		return
	}
	deadline, _ := ctx.Deadline()
	nc.SetDeadline(deadline)

	c := mcproto.NewClientConn(nc, mcproto.TransportConfig{})
	defer c.Close()

	err = c.WritePacket(&packet.HandshakePacket{
		ProtocolVersion: protocol,
		ServerAddr:      host,
		ServerPort:      port,
		NextState:       packet.NextStateStatus,
	})
	if err != nil {
		return
	}
	return mcproto.QueryStatus(c)
}
