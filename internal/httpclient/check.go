package httpclient

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"time"
)

// checkProxyTimeout is the timeout for the proxy preflight check.
const checkProxyTimeout = 3 * time.Second

// SOCKS5 protocol constants
const (
	socks5Version       = 0x05
	socks5AuthNone      = 0x00
	socks5AuthPassword  = 0x02
	socks5AuthNoAccept  = 0xFF
	socks5CmdConnect    = 0x01
	socks5AddrTypeDomID = 0x03

	// socks5TestHost is the reserved example domain used for the CONNECT
	// probe. Only the proxy's reply matters, not whether the connection works.
	socks5TestHost = "example.com"
)

// CheckProxy verifies that the configured proxy is reachable.
//
// For a SOCKS5 proxy the check performs the protocol handshake and a CONNECT
// request, so a service that merely listens on the port is reported as
// ProxyStatusWrongType. For an HTTP proxy only the TCP connection is checked.
// A direct configuration always reports ProxyStatusOK.
func (c *Client) CheckProxy(ctx context.Context) ProxyStatus {
	if c.proxyURL == nil {
		return ProxyStatusOK
	}

	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.proxyURL.Host)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if !isSOCKS(c.proxyURL.Scheme) {
		return ProxyStatusOK
	}

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}
	return socks5Handshake(conn, c.proxyURL.User != nil)
}

// socks5Handshake negotiates authentication and sends one CONNECT request.
func socks5Handshake(conn net.Conn, withPassword bool) ProxyStatus {
	// Client sends: version + number of methods + methods
	methods := []byte{socks5AuthNone}
	if withPassword {
		methods = append(methods, socks5AuthPassword)
	}
	greeting := append([]byte{socks5Version, byte(len(methods))}, methods...)
	if _, err := conn.Write(greeting); err != nil {
		return ProxyStatusCannotConnect
	}

	// Server responds: version + selected method
	authResp := make([]byte, 2)
	if _, err := io.ReadFull(conn, authResp); err != nil {
		return readFailure(err)
	}
	if authResp[0] != socks5Version || authResp[1] == socks5AuthNoAccept {
		return ProxyStatusWrongType
	}
	switch authResp[1] {
	case socks5AuthNone:
	case socks5AuthPassword:
		// A server that asks for credentials speaks SOCKS5; the real
		// dialer authenticates.
		return ProxyStatusOK
	default:
		return ProxyStatusWrongType
	}

	// Build CONNECT request: version + cmd + reserved + addr type + addr + port
	const testPort = 80
	connectReq := []byte{
		socks5Version,
		socks5CmdConnect,
		0x00, // reserved
		socks5AddrTypeDomID,
		byte(len(socks5TestHost)),
	}
	connectReq = append(connectReq, socks5TestHost...)
	connectReq = append(connectReq, byte(testPort>>8), byte(testPort&0xFF))
	if _, err := conn.Write(connectReq); err != nil {
		return ProxyStatusCannotConnect
	}

	// Any reply code counts: the proxy processed the request.
	connectResp := make([]byte, 4)
	if _, err := io.ReadFull(conn, connectResp); err != nil {
		return readFailure(err)
	}
	if connectResp[0] != socks5Version {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

func readFailure(err error) ProxyStatus {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return ProxyStatusTimeout
	}
	return ProxyStatusWrongType
}
