package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
)

type tcpTransport struct {
	conn    net.Conn
	scanner *bufio.Scanner

	mu sync.Mutex // serializes writes
}

// DialTCP connects to addr (host:port). With useTLS the connection is
// wrapped in TLS using the host part as SNI, which is what the standard
// chat endpoint on :6697 expects.
func DialTCP(ctx context.Context, addr string, useTLS bool) (Transport, error) {
	d := &net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if useTLS {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("split host %s: %w", addr, err)
		}
		tlsConn := tls.Client(conn, &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12})
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("tls handshake %s: %w", addr, err)
		}
		conn = tlsConn
	}
	return newTCPTransport(conn), nil
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	sc := bufio.NewScanner(conn)
	// Wire lines are capped at 512 bytes plus tags; 64KiB leaves margin.
	sc.Buffer(make([]byte, 0, 4096), 64*1024)
	return &tcpTransport{conn: conn, scanner: sc}
}

func (t *tcpTransport) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("connection closed: %w", net.ErrClosed)
	}
	// bufio.ScanLines already strips the trailing CR.
	return t.scanner.Text(), nil
}

func (t *tcpTransport) WriteLine(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if d, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(d)
	}
	_, err := t.conn.Write([]byte(line + "\r\n"))
	return err
}

func (t *tcpTransport) Close() error { return t.conn.Close() }
