package singleinstance

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"time"
)

type tcpClient struct{}

func newTcpClient() Client { return &tcpClient{} }

// Notify scans the configured range for a resident, PINGs it, then sends
// the show request. Fire-and-forget with a short timeout.
func (c *tcpClient) Notify(ctx context.Context) bool {
	deadline := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			deadline = d
		}
	}
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		if !ping(addr, deadline) {
			continue
		}
		conn, err := net.DialTimeout("tcp", addr, deadline)
		if err != nil {
			continue
		}
		_ = conn.SetDeadline(time.Now().Add(deadline))
		w := bufio.NewWriter(conn)
		if _, err := w.WriteString(showRequest); err != nil {
			conn.Close()
			continue
		}
		if err := w.Flush(); err != nil {
			conn.Close()
			continue
		}
		br := bufio.NewReader(conn)
		resp, err := br.ReadString('\n')
		conn.Close()
		if err == nil && resp == okResponse {
			return true
		}
	}
	return false
}
