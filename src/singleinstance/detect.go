package singleinstance

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"time"
)

// DetectResidentPort walks the configured port range looking for a live
// resident. The first port that answers the PING handshake wins; ok is
// false when the whole range stays silent.
func DetectResidentPort(ctx context.Context) (port int, ok bool) {
	timeout := 300 * time.Millisecond
	if dl, hasDL := ctx.Deadline(); hasDL {
		if d := time.Until(dl); d > 0 {
			timeout = d
		}
	}
	start, end := getPortRange()
	for p := start; p <= end; p++ {
		if ping(net.JoinHostPort(residentHost, strconv.Itoa(p)), timeout) {
			return p, true
		}
	}
	return 0, false
}

// ping dials addr and runs the PING/PONG handshake. Any dial, write, or
// read failure within the timeout counts as no resident on that port.
func ping(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte(pingRequest)); err != nil {
		return false
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	return err == nil && resp == pongResponse
}
