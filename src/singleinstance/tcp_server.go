package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"time"
)

const (
	residentHost = "127.0.0.1"
	pingRequest  = "PING\n"
	pongResponse = "PONG\n"
	showRequest  = "SHOW\n"
	okResponse   = "OK\n"
)

// tcpServer implements Server over TCP loopback.
type tcpServer struct {
	lis      net.Listener
	incoming chan Request
	port     int
}

func newTcpServer() Server { return &tcpServer{incoming: make(chan Request, 8)} }

// Start binds ONLY the start port of the configured range. If occupied,
// another resident owns it and Start fails.
func (s *tcpServer) Start(ctx context.Context) error {
	if s.lis != nil {
		return nil
	}
	start, _ := getPortRange()
	addr := fmt.Sprintf("%s:%d", residentHost, start)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("singleinstance: failed to bind %s: %v", addr, err)
		return err
	}
	s.lis = lis
	s.port = start
	log.Printf("singleinstance: listening on %s", addr)
	go s.acceptLoop(ctx)
	return nil
}

// Port returns the bound port (0 if not started).
func (s *tcpServer) Port() int { return s.port }

func (s *tcpServer) acceptLoop(ctx context.Context) {
	for {
		c, err := s.lis.Accept()
		if err != nil {
			return
		}
		remote := c.RemoteAddr().String()
		_ = c.SetDeadline(time.Now().Add(3 * time.Second))
		br := bufio.NewReader(c)
		line, _ := br.ReadString('\n')
		bw := bufio.NewWriter(c)
		switch line {
		case pingRequest:
			log.Printf("singleinstance: PING from %s -> PONG", remote)
			_, _ = bw.WriteString(pongResponse)
			_ = bw.Flush()
			_ = c.Close()
		case showRequest:
			log.Printf("singleinstance: SHOW from %s", remote)
			_, _ = bw.WriteString(okResponse)
			_ = bw.Flush()
			_ = c.Close()
			select {
			case s.incoming <- Request{Remote: remote}:
			case <-ctx.Done():
				return
			}
		default:
			log.Printf("singleinstance: unknown request %q from %s", line, remote)
			_ = c.Close()
		}
	}
}

func (s *tcpServer) Next(ctx context.Context) (Request, error) {
	select {
	case <-ctx.Done():
		return Request{}, ctx.Err()
	case req := <-s.incoming:
		return req, nil
	}
}

func (s *tcpServer) Close() error {
	if s.lis != nil {
		_ = s.lis.Close()
		s.lis = nil
	}
	return nil
}
