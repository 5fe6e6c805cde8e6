package singleinstance

// This file defines the API for single-instance ownership. The first
// process binds a loopback TCP port and becomes the resident; later
// invocations deliver a "show" request to it and exit.

import (
	"context"
)

// Server owns the TCP endpoint and surfaces run-once requests.
type Server interface {
	// Start begins listening on the start port of the configured range.
	// Failure to bind means another resident already owns it.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next blocks for the next run-once request, or ctx error.
	Next(ctx context.Context) (Request, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Request is one delivered run-once request.
type Request struct {
	Remote string
}

// Client attempts to hand the invocation to a resident server.
type Client interface {
	// Notify scans the TCP range for a resident and delivers a show
	// request. It reports whether a resident took it.
	Notify(ctx context.Context) bool
}

// NewServer returns the TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns the TCP implementation.
func NewClient() Client { return newTcpClient() }
