package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listeners servers accept connections on. It
// decides between TLS and plaintext.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a network server with a managed lifecycle. HTTP and gRPC
// servers of every service binary implement it.
type Server interface {
	// Start blocks while serving.
	Start(securityLayer SecurityLayer) error
	// Stop drains in-flight requests until ctx expires.
	Stop(ctx context.Context) error
	Address() string
}
