package net

import (
	"net"
	"time"
)

// StreamLayer provides the connections a NetworkTransport exchanges RPCs
// over. TCPStreamLayer implements it on plain TCP.
type StreamLayer interface {
	net.Listener

	// Dial opens an outgoing connection to the address of a peer.
	Dial(address string, timeout time.Duration) (net.Conn, error)

	// AdvertiseAddr returns the address peers use to reach this stream.
	AdvertiseAddr() string
}
