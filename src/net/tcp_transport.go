package net

import (
	"errors"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

var errNotAdvertisable = errors.New("local bind address is not advertisable")

// TCPStreamLayer implements StreamLayer interface for plain TCP.
type TCPStreamLayer struct {
	advertise string
	listener  *net.TCPListener
}

// Dial implements the StreamLayer interface.
func (t *TCPStreamLayer) Dial(address string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("tcp", address, timeout)
}

// Accept implements the net.Listener interface.
func (t *TCPStreamLayer) Accept() (c net.Conn, err error) {
	return t.listener.Accept()
}

// Close implements the net.Listener interface.
func (t *TCPStreamLayer) Close() (err error) {
	return t.listener.Close()
}

// Addr implements the net.Listener interface.
func (t *TCPStreamLayer) Addr() net.Addr {
	return t.listener.Addr()
}

// AdvertiseAddr implements the StreamLayer interface. It is the listener's
// address unless another one was given.
func (t *TCPStreamLayer) AdvertiseAddr() string {
	if t.advertise != "" {
		return t.advertise
	}
	return t.listener.Addr().String()
}

// NewTCPTransport listens on bindAddr and returns a NetworkTransport over plain
// TCP. advertise, when not empty, is the address announced to peers in place
// of the listener's. Binding to an unspecified IP, like 0.0.0.0, requires an
// advertise address.
func NewTCPTransport(
	bindAddr string,
	advertise string,
	maxPool int,
	timeout time.Duration,
	logger *logrus.Entry,
) (*NetworkTransport, error) {
	list, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}

	stream := &TCPStreamLayer{
		advertise: advertise,
		listener:  list.(*net.TCPListener),
	}

	if err := checkAdvertisable(stream.AdvertiseAddr()); err != nil {
		list.Close()
		return nil, err
	}

	return NewNetworkTransport(stream, maxPool, timeout, logger), nil
}

// checkAdvertisable verifies that peers could dial addr.
func checkAdvertisable(addr string) error {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return err
	}

	if tcpAddr.IP == nil || tcpAddr.IP.IsUnspecified() {
		return errNotAdvertisable
	}

	return nil
}
