package net

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
)

const (
	rpcSpork uint8 = iota
	rpcGetSporks
)

const (
	bufSize = 64 * 1024
)

var (
	// ErrTransportShutdown is returned when operations on a transport are
	// invoked after it's been terminated.
	ErrTransportShutdown = errors.New("transport shutdown")

	msgpackHandle = &codec.MsgpackHandle{WriteExt: true}

	// requestTypes creates the request of each rpc type, for decoding.
	requestTypes = map[uint8]func() interface{}{
		rpcSpork:     func() interface{} { return new(SporkRequest) },
		rpcGetSporks: func() interface{} { return new(GetSporksRequest) },
	}
)

/*
NetworkTransport provides a network based transport that can be used to
communicate with other nodes on remote machines. It requires an underlying
stream layer to provide a stream abstraction, which can be simple TCP, TLS,
etc.

Each RPC request is framed by sending a byte that indicates the message type,
followed by the msgpack encoded request.

The response is an error string followed by the response object, both are
encoded using msgpack.
*/
type NetworkTransport struct {
	logger *logrus.Entry

	connPool     map[string][]*netConn
	connPoolLock sync.Mutex
	maxPool      int

	consumeCh chan RPC

	shutdown     bool
	shutdownCh   chan struct{}
	shutdownLock sync.Mutex

	stream StreamLayer

	timeout time.Duration
}

type netConn struct {
	target string
	conn   net.Conn
	r      *bufio.Reader
	w      *bufio.Writer
	dec    *codec.Decoder
	enc    *codec.Encoder
}

// Release closes the underlying connection
func (n *netConn) Release() error {
	return n.conn.Close()
}

// NewNetworkTransport creates a new network transport with the given dialer
// and listener. The maxPool controls how many connections we will pool (per
// target). The timeout is used to apply I/O deadlines.
func NewNetworkTransport(
	stream StreamLayer,
	maxPool int,
	timeout time.Duration,
	logger *logrus.Entry,
) *NetworkTransport {

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	return &NetworkTransport{
		connPool:   make(map[string][]*netConn),
		consumeCh:  make(chan RPC),
		logger:     logger,
		maxPool:    maxPool,
		shutdownCh: make(chan struct{}),
		stream:     stream,
		timeout:    timeout,
	}
}

// Close is used to stop the network transport.
func (n *NetworkTransport) Close() error {
	n.shutdownLock.Lock()
	defer n.shutdownLock.Unlock()

	if !n.shutdown {
		close(n.shutdownCh)
		n.stream.Close()
		n.shutdown = true

		n.connPoolLock.Lock()
		for target, conns := range n.connPool {
			for _, conn := range conns {
				conn.Release()
			}
			delete(n.connPool, target)
		}
		n.connPoolLock.Unlock()
	}
	return nil
}

// Consumer implements the Transport interface.
func (n *NetworkTransport) Consumer() <-chan RPC {
	return n.consumeCh
}

// LocalAddr implements the Transport interface.
func (n *NetworkTransport) LocalAddr() string {
	addr := n.stream.Addr()

	if addr != nil {
		return addr.String()
	}

	return ""
}

// AdvertiseAddr implements the Transport interface.
func (n *NetworkTransport) AdvertiseAddr() string {
	return n.stream.AdvertiseAddr()
}

// IsShutdown is used to check if the transport is shutdown.
func (n *NetworkTransport) IsShutdown() bool {
	select {
	case <-n.shutdownCh:
		return true
	default:
		return false
	}
}

// getPooledConn is used to grab a pooled connection.
func (n *NetworkTransport) getPooledConn(target string) *netConn {
	n.connPoolLock.Lock()
	defer n.connPoolLock.Unlock()

	conns, ok := n.connPool[target]
	if !ok || len(conns) == 0 {
		return nil
	}

	var conn *netConn
	num := len(conns)
	conn, conns[num-1] = conns[num-1], nil
	n.connPool[target] = conns[:num-1]
	return conn
}

// getConn is used to get a connection from the pool, or to dial a new one.
// It reports whether the connection came from the pool.
func (n *NetworkTransport) getConn(target string, timeout time.Duration) (*netConn, bool, error) {
	if conn := n.getPooledConn(target); conn != nil {
		return conn, true, nil
	}

	conn, err := n.dial(target, timeout)
	return conn, false, err
}

func (n *NetworkTransport) dial(target string, timeout time.Duration) (*netConn, error) {
	conn, err := n.stream.Dial(target, timeout)
	if err != nil {
		return nil, err
	}

	netConn := &netConn{
		target: target,
		conn:   conn,
		r:      bufio.NewReaderSize(conn, bufSize),
		w:      bufio.NewWriterSize(conn, bufSize),
	}
	netConn.dec = codec.NewDecoder(netConn.r, msgpackHandle)
	netConn.enc = codec.NewEncoder(netConn.w, msgpackHandle)

	return netConn, nil
}

// returnConn returns a connection back to the pool.
func (n *NetworkTransport) returnConn(conn *netConn) {
	n.connPoolLock.Lock()
	defer n.connPoolLock.Unlock()

	key := conn.target
	conns := n.connPool[key]

	if !n.IsShutdown() && len(conns) < n.maxPool {
		n.connPool[key] = append(conns, conn)
	} else {
		conn.Release()
	}
}

// Spork implements the Transport interface.
func (n *NetworkTransport) Spork(target string, args *SporkRequest, resp *SporkResponse) error {
	return n.genericRPC(target, rpcSpork, n.timeout, args, resp)
}

// GetSporks implements the Transport interface.
func (n *NetworkTransport) GetSporks(target string, args *GetSporksRequest, resp *GetSporksResponse) error {
	return n.genericRPC(target, rpcGetSporks, n.timeout, args, resp)
}

// genericRPC handles a simple request/response RPC. Pooled connections may
// have been closed by the peer since they were used, so a request that fails
// on one is sent again once on a fresh connection.
func (n *NetworkTransport) genericRPC(target string, rpcType uint8, timeout time.Duration, args interface{}, resp interface{}) error {
	if n.IsShutdown() {
		return ErrTransportShutdown
	}

	conn, pooled, err := n.getConn(target, timeout)
	if err != nil {
		return err
	}

	err = n.roundTrip(conn, rpcType, timeout, args, resp)
	if err != nil && pooled && isStale(err) {
		n.logger.WithError(err).WithField("target", target).Debug("Pooled connection failed, redialing")

		if conn, err = n.dial(target, timeout); err != nil {
			return err
		}

		err = n.roundTrip(conn, rpcType, timeout, args, resp)
	}

	return err
}

// roundTrip sends a request on conn and decodes the response. The connection
// is returned to the pool, or released if it is no longer usable.
func (n *NetworkTransport) roundTrip(conn *netConn, rpcType uint8, timeout time.Duration, args interface{}, resp interface{}) error {
	if timeout > 0 {
		conn.conn.SetDeadline(time.Now().Add(timeout))
	}

	if err := sendRPC(conn, rpcType, args); err != nil {
		return connErr{err}
	}

	canReturn, err := decodeResponse(conn, resp)
	if canReturn {
		n.returnConn(conn)
		return err
	}

	return connErr{err}
}

// connErr wraps the errors that left a connection unusable.
type connErr struct {
	err error
}

func (e connErr) Error() string {
	return e.err.Error()
}

// isStale reports whether err shows that a connection was closed by the peer,
// as opposed to a timeout.
func isStale(err error) bool {
	ce, ok := err.(connErr)
	if !ok {
		return false
	}
	if ne, ok := ce.err.(net.Error); ok && ne.Timeout() {
		return false
	}
	return true
}

// sendRPC is used to encode and send the RPC.
func sendRPC(conn *netConn, rpcType uint8, args interface{}) error {
	if err := conn.w.WriteByte(rpcType); err != nil {
		conn.Release()
		return err
	}

	if err := conn.enc.Encode(args); err != nil {
		conn.Release()
		return err
	}

	if err := conn.w.Flush(); err != nil {
		conn.Release()
		return err
	}
	return nil
}

// decodeResponse is used to decode an RPC response and reports whether
// the connection can be reused.
func decodeResponse(conn *netConn, resp interface{}) (bool, error) {
	var rpcError string
	if err := conn.dec.Decode(&rpcError); err != nil {
		conn.Release()
		return false, err
	}

	if err := conn.dec.Decode(resp); err != nil {
		conn.Release()
		return false, err
	}

	if rpcError != "" {
		return true, errors.New(rpcError)
	}
	return true, nil
}

// Listen opens the stream and handles incoming connections.
func (n *NetworkTransport) Listen() {
	for {
		conn, err := n.stream.Accept()
		if err != nil {
			if n.IsShutdown() {
				return
			}
			n.logger.WithField("error", err).Error("Failed to accept connection")
			continue
		}
		n.logger.WithFields(logrus.Fields{
			"node": conn.LocalAddr(),
			"from": conn.RemoteAddr(),
		}).Debug("accepted connection")

		go n.handleConn(conn)
	}
}

// handleConn is used to handle an inbound connection for its lifespan.
func (n *NetworkTransport) handleConn(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReaderSize(conn, bufSize)
	w := bufio.NewWriterSize(conn, bufSize)
	dec := codec.NewDecoder(r, msgpackHandle)
	enc := codec.NewEncoder(w, msgpackHandle)

	for {
		if err := n.handleCommand(r, dec, enc); err != nil {
			if err == ErrTransportShutdown {
				n.logger.WithField("error", err).Warn("Failed to decode incoming command")
			} else if err != io.EOF {
				n.logger.WithField("error", err).Error("Failed to decode incoming command")
			}
			return
		}
		if err := w.Flush(); err != nil {
			n.logger.WithField("error", err).Error("Failed to flush response")
			return
		}
	}
}

// handleCommand is used to decode and dispatch a single command.
func (n *NetworkTransport) handleCommand(r *bufio.Reader, dec *codec.Decoder, enc *codec.Encoder) error {
	rpcType, err := r.ReadByte()
	if err != nil {
		return err
	}

	respCh := make(chan RPCResponse, 1)
	rpc := RPC{
		RespChan: respCh,
	}

	newRequest, ok := requestTypes[rpcType]
	if !ok {
		return fmt.Errorf("unknown rpc type %d", rpcType)
	}

	req := newRequest()
	if err := dec.Decode(req); err != nil {
		return err
	}
	rpc.Command = req

	// Dispatch the RPC
	select {
	case n.consumeCh <- rpc:
	case <-n.shutdownCh:
		return ErrTransportShutdown
	}

	// Wait for response
	select {
	case resp := <-respCh:
		respErr := ""
		if resp.Error != nil {
			respErr = resp.Error.Error()
		}
		if err := enc.Encode(respErr); err != nil {
			return err
		}

		if err := enc.Encode(resp.Response); err != nil {
			return err
		}
	case <-n.shutdownCh:
		return ErrTransportShutdown
	}

	return nil
}
