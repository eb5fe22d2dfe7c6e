// Package net implements the transports used by nodes to exchange spork
// records.
//
// A Transport carries two RPCs: SporkRequest pushes one signed record to a
// peer, GetSporksRequest asks a peer for all the records it currently holds.
// There are two implementations:
//
// - Inmem: in-memory transport used only for testing
//
// - TCP: communicating over plain TCP, requests and responses encoded with
// msgpack
//
// To use the TCP transport, set the following configuration options in the
// Config object (cf config package):
//
// - BindAddr: the IP:PORT of the TCP socket that the node binds to.
//
// - AdvertiseAddr: (optional) The address that is advertised to other nodes. If
// BindAddr is a local address not reachable by other peers, it is useful to
// set AdvertiseAddr to the reachable public address.
package net
