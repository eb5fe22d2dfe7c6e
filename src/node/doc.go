// Package node implements the networked part of a sporknet node.
//
// A Node owns a spork Manager and a Transport. It consumes the RPCs of the
// Transport and runs every spork record it receives through the Manager.
//
// Relay
//
// Nodes form a p2p network where every node knows a set of peers. When a
// record is accepted, whether it was published locally with UpdateSpork or
// received from a peer, the node pushes it to all its peers except the one it
// came from. Records that are already known are not pushed again, so the flood
// stops once every node has the record. Pushes run in the background and
// never hold the Manager lock.
//
// Sync
//
// A node that starts with SyncOnStart asks every peer for its active sporks
// with a GetSporksRequest, and processes the records of the responses as if
// they had been relayed.
//
// Misbehaviour
//
// A peer that sends a record with an invalid signature scores 100 on the
// ScoreBoard, which bans it with the default threshold. The RPCs of banned
// peers are refused, and they receive no relays, until the ban expires.
// Records for unknown sporks, stale records, and undecodable payloads are
// dropped without penalty.
package node
