// Package spork implements network-wide governance parameters, aka sporks.
//
// A spork is a numeric value identified by a fixed ID. It is usually an
// activation time (the feature is on once the time has passed), sometimes an
// amount or a count. Every spork has a compiled-in default, listed in the
// Registry, which applies until the network authority publishes a signed
// Record for it.
//
// The Manager holds the latest accepted Record of each spork and the history of
// every Record it ever accepted, keyed by fingerprint. New Records, whether
// they come from a peer or from the local authority, go through a single
// acceptance path:
//
//   1. a Record whose fingerprint is already known is ignored,
//   2. a Record for an ID missing from the Registry is ignored,
//   3. a Record that is not strictly newer than the active one is ignored,
//   4. a Record whose signature does not verify against the authority key is
//      rejected, and the caller is expected to penalise the sender,
//   5. otherwise the Record becomes active and is written to the Store.
//
// The Manager has no notion of peers. It reports the Outcome of each Record
// and leaves relaying and penalties to the node.
package spork
