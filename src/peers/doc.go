// Package peers defines the peers of a node and keeps track of their
// behaviour.
//
// A peer is identified by the network address where it can be reached, with an
// optional non-unique moniker. Upon starting up, a node expects to find a
// peers.json file in its data directory, listing the peers it pushes spork
// records to and requests spork records from.
//
// The ScoreBoard implements the misbehaviour scheme of the network: every
// offence adds to the score of the offending address, and an address whose
// score reaches the ban threshold is ignored for a while.
package peers
