// Package engine assembles a sporknet node from its configuration.
//
// Init reads peers.json from the data directory, opens the spork store
// (in-memory, or badger when Store is set), resolves the spork authority key
// of the network, and starts a TCP transport. It then creates and initialises
// the Node, installs the master key if one is configured, and prepares the
// HTTP service.
package engine
