// Package config defines the configuration for a node.
//
// Regardless of how a node is started, directly from Go code or as a standalone
// process from the command line, it uses the Config object defined in this
// package to store and forward configuration options. On top of these
// configuration options, the node relies on a data directory, defined by
// Config.DataDir, where it expects to find a few additional files:
//
//  peers.json // a JSON file containing the list of peers.
//  priv_key // (optional) the master private key (cf. sporknet keygen).
//  sporknet.toml // (optional) configuration values, as read by the CLI.
//
// The network parameters (main, test, regtest) provide the default port and
// the public key of the spork authority. The key can be overridden with
// spork-key, which is required on a network without compiled-in authority.
package config
