// Package keys implements the public key cryptography used to authenticate
// spork messages.
//
// A single authority holds the master private key. Every node is configured
// with the matching public key and accepts only the records whose signature
// recovers to it.
//
// Keys live on the secp256k1 curve and signatures are 65-byte compact
// recoverable signatures over doubleSHA256(varstr(magic) || varstr(message)),
// the "signed message" scheme used by Bitcoin-derived nodes. The magic string
// is a per-network constant that prevents a signed spork from being replayed
// as any other kind of signed message.
package keys
