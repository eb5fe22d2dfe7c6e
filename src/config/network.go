package config

import (
	"fmt"
	"net"
	"strconv"
)

// NetworkParams are the constants of a network that matter to sporks.
type NetworkParams struct {
	Name        string
	DefaultPort int
	// SporkKey is the hex encoded public key of the spork authority. It is
	// empty when the network has no compiled-in authority.
	SporkKey string
}

// Known networks. Regtest shares the authority of testnet.
var (
	MainNet = NetworkParams{
		Name:        "main",
		DefaultPort: 47352,
	}

	TestNet = NetworkParams{
		Name:        "test",
		DefaultPort: 47354,
		SporkKey:    "04ec20750c0679ffc44ecb88413a55bfa3615a420b1761e99283eb18bc69b69eadae1fbe65499148f29a90395271b9babf3c7aa161f4fd08ff903d2e10f3f49d51",
	}

	RegTest = NetworkParams{
		Name:        "regtest",
		DefaultPort: 47355,
		SporkKey:    TestNet.SporkKey,
	}
)

// Params returns the parameters of a network by name.
func Params(network string) (*NetworkParams, error) {
	switch network {
	case MainNet.Name:
		return &MainNet, nil
	case TestNet.Name:
		return &TestNet, nil
	case RegTest.Name:
		return &RegTest, nil
	default:
		return nil, fmt.Errorf("unknown network %q", network)
	}
}

// NetworkParams returns the parameters of the configured network.
func (c *Config) NetworkParams() (*NetworkParams, error) {
	return Params(c.Network)
}

// AuthorityKey returns the configured spork authority key, or the one of the
// network.
func (c *Config) AuthorityKey() (string, error) {
	if c.SporkKey != "" {
		return c.SporkKey, nil
	}

	params, err := c.NetworkParams()
	if err != nil {
		return "", err
	}
	if params.SporkKey == "" {
		return "", fmt.Errorf("network %s has no spork key, set spork-key", params.Name)
	}
	return params.SporkKey, nil
}

// WithDefaultPort appends the default port of the network to addr when it has
// none.
func (p *NetworkParams) WithDefaultPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, strconv.Itoa(p.DefaultPort))
}
