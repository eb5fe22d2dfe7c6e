package engine

import (
	"fmt"
	"os"

	"github.com/fastnode/sporknet/src/config"
	"github.com/fastnode/sporknet/src/crypto/keys"
	"github.com/fastnode/sporknet/src/net"
	"github.com/fastnode/sporknet/src/node"
	"github.com/fastnode/sporknet/src/peers"
	"github.com/fastnode/sporknet/src/service"
	"github.com/fastnode/sporknet/src/spork"
	"github.com/sirupsen/logrus"
)

// Engine is the object that wires the components of a sporknet node together:
// peers, spork store, transport, spork manager, node, and HTTP service.
type Engine struct {
	// Config is the configuration of the node.
	Config *config.Config

	// Node is the object that relays sporks to, and processes the sporks of,
	// other nodes.
	Node *node.Node

	// Transport is the transport used to talk to other nodes. It is created
	// from the configuration if it is nil when Init is called.
	Transport net.Transport

	// Store is where accepted sporks are persisted.
	Store spork.Store

	// Peers is the set of nodes that sporks are relayed to. It is read from
	// peers.json if it is nil when Init is called.
	Peers *peers.PeerSet

	// Manager applies the acceptance rules to spork records.
	Manager *spork.Manager

	// Service is the HTTP API service.
	Service *service.Service

	network *config.NetworkParams
	logger  *logrus.Entry
}

// NewEngine instantiates a new Engine with the given configuration.
func NewEngine(c *config.Config) *Engine {
	engine := &Engine{
		Config: c,
		logger: c.Logger(),
	}

	return engine
}

// Init initialises the engine based on its configuration. It returns an error
// if the network is unknown, no authority key is configured, or a component
// cannot be created.
func (e *Engine) Init() error {
	e.logger.Debug("Init Engine")

	network, err := e.Config.NetworkParams()
	if err != nil {
		return err
	}
	e.network = network

	if err := e.initPeers(); err != nil {
		e.logger.WithError(err).Error("engine.go:Init() initPeers")
		return err
	}

	if err := e.initStore(); err != nil {
		e.logger.WithError(err).Error("engine.go:Init() initStore")
		return err
	}

	if err := e.initManager(); err != nil {
		e.logger.WithError(err).Error("engine.go:Init() initManager")
		return err
	}

	if err := e.initTransport(); err != nil {
		e.logger.WithError(err).Error("engine.go:Init() initTransport")
		return err
	}

	if err := e.initNode(); err != nil {
		e.logger.WithError(err).Error("engine.go:Init() initNode")
		return err
	}

	if err := e.initMasterKey(); err != nil {
		e.logger.WithError(err).Error("engine.go:Init() initMasterKey")
		return err
	}

	if err := e.initService(); err != nil {
		e.logger.WithError(err).Error("engine.go:Init() initService")
		return err
	}

	return nil
}

// Run starts the engine and blocks until the node is shut down.
func (e *Engine) Run() {
	if e.Service != nil {
		go e.Service.Serve()
	}

	e.Node.Run()
}

// RunAsync runs the engine as a separate thread.
func (e *Engine) RunAsync() {
	go e.Run()
}

// Shutdown stops the node and releases the transport and the store.
func (e *Engine) Shutdown() {
	if e.Node != nil {
		e.Node.Shutdown()
	}
}

func (e *Engine) initPeers() error {
	if e.Peers != nil {
		return nil
	}

	peerStore := peers.NewJSONPeerSet(e.Config.DataDir)

	ps, err := peerStore.PeerSet()
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}

		e.logger.WithField("path", peerStore.Path()).Warn("No peers file, starting without peers")
		ps = peers.NewPeerSet(nil)
	}

	// peers without a port are reached on the default port of the network
	withPorts := make([]*peers.Peer, 0, ps.Len())
	for _, p := range ps.Peers {
		withPorts = append(withPorts, peers.NewPeer(e.network.WithDefaultPort(p.NetAddr), p.Moniker))
	}

	e.Peers = peers.NewPeerSet(withPorts)

	return nil
}

func (e *Engine) initStore() error {
	if !e.Config.Store {
		e.Store = spork.NewInmemStore()

		e.logger.Debug("created new in-mem store")

		return nil
	}

	dbPath := e.Config.DatabaseDir

	e.logger.WithField("path", dbPath).Debug("Attempting to load or create database")

	store, err := spork.NewBadgerStore(dbPath, e.logger)
	if err != nil {
		return err
	}

	e.Store = store

	return nil
}

func (e *Engine) initManager() error {
	keyHex, err := e.Config.AuthorityKey()
	if err != nil {
		return err
	}

	verifier, err := spork.ParseVerifier(keyHex, e.Config.MessageMagic)
	if err != nil {
		return fmt.Errorf("invalid spork key: %v", err)
	}

	e.Manager = spork.NewManager(spork.DefaultRegistry(), verifier, e.Store, e.logger)

	e.logger.WithFields(logrus.Fields{
		"network":   e.network.Name,
		"spork_key": keyHex,
	}).Debug("Spork authority")

	return nil
}

func (e *Engine) initTransport() error {
	if e.Transport != nil {
		return nil
	}

	advertise := e.Config.AdvertiseAddr
	if advertise != "" {
		advertise = e.network.WithDefaultPort(advertise)
	}

	transport, err := net.NewTCPTransport(
		e.network.WithDefaultPort(e.Config.BindAddr),
		advertise,
		e.Config.MaxPool,
		e.Config.TCPTimeout,
		e.logger,
	)
	if err != nil {
		return err
	}

	e.Transport = transport

	return nil
}

func (e *Engine) initNode() error {
	e.logger.WithFields(logrus.Fields{
		"peers": e.Peers.Addrs(),
		"addr":  e.Transport.AdvertiseAddr(),
	}).Debug("PEERS")

	e.Node = node.NewNode(e.Config, e.Manager, e.Peers, e.Transport)

	if err := e.Node.Init(); err != nil {
		return fmt.Errorf("failed to initialize node: %s", err)
	}

	return nil
}

// initMasterKey installs the master key when one is configured. A key that
// cannot be read, or that does not match the authority, is reported and the
// node runs without it.
func (e *Engine) initMasterKey() error {
	if e.Config.MasterKey == "" {
		return nil
	}

	key, err := keys.NewSimpleKeyfile(e.Config.MasterKey).ReadKey()
	if err != nil {
		e.logger.WithError(err).WithField("path", e.Config.MasterKey).Error("Reading master key, sporks cannot be published")
		return nil
	}

	if err := e.Node.SetMasterKey(key); err != nil {
		e.logger.WithError(err).Error("Master key rejected, sporks cannot be published")
		return nil
	}

	e.logger.WithField("pub_key", keys.PublicKeyHex(&key.PublicKey)).Info("Master key installed")

	return nil
}

func (e *Engine) initService() error {
	if !e.Config.NoService {
		e.Service = service.NewService(e.Config.ServiceAddr, e.Node, e.logger)
	}
	return nil
}
