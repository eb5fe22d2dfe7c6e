package node

import (
	"fmt"

	"github.com/fastnode/sporknet/src/net"
	"github.com/fastnode/sporknet/src/spork"
	"github.com/sirupsen/logrus"
)

func (n *Node) requestSpork(target string, data []byte) (net.SporkResponse, error) {
	args := net.SporkRequest{
		FromAddr: n.trans.AdvertiseAddr(),
		Spork:    data,
	}

	var out net.SporkResponse

	err := n.trans.Spork(target, &args, &out)

	return out, err
}

func (n *Node) requestGetSporks(target string) (net.GetSporksResponse, error) {
	args := net.GetSporksRequest{
		FromAddr: n.trans.AdvertiseAddr(),
	}

	var out net.GetSporksResponse

	err := n.trans.GetSporks(target, &args, &out)

	return out, err
}

func (n *Node) processRPC(rpc net.RPC) {
	switch cmd := rpc.Command.(type) {
	case *net.SporkRequest:
		n.processSporkRequest(rpc, cmd)
	case *net.GetSporksRequest:
		n.processGetSporksRequest(rpc, cmd)
	default:
		n.logger.WithField("cmd", rpc.Command).Error("Unexpected RPC command")
		rpc.Respond(nil, fmt.Errorf("unexpected command"))
	}
}

func (n *Node) processSporkRequest(rpc net.RPC, cmd *net.SporkRequest) {
	logger := n.logger.WithField("from", cmd.FromAddr)

	if n.scores.IsBanned(cmd.FromAddr) {
		logger.Debug("Ignoring SporkRequest from banned peer")
		rpc.Respond(nil, errBanned)
		return
	}

	resp := &net.SporkResponse{
		FromAddr: n.trans.AdvertiseAddr(),
	}

	r := new(spork.Record)
	if err := r.Unmarshal(cmd.Spork); err != nil {
		logger.WithError(err).Error("Decoding spork")
		rpc.Respond(resp, err)
		return
	}

	outcome := n.handleSpork(r, cmd.FromAddr)

	logger.WithFields(logrus.Fields{
		"id":      r.ID,
		"outcome": outcome,
	}).Debug("process SporkRequest")

	rpc.Respond(resp, nil)
}

func (n *Node) processGetSporksRequest(rpc net.RPC, cmd *net.GetSporksRequest) {
	logger := n.logger.WithField("from", cmd.FromAddr)

	if n.scores.IsBanned(cmd.FromAddr) {
		logger.Debug("Ignoring GetSporksRequest from banned peer")
		rpc.Respond(nil, errBanned)
		return
	}

	resp := &net.GetSporksResponse{
		FromAddr: n.trans.AdvertiseAddr(),
	}

	var respErr error
	for _, r := range n.manager.Active() {
		data, err := r.Marshal()
		if err != nil {
			logger.WithError(err).Error("Encoding spork")
			respErr = err
			break
		}
		resp.Sporks = append(resp.Sporks, data)
	}

	logger.WithField("sporks", len(resp.Sporks)).Debug("Responding to GetSporksRequest")

	rpc.Respond(resp, respErr)
}
