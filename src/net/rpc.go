package net

// RPC is an incoming request as delivered by Transport.Consumer. Command is a
// pointer to one of the request types of this package.
type RPC struct {
	Command  interface{}
	RespChan chan<- RPCResponse
}

// RPCResponse is the reply to an RPC. A non-nil Error is returned to the
// caller instead of Response.
type RPCResponse struct {
	Response interface{}
	Error    error
}

// Respond sends the reply to the caller. It must be called exactly once per
// RPC; the transports buffer RespChan so that it does not block.
func (r *RPC) Respond(resp interface{}, err error) {
	r.RespChan <- RPCResponse{resp, err}
}
