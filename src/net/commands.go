package net

// SporkRequest carries a spork record in wire form. FromAddr is the advertise
// address of the sender, which is the peer blamed if the record turns out to be
// forged.
type SporkRequest struct {
	FromAddr string
	Spork    []byte
}

// SporkResponse acknowledges a SporkRequest. The sender does not learn whether
// the record was accepted.
type SporkResponse struct {
	FromAddr string
}

// GetSporksRequest asks for every active spork record of the target.
type GetSporksRequest struct {
	FromAddr string
}

// GetSporksResponse contains the active spork records of the responder, in
// wire form and in no meaningful order.
type GetSporksResponse struct {
	FromAddr string
	Sporks   [][]byte
}
