package net

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/fastnode/sporknet/src/common"
)

const (
	INMEM = iota
	TCP
	numTestTransports // NOTE: must be last
)

func NewTestTransport(ttype int, t *testing.T) Transport {
	switch ttype {
	case INMEM:
		_, it := NewInmemTransport("")
		return it
	case TCP:
		tt, err := NewTCPTransport("127.0.0.1:0", "", 2, time.Second, common.NewTestEntry(t, common.TestLogLevel))
		if err != nil {
			t.Fatal(err)
		}
		go tt.Listen()
		return tt
	default:
		panic("Unknown transport type")
	}
}

// connect routes in-memory transports to each other
func connect(trans1, trans2 Transport) {
	if it1, ok := trans1.(*InmemTransport); ok {
		it2 := trans2.(*InmemTransport)
		it1.Connect(it2.LocalAddr(), it2)
		it2.Connect(it1.LocalAddr(), it1)
	}
}

func TestTransport_StartStop(t *testing.T) {
	for ttype := 0; ttype < numTestTransports; ttype++ {
		trans := NewTestTransport(ttype, t)
		if err := trans.Close(); err != nil {
			t.Fatalf("err: %v", err)
		}
	}
}

func TestTransport_Spork(t *testing.T) {
	for ttype := 0; ttype < numTestTransports; ttype++ {
		trans1 := NewTestTransport(ttype, t)
		defer trans1.Close()
		rpcCh := trans1.Consumer()

		trans2 := NewTestTransport(ttype, t)
		defer trans2.Close()

		connect(trans1, trans2)

		args := SporkRequest{
			FromAddr: trans2.AdvertiseAddr(),
			Spork:    []byte("the spork"),
		}
		resp := SporkResponse{
			FromAddr: trans1.AdvertiseAddr(),
		}

		errCh := make(chan error, 1)
		go func() {
			select {
			case rpc := <-rpcCh:
				req := rpc.Command.(*SporkRequest)
				if !reflect.DeepEqual(req, &args) {
					errCh <- errors.New("command mismatch")
					rpc.Respond(nil, errors.New("command mismatch"))
					return
				}
				rpc.Respond(&resp, nil)
				errCh <- nil
			case <-time.After(200 * time.Millisecond):
				errCh <- errors.New("timeout")
			}
		}()

		var out SporkResponse
		if err := trans2.Spork(trans1.LocalAddr(), &args, &out); err != nil {
			t.Fatalf("ttype %d. err: %v", ttype, err)
		}

		if err := <-errCh; err != nil {
			t.Fatalf("ttype %d. %v", ttype, err)
		}

		if !reflect.DeepEqual(resp, out) {
			t.Fatalf("ttype %d. response mismatch: %#v %#v", ttype, resp, out)
		}
	}
}

func TestTransport_GetSporks(t *testing.T) {
	for ttype := 0; ttype < numTestTransports; ttype++ {
		trans1 := NewTestTransport(ttype, t)
		defer trans1.Close()
		rpcCh := trans1.Consumer()

		trans2 := NewTestTransport(ttype, t)
		defer trans2.Close()

		connect(trans1, trans2)

		args := GetSporksRequest{
			FromAddr: trans2.AdvertiseAddr(),
		}
		resp := GetSporksResponse{
			FromAddr: trans1.AdvertiseAddr(),
			Sporks: [][]byte{
				[]byte("spork1"),
				[]byte("spork2"),
			},
		}

		errCh := make(chan error, 1)
		go func() {
			select {
			case rpc := <-rpcCh:
				req := rpc.Command.(*GetSporksRequest)
				if !reflect.DeepEqual(req, &args) {
					errCh <- errors.New("command mismatch")
					rpc.Respond(nil, errors.New("command mismatch"))
					return
				}
				rpc.Respond(&resp, nil)
				errCh <- nil
			case <-time.After(200 * time.Millisecond):
				errCh <- errors.New("timeout")
			}
		}()

		var out GetSporksResponse
		if err := trans2.GetSporks(trans1.LocalAddr(), &args, &out); err != nil {
			t.Fatalf("ttype %d. err: %v", ttype, err)
		}

		if err := <-errCh; err != nil {
			t.Fatalf("ttype %d. %v", ttype, err)
		}

		if !reflect.DeepEqual(resp, out) {
			t.Fatalf("ttype %d. response mismatch: %#v %#v", ttype, resp, out)
		}
	}
}

func TestTransport_Error(t *testing.T) {
	for ttype := 0; ttype < numTestTransports; ttype++ {
		trans1 := NewTestTransport(ttype, t)
		defer trans1.Close()
		rpcCh := trans1.Consumer()

		trans2 := NewTestTransport(ttype, t)
		defer trans2.Close()

		connect(trans1, trans2)

		go func() {
			select {
			case rpc := <-rpcCh:
				rpc.Respond(nil, errors.New("banned"))
			case <-time.After(200 * time.Millisecond):
			}
		}()

		var out GetSporksResponse
		err := trans2.GetSporks(trans1.LocalAddr(), &GetSporksRequest{}, &out)
		if err == nil || err.Error() != "banned" {
			t.Fatalf("ttype %d. error should be 'banned', not %v", ttype, err)
		}
	}
}

func TestInmemTransport_Unknown(t *testing.T) {
	_, trans := NewInmemTransport("")

	var out SporkResponse
	if err := trans.Spork("nobody", &SporkRequest{}, &out); err == nil {
		t.Fatal("RPC to an unconnected peer should fail")
	}
}
