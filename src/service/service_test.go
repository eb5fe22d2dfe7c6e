package service

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fastnode/sporknet/src/common"
	"github.com/fastnode/sporknet/src/config"
	"github.com/fastnode/sporknet/src/crypto/keys"
	"github.com/fastnode/sporknet/src/net"
	"github.com/fastnode/sporknet/src/node"
	"github.com/fastnode/sporknet/src/peers"
	"github.com/fastnode/sporknet/src/spork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *node.Node, *ecdsa.PrivateKey) {
	key, err := keys.GenerateECDSAKey()
	if err != nil {
		t.Fatal(err)
	}

	conf := config.NewTestConfig(t, common.TestLogLevel)
	conf.SyncOnStart = false

	manager := spork.NewManager(
		spork.DefaultRegistry(),
		spork.NewVerifier(&key.PublicKey, ""),
		spork.NewInmemStore(),
		conf.Logger(),
	)

	_, trans := net.NewInmemTransport("")

	n := node.NewNode(conf, manager, peers.NewPeerSet([]*peers.Peer{}), trans)
	if err := n.Init(); err != nil {
		t.Fatal(err)
	}

	return NewService("127.0.0.1:0", n, common.NewTestEntry(t, common.TestLogLevel)), n, key
}

func do(t *testing.T, s *Service, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGetSporks(t *testing.T) {
	s, n, _ := newTestService(t)
	defer n.Shutdown()

	rec := do(t, s, http.MethodGet, "/sporks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var infos []SporkInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&infos))
	require.Len(t, infos, spork.DefaultRegistry().Len())

	for i, p := range spork.DefaultRegistry().Params() {
		assert.Equal(t, p.ID, infos[i].ID)
		assert.Equal(t, p.Name, infos[i].Name)
		assert.Equal(t, p.Default, infos[i].Value)
		assert.Zero(t, infos[i].TimeSigned)
	}
}

func TestGetSpork(t *testing.T) {
	s, n, _ := newTestService(t)
	defer n.Shutdown()

	for _, path := range []string{"/spork/SPORK_5_MAX_VALUE", "/spork/10004"} {
		rec := do(t, s, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var info SporkInfo
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
		assert.Equal(t, spork.MaxValue, info.ID)
		assert.Equal(t, int64(1000), info.Value)
		assert.True(t, info.Active)
	}

	for _, path := range []string{"/spork/SPORK_UNKNOWN", "/spork/10003", "/spork/"} {
		rec := do(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestPostSpork(t *testing.T) {
	s, n, key := newTestService(t)
	defer n.Shutdown()

	body, _ := json.Marshal(UpdateRequest{Name: "SPORK_2_SWIFTTX", Value: 42})

	// no master key
	rec := do(t, s, http.MethodPost, "/spork", body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, n.SetMasterKey(key))

	rec = do(t, s, http.MethodPost, "/spork", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var info SporkInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Equal(t, int64(42), info.Value)
	assert.NotZero(t, info.TimeSigned)
	assert.True(t, strings.HasPrefix(info.Signature, "0X"))

	assert.Equal(t, int64(42), n.Manager().Value(spork.SwiftTX))

	rec = do(t, s, http.MethodPost, "/spork", []byte(`{"name":"SPORK_NOPE","value":1}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/spork", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/spork", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatsAndMetrics(t *testing.T) {
	s, n, _ := newTestService(t)
	defer n.Shutdown()

	rec := do(t, s, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := map[string]string{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, "0", stats["active_sporks"])
	assert.Equal(t, "false", stats["signer"])

	rec = do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := ioutil.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sporknet_active_sporks")
}
