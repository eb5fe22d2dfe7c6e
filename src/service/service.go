package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fastnode/sporknet/src/common"
	"github.com/fastnode/sporknet/src/node"
	"github.com/fastnode/sporknet/src/spork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// SporkInfo is the JSON representation of a spork.
type SporkInfo struct {
	ID         spork.ID `json:"id"`
	Name       string   `json:"name"`
	Value      int64    `json:"value"`
	Default    int64    `json:"default"`
	Active     bool     `json:"active"`
	TimeSigned int64    `json:"time_signed,omitempty"`
	Signature  string   `json:"signature,omitempty"`
}

// UpdateRequest is the body of a POST /spork request.
type UpdateRequest struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Service exposes the sporks of a node over HTTP.
type Service struct {
	sync.Mutex

	bindAddress string
	node        *node.Node
	mux         *http.ServeMux
	logger      *logrus.Entry
}

// NewService ...
func NewService(bindAddress string, n *node.Node, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		node:        n,
		mux:         http.NewServeMux(),
		logger:      logger,
	}

	service.registerHandlers()

	return &service
}

func (s *Service) registerHandlers() {
	s.logger.Debug("Registering sporknet API handlers")
	s.mux.HandleFunc("/stats", s.makeHandler(s.GetStats))
	s.mux.HandleFunc("/peers", s.makeHandler(s.GetPeers))
	s.mux.HandleFunc("/sporks", s.makeHandler(s.GetSporks))
	s.mux.HandleFunc("/spork", s.makeHandler(s.PostSpork))
	s.mux.HandleFunc("/spork/", s.makeHandler(s.GetSpork))
	s.mux.Handle("/metrics", promhttp.HandlerFor(s.node.Metrics().Registry(), promhttp.HandlerOpts{}))
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		defer s.Unlock()

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Handler returns the http.Handler serving the API.
func (s *Service) Handler() http.Handler {
	return s.mux
}

// Serve calls ListenAndServe. This is a blocking call.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving sporknet API")

	err := http.ListenAndServe(s.bindAddress, s.mux)
	if err != nil {
		s.logger.Error(err)
	}
}

// GetStats ...
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.node.GetStats())
}

// GetPeers ...
func (s *Service) GetPeers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.node.GetPeers())
}

// GetSporks lists every spork of the registry with its effective value.
func (s *Service) GetSporks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	manager := s.node.Manager()
	now := time.Now()

	res := []SporkInfo{}
	for _, p := range manager.Registry().Params() {
		res = append(res, s.info(p.ID, now))
	}

	writeJSON(w, http.StatusOK, res)
}

// GetSpork returns a single spork, selected by name or by numeric id.
func (s *Service) GetSpork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	param := strings.TrimPrefix(r.URL.Path, "/spork/")

	id, ok := s.lookup(param)
	if !ok {
		http.Error(w, "unknown spork "+param, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, s.info(id, time.Now()))
}

// PostSpork publishes a new value for a spork. The node must hold the master
// key.
func (s *Service) PostSpork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, ok := s.lookup(req.Name)
	if !ok {
		http.Error(w, "unknown spork "+req.Name, http.StatusNotFound)
		return
	}

	if _, err := s.node.UpdateSpork(id, req.Value); err != nil {
		s.logger.WithError(err).WithField("spork", req.Name).Error("Publishing spork")

		status := http.StatusConflict
		if errors.Is(err, spork.ErrNoSigner) {
			status = http.StatusForbidden
		}

		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, s.info(id, time.Now()))
}

func (s *Service) lookup(name string) (spork.ID, bool) {
	registry := s.node.Manager().Registry()

	if id, ok := registry.IDOf(name); ok {
		return id, true
	}

	n, err := strconv.ParseInt(name, 10, 32)
	if err != nil || !registry.Known(spork.ID(n)) {
		return 0, false
	}

	return spork.ID(n), true
}

func (s *Service) info(id spork.ID, now time.Time) SporkInfo {
	manager := s.node.Manager()
	def, _ := manager.Registry().DefaultOf(id)

	info := SporkInfo{
		ID:      id,
		Name:    manager.Registry().NameOf(id),
		Value:   manager.Value(id),
		Default: def,
		Active:  manager.IsActive(id, now),
	}

	if r, ok := manager.Get(id); ok {
		info.TimeSigned = r.TimeSigned
		info.Signature = common.EncodeToString(r.Signature)
	}

	return info
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
