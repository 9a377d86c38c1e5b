// Package server exposes the deal pipeline over HTTP: one endpoint that
// takes a payload CID and returns the negotiated deal, plus a liveness
// probe. Every request runs its own fetch → commp → deal pipeline; the only
// shared state is the read-only configuration and the commp cache.
package server

import (
	"context"
	"encoding/json"
	"github.com/bitrainforest/ipfs2filecoin/pkg/fetcher"
	"github.com/bitrainforest/ipfs2filecoin/pkg/model"
	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/jellydator/ttlcache/v3"
	"net/http"
	"time"
)

// Config is assembled once at startup and never mutated afterwards.
type Config struct {
	ListenAddr      string
	IPFSGateway     string
	MinerID         string
	FetchTimeout    time.Duration
	CommandTimeout  time.Duration
	MaxDealAttempts int
	CommpCacheTTL   time.Duration
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.ScratchFile, error)
}

type Calculator interface {
	Compute(ctx context.Context, path string) (model.CommpResult, error)
}

type Negotiator interface {
	Negotiate(ctx context.Context, proposal *model.DealProposal) (model.DealResult, error)
}

type Recorder interface {
	Record(ctx context.Context, record model.DealRecord) error
}

type Server struct {
	cfg        Config
	fetcher    Fetcher
	calculator Calculator
	negotiator Negotiator
	recorder   Recorder
	commpCache *ttlcache.Cache[string, model.CommpResult]
}

func New(cfg Config, contentFetcher Fetcher, calculator Calculator, negotiator Negotiator, recorder Recorder) *Server {
	var cache *ttlcache.Cache[string, model.CommpResult]
	if cfg.CommpCacheTTL > 0 {
		cache = ttlcache.New[string, model.CommpResult](
			ttlcache.WithTTL[string, model.CommpResult](cfg.CommpCacheTTL),
			ttlcache.WithDisableTouchOnHit[string, model.CommpResult]())
	}

	return &Server{
		cfg:        cfg,
		fetcher:    contentFetcher,
		calculator: calculator,
		negotiator: negotiator,
		recorder:   recorder,
		commpCache: cache,
	}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /put/{cid}", s.handlePut)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	correlationID := uuid.New().String()
	logger := logging.Logger("server").With("correlationId", correlationID)

	payloadCID, err := cid.Parse(r.PathValue("cid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cid: "+err.Error())
		return
	}

	logger.With("payloadCid", payloadCID.String()).Info("handling deal request")
	result, err := s.run(r.Context(), payloadCID.String(), correlationID)
	if err != nil {
		logger.With("err", err).Error("deal pipeline failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorReply struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorReply{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// nolint:errcheck
	json.NewEncoder(w).Encode(v)
}
