package server

import (
	"context"
	"github.com/bitrainforest/ipfs2filecoin/pkg/model"
	logging "github.com/ipfs/go-log/v2"
	"github.com/jellydator/ttlcache/v3"
	"github.com/pkg/errors"
	"strings"
	"time"
)

// run executes the pipeline for one request: fetch the content from the
// gateway, compute its piece commitment, negotiate the deal. Steps run in
// strict order and the scratch file is released on every exit path.
func (s *Server) run(ctx context.Context, payloadCID string, correlationID string) (model.DealResult, error) {
	logger := logging.Logger("server").With("correlationId", correlationID, "payloadCid", payloadCID)
	fetchURL := s.gatewayURL(payloadCID)

	commpResult, cached := s.cachedCommp(payloadCID)
	if !cached {
		scratch, err := s.fetcher.Fetch(ctx, fetchURL)
		if err != nil {
			return model.DealResult{}, errors.Wrap(err, "failed to fetch content")
		}

		defer scratch.Release()
		commpResult, err = s.calculator.Compute(ctx, scratch.Path())
		if err != nil {
			return model.DealResult{}, errors.Wrap(err, "failed to compute piece commitment")
		}

		s.storeCommp(payloadCID, commpResult)
	} else {
		logger.Debug("reusing cached piece commitment")
	}

	proposal := &model.DealProposal{
		Provider:      s.cfg.MinerID,
		HTTPURL:       fetchURL,
		Commp:         commpResult.CommpCID,
		CarSize:       commpResult.CarFileSize,
		PieceSize:     commpResult.PieceSize,
		PayloadCID:    payloadCID,
		PricePerEpoch: 0,
		Verified:      false,
	}

	dealResult, err := s.negotiator.Negotiate(ctx, proposal)
	if err != nil {
		return model.DealResult{}, errors.Wrap(err, "failed to negotiate deal")
	}

	if s.recorder != nil {
		record := model.DealRecord{
			Deal:          dealResult,
			CorrelationID: correlationID,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.recorder.Record(ctx, record); err != nil {
			logger.With("err", err).Error("failed to record deal")
		}
	}

	return dealResult, nil
}

func (s *Server) gatewayURL(payloadCID string) string {
	return strings.TrimSuffix(s.cfg.IPFSGateway, "/") + "/api/v0/dag/export?arg=" + payloadCID
}

func (s *Server) cachedCommp(payloadCID string) (model.CommpResult, bool) {
	if s.commpCache == nil {
		return model.CommpResult{}, false
	}

	item := s.commpCache.Get(payloadCID)
	if item == nil {
		return model.CommpResult{}, false
	}

	return item.Value(), true
}

func (s *Server) storeCommp(payloadCID string, result model.CommpResult) {
	if s.commpCache == nil {
		return
	}

	s.commpCache.Set(payloadCID, result, ttlcache.DefaultTTL)
}
