package model

import "time"

// DealProposal carries everything the deal-making tool needs to submit a
// storage deal. PricePerEpoch is the only mutable field: the negotiator
// raises it when the provider rejects the offer as below their minimum.
// A proposal is owned by a single request and never shared.
type DealProposal struct {
	Provider      string
	HTTPURL       string
	Commp         string
	CarSize       uint64
	PieceSize     uint64
	PayloadCID    string
	PricePerEpoch uint64
	Verified      bool
}

// CommpResult is the parsed report of the piece-commitment tool.
type CommpResult struct {
	CommpCID    string
	PieceSize   uint64
	CarFileSize uint64
}

// DealResult is the parsed success report of the deal-making tool.
type DealResult struct {
	DealUUID           string `json:"deal_uuid"           bson:"deal_uuid"`
	StorageProvider    string `json:"storage_provider"    bson:"storage_provider"`
	ClientWallet       string `json:"client_wallet"       bson:"client_wallet"`
	PayloadCID         string `json:"payload_cid"         bson:"payload_cid"`
	URL                string `json:"url"                 bson:"url"`
	Commp              string `json:"commp"               bson:"commp"`
	StartEpoch         int64  `json:"start_epoch"         bson:"start_epoch"`
	EndEpoch           int64  `json:"end_epoch"           bson:"end_epoch"`
	ProviderCollateral string `json:"provider_collateral" bson:"provider_collateral"`
}

type DealRecord struct {
	Deal          DealResult `bson:"deal"`
	CorrelationID string     `bson:"correlation_id"`
	CreatedAt     time.Time  `bson:"created_at"`
}
