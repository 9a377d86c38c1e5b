// Package deal drives storage deal negotiation through the boost deal tool.
// The provider communicates a price rejection only through its diagnostic
// text, so the negotiator is a small state machine over subprocess output:
// resubmit at the provider's minimum while the price is the only complaint,
// fail on anything else.
package deal

import (
	"bytes"
	"context"
	"github.com/bitrainforest/ipfs2filecoin/pkg/model"
	"github.com/bitrainforest/ipfs2filecoin/pkg/parse"
	"github.com/bitrainforest/ipfs2filecoin/pkg/process"
	"github.com/bitrainforest/ipfs2filecoin/pkg/requesterror"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
	"strconv"
	"strings"
)

const priceRejectedMarker = "storage price per epoch less than asking price"

const (
	dealUUIDField           = "deal uuid"
	clientWalletField       = "client wallet"
	commpField              = "commp"
	startEpochField         = "start epoch"
	endEpochField           = "end epoch"
	providerCollateralField = "provider collateral"
)

// The success report interleaves labelled fields with informational lines
// that are consumed but not extracted. Order is fixed by the tool.
var reportSchema = []parse.Line{
	{},
	{Field: dealUUIDField, Prefix: "deal uuid: "},
	{},
	{Field: clientWalletField, Prefix: "client wallet: "},
	{},
	{},
	{Field: commpField, Prefix: "commp: "},
	{Field: startEpochField, Prefix: "start epoch: "},
	{Field: endEpochField, Prefix: "end epoch: "},
	{Field: providerCollateralField, Prefix: "provider collateral: "},
}

type Negotiator struct {
	binary      string
	runner      process.Runner
	maxAttempts int
}

func NewNegotiator(binary string, runner process.Runner, maxAttempts int) Negotiator {
	return Negotiator{
		binary:      binary,
		runner:      runner,
		maxAttempts: maxAttempts,
	}
}

// Negotiate submits the proposal and resubmits at the provider's minimum
// whenever the only complaint is that the offered price is too low. The
// price sequence is strictly increasing across resubmissions, so the loop
// terminates; it also fails closed after maxAttempts submissions.
func (n Negotiator) Negotiate(ctx context.Context, proposal *model.DealProposal) (model.DealResult, error) {
	logger := logging.Logger("deal").With("provider", proposal.Provider, "payloadCid", proposal.PayloadCID)

	var lastDiagnostic string
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		result, err := n.runner.Run(ctx, n.binary, "deal",
			"--provider", proposal.Provider,
			"--http-url", proposal.HTTPURL,
			"--commp", proposal.Commp,
			"--car-size", strconv.FormatUint(proposal.CarSize, 10),
			"--piece-size", strconv.FormatUint(proposal.PieceSize, 10),
			"--payload-cid", proposal.PayloadCID,
			"--storage-price-per-epoch", strconv.FormatUint(proposal.PricePerEpoch, 10),
			"--verified="+strconv.FormatBool(proposal.Verified),
		)
		if err != nil {
			return model.DealResult{}, errors.Wrap(err, "failed to run deal tool")
		}

		if result.ExitCode == 0 {
			dealResult, err := parseReport(result.Stdout, proposal)
			if err != nil {
				return model.DealResult{}, err
			}

			logger.With("dealUuid", dealResult.DealUUID, "pricePerEpoch", proposal.PricePerEpoch).
				Info("deal accepted")
			return dealResult, nil
		}

		rejection := resolveRejection(string(result.Stderr))
		var priceRejected requesterror.PriceRejectedError
		if !errors.As(rejection, &priceRejected) {
			return model.DealResult{}, rejection
		}

		// Resubmitting at a price we already offered would loop forever.
		if priceRejected.AskingPrice <= proposal.PricePerEpoch {
			return model.DealResult{}, requesterror.DealError{Diagnostic: priceRejected.Diagnostic}
		}

		logger.With("attempt", attempt, "askingPrice", priceRejected.AskingPrice).
			Info("price rejected, resubmitting at provider minimum")
		proposal.PricePerEpoch = priceRejected.AskingPrice
		lastDiagnostic = priceRejected.Diagnostic
	}

	return model.DealResult{}, requesterror.RetriesExhaustedError{
		Attempts:       n.maxAttempts,
		LastDiagnostic: lastDiagnostic,
	}
}

// resolveRejection classifies a nonzero-exit diagnostic. A price rejection
// carries the provider minimum in a trailing "0 < <integer>" fragment after
// the last colon; anything that does not match exactly is fatal with the
// diagnostic surfaced verbatim.
func resolveRejection(diagnostic string) error {
	if !strings.Contains(diagnostic, priceRejectedMarker) {
		return requesterror.DealError{Diagnostic: diagnostic}
	}

	fragment := diagnostic[strings.LastIndex(diagnostic, ":")+1:]
	value, found := strings.CutPrefix(strings.TrimSpace(fragment), "0 < ")
	if !found {
		return requesterror.DealError{Diagnostic: diagnostic}
	}

	askingPrice, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return requesterror.DealError{Diagnostic: diagnostic}
	}

	return requesterror.PriceRejectedError{AskingPrice: askingPrice, Diagnostic: diagnostic}
}

func parseReport(stdout []byte, proposal *model.DealProposal) (model.DealResult, error) {
	fields, err := parse.Scan(bytes.NewReader(stdout), reportSchema)
	if err != nil {
		return model.DealResult{}, err
	}

	startEpoch, err := parse.Int(fields, startEpochField)
	if err != nil {
		return model.DealResult{}, err
	}

	endEpoch, err := parse.Int(fields, endEpochField)
	if err != nil {
		return model.DealResult{}, err
	}

	return model.DealResult{
		DealUUID:           fields[dealUUIDField],
		StorageProvider:    proposal.Provider,
		ClientWallet:       fields[clientWalletField],
		PayloadCID:         proposal.PayloadCID,
		URL:                proposal.HTTPURL,
		Commp:              fields[commpField],
		StartEpoch:         startEpoch,
		EndEpoch:           endEpoch,
		ProviderCollateral: fields[providerCollateralField],
	}, nil
}
