// Package commp computes piece commitments by shelling out to the boostx
// commp tool and parsing its fixed three-line report.
package commp

import (
	"bytes"
	"context"
	"github.com/bitrainforest/ipfs2filecoin/pkg/model"
	"github.com/bitrainforest/ipfs2filecoin/pkg/parse"
	"github.com/bitrainforest/ipfs2filecoin/pkg/process"
	"github.com/bitrainforest/ipfs2filecoin/pkg/requesterror"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
)

const (
	commpCIDField    = "commp cid"
	pieceSizeField   = "piece size"
	carFileSizeField = "car file size"
)

var reportSchema = []parse.Line{
	{Field: commpCIDField, Prefix: "CommP CID: "},
	{Field: pieceSizeField, Prefix: "Piece size: "},
	{Field: carFileSizeField, Prefix: "Car file size: "},
}

type Calculator struct {
	binary string
	runner process.Runner
}

func NewCalculator(binary string, runner process.Runner) Calculator {
	return Calculator{
		binary: binary,
		runner: runner,
	}
}

// Compute runs the commp tool over the given local file. A nonzero exit is a
// ProcessError carrying the tool's stderr; a report that does not match the
// expected schema is a ParseError and never yields a partial result.
func (c Calculator) Compute(ctx context.Context, path string) (model.CommpResult, error) {
	logger := logging.Logger("commp").With("path", path)
	result, err := c.runner.Run(ctx, c.binary, "commp", path)
	if err != nil {
		return model.CommpResult{}, errors.Wrap(err, "failed to run commp tool")
	}

	if result.ExitCode != 0 {
		return model.CommpResult{}, requesterror.ProcessError{
			Command: c.binary + " commp",
			Stderr:  string(result.Stderr),
		}
	}

	fields, err := parse.Scan(bytes.NewReader(result.Stdout), reportSchema)
	if err != nil {
		return model.CommpResult{}, err
	}

	pieceSize, err := parse.Uint(fields, pieceSizeField)
	if err != nil {
		return model.CommpResult{}, err
	}

	carFileSize, err := parse.Uint(fields, carFileSizeField)
	if err != nil {
		return model.CommpResult{}, err
	}

	if pieceSize == 0 {
		return model.CommpResult{}, requesterror.ParseError{Field: pieceSizeField}
	}

	if carFileSize == 0 {
		return model.CommpResult{}, requesterror.ParseError{Field: carFileSizeField}
	}

	commpResult := model.CommpResult{
		CommpCID:    fields[commpCIDField],
		PieceSize:   pieceSize,
		CarFileSize: carFileSize,
	}

	logger.With("result", commpResult).Debug("computed piece commitment")
	return commpResult, nil
}
