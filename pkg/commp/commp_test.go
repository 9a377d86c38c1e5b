package commp

import (
	"context"
	"github.com/bitrainforest/ipfs2filecoin/pkg/model"
	"github.com/bitrainforest/ipfs2filecoin/pkg/process"
	"github.com/bitrainforest/ipfs2filecoin/pkg/requesterror"
	"github.com/stretchr/testify/assert"
	"testing"
)

type stubRunner struct {
	result process.Result
	err    error
	name   string
	args   []string
}

func (s *stubRunner) Run(ctx context.Context, name string, args ...string) (process.Result, error) {
	s.name = name
	s.args = args
	return s.result, s.err
}

func TestComputeParsesReport(t *testing.T) {
	runner := &stubRunner{result: process.Result{
		Stdout: []byte("CommP CID: baga123\nPiece size: 1024\nCar file size: 2048\n"),
	}}

	result, err := NewCalculator("boostx", runner).Compute(context.Background(), "/tmp/content.car")
	assert.NoError(t, err)
	assert.Equal(t, model.CommpResult{
		CommpCID:    "baga123",
		PieceSize:   1024,
		CarFileSize: 2048,
	}, result)
	assert.Equal(t, "boostx", runner.name)
	assert.Equal(t, []string{"commp", "/tmp/content.car"}, runner.args)
}

func TestComputeNonzeroExit(t *testing.T) {
	runner := &stubRunner{result: process.Result{
		Stderr:   []byte("open /tmp/content.car: no such file"),
		ExitCode: 1,
	}}

	_, err := NewCalculator("boostx", runner).Compute(context.Background(), "/tmp/content.car")
	assert.ErrorAs(t, err, &requesterror.ProcessError{})
	assert.Contains(t, err.Error(), "no such file")
}

func TestComputeMalformedReport(t *testing.T) {
	for name, stdout := range map[string]string{
		"wrong label":      "Commitment: baga123\nPiece size: 1024\nCar file size: 2048\n",
		"out of order":     "Piece size: 1024\nCommP CID: baga123\nCar file size: 2048\n",
		"missing line":     "CommP CID: baga123\nPiece size: 1024\n",
		"non numeric size": "CommP CID: baga123\nPiece size: big\nCar file size: 2048\n",
		"zero piece size":  "CommP CID: baga123\nPiece size: 0\nCar file size: 2048\n",
	} {
		t.Run(name, func(t *testing.T) {
			runner := &stubRunner{result: process.Result{Stdout: []byte(stdout)}}
			result, err := NewCalculator("boostx", runner).Compute(context.Background(), "/tmp/content.car")
			assert.ErrorAs(t, err, &requesterror.ParseError{})
			assert.Equal(t, model.CommpResult{}, result)
		})
	}
}
