package parse

import (
	"github.com/bitrainforest/ipfs2filecoin/pkg/requesterror"
	"github.com/stretchr/testify/assert"
	"strings"
	"testing"
)

var schema = []Line{
	{Field: "commp cid", Prefix: "CommP CID: "},
	{Field: "piece size", Prefix: "Piece size: "},
	{Field: "car file size", Prefix: "Car file size: "},
}

func TestScan(t *testing.T) {
	report := "CommP CID: baga123\nPiece size: 1024\nCar file size: 2048\n"
	fields, err := Scan(strings.NewReader(report), schema)
	assert.NoError(t, err)
	assert.Equal(t, "baga123", fields["commp cid"])
	assert.Equal(t, "1024", fields["piece size"])
	assert.Equal(t, "2048", fields["car file size"])
}

func TestScanTrimsWhitespace(t *testing.T) {
	report := "  CommP CID:  baga123 \nPiece size: 1024\nCar file size: 2048\n"
	fields, err := Scan(strings.NewReader(report), schema)
	assert.NoError(t, err)
	assert.Equal(t, "baga123", fields["commp cid"])
}

func TestScanWrongLabel(t *testing.T) {
	report := "CommP CID: baga123\nPayload size: 1024\nCar file size: 2048\n"
	fields, err := Scan(strings.NewReader(report), schema)
	assert.Nil(t, fields)
	assert.ErrorAs(t, err, &requesterror.ParseError{})
	assert.EqualError(t, err, "failed to resolve piece size")
}

func TestScanOutOfOrder(t *testing.T) {
	report := "Piece size: 1024\nCommP CID: baga123\nCar file size: 2048\n"
	fields, err := Scan(strings.NewReader(report), schema)
	assert.Nil(t, fields)
	assert.EqualError(t, err, "failed to resolve commp cid")
}

func TestScanMissingLine(t *testing.T) {
	report := "CommP CID: baga123\nPiece size: 1024\n"
	fields, err := Scan(strings.NewReader(report), schema)
	assert.Nil(t, fields)
	assert.EqualError(t, err, "failed to resolve car file size")
}

func TestScanSkipsInformationalLines(t *testing.T) {
	withInfo := []Line{
		{},
		{Field: "deal uuid", Prefix: "deal uuid: "},
	}
	fields, err := Scan(strings.NewReader("sent deal proposal\ndeal uuid: abc\n"), withInfo)
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"deal uuid": "abc"}, fields)

	_, err = Scan(strings.NewReader(""), withInfo)
	assert.EqualError(t, err, "failed to resolve output")
}

func TestUint(t *testing.T) {
	fields := map[string]string{"piece size": "1024", "bad": "12x4"}
	value, err := Uint(fields, "piece size")
	assert.NoError(t, err)
	assert.EqualValues(t, 1024, value)

	_, err = Uint(fields, "bad")
	assert.EqualError(t, err, "failed to resolve bad")

	_, err = Uint(fields, "missing")
	assert.Error(t, err)
}

func TestInt(t *testing.T) {
	fields := map[string]string{"start epoch": "-5", "end epoch": "200"}
	start, err := Int(fields, "start epoch")
	assert.NoError(t, err)
	assert.EqualValues(t, -5, start)

	end, err := Int(fields, "end epoch")
	assert.NoError(t, err)
	assert.EqualValues(t, 200, end)
}
