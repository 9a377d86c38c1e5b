package fetcher

import (
	"context"
	"github.com/bitrainforest/ipfs2filecoin/pkg/requesterror"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func TestFetchStreamsBodyToScratchFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		//nolint:errcheck
		w.Write([]byte("car bytes"))
	}))
	defer server.Close()

	scratch, err := NewHTTPFetcher(time.Minute).Fetch(context.Background(), server.URL)
	assert.NoError(t, err)
	defer scratch.Release()

	content, err := os.ReadFile(scratch.Path())
	assert.NoError(t, err)
	assert.Equal(t, "car bytes", string(content))
}

func TestFetchRejectsNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such block", http.StatusInternalServerError)
	}))
	defer server.Close()

	scratch, err := NewHTTPFetcher(time.Minute).Fetch(context.Background(), server.URL)
	assert.Nil(t, scratch)
	assert.ErrorAs(t, err, &requesterror.FetchError{})
	assert.Contains(t, err.Error(), "status code: 500")
}

func TestFetchConnectionFailure(t *testing.T) {
	scratch, err := NewHTTPFetcher(time.Second).Fetch(context.Background(), "http://127.0.0.1:1")
	assert.Nil(t, scratch)
	assert.ErrorAs(t, err, &requesterror.FetchError{})
}

func TestReleaseIsIdempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		//nolint:errcheck
		w.Write([]byte("x"))
	}))
	defer server.Close()

	scratch, err := NewHTTPFetcher(time.Minute).Fetch(context.Background(), server.URL)
	assert.NoError(t, err)

	path := scratch.Path()
	scratch.Release()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	scratch.Release()
}
