package fetcher

import (
	"context"
	"github.com/bitrainforest/ipfs2filecoin/pkg/requesterror"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
	"io"
	"net/http"
	"os"
	"time"
)

// ScratchFile is a temporary file holding fetched content. The caller owns
// it exclusively and must call Release exactly once when done; Release is
// idempotent so deferring it on every exit path is safe.
type ScratchFile struct {
	path     string
	released bool
}

func (s *ScratchFile) Path() string {
	return s.path
}

func (s *ScratchFile) Release() {
	if s.released {
		return
	}

	s.released = true
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logging.Logger("fetcher").With("err", err).Errorf("failed to remove scratch file %s", s.path)
	}
}

type HTTPFetcher struct {
	timeout time.Duration
}

func NewHTTPFetcher(timeout time.Duration) HTTPFetcher {
	return HTTPFetcher{
		timeout: timeout,
	}
}

// Fetch streams the response body into a fresh scratch file without
// buffering the whole payload in memory. Any transport failure, non-2xx
// status or local write failure is a FetchError.
func (f HTTPFetcher) Fetch(parent context.Context, url string) (*ScratchFile, error) {
	ctx, cancel := context.WithTimeout(parent, f.timeout)
	defer cancel()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	client := &http.Client{
		Timeout: f.timeout,
	}

	resp, err := client.Do(request)
	if err != nil {
		return nil, requesterror.FetchError{URL: url, Err: err}
	}

	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, requesterror.FetchError{URL: url, Err: errors.Errorf("status code: %d", resp.StatusCode)}
	}

	file, err := os.CreateTemp("", "ipfs2filecoin-*.car")
	if err != nil {
		return nil, requesterror.FetchError{URL: url, Err: err}
	}

	scratch := &ScratchFile{path: file.Name()}
	_, err = io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		scratch.Release()
		return nil, requesterror.FetchError{URL: url, Err: err}
	}

	return scratch, nil
}
