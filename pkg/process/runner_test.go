package process

import (
	"context"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestRunCapturesBothStreams(t *testing.T) {
	result, err := Exec{}.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	assert.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "out\n", string(result.Stdout))
	assert.Equal(t, "err\n", string(result.Stderr))
}

func TestRunNonzeroExitIsNotAnError(t *testing.T) {
	result, err := Exec{}.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	assert.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "boom\n", string(result.Stderr))
}

func TestRunMissingBinary(t *testing.T) {
	_, err := Exec{}.Run(context.Background(), "definitely-not-a-real-binary")
	assert.Error(t, err)
}

func TestRunTimeout(t *testing.T) {
	start := time.Now()
	_, err := Exec{Timeout: 100 * time.Millisecond}.Run(context.Background(), "sleep", "10")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
