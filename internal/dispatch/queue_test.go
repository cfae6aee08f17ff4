package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgvault/pkg/config"
	"imgvault/pkg/core"
	"imgvault/pkg/logger"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Ingest.RequestsPerMinute = 0

	c, err := core.New(cfg, logger.Nop())
	require.NoError(t, err)

	return NewQueue(c, logger.Nop())
}

func TestQueueExecutesJob(t *testing.T) {
	q := newTestQueue(t)
	q.Start()
	defer q.Stop()

	require.NoError(t, q.TrySubmit(Job{Command: "LEARN"}))

	select {
	case result := <-q.Results():
		assert.Equal(t, "LEARN", result.Job.Command)
		assert.Equal(t, "0 patterns internalized.", result.Output)
		assert.Greater(t, result.Duration, time.Duration(0))
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for result")
	}
}

func TestQueueRejectsWhenFull(t *testing.T) {
	q := newTestQueue(t)
	// Worker not started: submissions fill the one-slot buffer.

	require.NoError(t, q.TrySubmit(Job{Command: "LEARN"}))

	err := q.TrySubmit(Job{Command: "LEARN"})
	assert.ErrorIs(t, err, ErrBusy)
}

func TestQueueProcessesSequentially(t *testing.T) {
	q := newTestQueue(t)
	q.Start()
	defer q.Stop()

	outputs := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.TrySubmit(Job{Command: "UNKNOWN"}))
		select {
		case result := <-q.Results():
			outputs = append(outputs, result.Output)
		case <-time.After(5 * time.Second):
			t.Fatal("Timed out waiting for result")
		}
	}

	require.Len(t, outputs, 3)
	for _, out := range outputs {
		assert.Equal(t, "Unknown command", out)
	}
}
