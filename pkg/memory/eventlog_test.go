package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgvault/pkg/logger"
	"imgvault/pkg/why"
)

func newTestLog(t *testing.T) *EventLog {
	t.Helper()
	el, err := NewEventLog(filepath.Join(t.TempDir(), "events.json"), logger.Nop())
	require.NoError(t, err)
	return el
}

func TestNewEventLogInitializesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	el, err := NewEventLog(path, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, 0, el.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "events")
}

func TestRecordSequentialOrder(t *testing.T) {
	el := newTestLog(t)

	const n = 5
	for i := 0; i < n; i++ {
		cmd := fmt.Sprintf("CMD%d", i)
		analysis := why.Analysis{Command: cmd, Why: why.Analyze(cmd, "Test")}
		require.NoError(t, el.Record(cmd, analysis))
	}

	events := el.Events()
	require.Len(t, events, n)

	for i, ev := range events {
		assert.Equal(t, fmt.Sprintf("CMD%d", i), ev.Perception)
		assert.Positive(t, ev.Time)
		if i > 0 {
			assert.GreaterOrEqual(t, ev.Time, events[i-1].Time)
		}
	}
}

func TestRecordSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")

	el, err := NewEventLog(path, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, el.Record("CLONE", why.Analysis{Command: "CLONE"}))

	el2, err := NewEventLog(path, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, el2.Record("LEARN", why.Analysis{Command: "LEARN"}))

	events := el2.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "CLONE", events[0].Perception)
	assert.Equal(t, "LEARN", events[1].Perception)
}

func TestCorruptLogResetsOnNextWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	el, err := NewEventLog(path, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, 0, el.Len(), "corrupt log reads as empty")

	require.NoError(t, el.Record("CLONE", why.Analysis{Command: "CLONE"}))
	assert.Equal(t, 1, el.Len(), "next write starts fresh")
}

func TestEventJSONShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	el, err := NewEventLog(path, logger.Nop())
	require.NoError(t, err)

	analysis := why.Analysis{
		Command: "LEARN",
		Outcome: "0 patterns internalized.",
		RunID:   "run-1",
		Why:     why.Analyze("LEARN", "Engine"),
	}
	require.NoError(t, el.Record("LEARN", analysis))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Events []struct {
			Time       float64                `json:"time"`
			Perception string                 `json:"perception"`
			Analysis   map[string]interface{} `json:"analysis"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Events, 1)

	ev := doc.Events[0]
	assert.Equal(t, "LEARN", ev.Perception)
	assert.Positive(t, ev.Time)
	assert.Contains(t, ev.Analysis, "why")
	assert.Contains(t, ev.Analysis, "structure")
	assert.Equal(t, "0 patterns internalized.", ev.Analysis["outcome"])
}
