package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"imgvault/pkg/logger"
	"imgvault/pkg/why"
)

// Event is one logged command invocation.
type Event struct {
	// Time is wall-clock unix seconds with fractional precision.
	Time float64 `json:"time"`
	// Perception is the command name as dispatched.
	Perception string `json:"perception"`
	// Analysis is the canned structured explanation.
	Analysis why.Analysis `json:"analysis"`
}

// document is the single JSON file holding every event ever recorded.
// It grows without bound and is rewritten in full on every append.
type document struct {
	Events []Event `json:"events"`
}

// EventLog is an append-only record of dispatched commands backed by one
// JSON document. A missing or corrupt file reads as empty and is silently
// reset by the next write. An in-process mutex serializes appends from
// concurrent goroutines; concurrent writers in other processes still race
// with last-write-wins, which is accepted behavior.
type EventLog struct {
	path   string
	logger logger.Logger
	mu     sync.Mutex
}

// NewEventLog creates an event log at the given path, initializing an
// empty document if none exists.
func NewEventLog(path string, log logger.Logger) (*EventLog, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	el := &EventLog{path: path, logger: log}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := el.write(document{Events: []Event{}}); err != nil {
			return nil, fmt.Errorf("failed to initialize event log: %w", err)
		}
	}

	return el, nil
}

// Record appends one event keyed by the current wall clock.
func (el *EventLog) Record(perception string, analysis why.Analysis) error {
	el.mu.Lock()
	defer el.mu.Unlock()

	doc := el.read()
	doc.Events = append(doc.Events, Event{
		Time:       float64(time.Now().UnixNano()) / 1e9,
		Perception: perception,
		Analysis:   analysis,
	})

	return el.write(doc)
}

// Events returns all recorded events in invocation order.
func (el *EventLog) Events() []Event {
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.read().Events
}

// Len returns the number of recorded events.
func (el *EventLog) Len() int {
	return len(el.Events())
}

// read loads the document, downgrading any failure to an empty log.
func (el *EventLog) read() document {
	data, err := os.ReadFile(el.path)
	if err != nil {
		return document{Events: []Event{}}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		el.logger.WithError(err).WithField("path", el.path).Warn("event log unreadable, starting fresh")
		return document{Events: []Event{}}
	}
	if doc.Events == nil {
		doc.Events = []Event{}
	}
	return doc
}

func (el *EventLog) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal event log: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(el.path), 0755); err != nil {
		return fmt.Errorf("failed to create memory directory: %w", err)
	}

	if err := os.WriteFile(el.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write event log: %w", err)
	}

	return nil
}
