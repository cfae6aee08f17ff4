package core

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"imgvault/pkg/config"
	"imgvault/pkg/ingest"
	"imgvault/pkg/logger"
	"imgvault/pkg/memory"
	"imgvault/pkg/patterns"
	"imgvault/pkg/storage"
	"imgvault/pkg/why"
)

// Command names recognized by the dispatcher.
const (
	CommandClone = "CLONE"
	CommandLearn = "LEARN"
)

// unknownResult is the fixed reply for unrecognized commands.
const unknownResult = "Unknown command"

// Core wires the ingestor, pattern engine and event log together and maps
// command names onto them. Every dispatched command, recognized or not,
// appends exactly one event record.
type Core struct {
	cfg      *config.Config
	store    *storage.Store
	ingestor *ingest.Ingestor
	patterns *patterns.Engine
	events   *memory.EventLog
	logger   logger.Logger
}

// New builds a Core over the configured directory tree, creating it if
// absent.
func New(cfg *config.Config, log logger.Logger) (*Core, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.Paths.ImagesDir())
	if err != nil {
		return nil, err
	}

	events, err := memory.NewEventLog(cfg.Paths.EventLogFile(), log)
	if err != nil {
		return nil, err
	}

	return &Core{
		cfg:      cfg,
		store:    store,
		ingestor: ingest.New(cfg, store, log),
		patterns: patterns.New(store, log),
		events:   events,
		logger:   log,
	}, nil
}

// Store exposes the image store, mainly for the CLI surface.
func (c *Core) Store() *storage.Store { return c.store }

// Events exposes the event log.
func (c *Core) Events() *memory.EventLog { return c.events }

// Execute dispatches a command by name, case-insensitively. CLONE ingests
// images from the payload URL; LEARN scans the store; anything else yields
// the fixed unknown-command result with no side effects beyond the event
// record. The result string is always human-readable, never an error: a
// failed CLONE reports its failure in the result and the record.
func (c *Core) Execute(ctx context.Context, command, payload string) string {
	cmd := strings.ToUpper(strings.TrimSpace(command))
	runID := uuid.NewString()

	var result, module string
	switch cmd {
	case CommandClone:
		summary, err := c.ingestor.Clone(ctx, payload, c.cfg.Ingest.Limit)
		if err != nil {
			result = "Ingestion failed: " + err.Error()
		} else {
			result = summary.String()
		}
		module = "Ingestor"
	case CommandLearn:
		count, err := c.patterns.Extract(ctx)
		if err != nil {
			result = "Pattern extraction failed: " + err.Error()
		} else {
			result = patterns.SummaryString(count)
		}
		module = "PatternEngine"
	default:
		result = unknownResult
		module = "Core"
	}

	analysis := why.Analysis{
		Command:   cmd,
		Outcome:   result,
		RunID:     runID,
		Why:       why.Analyze(cmd, module),
		Structure: why.Explain(c),
	}

	if err := c.events.Record(cmd, analysis); err != nil {
		c.logger.WithError(err).Warn("failed to record event")
	}

	c.logger.WithFields(map[string]interface{}{
		"command": cmd,
		"run_id":  runID,
		"result":  result,
	}).Info("command executed")

	return result
}
