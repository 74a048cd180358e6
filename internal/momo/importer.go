package momo

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kagabo/momoledger/internal/storage"
)

// RawInput is one notification record as received from a backup or device,
// before any classification.
type RawInput struct {
	Protocol      string
	Address       string
	DateMs        int64
	Type          int
	Body          string
	ServiceCenter string
	DateSentMs    int64
	ReadableDate  string
	ContactName   string
}

// Summary reports one import run back to the caller. Totals cover only
// messages from the recognized channel address; unrelated senders are
// skipped before any counter moves.
type Summary struct {
	RunID   string
	Total   int
	Parsed  int
	Failed  int
	ByType  map[string]int
	Elapsed time.Duration
}

// Importer runs the engine over batches of raw messages. Each batch gets a
// run id, a begin/end audit pair, and fail-soft per-message handling: one
// unclassifiable message never aborts the rest.
type Importer struct {
	db             *storage.Database
	engine         *Engine
	channelAddress string
	log            zerolog.Logger
}

func NewImporter(db *storage.Database, engine *Engine, channelAddress string, log zerolog.Logger) *Importer {
	return &Importer{
		db:             db,
		engine:         engine,
		channelAddress: channelAddress,
		log:            log,
	}
}

// Run imports one batch in input order. Every channel message is persisted
// as a raw row before classification so unclassifiable bodies are retained
// for audit. Returns the run summary; the only fatal errors are storage
// failures and broken setup preconditions.
func (im *Importer) Run(msgs []RawInput) (*Summary, error) {
	runID := uuid.NewString()
	start := time.Now()

	summary := &Summary{
		RunID:  runID,
		ByType: make(map[string]int),
	}

	if err := im.db.CreateImportAudit(&storage.ImportAudit{
		RunID:     runID,
		Event:     storage.AuditStarted,
		Message:   fmt.Sprintf("starting import of %d messages", len(msgs)),
		CreatedBy: "importer",
	}); err != nil {
		return nil, err
	}
	im.log.Info().Str("run_id", runID).Int("messages", len(msgs)).Msg("import started")

	for _, msg := range msgs {
		if msg.Address != im.channelAddress {
			continue
		}
		summary.Total++

		raw := &storage.SmsMessage{
			Protocol:      msg.Protocol,
			Address:       msg.Address,
			SmsDateMs:     msg.DateMs,
			SmsType:       msg.Type,
			Body:          msg.Body,
			ServiceCenter: msg.ServiceCenter,
			DateSentMs:    msg.DateSentMs,
			ReadableDate:  msg.ReadableDate,
			ContactName:   msg.ContactName,
		}
		if err := im.db.CreateSmsMessage(raw); err != nil {
			return nil, err
		}

		res, err := im.engine.Classify(msg.Body)
		switch {
		case err == nil:
			if err := im.db.MarkMessageProcessed(raw, res.Transaction.ID); err != nil {
				return nil, err
			}
			summary.Parsed++
			summary.ByType[res.Pattern]++
		case errors.Is(err, ErrNoMatch):
			if err := im.db.MarkMessageFailed(raw, NoMatchReason); err != nil {
				return nil, err
			}
			summary.Failed++
		default:
			return nil, err
		}
	}

	summary.Elapsed = time.Since(start)

	if err := im.db.CreateImportAudit(&storage.ImportAudit{
		RunID:       runID,
		Event:       storage.AuditCompleted,
		Message:     fmt.Sprintf("done: %d/%d parsed", summary.Parsed, summary.Total),
		TotalCount:  summary.Total,
		ParsedCount: summary.Parsed,
		FailedCount: summary.Failed,
		ElapsedMs:   summary.Elapsed.Milliseconds(),
		CreatedBy:   "importer",
	}); err != nil {
		return nil, err
	}

	im.log.Info().
		Str("run_id", runID).
		Int("total", summary.Total).
		Int("parsed", summary.Parsed).
		Int("failed", summary.Failed).
		Dur("elapsed", summary.Elapsed).
		Msg("import completed")

	return summary, nil
}
