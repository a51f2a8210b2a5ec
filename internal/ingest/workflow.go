package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"showdrop/internal/catalog"
	"showdrop/internal/identifier"
	"showdrop/internal/logging"
	"showdrop/internal/notify"
)

// Outcome classifies the result of processing one upload.
type Outcome int

const (
	// Stored means a new episode record was created.
	Stored Outcome = iota
	// Duplicate means the derived code already exists; the original record
	// was left untouched and the upload ignored.
	Duplicate
	// Failed means the episode could not be recorded; Err holds the cause.
	Failed
)

// Result reports what happened to a single upload.
type Result struct {
	Code    string
	Outcome Outcome
	Err     error
}

// Workflow turns channel uploads into catalog records. Persistence failures
// are pushed to the operator so a silent gap in the catalog never goes
// unnoticed.
type Workflow struct {
	store    *catalog.Store
	notifier notify.Service
	logger   *slog.Logger
}

// NewWorkflow wires the ingest workflow.
func NewWorkflow(store *catalog.Store, notifier notify.Service, logger *slog.Logger) *Workflow {
	return &Workflow{
		store:    store,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "ingest"),
	}
}

// Ingest derives the canonical code for an upload and records the mapping to
// its channel message. Notification failures never change the outcome.
func (w *Workflow) Ingest(ctx context.Context, sourceTitle string, messageID int64) Result {
	logger := logging.WithContext(ctx, w.logger)

	code := identifier.Derive(sourceTitle)
	if code == "" {
		err := fmt.Errorf("no identifying tokens in %q", sourceTitle)
		logger.Error("upload rejected", logging.String("source_title", sourceTitle), logging.Error(err))
		w.notifyIngestFailed(ctx, logger, sourceTitle, err)
		return Result{Outcome: Failed, Err: err}
	}

	components := identifier.Parse(code)
	if components.Slug == "" {
		// Nothing but numeric markers survived derivation. The code is still
		// usable, but collisions across shows become likely.
		logger.Warn("degenerate code derived",
			logging.String(logging.FieldCode, code),
			logging.String("source_title", sourceTitle),
		)
	}

	ep := &catalog.Episode{
		Code:        code,
		SourceTitle: sourceTitle,
		Quality:     components.Quality,
		MessageID:   messageID,
	}
	if components.Season > 0 {
		season := components.Season
		ep.Season = &season
	}
	if components.Episode >= 0 {
		episode := components.Episode
		ep.Episode = &episode
	}

	err := w.store.Put(ctx, ep)
	switch {
	case errors.Is(err, catalog.ErrDuplicate):
		logger.Warn("duplicate upload ignored",
			logging.String(logging.FieldCode, code),
			logging.String("source_title", sourceTitle),
		)
		if notifyErr := w.notifier.NotifyDuplicateUpload(ctx, code, sourceTitle); notifyErr != nil {
			logger.Warn("duplicate notification failed", logging.Error(notifyErr))
		}
		return Result{Code: code, Outcome: Duplicate, Err: err}
	case err != nil:
		logger.Error("episode store failed",
			logging.String(logging.FieldCode, code),
			logging.String("source_title", sourceTitle),
			logging.Error(err),
		)
		w.notifyIngestFailed(ctx, logger, sourceTitle, err)
		return Result{Code: code, Outcome: Failed, Err: err}
	}

	logger.Info("episode stored",
		logging.String(logging.FieldCode, code),
		logging.String("source_title", sourceTitle),
		logging.Int64(logging.FieldMessageID, messageID),
	)
	if notifyErr := w.notifier.NotifyEpisodeStored(ctx, code, sourceTitle); notifyErr != nil {
		logger.Warn("stored notification failed", logging.Error(notifyErr))
	}
	return Result{Code: code, Outcome: Stored}
}

func (w *Workflow) notifyIngestFailed(ctx context.Context, logger *slog.Logger, sourceTitle string, cause error) {
	if err := w.notifier.NotifyIngestFailed(ctx, sourceTitle, cause); err != nil {
		logger.Warn("failure notification failed", logging.Error(err))
	}
}
