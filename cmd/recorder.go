package main

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/repositories"
	"github.com/desertthunder/pdfparts/internal/shared"
	"github.com/desertthunder/pdfparts/internal/tasks"
)

// recorder persists runs and their events. A nil recorder records nothing.
type recorder struct {
	db     *sql.DB
	runs   *repositories.RunRepository
	events *repositories.EventRepository
	logger *log.Logger
}

func openRecorder(cfg shared.DatabaseConfig, logger *log.Logger) (*recorder, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	db, err := shared.OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}

	return &recorder{
		db:     db,
		runs:   repositories.NewRunRepository(db),
		events: repositories.NewEventRepository(db),
		logger: logger,
	}, nil
}

// start records a running run. Failures are logged and leave the run unrecorded.
func (rec *recorder) start(opts tasks.Options) *models.Run {
	if rec == nil {
		return nil
	}

	run := models.NewRun(opts.IndexPath, opts.PartsDir)
	if err := rec.runs.Create(run); err != nil {
		rec.logger.Warn("failed to record run", "error", err)
		return nil
	}
	rec.logger.Debug("recording run", "run", run.Sequence())
	return run
}

// finish stores the outcome of run: the counters and events of result, or the fatal error.
func (rec *recorder) finish(run *models.Run, result *tasks.RunResult, runErr error) {
	if rec == nil || run == nil {
		return
	}

	if runErr != nil {
		run.Finish(models.RunFailed, runErr.Error())
	} else {
		sum := result.Summary
		run.Songs = sum.Songs
		run.Copied = len(sum.Copies)
		run.Bytes = sum.Bytes()
		run.Warnings = sum.WarningCount()
		run.Errors = sum.ErrorCount()
		run.Finish(sum.Status(), "")

		if err := rec.events.CreateBatch(run.ID(), runEvents(sum)); err != nil {
			rec.logger.Warn("failed to record run events", "run", run.Sequence(), "error", err)
		}
	}

	if err := rec.runs.Update(run); err != nil {
		rec.logger.Warn("failed to record run outcome", "run", run.Sequence(), "error", err)
	}
}

func (rec *recorder) Close() error {
	if rec == nil {
		return nil
	}
	if err := rec.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func runEvents(sum tasks.Summary) []models.RunEvent {
	events := make([]models.RunEvent, 0, len(sum.Events))
	for _, e := range sum.Events {
		events = append(events, models.RunEvent{Level: e.Level, Song: e.Song, Part: e.Part, Message: e.Message})
	}
	return events
}
