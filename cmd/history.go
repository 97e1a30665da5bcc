package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/pdfparts/internal/models"
	"github.com/desertthunder/pdfparts/internal/shared"
	"github.com/desertthunder/pdfparts/internal/ui"
	"github.com/urfave/cli/v3"
)

// runView is the JSON shape of a recorded run.
type runView struct {
	ID         string            `json:"id"`
	Sequence   int               `json:"sequence"`
	Status     models.RunStatus  `json:"status"`
	IndexPath  string            `json:"index"`
	OutputRoot string            `json:"parts"`
	Songs      int               `json:"songs"`
	Copied     int               `json:"copied"`
	Bytes      int64             `json:"bytes"`
	Warnings   int               `json:"warnings"`
	Errors     int               `json:"errors"`
	Message    string            `json:"message,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
	Events     []models.RunEvent `json:"events,omitempty"`
}

func newRunView(run *models.Run) runView {
	return runView{
		ID:         run.ID(),
		Sequence:   run.Sequence(),
		Status:     run.Status,
		IndexPath:  run.IndexPath,
		OutputRoot: run.OutputRoot,
		Songs:      run.Songs,
		Copied:     run.Copied,
		Bytes:      run.Bytes,
		Warnings:   run.Warnings,
		Errors:     run.Errors,
		Message:    run.Message,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}

// History lists recorded runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	rec, err := r.openHistory()
	if err != nil {
		return err
	}
	defer rec.Close()

	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if status := cmd.String("status"); status != "" {
		criteria["status"] = status
	}

	runs, err := rec.runs.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]runView, 0, len(runs))
		for _, run := range runs {
			views = append(views, newRunView(run))
		}
		return r.writeJSON(views, true)
	}

	if len(runs) == 0 {
		r.writePlain("No runs recorded yet.\n")
		return nil
	}

	r.writePlain("%s\n", ui.RenderRuns(r.palette, runs))
	return nil
}

// HistoryShow prints one recorded run with its warnings and errors.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	rec, err := r.openHistory()
	if err != nil {
		return err
	}
	defer rec.Close()

	var run *models.Run
	if arg := cmd.StringArg("run"); arg != "" {
		seq, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%w: run must be a number, got %q", shared.ErrInvalidArgument, arg)
		}
		run, err = rec.runs.GetBySequence(seq)
		if err != nil {
			return fmt.Errorf("run #%d: %w", seq, err)
		}
	} else if run, err = rec.runs.Latest(); err != nil {
		return err
	}

	events, err := rec.events.ListByRun(run.ID(), "")
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		view := newRunView(run)
		view.Events = events
		return r.writeJSON(view, true)
	}

	r.writePlain("%s\n", r.palette.Title(fmt.Sprintf("Run #%d", run.Sequence())) + " " + r.palette.RunStatus(run.Status))
	r.writePlain("Started:  %s (%s)\n", run.StartedAt.Format(time.RFC3339), ui.Since(run.StartedAt))
	r.writePlain("Index:    %s\n", run.IndexPath)
	r.writePlain("Parts:    %s\n", run.OutputRoot)
	r.writePlain("Copied:   %d file(s), %s, from %d song(s)\n", run.Copied, ui.Bytes(run.Bytes), run.Songs)
	r.writePlain("%d Warning(s), %d Error(s)\n", run.Warnings, run.Errors)
	if run.Message != "" {
		r.writePlain("Message:  %s\n", run.Message)
	}

	if len(events) > 0 {
		r.writePlain("\n")
		for _, e := range events {
			if e.Level == models.LevelError {
				r.writePlain("%s %s\n", r.palette.Error("ERROR"), e.Message)
			} else {
				r.writePlain("%s %s\n", r.palette.Warn("WARN "), e.Message)
			}
		}
	}
	return nil
}

func (r *Runner) openHistory() (*recorder, error) {
	if !r.config.Database.Enabled {
		return nil, fmt.Errorf("%w: run history is disabled (database.enabled = false)", shared.ErrMissingConfig)
	}
	return openRecorder(r.config.Database, r.logger)
}
