package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/pdfparts/internal/formatter"
	"github.com/desertthunder/pdfparts/internal/shared"
	"github.com/desertthunder/pdfparts/internal/tasks"
	"github.com/desertthunder/pdfparts/internal/ui"
	"github.com/gofrs/flock"
	"github.com/urfave/cli/v3"
)

// Run performs one full indexing run.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.runOptions(cmd)
	if err != nil {
		return err
	}

	rec, err := openRecorder(r.config.Database, r.logger)
	if err != nil {
		return err
	}
	defer rec.Close()

	result, err := r.execute(ctx, opts, rec, cmd.Bool("progress"))
	if err != nil {
		return err
	}

	return r.report(result, cmd.String("report"), cmd.Bool("events"))
}

// runOptions maps the config and the command's flags to indexer options; flags win.
func (r *Runner) runOptions(cmd *cli.Command) (tasks.Options, error) {
	opts := tasks.OptionsFromConfig(r.config)

	for flag, dst := range map[string]*string{
		"index":  &opts.IndexPath,
		"songs":  &opts.SongsDir,
		"parts":  &opts.PartsDir,
		"backup": &opts.BackupDir,
	} {
		if cmd.IsSet(flag) {
			path, err := filepath.Abs(cmd.String(flag))
			if err != nil {
				return opts, fmt.Errorf("%w: --%s: %v", shared.ErrInvalidFlag, flag, err)
			}
			*dst = path
		}
	}

	if cmd.Bool("no-backup") {
		opts.BackupDir = ""
	}

	if cmd.IsSet("workers") {
		workers := int(cmd.Int("workers"))
		if workers < 1 {
			return opts, fmt.Errorf("%w: --workers must be at least 1", shared.ErrInvalidFlag)
		}
		opts.Workers = workers
	}

	if cmd.Bool("verify") {
		opts.VerifyCopy = true
		opts.VerifyPDF = true
	}

	return opts, nil
}

// execute runs the indexer once under the output lock and records the outcome.
func (r *Runner) execute(ctx context.Context, opts tasks.Options, rec *recorder, showProgress bool) (*tasks.RunResult, error) {
	unlock, err := r.lock(opts.PartsDir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ix, err := tasks.NewIndexer(opts, r.logger)
	if err != nil {
		return nil, err
	}

	run := rec.start(opts)

	var (
		progress chan tasks.ProgressUpdate
		wg       sync.WaitGroup
	)
	if showProgress {
		progress = make(chan tasks.ProgressUpdate, 50)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for update := range progress {
				r.writePlain("%s\n", ui.RenderProgress(r.palette, update))
			}
		}()
	}

	r.logger.Info("starting run", "index", opts.IndexPath, "parts", opts.PartsDir, "songs", opts.SongsDir)
	result, err := ix.Run(ctx, progress)
	if progress != nil {
		close(progress)
		wg.Wait()
	}

	rec.finish(run, result, err)
	if err != nil {
		return nil, err
	}

	r.logger.Info("run finished",
		"copied", len(result.Summary.Copies),
		"warnings", result.Summary.WarningCount(),
		"errors", result.Summary.ErrorCount(),
		"duration", result.Duration())
	return result, nil
}

// report prints the summary and writes the optional report file.
func (r *Runner) report(result *tasks.RunResult, reportPath string, listEvents bool) error {
	r.writePlain("\n%s", ui.RenderSummary(r.palette, result))

	if listEvents && len(result.Summary.Events) > 0 {
		r.writePlain("\n%s", ui.RenderEvents(r.palette, result.Summary.Events))
	}

	if reportPath != "" {
		if err := formatter.WriteReport(result, reportPath); err != nil {
			return err
		}
		r.logger.Info("report written", "path", reportPath)
	}
	return nil
}

// lock takes the run lock for partsDir when run.lock is on. The returned func releases it.
func (r *Runner) lock(partsDir string) (func(), error) {
	if !r.config.Run.Lock {
		return func() {}, nil
	}

	path := filepath.Clean(partsDir) + ".lock"
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrRunLocked, path)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", "path", path, "error", err)
		}
	}, nil
}
